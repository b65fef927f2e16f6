package process

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"runtime"
	"time"
	"unsafe"

	"github.com/apex/log"
	"golang.org/x/sys/windows"
)

const (
	debugProcess    = 0x00000001
	detachedProcess = 0x00000008

	dbgContinue            = 0x00010002
	dbgExceptionNotHandled = 0x80010001

	exceptionDebugEvent     = 1
	createThreadDebugEvent  = 2
	createProcessDebugEvent = 3
	exitProcessDebugEvent   = 5
	loadDllDebugEvent       = 6

	exceptionBreakpoint = 0x80000003

	drainTimeout = 5 * time.Second
)

var (
	kernel32                      = windows.NewLazySystemDLL("kernel32.dll")
	procWaitForDebugEventEx       = kernel32.NewProc("WaitForDebugEventEx")
	procContinueDebugEvent        = kernel32.NewProc("ContinueDebugEvent")
	procDebugSetProcessKillOnExit = kernel32.NewProc("DebugSetProcessKillOnExit")
)

// debugEvent is the x86-64 layout of DEBUG_EVENT. The union is
// 8-byte aligned, hence the padding after the thread ID.
type debugEvent struct {
	Code      uint32
	ProcessID uint32
	ThreadID  uint32
	_         uint32
	U         [160]byte
}

// fileHandle returns the hFile member of CREATE_PROCESS_DEBUG_INFO
// and LOAD_DLL_DEBUG_INFO, which are both at the start of the union.
func (o *debugEvent) fileHandle() windows.Handle {
	return *(*windows.Handle)(unsafe.Pointer(&o.U[0]))
}

func (o *debugEvent) exceptionCode() uint32 {
	return *(*uint32)(unsafe.Pointer(&o.U[0]))
}

// debuggee is a process started under the debugger. The thread
// that created it must be the one that waits for its events.
type debuggee struct {
	info   windows.ProcessInformation
	exited bool
	done   func()
}

func launchSnapshot(ctx context.Context, exePath string, config launchConfig) (*ModuleSnapshot, error) {
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()

	exePath, err := filepath.Abs(exePath)
	if err != nil {
		return nil, fmt.Errorf("failed to get absolute path of executable - %w", err)
	}

	moduleName := config.moduleName
	if moduleName == "" {
		moduleName = filepath.Base(exePath)
	}

	logger := log.WithFields(log.Fields{
		"exe":    exePath,
		"module": moduleName,
	})

	proc, err := startDebuggee(exePath)
	if err != nil {
		return nil, err
	}
	defer proc.done()

	logger.WithField("pid", proc.info.ProcessId).Debug("started process under debugger")

	err = proc.waitForLoader(ctx, config.pollInterval)
	if err != nil {
		return nil, err
	}

	module, err := findModule(proc.info.ProcessId, moduleName)
	if err != nil {
		return nil, err
	}

	data, err := readModule(proc.info.Process, module)
	if err != nil {
		return nil, err
	}

	logger.Debugf("read %s", module)

	return &ModuleSnapshot{
		Name: module.Name,
		Path: exePath,
		Base: module.Base,
		Data: data,
	}, nil
}

func startDebuggee(exePath string) (*debuggee, error) {
	exePathPtr, err := windows.UTF16PtrFromString(exePath)
	if err != nil {
		return nil, err
	}

	workDirPtr, err := windows.UTF16PtrFromString(filepath.Dir(exePath))
	if err != nil {
		return nil, err
	}

	startupInfo := windows.StartupInfo{}
	startupInfo.Cb = uint32(unsafe.Sizeof(startupInfo))

	proc := &debuggee{}

	err = windows.CreateProcess(
		exePathPtr,
		nil,
		nil,
		nil,
		false,
		debugProcess|detachedProcess,
		nil,
		workDirPtr,
		&startupInfo,
		&proc.info)
	if err != nil {
		return nil, fmt.Errorf("%w: '%s' - %w", ErrProcessCreate, exePath, err)
	}

	procDebugSetProcessKillOnExit.Call(1)

	proc.done = func() {
		if !proc.exited {
			windows.TerminateProcess(proc.info.Process, 1)
			proc.drain()
		}

		windows.CloseHandle(proc.info.Thread)
		windows.CloseHandle(proc.info.Process)
	}

	return proc, nil
}

// waitForLoader services debug events until the first thread other
// than the main thread is created, at which point the loader has
// mapped the executable and its static imports.
func (o *debuggee) waitForLoader(ctx context.Context, pollInterval time.Duration) error {
	for {
		select {
		case <-ctx.Done():
			return fmt.Errorf("%w - %w", ErrLoaderTimeout, ctx.Err())
		default:
		}

		event, ok, err := waitForDebugEvent(pollInterval)
		if err != nil {
			return err
		}

		if !ok {
			continue
		}

		status := o.handle(event)

		err = continueDebugEvent(event, status)
		if err != nil {
			return err
		}

		switch event.Code {
		case createThreadDebugEvent:
			return nil
		case exitProcessDebugEvent:
			if event.ProcessID == o.info.ProcessId {
				o.exited = true
				return ErrProcessExited
			}
		}
	}
}

func (o *debuggee) handle(event *debugEvent) uint32 {
	switch event.Code {
	case createProcessDebugEvent, loadDllDebugEvent:
		if h := event.fileHandle(); h != 0 {
			windows.CloseHandle(h)
		}
	case exceptionDebugEvent:
		if event.exceptionCode() != exceptionBreakpoint {
			return dbgExceptionNotHandled
		}
	}

	return dbgContinue
}

// drain services debug events after the process was terminated so
// that it can finish exiting.
func (o *debuggee) drain() {
	deadline := time.Now().Add(drainTimeout)

	for time.Now().Before(deadline) {
		event, ok, err := waitForDebugEvent(100 * time.Millisecond)
		if err != nil {
			return
		}

		if !ok {
			continue
		}

		status := o.handle(event)
		_ = continueDebugEvent(event, status)

		if event.Code == exitProcessDebugEvent && event.ProcessID == o.info.ProcessId {
			o.exited = true
			return
		}
	}
}

func waitForDebugEvent(timeout time.Duration) (*debugEvent, bool, error) {
	event := &debugEvent{}

	r1, _, err := procWaitForDebugEventEx.Call(
		uintptr(unsafe.Pointer(event)),
		uintptr(timeout.Milliseconds()))
	if r1 == 0 {
		if errors.Is(err, windows.ERROR_SEM_TIMEOUT) {
			return nil, false, nil
		}

		return nil, false, fmt.Errorf("failed to wait for debug event - %w", err)
	}

	return event, true, nil
}

func continueDebugEvent(event *debugEvent, status uint32) error {
	r1, _, err := procContinueDebugEvent.Call(
		uintptr(event.ProcessID),
		uintptr(event.ThreadID),
		uintptr(status))
	if r1 == 0 {
		return fmt.Errorf("failed to continue debug event %d - %w", event.Code, err)
	}

	return nil
}
