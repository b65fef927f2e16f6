package process

import (
	"fmt"

	"golang.org/x/sys/windows"

	"gitlab.com/stephen-fox/memkit/memory"
)

const remoteAccess = windows.PROCESS_VM_READ | windows.PROCESS_VM_WRITE |
	windows.PROCESS_VM_OPERATION | windows.PROCESS_QUERY_INFORMATION

// OpenRemoteOrExit calls OpenRemote, invoking DefaultExitFn if
// an error occurs.
func OpenRemoteOrExit(pid uint32) *RemoteSpace {
	space, err := OpenRemote(pid)
	if err != nil {
		DefaultExitFn(fmt.Errorf("failed to open process %d - %w", pid, err))
	}
	return space
}

// OpenRemote opens the address space of another process.
func OpenRemote(pid uint32) (*RemoteSpace, error) {
	handle, err := windows.OpenProcess(remoteAccess, false, pid)
	if err != nil {
		return nil, fmt.Errorf("failed to open process %d - %w", pid, err)
	}

	ptrSize := 8

	var isWow64 bool
	err = windows.IsWow64Process(handle, &isWow64)
	if err == nil && isWow64 {
		ptrSize = 4
	}

	return &RemoteSpace{
		handle:  handle,
		pid:     pid,
		ptrSize: ptrSize,
	}, nil
}

// RemoteSpace is the address space of another process. Failed
// reads and writes are reported as memory.ErrUnmapped.
type RemoteSpace struct {
	handle  windows.Handle
	pid     uint32
	ptrSize int
}

func (o *RemoteSpace) ReadAt(addr uintptr, p []byte) error {
	if len(p) == 0 {
		return nil
	}

	var n uintptr
	err := windows.ReadProcessMemory(o.handle, addr, &p[0], uintptr(len(p)), &n)
	if err != nil || n != uintptr(len(p)) {
		return fmt.Errorf("%w: read %d of %d bytes at 0x%x in process %d - %v",
			memory.ErrUnmapped, n, len(p), addr, o.pid, err)
	}

	return nil
}

func (o *RemoteSpace) WriteAt(addr uintptr, p []byte) error {
	if len(p) == 0 {
		return nil
	}

	var n uintptr
	err := windows.WriteProcessMemory(o.handle, addr, &p[0], uintptr(len(p)), &n)
	if err != nil || n != uintptr(len(p)) {
		return fmt.Errorf("%w: wrote %d of %d bytes at 0x%x in process %d - %v",
			memory.ErrUnmapped, n, len(p), addr, o.pid, err)
	}

	return nil
}

func (o *RemoteSpace) PointerSizeBytes() int {
	return o.ptrSize
}

// PID returns the process' ID.
func (o *RemoteSpace) PID() uint32 {
	return o.pid
}

// MainModule returns the process' executable module.
func (o *RemoteSpace) MainModule() (Module, error) {
	mods, err := modules(o.pid)
	if err != nil {
		return Module{}, err
	}

	if len(mods) == 0 {
		return Module{}, fmt.Errorf("%w: process %d has no modules", ErrModuleNotFound, o.pid)
	}

	return mods[0], nil
}

// Snapshot copies the process' executable module.
func (o *RemoteSpace) Snapshot() (*ModuleSnapshot, error) {
	mod, err := o.MainModule()
	if err != nil {
		return nil, err
	}

	data, err := readModule(o.handle, mod)
	if err != nil {
		return nil, err
	}

	return &ModuleSnapshot{
		Name: mod.Name,
		Path: mod.Path,
		Base: mod.Base,
		Data: data,
	}, nil
}

func (o *RemoteSpace) Close() error {
	return windows.CloseHandle(o.handle)
}
