package process

import (
	"errors"
	"fmt"
	"strings"
	"time"
	"unsafe"

	"github.com/apex/log"
	"golang.org/x/sys/windows"
)

const (
	pageSize = 0x1000

	snapshotAttempts = 10
)

// modules lists the modules of a process using a Toolhelp32
// snapshot. The first module is the executable itself.
func modules(pid uint32) ([]Module, error) {
	var snapshot windows.Handle
	var err error

	// A snapshot of a process that is still being initialized
	// can fail with ERROR_BAD_LENGTH, in which case it is retried.
	for i := 0; i < snapshotAttempts; i++ {
		snapshot, err = windows.CreateToolhelp32Snapshot(
			windows.TH32CS_SNAPMODULE|windows.TH32CS_SNAPMODULE32, pid)
		if err == nil || !errors.Is(err, windows.ERROR_BAD_LENGTH) {
			break
		}

		time.Sleep(50 * time.Millisecond)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to create module snapshot of process %d - %w", pid, err)
	}
	defer windows.CloseHandle(snapshot)

	entry := windows.ModuleEntry32{}
	entry.Size = uint32(unsafe.Sizeof(entry))

	err = windows.Module32First(snapshot, &entry)
	if err != nil {
		return nil, fmt.Errorf("failed to get first module of process %d - %w", pid, err)
	}

	var mods []Module

	for {
		mods = append(mods, Module{
			Name: windows.UTF16ToString(entry.Module[:]),
			Path: windows.UTF16ToString(entry.ExePath[:]),
			Base: entry.ModBaseAddr,
			Size: entry.ModBaseSize,
		})

		err = windows.Module32Next(snapshot, &entry)
		if err != nil {
			if errors.Is(err, windows.ERROR_NO_MORE_FILES) {
				return mods, nil
			}

			return nil, fmt.Errorf("failed to get next module of process %d - %w", pid, err)
		}
	}
}

func findModule(pid uint32, name string) (Module, error) {
	mods, err := modules(pid)
	if err != nil {
		return Module{}, err
	}

	for _, mod := range mods {
		if strings.EqualFold(mod.Name, name) {
			return mod, nil
		}
	}

	return Module{}, fmt.Errorf("%w: '%s' in process %d", ErrModuleNotFound, name, pid)
}

// readModule copies a module out of a process. If the module cannot
// be read in one go, it is read one page at a time and unreadable
// pages are left zeroed.
func readModule(process windows.Handle, mod Module) ([]byte, error) {
	size := uintptr(mod.Size)
	if size == 0 {
		return nil, fmt.Errorf("module %s has a size of zero", mod.Name)
	}

	data := make([]byte, size)

	var n uintptr
	err := windows.ReadProcessMemory(process, mod.Base, &data[0], size, &n)
	if err == nil && n == size {
		return data, nil
	}

	pagesFailed := 0
	pagesTotal := 0
	var lastErr error

	for offset := uintptr(0); offset < size; offset += pageSize {
		readSize := min(uintptr(pageSize), size-offset)
		pagesTotal++

		err := windows.ReadProcessMemory(process, mod.Base+offset, &data[offset], readSize, nil)
		if err != nil {
			pagesFailed++
			lastErr = err
		}
	}

	if pagesFailed == pagesTotal {
		return nil, fmt.Errorf("failed to read any page of module %s - %w", mod.Name, lastErr)
	}

	log.WithFields(log.Fields{
		"module": mod.Name,
		"failed": pagesFailed,
		"total":  pagesTotal,
	}).Warn("module was read page by page")

	return data, nil
}
