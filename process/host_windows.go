package process

import (
	"fmt"
	"path/filepath"
	"unsafe"

	"golang.org/x/sys/windows"
)

// HostModule returns the main module of the current process.
func HostModule() (Module, error) {
	var handle windows.Handle

	err := windows.GetModuleHandleEx(0, nil, &handle)
	if err != nil {
		return Module{}, fmt.Errorf("failed to get handle of main module - %w", err)
	}
	defer windows.FreeLibrary(handle)

	buf := make([]uint16, windows.MAX_LONG_PATH)

	n, err := windows.GetModuleFileName(handle, &buf[0], uint32(len(buf)))
	if err != nil {
		return Module{}, fmt.Errorf("failed to get file name of main module - %w", err)
	}

	path := windows.UTF16ToString(buf[:n])

	var info windows.ModuleInfo

	err = windows.GetModuleInformation(windows.CurrentProcess(), handle, &info, uint32(unsafe.Sizeof(info)))
	if err != nil {
		return Module{}, fmt.Errorf("failed to get information about main module - %w", err)
	}

	return Module{
		Name: filepath.Base(path),
		Path: path,
		Base: uintptr(handle),
		Size: info.SizeOfImage,
	}, nil
}
