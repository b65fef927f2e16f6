package memory

import (
	"fmt"
	"unsafe"
)

// Local is the address space of the current process. It is meant
// for code running inside of the target process.
//
// Reads and writes at a mapped but inaccessible address fault.
// Only the null page is detected.
type Local struct{}

func (o Local) ReadAt(addr uintptr, p []byte) error {
	err := checkLocal(addr, len(p))
	if err != nil {
		return err
	}

	copy(p, unsafe.Slice((*byte)(unsafe.Pointer(addr)), len(p)))

	return nil
}

func (o Local) WriteAt(addr uintptr, p []byte) error {
	err := checkLocal(addr, len(p))
	if err != nil {
		return err
	}

	copy(unsafe.Slice((*byte)(unsafe.Pointer(addr)), len(p)), p)

	return nil
}

func (o Local) PointerSizeBytes() int {
	return int(unsafe.Sizeof(uintptr(0)))
}

const nullPageSize = 0x10000

func checkLocal(addr uintptr, n int) error {
	if addr < nullPageSize {
		return fmt.Errorf("%w: 0x%x", ErrUnmapped, addr)
	}

	if addr+uintptr(n) < addr {
		return fmt.Errorf("%w: 0x%x + %d wraps around", ErrUnmapped, addr, n)
	}

	return nil
}
