package memory

import (
	"fmt"
)

// NewBuffer returns a *Buffer with data mapped at base in
// a 64-bit address space.
func NewBuffer(base uintptr, data []byte) *Buffer {
	return &Buffer{
		Base:    base,
		Data:    data,
		PtrSize: 8,
	}
}

// Buffer is an address space consisting of one contiguous mapping,
// such as a snapshot of a module. Accesses outside of the mapping
// fail with ErrUnmapped.
type Buffer struct {
	Base    uintptr
	Data    []byte
	PtrSize int
}

func (o *Buffer) ReadAt(addr uintptr, p []byte) error {
	off, err := o.offset(addr, len(p))
	if err != nil {
		return err
	}

	copy(p, o.Data[off:])

	return nil
}

func (o *Buffer) WriteAt(addr uintptr, p []byte) error {
	off, err := o.offset(addr, len(p))
	if err != nil {
		return err
	}

	copy(o.Data[off:], p)

	return nil
}

func (o *Buffer) PointerSizeBytes() int {
	return o.PtrSize
}

// End returns the address immediately after the mapping.
func (o *Buffer) End() uintptr {
	return o.Base + uintptr(len(o.Data))
}

func (o *Buffer) offset(addr uintptr, n int) (int, error) {
	if addr < o.Base || addr+uintptr(n) < addr || addr+uintptr(n) > o.End() {
		return 0, fmt.Errorf("%w: [0x%x, 0x%x) is outside of [0x%x, 0x%x)",
			ErrUnmapped, addr, addr+uintptr(n), o.Base, o.End())
	}

	return int(addr - o.Base), nil
}
