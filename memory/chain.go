package memory

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"strings"
)

// Value is the set of fixed-size types that a PointerChain can
// read and write.
type Value interface {
	~bool | ~int8 | ~uint8 | ~int16 | ~uint16 | ~int32 | ~uint32 |
		~int64 | ~uint64 | ~float32 | ~float64
}

// NewPointerChain creates a PointerChain that starts at root.
//
// Every offset except the last is added to the current address,
// and the pointer stored at the resulting address becomes the new
// current address. The last offset is added to the current address
// to locate the value. With no offsets, the value is at root.
func NewPointerChain[T Value](space Space, root uintptr, offsets ...uintptr) PointerChain[T] {
	cp := make([]uintptr, len(offsets))
	copy(cp, offsets)

	return PointerChain[T]{
		space:   space,
		root:    root,
		offsets: cp,
	}
}

// PointerChain reads and writes a value of type T that is reachable
// from a root address by following pointers.
//
// A PointerChain is immutable and is re-evaluated on every access.
type PointerChain[T Value] struct {
	space   Space
	root    uintptr
	offsets []uintptr
}

// Address follows the chain and returns the address of the value.
// ErrBrokenChain is returned if a pointer along the way is null or
// if it cannot be read.
func (o PointerChain[T]) Address() (uintptr, error) {
	if len(o.offsets) == 0 {
		return o.root, nil
	}

	pm, err := PointerMakerForSpace(o.space)
	if err != nil {
		return 0, err
	}

	current := o.root
	raw := make([]byte, pm.Size())
	last := len(o.offsets) - 1

	for i, offset := range o.offsets[:last] {
		addr := current + offset

		err := o.space.ReadAt(addr, raw)
		if err != nil {
			return 0, fmt.Errorf("%w: failed to read pointer %d at 0x%x - %w",
				ErrBrokenChain, i, addr, err)
		}

		ptr, err := pm.FromBytes(raw)
		if err != nil {
			return 0, err
		}

		if ptr.IsNull() {
			return 0, fmt.Errorf("%w: pointer %d at 0x%x is null", ErrBrokenChain, i, addr)
		}

		current = ptr.Uint()
	}

	return current + o.offsets[last], nil
}

// Read follows the chain and reads the value.
func (o PointerChain[T]) Read() (T, error) {
	var value T

	addr, err := o.Address()
	if err != nil {
		return value, err
	}

	raw := make([]byte, binary.Size(value))

	err = o.space.ReadAt(addr, raw)
	if err != nil {
		return value, fmt.Errorf("%w: failed to read value at 0x%x - %w", ErrBrokenChain, addr, err)
	}

	err = binary.Read(bytes.NewReader(raw), binary.LittleEndian, &value)
	if err != nil {
		return value, fmt.Errorf("failed to decode value - %w", err)
	}

	return value, nil
}

// Write follows the chain and writes value. Nothing is written
// if the chain is broken.
func (o PointerChain[T]) Write(value T) error {
	addr, err := o.Address()
	if err != nil {
		return err
	}

	buf := bytes.NewBuffer(make([]byte, 0, binary.Size(value)))

	err = binary.Write(buf, binary.LittleEndian, value)
	if err != nil {
		return fmt.Errorf("failed to encode value - %w", err)
	}

	err = o.space.WriteAt(addr, buf.Bytes())
	if err != nil {
		return fmt.Errorf("%w: failed to write value at 0x%x - %w", ErrBrokenChain, addr, err)
	}

	return nil
}

// Update reads the value, writes the result of fn, and returns
// the new value.
func (o PointerChain[T]) Update(fn func(T) T) (T, error) {
	current, err := o.Read()
	if err != nil {
		return current, err
	}

	next := fn(current)

	err = o.Write(next)
	if err != nil {
		return current, err
	}

	return next, nil
}

// Equal returns true if both chains have the same root and offsets.
func (o PointerChain[T]) Equal(other PointerChain[T]) bool {
	if o.root != other.root || len(o.offsets) != len(other.offsets) {
		return false
	}

	for i := range o.offsets {
		if o.offsets[i] != other.offsets[i] {
			return false
		}
	}

	return true
}

func (o PointerChain[T]) Root() uintptr {
	return o.root
}

// Offsets returns a copy of the chain's offsets.
func (o PointerChain[T]) Offsets() []uintptr {
	cp := make([]uintptr, len(o.offsets))
	copy(cp, o.offsets)
	return cp
}

func (o PointerChain[T]) Space() Space {
	return o.space
}

func (o PointerChain[T]) String() string {
	b := strings.Builder{}
	b.WriteString(fmt.Sprintf("0x%x", o.root))

	for _, offset := range o.offsets {
		b.WriteString(fmt.Sprintf(" -> 0x%x", offset))
	}

	return b.String()
}
