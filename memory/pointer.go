package memory

import (
	"encoding/binary"
	"fmt"
)

func PointerMakerForX86_32() PointerMaker {
	return PointerMaker{
		byteOrder: binary.LittleEndian,
		bits:      32,
		ptrSize:   4,
	}
}

func PointerMakerForX86_64() PointerMaker {
	return PointerMaker{
		byteOrder: binary.LittleEndian,
		bits:      64,
		ptrSize:   8,
	}
}

// PointerMakerForSpace returns the PointerMaker for an x86
// address space with the specified Space's pointer size.
func PointerMakerForSpace(space Space) (PointerMaker, error) {
	size := space.PointerSizeBytes()
	return PointerMakerFor(binary.LittleEndian, size*8, size)
}

func PointerMakerForOrExit(endianness binary.ByteOrder, bits int, pointerSize int) PointerMaker {
	pm, err := PointerMakerFor(endianness, bits, pointerSize)
	if err != nil {
		DefaultExitFn(fmt.Errorf("failed to create pointer maker - %w", err))
	}
	return pm
}

func PointerMakerFor(endianness binary.ByteOrder, bits int, pointerSize int) (PointerMaker, error) {
	if endianness == nil {
		return PointerMaker{}, fmt.Errorf("endianness cannot be nil")
	}

	switch bits {
	case 16, 32, 64:
	default:
		return PointerMaker{}, fmt.Errorf("unsupported pointer bits: %d", bits)
	}

	if pointerSize*8 < bits {
		return PointerMaker{}, fmt.Errorf("pointer size of %d bytes cannot hold %d bits",
			pointerSize, bits)
	}

	return PointerMaker{
		byteOrder: endianness,
		bits:      bits,
		ptrSize:   pointerSize,
	}, nil
}

// PointerMaker encodes and decodes pointers for a platform.
type PointerMaker struct {
	byteOrder binary.ByteOrder
	bits      int
	ptrSize   int
}

// Size returns the size of a pointer in bytes.
func (o PointerMaker) Size() int {
	return o.ptrSize
}

func (o PointerMaker) FromUint(address uintptr) Pointer {
	out := make([]byte, o.ptrSize)
	switch o.bits {
	case 16:
		o.byteOrder.PutUint16(out, uint16(address))
	case 32:
		o.byteOrder.PutUint32(out, uint32(address))
	case 64:
		o.byteOrder.PutUint64(out, uint64(address))
	default:
		panic(fmt.Sprintf("unsupported bits: %d", o.bits))
	}

	return Pointer{
		raw:   out,
		order: o.byteOrder,
		bits:  o.bits,
	}
}

// FromBytes decodes a pointer from its in-memory representation.
func (o PointerMaker) FromBytes(b []byte) (Pointer, error) {
	if len(b) != o.ptrSize {
		return Pointer{}, fmt.Errorf("pointer must be %d bytes - got %d", o.ptrSize, len(b))
	}

	raw := make([]byte, o.ptrSize)
	copy(raw, b)

	return Pointer{
		raw:   raw,
		order: o.byteOrder,
		bits:  o.bits,
	}, nil
}

type Pointer struct {
	raw   []byte
	order binary.ByteOrder
	bits  int
}

func (o Pointer) Bytes() []byte {
	return o.raw
}

func (o Pointer) Uint() uintptr {
	switch o.bits {
	case 16:
		return uintptr(o.order.Uint16(o.raw))
	case 32:
		return uintptr(o.order.Uint32(o.raw))
	case 64:
		return uintptr(o.order.Uint64(o.raw))
	default:
		return 0
	}
}

func (o Pointer) IsNull() bool {
	return o.Uint() == 0
}

func (o Pointer) HexString() string {
	return fmt.Sprintf("0x%x", o.Uint())
}
