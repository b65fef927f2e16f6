package memory

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

var (
	ErrInvalidChainSpec = errors.New("invalid chain spec")
)

const (
	TypeBool    = "bool"
	TypeInt8    = "i8"
	TypeUint8   = "u8"
	TypeInt16   = "i16"
	TypeUint16  = "u16"
	TypeInt32   = "i32"
	TypeUint32  = "u32"
	TypeInt64   = "i64"
	TypeUint64  = "u64"
	TypeFloat32 = "f32"
	TypeFloat64 = "f64"

	bitTypePrefix = "bit"
)

// ChainSpec is the textual description of a pointer chain or bit flag,
// for example:
//
//	WorldChrMan,0x18468,0x6b8:f32
//	ChrDbgFlags+0x3:bit0
//	0x7ff6a3c0a308,0x8,0x6c:u32
//
// The root is either a symbol name with an optional displacement,
// or an absolute hex address. The type defaults to u8.
type ChainSpec struct {
	Symbol       string
	Displacement uintptr
	Offsets      []uintptr
	Type         string

	// Bit is the bit index for a bit flag, or -1.
	Bit int
}

// ParseChainSpec parses the string form of a ChainSpec.
func ParseChainSpec(str string) (ChainSpec, error) {
	spec := ChainSpec{
		Type: TypeUint8,
		Bit:  -1,
	}

	chainStr, typeStr, hasType := strings.Cut(strings.TrimSpace(str), ":")
	if hasType {
		err := spec.setType(typeStr)
		if err != nil {
			return ChainSpec{}, err
		}
	}

	parts := strings.Split(chainStr, ",")

	rootStr := strings.TrimSpace(parts[0])
	if rootStr == "" {
		return ChainSpec{}, fmt.Errorf("%w: root is empty", ErrInvalidChainSpec)
	}

	symbol, dispStr, hasDisp := strings.Cut(rootStr, "+")
	if hasDisp {
		disp, err := parseUintptr(dispStr)
		if err != nil {
			return ChainSpec{}, fmt.Errorf("%w: displacement - %w", ErrInvalidChainSpec, err)
		}
		spec.Displacement = disp
	}

	if strings.HasPrefix(symbol, "0x") {
		addr, err := parseUintptr(symbol)
		if err != nil {
			return ChainSpec{}, fmt.Errorf("%w: root address - %w", ErrInvalidChainSpec, err)
		}
		spec.Displacement += addr
	} else {
		spec.Symbol = symbol
	}

	for i, offsetStr := range parts[1:] {
		offset, err := parseUintptr(strings.TrimSpace(offsetStr))
		if err != nil {
			return ChainSpec{}, fmt.Errorf("%w: offset %d - %w", ErrInvalidChainSpec, i, err)
		}

		spec.Offsets = append(spec.Offsets, offset)
	}

	return spec, nil
}

func (o *ChainSpec) setType(typeStr string) error {
	typeStr = strings.ToLower(strings.TrimSpace(typeStr))

	if strings.HasPrefix(typeStr, bitTypePrefix) {
		bit, err := strconv.ParseUint(strings.TrimPrefix(typeStr, bitTypePrefix), 10, 8)
		if err != nil || bit > 7 {
			return fmt.Errorf("%w: %w: %q", ErrInvalidChainSpec, ErrInvalidBit, typeStr)
		}

		o.Type = TypeUint8
		o.Bit = int(bit)

		return nil
	}

	switch typeStr {
	case TypeBool, TypeInt8, TypeUint8, TypeInt16, TypeUint16, TypeInt32,
		TypeUint32, TypeInt64, TypeUint64, TypeFloat32, TypeFloat64:
		o.Type = typeStr
		return nil
	default:
		return fmt.Errorf("%w: unknown type %q", ErrInvalidChainSpec, typeStr)
	}
}

// IsBitFlag returns true if the chain spec describes a single bit.
func (o ChainSpec) IsBitFlag() bool {
	return o.Bit >= 0
}

// Root returns the chain's root address given the address of
// its symbol. symbolAddr is ignored for absolute roots.
func (o ChainSpec) Root(symbolAddr uintptr) uintptr {
	if o.Symbol == "" {
		return o.Displacement
	}

	return symbolAddr + o.Displacement
}

// ReadString reads the value described by the chain spec from space and
// returns its string form.
func (o ChainSpec) ReadString(space Space, root uintptr) (string, error) {
	if o.IsBitFlag() {
		flag, err := NewBitFlag(space, uint8(o.Bit), root, o.Offsets...)
		if err != nil {
			return "", err
		}

		on, err := flag.Read()
		if err != nil {
			return "", err
		}

		return strconv.FormatBool(on), nil
	}

	switch o.Type {
	case TypeBool:
		return readString[bool](space, root, o.Offsets)
	case TypeInt8:
		return readString[int8](space, root, o.Offsets)
	case TypeUint8:
		return readString[uint8](space, root, o.Offsets)
	case TypeInt16:
		return readString[int16](space, root, o.Offsets)
	case TypeUint16:
		return readString[uint16](space, root, o.Offsets)
	case TypeInt32:
		return readString[int32](space, root, o.Offsets)
	case TypeUint32:
		return readString[uint32](space, root, o.Offsets)
	case TypeInt64:
		return readString[int64](space, root, o.Offsets)
	case TypeUint64:
		return readString[uint64](space, root, o.Offsets)
	case TypeFloat32:
		return readString[float32](space, root, o.Offsets)
	case TypeFloat64:
		return readString[float64](space, root, o.Offsets)
	default:
		return "", fmt.Errorf("%w: unknown type %q", ErrInvalidChainSpec, o.Type)
	}
}

// WriteString parses valueStr according to the chain spec's type and
// writes it to space.
func (o ChainSpec) WriteString(space Space, root uintptr, valueStr string) error {
	if o.IsBitFlag() {
		on, err := strconv.ParseBool(valueStr)
		if err != nil {
			return err
		}

		flag, err := NewBitFlag(space, uint8(o.Bit), root, o.Offsets...)
		if err != nil {
			return err
		}

		return flag.Write(on)
	}

	switch o.Type {
	case TypeBool:
		v, err := strconv.ParseBool(valueStr)
		if err != nil {
			return err
		}
		return NewPointerChain[bool](space, root, o.Offsets...).Write(v)
	case TypeInt8, TypeInt16, TypeInt32, TypeInt64:
		bits := typeBits(o.Type)
		v, err := strconv.ParseInt(valueStr, 0, bits)
		if err != nil {
			return err
		}
		return writeInt(space, root, o.Offsets, bits, v)
	case TypeUint8, TypeUint16, TypeUint32, TypeUint64:
		bits := typeBits(o.Type)
		v, err := strconv.ParseUint(valueStr, 0, bits)
		if err != nil {
			return err
		}
		return writeUint(space, root, o.Offsets, bits, v)
	case TypeFloat32:
		v, err := strconv.ParseFloat(valueStr, 32)
		if err != nil {
			return err
		}
		return NewPointerChain[float32](space, root, o.Offsets...).Write(float32(v))
	case TypeFloat64:
		v, err := strconv.ParseFloat(valueStr, 64)
		if err != nil {
			return err
		}
		return NewPointerChain[float64](space, root, o.Offsets...).Write(v)
	default:
		return fmt.Errorf("%w: unknown type %q", ErrInvalidChainSpec, o.Type)
	}
}

func readString[T Value](space Space, root uintptr, offsets []uintptr) (string, error) {
	v, err := NewPointerChain[T](space, root, offsets...).Read()
	if err != nil {
		return "", err
	}

	return fmt.Sprint(v), nil
}

func writeInt(space Space, root uintptr, offsets []uintptr, bits int, v int64) error {
	switch bits {
	case 8:
		return NewPointerChain[int8](space, root, offsets...).Write(int8(v))
	case 16:
		return NewPointerChain[int16](space, root, offsets...).Write(int16(v))
	case 32:
		return NewPointerChain[int32](space, root, offsets...).Write(int32(v))
	default:
		return NewPointerChain[int64](space, root, offsets...).Write(v)
	}
}

func writeUint(space Space, root uintptr, offsets []uintptr, bits int, v uint64) error {
	switch bits {
	case 8:
		return NewPointerChain[uint8](space, root, offsets...).Write(uint8(v))
	case 16:
		return NewPointerChain[uint16](space, root, offsets...).Write(uint16(v))
	case 32:
		return NewPointerChain[uint32](space, root, offsets...).Write(uint32(v))
	default:
		return NewPointerChain[uint64](space, root, offsets...).Write(v)
	}
}

func typeBits(typeStr string) int {
	bits, _ := strconv.Atoi(typeStr[1:])
	return bits
}

func parseUintptr(str string) (uintptr, error) {
	v, err := strconv.ParseUint(strings.TrimSpace(str), 0, 64)
	if err != nil {
		return 0, err
	}

	return uintptr(v), nil
}
