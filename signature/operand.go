package signature

import (
	"encoding/binary"
	"errors"
	"fmt"

	"gitlab.com/stephen-fox/memkit/asmkit"
)

const (
	relativeKind = "relative"
	decodedKind  = "decoded"
)

var (
	// ErrOperandOverflow is returned when an operand's displacement
	// or the address it resolves to falls outside the module.
	ErrOperandOverflow = errors.New("relative address is outside of the module")

	// ErrZeroTarget is returned when an operand resolves to the
	// module's first byte. A zero offset marks an unresolved entry
	// in the generated address tables, and nothing a signature
	// points at lives in the PE header.
	ErrZeroTarget = errors.New("relative address resolves to the module base")

	// DefaultOperand is the operand convention used when a signature
	// does not specify one: a 32-bit displacement three bytes into
	// the match, relative to the end of a seven-byte instruction.
	DefaultOperand = RelativeOperand{
		Displacement:   3,
		InstructionEnd: 7,
	}
)

// Operand converts the location of a signature match into the
// module-relative offset that the matched instruction references.
type Operand interface {
	// Target returns the module-relative offset referenced by the
	// instruction matched at offset match in data.
	Target(data []byte, match int) (uint64, error)

	// Kind returns the name of the operand convention.
	Kind() string
}

// RelativeOperand resolves a little-endian, signed 32-bit displacement
// found at match+Displacement, relative to match+InstructionEnd.
type RelativeOperand struct {
	Displacement   int
	InstructionEnd int
}

func (o RelativeOperand) Kind() string {
	return relativeKind
}

func (o RelativeOperand) Target(data []byte, match int) (uint64, error) {
	start := match + o.Displacement
	if match < 0 || start < 0 || start+4 > len(data) {
		return 0, fmt.Errorf("%w: displacement at 0x%x is not in a module of 0x%x bytes",
			ErrOperandOverflow, start, len(data))
	}

	disp := int32(binary.LittleEndian.Uint32(data[start : start+4]))

	return checkTarget(int64(match)+int64(o.InstructionEnd)+int64(disp), len(data))
}

func (o RelativeOperand) String() string {
	return fmt.Sprintf("%s(+%d,+%d)", relativeKind, o.Displacement, o.InstructionEnd)
}

// DecodedOperand decodes the x86-64 instruction found at match+Skip
// and resolves its RIP-relative operand using the decoded length.
type DecodedOperand struct {
	Skip int
}

func (o DecodedOperand) Kind() string {
	return decodedKind
}

func (o DecodedOperand) Target(data []byte, match int) (uint64, error) {
	start := match + o.Skip
	if match < 0 || start < 0 || start >= len(data) {
		return 0, fmt.Errorf("%w: instruction at 0x%x is not in a module of 0x%x bytes",
			ErrOperandOverflow, start, len(data))
	}

	disass, err := asmkit.NewDisassembler(asmkit.DisassemblerConfig{Bits: 64})
	if err != nil {
		return 0, err
	}

	inst, err := disass.Next(data[start:], uint64(start))
	if err != nil {
		return 0, fmt.Errorf("failed to decode instruction at 0x%x - %w", start, err)
	}

	disp, err := inst.RelativeDisplacement()
	if err != nil {
		return 0, fmt.Errorf("instruction at 0x%x - %w", start, err)
	}

	return checkTarget(int64(start)+int64(inst.Len)+disp, len(data))
}

func (o DecodedOperand) String() string {
	return fmt.Sprintf("%s(+%d)", decodedKind, o.Skip)
}

func checkTarget(target int64, moduleSize int) (uint64, error) {
	if target < 0 || target >= int64(moduleSize) {
		return 0, fmt.Errorf("%w: 0x%x is not in a module of 0x%x bytes",
			ErrOperandOverflow, target, moduleSize)
	}

	if target == 0 {
		return 0, ErrZeroTarget
	}

	return uint64(target), nil
}
