// Package asmkit decodes x86 machine code, primarily for inspecting
// the instructions matched by byte signatures.
package asmkit

import (
	"errors"
	"fmt"

	"golang.org/x/arch/x86/x86asm"
)

const (
	SkipSyntax  DisassemblySyntax = ""
	ATTSyntax   DisassemblySyntax = "att"
	GoSyntax    DisassemblySyntax = "go"
	IntelSyntax DisassemblySyntax = "intel"
)

var (
	ErrNoRelativeOperand = errors.New("instruction has no instruction-pointer-relative operand")
)

type DisassemblySyntax string

type DisassemblerConfig struct {
	Syntax DisassemblySyntax

	// Bits is the processor mode. 64 is used if unset.
	Bits int
}

func NewDisassembler(config DisassemblerConfig) (*Disassembler, error) {
	bits := config.Bits
	if bits == 0 {
		bits = 64
	}

	switch bits {
	case 16, 32, 64:
	default:
		return nil, fmt.Errorf("unsupported x86 mode: %d bits", bits)
	}

	var disassemblyFn func(inst x86asm.Inst, pc uint64) string
	switch config.Syntax {
	case SkipSyntax:
		// Do nothing.
	case ATTSyntax:
		disassemblyFn = func(inst x86asm.Inst, pc uint64) string {
			return x86asm.GNUSyntax(inst, pc, nil)
		}
	case GoSyntax:
		disassemblyFn = func(inst x86asm.Inst, pc uint64) string {
			return x86asm.GoSyntax(inst, pc, nil)
		}
	case IntelSyntax:
		disassemblyFn = func(inst x86asm.Inst, pc uint64) string {
			return x86asm.IntelSyntax(inst, pc, nil)
		}
	default:
		return nil, fmt.Errorf("unsupported syntax type for x86: %q", config.Syntax)
	}

	return &Disassembler{
		disassOneInstFn: func(remainingInsts []byte, pc uint64) (Inst, error) {
			x86Inst, err := x86asm.Decode(remainingInsts, bits)
			if err != nil {
				return Inst{}, err
			}

			var disassembly string
			if disassemblyFn != nil {
				disassembly = disassemblyFn(x86Inst, pc)
			}

			return Inst{
				Bin:  copySlice(remainingInsts, x86Inst.Len),
				Len:  x86Inst.Len,
				Dis:  disassembly,
				Inst: x86Inst,
			}, nil
		},
	}, nil
}

func copySlice(src []byte, numBytes int) []byte {
	cp := make([]byte, numBytes)

	copy(cp, src[0:numBytes])

	return cp
}

type Disassembler struct {
	disassOneInstFn func(remainingInsts []byte, pc uint64) (Inst, error)
}

// All decodes rawInstructions, which start at address pc, calling
// onDecodeFn for each instruction.
func (o *Disassembler) All(rawInstructions []byte, pc uint64, onDecodeFn func(Inst) error) error {
	index := 0

	for index < len(rawInstructions) {
		inst, err := o.disassOneInstFn(rawInstructions[index:], pc+uint64(index))
		if err != nil {
			return fmt.Errorf("failed to decode instruction %d - %w - remaining data: 0x%x",
				index, err, rawInstructions[index:])
		}

		inst.Index = index

		err = onDecodeFn(inst)
		if err != nil {
			return fmt.Errorf("on decode function failed for instruction %d (%q) - %w",
				index, inst.Dis, err)
		}

		index += inst.Len
	}

	return nil
}

// Next decodes the first instruction in rawInstructions.
func (o *Disassembler) Next(rawInstructions []byte, pc uint64) (Inst, error) {
	return o.disassOneInstFn(rawInstructions, pc)
}

type Inst struct {
	Bin   []byte
	Len   int
	Index int
	Dis   string
	Inst  x86asm.Inst
}

// RelativeDisplacement returns the displacement of the instruction's
// RIP-relative memory operand, or of its relative branch target.
func (o Inst) RelativeDisplacement() (int64, error) {
	for _, arg := range o.Inst.Args {
		switch a := arg.(type) {
		case x86asm.Mem:
			if a.Base == x86asm.RIP {
				// x86asm zero-extends disp32.
				return int64(int32(a.Disp)), nil
			}
		case x86asm.Rel:
			return int64(a), nil
		}
	}

	return 0, ErrNoRelativeOperand
}

// RelativeTarget returns the address referenced by the instruction's
// RIP-relative operand when the instruction is located at pc.
func (o Inst) RelativeTarget(pc uint64) (uint64, error) {
	disp, err := o.RelativeDisplacement()
	if err != nil {
		return 0, err
	}

	return uint64(int64(pc) + int64(o.Len) + disp), nil
}
