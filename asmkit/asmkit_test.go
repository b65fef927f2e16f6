package asmkit

import (
	"errors"
	"testing"
)

func TestInst_RelativeTarget(t *testing.T) {
	disass, err := NewDisassembler(DisassemblerConfig{})
	if err != nil {
		t.Fatal(err)
	}

	// mov rax, qword ptr [rip-0x10]
	inst, err := disass.Next([]byte{0x48, 0x8B, 0x05, 0xF0, 0xFF, 0xFF, 0xFF}, 0x100)
	if err != nil {
		t.Fatal(err)
	}

	if inst.Len != 7 {
		t.Fatalf("expected 7 - got %d", inst.Len)
	}

	target, err := inst.RelativeTarget(0x100)
	if err != nil {
		t.Fatal(err)
	}

	if target != 0xf7 {
		t.Fatalf("expected 0xf7 - got 0x%x", target)
	}
}

func TestInst_RelativeTarget_CmpByte(t *testing.T) {
	disass, err := NewDisassembler(DisassemblerConfig{})
	if err != nil {
		t.Fatal(err)
	}

	// cmp byte ptr [rip+0x20], 0x0
	inst, err := disass.Next([]byte{0x80, 0x3D, 0x20, 0x00, 0x00, 0x00, 0x00}, 0x10)
	if err != nil {
		t.Fatal(err)
	}

	target, err := inst.RelativeTarget(0x10)
	if err != nil {
		t.Fatal(err)
	}

	if target != 0x37 {
		t.Fatalf("expected 0x37 - got 0x%x", target)
	}
}

func TestInst_RelativeTarget_NoOperand(t *testing.T) {
	disass, err := NewDisassembler(DisassemblerConfig{})
	if err != nil {
		t.Fatal(err)
	}

	// test rax, rax
	inst, err := disass.Next([]byte{0x48, 0x85, 0xC0}, 0)
	if err != nil {
		t.Fatal(err)
	}

	_, err = inst.RelativeTarget(0)
	if !errors.Is(err, ErrNoRelativeOperand) {
		t.Fatalf("expected ErrNoRelativeOperand - got %v", err)
	}
}

func TestNewDisassembler_BadConfig(t *testing.T) {
	_, err := NewDisassembler(DisassemblerConfig{Bits: 8})
	if err == nil {
		t.Fatal("expected an error for 8 bit mode")
	}

	_, err = NewDisassembler(DisassemblerConfig{Syntax: "nasm"})
	if err == nil {
		t.Fatal("expected an error for unknown syntax")
	}
}
