package cmd

import (
	"bytes"
	"testing"

	"gitlab.com/stephen-fox/memkit/asmkit"
)

func decodeAll(t *testing.T, raw []byte, w instWriter) {
	disassembler, err := asmkit.NewDisassembler(asmkit.DisassemblerConfig{
		Syntax: asmkit.IntelSyntax,
	})
	if err != nil {
		t.Fatal(err)
	}

	err = disassembler.All(raw, 0, w.Write)
	if err != nil {
		t.Fatal(err)
	}

	err = w.Flush()
	if err != nil {
		t.Fatal(err)
	}
}

func TestGoByteSliceWriter(t *testing.T) {
	buf := bytes.NewBuffer(nil)

	// xor eax, eax; ret
	decodeAll(t, []byte{0x31, 0xc0, 0xc3}, &goByteSliceWriter{w: buf})

	exp := "[]byte{\n" +
		"\t0x31, 0xc0, // xor eax, eax\n" +
		"\t0xc3, // ret\n" +
		"}\n"

	if buf.String() != exp {
		t.Fatalf("expected:\n%s\ngot:\n%s", exp, buf.String())
	}
}

func TestNewInstWriter_UnknownFormat(t *testing.T) {
	_, err := newInstWriter("yaml", bytes.NewBuffer(nil))
	if err == nil {
		t.Fatal("expected an error for an unknown format")
	}
}

func TestDasmStart(t *testing.T) {
	data := make([]byte, 0x100)

	start, err := dasmStart(data, "0x20")
	if err != nil {
		t.Fatal(err)
	}

	if start != 0x20 {
		t.Fatalf("expected 0x20 - got %#x", start)
	}

	_, err = dasmStart(data, "0x100")
	if err == nil {
		t.Fatal("expected an error for an offset past the end of the module")
	}

	_, err = dasmStart(data, "WorldChrMan")
	if err == nil {
		t.Fatal("expected an error for a signature that does not match")
	}
}
