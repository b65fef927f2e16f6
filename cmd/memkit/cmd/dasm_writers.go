package cmd

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"gitlab.com/stephen-fox/memkit/asmkit"
)

const (
	prettyFormat = "pretty"
	goFormat     = "go"
	jsonFormat   = "json"
)

var errStopDecoding = errors.New("stop decoding")

func newInstWriter(format string, w io.Writer) (instWriter, error) {
	switch format {
	case prettyFormat:
		return &disassWriter{w: w}, nil
	case goFormat:
		return &goByteSliceWriter{w: w}, nil
	case jsonFormat:
		return &jsonWriter{indent: "  ", w: w}, nil
	default:
		return nil, fmt.Errorf("unsupported output format: %q", format)
	}
}

type instWriter interface {
	Write(asmkit.Inst) error
	Flush() error
}

var _ instWriter = (*disassWriter)(nil)

type disassWriter struct {
	w io.Writer
}

func (o *disassWriter) Write(inst asmkit.Inst) error {
	_, err := fmt.Fprintf(o.w, "%#x\t% x\t%s\n", inst.Index, inst.Bin, inst.Dis)
	return err
}

func (o *disassWriter) Flush() error {
	return nil
}

var _ instWriter = (*jsonWriter)(nil)

type jsonWriter struct {
	indent string
	w      io.Writer
	buf    []jsonInst
}

type jsonInst struct {
	Offset int    `json:"offset"`
	Bytes  string `json:"bytes"`
	Dis    string `json:"disassembly"`
}

func (o *jsonWriter) Write(inst asmkit.Inst) error {
	o.buf = append(o.buf, jsonInst{
		Offset: inst.Index,
		Bytes:  fmt.Sprintf("%x", inst.Bin),
		Dis:    inst.Dis,
	})

	return nil
}

func (o *jsonWriter) Flush() error {
	enc := json.NewEncoder(o.w)

	enc.SetIndent("", o.indent)

	return enc.Encode(o.buf)
}

var _ instWriter = (*goByteSliceWriter)(nil)

type goByteSliceWriter struct {
	isInit bool
	w      io.Writer
}

func (o *goByteSliceWriter) Write(inst asmkit.Inst) error {
	if !o.isInit {
		o.isInit = true

		_, err := o.w.Write([]byte("[]byte{\n"))
		if err != nil {
			return err
		}
	}

	_, err := o.w.Write([]byte{'\t'})
	if err != nil {
		return err
	}

	for _, b := range inst.Bin {
		_, err = fmt.Fprintf(o.w, "0x%02x, ", b)
		if err != nil {
			return err
		}
	}

	_, err = o.w.Write([]byte("// " + inst.Dis + "\n"))

	return err
}

func (o *goByteSliceWriter) Flush() error {
	if !o.isInit {
		return nil
	}

	_, err := o.w.Write([]byte{'}', '\n'})

	return err
}
