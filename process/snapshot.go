package process

import (
	"fmt"

	"github.com/dustin/go-humanize"

	"gitlab.com/stephen-fox/memkit/memory"
)

// Module describes a module mapped into a process.
type Module struct {
	Name string
	Path string
	Base uintptr
	Size uint32
}

func (o Module) String() string {
	return fmt.Sprintf("%s @ 0x%x (%s)", o.Name, o.Base, humanize.IBytes(uint64(o.Size)))
}

// ModuleSnapshot is a copy of a module's mapped memory.
type ModuleSnapshot struct {
	Name string
	Path string
	Base uintptr
	Data []byte
}

// Size returns the number of bytes in the snapshot.
func (o *ModuleSnapshot) Size() int {
	return len(o.Data)
}

// Space returns a memory.Space that maps the snapshot at its
// original base address.
func (o *ModuleSnapshot) Space() *memory.Buffer {
	return memory.NewBuffer(o.Base, o.Data)
}

func (o *ModuleSnapshot) String() string {
	return fmt.Sprintf("%s @ 0x%x (%s)", o.Name, o.Base, humanize.IBytes(uint64(len(o.Data))))
}
