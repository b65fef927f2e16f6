package memory

import (
	"errors"
	"log"
)

// Space abstracts the address space of a software process.
type Space interface {
	// ReadAt reads len(p) bytes starting at addr into p.
	ReadAt(addr uintptr, p []byte) error

	// WriteAt writes p to the memory starting at addr.
	WriteAt(addr uintptr, p []byte) error

	// PointerSizeBytes returns the size of a pointer in bytes
	// for the process' platform.
	PointerSizeBytes() int
}

var (
	// ErrBrokenChain is returned when a pointer chain cannot be
	// followed to its final address, either because a link in
	// the chain is null or because memory could not be accessed.
	ErrBrokenChain = errors.New("pointer chain is broken")

	// ErrUnmapped is returned by a Space when an address range
	// is not mapped.
	ErrUnmapped = errors.New("address is not mapped")

	// DefaultExitFn is invoked by functions and methods ending in
	// the "OrExit" suffix when an error occurs.
	DefaultExitFn = func(err error) {
		log.Fatalln(err)
	}
)
