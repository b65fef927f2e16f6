// Package attach performs the start up of code running inside the
// target process: it identifies the build of the host executable,
// selects that build's base address table, and rebases it onto the
// host module.
//
// A Session then hands out memory accessors by symbol name.
package attach

import (
	"errors"
	"fmt"
	"log"

	alog "github.com/apex/log"
	"gitlab.com/stephen-fox/memkit/baseaddr"
	"gitlab.com/stephen-fox/memkit/memory"
	"gitlab.com/stephen-fox/memkit/process"
	"gitlab.com/stephen-fox/memkit/version"
)

var (
	// DefaultExitFn is invoked by functions and methods ending in
	// the "OrExit" suffix when an error occurs.
	DefaultExitFn = func(err error) {
		log.Fatalln(err)
	}

	ErrUnresolved = errors.New("symbol was not resolved for this version")

	hostModuleFn  = process.HostModule
	fileVersionFn = process.FileVersionOf
	spaceFn       = func() memory.Space { return memory.Local{} }
	tableFn       = baseaddr.For
)

// Session is the product of a successful Attach.
type Session struct {
	Version   version.Version
	Base      uintptr
	Addresses baseaddr.BaseAddresses
	Space     memory.Space
}

func (o *Session) String() string {
	return fmt.Sprintf("%s @ 0x%x", o.Version, o.Base)
}

// AttachOrExit calls Attach, invoking DefaultExitFn if an error occurs.
func AttachOrExit(cfg Config) *Session {
	s, err := Attach(cfg)
	if err != nil {
		DefaultExitFn(err)
	}
	return s
}

// Attach identifies the host executable and returns a Session whose
// addresses are absolute in the current process.
//
// A host executable whose version has no table is a fatal error:
// nothing is resolved in that case.
func Attach(cfg Config) (*Session, error) {
	lvl, err := cfg.level()
	if err != nil {
		return nil, err
	}
	alog.SetLevel(lvl)

	host, err := hostModuleFn()
	if err != nil {
		return nil, fmt.Errorf("failed to find host module - %w", err)
	}

	logger := alog.WithFields(alog.Fields{
		"module": host.Name,
		"base":   fmt.Sprintf("0x%x", host.Base),
	})

	v, err := hostVersion(cfg, host)
	if err != nil {
		return nil, err
	}

	logger = logger.WithField("version", v.String())

	table, err := tableFn(v)
	if err != nil {
		logger.WithError(err).Error("unsupported game version")
		return nil, err
	}

	logger.Debug("attached")

	return &Session{
		Version:   v,
		Base:      host.Base,
		Addresses: table.WithModuleBaseAddr(host.Base),
		Space:     spaceFn(),
	}, nil
}

func hostVersion(cfg Config, host process.Module) (version.Version, error) {
	if cfg.ForceVersion != "" {
		v, err := version.Parse(cfg.ForceVersion)
		if err != nil {
			return 0, fmt.Errorf("failed to parse forced version - %w", err)
		}

		return v, nil
	}

	fv, err := fileVersionFn(host.Path)
	if err != nil {
		return 0, fmt.Errorf("failed to get file version of '%s' - %w", host.Path, err)
	}

	v, err := version.FromTriple(uint32(fv.Major), uint32(fv.Minor), uint32(fv.Patch))
	if err != nil {
		return 0, fmt.Errorf("unknown file version %s - %w", fv, err)
	}

	return v, nil
}

// Address returns the absolute address of a signature by name.
func (o *Session) Address(symbol string) (uintptr, error) {
	addr, found := o.Addresses.Lookup(symbol)
	if !found {
		return 0, fmt.Errorf("%w: '%s' in %s", ErrUnresolved, symbol, o.Version)
	}

	return addr, nil
}

// Chain returns a PointerChain rooted at the address of symbol.
func Chain[T memory.Value](s *Session, symbol string, offsets ...uintptr) (memory.PointerChain[T], error) {
	root, err := s.Address(symbol)
	if err != nil {
		return memory.PointerChain[T]{}, err
	}

	return memory.NewPointerChain[T](s.Space, root, offsets...), nil
}

// Flag returns a BitFlag rooted at the address of symbol.
func Flag(s *Session, symbol string, bit uint8, offsets ...uintptr) (memory.BitFlag, error) {
	root, err := s.Address(symbol)
	if err != nil {
		return memory.BitFlag{}, err
	}

	return memory.NewBitFlag(s.Space, bit, root, offsets...)
}

// PositionAt returns a Position rooted at the address of symbol.
// Refer to memory.NewPosition for the meaning of the offsets.
func PositionAt(s *Session, symbol string, prefix []uintptr, x, y, z, angle uintptr) (memory.Position, error) {
	root, err := s.Address(symbol)
	if err != nil {
		return memory.Position{}, err
	}

	return memory.NewPosition(s.Space, root, prefix, x, y, z, angle), nil
}
