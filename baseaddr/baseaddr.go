// Package baseaddr holds the module-relative offsets of the signature
// catalog for every supported build of the target executable.
//
// The tables in base_addresses.go are generated by "memkit codegen"
// and must not be edited by hand.
package baseaddr

//go:generate go run ../cmd/memkit codegen --output base_addresses.go

import (
	"fmt"
	"log"

	"gitlab.com/stephen-fox/memkit/memory"
	"gitlab.com/stephen-fox/memkit/version"
)

var (
	// DefaultExitFn is invoked by functions and methods ending in
	// the "OrExit" suffix when an error occurs.
	DefaultExitFn = func(err error) {
		log.Fatalln(err)
	}
)

// ForOrExit calls For, invoking DefaultExitFn if an error occurs.
func ForOrExit(v version.Version) BaseAddresses {
	table, err := For(v)
	if err != nil {
		DefaultExitFn(err)
	}
	return table
}

// For returns the table of the specified version. The error wraps
// version.ErrUnsupported if there is no table for the version.
func For(v version.Version) (BaseAddresses, error) {
	table, hasIt := byVersion[v]
	if !hasIt {
		return BaseAddresses{}, fmt.Errorf("%w: no base addresses for %s", version.ErrUnsupported, v)
	}

	return table, nil
}

// Versions returns the versions that have a table, in ascending order.
func Versions() []version.Version {
	var versions []version.Version

	for _, v := range version.Known() {
		if _, hasIt := byVersion[v]; hasIt {
			versions = append(versions, v)
		}
	}

	return versions
}

// AddressTable returns every table as a *memory.AddressTable with one
// context per version, named by the version's string form. The current
// context is set to current.
func AddressTable(current version.Version) *memory.AddressTable {
	table := memory.NewAddressTable(current.String())

	for _, v := range Versions() {
		addrs := byVersion[v]

		for _, name := range Names() {
			addr, found := addrs.Lookup(name)
			if found {
				table.AddSymbolInContext(name, addr, v.String())
			}
		}
	}

	return table
}

func rebase(offset uintptr, base uintptr) uintptr {
	if offset == 0 {
		return 0
	}

	return offset + base
}
