package memory

import (
	"errors"
	"fmt"
	"sort"
)

var (
	ErrUnknownContext = errors.New("context is not in the address table")
	ErrUnknownSymbol  = errors.New("symbol is not in the address table")
)

// NewAddressTable creates a new instance of an *AddressTable with
// the specified initial context. Refer to AddressTable's documentation
// for more information.
func NewAddressTable(initialContext string) *AddressTable {
	return &AddressTable{
		currentContext:          initialContext,
		contextToSymbolsToAddrs: make(map[string]map[string]uintptr),
	}
}

// AddressTable organizes the addresses or offsets of symbols in
// different contexts. A context is typically a build of the target
// software, since the location of a symbol changes from one build
// to the next.
//
// The table's current context selects which set of symbols is
// used by Address and AddressOrExit.
type AddressTable struct {
	currentContext          string
	contextToSymbolsToAddrs map[string]map[string]uintptr
}

// SetContext sets the current context to the specified value.
func (o *AddressTable) SetContext(context string) *AddressTable {
	o.currentContext = context
	return o
}

// DeleteContext deletes the specified context.
func (o *AddressTable) DeleteContext(context string) *AddressTable {
	delete(o.contextToSymbolsToAddrs, context)
	return o
}

// AddSymbolInContext adds or sets the address of a symbol for
// the specified context.
func (o *AddressTable) AddSymbolInContext(symbolName string, address uintptr, context string) *AddressTable {
	symbolsToAddrs := o.contextToSymbolsToAddrs[context]
	if symbolsToAddrs == nil {
		symbolsToAddrs = make(map[string]uintptr)
	}

	symbolsToAddrs[symbolName] = address
	o.contextToSymbolsToAddrs[context] = symbolsToAddrs

	return o
}

// DeleteSymbolFromContext deletes a symbol from the specified context.
func (o *AddressTable) DeleteSymbolFromContext(symbolName string, context string) *AddressTable {
	symbolsToAddrs, hasIt := o.contextToSymbolsToAddrs[context]
	if hasIt {
		delete(symbolsToAddrs, symbolName)
	}
	return o
}

// DeleteSymbolInAllContexts deletes the specified symbol from all contexts.
func (o *AddressTable) DeleteSymbolInAllContexts(symbolName string) *AddressTable {
	for _, symbolsToAddrs := range o.contextToSymbolsToAddrs {
		delete(symbolsToAddrs, symbolName)
	}
	return o
}

// CurrentContext returns the current context.
func (o *AddressTable) CurrentContext() string {
	return o.currentContext
}

// HasContext returns true if the context contains at least one symbol.
func (o *AddressTable) HasContext(context string) bool {
	return len(o.contextToSymbolsToAddrs[context]) > 0
}

// Contexts returns the name of every context, sorted.
func (o *AddressTable) Contexts() []string {
	contexts := make([]string, 0, len(o.contextToSymbolsToAddrs))
	for context := range o.contextToSymbolsToAddrs {
		contexts = append(contexts, context)
	}

	sort.Strings(contexts)

	return contexts
}

// Symbols returns the name of every symbol in the context, sorted.
func (o *AddressTable) Symbols(context string) []string {
	symbolsToAddrs := o.contextToSymbolsToAddrs[context]

	symbols := make([]string, 0, len(symbolsToAddrs))
	for symbol := range symbolsToAddrs {
		symbols = append(symbols, symbol)
	}

	sort.Strings(symbols)

	return symbols
}

// AddressInContext returns the address of a symbol in the specified context.
func (o *AddressTable) AddressInContext(symbolName string, context string) (uintptr, error) {
	symbolsToAddrs, hasIt := o.contextToSymbolsToAddrs[context]
	if !hasIt {
		return 0, fmt.Errorf("%w: '%s'", ErrUnknownContext, context)
	}

	addr, hasIt := symbolsToAddrs[symbolName]
	if !hasIt {
		return 0, fmt.Errorf("%w: failed to find the symbol '%s' in the table for '%s'",
			ErrUnknownSymbol, symbolName, context)
	}

	return addr, nil
}

// Address returns the address of the specified symbol for the
// currently selected context.
func (o *AddressTable) Address(symbolName string) (uintptr, error) {
	return o.AddressInContext(symbolName, o.currentContext)
}

// AddressOrExit returns the address of the specified symbol for the
// currently selected context.
//
// If the context or the symbol do not exist, then DefaultExitFn is invoked.
func (o *AddressTable) AddressOrExit(symbolName string) uintptr {
	addr, err := o.Address(symbolName)
	if err != nil {
		DefaultExitFn(err)
	}

	return addr
}

// Rebase returns a new *AddressTable containing only the current
// context, with base added to every symbol's address.
func (o *AddressTable) Rebase(base uintptr) *AddressTable {
	rebased := NewAddressTable(o.currentContext)

	for symbol, addr := range o.contextToSymbolsToAddrs[o.currentContext] {
		rebased.AddSymbolInContext(symbol, addr+base, o.currentContext)
	}

	return rebased
}
