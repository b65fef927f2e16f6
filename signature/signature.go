// Package signature resolves named byte signatures to the
// module-relative offsets referenced by the matched instructions.
package signature

import (
	"errors"
	"fmt"

	"gitlab.com/stephen-fox/memkit/pattern"
)

var (
	// ErrPatternNotFound is returned when a signature's pattern
	// does not appear in the module.
	ErrPatternNotFound = errors.New("pattern not found")
)

// Signature associates a symbolic name with a byte pattern and
// the convention used to decode the matched instruction's operand.
type Signature struct {
	Name    string
	Pattern pattern.Pattern
	Operand Operand
}

// New creates a Signature that uses DefaultOperand.
func New(name string, patternStr string) (Signature, error) {
	p, err := pattern.Parse(patternStr)
	if err != nil {
		return Signature{}, fmt.Errorf("failed to parse pattern for %q - %w", name, err)
	}

	return Signature{
		Name:    name,
		Pattern: p,
		Operand: DefaultOperand,
	}, nil
}

// Resolve locates the signature's pattern in data (the snapshot of
// a module) and returns the module-relative offset referenced by
// the matched instruction.
func (o Signature) Resolve(data []byte) (uint64, error) {
	match, found := o.Pattern.Find(data)
	if !found {
		return 0, ErrPatternNotFound
	}

	return o.operand().Target(data, match)
}

func (o Signature) operand() Operand {
	if o.Operand == nil {
		return DefaultOperand
	}

	return o.Operand
}

func (o Signature) String() string {
	return fmt.Sprintf("%s: %s [%v]", o.Name, o.Pattern, o.operand())
}
