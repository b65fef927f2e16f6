package signature

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"sort"

	"gopkg.in/yaml.v3"

	"gitlab.com/stephen-fox/memkit/pattern"
)

//go:embed catalog.yaml
var defaultCatalogYAML []byte

var (
	ErrDuplicateName = errors.New("duplicate signature name")
)

// Catalog is an ordered collection of uniquely-named signatures.
type Catalog []Signature

// DefaultCatalogOrExit calls DefaultCatalog, invoking DefaultExitFn
// if an error occurs.
func DefaultCatalogOrExit() Catalog {
	c, err := DefaultCatalog()
	if err != nil {
		DefaultExitFn(fmt.Errorf("failed to load default signature catalog - %w", err))
	}
	return c
}

// DefaultCatalog returns the built-in signature catalog.
func DefaultCatalog() (Catalog, error) {
	return LoadCatalog(bytes.NewReader(defaultCatalogYAML))
}

type catalogFile struct {
	Signatures []catalogEntry `yaml:"signatures"`
}

type catalogEntry struct {
	Name    string         `yaml:"name"`
	Pattern string         `yaml:"pattern"`
	Operand *operandConfig `yaml:"operand,omitempty"`
}

type operandConfig struct {
	Kind         string `yaml:"kind"`
	Displacement int    `yaml:"displacement,omitempty"`
	End          int    `yaml:"end,omitempty"`
	Skip         int    `yaml:"skip,omitempty"`
}

func (o *operandConfig) operand() (Operand, error) {
	if o == nil {
		return DefaultOperand, nil
	}

	switch o.Kind {
	case "", relativeKind:
		if o.Displacement == 0 && o.End == 0 {
			return DefaultOperand, nil
		}

		if o.End < o.Displacement+4 {
			return nil, fmt.Errorf("instruction end (%d) must follow the 4 byte displacement at %d",
				o.End, o.Displacement)
		}

		return RelativeOperand{
			Displacement:   o.Displacement,
			InstructionEnd: o.End,
		}, nil
	case decodedKind:
		return DecodedOperand{Skip: o.Skip}, nil
	default:
		return nil, fmt.Errorf("unknown operand kind: %q", o.Kind)
	}
}

// LoadCatalog reads a YAML signature catalog from r.
func LoadCatalog(r io.Reader) (Catalog, error) {
	var file catalogFile

	err := yaml.NewDecoder(r).Decode(&file)
	if err != nil {
		return nil, fmt.Errorf("failed to decode catalog yaml - %w", err)
	}

	catalog := make(Catalog, 0, len(file.Signatures))

	for i, entry := range file.Signatures {
		if entry.Name == "" {
			return nil, fmt.Errorf("signature %d has no name", i)
		}

		p, err := pattern.Parse(entry.Pattern)
		if err != nil {
			return nil, fmt.Errorf("failed to parse pattern for %q - %w", entry.Name, err)
		}

		operand, err := entry.Operand.operand()
		if err != nil {
			return nil, fmt.Errorf("failed to parse operand for %q - %w", entry.Name, err)
		}

		catalog = append(catalog, Signature{
			Name:    entry.Name,
			Pattern: p,
			Operand: operand,
		})
	}

	err = catalog.Validate()
	if err != nil {
		return nil, err
	}

	return catalog, nil
}

// Validate returns a non-nil error if two signatures share a name,
// or if a signature has an empty pattern.
func (o Catalog) Validate() error {
	seen := make(map[string]struct{}, len(o))

	for _, sig := range o {
		if _, hasIt := seen[sig.Name]; hasIt {
			return fmt.Errorf("%w: %q", ErrDuplicateName, sig.Name)
		}
		seen[sig.Name] = struct{}{}

		if sig.Pattern.Len() == 0 {
			return fmt.Errorf("signature %q - %w", sig.Name, pattern.ErrEmptyPattern)
		}
	}

	return nil
}

// Names returns the name of every signature, sorted.
func (o Catalog) Names() []string {
	names := make([]string, len(o))

	for i, sig := range o {
		names[i] = sig.Name
	}

	sort.Strings(names)

	return names
}

// Lookup returns the signature with the specified name.
func (o Catalog) Lookup(name string) (Signature, bool) {
	for _, sig := range o {
		if sig.Name == name {
			return sig, true
		}
	}

	return Signature{}, false
}
