package memory

import (
	"fmt"
)

// NewPosition creates a Position whose components share root and
// the offsets in prefix, differing only in their final offset.
func NewPosition(space Space, root uintptr, prefix []uintptr, x, y, z, angle uintptr) Position {
	component := func(last uintptr) PointerChain[float32] {
		offsets := make([]uintptr, 0, len(prefix)+1)
		offsets = append(offsets, prefix...)
		return NewPointerChain[float32](space, root, append(offsets, last)...)
	}

	return Position{
		X:     component(x),
		Y:     component(y),
		Z:     component(z),
		Angle: component(angle),
	}
}

// Position groups the chains of an entity's coordinates and heading.
type Position struct {
	X     PointerChain[float32]
	Y     PointerChain[float32]
	Z     PointerChain[float32]
	Angle PointerChain[float32]
}

// Coords is a snapshot of the values of a Position.
type Coords struct {
	X     float32
	Y     float32
	Z     float32
	Angle float32
}

func (o Coords) String() string {
	return fmt.Sprintf("(%.3f, %.3f, %.3f) %.3f", o.X, o.Y, o.Z, o.Angle)
}

// Read reads every component. An error is returned if any
// component cannot be read.
func (o Position) Read() (Coords, error) {
	var coords Coords

	for _, pair := range o.pairs(&coords) {
		v, err := pair.chain.Read()
		if err != nil {
			return Coords{}, fmt.Errorf("failed to read %s - %w", pair.name, err)
		}

		*pair.value = v
	}

	return coords, nil
}

// Write writes every component. Nothing is written if any of the
// component chains is broken.
func (o Position) Write(coords Coords) error {
	pairs := o.pairs(&coords)

	for _, pair := range pairs {
		_, err := pair.chain.Address()
		if err != nil {
			return fmt.Errorf("failed to resolve %s - %w", pair.name, err)
		}
	}

	for _, pair := range pairs {
		err := pair.chain.Write(*pair.value)
		if err != nil {
			return fmt.Errorf("failed to write %s - %w", pair.name, err)
		}
	}

	return nil
}

type positionPair struct {
	name  string
	chain PointerChain[float32]
	value *float32
}

func (o Position) pairs(coords *Coords) []positionPair {
	return []positionPair{
		{name: "x", chain: o.X, value: &coords.X},
		{name: "y", chain: o.Y, value: &coords.Y},
		{name: "z", chain: o.Z, value: &coords.Z},
		{name: "angle", chain: o.Angle, value: &coords.Angle},
	}
}
