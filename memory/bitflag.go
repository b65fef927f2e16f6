package memory

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidBit = errors.New("bit index must be between 0 and 7")
)

// NewBitFlagOrExit calls NewBitFlag, invoking DefaultExitFn if
// an error occurs.
func NewBitFlagOrExit(space Space, bit uint8, root uintptr, offsets ...uintptr) BitFlag {
	flag, err := NewBitFlag(space, bit, root, offsets...)
	if err != nil {
		DefaultExitFn(fmt.Errorf("failed to create bit flag - %w", err))
	}
	return flag
}

// NewBitFlag creates a BitFlag for one bit of the byte located by
// the pointer chain described by root and offsets.
func NewBitFlag(space Space, bit uint8, root uintptr, offsets ...uintptr) (BitFlag, error) {
	if bit > 7 {
		return BitFlag{}, fmt.Errorf("%w: %d", ErrInvalidBit, bit)
	}

	return BitFlag{
		chain: NewPointerChain[uint8](space, root, offsets...),
		bit:   bit,
	}, nil
}

// BitFlag is a boolean stored in a single bit of a byte. Writes
// never modify the byte's other bits.
type BitFlag struct {
	chain PointerChain[uint8]
	bit   uint8
}

func (o BitFlag) Read() (bool, error) {
	b, err := o.chain.Read()
	if err != nil {
		return false, err
	}

	return b&o.mask() != 0, nil
}

func (o BitFlag) Write(on bool) error {
	_, err := o.chain.Update(func(b uint8) uint8 {
		if on {
			return b | o.mask()
		}

		return b &^ o.mask()
	})

	return err
}

// Toggle inverts the bit and returns its new value.
func (o BitFlag) Toggle() (bool, error) {
	current, err := o.Read()
	if err != nil {
		return false, err
	}

	err = o.Write(!current)
	if err != nil {
		return current, err
	}

	return !current, nil
}

func (o BitFlag) Bit() uint8 {
	return o.bit
}

func (o BitFlag) Chain() PointerChain[uint8] {
	return o.chain
}

func (o BitFlag) String() string {
	return fmt.Sprintf("%s bit %d", o.chain, o.bit)
}

func (o BitFlag) mask() uint8 {
	return 1 << o.bit
}
