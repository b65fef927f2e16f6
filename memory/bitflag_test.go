package memory

import (
	"errors"
	"testing"
)

func TestBitFlag_PreservesOtherBits(t *testing.T) {
	space := newTestSpace()

	for bit := uint8(0); bit < 8; bit++ {
		flag, err := NewBitFlag(space, bit, testBase+0x3)
		if err != nil {
			t.Fatal(err)
		}

		mask := uint8(1) << bit

		for initial := 0; initial < 256; initial++ {
			space.Data[3] = uint8(initial)

			err = flag.Write(true)
			if err != nil {
				t.Fatal(err)
			}

			if space.Data[3] != uint8(initial)|mask {
				t.Fatalf("bit %d, byte 0x%02x: expected 0x%02x after set - got 0x%02x",
					bit, initial, uint8(initial)|mask, space.Data[3])
			}

			err = flag.Write(false)
			if err != nil {
				t.Fatal(err)
			}

			if space.Data[3] != uint8(initial)&^mask {
				t.Fatalf("bit %d, byte 0x%02x: expected 0x%02x after clear - got 0x%02x",
					bit, initial, uint8(initial)&^mask, space.Data[3])
			}
		}
	}
}

func TestBitFlag_Toggle(t *testing.T) {
	space := newTestSpace()
	putPointer(t, space, testBase+0x18, testBase+0x100)
	space.Data[0x1ac] = 0xf0

	flag := NewBitFlagOrExit(space, 0, testBase, 0x18, 0xac)

	on, err := flag.Toggle()
	if err != nil {
		t.Fatal(err)
	}

	if !on || space.Data[0x1ac] != 0xf1 {
		t.Fatalf("expected bit to be set - got 0x%02x", space.Data[0x1ac])
	}

	on, err = flag.Read()
	if err != nil {
		t.Fatal(err)
	}

	if !on {
		t.Fatal("expected read to return true")
	}

	on, err = flag.Toggle()
	if err != nil {
		t.Fatal(err)
	}

	if on || space.Data[0x1ac] != 0xf0 {
		t.Fatalf("expected bit to be cleared - got 0x%02x", space.Data[0x1ac])
	}
}

func TestBitFlag_BrokenChain(t *testing.T) {
	space := newTestSpace()
	flag := NewBitFlagOrExit(space, 3, testBase, 0x18, 0xac)

	_, err := flag.Read()
	if !errors.Is(err, ErrBrokenChain) {
		t.Fatalf("expected ErrBrokenChain - got %v", err)
	}

	_, err = flag.Toggle()
	if !errors.Is(err, ErrBrokenChain) {
		t.Fatalf("expected ErrBrokenChain - got %v", err)
	}
}

func TestNewBitFlag_InvalidBit(t *testing.T) {
	_, err := NewBitFlag(newTestSpace(), 8, testBase)
	if !errors.Is(err, ErrInvalidBit) {
		t.Fatalf("expected ErrInvalidBit - got %v", err)
	}
}
