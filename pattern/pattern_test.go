package pattern

import (
	"errors"
	"reflect"
	"testing"
)

func TestParse(t *testing.T) {
	p, err := Parse("48 8b ?? ? C3")
	if err != nil {
		t.Fatal(err)
	}

	exp := Pattern{
		{Value: 0x48},
		{Value: 0x8b},
		{Wildcard: true},
		{Wildcard: true},
		{Value: 0xc3},
	}

	if !reflect.DeepEqual(p, exp) {
		t.Fatalf("expected %v - got %v", exp, p)
	}

	if p.String() != "48 8B ?? ?? C3" {
		t.Fatalf("expected '48 8B ?? ?? C3' - got '%s'", p.String())
	}
}

func TestParse_Errors(t *testing.T) {
	_, err := Parse("   ")
	if !errors.Is(err, ErrEmptyPattern) {
		t.Fatalf("expected ErrEmptyPattern - got %v", err)
	}

	for _, str := range []string{"48 ZZ", "48 123", "???", "0x48"} {
		_, err := Parse(str)
		if err == nil {
			t.Fatalf("expected an error for %q", str)
		}
	}
}

func TestPattern_Find_ExactMatch(t *testing.T) {
	data := make([]byte, 0x200)
	copy(data[0x100:], []byte{0x48, 0x8B, 0x05, 0x11, 0x22, 0x33, 0x44, 0x48, 0x85, 0xC0})

	offset, found := ParseOrExit("48 8B 05 11 22 33 44 48 85 C0").Find(data)
	if !found {
		t.Fatal("pattern was not found")
	}

	if offset != 0x100 {
		t.Fatalf("expected 0x100 - got 0x%x", offset)
	}
}

func TestPattern_Find_WildcardSubstitution(t *testing.T) {
	p := ParseOrExit("48 8B 05 ?? ?? ?? ?? 48 85 C0")

	for _, wild := range [][]byte{{0, 0, 0, 0}, {0xff, 0xff, 0xff, 0xff}, {0xde, 0xad, 0xbe, 0xef}} {
		data := make([]byte, 0x40)
		copy(data[0x10:], []byte{0x48, 0x8B, 0x05})
		copy(data[0x13:], wild)
		copy(data[0x17:], []byte{0x48, 0x85, 0xC0})

		offset, found := p.Find(data)
		if !found {
			t.Fatalf("pattern was not found with wildcard bytes 0x%x", wild)
		}

		if offset != 0x10 {
			t.Fatalf("expected 0x10 - got 0x%x", offset)
		}
	}
}

func TestPattern_Find_FirstMatchWins(t *testing.T) {
	data := []byte{0x00, 0xAA, 0xBB, 0x00, 0xAA, 0xBB}

	p := ParseOrExit("AA ??")

	offset, found := p.Find(data)
	if !found || offset != 1 {
		t.Fatalf("expected 1 - got %d (found: %t)", offset, found)
	}

	all := p.FindAll(data)
	if !reflect.DeepEqual(all, []int{1, 4}) {
		t.Fatalf("expected [1 4] - got %v", all)
	}
}

func TestPattern_Find_NotFound(t *testing.T) {
	p := ParseOrExit("AA BB CC")

	_, found := p.Find([]byte{0xAA, 0xBB})
	if found {
		t.Fatal("pattern longer than data should not match")
	}

	_, found = p.Find([]byte{0xAA, 0xBB, 0xCD, 0xAA})
	if found {
		t.Fatal("pattern should not be found")
	}
}
