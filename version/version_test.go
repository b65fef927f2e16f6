package version

import (
	"errors"
	"testing"
)

func TestParse(t *testing.T) {
	tests := map[string]Version{
		"1.02.0": V1_02_0,
		"1.2.3":  V1_02_3,
		"1.03.2": V1_03_2,
		"v1.03":  V1_03_0,
	}

	for str, exp := range tests {
		v, err := Parse(str)
		if err != nil {
			t.Fatalf("%s: %v", str, err)
		}

		if v != exp {
			t.Fatalf("%s: expected %s - got %s", str, exp, v)
		}
	}
}

func TestParse_Unsupported(t *testing.T) {
	for _, str := range []string{"1.01.0", "1.04.1", "1.02.0.1", "1.02.0-beta"} {
		_, err := Parse(str)
		if !errors.Is(err, ErrUnsupported) {
			t.Fatalf("%s: expected ErrUnsupported - got %v", str, err)
		}
	}

	_, err := Parse("not a version")
	if err == nil {
		t.Fatal("expected an error")
	}
}

func TestKnown_RoundTrip(t *testing.T) {
	known := Known()
	if len(known) != len(triples) {
		t.Fatalf("expected %d versions - got %d", len(triples), len(known))
	}

	for i, v := range known {
		if i > 0 && known[i-1] >= v {
			t.Fatalf("versions are not ascending: %v", known)
		}

		parsed, err := Parse(v.String())
		if err != nil {
			t.Fatal(err)
		}

		if parsed != v {
			t.Fatalf("expected %s - got %s", v, parsed)
		}
	}
}

func TestVersion_Ident(t *testing.T) {
	if V1_03_1.Ident() != "1_03_1" {
		t.Fatalf("expected 1_03_1 - got %s", V1_03_1.Ident())
	}

	if Version(0).IsKnown() {
		t.Fatal("zero value should not be known")
	}
}
