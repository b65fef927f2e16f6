// Package version identifies the supported builds of the target
// executable.
package version

import (
	"errors"
	"fmt"

	semver "github.com/hashicorp/go-version"
)

// Version is a supported build of the target executable.
// The zero value is not a supported build.
type Version int

const (
	V1_02_0 Version = iota + 1
	V1_02_1
	V1_02_2
	V1_02_3
	V1_03_0
	V1_03_1
	V1_03_2
)

var (
	ErrUnsupported = errors.New("unsupported version")

	triples = map[Version][3]uint32{
		V1_02_0: {1, 2, 0},
		V1_02_1: {1, 2, 1},
		V1_02_2: {1, 2, 2},
		V1_02_3: {1, 2, 3},
		V1_03_0: {1, 3, 0},
		V1_03_1: {1, 3, 1},
		V1_03_2: {1, 3, 2},
	}
)

// Known returns every supported version in ascending order.
func Known() []Version {
	return []Version{V1_02_0, V1_02_1, V1_02_2, V1_02_3, V1_03_0, V1_03_1, V1_03_2}
}

// FromTriple maps a major, minor, and patch number to a Version.
func FromTriple(major uint32, minor uint32, patch uint32) (Version, error) {
	for v, triple := range triples {
		if triple == [3]uint32{major, minor, patch} {
			return v, nil
		}
	}

	return 0, fmt.Errorf("%w: %d.%02d.%d", ErrUnsupported, major, minor, patch)
}

// Parse parses a version string such as "1.02.3".
func Parse(str string) (Version, error) {
	parsed, err := semver.NewVersion(str)
	if err != nil {
		return 0, fmt.Errorf("failed to parse version %q - %w", str, err)
	}

	segments := parsed.Segments64()
	for len(segments) < 3 {
		segments = append(segments, 0)
	}

	if len(segments) > 3 || parsed.Prerelease() != "" {
		return 0, fmt.Errorf("%w: %q", ErrUnsupported, str)
	}

	for _, seg := range segments {
		if seg < 0 || seg > 0xffff {
			return 0, fmt.Errorf("%w: %q", ErrUnsupported, str)
		}
	}

	return FromTriple(uint32(segments[0]), uint32(segments[1]), uint32(segments[2]))
}

// Triple returns the version's major, minor, and patch numbers.
func (o Version) Triple() (uint32, uint32, uint32) {
	t := triples[o]
	return t[0], t[1], t[2]
}

// IsKnown returns true if the version is supported.
func (o Version) IsKnown() bool {
	_, hasIt := triples[o]
	return hasIt
}

// Ident returns an identifier-safe form of the version,
// such as "1_02_3".
func (o Version) Ident() string {
	major, minor, patch := o.Triple()
	return fmt.Sprintf("%d_%02d_%d", major, minor, patch)
}

func (o Version) String() string {
	if !o.IsKnown() {
		return fmt.Sprintf("Version(%d)", int(o))
	}

	major, minor, patch := o.Triple()

	return fmt.Sprintf("%d.%02d.%d", major, minor, patch)
}
