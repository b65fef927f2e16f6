// Package pattern provides byte signatures with wildcards and
// functionality for locating them in a buffer, such as a snapshot
// of a module's mapped memory.
package pattern

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

const (
	wildcardShort = "?"
	wildcardLong  = "??"
)

var (
	ErrEmptyPattern = errors.New("pattern contains no tokens")
)

// Token is one element of a Pattern. It either matches a single
// byte exactly, or (when Wildcard is true) matches any byte.
type Token struct {
	Value    byte
	Wildcard bool
}

func (o Token) String() string {
	if o.Wildcard {
		return wildcardLong
	}

	return fmt.Sprintf("%02X", o.Value)
}

// ParseOrExit calls Parse, invoking DefaultExitFn if an error occurs.
func ParseOrExit(str string) Pattern {
	p, err := Parse(str)
	if err != nil {
		DefaultExitFn(fmt.Errorf("failed to parse pattern %q - %w", str, err))
	}
	return p
}

// Parse parses a whitespace-separated signature string such as
// "48 8B 05 ?? ?? ?? ?? 48 85 C0". A token of "?" or "??" is
// a wildcard. Every other token must be a hex-encoded byte.
func Parse(str string) (Pattern, error) {
	fields := strings.Fields(str)
	if len(fields) == 0 {
		return nil, ErrEmptyPattern
	}

	p := make(Pattern, len(fields))

	for i, field := range fields {
		switch field {
		case wildcardShort, wildcardLong:
			p[i] = Token{Wildcard: true}
			continue
		}

		if len(field) > 2 {
			return nil, fmt.Errorf("token %d (%q) is longer than one byte", i, field)
		}

		b, err := strconv.ParseUint(field, 16, 8)
		if err != nil {
			return nil, fmt.Errorf("token %d (%q) is not a hex byte - %w", i, field, err)
		}

		p[i] = Token{Value: byte(b)}
	}

	return p, nil
}

// Pattern is an ordered, non-empty sequence of Token.
type Pattern []Token

// Len returns the number of bytes covered by the pattern.
func (o Pattern) Len() int {
	return len(o)
}

// String returns the canonical string form of the pattern.
func (o Pattern) String() string {
	b := strings.Builder{}

	for i, token := range o {
		if i > 0 {
			b.WriteByte(' ')
		}

		b.WriteString(token.String())
	}

	return b.String()
}

// Match returns true if window starts with bytes matching
// every token in the pattern.
func (o Pattern) Match(window []byte) bool {
	if len(o) == 0 || len(window) < len(o) {
		return false
	}

	for i, token := range o {
		if !token.Wildcard && token.Value != window[i] {
			return false
		}
	}

	return true
}

// Find returns the lowest offset in data at which the pattern matches.
// The scan runs left to right and the first match wins. The bool is
// false if the pattern does not appear in data.
func (o Pattern) Find(data []byte) (int, bool) {
	last := len(data) - len(o)

	for i := 0; i <= last; i++ {
		if o.Match(data[i:]) {
			return i, true
		}
	}

	return 0, false
}

// FindAll returns the offset of every match in data in
// ascending order, including overlapping matches.
func (o Pattern) FindAll(data []byte) []int {
	var offsets []int

	last := len(data) - len(o)

	for i := 0; i <= last; i++ {
		if o.Match(data[i:]) {
			offsets = append(offsets, i)
		}
	}

	return offsets
}
