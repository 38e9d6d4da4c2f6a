// Package assetnumber encodes and decodes the human-facing sequential
// identifier attached to every fingerprinted record (e.g. "ORB-000000000001").
//
// The codec does not allocate numbers and does not guarantee uniqueness;
// that belongs to whoever persists the records.
package assetnumber

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

const (
	// Prefix is the literal prefix of every asset number.
	Prefix = "ORB-"

	// Width is the number of zero-padded decimal digits after the prefix.
	Width = 12

	// Max is the largest number that fits in Width digits.
	Max uint64 = 999_999_999_999
)

var (
	ErrOutOfRange = errors.New("asset number out of range")
	ErrMalformed  = errors.New("malformed asset number")
)

// Format renders n as Prefix followed by Width zero-padded digits.
func Format(n uint64) (string, error) {
	if n > Max {
		return "", fmt.Errorf("%w: %d exceeds %d digits", ErrOutOfRange, n, Width)
	}

	return fmt.Sprintf("%s%0*d", Prefix, Width, n), nil
}

// MustFormat is like Format but panics if n does not fit.
func MustFormat(n uint64) string {
	s, err := Format(n)
	if err != nil {
		panic(err)
	}

	return s
}

// Parse extracts the numeric suffix of s. It reports false if s is not
// exactly Prefix followed by Width decimal digits.
func Parse(s string) (uint64, bool) {
	digits, ok := strings.CutPrefix(s, Prefix)
	if !ok || len(digits) != Width {
		return 0, false
	}

	for i := 0; i < len(digits); i++ {
		if digits[i] < '0' || digits[i] > '9' {
			return 0, false
		}
	}

	n, err := strconv.ParseUint(digits, 10, 64)
	if err != nil {
		return 0, false
	}

	return n, true
}

// Validate returns ErrMalformed if s is not a well-formed asset number.
func Validate(s string) error {
	if _, ok := Parse(s); !ok {
		return fmt.Errorf("%w: %q", ErrMalformed, s)
	}

	return nil
}
