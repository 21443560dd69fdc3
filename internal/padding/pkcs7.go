// Package padding implements PKCS#7 padding and its validator.
package padding

import (
	"bytes"
	"errors"
)

// Status is the outcome of validating PKCS#7 padding.
type Status int

const (
	Valid Status = iota
	// InvalidLastByte means the input was empty or its last byte is zero,
	// larger than the block size, or larger than the input.
	InvalidLastByte
	// Inconsistent means the last p bytes are not all equal to p.
	Inconsistent
)

var (
	ErrInvalidLastByte = errors.New("padding: invalid last byte")
	ErrInconsistent    = errors.New("padding: inconsistent padding bytes")
)

func (s Status) String() string {
	switch s {
	case Valid:
		return "valid"
	case InvalidLastByte:
		return "invalid last byte"
	case Inconsistent:
		return "inconsistent"
	}
	return "unknown"
}

// Err maps a status to its sentinel error; Valid maps to nil.
func (s Status) Err() error {
	switch s {
	case Valid:
		return nil
	case InvalidLastByte:
		return ErrInvalidLastByte
	default:
		return ErrInconsistent
	}
}

// Pad appends n - len(b)%n copies of that count. An aligned input gains a
// full block. Pad panics if n is outside [1, 255].
func Pad(b []byte, n int) []byte {
	if n < 1 || n > 255 {
		panic("padding: block size out of range")
	}
	p := n - len(b)%n
	out := make([]byte, len(b), len(b)+p)
	copy(out, b)
	return append(out, bytes.Repeat([]byte{byte(p)}, p)...)
}

// Validate reports whether b ends in well-formed padding for blockSize.
func Validate(b []byte, blockSize int) Status {
	if len(b) == 0 {
		return InvalidLastByte
	}
	p := int(b[len(b)-1])
	if p == 0 || p > blockSize || p > len(b) {
		return InvalidLastByte
	}
	for _, c := range b[len(b)-p:] {
		if int(c) != p {
			return Inconsistent
		}
	}
	return Valid
}

// Strip validates b and returns it without its padding.
func Strip(b []byte, blockSize int) ([]byte, error) {
	if err := Validate(b, blockSize).Err(); err != nil {
		return nil, err
	}
	return b[:len(b)-int(b[len(b)-1])], nil
}
