// Package xor holds the byte-wise xor helpers shared by the attacks.
package xor

import "errors"

var ErrLength = errors.New("xor: inputs differ in length")

// Fixed xors two equal-length inputs.
func Fixed(a, b []byte) ([]byte, error) {
	if len(a) != len(b) {
		return nil, ErrLength
	}
	return Repeating(a, b), nil
}

// SingleByte xors every byte of in with k.
func SingleByte(in []byte, k byte) []byte {
	out := make([]byte, len(in))
	for i, c := range in {
		out[i] = c ^ k
	}
	return out
}

// Repeating xors in with key cycled over its length. An empty key returns a
// copy of in.
func Repeating(in, key []byte) []byte {
	out := make([]byte, len(in))
	copy(out, in)
	if len(key) == 0 {
		return out
	}
	for i := range out {
		out[i] ^= key[i%len(key)]
	}
	return out
}

// Hamming counts the differing bits of two equal-length inputs.
func Hamming(a, b []byte) (int, error) {
	if len(a) != len(b) {
		return 0, ErrLength
	}
	n := 0
	for i := range a {
		d := a[i] ^ b[i]
		for d != 0 {
			d &= d - 1
			n++
		}
	}
	return n, nil
}
