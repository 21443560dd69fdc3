package aes

import "math/bits"

// gmul multiplies a and b in GF(2^8) modulo x^8 + x^4 + x^3 + x + 1 (0x11B).
func gmul(a, b byte) byte {
	var p byte
	for i := 0; i < 8; i++ {
		if b&1 == 1 {
			p ^= a
		}
		hi := a & 0x80
		a <<= 1
		if hi != 0 {
			a ^= 0x1b
		}
		b >>= 1
	}
	return p
}

// ginv returns the multiplicative inverse of a, with 0 mapping to 0.
// a^254 == a^-1 in GF(2^8).
func ginv(a byte) byte {
	r := byte(1)
	for i := 0; i < 254; i++ {
		r = gmul(r, a)
	}
	return r
}

var (
	sbox    [256]byte
	invSbox [256]byte
	rcon    [10]byte
)

func init() {
	for i := 0; i < 256; i++ {
		b := ginv(byte(i))
		s := b ^ bits.RotateLeft8(b, 1) ^ bits.RotateLeft8(b, 2) ^ bits.RotateLeft8(b, 3) ^ bits.RotateLeft8(b, 4) ^ 0x63
		sbox[i] = s
		invSbox[s] = byte(i)
	}
	c := byte(1)
	for i := range rcon {
		rcon[i] = c
		c = gmul(c, 2)
	}
}
