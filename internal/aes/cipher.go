// Package aes implements AES-128 from its primitive transforms: GF(2^8)
// arithmetic, the four round transforms and their inverses, and the key
// schedule. It exists so the mode engine and the attacks can run against a
// cipher whose every byte is accounted for; it makes no attempt at constant
// time execution.
package aes

import (
	"crypto/cipher"
	"errors"
	"strconv"
)

const (
	// BlockSize is the AES block size in bytes.
	BlockSize = 16
	// KeySize is the AES-128 key size in bytes.
	KeySize = 16

	nb     = 4
	nk     = 4
	rounds = 10
)

// ErrBlockSize is returned when a block is not exactly BlockSize bytes.
var ErrBlockSize = errors.New("aes: block must be 16 bytes")

// KeySizeError reports a key that is not 16 bytes long.
type KeySizeError int

func (k KeySizeError) Error() string {
	return "aes: invalid key size " + strconv.Itoa(int(k)) + ", want 16"
}

// EncryptBlock encrypts exactly one block with an expanded key.
func EncryptBlock(block []byte, ks *Schedule) ([]byte, error) {
	if len(block) != BlockSize {
		return nil, ErrBlockSize
	}
	s := newState(block)
	s.addRoundKey(ks.round(0))
	for r := 1; r < rounds; r++ {
		s.subBytes()
		s.shiftRows()
		s.mixColumns()
		s.addRoundKey(ks.round(r))
	}
	s.subBytes()
	s.shiftRows()
	s.addRoundKey(ks.round(rounds))
	return s.bytes(), nil
}

// DecryptBlock inverts EncryptBlock.
func DecryptBlock(block []byte, ks *Schedule) ([]byte, error) {
	if len(block) != BlockSize {
		return nil, ErrBlockSize
	}
	s := newState(block)
	s.addRoundKey(ks.round(rounds))
	for r := rounds - 1; r > 0; r-- {
		s.invShiftRows()
		s.invSubBytes()
		s.addRoundKey(ks.round(r))
		s.invMixColumns()
	}
	s.invShiftRows()
	s.invSubBytes()
	s.addRoundKey(ks.round(0))
	return s.bytes(), nil
}

type aesCipher struct {
	ks *Schedule
}

// NewCipher returns a cipher.Block backed by this package's AES-128 core.
// The returned Block is immutable and safe for concurrent use.
func NewCipher(key []byte) (cipher.Block, error) {
	ks, err := ExpandKey(key)
	if err != nil {
		return nil, err
	}
	return &aesCipher{ks: ks}, nil
}

func (c *aesCipher) BlockSize() int { return BlockSize }

func (c *aesCipher) Encrypt(dst, src []byte) {
	if len(src) < BlockSize {
		panic("aes: input not full block")
	}
	if len(dst) < BlockSize {
		panic("aes: output not full block")
	}
	out, _ := EncryptBlock(src[:BlockSize], c.ks)
	copy(dst, out)
}

func (c *aesCipher) Decrypt(dst, src []byte) {
	if len(src) < BlockSize {
		panic("aes: input not full block")
	}
	if len(dst) < BlockSize {
		panic("aes: output not full block")
	}
	out, _ := DecryptBlock(src[:BlockSize], c.ks)
	copy(dst, out)
}
