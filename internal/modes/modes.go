// Package modes chains a block cipher into ECB, CBC or CTR.
//
// The mode is picked per call. Encrypt and Decrypt run on this module's own
// AES-128 core; EncryptWith and DecryptWith accept any cipher.Block so the
// same chaining code drives the other registered ciphers.
package modes

import (
	"crypto/cipher"
	"encoding/binary"
	"errors"
	"fmt"

	"blockbreak/internal/aes"
	"blockbreak/internal/padding"
)

// Kind names a chaining mode.
type Kind int

const (
	KindECB Kind = iota + 1
	KindCBC
	KindCTR
)

func (k Kind) String() string {
	switch k {
	case KindECB:
		return "ECB"
	case KindCBC:
		return "CBC"
	case KindCTR:
		return "CTR"
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// ParseKind is the inverse of Kind.String.
func ParseKind(s string) (Kind, error) {
	switch s {
	case "ECB", "ecb":
		return KindECB, nil
	case "CBC", "cbc":
		return KindCBC, nil
	case "CTR", "ctr":
		return KindCTR, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownMode, s)
}

// Mode carries the per-call parameters of a chaining mode.
// Implementations are ECB, CBC and CTR.
type Mode interface {
	Kind() Kind
	isMode()
}

// ECB encrypts each block independently.
type ECB struct{}

// CBC chains blocks through IV, which must be one block long.
type CBC struct {
	IV []byte
}

// NonceSize is the CTR nonce length in bytes.
const NonceSize = 8

// CTR xors the input with E(Nonce || counter), the counter being a big-endian
// uint64 that starts at Counter and advances once per block.
type CTR struct {
	Nonce   []byte
	Counter uint64
}

func (ECB) Kind() Kind { return KindECB }
func (CBC) Kind() Kind { return KindCBC }
func (CTR) Kind() Kind { return KindCTR }

func (ECB) isMode() {}
func (CBC) isMode() {}
func (CTR) isMode() {}

// Padding selects what Encrypt does with unaligned ECB and CBC input.
// CTR never pads.
type Padding int

const (
	PKCS7 Padding = iota
	NoPadding
)

var (
	ErrIVSize      = errors.New("modes: IV must be one block")
	ErrNonceSize   = errors.New("modes: nonce must be 8 bytes")
	ErrNotAligned  = errors.New("modes: input is not a whole number of blocks")
	ErrBlockSize   = errors.New("modes: CTR needs a 16-byte block cipher")
	ErrUnknownMode = errors.New("modes: unknown mode")
)

// Encrypt encrypts plaintext under a 16-byte AES key.
func Encrypt(plaintext, key []byte, mode Mode, pad Padding) ([]byte, error) {
	b, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}
	return EncryptWith(b, plaintext, mode, pad)
}

// Decrypt decrypts ciphertext under a 16-byte AES key. Padding is left in
// place; callers that expect it use padding.Strip.
func Decrypt(ciphertext, key []byte, mode Mode) ([]byte, error) {
	b, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}
	return DecryptWith(b, ciphertext, mode)
}

// EncryptWith is Encrypt over an arbitrary block cipher.
func EncryptWith(b cipher.Block, plaintext []byte, mode Mode, pad Padding) ([]byte, error) {
	bs := b.BlockSize()
	switch m := mode.(type) {
	case ECB, *ECB:
		in, err := prepare(plaintext, bs, pad)
		if err != nil {
			return nil, err
		}
		return ecb(b, in, b.Encrypt), nil
	case CBC:
		return cbcEncrypt(b, plaintext, m.IV, pad)
	case *CBC:
		return cbcEncrypt(b, plaintext, m.IV, pad)
	case CTR:
		return ctr(b, plaintext, m)
	case *CTR:
		return ctr(b, plaintext, *m)
	}
	return nil, fmt.Errorf("%w: %T", ErrUnknownMode, mode)
}

// DecryptWith is Decrypt over an arbitrary block cipher.
func DecryptWith(b cipher.Block, ciphertext []byte, mode Mode) ([]byte, error) {
	bs := b.BlockSize()
	switch m := mode.(type) {
	case ECB, *ECB:
		if len(ciphertext)%bs != 0 {
			return nil, ErrNotAligned
		}
		return ecb(b, ciphertext, b.Decrypt), nil
	case CBC:
		return cbcDecrypt(b, ciphertext, m.IV)
	case *CBC:
		return cbcDecrypt(b, ciphertext, m.IV)
	case CTR:
		return ctr(b, ciphertext, m)
	case *CTR:
		return ctr(b, ciphertext, *m)
	}
	return nil, fmt.Errorf("%w: %T", ErrUnknownMode, mode)
}

func prepare(in []byte, bs int, pad Padding) ([]byte, error) {
	if pad == PKCS7 {
		return padding.Pad(in, bs), nil
	}
	if len(in)%bs != 0 {
		return nil, ErrNotAligned
	}
	return in, nil
}

func ecb(b cipher.Block, in []byte, fn func(dst, src []byte)) []byte {
	bs := b.BlockSize()
	out := make([]byte, len(in))
	for i := 0; i < len(in); i += bs {
		fn(out[i:i+bs], in[i:i+bs])
	}
	return out
}

func cbcEncrypt(b cipher.Block, plaintext, iv []byte, pad Padding) ([]byte, error) {
	bs := b.BlockSize()
	if len(iv) != bs {
		return nil, fmt.Errorf("%w: got %d bytes, want %d", ErrIVSize, len(iv), bs)
	}
	in, err := prepare(plaintext, bs, pad)
	if err != nil {
		return nil, err
	}
	out := make([]byte, len(in))
	prev := iv
	buf := make([]byte, bs)
	for i := 0; i < len(in); i += bs {
		for j := 0; j < bs; j++ {
			buf[j] = in[i+j] ^ prev[j]
		}
		b.Encrypt(out[i:i+bs], buf)
		prev = out[i : i+bs]
	}
	return out, nil
}

func cbcDecrypt(b cipher.Block, ciphertext, iv []byte) ([]byte, error) {
	bs := b.BlockSize()
	if len(iv) != bs {
		return nil, fmt.Errorf("%w: got %d bytes, want %d", ErrIVSize, len(iv), bs)
	}
	if len(ciphertext)%bs != 0 {
		return nil, ErrNotAligned
	}
	out := make([]byte, len(ciphertext))
	prev := iv
	for i := 0; i < len(ciphertext); i += bs {
		b.Decrypt(out[i:i+bs], ciphertext[i:i+bs])
		for j := 0; j < bs; j++ {
			out[i+j] ^= prev[j]
		}
		prev = ciphertext[i : i+bs]
	}
	return out, nil
}

func ctr(b cipher.Block, in []byte, m CTR) ([]byte, error) {
	bs := b.BlockSize()
	if bs != aes.BlockSize {
		return nil, fmt.Errorf("%w: got %d", ErrBlockSize, bs)
	}
	if len(m.Nonce) != NonceSize {
		return nil, fmt.Errorf("%w: got %d bytes", ErrNonceSize, len(m.Nonce))
	}
	out := make([]byte, len(in))
	counter := make([]byte, bs)
	copy(counter, m.Nonce)
	ks := make([]byte, bs)
	for i, n := 0, m.Counter; i < len(in); i, n = i+bs, n+1 {
		binary.BigEndian.PutUint64(counter[NonceSize:], n)
		b.Encrypt(ks, counter)
		end := min(i+bs, len(in))
		for j := i; j < end; j++ {
			out[j] = in[j] ^ ks[j-i]
		}
	}
	return out, nil
}
