// Package oracle defines the black-box capabilities the attacks consume and
// the concrete scenarios that implement them. A scenario closes over a hidden
// block cipher, and sometimes a prefix, template or IV; attacks see only the
// interface methods.
package oracle

import (
	"sync/atomic"
)

// Encrypter returns the ciphertext for attacker-chosen bytes.
type Encrypter interface {
	Encrypt(in []byte) ([]byte, error)
}

// Decrypter returns the raw plaintext for attacker-chosen ciphertext.
// Padding is not removed.
type Decrypter interface {
	Decrypt(ct []byte) ([]byte, error)
}

// PaddingOracle leaks only whether a CBC ciphertext decrypts to valid PKCS#7
// padding under the given IV.
type PaddingOracle interface {
	ValidPadding(iv, ct []byte) (bool, error)
}

type EncrypterFunc func(in []byte) ([]byte, error)

func (f EncrypterFunc) Encrypt(in []byte) ([]byte, error) { return f(in) }

type DecrypterFunc func(ct []byte) ([]byte, error)

func (f DecrypterFunc) Decrypt(ct []byte) ([]byte, error) { return f(ct) }

type PaddingOracleFunc func(iv, ct []byte) (bool, error)

func (f PaddingOracleFunc) ValidPadding(iv, ct []byte) (bool, error) { return f(iv, ct) }

// Counting forwards to whichever oracles are set and counts the calls.
// Calling a method whose oracle is nil panics.
type Counting struct {
	Encrypter Encrypter
	Decrypter Decrypter
	Padding   PaddingOracle

	n atomic.Int64
}

func (c *Counting) Encrypt(in []byte) ([]byte, error) {
	c.n.Add(1)
	return c.Encrypter.Encrypt(in)
}

func (c *Counting) Decrypt(ct []byte) ([]byte, error) {
	c.n.Add(1)
	return c.Decrypter.Decrypt(ct)
}

func (c *Counting) ValidPadding(iv, ct []byte) (bool, error) {
	c.n.Add(1)
	return c.Padding.ValidPadding(iv, ct)
}

// Queries is the number of calls so far.
func (c *Counting) Queries() int64 { return c.n.Load() }
