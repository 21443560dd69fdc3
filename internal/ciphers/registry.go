// Package ciphers maps algorithm names to block cipher constructors so the
// mode engine, the oracle scenarios and the vector tooling can run over more
// than AES.
package ciphers

import (
	"crypto/cipher"
	"crypto/des"
	"errors"
	"fmt"
	"sort"
	"strings"

	gohight "github.com/RyuaNerin/go-krypto/hight"
	goseed "github.com/RyuaNerin/go-krypto/seed"
	"github.com/aead/camellia"
	gomisty1 "github.com/deatil/go-cryptobin/cipher/misty1"
	"golang.org/x/crypto/cast5"

	"blockbreak/internal/aes"
)

const (
	AES128      = "AES-128"
	Camellia128 = "CAMELLIA-128"
	SEED        = "SEED"
	HIGHT       = "HIGHT"
	CAST128     = "CAST-128"
	MISTY1      = "MISTY1"
	TDEA        = "TDEA"
)

// Spec describes a registered cipher. All but TDEA take a 16-byte key.
type Spec struct {
	Name      string
	BlockSize int
	KeySize   int
	New       func(key []byte) (cipher.Block, error)
}

var ErrUnknownCipher = errors.New("ciphers: unknown cipher")

var registry = map[string]Spec{
	AES128:      {Name: AES128, BlockSize: 16, KeySize: 16, New: aes.NewCipher},
	Camellia128: {Name: Camellia128, BlockSize: 16, KeySize: 16, New: camellia.NewCipher},
	SEED:        {Name: SEED, BlockSize: 16, KeySize: 16, New: goseed.NewCipher},
	HIGHT:       {Name: HIGHT, BlockSize: 8, KeySize: 16, New: gohight.NewCipher},
	CAST128:     {Name: CAST128, BlockSize: 8, KeySize: 16, New: newCAST5},
	MISTY1:      {Name: MISTY1, BlockSize: 8, KeySize: 16, New: gomisty1.NewCipher},
	TDEA:        {Name: TDEA, BlockSize: 8, KeySize: 24, New: des.NewTripleDESCipher},
}

func newCAST5(key []byte) (cipher.Block, error) {
	c, err := cast5.NewCipher(key)
	if err != nil {
		return nil, err
	}
	return c, nil
}

// Lookup finds a cipher by name, ignoring case.
func Lookup(name string) (Spec, error) {
	s, ok := registry[strings.ToUpper(strings.TrimSpace(name))]
	if !ok {
		return Spec{}, fmt.Errorf("%w: %q", ErrUnknownCipher, name)
	}
	return s, nil
}

// New builds the named cipher with key.
func New(name string, key []byte) (cipher.Block, error) {
	s, err := Lookup(name)
	if err != nil {
		return nil, err
	}
	if len(key) != s.KeySize {
		return nil, fmt.Errorf("ciphers: %s key must be %d bytes, got %d", s.Name, s.KeySize, len(key))
	}
	return s.New(key)
}

// Names lists the registered ciphers in sorted order.
func Names() []string {
	out := make([]string, 0, len(registry))
	for n := range registry {
		out = append(out, n)
	}
	sort.Strings(out)
	return out
}
