package oracle

import (
	"crypto/cipher"
	"crypto/rand"
	"fmt"
	"io"
	mrand "math/rand"
	"sync"

	"blockbreak/internal/aes"
	"blockbreak/internal/modes"
)

// ECBSuffix encrypts in || Secret under ECB with PKCS#7.
type ECBSuffix struct {
	Block  cipher.Block
	Secret []byte
}

func (o *ECBSuffix) Encrypt(in []byte) ([]byte, error) {
	return modes.EncryptWith(o.Block, concat(in, o.Secret), modes.ECB{}, modes.PKCS7)
}

// ECBPrefixed encrypts Prefix || in || Secret under ECB with PKCS#7.
type ECBPrefixed struct {
	Block  cipher.Block
	Prefix []byte
	Secret []byte
}

func (o *ECBPrefixed) Encrypt(in []byte) ([]byte, error) {
	return modes.EncryptWith(o.Block, concat(o.Prefix, in, o.Secret), modes.ECB{}, modes.PKCS7)
}

// CoinToss draws a fresh AES key per call, wraps the input in 5 to 10
// random bytes on each side and encrypts under ECB or CBC at random.
// Last reports the mode picked by the most recent call.
type CoinToss struct {
	// Rand supplies keys, IVs and filler; nil means crypto/rand.
	Rand io.Reader

	mu   sync.Mutex
	last modes.Kind
}

func (o *CoinToss) Encrypt(in []byte) ([]byte, error) {
	r := o.Rand
	if r == nil {
		r = rand.Reader
	}
	key, err := readN(r, aes.KeySize)
	if err != nil {
		return nil, err
	}
	before, err := readN(r, 5+mrand.Intn(6))
	if err != nil {
		return nil, err
	}
	after, err := readN(r, 5+mrand.Intn(6))
	if err != nil {
		return nil, err
	}
	var mode modes.Mode = modes.ECB{}
	if mrand.Intn(2) == 1 {
		iv, err := readN(r, aes.BlockSize)
		if err != nil {
			return nil, err
		}
		mode = modes.CBC{IV: iv}
	}
	ct, err := modes.Encrypt(concat(before, in, after), key, mode, modes.PKCS7)
	if err != nil {
		return nil, err
	}
	o.mu.Lock()
	o.last = mode.Kind()
	o.mu.Unlock()
	return ct, nil
}

func (o *CoinToss) Last() modes.Kind {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.last
}

func readN(r io.Reader, n int) ([]byte, error) {
	b := make([]byte, n)
	if _, err := io.ReadFull(r, b); err != nil {
		return nil, fmt.Errorf("oracle: read random: %w", err)
	}
	return b, nil
}

func concat(parts ...[]byte) []byte {
	n := 0
	for _, p := range parts {
		n += len(p)
	}
	out := make([]byte, 0, n)
	for _, p := range parts {
		out = append(out, p...)
	}
	return out
}
