// Package attack recovers plaintext and forges ciphertext through the
// oracle interfaces alone. Nothing here sees a key.
package attack

import (
	"bytes"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"blockbreak/internal/oracle"
)

var (
	// ErrModeMismatch means the oracle does not behave like the mode the
	// attack assumes.
	ErrModeMismatch = errors.New("attack: oracle mode mismatch")
	// ErrBlockSizeNotFound means no trial block size produced a collision.
	ErrBlockSizeNotFound = errors.New("attack: block size not found")
	ErrPrefixNotFound    = errors.New("attack: could not measure prefix")
	ErrTargetTooLong     = errors.New("attack: target longer than one block")
	ErrForgeFailed       = errors.New("attack: no byte value produced the target")
	ErrCiphertextShape   = errors.New("attack: ciphertext is not whole blocks")
	ErrNoCiphertexts     = errors.New("attack: no ciphertexts")
)

const (
	placeholder  = 'A'
	minBlockSize = 8
	maxBlockSize = 64
)

func logOrNop(lg *zap.SugaredLogger) *zap.SugaredLogger {
	if lg == nil {
		return zap.NewNop().Sugar()
	}
	return lg
}

func chunks(b []byte, n int) [][]byte {
	var out [][]byte
	for i := 0; i+n <= len(b); i += n {
		out = append(out, b[i:i+n])
	}
	return out
}

func block(b []byte, i, n int) []byte {
	if (i+1)*n > len(b) {
		return nil
	}
	return b[i*n : (i+1)*n]
}

func repeat(c byte, n int) []byte {
	return bytes.Repeat([]byte{c}, n)
}

func query(o oracle.Encrypter, in []byte) ([]byte, error) {
	ct, err := o.Encrypt(in)
	if err != nil {
		return nil, fmt.Errorf("attack: oracle: %w", err)
	}
	return ct, nil
}

// measurePrefix finds how many filler bytes align attacker input to a block
// boundary and the index of the first block the attacker then controls.
// It works for any mode where a change in block i leaves blocks before i
// untouched.
func measurePrefix(o oracle.Encrypter, bs int) (align, start int, err error) {
	a, err := query(o, []byte{'B'})
	if err != nil {
		return 0, 0, err
	}
	b, err := query(o, []byte{'C'})
	if err != nil {
		return 0, 0, err
	}
	d := -1
	for i := 0; i*bs < min(len(a), len(b)); i++ {
		if !bytes.Equal(block(a, i, bs), block(b, i, bs)) {
			d = i
			break
		}
	}
	if d < 0 {
		return 0, 0, ErrPrefixNotFound
	}
	for pad := 0; pad <= bs; pad++ {
		x, err := query(o, append(repeat(placeholder, pad), 'B'))
		if err != nil {
			return 0, 0, err
		}
		y, err := query(o, append(repeat(placeholder, pad), 'C'))
		if err != nil {
			return 0, 0, err
		}
		bx, by := block(x, d, bs), block(y, d, bs)
		if bx != nil && bytes.Equal(bx, by) {
			if pad == bs {
				return 0, d, nil
			}
			return pad, d + 1, nil
		}
	}
	return 0, 0, ErrPrefixNotFound
}

// blockSizeByLength grows the input until the ciphertext length jumps; the
// jump is the block size. It works for any padded mode.
func blockSizeByLength(o oracle.Encrypter) (int, error) {
	base, err := query(o, nil)
	if err != nil {
		return 0, err
	}
	for n := 1; n <= maxBlockSize; n++ {
		ct, err := query(o, repeat(placeholder, n))
		if err != nil {
			return 0, err
		}
		if len(ct) > len(base) {
			return len(ct) - len(base), nil
		}
	}
	return 0, ErrBlockSizeNotFound
}
