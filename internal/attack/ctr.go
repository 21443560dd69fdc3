package attack

import (
	"math"

	"blockbreak/internal/human"
	"blockbreak/internal/xor"
)

// ScoreFunc rates how plausible a column of guessed plaintext bytes is.
type ScoreFunc func([]byte) float64

// FixedNonceCTR recovers the keystream shared by ciphertexts encrypted
// under one key and one reused nonce, up to the shortest ciphertext, and
// the plaintext prefixes it reveals. Each keystream byte is the candidate
// whose column scores highest; ties keep the smaller byte. A nil score uses
// human.EnglishScore.
func FixedNonceCTR(cts [][]byte, score ScoreFunc) (keystream []byte, plaintexts [][]byte, err error) {
	if len(cts) == 0 {
		return nil, nil, ErrNoCiphertexts
	}
	if score == nil {
		score = human.EnglishScore
	}
	n := len(cts[0])
	for _, ct := range cts[1:] {
		n = min(n, len(ct))
	}

	keystream = make([]byte, n)
	col := make([]byte, len(cts))
	for pos := 0; pos < n; pos++ {
		best := math.Inf(-1)
		for k := 0; k < 256; k++ {
			for i, ct := range cts {
				col[i] = ct[pos] ^ byte(k)
			}
			if s := score(col); s > best {
				best = s
				keystream[pos] = byte(k)
			}
		}
	}

	plaintexts = make([][]byte, len(cts))
	for i, ct := range cts {
		plaintexts[i], _ = xor.Fixed(ct[:n], keystream)
	}
	return keystream, plaintexts, nil
}
