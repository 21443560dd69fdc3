package attack

import (
	"math"
	"sort"

	"blockbreak/internal/human"
	"blockbreak/internal/xor"
)

// BreakSingleByteXOR finds the key byte whose decryption of ct scores best.
func BreakSingleByteXOR(ct []byte, score ScoreFunc) (key byte, pt []byte, best float64) {
	if score == nil {
		score = human.EnglishScore
	}
	best = math.Inf(-1)
	for k := 0; k < 256; k++ {
		cand := xor.SingleByte(ct, byte(k))
		if s := score(cand); s > best {
			key, pt, best = byte(k), cand, s
		}
	}
	return key, pt, best
}

// FindSingleByteXOR returns the index of the line most likely to be
// single-byte xor encrypted, with its key and plaintext.
func FindSingleByteXOR(lines [][]byte, score ScoreFunc) (idx int, key byte, pt []byte) {
	best := math.Inf(-1)
	idx = -1
	for i, l := range lines {
		k, p, s := BreakSingleByteXOR(l, score)
		if s > best {
			idx, key, pt, best = i, k, p, s
		}
	}
	return idx, key, pt
}

// BreakRepeatingKeyXOR guesses the key length from normalized Hamming
// distances over [minKey, maxKey], solves each column as single-byte xor for
// the three most likely lengths, and keeps the best scoring plaintext.
func BreakRepeatingKeyXOR(ct []byte, minKey, maxKey int) (key, pt []byte) {
	type guess struct {
		size int
		dist float64
	}
	var guesses []guess
	for ks := minKey; ks <= maxKey && 2*ks <= len(ct); ks++ {
		cs := chunks(ct, ks)
		var total float64
		pairs := 0
		for i := 0; i+1 < len(cs); i++ {
			d, _ := xor.Hamming(cs[i], cs[i+1])
			total += float64(d) / float64(ks)
			pairs++
		}
		guesses = append(guesses, guess{ks, total / float64(pairs)})
	}
	sort.SliceStable(guesses, func(i, j int) bool { return guesses[i].dist < guesses[j].dist })
	if len(guesses) > 3 {
		guesses = guesses[:3]
	}

	best := math.Inf(-1)
	for _, g := range guesses {
		k := make([]byte, g.size)
		for c := 0; c < g.size; c++ {
			var col []byte
			for i := c; i < len(ct); i += g.size {
				col = append(col, ct[i])
			}
			k[c], _, _ = BreakSingleByteXOR(col, nil)
		}
		p := xor.Repeating(ct, k)
		if s := human.EnglishScore(p); s > best {
			key, pt, best = k, p, s
		}
	}
	return key, pt
}
