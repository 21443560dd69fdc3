// Package human scores how much a byte string looks like readable text.
package human

// Alphabet is the set of bytes counted as human-readable.
const Alphabet = "\n\r\t" +
	" !\"$%&'()," +
	"-./=@" +
	"0123456789" +
	":;?" +
	"ABCDEFGHIJKLMNOPQRSTUVWXYZ" +
	"\\" +
	"abcdefghijklmnopqrstuvwxyz"

var inAlphabet [256]bool

// letter frequencies of English text, in percent; space weighs like 'e'.
var frequency = map[byte]float64{
	'a': 8.2, 'b': 1.5, 'c': 2.8, 'd': 4.3, 'e': 12.7, 'f': 2.2, 'g': 2.0,
	'h': 6.1, 'i': 7.0, 'j': 0.15, 'k': 0.77, 'l': 4.0, 'm': 2.4, 'n': 6.7,
	'o': 7.5, 'p': 1.9, 'q': 0.095, 'r': 6.0, 's': 6.3, 't': 9.1, 'u': 2.8,
	'v': 0.98, 'w': 2.4, 'x': 0.15, 'y': 2.0, 'z': 0.074, ' ': 13.0,
}

func init() {
	for i := 0; i < len(Alphabet); i++ {
		inAlphabet[Alphabet[i]] = true
	}
}

// Bytes returns Alphabet as a fresh byte slice.
func Bytes() []byte {
	return []byte(Alphabet)
}

// Contains reports whether c is in Alphabet.
func Contains(c byte) bool {
	return inAlphabet[c]
}

// Score is the fraction of b that lies in Alphabet, in [0, 1].
// An empty input scores 0.
func Score(b []byte) float64 {
	if len(b) == 0 {
		return 0
	}
	n := 0
	for _, c := range b {
		if inAlphabet[c] {
			n++
		}
	}
	return float64(n) / float64(len(b))
}

// EnglishScore is Score plus a small letter-frequency bonus that never
// exceeds 0.00013, so it only separates candidates whose Score is equal.
func EnglishScore(b []byte) float64 {
	s := Score(b)
	if len(b) == 0 {
		return s
	}
	var sum float64
	for _, c := range b {
		if c >= 'A' && c <= 'Z' {
			c += 'a' - 'A'
		}
		sum += frequency[c]
	}
	return s + 0.00001*sum/float64(len(b))
}
