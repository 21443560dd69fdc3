package aes

// Word is one four-byte column of the expanded key.
type Word [4]byte

// Schedule holds the 44 words of an expanded AES-128 key.
// Round i uses words [4i, 4i+4).
type Schedule [nb * (rounds + 1)]Word

// ExpandKey derives the round keys for a 16-byte key.
func ExpandKey(key []byte) (*Schedule, error) {
	if len(key) != KeySize {
		return nil, KeySizeError(len(key))
	}
	var w Schedule
	for i := 0; i < nk; i++ {
		copy(w[i][:], key[4*i:4*i+4])
	}
	for i := nk; i < len(w); i++ {
		temp := w[i-1]
		if i%nk == 0 {
			temp = subWord(rotWord(temp))
			temp[0] ^= rcon[i/nk-1]
		}
		for j := range temp {
			w[i][j] = w[i-nk][j] ^ temp[j]
		}
	}
	return &w, nil
}

// round returns the four words consumed by round i.
func (ks *Schedule) round(i int) []Word {
	return ks[nb*i : nb*(i+1)]
}

func rotWord(w Word) Word {
	return Word{w[1], w[2], w[3], w[0]}
}

func subWord(w Word) Word {
	return Word{sbox[w[0]], sbox[w[1]], sbox[w[2]], sbox[w[3]]}
}
