package oracle

import (
	"crypto/cipher"

	"blockbreak/internal/modes"
)

// FixedNonceCTR encrypts every input under CTR with the same nonce and a
// counter starting at zero.
type FixedNonceCTR struct {
	Block cipher.Block
	Nonce []byte
}

func (o *FixedNonceCTR) Encrypt(in []byte) ([]byte, error) {
	return modes.EncryptWith(o.Block, in, modes.CTR{Nonce: o.Nonce}, modes.NoPadding)
}

// EncryptAll encrypts each plaintext independently.
func (o *FixedNonceCTR) EncryptAll(pts [][]byte) ([][]byte, error) {
	out := make([][]byte, len(pts))
	for i, pt := range pts {
		ct, err := o.Encrypt(pt)
		if err != nil {
			return nil, err
		}
		out[i] = ct
	}
	return out, nil
}
