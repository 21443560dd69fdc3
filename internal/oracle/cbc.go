package oracle

import (
	"bytes"
	"crypto/cipher"

	"blockbreak/internal/modes"
	"blockbreak/internal/padding"
)

const (
	BitflipPrefix = "comment1=cooking%20MCs;userdata="
	BitflipSuffix = ";comment2=%20like%20a%20pound%20of%20bacon"
	// AdminMarker is what a forged bit-flip ciphertext must decrypt to contain.
	AdminMarker = ";admin=true;"
)

// Bitflip sandwiches escaped user data between BitflipPrefix and
// BitflipSuffix and encrypts it under CBC with a fixed IV. Decrypt reveals
// the raw plaintext of any ciphertext.
type Bitflip struct {
	Block cipher.Block
	IV    []byte
}

// Escape puts a backslash before every ';' and '='.
func Escape(in []byte) []byte {
	out := make([]byte, 0, len(in))
	for _, c := range in {
		if c == ';' || c == '=' {
			out = append(out, '\\')
		}
		out = append(out, c)
	}
	return out
}

func (o *Bitflip) Encrypt(userdata []byte) ([]byte, error) {
	pt := concat([]byte(BitflipPrefix), Escape(userdata), []byte(BitflipSuffix))
	return modes.EncryptWith(o.Block, pt, modes.CBC{IV: o.IV}, modes.PKCS7)
}

func (o *Bitflip) Decrypt(ct []byte) ([]byte, error) {
	return modes.DecryptWith(o.Block, ct, modes.CBC{IV: o.IV})
}

// IsAdmin reports whether ct decrypts to a plaintext containing AdminMarker.
func (o *Bitflip) IsAdmin(ct []byte) (bool, error) {
	pt, err := o.Decrypt(ct)
	if err != nil {
		return false, err
	}
	return bytes.Contains(pt, []byte(AdminMarker)), nil
}

// PaddingChallenge holds a secret encrypted under CBC and answers only
// whether a submitted ciphertext has valid padding.
type PaddingChallenge struct {
	Block  cipher.Block
	IV     []byte
	Secret []byte
}

// Token returns the IV and the ciphertext of the secret.
func (o *PaddingChallenge) Token() (iv, ct []byte, err error) {
	ct, err = modes.EncryptWith(o.Block, o.Secret, modes.CBC{IV: o.IV}, modes.PKCS7)
	if err != nil {
		return nil, nil, err
	}
	return append([]byte(nil), o.IV...), ct, nil
}

// ValidPadding errors only on a malformed IV or ciphertext length. Both
// padding failure kinds collapse to false.
func (o *PaddingChallenge) ValidPadding(iv, ct []byte) (bool, error) {
	pt, err := modes.DecryptWith(o.Block, ct, modes.CBC{IV: iv})
	if err != nil {
		return false, err
	}
	return padding.Validate(pt, o.Block.BlockSize()) == padding.Valid, nil
}
