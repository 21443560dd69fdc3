package oracle

import (
	"crypto/cipher"
	"fmt"

	"blockbreak/internal/modes"
	"blockbreak/internal/padding"
	"blockbreak/internal/profile"
)

// Profile encrypts profile.For(email) under ECB. Its Encrypt input is the
// email address.
type Profile struct {
	Block cipher.Block
}

func (o *Profile) Encrypt(email []byte) ([]byte, error) {
	p, err := profile.For(string(email))
	if err != nil {
		return nil, err
	}
	return modes.EncryptWith(o.Block, []byte(p), modes.ECB{}, modes.PKCS7)
}

// Decode decrypts and parses a profile ciphertext.
func (o *Profile) Decode(ct []byte) (profile.Profile, error) {
	pt, err := modes.DecryptWith(o.Block, ct, modes.ECB{})
	if err != nil {
		return nil, err
	}
	pt, err = padding.Strip(pt, o.Block.BlockSize())
	if err != nil {
		return nil, fmt.Errorf("oracle: profile: %w", err)
	}
	return profile.Parse(string(pt)), nil
}

// Role returns the role field of a profile ciphertext.
func (o *Profile) Role(ct []byte) (string, error) {
	p, err := o.Decode(ct)
	if err != nil {
		return "", err
	}
	role, _ := p.Get("role")
	return role, nil
}
