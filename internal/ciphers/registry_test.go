package ciphers

import (
	"bytes"
	"errors"
	"testing"

	"blockbreak/internal/modes"
	"blockbreak/internal/padding"
)

func TestRegistryRoundTrip(t *testing.T) {
	key := []byte("YELLOW SUBMARINE AND SUN")
	pt := []byte("attack at dawn, the usual place")
	for _, name := range Names() {
		t.Run(name, func(t *testing.T) {
			spec, err := Lookup(name)
			if err != nil {
				t.Fatalf("Lookup() error = %v", err)
			}
			blk, err := New(name, key[:spec.KeySize])
			if err != nil {
				t.Fatalf("New() error = %v", err)
			}
			if blk.BlockSize() != spec.BlockSize {
				t.Fatalf("BlockSize() = %d, want %d", blk.BlockSize(), spec.BlockSize)
			}
			iv := make([]byte, spec.BlockSize)
			ct, err := modes.EncryptWith(blk, pt, modes.CBC{IV: iv}, modes.PKCS7)
			if err != nil {
				t.Fatalf("EncryptWith() error = %v", err)
			}
			if bytes.Contains(ct, pt[:8]) {
				t.Error("ciphertext leaks plaintext")
			}
			back, err := modes.DecryptWith(blk, ct, modes.CBC{IV: iv})
			if err != nil {
				t.Fatalf("DecryptWith() error = %v", err)
			}
			back, err = padding.Strip(back, spec.BlockSize)
			if err != nil {
				t.Fatalf("Strip() error = %v", err)
			}
			if !bytes.Equal(back, pt) {
				t.Errorf("round trip = %q, want %q", back, pt)
			}
		})
	}
}

func TestLookup(t *testing.T) {
	if s, err := Lookup(" aes-128 "); err != nil || s.Name != AES128 {
		t.Errorf("Lookup(aes-128) = %v, %v", s.Name, err)
	}
	if _, err := Lookup("RC2"); !errors.Is(err, ErrUnknownCipher) {
		t.Errorf("Lookup(RC2) error = %v, want ErrUnknownCipher", err)
	}
	if _, err := New(HIGHT, make([]byte, 8)); err == nil {
		t.Error("New(HIGHT, 8-byte key) should fail")
	}
	if got := len(Names()); got != 7 {
		t.Errorf("len(Names()) = %d, want 7", got)
	}
}
