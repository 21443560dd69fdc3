// Package challenge derives the hidden material behind every oracle from a
// master key and a session id, so a session's scenarios are stable across
// requests without being stored.
package challenge

import (
	"bytes"
	"crypto/cipher"
	"crypto/sha256"
	"embed"
	"errors"
	"fmt"
	"io"

	"golang.org/x/crypto/hkdf"

	"blockbreak/internal/aes"
	"blockbreak/internal/ciphers"
	"blockbreak/internal/oracle"
	"blockbreak/internal/padding"
	"blockbreak/internal/util"
)

// Challenge names, also used in URLs.
const (
	ECBSuffix     = "ecb-suffix"
	ECBPrefixed   = "ecb-prefixed"
	Profile       = "profile"
	CBCBitflip    = "cbc-bitflip"
	CBCPadding    = "cbc-padding"
	CTRFixedNonce = "ctr-fixed-nonce"
)

// Names lists every solvable challenge.
var Names = []string{ECBSuffix, ECBPrefixed, Profile, CBCBitflip, CBCPadding, CTRFixedNonce}

var (
	ErrUnknownChallenge = errors.New("challenge: unknown challenge")
	ErrMasterKey        = errors.New("challenge: master key must be at least 16 bytes")
)

//go:embed data/*.b64
var data embed.FS

var (
	suffixSecret  []byte
	paddingLines  [][]byte
	ctrPlaintexts [][]byte
)

func init() {
	suffixSecret = mustLoad("data/suffix.b64", util.Base64Concat)
	paddingLines = mustLoad("data/padding.b64", util.Base64Lines)
	ctrPlaintexts = mustLoad("data/ctr.b64", util.Base64Lines)
}

func mustLoad[T any](name string, decode func(io.Reader) (T, error)) T {
	f, err := data.Open(name)
	if err != nil {
		panic(err)
	}
	defer f.Close()
	v, err := decode(f)
	if err != nil {
		panic(fmt.Sprintf("challenge: %s: %v", name, err))
	}
	return v
}

// Deriver turns session ids into scenarios.
type Deriver struct {
	master []byte
	cipher ciphers.Spec
}

// NewDeriver checks the master key and cipher name.
func NewDeriver(master []byte, cipherName string) (*Deriver, error) {
	if len(master) < 16 {
		return nil, ErrMasterKey
	}
	spec, err := ciphers.Lookup(cipherName)
	if err != nil {
		return nil, err
	}
	return &Deriver{master: bytes.Clone(master), cipher: spec}, nil
}

// Cipher is the name of the block cipher behind the scenarios.
func (d *Deriver) Cipher() string { return d.cipher.Name }

// Scenario is one session's set of oracles.
type Scenario struct {
	SessionID   string
	BlockSize   int
	ECBSuffix   *oracle.ECBSuffix
	ECBPrefixed *oracle.ECBPrefixed
	Profile     *oracle.Profile
	Bitflip     *oracle.Bitflip
	Padding     *oracle.PaddingChallenge
	CTR         *oracle.FixedNonceCTR
}

// For derives the scenario of a session. The same id always yields the
// same keys, IVs, prefix and secret choice.
func (d *Deriver) For(sessionID string) (*Scenario, error) {
	r := func(label string, n int) []byte {
		b := make([]byte, n)
		kdf := hkdf.New(sha256.New, d.master, []byte(sessionID), []byte(label))
		if _, err := io.ReadFull(kdf, b); err != nil {
			panic(err)
		}
		return b
	}
	block := func(label string) (cipher.Block, error) {
		return d.cipher.New(r(label, d.cipher.KeySize))
	}

	bs := d.cipher.BlockSize
	s := &Scenario{SessionID: sessionID, BlockSize: bs}

	ecb, err := block("ecb key")
	if err != nil {
		return nil, err
	}
	prefixLen := int(r("ecb prefix length", 1)[0]) % 48
	s.ECBSuffix = &oracle.ECBSuffix{Block: ecb, Secret: suffixSecret}
	s.ECBPrefixed = &oracle.ECBPrefixed{Block: ecb, Prefix: r("ecb prefix", prefixLen), Secret: suffixSecret}

	prof, err := block("profile key")
	if err != nil {
		return nil, err
	}
	s.Profile = &oracle.Profile{Block: prof}

	flip, err := block("bitflip key")
	if err != nil {
		return nil, err
	}
	s.Bitflip = &oracle.Bitflip{Block: flip, IV: r("bitflip iv", bs)}

	pad, err := block("padding key")
	if err != nil {
		return nil, err
	}
	line := paddingLines[int(r("padding secret", 1)[0])%len(paddingLines)]
	s.Padding = &oracle.PaddingChallenge{Block: pad, IV: r("padding iv", bs), Secret: line}

	// CTR needs a 16-byte block; 64-bit ciphers fall back to the AES core.
	var ctrBlock cipher.Block
	if bs == aes.BlockSize {
		ctrBlock, err = block("ctr key")
	} else {
		ctrBlock, err = aes.NewCipher(r("ctr key", aes.KeySize))
	}
	if err != nil {
		return nil, err
	}
	s.CTR = &oracle.FixedNonceCTR{Block: ctrBlock, Nonce: r("ctr nonce", 8)}
	return s, nil
}

// CTRCiphertexts encrypts the fixed-nonce corpus.
func (s *Scenario) CTRCiphertexts() ([][]byte, error) {
	return s.CTR.EncryptAll(ctrPlaintexts)
}

// Check reports whether answer solves the named challenge.
//
//   - ecb-suffix, ecb-prefixed: the recovered secret.
//   - profile: a ciphertext whose role is admin.
//   - cbc-bitflip: a ciphertext containing ;admin=true;.
//   - cbc-padding: the recovered plaintext, padded or not.
//   - ctr-fixed-nonce: at least 16 bytes of keystream, 90% correct.
func (s *Scenario) Check(name string, answer []byte) (bool, error) {
	switch name {
	case ECBSuffix, ECBPrefixed:
		return bytes.Equal(answer, suffixSecret), nil
	case Profile:
		role, err := s.Profile.Role(answer)
		if err != nil {
			return false, nil
		}
		return role == "admin", nil
	case CBCBitflip:
		ok, err := s.Bitflip.IsAdmin(answer)
		if err != nil {
			return false, nil
		}
		return ok, nil
	case CBCPadding:
		if stripped, err := padding.Strip(answer, s.BlockSize); err == nil && bytes.Equal(stripped, s.Padding.Secret) {
			return true, nil
		}
		return bytes.Equal(answer, s.Padding.Secret), nil
	case CTRFixedNonce:
		return s.checkKeystream(answer)
	}
	return false, fmt.Errorf("%w: %q", ErrUnknownChallenge, name)
}

func (s *Scenario) checkKeystream(ks []byte) (bool, error) {
	if len(ks) < 16 {
		return false, nil
	}
	want, err := s.CTR.Encrypt(make([]byte, len(ks)))
	if err != nil {
		return false, err
	}
	right := 0
	for i := range ks {
		if ks[i] == want[i] {
			right++
		}
	}
	return float64(right) >= 0.9*float64(len(ks)), nil
}
