// Package vectors reads, checks and writes NIST-style .rsp known-answer
// files for any registered cipher in ECB, CBC or CTR mode.
package vectors

import (
	"bufio"
	"bytes"
	"encoding/binary"
	"encoding/hex"
	"fmt"
	"io"
	"strings"

	"blockbreak/internal/ciphers"
	"blockbreak/internal/modes"
	"blockbreak/internal/util"
)

const (
	Encrypt = "ENCRYPT"
	Decrypt = "DECRYPT"
)

// Record is one COUNT block of a response file. IV is empty for ECB and
// holds the initial counter block for CTR.
type Record struct {
	Count     int
	Key       []byte
	IV        []byte
	PT        []byte
	CT        []byte
	Direction string
}

type Mismatch struct {
	Count     int    `json:"count"`
	Direction string `json:"direction"`
	Expected  string `json:"expected"`
	Got       string `json:"got"`
}

type Result struct {
	Cipher   string     `json:"cipher"`
	Mode     string     `json:"mode"`
	Total    int        `json:"total"`
	Passed   int        `json:"passed"`
	Failed   int        `json:"failed"`
	Failures []Mismatch `json:"failures,omitempty"`
}

// Parse reads [ENCRYPT]/[DECRYPT] sections of COUNT/KEY/IV/PLAINTEXT/
// CIPHERTEXT records. Comments and unknown keys are skipped.
func Parse(r io.Reader) ([]Record, error) {
	var recs []Record
	sc := bufio.NewScanner(r)
	section := ""
	var cur Record
	lineNo := 0

	flush := func() {
		if cur.Key != nil || cur.IV != nil || cur.PT != nil || cur.CT != nil {
			cur.Direction = section
			recs = append(recs, cur)
			cur = Record{}
		}
	}

	for sc.Scan() {
		lineNo++
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if strings.HasPrefix(line, "[") && strings.HasSuffix(line, "]") {
			flush()
			section = strings.ToUpper(strings.Trim(line, "[]"))
			continue
		}
		k, v, ok := strings.Cut(line, "=")
		if !ok {
			continue
		}
		k, v = strings.TrimSpace(k), strings.TrimSpace(v)

		var dst *[]byte
		switch k {
		case "COUNT":
			flush()
			if _, err := fmt.Sscanf(v, "%d", &cur.Count); err != nil {
				return nil, fmt.Errorf("line %d: bad COUNT: %w", lineNo, err)
			}
			continue
		case "KEY":
			dst = &cur.Key
		case "IV":
			dst = &cur.IV
		case "PLAINTEXT":
			dst = &cur.PT
		case "CIPHERTEXT":
			dst = &cur.CT
		default:
			continue
		}
		b, err := util.DecodeHex(v)
		if err != nil {
			return nil, fmt.Errorf("line %d: %s: %w", lineNo, k, err)
		}
		*dst = b
	}
	flush()
	if err := sc.Err(); err != nil {
		return nil, err
	}
	return recs, nil
}

// Validate runs every record through the named cipher in the given mode,
// without padding, and compares against the expected output.
func Validate(recs []Record, cipherName string, kind modes.Kind) (Result, error) {
	res := Result{Cipher: cipherName, Mode: kind.String(), Total: len(recs)}
	for _, r := range recs {
		blk, err := ciphers.New(cipherName, r.Key)
		if err != nil {
			return res, fmt.Errorf("COUNT=%d: %w", r.Count, err)
		}
		mode, err := modeFor(kind, r.IV)
		if err != nil {
			return res, fmt.Errorf("COUNT=%d: %w", r.Count, err)
		}

		var in, want, got []byte
		switch r.Direction {
		case Encrypt:
			in, want = r.PT, r.CT
			got, err = modes.EncryptWith(blk, in, mode, modes.NoPadding)
		case Decrypt:
			in, want = r.CT, r.PT
			got, err = modes.DecryptWith(blk, in, mode)
		default:
			return res, fmt.Errorf("COUNT=%d: unknown section %q", r.Count, r.Direction)
		}
		if err != nil {
			return res, fmt.Errorf("COUNT=%d: %w", r.Count, err)
		}
		if bytes.Equal(got, want) {
			res.Passed++
			continue
		}
		res.Failed++
		res.Failures = append(res.Failures, Mismatch{
			Count:     r.Count,
			Direction: r.Direction,
			Expected:  hex.EncodeToString(want),
			Got:       hex.EncodeToString(got),
		})
	}
	return res, nil
}

func modeFor(kind modes.Kind, iv []byte) (modes.Mode, error) {
	switch kind {
	case modes.KindECB:
		return modes.ECB{}, nil
	case modes.KindCBC:
		return modes.CBC{IV: iv}, nil
	case modes.KindCTR:
		if len(iv) != 16 {
			return nil, fmt.Errorf("%w: counter block must be 16 bytes", modes.ErrNonceSize)
		}
		return modes.CTR{Nonce: iv[:modes.NonceSize], Counter: binary.BigEndian.Uint64(iv[modes.NonceSize:])}, nil
	}
	return nil, modes.ErrUnknownMode
}

// Fill computes the missing output of every record: CIPHERTEXT for ENCRYPT
// records and PLAINTEXT for DECRYPT records.
func Fill(recs []Record, cipherName string, kind modes.Kind) error {
	for i := range recs {
		r := &recs[i]
		blk, err := ciphers.New(cipherName, r.Key)
		if err != nil {
			return fmt.Errorf("COUNT=%d: %w", r.Count, err)
		}
		mode, err := modeFor(kind, r.IV)
		if err != nil {
			return fmt.Errorf("COUNT=%d: %w", r.Count, err)
		}
		switch r.Direction {
		case Encrypt:
			r.CT, err = modes.EncryptWith(blk, r.PT, mode, modes.NoPadding)
		case Decrypt:
			r.PT, err = modes.DecryptWith(blk, r.CT, mode)
		}
		if err != nil {
			return fmt.Errorf("COUNT=%d: %w", r.Count, err)
		}
	}
	return nil
}

// Format writes records back in .rsp layout, ENCRYPT section first. With
// withExpected false only the inputs are written, as in a request file.
func Format(recs []Record, withExpected bool) string {
	var b strings.Builder
	for _, dir := range []string{Encrypt, Decrypt} {
		b.WriteString("[" + dir + "]\n\n")
		for _, r := range recs {
			if r.Direction != dir {
				continue
			}
			fmt.Fprintf(&b, "COUNT = %d\n", r.Count)
			fmt.Fprintf(&b, "KEY = %x\n", r.Key)
			if len(r.IV) > 0 {
				fmt.Fprintf(&b, "IV = %x\n", r.IV)
			}
			if dir == Encrypt {
				fmt.Fprintf(&b, "PLAINTEXT = %x\n", r.PT)
				if withExpected {
					fmt.Fprintf(&b, "CIPHERTEXT = %x\n", r.CT)
				}
			} else {
				fmt.Fprintf(&b, "CIPHERTEXT = %x\n", r.CT)
				if withExpected {
					fmt.Fprintf(&b, "PLAINTEXT = %x\n", r.PT)
				}
			}
			b.WriteString("\n")
		}
	}
	return b.String()
}
