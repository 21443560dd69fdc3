package attack

import (
	"bytes"
	"fmt"

	"go.uber.org/zap"

	"blockbreak/internal/oracle"
)

const flipMarker = 0xff

// BitFlip forges a CBC ciphertext whose plaintext contains target, even
// though enc escapes ';' and '='. Each such delimiter is submitted as a
// placeholder byte, and the matching byte of the sacrificial block before it
// is searched until dec shows the delimiter. target must fit in one block.
func BitFlip(enc oracle.Encrypter, dec oracle.Decrypter, target []byte, lg *zap.SugaredLogger) ([]byte, error) {
	lg = logOrNop(lg)
	bs, err := blockSizeByLength(enc)
	if err != nil {
		return nil, err
	}
	if len(target) > bs {
		return nil, fmt.Errorf("%w: %d > %d", ErrTargetTooLong, len(target), bs)
	}
	align, start, err := measurePrefix(enc, bs)
	if err != nil {
		return nil, err
	}
	lg.Debugw("cbc oracle calibrated", "block_size", bs, "align", align, "start_block", start)

	payload := repeat(0x01, bs)
	var flips []int
	for i, c := range target {
		if c == ';' || c == '=' {
			flips = append(flips, i)
			c = flipMarker
		}
		payload = append(payload, c)
	}
	payload = append(payload, repeat(0x01, bs-len(target))...)
	payload = append(repeat(placeholder, align), payload...)

	ct, err := query(enc, payload)
	if err != nil {
		return nil, err
	}
	sacrificial := start * bs
	if len(ct) < sacrificial+2*bs {
		return nil, ErrPrefixNotFound
	}

	forged := append([]byte(nil), ct...)
	for _, pos := range flips {
		want := target[pos]
		orig := forged[sacrificial+pos]
		found := false
		for i := 0; i < 256; i++ {
			forged[sacrificial+pos] = orig + byte(i)
			pt, err := dec.Decrypt(forged)
			if err != nil {
				return nil, fmt.Errorf("attack: oracle: %w", err)
			}
			if pt[sacrificial+bs+pos] == want {
				found = true
				break
			}
		}
		if !found {
			forged[sacrificial+pos] = orig
			return nil, fmt.Errorf("%w: position %d", ErrForgeFailed, pos)
		}
	}
	return forged, nil
}

// PaddingOracle decrypts ct, encrypted under CBC with iv, using only o. The
// result still carries its padding. When a byte cannot be recovered the
// attack stops and returns the whole blocks recovered so far.
func PaddingOracle(o oracle.PaddingOracle, iv, ct []byte, lg *zap.SugaredLogger) ([]byte, error) {
	lg = logOrNop(lg)
	bs := len(iv)
	if bs < 2 || len(ct) == 0 || len(ct)%bs != 0 {
		return nil, fmt.Errorf("%w: iv %d bytes, ciphertext %d bytes", ErrCiphertextShape, bs, len(ct))
	}
	blocks := append([][]byte{iv}, chunks(ct, bs)...)

	var out []byte
	for i := 1; i < len(blocks); i++ {
		prev, cur := blocks[i-1], blocks[i]
		inter, err := intermediate(o, cur, bs)
		if err != nil {
			return nil, err
		}
		if inter == nil {
			lg.Warnw("padding oracle search exhausted", "block", i-1, "recovered", len(out))
			return out, nil
		}
		for j := range inter {
			out = append(out, inter[j]^prev[j])
		}
	}
	return out, nil
}

// intermediate recovers D(cur) byte by byte from the end. It returns nil
// when some position has no value that yields valid padding.
func intermediate(o oracle.PaddingOracle, cur []byte, bs int) ([]byte, error) {
	inter := make([]byte, bs)
	forged := make([]byte, bs)
	for pos := bs - 1; pos >= 0; pos-- {
		p := byte(bs - pos)
		for j := pos + 1; j < bs; j++ {
			forged[j] = inter[j] ^ p
		}
		found := false
		for g := 0; g < 256; g++ {
			forged[pos] = byte(g)
			ok, err := o.ValidPadding(forged, cur)
			if err != nil {
				return nil, fmt.Errorf("attack: oracle: %w", err)
			}
			if !ok {
				continue
			}
			if p == 1 {
				// Rule out a longer padding that happened to be valid.
				check := bytes.Clone(forged)
				check[pos-1] ^= 0xff
				ok, err = o.ValidPadding(check, cur)
				if err != nil {
					return nil, fmt.Errorf("attack: oracle: %w", err)
				}
				if !ok {
					continue
				}
			}
			inter[pos] = byte(g) ^ p
			found = true
			break
		}
		if !found {
			return nil, nil
		}
	}
	return inter, nil
}
