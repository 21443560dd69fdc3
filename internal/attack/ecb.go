package attack

import (
	"bytes"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"blockbreak/internal/human"
	"blockbreak/internal/modes"
	"blockbreak/internal/oracle"
	"blockbreak/internal/padding"
)

// IsECB reports whether any two bs-byte chunks of ct are identical.
func IsECB(ct []byte, bs int) bool {
	seen := make(map[string]struct{})
	for _, c := range chunks(ct, bs) {
		if _, ok := seen[string(c)]; ok {
			return true
		}
		seen[string(c)] = struct{}{}
	}
	return false
}

// DetectMode classifies an oracle as ECB or CBC from one query of three
// placeholder blocks, enough for two aligned identical blocks whatever the
// oracle prepends.
func DetectMode(o oracle.Encrypter, bs int) (modes.Kind, error) {
	ct, err := query(o, repeat(placeholder, 3*bs))
	if err != nil {
		return 0, err
	}
	if IsECB(ct, bs) {
		return modes.KindECB, nil
	}
	return modes.KindCBC, nil
}

// DetectECBLine returns the index of the first line that looks ECB encrypted.
func DetectECBLine(lines [][]byte, bs int) (int, bool) {
	for i, l := range lines {
		if IsECB(l, bs) {
			return i, true
		}
	}
	return -1, false
}

// DetectBlockSize feeds growing placeholder runs and returns the smallest
// trial size whose adjacent output chunks collide.
func DetectBlockSize(o oracle.Encrypter) (int, error) {
	for n := 2 * minBlockSize; n <= 3*maxBlockSize; n++ {
		ct, err := query(o, repeat(placeholder, n))
		if err != nil {
			return 0, err
		}
		for size := minBlockSize; size <= maxBlockSize && 2*size <= n; size++ {
			cs := chunks(ct, size)
			for i := 0; i+1 < len(cs); i++ {
				if bytes.Equal(cs[i], cs[i+1]) {
					return size, nil
				}
			}
		}
	}
	return 0, ErrBlockSizeNotFound
}

// ecbBlockSize detects the block size and confirms the oracle is ECB.
func ecbBlockSize(o oracle.Encrypter) (int, error) {
	bs, err := DetectBlockSize(o)
	if errors.Is(err, ErrBlockSizeNotFound) {
		return 0, fmt.Errorf("%w: no repeated blocks", ErrModeMismatch)
	}
	if err != nil {
		return 0, err
	}
	kind, err := DetectMode(o, bs)
	if err != nil {
		return 0, err
	}
	if kind != modes.KindECB {
		return 0, fmt.Errorf("%w: detected %v", ErrModeMismatch, kind)
	}
	return bs, nil
}

// ByteAtATime recovers the secret an ECB oracle appends to attacker input.
// Recovery stops at the first byte outside human.Alphabet, which is normally
// the first padding byte.
func ByteAtATime(o oracle.Encrypter, lg *zap.SugaredLogger) ([]byte, error) {
	lg = logOrNop(lg)
	bs, err := ecbBlockSize(o)
	if err != nil {
		return nil, err
	}
	lg.Debugw("ecb oracle calibrated", "block_size", bs)
	return recoverSuffix(o, bs, 0, 0, lg)
}

// ByteAtATimePrefixed is ByteAtATime for an oracle that also prepends a
// fixed unknown prefix.
func ByteAtATimePrefixed(o oracle.Encrypter, lg *zap.SugaredLogger) ([]byte, error) {
	lg = logOrNop(lg)
	bs, err := ecbBlockSize(o)
	if err != nil {
		return nil, err
	}
	align, start, err := measurePrefix(o, bs)
	if err != nil {
		return nil, err
	}
	lg.Debugw("ecb oracle calibrated", "block_size", bs, "align", align, "start_block", start)
	return recoverSuffix(o, bs, align, start, lg)
}

// recoverSuffix runs the short-block dictionary attack. align filler bytes
// push attacker input to the start of block start.
func recoverSuffix(o oracle.Encrypter, bs, align, start int, lg *zap.SugaredLogger) ([]byte, error) {
	base, err := query(o, repeat(placeholder, align))
	if err != nil {
		return nil, err
	}
	total := len(base) - start*bs
	candidates := human.Bytes()

	var known []byte
	for len(known) < total {
		fill := repeat(placeholder, align+bs-1-len(known)%bs)
		idx := start + len(known)/bs

		ct, err := query(o, fill)
		if err != nil {
			return nil, err
		}
		want := block(ct, idx, bs)
		if want == nil {
			break
		}

		dict := make(map[string]byte, len(candidates))
		probe := append(append(append([]byte(nil), fill...), known...), 0)
		for _, c := range candidates {
			probe[len(probe)-1] = c
			out, err := query(o, probe)
			if err != nil {
				return nil, err
			}
			dict[string(block(out, idx, bs))] = c
		}
		c, ok := dict[string(want)]
		if !ok {
			break
		}
		known = append(known, c)
	}
	lg.Debugw("byte-at-a-time finished", "recovered", len(known))
	return known, nil
}

// CutAndPaste forges a profile ciphertext whose last field value current is
// replaced by target. The oracle's input is the email address, and the
// encoded profile must end with current.
func CutAndPaste(o oracle.Encrypter, current, target string, lg *zap.SugaredLogger) ([]byte, error) {
	lg = logOrNop(lg)
	bs, err := ecbBlockSize(o)
	if err != nil {
		return nil, err
	}
	if len(target) >= bs {
		return nil, ErrTargetTooLong
	}

	// Input length at which the ciphertext grows: the fixed text plus jump
	// fills whole blocks.
	base, err := query(o, nil)
	if err != nil {
		return nil, err
	}
	jump := -1
	for n := 1; n <= bs; n++ {
		ct, err := query(o, repeat(placeholder, n))
		if err != nil {
			return nil, err
		}
		if len(ct) > len(base) {
			jump = n
			break
		}
	}
	if jump < 0 {
		return nil, ErrBlockSizeNotFound
	}

	align, start, err := measurePrefix(o, bs)
	if err != nil {
		return nil, err
	}
	lg.Debugw("profile oracle calibrated", "block_size", bs, "jump", jump, "align", align, "start_block", start)

	payload := append(repeat(placeholder, align), padding.Pad([]byte(target), bs)...)
	ct, err := query(o, payload)
	if err != nil {
		return nil, err
	}
	forged := block(ct, start, bs)
	if forged == nil {
		return nil, ErrPrefixNotFound
	}

	// An email of this length leaves current alone in the last block.
	emailLen := (jump + len(current)) % bs
	ct, err = query(o, repeat(placeholder, emailLen))
	if err != nil {
		return nil, err
	}
	out := append(append([]byte(nil), ct[:len(ct)-bs]...), forged...)
	return out, nil
}
