// Package util holds the hex, base64 and line codecs used to load attack
// inputs and to read request bodies.
package util

import (
	"bufio"
	"encoding/base64"
	"encoding/hex"
	"fmt"
	"io"
	"strings"
)

// DecodeHex decodes hex after dropping whitespace.
func DecodeHex(s string) ([]byte, error) {
	b, err := hex.DecodeString(strings.Join(strings.Fields(s), ""))
	if err != nil {
		return nil, fmt.Errorf("decode hex: %w", err)
	}
	return b, nil
}

// HexLines decodes every non-blank line of r as hex.
func HexLines(r io.Reader) ([][]byte, error) {
	return decodeLines(r, hex.DecodeString)
}

// Base64Lines decodes every non-blank line of r as standard base64.
func Base64Lines(r io.Reader) ([][]byte, error) {
	return decodeLines(r, base64.StdEncoding.DecodeString)
}

// Base64Concat decodes r line by line and joins the results.
func Base64Concat(r io.Reader) ([]byte, error) {
	lines, err := Base64Lines(r)
	if err != nil {
		return nil, err
	}
	var out []byte
	for _, l := range lines {
		out = append(out, l...)
	}
	return out, nil
}

func decodeLines(r io.Reader, decode func(string) ([]byte, error)) ([][]byte, error) {
	var out [][]byte
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1<<20)
	n := 0
	for sc.Scan() {
		n++
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}
		b, err := decode(line)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", n, err)
		}
		out = append(out, b)
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
