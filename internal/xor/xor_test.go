package xor

import (
	"bytes"
	"encoding/hex"
	"errors"
	"testing"
)

func TestFixed(t *testing.T) {
	a, _ := hex.DecodeString("1c0111001f010100061a024b53535009181c")
	b, _ := hex.DecodeString("686974207468652062756c6c277320657965")
	got, err := Fixed(a, b)
	if err != nil {
		t.Fatalf("Fixed() error = %v", err)
	}
	if want := "746865206b696420646f6e277420706c6179"; hex.EncodeToString(got) != want {
		t.Errorf("Fixed() = %x, want %s", got, want)
	}
	if _, err := Fixed(a, b[1:]); !errors.Is(err, ErrLength) {
		t.Errorf("Fixed(short) error = %v, want ErrLength", err)
	}
}

func TestRepeating(t *testing.T) {
	in := []byte("Burning 'em, if you ain't quick and nimble\nI go crazy when I hear a cymbal")
	want := "0b3637272a2b2e63622c2e69692a23693a2a3c6324202d623d63343c2a26226324272765272" +
		"a282b2f20430a652e2c652a3124333a653e2b2027630c692b20283165286326302e27282f"
	if got := hex.EncodeToString(Repeating(in, []byte("ICE"))); got != want {
		t.Errorf("Repeating() = %s, want %s", got, want)
	}
	if got := Repeating(in, nil); !bytes.Equal(got, in) {
		t.Error("Repeating with empty key changed the input")
	}
}

func TestSingleByte(t *testing.T) {
	if got := SingleByte([]byte{0x00, 0xff, 0x0f}, 0x0f); !bytes.Equal(got, []byte{0x0f, 0xf0, 0x00}) {
		t.Errorf("SingleByte() = %x", got)
	}
}

func TestHamming(t *testing.T) {
	got, err := Hamming([]byte("this is a test"), []byte("wokka wokka!!!"))
	if err != nil {
		t.Fatal(err)
	}
	if got != 37 {
		t.Errorf("Hamming() = %d, want 37", got)
	}
}
