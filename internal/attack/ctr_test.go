package attack

import (
	"bytes"
	"strings"
	"testing"

	"blockbreak/internal/ciphers"
	"blockbreak/internal/oracle"
)

var reusedNonceLines = []string{
	"i have met them at close of day coming",
	"from counter or desk among grey houses",
	"i have passed with a nod of the head or",
	"polite meaningless words, or have lingered",
	"a while and said polite meaningless words",
	"and thought before i had done of a mocking",
	"tale or a gibe to please a companion around",
	"the fire at the club, being certain that they",
	"and i but lived where motley is worn, all is",
	"changed, changed utterly, a terrible beauty is born",
	"that woman's days were spent in ignorant good will",
	"her nights in argument until her voice grew shrill",
	"what voice more sweet than hers when young and",
	"beautiful, she rode to harriers, this man had",
	"kept a school and rode our winged horse, this other",
	"his helper and friend was coming into his force",
	"he might have won fame in the end, so sensitive",
	"his nature seemed, so daring and sweet his thought",
	"this other man i had dreamed a drunken vainglorious",
	"lout, he had done most bitter wrong to some who are",
	"near my heart, yet i number him in the song, he too",
	"has resigned his part in the casual comedy, he too",
	"has been changed in his turn, transformed utterly",
	"hearts with one purpose alone through summer and",
	"winter seem enchanted to a stone to trouble the",
	"living stream, the horse that comes from the road",
	"the rider, the birds that range from cloud to cloud",
	"minute by minute they change, a shadow of cloud on",
	"the stream changes minute by minute, a horse hoof",
	"slides on the brim and a horse plashes within it",
	"the long legged moor hens dive and hens to moor cocks",
	"call, minute by minute they live, the stone is in",
	"the midst of all, too long a sacrifice can make a",
	"stone of the heart, o when may it suffice, that is",
	"heaven's part, our part to murmur name upon name",
	"as a mother names her child when sleep at last has",
	"come on limbs that had run wild, what is it but",
	"nightfall, no, no, not night but death, was it",
	"needless death after all, for england may keep faith",
	"for all that is done and said, we know their dream",
}

func TestFixedNonceCTR(t *testing.T) {
	o := &oracle.FixedNonceCTR{Block: randomBlock(t, ciphers.AES128), Nonce: make([]byte, 8)}
	pts := make([][]byte, len(reusedNonceLines))
	for i, l := range reusedNonceLines {
		pts[i] = []byte(l)
	}
	cts, err := o.EncryptAll(pts)
	if err != nil {
		t.Fatal(err)
	}
	ks, got, err := FixedNonceCTR(cts, nil)
	if err != nil {
		t.Fatalf("FixedNonceCTR() error = %v", err)
	}
	shortest := len(pts[0])
	for _, p := range pts {
		shortest = min(shortest, len(p))
	}
	if len(ks) != shortest {
		t.Fatalf("len(keystream) = %d, want %d", len(ks), shortest)
	}
	right, total := 0, 0
	for i, p := range got {
		if len(p) != shortest {
			t.Fatalf("len(plaintext %d) = %d", i, len(p))
		}
		for j := range p {
			total++
			if p[j] == pts[i][j] {
				right++
			}
		}
	}
	if float64(right)/float64(total) < 0.9 {
		t.Errorf("recovered %d of %d bytes", right, total)
	}
}

func TestFixedNonceCTRTiesKeepFirst(t *testing.T) {
	flat := func([]byte) float64 { return 1 }
	ks, pts, err := FixedNonceCTR([][]byte{[]byte("abcd"), []byte("efg")}, flat)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(ks, []byte{0, 0, 0}) {
		t.Errorf("keystream = %x, want zeros", ks)
	}
	if string(pts[0]) != "abc" || string(pts[1]) != "efg" {
		t.Errorf("plaintexts = %q", pts)
	}
}

func TestFixedNonceCTREmpty(t *testing.T) {
	if _, _, err := FixedNonceCTR(nil, nil); err != ErrNoCiphertexts {
		t.Errorf("FixedNonceCTR(nil) error = %v", err)
	}
	ks, _, err := FixedNonceCTR([][]byte{[]byte(strings.Repeat("x", 4)), {}}, nil)
	if err != nil || len(ks) != 0 {
		t.Errorf("FixedNonceCTR(with empty) = %x, %v", ks, err)
	}
}
