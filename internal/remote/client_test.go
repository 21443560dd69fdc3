package remote

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"slices"
	"testing"
	"time"

	"go.uber.org/zap"

	"blockbreak/internal/attack"
	"blockbreak/internal/auth"
	"blockbreak/internal/challenge"
	"blockbreak/internal/ciphers"
	"blockbreak/internal/httpserver"
	"blockbreak/internal/oracle"
	"blockbreak/internal/store"
)

func newServer(t *testing.T, cipherName string) *httptest.Server {
	t.Helper()
	d, err := challenge.NewDeriver(bytes.Repeat([]byte{0x5a}, 32), cipherName)
	if err != nil {
		t.Fatalf("NewDeriver() error = %v", err)
	}
	signer := auth.NewSigner([]byte("test secret"), time.Hour)
	srv := httptest.NewServer(httpserver.NewRouter(store.NewMemory(), signer, d, zap.NewNop().Sugar()))
	t.Cleanup(srv.Close)
	return srv
}

func dial(t *testing.T, srv *httptest.Server) *Client {
	t.Helper()
	c, err := Dial(context.Background(), srv.URL, srv.Client())
	if err != nil {
		t.Fatalf("Dial() error = %v", err)
	}
	return c
}

func mustSolve(t *testing.T, c *Client, name string, answer []byte) {
	t.Helper()
	res, err := c.Solve(context.Background(), name, answer)
	if err != nil {
		t.Fatalf("Solve(%s) error = %v", name, err)
	}
	if !res.Correct {
		t.Fatalf("Solve(%s) answer %q rejected", name, answer)
	}
}

func TestAttacksOverHTTP(t *testing.T) {
	if testing.Short() {
		t.Skip("thousands of oracle requests")
	}
	ctx := context.Background()
	srv := newServer(t, ciphers.AES128)
	c := dial(t, srv)
	if c.Cipher != ciphers.AES128 {
		t.Errorf("Cipher = %q", c.Cipher)
	}

	t.Run("ecb-suffix", func(t *testing.T) {
		secret, err := attack.ByteAtATime(c.Encrypter(ctx, challenge.ECBSuffix), nil)
		if err != nil {
			t.Fatalf("ByteAtATime() error = %v", err)
		}
		mustSolve(t, c, challenge.ECBSuffix, secret)
	})
	t.Run("ecb-prefixed", func(t *testing.T) {
		secret, err := attack.ByteAtATimePrefixed(c.Encrypter(ctx, challenge.ECBPrefixed), nil)
		if err != nil {
			t.Fatalf("ByteAtATimePrefixed() error = %v", err)
		}
		mustSolve(t, c, challenge.ECBPrefixed, secret)
	})
	t.Run("profile", func(t *testing.T) {
		forged, err := attack.CutAndPaste(c.Profile(ctx), "user", "admin", nil)
		if err != nil {
			t.Fatalf("CutAndPaste() error = %v", err)
		}
		mustSolve(t, c, challenge.Profile, forged)
	})
	t.Run("cbc-bitflip", func(t *testing.T) {
		forged, err := attack.BitFlip(c.Encrypter(ctx, challenge.CBCBitflip), c.BitflipDecrypter(ctx), []byte(oracle.AdminMarker), nil)
		if err != nil {
			t.Fatalf("BitFlip() error = %v", err)
		}
		mustSolve(t, c, challenge.CBCBitflip, forged)
	})
	t.Run("cbc-padding", func(t *testing.T) {
		iv, ct, err := c.PaddingToken(ctx)
		if err != nil {
			t.Fatal(err)
		}
		pt, err := attack.PaddingOracle(c.PaddingOracle(ctx), iv, ct, nil)
		if err != nil {
			t.Fatalf("PaddingOracle() error = %v", err)
		}
		mustSolve(t, c, challenge.CBCPadding, pt)
	})
	t.Run("ctr-fixed-nonce", func(t *testing.T) {
		cts, err := c.CTRCiphertexts(ctx)
		if err != nil {
			t.Fatal(err)
		}
		ks, _, err := attack.FixedNonceCTR(cts, nil)
		if err != nil {
			t.Fatalf("FixedNonceCTR() error = %v", err)
		}
		mustSolve(t, c, challenge.CTRFixedNonce, ks)
	})

	me, err := c.Me(ctx)
	if err != nil {
		t.Fatal(err)
	}
	slices.Sort(me.Solved)
	want := slices.Clone(challenge.Names)
	slices.Sort(want)
	if !slices.Equal(me.Solved, want) {
		t.Errorf("Solved = %v, want %v", me.Solved, want)
	}
	if me.Queries == 0 {
		t.Error("Queries = 0")
	}
}

func TestBlockSizeOverHTTP(t *testing.T) {
	srv := newServer(t, ciphers.HIGHT)
	c := dial(t, srv)
	bs, err := attack.DetectBlockSize(c.Encrypter(context.Background(), challenge.ECBSuffix))
	if err != nil {
		t.Fatalf("DetectBlockSize() error = %v", err)
	}
	if bs != 8 {
		t.Errorf("DetectBlockSize() = %d, want 8", bs)
	}
}

func TestSolveWrongAnswer(t *testing.T) {
	c := dial(t, newServer(t, ciphers.AES128))
	res, err := c.Solve(context.Background(), challenge.ECBSuffix, []byte("nope"))
	if err != nil {
		t.Fatal(err)
	}
	if res.Correct {
		t.Error("wrong answer accepted")
	}
	_, err = c.Solve(context.Background(), "rot13", []byte("x"))
	var se *StatusError
	if !errors.As(err, &se) || se.Code != http.StatusNotFound {
		t.Errorf("Solve(unknown) error = %v, want 404", err)
	}
}

func TestRevoke(t *testing.T) {
	ctx := context.Background()
	c := dial(t, newServer(t, ciphers.AES128))
	if _, err := c.Me(ctx); err != nil {
		t.Fatal(err)
	}
	if err := c.Revoke(ctx); err != nil {
		t.Fatalf("Revoke() error = %v", err)
	}
	_, err := c.Me(ctx)
	var se *StatusError
	if !errors.As(err, &se) || se.Code != http.StatusUnauthorized {
		t.Errorf("Me() after revoke error = %v, want 401", err)
	}
}

func TestSessionsAreIndependent(t *testing.T) {
	ctx := context.Background()
	srv := newServer(t, ciphers.AES128)
	a, b := dial(t, srv), dial(t, srv)
	in := bytes.Repeat([]byte{'A'}, 32)
	ca, err := a.Encrypter(ctx, challenge.ECBSuffix).Encrypt(in)
	if err != nil {
		t.Fatal(err)
	}
	cb, err := b.Encrypter(ctx, challenge.ECBSuffix).Encrypt(in)
	if err != nil {
		t.Fatal(err)
	}
	if bytes.Equal(ca[:16], cb[:16]) {
		t.Error("two sessions share an ECB key")
	}
	again, err := a.Encrypter(ctx, challenge.ECBSuffix).Encrypt(in)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(ca, again) {
		t.Error("session key changed between requests")
	}
}
