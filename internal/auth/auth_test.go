package auth

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"blockbreak/internal/models"
	"blockbreak/internal/store"
)

func TestSignVerify(t *testing.T) {
	s := NewSigner([]byte("secret"), time.Hour)
	tok, exp, err := s.Sign("3f1c")
	if err != nil {
		t.Fatalf("Sign() error = %v", err)
	}
	if time.Until(exp) < 59*time.Minute {
		t.Errorf("expiry = %v", exp)
	}
	c, err := s.Verify(tok)
	if err != nil {
		t.Fatalf("Verify() error = %v", err)
	}
	if c.Subject != "3f1c" || c.JWTID != "3f1c" {
		t.Errorf("claims = %+v", c)
	}

	other := NewSigner([]byte("other"), time.Hour)
	if _, err := other.Verify(tok); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("Verify(wrong secret) error = %v", err)
	}
	if _, err := s.Verify("not.a.token"); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("Verify(garbage) error = %v", err)
	}
}

func TestVerifyExpired(t *testing.T) {
	s := NewSigner([]byte("secret"), time.Minute)
	s.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }
	tok, _, err := s.Sign("a")
	if err != nil {
		t.Fatal(err)
	}
	s.now = time.Now
	if _, err := s.Verify(tok); err == nil {
		t.Error("expired token verified")
	}
}

func TestJWTAuth(t *testing.T) {
	ctx := context.Background()
	st := store.NewMemory()
	s := NewSigner([]byte("secret"), time.Hour)
	_ = st.CreateSession(ctx, &models.Session{ID: "live", ExpiresAt: time.Now().Add(time.Hour)})
	_ = st.CreateSession(ctx, &models.Session{ID: "old", ExpiresAt: time.Now().Add(-time.Hour)})
	_ = st.CreateSession(ctx, &models.Session{ID: "gone", ExpiresAt: time.Now().Add(time.Hour)})
	_ = st.RevokeSession(ctx, "gone", time.Now())

	h := JWTAuth(st, s)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(SessionID(r.Context())))
	}))
	bearer := func(id string) string {
		tok, _, err := s.Sign(id)
		if err != nil {
			t.Fatal(err)
		}
		return "Bearer " + tok
	}
	tests := []struct {
		name   string
		header string
		want   int
	}{
		{"live", bearer("live"), http.StatusOK},
		{"missing header", "", http.StatusUnauthorized},
		{"bad token", "Bearer x", http.StatusUnauthorized},
		{"unknown session", bearer("nope"), http.StatusUnauthorized},
		{"expired session", bearer("old"), http.StatusUnauthorized},
		{"revoked session", bearer("gone"), http.StatusUnauthorized},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)
			if rec.Code != tt.want {
				t.Fatalf("status = %d, want %d", rec.Code, tt.want)
			}
			if tt.want == http.StatusOK && rec.Body.String() != "live" {
				t.Errorf("body = %q", rec.Body.String())
			}
		})
	}
}
