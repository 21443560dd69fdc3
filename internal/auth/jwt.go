package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var ErrInvalidToken = errors.New("auth: invalid token")

// Signer issues and checks HS256 session tokens.
type Signer struct {
	Secret []byte
	TTL    time.Duration
	now    func() time.Time
}

func NewSigner(secret []byte, ttl time.Duration) *Signer {
	return &Signer{Secret: secret, TTL: ttl, now: time.Now}
}

func (s *Signer) clock() time.Time {
	if s.now == nil {
		return time.Now()
	}
	return s.now()
}

// Sign returns a token for the session and the time it expires.
func (s *Signer) Sign(sessionID string) (string, time.Time, error) {
	now := s.clock()
	exp := now.Add(s.TTL)
	claims := jwt.MapClaims{
		"sub": sessionID,
		"jti": sessionID,
		"exp": exp.Unix(),
		"iat": now.Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	str, err := token.SignedString(s.Secret)
	return str, exp, err
}

func (s *Signer) Verify(tokenStr string) (Claims, error) {
	tok, err := jwt.Parse(tokenStr, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return s.Secret, nil
	}, jwt.WithValidMethods([]string{"HS256"}), jwt.WithTimeFunc(s.clock))
	if err != nil || !tok.Valid {
		return Claims{}, ErrInvalidToken
	}
	mapc, ok := tok.Claims.(jwt.MapClaims)
	if !ok {
		return Claims{}, ErrInvalidToken
	}
	sub, _ := mapc["sub"].(string)
	jti, _ := mapc["jti"].(string)
	if sub == "" || jti != sub {
		return Claims{}, ErrInvalidToken
	}
	return Claims{Subject: sub, JWTID: jti}, nil
}
