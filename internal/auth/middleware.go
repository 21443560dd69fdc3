package auth

import (
	"errors"
	"net/http"
	"strings"

	"blockbreak/internal/store"
)

// JWTAuth accepts a bearer token only while its session exists, is not
// revoked and has not expired.
func JWTAuth(st store.Store, s *Signer) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			h := r.Header.Get("Authorization")
			if !strings.HasPrefix(h, "Bearer ") {
				http.Error(w, "missing bearer token", http.StatusUnauthorized)
				return
			}
			raw := strings.TrimPrefix(h, "Bearer ")
			claims, err := s.Verify(raw)
			if err != nil {
				http.Error(w, "invalid token", http.StatusUnauthorized)
				return
			}
			sess, err := st.GetSession(r.Context(), claims.JWTID)
			if errors.Is(err, store.ErrNotFound) {
				http.Error(w, "session not found", http.StatusUnauthorized)
				return
			}
			if err != nil {
				http.Error(w, "session lookup failed", http.StatusInternalServerError)
				return
			}
			if sess.RevokedAt != nil || s.clock().After(sess.ExpiresAt) {
				http.Error(w, "session expired/revoked", http.StatusUnauthorized)
				return
			}
			next.ServeHTTP(w, r.WithContext(WithClaims(r.Context(), claims)))
		})
	}
}
