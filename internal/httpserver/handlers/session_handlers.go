package handlers

import (
	"net/http"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"blockbreak/internal/auth"
	"blockbreak/internal/challenge"
	"blockbreak/internal/models"
	"blockbreak/internal/store"
)

type sessionResp struct {
	Token      string    `json:"token"`
	SessionID  string    `json:"session_id"`
	ExpiresAt  time.Time `json:"expires_at"`
	Cipher     string    `json:"cipher"`
	Challenges []string  `json:"challenges"`
}

// CreateSession starts an anonymous challenge session and returns its
// bearer token.
func CreateSession(st store.Store, s *auth.Signer, d *challenge.Deriver, lg *zap.SugaredLogger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := uuid.NewString()
		tok, exp, err := s.Sign(id)
		if err != nil {
			http.Error(w, "token error", http.StatusInternalServerError)
			return
		}
		sess := models.Session{ID: id, Cipher: d.Cipher(), ExpiresAt: exp, CreatedAt: time.Now()}
		if err := st.CreateSession(r.Context(), &sess); err != nil {
			lg.Errorw("create session failed", "error", err)
			http.Error(w, "session error", http.StatusInternalServerError)
			return
		}
		audit(r.Context(), st, lg, id, "SESSION_CREATE", map[string]any{"cipher": sess.Cipher})
		lg.Infow("session created", "session", id, "cipher", sess.Cipher)
		respondStatus(w, http.StatusCreated, sessionResp{Token: tok, SessionID: id, ExpiresAt: exp, Cipher: sess.Cipher, Challenges: challenge.Names})
	}
}

func RevokeSession(st store.Store, lg *zap.SugaredLogger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := auth.SessionID(r.Context())
		if err := st.RevokeSession(r.Context(), id, time.Now()); err != nil {
			http.Error(w, "revoke failed", http.StatusInternalServerError)
			return
		}
		audit(r.Context(), st, lg, id, "SESSION_REVOKE", nil)
		w.WriteHeader(http.StatusNoContent)
	}
}

// Me reports the session, its query count and solved challenges.
func Me(st store.Store, lg *zap.SugaredLogger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := auth.SessionID(r.Context())
		sess, err := st.GetSession(r.Context(), id)
		if err != nil {
			http.Error(w, "not found", http.StatusNotFound)
			return
		}
		solves, err := st.ListSolves(r.Context(), id)
		if err != nil {
			lg.Errorw("list solves failed", "session", id, "error", err)
			http.Error(w, "store error", http.StatusInternalServerError)
			return
		}
		solved := make([]string, 0, len(solves))
		for _, s := range solves {
			solved = append(solved, s.Challenge)
		}
		respondJSON(w, map[string]any{
			"id": sess.ID, "cipher": sess.Cipher, "queries": sess.Queries,
			"expires_at": sess.ExpiresAt, "solved": solved,
		})
	}
}
