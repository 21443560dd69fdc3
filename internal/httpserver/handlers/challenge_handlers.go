package handlers

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"blockbreak/internal/auth"
	"blockbreak/internal/challenge"
	"blockbreak/internal/models"
	"blockbreak/internal/store"
)

type solveReq struct {
	Answer []byte `json:"answer"`
}

// Solve checks an answer for the challenge in the URL. A correct answer is
// recorded once; later correct answers report already_solved.
func Solve(st store.Store, d *challenge.Deriver, lg *zap.SugaredLogger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := auth.SessionID(r.Context())
		name := chi.URLParam(r, "name")
		var req solveReq
		if !decodeJSON(w, r, &req) {
			return
		}
		sc, err := d.For(id)
		if err != nil {
			http.Error(w, "scenario error", http.StatusInternalServerError)
			return
		}
		ok, err := sc.Check(name, req.Answer)
		if errors.Is(err, challenge.ErrUnknownChallenge) {
			http.Error(w, err.Error(), http.StatusNotFound)
			return
		}
		if err != nil {
			lg.Errorw("check failed", "challenge", name, "error", err)
			http.Error(w, "check error", http.StatusInternalServerError)
			return
		}
		sess, err := st.GetSession(r.Context(), id)
		if err != nil {
			http.Error(w, "not found", http.StatusNotFound)
			return
		}
		audit(r.Context(), st, lg, id, "SOLVE_ATTEMPT", map[string]any{"challenge": name, "correct": ok, "queries": sess.Queries})
		if !ok {
			respondJSON(w, map[string]any{"challenge": name, "correct": false})
			return
		}
		already := false
		err = st.RecordSolve(r.Context(), &models.Solve{SessionID: id, Challenge: name, Queries: sess.Queries})
		switch {
		case errors.Is(err, store.ErrAlreadySolved):
			already = true
		case err != nil:
			lg.Errorw("record solve failed", "challenge", name, "error", err)
			http.Error(w, "store error", http.StatusInternalServerError)
			return
		default:
			lg.Infow("challenge solved", "session", id, "challenge", name, "queries", sess.Queries)
		}
		respondJSON(w, map[string]any{"challenge": name, "correct": true, "already_solved": already, "queries": sess.Queries})
	}
}
