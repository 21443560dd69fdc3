package handlers

import (
	"net/http"
	"strconv"

	"go.uber.org/zap"

	"blockbreak/internal/auth"
	"blockbreak/internal/store"
)

// MyLogs returns the session's recent audit logs, newest first. ?limit
// caps the count at 200.
func MyLogs(st store.Store, lg *zap.SugaredLogger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		limit := 200
		if s := r.URL.Query().Get("limit"); s != "" {
			n, err := strconv.Atoi(s)
			if err != nil || n < 1 {
				http.Error(w, "bad limit", http.StatusBadRequest)
				return
			}
			limit = min(n, 200)
		}
		logs, err := st.ListLogs(r.Context(), auth.SessionID(r.Context()), limit)
		if err != nil {
			lg.Errorw("list logs failed", "error", err)
			http.Error(w, "store error", http.StatusInternalServerError)
			return
		}
		respondJSON(w, logs)
	}
}
