package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"go.uber.org/zap"

	"blockbreak/internal/models"
	"blockbreak/internal/store"
)

// maxBody caps JSON request bodies.
const maxBody = 1 << 20

func respondJSON(w http.ResponseWriter, v interface{}) {
	respondStatus(w, http.StatusOK, v)
}

func respondStatus(w http.ResponseWriter, code int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	_ = enc.Encode(v)
}

func decodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBody)).Decode(v); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return false
	}
	return true
}

func audit(ctx context.Context, st store.Store, lg *zap.SugaredLogger, sessionID, action string, md any) {
	var sid *string
	if sessionID != "" {
		sid = &sessionID
	}
	if err := st.AppendLog(ctx, &models.AuditLog{SessionID: sid, Action: action, Metadata: models.NewJSONB(md)}); err != nil {
		lg.Errorw("audit log failed", "action", action, "session", sessionID, "error", err)
	}
}
