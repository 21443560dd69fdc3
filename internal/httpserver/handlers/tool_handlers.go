package handlers

import (
	"net/http"
	"strconv"

	"go.uber.org/zap"

	"blockbreak/internal/attack"
	"blockbreak/internal/auth"
	"blockbreak/internal/store"
	"blockbreak/internal/util"
)

// DetectECB reads a multipart "file" of hex ciphertexts, one per line, and
// reports the first line with a repeated block. ?block_size defaults to 16.
func DetectECB(st store.Store, lg *zap.SugaredLogger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		bs := 16
		if s := r.URL.Query().Get("block_size"); s != "" {
			n, err := strconv.Atoi(s)
			if err != nil || n < 2 {
				http.Error(w, "bad block_size", http.StatusBadRequest)
				return
			}
			bs = n
		}
		if err := r.ParseMultipartForm(32 << 20); err != nil {
			http.Error(w, "multipart parse error", http.StatusBadRequest)
			return
		}
		file, _, err := r.FormFile("file")
		if err != nil {
			http.Error(w, "file required", http.StatusBadRequest)
			return
		}
		defer file.Close()
		lines, err := util.HexLines(file)
		if err != nil {
			http.Error(w, "parse error: "+err.Error(), http.StatusBadRequest)
			return
		}
		idx, found := attack.DetectECBLine(lines, bs)
		audit(r.Context(), st, lg, auth.SessionID(r.Context()), "DETECT_ECB",
			map[string]any{"lines": len(lines), "found": found, "line": idx})
		respondJSON(w, map[string]any{"lines": len(lines), "found": found, "line": idx})
	}
}
