package handlers

import (
	"net/http"

	"go.uber.org/zap"

	"blockbreak/internal/auth"
	"blockbreak/internal/ciphers"
	"blockbreak/internal/modes"
	"blockbreak/internal/store"
	"blockbreak/internal/vectors"
)

// vectorFile reads the multipart "file" field and the cipher and mode
// query parameters. cipher defaults to AES-128.
func vectorFile(w http.ResponseWriter, r *http.Request) ([]vectors.Record, string, modes.Kind, bool) {
	name := r.URL.Query().Get("cipher")
	if name == "" {
		name = ciphers.AES128
	}
	spec, err := ciphers.Lookup(name)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return nil, "", 0, false
	}
	kind, err := modes.ParseKind(r.URL.Query().Get("mode"))
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return nil, "", 0, false
	}
	if err := r.ParseMultipartForm(32 << 20); err != nil {
		http.Error(w, "multipart parse error", http.StatusBadRequest)
		return nil, "", 0, false
	}
	file, _, err := r.FormFile("file")
	if err != nil {
		http.Error(w, "file required", http.StatusBadRequest)
		return nil, "", 0, false
	}
	defer file.Close()
	recs, err := vectors.Parse(file)
	if err != nil {
		http.Error(w, "parse error: "+err.Error(), http.StatusBadRequest)
		return nil, "", 0, false
	}
	return recs, spec.Name, kind, true
}

func ValidateVectors(st store.Store, lg *zap.SugaredLogger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		recs, name, kind, ok := vectorFile(w, r)
		if !ok {
			return
		}
		result, err := vectors.Validate(recs, name, kind)
		if err != nil {
			http.Error(w, "validate error: "+err.Error(), http.StatusBadRequest)
			return
		}
		audit(r.Context(), st, lg, auth.SessionID(r.Context()), "VALIDATE_VECTORS",
			map[string]any{"cipher": name, "mode": kind.String(), "passed": result.Passed, "failed": result.Failed})
		respondJSON(w, result)
	}
}

// GenerateVectors fills in the expected outputs of a request file and
// returns it in .rsp layout.
func GenerateVectors(st store.Store, lg *zap.SugaredLogger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		recs, name, kind, ok := vectorFile(w, r)
		if !ok {
			return
		}
		if err := vectors.Fill(recs, name, kind); err != nil {
			http.Error(w, "generate error: "+err.Error(), http.StatusBadRequest)
			return
		}
		audit(r.Context(), st, lg, auth.SessionID(r.Context()), "GENERATE_VECTORS",
			map[string]any{"cipher": name, "mode": kind.String(), "records": len(recs)})
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		_, _ = w.Write([]byte(vectors.Format(recs, true)))
	}
}
