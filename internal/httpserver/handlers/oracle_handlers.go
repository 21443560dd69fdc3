package handlers

import (
	"errors"
	"net/http"

	"go.uber.org/zap"

	"blockbreak/internal/auth"
	"blockbreak/internal/challenge"
	"blockbreak/internal/oracle"
	"blockbreak/internal/profile"
	"blockbreak/internal/store"
)

// Byte fields travel as standard base64, the encoding/json default.
type dataReq struct {
	Data []byte `json:"data"`
}

type ciphertextResp struct {
	Ciphertext []byte `json:"ciphertext"`
}

type plaintextResp struct {
	Plaintext []byte `json:"plaintext"`
}

type emailReq struct {
	Email string `json:"email"`
}

type tokenResp struct {
	IV         []byte `json:"iv"`
	Ciphertext []byte `json:"ciphertext"`
}

type paddingReq struct {
	IV         []byte `json:"iv"`
	Ciphertext []byte `json:"ciphertext"`
}

type validResp struct {
	Valid bool `json:"valid"`
}

// scenario derives the caller's oracles and charges one query.
func scenario(w http.ResponseWriter, r *http.Request, st store.Store, d *challenge.Deriver, lg *zap.SugaredLogger) (*challenge.Scenario, bool) {
	id := auth.SessionID(r.Context())
	if _, err := st.AddQueries(r.Context(), id, 1); err != nil {
		lg.Errorw("count query failed", "session", id, "error", err)
		http.Error(w, "store error", http.StatusInternalServerError)
		return nil, false
	}
	sc, err := d.For(id)
	if err != nil {
		lg.Errorw("derive scenario failed", "session", id, "error", err)
		http.Error(w, "scenario error", http.StatusInternalServerError)
		return nil, false
	}
	return sc, true
}

func oracleError(w http.ResponseWriter, lg *zap.SugaredLogger, name string, err error) {
	lg.Warnw("oracle rejected input", "oracle", name, "error", err)
	http.Error(w, err.Error(), http.StatusBadRequest)
}

// Encrypt serves an attacker-chosen-plaintext oracle picked from the
// session scenario.
func Encrypt(name string, pick func(*challenge.Scenario) oracle.Encrypter, st store.Store, d *challenge.Deriver, lg *zap.SugaredLogger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req dataReq
		if !decodeJSON(w, r, &req) {
			return
		}
		sc, ok := scenario(w, r, st, d, lg)
		if !ok {
			return
		}
		ct, err := pick(sc).Encrypt(req.Data)
		if err != nil {
			oracleError(w, lg, name, err)
			return
		}
		respondJSON(w, ciphertextResp{Ciphertext: ct})
	}
}

// CoinToss encrypts under a fresh key in a random mode. The mode is only
// disclosed through the audit log.
func CoinToss(st store.Store, lg *zap.SugaredLogger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req dataReq
		if !decodeJSON(w, r, &req) {
			return
		}
		id := auth.SessionID(r.Context())
		if _, err := st.AddQueries(r.Context(), id, 1); err != nil {
			http.Error(w, "store error", http.StatusInternalServerError)
			return
		}
		o := &oracle.CoinToss{}
		ct, err := o.Encrypt(req.Data)
		if err != nil {
			oracleError(w, lg, "coin-toss", err)
			return
		}
		audit(r.Context(), st, lg, id, "COIN_TOSS", map[string]any{"mode": o.Last().String(), "length": len(ct)})
		respondJSON(w, ciphertextResp{Ciphertext: ct})
	}
}

func ProfileEncrypt(st store.Store, d *challenge.Deriver, lg *zap.SugaredLogger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req emailReq
		if !decodeJSON(w, r, &req) {
			return
		}
		sc, ok := scenario(w, r, st, d, lg)
		if !ok {
			return
		}
		ct, err := sc.Profile.Encrypt([]byte(req.Email))
		if errors.Is(err, profile.ErrIllegalCharacter) {
			http.Error(w, err.Error(), http.StatusUnprocessableEntity)
			return
		}
		if err != nil {
			oracleError(w, lg, challenge.Profile, err)
			return
		}
		respondJSON(w, ciphertextResp{Ciphertext: ct})
	}
}

// BitflipDecrypt returns the raw CBC plaintext, padding included.
func BitflipDecrypt(st store.Store, d *challenge.Deriver, lg *zap.SugaredLogger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req dataReq
		if !decodeJSON(w, r, &req) {
			return
		}
		sc, ok := scenario(w, r, st, d, lg)
		if !ok {
			return
		}
		pt, err := sc.Bitflip.Decrypt(req.Data)
		if err != nil {
			oracleError(w, lg, challenge.CBCBitflip, err)
			return
		}
		respondJSON(w, plaintextResp{Plaintext: pt})
	}
}

func PaddingToken(st store.Store, d *challenge.Deriver, lg *zap.SugaredLogger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sc, ok := scenario(w, r, st, d, lg)
		if !ok {
			return
		}
		iv, ct, err := sc.Padding.Token()
		if err != nil {
			lg.Errorw("padding token failed", "error", err)
			http.Error(w, "oracle error", http.StatusInternalServerError)
			return
		}
		respondJSON(w, tokenResp{IV: iv, Ciphertext: ct})
	}
}

func PaddingValidate(st store.Store, d *challenge.Deriver, lg *zap.SugaredLogger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req paddingReq
		if !decodeJSON(w, r, &req) {
			return
		}
		sc, ok := scenario(w, r, st, d, lg)
		if !ok {
			return
		}
		valid, err := sc.Padding.ValidPadding(req.IV, req.Ciphertext)
		if err != nil {
			oracleError(w, lg, challenge.CBCPadding, err)
			return
		}
		respondJSON(w, validResp{Valid: valid})
	}
}

func CTRCiphertexts(st store.Store, d *challenge.Deriver, lg *zap.SugaredLogger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sc, ok := scenario(w, r, st, d, lg)
		if !ok {
			return
		}
		cts, err := sc.CTRCiphertexts()
		if err != nil {
			lg.Errorw("ctr corpus failed", "error", err)
			http.Error(w, "oracle error", http.StatusInternalServerError)
			return
		}
		respondJSON(w, map[string]any{"ciphertexts": cts})
	}
}
