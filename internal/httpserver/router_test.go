package httpserver

import (
	"bytes"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"go.uber.org/zap"

	"blockbreak/internal/auth"
	"blockbreak/internal/challenge"
	"blockbreak/internal/ciphers"
	"blockbreak/internal/models"
	"blockbreak/internal/store"
	"blockbreak/internal/vectors"
)

type fixture struct {
	h     http.Handler
	token string
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	d, err := challenge.NewDeriver(bytes.Repeat([]byte{1}, 16), ciphers.AES128)
	if err != nil {
		t.Fatal(err)
	}
	h := NewRouter(store.NewMemory(), auth.NewSigner([]byte("k"), time.Hour), d, zap.NewNop().Sugar())
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/v1/sessions", nil))
	if rec.Code != http.StatusCreated {
		t.Fatalf("POST /v1/sessions status = %d: %s", rec.Code, rec.Body)
	}
	// Result carries the headers as they were when the status was written.
	if ct := rec.Result().Header.Get("Content-Type"); ct != "application/json" {
		t.Errorf("POST /v1/sessions Content-Type = %q", ct)
	}
	var resp struct {
		Token      string   `json:"token"`
		Challenges []string `json:"challenges"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if len(resp.Challenges) != len(challenge.Names) {
		t.Errorf("challenges = %v", resp.Challenges)
	}
	return fixture{h: h, token: resp.Token}
}

func (f fixture) do(t *testing.T, method, path, contentType string, body io.Reader) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, body)
	req.Header.Set("Authorization", "Bearer "+f.token)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	rec := httptest.NewRecorder()
	f.h.ServeHTTP(rec, req)
	return rec
}

func (f fixture) upload(t *testing.T, path, file string) *httptest.ResponseRecorder {
	t.Helper()
	data, err := os.ReadFile(file)
	if err != nil {
		t.Fatal(err)
	}
	return f.uploadBytes(t, path, data)
}

func (f fixture) uploadBytes(t *testing.T, path string, data []byte) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile("file", "vectors.rsp")
	if err != nil {
		t.Fatal(err)
	}
	_, _ = fw.Write(data)
	_ = mw.Close()
	return f.do(t, http.MethodPost, path, mw.FormDataContentType(), &buf)
}

func TestHealthz(t *testing.T) {
	f := newFixture(t)
	rec := httptest.NewRecorder()
	f.h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	if rec.Code != http.StatusOK {
		t.Errorf("status = %d", rec.Code)
	}
}

func TestProtectedRoutesNeedToken(t *testing.T) {
	f := newFixture(t)
	for _, path := range []string{"/v1/me", "/v1/logs", "/v1/oracles/cbc-padding/token"} {
		rec := httptest.NewRecorder()
		f.h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
		if rec.Code != http.StatusUnauthorized {
			t.Errorf("GET %s status = %d, want 401", path, rec.Code)
		}
	}
}

func TestProfileRejectsMetacharacters(t *testing.T) {
	f := newFixture(t)
	rec := f.do(t, http.MethodPost, "/v1/oracles/profile/encrypt", "application/json",
		strings.NewReader(`{"email":"a@b.c&role=admin"}`))
	if rec.Code != http.StatusUnprocessableEntity {
		t.Errorf("status = %d, want 422", rec.Code)
	}
	rec = f.do(t, http.MethodPost, "/v1/oracles/profile/encrypt", "application/json", strings.NewReader(`{`))
	if rec.Code != http.StatusBadRequest {
		t.Errorf("bad json status = %d, want 400", rec.Code)
	}
}

func TestPaddingValidateBadShape(t *testing.T) {
	f := newFixture(t)
	// 15-byte ciphertext.
	body := `{"iv":"AAAAAAAAAAAAAAAAAAAAAA==","ciphertext":"AAAAAAAAAAAAAAAAAAAA"}`
	rec := f.do(t, http.MethodPost, "/v1/oracles/cbc-padding/validate", "application/json", strings.NewReader(body))
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400: %s", rec.Code, rec.Body)
	}
}

func TestCoinTossIsLogged(t *testing.T) {
	f := newFixture(t)
	rec := f.do(t, http.MethodPost, "/v1/oracles/coin-toss/encrypt", "application/json",
		strings.NewReader(`{"data":"QUFBQUFBQUFBQUFBQUFBQUFBQUFBQUFBQUFBQUFBQUFBQUFBQUFBQQ=="}`))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", rec.Code, rec.Body)
	}
	rec = f.do(t, http.MethodGet, "/v1/logs?limit=1", "", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("logs status = %d", rec.Code)
	}
	var logs []models.AuditLog
	if err := json.Unmarshal(rec.Body.Bytes(), &logs); err != nil {
		t.Fatal(err)
	}
	if len(logs) != 1 || logs[0].Action != "COIN_TOSS" {
		t.Fatalf("logs = %+v", logs)
	}
	var md struct {
		Mode string `json:"mode"`
	}
	if err := json.Unmarshal(logs[0].Metadata, &md); err != nil {
		t.Fatal(err)
	}
	if md.Mode != "ECB" && md.Mode != "CBC" {
		t.Errorf("mode = %q", md.Mode)
	}

	if rec := f.do(t, http.MethodGet, "/v1/logs?limit=x", "", nil); rec.Code != http.StatusBadRequest {
		t.Errorf("bad limit status = %d", rec.Code)
	}
}

func TestVectorEndpoints(t *testing.T) {
	f := newFixture(t)
	for _, tt := range []struct{ mode, file string }{
		{"ECB", "../vectors/testdata/aes128_ecb.rsp"},
		{"CBC", "../vectors/testdata/aes128_cbc.rsp"},
		{"CTR", "../vectors/testdata/aes128_ctr.rsp"},
	} {
		t.Run(tt.mode, func(t *testing.T) {
			rec := f.upload(t, "/v1/vectors/validate?mode="+tt.mode, tt.file)
			if rec.Code != http.StatusOK {
				t.Fatalf("validate status = %d: %s", rec.Code, rec.Body)
			}
			var res vectors.Result
			if err := json.Unmarshal(rec.Body.Bytes(), &res); err != nil {
				t.Fatal(err)
			}
			if res.Failed != 0 || res.Passed != res.Total || res.Total == 0 {
				t.Errorf("result = %+v", res)
			}

			rec = f.upload(t, "/v1/vectors/generate?cipher=aes-128&mode="+tt.mode, tt.file)
			if rec.Code != http.StatusOK {
				t.Fatalf("generate status = %d: %s", rec.Code, rec.Body)
			}
			recs, err := vectors.Parse(rec.Body)
			if err != nil {
				t.Fatal(err)
			}
			if len(recs) != res.Total {
				t.Errorf("generated %d records, want %d", len(recs), res.Total)
			}
		})
	}

	if rec := f.upload(t, "/v1/vectors/validate?mode=OFB", "../vectors/testdata/aes128_ecb.rsp"); rec.Code != http.StatusBadRequest {
		t.Errorf("unknown mode status = %d", rec.Code)
	}
	if rec := f.upload(t, "/v1/vectors/validate?cipher=RC2&mode=ECB", "../vectors/testdata/aes128_ecb.rsp"); rec.Code != http.StatusBadRequest {
		t.Errorf("unknown cipher status = %d", rec.Code)
	}
}

func TestDetectECB(t *testing.T) {
	f := newFixture(t)
	lines := strings.Join([]string{
		"00112233445566778899aabbccddeeff0102030405060708090a0b0c0d0e0f10",
		"",
		"d880619740a8a19b7840a8a31c810a3d" + "08649af70dc06f4fd5d2d69c744cd283" + "d880619740a8a19b7840a8a31c810a3d",
	}, "\n")
	rec := f.uploadBytes(t, "/v1/tools/detect-ecb", []byte(lines))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", rec.Code, rec.Body)
	}
	var got struct {
		Lines int  `json:"lines"`
		Found bool `json:"found"`
		Line  int  `json:"line"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatal(err)
	}
	if got.Lines != 2 || !got.Found || got.Line != 1 {
		t.Errorf("detect-ecb = %+v", got)
	}

	if rec := f.uploadBytes(t, "/v1/tools/detect-ecb", []byte("zz\n")); rec.Code != http.StatusBadRequest {
		t.Errorf("bad hex status = %d", rec.Code)
	}
}
