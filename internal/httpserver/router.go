package httpserver

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"blockbreak/internal/auth"
	"blockbreak/internal/challenge"
	"blockbreak/internal/httpserver/handlers"
	"blockbreak/internal/oracle"
	"blockbreak/internal/store"
)

func NewRouter(st store.Store, s *auth.Signer, d *challenge.Deriver, lg *zap.SugaredLogger) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID, middleware.RealIP, middleware.Recoverer, middleware.Logger)
	r.Post("/v1/sessions", handlers.CreateSession(st, s, d, lg))
	r.Group(func(protected chi.Router) {
		protected.Use(auth.JWTAuth(st, s))
		protected.Get("/v1/me", handlers.Me(st, lg))
		protected.Delete("/v1/sessions", handlers.RevokeSession(st, lg))

		protected.Route("/v1/oracles", func(o chi.Router) {
			o.Post("/ecb-suffix/encrypt", handlers.Encrypt(challenge.ECBSuffix,
				func(sc *challenge.Scenario) oracle.Encrypter { return sc.ECBSuffix }, st, d, lg))
			o.Post("/ecb-prefixed/encrypt", handlers.Encrypt(challenge.ECBPrefixed,
				func(sc *challenge.Scenario) oracle.Encrypter { return sc.ECBPrefixed }, st, d, lg))
			o.Post("/cbc-bitflip/encrypt", handlers.Encrypt(challenge.CBCBitflip,
				func(sc *challenge.Scenario) oracle.Encrypter { return sc.Bitflip }, st, d, lg))
			o.Post("/cbc-bitflip/decrypt", handlers.BitflipDecrypt(st, d, lg))
			o.Post("/coin-toss/encrypt", handlers.CoinToss(st, lg))
			o.Post("/profile/encrypt", handlers.ProfileEncrypt(st, d, lg))
			o.Get("/cbc-padding/token", handlers.PaddingToken(st, d, lg))
			o.Post("/cbc-padding/validate", handlers.PaddingValidate(st, d, lg))
			o.Get("/ctr-fixed-nonce/ciphertexts", handlers.CTRCiphertexts(st, d, lg))
		})

		protected.Post("/v1/challenges/{name}/solve", handlers.Solve(st, d, lg))
		protected.Post("/v1/vectors/validate", handlers.ValidateVectors(st, lg))
		protected.Post("/v1/vectors/generate", handlers.GenerateVectors(st, lg))
		protected.Post("/v1/tools/detect-ecb", handlers.DetectECB(st, lg))
		protected.Get("/v1/logs", handlers.MyLogs(st, lg))
	})
	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusOK) })
	return r
}
