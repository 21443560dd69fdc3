package main

import (
	"net/http"
	"time"

	"go.uber.org/zap"

	"blockbreak/internal/auth"
	"blockbreak/internal/challenge"
	"blockbreak/internal/config"
	"blockbreak/internal/httpserver"
	"blockbreak/internal/logger"
	"blockbreak/internal/store"
)

func main() {
	cfg, cfgErr := config.Load()
	lg := logger.New(cfg.LogLevel)
	defer lg.Sync()
	if cfgErr != nil {
		lg.Fatalw("config invalid", "error", cfgErr)
	}

	st := openStore(cfg, lg)
	d, err := challenge.NewDeriver(cfg.MasterKey, cfg.Cipher)
	if err != nil {
		lg.Fatalw("oracle setup failed", "error", err)
	}
	signer := auth.NewSigner(cfg.JWTSecret, cfg.JWTTTL)

	router := httpserver.NewRouter(st, signer, d, lg)
	srv := &http.Server{
		Addr:              ":" + cfg.HTTPPort,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	lg.Infow("listening", "port", cfg.HTTPPort, "cipher", d.Cipher())
	if err := srv.ListenAndServe(); err != nil {
		lg.Fatalw("server stopped", "error", err)
	}
}

// openStore uses Postgres when DATABASE_URL is set and process memory
// otherwise.
func openStore(cfg config.Config, lg *zap.SugaredLogger) store.Store {
	if cfg.DatabaseURL == "" {
		lg.Warnw("DATABASE_URL is empty, sessions live in memory")
		return store.NewMemory()
	}
	st, err := store.Open(cfg.DatabaseURL)
	if err != nil {
		lg.Fatalw("db connect failed", "error", err)
	}
	return st
}
