// Package config loads server settings from the environment, reading a
// .env file first when one exists.
package config

import (
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"

	"blockbreak/internal/ciphers"
)

type Config struct {
	HTTPPort    string
	DatabaseURL string
	LogLevel    string
	JWTSecret   []byte
	JWTTTL      time.Duration
	MasterKey   []byte
	Cipher      string
}

var (
	ErrMissingJWTSecret = errors.New("config: JWT_SECRET is empty")
	ErrMasterKey        = errors.New("config: ORACLE_MASTER_KEY must be at least 16 bytes of hex")
)

// Load reads the environment. A missing .env file is not an error.
func Load() (Config, error) {
	_ = godotenv.Load()
	return FromEnv()
}

// FromEnv reads the environment without touching .env.
func FromEnv() (Config, error) {
	c := Config{
		HTTPPort:    getenv("HTTP_PORT", "8080"),
		DatabaseURL: os.Getenv("DATABASE_URL"),
		LogLevel:    getenv("LOG_LEVEL", "info"),
		JWTTTL:      24 * time.Hour,
		Cipher:      getenv("ORACLE_CIPHER", ciphers.AES128),
	}
	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		return c, ErrMissingJWTSecret
	}
	c.JWTSecret = []byte(secret)
	if s := os.Getenv("JWT_EXPIRES_IN"); s != "" {
		d, err := time.ParseDuration(s)
		if err != nil {
			return c, fmt.Errorf("config: JWT_EXPIRES_IN: %w", err)
		}
		c.JWTTTL = d
	}
	mk, err := hex.DecodeString(os.Getenv("ORACLE_MASTER_KEY"))
	if err != nil || len(mk) < 16 {
		return c, ErrMasterKey
	}
	c.MasterKey = mk
	if _, err := ciphers.Lookup(c.Cipher); err != nil {
		return c, fmt.Errorf("config: ORACLE_CIPHER: %w", err)
	}
	return c, nil
}

func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}
