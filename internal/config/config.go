// Package config loads server settings from the environment.
//
// main loads an optional .env file first (godotenv); Load then parses the
// process environment into Config.
package config

import (
	"crypto/sha256"
	"fmt"
	"io"
	"time"

	"github.com/caarlos0/env/v11"
	"golang.org/x/crypto/hkdf"
)

// Session store backends.
const (
	StoreMemory = "memory"
	StoreSQLite = "sqlite"
)

// Target selection modes.
const (
	ModeRandom = "random"
	ModeDaily  = "daily"
)

// Config holds all configuration values.
type Config struct {
	Port     string `env:"PORT" envDefault:"5175"`
	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`

	// Catalog JSON file; the embedded catalog is used when empty.
	CatalogFile string `env:"CATALOG_FILE"`

	DBPath       string `env:"DB_PATH" envDefault:"./data/app.db"`
	SessionStore string `env:"SESSION_STORE" envDefault:"memory"`
	TargetMode   string `env:"TARGET_MODE" envDefault:"random"`

	Secret       string        `env:"APP_SECRET" envDefault:"dev_secret_change_me"`
	CookieName   string        `env:"COOKIE_NAME" envDefault:"wordlemon_session"`
	ClientOrigin string        `env:"CLIENT_ORIGIN" envDefault:"http://localhost:5173"`
	Environment  string        `env:"NODE_ENV" envDefault:"development"`
	Timeout      time.Duration `env:"REQUEST_TIMEOUT" envDefault:"10s"`
}

// Load parses the environment and validates enumerated settings.
func Load() (Config, error) {
	var c Config
	if err := env.Parse(&c); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	if err := c.Validate(); err != nil {
		return Config{}, err
	}
	return c, nil
}

// Validate checks the enumerated settings.
func (c Config) Validate() error {
	switch c.SessionStore {
	case StoreMemory, StoreSQLite:
	default:
		return fmt.Errorf("SESSION_STORE: unknown backend %q", c.SessionStore)
	}
	switch c.TargetMode {
	case ModeRandom, ModeDaily:
	default:
		return fmt.Errorf("TARGET_MODE: unknown mode %q", c.TargetMode)
	}
	if c.Secret == "" {
		return fmt.Errorf("APP_SECRET must not be empty")
	}
	return nil
}

// Production reports whether cookies should be Secure.
func (c Config) Production() bool { return c.Environment == "production" }

// Key derives a 32-byte key for one purpose from APP_SECRET, so the cookie
// signer and the daily salt never share key material.
func (c Config) Key(purpose string) []byte {
	out := make([]byte, 32)
	r := hkdf.New(sha256.New, []byte(c.Secret), nil, []byte("wordlemon/"+purpose))
	if _, err := io.ReadFull(r, out); err != nil {
		// HKDF-SHA256 can produce up to 8160 bytes; 32 never fails.
		panic(err)
	}
	return out
}
