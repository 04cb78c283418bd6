package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// Config holds all runtime configuration, parsed from IRONHALL_* environment
// variables. Defaults suit local development; production deployments must set
// CSRFKey and ResendKey explicitly.
type Config struct {
	Env          string `env:"IRONHALL_ENV" envDefault:"development"`
	Addr         string `env:"IRONHALL_ADDR" envDefault:":8080"`
	DBPath       string `env:"IRONHALL_DB" envDefault:"ironhall.db"`
	StaticDir    string `env:"IRONHALL_STATIC_DIR" envDefault:"static"`
	BaseURL      string `env:"IRONHALL_BASE_URL" envDefault:"http://localhost:8080"`
	AdminEmail   string `env:"IRONHALL_ADMIN_EMAIL" envDefault:"studio@ironhall.fit"`
	AdminPass    string `env:"IRONHALL_ADMIN_PASSWORD" envDefault:"Cast iron morning"`
	CSRFKey      string `env:"IRONHALL_CSRF_KEY"`
	ResendKey    string `env:"IRONHALL_RESEND_KEY"`
	EmailFrom    string `env:"IRONHALL_EMAIL_FROM" envDefault:"Iron Hall <noreply@ironhall.fit>"`
	EmailReplyTo string `env:"IRONHALL_REPLY_TO" envDefault:"studio@ironhall.fit"`
	ContactInbox string `env:"IRONHALL_CONTACT_INBOX" envDefault:"studio@ironhall.fit"`
}

// Load parses configuration from the environment.
// PRE: none
// POST: Returns a populated Config or an error for malformed values
func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	return cfg, nil
}

// IsProduction returns true when running in the production environment.
// INVARIANT: Config fields are not mutated
func (c Config) IsProduction() bool {
	return c.Env == "production"
}
