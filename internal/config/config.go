package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// DevSecret signs identity tokens when AUTH_SECRET is unset in development mode.
const DevSecret = "storeadmin-dev-secret-change-me"

type Config struct {
	Port         string        `env:"PORT" envDefault:"8080"`
	DBDriver     string        `env:"DB_DRIVER" envDefault:"sqlite"`
	DBDSN        string        `env:"DB_DSN" envDefault:"storeadmin.db"`
	LogMode      string        `env:"LOG_MODE" envDefault:"development"`
	LogFile      string        `env:"LOG_FILE"`
	AuthSecret   string        `env:"AUTH_SECRET"`
	AuthIssuer   string        `env:"AUTH_ISSUER" envDefault:"storeadmin"`
	TokenTTL     time.Duration `env:"AUTH_TOKEN_TTL" envDefault:"24h"`
	TemplatesDir string        `env:"TEMPLATES_DIR" envDefault:"./web/templates"`
	CookieSecure bool          `env:"COOKIE_SECURE" envDefault:"false"`
	SeedUsers    bool          `env:"SEED_USERS" envDefault:"true"`
}

// Load reads an optional dotenv file and then the process environment.
// A missing dotenv file is not an error.
func Load(envFile string) (Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, os.ErrNotExist) {
			return Config{}, fmt.Errorf("load %s: %w", envFile, err)
		}
	}
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.normalize(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) normalize() error {
	c.DBDriver = strings.ToLower(strings.TrimSpace(c.DBDriver))
	switch c.DBDriver {
	case "sqlite", "postgres":
	default:
		return fmt.Errorf("DB_DRIVER must be sqlite or postgres, got %q", c.DBDriver)
	}
	c.LogMode = strings.ToLower(strings.TrimSpace(c.LogMode))
	if c.LogMode != "production" {
		c.LogMode = "development"
	}
	c.AuthSecret = strings.TrimSpace(c.AuthSecret)
	if c.AuthSecret == "" {
		if c.Production() {
			return errors.New("AUTH_SECRET is required in production")
		}
		c.AuthSecret = DevSecret
	}
	if c.TokenTTL <= 0 {
		return errors.New("AUTH_TOKEN_TTL must be positive")
	}
	return nil
}

func (c Config) Production() bool { return c.LogMode == "production" }

// Redacted is safe to log.
func (c Config) Redacted() map[string]any {
	return map[string]any{
		"port":          c.Port,
		"db_driver":     c.DBDriver,
		"db_dsn":        redactDSN(c.DBDSN),
		"log_mode":      c.LogMode,
		"log_file":      c.LogFile,
		"auth_issuer":   c.AuthIssuer,
		"token_ttl":     c.TokenTTL.String(),
		"templates_dir": c.TemplatesDir,
	}
}

// redactDSN hides the password of a postgres URL DSN.
func redactDSN(dsn string) string {
	at := strings.LastIndex(dsn, "@")
	scheme := strings.Index(dsn, "://")
	if at < 0 || scheme < 0 || at < scheme {
		return dsn
	}
	creds := dsn[scheme+3 : at]
	if i := strings.Index(creds, ":"); i >= 0 {
		return dsn[:scheme+3] + creds[:i] + ":***" + dsn[at:]
	}
	return dsn
}
