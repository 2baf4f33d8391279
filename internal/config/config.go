// internal/config/config.go
//
// Runtime configuration for the server and the terminal client.
// Responsibilities:
//   - Read an optional YAML file, then environment overrides (cleanenv).
//   - Defaults for every field so a bare checkout runs.
//   - Validate cross-field rules (stats backend vs Redis address).

package config

import (
	"fmt"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

// Config is the root of all settings.
type Config struct {
	LogLevel     string `yaml:"log-level" env:"LOG_LEVEL" env-default:"info"`
	Env          string `yaml:"env" env:"APP_ENV" env-default:"development"`
	HTTPPort     string `yaml:"http-port" env:"PORT" env-default:"5175"`
	ClientOrigin string `yaml:"client-origin" env:"CLIENT_ORIGIN" env-default:"http://localhost:5173"`
	DatabasePath string `yaml:"database-path" env:"DATABASE_PATH" env-default:"./data/app.db"`

	Auth  Auth  `yaml:"auth"`
	Game  Game  `yaml:"game"`
	Words Words `yaml:"words"`
	Daily Daily `yaml:"daily"`
	Redis Redis `yaml:"redis"`
	Stats Stats `yaml:"stats"`
}

// Auth holds JWT and cookie settings.
type Auth struct {
	JWTSecret      string `yaml:"jwt-secret" env:"JWT_SECRET" env-default:"dev_secret_change_me"`
	JWTExpiresDays int    `yaml:"jwt-expires-days" env:"JWT_EXPIRES_DAYS" env-default:"14"`
	CookieName     string `yaml:"cookie-name" env:"COOKIE_NAME" env-default:"wordle_token"`
}

// Game holds board size and session lifetime.
type Game struct {
	MaxAttempts      int           `yaml:"max-attempts" env:"GAME_MAX_ATTEMPTS" env-default:"6"`
	SessionTTL       time.Duration `yaml:"session-ttl" env:"GAME_SESSION_TTL" env-default:"24h"`
	AllowFixedAnswer bool          `yaml:"allow-fixed-answer" env:"GAME_ALLOW_FIXED_ANSWER" env-default:"false"`
}

// Words configures the word lists and the optional remote providers.
type Words struct {
	AnswersFile   string        `yaml:"answers-file" env:"WORDS_ANSWERS_FILE"`
	AllowedFile   string        `yaml:"allowed-file" env:"WORDS_ALLOWED_FILE"`
	Remote        bool          `yaml:"remote" env:"WORDS_REMOTE" env-default:"false"`
	SourceURLs    []string      `yaml:"source-urls" env:"WORDS_SOURCE_URLS" env-separator:"," env-default:"https://random-word-api.vercel.app/api?words=1&length=5,https://random-word-api.herokuapp.com/word?length=5"`
	DictionaryURL string        `yaml:"dictionary-url" env:"WORDS_DICTIONARY_URL" env-default:"https://api.dictionaryapi.dev/api/v2/entries/en/"`
	PickAttempts  int           `yaml:"pick-attempts" env:"WORDS_PICK_ATTEMPTS" env-default:"10"`
	HTTPTimeout   time.Duration `yaml:"http-timeout" env:"WORDS_HTTP_TIMEOUT" env-default:"4s"`
}

// Daily seeds the daily puzzle rotation.
type Daily struct {
	Salt string `yaml:"salt" env:"DAILY_SALT" env-default:"local_dev_salt"`
}

// Redis enables the shared session store when Addr is set.
type Redis struct {
	Addr string `yaml:"addr" env:"REDIS_ADDR"`
}

// Stats selects where player statistics live.
type Stats struct {
	// Backend is one of sqlite, redis, memory.
	Backend string `yaml:"backend" env:"STATS_BACKEND" env-default:"sqlite"`
}

// Load reads path (YAML) when set, otherwise the environment only.
// Environment variables override file values.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	var err error
	if path != "" {
		err = cleanenv.ReadConfig(path, cfg)
	} else {
		err = cleanenv.ReadEnv(cfg)
	}
	if err != nil {
		return nil, fmt.Errorf("unable to load config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Production reports whether cookies should be Secure/SameSite=None.
func (c *Config) Production() bool { return c.Env == "production" }

func (c *Config) validate() error {
	switch c.Stats.Backend {
	case "sqlite", "memory":
	case "redis":
		if c.Redis.Addr == "" {
			return fmt.Errorf("stats backend redis requires REDIS_ADDR")
		}
	default:
		return fmt.Errorf("unknown stats backend %q", c.Stats.Backend)
	}
	if c.Game.MaxAttempts < 1 {
		return fmt.Errorf("game max attempts must be positive, got %d", c.Game.MaxAttempts)
	}
	return nil
}
