package config

import (
	"fmt"
	"os"
	"path"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v2"
)

type Config struct {
	Public  Public
	Private Private
}

type Public struct {
	Features       Features      `yaml:"features"`
	JwtTTL         time.Duration `yaml:"jwt_ttl" validate:"required"`
	NonceLifetime  time.Duration `yaml:"nonce_lifetime" validate:"required"`
	AjaxBaseURL    string        `yaml:"ajax_base_url" validate:"required"`
	SecureCookies  bool          `yaml:"secure_cookies"`
	AllowedOrigins []string      `yaml:"allowed_origins"`
	Labels         Labels        `yaml:"labels"`
	Log            Log           `yaml:"log"`
	// requests per second allowed per user (or IP for anonymous callers) on the ajax endpoint
	AjaxRPS float64 `yaml:"ajax_rps"`
}

// Features are the administrative switches checked by the first toggle gate.
type Features struct {
	Favorites     bool `yaml:"favorites"`
	Subscriptions bool `yaml:"subscriptions"`
}

// Labels are the texts of the toggle links. They may contain inline markup
// (icons); the renderer sanitizes them.
type Labels struct {
	Favorite    string `yaml:"favorite"`
	Unfavorite  string `yaml:"unfavorite"`
	Subscribe   string `yaml:"subscribe"`
	Unsubscribe string `yaml:"unsubscribe"`
}

type Log struct {
	Level string `yaml:"level"`
	JSON  bool   `yaml:"json"`
}

type Pg struct {
	Host     string `yaml:"host" validate:"required"`
	Port     int    `yaml:"port" validate:"required"`
	User     string `yaml:"user" validate:"required"`
	Password string `yaml:"password"`
	Dbname   string `yaml:"dbname" validate:"required"`
}

type Private struct {
	Pg       Pg     `yaml:"pg"`
	JwtKey   string `yaml:"jwt_key" validate:"required"`
	NonceKey string `yaml:"nonce_key" validate:"required"`
}

func (s *Config) JwtKey() string {
	return s.Private.JwtKey
}

func (s *Config) JwtTTL() time.Duration {
	return s.Public.JwtTTL
}

func DefaultLabels() Labels {
	return Labels{
		Favorite:    "Favorite",
		Unfavorite:  "Unfavorite",
		Subscribe:   "Subscribe",
		Unsubscribe: "Unsubscribe",
	}
}

func mustLoadPath(configPath string, output interface{}) {
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		panic("config file does not exist: " + configPath)
	}
	configFile, err := os.ReadFile(configPath)
	if err != nil {
		panic("can't read config file")
	}

	if err = yaml.Unmarshal(configFile, output); err != nil {
		panic("can't unmarshal config file")
	}
}

// MustLoad reads public.yaml and private.yaml from configFolder, applies
// secrets from the environment (and .env if present) and validates the result.
func MustLoad(configFolder string) *Config {
	var public Public
	mustLoadPath(path.Join(configFolder, "public.yaml"), &public)

	var private Private
	mustLoadPath(path.Join(configFolder, "private.yaml"), &private)

	cfg := &Config{Public: public, Private: private}
	if err := applyEnv(cfg); err != nil {
		panic(err.Error())
	}
	cfg.setDefaults()

	if err := cfg.Validate(); err != nil {
		panic("invalid config: " + err.Error())
	}
	return cfg
}

func (c *Config) Validate() error {
	validate := validator.New(validator.WithRequiredStructEnabled())
	return validate.Struct(c)
}

func (c *Config) setDefaults() {
	defaults := DefaultLabels()
	if c.Public.Labels.Favorite == "" {
		c.Public.Labels.Favorite = defaults.Favorite
	}
	if c.Public.Labels.Unfavorite == "" {
		c.Public.Labels.Unfavorite = defaults.Unfavorite
	}
	if c.Public.Labels.Subscribe == "" {
		c.Public.Labels.Subscribe = defaults.Subscribe
	}
	if c.Public.Labels.Unsubscribe == "" {
		c.Public.Labels.Unsubscribe = defaults.Unsubscribe
	}
	if c.Public.Log.Level == "" {
		c.Public.Log.Level = "info"
	}
}

// Secrets may come from the environment so they stay out of private.yaml.
const (
	envPgHost     = "IDEABOARD_PG_HOST"
	envPgPort     = "IDEABOARD_PG_PORT"
	envPgUser     = "IDEABOARD_PG_USER"
	envPgPassword = "IDEABOARD_PG_PASSWORD"
	envPgDbname   = "IDEABOARD_PG_DBNAME"
	envJwtKey     = "IDEABOARD_JWT_KEY"
	envNonceKey   = "IDEABOARD_NONCE_KEY"
)

func applyEnv(cfg *Config) error {
	// .env is optional; real environment variables win over it
	_ = godotenv.Load()

	setString := func(key string, dst *string) {
		if v := os.Getenv(key); v != "" {
			*dst = v
		}
	}
	setString(envPgHost, &cfg.Private.Pg.Host)
	setString(envPgUser, &cfg.Private.Pg.User)
	setString(envPgPassword, &cfg.Private.Pg.Password)
	setString(envPgDbname, &cfg.Private.Pg.Dbname)
	setString(envJwtKey, &cfg.Private.JwtKey)
	setString(envNonceKey, &cfg.Private.NonceKey)

	if v := os.Getenv(envPgPort); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%s must be an integer: %w", envPgPort, err)
		}
		cfg.Private.Pg.Port = port
	}
	return nil
}
