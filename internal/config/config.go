// Package config loads the service configuration from the environment.
//
// Variables use the BOOKSHELF_ prefix and "__" for nesting, so
// BOOKSHELF_DATABASE__DSN maps to Config.Database.DSN. Values found in
// .env and .env.local are loaded first but never override the real
// environment.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/go-viper/mapstructure/v2"
	"github.com/joho/godotenv"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/v2"
)

const envPrefix = "BOOKSHELF_"

type Config struct {
	Primary  Primary        `koanf:"primary" validate:"required"`
	Server   ServerConfig   `koanf:"server" validate:"required"`
	Database DatabaseConfig `koanf:"database" validate:"required"`
	Auth     AuthConfig     `koanf:"auth"`
	Log      LogConfig      `koanf:"log"`
}

type Primary struct {
	Env string `koanf:"env" validate:"required,oneof=local development production test"`
}

type ServerConfig struct {
	Addr               string        `koanf:"addr" validate:"required"`
	ReadTimeout        time.Duration `koanf:"read_timeout" validate:"gt=0"`
	WriteTimeout       time.Duration `koanf:"write_timeout" validate:"gt=0"`
	IdleTimeout        time.Duration `koanf:"idle_timeout" validate:"gt=0"`
	ShutdownTimeout    time.Duration `koanf:"shutdown_timeout" validate:"gt=0"`
	MaxBodyBytes       int64         `koanf:"max_body_bytes" validate:"gt=0"`
	CORSAllowedOrigins []string      `koanf:"cors_allowed_origins"`
	RateLimitRPS       float64       `koanf:"rate_limit_rps" validate:"gte=0"`
	RateLimitBurst     int           `koanf:"rate_limit_burst" validate:"gte=0"`
	EnableHSTS         bool          `koanf:"enable_hsts"`
}

type DatabaseConfig struct {
	DSN          string        `koanf:"dsn" validate:"required"`
	MaxConns     int32         `koanf:"max_conns" validate:"gt=0"`
	QueryTimeout time.Duration `koanf:"query_timeout" validate:"gt=0"`
}

// AuthConfig guards the mutating book routes when JWTSecret is set.
type AuthConfig struct {
	JWTSecret string `koanf:"jwt_secret"`
}

type LogConfig struct {
	Level string `koanf:"level" validate:"omitempty,oneof=trace debug info warn error"`
}

// Default returns the configuration used for every key the environment
// leaves unset.
func Default() *Config {
	return &Config{
		Primary: Primary{Env: "local"},
		Server: ServerConfig{
			Addr:            ":8080",
			ReadTimeout:     5 * time.Second,
			WriteTimeout:    10 * time.Second,
			IdleTimeout:     60 * time.Second,
			ShutdownTimeout: 10 * time.Second,
			MaxBodyBytes:    1 << 20,
			RateLimitBurst:  20,
		},
		Database: DatabaseConfig{
			MaxConns:     10,
			QueryTimeout: 3 * time.Second,
		},
		Log: LogConfig{Level: "info"},
	}
}

// AuthEnabled reports whether mutating routes require a bearer token.
func (c *Config) AuthEnabled() bool {
	return c.Auth.JWTSecret != ""
}

// IsLocal reports whether the service runs on a developer machine.
func (c *Config) IsLocal() bool {
	return c.Primary.Env == "local"
}

// LoadEnvFiles reads .env and .env.local into the process environment
// without overriding variables that are already set.
func LoadEnvFiles() {
	_ = godotenv.Load(".env")
	_ = godotenv.Load(".env.local")
}

// Load builds the Config from defaults and BOOKSHELF_* variables and
// validates it.
func Load() (*Config, error) {
	LoadEnvFiles()

	k := koanf.New(".")
	err := k.Load(env.Provider(envPrefix, ".", envKey), nil)
	if err != nil {
		return nil, fmt.Errorf("load env: %w", err)
	}

	cfg := Default()
	if err := k.UnmarshalWithConf("", cfg, unmarshalConf()); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// unmarshalConf extends koanf's default decoding so that list settings
// such as server.cors_allowed_origins accept a comma-separated value.
func unmarshalConf() koanf.UnmarshalConf {
	return koanf.UnmarshalConf{
		DecoderConfig: &mapstructure.DecoderConfig{
			DecodeHook: mapstructure.ComposeDecodeHookFunc(
				mapstructure.StringToTimeDurationHookFunc(),
				mapstructure.StringToSliceHookFunc(","),
				mapstructure.TextUnmarshallerHookFunc(),
			),
			WeaklyTypedInput: true,
		},
	}
}

// envKey maps BOOKSHELF_SERVER__READ_TIMEOUT to server.read_timeout.
func envKey(s string) string {
	s = strings.ToLower(strings.TrimPrefix(s, envPrefix))
	return strings.ReplaceAll(s, "__", ".")
}
