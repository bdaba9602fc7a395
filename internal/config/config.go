// Package config loads runtime configuration: defaults, then an
// optional config file, then CLUBDESK_* environment overrides.
package config

import (
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds everything cmd/api needs to start.
type Config struct {
	Server ServerConfig
	DB     DBConfig
	Auth   AuthConfig
	Rate   RateConfig
}

type ServerConfig struct {
	Addr         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration
	MaxBodyBytes int64
}

type DBConfig struct {
	DSN string
}

type AuthConfig struct {
	// TokenTTL bounds issued access tokens. The signing secret itself
	// is read from CLUBDESK_AUTH_SECRET only, never from a file.
	TokenTTL time.Duration
}

type RateConfig struct {
	PerSecond int
	Burst     int
}

// Load reads configuration. A missing config file is fine; defaults
// and environment variables cover everything.
func Load() (*Config, error) {
	v := viper.New()
	v.AddConfigPath("config")
	v.SetConfigName("config")
	v.SetConfigType("yaml")

	v.SetEnvPrefix("clubdesk")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("server.addr", ":8080")
	v.SetDefault("server.read_timeout", "15s")
	v.SetDefault("server.write_timeout", "15s")
	v.SetDefault("server.idle_timeout", "60s")
	v.SetDefault("server.max_body_bytes", 1<<20)
	v.SetDefault("db.dsn", "")
	v.SetDefault("auth.token_ttl", "12h")
	v.SetDefault("rate.per_second", 20)
	v.SetDefault("rate.burst", 40)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
	}

	cfg := &Config{
		Server: ServerConfig{
			Addr:         v.GetString("server.addr"),
			ReadTimeout:  v.GetDuration("server.read_timeout"),
			WriteTimeout: v.GetDuration("server.write_timeout"),
			IdleTimeout:  v.GetDuration("server.idle_timeout"),
			MaxBodyBytes: v.GetInt64("server.max_body_bytes"),
		},
		DB:   DBConfig{DSN: v.GetString("db.dsn")},
		Auth: AuthConfig{TokenTTL: v.GetDuration("auth.token_ttl")},
		Rate: RateConfig{
			PerSecond: v.GetInt("rate.per_second"),
			Burst:     v.GetInt("rate.burst"),
		},
	}
	return cfg, nil
}
