// Package config loads bot configuration from an optional YAML file with
// environment-variable overrides. A .env file is honoured when present.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Env      string         `yaml:"env"` // "local" or "prod"
	Telegram TelegramConfig `yaml:"telegram"`
	Postgres PostgresConfig `yaml:"postgres"`
	Redis    RedisConfig    `yaml:"redis"`
	Metrics  MetricsConfig  `yaml:"metrics"`

	// Timezone is the single reference timezone for interpreting and
	// displaying every timestamp.
	Timezone string `yaml:"timezone"`

	// PreferEventDateOnAmbiguity flips the five-field tie-break from the
	// explicit-tipster reading to the trailing-event-date reading.
	PreferEventDateOnAmbiguity bool `yaml:"prefer_event_date_on_ambiguity"`
}

type TelegramConfig struct {
	Token          string  `yaml:"token"`
	UpdateTimeout  int     `yaml:"update_timeout"`
	AllowedUserIDs []int64 `yaml:"allowed_user_ids"` // Optional: restrict access to specific users
}

type PostgresConfig struct {
	DSN string `yaml:"dsn"`
}

type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

type MetricsConfig struct {
	Port string `yaml:"port"`
}

// Load reads the YAML file at configPath (skipped when empty), then applies
// environment overrides and defaults, then validates.
func Load(configPath string) (*Config, error) {
	// Best effort; a missing .env is not an error.
	_ = godotenv.Load()

	var config Config
	if configPath != "" {
		data, err := os.ReadFile(configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, &config); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	}

	applyEnv(&config)
	applyDefaults(&config)

	if err := config.Validate(); err != nil {
		return nil, err
	}
	return &config, nil
}

func applyEnv(c *Config) {
	setString(&c.Env, "ENV")
	setString(&c.Telegram.Token, "TELEGRAM_BOT_TOKEN")
	setString(&c.Postgres.DSN, "POSTGRES_DSN")
	setString(&c.Redis.Addr, "REDIS_ADDR")
	setString(&c.Redis.Password, "REDIS_PASSWORD")
	setString(&c.Metrics.Port, "METRICS_PORT")
	setString(&c.Timezone, "BOT_TIMEZONE")

	if v := os.Getenv("REDIS_DB"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.Redis.DB = n
		}
	}
	if v := os.Getenv("ALLOWED_USER_IDS"); v != "" {
		c.Telegram.AllowedUserIDs = nil
		for _, idStr := range strings.Split(v, ",") {
			if id, err := strconv.ParseInt(strings.TrimSpace(idStr), 10, 64); err == nil {
				c.Telegram.AllowedUserIDs = append(c.Telegram.AllowedUserIDs, id)
			}
		}
	}
}

func applyDefaults(c *Config) {
	if c.Env == "" {
		c.Env = "local"
	}
	if c.Telegram.UpdateTimeout == 0 {
		c.Telegram.UpdateTimeout = 60
	}
	if c.Redis.Addr == "" {
		c.Redis.Addr = "localhost:6379"
	}
	if c.Metrics.Port == "" {
		c.Metrics.Port = "9095"
	}
	if c.Timezone == "" {
		c.Timezone = "Europe/London"
	}
}

// Validate reports missing required settings. These are fatal at startup.
func (c *Config) Validate() error {
	if c.Telegram.Token == "" {
		return fmt.Errorf("telegram bot token is required: set telegram.token or TELEGRAM_BOT_TOKEN")
	}
	if c.Postgres.DSN == "" {
		return fmt.Errorf("postgres DSN is required: set postgres.dsn or POSTGRES_DSN")
	}
	return nil
}

func setString(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}
