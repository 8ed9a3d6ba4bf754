// Package config loads the application configuration from an optional YAML
// file with environment variable overrides.
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/joeshaw/envdecode"
	"gopkg.in/yaml.v3"
)

// Duration is a time.Duration that parses from "10m"-style strings in both
// YAML values and environment variables.
type Duration time.Duration

func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	parsed, err := time.ParseDuration(value.Value)
	if err != nil {
		return fmt.Errorf("parse duration %q: %w", value.Value, err)
	}
	*d = Duration(parsed)
	return nil
}

// Decode implements envdecode.Decoder.
func (d *Duration) Decode(repl string) error {
	parsed, err := time.ParseDuration(repl)
	if err != nil {
		return fmt.Errorf("parse duration %q: %w", repl, err)
	}
	*d = Duration(parsed)
	return nil
}

// Config holds every tunable of the item-shop service. Environment variables
// override YAML values; defaults apply last.
type Config struct {
	Port      int    `yaml:"port" env:"PORT"`
	StaticDir string `yaml:"static_dir" env:"STATIC_DIR"`

	ShopURL      string `yaml:"shop_url" env:"SHOP_URL"`
	ShopLanguage string `yaml:"shop_language" env:"SHOP_LANGUAGE"`
	ShopRefresh  string `yaml:"shop_refresh" env:"SHOP_REFRESH"`

	UserInfoURL    string `yaml:"user_info_url" env:"USER_INFO_URL"`
	FriendsBaseURL string `yaml:"friends_base_url" env:"FRIENDS_BASE_URL"`
	FriendsBalance int    `yaml:"friends_balance" env:"FRIENDS_BALANCE"`

	GiftURL     string `yaml:"gift_url" env:"GIFT_URL"`
	CreatorCode string `yaml:"creator_code" env:"CREATOR_CODE"`

	RedisAddr     string   `yaml:"redis_addr" env:"REDIS_ADDR"`
	RedisPassword string   `yaml:"redis_password" env:"REDIS_PASSWORD"`
	RedisDB       int      `yaml:"redis_db" env:"REDIS_DB"`
	SnapshotTTL   Duration `yaml:"snapshot_ttl" env:"SNAPSHOT_TTL"`

	RequestTimeout Duration `yaml:"request_timeout" env:"REQUEST_TIMEOUT"`

	DispatchRate  int `yaml:"dispatch_rate" env:"DISPATCH_RATE"`
	DispatchBurst int `yaml:"dispatch_burst" env:"DISPATCH_BURST"`

	LogLevel string `yaml:"log_level" env:"LOG_LEVEL"`
}

// Default returns the configuration used when nothing else is set.
func Default() Config {
	return Config{
		Port:           3000,
		StaticDir:      "dist",
		ShopURL:        "https://fortnite-api.com/v2/shop",
		ShopLanguage:   "es-419",
		ShopRefresh:    "@every 10m",
		FriendsBalance: 13500,
		CreatorCode:    "KIDDX",
		SnapshotTTL:    Duration(24 * time.Hour),
		RequestTimeout: Duration(10 * time.Second),
		DispatchRate:   1,
		DispatchBurst:  3,
		LogLevel:       "info",
	}
}

// Load reads the optional YAML file at path (empty path skips the file) and
// applies environment overrides on top, then fills remaining zero values
// with defaults.
func Load(path string) (Config, error) {
	var cfg Config

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse config file: %w", err)
		}
	}

	if err := envdecode.Decode(&cfg); err != nil && err != envdecode.ErrNoTargetFieldsAreSet {
		return Config{}, fmt.Errorf("decode environment: %w", err)
	}

	cfg.applyDefaults()
	return cfg, nil
}

func (c *Config) applyDefaults() {
	def := Default()
	if c.Port == 0 {
		c.Port = def.Port
	}
	if c.StaticDir == "" {
		c.StaticDir = def.StaticDir
	}
	if c.ShopURL == "" {
		c.ShopURL = def.ShopURL
	}
	if c.ShopLanguage == "" {
		c.ShopLanguage = def.ShopLanguage
	}
	if c.ShopRefresh == "" {
		c.ShopRefresh = def.ShopRefresh
	}
	if c.FriendsBalance == 0 {
		c.FriendsBalance = def.FriendsBalance
	}
	if c.CreatorCode == "" {
		c.CreatorCode = def.CreatorCode
	}
	if c.SnapshotTTL == 0 {
		c.SnapshotTTL = def.SnapshotTTL
	}
	if c.RequestTimeout == 0 {
		c.RequestTimeout = def.RequestTimeout
	}
	if c.DispatchRate == 0 {
		c.DispatchRate = def.DispatchRate
	}
	if c.DispatchBurst == 0 {
		c.DispatchBurst = def.DispatchBurst
	}
	if c.LogLevel == "" {
		c.LogLevel = def.LogLevel
	}
}
