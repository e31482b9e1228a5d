package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/echoes-intel/playint/pkg/logger"
	"gopkg.in/yaml.v3"
)

// Config application configuration
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Redis     RedisConfig     `yaml:"redis"`
	Cache     CacheConfig     `yaml:"cache"`
	Killmail  KillmailConfig  `yaml:"killmail"`
	TMDB      TMDBConfig      `yaml:"tmdb"`
	CORS      CORSConfig      `yaml:"cors"`
	RateLimit RateLimitConfig `yaml:"rate_limit"`
	Log       LogConfig       `yaml:"log"`
}

type ServerConfig struct {
	Port         int           `yaml:"port"`
	Env          string        `yaml:"env"`
	ReadTimeout  time.Duration `yaml:"read_timeout"`
	WriteTimeout time.Duration `yaml:"write_timeout"`
}

type RedisConfig struct {
	Enabled  bool   `yaml:"enabled"`
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
	PoolSize int    `yaml:"pool_size"`
}

// CacheConfig in-process cache used when Redis is unavailable
type CacheConfig struct {
	MaxEntries int `yaml:"max_entries"`
}

// KillmailConfig external killmail CSV API
type KillmailConfig struct {
	BaseURL  string        `yaml:"base_url"`
	PageCap  int           `yaml:"page_cap"`
	Timeout  time.Duration `yaml:"timeout"`
	TopN     int           `yaml:"top_n"`
	MaxBarPx int           `yaml:"max_bar_px"`
}

type TMDBConfig struct {
	BaseURL  string        `yaml:"base_url"`
	APIKey   string        `yaml:"api_key"`
	Timeout  time.Duration `yaml:"timeout"`
	CacheTTL time.Duration `yaml:"cache_ttl"`
}

type CORSConfig struct {
	AllowOrigins string `yaml:"allow_origins"`
}

type RateLimitConfig struct {
	Enabled           bool    `yaml:"enabled"`
	RequestsPerMinute int     `yaml:"requests_per_minute"`
	RequestsPerSecond float64 `yaml:"requests_per_second"`
	Burst             int     `yaml:"burst"`
}

type LogConfig struct {
	Level string `yaml:"level"`
}

// Load reads a YAML config file, expanding ${VAR} references from the environment.
// A missing file yields the defaults.
func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}

	expanded := os.ExpandEnv(string(data))
	if err := yaml.Unmarshal([]byte(expanded), cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}

	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Default returns the built-in configuration
func Default() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	return cfg
}

func (c *Config) applyDefaults() {
	if c.Server.Port == 0 {
		c.Server.Port = 3002
	}
	if c.Server.Env == "" {
		c.Server.Env = "local"
	}
	if c.Server.ReadTimeout == 0 {
		c.Server.ReadTimeout = 15 * time.Second
	}
	if c.Server.WriteTimeout == 0 {
		c.Server.WriteTimeout = 60 * time.Second
	}
	if c.Redis.Host == "" {
		c.Redis.Host = "localhost"
	}
	if c.Redis.Port == 0 {
		c.Redis.Port = 6379
	}
	if c.Redis.PoolSize == 0 {
		c.Redis.PoolSize = 10
	}
	if c.Cache.MaxEntries == 0 {
		c.Cache.MaxEntries = 1000
	}
	if c.Killmail.BaseURL == "" {
		c.Killmail.BaseURL = "https://echoes.mobi/api/killmails"
	}
	if c.Killmail.PageCap == 0 {
		c.Killmail.PageCap = 10
	}
	if c.Killmail.Timeout == 0 {
		c.Killmail.Timeout = 20 * time.Second
	}
	if c.Killmail.TopN == 0 {
		c.Killmail.TopN = 5
	}
	if c.Killmail.MaxBarPx == 0 {
		c.Killmail.MaxBarPx = 300
	}
	if c.TMDB.BaseURL == "" {
		c.TMDB.BaseURL = "https://api.themoviedb.org"
	}
	if c.TMDB.Timeout == 0 {
		c.TMDB.Timeout = 10 * time.Second
	}
	if c.TMDB.CacheTTL == 0 {
		c.TMDB.CacheTTL = time.Minute
	}
	if c.RateLimit.RequestsPerMinute == 0 {
		c.RateLimit.RequestsPerMinute = 120
	}
	if c.RateLimit.RequestsPerSecond == 0 {
		c.RateLimit.RequestsPerSecond = 2
	}
	if c.RateLimit.Burst == 0 {
		c.RateLimit.Burst = 20
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
}

// Validate checks values that have no sensible default
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port out of range: %d", c.Server.Port)
	}
	if c.Killmail.PageCap < 1 {
		return fmt.Errorf("killmail.page_cap must be positive")
	}
	if c.Killmail.TopN < 1 {
		return fmt.Errorf("killmail.top_n must be positive")
	}
	if !strings.HasPrefix(c.Killmail.BaseURL, "http") {
		return fmt.Errorf("killmail.base_url must be an http(s) URL")
	}
	return nil
}

// IsDevelopment reports whether the server runs in a local/dev environment
func (c *Config) IsDevelopment() bool {
	switch c.Server.Env {
	case "local", "dev", "development":
		return true
	}
	return false
}

// LogResolved prints the effective configuration without secrets
func LogResolved(cfg *Config) {
	logger.Info("config: env=%s port=%d redis=%v(%s:%d) killmail=%s pages=%d top_n=%d tmdb_key_set=%v rate_limit=%v",
		cfg.Server.Env, cfg.Server.Port,
		cfg.Redis.Enabled, cfg.Redis.Host, cfg.Redis.Port,
		cfg.Killmail.BaseURL, cfg.Killmail.PageCap, cfg.Killmail.TopN,
		cfg.TMDB.APIKey != "", cfg.RateLimit.Enabled,
	)
}
