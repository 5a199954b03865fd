package config

import (
	"time"
)

// Config holds runtime settings for the VetClinic CLI.
type Config struct {
	ServerBaseURL   string
	StoreDSN        string
	RequestTimeout  time.Duration
	ExpiryThreshold time.Duration
	RefreshInterval time.Duration
	MetricsAddr     string
	LogLevel        string
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.ServerBaseURL = "http://localhost:8080/api"
	c.StoreDSN = "vetclinic.db"
	c.RequestTimeout = 10 * time.Second
	c.ExpiryThreshold = 5 * time.Minute
	c.RefreshInterval = time.Minute
	c.MetricsAddr = ""
	c.LogLevel = "info"
}

// LoadConfig applies defaults, then the JSON file named in args (if any),
// then the flags in args. Later sources take precedence.
func LoadConfig(args []string) (*Config, error) {
	cfg := &Config{}
	cfg.LoadDefaults()
	if err := parseJSON(cfg, args); err != nil {
		return nil, err
	}
	if err := parseFlags(cfg, args); err != nil {
		return nil, err
	}
	return cfg, nil
}
