package config

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/miguelherrera-611/vetclinic/internal/flagx"
	"github.com/miguelherrera-611/vetclinic/internal/timex"
)

// jsonConfig is the on-disk shape. Pointer fields distinguish "absent"
// from "zero" so a partial file only overrides what it names.
type jsonConfig struct {
	ServerBaseURL   *string         `json:"server_base_url"`
	StoreDSN        *string         `json:"store_dsn"`
	RequestTimeout  *timex.Duration `json:"request_timeout"`
	ExpiryThreshold *timex.Duration `json:"expiry_threshold"`
	RefreshInterval *timex.Duration `json:"refresh_interval"`
	MetricsAddr     *string         `json:"metrics_addr"`
	LogLevel        *string         `json:"log_level"`
}

// parseJSON overlays cfg with the JSON file named by -c/-config in args.
// Without such a flag it does nothing.
func parseJSON(cfg *Config, args []string) error {
	path := flagx.JSONConfigPath(args)
	if path == "" {
		return nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config %s: %w", path, err)
	}

	var jc jsonConfig
	if err := json.Unmarshal(data, &jc); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}

	if jc.ServerBaseURL != nil {
		cfg.ServerBaseURL = *jc.ServerBaseURL
	}
	if jc.StoreDSN != nil {
		cfg.StoreDSN = *jc.StoreDSN
	}
	if jc.RequestTimeout != nil {
		cfg.RequestTimeout = jc.RequestTimeout.Duration
	}
	if jc.ExpiryThreshold != nil {
		cfg.ExpiryThreshold = jc.ExpiryThreshold.Duration
	}
	if jc.RefreshInterval != nil {
		cfg.RefreshInterval = jc.RefreshInterval.Duration
	}
	if jc.MetricsAddr != nil {
		cfg.MetricsAddr = *jc.MetricsAddr
	}
	if jc.LogLevel != nil {
		cfg.LogLevel = *jc.LogLevel
	}
	return nil
}
