package config

import (
	"flag"
	"io"
	"time"

	"github.com/miguelherrera-611/vetclinic/internal/flagx"
)

// parseFlags populates cfg from the flags it owns in args; everything else
// (e.g. -c) is filtered out first so other layers do not interfere.
func parseFlags(cfg *Config, args []string) error {
	own := flagx.FilterArgs(args, "-a", "-d", "-t", "-e", "-r", "-m", "-l")

	fs := flag.NewFlagSet("vetclinic", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	fs.StringVar(&cfg.ServerBaseURL, "a", cfg.ServerBaseURL, "base URL of the VetClinic API")
	fs.StringVar(&cfg.StoreDSN, "d", cfg.StoreDSN, "SQLite DSN of the session store")
	timeout := fs.Int("t", int(cfg.RequestTimeout.Seconds()), "request timeout (in seconds)")
	threshold := fs.Int("e", int(cfg.ExpiryThreshold.Seconds()), "credential expiry threshold (in seconds)")
	interval := fs.Int("r", int(cfg.RefreshInterval.Seconds()), "credential refresh check interval (in seconds)")
	fs.StringVar(&cfg.MetricsAddr, "m", cfg.MetricsAddr, "metrics listen address")
	fs.StringVar(&cfg.LogLevel, "l", cfg.LogLevel, "log level")

	if err := fs.Parse(own); err != nil {
		return err
	}
	cfg.RequestTimeout = time.Duration(*timeout) * time.Second
	cfg.ExpiryThreshold = time.Duration(*threshold) * time.Second
	cfg.RefreshInterval = time.Duration(*interval) * time.Second
	return nil
}
