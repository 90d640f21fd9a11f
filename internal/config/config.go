// Package config assembles runtime settings for the ChargeKeeper CLI from
// defaults, an optional JSON file, and command-line flags.
package config

import "time"

// Config holds runtime settings for the ChargeKeeper CLI.
//
// Fields:
//   - DatabaseDSN: SQLite file path, or a postgres:// URL for a hosted store.
//   - SecretKey: HMAC key used to sign session tokens.
//   - SessionTokenValidity: how long a stored session stays valid.
type Config struct {
	DatabaseDSN          string
	SecretKey            string
	SessionTokenValidity time.Duration
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.DatabaseDSN = "chargekeeper.db"
	c.SecretKey = "chargekeeper-local"
	c.SessionTokenValidity = 30 * 24 * time.Hour
}

// LoadConfig constructs a Config, applies defaults, then overlays values from
// JSON (if present) and command-line flags (if present). Later sources take
// precedence over earlier ones.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)
	parseFlags(cfg)
	return cfg
}
