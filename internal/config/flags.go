package config

import (
	"flag"
	"os"
	"time"

	"github.com/ddanilovs/chargekeeper/internal/flagx"
)

// parseFlags populates selected Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-d string   database DSN: SQLite path or postgres:// URL (default from Config)
//	-k string   session token signing key (default from Config)
//	-t int      session token validity in hours (default from Config)
//
// Note: The function filters os.Args to only include the flags it knows about,
// using flagx.FilterArgs, to avoid interference with other components.
func parseFlags(cfg *Config) {
	// Filter args to include only those handled here.
	args := flagx.FilterArgs(os.Args[1:], []string{"-d", "-k", "-t"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&cfg.DatabaseDSN, "d", cfg.DatabaseDSN, "database DSN (SQLite path or postgres:// URL)")
	fs.StringVar(&cfg.SecretKey, "k", cfg.SecretKey, "session token signing key")
	validityHours := fs.Int("t", int(cfg.SessionTokenValidity.Hours()), "session token validity (in hours)")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	cfg.SessionTokenValidity = time.Duration(*validityHours) * time.Hour
}
