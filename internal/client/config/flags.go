package config

import (
	"flag"
	"os"
	"time"

	"github.com/dmitrijs2005/fishlog/internal/flagx"
)

var ownFlags = []string{"-a", "-p", "-d", "-db", "-r", "-g", "-i", "-l"}

// parseFlags populates selected Config fields from command-line flags.
//
//	-a string   platform endpoint URL
//	-p string   project id
//	-d string   database id
//	-db string  local database file
//	-r string   identity store URL (redis://...)
//	-g string   gRPC health endpoint host:port
//	-i int      online check interval (seconds)
//	-l string   log level
//
// Other arguments are filtered out with flagx.FilterArgs first.
func parseFlags(cfg *Config) {
	args := flagx.FilterArgs(os.Args[1:], ownFlags)

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&cfg.Endpoint, "a", cfg.Endpoint, "platform endpoint URL")
	fs.StringVar(&cfg.ProjectID, "p", cfg.ProjectID, "project id")
	fs.StringVar(&cfg.DatabaseID, "d", cfg.DatabaseID, "database id")
	fs.StringVar(&cfg.LocalDBPath, "db", cfg.LocalDBPath, "local database file")
	fs.StringVar(&cfg.IdentityStoreURL, "r", cfg.IdentityStoreURL, "identity store URL")
	fs.StringVar(&cfg.HealthGRPCAddr, "g", cfg.HealthGRPCAddr, "gRPC health endpoint")
	fs.StringVar(&cfg.LogLevel, "l", cfg.LogLevel, "log level (debug, info, warn, error)")
	onlineCheckInterval := fs.Int("i", int(cfg.OnlineCheckInterval.Seconds()), "online check interval (in seconds)")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	cfg.OnlineCheckInterval = time.Duration(*onlineCheckInterval) * time.Second
}
