package config

import (
	"flag"
	"io"
	"time"

	"github.com/dmitrijs2005/netkeeper/internal/flagx"
)

var knownFlags = []string{
	"-a", "-l", "-history", "-t",
	"-log-level", "-log-format", "-log-file",
	"-renew-strategy", "-renew-failure", "-tz",
}

// parseFlags populates Config fields from command-line flags. Only the flags
// listed in knownFlags are considered (see flagx.FilterArgs), so -c/-config
// and anything meant for other components pass through untouched.
func parseFlags(cfg *Config, args []string) {
	fs := flag.NewFlagSet("main", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	fs.StringVar(&cfg.APIURL, "a", cfg.APIURL, "base URL of the portal login API")
	fs.StringVar(&cfg.ConsoleAddr, "l", cfg.ConsoleAddr, "listen address of the browser console (empty disables)")
	fs.StringVar(&cfg.HistoryPath, "history", cfg.HistoryPath, "sqlite history database (empty disables)")
	timeout := fs.Int("t", int(cfg.RequestTimeout.Seconds()), "portal request timeout (in seconds)")
	fs.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "debug, info, warn, error")
	fs.StringVar(&cfg.LogFormat, "log-format", cfg.LogFormat, "text or json")
	fs.StringVar(&cfg.LogFile, "log-file", cfg.LogFile, "operator log file (default stderr)")
	fs.StringVar(&cfg.RenewStrategy, "renew-strategy", cfg.RenewStrategy, "reauthenticate or refresh")
	fs.StringVar(&cfg.RenewFailure, "renew-failure", cfg.RenewFailure, "keep or signout")
	fs.StringVar(&cfg.TimeZone, "tz", cfg.TimeZone, "time zone for displayed expiry times")

	if err := fs.Parse(flagx.FilterArgs(args, knownFlags)); err != nil {
		panic(err)
	}

	fs.Visit(func(f *flag.Flag) {
		if f.Name == "t" {
			cfg.RequestTimeout = time.Duration(*timeout) * time.Second
		}
	})
}
