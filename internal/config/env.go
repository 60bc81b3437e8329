package config

import (
	"errors"
	"io/fs"
	"log"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

const envPrefix = "NETKEEPER_"

// loadDotEnv reads ./.env into the process environment. Variables already
// set take precedence over the file.
func loadDotEnv() {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		log.Printf("ignoring .env: %v", err)
	}
}

// parseEnv overlays Config with NETKEEPER_* variables.
func parseEnv(cfg *Config, lookup func(string) (string, bool)) {
	str := func(name string, dst *string) {
		if v, ok := lookup(envPrefix + name); ok {
			*dst = v
		}
	}
	dur := func(name string, dst *time.Duration) {
		if v, ok := lookup(envPrefix + name); ok && v != "" {
			d, err := time.ParseDuration(v)
			if err != nil {
				panic(err)
			}
			*dst = d
		}
	}

	str("API_URL", &cfg.APIURL)
	dur("REQUEST_TIMEOUT", &cfg.RequestTimeout)
	str("CONSOLE_ADDR", &cfg.ConsoleAddr)
	str("HISTORY_PATH", &cfg.HistoryPath)
	str("LOG_LEVEL", &cfg.LogLevel)
	str("LOG_FORMAT", &cfg.LogFormat)
	str("LOG_FILE", &cfg.LogFile)
	dur("RENEW_AFTER", &cfg.RenewAfter)
	dur("TICK_INTERVAL", &cfg.TickInterval)
	str("RENEW_STRATEGY", &cfg.RenewStrategy)
	str("RENEW_FAILURE", &cfg.RenewFailure)
	str("TIME_ZONE", &cfg.TimeZone)

	if v, ok := lookup(envPrefix + "SIGN_IN_RATE"); ok && v != "" {
		r, err := strconv.ParseFloat(v, 64)
		if err != nil {
			panic(err)
		}
		cfg.SignInRate = r
	}
	if v, ok := lookup(envPrefix + "SIGN_IN_BURST"); ok && v != "" {
		b, err := strconv.Atoi(v)
		if err != nil {
			panic(err)
		}
		cfg.SignInBurst = b
	}
}
