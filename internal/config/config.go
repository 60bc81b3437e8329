package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/dmitrijs2005/netkeeper/internal/common"
)

const (
	RenewReauthenticate = "reauthenticate"
	RenewRefresh        = "refresh"

	RenewFailureKeep    = "keep"
	RenewFailureSignOut = "signout"
)

// Config holds runtime settings for netkeeper.
//
// RenewAfter is measured from the moment a session is armed, not from the
// expiry the portal reports.
type Config struct {
	APIURL         string
	RequestTimeout time.Duration

	ConsoleAddr string
	HistoryPath string

	LogLevel  string
	LogFormat string
	LogFile   string

	RenewAfter    time.Duration
	TickInterval  time.Duration
	RenewStrategy string
	RenewFailure  string
	TimeZone      string

	SignInRate  float64
	SignInBurst int
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.APIURL = common.DefaultAPIURL
	c.RequestTimeout = 30 * time.Second
	c.ConsoleAddr = "127.0.0.1:8085"
	c.HistoryPath = ""
	c.LogLevel = "info"
	c.LogFormat = "text"
	c.LogFile = ""
	c.RenewAfter = 30*time.Minute - time.Second
	c.TickInterval = time.Second
	c.RenewStrategy = RenewReauthenticate
	c.RenewFailure = RenewFailureKeep
	c.TimeZone = ""
	c.SignInRate = 1
	c.SignInBurst = 5
}

// Validate checks enum values and intervals.
func (c *Config) Validate() error {
	var errs []error

	if c.APIURL == "" {
		errs = append(errs, errors.New("api url must be set"))
	}
	if c.RequestTimeout < 0 {
		errs = append(errs, fmt.Errorf("request timeout must not be negative (got %s)", c.RequestTimeout))
	}
	if c.RenewAfter <= 0 {
		errs = append(errs, fmt.Errorf("renew interval must be positive (got %s)", c.RenewAfter))
	}
	if c.TickInterval <= 0 {
		errs = append(errs, fmt.Errorf("tick interval must be positive (got %s)", c.TickInterval))
	}
	switch c.RenewStrategy {
	case RenewReauthenticate, RenewRefresh:
	default:
		errs = append(errs, fmt.Errorf("unknown renew strategy %q", c.RenewStrategy))
	}
	switch c.RenewFailure {
	case RenewFailureKeep, RenewFailureSignOut:
	default:
		errs = append(errs, fmt.Errorf("unknown renew failure policy %q", c.RenewFailure))
	}
	if _, err := c.Location(); err != nil {
		errs = append(errs, err)
	}
	if c.SignInRate <= 0 || c.SignInBurst <= 0 {
		errs = append(errs, errors.New("sign-in rate and burst must be positive"))
	}

	return errors.Join(errs...)
}

// Location resolves TimeZone; an empty value means the local zone.
func (c *Config) Location() (*time.Location, error) {
	if c.TimeZone == "" {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(c.TimeZone)
	if err != nil {
		return nil, fmt.Errorf("time zone %q: %w", c.TimeZone, err)
	}
	return loc, nil
}

// LoadConfig constructs a Config from os.Args and the process environment.
func LoadConfig() *Config {
	loadDotEnv()
	return Load(os.Args[1:], os.LookupEnv)
}

// Load applies defaults, then environment values from lookup, then JSON (if
// -c/-config is present in args), then flags. Later sources take precedence.
// It panics on unreadable or invalid input.
func Load(args []string, lookup func(string) (string, bool)) *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseEnv(cfg, lookup)
	parseJson(cfg, args)
	parseFlags(cfg, args)

	if err := cfg.Validate(); err != nil {
		panic(fmt.Errorf("invalid configuration: %w", err))
	}
	return cfg
}
