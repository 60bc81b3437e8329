package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func noEnv(string) (string, bool) { return "", false }

func envMap(m map[string]string) func(string) (string, bool) {
	return func(k string) (string, bool) {
		v, ok := m[k]
		return v, ok
	}
}

func TestLoadDefaults(t *testing.T) {
	var c Config
	c.LoadDefaults()

	assert.Equal(t, "https://login-api.cmu.ac.th", c.APIURL)
	assert.Equal(t, 30*time.Second, c.RequestTimeout)
	assert.Equal(t, 30*time.Minute-time.Second, c.RenewAfter)
	assert.Equal(t, time.Second, c.TickInterval)
	assert.Equal(t, RenewReauthenticate, c.RenewStrategy)
	assert.Equal(t, RenewFailureKeep, c.RenewFailure)
	assert.Equal(t, "127.0.0.1:8085", c.ConsoleAddr)
	require.NoError(t, c.Validate())
}

func TestLoad_UsesDefaultsWithoutInput(t *testing.T) {
	cfg := Load(nil, noEnv)

	require.NotNil(t, cfg, "Load must not return nil")
	assert.Equal(t, "https://login-api.cmu.ac.th", cfg.APIURL)
	assert.Equal(t, 30*time.Second, cfg.RequestTimeout)
}

func TestLoad_Precedence(t *testing.T) {
	path := writeTempJSON(t, `{"api_url":"http://json","renew_failure":"signout","request_timeout":"5s"}`)

	env := envMap(map[string]string{
		"NETKEEPER_API_URL":        "http://env",
		"NETKEEPER_LOG_LEVEL":      "debug",
		"NETKEEPER_RENEW_STRATEGY": "refresh",
	})

	cfg := Load([]string{"-c", path, "-a", "http://flag"}, env)

	assert.Equal(t, "http://flag", cfg.APIURL)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, RenewRefresh, cfg.RenewStrategy)
	assert.Equal(t, RenewFailureSignOut, cfg.RenewFailure)
	assert.Equal(t, 5*time.Second, cfg.RequestTimeout)
}

func TestLoad_InvalidPanics(t *testing.T) {
	require.Panics(t, func() { Load([]string{"-renew-failure", "explode"}, noEnv) })
	require.Panics(t, func() { Load(nil, envMap(map[string]string{"NETKEEPER_TICK_INTERVAL": "soon"})) })
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr string
	}{
		{name: "ok", mutate: func(*Config) {}},
		{name: "empty api", mutate: func(c *Config) { c.APIURL = "" }, wantErr: "api url"},
		{name: "zero renew", mutate: func(c *Config) { c.RenewAfter = 0 }, wantErr: "renew interval"},
		{name: "zero tick", mutate: func(c *Config) { c.TickInterval = 0 }, wantErr: "tick interval"},
		{name: "bad strategy", mutate: func(c *Config) { c.RenewStrategy = "x" }, wantErr: "renew strategy"},
		{name: "bad policy", mutate: func(c *Config) { c.RenewFailure = "x" }, wantErr: "renew failure"},
		{name: "bad zone", mutate: func(c *Config) { c.TimeZone = "Nowhere/Atlantis" }, wantErr: "time zone"},
		{name: "bad rate", mutate: func(c *Config) { c.SignInBurst = 0 }, wantErr: "rate and burst"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var c Config
			c.LoadDefaults()
			tt.mutate(&c)

			err := c.Validate()
			if tt.wantErr == "" {
				require.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestLocation(t *testing.T) {
	c := Config{}
	loc, err := c.Location()
	require.NoError(t, err)
	assert.Equal(t, time.Local, loc)

	c.TimeZone = "UTC"
	loc, err = c.Location()
	require.NoError(t, err)
	assert.Equal(t, "UTC", loc.String())
}
