package config

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFlags(t *testing.T) {
	base := func() *Config {
		c := &Config{}
		c.LoadDefaults()
		return c
	}

	withOK := base()
	withOK.APIURL = "http://127.0.0.1:9090"
	withOK.RequestTimeout = 10 * time.Second
	withOK.RenewFailure = RenewFailureSignOut
	withOK.ConsoleAddr = ""

	tests := []struct {
		expected    *Config
		name        string
		args        []string
		expectPanic bool
	}{
		{name: "Test1 OK", args: []string{"-a", "http://127.0.0.1:9090", "-t", "10", "--renew-failure=signout", "-l="},
			expected: withOK},
		{name: "Test2 foreign flags ignored", args: []string{"-c", "conf.json", "-x", "1"}, expected: base()},
		{name: "Test3 incorrect timeout", args: []string{"-t", "abc"}, expectPanic: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			config := base()

			if !tt.expectPanic {
				require.NotPanics(t, func() { parseFlags(config, tt.args) })
				assert.Empty(t, cmp.Diff(config, tt.expected))
			} else {
				require.Panics(t, func() { parseFlags(config, tt.args) })
			}
		})
	}
}
