package config

import (
	"encoding/json"
	"os"

	"github.com/dmitrijs2005/netkeeper/internal/flagx"
	"github.com/dmitrijs2005/netkeeper/internal/timex"
)

// JsonConfig is a DTO used exclusively for JSON unmarshalling. Pointer fields
// distinguish "absent" from a zero value so the file only overrides what it
// names.
type JsonConfig struct {
	APIURL         *string         `json:"api_url"`
	RequestTimeout *timex.Duration `json:"request_timeout"`
	ConsoleAddr    *string         `json:"console_addr"`
	HistoryPath    *string         `json:"history_path"`
	LogLevel       *string         `json:"log_level"`
	LogFormat      *string         `json:"log_format"`
	LogFile        *string         `json:"log_file"`
	RenewAfter     *timex.Duration `json:"renew_after"`
	TickInterval   *timex.Duration `json:"tick_interval"`
	RenewStrategy  *string         `json:"renew_strategy"`
	RenewFailure   *string         `json:"renew_failure"`
	TimeZone       *string         `json:"time_zone"`
	SignInRate     *float64        `json:"sign_in_rate"`
	SignInBurst    *int            `json:"sign_in_burst"`
}

// parseJson overlays Config with values loaded from the JSON file named by
// -c or -config in args. Without either flag nothing happens.
// Panics on read or unmarshal errors.
func parseJson(cfg *Config, args []string) {
	jsonConfigFile := flagx.JsonConfigFlags(args)
	if jsonConfigFile == "" {
		return
	}

	data, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}

	var jc JsonConfig
	if err := json.Unmarshal(data, &jc); err != nil {
		panic(err)
	}

	setStr := func(src *string, dst *string) {
		if src != nil {
			*dst = *src
		}
	}

	setStr(jc.APIURL, &cfg.APIURL)
	setStr(jc.ConsoleAddr, &cfg.ConsoleAddr)
	setStr(jc.HistoryPath, &cfg.HistoryPath)
	setStr(jc.LogLevel, &cfg.LogLevel)
	setStr(jc.LogFormat, &cfg.LogFormat)
	setStr(jc.LogFile, &cfg.LogFile)
	setStr(jc.RenewStrategy, &cfg.RenewStrategy)
	setStr(jc.RenewFailure, &cfg.RenewFailure)
	setStr(jc.TimeZone, &cfg.TimeZone)

	if jc.RequestTimeout != nil {
		cfg.RequestTimeout = jc.RequestTimeout.Duration
	}
	if jc.RenewAfter != nil {
		cfg.RenewAfter = jc.RenewAfter.Duration
	}
	if jc.TickInterval != nil {
		cfg.TickInterval = jc.TickInterval.Duration
	}
	if jc.SignInRate != nil {
		cfg.SignInRate = *jc.SignInRate
	}
	if jc.SignInBurst != nil {
		cfg.SignInBurst = *jc.SignInBurst
	}
}
