package main

import (
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// flagKeys maps command line flags to their config keys.
var flagKeys = map[string]string{
	"port":             "server.port",
	"read-timeout":     "server.read_timeout",
	"write-timeout":    "server.write_timeout",
	"max-request-size": "server.max_request_size",
	"concurrency":      "server.concurrency",
	"rate-limit":       "server.rate_limit_rps",
	"rate-burst":       "server.rate_limit_burst",
	"warm-up":          "processor.warm_up",
	"log-json":         "logging.json",
	"log-file":         "logging.file",
}

// newFlagSet registers the server flags with defaults taken from v and binds
// them to their config keys. The returned string holds the --config path.
func newFlagSet(v *viper.Viper) (*pflag.FlagSet, *string, error) {
	flags := pflag.NewFlagSet("server", pflag.ContinueOnError)
	configPath := flags.String("config", "", "Config file path (default: ./strproc.yaml if present)")
	flags.Int("port", v.GetInt("server.port"), "HTTP server port")
	flags.Duration("read-timeout", v.GetDuration("server.read_timeout"), "HTTP read timeout")
	flags.Duration("write-timeout", v.GetDuration("server.write_timeout"), "HTTP write timeout")
	flags.Int("max-request-size", v.GetInt("server.max_request_size"), "Maximum request size in bytes")
	flags.Int("concurrency", v.GetInt("server.concurrency"), "Maximum number of concurrent requests (0 = fasthttp default)")
	flags.Float64("rate-limit", v.GetFloat64("server.rate_limit_rps"), "Requests per second across all clients (0 = unlimited)")
	flags.Int("rate-burst", v.GetInt("server.rate_limit_burst"), "Rate limiter burst size")
	flags.Bool("warm-up", v.GetBool("processor.warm_up"), "Warm up the transformers on startup")
	flags.Bool("log-json", v.GetBool("logging.json"), "Write JSON log records")
	flags.String("log-file", v.GetString("logging.file"), "Log file path (empty = stdout)")

	for flag, key := range flagKeys {
		if err := v.BindPFlag(key, flags.Lookup(flag)); err != nil {
			return nil, nil, err
		}
	}
	return flags, configPath, nil
}
