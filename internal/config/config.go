package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/baditaflorin/go_string_processor/internal/core/domain"
)

// EnvPrefix is prepended to every environment override, e.g. STRPROC_SERVER_PORT.
const EnvPrefix = "STRPROC"

// Config is the application configuration shared by the CLI and the server.
type Config struct {
	Processor ProcessorConfig `mapstructure:"processor"`
	Server    ServerConfig    `mapstructure:"server"`
	Logging   LoggingConfig   `mapstructure:"logging"`
}

// ProcessorConfig selects the transformation policies.
type ProcessorConfig struct {
	ReverseUnit string `mapstructure:"reverse_unit"`
	CaseMapping string `mapstructure:"case_mapping"`
	SpaceClass  string `mapstructure:"space_class"`
	WarmUp      bool   `mapstructure:"warm_up"`
}

// ServerConfig contains HTTP server settings
type ServerConfig struct {
	Port           int           `mapstructure:"port"`
	ReadTimeout    time.Duration `mapstructure:"read_timeout"`
	WriteTimeout   time.Duration `mapstructure:"write_timeout"`
	MaxRequestSize int           `mapstructure:"max_request_size"`
	Concurrency    int           `mapstructure:"concurrency"`
	RateLimitRPS   float64       `mapstructure:"rate_limit_rps"`
	RateLimitBurst int           `mapstructure:"rate_limit_burst"`
}

// LoggingConfig contains logging settings
type LoggingConfig struct {
	JSON bool   `mapstructure:"json"`
	File string `mapstructure:"file"`
}

// Policies resolves the configured policy names.
func (p ProcessorConfig) Policies() (domain.ReverseUnit, domain.CaseMapping, domain.SpaceClass, error) {
	unit, err := domain.ParseReverseUnit(p.ReverseUnit)
	if err != nil {
		return 0, 0, 0, &ConfigError{Field: "processor.reverse_unit", Message: "unsupported value", Err: err}
	}
	mapping, err := domain.ParseCaseMapping(p.CaseMapping)
	if err != nil {
		return 0, 0, 0, &ConfigError{Field: "processor.case_mapping", Message: "unsupported value", Err: err}
	}
	class, err := domain.ParseSpaceClass(p.SpaceClass)
	if err != nil {
		return 0, 0, 0, &ConfigError{Field: "processor.space_class", Message: "unsupported value", Err: err}
	}
	return unit, mapping, class, nil
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if _, _, _, err := c.Processor.Policies(); err != nil {
		return err
	}
	if c.Server.Port < 0 || c.Server.Port > 65535 {
		return &ConfigError{Field: "server.port", Message: "must be between 0 and 65535"}
	}
	if c.Server.MaxRequestSize <= 0 {
		return &ConfigError{Field: "server.max_request_size", Message: "must be positive"}
	}
	if c.Server.RateLimitRPS < 0 {
		return &ConfigError{Field: "server.rate_limit_rps", Message: "must not be negative"}
	}
	if c.Server.RateLimitRPS > 0 && c.Server.RateLimitBurst <= 0 {
		return &ConfigError{Field: "server.rate_limit_burst", Message: "must be positive when rate limiting is enabled"}
	}
	return nil
}

// ConfigError represents a configuration error
type ConfigError struct {
	Field   string
	Message string
	Err     error
}

func (e *ConfigError) Error() string {
	if e.Err != nil {
		return "config error in field '" + e.Field + "': " + e.Message + ": " + e.Err.Error()
	}
	return "config error in field '" + e.Field + "': " + e.Message
}

func (e *ConfigError) Unwrap() error {
	return e.Err
}

// NewViper returns a viper instance with defaults and environment overrides
// registered. Callers may bind command-line flags to it before calling Load.
func NewViper() *viper.Viper {
	v := viper.New()

	v.SetDefault("processor.reverse_unit", domain.Runes.String())
	v.SetDefault("processor.case_mapping", domain.Simple.String())
	v.SetDefault("processor.space_class", domain.Space.String())
	v.SetDefault("processor.warm_up", false)

	v.SetDefault("server.port", 8080)
	v.SetDefault("server.read_timeout", "30s")
	v.SetDefault("server.write_timeout", "30s")
	v.SetDefault("server.max_request_size", 10*1024*1024)
	v.SetDefault("server.concurrency", 0)
	v.SetDefault("server.rate_limit_rps", 0.0)
	v.SetDefault("server.rate_limit_burst", 0)

	v.SetDefault("logging.json", false)
	v.SetDefault("logging.file", "")

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	return v
}

// LoadResult holds the loaded configuration and where it came from.
type LoadResult struct {
	Config       *Config
	ConfigFile   string
	UsedDefaults bool
	settings     map[string]interface{}
}

// Load reads configuration into v. An explicit path must exist. Without one,
// strproc.{yaml,json,toml} is searched for in the working directory and in
// $HOME/.config/strproc; a missing file means defaults plus environment.
func Load(v *viper.Viper, path string) (*LoadResult, error) {
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("strproc")
		v.AddConfigPath(".")
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".config", "strproc"))
		}
	}

	result := &LoadResult{}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
		result.UsedDefaults = true
	} else {
		result.ConfigFile = v.ConfigFileUsed()
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	result.Config = &cfg
	result.settings = v.AllSettings()
	return result, nil
}

// Render encodes the effective settings as "yaml" or "json".
func (r *LoadResult) Render(format string) ([]byte, error) {
	switch strings.ToLower(format) {
	case "", "yaml", "yml":
		return yaml.Marshal(r.settings)
	case "json":
		return json.MarshalIndent(r.settings, "", "  ")
	default:
		return nil, fmt.Errorf("unsupported format %q", format)
	}
}
