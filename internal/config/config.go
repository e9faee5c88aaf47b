// Package config loads the command line tool's settings from flags,
// environment, an optional .env file and an optional netmanager.yaml.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/adamwoolhether/netmanager/client"
)

// EnvPrefix is prepended to every environment key, e.g. NETMANAGER_BASE_URL.
const EnvPrefix = "NETMANAGER"

// Keys double as flag names and config file keys.
const (
	KeyBaseURL     = "base-url"
	KeyTimeout     = "timeout"
	KeyLogLevel    = "log-level"
	KeyUserAgent   = "user-agent"
	KeyRequestID   = "request-id-header"
	KeyMaxInFlight = "max-in-flight"
	KeyNoColor     = "no-color"
	KeyConfigFile  = "config"
	KeyEnvFile     = "env-file"
)

// Config holds the resolved settings.
type Config struct {
	BaseURL         string        `mapstructure:"base-url"`
	Timeout         time.Duration `mapstructure:"timeout"`
	LogLevel        string        `mapstructure:"log-level"`
	UserAgent       string        `mapstructure:"user-agent"`
	RequestIDHeader string        `mapstructure:"request-id-header"`
	MaxInFlight     int           `mapstructure:"max-in-flight"`
	NoColor         bool          `mapstructure:"no-color"`
}

// Load resolves the config. Precedence, highest first: flags that were
// set, environment (including .env), config file, defaults. flags may be nil.
func Load(flags *pflag.FlagSet) (Config, error) {
	v := viper.New()

	v.SetDefault(KeyBaseURL, "")
	v.SetDefault(KeyTimeout, "10s")
	v.SetDefault(KeyLogLevel, "info")
	v.SetDefault(KeyUserAgent, "netmanager/1.0")
	v.SetDefault(KeyRequestID, "X-Request-Id")
	v.SetDefault(KeyMaxInFlight, 0)
	v.SetDefault(KeyNoColor, false)
	v.SetDefault(KeyConfigFile, "")
	v.SetDefault(KeyEnvFile, ".env")

	if flags != nil {
		if err := v.BindPFlags(flags); err != nil {
			return Config{}, fmt.Errorf("binding flags: %w", err)
		}
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	// godotenv never overrides variables already present in the environment.
	// A missing default .env is fine; a missing explicit one is not.
	if err := godotenv.Load(v.GetString(KeyEnvFile)); err != nil && flagChanged(flags, KeyEnvFile) {
		return Config{}, fmt.Errorf("loading env file: %w", err)
	}

	if err := readConfigFile(v); err != nil {
		return Config{}, err
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

// Validate checks the fields the client does not validate itself.
func (c Config) Validate() error {
	if err := (client.Config{BaseURL: c.BaseURL, Timeout: c.Timeout}).Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	if _, err := c.Level(); err != nil {
		return err
	}

	if c.MaxInFlight < 0 {
		return fmt.Errorf("invalid %s %d: must not be negative", KeyMaxInFlight, c.MaxInFlight)
	}

	return nil
}

// Level parses LogLevel.
func (c Config) Level() (slog.Level, error) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", KeyLogLevel, c.LogLevel, err)
	}

	return lvl, nil
}

// readConfigFile reads the --config file when given, otherwise
// netmanager.yaml from the working directory if it exists.
func readConfigFile(v *viper.Viper) error {
	if path := v.GetString(KeyConfigFile); path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return fmt.Errorf("reading config file %s: %w", path, err)
		}
		return nil
	}

	v.SetConfigName("netmanager")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			return nil
		}
		return fmt.Errorf("reading config file: %w", err)
	}

	return nil
}

func flagChanged(flags *pflag.FlagSet, name string) bool {
	if flags == nil {
		return false
	}

	f := flags.Lookup(name)
	return f != nil && f.Changed
}
