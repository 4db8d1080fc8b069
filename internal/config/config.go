// Package config loads ls-moonphase settings from .ls-moonphase.yaml,
// MOONPHASE_* environment variables (including a local .env file) and
// command-line flags.
package config

import (
	"errors"
	"fmt"
	"net"
	"net/url"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/litescript/ls-moonphase/internal/almanac"
	"github.com/litescript/ls-moonphase/internal/cache"
	"github.com/litescript/ls-moonphase/internal/ephem"
	"github.com/litescript/ls-moonphase/internal/logging"
	"github.com/litescript/ls-moonphase/internal/moon"
)

const (
	// EnvPrefix prefixes every environment override.
	EnvPrefix = "MOONPHASE"

	// FileName is the config file name searched for in the working
	// directory and the home directory.
	FileName = ".ls-moonphase"
)

// Config holds all runtime configuration.
type Config struct {
	Source       string        `mapstructure:"source"`
	Ephemeris    string        `mapstructure:"ephemeris"`
	Location     string        `mapstructure:"location"`
	AlmanacURL   string        `mapstructure:"almanac_url"`
	Timeout      time.Duration `mapstructure:"timeout"`
	CachePath    string        `mapstructure:"cache_path"`
	CacheEnabled bool          `mapstructure:"cache_enabled"`
	LogLevel     string        `mapstructure:"log_level"`
	Addr         string        `mapstructure:"addr"`
}

// SetDefaults registers built-in defaults on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("source", moon.ModeEphemeris.String())
	v.SetDefault("ephemeris", ephem.ModeMeeus.String())
	v.SetDefault("location", almanac.DefaultLocation)
	v.SetDefault("almanac_url", almanac.DefaultBaseURL)
	v.SetDefault("timeout", almanac.DefaultTimeout)
	v.SetDefault("cache_path", cache.DefaultPath())
	v.SetDefault("cache_enabled", true)
	v.SetDefault("log_level", "warn")
	v.SetDefault("addr", ":8080")
}

// Init prepares v to read the config file and environment. cfgFile, when
// set, replaces the search for .ls-moonphase.yaml. A .env file in the
// working directory is loaded into the environment first; variables that
// are already set win.
func Init(v *viper.Viper, cfgFile string) error {
	_ = godotenv.Load()

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.SetConfigName(FileName)
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(home)
		}
	}

	v.SetEnvPrefix(EnvPrefix)
	v.AutomaticEnv()
	SetDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) && cfgFile == "" {
			return nil
		}
		return fmt.Errorf("read config: %w", err)
	}
	return nil
}

// Load unmarshals and validates the configuration held by v.
func Load(v *viper.Viper) (Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return cfg, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// Validate checks every setting and reports all problems at once.
func (c *Config) Validate() error {
	var errs []error

	if _, err := moon.ParseMode(c.Source); err != nil {
		errs = append(errs, fmt.Errorf("source: %w", err))
	}

	switch c.Ephemeris {
	case ephem.ModeMeeus.String(), ephem.ModeMean.String():
	default:
		errs = append(errs, fmt.Errorf("ephemeris must be one of: meeus, mean; got %q", c.Ephemeris))
	}

	if c.Location == "" {
		errs = append(errs, errors.New("location is required"))
	}

	if u, err := url.Parse(c.AlmanacURL); err != nil || u.Scheme == "" || u.Host == "" {
		errs = append(errs, fmt.Errorf("almanac_url must be an absolute URL, got %q", c.AlmanacURL))
	}

	if c.Timeout <= 0 {
		errs = append(errs, fmt.Errorf("timeout must be positive, got %s", c.Timeout))
	}

	if c.CacheEnabled && c.CachePath == "" {
		errs = append(errs, errors.New("cache_path is required when the cache is enabled"))
	}

	if !logging.ValidLevel(c.LogLevel) {
		errs = append(errs, fmt.Errorf("log_level must be one of: debug, info, warn, error; got %q", c.LogLevel))
	}

	if _, _, err := net.SplitHostPort(c.Addr); err != nil {
		errs = append(errs, fmt.Errorf("addr: %w", err))
	}

	return errors.Join(errs...)
}

// Mode returns the parsed source mode. Call after Validate.
func (c *Config) Mode() moon.Mode {
	m, _ := moon.ParseMode(c.Source)
	return m
}

// EphemerisMode returns the parsed ephemeris mode.
func (c *Config) EphemerisMode() ephem.Mode {
	return ephem.ParseMode(c.Ephemeris)
}
