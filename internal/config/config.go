// Package config loads the server configuration from an optional file and
// EXPEDITION_* environment variables.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const (
	EnvProduction  = "production"
	EnvDevelopment = "development"
)

// Config is the server configuration.
type Config struct {
	Env    string       `mapstructure:"env"`
	HTTP   HTTPConfig   `mapstructure:"http"`
	Log    LogConfig    `mapstructure:"log"`
	Report ReportConfig `mapstructure:"report"`
	Source SourceConfig `mapstructure:"source"`
}

type HTTPConfig struct {
	Addr            string        `mapstructure:"addr"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// ReportConfig selects the variant and the resources of generated reports.
type ReportConfig struct {
	Variant       string   `mapstructure:"variant"`
	VariantsFile  string   `mapstructure:"variants_file"`
	Logo          string   `mapstructure:"logo"`
	Font          string   `mapstructure:"font"`
	ResourcePaths []string `mapstructure:"resource_paths"`
	Author        string   `mapstructure:"author"`
	ShowPageTotal bool     `mapstructure:"show_page_total"`
	Compress      bool     `mapstructure:"compress"`
}

// SourceConfig points at the rows served by GET requests.
type SourceConfig struct {
	File string `mapstructure:"file"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("env", EnvDevelopment)
	v.SetDefault("http.addr", ":8080")
	v.SetDefault("http.shutdown_timeout", 15*time.Second)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")
	v.SetDefault("report.variant", "")
	v.SetDefault("report.variants_file", "")
	v.SetDefault("report.logo", "")
	v.SetDefault("report.font", "")
	v.SetDefault("report.resource_paths", []string{})
	v.SetDefault("report.author", "")
	v.SetDefault("report.show_page_total", true)
	v.SetDefault("report.compress", true)
	v.SetDefault("source.file", "")
}

// Load reads the configuration. An empty path uses defaults and the
// environment only.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)
	v.SetEnvPrefix("EXPEDITION")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("reading config: %w", err)
		}
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("decoding config: %w", err)
	}
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return &c, nil
}

// Validate checks the configuration values.
func (c *Config) Validate() error {
	switch c.Env {
	case EnvProduction, EnvDevelopment:
	default:
		return fmt.Errorf("unknown env %q", c.Env)
	}
	if c.HTTP.Addr == "" {
		return errors.New("http.addr is required")
	}
	if c.HTTP.ShutdownTimeout <= 0 {
		return errors.New("http.shutdown_timeout must be positive")
	}
	switch strings.ToLower(c.Log.Format) {
	case "text", "json":
	default:
		return fmt.Errorf("unknown log format %q", c.Log.Format)
	}
	return nil
}

// IsProduction reports whether error details must be hidden from clients.
func (c *Config) IsProduction() bool {
	return c.Env == EnvProduction
}
