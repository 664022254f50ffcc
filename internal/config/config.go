// Package config loads runtime settings for the interior CLI and server.
package config

import (
	"errors"
	"fmt"
	"net"
	"runtime"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/spf13/pflag"

	"github.com/signalsfoundry/planetary-interior/core"
	"github.com/signalsfoundry/planetary-interior/internal/observability"
)

// EnvPrefix is stripped from environment variables before they are mapped
// onto config keys. A double underscore selects a nested key, so
// INTERIOR_TRACING__ENABLED sets tracing.enabled.
const EnvPrefix = "INTERIOR_"

// Default configuration values.
const (
	DefaultGRPCAddr    = ":50061"
	DefaultMetricsAddr = ":9464"
	DefaultLogLevel    = "info"
	DefaultLogFormat   = "text"
	DefaultOutput      = "table"
)

// Config is the merged configuration.
type Config struct {
	GRPCAddr    string                      `koanf:"grpc_addr"`
	MetricsAddr string                      `koanf:"metrics_addr"` // empty disables /metrics
	LogLevel    string                      `koanf:"log_level"`
	LogFormat   string                      `koanf:"log_format"`
	Output      string                      `koanf:"output"`
	CachePath   string                      `koanf:"cache_path"` // empty disables the sqlite cache
	PlanetFiles []string                    `koanf:"planet_files"`
	Step        float64                     `koanf:"step_m"`
	Workers     int                         `koanf:"workers"`
	Tracing     observability.TracingConfig `koanf:"tracing"`
}

func defaults() map[string]interface{} {
	tr := observability.DefaultTracingConfig()
	return map[string]interface{}{
		"grpc_addr":            DefaultGRPCAddr,
		"metrics_addr":         DefaultMetricsAddr,
		"log_level":            DefaultLogLevel,
		"log_format":           DefaultLogFormat,
		"output":               DefaultOutput,
		"cache_path":           "",
		"planet_files":         []string{},
		"step_m":               core.DefaultStep,
		"workers":              runtime.GOMAXPROCS(0),
		"tracing.enabled":      tr.Enabled,
		"tracing.service_name": tr.ServiceName,
		"tracing.exporter":     tr.Exporter,
		"tracing.endpoint":     tr.Endpoint,
		"tracing.sample_ratio": tr.SampleRatio,
	}
}

// Load merges, in increasing precedence: defaults, the YAML file at path
// (skipped when empty), INTERIOR_ environment variables, and flags that were
// explicitly set on flags (nil is allowed). Flag names are kebab-case
// versions of the config keys; --planet maps to planet_files and --step to
// step_m.
func Load(path string, flags *pflag.FlagSet) (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(confmap.Provider(defaults(), "."), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("error reading config file %s: %w", path, err)
		}
	}

	if err := k.Load(env.Provider(EnvPrefix, ".", envKey), nil); err != nil {
		return nil, fmt.Errorf("failed to load env vars: %w", err)
	}

	if flags != nil {
		if err := k.Load(posflag.ProviderWithFlag(flags, ".", k, func(f *pflag.Flag) (string, interface{}) {
			if !f.Changed {
				return "", nil
			}
			return flagKey(f.Name), posflag.FlagVal(flags, f)
		}), nil); err != nil {
			return nil, fmt.Errorf("failed to load flags: %w", err)
		}
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}
	return &cfg, nil
}

func envKey(s string) string {
	s = strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	return strings.ReplaceAll(s, "__", ".")
}

func flagKey(name string) string {
	switch name {
	case "planet":
		return "planet_files"
	case "step":
		return "step_m"
	}
	return strings.ReplaceAll(name, "-", "_")
}

// Validate checks the merged configuration.
func (c *Config) Validate() error {
	var errs []error
	if _, _, err := net.SplitHostPort(c.GRPCAddr); err != nil {
		errs = append(errs, fmt.Errorf("grpc_addr %q: %w", c.GRPCAddr, err))
	}
	if c.MetricsAddr != "" {
		if _, _, err := net.SplitHostPort(c.MetricsAddr); err != nil {
			errs = append(errs, fmt.Errorf("metrics_addr %q: %w", c.MetricsAddr, err))
		}
	}
	switch strings.ToLower(c.LogLevel) {
	case "debug", "info", "warn", "warning", "error":
	default:
		errs = append(errs, fmt.Errorf("log_level %q: want debug, info, warn or error", c.LogLevel))
	}
	switch strings.ToLower(c.LogFormat) {
	case "text", "json":
	default:
		errs = append(errs, fmt.Errorf("log_format %q: want text or json", c.LogFormat))
	}
	switch c.Output {
	case "table", "json":
	default:
		errs = append(errs, fmt.Errorf("output %q: want table or json", c.Output))
	}
	if !(c.Step > 0) {
		errs = append(errs, fmt.Errorf("step_m must be positive, got %g", c.Step))
	}
	if c.Workers <= 0 {
		errs = append(errs, fmt.Errorf("workers must be positive, got %d", c.Workers))
	}
	if err := c.Tracing.Validate(); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}
