package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// EnvPrefix starts every environment variable override.
const EnvPrefix = "SYMBOLIC_"

// LoadConfig loads configuration from a YAML file at the specified path.
// It applies default values, validates the configuration, and returns any errors.
// The configuration is not modified by environment variables; use LoadConfigWithEnvOverrides
// for that functionality.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read configuration file %q: %w", path, err)
	}

	cfg, err := parseConfig(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse configuration file %q: %w", path, err)
	}

	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// LoadConfigWithEnvOverrides loads configuration from a YAML file and applies
// environment variable overrides. Environment variables follow the naming
// convention SYMBOLIC_SECTION_FIELD (e.g., SYMBOLIC_SERVER_LISTEN_ADDRESS).
// Environment variables always take precedence over file-based configuration.
//
// An empty path skips the file and starts from defaults.
//
// The loading sequence is:
// 1. Load YAML from file
// 2. Apply default values
// 3. Apply environment variable overrides
// 4. Validate final configuration
func LoadConfigWithEnvOverrides(path string) (*Config, error) {
	cfg := DefaultConfig()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read configuration file %q: %w", path, err)
		}
		if cfg, err = parseConfig(data); err != nil {
			return nil, fmt.Errorf("failed to parse configuration file %q: %w", path, err)
		}
	}

	if err := applyEnvOverrides(cfg); err != nil {
		return nil, err
	}

	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed after environment overrides: %w", err)
	}

	return cfg, nil
}

func parseConfig(data []byte) (*Config, error) {
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	ApplyDefaults(cfg)
	return cfg, nil
}

// envOverride binds one environment variable to a field.
type envOverride struct {
	name  string
	apply func(val string) error
}

func stringVar(dst *string) func(string) error {
	return func(val string) error {
		*dst = val
		return nil
	}
}

func intVar(dst *int) func(string) error {
	return func(val string) error {
		i, err := strconv.Atoi(val)
		if err != nil {
			return err
		}
		*dst = i
		return nil
	}
}

func int64Var(dst *int64) func(string) error {
	return func(val string) error {
		i, err := strconv.ParseInt(val, 10, 64)
		if err != nil {
			return err
		}
		*dst = i
		return nil
	}
}

func float64Var(dst *float64) func(string) error {
	return func(val string) error {
		f, err := strconv.ParseFloat(val, 64)
		if err != nil {
			return err
		}
		*dst = f
		return nil
	}
}

func boolVar(dst *bool) func(string) error {
	return func(val string) error {
		b, err := strconv.ParseBool(val)
		if err != nil {
			return err
		}
		*dst = b
		return nil
	}
}

func durationVar(dst *time.Duration) func(string) error {
	return func(val string) error {
		d, err := time.ParseDuration(val)
		if err != nil {
			return err
		}
		*dst = d
		return nil
	}
}

func overrides(cfg *Config) []envOverride {
	return []envOverride{
		// Engine overrides
		{"ENGINE_MAX_REWRITES_PER_NODE", intVar(&cfg.Engine.MaxRewritesPerNode)},
		{"ENGINE_MAX_PASSES", intVar(&cfg.Engine.MaxPasses)},
		{"ENGINE_RULES_PATH", stringVar(&cfg.Engine.RulesPath)},
		{"ENGINE_WATCH_RULES", boolVar(&cfg.Engine.WatchRules)},

		// Server overrides
		{"SERVER_LISTEN_ADDRESS", stringVar(&cfg.Server.ListenAddress)},
		{"SERVER_READ_TIMEOUT", durationVar(&cfg.Server.ReadTimeout)},
		{"SERVER_WRITE_TIMEOUT", durationVar(&cfg.Server.WriteTimeout)},
		{"SERVER_IDLE_TIMEOUT", durationVar(&cfg.Server.IdleTimeout)},
		{"SERVER_SHUTDOWN_TIMEOUT", durationVar(&cfg.Server.ShutdownTimeout)},
		{"SERVER_MAX_EXPRESSION_BYTES", intVar(&cfg.Server.MaxExpressionBytes)},

		// History overrides
		{"HISTORY_ENABLED", boolVar(&cfg.History.Enabled)},
		{"HISTORY_DB_PATH", stringVar(&cfg.History.DBPath)},
		{"HISTORY_RETENTION_DAYS", intVar(&cfg.History.RetentionDays)},
		{"HISTORY_PRUNE_SCHEDULE", stringVar(&cfg.History.PruneSchedule)},
		{"HISTORY_MAX_RECORDS", int64Var(&cfg.History.MaxRecords)},

		// Telemetry overrides
		{"TELEMETRY_LOGGING_LEVEL", stringVar(&cfg.Telemetry.Logging.Level)},
		{"TELEMETRY_LOGGING_FORMAT", stringVar(&cfg.Telemetry.Logging.Format)},
		{"TELEMETRY_LOGGING_ADD_SOURCE", boolVar(&cfg.Telemetry.Logging.AddSource)},
		{"TELEMETRY_METRICS_ENABLED", boolVar(&cfg.Telemetry.Metrics.Enabled)},
		{"TELEMETRY_METRICS_PATH", stringVar(&cfg.Telemetry.Metrics.Path)},
		{"TELEMETRY_METRICS_NAMESPACE", stringVar(&cfg.Telemetry.Metrics.Namespace)},
		{"TELEMETRY_METRICS_SUBSYSTEM", stringVar(&cfg.Telemetry.Metrics.Subsystem)},
		{"TELEMETRY_TRACING_ENABLED", boolVar(&cfg.Telemetry.Tracing.Enabled)},
		{"TELEMETRY_TRACING_ENDPOINT", stringVar(&cfg.Telemetry.Tracing.Endpoint)},
		{"TELEMETRY_TRACING_INSECURE", boolVar(&cfg.Telemetry.Tracing.Insecure)},
		{"TELEMETRY_TRACING_SAMPLER", stringVar(&cfg.Telemetry.Tracing.Sampler)},
		{"TELEMETRY_TRACING_SAMPLE_RATIO", float64Var(&cfg.Telemetry.Tracing.SampleRatio)},
		{"TELEMETRY_TRACING_SERVICE_NAME", stringVar(&cfg.Telemetry.Tracing.ServiceName)},
	}
}

// applyEnvOverrides applies environment variable overrides to the configuration.
// A variable that is set but cannot be parsed is an error.
func applyEnvOverrides(cfg *Config) error {
	var errs []FieldError
	for _, o := range overrides(cfg) {
		val := os.Getenv(EnvPrefix + o.name)
		if val == "" {
			continue
		}
		if err := o.apply(val); err != nil {
			errs = append(errs, FieldError{
				Field:   EnvPrefix + o.name,
				Message: fmt.Sprintf("invalid value %q: %v", val, err),
			})
		}
	}
	if len(errs) > 0 {
		return ValidationError{Errors: errs}
	}
	return nil
}
