// Package config provides configuration management for the symbolic service.
//
// Configuration is loaded from a YAML file, completed with defaults,
// overridden from the environment and validated:
//
//	cfg, err := config.LoadConfigWithEnvOverrides("symbolic.yaml")
//
// # Environment Variable Overrides
//
// Environment variables follow the naming convention SYMBOLIC_SECTION_FIELD.
// For example:
//
//   - SYMBOLIC_SERVER_LISTEN_ADDRESS overrides server.listen_address
//   - SYMBOLIC_ENGINE_RULES_PATH overrides engine.rules_path
//   - SYMBOLIC_TELEMETRY_LOGGING_LEVEL overrides telemetry.logging.level
//
// A variable that is set but cannot be parsed fails loading.
//
// # Configuration Precedence
//
//  1. Default values (defined in defaults.go)
//  2. Values from YAML file
//  3. Environment variable overrides
//  4. Validation (fails fast if invalid)
//
// # Singleton Pattern
//
//	if err := config.Initialize("symbolic.yaml"); err != nil {
//	    log.Fatal(err)
//	}
//	cfg := config.GetConfig()
//
// # Example Configuration
//
//	engine:
//	  rules_path: "./rules"
//	  watch_rules: true
//
//	server:
//	  listen_address: "127.0.0.1:8080"
//
//	history:
//	  db_path: "data/history.db"
//	  retention_days: 30
//
//	telemetry:
//	  logging:
//	    level: "info"
//	    format: "json"
//	  tracing:
//	    enabled: true
//	    endpoint: "otel-collector:4317"
//	    sampler: "ratio"
//	    sample_ratio: 0.1
package config
