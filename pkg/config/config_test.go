package config

import (
	"testing"

	"gopkg.in/yaml.v3"
)

func TestConfig_YAMLRoundTrip(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Engine.RulesPath = "./rules"
	cfg.History.Enabled = false

	data, err := yaml.Marshal(cfg)
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}

	got, err := parseConfig(data)
	if err != nil {
		t.Fatalf("parseConfig() error = %v", err)
	}

	if got.Engine.RulesPath != "./rules" {
		t.Errorf("Engine.RulesPath = %q, want ./rules", got.Engine.RulesPath)
	}
	if got.History.Enabled {
		t.Error("History.Enabled = true, want false")
	}
	if got.Server.ReadTimeout != cfg.Server.ReadTimeout {
		t.Errorf("Server.ReadTimeout = %v, want %v", got.Server.ReadTimeout, cfg.Server.ReadTimeout)
	}
}

func TestParseConfig_KeepsTrueDefaultsForMissingKeys(t *testing.T) {
	cfg, err := parseConfig([]byte("engine:\n  max_passes: 5\n"))
	if err != nil {
		t.Fatal(err)
	}

	if !cfg.History.Enabled {
		t.Error("History.Enabled = false, want default true")
	}
	if !cfg.Telemetry.Metrics.Enabled {
		t.Error("Telemetry.Metrics.Enabled = false, want default true")
	}
	if cfg.Engine.MaxPasses != 5 {
		t.Errorf("Engine.MaxPasses = %d, want 5", cfg.Engine.MaxPasses)
	}
}
