package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write config fixture: %v", err)
	}
	return path
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	if cfg.Engine.MaxCandidates != 9 {
		t.Errorf("MaxCandidates: expected 9, got %d", cfg.Engine.MaxCandidates)
	}
	if cfg.Engine.Debounce() != 30*time.Millisecond {
		t.Errorf("Debounce: expected 30ms, got %v", cfg.Engine.Debounce())
	}
	if cfg.Dict.UserFile != "sinhalawordmap.json" {
		t.Errorf("UserFile: expected 'sinhalawordmap.json', got '%s'", cfg.Dict.UserFile)
	}
	if !cfg.Dict.WatchUser {
		t.Error("WatchUser: expected true by default")
	}
	if cfg.CLI.DefaultLimit != 9 {
		t.Errorf("DefaultLimit: expected 9, got %d", cfg.CLI.DefaultLimit)
	}
}

func TestInitConfigCreatesDefaultFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")

	cfg, err := InitConfig(path)
	if err != nil {
		t.Fatalf("InitConfig failed: %v", err)
	}
	if cfg.Engine.MaxCandidates != 9 {
		t.Errorf("Expected defaults, got MaxCandidates %d", cfg.Engine.MaxCandidates)
	}
	if _, err := os.Stat(path); err != nil {
		t.Errorf("Expected config file to be created: %v", err)
	}

	// A second init reads the file it just wrote.
	again, err := InitConfig(path)
	if err != nil {
		t.Fatalf("Reload failed: %v", err)
	}
	if *again != *cfg {
		t.Errorf("Reloaded config differs: %+v vs %+v", again, cfg)
	}
}

func TestLoadConfigOverrides(t *testing.T) {
	path := writeConfig(t, `
[engine]
max_candidates = 5
debounce_ms = 100

[dict]
data_dir = "lexicon"
watch_user = false

[cli]
default_limit = 3
plain = true
`)

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if cfg.Engine.MaxCandidates != 5 || cfg.Engine.DebounceMs != 100 {
		t.Errorf("Engine overrides not applied: %+v", cfg.Engine)
	}
	if cfg.Engine.RecoveryWindow != 10 {
		t.Errorf("Missing key should keep default 10, got %d", cfg.Engine.RecoveryWindow)
	}
	if cfg.Dict.DataDir != "lexicon" || cfg.Dict.WatchUser {
		t.Errorf("Dict overrides not applied: %+v", cfg.Dict)
	}
	if cfg.Dict.UserFile != "sinhalawordmap.json" {
		t.Errorf("Missing key should keep default user file, got '%s'", cfg.Dict.UserFile)
	}
	if cfg.CLI.DefaultLimit != 3 || !cfg.CLI.Plain {
		t.Errorf("CLI overrides not applied: %+v", cfg.CLI)
	}
}

func TestPartialParseSalvagesValidKeys(t *testing.T) {
	// max_candidates has the wrong type; the strict decode fails but
	// recovery keeps the default for it and still applies the rest.
	path := writeConfig(t, `
[engine]
max_candidates = "nine"
debounce_ms = 50

[cli]
default_limit = 4
`)

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if cfg.Engine.MaxCandidates != 9 {
		t.Errorf("Mistyped key should keep default 9, got %d", cfg.Engine.MaxCandidates)
	}
	if cfg.Engine.DebounceMs != 50 {
		t.Errorf("Valid key should survive recovery, got %d", cfg.Engine.DebounceMs)
	}
	if cfg.CLI.DefaultLimit != 4 {
		t.Errorf("Valid section should survive recovery, got %d", cfg.CLI.DefaultLimit)
	}
}

func TestUnparseableConfigFallsBackToDefaults(t *testing.T) {
	path := writeConfig(t, "[engine\nmax_candidates = ")

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig should not error on garbage input: %v", err)
	}
	if *cfg != *DefaultConfig() {
		t.Errorf("Expected pure defaults, got %+v", cfg)
	}
}
