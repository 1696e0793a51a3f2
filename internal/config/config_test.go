package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.json"))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Server.Port != 8080 {
		t.Errorf("default port = %d, want 8080", cfg.Server.Port)
	}
	if !cfg.Proactive.Enabled || cfg.Proactive.TriggerIntervalSecs != 60 {
		t.Errorf("proactive defaults = %+v", cfg.Proactive)
	}
}

func TestSaveLoad_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")

	cfg := Default()
	cfg.Server.Port = 9999
	cfg.Proactive.MorningBriefingAt = "06:30"
	if err := cfg.Save(path); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if loaded.Server.Port != 9999 {
		t.Errorf("port = %d, want 9999", loaded.Server.Port)
	}
	if loaded.Proactive.MorningBriefingAt != "06:30" {
		t.Errorf("briefing time = %q, want 06:30", loaded.Proactive.MorningBriefingAt)
	}
}

func TestSave_StripsAPIKey(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")

	cfg := Default()
	cfg.Claude.APIKey = "sk-secret"
	if err := cfg.Save(path); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read config: %v", err)
	}
	if len(data) == 0 {
		t.Fatal("empty config file")
	}
	if strings.Contains(string(data), "sk-secret") {
		t.Error("API key written to disk")
	}
}
