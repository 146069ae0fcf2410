package config

import (
	"os"
	"path/filepath"
	"testing"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadAppliesDefaults(t *testing.T) {
	path := writeConfig(t, `
[topics]
list = ["trade:XBTUSD"]

[sqlite]
enabled = true
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.App.Network != "mainnet" {
		t.Errorf("network default = %s, want mainnet", cfg.App.Network)
	}
	if cfg.App.ConnectTimeoutSec != 10 {
		t.Errorf("connect_timeout_sec default = %d, want 10", cfg.App.ConnectTimeoutSec)
	}
	if cfg.SQLite.Path != "data/frames.db" {
		t.Errorf("sqlite path default = %s", cfg.SQLite.Path)
	}
}

func TestLoadPreservesTopicOrderAndDuplicates(t *testing.T) {
	path := writeConfig(t, `
[topics]
list = ["trade:XBTUSD", " quote:XBTUSD ", "trade:XBTUSD", ""]
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	want := []string{"trade:XBTUSD", "quote:XBTUSD", "trade:XBTUSD"}
	if len(cfg.Topics.List) != len(want) {
		t.Fatalf("topics = %v, want %v", cfg.Topics.List, want)
	}
	for i := range want {
		if cfg.Topics.List[i] != want[i] {
			t.Errorf("topic %d = %s, want %s", i, cfg.Topics.List[i], want[i])
		}
	}
}

func TestLoadRejectsEmptyTopics(t *testing.T) {
	path := writeConfig(t, `
[topics]
list = []
`)
	if _, err := Load(path); err == nil {
		t.Fatal("expected error for empty topic list")
	}
}

func TestLoadRejectsBadNetwork(t *testing.T) {
	path := writeConfig(t, `
[app]
network = "staging"

[topics]
list = ["trade:XBTUSD"]
`)
	if _, err := Load(path); err == nil {
		t.Fatal("expected error for unknown network")
	}
}

func TestLoadRejectsHalfCredentials(t *testing.T) {
	path := writeConfig(t, `
[topics]
list = ["trade:XBTUSD"]

[auth]
api_key = "key-without-secret"
`)
	if _, err := Load(path); err == nil {
		t.Fatal("expected error for api_key without secret")
	}
}

func TestLoadRejectsEnabledStoreWithoutTarget(t *testing.T) {
	path := writeConfig(t, `
[topics]
list = ["trade:XBTUSD"]

[postgres]
enabled = true
`)
	if _, err := Load(path); err == nil {
		t.Fatal("expected error for enabled postgres without dsn")
	}
}
