package cliconfig

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeConfigFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadFileConfig(t *testing.T) {
	path := writeConfigFile(t, `
socket_network = "unix"
socket_address = "/tmp/hostbridge.sock"
command = "custom_http"
origin = "http://localhost:1420"
fallback_url = "http://localhost:8080"
include = ["/api/", "/ws/"]
exclude = ["/static/"]
connect_timeout = "45s"
probe_interval = "250ms"
retry_attempts = 5
debug = true
`)

	fc, err := LoadFileConfig(path)
	if err != nil {
		t.Fatalf("LoadFileConfig failed: %v", err)
	}

	if fc.SocketNetwork != "unix" || fc.SocketAddress != "/tmp/hostbridge.sock" {
		t.Errorf("socket fields wrong: %q %q", fc.SocketNetwork, fc.SocketAddress)
	}
	if len(fc.Include) != 2 || fc.Include[1] != "/ws/" {
		t.Errorf("include wrong: %v", fc.Include)
	}
	if fc.RetryAttempts != 5 {
		t.Errorf("retry attempts wrong: %d", fc.RetryAttempts)
	}
	if fc.Debug == nil || !*fc.Debug {
		t.Error("debug not parsed")
	}
}

func TestLoadFileConfigErrors(t *testing.T) {
	if _, err := LoadFileConfig(filepath.Join(t.TempDir(), "missing.toml")); err == nil {
		t.Error("expected error for missing file")
	}
	path := writeConfigFile(t, `socket_address = [broken`)
	if _, err := LoadFileConfig(path); err == nil {
		t.Error("expected error for invalid TOML")
	}
}

func TestApplyFileConfig(t *testing.T) {
	debugTrue := true
	fc := FileConfig{
		SocketAddress:  "127.0.0.1:9999",
		Command:        "custom_http",
		Include:        []string{"/api/"},
		ConnectTimeout: "45s",
		RetryAttempts:  5,
		Debug:          &debugTrue,
	}

	cfg := DefaultConfig()
	if err := ApplyFileConfig(&cfg, fc, map[string]bool{}); err != nil {
		t.Fatalf("ApplyFileConfig failed: %v", err)
	}

	if cfg.SocketAddress != "127.0.0.1:9999" {
		t.Errorf("socket address not applied: %q", cfg.SocketAddress)
	}
	if cfg.ConnectTimeout != 45*time.Second {
		t.Errorf("duration not parsed: %v", cfg.ConnectTimeout)
	}
	if !cfg.Debug {
		t.Error("debug not applied")
	}
	// Absent fields keep their defaults.
	if cfg.SocketNetwork != "tcp" {
		t.Errorf("absent field changed: %q", cfg.SocketNetwork)
	}
}

func TestApplyFileConfigRespectsChangedFlags(t *testing.T) {
	fc := FileConfig{
		SocketAddress: "127.0.0.1:9999",
		RetryAttempts: 5,
	}

	cfg := DefaultConfig()
	cfg.SocketAddress = "10.0.0.1:1234"
	cfg.RetryAttempts = 9
	changed := map[string]bool{"socket-address": true, "retry-attempts": true}

	if err := ApplyFileConfig(&cfg, fc, changed); err != nil {
		t.Fatalf("ApplyFileConfig failed: %v", err)
	}

	if cfg.SocketAddress != "10.0.0.1:1234" {
		t.Errorf("flag value overwritten by file: %q", cfg.SocketAddress)
	}
	if cfg.RetryAttempts != 9 {
		t.Errorf("flag value overwritten by file: %d", cfg.RetryAttempts)
	}
}

func TestApplyFileConfigBadDuration(t *testing.T) {
	fc := FileConfig{ConnectTimeout: "not-a-duration"}
	cfg := DefaultConfig()
	if err := ApplyFileConfig(&cfg, fc, map[string]bool{}); err == nil {
		t.Error("expected error for invalid duration")
	}
}
