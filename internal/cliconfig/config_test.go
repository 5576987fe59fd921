package cliconfig

import (
	"testing"
	"time"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.SocketNetwork != "tcp" {
		t.Errorf("expected tcp, got %q", cfg.SocketNetwork)
	}
	if cfg.SocketAddress != DefaultSocketAddress {
		t.Errorf("expected %q, got %q", DefaultSocketAddress, cfg.SocketAddress)
	}
	if cfg.ProbeInterval != 500*time.Millisecond {
		t.Errorf("unexpected probe interval %v", cfg.ProbeInterval)
	}
	if cfg.RetryAttempts != 3 {
		t.Errorf("unexpected retry attempts %d", cfg.RetryAttempts)
	}
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"defaults valid", func(c *Config) {}, false},
		{"unix socket", func(c *Config) { c.SocketNetwork = "unix"; c.SocketAddress = "/tmp/hostbridge.sock" }, false},
		{"bad network", func(c *Config) { c.SocketNetwork = "udp" }, true},
		{"missing address", func(c *Config) { c.SocketAddress = "" }, true},
		{"zero dial timeout", func(c *Config) { c.DialTimeout = 0 }, true},
		{"zero probe interval", func(c *Config) { c.ProbeInterval = 0 }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.wantErr && err == nil {
				t.Error("Validate() expected error but got nil")
			}
			if !tt.wantErr && err != nil {
				t.Errorf("Validate() unexpected error: %v", err)
			}
		})
	}
}

func TestValidateTrimsFallbackSlash(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Fallback = "http://localhost:8080/"
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate failed: %v", err)
	}
	if cfg.Fallback != "http://localhost:8080" {
		t.Errorf("trailing slash not trimmed: %q", cfg.Fallback)
	}
}
