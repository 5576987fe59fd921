package configwatcher

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/corehost-labs/hostbridge/pkg/bridge"
)

func newTestBridge(t *testing.T) *bridge.Bridge {
	t.Helper()
	b, err := bridge.New(bridge.Config{}, bridge.WithHandler(
		func(ctx context.Context, req bridge.Request) (bridge.Response, error) {
			return bridge.Response{StatusCode: 200}, nil
		},
	))
	if err != nil {
		t.Fatalf("bridge.New failed: %v", err)
	}
	return b
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

func TestLoadOverlay(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "routing.toml")
	writeFile(t, path, `
include = ["/api/", "/internal/"]
origin = "http://localhost:1420"
debug = true
`)

	base := bridge.Config{
		Exclude: []string{"/static/"},
		Command: "custom_http",
	}
	cfg, err := Load(path, base)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if len(cfg.Include) != 2 || cfg.Include[0] != "/api/" {
		t.Errorf("include not overlaid: %v", cfg.Include)
	}
	if cfg.Origin != "http://localhost:1420" {
		t.Errorf("origin not overlaid: %q", cfg.Origin)
	}
	if !cfg.Debug {
		t.Error("debug not overlaid")
	}
	// Absent fields keep the running values.
	if len(cfg.Exclude) != 1 || cfg.Exclude[0] != "/static/" {
		t.Errorf("absent exclude must keep base value: %v", cfg.Exclude)
	}
	if cfg.Command != "custom_http" {
		t.Errorf("absent command must keep base value: %q", cfg.Command)
	}
}

func TestLoadParseError(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "routing.toml")
	writeFile(t, path, `include = [unclosed`)

	base := bridge.Config{Command: "custom_http"}
	cfg, err := Load(path, base)
	if err == nil {
		t.Fatal("expected parse error")
	}
	if cfg.Command != "custom_http" {
		t.Errorf("base must come back unchanged on error: %q", cfg.Command)
	}
}

func TestPluginReloadOnChange(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "routing.toml")
	writeFile(t, path, `include = ["/api/"]`)

	b := newTestBridge(t)
	p := New(Config{Path: path, DebounceDelay: 20 * time.Millisecond})
	if err := p.Start(context.Background(), b); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	defer p.Stop()

	if got := b.Config().Include; len(got) != 1 || got[0] != "/api/" {
		t.Fatalf("initial load missing: %v", got)
	}

	writeFile(t, path, `include = ["/api/", "/v2/"]`)

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if got := b.Config().Include; len(got) == 2 && got[1] == "/v2/" {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatalf("change never applied: %v", b.Config().Include)
}

func TestPluginKeepsPreviousOnBadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "routing.toml")
	writeFile(t, path, `include = ["/api/"]`)

	b := newTestBridge(t)
	p := New(Config{Path: path, DebounceDelay: 20 * time.Millisecond})
	if err := p.Start(context.Background(), b); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	defer p.Stop()

	writeFile(t, path, `include = [broken`)

	// Give the debounce plus reload a moment; the running config must stay.
	time.Sleep(300 * time.Millisecond)
	if got := b.Config().Include; len(got) != 1 || got[0] != "/api/" {
		t.Errorf("bad file must not disturb routing: %v", got)
	}
}

func TestPluginStartRequiresPath(t *testing.T) {
	b := newTestBridge(t)
	p := New(Config{})
	if err := p.Start(context.Background(), b); err == nil {
		t.Fatal("expected error for missing path")
	}
}

func TestPluginMissingFileIsNotFatal(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "routing.toml")

	b := newTestBridge(t)
	p := New(Config{Path: path, DebounceDelay: 20 * time.Millisecond})
	if err := p.Start(context.Background(), b); err != nil {
		t.Fatalf("missing file must not fail Start: %v", err)
	}
	defer p.Stop()

	writeFile(t, path, `include = ["/late/"]`)

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if got := b.Config().Include; len(got) == 1 && got[0] == "/late/" {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatalf("late file never picked up: %v", b.Config().Include)
}
