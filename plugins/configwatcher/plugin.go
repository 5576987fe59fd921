// Package configwatcher provides routing configuration hot-reload for
// hostbridge. When enabled, it watches a TOML routing file for changes and
// swaps the bridge's routing configuration atomically on every edit.
package configwatcher

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/pelletier/go-toml/v2"

	"github.com/corehost-labs/hostbridge/pkg/bridge"
)

// Plugin watches one routing file and reconfigures the bridge on change.
// A file that fails to parse or validate is skipped: the bridge keeps the
// previous routing configuration.
type Plugin struct {
	mu sync.Mutex

	path          string
	debounceDelay time.Duration

	bridge   *bridge.Bridge
	logger   bridge.Logger
	cancel   context.CancelFunc
	wg       sync.WaitGroup
	debounce *time.Timer
}

// Config holds configuration options for the routing watcher plugin.
type Config struct {
	// Path is the routing TOML file to watch. Required.
	Path string

	// DebounceDelay is the delay to wait after a file change before
	// reloading. Default: 100 milliseconds.
	DebounceDelay time.Duration
}

// DefaultConfig returns a Config with sensible defaults for the given path.
func DefaultConfig(path string) Config {
	return Config{
		Path:          path,
		DebounceDelay: 100 * time.Millisecond,
	}
}

// New creates a routing watcher plugin with the given configuration.
func New(cfg Config) *Plugin {
	if cfg.DebounceDelay <= 0 {
		cfg.DebounceDelay = 100 * time.Millisecond
	}
	return &Plugin{
		path:          cfg.Path,
		debounceDelay: cfg.DebounceDelay,
	}
}

// Start establishes the watch, loads the file once, then begins reacting to
// changes. Called by the bridge during Start. The watch is in place before
// Start returns, so an edit made right after Start is never missed.
func (p *Plugin) Start(ctx context.Context, b *bridge.Bridge) error {
	if p.path == "" {
		return fmt.Errorf("configwatcher: no routing file configured")
	}

	p.mu.Lock()
	p.bridge = b
	p.logger = noopIfNil(p.logger)
	p.mu.Unlock()

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("configwatcher: create watcher: %w", err)
	}
	if err := watcher.Add(filepath.Dir(p.path)); err != nil {
		watcher.Close()
		return fmt.Errorf("configwatcher: watch %s: %w", filepath.Dir(p.path), err)
	}

	// The initial load is best-effort: a missing file means defaults apply
	// until it shows up. Loading after the watch is established closes the
	// window where a write could land unseen.
	if err := p.reload(); err != nil && !os.IsNotExist(err) {
		watcher.Close()
		return err
	}

	watchCtx, cancel := context.WithCancel(ctx)
	p.mu.Lock()
	p.cancel = cancel
	p.mu.Unlock()

	p.wg.Add(1)
	go p.watchLoop(watchCtx, watcher)
	return nil
}

// Stop stops the watcher and waits for the loop to exit.
func (p *Plugin) Stop() {
	p.mu.Lock()
	cancel := p.cancel
	if p.debounce != nil {
		p.debounce.Stop()
	}
	p.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	p.wg.Wait()
}

// SetLogger overrides the plugin's logger. By default it logs nowhere.
func (p *Plugin) SetLogger(logger bridge.Logger) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.logger = logger
}

// watchLoop drains events for the routing file's directory. Watching the
// directory instead of the file survives editors that replace the file on
// save.
func (p *Plugin) watchLoop(ctx context.Context, watcher *fsnotify.Watcher) {
	defer p.wg.Done()
	defer watcher.Close()

	target := filepath.Base(p.path)
	for {
		select {
		case <-ctx.Done():
			return

		case event, ok := <-watcher.Events:
			if !ok {
				return
			}
			if filepath.Base(event.Name) != target {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			p.debounceReload()

		case _, ok := <-watcher.Errors:
			if !ok {
				return
			}
			p.logger.Error("routing watcher: watcher error")
		}
	}
}

func (p *Plugin) debounceReload() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.debounce != nil {
		p.debounce.Stop()
	}
	p.debounce = time.AfterFunc(p.debounceDelay, func() {
		if err := p.reload(); err != nil {
			p.logger.Error("routing watcher: reload failed, keeping previous configuration")
		}
	})
}

// reload reads the routing file, overlays it on the current configuration,
// and swaps it in.
func (p *Plugin) reload() error {
	p.mu.Lock()
	b := p.bridge
	p.mu.Unlock()
	if b == nil {
		return fmt.Errorf("configwatcher: not started")
	}

	cfg, err := Load(p.path, b.Config())
	if err != nil {
		return err
	}
	if err := b.Reconfigure(cfg); err != nil {
		return err
	}
	p.logger.Info("routing watcher: configuration reloaded")
	return nil
}

// fileConfig is the TOML shape of the routing file. Absent fields keep the
// running value, so a partial file is a valid overlay.
type fileConfig struct {
	Include     *[]string `toml:"include"`
	Exclude     *[]string `toml:"exclude"`
	Command     *string   `toml:"command"`
	Origin      *string   `toml:"origin"`
	FallbackURL *string   `toml:"fallback_url"`
	Debug       *bool     `toml:"debug"`
}

// Load reads a routing file and overlays its fields on base. The probe and
// timeout parameters fixed at bridge creation are not part of the file.
func Load(path string, base bridge.Config) (bridge.Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return base, err
	}

	var fc fileConfig
	if err := toml.Unmarshal(data, &fc); err != nil {
		return base, fmt.Errorf("parse %s: %w", path, err)
	}

	if fc.Include != nil {
		base.Include = *fc.Include
	}
	if fc.Exclude != nil {
		base.Exclude = *fc.Exclude
	}
	if fc.Command != nil {
		base.Command = *fc.Command
	}
	if fc.Origin != nil {
		base.Origin = *fc.Origin
	}
	if fc.FallbackURL != nil {
		base.FallbackURL = *fc.FallbackURL
	}
	if fc.Debug != nil {
		base.Debug = *fc.Debug
	}
	return base, nil
}

type noopLogger struct{}

func (noopLogger) Debug(string, ...bridge.Field) {}
func (noopLogger) Info(string, ...bridge.Field)  {}
func (noopLogger) Warn(string, ...bridge.Field)  {}
func (noopLogger) Error(string, ...bridge.Field) {}

func noopIfNil(l bridge.Logger) bridge.Logger {
	if l == nil {
		return noopLogger{}
	}
	return l
}
