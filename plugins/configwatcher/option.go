package configwatcher

import "github.com/corehost-labs/hostbridge/pkg/bridge"

// WithRoutingFile returns a bridge Option that enables routing hot-reload
// from a TOML file. The file is loaded once at Start and again on every
// change; a file that fails to parse keeps the previous configuration.
//
// Usage:
//
//	b, err := bridge.New(cfg,
//	    bridge.WithInvoker(invoker),
//	    configwatcher.WithRoutingFile(configwatcher.Config{
//	        Path: "/etc/hostbridge/routing.toml",
//	    }),
//	)
func WithRoutingFile(cfg Config) bridge.Option {
	plugin := New(cfg)
	return bridge.WithWatcher(plugin.Start, plugin.Stop)
}

// WithDefaultRoutingFile returns a bridge Option that watches path with
// default settings (debounce 100ms).
func WithDefaultRoutingFile(path string) bridge.Option {
	return WithRoutingFile(DefaultConfig(path))
}
