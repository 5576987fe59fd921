package cliconfig

import (
	"os"
	"path/filepath"

	toml "github.com/pelletier/go-toml/v2"
)

// FileConfig mirrors Config but uses strings for durations to make TOML friendly.
type FileConfig struct {
	SocketNetwork string `toml:"socket_network"`
	SocketAddress string `toml:"socket_address"`
	DialTimeout   string `toml:"dial_timeout"`

	Command   string `toml:"command"`
	Origin    string `toml:"origin"`
	Fallback  string `toml:"fallback_url"`
	ProbePath string `toml:"probe_path"`

	Include []string `toml:"include"`
	Exclude []string `toml:"exclude"`

	ConnectTimeout string `toml:"connect_timeout"`
	ProbeInterval  string `toml:"probe_interval"`
	StartupTimeout string `toml:"startup_timeout"`
	RetryAttempts  int    `toml:"retry_attempts"`

	Debug *bool `toml:"debug"`
}

// LoadFileConfig reads and parses a TOML config file from the given path.
func LoadFileConfig(path string) (FileConfig, error) {
	var fc FileConfig
	b, err := os.ReadFile(path)
	if err != nil {
		return fc, err
	}
	if err := toml.Unmarshal(b, &fc); err != nil {
		return fc, err
	}
	return fc, nil
}

// DefaultConfigPath returns the default configuration file path.
// Returns ~/.hostbridge/config.toml if user home directory is accessible.
func DefaultConfigPath() string {
	if h, err := os.UserHomeDir(); err == nil {
		return filepath.Join(h, ".hostbridge", "config.toml")
	}
	return ""
}

// ApplyFileConfig applies configuration from a file to the Config struct.
// It respects flags that have been explicitly set (changed map).
func ApplyFileConfig(cfg *Config, fc FileConfig, changed map[string]bool) error {
	s := newConfigSetter(changed)

	s.setString("socket-network", fc.SocketNetwork, &cfg.SocketNetwork)
	s.setString("socket-address", fc.SocketAddress, &cfg.SocketAddress)
	s.setString("command", fc.Command, &cfg.Command)
	s.setString("origin", fc.Origin, &cfg.Origin)
	s.setString("fallback-url", fc.Fallback, &cfg.Fallback)
	s.setString("probe-path", fc.ProbePath, &cfg.ProbePath)

	s.setStrings("include", fc.Include, &cfg.Include)
	s.setStrings("exclude", fc.Exclude, &cfg.Exclude)

	if err := s.setDuration("dial-timeout", fc.DialTimeout, &cfg.DialTimeout); err != nil {
		return err
	}
	if err := s.setDuration("timeout", fc.ConnectTimeout, &cfg.ConnectTimeout); err != nil {
		return err
	}
	if err := s.setDuration("probe-interval", fc.ProbeInterval, &cfg.ProbeInterval); err != nil {
		return err
	}
	if err := s.setDuration("startup-timeout", fc.StartupTimeout, &cfg.StartupTimeout); err != nil {
		return err
	}

	s.setInt("retry-attempts", fc.RetryAttempts, &cfg.RetryAttempts)
	s.setBool("debug", fc.Debug, &cfg.Debug)

	return nil
}

// FileExists checks if a file exists at the given path.
func FileExists(p string) bool {
	_, err := os.Stat(p)
	return err == nil
}
