package cliconfig

import (
	"os"
	"strings"
)

// ApplyEnvConfig applies configuration from environment variables (HOSTBRIDGE_*).
// It respects flags that have been explicitly set (changed map).
// Returns error if any environment variable has an invalid format.
func ApplyEnvConfig(cfg *Config, changed map[string]bool) error {
	s := newConfigSetter(changed)

	s.setString("socket-network", os.Getenv("HOSTBRIDGE_SOCKET_NETWORK"), &cfg.SocketNetwork)
	s.setString("socket-address", os.Getenv("HOSTBRIDGE_SOCKET_ADDRESS"), &cfg.SocketAddress)
	s.setString("command", os.Getenv("HOSTBRIDGE_COMMAND"), &cfg.Command)
	s.setString("origin", os.Getenv("HOSTBRIDGE_ORIGIN"), &cfg.Origin)
	s.setString("fallback-url", os.Getenv("HOSTBRIDGE_FALLBACK_URL"), &cfg.Fallback)
	s.setString("probe-path", os.Getenv("HOSTBRIDGE_PROBE_PATH"), &cfg.ProbePath)

	s.setStrings("include", splitList(os.Getenv("HOSTBRIDGE_INCLUDE")), &cfg.Include)
	s.setStrings("exclude", splitList(os.Getenv("HOSTBRIDGE_EXCLUDE")), &cfg.Exclude)

	if err := s.setDuration("dial-timeout", os.Getenv("HOSTBRIDGE_DIAL_TIMEOUT"), &cfg.DialTimeout); err != nil {
		return err
	}
	if err := s.setDuration("timeout", os.Getenv("HOSTBRIDGE_CONNECT_TIMEOUT"), &cfg.ConnectTimeout); err != nil {
		return err
	}
	if err := s.setDuration("probe-interval", os.Getenv("HOSTBRIDGE_PROBE_INTERVAL"), &cfg.ProbeInterval); err != nil {
		return err
	}
	if err := s.setDuration("startup-timeout", os.Getenv("HOSTBRIDGE_STARTUP_TIMEOUT"), &cfg.StartupTimeout); err != nil {
		return err
	}

	if err := s.setIntFromString("retry-attempts", os.Getenv("HOSTBRIDGE_RETRY_ATTEMPTS"), &cfg.RetryAttempts); err != nil {
		return err
	}

	s.setBoolFromString("debug", os.Getenv("HOSTBRIDGE_DEBUG"), &cfg.Debug)

	return nil
}

// splitList splits a comma-separated environment value into a clean slice.
func splitList(v string) []string {
	if v == "" {
		return nil
	}
	parts := strings.Split(v, ",")
	out := parts[:0]
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}
