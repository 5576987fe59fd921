package cliconfig

import (
	"fmt"
	"strconv"
	"time"
)

// DefaultSocketAddress is the default native channel endpoint.
const DefaultSocketAddress = "127.0.0.1:14200"

// Config holds CLI configuration for hostbridge.
type Config struct {
	SocketNetwork string
	SocketAddress string
	DialTimeout   time.Duration

	Command   string
	Origin    string
	Fallback  string
	ProbePath string

	Include []string
	Exclude []string

	ConnectTimeout time.Duration
	ProbeInterval  time.Duration
	StartupTimeout time.Duration
	RetryAttempts  int

	Debug bool
}

// DefaultConfig returns a Config with default values.
func DefaultConfig() Config {
	return Config{
		SocketNetwork:  "tcp",
		SocketAddress:  DefaultSocketAddress,
		DialTimeout:    5 * time.Second,
		ConnectTimeout: 30 * time.Second,
		ProbeInterval:  500 * time.Millisecond,
		StartupTimeout: 15 * time.Second,
		RetryAttempts:  3,
	}
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	switch c.SocketNetwork {
	case "tcp", "unix":
	default:
		return fmt.Errorf("socket network must be tcp or unix, got %q", c.SocketNetwork)
	}
	if c.SocketAddress == "" {
		return fmt.Errorf("socket address is required")
	}
	if c.DialTimeout <= 0 {
		return fmt.Errorf("dial timeout must be positive")
	}
	if c.ProbeInterval <= 0 {
		return fmt.Errorf("probe interval must be positive")
	}

	// Ensure no trailing slash
	if n := len(c.Fallback); n > 0 && c.Fallback[n-1] == '/' {
		c.Fallback = c.Fallback[:n-1]
	}

	return nil
}

// configSetter helps apply configuration values while respecting flag precedence.
// It only applies values if the corresponding flag hasn't been explicitly set.
type configSetter struct {
	changed map[string]bool
}

// newConfigSetter creates a new setter with the given changed flags map.
func newConfigSetter(changed map[string]bool) *configSetter {
	return &configSetter{changed: changed}
}

// setString sets a string value if not empty and flag not changed.
func (s *configSetter) setString(flag, value string, dst *string) {
	if value == "" || s.changed[flag] {
		return
	}
	*dst = value
}

// setStrings sets a string slice if non-empty and flag not changed.
func (s *configSetter) setStrings(flag string, value []string, dst *[]string) {
	if len(value) == 0 || s.changed[flag] {
		return
	}
	*dst = value
}

// setInt sets an int value if positive and flag not changed.
func (s *configSetter) setInt(flag string, value int, dst *int) {
	if value <= 0 || s.changed[flag] {
		return
	}
	*dst = value
}

// setDuration parses and sets a duration from string if valid and flag not changed.
func (s *configSetter) setDuration(flag, value string, dst *time.Duration) error {
	if value == "" || s.changed[flag] {
		return nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return fmt.Errorf("parse %s: %w", flag, err)
	}
	*dst = d
	return nil
}

// setBool sets a bool value from a pointer if not nil and flag not changed.
func (s *configSetter) setBool(flag string, value *bool, dst *bool) {
	if value == nil || s.changed[flag] {
		return
	}
	*dst = *value
}

// setIntFromString parses a string to int and sets the destination if valid.
// Used for environment variables that come as strings.
func (s *configSetter) setIntFromString(flag, value string, dst *int) error {
	if value == "" || s.changed[flag] {
		return nil
	}
	i, err := strconv.Atoi(value)
	if err != nil {
		return fmt.Errorf("parse %s: %w", flag, err)
	}
	if i <= 0 {
		return nil
	}
	*dst = i
	return nil
}

// setBoolFromString parses a string to bool and sets the destination.
// Accepts "true", "1" as true, anything else as false.
// Used for environment variables that come as strings.
func (s *configSetter) setBoolFromString(flag, value string, dst *bool) {
	if value == "" || s.changed[flag] {
		return
	}
	*dst = value == "true" || value == "1"
}
