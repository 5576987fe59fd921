package bridge

import (
	"fmt"
	"net/url"
	"time"

	"github.com/corehost-labs/hostbridge/internal/domain"
)

// DefaultCommand is the native invocation name for handling an HTTP request.
const DefaultCommand = "handle_http_request"

// DefaultProbePath is the readiness probe endpoint; success is status 200.
const DefaultProbePath = "/health"

// DefaultExclude holds the exclude prefixes applied when none are configured.
var DefaultExclude = []string{"/static/", "/assets/"}

// Config is the routing configuration. It is merged once at creation; later
// overrides go through [Bridge.Reconfigure], which replaces the whole object
// atomically and never mutates fields in place.
type Config struct {
	// Include is the ordered list of path prefixes routed over the bridge.
	// Paths outside Include still bridge when they match the default
	// heuristic (/api/, /ws/, /health).
	Include []string

	// Exclude is the ordered list of path prefixes that always pass through
	// to the real network. Exclude is checked before Include.
	Exclude []string

	// Command is the native invocation name. Defaults to DefaultCommand.
	Command string

	// Origin is the application origin (scheme://host[:port]). Absolute URLs
	// for other hosts are never bridged.
	Origin string

	// FallbackURL is the real-network base address used to replay bridged
	// calls when the native channel fails. Empty disables fallback.
	FallbackURL string

	// ProbePath is the readiness probe path. Defaults to DefaultProbePath.
	ProbePath string

	// ConnectTimeout bounds one bridged call end to end, redirects included.
	ConnectTimeout time.Duration

	// ProbeInterval is the base delay between readiness probes.
	ProbeInterval time.Duration

	// StartupTimeout bounds one readiness gate run.
	StartupTimeout time.Duration

	// RetryAttempts is the number of gate runs Start performs before giving
	// up and reporting a bridge error.
	RetryAttempts int

	// Debug enables verbose logging of routing decisions.
	Debug bool
}

// SetDefaults fills zero-valued fields with defaults.
func (c *Config) SetDefaults() {
	if c.Command == "" {
		c.Command = DefaultCommand
	}
	if c.ProbePath == "" {
		c.ProbePath = DefaultProbePath
	}
	if c.Exclude == nil {
		c.Exclude = append([]string(nil), DefaultExclude...)
	}
	if c.ConnectTimeout <= 0 {
		c.ConnectTimeout = 30 * time.Second
	}
	if c.ProbeInterval <= 0 {
		c.ProbeInterval = 500 * time.Millisecond
	}
	if c.StartupTimeout <= 0 {
		c.StartupTimeout = 15 * time.Second
	}
	if c.RetryAttempts <= 0 {
		c.RetryAttempts = 3
	}
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	if c.Origin != "" {
		u, err := url.Parse(c.Origin)
		if err != nil || u.Scheme == "" || u.Host == "" {
			return fmt.Errorf("%w: origin %q must be scheme://host", domain.ErrInvalidConfig, c.Origin)
		}
	}
	if c.FallbackURL != "" {
		u, err := url.Parse(c.FallbackURL)
		if err != nil || u.Scheme == "" || u.Host == "" {
			return fmt.Errorf("%w: fallback url %q must be absolute", domain.ErrInvalidConfig, c.FallbackURL)
		}
	}
	if c.ProbePath != "" && c.ProbePath[0] != '/' {
		return fmt.Errorf("%w: probe path %q must be relative to the origin", domain.ErrInvalidConfig, c.ProbePath)
	}
	return nil
}

// clone returns a deep copy so a snapshot can never alias caller slices.
func (c Config) clone() Config {
	out := c
	out.Include = append([]string(nil), c.Include...)
	out.Exclude = append([]string(nil), c.Exclude...)
	return out
}
