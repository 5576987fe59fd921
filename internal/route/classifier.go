// Package route decides, per call, whether a request is served over the
// native command channel or passed through to the real network.
package route

import (
	"net/url"
	"strings"

	"github.com/corehost-labs/hostbridge/internal/ports"
)

// internalSchemes are URI schemes that never leave the host shell. They are
// excluded regardless of the configured rules.
var internalSchemes = map[string]bool{
	"data":       true,
	"blob":       true,
	"about":      true,
	"javascript": true,
	"ipc":        true,
	"tauri":      true,
	"wails":      true,
}

// defaultIncludePrefixes is the heuristic applied when neither list matches.
var defaultIncludePrefixes = []string{"/api/", "/ws/"}

// defaultIncludeExact are paths bridged by the heuristic without a prefix match.
var defaultIncludeExact = []string{"/health", "/api", "/ws"}

// Rules is an immutable snapshot of the routing rules. A reconfiguration
// produces a new snapshot; a snapshot is never mutated in place.
type Rules struct {
	// Include is the ordered list of path prefixes routed over the bridge.
	Include []string

	// Exclude is the ordered list of path prefixes that always pass through.
	// Exclude is checked before Include.
	Exclude []string

	// Origin is the application origin (scheme://host[:port]). Absolute URLs
	// pointing at a different host are never bridged.
	Origin string
}

// Classifier makes per-call bridge decisions from a rules snapshot.
type Classifier struct {
	rules  Rules
	origin *url.URL
	logger ports.Logger
}

// New creates a classifier for the given rules snapshot. A malformed origin
// is treated as unset: only relative URLs can then be bridged.
func New(rules Rules, logger ports.Logger) *Classifier {
	c := &Classifier{rules: rules, logger: logger}
	if rules.Origin != "" {
		if u, err := url.Parse(rules.Origin); err == nil && u.Host != "" {
			c.origin = u
		} else {
			logger.Warn("ignoring malformed origin", ports.String("origin", rules.Origin))
		}
	}
	return c
}

// Decide reports whether the request for rawURL is routed over the bridge.
// Malformed URLs are never bridged; this method never panics on input.
func (c *Classifier) Decide(rawURL string) bool {
	path, ok := c.normalize(rawURL)
	if !ok {
		return false
	}

	for _, prefix := range c.rules.Exclude {
		if prefix != "" && strings.HasPrefix(path, prefix) {
			return false
		}
	}
	for _, prefix := range c.rules.Include {
		if prefix != "" && (path == prefix || strings.HasPrefix(path, prefix)) {
			return true
		}
	}

	for _, prefix := range defaultIncludePrefixes {
		if strings.HasPrefix(path, prefix) {
			return true
		}
	}
	for _, exact := range defaultIncludeExact {
		if path == exact {
			return true
		}
	}
	return false
}

// normalize reduces rawURL to an origin-relative path. The second return is
// false when the URL is malformed, uses an internal scheme, or targets a
// foreign host.
func (c *Classifier) normalize(rawURL string) (string, bool) {
	if rawURL == "" {
		return "", false
	}

	u, err := url.Parse(rawURL)
	if err != nil {
		c.logger.Debug("unroutable url", ports.String("url", rawURL), ports.Err(err))
		return "", false
	}

	if u.Scheme != "" {
		if internalSchemes[strings.ToLower(u.Scheme)] {
			return "", false
		}
		if u.Scheme != "http" && u.Scheme != "https" {
			return "", false
		}
		// Absolute http(s): bridge only same-origin traffic.
		if c.origin == nil || !strings.EqualFold(u.Host, c.origin.Host) {
			return "", false
		}
	} else if u.Host != "" {
		// Protocol-relative (//host/path): same-origin check applies.
		if c.origin == nil || !strings.EqualFold(u.Host, c.origin.Host) {
			return "", false
		}
	}

	path := u.Path
	if path == "" {
		path = "/"
	}
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	return path, true
}
