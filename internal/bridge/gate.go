package bridge

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/corehost-labs/hostbridge/internal/domain"
	"github.com/corehost-labs/hostbridge/internal/ports"
)

// Gate polls the probe path through the native channel until the backend
// signals ready. A readiness timeout is reported as domain.ErrNotReady,
// distinct from a transport failure, so callers can retry with backoff
// instead of treating it as fatal.
type Gate struct {
	invoker   ports.CommandInvoker
	command   string
	probePath string
	interval  time.Duration
	timeout   time.Duration
	logger    ports.Logger

	mu       sync.Mutex
	attempts int
}

// GateConfig configures a readiness gate.
type GateConfig struct {
	Invoker   ports.CommandInvoker
	Command   string
	ProbePath string

	// Interval is the base delay between failed probes; the gate backs off
	// exponentially from it with jitter.
	Interval time.Duration

	// Timeout bounds one Wait call end to end.
	Timeout time.Duration
}

// NewGate creates a readiness gate.
func NewGate(cfg GateConfig, logger ports.Logger) *Gate {
	return &Gate{
		invoker:   cfg.Invoker,
		command:   cfg.Command,
		probePath: cfg.ProbePath,
		interval:  cfg.Interval,
		timeout:   cfg.Timeout,
		logger:    logger,
	}
}

// Wait blocks until a probe succeeds, the gate times out, or ctx is done.
// The attempt counter accumulates across Wait calls and is cleared only by
// Reset, never by ordinary completion.
func (g *Gate) Wait(ctx context.Context) error {
	deadline := time.Now().Add(g.timeout)
	bo := newBackoff(g.interval, 8*g.interval)

	for {
		err := g.probe(ctx)
		if err == nil {
			g.logger.Info("backend ready", ports.Int("attempts", g.Attempts()))
			return nil
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}

		g.bumpAttempts()
		g.logger.Debug("probe failed",
			ports.String("path", g.probePath),
			ports.Int("attempts", g.Attempts()),
			ports.Err(err),
		)

		if time.Now().After(deadline) {
			return domain.ErrNotReady
		}
		if err := bo.Sleep(ctx); err != nil {
			return err
		}
	}
}

// probe issues one GET against the probe path. Success is exactly status 200.
// Each probe is bounded by the interval so a hung channel cannot consume the
// whole startup timeout.
func (g *Gate) probe(ctx context.Context) error {
	probeCtx := ctx
	if g.interval > 0 {
		var cancel context.CancelFunc
		probeCtx, cancel = context.WithTimeout(ctx, g.interval)
		defer cancel()
	}

	req := domain.Request{
		URI:     g.probePath,
		Method:  http.MethodGet,
		Headers: domain.Header{},
	}
	resp, err := g.invoker.Invoke(probeCtx, g.command, req)
	if err != nil {
		return err
	}
	if resp.StatusCode != http.StatusOK {
		return domain.ErrNotReady
	}
	return nil
}

// Attempts returns the number of failed probes since the last Reset.
func (g *Gate) Attempts() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.attempts
}

// Reset clears the attempt counter.
func (g *Gate) Reset() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.attempts = 0
}

func (g *Gate) bumpAttempts() {
	g.mu.Lock()
	g.attempts++
	g.mu.Unlock()
}
