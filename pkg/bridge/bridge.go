package bridge

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	logAdapter "github.com/corehost-labs/hostbridge/internal/adapters/log"
	core "github.com/corehost-labs/hostbridge/internal/bridge"
	"github.com/corehost-labs/hostbridge/internal/codec"
	"github.com/corehost-labs/hostbridge/internal/domain"
	"github.com/corehost-labs/hostbridge/internal/ports"
	"github.com/corehost-labs/hostbridge/internal/route"
)

// Bridge routes HTTP-shaped calls either over the native command channel or
// through to the real network, per the routing configuration. Use New() to
// create an instance, Start() to run the readiness gate, then hand the
// handle to call sites as an [http.RoundTripper] or via Do.
type Bridge struct {
	invoker    ports.CommandInvoker
	httpClient ports.HTTPClient
	logger     ports.Logger
	handler    EventHandler
	watcher    *watcherConfig
	gate       *core.Gate

	snap atomic.Pointer[snapshot]

	mu         sync.Mutex
	state      State
	started    bool
	watcherRun bool
}

// snapshot bundles one routing configuration with the components derived
// from it. Reconfiguration swaps the whole snapshot atomically, so no call
// ever observes a half-updated state.
type snapshot struct {
	cfg         Config
	classifier  *route.Classifier
	pipeline    *core.Pipeline
	fallback    *core.Fallback
	passthrough *core.Fallback
}

// New creates a Bridge with the given configuration. An invoker is required:
// provide the native channel via WithInvoker or WithHandler.
func New(cfg Config, opts ...Option) (*Bridge, error) {
	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	var o options
	for _, opt := range opts {
		opt(&o)
	}
	if o.invoker == nil {
		return nil, fmt.Errorf("%w: a command invoker is required", domain.ErrInvalidConfig)
	}
	if o.logger == nil {
		o.logger = logAdapter.NewNoopLogger()
	}
	if o.httpClient == nil {
		o.httpClient = &http.Client{Timeout: cfg.ConnectTimeout}
	}

	b := &Bridge{
		invoker:    o.invoker,
		httpClient: o.httpClient,
		logger:     o.logger,
		handler:    o.eventHandler,
		watcher:    o.watcher,
		state:      StateCreated,
	}
	b.install(cfg.clone())

	b.gate = core.NewGate(core.GateConfig{
		Invoker:   o.invoker,
		Command:   cfg.Command,
		ProbePath: cfg.ProbePath,
		Interval:  cfg.ProbeInterval,
		Timeout:   cfg.StartupTimeout,
	}, o.logger)

	return b, nil
}

// install derives a new snapshot from cfg and publishes it.
func (b *Bridge) install(cfg Config) {
	classifier := route.New(route.Rules{
		Include: cfg.Include,
		Exclude: cfg.Exclude,
		Origin:  cfg.Origin,
	}, b.logger)

	var fallback *core.Fallback
	if cfg.FallbackURL != "" {
		fallback = core.NewFallback(b.httpClient, cfg.FallbackURL, b.logger)
	}

	passBase := cfg.Origin
	if passBase == "" {
		passBase = cfg.FallbackURL
	}

	b.snap.Store(&snapshot{
		cfg:         cfg,
		classifier:  classifier,
		pipeline:    core.NewPipeline(b.invoker, cfg.Command, b.logger),
		fallback:    fallback,
		passthrough: core.NewFallback(b.httpClient, passBase, b.logger),
	})
}

// Reconfigure replaces the routing configuration atomically. In-flight calls
// finish against the snapshot they started with. The probe parameters fixed
// at creation are not affected.
func (b *Bridge) Reconfigure(cfg Config) error {
	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return err
	}
	b.install(cfg.clone())
	b.logger.Info("routing configuration replaced",
		ports.Int("include", len(cfg.Include)),
		ports.Int("exclude", len(cfg.Exclude)),
	)
	return nil
}

// Config returns a copy of the current routing configuration.
func (b *Bridge) Config() Config {
	return b.snap.Load().cfg.clone()
}

// Start runs the readiness gate: it probes the backend until it answers with
// 200, retrying up to RetryAttempts gate runs, and blocks until ready,
// failed, or ctx done. On success bridged traffic flows over the native
// channel; on failure the bridge degrades to the fallback path and the
// startup error is returned.
func (b *Bridge) Start(ctx context.Context) error {
	b.mu.Lock()
	if b.started {
		b.mu.Unlock()
		return domain.ErrAlreadyStarted
	}
	b.started = true
	b.mu.Unlock()

	b.transition(StateStarting, "Start() called")

	if b.watcher != nil {
		if err := b.watcher.start(ctx, b); err != nil {
			b.logger.Error("config watcher failed to start", ports.Err(err))
		} else {
			b.mu.Lock()
			b.watcherRun = true
			b.mu.Unlock()
		}
	}

	cfg := b.snap.Load().cfg
	began := time.Now()

	var err error
	for attempt := 1; attempt <= cfg.RetryAttempts; attempt++ {
		err = b.gate.Wait(ctx)
		if err == nil {
			b.transition(StateReady, "backend answered readiness probe")
			b.emitReady(ReadyEvent{Attempts: b.gate.Attempts(), Elapsed: time.Since(began)})
			return nil
		}
		if !errors.Is(err, domain.ErrNotReady) {
			break
		}
		b.logger.Warn("readiness gate timed out",
			ports.Int("attempt", attempt),
			ports.Int("maxAttempts", cfg.RetryAttempts),
		)
	}

	b.transition(StateUnavailable, "readiness gate gave up")
	b.emitError(ErrorEvent{Err: err, Detail: "backend did not become ready"})
	return err
}

// Stop stops the config watcher and returns the bridge to its created state.
func (b *Bridge) Stop() error {
	b.mu.Lock()
	if !b.started {
		b.mu.Unlock()
		return domain.ErrNotStarted
	}
	b.started = false
	stopWatcher := b.watcherRun
	b.watcherRun = false
	b.mu.Unlock()

	if stopWatcher && b.watcher != nil {
		b.watcher.stop()
	}
	b.transition(StateCreated, "Stop() called")
	return nil
}

// State returns the current lifecycle state.
func (b *Bridge) State() State {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.state
}

// Ready reports whether the backend has answered its readiness probe.
func (b *Bridge) Ready() bool {
	return b.State() == StateReady
}

// ResetReadiness clears the gate's attempt counter. The counter otherwise
// accumulates across gate runs and is never cleared by ordinary completion.
func (b *Bridge) ResetReadiness() {
	b.gate.Reset()
}

// ReadinessAttempts returns the number of failed probes since the last reset.
func (b *Bridge) ReadinessAttempts() int {
	return b.gate.Attempts()
}

// Do executes a client-shaped request through the bridge pipeline and
// returns an ordinary *http.Response, as if it had come from the network.
func (b *Bridge) Do(ctx context.Context, req *http.Request) (*http.Response, error) {
	var body []byte
	if req.Body != nil {
		var err error
		body, err = io.ReadAll(req.Body)
		req.Body.Close()
		if err != nil {
			return nil, fmt.Errorf("read request body: %w", err)
		}
	}

	resp, err := b.Execute(ctx, req.Method, req.URL.String(), req.Header, body)
	if err != nil {
		return nil, err
	}

	header := http.Header{}
	for k, v := range resp.Headers {
		header.Set(k, v)
	}
	return &http.Response{
		Status:        codec.FormatStatus(resp.StatusCode),
		StatusCode:    resp.StatusCode,
		Proto:         "HTTP/1.1",
		ProtoMajor:    1,
		ProtoMinor:    1,
		Header:        header,
		Body:          io.NopCloser(bytes.NewReader(resp.Body)),
		ContentLength: int64(len(resp.Body)),
		Request:       req,
	}, nil
}

// RoundTrip implements http.RoundTripper, so a Bridge drops directly into an
// http.Client as its transport.
func (b *Bridge) RoundTrip(req *http.Request) (*http.Response, error) {
	return b.Do(req.Context(), req)
}

// Execute runs the full pipeline at the envelope level: classify, translate,
// invoke, chase redirects, fall back. Pass-through responses are reassembled
// into envelopes so callers see one shape either way.
func (b *Bridge) Execute(ctx context.Context, method, rawURL string, header http.Header, body []byte) (domain.Response, error) {
	snap := b.snap.Load()

	if !snap.classifier.Decide(rawURL) {
		if snap.cfg.Debug {
			b.logger.Debug("pass-through", ports.String("method", method), ports.String("url", rawURL))
		}
		env := codec.EncodeRequest(method, rawURL, header, body)
		return snap.passthrough.Do(ctx, env)
	}

	env := codec.EncodeRequest(method, toOriginRelative(rawURL), header, body)
	if snap.cfg.Debug {
		b.logger.Debug("bridging", ports.String("method", env.Method), ports.String("uri", env.URI))
	}

	callCtx := ctx
	if snap.cfg.ConnectTimeout > 0 {
		var cancel context.CancelFunc
		callCtx, cancel = context.WithTimeout(ctx, snap.cfg.ConnectTimeout)
		defer cancel()
	}

	if b.heldBack() {
		if snap.fallback != nil && snap.fallback.Enabled() {
			return snap.fallback.Do(callCtx, env)
		}
		return domain.Response{}, domain.ErrNotReady
	}

	resp, err := snap.pipeline.Do(callCtx, env)
	if err == nil {
		return resp, nil
	}
	if !errors.Is(err, domain.ErrBridgeUnavailable) {
		return domain.Response{}, err
	}

	if snap.fallback != nil && snap.fallback.Enabled() {
		b.logger.Warn("bridge failed, replaying over real network", ports.Err(err))
		fbResp, fbErr := snap.fallback.Do(callCtx, env)
		if fbErr == nil {
			return fbResp, nil
		}
		b.logger.Error("fallback failed", ports.Err(fbErr))
	}

	// The original bridge error propagates unchanged in shape.
	b.emitError(ErrorEvent{Err: err, Detail: env.Method + " " + env.URI})
	return domain.Response{}, err
}

// heldBack reports whether bridged traffic is currently held by the gate:
// during startup and after startup has given up.
func (b *Bridge) heldBack() bool {
	switch b.State() {
	case StateStarting, StateUnavailable:
		return true
	}
	return false
}

// transition updates the lifecycle state and notifies the event handler
// outside the lock.
func (b *Bridge) transition(to State, reason string) {
	b.mu.Lock()
	from := b.state
	b.state = to
	b.mu.Unlock()

	if from == to {
		return
	}
	b.logger.Info("state transition",
		ports.String("from", from.String()),
		ports.String("to", to.String()),
		ports.String("reason", reason),
	)
	if b.handler != nil {
		b.handler.OnStateChange(StateChangeEvent{Previous: from, Current: to, Reason: reason})
	}
}

func (b *Bridge) emitReady(event ReadyEvent) {
	if b.handler != nil {
		b.handler.OnBridgeReady(event)
	}
}

func (b *Bridge) emitError(event ErrorEvent) {
	if b.handler != nil {
		b.handler.OnBridgeError(event)
	}
}

// toOriginRelative reduces an absolute same-origin URL to its path and query
// for the native handler, which matches on origin-relative URIs.
func toOriginRelative(rawURL string) string {
	if strings.HasPrefix(rawURL, "/") {
		return rawURL
	}
	u, err := url.Parse(rawURL)
	if err != nil {
		return rawURL
	}
	rel := u.Path
	if rel == "" {
		rel = "/"
	}
	if u.RawQuery != "" {
		rel += "?" + u.RawQuery
	}
	return rel
}
