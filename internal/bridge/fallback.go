package bridge

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/corehost-labs/hostbridge/internal/codec"
	"github.com/corehost-labs/hostbridge/internal/domain"
	"github.com/corehost-labs/hostbridge/internal/ports"
)

// Fallback re-issues a bridged request over the real network when the native
// channel fails. Best-effort: callers surface the original bridge error when
// the fallback fails too.
type Fallback struct {
	client  ports.HTTPClient
	baseURL string
	logger  ports.Logger
}

// NewFallback creates a fallback controller targeting the given base address.
// The base address is used for origin-relative envelope URIs; absolute URIs
// are replayed as-is.
func NewFallback(client ports.HTTPClient, baseURL string, logger ports.Logger) *Fallback {
	return &Fallback{
		client:  client,
		baseURL: strings.TrimSuffix(baseURL, "/"),
		logger:  logger,
	}
}

// Enabled reports whether fallback traffic can be issued at all.
func (f *Fallback) Enabled() bool {
	return f.client != nil && f.baseURL != ""
}

// Do replays the identical envelope over the real network and reassembles the
// response into an envelope.
func (f *Fallback) Do(ctx context.Context, req domain.Request) (domain.Response, error) {
	target := req.URI
	if strings.HasPrefix(target, "/") {
		target = f.baseURL + target
	}

	var body io.Reader
	if req.HasBody() {
		body = strings.NewReader(*req.Body)
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.Method, target, body)
	if err != nil {
		return domain.Response{}, fmt.Errorf("build fallback request: %w", err)
	}
	for k, v := range req.Headers {
		httpReq.Header.Set(k, v)
	}

	f.logger.Debug("replaying request over real network",
		ports.String("method", req.Method),
		ports.String("url", target),
	)

	httpResp, err := f.client.Do(httpReq)
	if err != nil {
		return domain.Response{}, fmt.Errorf("fallback request: %w", err)
	}
	defer httpResp.Body.Close()

	respBody, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return domain.Response{}, fmt.Errorf("read fallback response: %w", err)
	}

	return domain.Response{
		StatusCode: httpResp.StatusCode,
		Headers:    codec.FlattenHeader(httpResp.Header),
		Body:       respBody,
	}, nil
}
