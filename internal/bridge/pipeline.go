package bridge

import (
	"context"
	"errors"
	"fmt"

	"github.com/corehost-labs/hostbridge/internal/codec"
	"github.com/corehost-labs/hostbridge/internal/domain"
	"github.com/corehost-labs/hostbridge/internal/ports"
)

// MaxRedirects caps redirect chasing. Exceeding the cap surfaces
// domain.ErrTooManyRedirects instead of looping indefinitely.
const MaxRedirects = 10

// Pipeline sends request envelopes over the native channel and resolves
// redirects. Each call owns its envelope; concurrent calls share nothing but
// the pipeline's read-only fields, so a Pipeline is safe for concurrent use.
type Pipeline struct {
	invoker ports.CommandInvoker
	command string
	logger  ports.Logger
}

// NewPipeline creates a pipeline invoking the given command.
func NewPipeline(invoker ports.CommandInvoker, command string, logger ports.Logger) *Pipeline {
	return &Pipeline{
		invoker: invoker,
		command: command,
		logger:  logger,
	}
}

// Do sends the envelope and follows redirects up to MaxRedirects hops.
// Redirect follow-ups are always downgraded to bodyless GETs; a redirect
// without a Location header is returned to the caller as-is.
func (p *Pipeline) Do(ctx context.Context, req domain.Request) (domain.Response, error) {
	resp, err := p.invoke(ctx, req)
	if err != nil {
		return domain.Response{}, err
	}

	for hops := 0; resp.IsRedirect(); hops++ {
		if hops >= MaxRedirects {
			return domain.Response{}, fmt.Errorf("%w: %d hops from %s", domain.ErrTooManyRedirects, hops, req.URI)
		}
		location := resp.Location()
		if location == "" {
			return resp, nil
		}

		next := codec.RedirectRequest(req, location)
		p.logger.Debug("following redirect",
			ports.String("from", req.URI),
			ports.String("to", next.URI),
			ports.Int("status", resp.StatusCode),
		)

		req = next
		resp, err = p.invoke(ctx, req)
		if err != nil {
			return domain.Response{}, err
		}
	}
	return resp, nil
}

// invoke performs one channel round trip. Any invoker failure is a bridge
// error, recognizable via errors.Is regardless of the adapter behind the port.
func (p *Pipeline) invoke(ctx context.Context, req domain.Request) (domain.Response, error) {
	resp, err := p.invoker.Invoke(ctx, p.command, req)
	if err != nil {
		if errors.Is(err, domain.ErrBridgeUnavailable) || errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return domain.Response{}, err
		}
		return domain.Response{}, fmt.Errorf("%w: %v", domain.ErrBridgeUnavailable, err)
	}
	if resp.Headers == nil {
		resp.Headers = domain.Header{}
	}
	return resp, nil
}
