package bridge

import (
	"context"
	"errors"
	"reflect"
	"sync"
	"testing"
	"time"

	"github.com/corehost-labs/hostbridge/internal/domain"
)

// eventLog records fired event names in order, safely across goroutines.
type eventLog struct {
	mu     sync.Mutex
	events []string
}

func (l *eventLog) record(ev ClientEvent) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.events = append(l.events, ev.Type)
}

func (l *eventLog) snapshot() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]string(nil), l.events...)
}

func (l *eventLog) has(event string) bool {
	for _, e := range l.snapshot() {
		if e == event {
			return true
		}
	}
	return false
}

func newClientBridge(t *testing.T, handler HandlerFunc) *Bridge {
	t.Helper()
	b, err := New(Config{}, WithHandler(handler))
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	return b
}

func waitDone(t *testing.T, c *Client) {
	t.Helper()
	select {
	case <-c.Done():
	case <-time.After(2 * time.Second):
		t.Fatal("operation never finished")
	}
}

func TestClientLifecycle(t *testing.T) {
	b := newClientBridge(t, func(ctx context.Context, req Request) (Response, error) {
		return Response{
			StatusCode: 200,
			Headers:    Header{"content-type": "application/json", "x-request-id": "abc"},
			Body:       []byte(`{"name":"test"}`),
		}, nil
	})

	c := NewClient(b)
	log := &eventLog{}
	for _, ev := range []string{EventReadyStateChange, EventLoad, EventError, EventAbort, EventLoadEnd} {
		c.On(ev, log.record)
	}

	if c.ReadyState() != ReadyStateUnsent {
		t.Fatalf("expected unsent, got %v", c.ReadyState())
	}
	if err := c.Open("GET", "/api/config"); err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	if err := c.SetRequestHeader("Accept", "application/json"); err != nil {
		t.Fatalf("SetRequestHeader failed: %v", err)
	}
	if err := c.Send(context.Background(), nil); err != nil {
		t.Fatalf("Send failed: %v", err)
	}
	waitDone(t, c)

	if c.ReadyState() != ReadyStateDone {
		t.Errorf("expected done, got %v", c.ReadyState())
	}
	if c.Status() != 200 {
		t.Errorf("expected 200, got %d", c.Status())
	}
	if c.StatusText() != "200 OK" {
		t.Errorf("expected 200 OK, got %q", c.StatusText())
	}
	if got := c.GetResponseHeader("X-Request-ID"); got != "abc" {
		t.Errorf("header lookup must be case-insensitive, got %q", got)
	}
	if c.ResponseText() != `{"name":"test"}` {
		t.Errorf("unexpected text: %q", c.ResponseText())
	}

	want := []string{
		EventReadyStateChange, // opened
		EventReadyStateChange, // headers received
		EventReadyStateChange, // loading
		EventReadyStateChange, // done
		EventLoad,
		EventLoadEnd,
	}
	if got := log.snapshot(); !reflect.DeepEqual(got, want) {
		t.Errorf("event order mismatch:\n got %v\nwant %v", got, want)
	}
}

func TestClientResponseJSON(t *testing.T) {
	b := newClientBridge(t, func(ctx context.Context, req Request) (Response, error) {
		return Response{
			StatusCode: 200,
			Headers:    Header{"content-type": "application/json"},
			Body:       []byte(`{"name":"test"}`),
		}, nil
	})

	c := NewClient(b)
	c.SetResponseType(ResponseTypeJSON)
	c.Open("GET", "/api/config")
	c.Send(context.Background(), nil)
	waitDone(t, c)

	v, err := c.Response()
	if err != nil {
		t.Fatalf("Response failed: %v", err)
	}
	m, ok := v.(map[string]any)
	if !ok {
		t.Fatalf("expected decoded object, got %T", v)
	}
	if m["name"] != "test" {
		t.Errorf("unexpected value: %v", m)
	}
}

func TestClientResponseBinary(t *testing.T) {
	raw := []byte{0x89, 0x50, 0x4e, 0x47}
	b := newClientBridge(t, func(ctx context.Context, req Request) (Response, error) {
		return Response{
			StatusCode: 200,
			Headers:    Header{"content-type": "image/png"},
			Body:       raw,
		}, nil
	})

	c := NewClient(b)
	c.SetResponseType(ResponseTypeBinary)
	c.Open("GET", "/api/avatar")
	c.Send(context.Background(), nil)
	waitDone(t, c)

	v, err := c.Response()
	if err != nil {
		t.Fatalf("Response failed: %v", err)
	}
	got, ok := v.([]byte)
	if !ok || !reflect.DeepEqual(got, raw) {
		t.Errorf("expected raw bytes back, got %v", v)
	}
	if c.ResponseText() != "" {
		t.Errorf("binary body must not surface as text")
	}
}

func TestClientAbortSuppressesCompletion(t *testing.T) {
	release := make(chan struct{})
	b := newClientBridge(t, func(ctx context.Context, req Request) (Response, error) {
		select {
		case <-ctx.Done():
			return Response{}, ctx.Err()
		case <-release:
			return Response{StatusCode: 200}, nil
		}
	})

	c := NewClient(b)
	log := &eventLog{}
	c.On(EventLoad, log.record)
	c.On(EventError, log.record)
	c.On(EventAbort, log.record)
	c.On(EventLoadEnd, log.record)

	c.Open("GET", "/api/slow")
	c.Send(context.Background(), nil)
	c.Abort()
	waitDone(t, c)
	close(release)

	if !c.Aborted() {
		t.Fatal("expected aborted state")
	}
	if !errors.Is(c.Err(), domain.ErrAborted) {
		t.Errorf("expected ErrAborted, got %v", c.Err())
	}
	if !log.has(EventAbort) || !log.has(EventLoadEnd) {
		t.Errorf("abort must fire abort and loadend, got %v", log.snapshot())
	}
	if log.has(EventLoad) || log.has(EventError) {
		t.Errorf("abort must suppress completion events, got %v", log.snapshot())
	}
}

func TestClientReopenAfterAbortIgnoresStaleResult(t *testing.T) {
	release := make(chan struct{})
	b := newClientBridge(t, func(ctx context.Context, req Request) (Response, error) {
		if req.URI == "/api/slow" {
			<-release
			return Response{
				StatusCode: 200,
				Headers:    Header{"content-type": "text/plain"},
				Body:       []byte("stale"),
			}, nil
		}
		return Response{
			StatusCode: 200,
			Headers:    Header{"content-type": "text/plain"},
			Body:       []byte("fresh"),
		}, nil
	})

	c := NewClient(b)
	log := &eventLog{}
	c.On(EventLoad, log.record)

	c.Open("GET", "/api/slow")
	c.Send(context.Background(), nil)
	staleDone := c.Done()
	c.Abort()

	// Reopen while the aborted operation is still in flight.
	if err := c.Open("GET", "/api/next"); err != nil {
		t.Fatalf("reopen failed: %v", err)
	}

	// Let the aborted operation complete; its result must be dropped.
	close(release)
	select {
	case <-staleDone:
	case <-time.After(2 * time.Second):
		t.Fatal("stale operation never finished")
	}

	if log.has(EventLoad) {
		t.Error("stale aborted operation must not fire load")
	}
	if c.ReadyState() != ReadyStateOpened {
		t.Errorf("stale result advanced the reopened client: %v", c.ReadyState())
	}
	if c.Status() != 0 {
		t.Errorf("stale response installed: %d", c.Status())
	}

	// The reopened operation still completes normally.
	c.Send(context.Background(), nil)
	waitDone(t, c)
	if c.ResponseText() != "fresh" {
		t.Errorf("reopened operation broken: %q", c.ResponseText())
	}
	if got := len(log.snapshot()); got != 1 {
		t.Errorf("expected exactly one load event, got %d", got)
	}
}

func TestClientErrorPath(t *testing.T) {
	b := newClientBridge(t, func(ctx context.Context, req Request) (Response, error) {
		return Response{}, errors.New("channel closed")
	})

	c := NewClient(b)
	log := &eventLog{}
	c.On(EventLoad, log.record)
	c.On(EventError, log.record)
	c.On(EventLoadEnd, log.record)

	c.Open("GET", "/api/config")
	c.Send(context.Background(), nil)
	waitDone(t, c)

	if !errors.Is(c.Err(), domain.ErrBridgeUnavailable) {
		t.Errorf("expected ErrBridgeUnavailable, got %v", c.Err())
	}
	if !log.has(EventError) || !log.has(EventLoadEnd) {
		t.Errorf("failure must fire error and loadend, got %v", log.snapshot())
	}
	if log.has(EventLoad) {
		t.Error("failure must not fire load")
	}
}

func TestClientSendBeforeOpen(t *testing.T) {
	b := newClientBridge(t, func(ctx context.Context, req Request) (Response, error) {
		return Response{StatusCode: 200}, nil
	})
	c := NewClient(b)
	if err := c.Send(context.Background(), nil); !errors.Is(err, domain.ErrNotStarted) {
		t.Fatalf("expected ErrNotStarted, got %v", err)
	}
	if err := c.SetRequestHeader("Accept", "text/plain"); !errors.Is(err, domain.ErrNotStarted) {
		t.Fatalf("expected ErrNotStarted, got %v", err)
	}
}

func TestClientHandlerFieldReplacement(t *testing.T) {
	b := newClientBridge(t, func(ctx context.Context, req Request) (Response, error) {
		return Response{StatusCode: 200}, nil
	})

	c := NewClient(b)
	var first, second int
	c.SetOnLoad(func(ClientEvent) { first++ })
	c.SetOnLoad(func(ClientEvent) { second++ })

	c.Open("GET", "/api/config")
	c.Send(context.Background(), nil)
	waitDone(t, c)

	if first != 0 {
		t.Error("replaced handler field must not fire")
	}
	if second != 1 {
		t.Errorf("expected active handler field to fire once, fired %d times", second)
	}
}

func TestClientReuseAfterDone(t *testing.T) {
	calls := 0
	b := newClientBridge(t, func(ctx context.Context, req Request) (Response, error) {
		calls++
		return Response{
			StatusCode: 200,
			Headers:    Header{"content-type": "text/plain"},
			Body:       []byte(req.URI),
		}, nil
	})

	c := NewClient(b)
	c.Open("GET", "/api/first")
	c.Send(context.Background(), nil)
	waitDone(t, c)

	if err := c.Open("GET", "/api/second"); err != nil {
		t.Fatalf("reopen failed: %v", err)
	}
	if c.Status() != 0 {
		t.Error("Open must reset the previous response")
	}
	c.Send(context.Background(), nil)
	waitDone(t, c)

	if calls != 2 {
		t.Errorf("expected 2 bridged calls, got %d", calls)
	}
	if c.ResponseText() != "/api/second" {
		t.Errorf("unexpected second response: %q", c.ResponseText())
	}
}
