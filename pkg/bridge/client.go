package bridge

import (
	"context"
	"net/http"
	"sync"

	"github.com/corehost-labs/hostbridge/internal/codec"
	"github.com/corehost-labs/hostbridge/internal/domain"
)

// ReadyState is the lifecycle position of a Client operation.
type ReadyState int

const (
	// ReadyStateUnsent means Open has not been called.
	ReadyStateUnsent ReadyState = iota
	// ReadyStateOpened means Open has been called, Send has not.
	ReadyStateOpened
	// ReadyStateHeadersReceived means the status line and headers arrived.
	ReadyStateHeadersReceived
	// ReadyStateLoading means the body is being materialized.
	ReadyStateLoading
	// ReadyStateDone means the operation finished, successfully or not.
	ReadyStateDone
)

func (s ReadyState) String() string {
	switch s {
	case ReadyStateUnsent:
		return "unsent"
	case ReadyStateOpened:
		return "opened"
	case ReadyStateHeadersReceived:
		return "headers-received"
	case ReadyStateLoading:
		return "loading"
	case ReadyStateDone:
		return "done"
	default:
		return "unknown"
	}
}

// ResponseType selects how a Client materializes the response body.
type ResponseType string

const (
	ResponseTypeText     ResponseType = "text"
	ResponseTypeJSON     ResponseType = "json"
	ResponseTypeBinary   ResponseType = "arraybuffer"
	ResponseTypeDocument ResponseType = "document"
)

// Lifecycle event names a Client fires. Handler setters such as SetOnLoad
// are sugar over subscribing to the matching name with On.
const (
	EventReadyStateChange = "readystatechange"
	EventLoad             = "load"
	EventError            = "error"
	EventAbort            = "abort"
	EventLoadEnd          = "loadend"
)

// ClientEvent is passed to every lifecycle event listener.
type ClientEvent struct {
	Type   string
	Client *Client
}

// Client is a stateful, event-driven request object layered on a Bridge,
// reproducing the older callback-style HTTP client contract: Open, set
// headers, Send, observe lifecycle events, read the response. One Client
// carries one operation at a time; Open resets it for reuse.
//
// Events fire from the goroutine driving the operation. Listeners must not
// block.
type Client struct {
	bridge *Bridge

	mu         sync.Mutex
	readyState ReadyState
	method     string
	url        string
	reqHeader  http.Header
	respType   ResponseType
	listeners  map[string][]func(ClientEvent)
	reserved   map[string]func(ClientEvent)
	result     *codec.Result
	err        error
	cancel     context.CancelFunc
	inFlight   bool
	aborted    bool
	gen        uint64
	done       chan struct{}
}

// NewClient creates an unsent Client bound to b.
func NewClient(b *Bridge) *Client {
	return &Client{
		bridge:    b,
		listeners: make(map[string][]func(ClientEvent)),
		reserved:  make(map[string]func(ClientEvent)),
		reqHeader: http.Header{},
	}
}

// On subscribes fn to a lifecycle event. Multiple listeners per event are
// allowed and fire in subscription order.
func (c *Client) On(event string, fn func(ClientEvent)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.listeners[event] = append(c.listeners[event], fn)
}

// SetOnReadyStateChange installs the readystatechange handler field.
// Assigning replaces any previous handler field, but not On subscriptions.
func (c *Client) SetOnReadyStateChange(fn func(ClientEvent)) { c.setReserved(EventReadyStateChange, fn) }

// SetOnLoad installs the load handler field.
func (c *Client) SetOnLoad(fn func(ClientEvent)) { c.setReserved(EventLoad, fn) }

// SetOnError installs the error handler field.
func (c *Client) SetOnError(fn func(ClientEvent)) { c.setReserved(EventError, fn) }

// SetOnAbort installs the abort handler field.
func (c *Client) SetOnAbort(fn func(ClientEvent)) { c.setReserved(EventAbort, fn) }

// SetOnLoadEnd installs the loadend handler field.
func (c *Client) SetOnLoadEnd(fn func(ClientEvent)) { c.setReserved(EventLoadEnd, fn) }

func (c *Client) setReserved(event string, fn func(ClientEvent)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if fn == nil {
		delete(c.reserved, event)
		return
	}
	c.reserved[event] = fn
}

// Open prepares the Client for one operation and moves it to the opened
// state. Calling Open on a finished Client resets it; listeners survive.
func (c *Client) Open(method, url string) error {
	c.mu.Lock()
	if c.inFlight {
		c.mu.Unlock()
		return domain.ErrAlreadyStarted
	}
	c.method = method
	c.url = url
	c.reqHeader = http.Header{}
	c.result = nil
	c.err = nil
	c.aborted = false
	c.gen++
	c.done = nil
	c.readyState = ReadyStateOpened
	c.mu.Unlock()

	c.fire(EventReadyStateChange)
	return nil
}

// SetRequestHeader adds a request header. Valid only between Open and Send.
func (c *Client) SetRequestHeader(name, value string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.readyState != ReadyStateOpened || c.inFlight {
		return domain.ErrNotStarted
	}
	c.reqHeader.Add(name, value)
	return nil
}

// SetResponseType selects how Response materializes the body. The zero value
// behaves as ResponseTypeText.
func (c *Client) SetResponseType(t ResponseType) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.respType = t
}

// Send starts the operation. It returns immediately; progress is reported
// through lifecycle events, and Done unblocks when the operation finishes.
// The body is ignored for GET and HEAD.
func (c *Client) Send(ctx context.Context, body []byte) error {
	c.mu.Lock()
	if c.readyState != ReadyStateOpened {
		c.mu.Unlock()
		return domain.ErrNotStarted
	}
	if c.inFlight {
		c.mu.Unlock()
		return domain.ErrAlreadyStarted
	}
	callCtx, cancel := context.WithCancel(ctx)
	c.cancel = cancel
	c.inFlight = true
	c.done = make(chan struct{})
	method, url := c.method, c.url
	header := c.reqHeader.Clone()
	done := c.done
	gen := c.gen
	c.mu.Unlock()

	go func() {
		defer close(done)
		resp, err := c.bridge.Execute(callCtx, method, url, header, body)
		cancel()
		c.finish(gen, resp, err)
	}()
	return nil
}

// Abort cancels the in-flight operation. The Client moves to the terminal
// aborted state, fires abort then loadend, and never fires load afterward.
// Cancellation is best-effort: the native side may still run the handler.
func (c *Client) Abort() {
	c.mu.Lock()
	if c.readyState == ReadyStateUnsent || c.aborted {
		c.mu.Unlock()
		return
	}
	c.aborted = true
	c.readyState = ReadyStateDone
	c.err = domain.ErrAborted
	cancel := c.cancel
	c.inFlight = false
	c.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	c.fire(EventReadyStateChange)
	c.fire(EventAbort)
	c.fire(EventLoadEnd)
}

// finish records the outcome and fires the completion events. A result whose
// generation no longer matches belongs to an aborted or superseded operation
// and is dropped: a reopen must never be advanced by a stale completion.
func (c *Client) finish(gen uint64, resp domain.Response, err error) {
	c.mu.Lock()
	if c.aborted || gen != c.gen {
		c.mu.Unlock()
		return
	}
	if err != nil {
		c.err = err
		c.readyState = ReadyStateDone
		c.inFlight = false
		c.mu.Unlock()
		c.fire(EventReadyStateChange)
		c.fire(EventError)
		c.fire(EventLoadEnd)
		return
	}

	c.result = codec.DecodeResponse(resp)
	c.readyState = ReadyStateHeadersReceived
	c.mu.Unlock()
	c.fire(EventReadyStateChange)

	if c.advance(gen, ReadyStateLoading) {
		c.fire(EventReadyStateChange)
	}
	if c.advance(gen, ReadyStateDone) {
		c.fire(EventReadyStateChange)
		c.fire(EventLoad)
		c.fire(EventLoadEnd)
	}
}

// advance moves to the next state unless an abort or a reopen raced in.
func (c *Client) advance(gen uint64, to ReadyState) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.aborted || gen != c.gen {
		return false
	}
	c.readyState = to
	if to == ReadyStateDone {
		c.inFlight = false
	}
	return true
}

func (c *Client) fire(event string) {
	c.mu.Lock()
	var fns []func(ClientEvent)
	if fn, ok := c.reserved[event]; ok {
		fns = append(fns, fn)
	}
	fns = append(fns, c.listeners[event]...)
	c.mu.Unlock()

	ev := ClientEvent{Type: event, Client: c}
	for _, fn := range fns {
		fn(ev)
	}
}

// Done returns a channel closed when the current operation finishes. It is
// nil before Send.
func (c *Client) Done() <-chan struct{} {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.done
}

// ReadyState returns the current lifecycle position.
func (c *Client) ReadyState() ReadyState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.readyState
}

// Aborted reports whether the operation ended via Abort.
func (c *Client) Aborted() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.aborted
}

// Err returns the operation error, if any. domain.ErrAborted after Abort.
func (c *Client) Err() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.err
}

// Status returns the response status code, or 0 before headers arrive.
func (c *Client) Status() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.result == nil {
		return 0
	}
	return c.result.StatusCode
}

// StatusText returns the full status line, such as "200 OK".
func (c *Client) StatusText() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.result == nil {
		return ""
	}
	return c.result.Status
}

// ResponseHeaders returns a copy of the response headers.
func (c *Client) ResponseHeaders() Header {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.result == nil {
		return nil
	}
	return c.result.Headers.Clone()
}

// GetResponseHeader returns one response header value, "" when absent.
func (c *Client) GetResponseHeader(name string) string {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.result == nil {
		return ""
	}
	return c.result.Headers.Get(name)
}

// ResponseText returns the body as text when the content type is textual,
// "" otherwise.
func (c *Client) ResponseText() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.result == nil {
		return ""
	}
	return c.result.Text()
}

// Response materializes the body according to the declared response type:
// text and document yield a string, json a decoded value, arraybuffer the
// raw bytes. Returns nil before the operation completes.
func (c *Client) Response() (any, error) {
	c.mu.Lock()
	result := c.result
	respType := c.respType
	c.mu.Unlock()
	if result == nil {
		return nil, nil
	}

	switch respType {
	case ResponseTypeBinary:
		return result.Bytes(), nil
	case ResponseTypeJSON:
		var v any
		if err := result.JSON(&v); err != nil {
			return nil, err
		}
		return v, nil
	default:
		// text and document both surface the decoded text.
		return result.Text(), nil
	}
}
