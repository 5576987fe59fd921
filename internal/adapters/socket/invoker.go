// Package socket implements the native command channel over a local socket.
//
// The host shell exposes its command handler on a unix or TCP socket; each
// invocation is one newline-delimited JSON frame carrying the command name
// and the request envelope, answered by one frame carrying the response
// envelope or a rejection.
package socket

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"net"
	"time"

	"github.com/corehost-labs/hostbridge/internal/domain"
	"github.com/corehost-labs/hostbridge/internal/ports"
)

// commandFrame is the wire form of one invocation.
type commandFrame struct {
	Command string         `json:"command"`
	Request domain.Request `json:"request"`
}

// replyFrame is the wire form of one invocation result. Exactly one of
// Response and Error is set.
type replyFrame struct {
	Response *domain.Response `json:"response,omitempty"`
	Error    string           `json:"error,omitempty"`
}

// Invoker implements ports.CommandInvoker over a local socket. Each call
// dials its own connection, so concurrent invocations share no state and
// complete independently.
type Invoker struct {
	network     string
	address     string
	dialTimeout time.Duration
	logger      ports.Logger
}

// NewInvoker creates a socket invoker. network is "unix" or "tcp".
func NewInvoker(network, address string, dialTimeout time.Duration, logger ports.Logger) *Invoker {
	return &Invoker{
		network:     network,
		address:     address,
		dialTimeout: dialTimeout,
		logger:      logger,
	}
}

// Invoke sends one command frame and awaits one reply frame. Every transport
// failure and every channel rejection wraps domain.ErrBridgeUnavailable.
func (i *Invoker) Invoke(ctx context.Context, command string, req domain.Request) (domain.Response, error) {
	dialer := net.Dialer{Timeout: i.dialTimeout}
	conn, err := dialer.DialContext(ctx, i.network, i.address)
	if err != nil {
		return domain.Response{}, fmt.Errorf("%w: dial %s %s: %v", domain.ErrBridgeUnavailable, i.network, i.address, err)
	}
	defer conn.Close()

	if deadline, ok := ctx.Deadline(); ok {
		_ = conn.SetDeadline(deadline)
	}

	if err := json.NewEncoder(conn).Encode(commandFrame{Command: command, Request: req}); err != nil {
		return domain.Response{}, fmt.Errorf("%w: write command: %v", domain.ErrBridgeUnavailable, err)
	}

	line, err := bufio.NewReader(conn).ReadBytes('\n')
	if err != nil && len(line) == 0 {
		return domain.Response{}, fmt.Errorf("%w: read reply: %v", domain.ErrBridgeUnavailable, err)
	}

	var reply replyFrame
	if err := json.Unmarshal(line, &reply); err != nil {
		return domain.Response{}, fmt.Errorf("%w: malformed reply: %v", domain.ErrBridgeUnavailable, err)
	}
	if reply.Error != "" {
		return domain.Response{}, fmt.Errorf("%w: channel rejected invocation: %s", domain.ErrBridgeUnavailable, reply.Error)
	}
	if reply.Response == nil {
		return domain.Response{}, fmt.Errorf("%w: reply carries no response", domain.ErrBridgeUnavailable)
	}
	return *reply.Response, nil
}

var _ ports.CommandInvoker = (*Invoker)(nil)
