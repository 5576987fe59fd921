package domain

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Header is a case-insensitive string mapping shared by both envelopes.
// Keys are stored lowercase; the native contract is string→string, so
// multi-valued headers are flattened before they reach this type.
type Header map[string]string

// Get returns the value for the given key, ignoring case.
// Returns "" when the key is absent.
func (h Header) Get(key string) string {
	return h[strings.ToLower(key)]
}

// Set stores the value under the lowercased key, replacing any existing value.
func (h Header) Set(key, value string) {
	h[strings.ToLower(key)] = value
}

// Del removes the value for the given key, ignoring case.
func (h Header) Del(key string) {
	delete(h, strings.ToLower(key))
}

// Has reports whether a value exists for the given key, ignoring case.
func (h Header) Has(key string) bool {
	_, ok := h[strings.ToLower(key)]
	return ok
}

// Clone returns a copy of the header. Cloning a nil header returns an empty,
// usable header so callers can mutate the copy unconditionally.
func (h Header) Clone() Header {
	out := make(Header, len(h))
	for k, v := range h {
		out[k] = v
	}
	return out
}

// NormalizeHeader builds a Header from an arbitrarily-cased mapping.
func NormalizeHeader(m map[string]string) Header {
	out := make(Header, len(m))
	for k, v := range m {
		out[strings.ToLower(k)] = v
	}
	return out
}

// Request is the transport-neutral request envelope sent over the native
// command channel. Field names follow the native contract.
type Request struct {
	// URI is absolute or origin-relative.
	URI string `json:"uri"`

	// Method is an uppercase HTTP method token.
	Method string `json:"method"`

	// Headers is the flattened, case-insensitive header mapping.
	Headers Header `json:"headers"`

	// Body holds the request payload as UTF-8 text. Nil for bodyless
	// requests; GET and HEAD never carry a body.
	Body *string `json:"body,omitempty"`
}

// HasBody reports whether the request carries a payload.
func (r Request) HasBody() bool {
	return r.Body != nil && *r.Body != ""
}

// Bytes is a raw byte sequence. On the wire it is an array of byte values,
// reconstructed exactly into raw bytes with no assumed text encoding.
type Bytes []byte

// MarshalJSON encodes the sequence as a JSON array of byte values.
func (b Bytes) MarshalJSON() ([]byte, error) {
	if b == nil {
		return []byte("[]"), nil
	}
	vals := make([]int, len(b))
	for i, v := range b {
		vals[i] = int(v)
	}
	return json.Marshal(vals)
}

// UnmarshalJSON decodes a JSON array of byte values.
func (b *Bytes) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*b = nil
		return nil
	}
	var vals []int
	if err := json.Unmarshal(data, &vals); err != nil {
		return fmt.Errorf("decode byte array: %w", err)
	}
	out := make([]byte, len(vals))
	for i, v := range vals {
		if v < 0 || v > 255 {
			return fmt.Errorf("decode byte array: value %d out of range at index %d", v, i)
		}
		out[i] = byte(v)
	}
	*b = out
	return nil
}

// Response is the transport-neutral response envelope returned from the
// native backend. The body stays byte-typed at this boundary; any text or
// JSON interpretation happens downstream in the response translator.
type Response struct {
	StatusCode int    `json:"status_code"`
	Headers    Header `json:"headers"`
	Body       Bytes  `json:"body"`
}

// ContentType returns the declared content type, or "".
func (r Response) ContentType() string {
	return r.Headers.Get("content-type")
}

// IsRedirect reports whether the status code is one the redirect resolver
// follows.
func (r Response) IsRedirect() bool {
	switch r.StatusCode {
	case 301, 302, 303, 307, 308:
		return true
	}
	return false
}

// Location returns the redirect target, or "" when absent.
func (r Response) Location() string {
	return r.Headers.Get("location")
}
