// Package codec translates between client-shaped HTTP calls and the
// transport-neutral envelopes crossing the native boundary.
package codec

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/corehost-labs/hostbridge/internal/domain"
)

// EncodeRequest builds a request envelope from a client-shaped call.
// The method defaults to GET and is uppercased; structured header collections
// are flattened into the case-insensitive mapping; GET and HEAD never carry a
// body.
func EncodeRequest(method, uri string, header http.Header, body []byte) domain.Request {
	if method == "" {
		method = http.MethodGet
	}
	method = strings.ToUpper(method)

	req := domain.Request{
		URI:     uri,
		Method:  method,
		Headers: FlattenHeader(header),
	}

	if len(body) > 0 && method != http.MethodGet && method != http.MethodHead {
		text := string(body)
		req.Body = &text
	}
	return req
}

// FlattenHeader reduces a multi-valued header collection to the string→string
// mapping of the native contract. Multiple values are joined with ", ".
func FlattenHeader(header http.Header) domain.Header {
	out := make(domain.Header, len(header))
	for key, values := range header {
		if len(values) == 0 {
			continue
		}
		out.Set(key, strings.Join(values, ", "))
	}
	return out
}

// EncodeJSONBody serializes a structured body for crossing the boundary.
// A serialization failure is a translation error, never a silently empty body.
func EncodeJSONBody(v any) ([]byte, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrBodyUnserializable, err)
	}
	return b, nil
}

// RedirectRequest builds the GET-only follow-up envelope for a redirect.
// The method is always downgraded to GET and the body dropped, including for
// 307 and 308. Request headers carry over minus any body metadata.
func RedirectRequest(prev domain.Request, location string) domain.Request {
	headers := prev.Headers.Clone()
	headers.Del("content-type")
	headers.Del("content-length")

	return domain.Request{
		URI:     ResolveLocation(prev.URI, location),
		Method:  http.MethodGet,
		Headers: headers,
	}
}

// ResolveLocation resolves a Location header value against the URI of the
// request that produced the redirect. Absolute and root-relative targets are
// returned as-is; anything else is joined to the previous path's directory.
func ResolveLocation(prevURI, location string) string {
	if location == "" {
		return prevURI
	}
	if strings.HasPrefix(location, "/") || strings.Contains(location, "://") {
		return location
	}
	slash := strings.LastIndex(stripQuery(prevURI), "/")
	if slash < 0 {
		return "/" + location
	}
	return stripQuery(prevURI)[:slash+1] + location
}

func stripQuery(uri string) string {
	if i := strings.IndexByte(uri, '?'); i >= 0 {
		return uri[:i]
	}
	return uri
}
