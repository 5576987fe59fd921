package codec

import (
	"encoding/json"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/corehost-labs/hostbridge/internal/domain"
)

// textualPrefixes and textualTypes identify content types decoded as UTF-8
// text. Everything else stays an opaque byte sequence.
var textualPrefixes = []string{"text/"}

var textualTypes = map[string]bool{
	"application/json":         true,
	"application/xml":          true,
	"application/xhtml+xml":    true,
	"application/javascript":   true,
	"application/x-ndjson":     true,
	"image/svg+xml":            true,
	"application/problem+json": true,
}

// Result is the client-shaped outcome of a bridged call. The raw bytes are
// always retrievable; text and JSON views exist only when the declared
// content type calls for them and decoding succeeded.
type Result struct {
	StatusCode int
	Status     string
	Headers    domain.Header

	// DecodeErr reports a declared-type decode failure (bad UTF-8, bad JSON
	// under a JSON content type). It wraps domain.ErrDecode and never fails
	// the call itself.
	DecodeErr error

	body    []byte
	text    string
	textual bool
	isJSON  bool
}

// Bytes returns the raw response body. Valid regardless of DecodeErr.
func (r *Result) Bytes() []byte { return r.body }

// IsText reports whether the body decoded to UTF-8 text.
func (r *Result) IsText() bool { return r.textual && r.DecodeErr == nil }

// IsJSON reports whether the response declared a JSON content type and the
// body parsed as JSON.
func (r *Result) IsJSON() bool { return r.isJSON && r.DecodeErr == nil }

// Text returns the decoded text, or "" when the body is binary or failed to
// decode.
func (r *Result) Text() string {
	if !r.IsText() {
		return ""
	}
	return r.text
}

// JSON unmarshals the body into v. Returns an error wrapping domain.ErrDecode
// when the response did not carry valid JSON.
func (r *Result) JSON(v any) error {
	if r.DecodeErr != nil {
		return r.DecodeErr
	}
	if !r.isJSON {
		return fmt.Errorf("%w: content type %q is not JSON", domain.ErrDecode, r.Headers.Get("content-type"))
	}
	if err := json.Unmarshal(r.body, v); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrDecode, err)
	}
	return nil
}

// DecodeResponse translates a response envelope into a client-shaped result,
// applying content-type-driven body decoding. Decode failures are recorded on
// the result, not returned: the pipeline does not crash on a bad body.
func DecodeResponse(resp domain.Response) *Result {
	r := &Result{
		StatusCode: resp.StatusCode,
		Status:     FormatStatus(resp.StatusCode),
		Headers:    resp.Headers.Clone(),
		body:       []byte(resp.Body),
	}

	ctype := mediaType(resp.ContentType())
	if !isTextual(ctype) {
		return r
	}

	r.textual = true
	if !utf8.Valid(r.body) {
		r.DecodeErr = fmt.Errorf("%w: body is not valid UTF-8", domain.ErrDecode)
		return r
	}
	r.text = string(r.body)

	if isJSONType(ctype) {
		if len(r.body) == 0 || !json.Valid(r.body) {
			r.DecodeErr = fmt.Errorf("%w: declared %s but body is not valid JSON", domain.ErrDecode, ctype)
			return r
		}
		r.isJSON = true
	}
	return r
}

// mediaType strips parameters such as "; charset=utf-8".
func mediaType(ctype string) string {
	if i := strings.IndexByte(ctype, ';'); i >= 0 {
		ctype = ctype[:i]
	}
	return strings.ToLower(strings.TrimSpace(ctype))
}

func isTextual(ctype string) bool {
	if ctype == "" {
		return false
	}
	for _, prefix := range textualPrefixes {
		if strings.HasPrefix(ctype, prefix) {
			return true
		}
	}
	if textualTypes[ctype] {
		return true
	}
	return strings.HasSuffix(ctype, "+json") || strings.HasSuffix(ctype, "+xml")
}

func isJSONType(ctype string) bool {
	return ctype == "application/json" || strings.HasSuffix(ctype, "+json")
}
