package ports

import "net/http"

// HTTPClient abstracts real-network HTTP execution for dependency injection.
// The standard *http.Client satisfies this interface. Pass-through and
// fallback traffic goes through it; bridged traffic never does.
type HTTPClient interface {
	// Do sends an HTTP request and returns an HTTP response.
	Do(req *http.Request) (*http.Response, error)
}
