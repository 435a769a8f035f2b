package teamcity

import (
	"fmt"
)

// HTTPError describes a failed REST call. A non-2xx response produces an
// HTTPError with the server's status code and response body; a transport
// failure (connection refused, DNS, timeout) produces one with StatusCode 0
// and the underlying error, so a single error type covers both cases.
type HTTPError struct {
	// URL is the request URL that failed.
	URL string
	// StatusCode is the HTTP status code, or 0 when no response was received.
	StatusCode int
	// Detail is the response body (trimmed) or the transport error text.
	Detail string
	// Err is the underlying transport error, if any.
	Err error
}

// Error returns a single-line description of the failure.
func (e *HTTPError) Error() string {
	if e.StatusCode == 0 {
		return fmt.Sprintf("request to %s failed: %s", e.URL, e.Detail)
	}
	return fmt.Sprintf("%s returned %d: %s", e.URL, e.StatusCode, e.Detail)
}

// Unwrap returns the underlying transport error, if any.
func (e *HTTPError) Unwrap() error {
	return e.Err
}

// Is allows errors.Is() to work with wrapped errors.
func (e *HTTPError) Is(target error) bool {
	_, ok := target.(*HTTPError)
	return ok
}
