package crawler

import (
	"context"
	"errors"
	"fmt"
	"net"
)

type FetchErrorKind string

const (
	ConnectTimeout FetchErrorKind = "connect_timeout"
	ReadTimeout    FetchErrorKind = "read_timeout"
	RequestError   FetchErrorKind = "request_error"
)

// FetchError describes why a page could not be retrieved. StatusCode is set
// only when the server answered with a non-2xx status.
type FetchError struct {
	Kind       FetchErrorKind
	URL        string
	StatusCode int
	Err        error
}

func (e *FetchError) Error() string {
	switch e.Kind {
	case ConnectTimeout:
		return fmt.Sprintf("connection timeout for %s: %v", e.URL, e.Err)
	case ReadTimeout:
		return fmt.Sprintf("read timeout for %s: %v", e.URL, e.Err)
	default:
		return fmt.Sprintf("error fetching %s: %v", e.URL, e.Err)
	}
}

func (e *FetchError) Unwrap() error { return e.Err }

// Hint is the short diagnostic shown to users for this failure.
func (e *FetchError) Hint() string {
	switch e.Kind {
	case ConnectTimeout:
		return "Connection timeout - site may be down"
	case ReadTimeout:
		return "Read timeout - site is responding slowly"
	default:
		return fmt.Sprintf("Request failed: %v", e.Err)
	}
}

// classifyError maps a transport error onto a FetchError kind. A timeout
// before any connection was obtained is a connect timeout.
func classifyError(pageURL string, err error, connected bool) *FetchError {
	var fetchErr *FetchError
	if errors.As(err, &fetchErr) {
		return fetchErr
	}

	kind := RequestError
	var opErr *net.OpError
	switch {
	case errors.As(err, &opErr) && opErr.Op == "dial" && opErr.Timeout():
		kind = ConnectTimeout
	case !isTimeout(err):
		kind = RequestError
	case connected:
		kind = ReadTimeout
	default:
		kind = ConnectTimeout
	}
	return &FetchError{Kind: kind, URL: pageURL, Err: err}
}

func isTimeout(err error) bool {
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout() || errors.Is(err, context.DeadlineExceeded)
}

func statusError(pageURL string, code int, status string) *FetchError {
	return &FetchError{
		Kind:       RequestError,
		URL:        pageURL,
		StatusCode: code,
		Err:        fmt.Errorf("HTTP %d: %s", code, status),
	}
}
