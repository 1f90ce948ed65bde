package fetcher

import (
	"context"
	"errors"
	"net/http"
	"time"
)

// FetchRequest describes one logical origin fetch. The method is always GET.
// Everything except URL is immutable for the lifetime of the request; the
// URL is replaced when a redirect is followed.
type FetchRequest struct {
	URL string

	// Headers are the inbound client headers. Only the allow-listed subset
	// is forwarded to the origin, see FilterRequestHeaders.
	Headers http.Header

	// Timeout bounds a single fetch attempt, not the whole retry chain.
	// Zero means DefaultTimeout.
	Timeout time.Duration

	// MaxRedirects caps how many redirects one attempt may follow. Zero
	// means MaxRedirects.
	MaxRedirects int
}

// OriginResponse is the outcome of a fetch attempt that reached the origin.
// Header keys are case-insensitive with last-write-wins semantics, as
// provided by http.Header.
type OriginResponse struct {
	StatusCode      int
	Headers         http.Header
	Body            []byte
	ContentEncoding string
}

type Fetcher interface {
	// Fetch performs a single origin fetch attempt. Any response received
	// from the origin is returned to the caller regardless of status code;
	// errors are reserved for transport-level failures. Deciding whether a
	// status means "blocked" is the caller's job.
	Fetch(ctx context.Context, request FetchRequest) (OriginResponse, error)
}

var (
	// ErrTransport covers connection, DNS and TLS level failures.
	ErrTransport = errors.New("origin transport failure")

	// ErrUpstreamTimeout means a fetch attempt exceeded its deadline. It
	// counts as a transport failure for retry purposes.
	ErrUpstreamTimeout = errors.New("origin fetch attempt timed out")
)
