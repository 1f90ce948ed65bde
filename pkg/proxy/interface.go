package proxy

import (
	"context"
	"net/http"

	"github.com/thebartekbanach/imsquash/pkg/encoder"
)

// ClientRequest is the already-parsed client request. Query parsing and
// parameter validation happen at the HTTP handler layer.
type ClientRequest struct {
	// RawRequest is the original path with query string, kept for logging.
	RawRequest string

	TargetURL    string
	CallerOrigin string

	Headers        http.Header
	AcceptEncoding string

	Params encoder.Params
}

// RedirectFallback sends the client to the origin directly when the proxy
// cannot produce a response itself. The client never sees a proxy 5xx for
// an origin problem.
type RedirectFallback interface {
	Redirect(w http.ResponseWriter, targetURL string)
}

type ProxyService interface {
	Handle(ctx context.Context, request ClientRequest, w http.ResponseWriter)
}
