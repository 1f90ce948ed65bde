package assembler

import (
	"context"
	"net/http"
	"strings"

	"github.com/thebartekbanach/imsquash/pkg/fetcher"
)

const (
	contentSecurityPolicy = "default-src 'none'; img-src data: *; media-src data: *"
	strictTransport       = "max-age=31536000; includeSubDomains"
	proxyIdentifier       = "imsquash"
)

type responseAssembler struct {
	decider        Decider
	compressSender Sender
	bypassSender   Sender
	copyPolicy     Policy
}

var _ Assembler = (*responseAssembler)(nil)

func NewResponseAssembler(decider Decider, compressSender, bypassSender Sender) Assembler {
	return &responseAssembler{
		decider:        decider,
		compressSender: compressSender,
		bypassSender:   bypassSender,
		copyPolicy:     DefaultPolicy(),
	}
}

func (a *responseAssembler) Assemble(ctx context.Context, w http.ResponseWriter, origin fetcher.OriginResponse, payload Payload) (Sent, error) {
	ApplySecurityHeaders(w.Header())

	copied := CopyHeaders(origin.Headers, w.Header(), a.copyPolicy)
	for name, values := range copied {
		w.Header()[name] = values
	}

	payload.TransportCompress = a.decider.TransportCompress(payload.OriginType, payload.OriginSize)

	if a.decider.Decide(payload.OriginType, payload.OriginSize) == DecisionCompress {
		return a.compressSender.Send(ctx, w, payload)
	}

	return a.bypassSender.Send(ctx, w, payload)
}

// ApplySecurityHeaders sets the fixed response headers every proxied
// response carries: a restrictive content-security-policy, a permissive
// CORS header and the proxy identification header.
func ApplySecurityHeaders(h http.Header) {
	h.Set("Content-Security-Policy", contentSecurityPolicy)
	h.Set("Access-Control-Allow-Origin", "*")
	h.Set("X-Proxy", proxyIdentifier)
}

// EnforceHTTPS issues a 301 to the https-qualified URL with HSTS set when
// the inbound request did not arrive over a secure channel, signaled by the
// forwarded-proto header. It reports whether the response was terminated;
// when it returns true no further processing may run.
func EnforceHTTPS(w http.ResponseWriter, r *http.Request) bool {
	if strings.EqualFold(r.Header.Get("X-Forwarded-Proto"), "https") {
		return false
	}

	w.Header().Set("Strict-Transport-Security", strictTransport)
	http.Redirect(w, r, "https://"+r.Host+r.URL.RequestURI(), http.StatusMovedPermanently)
	return true
}
