package bypass

import (
	"crypto/tls"
	"net/http"
	"net/url"
)

// modernTLSConfig is the transport profile for bypass attempts: TLS 1.2 or
// newer with a modern cipher-suite allow-list. Origins fronted by anti-bot
// services fingerprint TLS clients, and an outdated suite list is one of the
// signals they reject on.
func modernTLSConfig() *tls.Config {
	return &tls.Config{
		MinVersion: tls.VersionTLS12,
		CipherSuites: []uint16{
			tls.TLS_AES_128_GCM_SHA256,
			tls.TLS_AES_256_GCM_SHA384,
			tls.TLS_CHACHA20_POLY1305_SHA256,
			tls.TLS_ECDHE_ECDSA_WITH_AES_128_GCM_SHA256,
			tls.TLS_ECDHE_RSA_WITH_AES_128_GCM_SHA256,
			tls.TLS_ECDHE_ECDSA_WITH_AES_256_GCM_SHA384,
			tls.TLS_ECDHE_RSA_WITH_AES_256_GCM_SHA384,
			tls.TLS_ECDHE_ECDSA_WITH_CHACHA20_POLY1305,
			tls.TLS_ECDHE_RSA_WITH_CHACHA20_POLY1305,
		},
	}
}

// newBypassTransport builds the HTTP transport used for bypass attempts,
// optionally routing them through an upstream proxy. Redirects are never
// followed by the transport itself; the state machine owns redirect logic.
func newBypassTransport(upstreamProxy *url.URL) *http.Transport {
	transport := &http.Transport{
		TLSClientConfig: modernTLSConfig(),
	}

	if upstreamProxy != nil {
		transport.Proxy = http.ProxyURL(upstreamProxy)
	}

	return transport
}
