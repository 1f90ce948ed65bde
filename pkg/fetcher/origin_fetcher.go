package fetcher

import (
	"bytes"
	"context"
	"crypto/tls"
	"errors"
	"io"
	"net/http"
	"net/url"
	"os"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/net/http2"

	"github.com/thebartekbanach/imsquash/pkg/scheduler"
)

const (
	// DefaultTimeout bounds one fetch attempt. The whole retry/redirect
	// chain is not bounded by it, see the bypass fetcher.
	DefaultTimeout = 5 * time.Second

	// MaxRedirects is the default redirect budget of one attempt.
	MaxRedirects = 5
)

type httpDoFunc func(req *http.Request, maxRedirects int) (*http.Response, error)

type originFetcher struct {
	sched   scheduler.Scheduler
	doHTTP1 httpDoFunc
	doHTTP2 httpDoFunc
}

var _ Fetcher = (*originFetcher)(nil)

// NewOriginFetcher returns a Fetcher that reaches origins over HTTP/2 for
// https URLs and over a scheduler-gated HTTP/1.1 client otherwise.
func NewOriginFetcher(sched scheduler.Scheduler) Fetcher {
	return &originFetcher{
		sched:   sched,
		doHTTP1: newHTTP1DoFunc(),
		doHTTP2: newHTTP2DoFunc(),
	}
}

func (f *originFetcher) Fetch(ctx context.Context, request FetchRequest) (OriginResponse, error) {
	target, err := url.Parse(request.URL)
	if err != nil {
		return OriginResponse{}, ErrTransport
	}

	// The HTTP/2 path is not scheduler-gated: it opens a fresh connection
	// per request, which by itself paces the dispatch rate enough.
	if target.Scheme == "https" {
		return f.attempt(ctx, request, f.doHTTP2)
	}

	var response OriginResponse
	err = f.sched.Schedule(ctx, func() error {
		var attemptErr error
		response, attemptErr = f.attempt(ctx, request, f.doHTTP1)
		return attemptErr
	})

	return response, err
}

func (f *originFetcher) attempt(ctx context.Context, request FetchRequest, do httpDoFunc) (OriginResponse, error) {
	timeout := request.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	maxRedirects := request.MaxRedirects
	if maxRedirects <= 0 {
		maxRedirects = MaxRedirects
	}

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, request.URL, nil)
	if err != nil {
		return OriginResponse{}, ErrTransport
	}
	applyRequestHeaders(req, request.Headers)

	response, err := do(req, maxRedirects)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, os.ErrDeadlineExceeded) {
			log.Debug().Str("url", request.URL).Msg("origin fetch attempt timed out")
			return OriginResponse{}, ErrUpstreamTimeout
		}

		log.Debug().Err(err).Str("url", request.URL).Msg("origin fetch transport failure")
		return OriginResponse{}, ErrTransport
	}
	defer response.Body.Close()

	body, err := io.ReadAll(response.Body)
	if err != nil {
		return OriginResponse{}, ErrTransport
	}

	// Any received response is returned to the caller, including 4xx and
	// 3xx; deciding what a status means is the orchestration layer's job.
	return OriginResponse{
		StatusCode:      response.StatusCode,
		Headers:         response.Header,
		Body:            body,
		ContentEncoding: response.Header.Get("Content-Encoding"),
	}, nil
}

func newHTTP1DoFunc() httpDoFunc {
	return func(req *http.Request, maxRedirects int) (*http.Response, error) {
		client := &http.Client{
			CheckRedirect: stopFollowingAfter(maxRedirects),
		}

		return client.Do(req)
	}
}

// newHTTP2DoFunc builds the HTTP/2 attempt function. Each request opens a
// fresh connection, streams the body chunks into one buffer on stream end
// and tears the connection down; a stream error fails the attempt.
func newHTTP2DoFunc() httpDoFunc {
	return func(req *http.Request, maxRedirects int) (*http.Response, error) {
		transport := &http2.Transport{
			TLSClientConfig: &tls.Config{MinVersion: tls.VersionTLS12},
		}
		defer transport.CloseIdleConnections()

		client := &http.Client{
			Transport:     transport,
			CheckRedirect: stopFollowingAfter(maxRedirects),
		}

		response, err := client.Do(req)
		if err != nil {
			return nil, err
		}

		body, err := io.ReadAll(response.Body)
		response.Body.Close()
		if err != nil {
			return nil, err
		}

		response.Body = io.NopCloser(bytes.NewReader(body))
		return response, nil
	}
}

// stopFollowingAfter caps redirect following: once the budget is spent the
// last 3xx response is handed back to the caller instead of raising.
func stopFollowingAfter(maxRedirects int) func(req *http.Request, via []*http.Request) error {
	return func(req *http.Request, via []*http.Request) error {
		if len(via) >= maxRedirects {
			return http.ErrUseLastResponse
		}

		return nil
	}
}
