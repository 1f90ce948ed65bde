package fetcher

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http"
	"testing"

	"github.com/thebartekbanach/imsquash/pkg/scheduler"
)

type recordingScheduler struct {
	scheduled int
}

func (s *recordingScheduler) Schedule(ctx context.Context, fn func() error) error {
	s.scheduled++
	return fn()
}

func testDoFunc(statusCode int, body []byte, headers http.Header, err error, onCall func(req *http.Request)) httpDoFunc {
	return func(req *http.Request, maxRedirects int) (*http.Response, error) {
		if onCall != nil {
			onCall(req)
		}

		if err != nil {
			return nil, err
		}

		if headers == nil {
			headers = http.Header{}
		}

		return &http.Response{
			StatusCode: statusCode,
			Header:     headers,
			Body:       io.NopCloser(bytes.NewReader(body)),
		}, nil
	}
}

func failingDoFunc(t *testing.T, message string) httpDoFunc {
	return func(req *http.Request, maxRedirects int) (*http.Response, error) {
		t.Fatal(message)
		return nil, nil
	}
}

func TestOriginFetcher_ShouldGateHTTP1FetchesThroughScheduler(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sched := &recordingScheduler{}
	testData := []byte{0x1, 0x2, 0x3, 0x4, 0x5, 0x6}

	f := originFetcher{
		sched:   sched,
		doHTTP1: testDoFunc(200, testData, nil, nil, nil),
		doHTTP2: failingDoFunc(t, "http scheme request must not use the HTTP/2 path"),
	}

	response, err := f.Fetch(ctx, FetchRequest{URL: "http://example.com/image.jpg"})
	if err != nil {
		t.Fatalf("unexpected fetch error: %v", err)
	}

	if sched.scheduled != 1 {
		t.Errorf("expected exactly one scheduled dispatch, got %d", sched.scheduled)
	}

	if !bytes.Equal(response.Body, testData) {
		t.Errorf("expected body %v, got %v", testData, response.Body)
	}
}

func TestOriginFetcher_ShouldUseHTTP2PathForHTTPSWithoutScheduling(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sched := &recordingScheduler{}

	f := originFetcher{
		sched:   sched,
		doHTTP1: failingDoFunc(t, "https scheme request must not use the HTTP/1.1 path"),
		doHTTP2: testDoFunc(200, nil, nil, nil, nil),
	}

	if _, err := f.Fetch(ctx, FetchRequest{URL: "https://example.com/image.jpg"}); err != nil {
		t.Fatalf("unexpected fetch error: %v", err)
	}

	if sched.scheduled != 0 {
		t.Errorf("HTTP/2 path must not be scheduler-gated, got %d dispatches", sched.scheduled)
	}
}

func TestOriginFetcher_ShouldForwardOnlyAllowListedHeadersAndFixedUserAgent(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	inbound := http.Header{}
	inbound.Set("Cookie", "session=abc")
	inbound.Set("Accept", "image/*")
	inbound.Set("User-Agent", "curl/7.64")
	inbound.Set("Authorization", "Bearer secret")
	inbound.Set("X-Api-Key", "12345")

	var forwarded http.Header
	f := originFetcher{
		sched: scheduler.NewPacedScheduler(0),
		doHTTP1: testDoFunc(200, nil, nil, nil, func(req *http.Request) {
			forwarded = req.Header
		}),
	}

	if _, err := f.Fetch(ctx, FetchRequest{URL: "http://example.com/a.png", Headers: inbound}); err != nil {
		t.Fatalf("unexpected fetch error: %v", err)
	}

	if forwarded.Get("Cookie") != "session=abc" {
		t.Error("allow-listed Cookie header was not forwarded")
	}

	if forwarded.Get("Authorization") != "" || forwarded.Get("X-Api-Key") != "" {
		t.Error("headers outside the allow-list must not be forwarded")
	}

	if forwarded.Get("User-Agent") != UserAgent {
		t.Errorf("expected fixed user-agent %q, got %q", UserAgent, forwarded.Get("User-Agent"))
	}
}

func TestOriginFetcher_ShouldReturnNonSuccessStatusesWithoutError(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	for _, statusCode := range []int{302, 403, 404, 503} {
		f := originFetcher{
			sched:   scheduler.NewPacedScheduler(0),
			doHTTP1: testDoFunc(statusCode, nil, nil, nil, nil),
		}

		response, err := f.Fetch(ctx, FetchRequest{URL: "http://example.com/image.jpg"})
		if err != nil {
			t.Errorf("status %d must be returned to the caller, got error %v", statusCode, err)
		}

		if response.StatusCode != statusCode {
			t.Errorf("expected status %d, got %d", statusCode, response.StatusCode)
		}
	}
}

func TestOriginFetcher_ShouldMapDeadlineErrorsToUpstreamTimeout(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	f := originFetcher{
		sched:   scheduler.NewPacedScheduler(0),
		doHTTP1: testDoFunc(0, nil, nil, context.DeadlineExceeded, nil),
	}

	_, err := f.Fetch(ctx, FetchRequest{URL: "http://example.com/image.jpg"})
	if !errors.Is(err, ErrUpstreamTimeout) {
		t.Errorf("expected %v, got %v", ErrUpstreamTimeout, err)
	}
}

func TestOriginFetcher_ShouldMapConnectionErrorsToTransportError(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	f := originFetcher{
		sched:   scheduler.NewPacedScheduler(0),
		doHTTP1: testDoFunc(0, nil, nil, errors.New("connection refused"), nil),
	}

	_, err := f.Fetch(ctx, FetchRequest{URL: "http://example.com/image.jpg"})
	if !errors.Is(err, ErrTransport) {
		t.Errorf("expected %v, got %v", ErrTransport, err)
	}
}

func TestOriginFetcher_ShouldExposeContentEncodingTag(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	headers := http.Header{}
	headers.Set("Content-Encoding", "gzip")

	f := originFetcher{
		sched:   scheduler.NewPacedScheduler(0),
		doHTTP1: testDoFunc(200, []byte{0x1f, 0x8b}, headers, nil, nil),
	}

	response, err := f.Fetch(ctx, FetchRequest{URL: "http://example.com/image.jpg"})
	if err != nil {
		t.Fatalf("unexpected fetch error: %v", err)
	}

	if response.ContentEncoding != "gzip" {
		t.Errorf("expected content-encoding tag gzip, got %q", response.ContentEncoding)
	}
}
