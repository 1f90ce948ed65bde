package bypass

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http"
	"testing"
	"time"

	"github.com/franela/goblin"

	"github.com/thebartekbanach/imsquash/pkg/fetcher"
)

type scriptedResponse struct {
	statusCode int
	location   string
	body       []byte
	err        error
}

type scriptedOrigin struct {
	responses []scriptedResponse
	requests  []string
}

func (o *scriptedOrigin) do(req *http.Request) (*http.Response, error) {
	o.requests = append(o.requests, req.URL.String())

	index := len(o.requests) - 1
	if index >= len(o.responses) {
		return nil, errors.New("scripted origin ran out of responses")
	}

	scripted := o.responses[index]
	if scripted.err != nil {
		return nil, scripted.err
	}

	header := http.Header{}
	if scripted.location != "" {
		header.Set("Location", scripted.location)
	}

	return &http.Response{
		StatusCode: scripted.statusCode,
		Header:     header,
		Body:       io.NopCloser(bytes.NewReader(scripted.body)),
	}, nil
}

type recordedSleep struct {
	waits []time.Duration
}

func (s *recordedSleep) sleep(ctx context.Context, d time.Duration) error {
	s.waits = append(s.waits, d)
	return nil
}

func newTestFetcher(origin *scriptedOrigin, sleeps *recordedSleep) *bypassFetcher {
	return &bypassFetcher{do: origin.do, sleep: sleeps.sleep}
}

func TestBypassFetcher(t *testing.T) {
	g := goblin.Goblin(t)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	g.Describe("BypassFetcher", func() {
		g.It("Should retry twice with blocked backoff and succeed on third attempt after 403 403 200", func() {
			testData := []byte{0x1, 0x2, 0x3}
			origin := &scriptedOrigin{responses: []scriptedResponse{
				{statusCode: 403},
				{statusCode: 403},
				{statusCode: 200, body: testData},
			}}
			sleeps := &recordedSleep{}

			response, err := newTestFetcher(origin, sleeps).Fetch(ctx, fetcher.FetchRequest{URL: "http://example.com/a.jpg"})

			g.Assert(err).IsNil()
			g.Assert(response.StatusCode).Equal(200)
			g.Assert(response.Body).Equal(testData)
			g.Assert(len(origin.requests)).Equal(3)
			g.Assert(sleeps.waits).Equal([]time.Duration{blockedRetryWait, blockedRetryWait})
		})

		g.It("Should fail with BlockedByOrigin when every attempt is rejected with 403", func() {
			origin := &scriptedOrigin{responses: []scriptedResponse{
				{statusCode: 403},
				{statusCode: 403},
				{statusCode: 403},
			}}
			sleeps := &recordedSleep{}

			_, err := newTestFetcher(origin, sleeps).Fetch(ctx, fetcher.FetchRequest{URL: "http://example.com/a.jpg"})

			g.Assert(errors.Is(err, ErrBlockedByOrigin)).IsTrue()
			g.Assert(len(origin.requests)).Equal(RetryBudget)
		})

		g.It("Should retry transport failures with transport backoff and fail with BypassExhausted on the last attempt", func() {
			connectionErr := errors.New("connection reset")
			origin := &scriptedOrigin{responses: []scriptedResponse{
				{err: connectionErr},
				{err: connectionErr},
				{err: connectionErr},
			}}
			sleeps := &recordedSleep{}

			_, err := newTestFetcher(origin, sleeps).Fetch(ctx, fetcher.FetchRequest{URL: "http://example.com/a.jpg"})

			g.Assert(errors.Is(err, ErrBypassExhausted)).IsTrue()
			g.Assert(len(origin.requests)).Equal(RetryBudget)
			g.Assert(sleeps.waits).Equal([]time.Duration{transportRetryWait, transportRetryWait})
		})

		g.It("Should recover when a transport failure is followed by success", func() {
			origin := &scriptedOrigin{responses: []scriptedResponse{
				{err: errors.New("connection reset")},
				{statusCode: 200},
			}}
			sleeps := &recordedSleep{}

			response, err := newTestFetcher(origin, sleeps).Fetch(ctx, fetcher.FetchRequest{URL: "http://example.com/a.jpg"})

			g.Assert(err).IsNil()
			g.Assert(response.StatusCode).Equal(200)
			g.Assert(sleeps.waits).Equal([]time.Duration{transportRetryWait})
		})

		g.It("Should follow a 302 redirect without spending retry budget", func() {
			origin := &scriptedOrigin{responses: []scriptedResponse{
				{statusCode: 302, location: "http://cdn.example.com/a.jpg"},
				{statusCode: 403},
				{statusCode: 403},
				{statusCode: 200},
			}}
			sleeps := &recordedSleep{}

			response, err := newTestFetcher(origin, sleeps).Fetch(ctx, fetcher.FetchRequest{URL: "http://example.com/a.jpg"})

			g.Assert(err).IsNil()
			g.Assert(response.StatusCode).Equal(200)
			g.Assert(origin.requests[1]).Equal("http://cdn.example.com/a.jpg")
			// the redirect itself must not have consumed an attempt
			g.Assert(len(origin.requests)).Equal(4)
		})

		g.It("Should fail with RedirectLoop exactly when a sixth redirect would be followed", func() {
			responses := make([]scriptedResponse, 0, MaxRedirects+1)
			for i := 0; i <= MaxRedirects; i++ {
				responses = append(responses, scriptedResponse{statusCode: 302, location: "http://example.com/next"})
			}
			origin := &scriptedOrigin{responses: responses}
			sleeps := &recordedSleep{}

			_, err := newTestFetcher(origin, sleeps).Fetch(ctx, fetcher.FetchRequest{URL: "http://example.com/a.jpg"})

			g.Assert(errors.Is(err, ErrRedirectLoop)).IsTrue()
			g.Assert(len(origin.requests)).Equal(MaxRedirects + 1)
		})

		g.It("Should treat a 302 without Location header as success", func() {
			origin := &scriptedOrigin{responses: []scriptedResponse{
				{statusCode: 302},
			}}
			sleeps := &recordedSleep{}

			response, err := newTestFetcher(origin, sleeps).Fetch(ctx, fetcher.FetchRequest{URL: "http://example.com/a.jpg"})

			g.Assert(err).IsNil()
			g.Assert(response.StatusCode).Equal(302)
		})

		g.It("Should return any other status as success including 503", func() {
			origin := &scriptedOrigin{responses: []scriptedResponse{
				{statusCode: 503},
			}}
			sleeps := &recordedSleep{}

			response, err := newTestFetcher(origin, sleeps).Fetch(ctx, fetcher.FetchRequest{URL: "http://example.com/a.jpg"})

			g.Assert(err).IsNil()
			g.Assert(response.StatusCode).Equal(503)
		})
	})

	g.Describe("nextTransition", func() {
		g.It("Should keep redirect count and retry budget independent", func() {
			rs := retryState{attemptsLeft: RetryBudget, redirectCount: 4}

			response := fetcher.OriginResponse{StatusCode: 302, Headers: http.Header{"Location": {"http://example.com/next"}}}
			tr := nextTransition(response, nil, rs)

			g.Assert(tr.next == stateRedirecting).IsTrue()
			g.Assert(tr.location).Equal("http://example.com/next")
		})

		g.It("Should fail with RedirectLoop once the redirect budget is spent", func() {
			rs := retryState{attemptsLeft: RetryBudget, redirectCount: MaxRedirects}

			response := fetcher.OriginResponse{StatusCode: 302, Headers: http.Header{"Location": {"http://example.com/next"}}}
			tr := nextTransition(response, nil, rs)

			g.Assert(tr.next == stateFailed).IsTrue()
			g.Assert(errors.Is(tr.failure, ErrRedirectLoop)).IsTrue()
		})

		g.It("Should wait one second before transport retries and two seconds before blocked retries", func() {
			rs := retryState{attemptsLeft: 1}

			transportTr := nextTransition(fetcher.OriginResponse{}, fetcher.ErrTransport, rs)
			g.Assert(transportTr.wait).Equal(transportRetryWait)

			blockedTr := nextTransition(fetcher.OriginResponse{StatusCode: 403}, nil, rs)
			g.Assert(blockedTr.wait).Equal(blockedRetryWait)
		})
	})
}
