package bypass

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/thebartekbanach/imsquash/pkg/fetcher"
)

const (
	// RetryBudget is the total number of fetch attempts one bypass chain
	// may spend. Redirect follows do not consume it.
	RetryBudget = 3

	// MaxRedirects caps redirect follows within one bypass chain. The
	// chain fails when a sixth redirect would be followed.
	MaxRedirects = 5

	transportRetryWait = 1 * time.Second
	blockedRetryWait   = 2 * time.Second
)

// state names the positions of the bypass finite-state machine. The machine
// is an explicit loop with counters instead of recursive re-invocation, so
// stack depth is bounded and transitions are testable in isolation.
type state int

const (
	stateAttempting state = iota
	stateRetryingTransportError
	stateRetryingBlocked
	stateRedirecting
	stateSucceeded
	stateFailed
)

// retryState tracks the budgets of one in-flight bypass chain. It is owned
// exclusively by that chain and never shared across requests. The two
// counters are independent: a redirect does not consume a retry attempt and
// a retry does not advance the redirect count.
type retryState struct {
	attemptsLeft  int
	redirectCount int
}

// transition is the outcome of feeding one attempt result into the machine.
type transition struct {
	next     state
	wait     time.Duration
	failure  error
	location string
}

type sleepFunc func(ctx context.Context, d time.Duration) error

type httpDoFunc func(req *http.Request) (*http.Response, error)

type bypassFetcher struct {
	do    httpDoFunc
	sleep sleepFunc
}

var _ fetcher.Fetcher = (*bypassFetcher)(nil)

// NewBypassFetcher returns the fallback fetch strategy used when the origin
// blocks automated clients. Attempts go over a TLS 1.2+ transport with a
// modern cipher allow-list, optionally through an upstream proxy.
func NewBypassFetcher(upstreamProxy *url.URL) fetcher.Fetcher {
	client := &http.Client{
		Transport: newBypassTransport(upstreamProxy),
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			return http.ErrUseLastResponse
		},
	}

	return &bypassFetcher{
		do:    client.Do,
		sleep: sleepWithContext,
	}
}

func (f *bypassFetcher) Fetch(ctx context.Context, request fetcher.FetchRequest) (fetcher.OriginResponse, error) {
	rs := retryState{attemptsLeft: RetryBudget}

	for {
		response, attemptErr := f.attempt(ctx, request)

		if attemptErr != nil || response.StatusCode == http.StatusForbidden {
			rs.attemptsLeft--
		}

		tr := nextTransition(response, attemptErr, rs)
		logTransition(request.URL, tr, rs)

		switch tr.next {
		case stateSucceeded:
			return response, nil

		case stateFailed:
			return fetcher.OriginResponse{}, tr.failure

		case stateRetryingTransportError, stateRetryingBlocked:
			if err := f.sleep(ctx, tr.wait); err != nil {
				return fetcher.OriginResponse{}, err
			}

		case stateRedirecting:
			request.URL = tr.location
			rs.redirectCount++
		}
	}
}

// nextTransition decides the next machine state from one attempt outcome.
// It is a pure function of (response, error, budgets) so the transition
// table can be unit tested without any network involvement.
func nextTransition(response fetcher.OriginResponse, attemptErr error, rs retryState) transition {
	if attemptErr != nil {
		if rs.attemptsLeft > 0 {
			return transition{next: stateRetryingTransportError, wait: transportRetryWait}
		}

		return transition{next: stateFailed, failure: ErrBypassExhausted}
	}

	switch response.StatusCode {
	case http.StatusForbidden:
		if rs.attemptsLeft > 0 {
			return transition{next: stateRetryingBlocked, wait: blockedRetryWait}
		}

		return transition{next: stateFailed, failure: ErrBlockedByOrigin}

	case http.StatusFound:
		location := response.Headers.Get("Location")
		if location == "" {
			return transition{next: stateSucceeded}
		}

		if rs.redirectCount >= MaxRedirects {
			return transition{next: stateFailed, failure: ErrRedirectLoop}
		}

		return transition{next: stateRedirecting, location: location}

	default:
		// Anything else, 200 included, is handed back to the caller as-is.
		return transition{next: stateSucceeded}
	}
}

func (f *bypassFetcher) attempt(ctx context.Context, request fetcher.FetchRequest) (fetcher.OriginResponse, error) {
	timeout := request.Timeout
	if timeout <= 0 {
		timeout = fetcher.DefaultTimeout
	}

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, request.URL, nil)
	if err != nil {
		return fetcher.OriginResponse{}, fetcher.ErrTransport
	}

	for name, values := range fetcher.FilterRequestHeaders(request.Headers) {
		req.Header[name] = values
	}
	req.Header.Set("User-Agent", fetcher.UserAgent)

	response, err := f.do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return fetcher.OriginResponse{}, fetcher.ErrUpstreamTimeout
		}

		return fetcher.OriginResponse{}, fetcher.ErrTransport
	}
	defer response.Body.Close()

	body, err := io.ReadAll(response.Body)
	if err != nil {
		return fetcher.OriginResponse{}, fetcher.ErrTransport
	}

	return fetcher.OriginResponse{
		StatusCode:      response.StatusCode,
		Headers:         response.Header,
		Body:            body,
		ContentEncoding: response.Header.Get("Content-Encoding"),
	}, nil
}

func logTransition(url string, tr transition, rs retryState) {
	switch tr.next {
	case stateRetryingTransportError, stateRetryingBlocked:
		log.Debug().
			Str("url", url).
			Int("attemptsLeft", rs.attemptsLeft).
			Dur("wait", tr.wait).
			Msg("bypass attempt failed, retrying")

	case stateRedirecting:
		log.Debug().
			Str("url", url).
			Str("location", tr.location).
			Int("redirectCount", rs.redirectCount).
			Msg("bypass following redirect")

	case stateFailed:
		log.Debug().Str("url", url).Err(tr.failure).Msg("bypass chain failed")
	}
}

func sleepWithContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

var (
	// ErrBypassExhausted means the retry budget was spent on transport
	// failures without reaching the origin.
	ErrBypassExhausted = errors.New("bypass retry budget exhausted")

	// ErrBlockedByOrigin means the origin kept responding 403 until the
	// retry budget ran out.
	ErrBlockedByOrigin = errors.New("origin blocked all bypass attempts")

	// ErrRedirectLoop means the redirect budget was exceeded.
	ErrRedirectLoop = errors.New("redirect budget exceeded")
)
