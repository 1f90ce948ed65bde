package scheduler

import (
	"context"
	"time"

	"golang.org/x/time/rate"
)

// DefaultMinSpacing is the default minimum time between the start of two
// successive outbound dispatches.
const DefaultMinSpacing = 2 * time.Second

type pacedScheduler struct {
	limiter *rate.Limiter
}

var _ Scheduler = (*pacedScheduler)(nil)

// NewPacedScheduler returns a Scheduler that releases pending dispatches no
// sooner than minSpacing after the previous release. A zero or negative
// spacing releases dispatches immediately, which is what tests use to avoid
// timing flakiness.
func NewPacedScheduler(minSpacing time.Duration) Scheduler {
	if minSpacing <= 0 {
		return &pacedScheduler{rate.NewLimiter(rate.Inf, 1)}
	}

	return &pacedScheduler{rate.NewLimiter(rate.Every(minSpacing), 1)}
}

func (s *pacedScheduler) Schedule(ctx context.Context, fn func() error) error {
	if err := s.limiter.Wait(ctx); err != nil {
		return err
	}

	return fn()
}
