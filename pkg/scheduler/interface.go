package scheduler

import "context"

// Scheduler serializes outbound origin dispatches for the whole process.
// It exists to keep the proxy from hammering origins fast enough to trip
// their anti-bot defenses, so there is deliberately no per-origin
// partitioning, no priority and no cancellation of already queued work.
type Scheduler interface {
	// Schedule blocks until the dispatch is allowed to start, then runs fn
	// and returns its result. Queued dispatches under load wait for an
	// unbounded amount of time; that is a documented limitation, not a bug.
	Schedule(ctx context.Context, fn func() error) error
}
