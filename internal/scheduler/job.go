// Package scheduler runs periodic background syncs through a worker pool.
package scheduler

import "context"

// Job is one unit of background work.
type Job interface {
	// Execute runs the job. The context carries the pool's cancellation and
	// a per-job timeout.
	Execute(ctx context.Context) error

	// UserID identifies whose data the job touches, for logging.
	UserID() string

	// Description names the job kind, for logging.
	Description() string
}
