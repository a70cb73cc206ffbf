// Scheduler dispatch loop.
package daemon

import (
	"context"
	"time"

	"socialmcp/internal/calendar"
	"socialmcp/internal/platform"
	"socialmcp/internal/social"
)

// DefaultLoopInterval is the default interval between dispatch checks.
const DefaultLoopInterval = 30 * time.Second

// Publisher publishes a post to a set of platforms. *platform.Registry
// satisfies it.
type Publisher interface {
	Publish(ctx context.Context, post social.Post, platforms []social.Platform) []social.PostResult
}

var _ Publisher = (*platform.Registry)(nil)

// LoopOptions configures the dispatch loop.
type LoopOptions struct {
	StateRoot string
	Registry  Publisher
	Interval  time.Duration // Loop interval (default 30s)
	StopChan  chan struct{}
	Now       func() time.Time // Clock override for testing (default time.Now)
}

func (opts LoopOptions) now() time.Time {
	if opts.Now != nil {
		return opts.Now()
	}
	return time.Now()
}

// DispatchDue performs a single dispatch cycle. It finds pending calendar
// entries whose scheduled time has passed, publishes each to its platform,
// and records the outcome. A failed entry keeps its error message so the
// calendar shows why it did not go out.
func DispatchDue(ctx context.Context, opts LoopOptions) error {
	due, err := calendar.FindDue(opts.StateRoot, opts.now())
	if err != nil {
		return err
	}

	for _, entry := range due {
		results := opts.Registry.Publish(ctx, entry.Post, []social.Platform{entry.Platform})
		if len(results) == 0 {
			continue
		}

		result := results[0]
		if result.Success {
			if err := calendar.UpdateStatus(opts.StateRoot, entry.ID, calendar.StatusPosted, ""); err != nil {
				return err
			}
			continue
		}

		if err := calendar.UpdateStatus(opts.StateRoot, entry.ID, calendar.StatusFailed, result.Error); err != nil {
			return err
		}
	}

	return nil
}

// RunLoop runs the dispatch loop at the configured interval.
// It stops when the StopChan is closed.
func RunLoop(ctx context.Context, opts LoopOptions) {
	interval := opts.Interval
	if interval == 0 {
		interval = DefaultLoopInterval
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	// Run initial check immediately
	_ = DispatchDue(ctx, opts) // G104: errors don't stop the loop

	for {
		select {
		case <-opts.StopChan:
			return
		case <-ctx.Done():
			return
		case <-ticker.C:
			_ = DispatchDue(ctx, opts) // G104: errors don't stop the loop
		}
	}
}
