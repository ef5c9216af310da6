package console

import (
	"context"
	"time"
)

// Poller re-checks a condition on a fixed interval a bounded number of
// times. It backs the post-action status convergence after start, stop and
// restart: the backend acknowledges immediately but flips its reported state
// a little later, so the status card re-fetches until the state settles or
// the attempts run out. Running out is not an error; the next periodic
// refresh will catch up.
type Poller struct {
	interval time.Duration
	maxTries int
}

func NewPoller(interval time.Duration, maxTries int) *Poller {
	if interval <= 0 {
		interval = time.Second
	}
	if maxTries <= 0 {
		maxTries = 1
	}
	return &Poller{interval: interval, maxTries: maxTries}
}

// Until calls check every interval until it reports done, the attempt budget
// is spent, or the context ends. Check errors do not abort the loop; a flaky
// fetch mid-convergence should not end the watch early.
func (p *Poller) Until(ctx context.Context, check func(ctx context.Context) (bool, error)) {
	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for attempt := 0; attempt < p.maxTries; attempt++ {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
		if done, err := check(ctx); err == nil && done {
			return
		}
	}
}
