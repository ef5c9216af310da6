package console

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestPollerStopsWhenDone(t *testing.T) {
	t.Parallel()

	poller := NewPoller(5*time.Millisecond, 10)

	checks := 0
	poller.Until(context.Background(), func(ctx context.Context) (bool, error) {
		checks++
		return checks == 3, nil
	})

	assert.Equal(t, 3, checks)
}

func TestPollerGivesUpAfterBudget(t *testing.T) {
	t.Parallel()

	poller := NewPoller(time.Millisecond, 4)

	checks := 0
	poller.Until(context.Background(), func(ctx context.Context) (bool, error) {
		checks++
		return false, nil
	})

	assert.Equal(t, 4, checks, "giving up is silent and bounded")
}

func TestPollerSurvivesCheckErrors(t *testing.T) {
	t.Parallel()

	poller := NewPoller(time.Millisecond, 10)

	checks := 0
	poller.Until(context.Background(), func(ctx context.Context) (bool, error) {
		checks++
		if checks < 3 {
			return true, errors.New("flaky fetch")
		}
		return true, nil
	})

	assert.Equal(t, 3, checks, "an error must not end the watch")
}

func TestPollerHonorsContext(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	poller := NewPoller(time.Millisecond, 100)

	checks := 0
	poller.Until(ctx, func(ctx context.Context) (bool, error) {
		checks++
		return false, nil
	})

	assert.Zero(t, checks)
}
