package timer

import (
	"context"
	"errors"
	"time"

	"liftsched/src/logger"
)

var ErrReadyTimeout = errors.New("timed out waiting for readiness")

// WaitReady blocks until ready is closed, ctx is done or timeout expires.
func WaitReady(ctx context.Context, ready <-chan struct{}, timeout time.Duration) error {
	t := time.NewTimer(timeout)
	defer t.Stop()

	select {
	case <-ready:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		logger.GetLogger().Debug().Dur("timeout", timeout).Msg("Readiness wait timed out")
		return ErrReadyTimeout
	}
}
