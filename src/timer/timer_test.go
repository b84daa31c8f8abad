package timer

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestWaitReady(t *testing.T) {
	closed := make(chan struct{})
	close(closed)

	cancelled, cancel := context.WithCancel(context.Background())
	cancel()

	tests := []struct {
		name  string
		ctx   context.Context
		ready chan struct{}
		want  error
	}{
		{"ready", context.Background(), closed, nil},
		{"timeout", context.Background(), make(chan struct{}), ErrReadyTimeout},
		{"cancelled", cancelled, make(chan struct{}), context.Canceled},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := WaitReady(tt.ctx, tt.ready, 20*time.Millisecond)
			if !errors.Is(err, tt.want) {
				t.Errorf("WaitReady = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestWaitReadyWakesOnSignal(t *testing.T) {
	ready := make(chan struct{})
	go func() {
		time.Sleep(10 * time.Millisecond)
		close(ready)
	}()
	start := time.Now()
	if err := WaitReady(context.Background(), ready, time.Minute); err != nil {
		t.Fatalf("WaitReady = %v", err)
	}
	if time.Since(start) > 5*time.Second {
		t.Error("WaitReady did not return promptly")
	}
}
