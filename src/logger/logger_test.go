package logger

import (
	"sync"
	"testing"

	"github.com/rs/zerolog"
)

func TestGetLogger(t *testing.T) {
	if GetLogger() == nil {
		t.Fatalf("GetLogger() = nil, expected a non-nil logger")
	}

	var wg sync.WaitGroup
	for routine := 0; routine < 2; routine++ {
		wg.Add(1)
		go func(routine int) {
			defer wg.Done()
			for i := 0; i < 1000; i++ {
				if GetLogger() == nil {
					t.Errorf("GetLogger() = nil in goroutine %d", routine)
					return
				}
			}
		}(routine)
	}
	wg.Wait()
}

func TestParseLevel(t *testing.T) {
	cases := []struct {
		in   string
		want zerolog.Level
	}{
		{"debug", zerolog.DebugLevel},
		{"WARN", zerolog.WarnLevel},
		{"error", zerolog.ErrorLevel},
		{"", zerolog.InfoLevel},
		{"nonsense", zerolog.InfoLevel},
	}
	for _, c := range cases {
		if got := ParseLevel(c.in); got != c.want {
			t.Errorf("ParseLevel(%q) = %v, expected %v", c.in, got, c.want)
		}
	}
}

type countingHook struct {
	mu    sync.Mutex
	count int
}

func (h *countingHook) Run(_ *zerolog.Event, _ zerolog.Level, _ string) {
	h.mu.Lock()
	h.count++
	h.mu.Unlock()
}

func TestComponentCarriesHook(t *testing.T) {
	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	saved := *GetLogger()
	defer func() { Log = saved }()

	h := &countingHook{}
	AddHook(h)
	log := Component("test")
	log.Info().Msg("hello")
	log.Debug().Msg("filtered")

	h.mu.Lock()
	defer h.mu.Unlock()
	if h.count != 1 {
		t.Errorf("hook ran %d times, expected 1", h.count)
	}
}
