package telemetry

import "github.com/rs/zerolog"

// LogHook forwards info and warning logs as server_log messages, and error
// logs as server_error messages.
type LogHook struct {
	Publisher Publisher
}

func (h LogHook) Run(_ *zerolog.Event, level zerolog.Level, msg string) {
	switch {
	case level >= zerolog.ErrorLevel && level <= zerolog.PanicLevel:
		h.Publisher.Publish(Message{Type: Error, Data: msg})
	case level >= zerolog.InfoLevel && level < zerolog.ErrorLevel:
		h.Publisher.Publish(Message{Type: Log, Data: msg})
	}
}
