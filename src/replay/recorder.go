package replay

import (
	"io"
	"sync"

	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"
)

type Command struct {
	Elevator  int  `yaml:"elevator"`
	Floor     int  `yaml:"floor"`
	Immediate bool `yaml:"immediate,omitempty"`
}

// Recorder is a movement sink that logs and keeps every command.
type Recorder struct {
	log zerolog.Logger

	mu       sync.Mutex
	commands []Command
}

func NewRecorder(log zerolog.Logger) *Recorder {
	return &Recorder{log: log}
}

func (r *Recorder) GoToFloor(elevatorID, floor int, immediate bool) {
	r.mu.Lock()
	r.commands = append(r.commands, Command{Elevator: elevatorID, Floor: floor, Immediate: immediate})
	r.mu.Unlock()
	r.log.Info().Int("elevator", elevatorID).Int("floor", floor).Bool("immediate", immediate).Msg("Go to floor")
}

func (r *Recorder) Commands() []Command {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Command, len(r.commands))
	copy(out, r.commands)
	return out
}

// WriteYAML writes the recorded commands as a YAML list.
func (r *Recorder) WriteYAML(w io.Writer) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(r.Commands()); err != nil {
		return err
	}
	return enc.Close()
}
