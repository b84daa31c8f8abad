package config

import (
	"errors"
	"fmt"
	"time"
)

const (
	StrategyCost = "cost"
	StrategyScan = "scan"
	StrategyBus  = "bus"
)

const (
	DefaultStrategy      = StrategyCost
	DefaultWTime         = 2.0
	DefaultWMismatch     = 1000.0
	DefaultWStops        = 10.0
	DefaultWLoad         = 500.0
	DefaultWEnergy       = 5.0
	DefaultTicksPerFloor = 7.0

	DefaultScanTimePerFloor = 5.0
	DefaultScanLoadPenalty  = 20.0
	DefaultScanWaitBonus    = 0.5

	NoParkingFloor = -1

	DefaultTelemetryAddr   = "localhost:8001"
	DefaultViewerTimeout   = 30 * time.Second
	DefaultTelemetryBuffer = 256
	DefaultLogLevel        = "info"
	RunIDLength            = 8
)

// Policy holds the static dispatch configuration. Weights are never
// changed while a run is in progress.
type Policy struct {
	Strategy      string  `yaml:"strategy"`
	WTime         float64 `yaml:"w_time"`
	WMismatch     float64 `yaml:"w_mismatch"`
	WStops        float64 `yaml:"w_stops"`
	WLoad         float64 `yaml:"w_load"`
	WEnergy       float64 `yaml:"w_energy"`
	TicksPerFloor float64 `yaml:"ticks_per_floor"`

	ScanTimePerFloor float64 `yaml:"scan_time_per_floor"`
	ScanLoadPenalty  float64 `yaml:"scan_load_penalty"`
	ScanWaitBonus    float64 `yaml:"scan_wait_bonus"`

	SpreadStart  bool `yaml:"spread_start"`
	ParkingFloor int  `yaml:"parking_floor"`
	SkipWhenFull bool `yaml:"skip_when_full"`
}

type Telemetry struct {
	Enabled       bool          `yaml:"enabled"`
	Addr          string        `yaml:"addr"`
	WaitForViewer bool          `yaml:"wait_for_viewer"`
	ViewerTimeout time.Duration `yaml:"viewer_timeout"`
	Buffer        int           `yaml:"buffer"`
}

type Log struct {
	Level string `yaml:"level"`
	File  string `yaml:"file"`
}

type Config struct {
	RunID     string    `yaml:"run_id"`
	Policy    Policy    `yaml:"policy"`
	Telemetry Telemetry `yaml:"telemetry"`
	Log       Log       `yaml:"log"`
}

func Default() Config {
	return Config{
		Policy: Policy{
			Strategy:         DefaultStrategy,
			WTime:            DefaultWTime,
			WMismatch:        DefaultWMismatch,
			WStops:           DefaultWStops,
			WLoad:            DefaultWLoad,
			WEnergy:          DefaultWEnergy,
			TicksPerFloor:    DefaultTicksPerFloor,
			ScanTimePerFloor: DefaultScanTimePerFloor,
			ScanLoadPenalty:  DefaultScanLoadPenalty,
			ScanWaitBonus:    DefaultScanWaitBonus,
			SpreadStart:      true,
			ParkingFloor:     NoParkingFloor,
			SkipWhenFull:     true,
		},
		Telemetry: Telemetry{
			Addr:          DefaultTelemetryAddr,
			ViewerTimeout: DefaultViewerTimeout,
			Buffer:        DefaultTelemetryBuffer,
		},
		Log: Log{Level: DefaultLogLevel},
	}
}

var ErrInvalidConfig = errors.New("invalid config")

func (p Policy) Validate() error {
	switch p.Strategy {
	case StrategyCost, StrategyScan, StrategyBus:
	default:
		return fmt.Errorf("%w: unknown strategy %q", ErrInvalidConfig, p.Strategy)
	}
	weights := map[string]float64{
		"w_time":              p.WTime,
		"w_mismatch":          p.WMismatch,
		"w_stops":             p.WStops,
		"w_load":              p.WLoad,
		"w_energy":            p.WEnergy,
		"ticks_per_floor":     p.TicksPerFloor,
		"scan_time_per_floor": p.ScanTimePerFloor,
		"scan_load_penalty":   p.ScanLoadPenalty,
		"scan_wait_bonus":     p.ScanWaitBonus,
	}
	for name, w := range weights {
		if w < 0 {
			return fmt.Errorf("%w: %s must not be negative (got %v)", ErrInvalidConfig, name, w)
		}
	}
	if p.ParkingFloor < NoParkingFloor {
		return fmt.Errorf("%w: parking_floor %d", ErrInvalidConfig, p.ParkingFloor)
	}
	return nil
}

func (c Config) Validate() error {
	if err := c.Policy.Validate(); err != nil {
		return err
	}
	if c.Telemetry.Buffer <= 0 {
		return fmt.Errorf("%w: telemetry buffer must be positive", ErrInvalidConfig)
	}
	if c.Telemetry.WaitForViewer && c.Telemetry.ViewerTimeout <= 0 {
		return fmt.Errorf("%w: viewer_timeout must be positive when waiting for a viewer", ErrInvalidConfig)
	}
	return nil
}
