package main

import (
	"context"
	"testing"

	"github.com/rs/zerolog"

	"liftsched/src/config"
	"liftsched/src/dispatcher"
	"liftsched/src/replay"
	"liftsched/src/telemetry"
)

func TestSampleTrace(t *testing.T) {
	trace, err := replay.Load("../traces/sample.yaml")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	cfg, err := config.Load("../liftsched.example.yaml", "")
	if err != nil {
		t.Fatalf("config: %v", err)
	}

	recorder := replay.NewRecorder(zerolog.Nop())
	d := dispatcher.New(cfg.Policy, recorder, telemetry.Discard{}, zerolog.Nop())
	if err := d.Run(context.Background(), trace.Stream(context.Background())); err != nil {
		t.Fatalf("Run: %v", err)
	}

	want := []replay.Command{
		{Elevator: 0, Floor: 0},
		{Elevator: 0, Floor: 3},
		{Elevator: 0, Floor: 5, Immediate: true},
		{Elevator: 1, Floor: 3},
		{Elevator: 1, Floor: 4},
	}
	got := recorder.Commands()
	if len(got) != len(want) {
		t.Fatalf("commands = %+v, want %+v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("command %d = %+v, want %+v", i, got[i], want[i])
		}
	}

	metrics := d.Finish()
	if metrics.CompletedPassengers != 2 || metrics.CompletionRate != 1 ||
		metrics.AverageFloorWait != 4.5 || metrics.AverageArrivalWait != 9.5 {
		t.Errorf("metrics = %+v", metrics)
	}
}

func TestApplyFlags(t *testing.T) {
	cfg := config.Default()
	applyFlags(&cfg, options{strategy: config.StrategyScan, telemetryAddr: "localhost:9100", waitViewer: true, logLevel: "debug"})
	if cfg.Policy.Strategy != config.StrategyScan || !cfg.Telemetry.Enabled || cfg.Telemetry.Addr != "localhost:9100" ||
		!cfg.Telemetry.WaitForViewer || cfg.Log.Level != "debug" {
		t.Errorf("cfg = %+v", cfg)
	}
}
