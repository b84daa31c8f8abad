package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"liftsched/src/config"
	"liftsched/src/dispatcher"
	"liftsched/src/logger"
	"liftsched/src/replay"
	"liftsched/src/telemetry"
	"liftsched/src/timer"
)

type options struct {
	configPath    string
	envPath       string
	tracePath     string
	strategy      string
	logFile       string
	logLevel      string
	telemetryAddr string
	waitViewer    bool
	commandsOut   string
}

func main() {
	var opts options
	flag.StringVar(&opts.configPath, "config", "", "YAML config file")
	flag.StringVar(&opts.envPath, "env", ".env", "env file with LIFTSCHED_* overrides")
	flag.StringVar(&opts.tracePath, "trace", "", "event trace to replay")
	flag.StringVar(&opts.strategy, "strategy", "", "dispatch strategy: cost, scan or bus")
	flag.StringVar(&opts.logFile, "log", "", "also write logs to this file")
	flag.StringVar(&opts.logLevel, "log-level", "", "log level")
	flag.StringVar(&opts.telemetryAddr, "telemetry", "", "serve telemetry on this address")
	flag.BoolVar(&opts.waitViewer, "wait-viewer", false, "wait for a telemetry viewer before replaying")
	flag.StringVar(&opts.commandsOut, "commands", "", "write issued commands as YAML to this file")
	flag.Parse()

	if err := run(opts); err != nil {
		logger.GetLogger().Error().Err(err).Msg("liftsched failed")
		os.Exit(1)
	}
}

func run(opts options) error {
	cfg, err := config.Load(opts.configPath, opts.envPath)
	if err != nil {
		return err
	}
	applyFlags(&cfg, opts)
	if err := cfg.Validate(); err != nil {
		return err
	}
	if opts.tracePath == "" {
		return errors.New("no trace given, use -trace")
	}

	log, err := logger.Init(logger.ParseLevel(cfg.Log.Level), cfg.Log.File)
	if err != nil {
		return err
	}
	trace, err := replay.Load(opts.tracePath)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	broadcaster := telemetry.NewBroadcaster(cfg.Telemetry.Buffer)
	logger.AddHook(telemetry.LogHook{Publisher: broadcaster})
	bctx, stopBroadcast := context.WithCancel(context.Background())
	defer stopBroadcast()
	broadcastDone := make(chan struct{})
	go func() {
		broadcaster.Run(bctx)
		close(broadcastDone)
	}()

	if cfg.Telemetry.Enabled {
		server, err := telemetry.Listen(cfg.Telemetry.Addr)
		if err != nil {
			return err
		}
		defer server.Close()
		broadcaster.Subscribe(server)
		go func() {
			if err := server.Serve(ctx); err != nil {
				log.Warn().Err(err).Msg("Telemetry server stopped")
			}
		}()
		log.Info().Str("addr", server.Addr().String()).Msg("Telemetry listening")

		if cfg.Telemetry.WaitForViewer {
			broadcaster.Publish(telemetry.Message{Type: telemetry.WaitForConfirmation, Data: cfg.RunID})
			err := timer.WaitReady(ctx, server.Ready(), cfg.Telemetry.ViewerTimeout)
			switch {
			case errors.Is(err, timer.ErrReadyTimeout):
				log.Warn().Dur("timeout", cfg.Telemetry.ViewerTimeout).Msg("No viewer confirmed, replaying anyway")
			case err != nil:
				return err
			}
		}
	}

	log.Info().Str("run", cfg.RunID).Str("trace", opts.tracePath).Str("strategy", cfg.Policy.Strategy).Msg("Starting replay")
	recorder := replay.NewRecorder(logger.Component("mover"))
	d := dispatcher.New(cfg.Policy, recorder, broadcaster, logger.Component("dispatcher"))
	runErr := d.Run(ctx, trace.Stream(ctx))
	metrics := d.Finish()

	stopBroadcast()
	<-broadcastDone

	p := message.NewPrinter(language.English)
	p.Printf("run %s: %d/%d passengers delivered (%.1f%%), %d commands\n",
		cfg.RunID, metrics.CompletedPassengers, metrics.TotalPassengers, metrics.CompletionRate*100, len(recorder.Commands()))
	p.Printf("floor wait avg %.2f p95 %.0f, arrival wait avg %.2f p95 %.0f ticks, %d telemetry messages dropped\n",
		metrics.AverageFloorWait, metrics.P95FloorWait, metrics.AverageArrivalWait, metrics.P95ArrivalWait, broadcaster.Dropped())

	if opts.commandsOut != "" {
		if err := writeCommands(opts.commandsOut, recorder); err != nil {
			return err
		}
	}
	return runErr
}

func applyFlags(cfg *config.Config, opts options) {
	if opts.strategy != "" {
		cfg.Policy.Strategy = opts.strategy
	}
	if opts.logFile != "" {
		cfg.Log.File = opts.logFile
	}
	if opts.logLevel != "" {
		cfg.Log.Level = opts.logLevel
	}
	if opts.telemetryAddr != "" {
		cfg.Telemetry.Enabled = true
		cfg.Telemetry.Addr = opts.telemetryAddr
	}
	if opts.waitViewer {
		cfg.Telemetry.WaitForViewer = true
	}
}

func writeCommands(path string, recorder *replay.Recorder) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer file.Close()
	return recorder.WriteYAML(file)
}
