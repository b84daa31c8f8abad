package config

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/xyproto/randomstring"
	"gopkg.in/yaml.v3"
)

// Keys read from the .env file. They take precedence over the YAML file.
const (
	EnvStrategy      = "LIFTSCHED_STRATEGY"
	EnvParkingFloor  = "LIFTSCHED_PARKING_FLOOR"
	EnvSpreadStart   = "LIFTSCHED_SPREAD_START"
	EnvTelemetryAddr = "LIFTSCHED_TELEMETRY_ADDR"
	EnvWaitViewer    = "LIFTSCHED_WAIT_FOR_VIEWER"
	EnvViewerTimeout = "LIFTSCHED_VIEWER_TIMEOUT"
	EnvLogLevel      = "LIFTSCHED_LOG_LEVEL"
	EnvRunID         = "LIFTSCHED_RUN_ID"
)

// Load builds the configuration from defaults, an optional YAML file and an
// optional .env file, in that order. Empty paths are skipped, and a missing
// .env file is not an error.
func Load(yamlPath, envPath string) (Config, error) {
	cfg := Default()

	if yamlPath != "" {
		file, err := os.Open(yamlPath)
		if err != nil {
			return cfg, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()
		if err := yaml.NewDecoder(file).Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
			return cfg, fmt.Errorf("decode config %s: %w", yamlPath, err)
		}
	}

	if envPath != "" {
		env, err := godotenv.Read(envPath)
		switch {
		case errors.Is(err, fs.ErrNotExist):
		case err != nil:
			return cfg, fmt.Errorf("read env file %s: %w", envPath, err)
		default:
			if err := applyEnv(&cfg, env); err != nil {
				return cfg, err
			}
		}
	}

	if cfg.RunID == "" {
		cfg.RunID = randomstring.EnglishFrequencyString(RunIDLength)
	}
	return cfg, cfg.Validate()
}

func applyEnv(cfg *Config, env map[string]string) error {
	if v, ok := env[EnvStrategy]; ok {
		cfg.Policy.Strategy = v
	}
	if v, ok := env[EnvParkingFloor]; ok {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%w: %s=%q", ErrInvalidConfig, EnvParkingFloor, v)
		}
		cfg.Policy.ParkingFloor = n
	}
	if v, ok := env[EnvSpreadStart]; ok {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("%w: %s=%q", ErrInvalidConfig, EnvSpreadStart, v)
		}
		cfg.Policy.SpreadStart = b
	}
	if v, ok := env[EnvTelemetryAddr]; ok {
		cfg.Telemetry.Enabled = v != ""
		cfg.Telemetry.Addr = v
	}
	if v, ok := env[EnvWaitViewer]; ok {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("%w: %s=%q", ErrInvalidConfig, EnvWaitViewer, v)
		}
		cfg.Telemetry.WaitForViewer = b
	}
	if v, ok := env[EnvViewerTimeout]; ok {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("%w: %s=%q", ErrInvalidConfig, EnvViewerTimeout, v)
		}
		cfg.Telemetry.ViewerTimeout = d
	}
	if v, ok := env[EnvLogLevel]; ok {
		cfg.Log.Level = v
	}
	if v, ok := env[EnvRunID]; ok {
		cfg.RunID = v
	}
	return nil
}
