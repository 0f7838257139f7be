package app

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/spectrumlab/bandplan/internal/bandplan"
)

// Config represents the main application configuration
type Config struct {
	Settings Settings      `yaml:"settings"`
	Channel  ChannelConfig `yaml:"channel"`
	Output   OutputConfig  `yaml:"output"`
	Storage  StorageConfig `yaml:"storage"`
}

// Settings represents global application settings
type Settings struct {
	LogLevel string `yaml:"logLevel"`
}

// Level maps the configured log level name to a slog level,
// defaulting to info for unknown values.
func (s Settings) Level() slog.Level {
	switch strings.ToLower(s.LogLevel) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// ChannelConfig describes the channel model and the placement parameters
// for one band plan instance.
type ChannelConfig struct {
	ChannelBandwidth float64  `yaml:"channelBandwidth"`
	NBins            int      `yaml:"nBins"`
	NSignals         int      `yaml:"nSignals"`
	MinSNRdB         float64  `yaml:"minSnrDb"`
	MaxSNRdB         float64  `yaml:"maxSnrDb"`
	SignalTypes      []string `yaml:"signalTypes"`
	Seed             *int64   `yaml:"seed"`
	MaxSignalBins    int      `yaml:"maxSignalBins"`
	MaxTries         int      `yaml:"maxTries"`
}

// Params converts the channel configuration into generation parameters.
func (c ChannelConfig) Params() bandplan.Params {
	return bandplan.Params{
		ChannelBandwidth: c.ChannelBandwidth,
		NBins:            c.NBins,
		NSignals:         c.NSignals,
		MinSNR:           c.MinSNRdB,
		MaxSNR:           c.MaxSNRdB,
		SignalTypes:      c.SignalTypes,
		MaxSignalBins:    c.MaxSignalBins,
		MaxTries:         c.MaxTries,
		Seed:             c.Seed,
	}
}

// OutputConfig represents plan output settings
type OutputConfig struct {
	Directory string `yaml:"directory"`
	Plans     int    `yaml:"plans"`
}

// StorageConfig represents catalog settings. An empty path disables the
// catalog; plans are then only written as JSON files.
type StorageConfig struct {
	CatalogPath string `yaml:"catalogPath"`
}

// LoadConfig reads and validates the YAML configuration file at path.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading configuration: %w", err)
	}

	config := Config{
		Output: OutputConfig{
			Plans: 1,
		},
	}
	if err = yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("parsing configuration: %w", err)
	}

	if config.Output.Plans < 1 {
		return nil, fmt.Errorf("output.plans must be >= 1, got %d", config.Output.Plans)
	}
	if err = config.Channel.Params().Validate(); err != nil {
		return nil, fmt.Errorf("validating channel configuration: %w", err)
	}

	return &config, nil
}
