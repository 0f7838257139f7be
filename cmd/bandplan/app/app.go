package app

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/dustin/go-humanize"

	"github.com/spectrumlab/bandplan/internal/bandplan"
	"github.com/spectrumlab/bandplan/internal/storage"
)

const defaultOutputDir = "plans"

// Run generates the configured number of band plan instances, writes each
// one as a JSON file and, when a catalog is configured, records it there.
func Run(ctx context.Context, config *Config, logger *slog.Logger) error {
	outDir, err := ensureOutputDir(config.Output.Directory)
	if err != nil {
		return err
	}

	var store storage.Store
	if config.Storage.CatalogPath != "" {
		sqliteStore := storage.NewSqliteStore(config.Storage.CatalogPath)
		defer sqliteStore.Close()
		store = sqliteStore
	}

	params := config.Channel.Params()

	fract, suffix := humanize.ComputeSI(params.ChannelBandwidth)
	logger.Info("generating band plans",
		slog.String("channelBandwidth", fmt.Sprintf("%.1f %sHz", fract, suffix)),
		slog.Int("nBins", params.NBins),
		slog.Int("nSignals", params.NSignals),
		slog.Int("plans", config.Output.Plans))

	for i := 0; i < config.Output.Plans; i++ {
		if err := ctx.Err(); err != nil {
			return fmt.Errorf("generation interrupted: %w", err)
		}

		instance := params
		instance.Seed = instanceSeed(params.Seed, i)

		if err := generateOne(ctx, instance, i, outDir, store, logger); err != nil {
			return err
		}
	}

	return nil
}

// instanceSeed derives a per-instance seed from the configured base seed so
// a seeded batch stays reproducible while each plan differs. An unseeded
// batch stays unseeded.
func instanceSeed(base *int64, instance int) *int64 {
	if base == nil {
		return nil
	}
	seed := *base + int64(instance)
	return &seed
}

func generateOne(ctx context.Context, params bandplan.Params, instance int, outDir string, store storage.Store, logger *slog.Logger) error {
	generator, err := bandplan.New(params, bandplan.WithLogger(logger))
	if err != nil {
		return fmt.Errorf("creating generator: %w", err)
	}

	plan, err := generator.Generate()
	if err != nil {
		return fmt.Errorf("generating plan %d: %w", instance, err)
	}

	attrs := []any{
		slog.Int("instance", instance),
		slog.Int("placed", plan.NSignals),
		slog.Int("requested", params.NSignals),
	}
	if plan.NSignals < params.NSignals {
		logger.Warn("plan is partial: try budget exhausted", attrs...)
	} else {
		logger.Info("plan generated", attrs...)
	}

	path := filepath.Join(outDir, fmt.Sprintf("band_plan_%03d.json", instance))
	if err = bandplan.SavePlan(path, plan); err != nil {
		return fmt.Errorf("saving plan %d: %w", instance, err)
	}
	logger.Debug("plan written", slog.String("path", path))

	if store != nil {
		runID, err := store.StorePlan(ctx, plan, storage.RunMeta{
			Seed:   params.Seed,
			Params: params,
		})
		if err != nil {
			return fmt.Errorf("storing plan %d: %w", instance, err)
		}
		logger.Debug("plan recorded in catalog", slog.Int64("runID", runID))
	}

	return nil
}

func ensureOutputDir(dir string) (string, error) {
	if dir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return "", fmt.Errorf("failed to get current working directory: %w", err)
		}
		dir = filepath.Join(wd, defaultOutputDir)
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("creating output directory '%s': %w", dir, err)
	}
	return dir, nil
}
