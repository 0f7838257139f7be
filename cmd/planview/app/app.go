package app

import (
	"context"
	"fmt"
	"image/jpeg"
	"image/png"
	"log/slog"
	"os"

	"github.com/spectrumlab/bandplan/internal/bandplan"
	"github.com/spectrumlab/bandplan/internal/storage"
)

func Run(ctx context.Context, config *Config, logger *slog.Logger) error {
	plan, err := loadPlan(ctx, config)
	if err != nil {
		return err
	}

	logger.Info("rendering band plan",
		slog.Group("image",
			slog.String("destination", config.OutputFile),
			slog.String("format", string(config.Format)),
			slog.String("theme", string(config.Theme)),
			slog.Int("bins", plan.NBins),
			slog.Int("signals", plan.NSignals),
		))

	renderer, err := NewPlanRenderer(RenderConfig{
		Theme:         config.Theme,
		FontFile:      config.FontFile,
		BinWidth:      config.BinWidth,
		ChartHeight:   config.ChartHeight,
		NoAnnotations: config.NoAnnotations,
	})
	if err != nil {
		return fmt.Errorf("creating plan renderer: %w", err)
	}
	defer renderer.Close()

	img, err := renderer.Render(plan)
	if err != nil {
		return fmt.Errorf("rendering plan: %w", err)
	}

	out, err := os.Create(config.OutputFile)
	if err != nil {
		return err
	}
	defer out.Close()

	switch config.Format {
	case ImagePNG:
		err = png.Encode(out, img)

	case ImageJPEG:
		err = jpeg.Encode(out, img, &jpeg.Options{
			Quality: 98,
		})
	}
	return err
}

func loadPlan(ctx context.Context, config *Config) (*bandplan.Plan, error) {
	if config.InputFile != "" {
		plan, err := bandplan.LoadPlan(config.InputFile)
		if err != nil {
			return nil, fmt.Errorf("loading plan from file: %w", err)
		}
		return plan, nil
	}

	if _, err := os.Stat(config.DBPath); err != nil && os.IsNotExist(err) {
		return nil, fmt.Errorf("database file '%s' does not exist: %w", config.DBPath, err)
	}

	store := storage.NewSqliteStore(config.DBPath)
	defer store.Close()

	plan, err := store.LoadPlan(ctx, config.RunID)
	if err != nil {
		return nil, fmt.Errorf("loading plan from catalog: %w", err)
	}
	return plan, nil
}
