package main

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/piyushpill-ai/banking-tracker/internal/app/collector"
	"github.com/piyushpill-ai/banking-tracker/internal/pkg/config"
	"github.com/piyushpill-ai/banking-tracker/internal/pkg/fetch"
	"github.com/piyushpill-ai/banking-tracker/internal/pkg/registry"
	"github.com/piyushpill-ai/banking-tracker/internal/pkg/store"
)

func main() {
	logger, err := zap.NewDevelopment()
	noErr(err)
	defer logger.Sync() //nolint:errcheck

	cfg, err := config.Load()
	noErr(err)

	reg, err := loadRegistry(cfg)
	noErr(err)

	fetcher := fetch.NewClient(cfg.RequestTimeout, cfg.GlobalHTTPConcurrency)
	svc := collector.NewService(fetcher, collector.Config{
		SourceConcurrency:   cfg.SourceConcurrency,
		DetailConcurrency:   cfg.DetailConcurrency,
		CategoryTerms:       cfg.CategoryTerms,
		ReferencePrincipals: cfg.ReferencePrincipals,
	}, logger.Named("Collector Svc"))

	ctx := context.Background()
	report := svc.Run(ctx, reg.List())

	summary := report.Summarize()
	logger.Info("run summary",
		zap.Int("records", summary.TotalRecords),
		zap.Int("sourcesSucceeded", summary.SourcesSucceeded),
		zap.Int("sourcesFailed", summary.SourcesFailed),
		zap.Float64("withRatePct", summary.WithRatePct),
		zap.Float64("offsetPct", summary.OffsetPct),
		zap.Float64("redrawPct", summary.RedrawPct))

	if cfg.DatabaseURL == "" {
		logger.Info("no DATABASE_URL configured, skipping persistence")
		return
	}

	pool, err := store.Connect(ctx, cfg.DatabaseURL)
	noErr(err)
	defer pool.Close()

	pgStore := store.NewPostgres(pool, logger.Named("PG Store"))
	noErr(pgStore.EnsureSchema(ctx))
	noErr(pgStore.SaveRun(ctx, uuid.New(), report.AllRecords(), report.AllOutcomes()))
}

func loadRegistry(cfg config.Config) (*registry.Registry, error) {
	if cfg.SourcesFile != "" {
		return registry.LoadFile(cfg.SourcesFile)
	}
	return registry.LoadDefault()
}

func noErr(err error) {
	if err != nil {
		panic("failed to initialize something important: " + err.Error())
	}
}
