// Package collector runs the fetch-and-normalize pipeline: one task per
// source under a bounded pool, each task isolated from the others. Results
// are merged through a single receiver, so no two tasks ever write the same
// structure concurrently.
package collector

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/piyushpill-ai/banking-tracker/internal/pkg/aggregate"
	"github.com/piyushpill-ai/banking-tracker/internal/pkg/amortize"
	"github.com/piyushpill-ai/banking-tracker/internal/pkg/fetch"
	"github.com/piyushpill-ai/banking-tracker/internal/pkg/model"
	"github.com/piyushpill-ai/banking-tracker/internal/pkg/normalize"
)

// Fetcher is the provider-facing dependency of the collector.
type Fetcher interface {
	FetchListing(ctx context.Context, src model.SourceDescriptor) (model.RawListing, []model.FetchAttempt, error)
	FetchDetail(ctx context.Context, src model.SourceDescriptor, productID string) (model.RawDetail, []model.FetchAttempt, error)
}

var _ Fetcher = &fetch.Client{}

// Config carries the collector's concurrency bounds and selection rules.
type Config struct {
	SourceConcurrency   int
	DetailConcurrency   int
	CategoryTerms       []string
	ReferencePrincipals []float64
}

type Service struct {
	fetcher Fetcher
	cfg     Config
	logger  *zap.Logger
}

func NewService(fetcher Fetcher, cfg Config, logger *zap.Logger) *Service {
	return &Service{
		fetcher: fetcher,
		cfg:     cfg,
		logger:  logger,
	}
}

type sourceResult struct {
	records []model.ProductRecord
	outcome model.FetchOutcome
}

// Run works every source and returns the merged report. A failing source
// only affects its own outcome; results arrive in completion order and the
// merge does not care.
func (s *Service) Run(ctx context.Context, sources []model.SourceDescriptor) *aggregate.Report {
	report := aggregate.NewReport()
	results := make(chan sourceResult)

	done := make(chan struct{})
	go func() {
		defer close(done)
		for res := range results {
			report.Add(res.records, res.outcome)
		}
	}()

	g := &errgroup.Group{}
	g.SetLimit(s.cfg.SourceConcurrency)
	for _, src := range sources {
		src := src
		g.Go(func() error {
			results <- s.collectSource(ctx, src)
			// errors never propagate between source tasks
			return nil
		})
	}

	_ = g.Wait()
	close(results)
	<-done

	s.logger.Info("all sources finished",
		zap.Int("sources", len(sources)),
		zap.Int("records", len(report.AllRecords())))
	return report
}

// collectSource runs the whole pipeline for one source: listing, category
// filter, detail fetches, normalization, derived metrics.
func (s *Service) collectSource(ctx context.Context, src model.SourceDescriptor) (res sourceResult) {
	logger := s.logger.With(zap.String("source", src.ID))
	start := time.Now()

	defer func() {
		if r := recover(); r != nil {
			logger.Error("source task panicked", zap.Any("panic", r))
			res = sourceResult{outcome: model.FetchOutcome{
				SourceID: src.ID,
				Class:    model.FailureMalformed,
				Duration: time.Since(start),
				Attempts: []model.FetchAttempt{{Class: model.FailureMalformed, Err: fmt.Sprint(r)}},
			}}
		}
	}()

	listing, attempts, err := s.fetcher.FetchListing(ctx, src)
	if err != nil {
		logger.Warn("listing fetch failed",
			zap.String("class", string(fetch.Classify(err))),
			zap.Int("attempts", len(attempts)),
			zap.Error(err))
		return sourceResult{outcome: model.FetchOutcome{
			SourceID: src.ID,
			Class:    fetch.Classify(err),
			Duration: time.Since(start),
			Attempts: attempts,
		}}
	}

	matched := selectProducts(listing.Products, s.cfg.CategoryTerms)
	logger.Debug("listing fetched",
		zap.Int("products", len(listing.Products)),
		zap.Int("matched", len(matched)))

	details := s.fetchDetails(ctx, src, matched)

	retrievedAt := time.Now()
	records := make([]model.ProductRecord, 0, len(matched))
	partial := 0
	for i, doc := range matched {
		record := normalize.Normalize(src.ID, doc, details[i], retrievedAt)
		record = amortize.Enrich(record, s.cfg.ReferencePrincipals)
		if record.PartialData {
			partial++
		}
		records = append(records, record)
	}

	outcome := model.FetchOutcome{
		SourceID:          src.ID,
		Success:           true,
		Class:             model.FailureNone,
		NegotiatedVersion: fetch.NegotiatedVersion(attempts),
		ProductsAttempted: len(matched),
		ProductsSucceeded: len(matched) - partial,
		PartialProducts:   partial,
		Duration:          time.Since(start),
		Attempts:          attempts,
	}
	if partial > 0 {
		outcome.Class = model.FailurePartialDetail
	}

	logger.Info("source collected",
		zap.Int("records", len(records)),
		zap.Int("partial", partial),
		zap.Duration("took", outcome.Duration))
	return sourceResult{records: records, outcome: outcome}
}

// fetchDetails runs the bounded per-source detail sub-pool. The returned
// slice is index-aligned with products; a nil entry means the detail fetch
// failed and the product degrades to a listing-only record.
func (s *Service) fetchDetails(ctx context.Context, src model.SourceDescriptor, products []model.RawDocument) []model.RawDocument {
	details := make([]model.RawDocument, len(products))

	g := &errgroup.Group{}
	g.SetLimit(s.cfg.DetailConcurrency)
	for i, doc := range products {
		i, doc := i, doc
		productID := normalize.ProductID(doc)
		g.Go(func() error {
			detail, _, err := s.fetcher.FetchDetail(ctx, src, productID)
			if err != nil {
				// partial data beats no data: the listing-only record
				// survives
				s.logger.Debug("detail fetch failed",
					zap.String("source", src.ID),
					zap.String("product", productID),
					zap.String("class", string(fetch.Classify(err))))
				return nil
			}
			details[i] = detail.Document
			return nil
		})
	}
	_ = g.Wait()
	return details
}

// selectProducts applies the category vocabulary filter, deterministic and
// order-preserving. Entries with no resolvable product id are dropped: they
// cannot form a unique (source, product) key.
func selectProducts(products []model.RawDocument, terms []string) []model.RawDocument {
	out := make([]model.RawDocument, 0, len(products))
	for _, doc := range products {
		if normalize.ProductID(doc) == "" {
			continue
		}
		if normalize.MatchesCategory(doc, terms) {
			out = append(out, doc)
		}
	}
	return out
}
