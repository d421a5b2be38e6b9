// Package aggregate merges per-source results into the run's final
// collection and computes the coverage summary. The merge is commutative:
// callers hand off whole batches in completion order, which is arbitrary.
package aggregate

import (
	"sync"

	"github.com/piyushpill-ai/banking-tracker/internal/pkg/model"
)

// Report is the single shared result sink of a run. Each source task writes
// to it exactly once, through Add.
type Report struct {
	mu       sync.Mutex
	records  []model.ProductRecord
	outcomes []model.FetchOutcome
}

func NewReport() *Report {
	return &Report{}
}

// Add appends one source's whole batch. Records are never mutated after
// hand-off.
func (r *Report) Add(records []model.ProductRecord, outcome model.FetchOutcome) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.records = append(r.records, records...)
	r.outcomes = append(r.outcomes, outcome)
}

// AllRecords returns the merged record collection.
func (r *Report) AllRecords() []model.ProductRecord {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]model.ProductRecord, len(r.records))
	copy(out, r.records)
	return out
}

// AllOutcomes returns every per-source fetch outcome.
func (r *Report) AllOutcomes() []model.FetchOutcome {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]model.FetchOutcome, len(r.outcomes))
	copy(out, r.outcomes)
	return out
}

// Summary holds the aggregate coverage statistics of one run.
type Summary struct {
	TotalRecords     int
	SourcesSucceeded int
	SourcesFailed    int
	PerSourceCounts  map[string]int

	// Coverage percentages over all records, 0-100.
	WithRatePct     float64
	OffsetPct       float64
	RedrawPct       float64
	SplitPct        float64
	ConstructionPct float64
	ExtraRepayPct   float64
}

// Summarize computes coverage statistics without touching any record.
func (r *Report) Summarize() Summary {
	r.mu.Lock()
	defer r.mu.Unlock()

	s := Summary{
		TotalRecords:    len(r.records),
		PerSourceCounts: make(map[string]int),
	}
	for _, o := range r.outcomes {
		if o.Success {
			s.SourcesSucceeded++
		} else {
			s.SourcesFailed++
		}
	}

	var withRate, offset, redraw, split, construction, extra int
	for _, rec := range r.records {
		s.PerSourceCounts[rec.SourceID]++
		if len(rec.Rates) > 0 {
			withRate++
		}
		if rec.Features.Offset {
			offset++
		}
		if rec.Features.Redraw {
			redraw++
		}
		if rec.Features.SplitLoan {
			split++
		}
		if rec.Features.Construction {
			construction++
		}
		if rec.Features.ExtraRepayments {
			extra++
		}
	}

	if len(r.records) > 0 {
		total := float64(len(r.records))
		s.WithRatePct = float64(withRate) / total * 100
		s.OffsetPct = float64(offset) / total * 100
		s.RedrawPct = float64(redraw) / total * 100
		s.SplitPct = float64(split) / total * 100
		s.ConstructionPct = float64(construction) / total * 100
		s.ExtraRepayPct = float64(extra) / total * 100
	}
	return s
}
