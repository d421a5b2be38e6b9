// Package amortize derives repayment metrics from canonical rates using the
// standard annuity formula over a fixed 30-year schedule.
package amortize

import (
	"math"

	"github.com/piyushpill-ai/banking-tracker/internal/pkg/model"
)

// termMonths is the fixed amortization policy: 30 years of monthly payments.
const termMonths = 360

// BestRate selects the rate used for repayment estimation: the first
// variable rate if any, else the shortest-term fixed rate, else nothing.
// Zero and negative rates are never selected.
func BestRate(record model.ProductRecord) (float64, bool) {
	for _, r := range record.Rates {
		if r.Kind == model.RateVariable && r.Rate > 0 {
			return r.Rate, true
		}
	}

	best := 0.0
	bestTerm := 0
	for _, r := range record.Rates {
		if r.Kind != model.RateFixed || r.Rate <= 0 || r.TermMonths <= 0 {
			continue
		}
		if bestTerm == 0 || r.TermMonths < bestTerm {
			best, bestTerm = r.Rate, r.TermMonths
		}
	}
	if bestTerm > 0 {
		return best, true
	}
	return 0, false
}

// MonthlyPayment computes the fixed monthly payment for principal P at the
// given annual rate (fraction): M = P*r*(1+r)^n / ((1+r)^n - 1) with
// r = annualRate/12 and n = 360.
func MonthlyPayment(principal, annualRate float64) float64 {
	r := annualRate / 12
	growth := math.Pow(1+r, termMonths)
	return principal * r * growth / (growth - 1)
}

// Enrich returns the record with derived repayments for each reference
// principal. When no valid rate exists the repayments stay absent — never
// zero, which would conflate "no data" with "free money".
func Enrich(record model.ProductRecord, principals []float64) model.ProductRecord {
	rate, ok := BestRate(record)
	if !ok {
		return record
	}

	repayments := make([]model.Repayment, 0, len(principals))
	for _, p := range principals {
		repayments = append(repayments, model.Repayment{
			Principal: p,
			Monthly:   MonthlyPayment(p, rate),
		})
	}
	record.Repayments = repayments
	return record
}
