package amortize

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/piyushpill-ai/banking-tracker/internal/pkg/model"
)

func TestMonthlyPayment(t *testing.T) {
	// 500k at 6% over 30 years is the textbook example: 2997.75/month
	got := MonthlyPayment(500000, 0.06)
	assert.InDelta(t, 2997.75, got, 0.01)

	// the annuity identity: paying M for 360 months at monthly rate r
	// amortizes the principal exactly
	principal, annual := 300000.0, 0.0585
	m := MonthlyPayment(principal, annual)
	r := annual / 12
	balance := principal
	for i := 0; i < 360; i++ {
		balance = balance*(1+r) - m
	}
	assert.InDelta(t, 0, balance, principal*1e-6)
}

func TestMonthlyPaymentScalesLinearly(t *testing.T) {
	small := MonthlyPayment(300000, 0.0612)
	large := MonthlyPayment(600000, 0.0612)
	assert.InDelta(t, 2*small, large, 1e-6)
}

func TestBestRatePrefersVariable(t *testing.T) {
	record := model.ProductRecord{Rates: []model.RateEntry{
		{Kind: model.RateFixed, TermMonths: 12, Rate: 0.055},
		{Kind: model.RateVariable, Rate: 0.0612},
		{Kind: model.RateVariable, Rate: 0.0599},
	}}

	rate, ok := BestRate(record)
	require.True(t, ok)
	assert.Equal(t, 0.0612, rate)
}

func TestBestRateFallsBackToShortestFixed(t *testing.T) {
	record := model.ProductRecord{Rates: []model.RateEntry{
		{Kind: model.RateFixed, TermMonths: 60, Rate: 0.0570},
		{Kind: model.RateFixed, TermMonths: 12, Rate: 0.0592},
		{Kind: model.RateFixed, TermMonths: 24, Rate: 0.0585},
	}}

	rate, ok := BestRate(record)
	require.True(t, ok)
	assert.Equal(t, 0.0592, rate)
}

func TestBestRateSkipsUnusableEntries(t *testing.T) {
	record := model.ProductRecord{Rates: []model.RateEntry{
		{Kind: model.RateVariable, Rate: 0},
		{Kind: model.RateFixed, TermMonths: 0, Rate: 0.055},
		{Kind: model.RateUnspecified, Rate: 0.06},
	}}

	_, ok := BestRate(record)
	assert.False(t, ok)
}

func TestEnrich(t *testing.T) {
	record := model.ProductRecord{Rates: []model.RateEntry{
		{Kind: model.RateVariable, Rate: 0.06},
	}}

	enriched := Enrich(record, []float64{300000, 500000, 750000})
	require.Len(t, enriched.Repayments, 3)
	assert.Equal(t, 500000.0, enriched.Repayments[1].Principal)
	assert.InDelta(t, 2997.75, enriched.Repayments[1].Monthly, 0.01)

	// the input record is left untouched
	assert.Nil(t, record.Repayments)
}

func TestEnrichWithoutUsableRate(t *testing.T) {
	record := model.ProductRecord{}
	enriched := Enrich(record, []float64{300000})
	assert.Nil(t, enriched.Repayments)
}
