package normalize

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/piyushpill-ai/banking-tracker/internal/pkg/model"
)

func TestClassifyFee(t *testing.T) {
	cases := []struct {
		category string
		name     string
		want     model.FeeCategory
	}{
		{"UPFRONT", "Application Fee", model.FeeOrigination},
		{"", "Application Fee", model.FeeOrigination},
		{"", "Loan establishment fee", model.FeeOrigination},
		{"EXIT", "Anything", model.FeeExit},
		{"", "Early termination fee", model.FeeExit},
		{"", "Discharge administration", model.FeeExit},
		{"PERIODIC", "Annual package fee", model.FeeOngoingAnnual},
		{"PERIODIC", "Monthly service fee", model.FeeOngoingMonthly},
		{"", "Settlement attendance fee", model.FeeSettlement},
		{"", "Property valuation", model.FeeValuation},
		// "settlement" is more specific than "application" and is checked first
		{"", "Application settlement fee", model.FeeSettlement},
		{"EVENT", "Late payment", model.FeeOther},
		{"", "", model.FeeOther},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, ClassifyFee(c.category, c.name), "category=%q name=%q", c.category, c.name)
	}
}

// Canonical labels must classify back into their own bucket, so that
// re-normalizing already-normalized output is a no-op.
func TestClassifyFeeCanonicalLabelsRoundTrip(t *testing.T) {
	categories := []model.FeeCategory{
		model.FeeOrigination,
		model.FeeOngoingAnnual,
		model.FeeOngoingMonthly,
		model.FeeExit,
		model.FeeValuation,
		model.FeeSettlement,
		model.FeeOther,
	}
	for _, cat := range categories {
		// the name carries no classification keywords on purpose
		assert.Equal(t, cat, ClassifyFee(string(cat), "Package fee"), "category %q", cat)
	}
}

func TestCanonicalRateLabelsRoundTrip(t *testing.T) {
	for _, kind := range []model.RateKind{model.RateVariable, model.RateFixed, model.RateUnspecified} {
		assert.Equal(t, kind, rateKind(string(kind)))
	}
	for _, p := range []model.LoanPurpose{model.PurposeInvestment, model.PurposeOwnerOccupied, model.PurposeBoth, model.PurposeUnspecified} {
		assert.Equal(t, p, loanPurpose(string(p)))
	}
	for _, m := range []model.RepaymentMode{model.RepayPrincipalAndInterest, model.RepayInterestOnly, model.RepayBoth, model.RepayUnspecified} {
		assert.Equal(t, m, repaymentMode(string(m)))
	}
}

func TestClassifyFeeIsDeterministic(t *testing.T) {
	for i := 0; i < 10; i++ {
		require.Equal(t, model.FeeOrigination, ClassifyFee("UPFRONT", "Application Fee"))
	}
}

func TestExtractFees(t *testing.T) {
	detail := model.RawDocument{
		"fees": []interface{}{
			map[string]interface{}{"feeType": "UPFRONT", "name": "Application Fee", "amount": 600.0},
			map[string]interface{}{"feeType": "PERIODIC", "name": "Annual package fee", "amount": "395"},
			map[string]interface{}{"name": "Rate lock fee", "balanceRate": 0.0015},
			map[string]interface{}{"name": "Mystery fee"}, // neither amount nor rate
		},
	}

	fees := extractFees(detail)
	require.Len(t, fees, 3)

	assert.Equal(t, model.FeeOrigination, fees[0].Category)
	require.NotNil(t, fees[0].Amount)
	assert.Equal(t, 600.0, *fees[0].Amount)
	assert.Nil(t, fees[0].Rate)
	assert.Equal(t, "once", fees[0].Frequency)

	assert.Equal(t, model.FeeOngoingAnnual, fees[1].Category)
	require.NotNil(t, fees[1].Amount)
	assert.Equal(t, 395.0, *fees[1].Amount)
	assert.Equal(t, "annual", fees[1].Frequency)

	assert.Equal(t, model.FeeOther, fees[2].Category)
	assert.Nil(t, fees[2].Amount)
	require.NotNil(t, fees[2].Rate)
	assert.InDelta(t, 0.0015, *fees[2].Rate, 1e-12)
	assert.Equal(t, "Rate lock fee", fees[2].Name)
}

func TestExtractFeesEmpty(t *testing.T) {
	assert.Nil(t, extractFees(nil))
	assert.Nil(t, extractFees(model.RawDocument{}))
}
