package normalize

import (
	"testing"
	"time"

	"cloud.google.com/go/civil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/piyushpill-ai/banking-tracker/internal/pkg/model"
)

func sampleListing() model.RawDocument {
	return model.RawDocument{
		"productId":       "basic-home-loan",
		"name":            "Basic Home Loan",
		"productCategory": "RESIDENTIAL_MORTGAGES",
		"description":     "A no-frills variable rate home loan.",
	}
}

func sampleDetail() model.RawDocument {
	return model.RawDocument{
		"productId":      "basic-home-loan",
		"name":           "Basic Home Loan",
		"applicationUri": "https://example.com/apply",
		"lastUpdated":    "2026-08-01T09:30:00Z",
		"lendingRates": []interface{}{
			map[string]interface{}{
				"lendingRateType": "VARIABLE",
				"rate":            0.0612,
				"comparisonRate":  0.0619,
				"loanPurpose":     "OWNER_OCCUPIED",
				"repaymentType":   "PRINCIPAL_AND_INTEREST",
			},
			map[string]interface{}{
				"lendingRateType": "FIXED",
				"rate":            0.0585,
				"additionalValue": "P2Y",
				"loanPurpose":     "INVESTMENT",
				"repaymentType":   "INTEREST_ONLY",
			},
		},
		"fees": []interface{}{
			map[string]interface{}{"feeType": "UPFRONT", "name": "Application Fee", "amount": 600.0},
		},
		"features": []interface{}{
			map[string]interface{}{"featureType": "REDRAW"},
		},
		"constraints": []interface{}{
			map[string]interface{}{"constraintType": "MIN_LIMIT", "additionalValue": "50000"},
			map[string]interface{}{"constraintType": "MAX_LIMIT", "additionalValue": "2000000"},
		},
	}
}

func TestNormalizeFullRecord(t *testing.T) {
	retrieved := time.Date(2026, 8, 28, 10, 0, 0, 0, time.UTC)
	record := Normalize("anz", sampleListing(), sampleDetail(), retrieved)

	assert.Equal(t, "anz", record.SourceID)
	assert.Equal(t, "basic-home-loan", record.ProductID)
	assert.Equal(t, "anz/basic-home-loan", record.Key())
	assert.Equal(t, "Basic Home Loan", record.Name)
	assert.Equal(t, "RESIDENTIAL_MORTGAGES", record.Category)
	assert.Equal(t, "https://example.com/apply", record.ApplicationURL)
	assert.False(t, record.PartialData)
	assert.Equal(t, retrieved, record.RetrievedAt)
	assert.Equal(t, civil.Date{Year: 2026, Month: time.August, Day: 1}, record.LastUpdated)

	require.Len(t, record.Rates, 2)
	assert.Equal(t, model.RateVariable, record.Rates[0].Kind)
	assert.Equal(t, 0.0612, record.Rates[0].Rate)
	assert.Equal(t, 0.0619, record.Rates[0].ComparisonRate)
	assert.Equal(t, model.RateFixed, record.Rates[1].Kind)
	assert.Equal(t, 24, record.Rates[1].TermMonths)

	// one owner-occupied and one investment entry: the product serves both
	assert.Equal(t, model.PurposeBoth, record.Purpose)
	assert.Equal(t, model.RepayBoth, record.Repayment)

	require.Len(t, record.Fees, 1)
	assert.Equal(t, model.FeeOrigination, record.Fees[0].Category)

	assert.True(t, record.Features.Redraw)
	assert.False(t, record.Features.Offset)

	require.NotNil(t, record.MinPrincipal)
	require.NotNil(t, record.MaxPrincipal)
	assert.Equal(t, 50000.0, *record.MinPrincipal)
	assert.Equal(t, 2000000.0, *record.MaxPrincipal)
}

func TestNormalizeListingOnly(t *testing.T) {
	record := Normalize("anz", sampleListing(), nil, time.Now())

	assert.True(t, record.PartialData)
	assert.Equal(t, "basic-home-loan", record.ProductID)
	assert.Equal(t, "Basic Home Loan", record.Name)
	assert.Empty(t, record.Rates)
	assert.Empty(t, record.Fees)
	assert.Equal(t, model.PurposeUnspecified, record.Purpose)
	assert.Nil(t, record.MinPrincipal)
}

func TestNormalizeIsDeterministic(t *testing.T) {
	retrieved := time.Date(2026, 8, 28, 10, 0, 0, 0, time.UTC)
	a := Normalize("anz", sampleListing(), sampleDetail(), retrieved)
	b := Normalize("anz", sampleListing(), sampleDetail(), retrieved)
	assert.Equal(t, a, b)
}

func TestNormalizeNeverPanicsOnGarbage(t *testing.T) {
	garbage := model.RawDocument{
		"lendingRates": "not-an-array",
		"fees":         []interface{}{"not-an-object", 42},
		"features":     []interface{}{map[string]interface{}{"featureType": 7}},
		"constraints":  []interface{}{map[string]interface{}{"constraintType": "MIN_LIMIT"}},
		"lastUpdated":  "yesterday",
	}

	assert.NotPanics(t, func() {
		record := Normalize("anz", model.RawDocument{"productId": "x"}, garbage, time.Now())
		assert.Equal(t, "x", record.ProductID)
		assert.Equal(t, civil.Date{}, record.LastUpdated)
	})
}

func TestProductID(t *testing.T) {
	assert.Equal(t, "p1", ProductID(model.RawDocument{"productId": "p1"}))
	assert.Equal(t, "p2", ProductID(model.RawDocument{"id": "p2"}))
	assert.Equal(t, "", ProductID(model.RawDocument{}))
}

func TestMatchesCategory(t *testing.T) {
	terms := []string{"residential", "mortgage", "home loan", "home"}

	assert.True(t, MatchesCategory(model.RawDocument{"productCategory": "RESIDENTIAL_MORTGAGES"}, terms))
	assert.True(t, MatchesCategory(model.RawDocument{"name": "Fixed Home Loan Special"}, terms))
	assert.True(t, MatchesCategory(model.RawDocument{"description": "Buy your first home sooner."}, terms))
	assert.False(t, MatchesCategory(model.RawDocument{"productCategory": "CRED_AND_CHRG_CARDS", "name": "Low Rate Card"}, terms))
	assert.False(t, MatchesCategory(model.RawDocument{"name": "Everyday Account"}, nil))
}
