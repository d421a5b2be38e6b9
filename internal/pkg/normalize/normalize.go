// Package normalize maps loosely-structured provider payloads into the one
// canonical product schema. The transform is pure and total: it performs no
// I/O, never panics, and every field it cannot resolve gets a deterministic
// unspecified default. All provider-specific quirks are confined here.
package normalize

import (
	"strings"
	"time"

	"cloud.google.com/go/civil"

	"github.com/piyushpill-ai/banking-tracker/internal/pkg/model"
)

// ProductID reads a listing entry's product identifier.
func ProductID(doc model.RawDocument) string {
	return firstString([]model.RawDocument{doc}, "productId", "productID", "id")
}

// Normalize builds one canonical record from a listing document and, when
// the detail fetch succeeded, the matching detail document. Pass a nil
// detail for a listing-only record: the result keeps the listing-stage
// fields and marks the record partial.
func Normalize(sourceID string, listing, detail model.RawDocument, retrievedAt time.Time) model.ProductRecord {
	chain := []model.RawDocument{detail, listing}

	record := model.ProductRecord{
		SourceID:       sourceID,
		// the listing is authoritative for the id: it is how the product was found
		ProductID:      firstString([]model.RawDocument{listing, detail}, "productId", "productID", "id"),
		Name:           firstString(chain, "name", "productName"),
		Category:       firstString(chain, "productCategory", "category"),
		Description:    firstString(chain, "description"),
		ApplicationURL: firstString(chain, "applicationUri", "applicationUrl"),
		RetrievedAt:    retrievedAt,
		PartialData:    detail == nil,
	}

	record.Rates = extractRates(detail, listing)
	record.Purpose, record.Repayment = aggregateLabels(record.Rates)
	record.Fees = extractFees(detail)
	record.Features = extractFeatures(detail, listing)
	record.MinPrincipal, record.MaxPrincipal = principalBounds(detail)

	if updated := firstString(chain, "lastUpdated", "lastUpdateTime"); updated != "" {
		if t, err := time.Parse(time.RFC3339, updated); err == nil {
			record.LastUpdated = civil.DateOf(t)
		}
	}

	return record
}

// MatchesCategory reports whether a listing entry is in scope: a
// case-insensitive substring match of any vocabulary term against the
// product's category, name or description.
func MatchesCategory(doc model.RawDocument, terms []string) bool {
	haystack := strings.ToLower(
		firstString([]model.RawDocument{doc}, "productCategory", "category") + " " +
			firstString([]model.RawDocument{doc}, "name", "productName") + " " +
			firstString([]model.RawDocument{doc}, "description"))
	for _, term := range terms {
		if strings.Contains(haystack, strings.ToLower(term)) {
			return true
		}
	}
	return false
}

// principalBounds reads min/max loan amounts from constraint entries whose
// type names both a bound and an amount-like quantity.
func principalBounds(detail model.RawDocument) (min, max *float64) {
	for _, c := range firstArray([]model.RawDocument{detail}, "constraints") {
		kind := canonicalToken(firstString([]model.RawDocument{c}, "constraintType", "type"))
		if !strings.Contains(kind, "LIMIT") && !strings.Contains(kind, "AMOUNT") && !strings.Contains(kind, "BALANCE") {
			continue
		}
		value, ok := firstNumber([]model.RawDocument{c}, "additionalValue", "value")
		if !ok {
			continue
		}
		v := value
		switch {
		case strings.Contains(kind, "MIN"):
			if min == nil {
				min = &v
			}
		case strings.Contains(kind, "MAX"):
			if max == nil {
				max = &v
			}
		}
	}
	return min, max
}
