package normalize

import (
	"github.com/piyushpill-ai/banking-tracker/internal/pkg/model"
)

// extractRates builds the canonical rate entries from the detail document,
// falling back to the listing's own rate array when no detail is available.
// A rate carrying principal tiers is split into one entry per tier; entries
// identical in (kind, term, purpose, repayment, tier) collapse to the
// first-seen value.
func extractRates(detail, listing model.RawDocument) []model.RateEntry {
	rawRates := firstArray([]model.RawDocument{detail, listing}, "lendingRates", "rates", "rate")
	if len(rawRates) == 0 {
		return nil
	}

	seen := make(map[string]bool, len(rawRates))
	var out []model.RateEntry
	for _, raw := range rawRates {
		for _, entry := range rateEntries(raw) {
			key := entry.DedupKey()
			if seen[key] {
				continue
			}
			seen[key] = true
			out = append(out, entry)
		}
	}
	return out
}

// rateEntries maps one raw lending-rate object to canonical entries, one per
// principal tier (or a single untiered entry).
func rateEntries(raw model.RawDocument) []model.RateEntry {
	value, ok := firstNumber([]model.RawDocument{raw}, "rate", "value")
	if !ok {
		return nil
	}

	base := model.RateEntry{
		Kind:      rateKind(firstString([]model.RawDocument{raw}, "lendingRateType", "rateType", "kind")),
		Purpose:   loanPurpose(firstString([]model.RawDocument{raw}, "loanPurpose", "purpose")),
		Repayment: repaymentMode(firstString([]model.RawDocument{raw}, "repaymentType", "repayment")),
		Rate:      asFraction(value),
	}
	if cmp, ok := firstNumber([]model.RawDocument{raw}, "comparisonRate"); ok {
		base.ComparisonRate = asFraction(cmp)
	}

	if base.Kind == model.RateFixed {
		base.TermMonths = fixedTerm(raw)
	}

	tiers := firstArray([]model.RawDocument{raw}, "tiers")
	if len(tiers) == 0 {
		return []model.RateEntry{base}
	}

	out := make([]model.RateEntry, 0, len(tiers))
	for _, t := range tiers {
		entry := base
		tier := model.PrincipalTier{
			Name: firstString([]model.RawDocument{t}, "name"),
		}
		tier.Min, _ = firstNumber([]model.RawDocument{t}, "minimumValue", "min")
		tier.Max, _ = firstNumber([]model.RawDocument{t}, "maximumValue", "max")
		entry.Tier = &tier
		out = append(out, entry)
	}
	return out
}

// fixedTerm reads the fixed term from the period shorthand, falling back to
// a plain month count some aggregators use.
func fixedTerm(raw model.RawDocument) int {
	if months := ParsePeriodMonths(firstString([]model.RawDocument{raw}, "additionalValue", "period")); months > 0 {
		return months
	}
	if months, ok := firstNumber([]model.RawDocument{raw}, "period", "termMonths"); ok && months > 0 {
		return int(months)
	}
	return 0
}

func rateKind(s string) model.RateKind {
	switch canonicalToken(s) {
	case "VARIABLE", "FLOATING":
		return model.RateVariable
	case "FIXED":
		return model.RateFixed
	default:
		return model.RateUnspecified
	}
}

func loanPurpose(s string) model.LoanPurpose {
	switch canonicalToken(s) {
	case "INVESTMENT", "INVESTOR":
		return model.PurposeInvestment
	case "OWNER_OCCUPIED", "OWNER_OCCUPIER":
		return model.PurposeOwnerOccupied
	case "ALL", "BOTH":
		return model.PurposeBoth
	default:
		return model.PurposeUnspecified
	}
}

func repaymentMode(s string) model.RepaymentMode {
	switch canonicalToken(s) {
	case "PRINCIPAL_AND_INTEREST", "P_AND_I":
		return model.RepayPrincipalAndInterest
	case "INTEREST_ONLY":
		return model.RepayInterestOnly
	case "ALL", "BOTH":
		return model.RepayBoth
	default:
		return model.RepayUnspecified
	}
}

// asFraction normalizes a rate figure to a fraction. Most providers follow
// the standard and send fractions (0.0624), a few send percent figures
// (6.24); anything above 1 cannot be a plausible fraction for a lending
// rate, so it is read as percent.
func asFraction(v float64) float64 {
	if v > 1 {
		return v / 100
	}
	return v
}

// aggregateLabels derives the product-level purpose and repayment mode from
// the observed rate entries: the single value when only one distinct value
// is present, "both" when more than one, "unspecified" when none.
func aggregateLabels(rates []model.RateEntry) (model.LoanPurpose, model.RepaymentMode) {
	purposes := make(map[model.LoanPurpose]bool)
	repayments := make(map[model.RepaymentMode]bool)
	for _, r := range rates {
		if r.Purpose != model.PurposeUnspecified {
			purposes[r.Purpose] = true
		}
		if r.Repayment != model.RepayUnspecified {
			repayments[r.Repayment] = true
		}
	}

	purpose := model.PurposeUnspecified
	switch {
	case len(purposes) > 1 || purposes[model.PurposeBoth]:
		purpose = model.PurposeBoth
	case len(purposes) == 1:
		for p := range purposes {
			purpose = p
		}
	}

	repayment := model.RepayUnspecified
	switch {
	case len(repayments) > 1 || repayments[model.RepayBoth]:
		repayment = model.RepayBoth
	case len(repayments) == 1:
		for r := range repayments {
			repayment = r
		}
	}
	return purpose, repayment
}
