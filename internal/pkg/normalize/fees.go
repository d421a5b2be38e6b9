package normalize

import (
	"strings"

	"github.com/piyushpill-ai/banking-tracker/internal/pkg/model"
)

// Fee classification is a pure function of (raw category, raw name): the
// structured feeType wins when it maps unambiguously to one bucket,
// otherwise an ordered keyword table over the display name decides, with
// specific terms checked before generic ones. Unmatched fees land in
// "other" with the raw name preserved for audit.

// feeTypeBuckets are the structured categories that map without ambiguity.
// PERIODIC and EVENT are deliberately absent: they need the name to decide.
// The canonical tokens are included so our own output classifies back into
// the same bucket.
var feeTypeBuckets = map[string]model.FeeCategory{
	"UPFRONT":         model.FeeOrigination,
	"APPLICATION":     model.FeeOrigination,
	"ORIGINATION":     model.FeeOrigination,
	"ANNUAL":          model.FeeOngoingAnnual,
	"ONGOING_ANNUAL":  model.FeeOngoingAnnual,
	"MONTHLY":         model.FeeOngoingMonthly,
	"ONGOING_MONTHLY": model.FeeOngoingMonthly,
	"EXIT":            model.FeeExit,
	"TERMINATION":     model.FeeExit,
	"VALUATION":       model.FeeValuation,
	"SETTLEMENT":      model.FeeSettlement,
}

// feeNameKeywords is evaluated in order; first hit wins.
var feeNameKeywords = []struct {
	keyword string
	bucket  model.FeeCategory
}{
	{"settlement", model.FeeSettlement},
	{"valuation", model.FeeValuation},
	{"establishment", model.FeeOrigination},
	{"application", model.FeeOrigination},
	{"origination", model.FeeOrigination},
	{"upfront", model.FeeOrigination},
	{"discharge", model.FeeExit},
	{"termination", model.FeeExit},
	{"exit", model.FeeExit},
	{"break", model.FeeExit},
	{"annual", model.FeeOngoingAnnual},
	{"yearly", model.FeeOngoingAnnual},
	{"monthly", model.FeeOngoingMonthly},
	{"service", model.FeeOngoingMonthly},
}

// ClassifyFee buckets one fee from its structured category and display name.
func ClassifyFee(rawCategory, rawName string) model.FeeCategory {
	if bucket, ok := feeTypeBuckets[canonicalToken(rawCategory)]; ok {
		return bucket
	}
	name := strings.ToLower(rawName)
	for _, rule := range feeNameKeywords {
		if strings.Contains(name, rule.keyword) {
			return rule.bucket
		}
	}
	return model.FeeOther
}

// extractFees builds canonical fee entries from the detail document. Amount
// (currency) and rate (fraction) are mutually exclusive, amount first; a fee
// carrying neither is dropped.
func extractFees(detail model.RawDocument) []model.FeeEntry {
	rawFees := firstArray([]model.RawDocument{detail}, "fees")
	if len(rawFees) == 0 {
		return nil
	}

	out := make([]model.FeeEntry, 0, len(rawFees))
	for _, raw := range rawFees {
		name := firstString([]model.RawDocument{raw}, "name")
		category := ClassifyFee(firstString([]model.RawDocument{raw}, "feeType", "category"), name)

		entry := model.FeeEntry{Category: category, Name: name}
		if amount, ok := firstNumber([]model.RawDocument{raw}, "amount"); ok {
			entry.Amount = &amount
		} else if rate, ok := firstNumber([]model.RawDocument{raw}, "balanceRate", "rate", "transactionRate"); ok {
			fraction := asFraction(rate)
			entry.Rate = &fraction
		} else {
			continue
		}

		entry.Frequency = feeFrequency(category, raw)
		out = append(out, entry)
	}
	return out
}

func feeFrequency(category model.FeeCategory, raw model.RawDocument) string {
	switch category {
	case model.FeeOrigination, model.FeeValuation, model.FeeSettlement, model.FeeExit:
		return "once"
	case model.FeeOngoingAnnual:
		return "annual"
	case model.FeeOngoingMonthly:
		return "monthly"
	default:
		if freq := firstString([]model.RawDocument{raw}, "accrualFrequency", "additionalValue"); freq != "" {
			return freq
		}
		return ""
	}
}
