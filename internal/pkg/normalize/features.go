package normalize

import (
	"strings"

	"github.com/piyushpill-ai/banking-tracker/internal/pkg/model"
)

// Feature detection: structured feature-list entries are authoritative; the
// free-text scan of name and description only fills in flags that have no
// structured entry at all. A structured entry that explicitly deactivates a
// flag keeps it false no matter what the text says.

type featureFlag int

const (
	flagOffset featureFlag = iota
	flagRedraw
	flagSplit
	flagConstruction
	flagExtraRepayments
)

var featureTypeFlags = map[string]featureFlag{
	"OFFSET":                flagOffset,
	"MORTGAGE_OFFSET":       flagOffset,
	"REDRAW":                flagRedraw,
	"REDRAWS":               flagRedraw,
	"SPLIT":                 flagSplit,
	"SPLIT_LOAN":            flagSplit,
	"CONSTRUCTION":          flagConstruction,
	"CONSTRUCTION_LOAN":     flagConstruction,
	"EXTRA_REPAYMENTS":      flagExtraRepayments,
	"ADDITIONAL_REPAYMENTS": flagExtraRepayments,
}

// textKeywords drive the free-text fallback, one keyword list per flag.
var textKeywords = map[featureFlag][]string{
	flagOffset:          {"offset"},
	flagRedraw:          {"redraw"},
	flagSplit:           {"split"},
	flagConstruction:    {"construction", "building"},
	flagExtraRepayments: {"extra repayment", "additional repayment"},
}

func extractFeatures(detail, listing model.RawDocument) model.FeatureSet {
	var set model.FeatureSet
	structured := make(map[featureFlag]bool) // flag has a structured entry

	for _, raw := range firstArray([]model.RawDocument{detail, listing}, "features") {
		featureType := canonicalToken(firstString([]model.RawDocument{raw}, "featureType", "type"))
		flag, known := featureTypeFlags[featureType]
		if !known {
			if name := featureLabel(raw); name != "" {
				set.Other = append(set.Other, name)
			}
			continue
		}

		structured[flag] = true
		// an entry's presence asserts the feature unless it is explicitly
		// switched off
		active := true
		if v, ok := raw["isActivated"].(bool); ok {
			active = v
		}
		setFlag(&set, flag, active)
	}

	// fallback text scan only for flags the structured list said nothing about
	text := strings.ToLower(firstString([]model.RawDocument{detail, listing}, "name") + " " +
		firstString([]model.RawDocument{detail, listing}, "description"))
	for flag, keywords := range textKeywords {
		if structured[flag] {
			continue
		}
		for _, kw := range keywords {
			if strings.Contains(text, kw) {
				setFlag(&set, flag, true)
				break
			}
		}
	}

	return set
}

func setFlag(set *model.FeatureSet, flag featureFlag, v bool) {
	switch flag {
	case flagOffset:
		set.Offset = v
	case flagRedraw:
		set.Redraw = v
	case flagSplit:
		set.SplitLoan = v
	case flagConstruction:
		set.Construction = v
	case flagExtraRepayments:
		set.ExtraRepayments = v
	}
}

// featureLabel renders an unmapped structured feature for the residual list:
// "NOTIFICATIONS" becomes "Notifications", falling back to the description.
func featureLabel(raw model.RawDocument) string {
	if t := firstString([]model.RawDocument{raw}, "featureType", "type"); t != "" {
		words := strings.Split(strings.ToLower(strings.ReplaceAll(t, "_", " ")), " ")
		for i, w := range words {
			if w != "" {
				words[i] = strings.ToUpper(w[:1]) + w[1:]
			}
		}
		return strings.Join(words, " ")
	}
	return firstString([]model.RawDocument{raw}, "description")
}
