package model

import (
	"fmt"
	"time"

	"cloud.google.com/go/civil"
)

const (
	RateVariable    RateKind = "variable"
	RateFixed       RateKind = "fixed"
	RateUnspecified RateKind = "unspecified"

	PurposeInvestment    LoanPurpose = "investment"
	PurposeOwnerOccupied LoanPurpose = "owner-occupied"
	PurposeBoth          LoanPurpose = "both"
	PurposeUnspecified   LoanPurpose = "unspecified"

	RepayPrincipalAndInterest RepaymentMode = "principal-and-interest"
	RepayInterestOnly         RepaymentMode = "interest-only"
	RepayBoth                 RepaymentMode = "both"
	RepayUnspecified          RepaymentMode = "unspecified"

	FeeOrigination    FeeCategory = "origination"
	FeeOngoingAnnual  FeeCategory = "ongoing-annual"
	FeeOngoingMonthly FeeCategory = "ongoing-monthly"
	FeeExit           FeeCategory = "exit"
	FeeValuation      FeeCategory = "valuation"
	FeeSettlement     FeeCategory = "settlement"
	FeeOther          FeeCategory = "other"
)

type RateKind string
type LoanPurpose string
type RepaymentMode string
type FeeCategory string

// PrincipalTier is a loan-amount band within which a rate applies.
type PrincipalTier struct {
	Name string
	Min  float64
	Max  float64
}

// RateEntry is one canonical lending rate. Rate is always a fraction
// (0.0624 means 6.24%); formatting as a percentage is a presentation
// concern and never stored.
type RateEntry struct {
	Kind           RateKind
	TermMonths     int // fixed-only; 0 means unspecified
	Purpose        LoanPurpose
	Repayment      RepaymentMode
	Rate           float64
	ComparisonRate float64 // 0 when the provider reported none
	Tier           *PrincipalTier
}

// DedupKey identifies rate entries considered duplicates: identical
// (kind, term, purpose, repayment, tier) collapse to the first-seen entry.
func (r RateEntry) DedupKey() string {
	key := fmt.Sprintf("%s|%d|%s|%s", r.Kind, r.TermMonths, r.Purpose, r.Repayment)
	if r.Tier != nil {
		key += fmt.Sprintf("|%g-%g", r.Tier.Min, r.Tier.Max)
	}
	return key
}

// FeeEntry is one canonical fee. Amount (currency) and Rate (fraction) are
// mutually exclusive; the unset one is nil.
type FeeEntry struct {
	Category  FeeCategory
	Name      string // raw provider name, kept for audit
	Amount    *float64
	Rate      *float64
	Frequency string
}

// FeatureSet carries the boolean product flags plus any free-text features
// not covered by a flag.
type FeatureSet struct {
	Offset          bool
	Redraw          bool
	SplitLoan       bool
	Construction    bool
	ExtraRepayments bool
	Other           []string
}

// Repayment is a derived monthly payment for one reference principal.
type Repayment struct {
	Principal float64
	Monthly   float64
}

// ProductRecord is the normalized, schema-stable representation of one
// product. (SourceID, ProductID) is the unique key. Records are append-only:
// produced once per run and never mutated after hand-off.
type ProductRecord struct {
	SourceID    string
	ProductID   string
	Name        string
	Category    string
	Description string

	Rates     []RateEntry
	Fees      []FeeEntry
	Features  FeatureSet
	Purpose   LoanPurpose
	Repayment RepaymentMode

	MinPrincipal *float64
	MaxPrincipal *float64

	// Repayments is nil when no usable rate exists; absence is distinct
	// from a zero payment.
	Repayments []Repayment

	ApplicationURL string
	LastUpdated    civil.Date // provider-reported; zero when absent
	RetrievedAt    time.Time

	// PartialData marks a record whose detail fetch failed: listing-stage
	// fields are present, detail-stage fields are unspecified.
	PartialData bool
}

// Key returns the unique (source, product) identity of the record.
func (p ProductRecord) Key() string {
	return p.SourceID + "/" + p.ProductID
}
