package model

import "time"

// FailureClass buckets everything that can go wrong talking to a provider.
type FailureClass string

const (
	FailureNone FailureClass = "ok"
	// FailureNetwork: connection failure or timeout on an HTTP call.
	FailureNetwork FailureClass = "network"
	// FailureVersionUnsupported: the provider rejected the attempted x-v
	// value; retryable with a different version.
	FailureVersionUnsupported FailureClass = "version_unsupported"
	// FailureNotFound: the entity does not exist; terminal for that fetch.
	FailureNotFound FailureClass = "not_found"
	// FailureMalformed: non-JSON body or missing envelope keys.
	FailureMalformed FailureClass = "malformed_response"
	// FailurePartialDetail: listing succeeded but a detail fetch failed;
	// the record is retained with unspecified detail fields.
	FailurePartialDetail FailureClass = "partial_detail"
)

// FetchAttempt records one request of a version cascade: which version was
// tried and how the provider answered. Attempts replace console logging
// inside the fetcher; callers decide what to surface.
type FetchAttempt struct {
	Version string
	Status  int // 0 when the request never completed
	Class   FailureClass
	Err     string
}

// FetchOutcome summarizes one source's run.
type FetchOutcome struct {
	SourceID          string
	Success           bool
	Class             FailureClass
	NegotiatedVersion string
	ProductsAttempted int
	ProductsSucceeded int
	PartialProducts   int
	Duration          time.Duration
	Attempts          []FetchAttempt
}
