package model

// RawDocument is a provider payload exactly as returned, with no assumptions
// about its internal shape beyond "JSON object". All field extraction rules
// live in the normalize package.
type RawDocument map[string]interface{}

// RawListing holds the product summaries a source returned for its listing
// endpoint. Consumed immediately by the normalizer and discarded.
type RawListing struct {
	SourceID string
	Products []RawDocument
}

// RawDetail holds one product's detail payload.
type RawDetail struct {
	SourceID  string
	ProductID string
	Document  RawDocument
}
