package model

// SourceDescriptor identifies one independently operated data provider.
// Descriptors are loaded once per run and never mutated afterwards.
type SourceDescriptor struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	ProductsURL string   `json:"productsUrl"`
	Versions    []string `json:"versions"` // candidate x-v values, preference order
	Active      bool     `json:"active"`
}
