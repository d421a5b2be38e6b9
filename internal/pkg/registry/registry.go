// Package registry holds the static list of data-provider descriptors. The
// list is externally maintained; a default set of CDR register endpoints is
// embedded so a run works out of the box. No network access happens here.
package registry

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"net/url"
	"os"

	"github.com/piyushpill-ai/banking-tracker/internal/pkg/model"
)

//go:embed sources.json
var defaultSources []byte

// ErrNotFound is returned by Get for an unknown source id.
var ErrNotFound = fmt.Errorf("source not found")

type Registry struct {
	byID  map[string]model.SourceDescriptor
	order []string // preserves file order for List
}

// Load builds a registry from a JSON descriptor array, validating ids,
// endpoint URLs and version candidates. Duplicated ids are rejected rather
// than silently merged.
func Load(raw []byte) (*Registry, error) {
	var sources []model.SourceDescriptor
	if err := json.Unmarshal(raw, &sources); err != nil {
		return nil, fmt.Errorf("failed to parse source list: %w", err)
	}

	r := &Registry{byID: make(map[string]model.SourceDescriptor, len(sources))}
	for _, src := range sources {
		if err := validate(src); err != nil {
			return nil, fmt.Errorf("invalid source %q: %w", src.ID, err)
		}
		if _, dup := r.byID[src.ID]; dup {
			return nil, fmt.Errorf("duplicate source id %q", src.ID)
		}
		r.byID[src.ID] = src
		r.order = append(r.order, src.ID)
	}
	return r, nil
}

// LoadDefault loads the embedded source list.
func LoadDefault() (*Registry, error) {
	return Load(defaultSources)
}

// LoadFile loads a source list from an external JSON file.
func LoadFile(path string) (*Registry, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read source list %s: %w", path, err)
	}
	return Load(raw)
}

// List returns all active sources in file order.
func (r *Registry) List() []model.SourceDescriptor {
	out := make([]model.SourceDescriptor, 0, len(r.order))
	for _, id := range r.order {
		if src := r.byID[id]; src.Active {
			out = append(out, src)
		}
	}
	return out
}

// Get returns the descriptor for id, active or not.
func (r *Registry) Get(id string) (model.SourceDescriptor, error) {
	src, ok := r.byID[id]
	if !ok {
		return model.SourceDescriptor{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return src, nil
}

func validate(src model.SourceDescriptor) error {
	if src.ID == "" {
		return fmt.Errorf("empty id")
	}
	if src.Name == "" {
		return fmt.Errorf("empty name")
	}
	u, err := url.Parse(src.ProductsURL)
	if err != nil {
		return fmt.Errorf("bad products url: %w", err)
	}
	if u.Scheme != "https" && u.Scheme != "http" {
		return fmt.Errorf("products url must be http(s), got %q", src.ProductsURL)
	}
	if len(src.Versions) == 0 {
		return fmt.Errorf("no candidate protocol versions")
	}
	return nil
}
