package museum

import (
	"context"

	"relic-search/internal/domain/entity"
)

// Adapter runs one museum's search. Implementations translate the generic
// filters into native query parameters and return exactly one page of
// normalized artifacts plus the source's reported total.
//
// When client-side filtering trims a page below what the upstream promised,
// the reported total still reflects the source's unfiltered count. The two
// numbers diverging is accepted: the total is a hint, not a contract.
type Adapter interface {
	Source() entity.Source
	Search(ctx context.Context, filters entity.SearchFilters) (*entity.SourceResult, error)
}

// Status says whether a known source has a working adapter.
type Status int

const (
	StatusImplemented Status = iota
	StatusNotImplemented
)

// Registration ties a source to its adapter, or marks it explicitly
// unimplemented so that skipping it is a deliberate case, not a nil check.
type Registration struct {
	Status  Status
	Adapter Adapter
}

// Registry maps every known source to its registration.
type Registry map[entity.Source]Registration

// NewRegistry builds the default registry from the given adapters. Known
// sources without an adapter are registered as not implemented.
func NewRegistry(adapters ...Adapter) Registry {
	r := make(Registry, len(entity.KnownSources))
	for _, source := range entity.KnownSources {
		r[source] = Registration{Status: StatusNotImplemented}
	}
	for _, a := range adapters {
		r[a.Source()] = Registration{Status: StatusImplemented, Adapter: a}
	}
	return r
}

// Implemented returns the adapters for the requested sources, silently
// skipping sources without a working adapter.
func (r Registry) Implemented(sources []entity.Source) []Adapter {
	var out []Adapter
	for _, s := range sources {
		if reg, ok := r[s]; ok && reg.Status == StatusImplemented {
			out = append(out, reg.Adapter)
		}
	}
	return out
}
