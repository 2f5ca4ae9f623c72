package intervention

import (
	"context"

	"github.com/stc-ops/fieldops/internal/mapping"
	"github.com/stc-ops/fieldops/internal/shared/errors"
)

// WardResolver resolves a ward to its geographic parents. A miss is
// (nil, nil); only real lookup failures return an error.
type WardResolver interface {
	Resolve(ctx context.Context, ward string) (*mapping.WardMapping, error)
}

// enrich fills the ticket's scoping fields from the ward mapping. Uniform
// failure policy: a resolver error aborts the write, a resolver miss leaves
// the scoping fields unset and the write proceeds.
func enrich(ctx context.Context, resolver WardResolver, iv *Intervention) error {
	if iv.Ward == "" || resolver == nil {
		return nil
	}

	m, err := resolver.Resolve(ctx, iv.Ward)
	if err != nil {
		return errors.Wrap(err, "ward lookup failed")
	}
	if m == nil {
		return nil
	}

	iv.Zone = m.Zone
	iv.District = m.District
	iv.PC = m.PC
	if iv.Constituency == "" {
		iv.Constituency = m.Constituency
	}
	return nil
}
