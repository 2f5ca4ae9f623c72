package mapping

import (
	"fmt"

	"github.com/stc-ops/fieldops/internal/shared/types"
)

// WardMapping links a municipal ward to its geographic parents. Used as
// reference data: intervention writes resolve the ward to auto-fill their
// scoping fields.
type WardMapping struct {
	ID           types.ID `json:"id"`
	Ward         string   `json:"ward"`
	Constituency string   `json:"constituency,omitempty"`
	Zone         string   `json:"zone,omitempty"`
	District     string   `json:"district,omitempty"`
	PC           string   `json:"pc,omitempty"`
}

// NewWardMapping creates a ward mapping entry.
func NewWardMapping(ward, constituency, zone, district, pc string) (*WardMapping, error) {
	if ward == "" {
		return nil, fmt.Errorf("ward is required")
	}
	return &WardMapping{
		ID:           types.NewID(),
		Ward:         ward,
		Constituency: constituency,
		Zone:         zone,
		District:     district,
		PC:           pc,
	}, nil
}

type CreateMappingRequest struct {
	Ward         string `json:"ward" validate:"required"`
	Constituency string `json:"constituency"`
	Zone         string `json:"zone"`
	District     string `json:"district"`
	PC           string `json:"pc"`
}
