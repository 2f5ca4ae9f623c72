package survey

import (
	"fmt"
	"time"

	"github.com/stc-ops/fieldops/internal/shared/types"
)

// SurveyKind distinguishes the survey families sharing one table
type SurveyKind string

const (
	KindCaste SurveyKind = "caste"
	KindBooth SurveyKind = "booth"
)

// Valid reports whether the kind is a known survey family.
func (k SurveyKind) Valid() bool {
	return k == KindCaste || k == KindBooth
}

// Survey is a caste survey or booth list record
type Survey struct {
	ID      types.ID   `json:"id"`
	OwnerID types.ID   `json:"owner_id"`
	Kind    SurveyKind `json:"kind"`

	State        string `json:"state,omitempty"`
	Zone         string `json:"zone,omitempty"`
	District     string `json:"district,omitempty"`
	Constituency string `json:"constituency,omitempty"`
	PC           string `json:"pc,omitempty"`
	Booth        string `json:"booth,omitempty"`

	Payload map[string]any `json:"payload,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewSurvey creates a survey record owned by ownerID.
func NewSurvey(ownerID types.ID, req CreateSurveyRequest) (*Survey, error) {
	if ownerID.IsZero() {
		return nil, fmt.Errorf("owner is required")
	}
	if !req.Kind.Valid() {
		return nil, fmt.Errorf("kind must be caste or booth")
	}

	now := time.Now()
	return &Survey{
		ID:           types.NewID(),
		OwnerID:      ownerID,
		Kind:         req.Kind,
		State:        req.State,
		Zone:         req.Zone,
		District:     req.District,
		Constituency: req.Constituency,
		PC:           req.PC,
		Booth:        req.Booth,
		Payload:      req.Payload,
		CreatedAt:    now,
		UpdatedAt:    now,
	}, nil
}

// --- Request types ---

type CreateSurveyRequest struct {
	Kind         SurveyKind     `json:"kind" validate:"required"`
	State        string         `json:"state"`
	Zone         string         `json:"zone"`
	District     string         `json:"district"`
	Constituency string         `json:"constituency"`
	PC           string         `json:"pc"`
	Booth        string         `json:"booth"`
	Payload      map[string]any `json:"payload"`
}

// ListFilter carries explicit query filters for survey listings.
type ListFilter struct {
	Kind   SurveyKind
	Booth  string
	Limit  int
	Offset int
}
