package intervention

import (
	"fmt"
	"time"

	"github.com/stc-ops/fieldops/internal/shared/types"
)

// InterventionStatus tracks the ticket lifecycle
type InterventionStatus string

const (
	StatusOpen       InterventionStatus = "open"
	StatusInProgress InterventionStatus = "in_progress"
	StatusResolved   InterventionStatus = "resolved"
	StatusClosed     InterventionStatus = "closed"
)

// Valid reports whether the status is a known lifecycle state.
func (s InterventionStatus) Valid() bool {
	switch s {
	case StatusOpen, StatusInProgress, StatusResolved, StatusClosed:
		return true
	}
	return false
}

// Intervention is a field issue ticket. Its geographic scoping fields are
// auto-filled from the ward mapping at creation time when a ward is given.
type Intervention struct {
	ID      types.ID `json:"id"`
	OwnerID types.ID `json:"owner_id"`

	State        string `json:"state,omitempty"`
	Zone         string `json:"zone,omitempty"`
	District     string `json:"district,omitempty"`
	Constituency string `json:"constituency,omitempty"`
	PC           string `json:"pc,omitempty"`
	Ward         string `json:"ward,omitempty"`

	Type   string             `json:"type"`
	Action string             `json:"action,omitempty"`
	Status InterventionStatus `json:"status"`

	Payload map[string]any `json:"payload,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewIntervention creates an open ticket owned by ownerID.
func NewIntervention(ownerID types.ID, req CreateInterventionRequest) (*Intervention, error) {
	if ownerID.IsZero() {
		return nil, fmt.Errorf("owner is required")
	}
	if req.Type == "" {
		return nil, fmt.Errorf("type is required")
	}

	now := time.Now()
	return &Intervention{
		ID:           types.NewID(),
		OwnerID:      ownerID,
		State:        req.State,
		Constituency: req.Constituency,
		Ward:         req.Ward,
		Type:         req.Type,
		Action:       req.Action,
		Status:       StatusOpen,
		Payload:      req.Payload,
		CreatedAt:    now,
		UpdatedAt:    now,
	}, nil
}

// --- Request types ---

type CreateInterventionRequest struct {
	State        string         `json:"state"`
	Constituency string         `json:"constituency"`
	Ward         string         `json:"ward"`
	Type         string         `json:"type" validate:"required"`
	Action       string         `json:"action"`
	Payload      map[string]any `json:"payload"`
}

type UpdateInterventionRequest struct {
	Action *string             `json:"action,omitempty"`
	Status *InterventionStatus `json:"status,omitempty"`
}

// ListFilter carries explicit query filters for intervention listings.
type ListFilter struct {
	Ward   string
	Type   string
	Action string
	Status string
	Limit  int
	Offset int
}
