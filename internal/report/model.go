package report

import (
	"fmt"
	"time"

	"github.com/stc-ops/fieldops/internal/shared/types"
)

// Report is a structured field report (meeting minutes and similar). The
// scoping fields (State .. PC, OwnerID) drive role-scoped listing; everything
// entity-specific lives in Payload.
type Report struct {
	ID      types.ID `json:"id"`
	OwnerID types.ID `json:"owner_id"`

	State        string `json:"state,omitempty"`
	Zone         string `json:"zone,omitempty"`
	District     string `json:"district,omitempty"`
	Constituency string `json:"constituency,omitempty"`
	PC           string `json:"pc,omitempty"`

	MeetingDate time.Time      `json:"meeting_date"`
	Payload     map[string]any `json:"payload,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewReport creates a report owned by ownerID.
func NewReport(ownerID types.ID, req CreateReportRequest) (*Report, error) {
	if ownerID.IsZero() {
		return nil, fmt.Errorf("owner is required")
	}
	if req.MeetingDate.IsZero() {
		return nil, fmt.Errorf("meeting date is required")
	}

	now := time.Now()
	return &Report{
		ID:           types.NewID(),
		OwnerID:      ownerID,
		State:        req.State,
		Zone:         req.Zone,
		District:     req.District,
		Constituency: req.Constituency,
		PC:           req.PC,
		MeetingDate:  req.MeetingDate,
		Payload:      req.Payload,
		CreatedAt:    now,
		UpdatedAt:    now,
	}, nil
}

// CountRow is one bucket of a grouped count.
type CountRow struct {
	Key   string `json:"key"`
	Count int64  `json:"count"`
}

// --- Request types ---

type CreateReportRequest struct {
	State        string         `json:"state"`
	Zone         string         `json:"zone"`
	District     string         `json:"district"`
	Constituency string         `json:"constituency"`
	PC           string         `json:"pc"`
	MeetingDate  time.Time      `json:"meeting_date" validate:"required"`
	Payload      map[string]any `json:"payload"`
}

type UpdateReportRequest struct {
	MeetingDate *time.Time     `json:"meeting_date,omitempty"`
	Payload     map[string]any `json:"payload,omitempty"`
}

// ListFilter carries the explicit query filters a caller may add on top of
// role scoping. Explicit filters only ever narrow the scoped result.
type ListFilter struct {
	From         *time.Time
	To           *time.Time
	Zone         string
	District     string
	Constituency string
	PC           string
	Limit        int
	Offset       int
}
