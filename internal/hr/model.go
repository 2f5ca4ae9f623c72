package hr

import (
	"fmt"
	"time"

	"github.com/stc-ops/fieldops/internal/directory"
	"github.com/stc-ops/fieldops/internal/shared/types"
)

// RequestKind distinguishes the request families sharing one table
type RequestKind string

const (
	KindLeave  RequestKind = "leave"
	KindTravel RequestKind = "travel"
	KindCab    RequestKind = "cab"
)

// Valid reports whether the kind is a known request family.
func (k RequestKind) Valid() bool {
	return k == KindLeave || k == KindTravel || k == KindCab
}

// RequestStatus tracks the approval lifecycle
type RequestStatus string

const (
	StatusPending  RequestStatus = "pending"
	StatusApproved RequestStatus = "approved"
	StatusRejected RequestStatus = "rejected"
)

// Valid reports whether the status is a known approval state.
func (s RequestStatus) Valid() bool {
	return s == StatusPending || s == StatusApproved || s == StatusRejected
}

// Decided reports whether the status is terminal.
func (s RequestStatus) Decided() bool {
	return s == StatusApproved || s == StatusRejected
}

// Request is a leave, travel or cab request awaiting approval
type Request struct {
	ID      types.ID    `json:"id"`
	OwnerID types.ID    `json:"owner_id"`
	Kind    RequestKind `json:"kind"`

	State        string `json:"state,omitempty"`
	Zone         string `json:"zone,omitempty"`
	District     string `json:"district,omitempty"`
	Constituency string `json:"constituency,omitempty"`
	PC           string `json:"pc,omitempty"`

	ApproverEmail string        `json:"approver_email,omitempty"`
	Status        RequestStatus `json:"status"`

	// Leave-only fields; zero for travel and cab requests.
	LeaveType directory.LeaveType `json:"leave_type,omitempty"`
	StartDate *time.Time          `json:"start_date,omitempty"`
	EndDate   *time.Time          `json:"end_date,omitempty"`
	Days      int                 `json:"days,omitempty"`

	Payload map[string]any `json:"payload,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewRequest creates a pending request owned by ownerID. Leave requests must
// name a valid leave type and resolve to a positive day count; Days is
// derived from the date range when omitted.
func NewRequest(ownerID types.ID, req CreateRequest) (*Request, error) {
	if ownerID.IsZero() {
		return nil, fmt.Errorf("owner is required")
	}
	if !req.Kind.Valid() {
		return nil, fmt.Errorf("kind must be leave, travel or cab")
	}

	days := req.Days
	if req.Kind == KindLeave {
		if !req.LeaveType.Valid() {
			return nil, fmt.Errorf("unknown leave type: %s", req.LeaveType)
		}
		if req.StartDate == nil {
			return nil, fmt.Errorf("start date is required for leave requests")
		}
		if days == 0 && req.EndDate != nil {
			days = int(req.EndDate.Sub(*req.StartDate).Hours()/24) + 1
		}
		if days <= 0 {
			return nil, fmt.Errorf("leave request must cover at least one day")
		}
	}

	now := time.Now()
	return &Request{
		ID:            types.NewID(),
		OwnerID:       ownerID,
		Kind:          req.Kind,
		State:         req.State,
		Zone:          req.Zone,
		District:      req.District,
		Constituency:  req.Constituency,
		PC:            req.PC,
		ApproverEmail: req.ApproverEmail,
		Status:        StatusPending,
		LeaveType:     req.LeaveType,
		StartDate:     req.StartDate,
		EndDate:       req.EndDate,
		Days:          days,
		Payload:       req.Payload,
		CreatedAt:     now,
		UpdatedAt:     now,
	}, nil
}

// --- Request types ---

type CreateRequest struct {
	Kind          RequestKind         `json:"kind" validate:"required"`
	State         string              `json:"state"`
	Zone          string              `json:"zone"`
	District      string              `json:"district"`
	Constituency  string              `json:"constituency"`
	PC            string              `json:"pc"`
	ApproverEmail string              `json:"approver_email" validate:"omitempty,email"`
	LeaveType     directory.LeaveType `json:"leave_type"`
	StartDate     *time.Time          `json:"start_date"`
	EndDate       *time.Time          `json:"end_date"`
	Days          int                 `json:"days"`
	Payload       map[string]any      `json:"payload"`
}

type DecideRequest struct {
	Status RequestStatus `json:"status" validate:"required"`
}

// ListFilter carries explicit query filters for request listings.
type ListFilter struct {
	Kind   RequestKind
	Status RequestStatus
	Limit  int
	Offset int
}
