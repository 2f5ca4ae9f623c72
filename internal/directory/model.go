package directory

import (
	"fmt"
	"time"

	"github.com/stc-ops/fieldops/internal/shared/types"
)

// User is a directory entry for a field staffer. Roles carry the flat
// geographic role names consumed by scoped queries; ManagerEmail is the
// approver address for HR requests.
type User struct {
	ID           types.ID  `json:"id"`
	Email        string    `json:"email"`
	Name         string    `json:"name"`
	Location     string    `json:"location"`
	Roles        []string  `json:"roles"`
	ManagerEmail string    `json:"manager_email,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// NewUser creates a new directory entry.
func NewUser(email, name, location string, roles []string, managerEmail string) (*User, error) {
	if email == "" {
		return nil, fmt.Errorf("email is required")
	}
	if name == "" {
		return nil, fmt.Errorf("name is required")
	}
	if roles == nil {
		roles = []string{}
	}

	now := time.Now()
	return &User{
		ID:           types.NewID(),
		Email:        email,
		Name:         name,
		Location:     location,
		Roles:        roles,
		ManagerEmail: managerEmail,
		CreatedAt:    now,
		UpdatedAt:    now,
	}, nil
}

// LeaveType identifies a leave balance bucket.
type LeaveType string

const (
	LeaveSick              LeaveType = "sickLeave"
	LeavePaid              LeaveType = "paidLeave"
	LeaveRestrictedHoliday LeaveType = "restrictedHoliday"
	LeaveMenstrual         LeaveType = "menstrualLeave"
)

// Valid reports whether the leave type is a known bucket.
func (lt LeaveType) Valid() bool {
	switch lt {
	case LeaveSick, LeavePaid, LeaveRestrictedHoliday, LeaveMenstrual:
		return true
	}
	return false
}

// column maps the leave type to its balance column.
func (lt LeaveType) column() string {
	switch lt {
	case LeaveSick:
		return "sick_leave"
	case LeavePaid:
		return "paid_leave"
	case LeaveRestrictedHoliday:
		return "restricted_holiday"
	case LeaveMenstrual:
		return "menstrual_leave"
	}
	return ""
}

// Balances holds the remaining leave days per bucket for one employee.
type Balances struct {
	UserID            types.ID  `json:"user_id"`
	SickLeave         int       `json:"sickLeave"`
	PaidLeave         int       `json:"paidLeave"`
	RestrictedHoliday int       `json:"restrictedHoliday"`
	MenstrualLeave    int       `json:"menstrualLeave"`
	UpdatedAt         time.Time `json:"updated_at"`
}

// Remaining returns the balance for a leave type.
func (b Balances) Remaining(lt LeaveType) int {
	switch lt {
	case LeaveSick:
		return b.SickLeave
	case LeavePaid:
		return b.PaidLeave
	case LeaveRestrictedHoliday:
		return b.RestrictedHoliday
	case LeaveMenstrual:
		return b.MenstrualLeave
	}
	return 0
}

// --- Request types ---

type CreateUserRequest struct {
	Email        string   `json:"email" validate:"required,email"`
	Name         string   `json:"name" validate:"required"`
	Location     string   `json:"location"`
	Roles        []string `json:"roles"`
	ManagerEmail string   `json:"manager_email" validate:"omitempty,email"`
}

type UpdateBalancesRequest struct {
	SickLeave         *int `json:"sickLeave" validate:"omitempty,gte=0"`
	PaidLeave         *int `json:"paidLeave" validate:"omitempty,gte=0"`
	RestrictedHoliday *int `json:"restrictedHoliday" validate:"omitempty,gte=0"`
	MenstrualLeave    *int `json:"menstrualLeave" validate:"omitempty,gte=0"`
}
