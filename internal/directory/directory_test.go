package directory

import (
	"testing"
)

func TestNewUser(t *testing.T) {
	u, err := NewUser("ravi@example.org", "Ravi Kulkarni", "Maharashtra",
		[]string{"Mumbai"}, "lead@example.org")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if u.ID.IsZero() {
		t.Error("user ID should not be zero")
	}
	if u.Email != "ravi@example.org" {
		t.Errorf("expected email 'ravi@example.org', got '%s'", u.Email)
	}
	if u.Location != "Maharashtra" {
		t.Errorf("expected location 'Maharashtra', got '%s'", u.Location)
	}
	if len(u.Roles) != 1 || u.Roles[0] != "Mumbai" {
		t.Errorf("expected roles [Mumbai], got %v", u.Roles)
	}
	if u.CreatedAt.IsZero() || u.UpdatedAt.IsZero() {
		t.Error("timestamps should be set")
	}
}

func TestNewUserValidation(t *testing.T) {
	tests := []struct {
		name  string
		email string
		uname string
	}{
		{"missing email", "", "Someone"},
		{"missing name", "a@example.org", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := NewUser(tt.email, tt.uname, "", nil, ""); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestNewUserNilRoles(t *testing.T) {
	u, err := NewUser("a@example.org", "Someone", "", nil, "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if u.Roles == nil {
		t.Error("roles should be initialized, not nil")
	}
}

func TestLeaveTypeValid(t *testing.T) {
	tests := []struct {
		lt    LeaveType
		valid bool
	}{
		{LeaveSick, true},
		{LeavePaid, true},
		{LeaveRestrictedHoliday, true},
		{LeaveMenstrual, true},
		{LeaveType("casualLeave"), false},
		{LeaveType(""), false},
	}

	for _, tt := range tests {
		t.Run(string(tt.lt), func(t *testing.T) {
			if got := tt.lt.Valid(); got != tt.valid {
				t.Errorf("expected %v, got %v", tt.valid, got)
			}
		})
	}
}

func TestLeaveTypeColumns(t *testing.T) {
	tests := []struct {
		lt     LeaveType
		column string
	}{
		{LeaveSick, "sick_leave"},
		{LeavePaid, "paid_leave"},
		{LeaveRestrictedHoliday, "restricted_holiday"},
		{LeaveMenstrual, "menstrual_leave"},
	}

	for _, tt := range tests {
		t.Run(string(tt.lt), func(t *testing.T) {
			if got := tt.lt.column(); got != tt.column {
				t.Errorf("expected '%s', got '%s'", tt.column, got)
			}
		})
	}
}

func TestBalancesRemaining(t *testing.T) {
	b := Balances{SickLeave: 4, PaidLeave: 12, RestrictedHoliday: 2, MenstrualLeave: 6}

	tests := []struct {
		lt   LeaveType
		want int
	}{
		{LeaveSick, 4},
		{LeavePaid, 12},
		{LeaveRestrictedHoliday, 2},
		{LeaveMenstrual, 6},
		{LeaveType("unknown"), 0},
	}

	for _, tt := range tests {
		t.Run(string(tt.lt), func(t *testing.T) {
			if got := b.Remaining(tt.lt); got != tt.want {
				t.Errorf("expected %d, got %d", tt.want, got)
			}
		})
	}
}
