package report

import (
	"net/http/httptest"
	"reflect"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/stc-ops/fieldops/internal/scope"
	"github.com/stc-ops/fieldops/internal/shared/auth"
	"github.com/stc-ops/fieldops/internal/shared/errors"
	"github.com/stc-ops/fieldops/internal/shared/types"
)

func TestNewReport(t *testing.T) {
	owner := types.NewID()
	rep, err := NewReport(owner, CreateReportRequest{
		State:       "Maharashtra",
		Zone:        "Mumbai",
		MeetingDate: time.Date(2025, 11, 3, 0, 0, 0, 0, time.UTC),
		Payload:     map[string]any{"attendees": 24},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if rep.ID.IsZero() {
		t.Error("report ID should not be zero")
	}
	if rep.OwnerID != owner {
		t.Errorf("expected owner %s, got %s", owner, rep.OwnerID)
	}
	if rep.Zone != "Mumbai" {
		t.Errorf("expected zone 'Mumbai', got '%s'", rep.Zone)
	}
	if rep.CreatedAt.IsZero() {
		t.Error("createdAt should be set")
	}
}

func TestNewReportValidation(t *testing.T) {
	if _, err := NewReport("", CreateReportRequest{MeetingDate: time.Now()}); err == nil {
		t.Error("expected error for missing owner")
	}
	if _, err := NewReport(types.NewID(), CreateReportRequest{}); err == nil {
		t.Error("expected error for missing meeting date")
	}
}

func TestBuildWhere(t *testing.T) {
	from := time.Date(2025, 10, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2025, 10, 31, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name     string
		sf       scope.Filter
		filter   ListFilter
		wantSQL  string
		wantArgs int
	}{
		{
			name:    "no constraints",
			wantSQL: "",
		},
		{
			name:     "scope only",
			sf:       scope.Filter{OwnerID: "u1"},
			wantSQL:  "WHERE owner_id = $1",
			wantArgs: 1,
		},
		{
			name:     "scope plus explicit zone",
			sf:       scope.Filter{State: "Maharashtra"},
			filter:   ListFilter{Zone: "Konkan"},
			wantSQL:  "WHERE state = $1 AND zone = $2",
			wantArgs: 2,
		},
		{
			name:     "date range only",
			filter:   ListFilter{From: &from, To: &to},
			wantSQL:  "WHERE meeting_date >= $1 AND meeting_date <= $2",
			wantArgs: 2,
		},
		{
			name:     "scope category plus date range",
			sf:       scope.Filter{Zones: []string{"Mumbai"}},
			filter:   ListFilter{From: &from},
			wantSQL:  "WHERE zone = ANY($1) AND meeting_date >= $2",
			wantArgs: 2,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sql, args, _ := buildWhere(tt.sf, tt.filter)
			if sql != tt.wantSQL {
				t.Errorf("sql: expected %q, got %q", tt.wantSQL, sql)
			}
			if len(args) != tt.wantArgs {
				t.Errorf("args: expected %d, got %d", tt.wantArgs, len(args))
			}
		})
	}
}

func TestParseListFilter(t *testing.T) {
	r := httptest.NewRequest("GET", "/?zone=Mumbai&from=2025-10-01&to=2025-10-31&limit=20&offset=40", nil)
	filter := parseListFilter(r)

	if filter.Zone != "Mumbai" {
		t.Errorf("expected zone 'Mumbai', got '%s'", filter.Zone)
	}
	if filter.From == nil || filter.From.Format("2006-01-02") != "2025-10-01" {
		t.Errorf("unexpected from: %v", filter.From)
	}
	if filter.To == nil || filter.To.Format("2006-01-02") != "2025-10-31" {
		t.Errorf("unexpected to: %v", filter.To)
	}
	if filter.Limit != 20 || filter.Offset != 40 {
		t.Errorf("expected limit 20 offset 40, got %d %d", filter.Limit, filter.Offset)
	}
}

func TestParseListFilterIgnoresMalformed(t *testing.T) {
	r := httptest.NewRequest("GET", "/?from=soon&limit=lots", nil)
	filter := parseListFilter(r)

	if filter.From != nil {
		t.Error("malformed date should be ignored")
	}
	if filter.Limit != 0 {
		t.Error("malformed limit should be ignored")
	}
}

func testHandler() *Handler {
	scoper := scope.NewScoper(scope.ReferenceSets{
		Zones:     []string{"Mumbai", "Konkan"},
		Districts: []string{"Pune"},
	}, scope.HomeStates)
	return NewHandler(nil, scoper, zap.NewNop())
}

func TestScopeRequestSelfFallback(t *testing.T) {
	h := testHandler()

	p := &auth.Principal{ID: types.ID("u1"), Location: "Maharashtra", Roles: []string{"intern"}}
	r := httptest.NewRequest("GET", "/", nil)
	r = r.WithContext(auth.WithPrincipal(r.Context(), p))

	sf, err := h.scopeRequest(r, "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := scope.Filter{State: "Maharashtra", OwnerID: "u1"}
	if !reflect.DeepEqual(sf, want) {
		t.Errorf("expected %+v, got %+v", want, sf)
	}
}

func TestScopeRequestZoneRole(t *testing.T) {
	h := testHandler()

	p := &auth.Principal{ID: types.ID("u1"), Location: "Maharashtra", Roles: []string{"Mumbai"}}
	r := httptest.NewRequest("GET", "/", nil)
	r = r.WithContext(auth.WithPrincipal(r.Context(), p))

	sf, err := h.scopeRequest(r, "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if sf.OwnerID != "" {
		t.Errorf("geo-scoped principal should not be owner-scoped, got %q", sf.OwnerID)
	}
	if len(sf.Zones) != 1 || sf.Zones[0] != "Mumbai" {
		t.Errorf("expected zone constraint [Mumbai], got %v", sf.Zones)
	}
}

func TestScopeRequestCrossUserDenied(t *testing.T) {
	h := testHandler()

	p := &auth.Principal{ID: types.ID("u3"), Roles: []string{"user"}}
	r := httptest.NewRequest("GET", "/user/u4", nil)
	r = r.WithContext(auth.WithPrincipal(r.Context(), p))

	_, err := h.scopeRequest(r, "u4")
	if err == nil {
		t.Fatal("expected authorization error")
	}
	appErr, ok := err.(*errors.AppError)
	if !ok || appErr.HTTPStatus != 403 {
		t.Errorf("expected 403 AppError, got %v", err)
	}
}

func TestScopeRequestAdminTargetsAnyone(t *testing.T) {
	h := testHandler()

	p := &auth.Principal{ID: types.ID("u1"), Roles: []string{"admin"}}
	r := httptest.NewRequest("GET", "/user/u2", nil)
	r = r.WithContext(auth.WithPrincipal(r.Context(), p))

	sf, err := h.scopeRequest(r, "u2")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if sf.OwnerID != "" {
		t.Errorf("admin should carry no ownership constraint, got %q", sf.OwnerID)
	}
}

func TestScopeRequestMissingPrincipal(t *testing.T) {
	h := testHandler()

	r := httptest.NewRequest("GET", "/", nil)
	if _, err := h.scopeRequest(r, ""); err == nil {
		t.Fatal("expected authentication error")
	}
}

func TestScopingKind(t *testing.T) {
	tests := []struct {
		name string
		f    scope.Filter
		want string
	}{
		{"unscoped", scope.Filter{}, "unscoped"},
		{"owner", scope.Filter{OwnerID: "u1"}, "owner"},
		{"category", scope.Filter{Zones: []string{"Mumbai"}}, "category"},
		{"state only", scope.Filter{State: "Maharashtra"}, "category"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := scopingKind(tt.f); got != tt.want {
				t.Errorf("expected %s, got %s", tt.want, got)
			}
		})
	}
}
