package survey

import (
	"net/http/httptest"
	"reflect"
	"testing"

	"github.com/stc-ops/fieldops/internal/scope"
	"github.com/stc-ops/fieldops/internal/shared/types"
)

func TestNewSurvey(t *testing.T) {
	owner := types.NewID()

	tests := []struct {
		name    string
		ownerID types.ID
		req     CreateSurveyRequest
		wantErr bool
	}{
		{
			name:    "caste survey",
			ownerID: owner,
			req:     CreateSurveyRequest{Kind: KindCaste, Constituency: "Kothrud"},
		},
		{
			name:    "booth list",
			ownerID: owner,
			req:     CreateSurveyRequest{Kind: KindBooth, Booth: "Booth 112"},
		},
		{
			name:    "missing owner",
			ownerID: types.ID(""),
			req:     CreateSurveyRequest{Kind: KindCaste},
			wantErr: true,
		},
		{
			name:    "unknown kind",
			ownerID: owner,
			req:     CreateSurveyRequest{Kind: SurveyKind("exit_poll")},
			wantErr: true,
		},
		{
			name:    "empty kind",
			ownerID: owner,
			req:     CreateSurveyRequest{},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := NewSurvey(tt.ownerID, tt.req)
			if (err != nil) != tt.wantErr {
				t.Fatalf("NewSurvey() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil {
				return
			}
			if s.ID.IsZero() {
				t.Error("new survey has zero ID")
			}
			if s.Kind != tt.req.Kind {
				t.Errorf("kind = %q, want %q", s.Kind, tt.req.Kind)
			}
		})
	}
}

func TestBuildWhere(t *testing.T) {
	tests := []struct {
		name      string
		sf        scope.Filter
		filter    ListFilter
		wantSQL   string
		wantArgs  []interface{}
		wantArgNo int
	}{
		{
			name:      "no conditions",
			wantSQL:   "",
			wantArgNo: 1,
		},
		{
			name:      "owner scope only",
			sf:        scope.Filter{State: "Maharashtra", OwnerID: "u1"},
			wantSQL:   "WHERE state = $1 AND owner_id = $2",
			wantArgs:  []interface{}{"Maharashtra", "u1"},
			wantArgNo: 3,
		},
		{
			name:      "zone scope with kind filter",
			sf:        scope.Filter{State: "Maharashtra", Zones: []string{"Pune"}},
			filter:    ListFilter{Kind: KindCaste},
			wantSQL:   "WHERE state = $1 AND zone = ANY($2) AND kind = $3",
			wantArgs:  []interface{}{"Maharashtra", []string{"Pune"}, KindCaste},
			wantArgNo: 4,
		},
		{
			name:      "booth filter only",
			filter:    ListFilter{Kind: KindBooth, Booth: "Booth 7"},
			wantSQL:   "WHERE kind = $1 AND booth = $2",
			wantArgs:  []interface{}{KindBooth, "Booth 7"},
			wantArgNo: 3,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sql, args, argNum := buildWhere(tt.sf, tt.filter)
			if sql != tt.wantSQL {
				t.Errorf("sql = %q, want %q", sql, tt.wantSQL)
			}
			if argNum != tt.wantArgNo {
				t.Errorf("argNum = %d, want %d", argNum, tt.wantArgNo)
			}
			if tt.wantArgs != nil && !reflect.DeepEqual(args, tt.wantArgs) {
				t.Errorf("args = %v, want %v", args, tt.wantArgs)
			}
		})
	}
}

func TestParseListFilter(t *testing.T) {
	r := httptest.NewRequest("GET", "/?kind=caste&booth=Booth+3&limit=25&offset=50", nil)
	filter := parseListFilter(r)

	if filter.Kind != KindCaste {
		t.Errorf("kind = %q, want caste", filter.Kind)
	}
	if filter.Booth != "Booth 3" {
		t.Errorf("booth = %q, want Booth 3", filter.Booth)
	}
	if filter.Limit != 25 || filter.Offset != 50 {
		t.Errorf("limit/offset = %d/%d, want 25/50", filter.Limit, filter.Offset)
	}
}

func TestParseListFilterIgnoresMalformed(t *testing.T) {
	r := httptest.NewRequest("GET", "/?limit=abc&offset=-", nil)
	filter := parseListFilter(r)

	if filter.Limit != 0 || filter.Offset != 0 {
		t.Errorf("malformed paging should be ignored, got %d/%d", filter.Limit, filter.Offset)
	}
}

func TestScopingKind(t *testing.T) {
	tests := []struct {
		name string
		sf   scope.Filter
		want string
	}{
		{"unscoped", scope.Filter{}, "unscoped"},
		{"owner", scope.Filter{State: "Maharashtra", OwnerID: "u1"}, "owner"},
		{"category", scope.Filter{State: "Maharashtra", Zones: []string{"Pune"}}, "category"},
	}

	for _, tt := range tests {
		if got := scopingKind(tt.sf); got != tt.want {
			t.Errorf("%s: scopingKind() = %q, want %q", tt.name, got, tt.want)
		}
	}
}
