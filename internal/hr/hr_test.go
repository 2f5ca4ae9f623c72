package hr

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/stc-ops/fieldops/internal/directory"
	"github.com/stc-ops/fieldops/internal/notification"
	"github.com/stc-ops/fieldops/internal/scope"
	"github.com/stc-ops/fieldops/internal/shared/auth"
	"github.com/stc-ops/fieldops/internal/shared/errors"
	"github.com/stc-ops/fieldops/internal/shared/types"
)

type fakeDirectory struct {
	users     map[string]*directory.User
	deductErr error
	deducted  []string
}

func (f *fakeDirectory) FindByID(ctx context.Context, id types.ID) (*directory.User, error) {
	for _, u := range f.users {
		if u.ID == id {
			return u, nil
		}
	}
	return nil, fmt.Errorf("user not found")
}

func (f *fakeDirectory) FindByEmail(ctx context.Context, email string) (*directory.User, error) {
	if u, ok := f.users[email]; ok {
		return u, nil
	}
	return nil, fmt.Errorf("user not found")
}

func (f *fakeDirectory) DeductBalance(ctx context.Context, userID types.ID, lt directory.LeaveType, days int) error {
	if f.deductErr != nil {
		return f.deductErr
	}
	f.deducted = append(f.deducted, fmt.Sprintf("%s:%s:%d", userID, lt, days))
	return nil
}

// fakeStore mirrors the repository's pending guard on status transitions.
type fakeStore struct {
	mu   sync.Mutex
	reqs map[types.ID]*Request
}

func (f *fakeStore) Save(ctx context.Context, req *Request) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.reqs == nil {
		f.reqs = map[types.ID]*Request{}
	}
	cp := *req
	f.reqs[req.ID] = &cp
	return nil
}

func (f *fakeStore) FindByID(ctx context.Context, id types.ID) (*Request, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	req, ok := f.reqs[id]
	if !ok {
		return nil, errors.NotFound("request", id.String())
	}
	cp := *req
	return &cp, nil
}

func (f *fakeStore) List(ctx context.Context, sf scope.Filter, filter ListFilter) ([]Request, int, error) {
	return nil, 0, nil
}

func (f *fakeStore) ListForApprover(ctx context.Context, email string, filter ListFilter) ([]Request, int, error) {
	return nil, 0, nil
}

func (f *fakeStore) ListAll(ctx context.Context, filter ListFilter) ([]Request, int, error) {
	return nil, 0, nil
}

func (f *fakeStore) UpdateStatus(ctx context.Context, id types.ID, status RequestStatus) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	req, ok := f.reqs[id]
	if !ok {
		return errors.NotFound("request", id.String())
	}
	if req.Status != StatusPending {
		return errors.Conflict("request already decided")
	}
	req.Status = status
	return nil
}

func (f *fakeStore) Reopen(ctx context.Context, id types.ID, from RequestStatus) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	req, ok := f.reqs[id]
	if !ok || req.Status != from {
		return errors.NotFound("request", id.String())
	}
	req.Status = StatusPending
	return nil
}

type fakeNotifier struct {
	messages []*notification.Message
}

func (f *fakeNotifier) Enqueue(msg *notification.Message) {
	f.messages = append(f.messages, msg)
}

func date(s string) *time.Time {
	t, _ := time.Parse("2006-01-02", s)
	return &t
}

func TestNewRequest(t *testing.T) {
	owner := types.NewID()

	tests := []struct {
		name     string
		ownerID  types.ID
		req      CreateRequest
		wantErr  bool
		wantDays int
	}{
		{
			name:    "travel request",
			ownerID: owner,
			req:     CreateRequest{Kind: KindTravel},
		},
		{
			name:    "cab request",
			ownerID: owner,
			req:     CreateRequest{Kind: KindCab},
		},
		{
			name:    "leave with explicit days",
			ownerID: owner,
			req: CreateRequest{
				Kind:      KindLeave,
				LeaveType: directory.LeaveSick,
				StartDate: date("2026-09-07"),
				Days:      2,
			},
			wantDays: 2,
		},
		{
			name:    "leave days derived from range",
			ownerID: owner,
			req: CreateRequest{
				Kind:      KindLeave,
				LeaveType: directory.LeavePaid,
				StartDate: date("2026-09-07"),
				EndDate:   date("2026-09-09"),
			},
			wantDays: 3,
		},
		{
			name:    "missing owner",
			ownerID: types.ID(""),
			req:     CreateRequest{Kind: KindTravel},
			wantErr: true,
		},
		{
			name:    "unknown kind",
			ownerID: owner,
			req:     CreateRequest{Kind: RequestKind("expense")},
			wantErr: true,
		},
		{
			name:    "leave without type",
			ownerID: owner,
			req:     CreateRequest{Kind: KindLeave, StartDate: date("2026-09-07"), Days: 1},
			wantErr: true,
		},
		{
			name:    "leave without start date",
			ownerID: owner,
			req:     CreateRequest{Kind: KindLeave, LeaveType: directory.LeaveSick, Days: 1},
			wantErr: true,
		},
		{
			name:    "leave covering zero days",
			ownerID: owner,
			req:     CreateRequest{Kind: KindLeave, LeaveType: directory.LeaveSick, StartDate: date("2026-09-07")},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, err := NewRequest(tt.ownerID, tt.req)
			if (err != nil) != tt.wantErr {
				t.Fatalf("NewRequest() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil {
				return
			}
			if req.Status != StatusPending {
				t.Errorf("status = %q, want pending", req.Status)
			}
			if tt.wantDays != 0 && req.Days != tt.wantDays {
				t.Errorf("days = %d, want %d", req.Days, tt.wantDays)
			}
		})
	}
}

func TestRequestStatus(t *testing.T) {
	tests := []struct {
		status  RequestStatus
		valid   bool
		decided bool
	}{
		{StatusPending, true, false},
		{StatusApproved, true, true},
		{StatusRejected, true, true},
		{RequestStatus("cancelled"), false, false},
		{RequestStatus(""), false, false},
	}

	for _, tt := range tests {
		if got := tt.status.Valid(); got != tt.valid {
			t.Errorf("Valid(%q) = %v, want %v", tt.status, got, tt.valid)
		}
		if got := tt.status.Decided(); got != tt.decided {
			t.Errorf("Decided(%q) = %v, want %v", tt.status, got, tt.decided)
		}
	}
}

func TestCanDecide(t *testing.T) {
	req := &Request{ApproverEmail: "manager@stc.org"}

	tests := []struct {
		name string
		p    *auth.Principal
		req  *Request
		want bool
	}{
		{
			name: "approver by email",
			p:    &auth.Principal{ID: "u2", Email: "manager@stc.org"},
			req:  req,
			want: true,
		},
		{
			name: "admin",
			p:    &auth.Principal{ID: "u3", Roles: []string{"admin"}},
			req:  req,
			want: true,
		},
		{
			name: "unrelated user",
			p:    &auth.Principal{ID: "u4", Email: "other@stc.org"},
			req:  req,
			want: false,
		},
		{
			name: "owner is not the approver",
			p:    &auth.Principal{ID: "u1", Email: "worker@stc.org"},
			req:  &Request{OwnerID: "u1", ApproverEmail: "manager@stc.org"},
			want: false,
		},
		{
			name: "nobody decides a request with no approver",
			p:    &auth.Principal{ID: "u2", Email: ""},
			req:  &Request{},
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := canDecide(tt.p, tt.req); got != tt.want {
				t.Errorf("canDecide() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestCanView(t *testing.T) {
	req := &Request{OwnerID: "u1", ApproverEmail: "manager@stc.org"}

	tests := []struct {
		name string
		p    *auth.Principal
		want bool
	}{
		{"owner", &auth.Principal{ID: "u1"}, true},
		{"approver", &auth.Principal{ID: "u2", Email: "manager@stc.org"}, true},
		{"admin", &auth.Principal{ID: "u3", Roles: []string{"admin"}}, true},
		{"stranger", &auth.Principal{ID: "u4", Email: "other@stc.org"}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := canView(tt.p, req); got != tt.want {
				t.Errorf("canView() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestNotifyApprover(t *testing.T) {
	notifier := &fakeNotifier{}
	dir := &fakeDirectory{users: map[string]*directory.User{
		"manager@stc.org": {ID: types.NewID(), Email: "manager@stc.org", Name: "Meera Joshi"},
	}}
	h := &Handler{directory: dir, notifier: notifier, log: zap.NewNop()}

	p := &auth.Principal{ID: "u1", Name: "Arjun Patil", Email: "arjun@stc.org"}
	req := &Request{ID: types.NewID(), Kind: KindLeave, ApproverEmail: "manager@stc.org"}

	h.notifyApprover(context.Background(), p, req)

	if len(notifier.messages) != 1 {
		t.Fatalf("enqueued %d messages, want 1", len(notifier.messages))
	}
	msg := notifier.messages[0]
	if msg.Channel != notification.ChannelEmail {
		t.Errorf("channel = %q, want email", msg.Channel)
	}
	if msg.Recipient != "manager@stc.org" {
		t.Errorf("recipient = %q, want manager@stc.org", msg.Recipient)
	}
	if msg.RecipientName != "Meera Joshi" {
		t.Errorf("recipient name = %q, want Meera Joshi", msg.RecipientName)
	}
	if msg.SourceID != req.ID.String() {
		t.Errorf("source id = %q, want %q", msg.SourceID, req.ID)
	}
}

func pendingLeave(t *testing.T, store *fakeStore, owner types.ID) *Request {
	t.Helper()
	hrReq, err := NewRequest(owner, CreateRequest{
		Kind:          KindLeave,
		LeaveType:     directory.LeaveSick,
		StartDate:     date("2026-09-07"),
		Days:          2,
		ApproverEmail: "manager@stc.org",
	})
	if err != nil {
		t.Fatalf("NewRequest: %v", err)
	}
	if err := store.Save(context.Background(), hrReq); err != nil {
		t.Fatalf("save: %v", err)
	}
	return hrReq
}

func decide(h *Handler, p *auth.Principal, id types.ID, status string) *httptest.ResponseRecorder {
	r := chi.NewRouter()
	r.Put("/{requestID}/status", h.DecideRequest)

	body := strings.NewReader(fmt.Sprintf(`{"status":%q}`, status))
	req := httptest.NewRequest(http.MethodPut, "/"+id.String()+"/status", body)
	req = req.WithContext(auth.WithPrincipal(req.Context(), p))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestDecideRequestOnlyOnce(t *testing.T) {
	owner := types.NewID()
	store := &fakeStore{}
	dir := &fakeDirectory{users: map[string]*directory.User{
		"worker@stc.org": {ID: owner, Email: "worker@stc.org", Name: "Arjun Patil"},
	}}
	h := NewHandler(store, dir, nil, nil, zap.NewNop())

	hrReq := pendingLeave(t, store, owner)
	approver := &auth.Principal{ID: types.NewID(), Email: "manager@stc.org"}

	if w := decide(h, approver, hrReq.ID, "approved"); w.Code != http.StatusOK {
		t.Fatalf("first decision status = %d, want 200: %s", w.Code, w.Body)
	}
	if w := decide(h, approver, hrReq.ID, "rejected"); w.Code != http.StatusConflict {
		t.Errorf("second decision status = %d, want 409", w.Code)
	}

	if len(dir.deducted) != 1 {
		t.Errorf("balance deducted %d times, want 1", len(dir.deducted))
	}
	got, err := store.FindByID(context.Background(), hrReq.ID)
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if got.Status != StatusApproved {
		t.Errorf("status = %q, want approved", got.Status)
	}
}

func TestDecideRequestReopensWhenDeductionFails(t *testing.T) {
	owner := types.NewID()
	store := &fakeStore{}
	dir := &fakeDirectory{
		users: map[string]*directory.User{
			"worker@stc.org": {ID: owner, Email: "worker@stc.org", Name: "Arjun Patil"},
		},
		deductErr: errors.BadRequest("insufficient sickLeave balance"),
	}
	h := NewHandler(store, dir, nil, nil, zap.NewNop())

	hrReq := pendingLeave(t, store, owner)
	approver := &auth.Principal{ID: types.NewID(), Email: "manager@stc.org"}

	if w := decide(h, approver, hrReq.ID, "approved"); w.Code != http.StatusBadRequest {
		t.Fatalf("decision status = %d, want 400: %s", w.Code, w.Body)
	}

	got, err := store.FindByID(context.Background(), hrReq.ID)
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if got.Status != StatusPending {
		t.Errorf("status = %q, want pending after failed deduction", got.Status)
	}
	if len(dir.deducted) != 0 {
		t.Errorf("balance deducted %d times, want 0", len(dir.deducted))
	}
}

func TestNotifyApproverSkipsWithoutApprover(t *testing.T) {
	notifier := &fakeNotifier{}
	h := &Handler{directory: &fakeDirectory{}, notifier: notifier, log: zap.NewNop()}

	p := &auth.Principal{ID: "u1", Name: "Arjun Patil"}
	h.notifyApprover(context.Background(), p, &Request{ID: types.NewID(), Kind: KindCab})

	if len(notifier.messages) != 0 {
		t.Fatalf("enqueued %d messages, want 0", len(notifier.messages))
	}
}
