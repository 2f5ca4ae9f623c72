package hr

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/stc-ops/fieldops/internal/directory"
	"github.com/stc-ops/fieldops/internal/notification"
	"github.com/stc-ops/fieldops/internal/scope"
	"github.com/stc-ops/fieldops/internal/shared/auth"
	"github.com/stc-ops/fieldops/internal/shared/errors"
	"github.com/stc-ops/fieldops/internal/shared/metrics"
	"github.com/stc-ops/fieldops/internal/shared/types"
)

// Directory is the slice of the employee directory the HR module needs:
// manager lookups for routing approvals and balance deduction on approval.
type Directory interface {
	FindByID(ctx context.Context, id types.ID) (*directory.User, error)
	FindByEmail(ctx context.Context, email string) (*directory.User, error)
	DeductBalance(ctx context.Context, userID types.ID, lt directory.LeaveType, days int) error
}

// Store is the request persistence the handler depends on. *Repository
// implements it.
type Store interface {
	Save(ctx context.Context, req *Request) error
	FindByID(ctx context.Context, id types.ID) (*Request, error)
	List(ctx context.Context, sf scope.Filter, filter ListFilter) ([]Request, int, error)
	ListForApprover(ctx context.Context, email string, filter ListFilter) ([]Request, int, error)
	ListAll(ctx context.Context, filter ListFilter) ([]Request, int, error)
	UpdateStatus(ctx context.Context, id types.ID, status RequestStatus) error
	Reopen(ctx context.Context, id types.ID, from RequestStatus) error
}

// Handler provides HTTP handlers for the HR module
type Handler struct {
	repo      Store
	directory Directory
	notifier  notification.Notifier
	scoper    *scope.Scoper
	validate  *validator.Validate
	log       *zap.Logger
}

// NewHandler creates a new HR handler
func NewHandler(repo Store, dir Directory, notifier notification.Notifier, scoper *scope.Scoper, log *zap.Logger) *Handler {
	return &Handler{
		repo:      repo,
		directory: dir,
		notifier:  notifier,
		scoper:    scoper,
		validate:  validator.New(),
		log:       log,
	}
}

// Routes registers the HR routes
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Get("/", h.ListRequests)
	r.Post("/", h.CreateRequest)
	r.Get("/user/{userID}", h.ListRequests)
	r.Get("/inbox", h.ListInbox)

	r.Route("/{requestID}", func(r chi.Router) {
		r.Get("/", h.GetRequest)
		r.Put("/status", h.DecideRequest)
	})

	return r
}

// CreateRequest creates a request owned by the caller and notifies the
// approving manager by email. Requests are always self-owned.
func (h *Handler) CreateRequest(w http.ResponseWriter, r *http.Request) {
	p := auth.GetPrincipal(r.Context())
	if p == nil {
		writeError(w, errors.Unauthorized("authentication required"))
		return
	}

	var req CreateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, errors.BadRequest("invalid request body"))
		return
	}
	if err := h.validate.Struct(req); err != nil {
		writeError(w, errors.BadRequest("invalid request fields"))
		return
	}

	hrReq, err := NewRequest(p.ID, req)
	if err != nil {
		writeError(w, errors.BadRequest(err.Error()))
		return
	}

	// Default the approver to the requester's reporting manager.
	if hrReq.ApproverEmail == "" {
		owner, err := h.directory.FindByID(r.Context(), p.ID)
		if err != nil {
			writeError(w, err)
			return
		}
		hrReq.ApproverEmail = owner.ManagerEmail
	}

	if err := h.repo.Save(r.Context(), hrReq); err != nil {
		writeError(w, err)
		return
	}

	metrics.RecordCreated("hr_requests")
	h.notifyApprover(r.Context(), p, hrReq)
	writeJSON(w, http.StatusCreated, hrReq)
}

// ListRequests lists requests visible to the caller
func (h *Handler) ListRequests(w http.ResponseWriter, r *http.Request) {
	p := auth.GetPrincipal(r.Context())
	if p == nil {
		writeError(w, errors.Unauthorized("authentication required"))
		return
	}

	targetUserID := chi.URLParam(r, "userID")
	bundle := h.scoper.Classify(p.Roles)
	if len(bundle.Unrecognized) > 0 {
		h.log.Debug("unrecognized roles on principal",
			zap.String("user_id", p.ID.String()),
			zap.Strings("roles", bundle.Unrecognized))
	}

	allowed := scope.Authorize(bundle, targetUserID, p.ID.String())
	metrics.RecordAuthorizationDecision("hr_requests", allowed)
	if !allowed {
		writeError(w, errors.Forbidden("cannot access another user's records"))
		return
	}

	sf := h.scoper.Filter(bundle, p.Location, targetUserID, p.ID.String())
	metrics.RecordScopedQuery("hr_requests", scopingKind(sf))

	items, total, err := h.repo.List(r.Context(), sf, parseListFilter(r))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"data": items, "total": total})
}

// ListInbox lists requests addressed to the caller as approver. Admins see
// every request.
func (h *Handler) ListInbox(w http.ResponseWriter, r *http.Request) {
	p := auth.GetPrincipal(r.Context())
	if p == nil {
		writeError(w, errors.Unauthorized("authentication required"))
		return
	}

	filter := parseListFilter(r)

	var (
		items []Request
		total int
		err   error
	)
	if p.IsAdmin() {
		items, total, err = h.repo.ListAll(r.Context(), filter)
	} else {
		items, total, err = h.repo.ListForApprover(r.Context(), p.Email, filter)
	}
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"data": items, "total": total})
}

// GetRequest gets a request by ID. Visible to its owner, its approver and
// admins.
func (h *Handler) GetRequest(w http.ResponseWriter, r *http.Request) {
	p := auth.GetPrincipal(r.Context())
	if p == nil {
		writeError(w, errors.Unauthorized("authentication required"))
		return
	}

	id, err := types.ParseID(chi.URLParam(r, "requestID"))
	if err != nil {
		writeError(w, errors.BadRequest("invalid request ID"))
		return
	}

	hrReq, err := h.repo.FindByID(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	if !canView(p, hrReq) {
		writeError(w, errors.Forbidden("cannot access another user's records"))
		return
	}
	writeJSON(w, http.StatusOK, hrReq)
}

// DecideRequest approves or rejects a pending request. Approving a leave
// request deducts the owner's balance; an insufficient balance reopens the
// request as pending.
func (h *Handler) DecideRequest(w http.ResponseWriter, r *http.Request) {
	p := auth.GetPrincipal(r.Context())
	if p == nil {
		writeError(w, errors.Unauthorized("authentication required"))
		return
	}

	id, err := types.ParseID(chi.URLParam(r, "requestID"))
	if err != nil {
		writeError(w, errors.BadRequest("invalid request ID"))
		return
	}

	hrReq, err := h.repo.FindByID(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	if !canDecide(p, hrReq) {
		writeError(w, errors.Forbidden("only the approver may decide this request"))
		return
	}

	var req DecideRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, errors.BadRequest("invalid request body"))
		return
	}
	if !req.Status.Decided() {
		writeError(w, errors.BadRequest("status must be approved or rejected"))
		return
	}
	// Claim the transition before touching balances. The repository guard
	// rejects any decision that lost a race to another one.
	if err := h.repo.UpdateStatus(r.Context(), hrReq.ID, req.Status); err != nil {
		writeError(w, err)
		return
	}

	if req.Status == StatusApproved && hrReq.Kind == KindLeave {
		if err := h.directory.DeductBalance(r.Context(), hrReq.OwnerID, hrReq.LeaveType, hrReq.Days); err != nil {
			if rerr := h.repo.Reopen(r.Context(), hrReq.ID, req.Status); rerr != nil {
				h.log.Error("failed to reopen request after deduction failure",
					zap.String("request_id", hrReq.ID.String()),
					zap.Error(rerr))
			}
			writeError(w, err)
			return
		}
	}
	hrReq.Status = req.Status

	metrics.RecordHRStatusChange(string(hrReq.Kind), string(req.Status))
	h.notifyOwner(r.Context(), hrReq)
	writeJSON(w, http.StatusOK, hrReq)
}

// notifyApprover sends the new-request email to the approving manager.
// Best-effort: a missing approver or notifier just skips the send.
func (h *Handler) notifyApprover(ctx context.Context, p *auth.Principal, hrReq *Request) {
	if h.notifier == nil || hrReq.ApproverEmail == "" {
		return
	}

	recipientName := ""
	if manager, err := h.directory.FindByEmail(ctx, hrReq.ApproverEmail); err == nil {
		recipientName = manager.Name
	}

	h.notifier.Enqueue(&notification.Message{
		Channel:       notification.ChannelEmail,
		Recipient:     hrReq.ApproverEmail,
		RecipientName: recipientName,
		Subject:       fmt.Sprintf("New %s request from %s", hrReq.Kind, p.Name),
		Body: fmt.Sprintf("%s has submitted a %s request and it is waiting for your approval.",
			p.Name, hrReq.Kind),
		SourceKind: "hr_request",
		SourceID:   hrReq.ID.String(),
	})
}

// notifyOwner tells the requester about the decision.
func (h *Handler) notifyOwner(ctx context.Context, hrReq *Request) {
	if h.notifier == nil {
		return
	}

	owner, err := h.directory.FindByID(ctx, hrReq.OwnerID)
	if err != nil {
		h.log.Warn("decision notification skipped",
			zap.String("request_id", hrReq.ID.String()),
			zap.Error(err))
		return
	}

	h.notifier.Enqueue(&notification.Message{
		Channel:       notification.ChannelEmail,
		Recipient:     owner.Email,
		RecipientName: owner.Name,
		Subject:       fmt.Sprintf("Your %s request was %s", hrReq.Kind, hrReq.Status),
		Body:          fmt.Sprintf("Your %s request has been %s.", hrReq.Kind, hrReq.Status),
		SourceKind:    "hr_request",
		SourceID:      hrReq.ID.String(),
	})
}

func canView(p *auth.Principal, req *Request) bool {
	return p.IsAdmin() || req.OwnerID == p.ID || req.ApproverEmail == p.Email
}

func canDecide(p *auth.Principal, req *Request) bool {
	return p.IsAdmin() || (req.ApproverEmail != "" && req.ApproverEmail == p.Email)
}

func scopingKind(sf scope.Filter) string {
	switch {
	case sf.IsUnscoped():
		return "unscoped"
	case sf.OwnerID != "":
		return "owner"
	default:
		return "category"
	}
}

func parseListFilter(r *http.Request) ListFilter {
	q := r.URL.Query()
	filter := ListFilter{
		Kind:   RequestKind(q.Get("kind")),
		Status: RequestStatus(q.Get("status")),
	}
	if limit := q.Get("limit"); limit != "" {
		if n, err := strconv.Atoi(limit); err == nil {
			filter.Limit = n
		}
	}
	if offset := q.Get("offset"); offset != "" {
		if n, err := strconv.Atoi(offset); err == nil {
			filter.Offset = n
		}
	}
	return filter
}

// --- Helpers ---

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, err error) {
	w.Header().Set("Content-Type", "application/json")

	if appErr, ok := err.(*errors.AppError); ok {
		w.WriteHeader(appErr.HTTPStatus)
		json.NewEncoder(w).Encode(map[string]any{
			"error":   appErr.Message,
			"code":    appErr.Code,
			"details": appErr.Details,
		})
		return
	}

	w.WriteHeader(http.StatusInternalServerError)
	json.NewEncoder(w).Encode(map[string]string{"error": "internal server error"})
}
