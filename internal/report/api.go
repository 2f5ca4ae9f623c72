package report

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/stc-ops/fieldops/internal/scope"
	"github.com/stc-ops/fieldops/internal/shared/auth"
	"github.com/stc-ops/fieldops/internal/shared/errors"
	"github.com/stc-ops/fieldops/internal/shared/metrics"
	"github.com/stc-ops/fieldops/internal/shared/types"
)

// Handler provides HTTP handlers for the report module
type Handler struct {
	repo     *Repository
	scoper   *scope.Scoper
	validate *validator.Validate
	log      *zap.Logger
}

// NewHandler creates a new report handler
func NewHandler(repo *Repository, scoper *scope.Scoper, log *zap.Logger) *Handler {
	return &Handler{repo: repo, scoper: scoper, validate: validator.New(), log: log}
}

// Routes registers the report routes
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Get("/", h.ListReports)
	r.Post("/", h.CreateReport)

	r.Get("/user/{userID}", h.ListReports)
	r.Get("/owners", h.ListOwners)
	r.Get("/counts/{column}", h.CountReports)

	r.Route("/{reportID}", func(r chi.Router) {
		r.Get("/", h.GetReport)
		r.Put("/", h.UpdateReport)
		r.Delete("/", h.DeleteReport)
	})

	return r
}

// CreateReport creates a report owned by the caller. The owner is always the
// authenticated principal; requests cannot write records for someone else.
func (h *Handler) CreateReport(w http.ResponseWriter, r *http.Request) {
	p := auth.GetPrincipal(r.Context())
	if p == nil {
		writeError(w, errors.Unauthorized("authentication required"))
		return
	}

	var req CreateReportRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, errors.BadRequest("invalid request body"))
		return
	}
	if err := h.validate.Struct(req); err != nil {
		writeError(w, errors.BadRequest("meeting date is required"))
		return
	}

	rep, err := NewReport(p.ID, req)
	if err != nil {
		writeError(w, errors.BadRequest(err.Error()))
		return
	}

	if err := h.repo.Save(r.Context(), rep); err != nil {
		writeError(w, err)
		return
	}

	metrics.RecordCreated("reports")
	writeJSON(w, http.StatusCreated, rep)
}

// ListReports lists reports visible to the caller, optionally targeted at a
// specific user via /user/{userID}.
func (h *Handler) ListReports(w http.ResponseWriter, r *http.Request) {
	sf, err := h.scopeRequest(r, chi.URLParam(r, "userID"))
	if err != nil {
		writeError(w, err)
		return
	}

	filter := parseListFilter(r)
	reports, total, err := h.repo.List(r.Context(), sf, filter)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"data":  reports,
		"total": total,
	})
}

// GetReport gets a report by ID
func (h *Handler) GetReport(w http.ResponseWriter, r *http.Request) {
	id, err := types.ParseID(chi.URLParam(r, "reportID"))
	if err != nil {
		writeError(w, errors.BadRequest("invalid report ID"))
		return
	}

	rep, err := h.repo.FindByID(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}

	if err := h.authorizeRecord(r, rep); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, rep)
}

// UpdateReport updates a report's meeting date or payload
func (h *Handler) UpdateReport(w http.ResponseWriter, r *http.Request) {
	id, err := types.ParseID(chi.URLParam(r, "reportID"))
	if err != nil {
		writeError(w, errors.BadRequest("invalid report ID"))
		return
	}

	rep, err := h.repo.FindByID(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}

	if err := h.authorizeRecord(r, rep); err != nil {
		writeError(w, err)
		return
	}

	var req UpdateReportRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, errors.BadRequest("invalid request body"))
		return
	}

	if req.MeetingDate != nil {
		rep.MeetingDate = *req.MeetingDate
	}
	if req.Payload != nil {
		rep.Payload = req.Payload
	}
	rep.UpdatedAt = time.Now()

	if err := h.repo.Update(r.Context(), rep); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, rep)
}

// DeleteReport deletes a report
func (h *Handler) DeleteReport(w http.ResponseWriter, r *http.Request) {
	id, err := types.ParseID(chi.URLParam(r, "reportID"))
	if err != nil {
		writeError(w, errors.BadRequest("invalid report ID"))
		return
	}

	rep, err := h.repo.FindByID(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}

	if err := h.authorizeRecord(r, rep); err != nil {
		writeError(w, err)
		return
	}

	if err := h.repo.Delete(r.Context(), id); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// CountReports returns scoped report counts grouped by a scoping column
func (h *Handler) CountReports(w http.ResponseWriter, r *http.Request) {
	sf, err := h.scopeRequest(r, "")
	if err != nil {
		writeError(w, err)
		return
	}

	counts, err := h.repo.CountBy(r.Context(), sf, chi.URLParam(r, "column"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"data": counts})
}

// ListOwners returns the distinct owners among scoped reports
func (h *Handler) ListOwners(w http.ResponseWriter, r *http.Request) {
	sf, err := h.scopeRequest(r, "")
	if err != nil {
		writeError(w, err)
		return
	}

	owners, err := h.repo.DistinctOwners(r.Context(), sf)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"data": owners})
}

// scopeRequest runs the per-request classify / authorize / build sequence.
func (h *Handler) scopeRequest(r *http.Request, targetUserID string) (scope.Filter, error) {
	p := auth.GetPrincipal(r.Context())
	if p == nil {
		return scope.Filter{}, errors.Unauthorized("authentication required")
	}

	bundle := h.scoper.Classify(p.Roles)
	if len(bundle.Unrecognized) > 0 {
		h.log.Debug("unrecognized roles on principal",
			zap.String("user_id", p.ID.String()),
			zap.Strings("roles", bundle.Unrecognized))
	}

	allowed := scope.Authorize(bundle, targetUserID, p.ID.String())
	metrics.RecordAuthorizationDecision("reports", allowed)
	if !allowed {
		return scope.Filter{}, errors.Forbidden("cannot access another user's records")
	}

	sf := h.scoper.Filter(bundle, p.Location, targetUserID, p.ID.String())
	metrics.RecordScopedQuery("reports", scopingKind(sf))
	return sf, nil
}

// authorizeRecord guards single-record access: owners and admins only.
func (h *Handler) authorizeRecord(r *http.Request, rep *Report) error {
	p := auth.GetPrincipal(r.Context())
	if p == nil {
		return errors.Unauthorized("authentication required")
	}
	if p.IsAdmin() || p.ID == rep.OwnerID {
		return nil
	}
	return errors.Forbidden("cannot access another user's records")
}

func scopingKind(f scope.Filter) string {
	switch {
	case f.IsUnscoped():
		return "unscoped"
	case f.OwnerID != "":
		return "owner"
	default:
		return "category"
	}
}

func parseListFilter(r *http.Request) ListFilter {
	q := r.URL.Query()
	filter := ListFilter{
		Zone:         q.Get("zone"),
		District:     q.Get("district"),
		Constituency: q.Get("constituency"),
		PC:           q.Get("pc"),
	}

	if from := q.Get("from"); from != "" {
		if t, err := time.Parse("2006-01-02", from); err == nil {
			filter.From = &t
		}
	}
	if to := q.Get("to"); to != "" {
		if t, err := time.Parse("2006-01-02", to); err == nil {
			filter.To = &t
		}
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
