package survey

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/stc-ops/fieldops/internal/scope"
	"github.com/stc-ops/fieldops/internal/shared/auth"
	"github.com/stc-ops/fieldops/internal/shared/errors"
	"github.com/stc-ops/fieldops/internal/shared/metrics"
)

// Handler provides HTTP handlers for the survey module
type Handler struct {
	repo     *Repository
	scoper   *scope.Scoper
	validate *validator.Validate
	log      *zap.Logger
}

// NewHandler creates a new survey handler
func NewHandler(repo *Repository, scoper *scope.Scoper, log *zap.Logger) *Handler {
	return &Handler{repo: repo, scoper: scoper, validate: validator.New(), log: log}
}

// Routes registers the survey routes
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Get("/", h.ListSurveys)
	r.Post("/", h.CreateSurvey)
	r.Get("/user/{userID}", h.ListSurveys)
	r.Get("/counts/{column}", h.CountSurveys)

	return r
}

// CreateSurvey creates a survey record owned by the caller
func (h *Handler) CreateSurvey(w http.ResponseWriter, r *http.Request) {
	p := auth.GetPrincipal(r.Context())
	if p == nil {
		writeError(w, errors.Unauthorized("authentication required"))
		return
	}

	var req CreateSurveyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, errors.BadRequest("invalid request body"))
		return
	}
	if err := h.validate.Struct(req); err != nil {
		writeError(w, errors.BadRequest("kind is required"))
		return
	}

	s, err := NewSurvey(p.ID, req)
	if err != nil {
		writeError(w, errors.BadRequest(err.Error()))
		return
	}

	if err := h.repo.Save(r.Context(), s); err != nil {
		writeError(w, err)
		return
	}

	metrics.RecordCreated("surveys")
	writeJSON(w, http.StatusCreated, s)
}

// ListSurveys lists survey records visible to the caller
func (h *Handler) ListSurveys(w http.ResponseWriter, r *http.Request) {
	sf, ok := h.scopeRequest(w, r)
	if !ok {
		return
	}

	items, total, err := h.repo.List(r.Context(), sf, parseListFilter(r))
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"data":  items,
		"total": total,
	})
}

// CountSurveys groups the caller's visible surveys by a geographic column
func (h *Handler) CountSurveys(w http.ResponseWriter, r *http.Request) {
	sf, ok := h.scopeRequest(w, r)
	if !ok {
		return
	}

	counts, err := h.repo.CountBy(r.Context(), sf, chi.URLParam(r, "column"), parseListFilter(r))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"data": counts})
}

// scopeRequest runs the classify/authorize/build preamble shared by the
// listing handlers. A false return means a response has been written.
func (h *Handler) scopeRequest(w http.ResponseWriter, r *http.Request) (scope.Filter, bool) {
	p := auth.GetPrincipal(r.Context())
	if p == nil {
		writeError(w, errors.Unauthorized("authentication required"))
		return scope.Filter{}, false
	}

	targetUserID := chi.URLParam(r, "userID")
	bundle := h.scoper.Classify(p.Roles)
	if len(bundle.Unrecognized) > 0 {
		h.log.Debug("unrecognized roles on principal",
			zap.String("user_id", p.ID.String()),
			zap.Strings("roles", bundle.Unrecognized))
	}

	allowed := scope.Authorize(bundle, targetUserID, p.ID.String())
	metrics.RecordAuthorizationDecision("surveys", allowed)
	if !allowed {
		writeError(w, errors.Forbidden("cannot access another user's records"))
		return scope.Filter{}, false
	}

	sf := h.scoper.Filter(bundle, p.Location, targetUserID, p.ID.String())
	metrics.RecordScopedQuery("surveys", scopingKind(sf))
	return sf, true
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
		Kind:  SurveyKind(q.Get("kind")),
		Booth: q.Get("booth"),
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
