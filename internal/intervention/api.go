package intervention

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

// Handler provides HTTP handlers for the intervention module
type Handler struct {
	repo     *Repository
	resolver WardResolver
	scoper   *scope.Scoper
	validate *validator.Validate
	log      *zap.Logger
}

// NewHandler creates a new intervention handler
func NewHandler(repo *Repository, resolver WardResolver, scoper *scope.Scoper, log *zap.Logger) *Handler {
	return &Handler{repo: repo, resolver: resolver, scoper: scoper, validate: validator.New(), log: log}
}

// Routes registers the intervention routes
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Get("/", h.ListInterventions)
	r.Post("/", h.CreateIntervention)
	r.Get("/user/{userID}", h.ListInterventions)

	r.Route("/{interventionID}", func(r chi.Router) {
		r.Get("/", h.GetIntervention)
		r.Patch("/", h.UpdateIntervention)
	})

	return r
}

// CreateIntervention creates a ticket, enriching its scoping fields from the
// ward mapping before the write.
func (h *Handler) CreateIntervention(w http.ResponseWriter, r *http.Request) {
	p := auth.GetPrincipal(r.Context())
	if p == nil {
		writeError(w, errors.Unauthorized("authentication required"))
		return
	}

	var req CreateInterventionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, errors.BadRequest("invalid request body"))
		return
	}
	if err := h.validate.Struct(req); err != nil {
		writeError(w, errors.BadRequest("type is required"))
		return
	}

	iv, err := NewIntervention(p.ID, req)
	if err != nil {
		writeError(w, errors.BadRequest(err.Error()))
		return
	}

	if err := enrich(r.Context(), h.resolver, iv); err != nil {
		writeError(w, err)
		return
	}

	if err := h.repo.Save(r.Context(), iv); err != nil {
		writeError(w, err)
		return
	}

	metrics.RecordCreated("interventions")
	writeJSON(w, http.StatusCreated, iv)
}

// ListInterventions lists tickets visible to the caller
func (h *Handler) ListInterventions(w http.ResponseWriter, r *http.Request) {
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
	metrics.RecordAuthorizationDecision("interventions", allowed)
	if !allowed {
		writeError(w, errors.Forbidden("cannot access another user's records"))
		return
	}

	sf := h.scoper.Filter(bundle, p.Location, targetUserID, p.ID.String())
	metrics.RecordScopedQuery("interventions", scopingKind(sf))

	q := r.URL.Query()
	filter := ListFilter{
		Ward:   q.Get("ward"),
		Type:   q.Get("type"),
		Action: q.Get("action"),
		Status: q.Get("status"),
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

	items, total, err := h.repo.List(r.Context(), sf, filter)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"data":  items,
		"total": total,
	})
}

// GetIntervention gets a ticket by ID
func (h *Handler) GetIntervention(w http.ResponseWriter, r *http.Request) {
	id, err := types.ParseID(chi.URLParam(r, "interventionID"))
	if err != nil {
		writeError(w, errors.BadRequest("invalid intervention ID"))
		return
	}

	iv, err := h.repo.FindByID(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, iv)
}

// UpdateIntervention updates a ticket's action or status
func (h *Handler) UpdateIntervention(w http.ResponseWriter, r *http.Request) {
	id, err := types.ParseID(chi.URLParam(r, "interventionID"))
	if err != nil {
		writeError(w, errors.BadRequest("invalid intervention ID"))
		return
	}

	iv, err := h.repo.FindByID(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}

	var req UpdateInterventionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, errors.BadRequest("invalid request body"))
		return
	}

	if req.Action != nil {
		iv.Action = *req.Action
	}
	if req.Status != nil {
		if !req.Status.Valid() {
			writeError(w, errors.BadRequest("unknown status"))
			return
		}
		iv.Status = *req.Status
	}
	iv.UpdatedAt = time.Now()

	if err := h.repo.Update(r.Context(), iv); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, iv)
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
