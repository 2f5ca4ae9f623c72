package mapping

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/stc-ops/fieldops/internal/shared/auth"
	"github.com/stc-ops/fieldops/internal/shared/errors"
)

// Handler provides HTTP handlers for ward mapping reference data
type Handler struct {
	repo     *Repository
	validate *validator.Validate
}

// NewHandler creates a new mapping handler
func NewHandler(repo *Repository) *Handler {
	return &Handler{repo: repo, validate: validator.New()}
}

// Routes registers the mapping routes
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Post("/", h.CreateMapping)
	r.Get("/wards", h.ListWards)
	r.Get("/wards/{ward}", h.ResolveWard)

	return r
}

// CreateMapping adds a ward mapping. Admin only.
func (h *Handler) CreateMapping(w http.ResponseWriter, r *http.Request) {
	p := auth.GetPrincipal(r.Context())
	if p == nil || !p.IsAdmin() {
		writeError(w, errors.Forbidden("admin role required"))
		return
	}

	var req CreateMappingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, errors.BadRequest("invalid request body"))
		return
	}
	if err := h.validate.Struct(req); err != nil {
		writeError(w, errors.BadRequest("ward is required"))
		return
	}

	m, err := NewWardMapping(req.Ward, req.Constituency, req.Zone, req.District, req.PC)
	if err != nil {
		writeError(w, errors.BadRequest(err.Error()))
		return
	}

	if err := h.repo.Save(r.Context(), m); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, m)
}

// ListWards returns distinct ward names, optionally per constituency
func (h *Handler) ListWards(w http.ResponseWriter, r *http.Request) {
	wards, err := h.repo.DistinctWards(r.Context(), r.URL.Query().Get("constituency"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"data": wards})
}

// ResolveWard returns the geographic parents of a ward
func (h *Handler) ResolveWard(w http.ResponseWriter, r *http.Request) {
	ward := chi.URLParam(r, "ward")

	m, err := h.repo.Resolve(r.Context(), ward)
	if err != nil {
		writeError(w, err)
		return
	}
	if m == nil {
		writeError(w, errors.NotFound("ward mapping", ward))
		return
	}
	writeJSON(w, http.StatusOK, m)
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
