package directory

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/stc-ops/fieldops/internal/shared/auth"
	"github.com/stc-ops/fieldops/internal/shared/errors"
	"github.com/stc-ops/fieldops/internal/shared/types"
)

// Handler provides HTTP handlers for the user directory
type Handler struct {
	repo     *Repository
	validate *validator.Validate
}

// NewHandler creates a new directory handler
func NewHandler(repo *Repository) *Handler {
	return &Handler{repo: repo, validate: validator.New()}
}

// Routes registers the directory routes
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Post("/", h.CreateUser)

	r.Route("/{userID}", func(r chi.Router) {
		r.Get("/", h.GetUser)
		r.Get("/balances", h.GetBalances)
		r.Put("/balances", h.UpdateBalances)
		r.Get("/manager", h.GetManager)
	})

	return r
}

// CreateUser creates a directory entry. Admin only.
func (h *Handler) CreateUser(w http.ResponseWriter, r *http.Request) {
	p := auth.GetPrincipal(r.Context())
	if p == nil || !p.IsAdmin() {
		writeError(w, errors.Forbidden("admin role required"))
		return
	}

	var req CreateUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, errors.BadRequest("invalid request body"))
		return
	}
	if err := h.validate.Struct(req); err != nil {
		writeError(w, errors.Validation("invalid user payload", validationDetails(err)))
		return
	}

	u, err := NewUser(req.Email, req.Name, req.Location, req.Roles, req.ManagerEmail)
	if err != nil {
		writeError(w, errors.BadRequest(err.Error()))
		return
	}

	if err := h.repo.Save(r.Context(), u); err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, u)
}

// GetUser returns a directory entry. Non-admins may only fetch themselves.
func (h *Handler) GetUser(w http.ResponseWriter, r *http.Request) {
	id, err := types.ParseID(chi.URLParam(r, "userID"))
	if err != nil {
		writeError(w, errors.BadRequest("invalid user ID"))
		return
	}

	if err := h.authorizeTarget(r, id); err != nil {
		writeError(w, err)
		return
	}

	u, err := h.repo.FindByID(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, u)
}

// GetBalances returns leave balances for a user
func (h *Handler) GetBalances(w http.ResponseWriter, r *http.Request) {
	id, err := types.ParseID(chi.URLParam(r, "userID"))
	if err != nil {
		writeError(w, errors.BadRequest("invalid user ID"))
		return
	}

	if err := h.authorizeTarget(r, id); err != nil {
		writeError(w, err)
		return
	}

	b, err := h.repo.GetBalances(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, b)
}

// UpdateBalances sets leave balances. Admin only.
func (h *Handler) UpdateBalances(w http.ResponseWriter, r *http.Request) {
	p := auth.GetPrincipal(r.Context())
	if p == nil || !p.IsAdmin() {
		writeError(w, errors.Forbidden("admin role required"))
		return
	}

	id, err := types.ParseID(chi.URLParam(r, "userID"))
	if err != nil {
		writeError(w, errors.BadRequest("invalid user ID"))
		return
	}

	var req UpdateBalancesRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, errors.BadRequest("invalid request body"))
		return
	}
	if err := h.validate.Struct(req); err != nil {
		writeError(w, errors.Validation("invalid balances payload", validationDetails(err)))
		return
	}

	b, err := h.repo.UpdateBalances(r.Context(), id, req)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, b)
}

// GetManager returns the reporting manager's directory entry for a user
func (h *Handler) GetManager(w http.ResponseWriter, r *http.Request) {
	id, err := types.ParseID(chi.URLParam(r, "userID"))
	if err != nil {
		writeError(w, errors.BadRequest("invalid user ID"))
		return
	}

	if err := h.authorizeTarget(r, id); err != nil {
		writeError(w, err)
		return
	}

	u, err := h.repo.FindByID(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	if u.ManagerEmail == "" {
		writeError(w, errors.NotFound("manager", id.String()))
		return
	}

	mgr, err := h.repo.FindByEmail(r.Context(), u.ManagerEmail)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, mgr)
}

// authorizeTarget allows admins to reach anyone and everyone else only
// themselves.
func (h *Handler) authorizeTarget(r *http.Request, target types.ID) error {
	p := auth.GetPrincipal(r.Context())
	if p == nil {
		return errors.Unauthorized("authentication required")
	}
	if p.IsAdmin() || p.ID == target {
		return nil
	}
	return errors.Forbidden("cannot access another user's directory data")
}

// --- Helpers ---

func validationDetails(err error) map[string]string {
	details := make(map[string]string)
	if verrs, ok := err.(validator.ValidationErrors); ok {
		for _, fe := range verrs {
			details[fe.Field()] = fe.Tag()
		}
	}
	return details
}

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
