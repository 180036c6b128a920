package dispatch

import (
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/spotnsend/spotnsend-api/internal/middleware"
	"github.com/spotnsend/spotnsend-api/internal/pkg/response"
	"github.com/spotnsend/spotnsend-api/internal/pkg/validator"
)

// Handler handles dispatch HTTP requests
type Handler struct {
	service *Service
}

// NewHandler creates dispatch handler
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Get handles GET /dispatches/{id}
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		response.BadRequest(w, "Invalid dispatch ID")
		return
	}

	d, err := h.service.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, ErrDispatchNotFound) {
			response.NotFound(w, "Dispatch not found")
			return
		}
		response.InternalError(w)
		return
	}

	response.OK(w, ResponseFromEntity(d))
}

// Update handles PATCH /dispatches/{id}
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		response.BadRequest(w, "Invalid dispatch ID")
		return
	}

	var req UpdateDispatchRequest
	if err := response.DecodeJSON(r.Body, &req); err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	}
	if fieldErrors := validator.Validate(req); fieldErrors != nil {
		response.ValidationError(w, fieldErrors)
		return
	}

	d, err := h.service.Update(r.Context(), id, &req, middleware.GetUserID(r.Context()))
	if err != nil {
		switch {
		case errors.Is(err, ErrDispatchNotFound):
			response.NotFound(w, "Dispatch not found")
		case errors.Is(err, ErrInvalidStatus):
			response.BadRequest(w, err.Error())
		default:
			response.InternalError(w)
		}
		return
	}

	response.OK(w, ResponseFromEntity(d))
}

// ListByAuthority handles GET /dispatches/authority/{authorityID}
func (h *Handler) ListByAuthority(w http.ResponseWriter, r *http.Request) {
	authorityID, err := uuid.Parse(chi.URLParam(r, "authorityID"))
	if err != nil {
		response.BadRequest(w, "Invalid authority ID")
		return
	}

	var statuses []Status
	if raw := r.URL.Query().Get("status"); raw != "" {
		for _, s := range strings.Split(raw, ",") {
			statuses = append(statuses, Status(strings.TrimSpace(s)))
		}
	}

	limit, offset, page := response.Pagination(r.URL.Query().Get("limit"), r.URL.Query().Get("page"), 20)

	dispatches, total, err := h.service.ListByAuthority(r.Context(), authorityID, statuses, limit, offset)
	if err != nil {
		if errors.Is(err, ErrInvalidStatus) {
			response.BadRequest(w, err.Error())
			return
		}
		response.InternalError(w)
		return
	}

	items := make([]*DispatchResponse, len(dispatches))
	for i, d := range dispatches {
		items[i] = ResponseFromEntity(d)
	}

	response.WithMeta(w, items, response.NewMeta(total, limit, page))
}

// Routes returns dispatch router. All operations are moderation surface.
func (h *Handler) Routes(authMiddleware func(http.Handler) http.Handler) chi.Router {
	r := chi.NewRouter()
	r.Use(authMiddleware)
	r.Use(middleware.RequireRole(middleware.RoleAdmin))

	r.Get("/{id}", h.Get)
	r.Patch("/{id}", h.Update)
	r.Get("/authority/{authorityID}", h.ListByAuthority)

	return r
}
