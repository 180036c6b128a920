package notification

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/spotnsend/spotnsend-api/internal/middleware"
	"github.com/spotnsend/spotnsend-api/internal/pkg/response"
	"github.com/spotnsend/spotnsend-api/internal/pkg/validator"
)

// Handler handles notification HTTP requests
type Handler struct {
	service *Service
}

// NewHandler creates notification handler
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// List handles GET /notifications
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	limit, offset, page := response.Pagination(r.URL.Query().Get("limit"), r.URL.Query().Get("page"), 20)

	notifications, total, err := h.service.List(r.Context(), middleware.GetUserID(r.Context()), limit, offset)
	if err != nil {
		response.InternalError(w)
		return
	}

	items := make([]*NotificationResponse, len(notifications))
	for i, n := range notifications {
		items[i] = ResponseFromEntity(n)
	}

	response.WithMeta(w, items, response.NewMeta(total, limit, page))
}

// MarkSeen handles POST /notifications/seen
func (h *Handler) MarkSeen(w http.ResponseWriter, r *http.Request) {
	var req IDsRequest
	if err := response.DecodeJSON(r.Body, &req); err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	}
	if fieldErrors := validator.Validate(req); fieldErrors != nil {
		response.ValidationError(w, fieldErrors)
		return
	}

	marks, err := h.service.MarkSeen(r.Context(), middleware.GetUserID(r.Context()), req.IDs)
	if err != nil {
		response.InternalError(w)
		return
	}

	response.OK(w, map[string]any{"seen": marks})
}

// Delete handles POST /notifications/delete
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	var req IDsRequest
	if err := response.DecodeJSON(r.Body, &req); err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	}
	if fieldErrors := validator.Validate(req); fieldErrors != nil {
		response.ValidationError(w, fieldErrors)
		return
	}

	deleted, err := h.service.Delete(r.Context(), middleware.GetUserID(r.Context()), req.IDs)
	if err != nil {
		response.InternalError(w)
		return
	}

	response.OK(w, map[string]any{"deleted": deleted})
}

// Send handles POST /notifications. Admin only; regular notifications are
// created by the system, not by users.
func (h *Handler) Send(w http.ResponseWriter, r *http.Request) {
	var req SendRequest
	if err := response.DecodeJSON(r.Body, &req); err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	}
	if fieldErrors := validator.Validate(req); fieldErrors != nil {
		response.ValidationError(w, fieldErrors)
		return
	}

	n, err := h.service.Send(r.Context(), &req)
	if err != nil {
		switch {
		case errors.Is(err, ErrInvalidType), errors.Is(err, ErrInvalidChannel):
			response.BadRequest(w, err.Error())
		default:
			response.InternalError(w)
		}
		return
	}

	response.Created(w, ResponseFromEntity(n))
}

// Routes returns notification router
func (h *Handler) Routes(authMiddleware func(http.Handler) http.Handler) chi.Router {
	r := chi.NewRouter()
	r.Use(authMiddleware)

	r.Get("/", h.List)
	r.Post("/seen", h.MarkSeen)
	r.Post("/delete", h.Delete)

	r.With(middleware.RequireRole(middleware.RoleAdmin)).
		Post("/", h.Send)

	return r
}
