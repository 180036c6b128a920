package admin

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/spotnsend/spotnsend-api/internal/domain/report"
	"github.com/spotnsend/spotnsend-api/internal/domain/user"
	"github.com/spotnsend/spotnsend-api/internal/middleware"
	"github.com/spotnsend/spotnsend-api/internal/pkg/response"
	"github.com/spotnsend/spotnsend-api/internal/pkg/validator"
)

// Handler handles moderation HTTP requests
type Handler struct {
	service       *Service
	reportService *report.Service
}

// NewHandler creates admin handler
func NewHandler(service *Service, reportService *report.Service) *Handler {
	return &Handler{service: service, reportService: reportService}
}

// ListUsers handles GET /admin/users
func (h *Handler) ListUsers(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	limit, offset, page := response.Pagination(q.Get("limit"), q.Get("page"), 20)

	users, total, err := h.service.ListUsers(r.Context(), q.Get("status"), q.Get("role"), limit, offset)
	if err != nil {
		if errors.Is(err, user.ErrInvalidStatus) {
			response.BadRequest(w, err.Error())
			return
		}
		response.InternalError(w)
		return
	}

	response.WithMeta(w, users, response.NewMeta(total, limit, page))
}

// UpdateUserStatus handles PATCH /admin/users/{id}/status
func (h *Handler) UpdateUserStatus(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		response.BadRequest(w, "Invalid user ID")
		return
	}

	var req UpdateUserStatusRequest
	if err := response.DecodeJSON(r.Body, &req); err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	}
	if fieldErrors := validator.Validate(req); fieldErrors != nil {
		response.ValidationError(w, fieldErrors)
		return
	}

	u, err := h.service.UpdateUserStatus(r.Context(), id, middleware.GetUserID(r.Context()), &req)
	if err != nil {
		switch {
		case errors.Is(err, user.ErrUserNotFound):
			response.NotFound(w, "User not found")
		case errors.Is(err, user.ErrInvalidStatus):
			response.BadRequest(w, err.Error())
		default:
			response.InternalError(w)
		}
		return
	}

	response.OK(w, u)
}

// ListVerifications handles GET /admin/verifications
func (h *Handler) ListVerifications(w http.ResponseWriter, r *http.Request) {
	limit, offset, page := response.Pagination(r.URL.Query().Get("limit"), r.URL.Query().Get("page"), 20)

	rows, total, err := h.service.ListPendingVerifications(r.Context(), limit, offset)
	if err != nil {
		response.InternalError(w)
		return
	}

	items := make([]*VerificationResponse, len(rows))
	for i, row := range rows {
		items[i] = ResponseFromEntity(&row.Verification)
		items[i].UserName = row.UserName
	}

	response.WithMeta(w, items, response.NewMeta(total, limit, page))
}

// ReviewVerification handles POST /admin/verifications/{id}/review
func (h *Handler) ReviewVerification(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		response.BadRequest(w, "Invalid verification ID")
		return
	}

	var req ReviewRequest
	if err := response.DecodeJSON(r.Body, &req); err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	}
	if fieldErrors := validator.Validate(req); fieldErrors != nil {
		response.ValidationError(w, fieldErrors)
		return
	}

	reviewed, err := h.service.ReviewVerification(r.Context(), id, middleware.GetUserID(r.Context()), &req)
	if err != nil {
		switch {
		case errors.Is(err, ErrVerificationNotFound):
			response.NotFound(w, "Verification not found")
		case errors.Is(err, ErrAlreadyReviewed):
			response.Conflict(w, err.Error())
		case errors.Is(err, ErrInvalidDecision):
			response.BadRequest(w, err.Error())
		default:
			response.InternalError(w)
		}
		return
	}

	response.OK(w, ResponseFromEntity(reviewed))
}

// ListReports handles GET /admin/reports
func (h *Handler) ListReports(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	limit, offset, page := response.Pagination(q.Get("limit"), q.Get("page"), 20)

	filter := report.AdminFilter{
		Statuses:   splitParam(q.Get("status")),
		Priorities: splitParam(q.Get("priority")),
		City:       q.Get("city"),
	}
	if raw := q.Get("category"); raw != "" {
		filter.CategoryID = parseInt64(raw)
	}

	rows, total, err := h.reportService.ListForAdmin(r.Context(), filter, limit, offset)
	if err != nil {
		switch {
		case errors.Is(err, report.ErrInvalidStatus), errors.Is(err, report.ErrInvalidPriority):
			response.BadRequest(w, err.Error())
		default:
			response.InternalError(w)
		}
		return
	}

	response.WithMeta(w, rows, response.NewMeta(total, limit, page))
}

// ListAudit handles GET /admin/audit
func (h *Handler) ListAudit(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	limit, offset, page := response.Pagination(q.Get("limit"), q.Get("page"), 50)

	events, total, err := h.service.ListAuditEvents(r.Context(), q.Get("table"), q.Get("record"), limit, offset)
	if err != nil {
		response.InternalError(w)
		return
	}

	response.WithMeta(w, events, response.NewMeta(total, limit, page))
}

// Routes returns the moderation router. Everything here is admin only.
func (h *Handler) Routes(authMiddleware func(http.Handler) http.Handler) chi.Router {
	r := chi.NewRouter()
	r.Use(authMiddleware)
	r.Use(middleware.RequireRole(middleware.RoleAdmin))

	r.Get("/users", h.ListUsers)
	r.Patch("/users/{id}/status", h.UpdateUserStatus)
	r.Get("/verifications", h.ListVerifications)
	r.Post("/verifications/{id}/review", h.ReviewVerification)
	r.Get("/reports", h.ListReports)
	r.Get("/audit", h.ListAudit)

	return r
}

func splitParam(raw string) []string {
	if raw == "" {
		return nil
	}
	var out []string
	for _, s := range strings.Split(raw, ",") {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}

func parseInt64(raw string) int64 {
	n, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || n < 0 {
		return 0
	}
	return n
}
