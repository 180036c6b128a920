package report

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/spotnsend/spotnsend-api/internal/middleware"
	"github.com/spotnsend/spotnsend-api/internal/pkg/response"
	"github.com/spotnsend/spotnsend-api/internal/pkg/validator"
)

// Handler handles report HTTP requests
type Handler struct {
	service *Service
}

// NewHandler creates report handler
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Create handles POST /reports
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateReportRequest
	if err := response.DecodeJSON(r.Body, &req); err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	}
	if fieldErrors := validator.Validate(req); fieldErrors != nil {
		response.ValidationError(w, fieldErrors)
		return
	}

	rep, dispatched, err := h.service.Create(r.Context(), middleware.GetUserID(r.Context()), &req)
	if err != nil {
		switch {
		case errors.Is(err, ErrInvalidLocation), errors.Is(err, ErrTooManyMedia):
			response.BadRequest(w, err.Error())
		default:
			response.InternalError(w)
		}
		return
	}

	response.Created(w, &CreateReportResponse{
		Report:              ResponseFromEntity(rep),
		AuthoritiesNotified: dispatched,
	})
}

// Get handles GET /reports/{id}
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		response.BadRequest(w, "Invalid report ID")
		return
	}

	detail, err := h.service.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, ErrReportNotFound) {
			response.NotFound(w, "Report not found")
			return
		}
		response.InternalError(w)
		return
	}

	response.OK(w, detail)
}

// UpdateStatus handles PATCH /reports/{id}/status
func (h *Handler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		response.BadRequest(w, "Invalid report ID")
		return
	}

	var req UpdateReportStatusRequest
	if err := response.DecodeJSON(r.Body, &req); err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	}
	if fieldErrors := validator.Validate(req); fieldErrors != nil {
		response.ValidationError(w, fieldErrors)
		return
	}

	rep, err := h.service.UpdateStatus(r.Context(), id, &req, middleware.GetUserID(r.Context()))
	if err != nil {
		switch {
		case errors.Is(err, ErrReportNotFound):
			response.NotFound(w, "Report not found")
		case errors.Is(err, ErrInvalidStatus), errors.Is(err, ErrInvalidPriority):
			response.BadRequest(w, err.Error())
		default:
			response.InternalError(w)
		}
		return
	}

	response.OK(w, ResponseFromEntity(rep))
}

// AddFeedback handles POST /reports/{id}/feedback
func (h *Handler) AddFeedback(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		response.BadRequest(w, "Invalid report ID")
		return
	}

	var req FeedbackRequest
	if err := response.DecodeJSON(r.Body, &req); err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	}
	if fieldErrors := validator.Validate(req); fieldErrors != nil {
		response.ValidationError(w, fieldErrors)
		return
	}

	f, err := h.service.AddFeedback(r.Context(), id, middleware.GetUserID(r.Context()), &req)
	if err != nil {
		if errors.Is(err, ErrReportNotFound) {
			response.NotFound(w, "Report not found")
			return
		}
		response.InternalError(w)
		return
	}

	response.Created(w, f)
}

// Flag handles POST /reports/{id}/flag
func (h *Handler) Flag(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		response.BadRequest(w, "Invalid report ID")
		return
	}

	var req FlagRequest
	if err := response.DecodeJSON(r.Body, &req); err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	}
	if fieldErrors := validator.Validate(req); fieldErrors != nil {
		response.ValidationError(w, fieldErrors)
		return
	}

	f, err := h.service.Flag(r.Context(), id, middleware.GetUserID(r.Context()), &req)
	if err != nil {
		if errors.Is(err, ErrReportNotFound) {
			response.NotFound(w, "Report not found")
			return
		}
		response.InternalError(w)
		return
	}

	response.OK(w, f)
}

// ListMine handles GET /reports/mine
func (h *Handler) ListMine(w http.ResponseWriter, r *http.Request) {
	limit, offset, page := response.Pagination(r.URL.Query().Get("limit"), r.URL.Query().Get("page"), 20)

	reports, total, err := h.service.ListByUser(r.Context(), middleware.GetUserID(r.Context()), limit, offset)
	if err != nil {
		response.InternalError(w)
		return
	}

	items := make([]*ReportResponse, len(reports))
	for i, rep := range reports {
		items[i] = ResponseFromEntity(rep)
	}

	response.WithMeta(w, items, response.NewMeta(total, limit, page))
}

// Nearby handles GET /reports/nearby
func (h *Handler) Nearby(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	lat, err := strconv.ParseFloat(q.Get("lat"), 64)
	if err != nil {
		response.BadRequest(w, "Invalid latitude")
		return
	}
	lon, err := strconv.ParseFloat(q.Get("lon"), 64)
	if err != nil {
		response.BadRequest(w, "Invalid longitude")
		return
	}

	radius := MaxNearbyRadiusMeters
	if raw := q.Get("radius"); raw != "" {
		radius, err = strconv.Atoi(raw)
		if err != nil {
			response.BadRequest(w, "Invalid radius")
			return
		}
	}

	limit, offset, _ := response.Pagination(q.Get("limit"), q.Get("page"), 50)

	params := NearbyParams{
		Latitude:       lat,
		Longitude:      lon,
		RadiusMeters:   radius,
		CategoryIDs:    parseIDList(q.Get("categories")),
		SubcategoryIDs: parseIDList(q.Get("subcategories")),
		Statuses:       parseList(q.Get("status")),
		Limit:          limit,
		Offset:         offset,
	}

	nearby, err := h.service.Nearby(r.Context(), params)
	if err != nil {
		switch {
		case errors.Is(err, ErrInvalidLocation), errors.Is(err, ErrInvalidStatus):
			response.BadRequest(w, err.Error())
		default:
			response.InternalError(w)
		}
		return
	}

	items := make([]*NearbyResponse, len(nearby))
	for i, n := range nearby {
		items[i] = &NearbyResponse{
			ReportResponse: *ResponseFromEntity(&n.Report),
			DistanceMeters: n.DistanceMeters,
		}
	}

	response.OK(w, items)
}

// Routes returns report router. Status updates are admin only; everything
// else is any authenticated user.
func (h *Handler) Routes(authMiddleware func(http.Handler) http.Handler) chi.Router {
	r := chi.NewRouter()
	r.Use(authMiddleware)

	r.Post("/", h.Create)
	r.Get("/mine", h.ListMine)
	r.Get("/nearby", h.Nearby)
	r.Get("/{id}", h.Get)
	r.Post("/{id}/feedback", h.AddFeedback)
	r.Post("/{id}/flag", h.Flag)

	r.With(middleware.RequireRole(middleware.RoleAdmin)).
		Patch("/{id}/status", h.UpdateStatus)

	return r
}

func parseList(raw string) []string {
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

func parseIDList(raw string) []int64 {
	var out []int64
	for _, s := range parseList(raw) {
		id, err := strconv.ParseInt(s, 10, 64)
		if err == nil && id > 0 {
			out = append(out, id)
		}
	}
	return out
}
