package authority

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/spotnsend/spotnsend-api/internal/pkg/geo"
	"github.com/spotnsend/spotnsend-api/internal/pkg/response"
)

// Radius bounds for authority proximity queries, meters.
const (
	MinRadiusMeters = 100
	MaxRadiusMeters = 200000
)

// Handler handles authority HTTP requests
type Handler struct {
	repo Repository
}

// NewHandler creates authority handler
func NewHandler(repo Repository) *Handler {
	return &Handler{repo: repo}
}

// Nearby handles GET /authorities/nearby
func (h *Handler) Nearby(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	lat, errLat := strconv.ParseFloat(q.Get("lat"), 64)
	lon, errLon := strconv.ParseFloat(q.Get("lon"), 64)
	if errLat != nil || errLon != nil || !geo.ValidLatLon(lat, lon) {
		response.BadRequest(w, "Invalid coordinates")
		return
	}

	radius := 50000
	if raw := q.Get("radius"); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil {
			response.BadRequest(w, "Invalid radius")
			return
		}
		radius = v
	}
	radius = geo.ClampRadius(radius, MinRadiusMeters, MaxRadiusMeters)

	categoryIDs, err := parseIDList(q.Get("categories"))
	if err != nil {
		response.BadRequest(w, "Invalid category filter")
		return
	}

	limit := 20
	if raw := q.Get("limit"); raw != "" {
		if v, err := strconv.Atoi(raw); err == nil && v > 0 && v <= 100 {
			limit = v
		}
	}

	nearby, err := h.repo.FindNearby(r.Context(), lat, lon, radius, categoryIDs, limit, 0)
	if err != nil {
		response.InternalError(w)
		return
	}
	if nearby == nil {
		nearby = []*Nearby{}
	}

	response.OK(w, nearby)
}

func parseIDList(raw string) ([]int64, error) {
	if raw == "" {
		return nil, nil
	}
	parts := strings.Split(raw, ",")
	ids := make([]int64, 0, len(parts))
	for _, p := range parts {
		id, err := strconv.ParseInt(strings.TrimSpace(p), 10, 64)
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, nil
}

// Routes returns authority router
func (h *Handler) Routes(authMiddleware func(http.Handler) http.Handler) chi.Router {
	r := chi.NewRouter()
	r.Use(authMiddleware)

	r.Get("/nearby", h.Nearby)

	return r
}
