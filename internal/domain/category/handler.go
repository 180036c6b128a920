package category

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/spotnsend/spotnsend-api/internal/pkg/response"
)

// Handler handles category HTTP requests
type Handler struct {
	repo Repository
}

// NewHandler creates category handler
func NewHandler(repo Repository) *Handler {
	return &Handler{repo: repo}
}

// List handles GET /categories
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	categories, err := h.repo.ListAll(r.Context())
	if err != nil {
		response.InternalError(w)
		return
	}
	response.OK(w, categories)
}

// Routes returns category router. The catalog is needed before a report can
// be written, so it sits behind auth like everything else.
func (h *Handler) Routes(authMiddleware func(http.Handler) http.Handler) chi.Router {
	r := chi.NewRouter()
	r.Use(authMiddleware)
	r.Get("/", h.List)
	return r
}
