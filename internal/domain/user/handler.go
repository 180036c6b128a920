package user

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/spotnsend/spotnsend-api/internal/middleware"
	"github.com/spotnsend/spotnsend-api/internal/pkg/response"
	"github.com/spotnsend/spotnsend-api/internal/pkg/validator"
)

// Handler handles user self-service HTTP requests
type Handler struct {
	service *Service
}

// NewHandler creates user handler
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Profile handles GET /users/profile
func (h *Handler) Profile(w http.ResponseWriter, r *http.Request) {
	profile, err := h.service.Profile(r.Context(), middleware.GetUserID(r.Context()))
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			response.NotFound(w, "User not found")
			return
		}
		response.InternalError(w)
		return
	}
	response.OK(w, profile)
}

// UpdateProfile handles PATCH /users/profile
func (h *Handler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	var req UpdateProfileRequest
	if err := response.DecodeJSON(r.Body, &req); err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	}
	if fieldErrors := validator.Validate(req); fieldErrors != nil {
		response.ValidationError(w, fieldErrors)
		return
	}

	u, err := h.service.UpdateProfile(r.Context(), middleware.GetUserID(r.Context()), &req)
	if err != nil {
		switch {
		case errors.Is(err, ErrNoChanges):
			response.BadRequest(w, err.Error())
		case errors.Is(err, ErrUserNotFound):
			response.NotFound(w, "User not found")
		default:
			response.InternalError(w)
		}
		return
	}
	response.OK(w, u)
}

// Settings handles GET /users/settings
func (h *Handler) Settings(w http.ResponseWriter, r *http.Request) {
	settings, err := h.service.Settings(r.Context(), middleware.GetUserID(r.Context()))
	if err != nil {
		response.InternalError(w)
		return
	}
	response.OK(w, settings)
}

// UpdateSettings handles PUT /users/settings
func (h *Handler) UpdateSettings(w http.ResponseWriter, r *http.Request) {
	var req UpdateSettingsRequest
	if err := response.DecodeJSON(r.Body, &req); err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	}
	if fieldErrors := validator.Validate(req); fieldErrors != nil {
		response.ValidationError(w, fieldErrors)
		return
	}

	settings, err := h.service.UpdateSettings(r.Context(), middleware.GetUserID(r.Context()), &req)
	if err != nil {
		if errors.Is(err, ErrNoChanges) {
			response.BadRequest(w, err.Error())
			return
		}
		response.InternalError(w)
		return
	}
	response.OK(w, settings)
}

// NotificationPreferences handles GET /users/notification-preferences
func (h *Handler) NotificationPreferences(w http.ResponseWriter, r *http.Request) {
	prefs, err := h.service.NotificationPreferences(r.Context(), middleware.GetUserID(r.Context()))
	if err != nil {
		response.InternalError(w)
		return
	}
	response.OK(w, prefs)
}

// UpdateNotificationPreferences handles PUT /users/notification-preferences
func (h *Handler) UpdateNotificationPreferences(w http.ResponseWriter, r *http.Request) {
	var req NotificationPreferencesRequest
	if err := response.DecodeJSON(r.Body, &req); err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	}

	prefs, err := h.service.UpdateNotificationPreferences(r.Context(), middleware.GetUserID(r.Context()), &req)
	if err != nil {
		response.InternalError(w)
		return
	}
	response.OK(w, prefs)
}

// MapPreferences handles GET /users/map-preferences
func (h *Handler) MapPreferences(w http.ResponseWriter, r *http.Request) {
	prefs, err := h.service.MapPreferences(r.Context(), middleware.GetUserID(r.Context()))
	if err != nil {
		response.InternalError(w)
		return
	}
	response.OK(w, prefs)
}

// UpdateMapPreferences handles PUT /users/map-preferences
func (h *Handler) UpdateMapPreferences(w http.ResponseWriter, r *http.Request) {
	var req MapPreferencesRequest
	if err := response.DecodeJSON(r.Body, &req); err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	}
	if fieldErrors := validator.Validate(req); fieldErrors != nil {
		response.ValidationError(w, fieldErrors)
		return
	}

	prefs, err := h.service.UpdateMapPreferences(r.Context(), middleware.GetUserID(r.Context()), &req)
	if err != nil {
		response.InternalError(w)
		return
	}
	response.OK(w, prefs)
}

// ListFavoriteSpots handles GET /users/favorite-spots
func (h *Handler) ListFavoriteSpots(w http.ResponseWriter, r *http.Request) {
	spots, err := h.service.ListFavoriteSpots(r.Context(), middleware.GetUserID(r.Context()))
	if err != nil {
		response.InternalError(w)
		return
	}
	if spots == nil {
		spots = []*FavoriteSpot{}
	}
	response.OK(w, spots)
}

// CreateFavoriteSpot handles POST /users/favorite-spots
func (h *Handler) CreateFavoriteSpot(w http.ResponseWriter, r *http.Request) {
	var req CreateFavoriteSpotRequest
	if err := response.DecodeJSON(r.Body, &req); err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	}
	if fieldErrors := validator.Validate(req); fieldErrors != nil {
		response.ValidationError(w, fieldErrors)
		return
	}

	spot, err := h.service.CreateFavoriteSpot(r.Context(), middleware.GetUserID(r.Context()), &req)
	if err != nil {
		if errors.Is(err, ErrInvalidLocation) {
			response.BadRequest(w, err.Error())
			return
		}
		response.InternalError(w)
		return
	}
	response.Created(w, spot)
}

// DeleteFavoriteSpot handles DELETE /users/favorite-spots/{id}
func (h *Handler) DeleteFavoriteSpot(w http.ResponseWriter, r *http.Request) {
	spotID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		response.BadRequest(w, "Invalid spot ID")
		return
	}

	if err := h.service.DeleteFavoriteSpot(r.Context(), middleware.GetUserID(r.Context()), spotID); err != nil {
		if errors.Is(err, ErrSpotNotFound) {
			response.NotFound(w, "Favorite spot not found")
			return
		}
		response.InternalError(w)
		return
	}
	response.NoContent(w)
}

// ListCategoryFilters handles GET /users/category-filters
func (h *Handler) ListCategoryFilters(w http.ResponseWriter, r *http.Request) {
	filters, err := h.service.ListCategoryFilters(r.Context(), middleware.GetUserID(r.Context()))
	if err != nil {
		response.InternalError(w)
		return
	}
	if filters == nil {
		filters = []*CategoryFilter{}
	}
	response.OK(w, filters)
}

// SetCategoryFilters handles PUT /users/category-filters
func (h *Handler) SetCategoryFilters(w http.ResponseWriter, r *http.Request) {
	var req CategoryFiltersRequest
	if err := response.DecodeJSON(r.Body, &req); err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	}
	if fieldErrors := validator.Validate(req); fieldErrors != nil {
		response.ValidationError(w, fieldErrors)
		return
	}

	ids, err := h.service.SetCategoryFilters(r.Context(), middleware.GetUserID(r.Context()), req.CategoryIDs)
	if err != nil {
		response.InternalError(w)
		return
	}
	response.OK(w, map[string][]int64{"category_ids": ids})
}

// Routes returns the user self-service router
func (h *Handler) Routes(authMiddleware func(http.Handler) http.Handler) chi.Router {
	r := chi.NewRouter()
	r.Use(authMiddleware)

	r.Get("/profile", h.Profile)
	r.Patch("/profile", h.UpdateProfile)
	r.Get("/settings", h.Settings)
	r.Put("/settings", h.UpdateSettings)
	r.Get("/notification-preferences", h.NotificationPreferences)
	r.Put("/notification-preferences", h.UpdateNotificationPreferences)
	r.Get("/favorite-spots", h.ListFavoriteSpots)
	r.Post("/favorite-spots", h.CreateFavoriteSpot)
	r.Delete("/favorite-spots/{id}", h.DeleteFavoriteSpot)
	r.Get("/map-preferences", h.MapPreferences)
	r.Put("/map-preferences", h.UpdateMapPreferences)
	r.Get("/category-filters", h.ListCategoryFilters)
	r.Put("/category-filters", h.SetCategoryFilters)

	return r
}
