package user

import (
	"context"

	"github.com/google/uuid"

	"github.com/spotnsend/spotnsend-api/internal/pkg/geo"
)

// DefaultSpotRadiusMeters is used when a favorite spot omits its radius.
const DefaultSpotRadiusMeters = 500

// Service implements user self-service operations
type Service struct {
	repo Repository
}

// NewService creates user service
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Profile returns the profile row together with activity counters.
func (s *Service) Profile(ctx context.Context, userID uuid.UUID) (*ProfileResponse, error) {
	u, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, ErrUserNotFound
	}

	stats, err := s.repo.AccountStats(ctx, userID)
	if err != nil {
		return nil, err
	}

	return &ProfileResponse{Profile: u, Stats: stats}, nil
}

func (s *Service) UpdateProfile(ctx context.Context, userID uuid.UUID, req *UpdateProfileRequest) (*User, error) {
	if req.Empty() {
		return nil, ErrNoChanges
	}

	u, err := s.repo.UpdateProfile(ctx, userID, ProfilePatch{
		Email:            req.Email,
		PhoneCountryCode: req.PhoneCountryCode,
		PhoneNumber:      req.PhoneNumber,
	})
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, ErrUserNotFound
	}
	return u, nil
}

// Settings returns stored settings, or nil when the user never wrote any.
func (s *Service) Settings(ctx context.Context, userID uuid.UUID) (*Settings, error) {
	return s.repo.GetSettings(ctx, userID)
}

func (s *Service) UpdateSettings(ctx context.Context, userID uuid.UUID, req *UpdateSettingsRequest) (*Settings, error) {
	if req.Empty() {
		return nil, ErrNoChanges
	}
	return s.repo.UpsertSettings(ctx, userID, SettingsPatch{
		Language:        req.Language,
		Theme:           req.Theme,
		TwoFactorPrompt: req.TwoFactorPrompt,
	})
}

func (s *Service) NotificationPreferences(ctx context.Context, userID uuid.UUID) (*NotificationPreferences, error) {
	return s.repo.GetNotificationPreferences(ctx, userID)
}

func (s *Service) UpdateNotificationPreferences(ctx context.Context, userID uuid.UUID, req *NotificationPreferencesRequest) (*NotificationPreferences, error) {
	return s.repo.UpsertNotificationPreferences(ctx, userID, NotificationPatch{
		NotificationsEnabled: req.NotificationsEnabled,
		PushEnabled:          req.PushEnabled,
		EmailEnabled:         req.EmailEnabled,
		SMSEnabled:           req.SMSEnabled,
	})
}

func (s *Service) MapPreferences(ctx context.Context, userID uuid.UUID) (*MapPreferences, error) {
	return s.repo.GetMapPreferences(ctx, userID)
}

func (s *Service) UpdateMapPreferences(ctx context.Context, userID uuid.UUID, req *MapPreferencesRequest) (*MapPreferences, error) {
	return s.repo.UpsertMapPreferences(ctx, userID, MapPatch{
		DefaultRadiusMeters:       req.DefaultRadiusMeters,
		DefaultView:               req.DefaultView,
		IncludeFavoritesByDefault: req.IncludeFavoritesByDefault,
	})
}

func (s *Service) ListFavoriteSpots(ctx context.Context, userID uuid.UUID) ([]*FavoriteSpot, error) {
	return s.repo.ListFavoriteSpots(ctx, userID)
}

func (s *Service) CreateFavoriteSpot(ctx context.Context, userID uuid.UUID, req *CreateFavoriteSpotRequest) (*FavoriteSpot, error) {
	if !geo.ValidLatLon(req.Latitude, req.Longitude) {
		return nil, ErrInvalidLocation
	}

	radius := req.RadiusMeters
	if radius == 0 {
		radius = DefaultSpotRadiusMeters
	}

	return s.repo.CreateFavoriteSpot(ctx, &FavoriteSpot{
		ID:           uuid.New(),
		UserID:       userID,
		Name:         req.Name,
		Latitude:     req.Latitude,
		Longitude:    req.Longitude,
		RadiusMeters: radius,
	})
}

func (s *Service) DeleteFavoriteSpot(ctx context.Context, userID, spotID uuid.UUID) error {
	deleted, err := s.repo.DeleteFavoriteSpot(ctx, userID, spotID)
	if err != nil {
		return err
	}
	if !deleted {
		return ErrSpotNotFound
	}
	return nil
}

func (s *Service) ListCategoryFilters(ctx context.Context, userID uuid.UUID) ([]*CategoryFilter, error) {
	return s.repo.ListCategoryFilters(ctx, userID)
}

// SetCategoryFilters replaces the whole selection; an empty list clears it.
func (s *Service) SetCategoryFilters(ctx context.Context, userID uuid.UUID, categoryIDs []int64) ([]int64, error) {
	if err := s.repo.ReplaceCategoryFilters(ctx, userID, categoryIDs); err != nil {
		return nil, err
	}
	if categoryIDs == nil {
		return []int64{}, nil
	}
	return categoryIDs, nil
}
