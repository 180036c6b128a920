package user

// UpdateProfileRequest carries optional contact fields; at least one must be set.
type UpdateProfileRequest struct {
	Email            *string `json:"email,omitempty" validate:"omitempty,email"`
	PhoneCountryCode *string `json:"phone_country_code,omitempty" validate:"omitempty,min=1,max=6"`
	PhoneNumber      *string `json:"phone_number,omitempty" validate:"omitempty,min=6,max=20"`
}

// Empty reports whether the request carries no changes.
func (r *UpdateProfileRequest) Empty() bool {
	return r.Email == nil && r.PhoneCountryCode == nil && r.PhoneNumber == nil
}

// UpdateSettingsRequest carries optional interface settings.
type UpdateSettingsRequest struct {
	Language        *string `json:"language,omitempty" validate:"omitempty,oneof=en ar"`
	Theme           *string `json:"theme,omitempty" validate:"omitempty,oneof=light dark system"`
	TwoFactorPrompt *bool   `json:"two_factor_prompt,omitempty"`
}

// Empty reports whether the request carries no changes.
func (r *UpdateSettingsRequest) Empty() bool {
	return r.Language == nil && r.Theme == nil && r.TwoFactorPrompt == nil
}

// NotificationPreferencesRequest carries optional per-channel flags.
type NotificationPreferencesRequest struct {
	NotificationsEnabled *bool `json:"notifications_enabled,omitempty"`
	PushEnabled          *bool `json:"push_enabled,omitempty"`
	EmailEnabled         *bool `json:"email_enabled,omitempty"`
	SMSEnabled           *bool `json:"sms_enabled,omitempty"`
}

// MapPreferencesRequest carries optional map defaults.
type MapPreferencesRequest struct {
	DefaultRadiusMeters       *int    `json:"default_radius_meters,omitempty" validate:"omitempty,gte=50,lte=20000"`
	DefaultView               *string `json:"default_view,omitempty" validate:"omitempty,oneof=map list"`
	IncludeFavoritesByDefault *bool   `json:"include_favorites_by_default,omitempty"`
}

// CreateFavoriteSpotRequest creates a watched location.
type CreateFavoriteSpotRequest struct {
	Name         string  `json:"name" validate:"required,min=2,max=80"`
	Latitude     float64 `json:"latitude" validate:"required,latitude"`
	Longitude    float64 `json:"longitude" validate:"required,longitude"`
	RadiusMeters int     `json:"radius_meters,omitempty" validate:"omitempty,gte=50,lte=20000"`
}

// CategoryFiltersRequest replaces the user's category selection wholesale.
type CategoryFiltersRequest struct {
	CategoryIDs []int64 `json:"category_ids" validate:"omitempty,dive,gt=0"`
}

// ProfileResponse combines the profile row with activity counters.
type ProfileResponse struct {
	Profile *User         `json:"profile"`
	Stats   *AccountStats `json:"stats"`
}
