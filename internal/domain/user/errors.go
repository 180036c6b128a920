package user

import "errors"

var (
	ErrUserNotFound    = errors.New("user not found")
	ErrSpotNotFound    = errors.New("favorite spot not found")
	ErrInvalidLocation = errors.New("invalid coordinates")
	ErrInvalidStatus   = errors.New("invalid account status")
	ErrNoChanges       = errors.New("no changes provided")
)
