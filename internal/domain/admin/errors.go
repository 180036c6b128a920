package admin

import "errors"

var (
	ErrVerificationNotFound = errors.New("verification not found")
	ErrAlreadyReviewed      = errors.New("verification already reviewed")
	ErrInvalidDecision      = errors.New("invalid review decision")
)
