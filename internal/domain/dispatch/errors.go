package dispatch

import "errors"

var (
	ErrDispatchNotFound = errors.New("dispatch not found")
	ErrInvalidStatus    = errors.New("invalid dispatch status")
)
