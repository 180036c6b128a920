package notification

import "errors"

var (
	ErrNotificationNotFound = errors.New("notification not found")
	ErrDeliveryNotFound     = errors.New("delivery not found")
	ErrInvalidType          = errors.New("invalid notification type")
	ErrInvalidChannel       = errors.New("invalid delivery channel")
)
