package report

import "errors"

var (
	ErrReportNotFound  = errors.New("report not found")
	ErrInvalidStatus   = errors.New("invalid report status")
	ErrInvalidPriority = errors.New("invalid report priority")
	ErrInvalidScope    = errors.New("invalid notify scope")
	ErrTooManyMedia    = errors.New("too many media attachments")
	ErrInvalidLocation = errors.New("invalid coordinates")
)
