package domain

import "errors"

var (
	ErrRunNotFound     = errors.New("generation run not found")
	ErrReportNotFound  = errors.New("review report not found")
	ErrEmptyMarkup     = errors.New("markup is empty")
	ErrUnsupportedSpec = errors.New("unsupported spec format")
	ErrInvalidJobID    = errors.New("invalid job id")
)
