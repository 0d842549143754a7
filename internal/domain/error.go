package domain

import "errors"

var (
	// Common domain errors
	ErrNotFound          = errors.New("entity not found")
	ErrInvalidArgument   = errors.New("invalid argument")
	ErrUnknownProduct    = errors.New("unknown product")
	ErrVisitorResolution = errors.New("visitor could not be resolved")
	ErrCheckoutFailed    = errors.New("checkout could not be created")
	ErrForbidden         = errors.New("forbidden")
)
