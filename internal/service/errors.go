package service

import "errors"

var (
	// ErrValidation is returned for invalid request input, including a
	// missing reason on delay/cancel transitions.
	ErrValidation = errors.New("validation failed")
	// ErrUnauthorized is returned for bad or missing credentials.
	ErrUnauthorized = errors.New("unauthorized")
	// ErrForbidden is returned when the acting user lacks a permission.
	ErrForbidden = errors.New("forbidden")
)
