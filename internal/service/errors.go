package service

import "errors"

var (
	// ErrFormNotFound is returned when a form id does not resolve.
	ErrFormNotFound = errors.New("service: form not found")
	// ErrFormExists is returned when creating a form whose id is taken.
	ErrFormExists = errors.New("service: form already exists")
	// ErrInvalidForm wraps definition validation failures.
	ErrInvalidForm = errors.New("service: invalid form")
	// ErrSessionNotFound is returned for unknown or expired sessions.
	ErrSessionNotFound = errors.New("service: session not found")
	// ErrUnknownAction is returned by Step for actions other than next,
	// previous, submit or save.
	ErrUnknownAction = errors.New("service: unknown action")
)
