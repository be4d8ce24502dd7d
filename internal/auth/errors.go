package auth

import "errors"

var (
	// ErrUnknownResource is returned when parsing a resource that is not part of the closed set.
	ErrUnknownResource = errors.New("unknown resource")

	// ErrUnknownAction is returned when parsing an action that is not part of the closed set.
	ErrUnknownAction = errors.New("unknown action")

	// ErrUnknownRole is returned when parsing a role that is not part of the closed set.
	ErrUnknownRole = errors.New("unknown role")

	// ErrInvalidGrant is returned for a grant string that is not of the form resource:action.
	ErrInvalidGrant = errors.New("grant must be of the form resource:action")
)
