package usecases

import "errors"

// Sentinel errors mapped to HTTP status codes at the handler boundary.
var (
	ErrNotFound           = errors.New("not found")
	ErrForbidden          = errors.New("access denied")
	ErrLocked             = errors.New("account locked")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrEmailTaken         = errors.New("email already registered")
	ErrSelfAction         = errors.New("cannot modify own account")
	ErrInvalidRole        = errors.New("invalid role")
)
