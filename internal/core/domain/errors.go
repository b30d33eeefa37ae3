package domain

import "errors"

// Authentication and session errors.
var (
	ErrAuthenticationFailed = errors.New("authentication failed")
	ErrTokenExpired         = errors.New("session token expired")
	ErrTokenInvalid         = errors.New("session token invalid")
	ErrNotAuthenticated     = errors.New("not authenticated")
	ErrSignupClosed         = errors.New("signup closed")
)

// Authorization and workflow errors.
var (
	ErrPermissionDenied   = errors.New("permission denied")
	ErrValidationRejected = errors.New("operation cancelled")
	ErrInvalidInput       = errors.New("invalid input")
	ErrInUse              = errors.New("resource still referenced")
)

// ErrNotFound is the parent of every lookup miss; match it with errors.Is to
// handle any resource kind.
var ErrNotFound = errors.New("not found")

var (
	ErrRoleNotFound     = notFound("role not found")
	ErrUserNotFound     = notFound("user not found")
	ErrClientNotFound   = notFound("client not found")
	ErrContractNotFound = notFound("contract not found")
	ErrEventNotFound    = notFound("event not found")
)

var (
	ErrRoleExists   = errors.New("role already exists")
	ErrUserExists   = errors.New("user already exists")
	ErrClientExists = errors.New("client already exists")
)

type notFoundError struct{ msg string }

func notFound(msg string) error { return &notFoundError{msg: msg} }

func (e *notFoundError) Error() string { return e.msg }

func (e *notFoundError) Is(target error) bool { return target == ErrNotFound }
