package cli

import (
	"errors"
	"strings"

	"github.com/rs/zerolog"

	"github.com/epicevents/crm/internal/core/authz"
	"github.com/epicevents/crm/internal/core/domain"
)

// resolveError maps known domain errors to the message shown to the
// operator. Unexpected errors are logged internally and reported without
// details.
func resolveError(err error, log zerolog.Logger) string {
	var scope *authz.FieldScopeError
	if errors.As(err, &scope) {
		return "Permission denied: you may not change " + strings.ReplaceAll(scope.Rejected.String(), ",", ", ") + "."
	}

	switch {
	case errors.Is(err, domain.ErrAuthenticationFailed):
		return "Invalid email or password."
	case errors.Is(err, domain.ErrTokenExpired):
		return "Your session has expired. Please log in again."
	case errors.Is(err, domain.ErrTokenInvalid), errors.Is(err, domain.ErrNotAuthenticated):
		return "You are not logged in."
	case errors.Is(err, domain.ErrSignupClosed):
		return "Signup is closed. Ask an administrator to create your account."
	case errors.Is(err, domain.ErrPermissionDenied):
		return "Permission denied."
	case errors.Is(err, domain.ErrValidationRejected):
		return "Cancelled. Nothing was changed."
	case errors.Is(err, domain.ErrInvalidInput), errors.Is(err, domain.ErrInUse):
		return capitalize(err.Error()) + "."
	case errors.Is(err, domain.ErrUserExists):
		return "A collaborator with this email or employee number already exists."
	case errors.Is(err, domain.ErrClientExists):
		return "A client with this email already exists."
	case errors.Is(err, domain.ErrNotFound):
		return capitalize(notFoundMessage(err)) + "."
	}

	log.Error().Err(err).Msg("unhandled error")
	return "Something went wrong. See the log for details."
}

// notFoundMessage returns the innermost not-found message, without the
// wrapping context.
func notFoundMessage(err error) string {
	for _, kind := range []error{
		domain.ErrRoleNotFound,
		domain.ErrUserNotFound,
		domain.ErrClientNotFound,
		domain.ErrContractNotFound,
		domain.ErrEventNotFound,
	} {
		if errors.Is(err, kind) {
			return kind.Error()
		}
	}
	return domain.ErrNotFound.Error()
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
