package ports

import (
	"time"

	"github.com/epicevents/crm/internal/pkg/token"
)

// PasswordHasher hashes and checks collaborator passwords.
type PasswordHasher interface {
	Hash(password string) (string, error)
	Verify(password, encodedHash string) (bool, error)
	NeedsRehash(encodedHash string) (bool, error)
}

// TokenCodec issues and verifies session tokens.
type TokenCodec interface {
	Issue(subject string, ttl time.Duration) (string, token.Claim, error)
	Verify(tok string) (token.Claim, error)
}

// SignupInput carries the fields of a new collaborator account.
type SignupInput struct {
	EmployeeNumber int    `validate:"required,gt=0"`
	FullName       string `validate:"required,max=255"`
	Email          string `validate:"required,email,max=255"`
	Department     string `validate:"max=255"`
	Role           string `validate:"required,oneof=Admin Commercial Support"`
	Password       string `validate:"required,min=8,max=1024"`
}
