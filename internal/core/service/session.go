package service

import (
	"github.com/epicevents/crm/internal/core/authz"
	"github.com/epicevents/crm/internal/core/domain"
	"github.com/epicevents/crm/internal/pkg/token"
)

// SessionContext is the per-process session state threaded through every
// call. A zero value is LoggedOut.
type SessionContext struct {
	token string
	claim token.Claim
	user  *domain.User
}

// NewSessionContext returns a LoggedOut session.
func NewSessionContext() *SessionContext {
	return &SessionContext{}
}

// LoggedIn reports whether an identity is recorded.
func (sc *SessionContext) LoggedIn() bool {
	return sc.user != nil
}

// User returns a copy of the signed-in collaborator, or nil.
func (sc *SessionContext) User() *domain.User {
	if sc.user == nil {
		return nil
	}
	u := *sc.user
	return &u
}

// Identity returns the signed-in identity. It is zero when LoggedOut.
func (sc *SessionContext) Identity() authz.Identity {
	return authz.IdentityOf(sc.user)
}

// Claim returns the verified claim of the current token.
func (sc *SessionContext) Claim() token.Claim {
	return sc.claim
}

func (sc *SessionContext) set(tok string, claim token.Claim, user *domain.User) {
	u := *user
	sc.token = tok
	sc.claim = claim
	sc.user = &u
}

func (sc *SessionContext) reset() {
	sc.token = ""
	sc.claim = token.Claim{}
	sc.user = nil
}
