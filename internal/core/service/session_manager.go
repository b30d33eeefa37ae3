package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/epicevents/crm/internal/core/domain"
	"github.com/epicevents/crm/internal/core/ports"
	"github.com/epicevents/crm/internal/infrastructure/metrics"
)

// SessionManager drives the LoggedOut / LoggedIn session state machine.
//
// A token that fails verification for any reason moves the session to
// LoggedOut and clears the persisted copy.
type SessionManager struct {
	users    ports.UserRepository
	roles    ports.RoleRepository
	creds    *CredentialStore
	codec    ports.TokenCodec
	store    ports.SessionStore
	ttl      time.Duration
	validate *inputValidator
	log      zerolog.Logger
}

func NewSessionManager(
	dir ports.Directory,
	creds *CredentialStore,
	codec ports.TokenCodec,
	store ports.SessionStore,
	ttl time.Duration,
	log zerolog.Logger,
) *SessionManager {
	if ttl <= 0 {
		ttl = 30 * time.Minute
	}
	return &SessionManager{
		users:    dir.Users,
		roles:    dir.Roles,
		creds:    creds,
		codec:    codec,
		store:    store,
		ttl:      ttl,
		validate: newInputValidator(),
		log:      log,
	}
}

// Login verifies credentials, persists a fresh token and records the
// identity in sc. Unknown emails and wrong passwords are indistinguishable.
func (m *SessionManager) Login(ctx context.Context, sc *SessionContext, email, password string) (*domain.User, error) {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		metrics.LoginsTotal.WithLabelValues("failed").Inc()
		return nil, domain.ErrAuthenticationFailed
	}

	user, err := m.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			m.creds.Verify(nil, password)
			metrics.LoginsTotal.WithLabelValues("failed").Inc()
			m.log.Info().Str("email", email).Msg("login rejected")
			return nil, domain.ErrAuthenticationFailed
		}
		metrics.LoginsTotal.WithLabelValues("error").Inc()
		return nil, fmt.Errorf("login: %w", err)
	}

	if !m.creds.Verify(user, password) {
		metrics.LoginsTotal.WithLabelValues("failed").Inc()
		m.log.Info().Str("email", email).Msg("login rejected")
		return nil, domain.ErrAuthenticationFailed
	}

	if m.creds.NeedsRehash(user) {
		m.upgradeHash(ctx, user, password)
	}

	tok, claim, err := m.codec.Issue(user.Email, m.ttl)
	if err != nil {
		metrics.LoginsTotal.WithLabelValues("error").Inc()
		return nil, fmt.Errorf("login: issue token: %w", err)
	}
	if err := m.store.Save(ctx, tok); err != nil {
		metrics.LoginsTotal.WithLabelValues("error").Inc()
		return nil, fmt.Errorf("login: %w", err)
	}

	sc.set(tok, claim, user)
	metrics.LoginsTotal.WithLabelValues("success").Inc()
	m.log.Info().
		Str("email", user.Email).
		Str("role", user.RoleName()).
		Time("expires_at", claim.ExpiresAt).
		Msg("login succeeded")

	return sc.User(), nil
}

// upgradeHash stores a hash made with the current parameters. Failure only
// delays the upgrade to the next login.
func (m *SessionManager) upgradeHash(ctx context.Context, user *domain.User, password string) {
	upgraded := *user
	if err := m.creds.Set(&upgraded, password); err != nil {
		m.log.Warn().Err(err).Str("email", user.Email).Msg("password rehash failed")
		return
	}
	upgraded.UpdatedAt = time.Now().UTC()
	if err := m.users.Update(ctx, &upgraded); err != nil {
		m.log.Warn().Err(err).Str("email", user.Email).Msg("password rehash not stored")
		return
	}
	*user = upgraded
	metrics.PasswordRehashesTotal.Inc()
	m.log.Info().Str("email", user.Email).Msg("password hash upgraded")
}

// Resume restores a LoggedIn session. It is a no-op while the in-memory
// token still verifies; otherwise the persisted token is loaded, verified and
// its subject re-fetched.
func (m *SessionManager) Resume(ctx context.Context, sc *SessionContext) error {
	if sc.token != "" {
		if _, err := m.codec.Verify(sc.token); err == nil && sc.user != nil {
			return nil
		}
		sc.reset()
	}

	tok, found, err := m.store.Load(ctx)
	if err != nil {
		if errors.Is(err, domain.ErrTokenInvalid) {
			m.discard(ctx, "invalid")
			return domain.ErrTokenInvalid
		}
		metrics.SessionResumesTotal.WithLabelValues("error").Inc()
		return fmt.Errorf("resume: %w", err)
	}
	if !found {
		metrics.SessionResumesTotal.WithLabelValues("empty").Inc()
		return domain.ErrNotAuthenticated
	}

	claim, err := m.codec.Verify(tok)
	if err != nil {
		if errors.Is(err, domain.ErrTokenExpired) {
			m.discard(ctx, "expired")
			return domain.ErrTokenExpired
		}
		m.log.Warn().Err(err).Msg("persisted session token rejected")
		m.discard(ctx, "invalid")
		return domain.ErrTokenInvalid
	}

	user, err := m.users.FindByEmail(ctx, claim.Subject)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			m.log.Warn().Str("email", claim.Subject).Msg("session subject no longer exists")
			m.discard(ctx, "unknown_user")
			return domain.ErrNotAuthenticated
		}
		metrics.SessionResumesTotal.WithLabelValues("error").Inc()
		return fmt.Errorf("resume: %w", err)
	}

	sc.set(tok, claim, user)
	metrics.SessionResumesTotal.WithLabelValues("resumed").Inc()
	m.log.Debug().Str("email", user.Email).Msg("session resumed")
	return nil
}

// Refresh records an updated copy of the signed-in collaborator in sc. The
// token subject is the email, so an email change reissues and persists a new
// token. When that fails sc is moved to LoggedOut.
func (m *SessionManager) Refresh(ctx context.Context, sc *SessionContext, user *domain.User) error {
	if sc.user == nil || user == nil || sc.user.ID != user.ID {
		return nil
	}
	if user.Email == sc.user.Email {
		sc.set(sc.token, sc.claim, user)
		return nil
	}

	tok, claim, err := m.codec.Issue(user.Email, m.ttl)
	if err != nil {
		sc.reset()
		return fmt.Errorf("refresh session: issue token: %w", err)
	}
	if err := m.store.Save(ctx, tok); err != nil {
		sc.reset()
		return fmt.Errorf("refresh session: %w", err)
	}
	sc.set(tok, claim, user)
	m.log.Info().Str("email", user.Email).Msg("session reissued after email change")
	return nil
}

// discard clears the persisted token after a failed resume.
func (m *SessionManager) discard(ctx context.Context, result string) {
	metrics.SessionResumesTotal.WithLabelValues(result).Inc()
	if err := m.store.Clear(ctx); err != nil {
		m.log.Error().Err(err).Msg("failed to clear persisted session")
	}
}

// IsAuthenticated resumes the session if needed and reports whether it is
// LoggedIn. Every privileged operation calls it first.
func (m *SessionManager) IsAuthenticated(ctx context.Context, sc *SessionContext) bool {
	return m.Resume(ctx, sc) == nil
}

// Logout clears the persisted token and moves sc to LoggedOut, even when
// clearing fails.
func (m *SessionManager) Logout(ctx context.Context, sc *SessionContext) error {
	email := ""
	if sc.user != nil {
		email = sc.user.Email
	}
	sc.reset()
	if err := m.store.Clear(ctx); err != nil {
		return fmt.Errorf("logout: %w", err)
	}
	m.log.Info().Str("email", email).Msg("logged out")
	return nil
}

// Signup creates the first collaborator. It is only open while the
// directory holds no users, and then only for the Admin role; later
// accounts go through CollaboratorService.
func (m *SessionManager) Signup(ctx context.Context, in ports.SignupInput) (*domain.User, error) {
	if err := m.validate.check(in); err != nil {
		return nil, err
	}
	n, err := m.users.Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("signup: %w", err)
	}
	if n > 0 || in.Role != domain.RoleAdmin {
		return nil, domain.ErrSignupClosed
	}

	user, err := newCollaborator(ctx, m.roles, m.creds, in)
	if err != nil {
		return nil, fmt.Errorf("signup: %w", err)
	}
	if err := m.users.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("signup: %w", err)
	}
	m.log.Info().Str("email", user.Email).Str("role", user.RoleName()).Msg("bootstrap collaborator created")
	return user, nil
}

// newCollaborator builds a user with a resolved role and a hashed password.
func newCollaborator(ctx context.Context, roles ports.RoleRepository, creds *CredentialStore, in ports.SignupInput) (*domain.User, error) {
	role, err := roles.FindByName(ctx, in.Role)
	if err != nil {
		return nil, err
	}
	now := time.Now().UTC()
	user := &domain.User{
		EmployeeNumber: in.EmployeeNumber,
		FullName:       strings.TrimSpace(in.FullName),
		Email:          strings.TrimSpace(in.Email),
		Department:     in.Department,
		Role:           *role,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if err := creds.Set(user, in.Password); err != nil {
		return nil, err
	}
	return user, nil
}
