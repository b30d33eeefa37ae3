package service

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/epicevents/crm/internal/core/authz"
	"github.com/epicevents/crm/internal/core/domain"
	"github.com/epicevents/crm/internal/core/ports"
)

const resourceCollaborator = "collaborator"

// CollaboratorService manages staff accounts.
type CollaboratorService struct {
	*guard
	users ports.UserRepository
	roles ports.RoleRepository
	creds *CredentialStore
}

func NewCollaboratorService(
	dir ports.Directory,
	sessions *SessionManager,
	creds *CredentialStore,
	engine *authz.Engine,
	confirm ports.Confirmer,
	log zerolog.Logger,
) *CollaboratorService {
	return &CollaboratorService{
		guard: newGuard(sessions, engine, confirm, log),
		users: dir.Users,
		roles: dir.Roles,
		creds: creds,
	}
}

// List returns every collaborator. Only those allowed to edit staff may
// list them.
func (s *CollaboratorService) List(ctx context.Context, sc *SessionContext) ([]*domain.User, error) {
	if _, _, err := s.begin(ctx, sc, authz.UpdateCollaborator, authz.Target{}); err != nil {
		return nil, err
	}
	return s.users.List(ctx)
}

// Create adds a collaborator with any role.
func (s *CollaboratorService) Create(ctx context.Context, sc *SessionContext, in ports.SignupInput) (*domain.User, error) {
	actor, _, err := s.begin(ctx, sc, authz.CreateCollaborator, authz.Target{})
	if err != nil {
		return nil, err
	}
	if err := s.validate.check(in); err != nil {
		return nil, err
	}
	user, err := newCollaborator(ctx, s.roles, s.creds, in)
	if err != nil {
		return nil, fmt.Errorf("create collaborator: %w", err)
	}

	summary := fmt.Sprintf("Create collaborator #%d %s <%s> as %s", user.EmployeeNumber, user.FullName, user.Email, user.RoleName())
	if err := s.approve(ctx, resourceCollaborator, summary); err != nil {
		return nil, err
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("create collaborator: %w", err)
	}
	s.committed(actor, resourceCollaborator, "create", user.ID)
	return user, nil
}

// Update applies the non-nil fields of in to collaborator userID.
func (s *CollaboratorService) Update(ctx context.Context, sc *SessionContext, userID string, in ports.UpdateCollaboratorInput) (*domain.User, error) {
	actor, d, err := s.begin(ctx, sc, authz.UpdateCollaborator, authz.Target{})
	if err != nil {
		return nil, err
	}
	if err := s.validate.check(in); err != nil {
		return nil, err
	}
	current, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	next := *current
	var changed authz.FieldSet
	setString(&next.FullName, in.FullName, authz.CollaboratorFullName, &changed)
	setString(&next.Email, in.Email, authz.CollaboratorEmail, &changed)
	setString(&next.Department, in.Department, authz.CollaboratorDepartment, &changed)
	if in.Role != nil && *in.Role != current.RoleName() {
		role, err := s.roles.FindByName(ctx, *in.Role)
		if err != nil {
			return nil, err
		}
		next.Role = *role
		changed = changed.With(authz.CollaboratorRole)
	}
	if in.Password != nil {
		if err := s.creds.Set(&next, *in.Password); err != nil {
			return nil, err
		}
		changed = changed.With(authz.CollaboratorPassword)
	}
	if changed.Empty() {
		return current, nil
	}
	if err := s.permits(actor, authz.UpdateCollaborator, d, changed); err != nil {
		return nil, err
	}

	if err := s.approve(ctx, resourceCollaborator, fmt.Sprintf("Update collaborator %s: %s", current.Email, changed)); err != nil {
		return nil, err
	}
	next.UpdatedAt = time.Now().UTC()
	if err := s.users.Update(ctx, &next); err != nil {
		return nil, fmt.Errorf("update collaborator: %w", err)
	}
	s.committed(actor, resourceCollaborator, "update", next.ID)

	if next.ID == actor.UserID {
		if err := s.sessions.Refresh(ctx, sc, &next); err != nil {
			s.log.Warn().Err(err).Str("user_id", next.ID).Msg("session not refreshed after self update")
		}
	}
	return &next, nil
}

// Delete removes a collaborator other than the acting one.
func (s *CollaboratorService) Delete(ctx context.Context, sc *SessionContext, userID string) error {
	actor, _, err := s.begin(ctx, sc, authz.DeleteCollaborator, authz.Target{})
	if err != nil {
		return err
	}
	current, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return err
	}
	if current.ID == actor.UserID {
		return invalid("cannot delete the signed-in collaborator")
	}

	if err := s.approve(ctx, resourceCollaborator, fmt.Sprintf("Delete collaborator %s <%s>", current.FullName, current.Email)); err != nil {
		return err
	}
	if err := s.users.Delete(ctx, current.ID); err != nil {
		return fmt.Errorf("delete collaborator: %w", err)
	}
	s.committed(actor, resourceCollaborator, "delete", current.ID)
	return nil
}
