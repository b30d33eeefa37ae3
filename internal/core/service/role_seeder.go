package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/epicevents/crm/internal/core/domain"
	"github.com/epicevents/crm/internal/core/ports"
)

// RoleSeeder creates the fixed role set.
type RoleSeeder struct {
	roles ports.RoleRepository
	log   zerolog.Logger
}

func NewRoleSeeder(roles ports.RoleRepository, log zerolog.Logger) *RoleSeeder {
	return &RoleSeeder{roles: roles, log: log}
}

// EnsureDefaults creates every missing default role. Running it again is a
// no-op.
func (s *RoleSeeder) EnsureDefaults(ctx context.Context) error {
	for _, name := range domain.DefaultRoles {
		_, err := s.roles.FindByName(ctx, name)
		if err == nil {
			continue
		}
		if !errors.Is(err, domain.ErrRoleNotFound) {
			return fmt.Errorf("seed role %s: %w", name, err)
		}

		role := &domain.Role{Name: name, Description: name + " role"}
		if err := s.roles.Create(ctx, role); err != nil {
			if errors.Is(err, domain.ErrRoleExists) {
				continue
			}
			return fmt.Errorf("seed role %s: %w", name, err)
		}
		s.log.Info().Str("role", name).Msg("role created")
	}
	return nil
}
