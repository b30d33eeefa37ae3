package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/epicevents/crm/internal/core/authz"
	"github.com/epicevents/crm/internal/core/domain"
	"github.com/epicevents/crm/internal/core/ports"
)

const resourceClient = "client"

// ClientService gates client reads and writes.
type ClientService struct {
	*guard
	clients   ports.ClientRepository
	contracts ports.ContractRepository
	now       func() time.Time
}

func NewClientService(
	dir ports.Directory,
	sessions *SessionManager,
	engine *authz.Engine,
	confirm ports.Confirmer,
	log zerolog.Logger,
) *ClientService {
	return &ClientService{
		guard:     newGuard(sessions, engine, confirm, log),
		clients:   dir.Clients,
		contracts: dir.Contracts,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

// List returns every client.
func (s *ClientService) List(ctx context.Context, sc *SessionContext) ([]*domain.Client, error) {
	if _, _, err := s.begin(ctx, sc, authz.ViewClients, authz.Target{}); err != nil {
		return nil, err
	}
	return s.clients.List(ctx)
}

// Get returns one client.
func (s *ClientService) Get(ctx context.Context, sc *SessionContext, id string) (*domain.Client, error) {
	if _, _, err := s.begin(ctx, sc, authz.ViewClients, authz.Target{}); err != nil {
		return nil, err
	}
	return s.clients.FindByID(ctx, id)
}

// Create adds a client owned by the acting Commercial.
func (s *ClientService) Create(ctx context.Context, sc *SessionContext, in ports.CreateClientInput) (*domain.Client, error) {
	id, _, err := s.begin(ctx, sc, authz.CreateClient, authz.Target{})
	if err != nil {
		return nil, err
	}
	if err := s.validate.check(in); err != nil {
		return nil, err
	}

	now := s.now()
	first := in.FirstContactDate
	if first.IsZero() {
		first = now
	}
	client := &domain.Client{
		FullName:          strings.TrimSpace(in.FullName),
		Email:             strings.TrimSpace(in.Email),
		Phone:             in.Phone,
		CompanyName:       in.CompanyName,
		FirstContactDate:  first,
		LastContactDate:   now,
		CommercialContact: id.FullName,
		UserID:            id.UserID,
	}

	if err := s.approve(ctx, resourceClient, fmt.Sprintf("Create client %s <%s>", client.FullName, client.Email)); err != nil {
		return nil, err
	}
	if err := s.clients.Create(ctx, client); err != nil {
		return nil, fmt.Errorf("create client: %w", err)
	}
	s.committed(id, resourceClient, "create", client.ID)
	return client, nil
}

// Update applies the non-nil fields of in to client clientID.
func (s *ClientService) Update(ctx context.Context, sc *SessionContext, clientID string, in ports.UpdateClientInput) (*domain.Client, error) {
	actor, err := s.identity(ctx, sc)
	if err != nil {
		return nil, err
	}
	current, err := s.clients.FindByID(ctx, clientID)
	if err != nil {
		return nil, err
	}
	d := s.authorize(actor, authz.UpdateClient, authz.Target{Client: current})
	if err := d.Err(); err != nil {
		return nil, err
	}
	if err := s.validate.check(in); err != nil {
		return nil, err
	}

	next := *current
	changed := applyClientUpdate(&next, in)
	if changed.Empty() {
		return current, nil
	}
	if err := s.permits(actor, authz.UpdateClient, d, changed); err != nil {
		return nil, err
	}

	if err := s.approve(ctx, resourceClient, fmt.Sprintf("Update client %s: %s", current.FullName, changed)); err != nil {
		return nil, err
	}
	if err := s.clients.Update(ctx, &next); err != nil {
		return nil, fmt.Errorf("update client: %w", err)
	}
	s.committed(actor, resourceClient, "update", next.ID)
	return &next, nil
}

// Delete removes a client without contracts.
func (s *ClientService) Delete(ctx context.Context, sc *SessionContext, clientID string) error {
	actor, err := s.identity(ctx, sc)
	if err != nil {
		return err
	}
	current, err := s.clients.FindByID(ctx, clientID)
	if err != nil {
		return err
	}
	if err := s.authorize(actor, authz.DeleteClient, authz.Target{Client: current}).Err(); err != nil {
		return err
	}

	contracts, err := s.contracts.List(ctx, ports.ContractFilter{ClientID: current.ID})
	if err != nil {
		return fmt.Errorf("delete client: %w", err)
	}
	if len(contracts) > 0 {
		return fmt.Errorf("%w: client has %d contract(s)", domain.ErrInUse, len(contracts))
	}

	if err := s.approve(ctx, resourceClient, fmt.Sprintf("Delete client %s <%s>", current.FullName, current.Email)); err != nil {
		return err
	}
	if err := s.clients.Delete(ctx, current.ID); err != nil {
		return fmt.Errorf("delete client: %w", err)
	}
	s.committed(actor, resourceClient, "delete", current.ID)
	return nil
}

// applyClientUpdate writes in onto c and returns the fields whose value
// changed.
func applyClientUpdate(c *domain.Client, in ports.UpdateClientInput) authz.FieldSet {
	var changed authz.FieldSet
	setString(&c.FullName, in.FullName, authz.ClientFullName, &changed)
	setString(&c.Email, in.Email, authz.ClientEmail, &changed)
	setString(&c.Phone, in.Phone, authz.ClientPhone, &changed)
	setString(&c.CompanyName, in.CompanyName, authz.ClientCompanyName, &changed)
	setTime(&c.FirstContactDate, in.FirstContactDate, authz.ClientFirstContactDate, &changed)
	setTime(&c.LastContactDate, in.LastContactDate, authz.ClientLastContactDate, &changed)
	setString(&c.CommercialContact, in.CommercialContact, authz.ClientCommercialContact, &changed)
	return changed
}

func setString(dst *string, v *string, f authz.Field, changed *authz.FieldSet) {
	if v == nil {
		return
	}
	trimmed := strings.TrimSpace(*v)
	if trimmed != *dst {
		*dst = trimmed
		*changed = changed.With(f)
	}
}

func setTime(dst *time.Time, v *time.Time, f authz.Field, changed *authz.FieldSet) {
	if v == nil {
		return
	}
	if !v.Equal(*dst) {
		*dst = v.UTC()
		*changed = changed.With(f)
	}
}

func setInt(dst *int, v *int, f authz.Field, changed *authz.FieldSet) {
	if v != nil && *v != *dst {
		*dst = *v
		*changed = changed.With(f)
	}
}

func setBool(dst *bool, v *bool, f authz.Field, changed *authz.FieldSet) {
	if v != nil && *v != *dst {
		*dst = *v
		*changed = changed.With(f)
	}
}
