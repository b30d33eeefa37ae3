package service

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/epicevents/crm/internal/core/authz"
	"github.com/epicevents/crm/internal/core/domain"
	"github.com/epicevents/crm/internal/core/ports"
)

const resourceContract = "contract"

// ContractService gates contract reads and writes.
type ContractService struct {
	*guard
	clients   ports.ClientRepository
	contracts ports.ContractRepository
	events    ports.EventRepository
	now       func() time.Time
}

func NewContractService(
	dir ports.Directory,
	sessions *SessionManager,
	engine *authz.Engine,
	confirm ports.Confirmer,
	log zerolog.Logger,
) *ContractService {
	return &ContractService{
		guard:     newGuard(sessions, engine, confirm, log),
		clients:   dir.Clients,
		contracts: dir.Contracts,
		events:    dir.Events,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

// List returns contracts matching f.
func (s *ContractService) List(ctx context.Context, sc *SessionContext, f ports.ContractFilter) ([]*domain.Contract, error) {
	if _, _, err := s.begin(ctx, sc, authz.ViewContracts, authz.Target{}); err != nil {
		return nil, err
	}
	return s.contracts.List(ctx, f)
}

// Get returns one contract.
func (s *ContractService) Get(ctx context.Context, sc *SessionContext, id string) (*domain.Contract, error) {
	if _, _, err := s.begin(ctx, sc, authz.ViewContracts, authz.Target{}); err != nil {
		return nil, err
	}
	return s.contracts.FindByID(ctx, id)
}

// Create adds a contract under an existing client.
func (s *ContractService) Create(ctx context.Context, sc *SessionContext, in ports.CreateContractInput) (*domain.Contract, error) {
	actor, err := s.identity(ctx, sc)
	if err != nil {
		return nil, err
	}
	if err := s.validate.check(in); err != nil {
		return nil, err
	}
	client, err := s.clients.FindByID(ctx, in.ClientID)
	if err != nil {
		return nil, err
	}
	if err := s.authorize(actor, authz.CreateContract, authz.Target{Client: client}).Err(); err != nil {
		return nil, err
	}
	if err := checkAmounts(in.TotalAmount, in.AmountDue); err != nil {
		return nil, err
	}

	contract := &domain.Contract{
		ClientID:          client.ID,
		CommercialContact: client.CommercialContact,
		TotalAmount:       in.TotalAmount,
		AmountDue:         in.AmountDue,
		CreationDate:      s.now(),
		Signed:            in.Signed,
		UserID:            actor.UserID,
	}

	summary := fmt.Sprintf("Create contract for %s: total %s, due %s, signed %t",
		client.FullName, contract.TotalAmount.StringFixed(2), contract.AmountDue.StringFixed(2), contract.Signed)
	if err := s.approve(ctx, resourceContract, summary); err != nil {
		return nil, err
	}
	if err := s.contracts.Create(ctx, contract); err != nil {
		return nil, fmt.Errorf("create contract: %w", err)
	}
	s.committed(actor, resourceContract, "create", contract.ID)
	return contract, nil
}

// Update applies the non-nil fields of in to contract contractID.
func (s *ContractService) Update(ctx context.Context, sc *SessionContext, contractID string, in ports.UpdateContractInput) (*domain.Contract, error) {
	actor, err := s.identity(ctx, sc)
	if err != nil {
		return nil, err
	}
	current, client, err := s.load(ctx, contractID)
	if err != nil {
		return nil, err
	}
	d := s.authorize(actor, authz.UpdateContract, authz.Target{Client: client, Contract: current})
	if err := d.Err(); err != nil {
		return nil, err
	}
	if err := s.validate.check(in); err != nil {
		return nil, err
	}

	next := *current
	changed := applyContractUpdate(&next, in)
	if changed.Empty() {
		return current, nil
	}
	if err := s.permits(actor, authz.UpdateContract, d, changed); err != nil {
		return nil, err
	}
	if err := checkAmounts(next.TotalAmount, next.AmountDue); err != nil {
		return nil, err
	}

	if err := s.approve(ctx, resourceContract, fmt.Sprintf("Update contract %s: %s", current.ID, changed)); err != nil {
		return nil, err
	}
	if err := s.contracts.Update(ctx, &next); err != nil {
		return nil, fmt.Errorf("update contract: %w", err)
	}
	s.committed(actor, resourceContract, "update", next.ID)
	return &next, nil
}

// Delete removes a contract without events.
func (s *ContractService) Delete(ctx context.Context, sc *SessionContext, contractID string) error {
	actor, err := s.identity(ctx, sc)
	if err != nil {
		return err
	}
	current, client, err := s.load(ctx, contractID)
	if err != nil {
		return err
	}
	if err := s.authorize(actor, authz.DeleteContract, authz.Target{Client: client, Contract: current}).Err(); err != nil {
		return err
	}

	events, err := s.events.List(ctx, ports.EventFilter{ContractID: current.ID})
	if err != nil {
		return fmt.Errorf("delete contract: %w", err)
	}
	if len(events) > 0 {
		return fmt.Errorf("%w: contract has %d event(s)", domain.ErrInUse, len(events))
	}

	if err := s.approve(ctx, resourceContract, fmt.Sprintf("Delete contract %s", current.ID)); err != nil {
		return err
	}
	if err := s.contracts.Delete(ctx, current.ID); err != nil {
		return fmt.Errorf("delete contract: %w", err)
	}
	s.committed(actor, resourceContract, "delete", current.ID)
	return nil
}

// load fetches a contract and its parent client. A missing client is
// returned as nil.
func (s *ContractService) load(ctx context.Context, contractID string) (*domain.Contract, *domain.Client, error) {
	contract, err := s.contracts.FindByID(ctx, contractID)
	if err != nil {
		return nil, nil, err
	}
	client, err := s.clients.FindByID(ctx, contract.ClientID)
	if client, err = optional(client, err); err != nil {
		return nil, nil, err
	}
	return contract, client, nil
}

func checkAmounts(total, due decimal.Decimal) error {
	switch {
	case total.IsNegative():
		return invalid("total_amount must not be negative")
	case due.IsNegative():
		return invalid("amount_due must not be negative")
	case due.GreaterThan(total):
		return invalid("amount_due must not exceed total_amount")
	}
	return nil
}

func applyContractUpdate(c *domain.Contract, in ports.UpdateContractInput) authz.FieldSet {
	var changed authz.FieldSet
	if in.TotalAmount != nil && !in.TotalAmount.Equal(c.TotalAmount) {
		c.TotalAmount = *in.TotalAmount
		changed = changed.With(authz.ContractTotalAmount)
	}
	if in.AmountDue != nil && !in.AmountDue.Equal(c.AmountDue) {
		c.AmountDue = *in.AmountDue
		changed = changed.With(authz.ContractAmountDue)
	}
	setBool(&c.Signed, in.Signed, authz.ContractSigned, &changed)
	setString(&c.CommercialContact, in.CommercialContact, authz.ContractCommercialContact, &changed)
	return changed
}
