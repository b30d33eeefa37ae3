package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/epicevents/crm/internal/core/authz"
	"github.com/epicevents/crm/internal/core/domain"
	"github.com/epicevents/crm/internal/core/ports"
)

const resourceEvent = "event"

// EventService gates event reads and writes.
type EventService struct {
	*guard
	users     ports.UserRepository
	clients   ports.ClientRepository
	contracts ports.ContractRepository
	events    ports.EventRepository
}

// NewEventService returns an EventService implementation.
func NewEventService(
	dir ports.Directory,
	sessions *SessionManager,
	engine *authz.Engine,
	confirm ports.Confirmer,
	log zerolog.Logger,
) *EventService {
	return &EventService{
		guard:     newGuard(sessions, engine, confirm, log),
		users:     dir.Users,
		clients:   dir.Clients,
		contracts: dir.Contracts,
		events:    dir.Events,
	}
}

// List returns events matching f. Listing unassigned events is its own
// action.
func (s *EventService) List(ctx context.Context, sc *SessionContext, f ports.EventFilter) ([]*domain.Event, error) {
	action := authz.ViewEvents
	if f.WithoutSupport {
		action = authz.FilterEventsWithoutSupport
	}
	if _, _, err := s.begin(ctx, sc, action, authz.Target{}); err != nil {
		return nil, err
	}
	return s.events.List(ctx, f)
}

// Assigned lists the events whose support contact is the acting
// collaborator.
func (s *EventService) Assigned(ctx context.Context, sc *SessionContext) ([]*domain.Event, error) {
	id, _, err := s.begin(ctx, sc, authz.ViewEvents, authz.Target{})
	if err != nil {
		return nil, err
	}
	if id.FullName == "" {
		return []*domain.Event{}, nil
	}
	return s.events.List(ctx, ports.EventFilter{SupportContact: id.FullName})
}

// Get returns one event.
func (s *EventService) Get(ctx context.Context, sc *SessionContext, id string) (*domain.Event, error) {
	if _, _, err := s.begin(ctx, sc, authz.ViewEvents, authz.Target{}); err != nil {
		return nil, err
	}
	return s.events.FindByID(ctx, id)
}

// Create adds an event under a signed contract.
func (s *EventService) Create(ctx context.Context, sc *SessionContext, in ports.CreateEventInput) (*domain.Event, error) {
	actor, err := s.identity(ctx, sc)
	if err != nil {
		return nil, err
	}
	if err := s.validate.check(in); err != nil {
		return nil, err
	}
	contract, err := s.contracts.FindByID(ctx, in.ContractID)
	if err != nil {
		return nil, err
	}
	client, err := s.clients.FindByID(ctx, contract.ClientID)
	if client, err = optional(client, err); err != nil {
		return nil, err
	}
	if err := s.authorize(actor, authz.CreateEvent, authz.Target{Client: client, Contract: contract}).Err(); err != nil {
		return nil, err
	}

	if !contract.Signed {
		return nil, invalid("contract %s is not signed", contract.ID)
	}
	event := &domain.Event{
		ContractID:     contract.ID,
		ClientID:       contract.ClientID,
		EventName:      strings.TrimSpace(in.EventName),
		EventDateStart: in.EventDateStart.UTC(),
		EventDateEnd:   in.EventDateEnd.UTC(),
		Location:       in.Location,
		SupportContact: strings.TrimSpace(in.SupportContact),
		Attendees:      in.Attendees,
		Notes:          in.Notes,
		ClientContact:  in.ClientContact,
		Status:         domain.EventScheduled,
		UserID:         actor.UserID,
	}
	if event.ClientContact == "" {
		event.ClientContact = clientContact(client)
	}
	if err := s.checkEvent(ctx, event); err != nil {
		return nil, err
	}

	if err := s.approve(ctx, resourceEvent, fmt.Sprintf("Create event %s on %s", event.EventName, event.EventDateStart.Format("2006-01-02 15:04"))); err != nil {
		return nil, err
	}
	if err := s.events.Create(ctx, event); err != nil {
		return nil, fmt.Errorf("create event: %w", err)
	}
	s.committed(actor, resourceEvent, "create", event.ID)
	return event, nil
}

// Update applies the non-nil fields of in to event eventID. The decision's
// field set bounds what each role may change.
func (s *EventService) Update(ctx context.Context, sc *SessionContext, eventID string, in ports.UpdateEventInput) (*domain.Event, error) {
	actor, err := s.identity(ctx, sc)
	if err != nil {
		return nil, err
	}
	target, err := s.load(ctx, eventID)
	if err != nil {
		return nil, err
	}
	d := s.authorize(actor, authz.UpdateEvent, target)
	if err := d.Err(); err != nil {
		return nil, err
	}
	if err := s.validate.check(in); err != nil {
		return nil, err
	}

	current := target.Event
	next := *current
	changed := applyEventUpdate(&next, in)
	if changed.Empty() {
		return current, nil
	}
	if err := s.permits(actor, authz.UpdateEvent, d, changed); err != nil {
		return nil, err
	}
	if err := s.checkEvent(ctx, &next); err != nil {
		return nil, err
	}

	if err := s.approve(ctx, resourceEvent, fmt.Sprintf("Update event %s: %s", current.EventName, changed)); err != nil {
		return nil, err
	}
	if err := s.events.Update(ctx, &next); err != nil {
		return nil, fmt.Errorf("update event: %w", err)
	}
	s.committed(actor, resourceEvent, "update", next.ID)
	return &next, nil
}

// Delete removes an event.
func (s *EventService) Delete(ctx context.Context, sc *SessionContext, eventID string) error {
	actor, err := s.identity(ctx, sc)
	if err != nil {
		return err
	}
	target, err := s.load(ctx, eventID)
	if err != nil {
		return err
	}
	if err := s.authorize(actor, authz.DeleteEvent, target).Err(); err != nil {
		return err
	}

	if err := s.approve(ctx, resourceEvent, fmt.Sprintf("Delete event %s", target.Event.EventName)); err != nil {
		return err
	}
	if err := s.events.Delete(ctx, target.Event.ID); err != nil {
		return fmt.Errorf("delete event: %w", err)
	}
	s.committed(actor, resourceEvent, "delete", target.Event.ID)
	return nil
}

// load fetches an event with its parents. Missing parents are left nil.
func (s *EventService) load(ctx context.Context, eventID string) (authz.Target, error) {
	event, err := s.events.FindByID(ctx, eventID)
	if err != nil {
		return authz.Target{}, err
	}
	contract, err := s.contracts.FindByID(ctx, event.ContractID)
	if contract, err = optional(contract, err); err != nil {
		return authz.Target{}, err
	}
	client, err := s.clients.FindByID(ctx, event.ClientID)
	if client, err = optional(client, err); err != nil {
		return authz.Target{}, err
	}
	return authz.Target{Client: client, Contract: contract, Event: event}, nil
}

// checkEvent enforces event invariants that hold regardless of role.
func (s *EventService) checkEvent(ctx context.Context, e *domain.Event) error {
	if e.EventName == "" {
		return invalid("event_name is required")
	}
	if e.EventDateStart.IsZero() || e.EventDateEnd.IsZero() {
		return invalid("event_date_start and event_date_end are required")
	}
	if e.EventDateEnd.Before(e.EventDateStart) {
		return invalid("event_date_end must not be before event_date_start")
	}
	if e.Status != "" && !e.Status.Valid() {
		return invalid("unknown status %q", e.Status)
	}
	if e.SupportContact == "" {
		return nil
	}
	return s.checkSupportContact(ctx, e.SupportContact)
}

// checkSupportContact requires name to belong to a Support collaborator.
func (s *EventService) checkSupportContact(ctx context.Context, name string) error {
	users, err := s.users.List(ctx)
	if err != nil {
		return fmt.Errorf("check support contact: %w", err)
	}
	for _, u := range users {
		if u.FullName == name && u.RoleName() == domain.RoleSupport {
			return nil
		}
	}
	return invalid("support_contact %q is not a Support collaborator", name)
}

func clientContact(c *domain.Client) string {
	if c == nil {
		return ""
	}
	parts := []string{c.FullName}
	if c.Email != "" {
		parts = append(parts, c.Email)
	}
	if c.Phone != "" {
		parts = append(parts, c.Phone)
	}
	return strings.Join(parts, " ")
}

func applyEventUpdate(e *domain.Event, in ports.UpdateEventInput) authz.FieldSet {
	var changed authz.FieldSet
	setString(&e.EventName, in.EventName, authz.EventName, &changed)
	setTime(&e.EventDateStart, in.EventDateStart, authz.EventDateStart, &changed)
	setTime(&e.EventDateEnd, in.EventDateEnd, authz.EventDateEnd, &changed)
	setString(&e.Location, in.Location, authz.EventLocation, &changed)
	setString(&e.SupportContact, in.SupportContact, authz.EventSupportContact, &changed)
	setInt(&e.Attendees, in.Attendees, authz.EventAttendees, &changed)
	setString(&e.Notes, in.Notes, authz.EventNotes, &changed)
	setString(&e.ClientContact, in.ClientContact, authz.EventClientContact, &changed)
	if in.Status != nil && domain.EventStatus(*in.Status) != e.Status {
		e.Status = domain.EventStatus(*in.Status)
		changed = changed.With(authz.EventStatus)
	}
	return changed
}
