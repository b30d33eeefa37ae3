package cli

import (
	"context"

	"github.com/epicevents/crm/internal/core/authz"
	"github.com/epicevents/crm/internal/core/domain"
	"github.com/epicevents/crm/internal/core/ports"
)

type entry struct {
	action authz.Action
	label  string
	run    func(ctx context.Context) error
}

// entries returns the menu for role, in the engine's action order.
func (a *App) entries(role string) []entry {
	all := map[authz.Action]entry{
		authz.ViewClients:                {label: "List clients", run: a.viewClients},
		authz.ViewContracts:              {label: "List contracts", run: a.viewContracts},
		authz.ViewEvents:                 {label: "List events", run: a.viewEvents},
		authz.CreateClient:               {label: "Create a client", run: a.createClient},
		authz.UpdateClient:               {label: "Update a client", run: a.updateClient},
		authz.DeleteClient:               {label: "Delete a client", run: a.deleteClient},
		authz.CreateContract:             {label: "Create a contract", run: a.createContract},
		authz.UpdateContract:             {label: "Update a contract", run: a.updateContract},
		authz.DeleteContract:             {label: "Delete a contract", run: a.deleteContract},
		authz.CreateEvent:                {label: "Create an event", run: a.createEvent},
		authz.UpdateEvent:                {label: "Update an event", run: a.updateEvent},
		authz.DeleteEvent:                {label: "Delete an event", run: a.deleteEvent},
		authz.CreateCollaborator:         {label: "Create a collaborator", run: a.createCollaborator},
		authz.UpdateCollaborator:         {label: "Update a collaborator", run: a.updateCollaborator},
		authz.DeleteCollaborator:         {label: "Delete a collaborator", run: a.deleteCollaborator},
		authz.FilterEventsWithoutSupport: {label: "List events without support", run: a.eventsWithoutSupport},
	}

	var out []entry
	for _, action := range a.svc.Engine.Offered(role) {
		e, ok := all[action]
		if !ok {
			continue
		}
		e.action = action
		out = append(out, e)
	}
	return out
}

// ---------------------------------------------------------------------------
// Clients
// ---------------------------------------------------------------------------

func (a *App) viewClients(ctx context.Context) error {
	clients, err := a.svc.Clients.List(ctx, a.sc)
	if err != nil {
		return err
	}
	printClients(a.p.out, clients)
	return nil
}

func (a *App) createClient(ctx context.Context) error {
	var in ports.CreateClientInput
	var err error
	if in.FullName, err = a.p.Line("Full name"); err != nil {
		return err
	}
	if in.Email, err = a.p.Line("Email"); err != nil {
		return err
	}
	if in.Phone, err = a.p.Line("Phone"); err != nil {
		return err
	}
	if in.CompanyName, err = a.p.Line("Company"); err != nil {
		return err
	}

	client, err := a.svc.Clients.Create(ctx, a.sc, in)
	if err != nil {
		return err
	}
	a.p.Printf("Client %s created.\n", client.ID)
	return nil
}

func (a *App) updateClient(ctx context.Context) error {
	id, err := a.p.Line("Client ID")
	if err != nil {
		return err
	}
	current, err := a.svc.Clients.Get(ctx, a.sc, id)
	if err != nil {
		return err
	}

	var in ports.UpdateClientInput
	if in.FullName, err = a.p.OptString("Full name", current.FullName); err != nil {
		return err
	}
	if in.Email, err = a.p.OptString("Email", current.Email); err != nil {
		return err
	}
	if in.Phone, err = a.p.OptString("Phone", current.Phone); err != nil {
		return err
	}
	if in.CompanyName, err = a.p.OptString("Company", current.CompanyName); err != nil {
		return err
	}
	if in.LastContactDate, err = a.p.OptTime("Last contact", current.LastContactDate); err != nil {
		return err
	}
	if a.sc.Identity().Role == domain.RoleAdmin {
		if in.CommercialContact, err = a.p.OptString("Commercial contact", current.CommercialContact); err != nil {
			return err
		}
	}

	if _, err := a.svc.Clients.Update(ctx, a.sc, id, in); err != nil {
		return err
	}
	a.p.Printf("Client %s saved.\n", id)
	return nil
}

func (a *App) deleteClient(ctx context.Context) error {
	id, err := a.p.Line("Client ID")
	if err != nil {
		return err
	}
	if err := a.svc.Clients.Delete(ctx, a.sc, id); err != nil {
		return err
	}
	a.p.Printf("Client %s deleted.\n", id)
	return nil
}

// ---------------------------------------------------------------------------
// Contracts
// ---------------------------------------------------------------------------

func (a *App) viewContracts(ctx context.Context) error {
	var f ports.ContractFilter
	var err error
	if f.UnsignedOnly, err = a.p.YesNo("Only unsigned contracts?"); err != nil {
		return err
	}
	if f.UnpaidOnly, err = a.p.YesNo("Only contracts with an amount due?"); err != nil {
		return err
	}
	contracts, err := a.svc.Contracts.List(ctx, a.sc, f)
	if err != nil {
		return err
	}
	printContracts(a.p.out, contracts)
	return nil
}

func (a *App) createContract(ctx context.Context) error {
	var in ports.CreateContractInput
	var err error
	if in.ClientID, err = a.p.Line("Client ID"); err != nil {
		return err
	}
	if in.TotalAmount, err = a.p.Decimal("Total amount"); err != nil {
		return err
	}
	if in.AmountDue, err = a.p.Decimal("Amount due"); err != nil {
		return err
	}
	if in.Signed, err = a.p.YesNo("Signed?"); err != nil {
		return err
	}

	contract, err := a.svc.Contracts.Create(ctx, a.sc, in)
	if err != nil {
		return err
	}
	a.p.Printf("Contract %s created.\n", contract.ID)
	return nil
}

func (a *App) updateContract(ctx context.Context) error {
	id, err := a.p.Line("Contract ID")
	if err != nil {
		return err
	}
	current, err := a.svc.Contracts.Get(ctx, a.sc, id)
	if err != nil {
		return err
	}

	var in ports.UpdateContractInput
	if in.TotalAmount, err = a.p.OptDecimal("Total amount", current.TotalAmount); err != nil {
		return err
	}
	if in.AmountDue, err = a.p.OptDecimal("Amount due", current.AmountDue); err != nil {
		return err
	}
	if in.Signed, err = a.p.OptBool("Signed", current.Signed); err != nil {
		return err
	}
	if a.sc.Identity().Role == domain.RoleAdmin {
		if in.CommercialContact, err = a.p.OptString("Commercial contact", current.CommercialContact); err != nil {
			return err
		}
	}

	if _, err := a.svc.Contracts.Update(ctx, a.sc, id, in); err != nil {
		return err
	}
	a.p.Printf("Contract %s saved.\n", id)
	return nil
}

func (a *App) deleteContract(ctx context.Context) error {
	id, err := a.p.Line("Contract ID")
	if err != nil {
		return err
	}
	if err := a.svc.Contracts.Delete(ctx, a.sc, id); err != nil {
		return err
	}
	a.p.Printf("Contract %s deleted.\n", id)
	return nil
}

// ---------------------------------------------------------------------------
// Events
// ---------------------------------------------------------------------------

func (a *App) viewEvents(ctx context.Context) error {
	var (
		events []*domain.Event
		err    error
	)
	mine := false
	if a.sc.Identity().Role == domain.RoleSupport {
		if mine, err = a.p.YesNo("Only events assigned to me?"); err != nil {
			return err
		}
	}
	if mine {
		events, err = a.svc.Events.Assigned(ctx, a.sc)
	} else {
		events, err = a.svc.Events.List(ctx, a.sc, ports.EventFilter{})
	}
	if err != nil {
		return err
	}
	printEvents(a.p.out, events)
	return nil
}

func (a *App) eventsWithoutSupport(ctx context.Context) error {
	events, err := a.svc.Events.List(ctx, a.sc, ports.EventFilter{WithoutSupport: true})
	if err != nil {
		return err
	}
	printEvents(a.p.out, events)
	return nil
}

func (a *App) createEvent(ctx context.Context) error {
	var in ports.CreateEventInput
	var err error
	if in.ContractID, err = a.p.Line("Contract ID"); err != nil {
		return err
	}
	if in.EventName, err = a.p.Line("Event name"); err != nil {
		return err
	}
	if in.EventDateStart, err = a.p.Time("Start"); err != nil {
		return err
	}
	if in.EventDateEnd, err = a.p.Time("End"); err != nil {
		return err
	}
	if in.Location, err = a.p.Line("Location"); err != nil {
		return err
	}
	if in.SupportContact, err = a.p.Line("Support contact (full name, optional)"); err != nil {
		return err
	}
	if in.Attendees, err = a.p.Int("Attendees"); err != nil {
		return err
	}
	if in.Notes, err = a.p.Line("Notes"); err != nil {
		return err
	}

	event, err := a.svc.Events.Create(ctx, a.sc, in)
	if err != nil {
		return err
	}
	a.p.Printf("Event %s created.\n", event.ID)
	return nil
}

func (a *App) updateEvent(ctx context.Context) error {
	id, err := a.p.Line("Event ID")
	if err != nil {
		return err
	}
	current, err := a.svc.Events.Get(ctx, a.sc, id)
	if err != nil {
		return err
	}

	var in ports.UpdateEventInput
	if in.EventName, err = a.p.OptString("Event name", current.EventName); err != nil {
		return err
	}
	if in.Location, err = a.p.OptString("Location", current.Location); err != nil {
		return err
	}
	role := a.sc.Identity().Role
	if role != domain.RoleSupport {
		if in.EventDateStart, err = a.p.OptTime("Start", current.EventDateStart); err != nil {
			return err
		}
		if in.EventDateEnd, err = a.p.OptTime("End", current.EventDateEnd); err != nil {
			return err
		}
		if in.SupportContact, err = a.p.OptString("Support contact ('-' to unassign)", current.SupportContact); err != nil {
			return err
		}
	}
	if role == domain.RoleAdmin {
		if in.Attendees, err = a.p.OptInt("Attendees", current.Attendees); err != nil {
			return err
		}
		if in.Notes, err = a.p.OptString("Notes", current.Notes); err != nil {
			return err
		}
	}
	if role != domain.RoleCommercial {
		if in.Status, err = a.p.OptString("Status (scheduled, in_progress, completed, cancelled)", string(current.Status)); err != nil {
			return err
		}
	}

	if _, err := a.svc.Events.Update(ctx, a.sc, id, in); err != nil {
		return err
	}
	a.p.Printf("Event %s saved.\n", id)
	return nil
}

func (a *App) deleteEvent(ctx context.Context) error {
	id, err := a.p.Line("Event ID")
	if err != nil {
		return err
	}
	if err := a.svc.Events.Delete(ctx, a.sc, id); err != nil {
		return err
	}
	a.p.Printf("Event %s deleted.\n", id)
	return nil
}

// ---------------------------------------------------------------------------
// Collaborators
// ---------------------------------------------------------------------------

func (a *App) readCollaborator() (ports.SignupInput, error) {
	var in ports.SignupInput
	var err error
	if in.EmployeeNumber, err = a.p.Int("Employee number"); err != nil {
		return in, err
	}
	if in.FullName, err = a.p.Line("Full name"); err != nil {
		return in, err
	}
	if in.Email, err = a.p.Line("Email"); err != nil {
		return in, err
	}
	if in.Department, err = a.p.Line("Department"); err != nil {
		return in, err
	}
	if in.Role, err = a.p.Line("Role (Admin, Commercial, Support)"); err != nil {
		return in, err
	}
	if in.Password, err = a.p.Password("Password"); err != nil {
		return in, err
	}
	return in, nil
}

func (a *App) signup(ctx context.Context) error {
	in, err := a.readCollaborator()
	if err != nil {
		return err
	}
	user, err := a.svc.Sessions.Signup(ctx, in)
	if err != nil {
		return err
	}
	a.p.Printf("Collaborator %s created. You can now log in.\n", user.Email)
	return nil
}

func (a *App) createCollaborator(ctx context.Context) error {
	in, err := a.readCollaborator()
	if err != nil {
		return err
	}
	user, err := a.svc.Collaborators.Create(ctx, a.sc, in)
	if err != nil {
		return err
	}
	a.p.Printf("Collaborator %s created.\n", user.ID)
	return nil
}

func (a *App) updateCollaborator(ctx context.Context) error {
	users, err := a.svc.Collaborators.List(ctx, a.sc)
	if err != nil {
		return err
	}
	printCollaborators(a.p.out, users)

	id, err := a.p.Line("Collaborator ID")
	if err != nil {
		return err
	}
	var current *domain.User
	for _, u := range users {
		if u.ID == id {
			current = u
		}
	}
	if current == nil {
		return domain.ErrUserNotFound
	}

	var in ports.UpdateCollaboratorInput
	if in.FullName, err = a.p.OptString("Full name", current.FullName); err != nil {
		return err
	}
	if in.Email, err = a.p.OptString("Email", current.Email); err != nil {
		return err
	}
	if in.Department, err = a.p.OptString("Department", current.Department); err != nil {
		return err
	}
	if in.Role, err = a.p.OptString("Role", current.RoleName()); err != nil {
		return err
	}
	password, err := a.p.Password("New password (empty keeps the current one)")
	if err != nil {
		return err
	}
	if password != "" {
		in.Password = &password
	}

	if _, err := a.svc.Collaborators.Update(ctx, a.sc, id, in); err != nil {
		return err
	}
	a.p.Printf("Collaborator %s saved.\n", id)
	return nil
}

func (a *App) deleteCollaborator(ctx context.Context) error {
	id, err := a.p.Line("Collaborator ID")
	if err != nil {
		return err
	}
	if err := a.svc.Collaborators.Delete(ctx, a.sc, id); err != nil {
		return err
	}
	a.p.Printf("Collaborator %s deleted.\n", id)
	return nil
}
