package memory

import (
	"context"

	"github.com/epicevents/crm/internal/core/domain"
	"github.com/epicevents/crm/internal/core/ports"
)

type (
	roleRow     domain.Role
	userRow     domain.User
	clientRow   domain.Client
	contractRow domain.Contract
	eventRow    domain.Event
)

// RoleRepository implements ports.RoleRepository.
type RoleRepository struct{ s *Store }

func (r *RoleRepository) FindByName(_ context.Context, name string) (*domain.Role, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	var found *domain.Role
	r.s.roles.each(func(row *roleRow) bool {
		if row.Name == name {
			clone := domain.Role(*row)
			found = &clone
			return false
		}
		return true
	})
	if found == nil {
		return nil, domain.ErrRoleNotFound
	}
	return found, nil
}

func (r *RoleRepository) Create(_ context.Context, role *domain.Role) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	taken := false
	r.s.roles.each(func(row *roleRow) bool {
		taken = row.Name == role.Name
		return !taken
	})
	if taken {
		return domain.ErrRoleExists
	}
	role.ID = newID(role.ID)
	r.s.roles.put(role.ID, (*roleRow)(role))
	return nil
}

func (r *RoleRepository) List(_ context.Context) ([]*domain.Role, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	rows := r.s.roles.list(nil)
	out := make([]*domain.Role, len(rows))
	for i, row := range rows {
		out[i] = (*domain.Role)(row)
	}
	return out, nil
}

// UserRepository implements ports.UserRepository.
type UserRepository struct{ s *Store }

func (r *UserRepository) conflict(u *domain.User) bool {
	taken := false
	r.s.users.each(func(row *userRow) bool {
		if row.ID != u.ID && (row.Email == u.Email || row.EmployeeNumber == u.EmployeeNumber) {
			taken = true
		}
		return !taken
	})
	return taken
}

func (r *UserRepository) Create(_ context.Context, user *domain.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if r.conflict(user) {
		return domain.ErrUserExists
	}
	user.ID = newID(user.ID)
	r.s.users.put(user.ID, (*userRow)(user))
	return nil
}

func (r *UserRepository) FindByID(_ context.Context, id string) (*domain.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	row, ok := r.s.users.get(id)
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return (*domain.User)(row), nil
}

func (r *UserRepository) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	var found *domain.User
	r.s.users.each(func(row *userRow) bool {
		if row.Email == email {
			clone := domain.User(*row)
			found = &clone
			return false
		}
		return true
	})
	if found == nil {
		return nil, domain.ErrUserNotFound
	}
	return found, nil
}

func (r *UserRepository) List(_ context.Context) ([]*domain.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	rows := r.s.users.list(nil)
	out := make([]*domain.User, len(rows))
	for i, row := range rows {
		out[i] = (*domain.User)(row)
	}
	return out, nil
}

func (r *UserRepository) Update(_ context.Context, user *domain.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.users.get(user.ID); !ok {
		return domain.ErrUserNotFound
	}
	if r.conflict(user) {
		return domain.ErrUserExists
	}
	r.s.users.put(user.ID, (*userRow)(user))
	return nil
}

func (r *UserRepository) Delete(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if !r.s.users.remove(id) {
		return domain.ErrUserNotFound
	}
	return nil
}

func (r *UserRepository) Count(_ context.Context) (int64, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return int64(len(r.s.users.rows)), nil
}

// ClientRepository implements ports.ClientRepository.
type ClientRepository struct{ s *Store }

func (r *ClientRepository) conflict(c *domain.Client) bool {
	taken := false
	r.s.clients.each(func(row *clientRow) bool {
		taken = row.ID != c.ID && row.Email == c.Email
		return !taken
	})
	return taken
}

func (r *ClientRepository) Create(_ context.Context, client *domain.Client) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if r.conflict(client) {
		return domain.ErrClientExists
	}
	client.ID = newID(client.ID)
	r.s.clients.put(client.ID, (*clientRow)(client))
	return nil
}

func (r *ClientRepository) FindByID(_ context.Context, id string) (*domain.Client, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	row, ok := r.s.clients.get(id)
	if !ok {
		return nil, domain.ErrClientNotFound
	}
	return (*domain.Client)(row), nil
}

func (r *ClientRepository) List(_ context.Context) ([]*domain.Client, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	rows := r.s.clients.list(nil)
	out := make([]*domain.Client, len(rows))
	for i, row := range rows {
		out[i] = (*domain.Client)(row)
	}
	return out, nil
}

func (r *ClientRepository) Update(_ context.Context, client *domain.Client) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.clients.get(client.ID); !ok {
		return domain.ErrClientNotFound
	}
	if r.conflict(client) {
		return domain.ErrClientExists
	}
	r.s.clients.put(client.ID, (*clientRow)(client))
	return nil
}

func (r *ClientRepository) Delete(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if !r.s.clients.remove(id) {
		return domain.ErrClientNotFound
	}
	return nil
}

// ContractRepository implements ports.ContractRepository.
type ContractRepository struct{ s *Store }

func (r *ContractRepository) Create(_ context.Context, contract *domain.Contract) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.clients.get(contract.ClientID); !ok {
		return domain.ErrClientNotFound
	}
	contract.ID = newID(contract.ID)
	r.s.contracts.put(contract.ID, (*contractRow)(contract))
	return nil
}

func (r *ContractRepository) FindByID(_ context.Context, id string) (*domain.Contract, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	row, ok := r.s.contracts.get(id)
	if !ok {
		return nil, domain.ErrContractNotFound
	}
	return (*domain.Contract)(row), nil
}

func (r *ContractRepository) List(_ context.Context, f ports.ContractFilter) ([]*domain.Contract, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	rows := r.s.contracts.list(func(row *contractRow) bool {
		c := (*domain.Contract)(row)
		switch {
		case f.ClientID != "" && c.ClientID != f.ClientID:
			return false
		case f.UnsignedOnly && c.Signed:
			return false
		case f.UnpaidOnly && c.Paid():
			return false
		}
		return true
	})
	out := make([]*domain.Contract, len(rows))
	for i, row := range rows {
		out[i] = (*domain.Contract)(row)
	}
	return out, nil
}

func (r *ContractRepository) Update(_ context.Context, contract *domain.Contract) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.contracts.get(contract.ID); !ok {
		return domain.ErrContractNotFound
	}
	r.s.contracts.put(contract.ID, (*contractRow)(contract))
	return nil
}

func (r *ContractRepository) Delete(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if !r.s.contracts.remove(id) {
		return domain.ErrContractNotFound
	}
	return nil
}

// EventRepository implements ports.EventRepository.
type EventRepository struct{ s *Store }

func (r *EventRepository) Create(_ context.Context, event *domain.Event) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.contracts.get(event.ContractID); !ok {
		return domain.ErrContractNotFound
	}
	event.ID = newID(event.ID)
	r.s.events.put(event.ID, (*eventRow)(event))
	return nil
}

func (r *EventRepository) FindByID(_ context.Context, id string) (*domain.Event, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	row, ok := r.s.events.get(id)
	if !ok {
		return nil, domain.ErrEventNotFound
	}
	return (*domain.Event)(row), nil
}

func (r *EventRepository) List(_ context.Context, f ports.EventFilter) ([]*domain.Event, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	rows := r.s.events.list(func(row *eventRow) bool {
		e := (*domain.Event)(row)
		switch {
		case f.ContractID != "" && e.ContractID != f.ContractID:
			return false
		case f.SupportContact != "" && e.SupportContact != f.SupportContact:
			return false
		case f.WithoutSupport && e.HasSupport():
			return false
		}
		return true
	})
	out := make([]*domain.Event, len(rows))
	for i, row := range rows {
		out[i] = (*domain.Event)(row)
	}
	return out, nil
}

func (r *EventRepository) Update(_ context.Context, event *domain.Event) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.events.get(event.ID); !ok {
		return domain.ErrEventNotFound
	}
	r.s.events.put(event.ID, (*eventRow)(event))
	return nil
}

func (r *EventRepository) Delete(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if !r.s.events.remove(id) {
		return domain.ErrEventNotFound
	}
	return nil
}
