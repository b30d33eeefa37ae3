package ports

import (
	"context"

	"github.com/epicevents/crm/internal/core/domain"
)

// RoleRepository persists the fixed role set.
type RoleRepository interface {
	// FindByName returns domain.ErrRoleNotFound when no role carries name.
	FindByName(ctx context.Context, name string) (*domain.Role, error)
	Create(ctx context.Context, role *domain.Role) error
	List(ctx context.Context) ([]*domain.Role, error)
}

// UserRepository persists collaborators. Create and Update return
// domain.ErrUserExists when the email or employee number is taken.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	FindByID(ctx context.Context, id string) (*domain.User, error)
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	List(ctx context.Context) ([]*domain.User, error)
	Update(ctx context.Context, user *domain.User) error
	Delete(ctx context.Context, id string) error
	Count(ctx context.Context) (int64, error)
}

// ClientRepository persists clients. Create and Update return
// domain.ErrClientExists on a duplicate email.
type ClientRepository interface {
	Create(ctx context.Context, client *domain.Client) error
	FindByID(ctx context.Context, id string) (*domain.Client, error)
	List(ctx context.Context) ([]*domain.Client, error)
	Update(ctx context.Context, client *domain.Client) error
	Delete(ctx context.Context, id string) error
}

// ContractFilter narrows a contract listing. Zero value lists everything.
type ContractFilter struct {
	ClientID     string
	UnsignedOnly bool
	UnpaidOnly   bool
}

// ContractRepository persists contracts.
type ContractRepository interface {
	Create(ctx context.Context, contract *domain.Contract) error
	FindByID(ctx context.Context, id string) (*domain.Contract, error)
	List(ctx context.Context, filter ContractFilter) ([]*domain.Contract, error)
	Update(ctx context.Context, contract *domain.Contract) error
	Delete(ctx context.Context, id string) error
}

// EventFilter narrows an event listing. Zero value lists everything.
type EventFilter struct {
	ContractID     string
	SupportContact string
	WithoutSupport bool
}

// EventRepository persists events.
type EventRepository interface {
	Create(ctx context.Context, event *domain.Event) error
	FindByID(ctx context.Context, id string) (*domain.Event, error)
	List(ctx context.Context, filter EventFilter) ([]*domain.Event, error)
	Update(ctx context.Context, event *domain.Event) error
	Delete(ctx context.Context, id string) error
}

// Directory groups the repositories of one storage backend.
type Directory struct {
	Roles     RoleRepository
	Users     UserRepository
	Clients   ClientRepository
	Contracts ContractRepository
	Events    EventRepository
}

// Pinger is implemented by backends able to report their liveness.
type Pinger interface {
	Ping(ctx context.Context) error
}
