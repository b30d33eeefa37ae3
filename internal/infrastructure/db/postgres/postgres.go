// Package postgres implements the Directory on PostgreSQL through GORM.
package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/epicevents/crm/internal/core/ports"
)

// Open connects to dsn and migrates the directory schema.
func Open(ctx context.Context, dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("postgres open: %w", err)
	}
	if err := Migrate(db.WithContext(ctx)); err != nil {
		return nil, err
	}
	return db, nil
}

// Migrate creates or updates the five directory tables.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&roleModel{},
		&userModel{},
		&clientModel{},
		&contractModel{},
		&eventModel{},
	); err != nil {
		return fmt.Errorf("postgres migrate: %w", err)
	}
	return nil
}

// NewDirectory wires every repository to db.
func NewDirectory(db *gorm.DB) ports.Directory {
	return ports.Directory{
		Roles:     &RoleRepository{db: db},
		Users:     &UserRepository{db: db},
		Clients:   &ClientRepository{db: db},
		Contracts: &ContractRepository{db: db},
		Events:    &EventRepository{db: db},
	}
}

// Pinger reports database reachability for readiness probes.
type Pinger struct {
	db *gorm.DB
}

func NewPinger(db *gorm.DB) *Pinger { return &Pinger{db: db} }

func (p *Pinger) Ping(ctx context.Context) error {
	sqlDB, err := p.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

func parseID(id string, notFound error) (uuid.UUID, error) {
	parsed, err := uuid.Parse(id)
	if err != nil {
		return uuid.Nil, notFound
	}
	return parsed, nil
}

// optionalID parses a foreign key that may be unset.
func optionalID(id string) (*uuid.UUID, error) {
	if id == "" {
		return nil, nil
	}
	parsed, err := uuid.Parse(id)
	if err != nil {
		return nil, fmt.Errorf("invalid id %q: %w", id, err)
	}
	return &parsed, nil
}

func idString(id *uuid.UUID) string {
	if id == nil {
		return ""
	}
	return id.String()
}

// errMap names the domain errors a repository call reports.
type errMap struct {
	notFound error
	exists   error
	// foreignKey is returned when a referenced row is missing on write or
	// still referenced on delete.
	foreignKey error
}

// translate maps GORM errors onto domain errors.
func translate(err error, m errMap) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return m.notFound
	case m.exists != nil && errors.Is(err, gorm.ErrDuplicatedKey):
		return m.exists
	case m.foreignKey != nil && errors.Is(err, gorm.ErrForeignKeyViolated):
		return m.foreignKey
	}
	return err
}
