package postgres

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/epicevents/crm/internal/core/domain"
	"github.com/epicevents/crm/internal/core/ports"
)

var (
	roleErrs     = errMap{notFound: domain.ErrRoleNotFound, exists: domain.ErrRoleExists}
	userErrs     = errMap{notFound: domain.ErrUserNotFound, exists: domain.ErrUserExists, foreignKey: domain.ErrRoleNotFound}
	clientErrs   = errMap{notFound: domain.ErrClientNotFound, exists: domain.ErrClientExists, foreignKey: domain.ErrInUse}
	contractErrs = errMap{notFound: domain.ErrContractNotFound, foreignKey: domain.ErrClientNotFound}
	eventErrs    = errMap{notFound: domain.ErrEventNotFound, foreignKey: domain.ErrContractNotFound}
)

// updateAll overwrites every column of the row with the same primary key.
func updateAll(ctx context.Context, db *gorm.DB, model any, id uuid.UUID, m errMap) error {
	res := db.WithContext(ctx).Model(model).Where("id = ?", id).
		Select("*").Omit("id", clause.Associations).Updates(model)
	if res.Error != nil {
		return translate(res.Error, m)
	}
	if res.RowsAffected == 0 {
		return m.notFound
	}
	return nil
}

func deleteByID(ctx context.Context, db *gorm.DB, model any, id string, m errMap) error {
	parsed, err := parseID(id, m.notFound)
	if err != nil {
		return err
	}
	res := db.WithContext(ctx).Delete(model, "id = ?", parsed)
	if res.Error != nil {
		return translate(res.Error, m)
	}
	if res.RowsAffected == 0 {
		return m.notFound
	}
	return nil
}

// RoleRepository implements ports.RoleRepository.
type RoleRepository struct{ db *gorm.DB }

func (r *RoleRepository) FindByName(ctx context.Context, name string) (*domain.Role, error) {
	var m roleModel
	if err := r.db.WithContext(ctx).First(&m, "name = ?", name).Error; err != nil {
		return nil, translate(err, roleErrs)
	}
	role := m.toDomain()
	return &role, nil
}

func (r *RoleRepository) Create(ctx context.Context, role *domain.Role) error {
	m := roleModel{ID: uuid.New(), Name: role.Name, Description: role.Description}
	if err := r.db.WithContext(ctx).Create(&m).Error; err != nil {
		return translate(err, roleErrs)
	}
	role.ID = m.ID.String()
	return nil
}

func (r *RoleRepository) List(ctx context.Context) ([]*domain.Role, error) {
	var rows []roleModel
	if err := r.db.WithContext(ctx).Order("name").Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]*domain.Role, len(rows))
	for i := range rows {
		role := rows[i].toDomain()
		out[i] = &role
	}
	return out, nil
}

// UserRepository implements ports.UserRepository.
type UserRepository struct{ db *gorm.DB }

func userRow(u *domain.User, id uuid.UUID) (*userModel, error) {
	roleID, err := parseID(u.Role.ID, domain.ErrRoleNotFound)
	if err != nil {
		return nil, err
	}
	return &userModel{
		ID:             id,
		EmployeeNumber: u.EmployeeNumber,
		FullName:       u.FullName,
		Email:          u.Email,
		Department:     u.Department,
		PasswordHash:   u.PasswordHash,
		RoleID:         roleID,
		CreatedAt:      u.CreatedAt,
		UpdatedAt:      u.UpdatedAt,
	}, nil
}

func (r *UserRepository) Create(ctx context.Context, user *domain.User) error {
	m, err := userRow(user, uuid.New())
	if err != nil {
		return err
	}
	if err := r.db.WithContext(ctx).Omit(clause.Associations).Create(m).Error; err != nil {
		return translate(err, userErrs)
	}
	user.ID = m.ID.String()
	return nil
}

func (r *UserRepository) findOne(ctx context.Context, query string, arg any) (*domain.User, error) {
	var m userModel
	if err := r.db.WithContext(ctx).Preload("Role").First(&m, query, arg).Error; err != nil {
		return nil, translate(err, userErrs)
	}
	return m.toDomain(), nil
}

func (r *UserRepository) FindByID(ctx context.Context, id string) (*domain.User, error) {
	parsed, err := parseID(id, domain.ErrUserNotFound)
	if err != nil {
		return nil, err
	}
	return r.findOne(ctx, "id = ?", parsed)
}

func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	return r.findOne(ctx, "email = ?", email)
}

func (r *UserRepository) List(ctx context.Context) ([]*domain.User, error) {
	var rows []userModel
	if err := r.db.WithContext(ctx).Preload("Role").Order("employee_number").Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]*domain.User, len(rows))
	for i := range rows {
		out[i] = rows[i].toDomain()
	}
	return out, nil
}

func (r *UserRepository) Update(ctx context.Context, user *domain.User) error {
	id, err := parseID(user.ID, domain.ErrUserNotFound)
	if err != nil {
		return err
	}
	m, err := userRow(user, id)
	if err != nil {
		return err
	}
	return updateAll(ctx, r.db, m, id, userErrs)
}

func (r *UserRepository) Delete(ctx context.Context, id string) error {
	return deleteByID(ctx, r.db, &userModel{}, id, userErrs)
}

func (r *UserRepository) Count(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&userModel{}).Count(&n).Error
	return n, err
}

// ClientRepository implements ports.ClientRepository.
type ClientRepository struct{ db *gorm.DB }

func clientRow(c *domain.Client, id uuid.UUID) (*clientModel, error) {
	userID, err := optionalID(c.UserID)
	if err != nil {
		return nil, err
	}
	return &clientModel{
		ID:                id,
		FullName:          c.FullName,
		Email:             c.Email,
		Phone:             c.Phone,
		CompanyName:       c.CompanyName,
		FirstContactDate:  c.FirstContactDate,
		LastContactDate:   c.LastContactDate,
		CommercialContact: c.CommercialContact,
		UserID:            userID,
	}, nil
}

func (r *ClientRepository) Create(ctx context.Context, client *domain.Client) error {
	m, err := clientRow(client, uuid.New())
	if err != nil {
		return err
	}
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return translate(err, clientErrs)
	}
	client.ID = m.ID.String()
	return nil
}

func (r *ClientRepository) FindByID(ctx context.Context, id string) (*domain.Client, error) {
	parsed, err := parseID(id, domain.ErrClientNotFound)
	if err != nil {
		return nil, err
	}
	var m clientModel
	if err := r.db.WithContext(ctx).First(&m, "id = ?", parsed).Error; err != nil {
		return nil, translate(err, clientErrs)
	}
	return m.toDomain(), nil
}

func (r *ClientRepository) List(ctx context.Context) ([]*domain.Client, error) {
	var rows []clientModel
	if err := r.db.WithContext(ctx).Order("full_name").Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]*domain.Client, len(rows))
	for i := range rows {
		out[i] = rows[i].toDomain()
	}
	return out, nil
}

func (r *ClientRepository) Update(ctx context.Context, client *domain.Client) error {
	id, err := parseID(client.ID, domain.ErrClientNotFound)
	if err != nil {
		return err
	}
	m, err := clientRow(client, id)
	if err != nil {
		return err
	}
	return updateAll(ctx, r.db, m, id, clientErrs)
}

func (r *ClientRepository) Delete(ctx context.Context, id string) error {
	return deleteByID(ctx, r.db, &clientModel{}, id, clientErrs)
}

// ContractRepository implements ports.ContractRepository.
type ContractRepository struct{ db *gorm.DB }

func contractRow(c *domain.Contract, id uuid.UUID) (*contractModel, error) {
	clientID, err := parseID(c.ClientID, domain.ErrClientNotFound)
	if err != nil {
		return nil, err
	}
	userID, err := optionalID(c.UserID)
	if err != nil {
		return nil, err
	}
	return &contractModel{
		ID:                id,
		ClientID:          clientID,
		CommercialContact: c.CommercialContact,
		TotalAmount:       c.TotalAmount,
		AmountDue:         c.AmountDue,
		CreationDate:      c.CreationDate,
		Signed:            c.Signed,
		UserID:            userID,
	}, nil
}

func (r *ContractRepository) Create(ctx context.Context, contract *domain.Contract) error {
	m, err := contractRow(contract, uuid.New())
	if err != nil {
		return err
	}
	if err := r.db.WithContext(ctx).Omit(clause.Associations).Create(m).Error; err != nil {
		return translate(err, contractErrs)
	}
	contract.ID = m.ID.String()
	return nil
}

func (r *ContractRepository) FindByID(ctx context.Context, id string) (*domain.Contract, error) {
	parsed, err := parseID(id, domain.ErrContractNotFound)
	if err != nil {
		return nil, err
	}
	var m contractModel
	if err := r.db.WithContext(ctx).First(&m, "id = ?", parsed).Error; err != nil {
		return nil, translate(err, contractErrs)
	}
	return m.toDomain(), nil
}

func (r *ContractRepository) List(ctx context.Context, f ports.ContractFilter) ([]*domain.Contract, error) {
	q := r.db.WithContext(ctx).Model(&contractModel{})
	if f.ClientID != "" {
		clientID, err := uuid.Parse(f.ClientID)
		if err != nil {
			return []*domain.Contract{}, nil
		}
		q = q.Where("client_id = ?", clientID)
	}
	if f.UnsignedOnly {
		q = q.Where("signed = ?", false)
	}
	if f.UnpaidOnly {
		q = q.Where("amount_due > 0")
	}

	var rows []contractModel
	if err := q.Order("creation_date").Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]*domain.Contract, len(rows))
	for i := range rows {
		out[i] = rows[i].toDomain()
	}
	return out, nil
}

func (r *ContractRepository) Update(ctx context.Context, contract *domain.Contract) error {
	id, err := parseID(contract.ID, domain.ErrContractNotFound)
	if err != nil {
		return err
	}
	m, err := contractRow(contract, id)
	if err != nil {
		return err
	}
	return updateAll(ctx, r.db, m, id, contractErrs)
}

func (r *ContractRepository) Delete(ctx context.Context, id string) error {
	return deleteByID(ctx, r.db, &contractModel{}, id, errMap{notFound: domain.ErrContractNotFound, foreignKey: domain.ErrInUse})
}

// EventRepository implements ports.EventRepository.
type EventRepository struct{ db *gorm.DB }

func eventRow(e *domain.Event, id uuid.UUID) (*eventModel, error) {
	contractID, err := parseID(e.ContractID, domain.ErrContractNotFound)
	if err != nil {
		return nil, err
	}
	clientID, err := parseID(e.ClientID, domain.ErrClientNotFound)
	if err != nil {
		return nil, err
	}
	userID, err := optionalID(e.UserID)
	if err != nil {
		return nil, err
	}
	return &eventModel{
		ID:             id,
		ContractID:     contractID,
		ClientID:       clientID,
		EventName:      e.EventName,
		EventDateStart: e.EventDateStart,
		EventDateEnd:   e.EventDateEnd,
		Location:       e.Location,
		SupportContact: e.SupportContact,
		Attendees:      e.Attendees,
		Notes:          e.Notes,
		ClientContact:  e.ClientContact,
		Status:         string(e.Status),
		UserID:         userID,
	}, nil
}

func (r *EventRepository) Create(ctx context.Context, event *domain.Event) error {
	m, err := eventRow(event, uuid.New())
	if err != nil {
		return err
	}
	if err := r.db.WithContext(ctx).Omit(clause.Associations).Create(m).Error; err != nil {
		return translate(err, eventErrs)
	}
	event.ID = m.ID.String()
	return nil
}

func (r *EventRepository) FindByID(ctx context.Context, id string) (*domain.Event, error) {
	parsed, err := parseID(id, domain.ErrEventNotFound)
	if err != nil {
		return nil, err
	}
	var m eventModel
	if err := r.db.WithContext(ctx).First(&m, "id = ?", parsed).Error; err != nil {
		return nil, translate(err, eventErrs)
	}
	return m.toDomain(), nil
}

func (r *EventRepository) List(ctx context.Context, f ports.EventFilter) ([]*domain.Event, error) {
	q := r.db.WithContext(ctx).Model(&eventModel{})
	if f.ContractID != "" {
		contractID, err := uuid.Parse(f.ContractID)
		if err != nil {
			return []*domain.Event{}, nil
		}
		q = q.Where("contract_id = ?", contractID)
	}
	switch {
	case f.WithoutSupport:
		q = q.Where("support_contact = '' OR support_contact IS NULL")
	case f.SupportContact != "":
		q = q.Where("support_contact = ?", f.SupportContact)
	}

	var rows []eventModel
	if err := q.Order("event_date_start").Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]*domain.Event, len(rows))
	for i := range rows {
		out[i] = rows[i].toDomain()
	}
	return out, nil
}

func (r *EventRepository) Update(ctx context.Context, event *domain.Event) error {
	id, err := parseID(event.ID, domain.ErrEventNotFound)
	if err != nil {
		return err
	}
	m, err := eventRow(event, id)
	if err != nil {
		return err
	}
	return updateAll(ctx, r.db, m, id, eventErrs)
}

func (r *EventRepository) Delete(ctx context.Context, id string) error {
	return deleteByID(ctx, r.db, &eventModel{}, id, eventErrs)
}
