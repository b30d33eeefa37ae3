package postgres

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/epicevents/crm/internal/core/domain"
)

type roleModel struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey"`
	Name        string    `gorm:"type:varchar(50);uniqueIndex;not null"`
	Description string    `gorm:"type:text"`
}

func (roleModel) TableName() string { return "roles" }

func (m roleModel) toDomain() domain.Role {
	return domain.Role{ID: m.ID.String(), Name: m.Name, Description: m.Description}
}

type userModel struct {
	ID             uuid.UUID `gorm:"type:uuid;primaryKey"`
	EmployeeNumber int       `gorm:"uniqueIndex;not null"`
	FullName       string    `gorm:"type:varchar(255);not null"`
	Email          string    `gorm:"type:varchar(255);uniqueIndex;not null"`
	Department     string    `gorm:"type:varchar(255)"`
	PasswordHash   string    `gorm:"type:varchar(255);not null"`
	RoleID         uuid.UUID `gorm:"type:uuid;not null;index"`
	Role           roleModel `gorm:"foreignKey:RoleID;constraint:OnDelete:RESTRICT"`
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

func (userModel) TableName() string { return "users" }

func (m userModel) toDomain() *domain.User {
	return &domain.User{
		ID:             m.ID.String(),
		EmployeeNumber: m.EmployeeNumber,
		FullName:       m.FullName,
		Email:          m.Email,
		Department:     m.Department,
		PasswordHash:   m.PasswordHash,
		Role:           m.Role.toDomain(),
		CreatedAt:      m.CreatedAt.UTC(),
		UpdatedAt:      m.UpdatedAt.UTC(),
	}
}

type clientModel struct {
	ID                uuid.UUID `gorm:"type:uuid;primaryKey"`
	FullName          string    `gorm:"type:varchar(255);not null"`
	Email             string    `gorm:"type:varchar(255);uniqueIndex;not null"`
	Phone             string    `gorm:"type:varchar(50)"`
	CompanyName       string    `gorm:"type:varchar(255)"`
	FirstContactDate  time.Time
	LastContactDate   time.Time
	CommercialContact string     `gorm:"type:varchar(255);index"`
	UserID            *uuid.UUID `gorm:"type:uuid;index"`
}

func (clientModel) TableName() string { return "clients" }

func (m clientModel) toDomain() *domain.Client {
	return &domain.Client{
		ID:                m.ID.String(),
		FullName:          m.FullName,
		Email:             m.Email,
		Phone:             m.Phone,
		CompanyName:       m.CompanyName,
		FirstContactDate:  m.FirstContactDate.UTC(),
		LastContactDate:   m.LastContactDate.UTC(),
		CommercialContact: m.CommercialContact,
		UserID:            idString(m.UserID),
	}
}

type contractModel struct {
	ID                uuid.UUID       `gorm:"type:uuid;primaryKey"`
	ClientID          uuid.UUID       `gorm:"type:uuid;not null;index"`
	Client            *clientModel    `gorm:"foreignKey:ClientID;constraint:OnDelete:RESTRICT"`
	CommercialContact string          `gorm:"type:varchar(255)"`
	TotalAmount       decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	AmountDue         decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	CreationDate      time.Time
	Signed            bool       `gorm:"not null;default:false"`
	UserID            *uuid.UUID `gorm:"type:uuid;index"`
}

func (contractModel) TableName() string { return "contracts" }

func (m contractModel) toDomain() *domain.Contract {
	return &domain.Contract{
		ID:                m.ID.String(),
		ClientID:          m.ClientID.String(),
		CommercialContact: m.CommercialContact,
		TotalAmount:       m.TotalAmount,
		AmountDue:         m.AmountDue,
		CreationDate:      m.CreationDate.UTC(),
		Signed:            m.Signed,
		UserID:            idString(m.UserID),
	}
}

type eventModel struct {
	ID             uuid.UUID      `gorm:"type:uuid;primaryKey"`
	ContractID     uuid.UUID      `gorm:"type:uuid;not null;index"`
	Contract       *contractModel `gorm:"foreignKey:ContractID;constraint:OnDelete:RESTRICT"`
	ClientID       uuid.UUID      `gorm:"type:uuid;not null;index"`
	EventName      string         `gorm:"type:varchar(255);not null"`
	EventDateStart time.Time
	EventDateEnd   time.Time
	Location       string     `gorm:"type:varchar(255)"`
	SupportContact string     `gorm:"type:varchar(255);index"`
	Attendees      int        `gorm:"not null;default:0"`
	Notes          string     `gorm:"type:text"`
	ClientContact  string     `gorm:"type:varchar(255)"`
	Status         string     `gorm:"type:varchar(20);not null;default:scheduled"`
	UserID         *uuid.UUID `gorm:"type:uuid;index"`
}

func (eventModel) TableName() string { return "events" }

func (m eventModel) toDomain() *domain.Event {
	return &domain.Event{
		ID:             m.ID.String(),
		ContractID:     m.ContractID.String(),
		ClientID:       m.ClientID.String(),
		EventName:      m.EventName,
		EventDateStart: m.EventDateStart.UTC(),
		EventDateEnd:   m.EventDateEnd.UTC(),
		Location:       m.Location,
		SupportContact: m.SupportContact,
		Attendees:      m.Attendees,
		Notes:          m.Notes,
		ClientContact:  m.ClientContact,
		Status:         domain.EventStatusOf(m.Status),
		UserID:         idString(m.UserID),
	}
}
