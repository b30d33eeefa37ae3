package ports

import "time"

// CreateClientInput carries the fields of a new client. The creating
// Commercial becomes its commercial contact.
type CreateClientInput struct {
	FullName         string `validate:"required,max=255"`
	Email            string `validate:"required,email,max=255"`
	Phone            string `validate:"max=50"`
	CompanyName      string `validate:"max=255"`
	FirstContactDate time.Time
}

// UpdateClientInput lists the client fields to change. Nil leaves a field
// untouched.
type UpdateClientInput struct {
	FullName          *string `validate:"omitempty,min=1,max=255"`
	Email             *string `validate:"omitempty,email,max=255"`
	Phone             *string `validate:"omitempty,max=50"`
	CompanyName       *string `validate:"omitempty,max=255"`
	FirstContactDate  *time.Time
	LastContactDate   *time.Time
	CommercialContact *string `validate:"omitempty,min=1,max=255"`
}
