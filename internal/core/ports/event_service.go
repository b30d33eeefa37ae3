package ports

import "time"

// CreateEventInput carries the fields of a new event.
type CreateEventInput struct {
	ContractID     string `validate:"required"`
	EventName      string `validate:"required,max=255"`
	EventDateStart time.Time
	EventDateEnd   time.Time
	Location       string `validate:"max=255"`
	SupportContact string `validate:"max=255"`
	Attendees      int    `validate:"gte=0"`
	Notes          string `validate:"max=2000"`
	ClientContact  string `validate:"max=255"`
}

// UpdateEventInput lists the event fields to change. Nil leaves a field
// untouched; an empty SupportContact unassigns the event.
type UpdateEventInput struct {
	EventName      *string `validate:"omitempty,min=1,max=255"`
	EventDateStart *time.Time
	EventDateEnd   *time.Time
	Location       *string `validate:"omitempty,max=255"`
	SupportContact *string `validate:"omitempty,max=255"`
	Attendees      *int    `validate:"omitempty,gte=0"`
	Notes          *string `validate:"omitempty,max=2000"`
	ClientContact  *string `validate:"omitempty,max=255"`
	Status         *string `validate:"omitempty,oneof=scheduled in_progress completed cancelled"`
}
