package domain

import "time"

// EventStatus represents the progress of an event.
type EventStatus string

const (
	EventScheduled  EventStatus = "scheduled"
	EventInProgress EventStatus = "in_progress"
	EventCompleted  EventStatus = "completed"
	EventCancelled  EventStatus = "cancelled"
)

// EventStatusOf reads a stored status. Records written before statuses
// existed have none and are scheduled.
func EventStatusOf(s string) EventStatus {
	if s == "" {
		return EventScheduled
	}
	return EventStatus(s)
}

// Valid reports whether s is a known status.
func (s EventStatus) Valid() bool {
	switch s {
	case EventScheduled, EventInProgress, EventCompleted, EventCancelled:
		return true
	}
	return false
}

// Event is an occasion organised under a contract. It has two owners: the
// Commercial responsible for the parent client and the assigned Support
// contact.
type Event struct {
	ID             string      `json:"id"`
	ContractID     string      `json:"contract_id"`
	ClientID       string      `json:"client_id"`
	EventName      string      `json:"event_name"`
	EventDateStart time.Time   `json:"event_date_start"`
	EventDateEnd   time.Time   `json:"event_date_end"`
	Location       string      `json:"location"`
	SupportContact string      `json:"support_contact"`
	Attendees      int         `json:"attendees"`
	Notes          string      `json:"notes"`
	ClientContact  string      `json:"client_contact"`
	Status         EventStatus `json:"status"`
	UserID         string      `json:"user_id"`
}

// HasSupport reports whether a support contact is assigned.
func (e *Event) HasSupport() bool {
	return e.SupportContact != ""
}
