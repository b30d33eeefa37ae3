package domain

import "time"

// Client is a customer account owned by exactly one Commercial collaborator.
type Client struct {
	ID                string    `json:"id"`
	FullName          string    `json:"full_name"`
	Email             string    `json:"email"`
	Phone             string    `json:"phone"`
	CompanyName       string    `json:"company_name"`
	FirstContactDate  time.Time `json:"first_contact_date"`
	LastContactDate   time.Time `json:"last_contact_date"`
	CommercialContact string    `json:"commercial_contact"`
	UserID            string    `json:"user_id"`
}
