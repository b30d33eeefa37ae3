package domain

import "time"

// User models a collaborator (staff member) able to log in.
//
// FullName doubles as the ownership key for clients, contracts and events:
// "X is responsible for Y" is a string match against FullName.
type User struct {
	ID             string    `json:"id"`
	EmployeeNumber int       `json:"employee_number"`
	FullName       string    `json:"full_name"`
	Email          string    `json:"email"`
	Department     string    `json:"department"`
	PasswordHash   string    `json:"-"`
	Role           Role      `json:"role"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// RoleName is a shorthand for u.Role.Name.
func (u *User) RoleName() string {
	return u.Role.Name
}
