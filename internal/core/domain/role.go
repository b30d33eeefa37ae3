package domain

// Canonical role names. The set is closed: nothing else may assign or
// special-case a fourth role.
const (
	RoleAdmin      = "Admin"
	RoleCommercial = "Commercial"
	RoleSupport    = "Support"
)

// DefaultRoles lists the roles seeded at startup, in creation order.
var DefaultRoles = []string{RoleAdmin, RoleCommercial, RoleSupport}

// Role is a named permission tier assigned to every collaborator.
type Role struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

// IsCanonicalRole reports whether name is one of the default role names.
func IsCanonicalRole(name string) bool {
	for _, r := range DefaultRoles {
		if r == name {
			return true
		}
	}
	return false
}
