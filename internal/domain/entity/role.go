package entity

// Role represents a user role in the system
type Role string

const (
	RoleAdmin   Role = "admin"
	RoleDoctor  Role = "doctor"
	RolePatient Role = "patient"
)

// Roles lists every accepted role.
func Roles() []Role {
	return []Role{RoleAdmin, RoleDoctor, RolePatient}
}

func (r Role) IsAdmin() bool {
	return r == RoleAdmin
}
