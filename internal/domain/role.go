package domain

// RoleType defines the user role type
type RoleType string

const (
	RoleStudent      RoleType = "STUDENT"
	RoleOrganizer    RoleType = "ORGANIZER"
	RoleOrganization RoleType = "ORGANIZATION"
)

// IsValid reports whether r is one of the known roles.
func (r RoleType) IsValid() bool {
	switch r {
	case RoleStudent, RoleOrganizer, RoleOrganization:
		return true
	}
	return false
}
