package models

import (
	"time"

	"github.com/formco/backend/internal/domain"
)

// User defines the user model based on the 'users' table.
// Organizations are users with the ORGANIZATION role.
type User struct {
	ID        string          `json:"id" db:"id" example:"5f0c7a8e-8d0e-4c59-9a44-3c2b1e7d9f10"` // Unique identifier for the user
	Email     string          `json:"email" db:"email" example:"user@college.edu"`               // User's email address
	Password  string          `json:"-" db:"password"`                                           // User's hashed password (excluded from JSON)
	Name      string          `json:"name" db:"name" example:"Jane Doe"`                         // Display name
	RoleType  domain.RoleType `json:"roleType" db:"role_type" example:"STUDENT"`                 // STUDENT, ORGANIZER or ORGANIZATION
	CreatedAt time.Time       `json:"createdAt" db:"created_at" example:"2024-01-01T10:00:00Z"`
	UpdatedAt time.Time       `json:"updatedAt" db:"updated_at" example:"2024-01-02T15:30:00Z"`
}

// OrganizationMember links an organizer account to an organization account
type OrganizationMember struct {
	OrganizationID string    `json:"organizationId" db:"organization_id"`
	OrganizerID    string    `json:"organizerId" db:"organizer_id"`
	JoinedAt       time.Time `json:"joinedAt" db:"joined_at"`
}
