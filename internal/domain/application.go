package domain

import (
	"strings"
	"time"
)

// ApplicationField names a piece of applicant data a competition may require
type ApplicationField string

const (
	FieldName          ApplicationField = "name"
	FieldEmail         ApplicationField = "email"
	FieldInstitute     ApplicationField = "institute"
	FieldContact       ApplicationField = "contact"
	FieldQualification ApplicationField = "qualification"
	FieldResume        ApplicationField = "resume"
)

// ApplicationFields lists every field a competition may require, in display order
var ApplicationFields = []ApplicationField{
	FieldName, FieldEmail, FieldInstitute, FieldContact, FieldQualification, FieldResume,
}

// AcceptanceStatus is the organizer's decision on an application
type AcceptanceStatus string

const (
	AcceptancePending  AcceptanceStatus = "pending"
	AcceptanceAccepted AcceptanceStatus = "accepted"
	AcceptanceRejected AcceptanceStatus = "rejected"
)

// IsValid reports whether s is a known acceptance status.
func (s AcceptanceStatus) IsValid() bool {
	switch s {
	case AcceptancePending, AcceptanceAccepted, AcceptanceRejected:
		return true
	}
	return false
}

// TeamMember holds the per-member data submitted with an application.
// Individual applications carry exactly one member, the applicant.
type TeamMember struct {
	Name          string `json:"name" example:"Jane Doe"`
	Email         string `json:"email" example:"jane@college.edu"`
	Institute     string `json:"institute,omitempty" example:"City College"`
	Contact       string `json:"contact,omitempty" example:"+1-555-0100"`
	Qualification string `json:"qualification,omitempty" example:"B.Tech"`
	Resume        string `json:"resume,omitempty" example:"https://example.com/cv.pdf"`
}

// Value returns the member's value for field
func (m TeamMember) Value(field ApplicationField) string {
	switch field {
	case FieldName:
		return m.Name
	case FieldEmail:
		return m.Email
	case FieldInstitute:
		return m.Institute
	case FieldContact:
		return m.Contact
	case FieldQualification:
		return m.Qualification
	case FieldResume:
		return m.Resume
	}
	return ""
}

// Trimmed returns a copy with surrounding whitespace removed from every field
func (m TeamMember) Trimmed() TeamMember {
	return TeamMember{
		Name:          strings.TrimSpace(m.Name),
		Email:         strings.TrimSpace(m.Email),
		Institute:     strings.TrimSpace(m.Institute),
		Contact:       strings.TrimSpace(m.Contact),
		Qualification: strings.TrimSpace(m.Qualification),
		Resume:        strings.TrimSpace(m.Resume),
	}
}

// Application defines the application model based on the 'applications' table
type Application struct {
	ID               string           `json:"id" db:"id"`
	CompetitionID    string           `json:"competitionId" db:"competition_id"`
	StudentID        string           `json:"studentId" db:"student_id"`
	TeamName         string           `json:"teamName,omitempty" db:"team_name"`
	TeamMembers      []TeamMember     `json:"teamMembers" db:"team_members"`
	PaymentAmount    float64          `json:"paymentAmount" db:"payment_amount"`
	PaymentVerified  bool             `json:"paymentVerified" db:"payment_verified"`
	PaymentDate      *time.Time       `json:"paymentDate,omitempty" db:"payment_date"`
	ReceiptImage     string           `json:"receiptImage,omitempty" db:"receipt_image"`
	TransactionID    string           `json:"transactionId,omitempty" db:"transaction_id"`
	VerificationCode string           `json:"verificationCode" db:"verification_code"`
	Attended         bool             `json:"attended" db:"attended"`
	Accepted         AcceptanceStatus `json:"accepted" db:"accepted"`
	CreatedAt        time.Time        `json:"createdAt" db:"created_at"`
	UpdatedAt        time.Time        `json:"updatedAt" db:"updated_at"`
}
