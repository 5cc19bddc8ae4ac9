package dto

import (
	"time"

	"github.com/formco/backend/internal/domain"
)

// SubmitApplicationRequest represents an application submission.
// Individual events use the top-level applicant fields, team events use teamName and teamMembers.
type SubmitApplicationRequest struct {
	domain.TeamMember
	TeamName      string              `json:"teamName,omitempty" example:"Rockets"`
	TeamMembers   []domain.TeamMember `json:"teamMembers,omitempty"`
	TransactionID string              `json:"transactionId,omitempty" example:"TXN-20250601-0042"`
}

// ToSubmission converts the request into the eligibility input
func (r *SubmitApplicationRequest) ToSubmission(hasReceipt bool) domain.Submission {
	return domain.Submission{
		TeamName:      r.TeamName,
		TeamMembers:   r.TeamMembers,
		Applicant:     r.TeamMember,
		HasReceipt:    hasReceipt,
		TransactionID: r.TransactionID,
	}
}

// UpdateApplicationRequest changes exactly one lifecycle axis
type UpdateApplicationRequest struct {
	PaymentVerified *bool                    `json:"paymentVerified,omitempty"`
	Attended        *bool                    `json:"attended,omitempty"`
	Accepted        *domain.AcceptanceStatus `json:"accepted,omitempty" enums:"pending,accepted,rejected"`
}

// ToAxisUpdate converts the request into a lifecycle update
func (r *UpdateApplicationRequest) ToAxisUpdate() domain.AxisUpdate {
	return domain.AxisUpdate{
		PaymentVerified: r.PaymentVerified,
		Attended:        r.Attended,
		Accepted:        r.Accepted,
	}
}

// ApplicationResponse represents an application as returned by the API
type ApplicationResponse struct {
	ID               string                  `json:"id"`
	CompetitionID    string                  `json:"competitionId"`
	StudentID        string                  `json:"studentId"`
	TeamName         string                  `json:"teamName,omitempty"`
	TeamMembers      []domain.TeamMember     `json:"teamMembers"`
	PaymentAmount    float64                 `json:"paymentAmount"`
	PaymentVerified  bool                    `json:"paymentVerified"`
	PaymentDate      *time.Time              `json:"paymentDate,omitempty"`
	ReceiptURL       string                  `json:"receiptUrl,omitempty"`
	TransactionID    string                  `json:"transactionId,omitempty"`
	VerificationCode string                  `json:"verificationCode" example:"K7Q2ZD"`
	Attended         bool                    `json:"attended"`
	Accepted         domain.AcceptanceStatus `json:"accepted" example:"pending"`
	CreatedAt        time.Time               `json:"createdAt"`
	UpdatedAt        time.Time               `json:"updatedAt"`
}

// ApplicationListResponse represents a paginated application list
type ApplicationListResponse struct {
	Applications []ApplicationResponse `json:"applications"`
	Pagination   PaginationInfo        `json:"pagination"`
}

// NewApplicationResponse converts an application model; receiptURL is the public location of the stored receipt
func NewApplicationResponse(app *domain.Application, receiptURL string) ApplicationResponse {
	return ApplicationResponse{
		ID:               app.ID,
		CompetitionID:    app.CompetitionID,
		StudentID:        app.StudentID,
		TeamName:         app.TeamName,
		TeamMembers:      app.TeamMembers,
		PaymentAmount:    app.PaymentAmount,
		PaymentVerified:  app.PaymentVerified,
		PaymentDate:      app.PaymentDate,
		ReceiptURL:       receiptURL,
		TransactionID:    app.TransactionID,
		VerificationCode: app.VerificationCode,
		Attended:         app.Attended,
		Accepted:         app.Accepted,
		CreatedAt:        app.CreatedAt,
		UpdatedAt:        app.UpdatedAt,
	}
}
