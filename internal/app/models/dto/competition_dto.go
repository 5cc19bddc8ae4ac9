package dto

import (
	"time"

	"github.com/formco/backend/internal/domain"
)

// --- Request DTOs ---

// CreateCompetitionRequest is the raw competition form. Rules are enforced by the creation validator
// so that every violation is reported together.
type CreateCompetitionRequest struct {
	// Required for organizers, implied for organization accounts
	OrganizationID            string                 `json:"organizationId" example:"5f0c7a8e-8d0e-4c59-9a44-3c2b1e7d9f10"`
	Title                     string                 `json:"title" example:"Code Sprint 2025"`
	Description               string                 `json:"description" example:"48 hours of building"`
	Instructions              string                 `json:"instructions" example:"Bring your own laptop"`
	Category                  string                 `json:"category" example:"Hackathon"`
	Mode                      string                 `json:"mode" example:"onsite" enums:"online,onsite,hybrid"`
	Location                  string                 `json:"location" example:"Main Auditorium"`
	IsTeamEvent               bool                   `json:"isTeamEvent"`
	TeamSize                  *domain.TeamSize       `json:"teamSize,omitempty"`
	RegistrationFee           interface{}            `json:"registrationFee" swaggertype:"number" example:"100"`
	VerificationNeeded        bool                   `json:"verificationNeeded"`
	AccountDetails            *domain.AccountDetails `json:"accountDetails,omitempty"`
	RequiredApplicationFields []string               `json:"requiredApplicationFields" example:"name,email,institute"`
	SkillsRequired            interface{}            `json:"skillsRequired" swaggertype:"array,string"`
	Eligibility               string                 `json:"eligibility" example:"Undergraduate students"`
	DeadlineToApply           string                 `json:"deadlineToApply" example:"2025-06-01T18:00:00Z"`
	StartDate                 string                 `json:"startDate" example:"2025-06-10T09:00:00Z"`
	EndDate                   string                 `json:"endDate" example:"2025-06-12T18:00:00Z"`
}

// ToInput converts the request into the validator input
func (r *CreateCompetitionRequest) ToInput() domain.CompetitionInput {
	return domain.CompetitionInput{
		Title:                     r.Title,
		Description:               r.Description,
		Instructions:              r.Instructions,
		Category:                  r.Category,
		Mode:                      r.Mode,
		Location:                  r.Location,
		IsTeamEvent:               r.IsTeamEvent,
		TeamSize:                  r.TeamSize,
		RegistrationFee:           r.RegistrationFee,
		VerificationNeeded:        r.VerificationNeeded,
		AccountDetails:            r.AccountDetails,
		RequiredApplicationFields: r.RequiredApplicationFields,
		SkillsRequired:            r.SkillsRequired,
		Eligibility:               r.Eligibility,
		DeadlineToApply:           r.DeadlineToApply,
		StartDate:                 r.StartDate,
		EndDate:                   r.EndDate,
	}
}

// CompetitionFilterRequest holds the list filters
type CompetitionFilterRequest struct {
	OrganizationID string
	Category       string
	Status         domain.CompetitionStatus
	Search         string
	Page           int
	PageSize       int
}

// --- Response DTOs ---

// CompetitionResponse is a competition with its status at the time of the request
type CompetitionResponse struct {
	domain.Competition
	Status domain.CompetitionStatus `json:"status" example:"Open" enums:"Open,Closed,Happening,Happened"`
}

// CompetitionListResponse represents a paginated competition list
type CompetitionListResponse struct {
	Competitions []CompetitionResponse `json:"competitions"`
	Pagination   PaginationInfo        `json:"pagination"`
}

// CompetitionStatusResponse reports the derived status and the dates it was computed from
type CompetitionStatusResponse struct {
	CompetitionID   string                   `json:"competitionId"`
	Status          domain.CompetitionStatus `json:"status" example:"Closed"`
	DeadlineToApply time.Time                `json:"deadlineToApply"`
	StartDate       time.Time                `json:"startDate"`
	EndDate         time.Time                `json:"endDate"`
	EvaluatedAt     time.Time                `json:"evaluatedAt"`
}

// NewCompetitionResponse resolves the competition status at now
func NewCompetitionResponse(competition *domain.Competition, now time.Time) CompetitionResponse {
	return CompetitionResponse{
		Competition: *competition,
		Status:      domain.StatusOf(now, competition),
	}
}

// NewCompetitionStatusResponse resolves the competition status at now
func NewCompetitionStatusResponse(competition *domain.Competition, now time.Time) CompetitionStatusResponse {
	return CompetitionStatusResponse{
		CompetitionID:   competition.ID,
		Status:          domain.StatusOf(now, competition),
		DeadlineToApply: competition.DeadlineToApply,
		StartDate:       competition.StartDate,
		EndDate:         competition.EndDate,
		EvaluatedAt:     now,
	}
}
