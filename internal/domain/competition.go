package domain

import "time"

// CompetitionMode is where a competition takes place
type CompetitionMode string

const (
	ModeOnline CompetitionMode = "online"
	ModeOnsite CompetitionMode = "onsite"
	ModeHybrid CompetitionMode = "hybrid"
)

// IsValid reports whether m is a known mode.
func (m CompetitionMode) IsValid() bool {
	switch m {
	case ModeOnline, ModeOnsite, ModeHybrid:
		return true
	}
	return false
}

// TeamSize bounds the member count of a team application
type TeamSize struct {
	Min int `json:"min" example:"2"`
	Max int `json:"max" example:"4"`
}

// AccountDetails tells applicants where to pay the registration fee
type AccountDetails struct {
	Name   string `json:"name" example:"FormCo Tech Club"`
	Number string `json:"number" example:"123456789"`
	Type   string `json:"type" example:"UPI"`
}

// Competition defines the competition model based on the 'competitions' table
type Competition struct {
	ID                        string          `json:"id" db:"id"`
	OrganizationID            string          `json:"organizationId" db:"organization_id"`
	OrganizerID               *string         `json:"organizerId,omitempty" db:"organizer_id"`
	Title                     string          `json:"title" db:"title"`
	Description               string          `json:"description" db:"description"`
	Instructions              string          `json:"instructions" db:"instructions"`
	Category                  string          `json:"category" db:"category"`
	Mode                      CompetitionMode `json:"mode" db:"mode"`
	Location                  string          `json:"location,omitempty" db:"location"`
	IsTeamEvent               bool            `json:"isTeamEvent" db:"is_team_event"`
	TeamSize                  *TeamSize       `json:"teamSize,omitempty"`
	RegistrationFee           float64         `json:"registrationFee" db:"registration_fee"`
	VerificationNeeded        bool            `json:"verificationNeeded" db:"verification_needed"`
	AccountDetails            *AccountDetails `json:"accountDetails,omitempty" db:"account_details"`
	RequiredApplicationFields []string        `json:"requiredApplicationFields" db:"required_application_fields"`
	SkillsRequired            []string        `json:"skillsRequired" db:"skills_required"`
	Eligibility               string          `json:"eligibility" db:"eligibility"`
	DeadlineToApply           time.Time       `json:"deadlineToApply" db:"deadline_to_apply"`
	StartDate                 time.Time       `json:"startDate" db:"start_date"`
	EndDate                   time.Time       `json:"endDate" db:"end_date"`
	CreatedAt                 time.Time       `json:"createdAt" db:"created_at"`
	UpdatedAt                 time.Time       `json:"updatedAt" db:"updated_at"`
}

// RequiresPaymentProof reports whether applicants must upload a receipt and transaction id
func (c *Competition) RequiresPaymentProof() bool {
	return c.RegistrationFee > 0 && c.VerificationNeeded
}
