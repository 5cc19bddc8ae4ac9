package domain

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/formco/backend/internal/pkg/apperrors"
)

// EligibilityKind names the single reason an application was refused
type EligibilityKind string

const (
	KindCompetitionNotFound  EligibilityKind = "CompetitionNotFound"
	KindDeadlinePassed       EligibilityKind = "DeadlinePassed"
	KindAlreadyApplied       EligibilityKind = "AlreadyApplied"
	KindMissingTeamName      EligibilityKind = "MissingTeamName"
	KindTeamSizeOutOfRange   EligibilityKind = "TeamSizeOutOfRange"
	KindMissingMemberFields  EligibilityKind = "MissingMemberFields"
	KindMissingFields        EligibilityKind = "MissingFields"
	KindPaymentProofRequired EligibilityKind = "PaymentProofRequired"
)

// EligibilityError carries the first failed eligibility check with enough context
// for the caller to explain it or redirect the student.
type EligibilityError struct {
	Kind    EligibilityKind
	Message string

	// AlreadyApplied
	ExistingApplicationID string
	// TeamSizeOutOfRange
	MemberCount int
	MinMembers  int
	MaxMembers  int
	// MissingMemberFields, MissingFields
	MemberIndex   int
	MissingFields []string
}

func (e *EligibilityError) Error() string {
	return e.Message
}

// Unwrap maps the kind onto the application error taxonomy
func (e *EligibilityError) Unwrap() error {
	switch e.Kind {
	case KindCompetitionNotFound:
		return apperrors.ErrCompetitionNotFound
	case KindAlreadyApplied:
		return apperrors.ErrAlreadyApplied
	default:
		return apperrors.ErrNotEligible
	}
}

// Details returns the kind-specific context as a flat map for API responses
func (e *EligibilityError) Details() map[string]interface{} {
	details := map[string]interface{}{"kind": string(e.Kind)}
	switch e.Kind {
	case KindAlreadyApplied:
		details["existingApplicationId"] = e.ExistingApplicationID
	case KindTeamSizeOutOfRange:
		details["memberCount"] = e.MemberCount
		details["minMembers"] = e.MinMembers
		details["maxMembers"] = e.MaxMembers
	case KindMissingMemberFields:
		details["memberIndex"] = e.MemberIndex
		details["missingFields"] = e.MissingFields
	case KindMissingFields:
		details["missingFields"] = e.MissingFields
	}
	return details
}

// AlreadyApplied builds the error returned when the student already has an application
func AlreadyApplied(existingApplicationID string) *EligibilityError {
	return &EligibilityError{
		Kind:                  KindAlreadyApplied,
		Message:               "you have already applied to this competition",
		ExistingApplicationID: existingApplicationID,
	}
}

// Submission is the applicant-supplied part of an application
type Submission struct {
	TeamName    string
	TeamMembers []TeamMember
	// Applicant holds the applicant's own data for individual events
	Applicant     TeamMember
	HasReceipt    bool
	TransactionID string
}

// ApplicationDraft is a validated application ready to be persisted
type ApplicationDraft struct {
	CompetitionID string
	StudentID     string
	TeamName      string
	TeamMembers   []TeamMember
	PaymentAmount float64
	TransactionID string
	// RequiresReceipt is set when the receipt artifact must be stored with the application
	RequiresReceipt bool
}

// ValidateApplication runs the eligibility checks in order and stops at the first failure.
// existingApplicationID is the id of the student's current application to the competition, if any.
// competition is nil when it does not exist.
func ValidateApplication(now time.Time, competition *Competition, student Student, existingApplicationID string, sub Submission) (*ApplicationDraft, error) {
	if competition == nil {
		return nil, &EligibilityError{Kind: KindCompetitionNotFound, Message: "competition not found"}
	}

	if !now.Before(competition.DeadlineToApply) {
		return nil, &EligibilityError{Kind: KindDeadlinePassed, Message: "the application deadline has passed"}
	}

	if existingApplicationID != "" {
		return nil, AlreadyApplied(existingApplicationID)
	}

	required := RequiredFields(competition.RequiredApplicationFields)
	draft := &ApplicationDraft{
		CompetitionID: competition.ID,
		StudentID:     student.ID,
		PaymentAmount: competition.RegistrationFee,
	}

	if competition.IsTeamEvent {
		teamName := strings.TrimSpace(sub.TeamName)
		if teamName == "" {
			return nil, &EligibilityError{Kind: KindMissingTeamName, Message: "team name is required"}
		}

		minMembers, maxMembers := teamBounds(competition.TeamSize)
		count := len(sub.TeamMembers)
		if count < minMembers || count > maxMembers {
			return nil, &EligibilityError{
				Kind:        KindTeamSizeOutOfRange,
				Message:     fmt.Sprintf("team must have between %d and %d members, got %d", minMembers, maxMembers, count),
				MemberCount: count,
				MinMembers:  minMembers,
				MaxMembers:  maxMembers,
			}
		}

		members := make([]TeamMember, count)
		for i, m := range sub.TeamMembers {
			members[i] = m.Trimmed()
			if missing := missingFields(members[i], required); len(missing) > 0 {
				return nil, &EligibilityError{
					Kind:          KindMissingMemberFields,
					Message:       fmt.Sprintf("team member %d is missing: %s", i+1, strings.Join(missing, ", ")),
					MemberIndex:   i,
					MissingFields: missing,
				}
			}
		}
		draft.TeamName = teamName
		draft.TeamMembers = members
	} else {
		applicant := sub.Applicant.Trimmed()
		if missing := missingFields(applicant, required); len(missing) > 0 {
			return nil, &EligibilityError{
				Kind:          KindMissingFields,
				Message:       "missing required fields: " + strings.Join(missing, ", "),
				MissingFields: missing,
			}
		}
		draft.TeamMembers = []TeamMember{applicant}
	}

	if competition.RequiresPaymentProof() {
		transactionID := strings.TrimSpace(sub.TransactionID)
		if !sub.HasReceipt || transactionID == "" {
			return nil, &EligibilityError{
				Kind:    KindPaymentProofRequired,
				Message: "a payment receipt and transaction id are required",
			}
		}
		draft.TransactionID = transactionID
		draft.RequiresReceipt = true
	}

	return draft, nil
}

// MinimumRequiredFields are required from every applicant whatever the competition asks for
var MinimumRequiredFields = []ApplicationField{FieldName, FieldEmail}

// RequiredFields unions the minimum set into fields and returns them in canonical order.
// Unknown names are dropped.
func RequiredFields(fields []string) []ApplicationField {
	want := make(map[ApplicationField]bool, len(fields)+len(MinimumRequiredFields))
	for _, f := range MinimumRequiredFields {
		want[f] = true
	}
	for _, f := range fields {
		want[ApplicationField(strings.ToLower(strings.TrimSpace(f)))] = true
	}

	result := make([]ApplicationField, 0, len(want))
	for _, f := range ApplicationFields {
		if want[f] {
			result = append(result, f)
		}
	}
	return result
}

func missingFields(member TeamMember, required []ApplicationField) []string {
	var missing []string
	for _, f := range required {
		if member.Value(f) == "" {
			missing = append(missing, string(f))
		}
	}
	return missing
}

func teamBounds(size *TeamSize) (int, int) {
	if size == nil {
		return 1, math.MaxInt
	}
	return size.Min, size.Max
}
