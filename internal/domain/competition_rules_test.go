package domain

import (
	"errors"
	"testing"
	"time"

	"github.com/formco/backend/internal/pkg/apperrors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validInput() CompetitionInput {
	return CompetitionInput{
		Title:           "Code Sprint",
		Description:     "Two days of coding",
		Instructions:    "Bring a laptop",
		Category:        "Hackathon",
		Mode:            "online",
		DeadlineToApply: base.Add(24 * time.Hour).Format(time.RFC3339),
		StartDate:       base.Add(48 * time.Hour).Format(time.RFC3339),
		EndDate:         base.Add(72 * time.Hour).Format(time.RFC3339),
	}
}

func requireValidationErrors(t *testing.T, err error) ValidationErrors {
	t.Helper()
	var verrs ValidationErrors
	require.True(t, errors.As(err, &verrs), "expected ValidationErrors, got %v", err)
	assert.True(t, errors.Is(err, apperrors.ErrValidationFailed))
	return verrs
}

func fields(errs ValidationErrors) []string {
	list := make([]string, len(errs))
	for i, e := range errs {
		list[i] = e.Field
	}
	return list
}

func TestValidateCompetitionInput_Valid(t *testing.T) {
	in := validInput()
	in.SkillsRequired = " go, sql ,, docker "
	in.RequiredApplicationFields = []string{"institute"}
	in.RegistrationFee = "0"

	draft, err := ValidateCompetitionInput(base, in)
	require.NoError(t, err)
	assert.Equal(t, ModeOnline, draft.Mode)
	assert.Empty(t, draft.Location)
	assert.Equal(t, []string{"go", "sql", "docker"}, draft.SkillsRequired)
	assert.Equal(t, []string{"name", "email", "institute"}, draft.RequiredApplicationFields)
	assert.Equal(t, 0.0, draft.RegistrationFee)
	assert.Nil(t, draft.TeamSize)
	assert.Equal(t, base.Add(24*time.Hour), draft.DeadlineToApply)
}

func TestValidateCompetitionInput_DatePastAndOrdering(t *testing.T) {
	in := validInput()
	in.DeadlineToApply = base.Add(-time.Hour).Format(time.RFC3339)
	_, err := ValidateCompetitionInput(base, in)
	assert.Contains(t, fields(requireValidationErrors(t, err)), "deadlineToApply")

	in = validInput()
	in.StartDate = in.DeadlineToApply
	_, err = ValidateCompetitionInput(base, in)
	assert.Equal(t, []string{"startDate"}, fields(requireValidationErrors(t, err)))

	in = validInput()
	in.EndDate = in.StartDate
	_, err = ValidateCompetitionInput(base, in)
	assert.Equal(t, []string{"endDate"}, fields(requireValidationErrors(t, err)))
}

func TestValidateCompetitionInput_Location(t *testing.T) {
	in := validInput()
	in.Mode = "onsite"
	in.Location = " "
	_, err := ValidateCompetitionInput(base, in)
	verrs := requireValidationErrors(t, err)
	require.Len(t, verrs, 1)
	assert.Equal(t, "location", verrs[0].Field)
	assert.Contains(t, verrs[0].Message, "location is required")

	in.Mode = "online"
	_, err = ValidateCompetitionInput(base, in)
	assert.NoError(t, err)

	in.Mode = "Hybrid"
	in.Location = "Main Hall"
	draft, err := ValidateCompetitionInput(base, in)
	require.NoError(t, err)
	assert.Equal(t, ModeHybrid, draft.Mode)
	assert.Equal(t, "Main Hall", draft.Location)
}

func TestValidateCompetitionInput_CollectsEveryViolation(t *testing.T) {
	in := CompetitionInput{
		Mode:                      "underwater",
		IsTeamEvent:               true,
		TeamSize:                  &TeamSize{Min: 0, Max: -1},
		RequiredApplicationFields: []string{"shoe size"},
		DeadlineToApply:           "not a date",
	}

	_, err := ValidateCompetitionInput(base, in)
	verrs := requireValidationErrors(t, err)
	assert.ElementsMatch(t, []string{
		"title", "description", "instructions", "category", "mode",
		"deadlineToApply", "startDate", "endDate",
		"teamSize.min", "teamSize.max", "requiredApplicationFields",
	}, fields(verrs))
	assert.Len(t, verrs.Messages(), len(verrs))
}

func TestValidateCompetitionInput_TeamSize(t *testing.T) {
	in := validInput()
	in.IsTeamEvent = true
	_, err := ValidateCompetitionInput(base, in)
	assert.Equal(t, []string{"teamSize"}, fields(requireValidationErrors(t, err)))

	in.TeamSize = &TeamSize{Min: 3, Max: 2}
	_, err = ValidateCompetitionInput(base, in)
	verrs := requireValidationErrors(t, err)
	assert.Equal(t, []string{"teamSize.max"}, fields(verrs))
	assert.Contains(t, verrs[0].Message, "greater than or equal to minimum")

	in.TeamSize = &TeamSize{Min: 2, Max: 2}
	draft, err := ValidateCompetitionInput(base, in)
	require.NoError(t, err)
	assert.Equal(t, &TeamSize{Min: 2, Max: 2}, draft.TeamSize)
}

func TestValidateCompetitionInput_PaymentDetails(t *testing.T) {
	in := validInput()
	in.RegistrationFee = 100.0
	in.VerificationNeeded = true
	_, err := ValidateCompetitionInput(base, in)
	assert.Equal(t, []string{"accountDetails"}, fields(requireValidationErrors(t, err)))

	in.AccountDetails = &AccountDetails{Name: "Club", Number: "", Type: "UPI"}
	_, err = ValidateCompetitionInput(base, in)
	assert.Equal(t, []string{"accountDetails.number"}, fields(requireValidationErrors(t, err)))

	in.AccountDetails.Number = "42"
	draft, err := ValidateCompetitionInput(base, in)
	require.NoError(t, err)
	assert.True(t, draft.VerificationNeeded)
	require.NotNil(t, draft.AccountDetails)
	assert.Equal(t, "42", draft.AccountDetails.Number)

	in.RegistrationFee = "abc"
	draft, err = ValidateCompetitionInput(base, in)
	require.NoError(t, err)
	assert.Equal(t, 0.0, draft.RegistrationFee)
	assert.False(t, draft.VerificationNeeded)
	assert.Nil(t, draft.AccountDetails)
}

func TestCoerceFee(t *testing.T) {
	assert.Equal(t, 0.0, CoerceFee(nil))
	assert.Equal(t, 0.0, CoerceFee(-5.0))
	assert.Equal(t, 0.0, CoerceFee("free"))
	assert.Equal(t, 12.5, CoerceFee(" 12.5 "))
	assert.Equal(t, 30.0, CoerceFee(30))
}

func TestNormalizeSkills(t *testing.T) {
	assert.Equal(t, []string{"go", "rust"}, NormalizeSkills("go, rust,"))
	assert.Equal(t, []string{"go", "rust"}, NormalizeSkills([]interface{}{" go", "", "rust "}))
	assert.Equal(t, []string{"ml"}, NormalizeSkills([]string{"ml", "  "}))
	assert.Empty(t, NormalizeSkills(nil))
}

func TestValidateCompetitionInput_LocalDateTimeLayout(t *testing.T) {
	in := validInput()
	in.DeadlineToApply = "2025-03-02T10:00"
	draft, err := ValidateCompetitionInput(base, in)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2025, 3, 2, 10, 0, 0, 0, time.UTC), draft.DeadlineToApply)
}
