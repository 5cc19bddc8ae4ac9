package domain

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// CompetitionInput is the organizer-supplied competition form before validation.
// RegistrationFee may be a number or a numeric string. SkillsRequired may be a
// comma-separated string or a list of strings. Dates are RFC 3339 or "2006-01-02T15:04" (UTC).
type CompetitionInput struct {
	Title                     string
	Description               string
	Instructions              string
	Category                  string
	Mode                      string
	Location                  string
	IsTeamEvent               bool
	TeamSize                  *TeamSize
	RegistrationFee           interface{}
	VerificationNeeded        bool
	AccountDetails            *AccountDetails
	RequiredApplicationFields []string
	SkillsRequired            interface{}
	Eligibility               string
	DeadlineToApply           string
	StartDate                 string
	EndDate                   string
}

var timestampLayouts = []string{time.RFC3339, "2006-01-02T15:04:05", "2006-01-02T15:04", "2006-01-02"}

// ValidateCompetitionInput checks every creation rule and reports all violations at once.
// On success it returns a normalized competition draft without identity or ownership.
func ValidateCompetitionInput(now time.Time, in CompetitionInput) (*Competition, error) {
	var errs ValidationErrors

	draft := &Competition{
		Title:        strings.TrimSpace(in.Title),
		Description:  strings.TrimSpace(in.Description),
		Instructions: strings.TrimSpace(in.Instructions),
		Category:     strings.TrimSpace(in.Category),
		Eligibility:  strings.TrimSpace(in.Eligibility),
		IsTeamEvent:  in.IsTeamEvent,
	}

	if draft.Title == "" {
		errs.Add("title", "title is required")
	}
	if draft.Description == "" {
		errs.Add("description", "description is required")
	}
	if draft.Instructions == "" {
		errs.Add("instructions", "instructions are required")
	}
	if draft.Category == "" {
		errs.Add("category", "category is required")
	}

	mode := CompetitionMode(strings.ToLower(strings.TrimSpace(in.Mode)))
	location := strings.TrimSpace(in.Location)
	if !mode.IsValid() {
		errs.Add("mode", "mode must be one of online, onsite, hybrid")
	} else if mode != ModeOnline && location == "" {
		errs.Add("location", "location is required for %s competitions", mode)
	}
	draft.Mode = mode
	if mode != ModeOnline {
		draft.Location = location
	}

	deadline, deadlineOK := parseDate(&errs, "deadlineToApply", in.DeadlineToApply)
	start, startOK := parseDate(&errs, "startDate", in.StartDate)
	end, endOK := parseDate(&errs, "endDate", in.EndDate)
	if deadlineOK && deadline.Before(now) {
		errs.Add("deadlineToApply", "deadline to apply cannot be in the past")
	}
	if deadlineOK && startOK && !start.After(deadline) {
		errs.Add("startDate", "start date must be after the deadline to apply")
	}
	if startOK && endOK && !end.After(start) {
		errs.Add("endDate", "end date must be after the start date")
	}
	draft.DeadlineToApply, draft.StartDate, draft.EndDate = deadline, start, end

	if in.IsTeamEvent {
		switch {
		case in.TeamSize == nil:
			errs.Add("teamSize", "team size is required for team events")
		default:
			if in.TeamSize.Min < 1 {
				errs.Add("teamSize.min", "minimum team size must be at least 1")
			}
			if in.TeamSize.Max < in.TeamSize.Min {
				errs.Add("teamSize.max", "maximum team size must be greater than or equal to minimum team size")
			}
			size := *in.TeamSize
			draft.TeamSize = &size
		}
	}

	draft.RegistrationFee = CoerceFee(in.RegistrationFee)
	draft.VerificationNeeded = in.VerificationNeeded && draft.RegistrationFee > 0
	if draft.VerificationNeeded {
		validateAccountDetails(&errs, in.AccountDetails)
		if in.AccountDetails != nil {
			details := AccountDetails{
				Name:   strings.TrimSpace(in.AccountDetails.Name),
				Number: strings.TrimSpace(in.AccountDetails.Number),
				Type:   strings.TrimSpace(in.AccountDetails.Type),
			}
			draft.AccountDetails = &details
		}
	}

	draft.SkillsRequired = NormalizeSkills(in.SkillsRequired)

	for _, f := range in.RequiredApplicationFields {
		name := strings.ToLower(strings.TrimSpace(f))
		if name == "" {
			continue
		}
		if !isKnownField(name) {
			errs.Add("requiredApplicationFields", "unknown application field %q", f)
		}
	}
	required := RequiredFields(in.RequiredApplicationFields)
	draft.RequiredApplicationFields = make([]string, len(required))
	for i, f := range required {
		draft.RequiredApplicationFields[i] = string(f)
	}

	if errs.HasErrors() {
		return nil, errs
	}
	return draft, nil
}

func validateAccountDetails(errs *ValidationErrors, details *AccountDetails) {
	if details == nil {
		errs.Add("accountDetails", "account details are required when payment verification is needed")
		return
	}
	if strings.TrimSpace(details.Name) == "" {
		errs.Add("accountDetails.name", "account name is required")
	}
	if strings.TrimSpace(details.Number) == "" {
		errs.Add("accountDetails.number", "account number is required")
	}
	if strings.TrimSpace(details.Type) == "" {
		errs.Add("accountDetails.type", "account type is required")
	}
}

func parseDate(errs *ValidationErrors, field, value string) (time.Time, bool) {
	value = strings.TrimSpace(value)
	if value == "" {
		errs.Add(field, "%s is required", field)
		return time.Time{}, false
	}
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t.UTC(), true
		}
	}
	errs.Add(field, "%s must be a valid date", field)
	return time.Time{}, false
}

// CoerceFee converts a raw fee into a non-negative amount. Absent or invalid input yields 0.
func CoerceFee(raw interface{}) float64 {
	var fee float64
	switch v := raw.(type) {
	case float64:
		fee = v
	case float32:
		fee = float64(v)
	case int:
		fee = float64(v)
	case int64:
		fee = float64(v)
	case string:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return 0
		}
		fee = parsed
	default:
		return 0
	}
	if math.IsNaN(fee) || math.IsInf(fee, 0) || fee < 0 {
		return 0
	}
	return fee
}

// NormalizeSkills accepts a comma-separated string or a list and returns the trimmed, non-empty entries
func NormalizeSkills(raw interface{}) []string {
	var parts []string
	switch v := raw.(type) {
	case string:
		parts = strings.Split(v, ",")
	case []string:
		parts = v
	case []interface{}:
		for _, item := range v {
			if s, ok := item.(string); ok {
				parts = append(parts, s)
			} else if item != nil {
				parts = append(parts, fmt.Sprint(item))
			}
		}
	}

	skills := make([]string, 0, len(parts))
	for _, p := range parts {
		if s := strings.TrimSpace(p); s != "" {
			skills = append(skills, s)
		}
	}
	return skills
}

func isKnownField(name string) bool {
	for _, f := range ApplicationFields {
		if string(f) == name {
			return true
		}
	}
	return false
}
