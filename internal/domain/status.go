package domain

import (
	"strings"
	"time"
)

// CompetitionStatus is derived from the competition dates and the current time. It is never stored.
type CompetitionStatus string

const (
	StatusOpen      CompetitionStatus = "Open"
	StatusClosed    CompetitionStatus = "Closed"
	StatusHappening CompetitionStatus = "Happening"
	StatusHappened  CompetitionStatus = "Happened"
)

// Statuses lists every status in lifecycle order
var Statuses = []CompetitionStatus{StatusOpen, StatusClosed, StatusHappening, StatusHappened}

// ParseStatus matches s case-insensitively against the known statuses
func ParseStatus(s string) (CompetitionStatus, bool) {
	for _, st := range Statuses {
		if strings.EqualFold(string(st), strings.TrimSpace(s)) {
			return st, true
		}
	}
	return "", false
}

// ResolveStatus returns exactly one status for now.
//
// For well-ordered dates (deadline <= start <= end):
//
//	now < deadline          Open
//	deadline <= now < start Closed
//	start <= now <= end     Happening
//	now > end               Happened
//
// Dates that violate the ordering resolve to Closed until now is past all of them, then Happened.
func ResolveStatus(now, deadline, start, end time.Time) CompetitionStatus {
	if deadline.After(start) || start.After(end) {
		if now.After(deadline) && now.After(start) && now.After(end) {
			return StatusHappened
		}
		return StatusClosed
	}

	switch {
	case now.Before(deadline):
		return StatusOpen
	case now.Before(start):
		return StatusClosed
	case !now.After(end):
		return StatusHappening
	default:
		return StatusHappened
	}
}

// StatusOf resolves the status of competition at now
func StatusOf(now time.Time, competition *Competition) CompetitionStatus {
	return ResolveStatus(now, competition.DeadlineToApply, competition.StartDate, competition.EndDate)
}
