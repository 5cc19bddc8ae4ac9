package domain

import (
	"time"

	"github.com/formco/backend/internal/pkg/apperrors"
)

// Axis is one of the three independently mutable parts of an application's state
type Axis string

const (
	AxisPayment    Axis = "paymentVerified"
	AxisAttendance Axis = "attended"
	AxisAcceptance Axis = "accepted"
)

// AxisUpdate is a request to change exactly one axis
type AxisUpdate struct {
	PaymentVerified *bool
	Attended        *bool
	Accepted        *AcceptanceStatus
}

// Axis returns the single axis the update targets
func (u AxisUpdate) Axis() (Axis, error) {
	var axes []Axis
	if u.PaymentVerified != nil {
		axes = append(axes, AxisPayment)
	}
	if u.Attended != nil {
		axes = append(axes, AxisAttendance)
	}
	if u.Accepted != nil {
		axes = append(axes, AxisAcceptance)
	}
	if len(axes) != 1 {
		return "", apperrors.NewBadRequestError("exactly one of paymentVerified, attended or accepted must be provided")
	}
	return axes[0], nil
}

// FieldChange is the persisted effect of one transition. Only the fields of Axis are meaningful.
type FieldChange struct {
	Axis            Axis
	PaymentVerified bool
	PaymentDate     *time.Time
	Attended        bool
	Accepted        AcceptanceStatus
}

// PlanTransition authorizes actor and computes the single-axis change for app.
// Verifying payment stamps the payment date with now, un-verifying clears it.
func PlanTransition(now time.Time, actor Actor, competition *Competition, app *Application, update AxisUpdate) (*FieldChange, error) {
	if !CanManageCompetition(actor, competition) {
		return nil, apperrors.NewForbiddenError("only the owning organization or its organizers can update applications")
	}

	axis, err := update.Axis()
	if err != nil {
		return nil, err
	}

	change := &FieldChange{Axis: axis}
	switch axis {
	case AxisPayment:
		change.PaymentVerified = *update.PaymentVerified
		if change.PaymentVerified {
			stamp := now
			change.PaymentDate = &stamp
		}
	case AxisAttendance:
		change.Attended = *update.Attended
	case AxisAcceptance:
		if !update.Accepted.IsValid() {
			return nil, apperrors.NewBadRequestError("accepted must be one of pending, accepted, rejected")
		}
		change.Accepted = *update.Accepted
	}
	return change, nil
}

// Apply writes the change onto app, leaving the other axes untouched
func (c FieldChange) Apply(app *Application) {
	switch c.Axis {
	case AxisPayment:
		app.PaymentVerified = c.PaymentVerified
		app.PaymentDate = c.PaymentDate
	case AxisAttendance:
		app.Attended = c.Attended
	case AxisAcceptance:
		app.Accepted = c.Accepted
	}
}
