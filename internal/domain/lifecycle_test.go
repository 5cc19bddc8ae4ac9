package domain

import (
	"errors"
	"testing"
	"time"

	"github.com/formco/backend/internal/pkg/apperrors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func boolPtr(b bool) *bool { return &b }

func acceptance(s AcceptanceStatus) *AcceptanceStatus { return &s }

func TestAxisUpdate_ExactlyOne(t *testing.T) {
	_, err := AxisUpdate{}.Axis()
	assert.True(t, errors.Is(err, apperrors.ErrBadRequest))

	_, err = AxisUpdate{PaymentVerified: boolPtr(true), Attended: boolPtr(true)}.Axis()
	assert.True(t, errors.Is(err, apperrors.ErrBadRequest))

	axis, err := AxisUpdate{Accepted: acceptance(AcceptanceAccepted)}.Axis()
	require.NoError(t, err)
	assert.Equal(t, AxisAcceptance, axis)
}

func TestPlanTransition_Forbidden(t *testing.T) {
	comp := openCompetition()
	app := &Application{ID: "a1", CompetitionID: comp.ID, StudentID: "s1"}

	for _, actor := range []Actor{
		Student{ID: "s1"},
		Organization{ID: "org-2"},
		Organizer{ID: "u1", OrganizationIDs: []string{"org-2"}},
	} {
		_, err := PlanTransition(base, actor, comp, app, AxisUpdate{Attended: boolPtr(true)})
		assert.True(t, errors.Is(err, apperrors.ErrPermissionDenied), "actor %T", actor)
	}
}

func TestPlanTransition_PaymentToggleKeepsOtherAxes(t *testing.T) {
	comp := openCompetition()
	org := Organization{ID: "org-1"}
	app := &Application{ID: "a1", StudentID: "s1", Attended: true, Accepted: AcceptanceRejected}

	steps := []bool{true, false, true}
	for i, verified := range steps {
		now := base.Add(time.Duration(i) * time.Hour)
		change, err := PlanTransition(now, org, comp, app, AxisUpdate{PaymentVerified: boolPtr(verified)})
		require.NoError(t, err)
		change.Apply(app)

		assert.Equal(t, verified, app.PaymentVerified)
		if verified {
			require.NotNil(t, app.PaymentDate)
			assert.Equal(t, now, *app.PaymentDate)
		} else {
			assert.Nil(t, app.PaymentDate)
		}
		assert.True(t, app.Attended)
		assert.Equal(t, AcceptanceRejected, app.Accepted)
	}
}

func TestPlanTransition_AttendanceAndAcceptance(t *testing.T) {
	comp := openCompetition()
	organizer := Organizer{ID: "u1", OrganizationIDs: []string{"org-1"}}
	app := &Application{ID: "a1", Accepted: AcceptancePending}

	change, err := PlanTransition(base, organizer, comp, app, AxisUpdate{Attended: boolPtr(true)})
	require.NoError(t, err)
	change.Apply(app)
	assert.True(t, app.Attended)
	assert.Equal(t, AcceptancePending, app.Accepted)

	for _, s := range []AcceptanceStatus{AcceptanceRejected, AcceptancePending, AcceptanceAccepted} {
		change, err = PlanTransition(base, organizer, comp, app, AxisUpdate{Accepted: acceptance(s)})
		require.NoError(t, err)
		change.Apply(app)
		assert.Equal(t, s, app.Accepted)
		assert.True(t, app.Attended)
		assert.False(t, app.PaymentVerified)
	}

	_, err = PlanTransition(base, organizer, comp, app, AxisUpdate{Accepted: acceptance("maybe")})
	assert.True(t, errors.Is(err, apperrors.ErrBadRequest))
}
