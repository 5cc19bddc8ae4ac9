package services

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/formco/backend/internal/app/models/dto"
	"github.com/formco/backend/internal/domain"
	"github.com/formco/backend/internal/pkg/apperrors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompetitionService_CreateByOrganization(t *testing.T) {
	env := newTestEnv(t)
	org := env.organization(t)

	resp := env.competition(t, org, nil)
	assert.Equal(t, org.ID, resp.OrganizationID)
	assert.Nil(t, resp.OrganizerID)
	assert.Equal(t, domain.StatusOpen, resp.Status)
	assert.Equal(t, []string{"name", "email", "institute"}, resp.RequiredApplicationFields)
	assert.Equal(t, []string{"go", "sql"}, resp.SkillsRequired)

	_, err := env.competitions.Create(context.Background(), org, validCompetitionRequest(env.now))
	assert.ErrorIs(t, err, apperrors.ErrDuplicateTitle)
}

func TestCompetitionService_CreateByOrganizer(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	org := env.organization(t)
	other := domain.Organization{ID: env.user(t, domain.RoleOrganization, "other").ID}
	organizer := domain.Organizer{ID: env.user(t, domain.RoleOrganizer, "olu").ID, OrganizationIDs: []string{org.ID}}

	req := validCompetitionRequest(env.now)
	_, err := env.competitions.Create(ctx, organizer, req)
	assert.ErrorIs(t, err, apperrors.ErrBadRequest, "organizers must name the organization")

	req.OrganizationID = other.ID
	_, err = env.competitions.Create(ctx, organizer, req)
	assert.ErrorIs(t, err, apperrors.ErrPermissionDenied)

	req.OrganizationID = org.ID
	resp, err := env.competitions.Create(ctx, organizer, req)
	require.NoError(t, err)
	assert.Equal(t, org.ID, resp.OrganizationID)
	require.NotNil(t, resp.OrganizerID)
	assert.Equal(t, organizer.ID, *resp.OrganizerID)
}

func TestCompetitionService_CreateValidatesBeforeOwnership(t *testing.T) {
	env := newTestEnv(t)

	req := validCompetitionRequest(env.now)
	req.Title = ""
	req.Mode = "onsite"

	_, err := env.competitions.Create(context.Background(), domain.Student{ID: "s"}, req)
	var verrs domain.ValidationErrors
	require.ErrorAs(t, err, &verrs)
	assert.ElementsMatch(t, []string{"title is required", "location is required for onsite competitions"}, verrs.Messages())

	_, err = env.competitions.Create(context.Background(), domain.Student{ID: "s"}, validCompetitionRequest(env.now))
	assert.ErrorIs(t, err, apperrors.ErrPermissionDenied)
}

func TestCompetitionService_StatusFollowsClock(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	created := env.competition(t, env.organization(t), nil)

	steps := []struct {
		at   time.Duration
		want domain.CompetitionStatus
	}{
		{0, domain.StatusOpen},
		{24 * time.Hour, domain.StatusClosed},
		{48 * time.Hour, domain.StatusHappening},
		{72 * time.Hour, domain.StatusHappening},
		{73 * time.Hour, domain.StatusHappened},
	}
	for _, step := range steps {
		env.now = fixedNow.Add(step.at)
		status, err := env.competitions.GetStatus(ctx, created.ID)
		require.NoError(t, err)
		assert.Equal(t, step.want, status.Status, "at +%s", step.at)
		assert.Equal(t, env.now, status.EvaluatedAt)
	}

	_, err := env.competitions.GetStatus(ctx, "missing")
	assert.ErrorIs(t, err, apperrors.ErrCompetitionNotFound)
}

func TestCompetitionService_List(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	org := env.organization(t)

	env.competition(t, org, func(r *dto.CreateCompetitionRequest) { r.Title = "Go Sprint" })
	env.competition(t, org, func(r *dto.CreateCompetitionRequest) {
		r.Title = "Design Jam"
		r.Category = "Design"
		r.DeadlineToApply = env.now.Add(time.Hour).Format(time.RFC3339)
	})

	all, err := env.competitions.List(ctx, dto.CompetitionFilterRequest{Page: 1, PageSize: 10})
	require.NoError(t, err)
	require.Len(t, all.Competitions, 2)
	assert.Equal(t, "Design Jam", all.Competitions[0].Title, "ordered by deadline")
	assert.Equal(t, int64(2), all.Pagination.TotalItems)

	env.now = fixedNow.Add(2 * time.Hour)
	closed, err := env.competitions.List(ctx, dto.CompetitionFilterRequest{Status: domain.StatusClosed})
	require.NoError(t, err)
	require.Len(t, closed.Competitions, 1)
	assert.Equal(t, "Design Jam", closed.Competitions[0].Title)
	assert.Equal(t, domain.StatusClosed, closed.Competitions[0].Status)

	bySearch, err := env.competitions.List(ctx, dto.CompetitionFilterRequest{Search: "sprint", Category: "Hackathon"})
	require.NoError(t, err)
	require.Len(t, bySearch.Competitions, 1)
	assert.Equal(t, "Go Sprint", bySearch.Competitions[0].Title)
}

func TestCompetitionService_DeleteCascades(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	org := env.organization(t)
	created := env.competition(t, org, func(r *dto.CreateCompetitionRequest) {
		r.RegistrationFee = "100"
		r.VerificationNeeded = true
		r.AccountDetails = &domain.AccountDetails{Name: "Club", Number: "123", Type: "UPI"}
	})

	student := env.student(t, "sam")
	req := individualRequest("sam")
	req.TransactionID = "TXN-1"
	app, err := env.applications.Submit(ctx, student, created.ID, req, receiptHeader(t, "r.png", []byte("png")))
	require.NoError(t, err)
	stored, err := env.store.Applications().GetByID(ctx, app.ID)
	require.NoError(t, err)
	receiptPath := receiptPath(t, env, stored.ReceiptImage)
	_, err = os.Stat(receiptPath)
	require.NoError(t, err)

	err = env.competitions.Delete(ctx, student, created.ID)
	assert.ErrorIs(t, err, apperrors.ErrPermissionDenied)

	require.NoError(t, env.competitions.Delete(ctx, org, created.ID))

	_, err = env.competitions.Get(ctx, created.ID)
	assert.ErrorIs(t, err, apperrors.ErrCompetitionNotFound)
	_, err = env.store.Applications().GetByID(ctx, app.ID)
	assert.ErrorIs(t, err, apperrors.ErrApplicationNotFound)
	_, err = os.Stat(receiptPath)
	assert.True(t, os.IsNotExist(err))
}

func TestCompetitionService_ListApplications(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	org := env.organization(t)
	created := env.competition(t, org, nil)

	for _, name := range []string{"ann", "ben", "cal"} {
		_, err := env.applications.Submit(ctx, env.student(t, name), created.ID, individualRequest(name), nil)
		require.NoError(t, err)
		env.now = env.now.Add(time.Minute)
	}

	page, err := env.competitions.ListApplications(ctx, org, created.ID, 1, 2)
	require.NoError(t, err)
	require.Len(t, page.Applications, 2)
	assert.Equal(t, "ann", page.Applications[0].TeamMembers[0].Name)
	assert.Equal(t, 2, page.Pagination.TotalPages)

	_, err = env.competitions.ListApplications(ctx, domain.Organization{ID: "someone-else"}, created.ID, 1, 10)
	assert.ErrorIs(t, err, apperrors.ErrPermissionDenied)
}

func receiptPath(t *testing.T, env *testEnv, key string) string {
	t.Helper()
	require.NotEmpty(t, key)
	return filepath.Join(env.storage.BasePath(), filepath.FromSlash(key))
}
