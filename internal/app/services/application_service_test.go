package services

import (
	"context"
	"errors"
	"mime/multipart"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/formco/backend/internal/app/models/dto"
	"github.com/formco/backend/internal/domain"
	"github.com/formco/backend/internal/pkg/apperrors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func paidCompetition(r *dto.CreateCompetitionRequest) {
	r.RegistrationFee = 250
	r.VerificationNeeded = true
	r.AccountDetails = &domain.AccountDetails{Name: "Club", Number: "987", Type: "Bank"}
}

func eligibilityKind(t *testing.T, err error) domain.EligibilityKind {
	t.Helper()
	var e *domain.EligibilityError
	require.ErrorAs(t, err, &e)
	return e.Kind
}

func TestApplicationService_SubmitIndividual(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	comp := env.competition(t, env.organization(t), nil)
	student := env.student(t, "sam")

	req := individualRequest(" sam ")
	resp, err := env.applications.Submit(ctx, student, comp.ID, req, nil)
	require.NoError(t, err)

	assert.Equal(t, comp.ID, resp.CompetitionID)
	assert.Equal(t, student.ID, resp.StudentID)
	assert.Equal(t, domain.AcceptancePending, resp.Accepted)
	assert.False(t, resp.PaymentVerified)
	assert.True(t, domain.IsVerificationCode(resp.VerificationCode))
	require.Len(t, resp.TeamMembers, 1)
	assert.Equal(t, "sam", resp.TeamMembers[0].Name)
	assert.Empty(t, resp.ReceiptURL)

	require.Len(t, env.mailer.confirmations, 1)
	assert.Equal(t, "sam@formco.test", env.mailer.confirmations[0].ToEmail)
	assert.Equal(t, resp.VerificationCode, env.mailer.confirmations[0].VerificationCode)

	_, err = env.applications.Submit(ctx, student, comp.ID, individualRequest("sam"), nil)
	assert.Equal(t, domain.KindAlreadyApplied, eligibilityKind(t, err))
	var e *domain.EligibilityError
	require.ErrorAs(t, err, &e)
	assert.Equal(t, resp.ID, e.ExistingApplicationID)
	assert.ErrorIs(t, err, apperrors.ErrAlreadyApplied)

	mine, err := env.applications.ListMine(ctx, student)
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, resp.ID, mine[0].ID)
}

func TestApplicationService_SubmitRefusals(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	org := env.organization(t)
	comp := env.competition(t, org, nil)
	student := env.student(t, "sam")

	_, err := env.applications.Submit(ctx, org, comp.ID, individualRequest("x"), nil)
	assert.ErrorIs(t, err, apperrors.ErrPermissionDenied)

	_, err = env.applications.Submit(ctx, student, "missing", individualRequest("sam"), nil)
	assert.Equal(t, domain.KindCompetitionNotFound, eligibilityKind(t, err))
	assert.ErrorIs(t, err, apperrors.ErrCompetitionNotFound)

	noInstitute := individualRequest("sam")
	noInstitute.Institute = ""
	_, err = env.applications.Submit(ctx, student, comp.ID, noInstitute, nil)
	assert.Equal(t, domain.KindMissingFields, eligibilityKind(t, err))

	env.now = fixedNow.Add(24 * time.Hour)
	_, err = env.applications.Submit(ctx, student, comp.ID, individualRequest("sam"), nil)
	assert.Equal(t, domain.KindDeadlinePassed, eligibilityKind(t, err))
	assert.ErrorIs(t, err, apperrors.ErrNotEligible)
	assert.Empty(t, env.mailer.confirmations)
}

func TestApplicationService_SubmitTeam(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	comp := env.competition(t, env.organization(t), func(r *dto.CreateCompetitionRequest) {
		r.IsTeamEvent = true
		r.TeamSize = &domain.TeamSize{Min: 2, Max: 3}
	})
	student := env.student(t, "lead")

	req := &dto.SubmitApplicationRequest{
		TeamName: "Rockets",
		TeamMembers: []domain.TeamMember{
			{Name: "Lead", Email: "lead@uni.test", Institute: "City"},
		},
	}
	_, err := env.applications.Submit(ctx, student, comp.ID, req, nil)
	assert.Equal(t, domain.KindTeamSizeOutOfRange, eligibilityKind(t, err))

	req.TeamMembers = append(req.TeamMembers, domain.TeamMember{Name: "Mate", Email: "mate@uni.test", Institute: "City"})
	resp, err := env.applications.Submit(ctx, student, comp.ID, req, nil)
	require.NoError(t, err)
	assert.Equal(t, "Rockets", resp.TeamName)
	assert.Len(t, resp.TeamMembers, 2)
}

func TestApplicationService_SubmitWithReceipt(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	comp := env.competition(t, env.organization(t), paidCompetition)
	student := env.student(t, "sam")

	req := individualRequest("sam")
	_, err := env.applications.Submit(ctx, student, comp.ID, req, nil)
	assert.Equal(t, domain.KindPaymentProofRequired, eligibilityKind(t, err))

	req.TransactionID = "TXN-42"
	_, err = env.applications.Submit(ctx, student, comp.ID, req, receiptHeader(t, "receipt.exe", []byte("MZ")))
	assert.ErrorIs(t, err, apperrors.ErrBadRequest)
	assert.Empty(t, storedReceipts(t, env, comp.ID))

	resp, err := env.applications.Submit(ctx, student, comp.ID, req, receiptHeader(t, "receipt.png", []byte("png")))
	require.NoError(t, err)
	assert.Equal(t, 250.0, resp.PaymentAmount)
	assert.Equal(t, "TXN-42", resp.TransactionID)
	assert.Contains(t, resp.ReceiptURL, "http://localhost/uploads/receipts/"+comp.ID+"/")
	assert.Len(t, storedReceipts(t, env, comp.ID), 1)
}

func TestApplicationService_ConcurrentDuplicateSubmissions(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	comp := env.competition(t, env.organization(t), paidCompetition)
	student := env.student(t, "sam")

	const attempts = 8
	receipts := make([]*multipart.FileHeader, attempts)
	for i := range receipts {
		receipts[i] = receiptHeader(t, "receipt.png", []byte("png"))
	}

	var wg sync.WaitGroup
	results := make([]*dto.ApplicationResponse, attempts)
	errs := make([]error, attempts)
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			req := individualRequest("sam")
			req.TransactionID = "TXN-1"
			results[i], errs[i] = env.applications.Submit(ctx, student, comp.ID, req, receipts[i])
		}(i)
	}
	wg.Wait()

	var winner *dto.ApplicationResponse
	for i := range results {
		if errs[i] == nil {
			require.Nil(t, winner, "only one submission may succeed")
			winner = results[i]
		}
	}
	require.NotNil(t, winner)

	for _, err := range errs {
		if err == nil {
			continue
		}
		var e *domain.EligibilityError
		require.True(t, errors.As(err, &e), "unexpected error: %v", err)
		assert.Equal(t, domain.KindAlreadyApplied, e.Kind)
		assert.Equal(t, winner.ID, e.ExistingApplicationID)
	}

	apps, err := env.store.Applications().ListByStudent(ctx, student.ID)
	require.NoError(t, err)
	assert.Len(t, apps, 1)
	assert.Len(t, storedReceipts(t, env, comp.ID), 1, "losing receipts are removed")
}

func TestApplicationService_Visibility(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	org := env.organization(t)
	comp := env.competition(t, org, nil)
	owner := env.student(t, "sam")
	app, err := env.applications.Submit(ctx, owner, comp.ID, individualRequest("sam"), nil)
	require.NoError(t, err)

	_, err = env.applications.Get(ctx, owner, app.ID)
	assert.NoError(t, err)
	_, err = env.applications.Get(ctx, org, app.ID)
	assert.NoError(t, err)
	_, err = env.applications.Get(ctx, domain.Organizer{ID: "o", OrganizationIDs: []string{org.ID}}, app.ID)
	assert.NoError(t, err)

	_, err = env.applications.Get(ctx, env.student(t, "eve"), app.ID)
	assert.ErrorIs(t, err, apperrors.ErrPermissionDenied)
	_, err = env.applications.Get(ctx, domain.Organizer{ID: "o2"}, app.ID)
	assert.ErrorIs(t, err, apperrors.ErrPermissionDenied)
	_, err = env.applications.Get(ctx, owner, "missing")
	assert.ErrorIs(t, err, apperrors.ErrApplicationNotFound)

	png, err := env.applications.QRCode(ctx, owner, app.ID, 128)
	require.NoError(t, err)
	assert.Equal(t, []byte("\x89PNG"), png[:4])

	_, err = env.applications.QRCode(ctx, owner, app.ID, 0)
	assert.ErrorIs(t, err, apperrors.ErrBadRequest)
	_, err = env.applications.QRCode(ctx, env.student(t, "mal"), app.ID, 128)
	assert.ErrorIs(t, err, apperrors.ErrPermissionDenied)
}

func TestApplicationService_UpdateAxis(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	org := env.organization(t)
	comp := env.competition(t, org, nil)
	student := env.student(t, "sam")
	app, err := env.applications.Submit(ctx, student, comp.ID, individualRequest("sam"), nil)
	require.NoError(t, err)

	yes, no := true, false
	accepted, bogus := domain.AcceptanceAccepted, domain.AcceptanceStatus("maybe")

	env.now = fixedNow.Add(3 * time.Hour)
	updated, err := env.applications.UpdateAxis(ctx, org, app.ID, &dto.UpdateApplicationRequest{PaymentVerified: &yes})
	require.NoError(t, err)
	assert.True(t, updated.PaymentVerified)
	require.NotNil(t, updated.PaymentDate)
	assert.Equal(t, env.now, *updated.PaymentDate)
	assert.False(t, updated.Attended)
	assert.Equal(t, domain.AcceptancePending, updated.Accepted)

	updated, err = env.applications.UpdateAxis(ctx, org, app.ID, &dto.UpdateApplicationRequest{PaymentVerified: &no})
	require.NoError(t, err)
	assert.False(t, updated.PaymentVerified)
	assert.Nil(t, updated.PaymentDate)

	updated, err = env.applications.UpdateAxis(ctx, org, app.ID, &dto.UpdateApplicationRequest{Attended: &yes})
	require.NoError(t, err)
	assert.True(t, updated.Attended)

	updated, err = env.applications.UpdateAxis(ctx, org, app.ID, &dto.UpdateApplicationRequest{Accepted: &accepted})
	require.NoError(t, err)
	assert.Equal(t, domain.AcceptanceAccepted, updated.Accepted)
	assert.True(t, updated.Attended, "other axes are untouched")
	require.Len(t, env.mailer.decisions, 1)
	assert.Equal(t, "accepted", env.mailer.decisions[0].Decision)

	// same decision again sends nothing new
	_, err = env.applications.UpdateAxis(ctx, org, app.ID, &dto.UpdateApplicationRequest{Accepted: &accepted})
	require.NoError(t, err)
	assert.Len(t, env.mailer.decisions, 1)

	_, err = env.applications.UpdateAxis(ctx, org, app.ID, &dto.UpdateApplicationRequest{Attended: &yes, Accepted: &accepted})
	assert.ErrorIs(t, err, apperrors.ErrBadRequest)
	_, err = env.applications.UpdateAxis(ctx, org, app.ID, &dto.UpdateApplicationRequest{})
	assert.ErrorIs(t, err, apperrors.ErrBadRequest)
	_, err = env.applications.UpdateAxis(ctx, org, app.ID, &dto.UpdateApplicationRequest{Accepted: &bogus})
	assert.ErrorIs(t, err, apperrors.ErrBadRequest)
	_, err = env.applications.UpdateAxis(ctx, student, app.ID, &dto.UpdateApplicationRequest{Attended: &no})
	assert.ErrorIs(t, err, apperrors.ErrPermissionDenied)
}

func storedReceipts(t *testing.T, env *testEnv, competitionID string) []string {
	t.Helper()
	entries, err := os.ReadDir(filepath.Join(env.storage.BasePath(), "receipts", competitionID))
	if os.IsNotExist(err) {
		return nil
	}
	require.NoError(t, err)
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, e.Name())
	}
	return names
}
