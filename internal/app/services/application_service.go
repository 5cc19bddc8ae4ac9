package services

import (
	"context"
	"errors"
	"mime/multipart"
	"path"

	appauth "github.com/formco/backend/internal/app/auth"
	"github.com/formco/backend/internal/app/models/dto"
	"github.com/formco/backend/internal/app/repositories"
	"github.com/formco/backend/internal/domain"
	"github.com/formco/backend/internal/pkg/apperrors"
	"github.com/formco/backend/internal/pkg/email"
	"github.com/formco/backend/internal/pkg/filestorage"
	"github.com/formco/backend/internal/pkg/metrics"
	"github.com/formco/backend/internal/pkg/qrcode"
	"github.com/rs/zerolog"
)

const receiptDir = "receipts"

// ApplicationService handles application submission and lifecycle operations
type ApplicationService struct {
	userRepo repositories.IUserRepository
	compRepo repositories.ICompetitionRepository
	appRepo  repositories.IApplicationRepository
	storage  filestorage.FileStorage
	mailer   email.EmailService
	qr       *qrcode.Generator
	now      Clock
	logger   zerolog.Logger
}

// NewApplicationService creates a new ApplicationService. A nil clock uses time.Now.
func NewApplicationService(
	userRepo repositories.IUserRepository,
	compRepo repositories.ICompetitionRepository,
	appRepo repositories.IApplicationRepository,
	storage filestorage.FileStorage,
	mailer email.EmailService,
	qr *qrcode.Generator,
	now Clock,
	logger zerolog.Logger,
) *ApplicationService {
	return &ApplicationService{
		userRepo: userRepo,
		compRepo: compRepo,
		appRepo:  appRepo,
		storage:  storage,
		mailer:   mailer,
		qr:       qr,
		now:      clockOrDefault(now),
		logger:   logger,
	}
}

// Submit runs the eligibility checks and stores the application. The receipt is stored only after
// the checks pass. The unique (competition, student) constraint decides concurrent duplicates: the
// loser gets AlreadyApplied with the winner's id and its stored receipt is removed.
func (s *ApplicationService) Submit(ctx context.Context, actor domain.Actor, competitionID string, req *dto.SubmitApplicationRequest, receipt *multipart.FileHeader) (*dto.ApplicationResponse, error) {
	student, err := appauth.RequireStudent(actor)
	if err != nil {
		return nil, err
	}

	competition, err := s.compRepo.GetByID(ctx, competitionID)
	if err != nil && !errors.Is(err, apperrors.ErrCompetitionNotFound) {
		return nil, err
	}

	existingID := ""
	if competition != nil {
		if existingID, err = s.appRepo.FindByCompetitionAndStudent(ctx, competition.ID, student.ID); err != nil {
			return nil, err
		}
	}

	draft, err := domain.ValidateApplication(s.now(), competition, student, existingID, req.ToSubmission(receipt != nil))
	if err != nil {
		s.rejected(err, competitionID, student.ID)
		return nil, err
	}

	var receiptKey string
	if draft.RequiresReceipt {
		if err := filestorage.ReceiptRules.Check(receipt); err != nil {
			return nil, apperrors.NewBadRequestError(err.Error())
		}
		if receiptKey, err = s.storage.SaveFileWithPath(receipt, path.Join(receiptDir, competition.ID)); err != nil {
			s.logger.Error().Err(err).Str("competitionID", competition.ID).Msg("Failed to store receipt")
			return nil, err
		}
	}

	app := &domain.Application{
		CompetitionID:    draft.CompetitionID,
		StudentID:        draft.StudentID,
		TeamName:         draft.TeamName,
		TeamMembers:      draft.TeamMembers,
		PaymentAmount:    draft.PaymentAmount,
		ReceiptImage:     receiptKey,
		TransactionID:    draft.TransactionID,
		VerificationCode: domain.IssueVerificationCode(),
		Accepted:         domain.AcceptancePending,
	}

	if err := s.appRepo.Create(ctx, app); err != nil {
		s.discardReceipt(receiptKey)
		return nil, s.insertFailure(ctx, err, competition.ID, student.ID)
	}

	metrics.ApplicationsSubmitted.WithLabelValues(metrics.EventType(competition.IsTeamEvent)).Inc()
	s.logger.Info().
		Str("applicationID", app.ID).
		Str("competitionID", competition.ID).
		Str("studentID", student.ID).
		Msg("Application submitted")

	s.sendConfirmation(ctx, competition, app)

	resp := dto.NewApplicationResponse(app, s.storage.URL(app.ReceiptImage))
	return &resp, nil
}

// insertFailure translates constraint failures into eligibility results
func (s *ApplicationService) insertFailure(ctx context.Context, err error, competitionID, studentID string) error {
	switch {
	case errors.Is(err, apperrors.ErrAlreadyApplied):
		existingID, findErr := s.appRepo.FindByCompetitionAndStudent(ctx, competitionID, studentID)
		if findErr != nil {
			s.logger.Error().Err(findErr).Str("competitionID", competitionID).Msg("Failed to load existing application after conflict")
		}
		result := domain.AlreadyApplied(existingID)
		s.rejected(result, competitionID, studentID)
		return result
	case errors.Is(err, apperrors.ErrCompetitionNotFound):
		result := &domain.EligibilityError{Kind: domain.KindCompetitionNotFound, Message: "competition not found"}
		s.rejected(result, competitionID, studentID)
		return result
	}
	return err
}

func (s *ApplicationService) rejected(err error, competitionID, studentID string) {
	var eligibility *domain.EligibilityError
	if errors.As(err, &eligibility) {
		metrics.EligibilityRejections.WithLabelValues(string(eligibility.Kind)).Inc()
		s.logger.Info().
			Str("competitionID", competitionID).
			Str("studentID", studentID).
			Str("kind", string(eligibility.Kind)).
			Msg("Application refused")
	}
}

func (s *ApplicationService) discardReceipt(key string) {
	if key == "" {
		return
	}
	if err := s.storage.DeleteFile(key); err != nil {
		s.logger.Warn().Err(err).Str("key", key).Msg("Failed to remove receipt of refused application")
	}
}

func (s *ApplicationService) sendConfirmation(ctx context.Context, competition *domain.Competition, app *domain.Application) {
	student, err := s.userRepo.GetByID(ctx, app.StudentID)
	if err != nil {
		s.logger.Warn().Err(err).Str("applicationID", app.ID).Msg("Skipping confirmation email")
		return
	}
	err = s.mailer.SendApplicationConfirmation(email.ApplicationConfirmation{
		ToEmail:          student.Email,
		ToName:           student.Name,
		CompetitionTitle: competition.Title,
		VerificationCode: app.VerificationCode,
		ApplicationID:    app.ID,
	})
	if err != nil {
		s.logger.Warn().Err(err).Str("applicationID", app.ID).Msg("Failed to send confirmation email")
	}
}

// Get returns an application to its applicant or to the competition's managers
func (s *ApplicationService) Get(ctx context.Context, actor domain.Actor, id string) (*dto.ApplicationResponse, error) {
	app, _, err := s.loadVisible(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	resp := dto.NewApplicationResponse(app, s.storage.URL(app.ReceiptImage))
	return &resp, nil
}

// ListMine returns the calling student's applications
func (s *ApplicationService) ListMine(ctx context.Context, actor domain.Actor) ([]dto.ApplicationResponse, error) {
	student, err := appauth.RequireStudent(actor)
	if err != nil {
		return nil, err
	}
	apps, err := s.appRepo.ListByStudent(ctx, student.ID)
	if err != nil {
		return nil, err
	}
	return applicationResponses(apps, s.storage), nil
}

// UpdateAxis applies one lifecycle transition requested by a competition manager
func (s *ApplicationService) UpdateAxis(ctx context.Context, actor domain.Actor, id string, req *dto.UpdateApplicationRequest) (*dto.ApplicationResponse, error) {
	app, err := s.appRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	competition, err := s.compRepo.GetByID(ctx, app.CompetitionID)
	if err != nil {
		return nil, err
	}

	change, err := domain.PlanTransition(s.now(), actor, competition, app, req.ToAxisUpdate())
	if err != nil {
		return nil, err
	}

	updated, err := s.appRepo.UpdateAxis(ctx, id, *change)
	if err != nil {
		return nil, err
	}

	metrics.LifecycleTransitions.WithLabelValues(string(change.Axis)).Inc()
	s.logger.Info().
		Str("applicationID", id).
		Str("axis", string(change.Axis)).
		Str("actorID", actor.ActorID()).
		Msg("Application updated")

	if change.Axis == domain.AxisAcceptance && change.Accepted != domain.AcceptancePending && change.Accepted != app.Accepted {
		s.sendDecision(ctx, competition, updated)
	}

	resp := dto.NewApplicationResponse(updated, s.storage.URL(updated.ReceiptImage))
	return &resp, nil
}

func (s *ApplicationService) sendDecision(ctx context.Context, competition *domain.Competition, app *domain.Application) {
	student, err := s.userRepo.GetByID(ctx, app.StudentID)
	if err != nil {
		s.logger.Warn().Err(err).Str("applicationID", app.ID).Msg("Skipping decision email")
		return
	}
	err = s.mailer.SendApplicationDecision(email.ApplicationDecision{
		ToEmail:          student.Email,
		ToName:           student.Name,
		CompetitionTitle: competition.Title,
		Decision:         string(app.Accepted),
	})
	if err != nil {
		s.logger.Warn().Err(err).Str("applicationID", app.ID).Msg("Failed to send decision email")
	}
}

// QRCode renders the application's verification code for check-in
func (s *ApplicationService) QRCode(ctx context.Context, actor domain.Actor, id string, size int) ([]byte, error) {
	app, _, err := s.loadVisible(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	png, err := s.qr.PNG(app.VerificationCode, size)
	if err != nil {
		if errors.Is(err, qrcode.ErrInvalidSize) {
			return nil, apperrors.NewBadRequestError(err.Error())
		}
		return nil, err
	}
	return png, nil
}

func (s *ApplicationService) loadVisible(ctx context.Context, actor domain.Actor, id string) (*domain.Application, *domain.Competition, error) {
	app, err := s.appRepo.GetByID(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	competition, err := s.compRepo.GetByID(ctx, app.CompetitionID)
	if err != nil && !errors.Is(err, apperrors.ErrCompetitionNotFound) {
		return nil, nil, err
	}
	if !domain.CanViewApplication(actor, competition, app) {
		return nil, nil, apperrors.NewForbiddenError("you cannot view this application")
	}
	return app, competition, nil
}
