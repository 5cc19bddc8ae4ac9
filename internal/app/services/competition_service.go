package services

import (
	"context"
	"strings"

	"github.com/formco/backend/internal/app/models/dto"
	"github.com/formco/backend/internal/app/repositories"
	"github.com/formco/backend/internal/domain"
	"github.com/formco/backend/internal/pkg/apperrors"
	"github.com/formco/backend/internal/pkg/filestorage"
	"github.com/formco/backend/internal/pkg/metrics"
	"github.com/rs/zerolog"
)

// CompetitionService handles competition operations
type CompetitionService struct {
	compRepo repositories.ICompetitionRepository
	appRepo  repositories.IApplicationRepository
	storage  filestorage.FileStorage
	now      Clock
	logger   zerolog.Logger
}

// NewCompetitionService creates a new CompetitionService. A nil clock uses time.Now.
func NewCompetitionService(
	compRepo repositories.ICompetitionRepository,
	appRepo repositories.IApplicationRepository,
	storage filestorage.FileStorage,
	now Clock,
	logger zerolog.Logger,
) *CompetitionService {
	return &CompetitionService{
		compRepo: compRepo,
		appRepo:  appRepo,
		storage:  storage,
		now:      clockOrDefault(now),
		logger:   logger,
	}
}

// Create validates the form, checks that actor acts for the target organization and stores the competition
func (s *CompetitionService) Create(ctx context.Context, actor domain.Actor, req *dto.CreateCompetitionRequest) (*dto.CompetitionResponse, error) {
	now := s.now()

	competition, err := domain.ValidateCompetitionInput(now, req.ToInput())
	if err != nil {
		return nil, err
	}

	organizationID := strings.TrimSpace(req.OrganizationID)
	switch a := actor.(type) {
	case domain.Organization:
		if organizationID == "" {
			organizationID = a.ID
		}
	case domain.Organizer:
		if organizationID == "" {
			return nil, apperrors.NewBadRequestError("organizationId is required for organizers")
		}
		organizerID := a.ID
		competition.OrganizerID = &organizerID
	default:
		return nil, apperrors.NewForbiddenError("only organizations and their organizers can create competitions")
	}
	if !domain.ActsFor(actor, organizationID) {
		return nil, apperrors.NewForbiddenError("you cannot create competitions for this organization")
	}
	competition.OrganizationID = organizationID

	if err := s.compRepo.Create(ctx, competition); err != nil {
		return nil, err
	}

	metrics.CompetitionsCreated.WithLabelValues(string(competition.Mode)).Inc()
	s.logger.Info().
		Str("competitionID", competition.ID).
		Str("organizationID", organizationID).
		Str("actorID", actor.ActorID()).
		Msg("Competition created")

	resp := dto.NewCompetitionResponse(competition, now)
	return &resp, nil
}

// Get returns a competition with its current status
func (s *CompetitionService) Get(ctx context.Context, id string) (*dto.CompetitionResponse, error) {
	competition, err := s.compRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := dto.NewCompetitionResponse(competition, s.now())
	return &resp, nil
}

// GetStatus resolves the status of a competition at the current time
func (s *CompetitionService) GetStatus(ctx context.Context, id string) (*dto.CompetitionStatusResponse, error) {
	competition, err := s.compRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := dto.NewCompetitionStatusResponse(competition, s.now())
	return &resp, nil
}

// List returns a page of competitions. Statuses are resolved with the same instant used for filtering.
func (s *CompetitionService) List(ctx context.Context, filter dto.CompetitionFilterRequest) (*dto.CompetitionListResponse, error) {
	now := s.now()

	competitions, total, err := s.compRepo.List(ctx, filter, now)
	if err != nil {
		return nil, err
	}

	items := make([]dto.CompetitionResponse, 0, len(competitions))
	for _, c := range competitions {
		items = append(items, dto.NewCompetitionResponse(c, now))
	}
	return &dto.CompetitionListResponse{
		Competitions: items,
		Pagination:   pagination(total, filter.Page, filter.PageSize),
	}, nil
}

// Delete removes a competition with all of its applications. Stored receipts are removed best-effort.
func (s *CompetitionService) Delete(ctx context.Context, actor domain.Actor, id string) error {
	competition, err := s.compRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if !domain.CanManageCompetition(actor, competition) {
		return apperrors.NewForbiddenError("only the owning organization or its organizers can delete this competition")
	}

	receipts, err := s.compRepo.DeleteWithApplications(ctx, id)
	if err != nil {
		return err
	}

	for _, key := range receipts {
		if err := s.storage.DeleteFile(key); err != nil {
			s.logger.Warn().Err(err).Str("key", key).Str("competitionID", id).Msg("Failed to remove receipt of deleted competition")
		}
	}

	s.logger.Info().Str("competitionID", id).Int("removedReceipts", len(receipts)).Str("actorID", actor.ActorID()).Msg("Competition deleted")
	return nil
}

// ListApplications returns a page of a competition's applications to its managers
func (s *CompetitionService) ListApplications(ctx context.Context, actor domain.Actor, competitionID string, page, size int) (*dto.ApplicationListResponse, error) {
	competition, err := s.compRepo.GetByID(ctx, competitionID)
	if err != nil {
		return nil, err
	}
	if !domain.CanManageCompetition(actor, competition) {
		return nil, apperrors.NewForbiddenError("only the owning organization or its organizers can view applications")
	}

	apps, total, err := s.appRepo.ListByCompetition(ctx, competitionID, page, size)
	if err != nil {
		return nil, err
	}
	return &dto.ApplicationListResponse{
		Applications: applicationResponses(apps, s.storage),
		Pagination:   pagination(total, page, size),
	}, nil
}

func applicationResponses(apps []*domain.Application, storage filestorage.FileStorage) []dto.ApplicationResponse {
	out := make([]dto.ApplicationResponse, 0, len(apps))
	for _, app := range apps {
		out = append(out, dto.NewApplicationResponse(app, storage.URL(app.ReceiptImage)))
	}
	return out
}
