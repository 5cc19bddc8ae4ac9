package services

import (
	"context"
	"errors"

	"github.com/formco/backend/internal/app/models"
	"github.com/formco/backend/internal/app/models/dto"
	"github.com/formco/backend/internal/app/repositories"
	"github.com/formco/backend/internal/domain"
	"github.com/formco/backend/internal/pkg/apperrors"
	"github.com/formco/backend/internal/pkg/validation"
	"github.com/rs/zerolog"
)

// OrganizationService manages which organizers act for an organization
type OrganizationService struct {
	userRepo repositories.IUserRepository
	orgRepo  repositories.IOrganizationRepository
	logger   zerolog.Logger
}

// NewOrganizationService creates a new OrganizationService
func NewOrganizationService(userRepo repositories.IUserRepository, orgRepo repositories.IOrganizationRepository, logger zerolog.Logger) *OrganizationService {
	return &OrganizationService{
		userRepo: userRepo,
		orgRepo:  orgRepo,
		logger:   logger,
	}
}

// AddOrganizer attaches the organizer account with organizerEmail to org. Re-adding is a no-op.
func (s *OrganizationService) AddOrganizer(ctx context.Context, org domain.Organization, organizerEmail string) (*dto.UserResponse, error) {
	organizer, err := s.userRepo.GetByEmail(ctx, validation.NormalizeEmail(organizerEmail))
	if err != nil {
		if errors.Is(err, apperrors.ErrUserNotFound) {
			return nil, apperrors.NewResourceNotFoundError("no organizer account with this email")
		}
		return nil, err
	}
	if organizer.RoleType != domain.RoleOrganizer {
		return nil, apperrors.NewResourceNotFoundError("no organizer account with this email")
	}

	if err := s.orgRepo.AddMember(ctx, org.ID, organizer.ID); err != nil {
		return nil, err
	}

	s.logger.Info().Str("organizationID", org.ID).Str("organizerID", organizer.ID).Msg("Organizer added to organization")
	resp := dto.NewUserResponse(organizer)
	return &resp, nil
}

// RemoveOrganizer detaches an organizer from org
func (s *OrganizationService) RemoveOrganizer(ctx context.Context, org domain.Organization, organizerID string) error {
	removed, err := s.orgRepo.RemoveMember(ctx, org.ID, organizerID)
	if err != nil {
		return err
	}
	if !removed {
		return apperrors.NewResourceNotFoundError("organizer is not a member of this organization")
	}
	s.logger.Info().Str("organizationID", org.ID).Str("organizerID", organizerID).Msg("Organizer removed from organization")
	return nil
}

// ListMembers returns the organizers of org
func (s *OrganizationService) ListMembers(ctx context.Context, org domain.Organization) (*dto.OrganizerListResponse, error) {
	members, err := s.orgRepo.ListMembers(ctx, org.ID)
	if err != nil {
		return nil, err
	}
	return &dto.OrganizerListResponse{Organizers: userResponses(members)}, nil
}

// ListOrganizations returns the organizations organizer belongs to
func (s *OrganizationService) ListOrganizations(ctx context.Context, organizer domain.Organizer) (*dto.OrganizationListResponse, error) {
	orgs, err := s.orgRepo.ListOrganizations(ctx, organizer.ID)
	if err != nil {
		return nil, err
	}
	return &dto.OrganizationListResponse{Organizations: userResponses(orgs)}, nil
}

func userResponses(users []*models.User) []dto.UserResponse {
	out := make([]dto.UserResponse, 0, len(users))
	for _, u := range users {
		out = append(out, dto.NewUserResponse(u))
	}
	return out
}
