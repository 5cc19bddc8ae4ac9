package auth

import (
	"context"
	"errors"

	"github.com/formco/backend/internal/app/repositories"
	"github.com/formco/backend/internal/domain"
	"github.com/formco/backend/internal/pkg/apperrors"
	"github.com/formco/backend/internal/pkg/logger"
)

// AuthorizationService turns authenticated accounts into domain actors
type AuthorizationService struct {
	userRepo repositories.IUserRepository
	orgRepo  repositories.IOrganizationRepository
}

// NewAuthorizationService creates a new AuthorizationService
func NewAuthorizationService(userRepo repositories.IUserRepository, orgRepo repositories.IOrganizationRepository) *AuthorizationService {
	return &AuthorizationService{
		userRepo: userRepo,
		orgRepo:  orgRepo,
	}
}

// ResolveActor builds the actor for an authenticated account. The role in the token must
// still match the stored account; organizers get their current memberships.
func (s *AuthorizationService) ResolveActor(ctx context.Context, userID string, role domain.RoleType) (domain.Actor, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, apperrors.ErrUserNotFound) {
			return nil, apperrors.ErrTokenInvalid
		}
		logger.Error().Err(err).Str("userID", userID).Msg("Error loading user in ResolveActor")
		return nil, err
	}
	if user.RoleType != role {
		logger.Warn().Str("userID", userID).Str("tokenRole", string(role)).Str("role", string(user.RoleType)).Msg("Token role does not match account")
		return nil, apperrors.ErrTokenInvalid
	}

	switch role {
	case domain.RoleStudent:
		return domain.Student{ID: user.ID}, nil
	case domain.RoleOrganization:
		return domain.Organization{ID: user.ID}, nil
	case domain.RoleOrganizer:
		orgIDs, err := s.orgRepo.ListOrganizationIDs(ctx, user.ID)
		if err != nil {
			return nil, err
		}
		return domain.Organizer{ID: user.ID, OrganizationIDs: orgIDs}, nil
	}
	return nil, apperrors.ErrTokenInvalid
}

// RequireStudent returns the student actor or a forbidden error
func RequireStudent(actor domain.Actor) (domain.Student, error) {
	student, ok := actor.(domain.Student)
	if !ok {
		return domain.Student{}, apperrors.NewForbiddenError("only students can perform this action")
	}
	return student, nil
}

// RequireOrganization returns the organization actor or a forbidden error
func RequireOrganization(actor domain.Actor) (domain.Organization, error) {
	org, ok := actor.(domain.Organization)
	if !ok {
		return domain.Organization{}, apperrors.NewForbiddenError("only organization accounts can perform this action")
	}
	return org, nil
}

// RequireOrganizer returns the organizer actor or a forbidden error
func RequireOrganizer(actor domain.Actor) (domain.Organizer, error) {
	organizer, ok := actor.(domain.Organizer)
	if !ok {
		return domain.Organizer{}, apperrors.NewForbiddenError("only organizers can perform this action")
	}
	return organizer, nil
}
