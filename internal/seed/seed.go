package seed

import (
	"context"
	"errors"

	appModels "github.com/formco/backend/internal/app/models"
	appRepos "github.com/formco/backend/internal/app/repositories"
	"github.com/formco/backend/internal/domain"
	"github.com/formco/backend/internal/pkg/apperrors"
	"github.com/formco/backend/internal/pkg/auth"
	"github.com/formco/backend/internal/pkg/validation"
	"github.com/rs/zerolog"
)

// DefaultOrganization describes the organization account created on first start
type DefaultOrganization struct {
	Email    string
	Password string
	Name     string
}

// CreateDefaultData creates the default organization account if it doesn't exist.
// An empty email disables seeding.
func CreateDefaultData(ctx context.Context, userRepo appRepos.IUserRepository, hasher *auth.PasswordHasher, org DefaultOrganization, lgr zerolog.Logger) error {
	email := validation.NormalizeEmail(org.Email)
	if email == "" {
		lgr.Debug().Msg("No default organization configured, skipping seed")
		return nil
	}

	existing, err := userRepo.GetByEmail(ctx, email)
	switch {
	case err == nil:
		if existing.RoleType != domain.RoleOrganization {
			lgr.Warn().Str("email", email).Str("role", string(existing.RoleType)).Msg("Seed email belongs to a non-organization account")
		}
		return nil
	case !errors.Is(err, apperrors.ErrUserNotFound):
		return err
	}

	hashed, err := hasher.Hash(org.Password)
	if err != nil {
		return err
	}

	name := org.Name
	if name == "" {
		name = "Default Organization"
	}

	user := &appModels.User{
		Email:    email,
		Password: hashed,
		Name:     name,
		RoleType: domain.RoleOrganization,
	}
	if err := userRepo.Create(ctx, user); err != nil {
		// another instance seeded it first
		if errors.Is(err, apperrors.ErrEmailAlreadyExists) {
			return nil
		}
		return err
	}

	lgr.Info().Str("email", email).Str("organizationID", user.ID).Msg("Default organization account created")
	return nil
}
