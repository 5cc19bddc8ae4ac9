package services

import (
	"context"
	"testing"

	"github.com/formco/backend/internal/app/models/dto"
	"github.com/formco/backend/internal/domain"
	"github.com/formco/backend/internal/pkg/apperrors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAuthService_RegisterAndLogin(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	resp, err := env.auth.Register(ctx, &dto.RegisterRequest{
		Email:    "  Jane@College.EDU ",
		Password: "s3cretpass",
		Name:     " Jane Doe ",
		RoleType: domain.RoleStudent,
	})
	require.NoError(t, err)
	assert.Equal(t, "jane@college.edu", resp.User.Email)
	assert.Equal(t, "Jane Doe", resp.User.Name)
	assert.Equal(t, "STUDENT", resp.User.Role)
	assert.Equal(t, "Bearer", resp.Token.TokenType)
	assert.NotEmpty(t, resp.Token.AccessToken)

	stored, err := env.store.Users().GetByEmail(ctx, "jane@college.edu")
	require.NoError(t, err)
	assert.NotEqual(t, "s3cretpass", stored.Password)

	login, err := env.auth.Login(ctx, &dto.LoginRequest{Email: "JANE@college.edu", Password: "s3cretpass"})
	require.NoError(t, err)
	assert.Equal(t, resp.User.ID, login.User.ID)

	_, err = env.auth.Login(ctx, &dto.LoginRequest{Email: "jane@college.edu", Password: "wrongpass1"})
	assert.ErrorIs(t, err, apperrors.ErrInvalidCredentials)

	_, err = env.auth.Login(ctx, &dto.LoginRequest{Email: "nobody@college.edu", Password: "s3cretpass"})
	assert.ErrorIs(t, err, apperrors.ErrInvalidCredentials)

	profile, err := env.auth.GetProfile(ctx, resp.User.ID)
	require.NoError(t, err)
	assert.Equal(t, "Jane Doe", profile.Name)
}

func TestAuthService_RegisterRejectsDuplicatesAndBadInput(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	req := &dto.RegisterRequest{Email: "a@b.co", Password: "passw0rd", Name: "Ann", RoleType: domain.RoleOrganizer}
	_, err := env.auth.Register(ctx, req)
	require.NoError(t, err)

	_, err = env.auth.Register(ctx, req)
	assert.ErrorIs(t, err, apperrors.ErrEmailAlreadyExists)

	_, err = env.auth.Register(ctx, &dto.RegisterRequest{Email: "bad", Password: "short", Name: "", RoleType: domain.RoleStudent})
	var verrs domain.ValidationErrors
	require.ErrorAs(t, err, &verrs)
	assert.Len(t, verrs, 3)
	assert.ErrorIs(t, err, apperrors.ErrValidationFailed)

	_, err = env.auth.Register(ctx, &dto.RegisterRequest{Email: "c@b.co", Password: "passw0rd", Name: "Cy", RoleType: "ADMIN"})
	assert.ErrorIs(t, err, apperrors.ErrBadRequest)
}
