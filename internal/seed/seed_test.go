package seed

import (
	"context"
	"testing"

	"github.com/formco/backend/internal/app/repositories/inmemory"
	"github.com/formco/backend/internal/domain"
	"github.com/formco/backend/internal/pkg/auth"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestCreateDefaultData(t *testing.T) {
	ctx := context.Background()
	users := inmemory.NewStore().Users()
	hasher := auth.NewPasswordHasher(bcrypt.MinCost)
	org := DefaultOrganization{Email: " Club@College.edu ", Password: "s3cretpass", Name: "Robotics Club"}

	require.NoError(t, CreateDefaultData(ctx, users, hasher, org, zerolog.Nop()))

	user, err := users.GetByEmail(ctx, "club@college.edu")
	require.NoError(t, err)
	assert.Equal(t, domain.RoleOrganization, user.RoleType)
	assert.Equal(t, "Robotics Club", user.Name)
	assert.True(t, hasher.Check(user.Password, "s3cretpass"))

	// second start finds the account and leaves it alone
	require.NoError(t, CreateDefaultData(ctx, users, hasher, org, zerolog.Nop()))
	again, err := users.GetByEmail(ctx, "club@college.edu")
	require.NoError(t, err)
	assert.Equal(t, user.ID, again.ID)
}

func TestCreateDefaultData_Disabled(t *testing.T) {
	ctx := context.Background()
	users := inmemory.NewStore().Users()

	require.NoError(t, CreateDefaultData(ctx, users, auth.NewPasswordHasher(bcrypt.MinCost), DefaultOrganization{}, zerolog.Nop()))
	_, err := users.GetByEmail(ctx, "")
	assert.Error(t, err)
}
