package services

import (
	"context"
	"testing"

	"github.com/formco/backend/internal/domain"
	"github.com/formco/backend/internal/pkg/apperrors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOrganizationService_Membership(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	org := env.organization(t)
	organizer := env.user(t, domain.RoleOrganizer, "olu")
	env.user(t, domain.RoleStudent, "sam")

	added, err := env.orgs.AddOrganizer(ctx, org, "OLU@formco.test")
	require.NoError(t, err)
	assert.Equal(t, organizer.ID, added.ID)

	// idempotent
	_, err = env.orgs.AddOrganizer(ctx, org, "olu@formco.test")
	require.NoError(t, err)

	members, err := env.orgs.ListMembers(ctx, org)
	require.NoError(t, err)
	require.Len(t, members.Organizers, 1)
	assert.Equal(t, organizer.ID, members.Organizers[0].ID)

	orgs, err := env.orgs.ListOrganizations(ctx, domain.Organizer{ID: organizer.ID})
	require.NoError(t, err)
	require.Len(t, orgs.Organizations, 1)
	assert.Equal(t, org.ID, orgs.Organizations[0].ID)

	_, err = env.orgs.AddOrganizer(ctx, org, "sam@formco.test")
	assert.ErrorIs(t, err, apperrors.ErrResourceNotFound, "students cannot be attached")

	_, err = env.orgs.AddOrganizer(ctx, org, "ghost@formco.test")
	assert.ErrorIs(t, err, apperrors.ErrResourceNotFound)

	require.NoError(t, env.orgs.RemoveOrganizer(ctx, org, organizer.ID))
	assert.ErrorIs(t, env.orgs.RemoveOrganizer(ctx, org, organizer.ID), apperrors.ErrResourceNotFound)

	members, err = env.orgs.ListMembers(ctx, org)
	require.NoError(t, err)
	assert.Empty(t, members.Organizers)
}
