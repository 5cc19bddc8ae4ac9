package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCanManageCompetition(t *testing.T) {
	comp := &Competition{ID: "c1", OrganizationID: "org-1"}

	assert.True(t, CanManageCompetition(Organization{ID: "org-1"}, comp))
	assert.False(t, CanManageCompetition(Organization{ID: "org-2"}, comp))
	assert.True(t, CanManageCompetition(Organizer{ID: "u1", OrganizationIDs: []string{"org-3", "org-1"}}, comp))
	assert.False(t, CanManageCompetition(Organizer{ID: "u1", OrganizationIDs: []string{"org-3"}}, comp))
	assert.False(t, CanManageCompetition(Student{ID: "org-1"}, comp))
	assert.False(t, CanManageCompetition(Organization{ID: "org-1"}, nil))
}

func TestCanViewApplication(t *testing.T) {
	comp := &Competition{ID: "c1", OrganizationID: "org-1"}
	app := &Application{ID: "a1", CompetitionID: "c1", StudentID: "s1"}

	assert.True(t, CanViewApplication(Student{ID: "s1"}, comp, app))
	assert.False(t, CanViewApplication(Student{ID: "s2"}, comp, app))
	assert.True(t, CanViewApplication(Organizer{ID: "u1", OrganizationIDs: []string{"org-1"}}, comp, app))
	assert.False(t, CanViewApplication(Organization{ID: "org-9"}, comp, app))
}

func TestActorRoles(t *testing.T) {
	assert.Equal(t, RoleStudent, Student{}.Role())
	assert.Equal(t, RoleOrganizer, Organizer{}.Role())
	assert.Equal(t, RoleOrganization, Organization{}.Role())
}
