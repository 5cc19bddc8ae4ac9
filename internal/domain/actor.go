package domain

import "slices"

// Actor is the authenticated principal performing an operation.
// It is one of Student, Organizer or Organization.
type Actor interface {
	ActorID() string
	Role() RoleType
	isActor()
}

// Student is an applicant account
type Student struct {
	ID string
}

// Organizer is a staff account acting on behalf of the organizations it belongs to
type Organizer struct {
	ID              string
	OrganizationIDs []string
}

// Organization is the account that owns competitions
type Organization struct {
	ID string
}

func (s Student) ActorID() string      { return s.ID }
func (o Organizer) ActorID() string    { return o.ID }
func (o Organization) ActorID() string { return o.ID }

func (Student) Role() RoleType      { return RoleStudent }
func (Organizer) Role() RoleType    { return RoleOrganizer }
func (Organization) Role() RoleType { return RoleOrganization }

func (Student) isActor()      {}
func (Organizer) isActor()    {}
func (Organization) isActor() {}

// ActsFor reports whether actor may act on behalf of organizationID:
// the organization itself, or an organizer that belongs to it.
func ActsFor(actor Actor, organizationID string) bool {
	switch a := actor.(type) {
	case Organization:
		return a.ID == organizationID
	case Organizer:
		return slices.Contains(a.OrganizationIDs, organizationID)
	}
	return false
}

// CanManageCompetition reports whether actor may manage competition and its applications
func CanManageCompetition(actor Actor, competition *Competition) bool {
	if competition == nil {
		return false
	}
	return ActsFor(actor, competition.OrganizationID)
}

// CanViewApplication allows the applicant and the competition's managers
func CanViewApplication(actor Actor, competition *Competition, app *Application) bool {
	if s, ok := actor.(Student); ok {
		return app != nil && s.ID == app.StudentID
	}
	return CanManageCompetition(actor, competition)
}
