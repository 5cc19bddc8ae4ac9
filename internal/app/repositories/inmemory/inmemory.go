// Package inmemory implements the repository interfaces on maps. The constraints mirror
// migrations/001_init.sql so services behave the same against it as against Postgres.
package inmemory

import (
	"context"
	"slices"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/formco/backend/internal/app/models"
	"github.com/formco/backend/internal/app/models/dto"
	"github.com/formco/backend/internal/app/repositories"
	"github.com/formco/backend/internal/domain"
	"github.com/formco/backend/internal/pkg/apperrors"
	"github.com/formco/backend/internal/pkg/helpers"
	"github.com/google/uuid"
)

var (
	_ repositories.IUserRepository         = (*UserRepository)(nil)
	_ repositories.IOrganizationRepository = (*OrganizationRepository)(nil)
	_ repositories.ICompetitionRepository  = (*CompetitionRepository)(nil)
	_ repositories.IApplicationRepository  = (*ApplicationRepository)(nil)
)

// Store holds every table. Its repositories share one lock.
type Store struct {
	mu           sync.Mutex
	users        map[string]*models.User
	memberships  []models.OrganizationMember
	competitions map[string]*domain.Competition
	applications map[string]*domain.Application
	now          func() time.Time
}

// NewStore creates an empty store
func NewStore() *Store {
	return &Store{
		users:        map[string]*models.User{},
		competitions: map[string]*domain.Competition{},
		applications: map[string]*domain.Application{},
		now:          time.Now,
	}
}

// Users returns the account repository
func (s *Store) Users() *UserRepository { return &UserRepository{s} }

// Organizations returns the membership repository
func (s *Store) Organizations() *OrganizationRepository { return &OrganizationRepository{s} }

// Competitions returns the competition repository
func (s *Store) Competitions() *CompetitionRepository { return &CompetitionRepository{s} }

// Applications returns the application repository
func (s *Store) Applications() *ApplicationRepository { return &ApplicationRepository{s} }

// UserRepository is the in-memory IUserRepository
type UserRepository struct{ s *Store }

func (r *UserRepository) Create(_ context.Context, user *models.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, u := range r.s.users {
		if u.Email == user.Email {
			return apperrors.ErrEmailAlreadyExists
		}
	}
	if user.ID == "" {
		user.ID = uuid.New().String()
	}
	user.CreatedAt, user.UpdatedAt = r.s.now(), r.s.now()
	cp := *user
	r.s.users[user.ID] = &cp
	return nil
}

func (r *UserRepository) GetByID(_ context.Context, id string) (*models.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	u, ok := r.s.users[id]
	if !ok {
		return nil, apperrors.ErrUserNotFound
	}
	cp := *u
	return &cp, nil
}

func (r *UserRepository) GetByEmail(_ context.Context, email string) (*models.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, u := range r.s.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, apperrors.ErrUserNotFound
}

// OrganizationRepository is the in-memory IOrganizationRepository
type OrganizationRepository struct{ s *Store }

func (r *OrganizationRepository) AddMember(_ context.Context, organizationID, organizerID string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, m := range r.s.memberships {
		if m.OrganizationID == organizationID && m.OrganizerID == organizerID {
			return nil
		}
	}
	r.s.memberships = append(r.s.memberships, models.OrganizationMember{
		OrganizationID: organizationID,
		OrganizerID:    organizerID,
		JoinedAt:       r.s.now(),
	})
	return nil
}

func (r *OrganizationRepository) RemoveMember(_ context.Context, organizationID, organizerID string) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for i, m := range r.s.memberships {
		if m.OrganizationID == organizationID && m.OrganizerID == organizerID {
			r.s.memberships = slices.Delete(r.s.memberships, i, i+1)
			return true, nil
		}
	}
	return false, nil
}

func (r *OrganizationRepository) ListOrganizationIDs(_ context.Context, organizerID string) ([]string, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	ids := []string{}
	for _, m := range r.s.memberships {
		if m.OrganizerID == organizerID {
			ids = append(ids, m.OrganizationID)
		}
	}
	return ids, nil
}

func (r *OrganizationRepository) ListOrganizations(_ context.Context, organizerID string) ([]*models.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return r.s.membershipUsers(func(m models.OrganizationMember) (string, bool) {
		return m.OrganizationID, m.OrganizerID == organizerID
	}), nil
}

func (r *OrganizationRepository) ListMembers(_ context.Context, organizationID string) ([]*models.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return r.s.membershipUsers(func(m models.OrganizationMember) (string, bool) {
		return m.OrganizerID, m.OrganizationID == organizationID
	}), nil
}

func (s *Store) membershipUsers(pick func(models.OrganizationMember) (string, bool)) []*models.User {
	users := []*models.User{}
	for _, m := range s.memberships {
		if id, ok := pick(m); ok {
			if u, found := s.users[id]; found {
				cp := *u
				users = append(users, &cp)
			}
		}
	}
	sort.Slice(users, func(i, j int) bool { return users[i].Name < users[j].Name })
	return users
}

// CompetitionRepository is the in-memory ICompetitionRepository
type CompetitionRepository struct{ s *Store }

func (r *CompetitionRepository) Create(_ context.Context, c *domain.Competition) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, existing := range r.s.competitions {
		if existing.OrganizationID == c.OrganizationID && existing.Title == c.Title {
			return apperrors.ErrDuplicateTitle
		}
	}
	if c.ID == "" {
		c.ID = uuid.New().String()
	}
	c.CreatedAt, c.UpdatedAt = r.s.now(), r.s.now()
	cp := *c
	r.s.competitions[c.ID] = &cp
	return nil
}

func (r *CompetitionRepository) GetByID(_ context.Context, id string) (*domain.Competition, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	c, ok := r.s.competitions[id]
	if !ok {
		return nil, apperrors.ErrCompetitionNotFound
	}
	cp := *c
	return &cp, nil
}

func (r *CompetitionRepository) List(_ context.Context, filter dto.CompetitionFilterRequest, now time.Time) ([]*domain.Competition, int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	matched := []*domain.Competition{}
	search := strings.ToLower(strings.TrimSpace(filter.Search))
	for _, c := range r.s.competitions {
		if filter.OrganizationID != "" && c.OrganizationID != filter.OrganizationID {
			continue
		}
		if filter.Category != "" && c.Category != filter.Category {
			continue
		}
		if search != "" && !strings.Contains(strings.ToLower(c.Title), search) {
			continue
		}
		if filter.Status != "" && domain.StatusOf(now, c) != filter.Status {
			continue
		}
		cp := *c
		matched = append(matched, &cp)
	}
	sort.Slice(matched, func(i, j int) bool {
		if !matched[i].DeadlineToApply.Equal(matched[j].DeadlineToApply) {
			return matched[i].DeadlineToApply.Before(matched[j].DeadlineToApply)
		}
		return matched[i].ID < matched[j].ID
	})

	offset, limit := helpers.CalculateOffsetLimit(filter.Page, filter.PageSize)
	return page(matched, int(offset), limit), int64(len(matched)), nil
}

func (r *CompetitionRepository) DeleteWithApplications(_ context.Context, id string) ([]string, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.competitions[id]; !ok {
		return nil, apperrors.ErrCompetitionNotFound
	}
	delete(r.s.competitions, id)

	var receipts []string
	for appID, app := range r.s.applications {
		if app.CompetitionID == id {
			if app.ReceiptImage != "" {
				receipts = append(receipts, app.ReceiptImage)
			}
			delete(r.s.applications, appID)
		}
	}
	sort.Strings(receipts)
	return receipts, nil
}

// ApplicationRepository is the in-memory IApplicationRepository
type ApplicationRepository struct{ s *Store }

func (r *ApplicationRepository) Create(_ context.Context, app *domain.Application) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.competitions[app.CompetitionID]; !ok {
		return apperrors.ErrCompetitionNotFound
	}
	for _, existing := range r.s.applications {
		if existing.CompetitionID == app.CompetitionID && existing.StudentID == app.StudentID {
			return apperrors.ErrAlreadyApplied
		}
	}
	if app.ID == "" {
		app.ID = uuid.New().String()
	}
	if app.Accepted == "" {
		app.Accepted = domain.AcceptancePending
	}
	app.CreatedAt, app.UpdatedAt = r.s.now(), r.s.now()
	r.s.applications[app.ID] = cloneApplication(app)
	return nil
}

func (r *ApplicationRepository) GetByID(_ context.Context, id string) (*domain.Application, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	app, ok := r.s.applications[id]
	if !ok {
		return nil, apperrors.ErrApplicationNotFound
	}
	return cloneApplication(app), nil
}

func (r *ApplicationRepository) FindByCompetitionAndStudent(_ context.Context, competitionID, studentID string) (string, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, app := range r.s.applications {
		if app.CompetitionID == competitionID && app.StudentID == studentID {
			return app.ID, nil
		}
	}
	return "", nil
}

func (r *ApplicationRepository) ListByCompetition(_ context.Context, competitionID string, pageNum, pageSize int) ([]*domain.Application, int64, error) {
	apps := r.filter(func(a *domain.Application) bool { return a.CompetitionID == competitionID }, true)
	offset, limit := helpers.CalculateOffsetLimit(pageNum, pageSize)
	return page(apps, int(offset), limit), int64(len(apps)), nil
}

func (r *ApplicationRepository) ListByStudent(_ context.Context, studentID string) ([]*domain.Application, error) {
	return r.filter(func(a *domain.Application) bool { return a.StudentID == studentID }, false), nil
}

func (r *ApplicationRepository) UpdateAxis(_ context.Context, id string, change domain.FieldChange) (*domain.Application, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	app, ok := r.s.applications[id]
	if !ok {
		return nil, apperrors.ErrApplicationNotFound
	}
	change.Apply(app)
	app.UpdatedAt = r.s.now()
	return cloneApplication(app), nil
}

func (r *ApplicationRepository) filter(keep func(*domain.Application) bool, oldestFirst bool) []*domain.Application {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	apps := []*domain.Application{}
	for _, app := range r.s.applications {
		if keep(app) {
			apps = append(apps, cloneApplication(app))
		}
	}
	sort.Slice(apps, func(i, j int) bool {
		if apps[i].CreatedAt.Equal(apps[j].CreatedAt) {
			return apps[i].ID < apps[j].ID
		}
		if oldestFirst {
			return apps[i].CreatedAt.Before(apps[j].CreatedAt)
		}
		return apps[i].CreatedAt.After(apps[j].CreatedAt)
	})
	return apps
}

func cloneApplication(app *domain.Application) *domain.Application {
	cp := *app
	cp.TeamMembers = slices.Clone(app.TeamMembers)
	return &cp
}

func page[T any](items []T, offset, limit int) []T {
	if offset >= len(items) {
		return []T{}
	}
	end := min(offset+limit, len(items))
	return items[offset:end]
}

// SetClock overrides the timestamp source used for created/updated times
func (s *Store) SetClock(now func() time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.now = now
}
