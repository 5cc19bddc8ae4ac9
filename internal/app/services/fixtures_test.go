package services

import (
	"bytes"
	"context"
	"mime/multipart"
	"net/textproto"
	"sync"
	"testing"
	"time"

	"github.com/formco/backend/internal/app/models"
	"github.com/formco/backend/internal/app/models/dto"
	"github.com/formco/backend/internal/app/repositories/inmemory"
	"github.com/formco/backend/internal/domain"
	"github.com/formco/backend/internal/pkg/auth"
	"github.com/formco/backend/internal/pkg/email"
	"github.com/formco/backend/internal/pkg/filestorage"
	"github.com/formco/backend/internal/pkg/qrcode"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

var fixedNow = time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

type fakeMailer struct {
	mu            sync.Mutex
	confirmations []email.ApplicationConfirmation
	decisions     []email.ApplicationDecision
}

func (m *fakeMailer) SendApplicationConfirmation(msg email.ApplicationConfirmation) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.confirmations = append(m.confirmations, msg)
	return nil
}

func (m *fakeMailer) SendApplicationDecision(msg email.ApplicationDecision) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.decisions = append(m.decisions, msg)
	return nil
}

type testEnv struct {
	store        *inmemory.Store
	storage      *filestorage.LocalStorage
	mailer       *fakeMailer
	now          time.Time
	auth         *AuthService
	orgs         *OrganizationService
	competitions *CompetitionService
	applications *ApplicationService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	storage, err := filestorage.NewLocalStorage(t.TempDir(), "http://localhost/uploads", zerolog.Nop())
	require.NoError(t, err)

	env := &testEnv{
		store:   inmemory.NewStore(),
		storage: storage,
		mailer:  &fakeMailer{},
		now:     fixedNow,
	}
	env.store.SetClock(func() time.Time { return env.now })
	clock := func() time.Time { return env.now }

	jwtService := auth.NewJWTService(auth.JWTConfig{SecretKey: "test-secret", AccessTokenExp: time.Hour, TokenIssuer: "formco-test"})
	env.auth = NewAuthService(env.store.Users(), jwtService, auth.NewPasswordHasher(bcrypt.MinCost), zerolog.Nop())
	env.orgs = NewOrganizationService(env.store.Users(), env.store.Organizations(), zerolog.Nop())
	env.competitions = NewCompetitionService(env.store.Competitions(), env.store.Applications(), storage, clock, zerolog.Nop())
	env.applications = NewApplicationService(
		env.store.Users(), env.store.Competitions(), env.store.Applications(),
		storage, env.mailer, qrcode.NewGenerator(nil), clock, zerolog.Nop(),
	)
	return env
}

func (e *testEnv) user(t *testing.T, role domain.RoleType, name string) *models.User {
	t.Helper()
	u := &models.User{Email: name + "@formco.test", Name: name, RoleType: role, Password: "x"}
	require.NoError(t, e.store.Users().Create(context.Background(), u))
	return u
}

func (e *testEnv) organization(t *testing.T) domain.Organization {
	return domain.Organization{ID: e.user(t, domain.RoleOrganization, "club").ID}
}

func (e *testEnv) student(t *testing.T, name string) domain.Student {
	return domain.Student{ID: e.user(t, domain.RoleStudent, name).ID}
}

func validCompetitionRequest(now time.Time) *dto.CreateCompetitionRequest {
	return &dto.CreateCompetitionRequest{
		Title:                     "Code Sprint",
		Description:               "48 hours of building",
		Instructions:              "Bring a laptop",
		Category:                  "Hackathon",
		Mode:                      "online",
		RequiredApplicationFields: []string{"institute"},
		SkillsRequired:            "go, sql",
		DeadlineToApply:           now.Add(24 * time.Hour).Format(time.RFC3339),
		StartDate:                 now.Add(48 * time.Hour).Format(time.RFC3339),
		EndDate:                   now.Add(72 * time.Hour).Format(time.RFC3339),
	}
}

// competition creates a competition owned by org, letting mutate adjust the request first
func (e *testEnv) competition(t *testing.T, org domain.Organization, mutate func(*dto.CreateCompetitionRequest)) *dto.CompetitionResponse {
	t.Helper()
	req := validCompetitionRequest(e.now)
	if mutate != nil {
		mutate(req)
	}
	resp, err := e.competitions.Create(context.Background(), org, req)
	require.NoError(t, err)
	return resp
}

func individualRequest(name string) *dto.SubmitApplicationRequest {
	return &dto.SubmitApplicationRequest{
		TeamMember: domain.TeamMember{Name: name, Email: name + "@uni.test", Institute: "City College"},
	}
}

func receiptHeader(t *testing.T, filename string, content []byte) *multipart.FileHeader {
	t.Helper()

	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", `form-data; name="receipt"; filename="`+filename+`"`)
	h.Set("Content-Type", "image/png")
	part, err := w.CreatePart(h)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, w.Close())

	form, err := multipart.NewReader(&body, w.Boundary()).ReadForm(1 << 20)
	require.NoError(t, err)
	t.Cleanup(func() { _ = form.RemoveAll() })
	return form.File["receipt"][0]
}
