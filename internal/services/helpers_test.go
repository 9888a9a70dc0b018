package services_test

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"ambassador_backend/internal/email"
	"ambassador_backend/internal/models"
	"ambassador_backend/internal/repositories"
	"ambassador_backend/internal/services"
	"ambassador_backend/internal/testutil"
	"ambassador_backend/internal/validator"
)

type queuedMail struct {
	kind string
	msg  *email.Email
}

// recordingQueue запоминает письма вместо отправки
type recordingQueue struct {
	mu   sync.Mutex
	sent []queuedMail
}

func (q *recordingQueue) Enqueue(kind string, msg *email.Email) bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.sent = append(q.sent, queuedMail{kind: kind, msg: msg})
	return true
}

func (q *recordingQueue) byKind(kind string) []*email.Email {
	q.mu.Lock()
	defer q.mu.Unlock()
	var out []*email.Email
	for _, m := range q.sent {
		if m.kind == kind {
			out = append(out, m.msg)
		}
	}
	return out
}

// testClock - управляемое время для проверки срока кода
type testClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *testClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *testClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

type appFixture struct {
	db      *gorm.DB
	service services.ApplicationService
	mail    *recordingQueue
	clock   *testClock
}

func newAppFixture(t *testing.T, cfg services.ApplicationServiceConfig) *appFixture {
	t.Helper()
	db := testutil.NewTestDB(t)

	templates, err := email.NewDefaultTemplateManager()
	require.NoError(t, err)

	clock := &testClock{now: time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)}
	if cfg.VerifyURL == "" {
		cfg.VerifyURL = "https://api.example.edu/api/v1/applications/verify"
	}
	cfg.Now = clock.Now

	mail := &recordingQueue{}
	svc := services.NewApplicationService(
		repositories.NewApplicationRepository(),
		repositories.NewCampaignRepository(),
		services.NewTokenService(),
		services.NewSanitizer(),
		validator.New(),
		email.NewComposer(templates, "Test Program"),
		mail,
		cfg,
	)
	return &appFixture{db: db, service: svc, mail: mail, clock: clock}
}

func openConfig() services.ApplicationServiceConfig {
	return services.ApplicationServiceConfig{RegistrationOpen: true}
}

func (f *appFixture) stored(t *testing.T, emailAddr string) *models.Application {
	t.Helper()
	var a models.Application
	require.NoError(t, f.db.Where("email = ?", emailAddr).First(&a).Error)
	return &a
}
