package services_test

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ambassador_backend/internal/models"
	"ambassador_backend/internal/services"
	"ambassador_backend/internal/services/dto"
	"ambassador_backend/internal/validator"
	"ambassador_backend/internal/workers"
	"ambassador_backend/pkg/apperrors"
)

func adaRequest() *dto.SubmitApplicationRequest {
	return &dto.SubmitApplicationRequest{
		Name:       "Ada Lovelace",
		Email:      "ada@example.edu",
		University: "Analytic U",
	}
}

func TestApplicationService_AdaLovelaceLifecycle(t *testing.T) {
	f := newAppFixture(t, openConfig())
	ctx := context.Background()

	resp, err := f.service.Submit(ctx, f.db, adaRequest())
	require.NoError(t, err)
	assert.Equal(t, models.ApplicationStatusPending, resp.Status)
	assert.False(t, resp.Verified)

	stored := f.stored(t, "ada@example.edu")
	assert.Len(t, stored.VerificationToken, 32)

	_, err = f.service.Submit(ctx, f.db, adaRequest())
	assert.ErrorIs(t, err, apperrors.ErrDuplicateEmail)

	require.NoError(t, f.service.Verify(ctx, f.db, "ada@example.edu", stored.VerificationToken))
	verified := f.stored(t, "ada@example.edu")
	assert.Equal(t, models.ApplicationStatusVerified, verified.Status)
	assert.True(t, verified.Verified)
	assert.NotNil(t, verified.VerifiedAt)
	assert.Equal(t, stored.VerificationToken, verified.VerificationToken)

	err = f.service.Verify(ctx, f.db, "ada@example.edu", stored.VerificationToken)
	assert.ErrorIs(t, err, apperrors.ErrAlreadyVerified)

	approved, err := f.service.SetStatus(ctx, f.db, resp.ID, "approved")
	require.NoError(t, err)
	assert.Equal(t, models.ApplicationStatusApproved, approved.Status)

	require.NoError(t, f.service.Delete(ctx, f.db, resp.ID))
	_, err = f.service.Get(ctx, f.db, resp.ID)
	assert.ErrorIs(t, err, apperrors.ErrApplicationNotFound)
}

func TestApplicationService_SubmitValidationOrder(t *testing.T) {
	f := newAppFixture(t, openConfig())
	ctx := context.Background()

	cases := []struct {
		name string
		req  dto.SubmitApplicationRequest
		want *apperrors.AppError
	}{
		{"all invalid reports name first", dto.SubmitApplicationRequest{Name: "  ", Email: "nope", University: ""}, apperrors.ErrInvalidName},
		{"bad email before university", dto.SubmitApplicationRequest{Name: "Ada", Email: "nope", University: ""}, apperrors.ErrInvalidEmail},
		{"missing university", dto.SubmitApplicationRequest{Name: "Ada", Email: "ada@example.edu", University: " \t"}, apperrors.ErrInvalidUniversity},
		{"tags only name", dto.SubmitApplicationRequest{Name: "<b></b>", Email: "ada@example.edu", University: "U"}, apperrors.ErrInvalidName},
		{"unknown year", dto.SubmitApplicationRequest{Name: "Ada", Email: "ada@example.edu", University: "U", Year: "fifth"}, apperrors.ErrInvalidYear},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := tc.req
			_, err := f.service.Submit(ctx, f.db, &req)
			assert.ErrorIs(t, err, tc.want)
		})
	}

	var count int64
	f.db.Model(&models.Application{}).Count(&count)
	assert.Zero(t, count)
	assert.Empty(t, f.mail.byKind(workers.MailKindVerification))
}

func TestApplicationService_SubmitNormalizesAndSanitizes(t *testing.T) {
	f := newAppFixture(t, openConfig())

	resp, err := f.service.Submit(context.Background(), f.db, &dto.SubmitApplicationRequest{
		Name:       "  <b>Ada</b>   Lovelace ",
		Email:      "  Ada@Example.EDU ",
		University: "Analytic\tU",
		Major:      "Maths & Engines",
		Year:       "Senior",
		Motivation: "Line one\r\n<script>x</script>Line two  ",
	})
	require.NoError(t, err)

	assert.Equal(t, "Ada Lovelace", resp.Name)
	assert.Equal(t, "ada@example.edu", resp.Email)
	assert.Equal(t, "Analytic U", resp.University)
	assert.Equal(t, "Maths & Engines", resp.Major)
	assert.Equal(t, models.AcademicYear("senior"), resp.Year)
	assert.NotContains(t, resp.Motivation, "<script>")
	assert.True(t, strings.HasPrefix(resp.Motivation, "Line one\n"))

	_, err = f.service.Submit(context.Background(), f.db, &dto.SubmitApplicationRequest{
		Name: "Ada", Email: "ADA@example.edu", University: "U",
	})
	assert.ErrorIs(t, err, apperrors.ErrDuplicateEmail)
}

func TestApplicationService_SubmitStoresNoEncodedMarkup(t *testing.T) {
	f := newAppFixture(t, openConfig())

	_, err := f.service.Submit(context.Background(), f.db, &dto.SubmitApplicationRequest{
		Name:       "Ada &lt;script&gt;alert(1)&lt;/script&gt;Lovelace",
		Email:      "ada@example.edu",
		University: "&lt;b&gt;Analytic U&lt;/b&gt;",
		Motivation: "&lt;img src=x onerror=alert(1)&gt;I like engines",
	})
	require.NoError(t, err)

	stored := f.stored(t, "ada@example.edu")
	assert.Equal(t, "Ada Lovelace", stored.Name)
	assert.Equal(t, "Analytic U", stored.University)
	assert.Equal(t, "I like engines", stored.Motivation)
	for _, v := range []string{stored.Name, stored.University, stored.Motivation} {
		assert.NotContains(t, v, "<")
		assert.NotContains(t, v, ">")
	}

	_, err = f.service.Submit(context.Background(), f.db, &dto.SubmitApplicationRequest{
		Name:       "&lt;script&gt;alert(1)&lt;/script&gt;",
		Email:      "grace@example.edu",
		University: "U",
	})
	assert.ErrorIs(t, err, apperrors.ErrInvalidName)
}

func TestApplicationService_SubmitDuplicateReportedBeforeYear(t *testing.T) {
	f := newAppFixture(t, openConfig())
	ctx := context.Background()

	_, err := f.service.Submit(ctx, f.db, adaRequest())
	require.NoError(t, err)

	req := adaRequest()
	req.Year = "fifth"
	_, err = f.service.Submit(ctx, f.db, req)
	assert.ErrorIs(t, err, apperrors.ErrDuplicateEmail)
}

func TestApplicationService_SubmitEnqueuesVerificationMail(t *testing.T) {
	f := newAppFixture(t, configWithAdminNotice())
	ctx := context.Background()

	_, err := f.service.Submit(ctx, f.db, adaRequest())
	require.NoError(t, err)

	stored := f.stored(t, "ada@example.edu")
	verification := f.mail.byKind(workers.MailKindVerification)
	require.Len(t, verification, 1)
	assert.Equal(t, []string{"ada@example.edu"}, verification[0].To)
	assert.Contains(t, verification[0].Body, "code="+stored.VerificationToken)
	assert.Contains(t, verification[0].Body, "email=ada%40example.edu")

	notices := f.mail.byKind(workers.MailKindAdminNotice)
	require.Len(t, notices, 1)
	assert.Equal(t, []string{"admin@example.edu"}, notices[0].To)
	assert.Contains(t, notices[0].Subject, "Ada Lovelace")
}

func configWithAdminNotice() services.ApplicationServiceConfig {
	cfg := openConfig()
	cfg.AdminEmail = "admin@example.edu"
	cfg.NotifyAdmin = true
	return cfg
}

func TestApplicationService_RegistrationClosed(t *testing.T) {
	f := newAppFixture(t, services.ApplicationServiceConfig{RegistrationOpen: false})

	_, err := f.service.Submit(context.Background(), f.db, adaRequest())
	assert.ErrorIs(t, err, apperrors.ErrRegistrationClosed)
}

func TestApplicationService_SubmitUnknownCampaign(t *testing.T) {
	f := newAppFixture(t, openConfig())
	req := adaRequest()
	missing := uint(999)
	req.CampaignID = &missing

	_, err := f.service.Submit(context.Background(), f.db, req)
	assert.ErrorIs(t, err, apperrors.ErrCampaignNotFound)
}

func TestApplicationService_ConcurrentSubmitsKeepOneRecord(t *testing.T) {
	f := newAppFixture(t, openConfig())

	const n = 6
	var wg sync.WaitGroup
	errs := make([]error, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = f.service.Submit(context.Background(), f.db, adaRequest())
		}(i)
	}
	wg.Wait()

	succeeded := 0
	for _, err := range errs {
		if err == nil {
			succeeded++
			continue
		}
		assert.ErrorIs(t, err, apperrors.ErrDuplicateEmail)
	}
	assert.Equal(t, 1, succeeded)

	var count int64
	f.db.Model(&models.Application{}).Count(&count)
	assert.Equal(t, int64(1), count)
}

func TestApplicationService_VerifyFailures(t *testing.T) {
	f := newAppFixture(t, openConfig())
	ctx := context.Background()

	_, err := f.service.Submit(ctx, f.db, adaRequest())
	require.NoError(t, err)

	assert.ErrorIs(t, f.service.Verify(ctx, f.db, "ada@example.edu", "wrong-token"), apperrors.ErrVerificationNotFound)
	assert.ErrorIs(t, f.service.Verify(ctx, f.db, "nobody@example.edu", "x"), apperrors.ErrVerificationNotFound)
	assert.ErrorIs(t, f.service.Verify(ctx, f.db, "ada@example.edu", ""), apperrors.ErrVerificationNotFound)

	stored := f.stored(t, "ada@example.edu")
	assert.False(t, stored.Verified)
	assert.Equal(t, models.ApplicationStatusPending, stored.Status)

	// регистр адреса в ссылке не важен
	require.NoError(t, f.service.Verify(ctx, f.db, "ADA@example.edu", stored.VerificationToken))
}

func TestApplicationService_VerifyExpiredTokenAndResend(t *testing.T) {
	cfg := openConfig()
	cfg.TokenTTL = 24 * time.Hour
	f := newAppFixture(t, cfg)
	ctx := context.Background()

	_, err := f.service.Submit(ctx, f.db, adaRequest())
	require.NoError(t, err)
	oldToken := f.stored(t, "ada@example.edu").VerificationToken

	f.clock.Advance(25 * time.Hour)
	assert.ErrorIs(t, f.service.Verify(ctx, f.db, "ada@example.edu", oldToken), apperrors.ErrTokenExpired)

	require.NoError(t, f.service.ResendVerification(ctx, f.db, "ada@example.edu"))
	newToken := f.stored(t, "ada@example.edu").VerificationToken
	assert.NotEqual(t, oldToken, newToken)
	assert.Len(t, f.mail.byKind(workers.MailKindVerification), 2)

	assert.ErrorIs(t, f.service.Verify(ctx, f.db, "ada@example.edu", oldToken), apperrors.ErrVerificationNotFound)
	require.NoError(t, f.service.Verify(ctx, f.db, "ada@example.edu", newToken))

	assert.ErrorIs(t, f.service.ResendVerification(ctx, f.db, "ada@example.edu"), apperrors.ErrAlreadyVerified)
	assert.ErrorIs(t, f.service.ResendVerification(ctx, f.db, "ghost@example.edu"), apperrors.ErrApplicationNotFound)
}

func TestApplicationService_ResendKeepsLiveToken(t *testing.T) {
	f := newAppFixture(t, openConfig())
	ctx := context.Background()

	_, err := f.service.Submit(ctx, f.db, adaRequest())
	require.NoError(t, err)
	token := f.stored(t, "ada@example.edu").VerificationToken

	require.NoError(t, f.service.ResendVerification(ctx, f.db, "ada@example.edu"))
	assert.Equal(t, token, f.stored(t, "ada@example.edu").VerificationToken)

	mails := f.mail.byKind(workers.MailKindVerification)
	require.Len(t, mails, 2)
	assert.Contains(t, mails[1].Body, "code="+token)
}

func TestApplicationService_SetStatus(t *testing.T) {
	f := newAppFixture(t, openConfig())
	ctx := context.Background()

	resp, err := f.service.Submit(ctx, f.db, adaRequest())
	require.NoError(t, err)

	_, err = f.service.SetStatus(ctx, f.db, resp.ID, "archived")
	assert.ErrorIs(t, err, apperrors.ErrInvalidApplicationStatus)
	assert.Equal(t, models.ApplicationStatusPending, f.stored(t, "ada@example.edu").Status)

	_, err = f.service.SetStatus(ctx, f.db, 9999, "approved")
	assert.ErrorIs(t, err, apperrors.ErrApplicationNotFound)

	// порядок переходов не проверяется: непроверенную заявку можно одобрить
	updated, err := f.service.SetStatus(ctx, f.db, resp.ID, "approved")
	require.NoError(t, err)
	assert.Equal(t, models.ApplicationStatusApproved, updated.Status)
	assert.False(t, updated.Verified)

	for _, st := range models.ApplicationStatuses {
		_, err := f.service.SetStatus(ctx, f.db, resp.ID, string(st))
		assert.NoError(t, err, st)
	}
}

func TestApplicationService_DeleteUnknown(t *testing.T) {
	f := newAppFixture(t, openConfig())
	assert.ErrorIs(t, f.service.Delete(context.Background(), f.db, 42), apperrors.ErrApplicationNotFound)
}

func seedApplications(t *testing.T, f *appFixture, n int) []uint {
	t.Helper()
	ids := make([]uint, 0, n)
	for i := 0; i < n; i++ {
		resp, err := f.service.Submit(context.Background(), f.db, &dto.SubmitApplicationRequest{
			Name:       fmt.Sprintf("Applicant %d", i),
			Email:      fmt.Sprintf("user%d@example.edu", i),
			University: "State U",
		})
		require.NoError(t, err)
		ids = append(ids, resp.ID)
		f.clock.Advance(time.Minute)
	}
	return ids
}

func TestApplicationService_ListFilterAndCounts(t *testing.T) {
	f := newAppFixture(t, openConfig())
	ctx := context.Background()
	ids := seedApplications(t, f, 5)

	_, err := f.service.SetStatus(ctx, f.db, ids[0], "approved")
	require.NoError(t, err)
	_, err = f.service.SetStatus(ctx, f.db, ids[1], "rejected")
	require.NoError(t, err)

	all, err := f.service.List(ctx, f.db, dto.ApplicationListFilter{})
	require.NoError(t, err)
	assert.Equal(t, int64(5), all.Total)
	require.Len(t, all.Items, 5)
	assert.Equal(t, ids[4], all.Items[0].ID, "newest first")

	pending, err := f.service.List(ctx, f.db, dto.ApplicationListFilter{Status: "pending"})
	require.NoError(t, err)
	assert.Equal(t, int64(3), pending.Total)
	for _, item := range pending.Items {
		assert.Equal(t, models.ApplicationStatusPending, item.Status)
	}

	page, err := f.service.List(ctx, f.db, dto.ApplicationListFilter{Page: 2, PageSize: 2})
	require.NoError(t, err)
	assert.Len(t, page.Items, 2)
	assert.Equal(t, 3, page.TotalPages)

	_, err = f.service.List(ctx, f.db, dto.ApplicationListFilter{Status: "bogus"})
	assert.ErrorIs(t, err, apperrors.ErrInvalidApplicationStatus)

	counts, err := f.service.CountByStatus(ctx, f.db, nil)
	require.NoError(t, err)
	assert.Equal(t, int64(5), counts.Total)
	assert.Equal(t, int64(3), counts.Counts[models.ApplicationStatusPending])
	assert.Equal(t, int64(1), counts.Counts[models.ApplicationStatusApproved])
	assert.Equal(t, int64(1), counts.Counts[models.ApplicationStatusRejected])
	assert.Equal(t, int64(0), counts.Counts[models.ApplicationStatusVerified])
}

func TestApplicationService_BulkAction(t *testing.T) {
	f := newAppFixture(t, openConfig())
	ctx := context.Background()
	ids := seedApplications(t, f, 3)

	resp, err := f.service.BulkAction(ctx, f.db, &dto.BulkActionRequest{
		Action: validator.BulkActionApprove,
		IDs:    []uint{ids[0], ids[1], 777},
	})
	require.NoError(t, err)
	assert.Equal(t, 2, resp.Processed)
	assert.Equal(t, 1, resp.Failed)
	assert.False(t, resp.Results[2].Success)
	assert.Equal(t, "NOT_FOUND", resp.Results[2].Error)

	resp, err = f.service.BulkAction(ctx, f.db, &dto.BulkActionRequest{
		Action: validator.BulkActionDelete,
		IDs:    []uint{ids[2]},
	})
	require.NoError(t, err)
	assert.Equal(t, 1, resp.Processed)

	counts, err := f.service.CountByStatus(ctx, f.db, nil)
	require.NoError(t, err)
	assert.Equal(t, int64(2), counts.Total)
	assert.Equal(t, int64(2), counts.Counts[models.ApplicationStatusApproved])
}

func TestApplicationService_ListAmbassadors(t *testing.T) {
	f := newAppFixture(t, openConfig())
	ctx := context.Background()

	resp, err := f.service.Submit(ctx, f.db, &dto.SubmitApplicationRequest{
		Name: "grace brewster hopper", Email: "grace@example.edu", University: "Yale", Year: "graduate",
	})
	require.NoError(t, err)
	seedApplications(t, f, 2)

	_, err = f.service.SetStatus(ctx, f.db, resp.ID, "approved")
	require.NoError(t, err)

	cards, err := f.service.ListAmbassadors(ctx, f.db, 0)
	require.NoError(t, err)
	require.Len(t, cards, 1)
	assert.Equal(t, "GB", cards[0].Initials)
	assert.Equal(t, "Graduate", cards[0].Year)
	assert.Equal(t, "Yale", cards[0].University)
}
