package httpx

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sman1jakarta/portal/internal/adapters/credentials"
	"github.com/sman1jakarta/portal/internal/core"
	domainauth "github.com/sman1jakarta/portal/internal/domain/auth"
	"github.com/sman1jakarta/portal/internal/domain/model"
	"github.com/sman1jakarta/portal/internal/domain/settings"
	"github.com/sman1jakarta/portal/internal/service"
)

func validContactForm() url.Values {
	return url.Values{
		"name":     {"Siti Rahmawati"},
		"phone":    {"081234567890"},
		"email":    {"siti@example.com"},
		"subject":  {"Pendaftaran siswa baru"},
		"message":  {"Kapan jadwal pendaftaran siswa baru dibuka?"},
		"category": {string(model.ContactCategories()[0])},
	}
}

func TestRouter_LoginShowsWelcomeOnce(t *testing.T) {
	fx := newPortalFixture(t)
	b := fx.browser(t)

	assert.Equal(t, DashboardPath, b.login())

	resp, body := b.get(DashboardPath)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, 1, strings.Count(body, "Selamat datang, Administrator!"))
	assert.Equal(t, 1, fx.Sessions.Len())

	resp, body = b.get(DashboardPath)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.NotContains(t, body, "Selamat datang, Administrator!")
}

func TestRouter_LoginRejectsBadPassword(t *testing.T) {
	fx := newPortalFixture(t)
	b := fx.browser(t)

	resp, _ := b.postForm(LoginPath, url.Values{"email": {testAdminEmail}, "password": {"salah-sandi"}})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Empty(t, b.cookie(SessionCookieName))
	assert.Zero(t, fx.Sessions.Len())
}

func TestRouter_LoginHonorsRedirect(t *testing.T) {
	fx := newPortalFixture(t)
	b := fx.browser(t)

	resp, _ := b.postForm(LoginPath, url.Values{
		"email": {testAdminEmail}, "password": {testAdminPassword}, "redirect_uri": {"/admin/news"},
	})
	require.Equal(t, http.StatusSeeOther, resp.StatusCode)
	assert.Equal(t, "/admin/news", resp.Header.Get("Location"))

	resp, _ = b.postForm(LoginPath, url.Values{
		"email": {testAdminEmail}, "password": {testAdminPassword}, "redirect_uri": {"//evil.example/x"},
	})
	require.Equal(t, http.StatusSeeOther, resp.StatusCode)
	assert.Equal(t, DashboardPath, resp.Header.Get("Location"))
}

func TestRouter_GuardRedirectsBrowsers(t *testing.T) {
	fx := newPortalFixture(t)
	b := fx.browser(t)

	resp, _ := b.get("/admin/news")
	require.Equal(t, http.StatusSeeOther, resp.StatusCode)
	assert.Equal(t, "/admin/login?redirect_uri=%2Fadmin%2Fnews", resp.Header.Get("Location"))
}

func TestRouter_GuardRejectsAPICallers(t *testing.T) {
	fx := newPortalFixture(t)
	b := fx.browser(t)

	req, err := http.NewRequestWithContext(context.Background(), http.MethodGet, fx.Server.URL+"/admin/api/export", nil)
	require.NoError(t, err)
	req.Header.Set("Accept", "application/json")
	resp, body := b.do(req)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Contains(t, body, "authentication_required")
}

func TestRouter_GuardDropsCorruptRecord(t *testing.T) {
	fx := newPortalFixture(t)
	b := fx.browser(t)
	b.login()

	id := b.cookie(SessionCookieName)
	require.NotEmpty(t, id)
	fx.Sessions.PutRaw(id, []byte("not json"))

	resp, _ := b.get(DashboardPath)
	require.Equal(t, http.StatusSeeOther, resp.StatusCode)
	assert.True(t, strings.HasPrefix(resp.Header.Get("Location"), LoginPath))
	assert.False(t, fx.Sessions.Has(id))
	assert.Empty(t, b.cookie(SessionCookieName))
}

func TestRouter_SettingsUpdateReachesPages(t *testing.T) {
	fx := newPortalFixture(t)
	b := fx.browser(t)
	assert.Zero(t, fx.Settings.Subscribers(), "router must not leave subscribers behind")

	name := "SMA Negeri 1 Jakarta Pusat"
	_, err := fx.Settings.Update(context.Background(), settings.Patch{SchoolName: &name})
	require.NoError(t, err)

	resp, body := b.get("/")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, name)

	resp, body = b.get("/api/settings")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var got settings.SchoolSettings
	require.NoError(t, json.Unmarshal([]byte(body), &got))
	assert.Equal(t, name, got.SchoolName)
}

func TestRouter_SettingsFormValidatesMergedProfile(t *testing.T) {
	fx := newPortalFixture(t)
	b := fx.browser(t)
	b.login()

	resp, _ := b.postForm("/admin/settings", url.Values{"schoolName": {"SMA"}})
	assert.NotEqual(t, http.StatusSeeOther, resp.StatusCode)
	assert.Equal(t, settings.Defaults(), fx.Settings.Current())

	resp, _ = b.postForm("/admin/settings", url.Values{"schoolMotto": {""}})
	assert.NotEqual(t, http.StatusSeeOther, resp.StatusCode)
	assert.Equal(t, settings.Defaults(), fx.Settings.Current())

	resp, _ = b.postForm("/admin/settings", url.Values{"schoolName": {"SMA Negeri 2 Jakarta"}})
	require.Equal(t, http.StatusSeeOther, resp.StatusCode)
	got := fx.Settings.Current()
	assert.Equal(t, "SMA Negeri 2 Jakarta", got.SchoolName)
	assert.Equal(t, settings.Defaults().SchoolMotto, got.SchoolMotto)
}

func TestRouter_LogoutCountdownFlow(t *testing.T) {
	fx := newPortalFixture(t)
	b := fx.browser(t)
	b.login()
	b.get(DashboardPath)

	resp, body := b.get("/admin/logout")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, "logout-dialog")

	req, err := http.NewRequestWithContext(context.Background(), http.MethodPost, fx.Server.URL+"/admin/logout/start", nil)
	require.NoError(t, err)
	req.Header.Set("Accept", "application/json")
	req.Header.Set(DefaultCSRFHeaderName, b.cookie(DefaultCSRFCookieName))
	resp, _ = b.do(req)
	require.Equal(t, http.StatusAccepted, resp.StatusCode)

	require.Eventually(t, func() bool {
		_, body := b.get("/admin/logout/status")
		var st service.LogoutStatus
		if err := json.Unmarshal([]byte(body), &st); err != nil {
			return false
		}
		return st.State == service.LogoutDone
	}, 2*time.Second, 20*time.Millisecond)

	resp, _ = b.postForm("/admin/logout/complete", nil)
	require.Equal(t, http.StatusSeeOther, resp.StatusCode)
	assert.Equal(t, LoginPath, resp.Header.Get("Location"))
	assert.Empty(t, b.cookie(SessionCookieName))

	resp, body = b.get(LoginPath)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, "Anda berhasil logout. Sampai jumpa lagi!")

	resp, _ = b.get(DashboardPath)
	assert.Equal(t, http.StatusSeeOther, resp.StatusCode)
	assert.Zero(t, fx.Sessions.Len())
}

func TestRouter_LogoutCancelKeepsSession(t *testing.T) {
	fx := newPortalFixture(t, func(s *RouterServices) {
		term, ok := s.Auth.(service.SessionTerminator)
		require.True(t, ok)
		slow := service.NewLogoutCoordinator(service.LogoutCoordinatorOptions{
			Auth:   term,
			Config: service.LogoutConfig{Countdown: 60, Interval: time.Hour},
		})
		t.Cleanup(slow.Shutdown)
		s.Logout = slow
	})
	b := fx.browser(t)
	b.login()

	resp, _ := b.postForm("/admin/logout/start", nil)
	require.Equal(t, http.StatusSeeOther, resp.StatusCode)

	resp, _ = b.postForm("/admin/logout/complete", nil)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)

	resp, _ = b.postForm("/admin/logout/cancel", nil)
	require.Equal(t, http.StatusSeeOther, resp.StatusCode)
	assert.Equal(t, DashboardPath, resp.Header.Get("Location"))

	resp, _ = b.get(DashboardPath)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestRouter_ExportRejectsBadQuery(t *testing.T) {
	fx := newPortalFixture(t)
	b := fx.browser(t)
	b.login()

	resp, _ := b.get("/admin/api/export?query=" + url.QueryEscape("news[?"))
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, body := b.get("/admin/api/export?query=" + url.QueryEscape("settings.schoolShortName"))
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, `"SMAN 1 Jakarta"`, strings.TrimSpace(body))
}

func TestRouter_ContactSubmit(t *testing.T) {
	fx := newPortalFixture(t)
	b := fx.browser(t)

	resp, body := b.postForm("/contact", validContactForm())
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, "Lanjutkan via WhatsApp")
	assert.Contains(t, body, "https://wa.me/6281234567890")

	counts, err := fx.Contacts.CountByStatus(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, counts[model.ContactStatusPending])
}

func TestRouter_ContactValidation(t *testing.T) {
	fx := newPortalFixture(t)
	b := fx.browser(t)

	form := validContactForm()
	form.Set("phone", "12345")
	resp, _ := b.postForm("/contact", form)
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)

	counts, err := fx.Contacts.CountByStatus(context.Background())
	require.NoError(t, err)
	assert.Zero(t, counts.Total())
}

func TestRouter_ContactRateLimited(t *testing.T) {
	fx := newPortalFixture(t, func(s *RouterServices) {
		s.Limiter = NewIPRateLimiter(RateLimitConfig{PerSecond: 0.001, Burst: 1})
	})
	b := fx.browser(t)

	resp, _ := b.postForm("/contact", validContactForm())
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp, _ = b.postForm("/contact", validContactForm())
	assert.Equal(t, http.StatusTooManyRequests, resp.StatusCode)
	assert.Equal(t, "60", resp.Header.Get("Retry-After"))
}

func TestRouter_CSRFRequired(t *testing.T) {
	fx := newPortalFixture(t)
	b := fx.browser(t)
	b.get("/")

	req, err := http.NewRequestWithContext(context.Background(), http.MethodPost, fx.Server.URL+"/contact",
		strings.NewReader(validContactForm().Encode()))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	resp, _ := b.do(req)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}

func TestRouter_NewsFeed(t *testing.T) {
	fx := newPortalFixture(t)
	b := fx.browser(t)
	ctx := context.Background()

	in := &model.NewsInput{
		Title:    "Juara Umum Lomba Debat Bahasa Inggris",
		Excerpt:  "Tim debat sekolah meraih juara umum tingkat provinsi tahun ini.",
		Content:  strings.Repeat("Tim debat berlatih setiap minggu bersama pembina. ", 3),
		Category: model.NewsCategoryPrestasi,
		Author:   "Humas Sekolah",
		Status:   model.NewsStatusPublished,
	}
	_, err := fx.News.Create(ctx, in)
	require.NoError(t, err)
	draft := *in
	draft.Title = "Rancangan Jadwal Ujian Akhir Semester"
	draft.Status = model.NewsStatusDraft
	_, err = fx.News.Create(ctx, &draft)
	require.NoError(t, err)

	resp, body := b.get("/news/feed.xml")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.True(t, strings.HasPrefix(resp.Header.Get("Content-Type"), "application/rss+xml"))
	assert.Contains(t, body, in.Title)
	assert.NotContains(t, body, draft.Title)
}

func TestRouter_NotFound(t *testing.T) {
	fx := newPortalFixture(t)
	b := fx.browser(t)

	resp, body := b.get("/tidak-ada")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.True(t, strings.HasPrefix(resp.Header.Get("Content-Type"), "text/html"))
	assert.Contains(t, body, "404")

	resp, body = b.get("/api/tidak-ada")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.True(t, strings.HasPrefix(resp.Header.Get("Content-Type"), "application/json"))
	assert.Contains(t, body, "not_found")
}

func TestRouter_Healthz(t *testing.T) {
	fx := newPortalFixture(t)
	b := fx.browser(t)

	resp, _ := b.get("/healthz")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestRouter_SiteManagerOnly(t *testing.T) {
	fx := newPortalFixture(t)
	ctx := context.Background()

	hash, err := credentials.HashPassword("sandi-guru-123")
	require.NoError(t, err)
	_, err = fx.Users.Create(ctx, core.CreateUserParams{
		Input: model.UserInput{
			Name: "Dewi Lestari", Email: "dewi.lestari@sman1jakarta.sch.id",
			Role: domainauth.RoleGuru, Status: model.UserStatusActive,
		},
		PasswordHash: hash,
	})
	require.NoError(t, err)

	b := fx.browser(t)
	resp, _ := b.postForm(LoginPath, url.Values{
		"email": {"dewi.lestari@sman1jakarta.sch.id"}, "password": {"sandi-guru-123"},
	})
	require.Equal(t, http.StatusSeeOther, resp.StatusCode)

	resp, _ = b.get("/admin/news")
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, _ = b.get("/admin/settings")
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	resp, _ = b.get("/admin/users")
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}
