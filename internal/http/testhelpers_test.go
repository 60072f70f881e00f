package httpx

import (
	"context"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"net/url"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"golang.org/x/net/publicsuffix"

	"github.com/sman1jakarta/portal/internal/adapters/credentials"
	"github.com/sman1jakarta/portal/internal/adapters/memory"
	"github.com/sman1jakarta/portal/internal/media"
	"github.com/sman1jakarta/portal/internal/service"
)

const (
	testAdminEmail    = "admin@sman1jakarta.sch.id"
	testAdminPassword = "rahasia-admin"
)

// RequireTemplateRenderer creates a TemplateRenderer for tests, skipping the test if templates are not available.
func RequireTemplateRenderer(t *testing.T) *TemplateRenderer {
	t.Helper()
	tr, err := NewTemplateRenderer(TemplateRendererConfig{TemplateFS: os.DirFS(TemplatePathFromTest)})
	if err != nil {
		t.Skipf("Templates not available, skipping: %v", err)
		return nil
	}
	return tr
}

// portalFixture is the whole site wired to in-memory adapters.
type portalFixture struct {
	Server   *httptest.Server
	Sessions *memory.SessionStore
	Settings *service.SettingsStore
	Logout   *service.LogoutCoordinator
	News     *memory.NewsRepository
	Contacts *memory.ContactRepository
	Users    *memory.UserRepository
}

type fixtureOption func(*RouterServices)

func newPortalFixture(t *testing.T, opts ...fixtureOption) *portalFixture {
	t.Helper()
	if _, err := os.Stat(TemplatePathFromTest); os.IsNotExist(err) {
		t.Skip("Templates not available, skipping integration test")
	}

	sessions := memory.NewSessionStore()
	users := memory.NewUserRepository()
	news := memory.NewNewsRepository()
	gallery := memory.NewGalleryRepository()
	contacts := memory.NewContactRepository()
	activities := memory.NewActivityRepository()
	activity := service.NewActivityService(service.ActivityServiceOptions{Repo: activities})

	auth := service.NewAuthService(service.AuthServiceOptions{
		Sessions: sessions,
		Verifier: credentials.Chain{
			credentials.FixedVerifier{Email: testAdminEmail, Password: testAdminPassword},
			credentials.UserVerifier{Users: users},
		},
	})
	logout := service.NewLogoutCoordinator(service.LogoutCoordinatorOptions{
		Auth:   auth,
		Config: service.LogoutConfig{Countdown: 1, Interval: 10 * time.Millisecond},
	})
	t.Cleanup(logout.Shutdown)

	settingsStore := service.NewSettingsStore(service.SettingsStoreOptions{Repo: memory.NewSettingsRepository()})
	settingsStore.Load(context.Background())

	store, err := media.NewStore(media.StoreOptions{Root: t.TempDir()})
	require.NoError(t, err)

	svcs := RouterServices{
		Auth:     auth,
		Logout:   logout,
		Settings: settingsStore,
		News:     service.NewNewsService(service.NewsServiceOptions{Repo: news, Activity: activity}),
		Gallery:  service.NewGalleryService(service.GalleryServiceOptions{Repo: gallery, Activity: activity, Images: store}),
		Contacts: service.NewContactService(service.ContactServiceOptions{
			Repo: contacts, Activity: activity,
			Config: service.ContactConfig{AdminWhatsApp: "6281234567890", Settings: settingsStore},
		}),
		Users: service.NewUserService(service.UserServiceOptions{Repo: users, Activity: activity}),
		Dashboard: service.NewDashboardService(service.DashboardServiceOptions{Repos: service.DashboardRepos{
			News: news, Gallery: gallery, Contacts: contacts, Users: users, Activities: activities,
		}}),
		Export: service.NewExportService(service.ExportServiceOptions{
			Settings: settingsStore, News: news, Gallery: gallery, Contacts: contacts, Users: users,
		}),
		Media:           store,
		FlashSecret:     "test-flash-secret",
		LogoutCountdown: 1,
		TemplateFS:      os.DirFS(TemplatePathFromTest),
	}
	for _, o := range opts {
		o(&svcs)
	}
	handler, err := NewRouter(svcs)
	require.NoError(t, err)

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return &portalFixture{
		Server:   srv,
		Sessions: sessions,
		Settings: settingsStore,
		Logout:   logout,
		News:     news,
		Contacts: contacts,
		Users:    users,
	}
}

// browser is a cookie-keeping client that does not follow redirects.
type browser struct {
	t      *testing.T
	base   string
	client *http.Client
}

func (f *portalFixture) browser(t *testing.T) *browser {
	t.Helper()
	jar, err := cookiejar.New(&cookiejar.Options{PublicSuffixList: publicsuffix.List})
	require.NoError(t, err)
	return &browser{
		t:    t,
		base: f.Server.URL,
		client: &http.Client{
			Jar:     jar,
			Timeout: 5 * time.Second,
			CheckRedirect: func(*http.Request, []*http.Request) error {
				return http.ErrUseLastResponse
			},
		},
	}
}

func (b *browser) do(req *http.Request) (*http.Response, string) {
	b.t.Helper()
	if req.Header.Get("Accept") == "" {
		req.Header.Set("Accept", "text/html")
	}
	req.Header.Set("User-Agent", "Mozilla/5.0")
	resp, err := b.client.Do(req)
	require.NoError(b.t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(b.t, err)
	return resp, string(body)
}

func (b *browser) get(path string) (*http.Response, string) {
	b.t.Helper()
	req, err := http.NewRequestWithContext(context.Background(), http.MethodGet, b.base+path, nil)
	require.NoError(b.t, err)
	return b.do(req)
}

func (b *browser) cookie(name string) string {
	u, _ := url.Parse(b.base)
	for _, c := range b.client.Jar.Cookies(u) {
		if c.Name == name {
			return c.Value
		}
	}
	return ""
}

// postForm submits form with the CSRF token the site issued to this browser.
func (b *browser) postForm(path string, form url.Values) (*http.Response, string) {
	b.t.Helper()
	if b.cookie(DefaultCSRFCookieName) == "" {
		b.get("/")
	}
	if form == nil {
		form = url.Values{}
	}
	form.Set("csrf_token", b.cookie(DefaultCSRFCookieName))
	req, err := http.NewRequestWithContext(context.Background(), http.MethodPost, b.base+path, strings.NewReader(form.Encode()))
	require.NoError(b.t, err)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return b.do(req)
}

// login signs in as the configured administrator and follows the redirect.
func (b *browser) login() string {
	b.t.Helper()
	resp, _ := b.postForm(LoginPath, url.Values{"email": {testAdminEmail}, "password": {testAdminPassword}})
	require.Equal(b.t, http.StatusSeeOther, resp.StatusCode)
	return resp.Header.Get("Location")
}
