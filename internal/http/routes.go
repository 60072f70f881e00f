package httpx

import (
	"bytes"
	"errors"
	"io/fs"
	"log/slog"
	"net/http"
	"os"
	"regexp"
	"strings"
	"time"

	portal "github.com/sman1jakarta/portal"
	"github.com/sman1jakarta/portal/internal/core"
	"github.com/sman1jakarta/portal/internal/media"
	"github.com/sman1jakarta/portal/internal/service"
)

var errRouteNotFound = errors.New("route not found")

// DefaultBodyLimit caps request bodies when RouterServices.BodyLimit is unset.
const DefaultBodyLimit = 8 << 20

// RouterServices holds all the services needed by the HTTP router.
type RouterServices struct {
	Auth      AuthService     // Required
	Logout    LogoutService   // Required
	Settings  SettingsService // Required
	News      *service.NewsService
	Gallery   *service.GalleryService
	Contacts  *service.ContactService
	Users     *service.UserService
	Dashboard *service.DashboardService
	Export    ExportService
	Media     *media.Store

	// Optional: cached chrome, kept current by whoever subscribed it to the
	// settings store. When nil pages read Settings.Current directly and the
	// router registers no subscriber.
	Chrome *Chrome
	// Optional: contact form limiter. Defaults to NewIPRateLimiter's defaults.
	Limiter *IPRateLimiter
	// Optional: page view counter.
	Visits core.VisitCounter
	// Optional: readiness probes reported by /healthz.
	Health map[string]HealthCheck

	// Configuration
	CookieDomain     string
	FlashSecret      string
	BaseURL          string
	BodyLimit        int64
	CompressionLevel int // 0 disables gzip
	WelcomeAutoClose time.Duration
	LogoutCountdown  int
	IsDev            bool  // Development mode: templates and static files are read from disk.
	TemplateFS       fs.FS // Optional override, mainly for tests.
	Logger           *slog.Logger
}

// NewRouter creates and configures the HTTP handler for the whole site.
func NewRouter(services RouterServices) (http.Handler, error) {
	if services.Auth == nil || services.Logout == nil || services.Settings == nil {
		return nil, errors.New("router: Auth, Logout and Settings are required")
	}
	logger := services.Logger
	if logger == nil {
		logger = slog.Default()
	}

	h, err := setupUIHandlers(services, logger)
	if err != nil {
		return nil, err
	}

	mux := http.NewServeMux()
	mux.Handle("GET /static/", staticHandler(services.IsDev, logger))
	mux.Handle("GET /images/", imagesHandler(services.IsDev, logger))
	if services.Media != nil {
		mux.Handle("GET "+media.URLPrefix, services.Media.Handler())
	}
	mux.Handle("GET /healthz", healthHandler(services.Health, logger))

	admin := RequireAdmin(services.Auth, h.Cookies, logger)
	manager := func(next http.Handler) http.Handler {
		return admin(RequireSiteManager(http.HandlerFunc(h.Forbidden))(next))
	}

	registerPublicRoutes(mux, h)
	registerAuthRoutes(mux, h, admin)
	registerAdminRoutes(mux, h, admin, manager)
	registerAPIRoutes(mux, h, admin, manager)

	var handler http.Handler = &notFoundHandler{mux: mux, ui: h}

	bodyLimit := services.BodyLimit
	if bodyLimit <= 0 {
		bodyLimit = DefaultBodyLimit
	}
	handler = CountVisits(services.Visits, logger)(handler)
	handler = CSRFProtection(CSRFConfig{
		CookieDomain: services.CookieDomain,
		OnFailure:    http.HandlerFunc(h.CSRFFailed),
	})(handler)
	handler = LimitBody(bodyLimit)(handler)
	if services.CompressionLevel != 0 {
		handler = Compression(CompressionConfig{Level: services.CompressionLevel, Logger: logger})(handler)
	}
	handler = BrowserDetection()(handler)
	handler = SecurityHeaders()(handler)
	handler = Logging(logger)(handler)
	handler = Recover(logger)(handler)
	return handler, nil
}

// setupUIHandlers builds the template renderer and the handler set.
// In dev mode templates are loaded from disk for hot reloading.
func setupUIHandlers(services RouterServices, logger *slog.Logger) (*UIHandlers, error) {
	templateFS := services.TemplateFS
	if templateFS == nil {
		templateFS = templateSource(services.IsDev, logger)
	}
	tr, err := NewTemplateRenderer(TemplateRendererConfig{TemplateFS: templateFS, Logger: logger})
	if err != nil {
		return nil, err
	}

	limiter := services.Limiter
	if limiter == nil {
		limiter = NewIPRateLimiter(RateLimitConfig{})
	}
	cookies := CookieConfig{Domain: services.CookieDomain}

	return &UIHandlers{
		T:                tr,
		Auth:             services.Auth,
		Logout:           services.Logout,
		Settings:         services.Settings,
		News:             services.News,
		Gallery:          services.Gallery,
		Contacts:         services.Contacts,
		Users:            services.Users,
		Dashboard:        services.Dashboard,
		Export:           services.Export,
		Media:            services.Media,
		Flash:            NewFlashStore(FlashStoreOptions{Secret: services.FlashSecret, CookieDomain: services.CookieDomain, Logger: logger}),
		Chrome:           services.Chrome,
		Limiter:          limiter,
		Cookies:          cookies,
		WelcomeAutoClose: services.WelcomeAutoClose,
		LogoutCountdown:  services.LogoutCountdown,
		BaseURL:          services.BaseURL,
		IsDev:            services.IsDev,
		Logger:           logger,
	}, nil
}

func templateSource(isDev bool, logger *slog.Logger) fs.FS {
	if isDev {
		return os.DirFS(TemplatePathFromRoot)
	}
	sub, err := fs.Sub(portal.TemplateFS, "frontend/templates")
	if err != nil {
		logger.Error("failed to create sub-filesystem for templates; falling back to disk", "error", err)
		return os.DirFS(TemplatePathFromRoot)
	}
	return sub
}

func registerPublicRoutes(mux *http.ServeMux, h *UIHandlers) {
	mux.HandleFunc("GET /{$}", h.Home)
	mux.HandleFunc("GET /about", h.About)
	mux.HandleFunc("GET /news", h.NewsList)
	mux.HandleFunc("GET /news/feed.xml", h.NewsFeed)
	mux.HandleFunc("GET /news/{id}", h.NewsDetail)
	mux.HandleFunc("GET /gallery", h.GalleryPage)
	mux.HandleFunc("GET /contact", h.ContactPage)
	mux.HandleFunc("POST /contact", h.ContactSubmit)
}

func registerAuthRoutes(mux *http.ServeMux, h *UIHandlers, admin func(http.Handler) http.Handler) {
	mux.HandleFunc("GET /admin/login", h.LoginPage)
	mux.HandleFunc("POST /admin/login", h.LoginSubmit)
	mux.HandleFunc("GET /auth/login", h.SSOBegin)
	mux.HandleFunc("GET /auth/callback", h.SSOCallback)

	mux.Handle("GET /admin/logout", admin(http.HandlerFunc(h.LogoutPage)))
	mux.Handle("POST /admin/logout/start", admin(http.HandlerFunc(h.LogoutStart)))
	mux.Handle("POST /admin/logout/cancel", admin(http.HandlerFunc(h.LogoutCancel)))
	// The session is already gone by the time these are polled.
	mux.HandleFunc("GET /admin/logout/status", h.LogoutStatus)
	mux.HandleFunc("POST /admin/logout/complete", h.LogoutComplete)
}

// crudRoutes describes the form-driven console pages of one collection.
type crudRoutes struct {
	Base       string
	List       http.HandlerFunc
	New        http.HandlerFunc
	Create     http.HandlerFunc
	Edit       http.HandlerFunc
	Update     http.HandlerFunc
	Delete     http.HandlerFunc
	Middleware func(http.Handler) http.Handler
}

func registerCRUD(mux *http.ServeMux, cr crudRoutes) {
	wrap := func(fn http.HandlerFunc) http.Handler {
		if cr.Middleware == nil {
			return fn
		}
		return cr.Middleware(fn)
	}
	mux.Handle("GET "+cr.Base, wrap(cr.List))
	mux.Handle("GET "+cr.Base+"/new", wrap(cr.New))
	mux.Handle("POST "+cr.Base, wrap(cr.Create))
	mux.Handle("GET "+cr.Base+"/{id}/edit", wrap(cr.Edit))
	mux.Handle("POST "+cr.Base+"/{id}", wrap(cr.Update))
	mux.Handle("POST "+cr.Base+"/{id}/delete", wrap(cr.Delete))
}

func registerAdminRoutes(mux *http.ServeMux, h *UIHandlers, admin, manager func(http.Handler) http.Handler) {
	mux.Handle("GET /admin/{$}", admin(http.RedirectHandler(DashboardPath, http.StatusSeeOther)))
	mux.Handle("GET "+DashboardPath, admin(http.HandlerFunc(h.DashboardPage)))

	registerCRUD(mux, crudRoutes{
		Base: "/admin/news", List: h.AdminNewsList, New: h.AdminNewsNew, Create: h.AdminNewsCreate,
		Edit: h.AdminNewsEdit, Update: h.AdminNewsUpdate, Delete: h.AdminNewsDelete,
		Middleware: admin,
	})
	registerCRUD(mux, crudRoutes{
		Base: "/admin/gallery", List: h.AdminGalleryList, New: h.AdminGalleryNew, Create: h.AdminGalleryCreate,
		Edit: h.AdminGalleryEdit, Update: h.AdminGalleryUpdate, Delete: h.AdminGalleryDelete,
		Middleware: admin,
	})
	registerCRUD(mux, crudRoutes{
		Base: "/admin/contacts", List: h.AdminContactsList, New: h.AdminContactNew, Create: h.AdminContactCreate,
		Edit: h.AdminContactEdit, Update: h.AdminContactUpdate, Delete: h.AdminContactDelete,
		Middleware: admin,
	})
	mux.Handle("GET /admin/contacts/{id}", admin(http.HandlerFunc(h.AdminContactView)))
	mux.Handle("POST /admin/contacts/{id}/status", admin(http.HandlerFunc(h.AdminContactStatus)))

	registerCRUD(mux, crudRoutes{
		Base: "/admin/users", List: h.AdminUsersList, New: h.AdminUserNew, Create: h.AdminUserCreate,
		Edit: h.AdminUserEdit, Update: h.AdminUserUpdate, Delete: h.AdminUserDelete,
		Middleware: manager,
	})

	mux.Handle("GET /admin/settings", manager(http.HandlerFunc(h.AdminSettings)))
	mux.Handle("POST /admin/settings", manager(http.HandlerFunc(h.AdminSettingsUpdate)))
	mux.Handle("POST /admin/settings/logo", manager(http.HandlerFunc(h.AdminSettingsLogo)))
	mux.Handle("POST /admin/settings/logo/reset", manager(http.HandlerFunc(h.AdminSettingsLogoReset)))
}

func registerAPIRoutes(mux *http.ServeMux, h *UIHandlers, admin, manager func(http.Handler) http.Handler) {
	mux.HandleFunc("GET /api/settings", h.PublicSettings)
	mux.HandleFunc("GET /api/auth/status", h.AuthStatus)
	mux.Handle("GET /admin/api/export", admin(http.HandlerFunc(h.ExportJSON)))
	mux.Handle("PATCH /admin/api/settings", manager(http.HandlerFunc(h.PatchSettings)))
}

func staticHandler(isDev bool, logger *slog.Logger) http.Handler {
	return staticWithCacheHeaders(http.StripPrefix("/static/", http.FileServer(http.FS(staticSource(isDev, logger)))))
}

// imagesHandler serves the bundled school images, such as the default logo.
func imagesHandler(isDev bool, logger *slog.Logger) http.Handler {
	sub, err := fs.Sub(staticSource(isDev, logger), "images")
	if err != nil {
		logger.Error("failed to create sub-filesystem for images", "error", err)
		return http.NotFoundHandler()
	}
	return staticWithCacheHeaders(http.StripPrefix("/images/", http.FileServer(http.FS(sub))))
}

func staticSource(isDev bool, logger *slog.Logger) fs.FS {
	if isDev {
		return os.DirFS("frontend/static")
	}
	sub, err := fs.Sub(portal.StaticFS, "frontend/static")
	if err != nil {
		logger.Error("failed to create sub-filesystem for static assets; falling back to disk", "error", err)
		return os.DirFS("frontend/static")
	}
	return sub
}

var hashedFilePattern = regexp.MustCompile(`\.[a-f0-9]{8}\.(?:js|css|png|svg)$`)

func staticWithCacheHeaders(handler http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case strings.HasSuffix(r.URL.Path, "/"):
			http.NotFound(w, r)
			return
		case hashedFilePattern.MatchString(r.URL.Path):
			w.Header().Set("Cache-Control", "public, max-age=31536000, immutable")
		default:
			w.Header().Set("Cache-Control", "public, max-age=300")
		}
		handler.ServeHTTP(w, r)
	})
}

// notFoundHandler renders the site's 404 page for unmatched browser routes.
type notFoundHandler struct {
	mux *http.ServeMux
	ui  *UIHandlers
}

func (h *notFoundHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if _, pattern := h.mux.Handler(r); pattern != "" {
		h.mux.ServeHTTP(w, r)
		return
	}

	cw := newCaptureWriter()
	h.mux.ServeHTTP(cw, r)
	if cw.status != http.StatusNotFound {
		cw.flushTo(w, h.ui.logger())
		return
	}
	if !IsBrowserRequest(r) {
		WriteError(w, ErrorParams{Code: http.StatusNotFound, ErrCode: "not_found", Err: errRouteNotFound})
		return
	}
	h.ui.NotFound(w, r)
}

// captureWriter buffers the mux's fallback response (404 or 405).
type captureWriter struct {
	header http.Header
	status int
	buf    bytes.Buffer
}

func newCaptureWriter() *captureWriter {
	return &captureWriter{header: make(http.Header), status: http.StatusOK}
}

func (c *captureWriter) Header() http.Header         { return c.header }
func (c *captureWriter) WriteHeader(code int)        { c.status = code }
func (c *captureWriter) Write(b []byte) (int, error) { return c.buf.Write(b) }

func (c *captureWriter) flushTo(w http.ResponseWriter, logger *slog.Logger) {
	for k, vs := range c.header {
		for _, v := range vs {
			w.Header().Add(k, v)
		}
	}
	w.WriteHeader(c.status)
	if _, err := w.Write(c.buf.Bytes()); err != nil {
		logger.Warn("failed to write captured response", "error", err)
	}
}
