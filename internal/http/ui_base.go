package httpx

import (
	"context"
	"html"
	"log/slog"
	"maps"
	"net/http"
	"net/url"
	"strconv"
	"time"

	domainauth "github.com/sman1jakarta/portal/internal/domain/auth"
	"github.com/sman1jakarta/portal/internal/domain/notice"
	"github.com/sman1jakarta/portal/internal/domain/settings"
	"github.com/sman1jakarta/portal/internal/http/ui/viewmodel"
	"github.com/sman1jakarta/portal/internal/http/uiutil"
	"github.com/sman1jakarta/portal/internal/media"
	"github.com/sman1jakarta/portal/internal/service"
)

const errMsgFixBelow = "Mohon perbaiki isian yang ditandai."

// AuthService is the subset of authentication the handlers use.
type AuthService interface {
	SessionGuard
	Login(ctx context.Context, req service.LoginRequest) (*domainauth.Session, error)
	SSOEnabled() bool
	BeginSSO(ctx context.Context, redirectURL string) (*service.BeginLoginResult, error)
	CompleteSSO(ctx context.Context, in service.CompleteLoginInput) (*domainauth.Session, error)
}

// LogoutService drives the confirmed, cancellable logout.
type LogoutService interface {
	Begin(sessionID string) (service.LogoutStatus, error)
	Status(sessionID string) service.LogoutStatus
	Cancel(sessionID string) error
	Complete(sessionID string) error
}

// SettingsService reads and changes the school profile.
type SettingsService interface {
	Current() settings.SchoolSettings
	Update(ctx context.Context, p settings.Patch) (settings.SchoolSettings, error)
	UpdateValidated(ctx context.Context, p settings.Patch) (settings.SchoolSettings, error)
	ResetLogo(ctx context.Context) (settings.SchoolSettings, error)
}

// ExportService produces the JSON export.
type ExportService interface {
	Export(ctx context.Context, query string) (any, error)
}

// Compile-time interface assertions to ensure concrete services satisfy their UI interfaces.
var (
	_ AuthService     = (*service.AuthService)(nil)
	_ LogoutService   = (*service.LogoutCoordinator)(nil)
	_ SettingsService = (*service.SettingsStore)(nil)
	_ ExportService   = (*service.ExportService)(nil)
)

// UIHandlers serves browser-facing routes.
type UIHandlers struct {
	T         *TemplateRenderer
	Auth      AuthService
	Logout    LogoutService
	Settings  SettingsService
	News      *service.NewsService
	Gallery   *service.GalleryService
	Contacts  *service.ContactService
	Users     *service.UserService
	Dashboard *service.DashboardService
	Export    ExportService
	Media     *media.Store
	Flash     *FlashStore
	Chrome    *Chrome
	Limiter   *IPRateLimiter
	Cookies   CookieConfig
	// WelcomeAutoClose is how long the post-login welcome dialog stays open.
	WelcomeAutoClose time.Duration
	// LogoutCountdown is the confirmation countdown shown before it starts, in seconds.
	LogoutCountdown int
	BaseURL          string
	IsDev            bool
	Now              func() time.Time
	Logger           *slog.Logger
}

// logger returns the configured logger or falls back to slog.Default().
func (h *UIHandlers) logger() *slog.Logger {
	if h != nil && h.Logger != nil {
		return h.Logger
	}
	return slog.Default()
}

func (h *UIHandlers) now() time.Time {
	if h.Now != nil {
		return h.Now()
	}
	return time.Now()
}

// school returns the profile drawn in the page chrome.
func (h *UIHandlers) school() settings.SchoolSettings {
	if h.Chrome != nil {
		return h.Chrome.Current()
	}
	if h.Settings != nil {
		return h.Settings.Current()
	}
	return settings.Defaults()
}

// flash queues a notice for the next rendered page.
func (h *UIHandlers) flash(w http.ResponseWriter, r *http.Request, n notice.Notice) {
	if h.Flash != nil {
		h.Flash.Add(w, r, n)
	}
}

// pageNumber parses the 1-based "page" query parameter.
func pageNumber(q url.Values) int {
	if n, err := strconv.Atoi(q.Get("page")); err == nil && n > 0 {
		return n
	}
	return 1
}

// pageOffset converts a page number into a list offset.
func pageOffset(page, size int) int {
	return (page - 1) * size
}

// buildPageURL returns basePath with the query preserved and "page" replaced.
func buildPageURL(basePath string, q url.Values, page int) string {
	qq := make(url.Values, len(q))
	for k, v := range q {
		if k == "page" || len(v) == 0 || v[0] == "" {
			continue
		}
		qq[k] = v
	}
	if page > 1 {
		qq.Set("page", strconv.Itoa(page))
	}
	if enc := qq.Encode(); enc != "" {
		return basePath + "?" + enc
	}
	return basePath
}

// pagination builds the pager for a service page.
func pagination[T any](r *http.Request, p service.Page[T]) viewmodel.Pagination {
	pg := viewmodel.Pagination{
		Page:       p.Number(),
		Pages:      p.Pages(),
		HasPrev:    p.HasPrev(),
		HasNext:    p.HasNext(),
		TotalCount: p.Total,
	}
	if len(p.Items) > 0 {
		pg.StartIndex = p.Offset + 1
		pg.EndIndex = p.Offset + len(p.Items)
	}
	if pg.HasPrev {
		pg.PrevURL = buildPageURL(r.URL.Path, r.URL.Query(), pg.Page-1)
	}
	if pg.HasNext {
		pg.NextURL = buildPageURL(r.URL.Path, r.URL.Query(), pg.Page+1)
	}
	return pg
}

// PageMeta contains metadata for page rendering.
type PageMeta struct {
	Title       string
	PageTitle   string
	CurrentPage string
	Chrome      viewmodel.Chrome
}

// buildLayout constructs shared layout metadata. It consumes pending notices,
// so it must run once per rendered page.
func (h *UIHandlers) buildLayout(w http.ResponseWriter, r *http.Request, meta PageMeta) viewmodel.Layout {
	school := h.school()
	layout := viewmodel.Layout{
		Title:       meta.Title,
		PageTitle:   meta.PageTitle,
		CurrentPage: meta.CurrentPage,
		Chrome:      meta.Chrome,
		CSRFToken:   GetCSRFToken(r),
		School:      school,
		Year:        h.now().In(uiutil.Jakarta).Year(),
	}
	if layout.Chrome == "" {
		layout.Chrome = viewmodel.ChromePublic
	}
	if layout.Title == "" {
		layout.Title = school.SchoolName
	} else {
		layout.Title += " | " + school.SchoolShortName
	}
	if h.Flash != nil {
		layout.Notices = h.Flash.Consume(w, r)
	}

	if s := GetSessionFromContext(r.Context()); s != nil {
		layout.IsAuthenticated = true
		layout.User = &viewmodel.User{
			Name:          s.Username,
			Email:         s.Email,
			Role:          string(s.Role),
			RoleLabel:     s.Role.Label(),
			CanManageSite: s.Role.CanManageSite(),
		}
	}
	return layout
}

// basePageData flattens the layout into the map every template receives.
func (h *UIHandlers) basePageData(w http.ResponseWriter, r *http.Request, meta PageMeta) map[string]any {
	layout := h.buildLayout(w, r, meta)
	data := map[string]any{
		"Title":           layout.Title,
		"PageTitle":       layout.PageTitle,
		"CurrentPage":     layout.CurrentPage,
		"Chrome":          string(layout.Chrome),
		"CSRFToken":       layout.CSRFToken,
		"IsAuthenticated": layout.IsAuthenticated,
		"School":          layout.School,
		"Notices":         layout.Notices,
		"Year":            layout.Year,
		"Errors":          map[string]string{},
	}
	if layout.User != nil {
		data["User"] = layout.User
	}
	return data
}

// render merges page data over the base data and renders the full page.
func (h *UIHandlers) render(w http.ResponseWriter, r *http.Request, status int, meta PageMeta, page map[string]any) {
	data := h.basePageData(w, r, meta)
	maps.Copy(data, page)
	if err := h.T.RenderFull(w, status, data); err != nil {
		h.logAndRenderTemplateError(w, r, err, meta.CurrentPage)
	}
}

// renderErrorPage renders the standalone error page.
func (h *UIHandlers) renderErrorPage(w http.ResponseWriter, r *http.Request, status int, message string) {
	data := h.basePageData(w, r, PageMeta{Title: http.StatusText(status), Chrome: viewmodel.ChromeBare})
	data["Status"] = status
	data["StatusText"] = http.StatusText(status)
	data["Message"] = message
	data["HomeURL"] = "/"
	if GetSessionFromContext(r.Context()) != nil {
		data["HomeURL"] = DashboardPath
	}
	if err := h.T.RenderError(w, status, data); err != nil {
		h.logAndRenderTemplateError(w, r, err, "error page")
	}
}

// NotFound renders the 404 page, or JSON for API callers.
func (h *UIHandlers) NotFound(w http.ResponseWriter, r *http.Request) {
	if !IsBrowserRequest(r) {
		WriteError(w, ErrorParams{Code: http.StatusNotFound, ErrCode: "not_found", Err: errNotFound})
		return
	}
	h.renderErrorPage(w, r, http.StatusNotFound, "Halaman yang Anda cari tidak ditemukan.")
}

// Forbidden renders the 403 page for roles that may not manage the site.
func (h *UIHandlers) Forbidden(w http.ResponseWriter, r *http.Request) {
	if !IsBrowserRequest(r) {
		WriteError(w, ErrorParams{Code: http.StatusForbidden, ErrCode: "forbidden", Err: errForbidden})
		return
	}
	h.renderErrorPage(w, r, http.StatusForbidden, "Anda tidak memiliki akses ke halaman ini.")
}

// CSRFFailed answers a request whose CSRF token did not match.
func (h *UIHandlers) CSRFFailed(w http.ResponseWriter, r *http.Request) {
	if !IsBrowserRequest(r) {
		WriteError(w, ErrorParams{Code: http.StatusForbidden, ErrCode: "csrf_failed", Err: ErrCSRFMismatch})
		return
	}
	h.renderErrorPage(w, r, http.StatusForbidden, "Sesi formulir telah kedaluwarsa. Muat ulang halaman lalu coba lagi.")
}

// serverError logs err and renders the 500 page.
func (h *UIHandlers) serverError(w http.ResponseWriter, r *http.Request, err error) {
	h.logger().ErrorContext(r.Context(), "request failed",
		"error", err,
		"path", r.URL.Path,
		"method", r.Method,
	)
	h.renderErrorPage(w, r, http.StatusInternalServerError, "Terjadi kesalahan pada server. Silakan coba lagi.")
}

// logAndRenderTemplateError logs template errors and renders them in dev mode.
func (h *UIHandlers) logAndRenderTemplateError(w http.ResponseWriter, r *http.Request, err error, context string) {
	h.logger().Error("template rendering failed",
		"error", err,
		"context", context,
		"path", r.URL.Path,
		"method", r.Method,
	)

	if h.IsDev {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.WriteHeader(http.StatusInternalServerError)
		if _, writeErr := w.Write([]byte(`<div style="padding:20px;background:#fee;border:2px solid #c33;font-family:monospace">` +
			`<h2>Template Rendering Error</h2><p>` + html.EscapeString(context) + ` ` + html.EscapeString(r.URL.Path) +
			`</p><pre>` + html.EscapeString(err.Error()) + `</pre></div>`)); writeErr != nil {
			h.logger().Error("failed to write template error response", "error", writeErr)
		}
		return
	}
	http.Error(w, "internal server error", http.StatusInternalServerError)
}
