package httpx

import (
	"errors"
	"net/http"
	"strings"

	domainauth "github.com/sman1jakarta/portal/internal/domain/auth"
	"github.com/sman1jakarta/portal/internal/domain/notice"
	"github.com/sman1jakarta/portal/internal/http/ui/viewmodel"
	"github.com/sman1jakarta/portal/internal/service"
)

var loginMeta = PageMeta{Title: "Login Admin", PageTitle: "Login Admin", CurrentPage: PageLogin, Chrome: viewmodel.ChromeBare}

// loginForm is redisplayed after a failed attempt. The password is never echoed.
type loginForm struct {
	Email       string
	RedirectURI string
}

// postLoginTarget returns where a successful login lands.
func postLoginTarget(candidate string) string {
	target := safeRedirectPath(candidate, DashboardPath)
	if strings.HasPrefix(target, LoginPath) || strings.HasPrefix(target, "/admin/logout") {
		return DashboardPath
	}
	return target
}

func (h *UIHandlers) loginData(form loginForm) *TemplateDataBuilder {
	return NewTemplateData().
		WithForm(form, FormModeCreate).
		With("SSOEnabled", h.Auth.SSOEnabled())
}

// LoginPage renders the admin login form. Visitors who already hold a valid
// auth record go straight to the dashboard.
func (h *UIHandlers) LoginPage(w http.ResponseWriter, r *http.Request) {
	redirect := r.URL.Query().Get("redirect_uri")
	if id := sessionID(r); id != "" {
		if _, err := h.Auth.Guard(r.Context(), id); err == nil {
			http.Redirect(w, r, postLoginTarget(redirect), http.StatusSeeOther)
			return
		}
		h.Cookies.clear(w, r, SessionCookieName)
	}
	h.render(w, r, http.StatusOK, loginMeta, h.loginData(loginForm{RedirectURI: redirect}).Build())
}

// LoginSubmit checks the credentials. Field errors redisplay the form with 422,
// a mismatch shows the single generic message with 401. On success the auth
// record's id goes into the session cookie and the dashboard greets the admin.
func (h *UIHandlers) LoginSubmit(w http.ResponseWriter, r *http.Request) {
	form := loginForm{Email: strings.TrimSpace(r.FormValue("email")), RedirectURI: r.FormValue("redirect_uri")}
	sess, err := h.Auth.Login(r.Context(), service.LoginRequest{Email: form.Email, Password: r.FormValue("password")})
	if err != nil {
		if errors.Is(err, service.ErrLoginFailed) {
			h.render(w, r, http.StatusUnauthorized, loginMeta,
				h.loginData(form).WithError(service.ErrLoginFailed.Message).Build())
			return
		}
		h.RenderFormError(w, r, ErrorOpts{Err: err, Meta: loginMeta, Data: h.loginData(form)})
		return
	}
	h.startSession(w, r, sess, form.RedirectURI)
}

// startSession sets the session cookie, queues the welcome notice and redirects.
func (h *UIHandlers) startSession(w http.ResponseWriter, r *http.Request, sess *domainauth.Session, redirect string) {
	h.Cookies.setSession(w, r, sess)
	h.flash(w, r, notice.JustLoggedIn(sess.Username))
	http.Redirect(w, r, postLoginTarget(redirect), http.StatusSeeOther)
}

// SSOBegin starts the single sign-on flow.
// GET /admin/login/sso?redirect_uri=<optional>.
func (h *UIHandlers) SSOBegin(w http.ResponseWriter, r *http.Request) {
	if !h.Auth.SSOEnabled() {
		h.NotFound(w, r)
		return
	}
	redirect := postLoginTarget(r.URL.Query().Get("redirect_uri"))
	res, err := h.Auth.BeginSSO(r.Context(), h.absoluteURL(r, "/auth/callback"))
	if err != nil {
		h.serverError(w, r, err)
		return
	}
	h.Cookies.set(w, r, oauthStateCookie, res.State, oauthCookieLifetime)
	h.Cookies.set(w, r, oauthNonceCookie, res.Nonce, oauthCookieLifetime)
	h.Cookies.set(w, r, postLoginCookie, redirect, oauthCookieLifetime)
	http.Redirect(w, r, res.AuthURL, http.StatusFound)
}

// SSOCallback completes the single sign-on flow.
// GET /auth/callback?code=<code>&state=<state>.
func (h *UIHandlers) SSOCallback(w http.ResponseWriter, r *http.Request) {
	if !h.Auth.SSOEnabled() {
		h.NotFound(w, r)
		return
	}
	q := r.URL.Query()
	state := q.Get("state")
	if q.Get("code") == "" || state == "" || cookieValue(r, oauthStateCookie) != state {
		h.renderErrorPage(w, r, http.StatusBadRequest, "Permintaan login tidak valid atau sudah kedaluwarsa.")
		return
	}
	nonce := cookieValue(r, oauthNonceCookie)
	redirect := cookieValue(r, postLoginCookie)
	for _, name := range []string{oauthStateCookie, oauthNonceCookie, postLoginCookie} {
		h.Cookies.clear(w, r, name)
	}

	sess, err := h.Auth.CompleteSSO(r.Context(), service.CompleteLoginInput{Code: q.Get("code"), State: state, Nonce: nonce})
	if errors.Is(err, service.ErrNoConsoleAccess) {
		h.render(w, r, http.StatusForbidden, loginMeta,
			h.loginData(loginForm{}).WithError(service.ErrNoConsoleAccess.Message).Build())
		return
	}
	if err != nil {
		h.logger().WarnContext(r.Context(), "sso login failed", "error", err)
		h.render(w, r, http.StatusUnauthorized, loginMeta,
			h.loginData(loginForm{}).WithError("Login melalui SSO gagal. Silakan coba lagi.").Build())
		return
	}
	h.startSession(w, r, sess, redirect)
}

// AuthStatus reports whether the caller holds a valid auth record.
// GET /api/auth/status.
func (h *UIHandlers) AuthStatus(w http.ResponseWriter, r *http.Request) {
	sess, err := h.Auth.Guard(r.Context(), sessionID(r))
	if err != nil {
		if !errors.Is(err, domainauth.ErrNoSession) {
			h.logger().ErrorContext(r.Context(), "auth status lookup failed", "error", err)
		}
		WriteJSON(w, http.StatusOK, map[string]any{"authenticated": false})
		return
	}
	body := map[string]any{
		"authenticated": true,
		"user": map[string]any{
			"name":       sess.Username,
			"email":      sess.Email,
			"role":       sess.Role,
			"role_label": sess.Role.Label(),
		},
		"login_time": sess.LoginTime,
	}
	if !sess.ExpiresAt.IsZero() {
		body["expires_at"] = sess.ExpiresAt
	}
	WriteJSON(w, http.StatusOK, body)
}
