package httpx

import (
	"errors"
	"net/http"
	"strings"

	"github.com/sman1jakarta/portal/internal/domain/notice"
	"github.com/sman1jakarta/portal/internal/http/ui/viewmodel"
	"github.com/sman1jakarta/portal/internal/service"
)

// wantsJSON reports whether the caller is the logout script rather than a plain form post.
func wantsJSON(r *http.Request) bool {
	return strings.Contains(r.Header.Get("Accept"), "application/json") || r.Header.Get(DefaultCSRFHeaderName) != ""
}

// LogoutPage renders the logout confirmation dialog.
// GET /admin/logout.
func (h *UIHandlers) LogoutPage(w http.ResponseWriter, r *http.Request) {
	countdown := h.LogoutCountdown
	if countdown <= 0 {
		countdown = service.DefaultLogoutCountdown
	}
	h.render(w, r, http.StatusOK,
		PageMeta{Title: "Logout", PageTitle: "Konfirmasi Logout", CurrentPage: PageLogout, Chrome: viewmodel.ChromeAdmin},
		NewTemplateData().
			With("Logout", h.Logout.Status(sessionID(r))).
			With("Countdown", countdown).
			Build())
}

// LogoutStart confirms the logout and starts the countdown. Starting twice
// reports the countdown already running.
// POST /admin/logout/start.
func (h *UIHandlers) LogoutStart(w http.ResponseWriter, r *http.Request) {
	status, err := h.Logout.Begin(sessionID(r))
	if err != nil {
		h.logger().ErrorContext(r.Context(), "begin logout failed", "error", err)
		WriteAppError(w, err)
		return
	}
	if wantsJSON(r) {
		WriteJSON(w, http.StatusAccepted, status)
		return
	}
	http.Redirect(w, r, "/admin/logout", http.StatusSeeOther)
}

// LogoutStatus reports the countdown for the caller's session. It reads the
// cookie directly because the auth record is gone once the countdown ends.
// GET /admin/logout/status.
func (h *UIHandlers) LogoutStatus(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Cache-Control", "no-store")
	WriteJSON(w, http.StatusOK, h.Logout.Status(sessionID(r)))
}

// LogoutCancel dismisses the dialog. The auth record is left untouched.
// POST /admin/logout/cancel.
func (h *UIHandlers) LogoutCancel(w http.ResponseWriter, r *http.Request) {
	if err := h.Logout.Cancel(sessionID(r)); err != nil {
		if wantsJSON(r) {
			WriteAppError(w, err)
			return
		}
		http.Redirect(w, r, LoginPath, http.StatusSeeOther)
		return
	}
	if wantsJSON(r) {
		WriteJSON(w, http.StatusOK, h.Logout.Status(sessionID(r)))
		return
	}
	http.Redirect(w, r, DashboardPath, http.StatusSeeOther)
}

// LogoutComplete claims a finished countdown: the cookie is cleared and the
// login page shows the goodbye notice. Claiming early is a 409.
// POST /admin/logout/complete.
func (h *UIHandlers) LogoutComplete(w http.ResponseWriter, r *http.Request) {
	err := h.Logout.Complete(sessionID(r))
	switch {
	case err == nil:
		h.Cookies.clear(w, r, SessionCookieName)
		h.flash(w, r, notice.LogoutSuccess())
		http.Redirect(w, r, LoginPath, http.StatusSeeOther)
	case service.IsLogoutConflict(err):
		if wantsJSON(r) {
			WriteJSON(w, http.StatusConflict, h.Logout.Status(sessionID(r)))
			return
		}
		h.renderErrorPage(w, r, http.StatusConflict, "Logout masih dalam hitungan mundur.")
	case errors.Is(err, service.ErrNoPendingLogout):
		http.Redirect(w, r, DashboardPath, http.StatusSeeOther)
	default:
		h.serverError(w, r, err)
	}
}
