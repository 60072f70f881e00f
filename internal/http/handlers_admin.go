package httpx

import (
	"errors"
	"net/http"

	"github.com/sman1jakarta/portal/internal/domain/notice"
	apperrors "github.com/sman1jakarta/portal/internal/errors"
	"github.com/sman1jakarta/portal/internal/http/ui/viewmodel"
	"github.com/sman1jakarta/portal/internal/media"
)

const adminPageSize = 10

// adminMeta builds console page metadata.
func adminMeta(page, title string) PageMeta {
	return PageMeta{Title: title, PageTitle: title, CurrentPage: page, Chrome: viewmodel.ChromeAdmin}
}

// Dashboard renders the console overview. The welcome dialog opens when the
// login notice arrives with this render.
// GET /admin/dashboard.
func (h *UIHandlers) DashboardPage(w http.ResponseWriter, r *http.Request) {
	ov, err := h.Dashboard.Overview(r.Context())
	if err != nil {
		h.serverError(w, r, err)
		return
	}
	h.render(w, r, http.StatusOK, adminMeta(PageDashboard, "Dashboard"), NewTemplateData().
		With("Stats", ov.Stats).
		With("RecentNews", ov.RecentNews).
		With("Activities", ov.Activities).
		With("WelcomeAutoCloseMs", h.WelcomeAutoClose.Milliseconds()).
		Build())
}

// saveUpload stores the "image" file of a multipart form. A form without a
// file yields "" and no error.
func (h *UIHandlers) saveUpload(r *http.Request, kind media.Kind) (string, error) {
	if h.Media == nil {
		return "", nil
	}
	file, header, err := r.FormFile("image")
	switch {
	case errors.Is(err, http.ErrMissingFile), errors.Is(err, http.ErrNotMultipart):
		return "", nil
	case err != nil:
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			return "", h.Media.TooLarge(kind)
		}
		return "", apperrors.ValidationField("image", "File gambar tidak dapat dibaca")
	}
	defer file.Close()
	if header.Size > h.Media.MaxBytes(kind) {
		return "", h.Media.TooLarge(kind)
	}
	return h.Media.Save(r.Context(), kind, header.Filename, file)
}

// discardUpload removes a file saved for a submission that then failed.
func (h *UIHandlers) discardUpload(r *http.Request, url string) {
	if h.Media == nil || url == "" || !h.Media.Owns(url) {
		return
	}
	if err := h.Media.Remove(r.Context(), url); err != nil {
		h.logger().WarnContext(r.Context(), "discard upload failed", "url", url, "error", err)
	}
}

// done flashes msg and redirects back to a console list.
func (h *UIHandlers) done(w http.ResponseWriter, r *http.Request, path, msg string) {
	h.flash(w, r, notice.Success(msg))
	http.Redirect(w, r, path, http.StatusSeeOther)
}
