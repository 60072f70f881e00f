package httpx

import (
	"net/http"
	"strings"

	"github.com/sman1jakarta/portal/internal/domain/settings"
	"github.com/sman1jakarta/portal/internal/media"
)

const maxFormMemory = 32 << 20

var settingsMeta = adminMeta(PageAdminSettings, "Pengaturan Sekolah")

// settingsPatchFromForm reads the profile form. Field names follow the JSON
// names; fields missing from the form are left unchanged.
func settingsPatchFromForm(r *http.Request) settings.Patch {
	_ = r.ParseMultipartForm(maxFormMemory) // also parses url-encoded bodies
	field := func(name string) *string {
		vs, ok := r.Form[name]
		if !ok || len(vs) == 0 {
			return nil
		}
		v := strings.TrimSpace(vs[0])
		return &v
	}
	return settings.Patch{
		SchoolName:        field("schoolName"),
		SchoolShortName:   field("schoolShortName"),
		SchoolAddress:     field("schoolAddress"),
		SchoolPhone:       field("schoolPhone"),
		SchoolEmail:       field("schoolEmail"),
		SchoolWebsite:     field("schoolWebsite"),
		PrincipalName:     field("principalName"),
		SchoolMotto:       field("schoolMotto"),
		SchoolDescription: field("schoolDescription"),
	}
}

func (h *UIHandlers) settingsData(form settings.SchoolSettings) *TemplateDataBuilder {
	return NewTemplateData().
		WithForm(form, FormModeEdit).
		With("DefaultLogoURL", settings.DefaultLogoURL).
		With("MaxLogoBytes", h.maxUpload(media.KindLogo))
}

// AdminSettings renders the school profile form.
// GET /admin/settings.
func (h *UIHandlers) AdminSettings(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, http.StatusOK, settingsMeta, h.settingsData(h.Settings.Current()).Build())
}

// applySettings merges p onto the current profile, validates the result and
// publishes it as one step.
func (h *UIHandlers) applySettings(r *http.Request, p settings.Patch) (settings.SchoolSettings, error) {
	return h.Settings.UpdateValidated(r.Context(), p)
}

// AdminSettingsUpdate saves the school profile. Every page picks up the
// change on its next render.
// POST /admin/settings.
func (h *UIHandlers) AdminSettingsUpdate(w http.ResponseWriter, r *http.Request) {
	merged, err := h.applySettings(r, settingsPatchFromForm(r))
	if err != nil {
		h.RenderFormError(w, r, ErrorOpts{Err: err, Meta: settingsMeta, Data: h.settingsData(merged)})
		return
	}
	h.done(w, r, "/admin/settings", "Pengaturan sekolah berhasil disimpan")
}

// AdminSettingsLogo replaces the school logo with an uploaded image.
// POST /admin/settings/logo.
func (h *UIHandlers) AdminSettingsLogo(w http.ResponseWriter, r *http.Request) {
	prev := h.Settings.Current().LogoURL
	uploaded, err := h.saveUpload(r, media.KindLogo)
	if err == nil && uploaded == "" {
		err = errImageRequired
	}
	if err == nil {
		if _, err = h.applySettings(r, settings.Patch{LogoURL: &uploaded}); err == nil {
			if prev != uploaded {
				h.discardUpload(r, prev)
			}
			h.done(w, r, "/admin/settings", "Logo sekolah berhasil diperbarui")
			return
		}
		h.discardUpload(r, uploaded)
	}
	h.RenderFormError(w, r, ErrorOpts{Err: err, Meta: settingsMeta, Data: h.settingsData(h.Settings.Current())})
}

// AdminSettingsLogoReset restores the default logo.
// POST /admin/settings/logo/reset.
func (h *UIHandlers) AdminSettingsLogoReset(w http.ResponseWriter, r *http.Request) {
	prev := h.Settings.Current().LogoURL
	if _, err := h.Settings.ResetLogo(r.Context()); err != nil {
		h.serverError(w, r, err)
		return
	}
	h.discardUpload(r, prev)
	h.done(w, r, "/admin/settings", "Logo dikembalikan ke logo bawaan")
}
