package httpx

import (
	"net/http"

	"github.com/sman1jakarta/portal/internal/domain/model"
)

func contactAdminFormData(in *model.ContactInput, mode FormMode, id string) *TemplateDataBuilder {
	return NewTemplateData().
		WithForm(in, mode).
		With("ID", id).
		With("Categories", model.ContactCategories()).
		With("Priorities", model.ContactPriorities())
}

func contactFormMeta(mode FormMode) PageMeta {
	if mode == FormModeEdit {
		return adminMeta(PageAdminContactForm, "Edit Pesan")
	}
	return adminMeta(PageAdminContactForm, "Tambah Pesan")
}

func contactInputFromForm(r *http.Request) *model.ContactInput {
	return &model.ContactInput{
		Name:     r.FormValue("name"),
		Phone:    r.FormValue("phone"),
		Email:    r.FormValue("email"),
		Subject:  r.FormValue("subject"),
		Message:  r.FormValue("message"),
		Category: model.ContactCategory(r.FormValue("category")),
		Priority: model.ContactPriority(r.FormValue("priority")),
	}
}

// AdminContactsList renders the inbox filtered by status with per-status counts.
// GET /admin/contacts.
func (h *UIHandlers) AdminContactsList(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	status := model.ContactStatus(q.Get("status"))
	if !status.Valid() {
		status = ""
	}
	inbox, err := h.Contacts.List(r.Context(), model.ContactListOptions{
		Status: status,
		Limit:  adminPageSize,
		Offset: pageOffset(pageNumber(q), adminPageSize),
	})
	if err != nil {
		h.serverError(w, r, err)
		return
	}
	h.render(w, r, http.StatusOK, adminMeta(PageAdminContacts, "Pesan Masuk"), NewTemplateData().
		With("Contacts", inbox.Items).
		With("Counts", inbox.Counts).
		With("Total", inbox.Counts.Total()).
		With("Statuses", model.ContactStatuses()).
		With("Status", string(status)).
		WithPagination(pagination(r, inbox.Page)).
		Build())
}

// AdminContactView renders one message with its WhatsApp reply link.
// GET /admin/contacts/{id}.
func (h *UIHandlers) AdminContactView(w http.ResponseWriter, r *http.Request) {
	c, err := h.Contacts.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		h.failLookup(w, r, err)
		return
	}
	h.render(w, r, http.StatusOK, adminMeta(PageAdminContact, "Detail Pesan"), NewTemplateData().
		With("Contact", c).
		With("ReplyURL", h.Contacts.ReplyURL(c)).
		With("Statuses", model.ContactStatuses()).
		Build())
}

// AdminContactNew renders an empty message form.
// GET /admin/contacts/new.
func (h *UIHandlers) AdminContactNew(w http.ResponseWriter, r *http.Request) {
	in := &model.ContactInput{Category: model.ContactCategoryLainnya, Priority: model.ContactPrioritySedang}
	h.render(w, r, http.StatusOK, contactFormMeta(FormModeCreate), contactAdminFormData(in, FormModeCreate, "").Build())
}

// AdminContactCreate records a message entered by an admin.
// POST /admin/contacts.
func (h *UIHandlers) AdminContactCreate(w http.ResponseWriter, r *http.Request) {
	in := contactInputFromForm(r)
	c, err := h.Contacts.Create(r.Context(), in, actorName(r.Context()))
	if err != nil {
		h.RenderFormError(w, r, ErrorOpts{Err: err, Meta: contactFormMeta(FormModeCreate), Data: contactAdminFormData(in, FormModeCreate, "")})
		return
	}
	h.done(w, r, "/admin/contacts/"+c.ID, "Pesan dari "+c.Name+" berhasil ditambahkan")
}

// AdminContactEdit renders the form for an existing message.
// GET /admin/contacts/{id}/edit.
func (h *UIHandlers) AdminContactEdit(w http.ResponseWriter, r *http.Request) {
	c, err := h.Contacts.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		h.failLookup(w, r, err)
		return
	}
	in := &model.ContactInput{
		Name: c.Name, Phone: c.Phone, Email: c.Email, Subject: c.Subject,
		Message: c.Message, Category: c.Category, Priority: c.Priority,
	}
	h.render(w, r, http.StatusOK, contactFormMeta(FormModeEdit), contactAdminFormData(in, FormModeEdit, c.ID).Build())
}

// AdminContactUpdate replaces a message's fields; the status is kept.
// POST /admin/contacts/{id}.
func (h *UIHandlers) AdminContactUpdate(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	in := contactInputFromForm(r)
	c, err := h.Contacts.Update(r.Context(), id, in, actorName(r.Context()))
	if err != nil {
		h.RenderFormError(w, r, ErrorOpts{Err: err, Meta: contactFormMeta(FormModeEdit), Data: contactAdminFormData(in, FormModeEdit, id)})
		return
	}
	h.done(w, r, "/admin/contacts/"+c.ID, "Pesan berhasil diperbarui")
}

// AdminContactStatus moves a message to another status.
// POST /admin/contacts/{id}/status.
func (h *UIHandlers) AdminContactStatus(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	status := model.ContactStatus(r.FormValue("status"))
	err := h.Contacts.SetStatus(r.Context(), id, status, actorName(r.Context()))
	switch {
	case err == nil:
		h.done(w, r, "/admin/contacts/"+id, "Status pesan diubah menjadi "+string(status))
	case IsValidationError(err):
		h.flashError(w, r, err)
		http.Redirect(w, r, "/admin/contacts/"+id, http.StatusSeeOther)
	default:
		h.failLookup(w, r, err)
	}
}

// AdminContactDelete removes a message.
// POST /admin/contacts/{id}/delete.
func (h *UIHandlers) AdminContactDelete(w http.ResponseWriter, r *http.Request) {
	if err := h.Contacts.Delete(r.Context(), r.PathValue("id"), actorName(r.Context())); err != nil {
		h.failLookup(w, r, err)
		return
	}
	h.done(w, r, "/admin/contacts", "Pesan berhasil dihapus")
}
