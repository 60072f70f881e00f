package httpx

import (
	"net/http"
	"strings"

	domainauth "github.com/sman1jakarta/portal/internal/domain/auth"
	"github.com/sman1jakarta/portal/internal/domain/model"
	"github.com/sman1jakarta/portal/internal/domain/notice"
)

// userForm is the account form. The password is never sent back to the browser.
type userForm struct {
	Name   string
	Email  string
	Phone  string
	Role   domainauth.Role
	Status model.UserStatus
}

func formFromUserInput(in model.UserInput) userForm {
	return userForm{Name: in.Name, Email: in.Email, Phone: in.Phone, Role: in.Role, Status: in.Status}
}

func userFormData(form userForm, mode FormMode, id string) *TemplateDataBuilder {
	return NewTemplateData().
		WithForm(form, mode).
		With("ID", id).
		With("Roles", domainauth.Roles()).
		With("Statuses", []model.UserStatus{model.UserStatusActive, model.UserStatusInactive}).
		With("MinPasswordLen", model.MinPasswordLen)
}

func userFormMeta(mode FormMode) PageMeta {
	if mode == FormModeEdit {
		return adminMeta(PageAdminUserForm, "Edit Pengguna")
	}
	return adminMeta(PageAdminUserForm, "Tambah Pengguna")
}

func userInputFromForm(r *http.Request) model.UserInput {
	return model.UserInput{
		Name:     r.FormValue("name"),
		Email:    r.FormValue("email"),
		Phone:    r.FormValue("phone"),
		Role:     domainauth.Role(r.FormValue("role")),
		Status:   model.UserStatus(r.FormValue("status")),
		Password: r.FormValue("password"),
	}
}

// AdminUsersList renders the console accounts with search and role filter.
// GET /admin/users.
func (h *UIHandlers) AdminUsersList(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	role := domainauth.Role(strings.TrimSpace(q.Get("role")))
	if !role.Valid() {
		role = ""
	}
	users, err := h.Users.List(r.Context(), model.UserListOptions{Q: q.Get("q"), Role: role})
	if err != nil {
		h.serverError(w, r, err)
		return
	}
	h.render(w, r, http.StatusOK, adminMeta(PageAdminUsers, "Kelola Pengguna"), NewTemplateData().
		With("Users", users).
		With("Roles", domainauth.Roles()).
		With("Filter", map[string]string{"q": q.Get("q"), "role": string(role)}).
		Build())
}

// AdminUserNew renders an empty account form.
// GET /admin/users/new.
func (h *UIHandlers) AdminUserNew(w http.ResponseWriter, r *http.Request) {
	form := userForm{Role: domainauth.RoleStaff, Status: model.UserStatusActive}
	h.render(w, r, http.StatusOK, userFormMeta(FormModeCreate), userFormData(form, FormModeCreate, "").Build())
}

// AdminUserCreate stores a new account.
// POST /admin/users.
func (h *UIHandlers) AdminUserCreate(w http.ResponseWriter, r *http.Request) {
	in := userInputFromForm(r)
	u, err := h.Users.Create(r.Context(), in, actorName(r.Context()))
	if err != nil {
		h.RenderFormError(w, r, ErrorOpts{Err: err, Meta: userFormMeta(FormModeCreate), Data: userFormData(formFromUserInput(in), FormModeCreate, "")})
		return
	}
	h.done(w, r, "/admin/users", "Pengguna "+u.Name+" berhasil ditambahkan")
}

// AdminUserEdit renders the form for an existing account.
// GET /admin/users/{id}/edit.
func (h *UIHandlers) AdminUserEdit(w http.ResponseWriter, r *http.Request) {
	u, err := h.Users.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		h.failLookup(w, r, err)
		return
	}
	form := userForm{Name: u.Name, Email: u.Email, Phone: u.Phone, Role: u.Role, Status: u.Status}
	h.render(w, r, http.StatusOK, userFormMeta(FormModeEdit), userFormData(form, FormModeEdit, u.ID).Build())
}

// AdminUserUpdate changes an account; a blank password keeps the current one.
// POST /admin/users/{id}.
func (h *UIHandlers) AdminUserUpdate(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	in := userInputFromForm(r)
	u, err := h.Users.Update(r.Context(), id, in, actorName(r.Context()))
	if err != nil {
		h.RenderFormError(w, r, ErrorOpts{Err: err, Meta: userFormMeta(FormModeEdit), Data: userFormData(formFromUserInput(in), FormModeEdit, id)})
		return
	}
	h.done(w, r, "/admin/users", "Data pengguna "+u.Name+" berhasil diperbarui")
}

// AdminUserDelete removes an account. Admins cannot delete their own account.
// POST /admin/users/{id}/delete.
func (h *UIHandlers) AdminUserDelete(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	u, err := h.Users.Get(r.Context(), id)
	if err != nil {
		h.failLookup(w, r, err)
		return
	}
	if s := GetSessionFromContext(r.Context()); s != nil && strings.EqualFold(s.Email, u.Email) {
		h.flash(w, r, notice.Error("Anda tidak dapat menghapus akun Anda sendiri"))
		http.Redirect(w, r, "/admin/users", http.StatusSeeOther)
		return
	}
	if err := h.Users.Delete(r.Context(), id, actorName(r.Context())); err != nil {
		h.failLookup(w, r, err)
		return
	}
	h.done(w, r, "/admin/users", "Pengguna berhasil dihapus")
}
