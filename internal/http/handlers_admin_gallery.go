package httpx

import (
	"net/http"
	"strings"

	"github.com/sman1jakarta/portal/internal/domain/model"
	apperrors "github.com/sman1jakarta/portal/internal/errors"
	"github.com/sman1jakarta/portal/internal/media"
)

var errImageRequired = apperrors.ValidationField("image", "Gambar harus diunggah")

func (h *UIHandlers) galleryFormData(in *model.GalleryInput, mode FormMode, id string) *TemplateDataBuilder {
	return NewTemplateData().
		WithForm(in, mode).
		With("ID", id).
		With("Categories", model.GalleryCategories()).
		With("MaxUploadBytes", h.maxUpload(media.KindGallery))
}

func (h *UIHandlers) maxUpload(kind media.Kind) int64 {
	if h.Media == nil {
		return 0
	}
	return h.Media.MaxBytes(kind)
}

func galleryFormMeta(mode FormMode) PageMeta {
	if mode == FormModeEdit {
		return adminMeta(PageAdminGalleryForm, "Edit Foto")
	}
	return adminMeta(PageAdminGalleryForm, "Tambah Foto")
}

func galleryInputFromForm(r *http.Request) *model.GalleryInput {
	return &model.GalleryInput{
		Title:       r.FormValue("title"),
		Description: r.FormValue("description"),
		Category:    model.GalleryCategory(r.FormValue("category")),
		ImageURL:    r.FormValue("image_url"),
		UploadedBy:  r.FormValue("uploaded_by"),
		Featured:    r.FormValue("featured") != "",
	}
}

// AdminGalleryList renders gallery items with a category filter.
// GET /admin/gallery.
func (h *UIHandlers) AdminGalleryList(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	result, err := h.Gallery.List(r.Context(), model.GalleryListOptions{
		Category: q.Get("category"),
		Limit:    adminPageSize,
		Offset:   pageOffset(pageNumber(q), adminPageSize),
	})
	if err != nil {
		h.serverError(w, r, err)
		return
	}
	h.render(w, r, http.StatusOK, adminMeta(PageAdminGallery, "Kelola Galeri"), NewTemplateData().
		With("Items", result.Items).
		With("Categories", model.GalleryCategories()).
		With("Category", q.Get("category")).
		WithPagination(pagination(r, result)).
		Build())
}

// AdminGalleryNew renders an empty gallery form.
// GET /admin/gallery/new.
func (h *UIHandlers) AdminGalleryNew(w http.ResponseWriter, r *http.Request) {
	in := &model.GalleryInput{Category: model.GalleryCategoryKegiatanRutin, UploadedBy: actorName(r.Context())}
	h.render(w, r, http.StatusOK, galleryFormMeta(FormModeCreate), h.galleryFormData(in, FormModeCreate, "").Build())
}

// AdminGalleryCreate stores a new item. A photo, uploaded or linked, is required.
// POST /admin/gallery.
func (h *UIHandlers) AdminGalleryCreate(w http.ResponseWriter, r *http.Request) {
	in := galleryInputFromForm(r)
	uploaded, err := h.saveUpload(r, media.KindGallery)
	if err == nil {
		if uploaded != "" {
			in.ImageURL = uploaded
		}
		if strings.TrimSpace(in.ImageURL) == "" {
			err = errImageRequired
		} else {
			var item *model.GalleryItem
			if item, err = h.Gallery.Create(r.Context(), in, actorName(r.Context())); err == nil {
				h.done(w, r, "/admin/gallery", "Foto \""+item.Title+"\" berhasil ditambahkan")
				return
			}
		}
		h.discardUpload(r, uploaded)
		in.ImageURL = strings.TrimSpace(r.FormValue("image_url"))
	}
	h.RenderFormError(w, r, ErrorOpts{Err: err, Meta: galleryFormMeta(FormModeCreate), Data: h.galleryFormData(in, FormModeCreate, "")})
}

// AdminGalleryEdit renders the form for an existing item.
// GET /admin/gallery/{id}/edit.
func (h *UIHandlers) AdminGalleryEdit(w http.ResponseWriter, r *http.Request) {
	item, err := h.Gallery.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		h.failLookup(w, r, err)
		return
	}
	in := &model.GalleryInput{
		Title: item.Title, Description: item.Description, Category: item.Category,
		ImageURL: item.ImageURL, UploadedBy: item.UploadedBy, Featured: item.Featured,
	}
	h.render(w, r, http.StatusOK, galleryFormMeta(FormModeEdit), h.galleryFormData(in, FormModeEdit, item.ID).Build())
}

// AdminGalleryUpdate replaces an item. Leaving the photo empty keeps the current one.
// POST /admin/gallery/{id}.
func (h *UIHandlers) AdminGalleryUpdate(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	in := galleryInputFromForm(r)
	uploaded, err := h.saveUpload(r, media.KindGallery)
	if err == nil {
		if uploaded != "" {
			in.ImageURL = uploaded
		}
		var item *model.GalleryItem
		if item, err = h.Gallery.Update(r.Context(), id, in, actorName(r.Context())); err == nil {
			h.done(w, r, "/admin/gallery", "Foto \""+item.Title+"\" berhasil diperbarui")
			return
		}
		h.discardUpload(r, uploaded)
		in.ImageURL = strings.TrimSpace(r.FormValue("image_url"))
	}
	h.RenderFormError(w, r, ErrorOpts{Err: err, Meta: galleryFormMeta(FormModeEdit), Data: h.galleryFormData(in, FormModeEdit, id)})
}

// AdminGalleryDelete removes an item and its photo.
// POST /admin/gallery/{id}/delete.
func (h *UIHandlers) AdminGalleryDelete(w http.ResponseWriter, r *http.Request) {
	if err := h.Gallery.Delete(r.Context(), r.PathValue("id"), actorName(r.Context())); err != nil {
		h.failLookup(w, r, err)
		return
	}
	h.done(w, r, "/admin/gallery", "Foto berhasil dihapus")
}
