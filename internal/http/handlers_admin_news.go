package httpx

import (
	"net/http"
	"strings"

	"github.com/sman1jakarta/portal/internal/domain/model"
	"github.com/sman1jakarta/portal/internal/media"
)

func (h *UIHandlers) newsFormData(in *model.NewsInput, mode FormMode, id string) *TemplateDataBuilder {
	return NewTemplateData().
		WithForm(in, mode).
		With("ID", id).
		With("Categories", model.NewsCategories()).
		With("Statuses", model.NewsStatuses())
}

func newsFormMeta(mode FormMode) PageMeta {
	if mode == FormModeEdit {
		return adminMeta(PageAdminNewsForm, "Edit Berita")
	}
	return adminMeta(PageAdminNewsForm, "Tambah Berita")
}

// newsInputFromForm reads the article form; the image comes from an upload or the URL field.
func newsInputFromForm(r *http.Request) *model.NewsInput {
	return &model.NewsInput{
		Title:    r.FormValue("title"),
		Excerpt:  r.FormValue("excerpt"),
		Content:  r.FormValue("content"),
		Category: model.NewsCategory(r.FormValue("category")),
		Author:   r.FormValue("author"),
		Status:   model.NewsStatus(r.FormValue("status")),
		ImageURL: r.FormValue("image_url"),
		Featured: r.FormValue("featured") != "",
	}
}

// AdminNewsList renders every article with status, category and search filters.
// GET /admin/news.
func (h *UIHandlers) AdminNewsList(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	result, err := h.News.List(r.Context(), model.NewsListOptions{
		Category: q.Get("category"),
		Q:        q.Get("q"),
		Status:   model.NewsStatus(strings.TrimSpace(q.Get("status"))),
		Limit:    adminPageSize,
		Offset:   pageOffset(pageNumber(q), adminPageSize),
	})
	if err != nil {
		h.serverError(w, r, err)
		return
	}
	h.render(w, r, http.StatusOK, adminMeta(PageAdminNews, "Kelola Berita"), NewTemplateData().
		With("News", result.Items).
		With("Categories", model.NewsCategories()).
		With("Statuses", model.NewsStatuses()).
		With("Filter", map[string]string{"category": q.Get("category"), "q": q.Get("q"), "status": q.Get("status")}).
		WithPagination(pagination(r, result)).
		Build())
}

// AdminNewsNew renders an empty article form.
// GET /admin/news/new.
func (h *UIHandlers) AdminNewsNew(w http.ResponseWriter, r *http.Request) {
	in := &model.NewsInput{Status: model.NewsStatusDraft, Category: model.NewsCategoryPengumuman, Author: actorName(r.Context())}
	h.render(w, r, http.StatusOK, newsFormMeta(FormModeCreate), h.newsFormData(in, FormModeCreate, "").Build())
}

// AdminNewsCreate stores a new article.
// POST /admin/news.
func (h *UIHandlers) AdminNewsCreate(w http.ResponseWriter, r *http.Request) {
	in := newsInputFromForm(r)
	uploaded, err := h.saveUpload(r, media.KindNews)
	if err == nil {
		if uploaded != "" {
			in.ImageURL = uploaded
		}
		var n *model.News
		if n, err = h.News.Create(r.Context(), in, actorName(r.Context())); err == nil {
			h.done(w, r, "/admin/news", "Berita \""+n.Title+"\" berhasil ditambahkan")
			return
		}
		h.discardUpload(r, uploaded)
		in.ImageURL = strings.TrimSpace(r.FormValue("image_url"))
	}
	h.RenderFormError(w, r, ErrorOpts{Err: err, Meta: newsFormMeta(FormModeCreate), Data: h.newsFormData(in, FormModeCreate, "")})
}

// AdminNewsEdit renders the form for an existing article.
// GET /admin/news/{id}/edit.
func (h *UIHandlers) AdminNewsEdit(w http.ResponseWriter, r *http.Request) {
	n, err := h.News.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		h.failLookup(w, r, err)
		return
	}
	in := &model.NewsInput{
		Title: n.Title, Excerpt: n.Excerpt, Content: n.Content, Category: n.Category,
		Author: n.Author, Status: n.Status, ImageURL: n.ImageURL, Featured: n.Featured,
	}
	h.render(w, r, http.StatusOK, newsFormMeta(FormModeEdit), h.newsFormData(in, FormModeEdit, n.ID).Build())
}

// AdminNewsUpdate replaces an article. A replaced upload is removed.
// POST /admin/news/{id}.
func (h *UIHandlers) AdminNewsUpdate(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	prev, err := h.News.Get(r.Context(), id)
	if err != nil {
		h.failLookup(w, r, err)
		return
	}

	in := newsInputFromForm(r)
	uploaded, err := h.saveUpload(r, media.KindNews)
	if err == nil {
		if uploaded != "" {
			in.ImageURL = uploaded
		}
		var n *model.News
		if n, err = h.News.Update(r.Context(), id, in, actorName(r.Context())); err == nil {
			if prev.ImageURL != n.ImageURL {
				h.discardUpload(r, prev.ImageURL)
			}
			h.done(w, r, "/admin/news", "Berita \""+n.Title+"\" berhasil diperbarui")
			return
		}
		h.discardUpload(r, uploaded)
		in.ImageURL = prev.ImageURL
	}
	h.RenderFormError(w, r, ErrorOpts{Err: err, Meta: newsFormMeta(FormModeEdit), Data: h.newsFormData(in, FormModeEdit, id)})
}

// AdminNewsDelete removes an article and its upload.
// POST /admin/news/{id}/delete.
func (h *UIHandlers) AdminNewsDelete(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	n, err := h.News.Get(r.Context(), id)
	if err == nil {
		err = h.News.Delete(r.Context(), id, actorName(r.Context()))
	}
	if err != nil {
		h.failLookup(w, r, err)
		return
	}
	h.discardUpload(r, n.ImageURL)
	h.done(w, r, "/admin/news", "Berita berhasil dihapus")
}
