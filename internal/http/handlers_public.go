package httpx

import (
	"context"
	"net/http"
	"strings"

	"github.com/gorilla/feeds"

	"github.com/sman1jakarta/portal/internal/domain/model"
	"github.com/sman1jakarta/portal/internal/task"
)

const (
	homeFeaturedNews   = 3
	homeLatestNews     = 6
	homeGalleryPreview = 6
	newsPageSize       = 6
	galleryPageSize    = 12
	relatedNews        = 3
	feedItems          = 20
)

// absoluteURL resolves path against the configured base URL, or the request host.
func (h *UIHandlers) absoluteURL(r *http.Request, path string) string {
	base := strings.TrimRight(h.BaseURL, "/")
	if base == "" {
		scheme := "http"
		if isSecureRequest(r) {
			scheme = "https"
		}
		base = scheme + "://" + r.Host
	}
	return base + path
}

// Home renders the landing page.
func (h *UIHandlers) Home(w http.ResponseWriter, r *http.Request) {
	var (
		featured, latest []*model.News
		gallery          []*model.GalleryItem
	)
	g := task.NewGroup(r.Context())
	g.Go(func(ctx context.Context) (err error) {
		featured, err = h.News.Featured(ctx, homeFeaturedNews)
		return err
	})
	g.Go(func(ctx context.Context) (err error) {
		latest, err = h.News.Latest(ctx, homeLatestNews)
		return err
	})
	g.Go(func(ctx context.Context) (err error) {
		gallery, err = h.Gallery.Preview(ctx, homeGalleryPreview)
		return err
	})
	if err := g.Wait(); err != nil {
		h.serverError(w, r, err)
		return
	}

	h.render(w, r, http.StatusOK, PageMeta{CurrentPage: PageHome}, NewTemplateData().
		With("FeaturedNews", featured).
		With("LatestNews", latest).
		With("GalleryPreview", gallery).
		Build())
}

// About renders the school profile page.
func (h *UIHandlers) About(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, http.StatusOK, PageMeta{Title: "Tentang Kami", PageTitle: "Tentang Kami", CurrentPage: PageAbout}, nil)
}

// NewsList renders published news with category filter and search.
func (h *UIHandlers) NewsList(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	page := pageNumber(q)
	opts := model.NewsListOptions{
		Category: q.Get("category"),
		Q:        q.Get("q"),
		Limit:    newsPageSize,
		Offset:   pageOffset(page, newsPageSize),
	}
	result, err := h.News.ListPublished(r.Context(), opts)
	if err != nil {
		h.serverError(w, r, err)
		return
	}

	data := NewTemplateData().
		With("News", result.Items).
		With("Categories", model.NewsCategories()).
		With("Category", strings.TrimSpace(opts.Category)).
		With("Query", strings.TrimSpace(opts.Q)).
		WithPagination(pagination(r, result))

	// Featured stories lead the unfiltered first page only.
	if page == 1 && opts.Q == "" && (opts.Category == "" || strings.EqualFold(opts.Category, "all")) {
		featured, err := h.News.Featured(r.Context(), homeFeaturedNews)
		if err != nil {
			h.serverError(w, r, err)
			return
		}
		data.With("Featured", featured)
	}
	h.render(w, r, http.StatusOK, PageMeta{Title: "Berita", PageTitle: "Berita Sekolah", CurrentPage: PageNews}, data.Build())
}

// NewsDetail renders one published article and counts the view.
func (h *UIHandlers) NewsDetail(w http.ResponseWriter, r *http.Request) {
	n, err := h.News.View(r.Context(), r.PathValue("id"))
	if err != nil {
		h.failLookup(w, r, err)
		return
	}
	latest, err := h.News.Latest(r.Context(), relatedNews+1)
	if err != nil {
		h.serverError(w, r, err)
		return
	}
	related := make([]*model.News, 0, relatedNews)
	for _, other := range latest {
		if other.ID != n.ID && len(related) < relatedNews {
			related = append(related, other)
		}
	}
	h.render(w, r, http.StatusOK, PageMeta{Title: n.Title, PageTitle: n.Title, CurrentPage: PageNewsDetail},
		NewTemplateData().With("Article", n).With("Related", related).Build())
}

// NewsFeed serves the latest published news as RSS 2.0.
func (h *UIHandlers) NewsFeed(w http.ResponseWriter, r *http.Request) {
	items, err := h.News.Latest(r.Context(), feedItems)
	if err != nil {
		h.logger().ErrorContext(r.Context(), "news feed failed", "error", err)
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	school := h.school()
	feed := &feeds.Feed{
		Title:       "Berita " + school.SchoolName,
		Link:        &feeds.Link{Href: h.absoluteURL(r, "/news")},
		Description: school.SchoolMotto,
		Author:      &feeds.Author{Name: school.SchoolName, Email: school.SchoolEmail},
		Created:     h.now(),
	}
	for _, n := range items {
		link := h.absoluteURL(r, "/news/"+n.ID)
		feed.Items = append(feed.Items, &feeds.Item{
			Id:          link,
			Title:       n.Title,
			Link:        &feeds.Link{Href: link},
			Description: n.Excerpt,
			Author:      &feeds.Author{Name: n.Author},
			Created:     n.Date(),
			Updated:     n.UpdatedAt,
		})
	}
	if len(items) > 0 {
		feed.Created = items[0].Date()
	}

	rss, err := feed.ToRss()
	if err != nil {
		h.logger().ErrorContext(r.Context(), "encode news feed failed", "error", err)
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/rss+xml; charset=utf-8")
	_, _ = w.Write([]byte(rss))
}

// GalleryPage renders the public gallery with category filter.
func (h *UIHandlers) GalleryPage(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	page := pageNumber(q)
	opts := model.GalleryListOptions{
		Category: q.Get("category"),
		Limit:    galleryPageSize,
		Offset:   pageOffset(page, galleryPageSize),
	}
	result, err := h.Gallery.List(r.Context(), opts)
	if err != nil {
		h.serverError(w, r, err)
		return
	}
	h.render(w, r, http.StatusOK, PageMeta{Title: "Galeri", PageTitle: "Galeri Kegiatan", CurrentPage: PageGallery},
		NewTemplateData().
			With("Items", result.Items).
			With("Categories", model.GalleryCategories()).
			With("Category", strings.TrimSpace(opts.Category)).
			WithPagination(pagination(r, result)).
			Build())
}

var contactMeta = PageMeta{Title: "Kontak", PageTitle: "Hubungi Kami", CurrentPage: PageContact}

func contactFormData(in *model.ContactInput) *TemplateDataBuilder {
	return NewTemplateData().
		WithForm(in, FormModeCreate).
		With("Categories", model.ContactCategories())
}

// ContactPage renders the public contact form.
func (h *UIHandlers) ContactPage(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, http.StatusOK, contactMeta, contactFormData(&model.ContactInput{}).Build())
}

// ContactSubmit stores a visitor's message and shows the WhatsApp forward link.
// Submissions are rate limited per client address.
func (h *UIHandlers) ContactSubmit(w http.ResponseWriter, r *http.Request) {
	in := &model.ContactInput{
		Name:     r.FormValue("name"),
		Phone:    r.FormValue("phone"),
		Email:    r.FormValue("email"),
		Subject:  r.FormValue("subject"),
		Message:  r.FormValue("message"),
		Category: model.ContactCategory(r.FormValue("category")),
	}

	if h.Limiter != nil && !h.Limiter.Allow(clientIP(r)) {
		w.Header().Set("Retry-After", "60")
		h.render(w, r, http.StatusTooManyRequests, contactMeta, contactFormData(in).
			WithError("Terlalu banyak pesan dikirim. Silakan coba lagi beberapa saat lagi.").
			Build())
		return
	}

	res, err := h.Contacts.Submit(r.Context(), in)
	if err != nil {
		h.RenderFormError(w, r, ErrorOpts{Err: err, Meta: contactMeta, Data: contactFormData(in)})
		return
	}
	h.render(w, r, http.StatusOK, contactMeta, contactFormData(&model.ContactInput{}).
		With("Submitted", res.Contact).
		With("WhatsAppURL", res.WhatsAppURL).
		Build())
}
