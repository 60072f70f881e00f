package model

import (
	"strings"
	"time"

	apperrors "github.com/sman1jakarta/portal/internal/errors"
)

// NewsCategory groups articles on the news page.
type NewsCategory string

const (
	NewsCategoryPrestasi   NewsCategory = "Prestasi"
	NewsCategoryAkademik   NewsCategory = "Akademik"
	NewsCategoryKegiatan   NewsCategory = "Kegiatan"
	NewsCategoryPengumuman NewsCategory = "Pengumuman"
	NewsCategoryFasilitas  NewsCategory = "Fasilitas"
)

// NewsCategories returns the selectable categories in display order.
func NewsCategories() []NewsCategory {
	return []NewsCategory{
		NewsCategoryPrestasi, NewsCategoryAkademik, NewsCategoryKegiatan,
		NewsCategoryPengumuman, NewsCategoryFasilitas,
	}
}

// Valid reports whether c is a known category.
func (c NewsCategory) Valid() bool {
	for _, v := range NewsCategories() {
		if v == c {
			return true
		}
	}
	return false
}

// NewsStatus is the publication state of an article.
type NewsStatus string

const (
	NewsStatusDraft     NewsStatus = "draft"
	NewsStatusPublished NewsStatus = "published"
	NewsStatusArchived  NewsStatus = "archived"
)

// NewsStatuses returns all statuses in display order.
func NewsStatuses() []NewsStatus {
	return []NewsStatus{NewsStatusDraft, NewsStatusPublished, NewsStatusArchived}
}

// Valid reports whether s is a supported status.
func (s NewsStatus) Valid() bool {
	switch s {
	case NewsStatusDraft, NewsStatusPublished, NewsStatusArchived:
		return true
	default:
		return false
	}
}

// News is a published or draft article.
type News struct {
	ID          string       `json:"id"                     db:"id"`
	Title       string       `json:"title"                  db:"title"`
	Excerpt     string       `json:"excerpt"                db:"excerpt"`
	Content     string       `json:"content"                db:"content"`
	Category    NewsCategory `json:"category"               db:"category"`
	Author      string       `json:"author"                 db:"author"`
	Status      NewsStatus   `json:"status"                 db:"status"`
	ImageURL    string       `json:"image_url"              db:"image_url"`
	Views       int          `json:"views"                  db:"views"`
	Featured    bool         `json:"featured"               db:"featured"`
	PublishedAt *time.Time   `json:"published_at,omitempty" db:"published_at"`
	CreatedAt   time.Time    `json:"created_at"             db:"created_at"`
	UpdatedAt   time.Time    `json:"updated_at"             db:"updated_at"`
}

// Date returns the date shown next to the article: the publication time when set.
func (n *News) Date() time.Time {
	if n.PublishedAt != nil {
		return *n.PublishedAt
	}
	return n.CreatedAt
}

// NewsInput carries the editable fields of an article for create and update.
type NewsInput struct {
	Title    string       `json:"title"`
	Excerpt  string       `json:"excerpt"`
	Content  string       `json:"content"`
	Category NewsCategory `json:"category"`
	Author   string       `json:"author"`
	Status   NewsStatus   `json:"status"`
	ImageURL string       `json:"image_url,omitempty"`
	Featured bool         `json:"featured"`
}

// Normalize trims text fields. An empty status defaults to draft.
func (r *NewsInput) Normalize() {
	r.Title = strings.TrimSpace(r.Title)
	r.Excerpt = strings.TrimSpace(r.Excerpt)
	r.Content = strings.TrimSpace(r.Content)
	r.Author = strings.TrimSpace(r.Author)
	r.ImageURL = strings.TrimSpace(r.ImageURL)
	r.Category = NewsCategory(strings.TrimSpace(string(r.Category)))
	r.Status = NewsStatus(strings.ToLower(strings.TrimSpace(string(r.Status))))
	if r.Status == "" {
		r.Status = NewsStatusDraft
	}
}

// Validate normalizes the input and checks every field.
func (r *NewsInput) Validate() error {
	r.Normalize()
	fe := apperrors.FieldErrors{}
	textRule{Field: "title", Label: "Judul", Min: 5, Max: 200}.check(fe, r.Title)
	textRule{Field: "excerpt", Label: "Ringkasan", Min: 20, Max: 300}.check(fe, r.Excerpt)
	textRule{Field: "content", Label: "Konten", Min: 50, Max: 5000}.check(fe, r.Content)
	checkChoice(fe, "category", "Kategori", r.Category, r.Category.Valid())
	textRule{Field: "author", Label: "Nama penulis", Min: 2, Max: 100}.check(fe, r.Author)
	checkChoice(fe, "status", "Status", r.Status, r.Status.Valid())
	return fe.Err()
}

// NewsListOptions controls filtering and paging of articles.
// Category "all" or empty matches every category; Q matches title or excerpt
// case-insensitively.
type NewsListOptions struct {
	Category     string
	Q            string
	Status       NewsStatus // empty matches any status
	FeaturedOnly bool
	Limit        int
	Offset       int
}

// Normalize trims filters and clamps paging.
func (o *NewsListOptions) Normalize() {
	o.Category = strings.TrimSpace(o.Category)
	if strings.EqualFold(o.Category, "all") {
		o.Category = ""
	}
	o.Q = strings.TrimSpace(o.Q)
	o.Limit, o.Offset = clampPage(o.Limit, o.Offset, 50, 500)
}

// Matches reports whether n passes the filters (paging excluded).
func (o NewsListOptions) Matches(n *News) bool {
	if o.Status != "" && n.Status != o.Status {
		return false
	}
	if o.FeaturedOnly && !n.Featured {
		return false
	}
	if o.Category != "" && !strings.EqualFold(o.Category, "all") &&
		!strings.EqualFold(string(n.Category), o.Category) {
		return false
	}
	if q := strings.ToLower(strings.TrimSpace(o.Q)); q != "" {
		return strings.Contains(strings.ToLower(n.Title), q) ||
			strings.Contains(strings.ToLower(n.Excerpt), q)
	}
	return true
}
