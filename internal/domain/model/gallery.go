package model

import (
	"strings"
	"time"

	apperrors "github.com/sman1jakarta/portal/internal/errors"
)

// GalleryCategory groups photos on the gallery page.
type GalleryCategory string

const (
	GalleryCategoryKegiatanRutin   GalleryCategory = "Kegiatan Rutin"
	GalleryCategoryKegiatanKhusus  GalleryCategory = "Kegiatan Khusus"
	GalleryCategoryPrestasi        GalleryCategory = "Prestasi"
	GalleryCategoryFasilitas       GalleryCategory = "Fasilitas"
	GalleryCategoryEkstrakurikuler GalleryCategory = "Ekstrakurikuler"
)

// GalleryCategories returns the selectable categories in display order.
func GalleryCategories() []GalleryCategory {
	return []GalleryCategory{
		GalleryCategoryKegiatanRutin, GalleryCategoryKegiatanKhusus, GalleryCategoryPrestasi,
		GalleryCategoryFasilitas, GalleryCategoryEkstrakurikuler,
	}
}

// Valid reports whether c is a known category.
func (c GalleryCategory) Valid() bool {
	for _, v := range GalleryCategories() {
		if v == c {
			return true
		}
	}
	return false
}

// GalleryItem is one photo in the school gallery.
type GalleryItem struct {
	ID          string          `json:"id"          db:"id"`
	Title       string          `json:"title"       db:"title"`
	Description string          `json:"description" db:"description"`
	Category    GalleryCategory `json:"category"    db:"category"`
	ImageURL    string          `json:"image_url"   db:"image_url"`
	UploadedBy  string          `json:"uploaded_by" db:"uploaded_by"`
	Featured    bool            `json:"featured"    db:"featured"`
	CreatedAt   time.Time       `json:"created_at"  db:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"  db:"updated_at"`
}

// GalleryInput carries the editable fields of a gallery item.
type GalleryInput struct {
	Title       string          `json:"title"`
	Description string          `json:"description"`
	Category    GalleryCategory `json:"category"`
	ImageURL    string          `json:"image_url"`
	UploadedBy  string          `json:"uploaded_by"`
	Featured    bool            `json:"featured"`
}

// Normalize trims text fields.
func (r *GalleryInput) Normalize() {
	r.Title = strings.TrimSpace(r.Title)
	r.Description = strings.TrimSpace(r.Description)
	r.Category = GalleryCategory(strings.TrimSpace(string(r.Category)))
	r.ImageURL = strings.TrimSpace(r.ImageURL)
	r.UploadedBy = strings.TrimSpace(r.UploadedBy)
}

// Validate normalizes the input and checks every field. The image is checked
// separately by the upload path; an item may be saved before its photo.
func (r *GalleryInput) Validate() error {
	r.Normalize()
	fe := apperrors.FieldErrors{}
	textRule{Field: "title", Label: "Judul", Min: 3, Max: 100}.check(fe, r.Title)
	textRule{Field: "description", Label: "Deskripsi", Min: 10, Max: 500}.check(fe, r.Description)
	checkChoice(fe, "category", "Kategori", r.Category, r.Category.Valid())
	textRule{Field: "uploaded_by", Label: "Nama uploader", Min: 2, Max: 50}.check(fe, r.UploadedBy)
	return fe.Err()
}

// GalleryListOptions controls filtering and paging of gallery items.
type GalleryListOptions struct {
	Category     string
	FeaturedOnly bool
	Limit        int
	Offset       int
}

// Normalize trims filters and clamps paging.
func (o *GalleryListOptions) Normalize() {
	o.Category = strings.TrimSpace(o.Category)
	if strings.EqualFold(o.Category, "all") {
		o.Category = ""
	}
	o.Limit, o.Offset = clampPage(o.Limit, o.Offset, 60, 500)
}

// Matches reports whether item passes the filters (paging excluded).
func (o GalleryListOptions) Matches(item *GalleryItem) bool {
	if o.FeaturedOnly && !item.Featured {
		return false
	}
	if o.Category != "" && !strings.EqualFold(o.Category, "all") &&
		!strings.EqualFold(string(item.Category), o.Category) {
		return false
	}
	return true
}
