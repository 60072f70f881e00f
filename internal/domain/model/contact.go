package model

import (
	"strings"
	"time"

	apperrors "github.com/sman1jakarta/portal/internal/errors"
)

// ContactCategory is the topic a visitor picks on the contact form.
type ContactCategory string

const (
	ContactCategoryPendaftaran     ContactCategory = "Pendaftaran"
	ContactCategoryAkademik        ContactCategory = "Akademik"
	ContactCategoryAdministrasi    ContactCategory = "Administrasi"
	ContactCategoryFasilitas       ContactCategory = "Fasilitas"
	ContactCategoryEkstrakurikuler ContactCategory = "Ekstrakurikuler"
	ContactCategoryLainnya         ContactCategory = "Lainnya"
)

// ContactCategories returns the selectable topics in display order.
func ContactCategories() []ContactCategory {
	return []ContactCategory{
		ContactCategoryPendaftaran, ContactCategoryAkademik, ContactCategoryAdministrasi,
		ContactCategoryFasilitas, ContactCategoryEkstrakurikuler, ContactCategoryLainnya,
	}
}

// Valid reports whether c is a known topic.
func (c ContactCategory) Valid() bool {
	for _, v := range ContactCategories() {
		if v == c {
			return true
		}
	}
	return false
}

// ContactPriority ranks messages in the console.
type ContactPriority string

const (
	ContactPriorityRendah ContactPriority = "Rendah"
	ContactPrioritySedang ContactPriority = "Sedang"
	ContactPriorityTinggi ContactPriority = "Tinggi"
	ContactPriorityUrgent ContactPriority = "Urgent"
)

// ContactPriorities returns all priorities from lowest to highest.
func ContactPriorities() []ContactPriority {
	return []ContactPriority{ContactPriorityRendah, ContactPrioritySedang, ContactPriorityTinggi, ContactPriorityUrgent}
}

// Valid reports whether p is a known priority.
func (p ContactPriority) Valid() bool {
	for _, v := range ContactPriorities() {
		if v == p {
			return true
		}
	}
	return false
}

// ContactStatus tracks how far a message has been handled.
type ContactStatus string

const (
	ContactStatusPending   ContactStatus = "Pending"
	ContactStatusResponded ContactStatus = "Responded"
	ContactStatusResolved  ContactStatus = "Resolved"
)

// ContactStatuses returns the statuses in workflow order.
func ContactStatuses() []ContactStatus {
	return []ContactStatus{ContactStatusPending, ContactStatusResponded, ContactStatusResolved}
}

// Valid reports whether s is a known status.
func (s ContactStatus) Valid() bool {
	switch s {
	case ContactStatusPending, ContactStatusResponded, ContactStatusResolved:
		return true
	default:
		return false
	}
}

// Contact is a message sent through the contact form or recorded by an admin.
type Contact struct {
	ID        string          `json:"id"         db:"id"`
	Name      string          `json:"name"       db:"name"`
	Phone     string          `json:"phone"      db:"phone"`
	Email     string          `json:"email"      db:"email"`
	Subject   string          `json:"subject"    db:"subject"`
	Message   string          `json:"message"    db:"message"`
	Category  ContactCategory `json:"category"   db:"category"`
	Priority  ContactPriority `json:"priority"   db:"priority"`
	Status    ContactStatus   `json:"status"     db:"status"`
	CreatedAt time.Time       `json:"created_at" db:"created_at"`
	UpdatedAt time.Time       `json:"updated_at" db:"updated_at"`
}

// ContactInput carries the fields of a contact message.
type ContactInput struct {
	Name     string          `json:"name"`
	Phone    string          `json:"phone"`
	Email    string          `json:"email"`
	Subject  string          `json:"subject"`
	Message  string          `json:"message"`
	Category ContactCategory `json:"category"`
	Priority ContactPriority `json:"priority"`
}

// Normalize trims text fields and strips spaces and dashes from the phone number.
func (r *ContactInput) Normalize() {
	r.Name = strings.TrimSpace(r.Name)
	r.Phone = strings.NewReplacer(" ", "", "-", "").Replace(strings.TrimSpace(r.Phone))
	r.Email = strings.TrimSpace(r.Email)
	r.Subject = strings.TrimSpace(r.Subject)
	r.Message = strings.TrimSpace(r.Message)
	r.Category = ContactCategory(strings.TrimSpace(string(r.Category)))
	r.Priority = ContactPriority(strings.TrimSpace(string(r.Priority)))
}

// Validate normalizes the input and checks every field, priority included.
func (r *ContactInput) Validate() error {
	r.Normalize()
	fe := apperrors.FieldErrors{}
	textRule{Field: "name", Label: "Nama", Min: 2, Max: 100}.check(fe, r.Name)
	switch {
	case r.Phone == "":
		fe.Add("phone", "Nomor WhatsApp harus diisi")
	case !whatsAppPattern.MatchString(r.Phone):
		fe.Add("phone", "Format nomor WhatsApp tidak valid")
	}
	checkEmail(fe, "email", r.Email)
	textRule{Field: "subject", Label: "Subjek", Min: 5, Max: 200}.check(fe, r.Subject)
	textRule{Field: "message", Label: "Pesan", Min: 10, Max: 1000}.check(fe, r.Message)
	checkChoice(fe, "category", "Kategori", r.Category, r.Category.Valid())
	checkChoice(fe, "priority", "Prioritas", r.Priority, r.Priority.Valid())
	return fe.Err()
}

// ContactListOptions controls filtering and paging of messages.
type ContactListOptions struct {
	Status ContactStatus // empty matches every status
	Limit  int
	Offset int
}

// Normalize clamps paging.
func (o *ContactListOptions) Normalize() {
	o.Limit, o.Offset = clampPage(o.Limit, o.Offset, 100, 1000)
}

// ContactStatusCounts holds the number of messages per status.
type ContactStatusCounts map[ContactStatus]int

// Total sums every status.
func (c ContactStatusCounts) Total() int {
	total := 0
	for _, n := range c {
		total += n
	}
	return total
}
