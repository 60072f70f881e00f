// Package settings defines the school profile shown across the site and the
// rules for merging partial updates onto it.
package settings

import (
	"encoding/json"
	"net/url"
	"regexp"
	"strings"
	"unicode/utf8"

	apperrors "github.com/sman1jakarta/portal/internal/errors"
)

// DefaultLogoURL is the logo restored by a logo reset.
const DefaultLogoURL = "/images/logo-school.png"

// SchoolSettings is the complete school profile. A value of this type is always
// complete: every read path merges onto Defaults.
type SchoolSettings struct {
	SchoolName        string `json:"schoolName"`
	SchoolShortName   string `json:"schoolShortName"`
	SchoolAddress     string `json:"schoolAddress"`
	SchoolPhone       string `json:"schoolPhone"`
	SchoolEmail       string `json:"schoolEmail"`
	SchoolWebsite     string `json:"schoolWebsite"`
	PrincipalName     string `json:"principalName"`
	SchoolMotto       string `json:"schoolMotto"`
	SchoolDescription string `json:"schoolDescription"`
	LogoURL           string `json:"logoUrl"`
}

// Defaults returns the hard-coded school profile.
func Defaults() SchoolSettings {
	return SchoolSettings{
		SchoolName:      "SMA Negeri 1 Jakarta",
		SchoolShortName: "SMAN 1 Jakarta",
		SchoolAddress:   "Jl. Pendidikan No. 123, Menteng, Jakarta Pusat, DKI Jakarta 10310",
		SchoolPhone:     "021-12345678",
		SchoolEmail:     "info@sman1jakarta.sch.id",
		SchoolWebsite:   "https://www.sman1jakarta.sch.id",
		PrincipalName:   "Dr. Ahmad Suryadi, M.Pd",
		SchoolMotto:     "Unggul dalam Prestasi, Berkarakter, dan Berwawasan Global",
		SchoolDescription: "SMA Negeri 1 Jakarta adalah sekolah menengah atas negeri yang berkomitmen " +
			"untuk memberikan pendidikan berkualitas tinggi dengan mengembangkan potensi akademik dan karakter siswa.",
		LogoURL: DefaultLogoURL,
	}
}

// Patch is a partial update. Nil fields are left unchanged.
type Patch struct {
	SchoolName        *string `json:"schoolName,omitempty"`
	SchoolShortName   *string `json:"schoolShortName,omitempty"`
	SchoolAddress     *string `json:"schoolAddress,omitempty"`
	SchoolPhone       *string `json:"schoolPhone,omitempty"`
	SchoolEmail       *string `json:"schoolEmail,omitempty"`
	SchoolWebsite     *string `json:"schoolWebsite,omitempty"`
	PrincipalName     *string `json:"principalName,omitempty"`
	SchoolMotto       *string `json:"schoolMotto,omitempty"`
	SchoolDescription *string `json:"schoolDescription,omitempty"`
	LogoURL           *string `json:"logoUrl,omitempty"`
}

// IsEmpty reports whether the patch changes nothing.
func (p Patch) IsEmpty() bool {
	return p == Patch{}
}

func (p *Patch) ptrs() []**string {
	return []**string{
		&p.SchoolName, &p.SchoolShortName, &p.SchoolAddress, &p.SchoolPhone, &p.SchoolEmail,
		&p.SchoolWebsite, &p.PrincipalName, &p.SchoolMotto, &p.SchoolDescription, &p.LogoURL,
	}
}

func (s *SchoolSettings) ptrs() []*string {
	return []*string{
		&s.SchoolName, &s.SchoolShortName, &s.SchoolAddress, &s.SchoolPhone, &s.SchoolEmail,
		&s.SchoolWebsite, &s.PrincipalName, &s.SchoolMotto, &s.SchoolDescription, &s.LogoURL,
	}
}

// Apply returns s with every non-nil patch field overwritten.
func (s SchoolSettings) Apply(p Patch) SchoolSettings {
	out := s
	dst := out.ptrs()
	for i, src := range p.ptrs() {
		if *src != nil {
			*dst[i] = **src
		}
	}
	return out
}

// AsPatch converts s into a patch that sets every field.
func (s SchoolSettings) AsPatch() Patch {
	var p Patch
	dst := p.ptrs()
	for i, v := range s.ptrs() {
		val := *v
		*dst[i] = &val
	}
	return p
}

// Decode parses a persisted settings document onto Defaults. Keys missing
// from the document (or null) keep the default; stored values win, blank
// ones included. Unknown keys are ignored.
func Decode(raw []byte) (SchoolSettings, error) {
	s := Defaults()
	if err := json.Unmarshal(raw, &s); err != nil {
		return Defaults(), err
	}
	return s, nil
}

// Encode serializes the full settings document for persistence.
func Encode(s SchoolSettings) ([]byte, error) {
	return json.Marshal(s)
}

var phonePattern = regexp.MustCompile(`^(\+62|62|0)[0-9]{8,13}$`)

// emailPattern mirrors the loose check the admin forms use.
var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

type lengthRule struct {
	field    string
	value    string
	required string
	min, max int
	minMsg   string
	maxMsg   string
}

// Validate checks the editable profile fields and returns field errors keyed
// by their JSON names.
func (s SchoolSettings) Validate() error {
	fe := apperrors.FieldErrors{}
	rules := []lengthRule{
		{"schoolName", s.SchoolName, "Nama sekolah harus diisi", 5, 100,
			"Nama sekolah minimal 5 karakter", "Nama sekolah maksimal 100 karakter"},
		{"schoolShortName", s.SchoolShortName, "Nama singkat sekolah harus diisi", 3, 20,
			"Nama singkat minimal 3 karakter", "Nama singkat maksimal 20 karakter"},
		{"schoolAddress", s.SchoolAddress, "Alamat sekolah harus diisi", 10, 200,
			"Alamat minimal 10 karakter", "Alamat maksimal 200 karakter"},
		{"principalName", s.PrincipalName, "Nama kepala sekolah harus diisi", 3, 100,
			"Nama kepala sekolah minimal 3 karakter", "Nama kepala sekolah maksimal 100 karakter"},
		{"schoolMotto", s.SchoolMotto, "Motto sekolah harus diisi", 5, 200,
			"Motto minimal 5 karakter", "Motto maksimal 200 karakter"},
		{"schoolDescription", s.SchoolDescription, "Deskripsi sekolah harus diisi", 20, 1000,
			"Deskripsi minimal 20 karakter", "Deskripsi maksimal 1000 karakter"},
	}
	for _, r := range rules {
		v := strings.TrimSpace(r.value)
		n := utf8.RuneCountInString(v)
		switch {
		case v == "":
			fe.Add(r.field, r.required)
		case n < r.min:
			fe.Add(r.field, r.minMsg)
		case n > r.max:
			fe.Add(r.field, r.maxMsg)
		}
	}

	switch phone := strings.TrimSpace(s.SchoolPhone); {
	case phone == "":
		fe.Add("schoolPhone", "Nomor telepon harus diisi")
	case !phonePattern.MatchString(strings.ReplaceAll(phone, "-", "")):
		fe.Add("schoolPhone", "Format nomor telepon tidak valid")
	}

	switch email := strings.TrimSpace(s.SchoolEmail); {
	case email == "":
		fe.Add("schoolEmail", "Email sekolah harus diisi")
	case !emailPattern.MatchString(email):
		fe.Add("schoolEmail", "Format email tidak valid")
	}

	switch site := strings.TrimSpace(s.SchoolWebsite); {
	case site == "":
		fe.Add("schoolWebsite", "Website sekolah harus diisi")
	case !validWebsite(site):
		fe.Add("schoolWebsite", "Format website tidak valid")
	}

	return fe.Err()
}

func validWebsite(s string) bool {
	u, err := url.Parse(s)
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}
