package model

import (
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"

	apperrors "github.com/sman1jakarta/portal/internal/errors"
)

// emailPattern is the loose address check used by every console form.
var emailPattern = regexp.MustCompile(`\S+@\S+\.\S+`)

// whatsAppPattern accepts Indonesian mobile numbers in local or international form.
var whatsAppPattern = regexp.MustCompile(`^(\+62|62|0)8[1-9][0-9]{6,9}$`)

// textRule describes a required free-text field with length bounds.
type textRule struct {
	Field    string
	Label    string
	Min, Max int
}

// check records at most one error for v under r.Field. Messages follow the
// console's "<Label> harus diisi / minimal / maksimal" wording.
func (r textRule) check(fe apperrors.FieldErrors, v string) {
	v = strings.TrimSpace(v)
	n := utf8.RuneCountInString(v)
	switch {
	case v == "":
		fe.Add(r.Field, r.Label+" harus diisi")
	case r.Min > 0 && n < r.Min:
		fe.Add(r.Field, r.Label+" minimal "+strconv.Itoa(r.Min)+" karakter")
	case r.Max > 0 && n > r.Max:
		fe.Add(r.Field, r.Label+" maksimal "+strconv.Itoa(r.Max)+" karakter")
	}
}

func checkEmail(fe apperrors.FieldErrors, field, v string) {
	v = strings.TrimSpace(v)
	switch {
	case v == "":
		fe.Add(field, "Email harus diisi")
	case !emailPattern.MatchString(v):
		fe.Add(field, "Format email tidak valid")
	}
}

func checkChoice[T ~string](fe apperrors.FieldErrors, field, label string, v T, valid bool) {
	switch {
	case strings.TrimSpace(string(v)) == "":
		fe.Add(field, label+" harus dipilih")
	case !valid:
		fe.Add(field, label+" tidak valid")
	}
}

// IsValidEmail reports whether s passes the console email check.
func IsValidEmail(s string) bool {
	return emailPattern.MatchString(strings.TrimSpace(s))
}

// clampPage normalizes limit/offset pairs used by list options.
func clampPage(limit, offset, def, maxLimit int) (int, int) {
	if limit <= 0 {
		limit = def
	}
	if limit > maxLimit {
		limit = maxLimit
	}
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}
