// Package core provides the template functions shared by every page.
package core

import (
	"bytes"
	"encoding/json"
	"errors"
	"html/template"
	"strings"
	"time"

	"github.com/sman1jakarta/portal/internal/domain/model"
	"github.com/sman1jakarta/portal/internal/http/uiutil"
)

// Deps holds optional dependencies for constructing the core template func map.
type Deps struct {
	Template           **template.Template
	ContentTemplateFor func(string) string
	Now                func() time.Time
}

// Funcs returns a template.FuncMap containing helpers that are broadly useful across templates.
func Funcs(deps Deps) template.FuncMap {
	now := deps.Now
	if now == nil {
		now = time.Now
	}
	funcs := template.FuncMap{
		"sectionTmpl":  deps.ContentTemplateFor,
		"date":         timeFunc(uiutil.FormatDate),
		"dateTime":     timeFunc(uiutil.FormatDateTime),
		"ago":          timeFunc(func(t time.Time) string { return uiutil.FriendlyRelativeTime(t, now()) }),
		"isoTime":      timeFunc(func(t time.Time) string { return t.UTC().Format(time.RFC3339) }),
		"thousands":    thousands,
		"truncateText": TruncateText,
		"paragraphs":   Paragraphs,
		"add":          func(a, b int) int { return a + b },
		"sub":          func(a, b int) int { return a - b },
		"seq":          seq,

		"newsStatusLabel":    newsStatusLabel,
		"newsStatusClass":    newsStatusClass,
		"contactStatusLabel": contactStatusLabel,
		"contactStatusClass": contactStatusClass,
		"priorityClass":      priorityClass,
	}

	addRenderFuncs(funcs, deps)
	return funcs
}

func addRenderFuncs(funcs template.FuncMap, deps Deps) {
	funcs["renderSection"] = func(page string, data any) (template.HTML, error) {
		if deps.Template == nil || *deps.Template == nil {
			return "", errors.New("template not initialized")
		}
		var buf bytes.Buffer
		if err := (*deps.Template).ExecuteTemplate(&buf, deps.ContentTemplateFor(page), data); err != nil {
			return "", err
		}
		// #nosec G203 - output of our own html/template set; values were escaped during ExecuteTemplate.
		return template.HTML(buf.String()), nil
	}

	funcs["toJSON"] = func(v any) (string, error) {
		b, err := json.Marshal(v)
		if err != nil {
			return "", err
		}
		return string(b), nil
	}
}

func timeFunc(format func(time.Time) string) func(any) string {
	return func(ts any) string {
		var t time.Time
		switch v := ts.(type) {
		case time.Time:
			t = v
		case *time.Time:
			if v != nil {
				t = *v
			}
		default:
			return ""
		}
		if t.IsZero() {
			return ""
		}
		return format(t)
	}
}

func thousands(v any) string {
	switch n := v.(type) {
	case int:
		return uiutil.FormatThousands(int64(n))
	case int64:
		return uiutil.FormatThousands(n)
	case int32:
		return uiutil.FormatThousands(int64(n))
	default:
		return ""
	}
}

// seq returns 1..n for page links.
func seq(n int) []int {
	out := make([]int, 0, max(n, 0))
	for i := 1; i <= n; i++ {
		out = append(out, i)
	}
	return out
}

// TruncateText truncates a string to a maximum number of runes, adding an ellipsis.
func TruncateText(s string, maxLen int) string {
	if maxLen <= 0 {
		return s
	}
	return uiutil.TruncateWithEllipsis(s, maxLen)
}

// Paragraphs splits article text on blank lines.
func Paragraphs(s string) []string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	var out []string
	for _, p := range strings.Split(s, "\n\n") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func newsStatusLabel(s model.NewsStatus) string {
	switch s {
	case model.NewsStatusPublished:
		return "Dipublikasikan"
	case model.NewsStatusArchived:
		return "Diarsipkan"
	default:
		return "Draft"
	}
}

func newsStatusClass(s model.NewsStatus) string {
	switch s {
	case model.NewsStatusPublished:
		return "badge-success"
	case model.NewsStatusArchived:
		return "badge-secondary"
	default:
		return "badge-warning"
	}
}

func contactStatusLabel(s model.ContactStatus) string {
	switch s {
	case model.ContactStatusResponded:
		return "Direspons"
	case model.ContactStatusResolved:
		return "Selesai"
	default:
		return "Menunggu"
	}
}

func contactStatusClass(s model.ContactStatus) string {
	switch s {
	case model.ContactStatusResponded:
		return "badge-info"
	case model.ContactStatusResolved:
		return "badge-success"
	default:
		return "badge-warning"
	}
}

func priorityClass(p model.ContactPriority) string {
	switch p {
	case model.ContactPriorityUrgent:
		return "badge-danger"
	case model.ContactPriorityTinggi:
		return "badge-warning"
	case model.ContactPriorityRendah:
		return "badge-light"
	default:
		return "badge-info"
	}
}
