// Package uiutil formats values for the Indonesian-language pages.
package uiutil

import (
	"strconv"
	"strings"
	"time"
)

// Jakarta is the school's local time zone (WIB).
var Jakarta = time.FixedZone("WIB", 7*60*60)

var monthNames = [...]string{
	"Januari", "Februari", "Maret", "April", "Mei", "Juni",
	"Juli", "Agustus", "September", "Oktober", "November", "Desember",
}

// FormatDate renders t as "2 Januari 2006" in Jakarta time.
func FormatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	t = t.In(Jakarta)
	return strconv.Itoa(t.Day()) + " " + monthNames[t.Month()-1] + " " + strconv.Itoa(t.Year())
}

// FormatDateTime renders t as "2 Januari 2006, 15.04 WIB".
func FormatDateTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return FormatDate(t) + ", " + t.In(Jakarta).Format("15.04") + " WIB"
}

// FriendlyRelativeTime describes how long ago t occurred relative to now.
// Future times read as "baru saja"; anything older than a week shows the date.
func FriendlyRelativeTime(t, now time.Time) string {
	diff := now.Sub(t)
	switch {
	case diff < time.Minute:
		return "baru saja"
	case diff < time.Hour:
		return strconv.Itoa(int(diff.Minutes())) + " menit yang lalu"
	case diff < 24*time.Hour:
		return strconv.Itoa(int(diff.Hours())) + " jam yang lalu"
	case diff < 7*24*time.Hour:
		return strconv.Itoa(int(diff.Hours()/24)) + " hari yang lalu"
	default:
		return FormatDate(t)
	}
}

// FormatThousands groups digits with dots, the Indonesian convention.
func FormatThousands(n int64) string {
	neg := n < 0
	if neg {
		n = -n
	}
	s := strconv.FormatInt(n, 10)
	if len(s) > 3 {
		var b strings.Builder
		head := len(s) % 3
		if head == 0 {
			head = 3
		}
		b.WriteString(s[:head])
		for i := head; i < len(s); i += 3 {
			b.WriteByte('.')
			b.WriteString(s[i : i+3])
		}
		s = b.String()
	}
	if neg {
		return "-" + s
	}
	return s
}

// TruncateWithEllipsis shortens text to the provided rune limit and appends an ellipsis when truncated.
func TruncateWithEllipsis(text string, limit int) string {
	runes := []rune(text)
	if len(runes) <= limit {
		return text
	}
	if limit <= 1 {
		return "…"
	}
	return strings.TrimSpace(string(runes[:limit-1])) + "…"
}
