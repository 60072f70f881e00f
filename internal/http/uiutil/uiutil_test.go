package uiutil

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFormatDate(t *testing.T) {
	ts := time.Date(2024, time.January, 14, 20, 30, 0, 0, time.UTC) // 15 Jan 03:30 WIB
	assert.Equal(t, "15 Januari 2024", FormatDate(ts))
	assert.Equal(t, "15 Januari 2024, 03.30 WIB", FormatDateTime(ts))
	assert.Empty(t, FormatDate(time.Time{}))
}

func TestFriendlyRelativeTime(t *testing.T) {
	now := time.Date(2024, time.March, 10, 12, 0, 0, 0, Jakarta)
	tests := []struct {
		at   time.Time
		want string
	}{
		{now.Add(30 * time.Second), "baru saja"},
		{now.Add(-10 * time.Second), "baru saja"},
		{now.Add(-5 * time.Minute), "5 menit yang lalu"},
		{now.Add(-3 * time.Hour), "3 jam yang lalu"},
		{now.Add(-49 * time.Hour), "2 hari yang lalu"},
		{now.Add(-10 * 24 * time.Hour), "29 Februari 2024"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, FriendlyRelativeTime(tt.at, now))
	}
}

func TestFormatThousands(t *testing.T) {
	assert.Equal(t, "0", FormatThousands(0))
	assert.Equal(t, "999", FormatThousands(999))
	assert.Equal(t, "1.000", FormatThousands(1000))
	assert.Equal(t, "1.234.567", FormatThousands(1234567))
	assert.Equal(t, "-12.500", FormatThousands(-12500))
}

func TestTruncateWithEllipsis(t *testing.T) {
	assert.Equal(t, "pendek", TruncateWithEllipsis("pendek", 10))
	assert.Equal(t, "Upacara…", TruncateWithEllipsis("Upacara Bendera", 9))
	assert.Equal(t, "…", TruncateWithEllipsis("abc", 1))
}
