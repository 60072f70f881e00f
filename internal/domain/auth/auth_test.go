package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRole_Label(t *testing.T) {
	assert.Equal(t, "Administrator", RoleAdmin.Label())
	assert.Equal(t, "Kepala Sekolah", RoleKepalaSekolah.Label())
	assert.Equal(t, "Guru", RoleGuru.Label())
	assert.Equal(t, "Staff", RoleStaff.Label())
	assert.Equal(t, "Administrator", Role("superuser").Label())
	assert.False(t, Role("superuser").Valid())
	assert.True(t, RoleKepalaSekolah.CanManageSite())
	assert.False(t, RoleGuru.CanManageSite())
}

func TestSession_Expired(t *testing.T) {
	now := time.Date(2024, 12, 15, 10, 0, 0, 0, time.UTC)
	assert.False(t, Session{}.Expired(now))
	assert.False(t, Session{ExpiresAt: now.Add(time.Minute)}.Expired(now))
	assert.True(t, Session{ExpiresAt: now}.Expired(now))
}

func TestRecordRoundTrip(t *testing.T) {
	in := Session{
		ID:              "abc",
		IsAuthenticated: true,
		Username:        "Administrator",
		Email:           "admin@sman1jakarta.sch.id",
		Role:            RoleAdmin,
		LoginTime:       time.Date(2024, 12, 15, 10, 0, 0, 0, time.UTC),
	}
	raw, err := EncodeRecord(in)
	require.NoError(t, err)
	assert.NotContains(t, string(raw), "expiresAt")

	out, err := DecodeRecord(raw)
	require.NoError(t, err)
	assert.Equal(t, in, out)
}

func TestDecodeRecord_Corrupt(t *testing.T) {
	cases := map[string]string{
		"empty":             "",
		"not json":          "{not json",
		"array":             `[1,2,3]`,
		"string":            `"admin"`,
		"null":              `null`,
		"missing flag":      `{"id":"abc","username":"Administrator"}`,
		"flag false":        `{"id":"abc","isAuthenticated":false}`,
		"flag wrong type":   `{"id":"abc","isAuthenticated":"true"}`,
		"missing id":        `{"isAuthenticated":true}`,
		"bad login time":    `{"id":"abc","isAuthenticated":true,"loginTime":"yesterday"}`,
		"truncated payload": `{"id":"abc","isAuthenticated":tr`,
	}
	for name, raw := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := DecodeRecord([]byte(raw))
			assert.ErrorIs(t, err, ErrCorruptRecord)
		})
	}
}
