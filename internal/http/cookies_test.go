package httpx

import (
	"crypto/tls"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainauth "github.com/sman1jakarta/portal/internal/domain/auth"
)

func TestSafeRedirectPath(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"", DashboardPath},
		{"/admin/news?page=2", "/admin/news?page=2"},
		{"https://evil.example/", DashboardPath},
		{"//evil.example", DashboardPath},
		{`/\evil.example`, DashboardPath},
		{"admin/news", DashboardPath},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, safeRedirectPath(tt.in, DashboardPath), tt.in)
	}
}

func TestIsSecureRequest(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	assert.False(t, isSecureRequest(r))

	r.Header.Set("X-Forwarded-Proto", "http, HTTPS")
	assert.True(t, isSecureRequest(r))

	r = httptest.NewRequest(http.MethodGet, "/", nil)
	r.TLS = &tls.ConnectionState{}
	assert.True(t, isSecureRequest(r))
}

func TestCookieConfig_SetSession(t *testing.T) {
	cfg := CookieConfig{Domain: "sman1jakarta.sch.id"}
	r := httptest.NewRequest(http.MethodPost, "/admin/login", nil)

	rec := httptest.NewRecorder()
	cfg.setSession(rec, r, &domainauth.Session{ID: "abc"})
	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, SessionCookieName, cookies[0].Name)
	assert.Equal(t, "abc", cookies[0].Value)
	assert.Zero(t, cookies[0].MaxAge)
	assert.True(t, cookies[0].HttpOnly)
	assert.Equal(t, http.SameSiteLaxMode, cookies[0].SameSite)

	rec = httptest.NewRecorder()
	cfg.setSession(rec, r, &domainauth.Session{ID: "abc", ExpiresAt: time.Now().Add(time.Hour)})
	assert.InDelta(t, 3600, rec.Result().Cookies()[0].MaxAge, 2)

	rec = httptest.NewRecorder()
	cfg.clear(rec, r, SessionCookieName)
	assert.Negative(t, rec.Result().Cookies()[0].MaxAge)
}
