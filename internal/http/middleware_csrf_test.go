package httpx

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func csrfTestHandler() http.Handler {
	return CSRFProtection(CSRFConfig{CookieDomain: "sman1jakarta.sch.id"})(
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(GetCSRFToken(r)))
		}))
}

func findCookie(cookies []*http.Cookie, name string) *http.Cookie {
	for _, c := range cookies {
		if c.Name == name {
			return c
		}
	}
	return nil
}

func issueCSRFToken(t *testing.T, h http.Handler) string {
	t.Helper()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	ck := findCookie(rec.Result().Cookies(), DefaultCSRFCookieName)
	require.NotNil(t, ck)
	require.NotEmpty(t, ck.Value)
	assert.Equal(t, ck.Value, rec.Body.String(), "context token matches the cookie")
	return ck.Value
}

func TestCSRFProtection_IssuesScriptReadableCookie(t *testing.T) {
	h := csrfTestHandler()
	req := httptest.NewRequest(http.MethodGet, "http://sman1jakarta.sch.id/", nil)
	req.Header.Set("X-Forwarded-Proto", "https")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	ck := findCookie(rec.Result().Cookies(), DefaultCSRFCookieName)
	require.NotNil(t, ck)
	assert.False(t, ck.HttpOnly)
	assert.True(t, ck.Secure)
	assert.Equal(t, http.SameSiteStrictMode, ck.SameSite)
	assert.Equal(t, "sman1jakarta.sch.id", ck.Domain)

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(ck)
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Nil(t, findCookie(rec.Result().Cookies(), DefaultCSRFCookieName), "existing token is reused")
}

func TestCSRFProtection_Validation(t *testing.T) {
	h := csrfTestHandler()
	token := issueCSRFToken(t, h)

	form := func(v string) *http.Request {
		req := httptest.NewRequest(http.MethodPost, "/contact", strings.NewReader(url.Values{"csrf_token": {v}}.Encode()))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		return req
	}
	jsonReq := func(header string) *http.Request {
		req := httptest.NewRequest(http.MethodPatch, "/admin/api/settings", strings.NewReader(`{}`))
		req.Header.Set("Content-Type", "application/json")
		if header != "" {
			req.Header.Set(DefaultCSRFHeaderName, header)
		}
		return req
	}

	tests := []struct {
		name   string
		req    *http.Request
		cookie bool
		want   int
	}{
		{"form token matches", form(token), true, http.StatusOK},
		{"form token mismatch", form("other"), true, http.StatusForbidden},
		{"no cookie", form(token), false, http.StatusForbidden},
		{"json with header", jsonReq(token), true, http.StatusOK},
		{"json without header", jsonReq(""), true, http.StatusForbidden},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.cookie {
				tt.req.AddCookie(&http.Cookie{Name: DefaultCSRFCookieName, Value: token})
			}
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, tt.req)
			assert.Equal(t, tt.want, rec.Code)
		})
	}
}

func TestCSRFProtection_SafeMethodsExempt(t *testing.T) {
	h := csrfTestHandler()
	for _, m := range []string{http.MethodGet, http.MethodHead, http.MethodOptions} {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(m, "/", nil))
		assert.Equal(t, http.StatusOK, rec.Code, m)
	}
}

func TestCSRFProtection_CustomFailure(t *testing.T) {
	h := CSRFProtection(CSRFConfig{OnFailure: http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	})})(http.NotFoundHandler())

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/", nil))
	assert.Equal(t, http.StatusTeapot, rec.Code)
}

func TestGetCSRFToken_NoToken(t *testing.T) {
	assert.Empty(t, GetCSRFToken(httptest.NewRequest(http.MethodGet, "/", nil)))
}
