package httpx

import (
	"compress/gzip"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type compressionCase struct {
	method         string
	acceptEncoding string
	contentType    string
	encoding       string
	status         int
	body           string
}

func runCompression(t *testing.T, level int, c compressionCase) *http.Response {
	t.Helper()
	if c.method == "" {
		c.method = http.MethodGet
	}
	if c.status == 0 {
		c.status = http.StatusOK
	}
	handler := Compression(CompressionConfig{Level: level})(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		if c.contentType != "" {
			w.Header().Set("Content-Type", c.contentType)
		}
		if c.encoding != "" {
			w.Header().Set("Content-Encoding", c.encoding)
		}
		w.WriteHeader(c.status)
		if c.body != "" {
			_, _ = io.WriteString(w, c.body)
		}
	}))

	req := httptest.NewRequest(c.method, "/", nil)
	if c.acceptEncoding != "" {
		req.Header.Set("Accept-Encoding", c.acceptEncoding)
	}
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	resp := rec.Result()
	t.Cleanup(func() { _ = resp.Body.Close() })
	return resp
}

func gunzip(t *testing.T, r io.Reader) string {
	t.Helper()
	gr, err := gzip.NewReader(r)
	require.NoError(t, err)
	defer gr.Close()
	b, err := io.ReadAll(gr)
	require.NoError(t, err)
	return string(b)
}

func TestCompression_RoundTrip(t *testing.T) {
	page := strings.Repeat("<p>Selamat datang di SMA Negeri 1 Jakarta</p>", 200)

	for _, level := range []int{1, 6, 9} {
		resp := runCompression(t, level, compressionCase{acceptEncoding: "gzip, deflate", contentType: "text/html; charset=utf-8", body: page})
		assert.Equal(t, "gzip", resp.Header.Get("Content-Encoding"))
		assert.Equal(t, "Accept-Encoding", resp.Header.Get("Vary"))
		assert.Empty(t, resp.Header.Get("Content-Length"))
		assert.Equal(t, page, gunzip(t, resp.Body))
	}

	resp := runCompression(t, 6, compressionCase{acceptEncoding: "deflate", contentType: "text/html", body: page})
	assert.Empty(t, resp.Header.Get("Content-Encoding"))
	b, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, page, string(b))
}

func TestCompression_Skips(t *testing.T) {
	tests := []struct {
		name string
		c    compressionCase
		want string
	}{
		{"jpeg", compressionCase{acceptEncoding: "gzip", contentType: "image/jpeg", body: "x"}, ""},
		{"png", compressionCase{acceptEncoding: "gzip", contentType: "image/png", body: "x"}, ""},
		{"no content", compressionCase{acceptEncoding: "gzip", status: http.StatusNoContent}, ""},
		{"not modified", compressionCase{acceptEncoding: "gzip", contentType: "text/html", status: http.StatusNotModified}, ""},
		{"head", compressionCase{method: http.MethodHead, acceptEncoding: "gzip", contentType: "text/html"}, ""},
		{"gzip disabled by q", compressionCase{acceptEncoding: "gzip;q=0", contentType: "text/html", body: "x"}, ""},
		{"already encoded", compressionCase{acceptEncoding: "gzip", contentType: "text/html", encoding: "br", body: "x"}, "br"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := runCompression(t, 6, tt.c)
			assert.Equal(t, tt.want, resp.Header.Get("Content-Encoding"))
		})
	}
}

func TestCompression_TextTypes(t *testing.T) {
	for _, ct := range []string{"text/css", "application/json", "application/rss+xml", "image/svg+xml", "text/javascript"} {
		t.Run(ct, func(t *testing.T) {
			resp := runCompression(t, 6, compressionCase{acceptEncoding: "deflate, gzip;q=0.5", contentType: ct, body: "konten"})
			assert.Equal(t, "gzip", resp.Header.Get("Content-Encoding"))
			assert.Equal(t, "konten", gunzip(t, resp.Body))
		})
	}
}
