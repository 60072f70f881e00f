// Package media stores uploaded images on disk and serves them under /media/.
package media

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	apperrors "github.com/sman1jakarta/portal/internal/errors"
)

// URLPrefix is the public path uploads are served from.
const URLPrefix = "/media/"

// Kind names the upload bucket; each kind has its own directory and size cap.
type Kind string

const (
	KindGallery Kind = "gallery"
	KindLogo    Kind = "logo"
	KindNews    Kind = "news"
)

const defaultMaxBytes = 5 << 20

// allowedTypes maps accepted extensions to the sniffed content type prefix.
var allowedTypes = map[string]string{
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".png":  "image/png",
	".gif":  "image/gif",
	".webp": "image/webp",
	".svg":  "svg",
}

// ErrUnsupportedType is returned for files outside the image allow-list.
var ErrUnsupportedType = apperrors.ValidationField("image", "Format file harus JPG, PNG, SVG, GIF, atau WEBP")

// StoreOptions configures a Store.
type StoreOptions struct {
	Root   string         // Required: directory uploads are written to
	Limits map[Kind]int64 // Optional: per-kind size caps, 5 MB when unset
	Logger *slog.Logger
}

// Store writes validated images below Root and maps them to /media/ URLs.
type Store struct {
	root   string
	limits map[Kind]int64
	logger *slog.Logger
}

// NewStore creates the upload directory and returns a Store.
func NewStore(opts StoreOptions) (*Store, error) {
	if strings.TrimSpace(opts.Root) == "" {
		return nil, errors.New("media root is required")
	}
	root, err := filepath.Abs(opts.Root)
	if err != nil {
		return nil, fmt.Errorf("resolve media root: %w", err)
	}
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("create media root: %w", err)
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{root: root, limits: opts.Limits, logger: logger.With("component", "media")}, nil
}

// MaxBytes returns the size cap for kind.
func (s *Store) MaxBytes(kind Kind) int64 {
	if n, ok := s.limits[kind]; ok && n > 0 {
		return n
	}
	return defaultMaxBytes
}

// TooLarge returns the validation error shown when an upload exceeds the cap for kind.
func (s *Store) TooLarge(kind Kind) error {
	return apperrors.ValidationField("image", fmt.Sprintf("Ukuran file maksimal %s", humanSize(s.MaxBytes(kind))))
}

func humanSize(n int64) string {
	if n >= 1<<20 && n%(1<<20) == 0 {
		return fmt.Sprintf("%dMB", n>>20)
	}
	return fmt.Sprintf("%dKB", (n+1023)>>10)
}

// Save validates the image read from r and stores it under kind. The returned
// value is the public URL. Invalid files yield a validation error on field "image".
func (s *Store) Save(ctx context.Context, kind Kind, filename string, r io.Reader) (string, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	want, ok := allowedTypes[ext]
	if !ok {
		return "", ErrUnsupportedType
	}

	limit := s.MaxBytes(kind)
	br := bufio.NewReaderSize(io.LimitReader(r, limit+1), 512)
	head, err := br.Peek(512)
	if err != nil && !errors.Is(err, io.EOF) && !errors.Is(err, bufio.ErrBufferFull) {
		return "", fmt.Errorf("read upload: %w", err)
	}
	if len(head) == 0 {
		return "", apperrors.ValidationField("image", "File gambar kosong")
	}
	if !matchesType(head, want) {
		return "", ErrUnsupportedType
	}

	dir := filepath.Join(s.root, string(kind))
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create media dir: %w", err)
	}
	tmp, err := os.CreateTemp(dir, ".upload-*")
	if err != nil {
		return "", fmt.Errorf("create temp file: %w", err)
	}
	defer func() {
		if tmp != nil {
			_ = tmp.Close()
			_ = os.Remove(tmp.Name())
		}
	}()

	n, err := io.Copy(tmp, br)
	if err != nil {
		return "", fmt.Errorf("write upload: %w", err)
	}
	if n > limit {
		return "", s.TooLarge(kind)
	}
	if err := tmp.Close(); err != nil {
		return "", fmt.Errorf("close upload: %w", err)
	}

	name := uuid.NewString() + ext
	if err := os.Rename(tmp.Name(), filepath.Join(dir, name)); err != nil {
		return "", fmt.Errorf("store upload: %w", err)
	}
	tmp = nil

	u := URLPrefix + string(kind) + "/" + name
	s.logger.InfoContext(ctx, "image stored", "url", u, "bytes", n)
	return u, nil
}

func matchesType(head []byte, want string) bool {
	if want == "svg" {
		return bytes.Contains(bytes.ToLower(head), []byte("<svg"))
	}
	return strings.HasPrefix(http.DetectContentType(head), want)
}

// Owns reports whether publicURL points at a file managed by the store.
func (s *Store) Owns(publicURL string) bool {
	_, ok := s.localPath(publicURL)
	return ok
}

func (s *Store) localPath(publicURL string) (string, bool) {
	if !strings.HasPrefix(publicURL, URLPrefix) {
		return "", false
	}
	rel := path.Clean(strings.TrimPrefix(publicURL, URLPrefix))
	if rel == "." || strings.HasPrefix(rel, "..") || strings.Contains(rel, "/.") {
		return "", false
	}
	return filepath.Join(s.root, filepath.FromSlash(rel)), true
}

// Remove deletes the file behind publicURL. URLs outside /media/ (bundled
// images, external links) and files that are already gone are ignored.
func (s *Store) Remove(ctx context.Context, publicURL string) error {
	p, ok := s.localPath(publicURL)
	if !ok {
		return nil
	}
	if err := os.Remove(p); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("remove %s: %w", publicURL, err)
	}
	s.logger.InfoContext(ctx, "image removed", "url", publicURL)
	return nil
}

// Handler serves stored files. Directory listings are not exposed.
func (s *Store) Handler() http.Handler {
	files := http.StripPrefix(URLPrefix, http.FileServer(http.Dir(s.root)))
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.HasSuffix(r.URL.Path, "/") || strings.Contains(r.URL.Path, "/.") {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("Cache-Control", "public, max-age=86400")
		if strings.HasSuffix(r.URL.Path, ".svg") {
			w.Header().Set("Content-Security-Policy", "default-src 'none'; style-src 'unsafe-inline'")
		}
		files.ServeHTTP(w, r)
	})
}
