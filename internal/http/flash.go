package httpx

import (
	"crypto/sha256"
	"encoding/gob"
	"log/slog"
	"net/http"

	"github.com/gorilla/securecookie"
	"github.com/gorilla/sessions"

	"github.com/sman1jakarta/portal/internal/domain/notice"
)

// flashMaxAge bounds how long an unread notice survives.
const flashMaxAge = 300

func init() {
	gob.Register(notice.Notice{})
}

// FlashStoreOptions configures a FlashStore.
type FlashStoreOptions struct {
	// Secret derives the signing and encryption keys. When empty, random keys
	// are generated and notices do not survive a restart.
	Secret       string
	CookieDomain string
	Logger       *slog.Logger
}

// FlashStore carries one-shot notices across a redirect in a signed,
// encrypted cookie. A notice is returned by exactly one Consume.
type FlashStore struct {
	store  *sessions.CookieStore
	domain string
	logger *slog.Logger
}

// NewFlashStore builds a FlashStore.
func NewFlashStore(opts FlashStoreOptions) *FlashStore {
	var hashKey, blockKey []byte
	if opts.Secret == "" {
		hashKey = securecookie.GenerateRandomKey(32)
		blockKey = securecookie.GenerateRandomKey(32)
	} else {
		h := sha256.Sum256([]byte("portal-flash-hash:" + opts.Secret))
		b := sha256.Sum256([]byte("portal-flash-block:" + opts.Secret))
		hashKey, blockKey = h[:], b[:]
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	store := sessions.NewCookieStore(hashKey, blockKey)
	store.MaxAge(flashMaxAge)
	return &FlashStore{store: store, domain: opts.CookieDomain, logger: logger.With("component", "flash")}
}

func (f *FlashStore) options(r *http.Request, maxAge int) *sessions.Options {
	return &sessions.Options{
		Path:     "/",
		Domain:   f.domain,
		MaxAge:   maxAge,
		Secure:   isSecureRequest(r),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}
}

// Add queues n for the next page that consumes notices.
func (f *FlashStore) Add(w http.ResponseWriter, r *http.Request, n notice.Notice) {
	// A cookie that no longer decodes yields a fresh session; the old notices are lost.
	sess, _ := f.store.Get(r, FlashCookieName)
	sess.Options = f.options(r, flashMaxAge)
	sess.AddFlash(n)
	if err := sess.Save(r, w); err != nil {
		f.logger.ErrorContext(r.Context(), "save flash failed", "kind", string(n.Kind), "error", err)
	}
}

// Consume returns the queued notices and clears the cookie. Requests without
// a flash cookie are left untouched.
func (f *FlashStore) Consume(w http.ResponseWriter, r *http.Request) notice.Set {
	if _, err := r.Cookie(FlashCookieName); err != nil {
		return nil
	}
	sess, err := f.store.Get(r, FlashCookieName)
	if err != nil {
		f.logger.DebugContext(r.Context(), "discarding unreadable flash cookie", "error", err)
	}

	var out notice.Set
	for _, v := range sess.Flashes() {
		if n, ok := v.(notice.Notice); ok {
			out = append(out, n)
		}
	}
	sess.Options = f.options(r, -1)
	if err := sess.Save(r, w); err != nil {
		f.logger.ErrorContext(r.Context(), "clear flash failed", "error", err)
	}
	return out
}
