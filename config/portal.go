package config

import (
	"fmt"
	"strings"
	"time"
)

// StorageBackend selects where content and settings are persisted.
type StorageBackend string

const (
	StorageBackendPostgres StorageBackend = "postgres"
	StorageBackendMemory   StorageBackend = "memory"
)

// UnmarshalText implements encoding.TextUnmarshaler for StorageBackend.
func (s *StorageBackend) UnmarshalText(text []byte) error {
	v := strings.ToLower(strings.TrimSpace(string(text)))
	switch v {
	case "postgres", "memory":
		*s = StorageBackend(v)
		return nil
	default:
		return fmt.Errorf("invalid StorageBackend: %q (valid options: postgres, memory)", v)
	}
}

// SessionBackend selects where admin auth records live.
type SessionBackend string

const (
	SessionBackendRedis  SessionBackend = "redis"
	SessionBackendMemory SessionBackend = "memory"
)

// UnmarshalText implements encoding.TextUnmarshaler for SessionBackend.
func (s *SessionBackend) UnmarshalText(text []byte) error {
	v := strings.ToLower(strings.TrimSpace(string(text)))
	switch v {
	case "redis", "memory":
		*s = SessionBackend(v)
		return nil
	default:
		return fmt.Errorf("invalid SessionBackend: %q (valid options: redis, memory)", v)
	}
}

const (
	defaultLogoutCountdown = 5
	defaultWelcomeSeconds  = 5
	defaultGalleryMaxBytes = 5 << 20
	defaultLogoMaxBytes    = 2 << 20
	defaultContactRate     = 0.2
	defaultContactBurst    = 3
)

// PortalConfig covers the site's storage choices and page behavior.
type PortalConfig struct {
	Storage  StorageBackend `env:"STORAGE_BACKEND" envDefault:"postgres"`
	Sessions SessionBackend `env:"SESSION_BACKEND" envDefault:"redis"`

	// SettingsCache keeps a copy of the school settings in Redis in front of the database.
	SettingsCache bool `env:"SETTINGS_CACHE_ENABLED" envDefault:"true"`

	// SeedOnStart loads the sample news, gallery, contacts and users into empty stores.
	SeedOnStart bool `env:"SEED_ON_START" envDefault:"false"`

	UploadDir       string `env:"UPLOAD_DIR"               envDefault:"./data/uploads"`
	GalleryMaxBytes int64  `env:"UPLOAD_GALLERY_MAX_BYTES" envDefault:"5242880"`
	LogoMaxBytes    int64  `env:"UPLOAD_LOGO_MAX_BYTES"    envDefault:"2097152"`

	// LogoutCountdownSeconds is the mandatory wait before a confirmed logout executes.
	LogoutCountdownSeconds int `env:"LOGOUT_COUNTDOWN_SECONDS" envDefault:"5"`
	// WelcomeAutoCloseSeconds controls how long the post-login welcome dialog stays open.
	WelcomeAutoCloseSeconds int `env:"WELCOME_AUTO_CLOSE_SECONDS" envDefault:"5"`

	// AdminWhatsApp is the number public contact messages are forwarded to.
	AdminWhatsApp string `env:"ADMIN_WHATSAPP" envDefault:"6281234567890"`

	// ContactRatePerSecond and ContactBurst limit contact form submissions per client IP.
	ContactRatePerSecond float64       `env:"CONTACT_RATE_PER_SECOND" envDefault:"0.2"`
	ContactBurst         int           `env:"CONTACT_BURST"           envDefault:"3"`
	ContactLimiterIdle   time.Duration `env:"CONTACT_LIMITER_IDLE"    envDefault:"10m"`
}

// Sanitize applies guardrails to portal configuration values.
func (p *PortalConfig) Sanitize() {
	if p.LogoutCountdownSeconds <= 0 {
		p.LogoutCountdownSeconds = defaultLogoutCountdown
	}
	if p.WelcomeAutoCloseSeconds <= 0 {
		p.WelcomeAutoCloseSeconds = defaultWelcomeSeconds
	}
	if p.GalleryMaxBytes <= 0 {
		p.GalleryMaxBytes = defaultGalleryMaxBytes
	}
	if p.LogoMaxBytes <= 0 {
		p.LogoMaxBytes = defaultLogoMaxBytes
	}
	if p.ContactRatePerSecond <= 0 {
		p.ContactRatePerSecond = defaultContactRate
	}
	if p.ContactBurst <= 0 {
		p.ContactBurst = defaultContactBurst
	}
	if p.ContactLimiterIdle <= 0 {
		p.ContactLimiterIdle = 10 * time.Minute
	}
	if strings.TrimSpace(p.UploadDir) == "" {
		p.UploadDir = "./data/uploads"
	}
	p.AdminWhatsApp = strings.TrimPrefix(strings.TrimSpace(p.AdminWhatsApp), "+")
}
