package httpx

import (
	"sync/atomic"

	"github.com/sman1jakarta/portal/internal/domain/settings"
)

// Chrome caches the school profile drawn in every page's navbar and footer.
// Register Update as a settings subscriber to keep it current.
type Chrome struct {
	v atomic.Pointer[settings.SchoolSettings]
}

// NewChrome returns a cache holding initial.
func NewChrome(initial settings.SchoolSettings) *Chrome {
	c := &Chrome{}
	c.Update(initial)
	return c
}

// Update replaces the cached profile.
func (c *Chrome) Update(s settings.SchoolSettings) {
	c.v.Store(&s)
}

// Current returns the cached profile.
func (c *Chrome) Current() settings.SchoolSettings {
	if p := c.v.Load(); p != nil {
		return *p
	}
	return settings.Defaults()
}
