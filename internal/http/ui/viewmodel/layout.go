package viewmodel

import (
	"github.com/sman1jakarta/portal/internal/domain/notice"
	"github.com/sman1jakarta/portal/internal/domain/settings"
)

// Chrome selects the page frame drawn around the content.
type Chrome string

const (
	ChromePublic Chrome = "public"
	ChromeAdmin  Chrome = "admin"
	ChromeBare   Chrome = "bare"
)

// User represents the logged-in admin exposed to templates.
type User struct {
	Name          string
	Email         string
	Role          string
	RoleLabel     string
	CanManageSite bool
}

// Layout captures shared chrome metadata (titles, navigation state, school profile, notices).
type Layout struct {
	Title           string
	PageTitle       string
	CurrentPage     string
	Chrome          Chrome
	CSRFToken       string
	IsAuthenticated bool
	User            *User
	School          settings.SchoolSettings
	Notices         notice.Set
	Year            int
}

// LayoutProvider exposes layout metadata for renderer utilities.
type LayoutProvider interface {
	LayoutData() *Layout
}

// Pagination drives the pager under news, gallery and console lists.
// StartIndex and EndIndex are 1-based and zero when the page is empty.
type Pagination struct {
	Page, Pages      int
	HasPrev, HasNext bool
	StartIndex       int
	EndIndex         int
	TotalCount       int
	PrevURL, NextURL string
}
