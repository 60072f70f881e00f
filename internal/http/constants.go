package httpx

// CurrentPage constants define the page identifiers used in templates and navigation.
const (
	// Public pages.
	PageHome       = "home"
	PageAbout      = "about"
	PageNews       = "news"
	PageNewsDetail = "news-detail"
	PageGallery    = "gallery"
	PageContact    = "contact"

	// Console pages.
	PageLogin            = "login"
	PageLogout           = "logout"
	PageDashboard        = "dashboard"
	PageAdminNews        = "admin-news"
	PageAdminNewsForm    = "admin-news-form"
	PageAdminGallery     = "admin-gallery"
	PageAdminGalleryForm = "admin-gallery-form"
	PageAdminContacts    = "admin-contacts"
	PageAdminContact     = "admin-contact"
	PageAdminContactForm = "admin-contact-form"
	PageAdminUsers       = "admin-users"
	PageAdminUserForm    = "admin-user-form"
	PageAdminSettings    = "admin-settings"
)

// Cookie names.
const (
	SessionCookieName = "session_id"
	FlashCookieName   = "portal_flash"
)

// Console paths redirected to from more than one handler.
const (
	LoginPath     = "/admin/login"
	DashboardPath = "/admin/dashboard"
)

// Template paths used for loading templates in tests and production.
const (
	TemplatePathFromRoot = "frontend/templates"       // From project root
	TemplatePathFromTest = "../../frontend/templates" // From internal/http test files
	StaticPathFromRoot   = "frontend/static"
)

// FormMode represents the mode of a form (create or edit).
type FormMode string

const (
	FormModeEdit   FormMode = "edit"
	FormModeCreate FormMode = "create"
)

//nolint:gochecknoglobals // static read-only lookup for templates
var contentTemplates = map[string]string{
	PageHome:             "home-content",
	PageAbout:            "about-content",
	PageNews:             "news-content",
	PageNewsDetail:       "news-detail-content",
	PageGallery:          "gallery-content",
	PageContact:          "contact-content",
	PageLogin:            "login-content",
	PageLogout:           "logout-content",
	PageDashboard:        "dashboard-content",
	PageAdminNews:        "admin-news-content",
	PageAdminNewsForm:    "admin-news-form-content",
	PageAdminGallery:     "admin-gallery-content",
	PageAdminGalleryForm: "admin-gallery-form-content",
	PageAdminContacts:    "admin-contacts-content",
	PageAdminContact:     "admin-contact-content",
	PageAdminContactForm: "admin-contact-form-content",
	PageAdminUsers:       "admin-users-content",
	PageAdminUserForm:    "admin-user-form-content",
	PageAdminSettings:    "admin-settings-content",
}

// ContentTemplateMap returns the mapping from CurrentPage to template name.
func ContentTemplateMap() map[string]string { return contentTemplates }

// ContentTemplateFor returns the content template for the given CurrentPage.
// Unknown pages fall back to the home page.
func ContentTemplateFor(currentPage string) string {
	if name, ok := ContentTemplateMap()[currentPage]; ok {
		return name
	}
	return "home-content"
}
