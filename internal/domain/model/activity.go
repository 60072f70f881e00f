package model

import "time"

// ActivityKind classifies entries in the dashboard activity feed.
type ActivityKind string

const (
	ActivityNews     ActivityKind = "news"
	ActivityGallery  ActivityKind = "gallery"
	ActivityContact  ActivityKind = "contact"
	ActivityUser     ActivityKind = "user"
	ActivitySettings ActivityKind = "settings"
	ActivityAuth     ActivityKind = "auth"
)

// Activity is one line in the dashboard's recent activity list.
type Activity struct {
	ID        string       `json:"id"         db:"id"`
	Kind      ActivityKind `json:"kind"       db:"kind"`
	Message   string       `json:"message"    db:"message"`
	Actor     string       `json:"actor"      db:"actor"`
	CreatedAt time.Time    `json:"created_at" db:"created_at"`
}

// RecordActivityRequest describes a new activity entry.
type RecordActivityRequest struct {
	Kind    ActivityKind
	Message string
	Actor   string
}

// DashboardStats summarizes the site for the dashboard cards.
type DashboardStats struct {
	News            int   `json:"news"`
	PublishedNews   int   `json:"published_news"`
	Gallery         int   `json:"gallery"`
	Contacts        int   `json:"contacts"`
	PendingContacts int   `json:"pending_contacts"`
	Users           int   `json:"users"`
	ActiveUsers     int   `json:"active_users"`
	Visits          int64 `json:"visits"`
}
