// Package feed holds the feed and entry records perch displays, and the
// shared collections the poller fills and the UI reads.
package feed

import (
	"strings"
	"time"
)

// Feed is a subscription known to the reader server.
type Feed struct {
	ID          int64     `json:"id"`
	Title       string    `json:"title"`
	URL         string    `json:"url"`
	SiteURL     string    `json:"siteUrl"`
	Description string    `json:"description"`
	UnreadCount int       `json:"unreadCount"`
	LastFetched time.Time `json:"lastFetched"`
}

// DisplayTitle falls back to the feed URL when the server has not learned a
// title yet.
func (f Feed) DisplayTitle() string {
	if title := strings.TrimSpace(f.Title); title != "" {
		return title
	}
	return f.URL
}

// Entry is a single article belonging to a feed.
type Entry struct {
	ID        int64     `json:"id"`
	FeedID    int64     `json:"feedId"`
	Title     string    `json:"title"`
	URL       string    `json:"url"`
	Author    string    `json:"author"`
	Summary   string    `json:"summary"`
	Published time.Time `json:"published"`
	Read      bool      `json:"read"`
	Starred   bool      `json:"starred"`
}

const timeFormat = "2006/01/02 15:04"

// FormatPublished renders the publish time for list views.
func (e Entry) FormatPublished() string {
	if e.Published.IsZero() {
		return "-"
	}
	return e.Published.Local().Format(timeFormat)
}
