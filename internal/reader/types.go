package reader

import "github.com/five82/perch/internal/feed"

// FeedListResponse mirrors /api/feeds.
type FeedListResponse struct {
	Feeds []feed.Feed `json:"feeds"`
}

// EntryListResponse mirrors /api/entries.
type EntryListResponse struct {
	Entries []feed.Entry `json:"entries"`
}

// SubscribeRequest is the body of POST /api/feeds.
type SubscribeRequest struct {
	URL string `json:"url"`
}
