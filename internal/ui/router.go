package ui

import (
	"net/url"

	"github.com/five82/perch/internal/feed"
	"github.com/five82/perch/internal/menu"
)

// viewKind identifies which entry list is on screen.
type viewKind int

const (
	viewAll viewKind = iota
	viewStarred
)

func (v viewKind) String() string {
	if v == viewStarred {
		return "Starred"
	}
	return "All entries"
}

// route resolves a link path to a view. Unknown paths fall back to all entries.
func route(href string) viewKind {
	u, err := url.Parse(href)
	if err != nil || (u.Path != "" && u.Path != "/") {
		return viewAll
	}
	if u.Query().Get("filter") == "starred" {
		return viewStarred
	}
	return viewAll
}

// path returns the canonical link path for the view.
func (v viewKind) path() string {
	if v == viewStarred {
		return menu.PathStarred
	}
	return menu.PathAllEntries
}

// filter builds the entry filter for the view given the show-read preference.
func (v viewKind) filter(showRead bool) feed.Filter {
	return feed.Filter{
		StarredOnly: v == viewStarred,
		IncludeRead: showRead,
	}
}
