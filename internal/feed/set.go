package feed

import (
	"sort"
	"strings"
	"sync"

	"github.com/samber/lo"
)

// Set is the FeedSet shared by the poller, the menu, and the feed dialogs.
// Consumers hold the pointer; the zero value is ready to use.
type Set struct {
	mu    sync.RWMutex
	feeds []Feed
}

// NewSet returns a Set seeded with feeds.
func NewSet(feeds ...Feed) *Set {
	s := &Set{}
	s.Replace(feeds)
	return s
}

// Replace swaps the whole collection, typically after a poll.
func (s *Set) Replace(feeds []Feed) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.feeds = append([]Feed(nil), feeds...)
}

// Add inserts f, or replaces the feed with the same ID.
func (s *Set) Add(f Feed) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.feeds {
		if s.feeds[i].ID == f.ID {
			s.feeds[i] = f
			return
		}
	}
	s.feeds = append(s.feeds, f)
}

// Remove drops the feed with the given ID and reports whether it existed.
func (s *Set) Remove(id int64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	before := len(s.feeds)
	s.feeds = lo.Reject(s.feeds, func(f Feed, _ int) bool { return f.ID == id })
	return len(s.feeds) != before
}

// Get looks up a feed by ID.
func (s *Set) Get(id int64) (Feed, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return lo.Find(s.feeds, func(f Feed) bool { return f.ID == id })
}

// Len returns the number of feeds.
func (s *Set) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.feeds)
}

// All returns a copy of the feeds sorted by display title.
func (s *Set) All() []Feed {
	s.mu.RLock()
	out := append([]Feed(nil), s.feeds...)
	s.mu.RUnlock()

	sort.SliceStable(out, func(i, j int) bool {
		return strings.ToLower(out[i].DisplayTitle()) < strings.ToLower(out[j].DisplayTitle())
	})
	return out
}

// UnreadTotal sums unread counts across all feeds.
func (s *Set) UnreadTotal() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return lo.SumBy(s.feeds, func(f Feed) int { return f.UnreadCount })
}

// Filter selects which entries a list view shows.
type Filter struct {
	StarredOnly bool
	IncludeRead bool
}

// EntrySet is the shared collection of entries.
type EntrySet struct {
	mu      sync.RWMutex
	entries []Entry
}

// NewEntrySet returns an EntrySet seeded with entries.
func NewEntrySet(entries ...Entry) *EntrySet {
	s := &EntrySet{}
	s.Replace(entries)
	return s
}

// Replace swaps the whole collection.
func (s *EntrySet) Replace(entries []Entry) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = append([]Entry(nil), entries...)
}

// Len returns the number of entries.
func (s *EntrySet) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}

// All returns a copy of every entry, newest first.
func (s *EntrySet) All() []Entry {
	return s.Select(Filter{IncludeRead: true})
}

// Select returns the entries matching f, newest first.
func (s *EntrySet) Select(f Filter) []Entry {
	s.mu.RLock()
	out := lo.Filter(s.entries, func(e Entry, _ int) bool {
		if f.StarredOnly && !e.Starred {
			return false
		}
		if !f.IncludeRead && e.Read {
			return false
		}
		return true
	})
	s.mu.RUnlock()

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Published.After(out[j].Published)
	})
	return out
}

// DropFeed removes every entry belonging to feedID and returns how many were removed.
func (s *EntrySet) DropFeed(feedID int64) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	before := len(s.entries)
	s.entries = lo.Reject(s.entries, func(e Entry, _ int) bool { return e.FeedID == feedID })
	return before - len(s.entries)
}
