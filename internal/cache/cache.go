// Package cache keeps the last feeds and entries perch saw in a local SQLite
// file so the UI has something to show before the first poll completes, or
// when the reader server is down.
package cache

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	sqlbuilder "github.com/huandu/go-sqlbuilder"
	_ "github.com/mattn/go-sqlite3"

	"github.com/five82/perch/internal/feed"
)

const schema = `
CREATE TABLE IF NOT EXISTS feeds (
	id           INTEGER PRIMARY KEY,
	title        TEXT NOT NULL DEFAULT '',
	url          TEXT NOT NULL DEFAULT '',
	site_url     TEXT NOT NULL DEFAULT '',
	description  TEXT NOT NULL DEFAULT '',
	unread_count INTEGER NOT NULL DEFAULT 0,
	last_fetched INTEGER NOT NULL DEFAULT 0
);
CREATE TABLE IF NOT EXISTS entries (
	id        INTEGER PRIMARY KEY,
	feed_id   INTEGER NOT NULL,
	title     TEXT NOT NULL DEFAULT '',
	url       TEXT NOT NULL DEFAULT '',
	author    TEXT NOT NULL DEFAULT '',
	summary   TEXT NOT NULL DEFAULT '',
	published INTEGER NOT NULL DEFAULT 0,
	is_read   INTEGER NOT NULL DEFAULT 0,
	starred   INTEGER NOT NULL DEFAULT 0
);
CREATE INDEX IF NOT EXISTS entries_published ON entries (published DESC);
`

var (
	feedColumns  = []string{"id", "title", "url", "site_url", "description", "unread_count", "last_fetched"}
	entryColumns = []string{"id", "feed_id", "title", "url", "author", "summary", "published", "is_read", "starred"}
)

// Cache is a SQLite-backed store of feeds and entries.
type Cache struct {
	db *sql.DB
}

// Open creates or opens the cache at path, creating parent directories and
// the schema as needed.
func Open(path string) (*Cache, error) {
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("create cache dir: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", fmt.Sprintf("file:%s?_busy_timeout=5000&_journal_mode=WAL", path))
	if err != nil {
		return nil, fmt.Errorf("open cache: %w", err)
	}
	// SQLite only supports one writer at a time
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}
	return &Cache{db: db}, nil
}

// Close releases the database handle.
func (c *Cache) Close() error {
	return c.db.Close()
}

// SaveFeeds replaces the cached feeds with feeds.
func (c *Cache) SaveFeeds(ctx context.Context, feeds []feed.Feed) error {
	return c.replace(ctx, "feeds", feedColumns, len(feeds), func(ib *sqlbuilder.InsertBuilder, i int) {
		f := feeds[i]
		ib.Values(f.ID, f.Title, f.URL, f.SiteURL, f.Description, f.UnreadCount, unix(f.LastFetched))
	})
}

// SaveEntries replaces the cached entries with entries.
func (c *Cache) SaveEntries(ctx context.Context, entries []feed.Entry) error {
	return c.replace(ctx, "entries", entryColumns, len(entries), func(ib *sqlbuilder.InsertBuilder, i int) {
		e := entries[i]
		ib.Values(e.ID, e.FeedID, e.Title, e.URL, e.Author, e.Summary, unix(e.Published), e.Read, e.Starred)
	})
}

// LoadFeeds returns every cached feed ordered by ID.
func (c *Cache) LoadFeeds(ctx context.Context) ([]feed.Feed, error) {
	sb := sqlbuilder.NewSelectBuilder()
	sb.Select(feedColumns...).From("feeds").OrderBy("id").Asc()
	query, args := sb.BuildWithFlavor(sqlbuilder.SQLite)

	rows, err := c.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query feeds: %w", err)
	}
	defer rows.Close()

	var feeds []feed.Feed
	for rows.Next() {
		var f feed.Feed
		var lastFetched int64
		if err := rows.Scan(&f.ID, &f.Title, &f.URL, &f.SiteURL, &f.Description, &f.UnreadCount, &lastFetched); err != nil {
			return nil, fmt.Errorf("scan feed: %w", err)
		}
		f.LastFetched = fromUnix(lastFetched)
		feeds = append(feeds, f)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate feeds: %w", err)
	}
	return feeds, nil
}

// LoadEntries returns up to limit cached entries, newest first. A limit of
// zero or less loads everything.
func (c *Cache) LoadEntries(ctx context.Context, limit int) ([]feed.Entry, error) {
	sb := sqlbuilder.NewSelectBuilder()
	sb.Select(entryColumns...).From("entries").OrderBy("published").Desc()
	if limit > 0 {
		sb.Limit(limit)
	}
	query, args := sb.BuildWithFlavor(sqlbuilder.SQLite)

	rows, err := c.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query entries: %w", err)
	}
	defer rows.Close()

	var entries []feed.Entry
	for rows.Next() {
		var e feed.Entry
		var published int64
		if err := rows.Scan(&e.ID, &e.FeedID, &e.Title, &e.URL, &e.Author, &e.Summary, &published, &e.Read, &e.Starred); err != nil {
			return nil, fmt.Errorf("scan entry: %w", err)
		}
		e.Published = fromUnix(published)
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate entries: %w", err)
	}
	return entries, nil
}

// insertBatch bounds the rows per INSERT to stay under SQLite's variable limit.
const insertBatch = 100

func (c *Cache) replace(ctx context.Context, table string, cols []string, n int, row func(*sqlbuilder.InsertBuilder, int)) error {
	tx, err := c.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin %s: %w", table, err)
	}
	defer func() { _ = tx.Rollback() }()

	del, delArgs := sqlbuilder.NewDeleteBuilder().DeleteFrom(table).BuildWithFlavor(sqlbuilder.SQLite)
	if _, err := tx.ExecContext(ctx, del, delArgs...); err != nil {
		return fmt.Errorf("clear %s: %w", table, err)
	}

	for start := 0; start < n; start += insertBatch {
		end := min(start+insertBatch, n)
		ib := sqlbuilder.NewInsertBuilder()
		ib.ReplaceInto(table).Cols(cols...)
		for i := start; i < end; i++ {
			row(ib, i)
		}
		query, args := ib.BuildWithFlavor(sqlbuilder.SQLite)
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("insert %s: %w", table, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit %s: %w", table, err)
	}
	return nil
}

func unix(t time.Time) int64 {
	if t.IsZero() {
		return 0
	}
	return t.Unix()
}

func fromUnix(sec int64) time.Time {
	if sec == 0 {
		return time.Time{}
	}
	return time.Unix(sec, 0)
}
