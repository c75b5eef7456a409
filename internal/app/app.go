package app

import (
	"context"
	"fmt"
	"time"

	"github.com/samber/lo"
	"github.com/sirupsen/logrus"

	"github.com/five82/perch/internal/cache"
	"github.com/five82/perch/internal/config"
	"github.com/five82/perch/internal/feed"
	"github.com/five82/perch/internal/prefs"
	"github.com/five82/perch/internal/reader"
	"github.com/five82/perch/internal/state"
	"github.com/five82/perch/internal/ui"
)

const (
	uiTick           = time.Second
	cachedEntryLimit = 500
)

// Options configure the perch application.
type Options struct {
	ConfigPath string
	PrefsPath  string // empty uses default ~/.config/perch/prefs.toml
	PollEvery  int    // seconds; zero uses the config value
	LogFile    string // empty uses the config value
	Debug      bool
}

// Run boots the perch TUI until the user quits or the context is cancelled.
func Run(ctx context.Context, opts Options) error {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logPath := cfg.LogFile
	if opts.LogFile != "" {
		logPath = opts.LogFile
	}
	logger, closeLog, err := newLogger(logPath, opts.Debug)
	if err != nil {
		return err
	}
	defer closeLog()

	prefsPath := opts.PrefsPath
	if prefsPath == "" {
		prefsPath = prefs.DefaultPath()
	}
	userPrefs, err := prefs.Load(prefsPath)
	if err != nil {
		logger.WithError(err).Warn("load preferences, using defaults")
		userPrefs = prefs.Default()
	}

	client, err := reader.NewClient(cfg.Server)
	if err != nil {
		return fmt.Errorf("init reader client: %w", err)
	}

	db, err := cache.Open(cfg.CachePath)
	if err != nil {
		return fmt.Errorf("open cache: %w", err)
	}
	defer func() { _ = db.Close() }()

	feeds := feed.NewSet()
	entries := feed.NewEntrySet()
	store := &state.Store{}
	seedFromCache(ctx, db, feeds, entries, store, logger)

	interval := cfg.PollEvery
	if opts.PollEvery > 0 {
		interval = time.Duration(opts.PollEvery) * time.Second
	}

	logger.WithFields(logrus.Fields{
		"server":   client.BaseURL(),
		"cache":    cfg.CachePath,
		"interval": interval,
	}).Info("perch starting")

	StartPoller(ctx, &poller{
		fetcher:  client,
		feeds:    feeds,
		entries:  entries,
		store:    store,
		cache:    db,
		log:      logger,
		interval: interval,
	})

	err = ui.Run(ui.Options{
		Context:   ctx,
		Service:   client,
		Feeds:     feeds,
		Entries:   entries,
		Store:     store,
		Prefs:     &userPrefs,
		PrefsPath: prefsPath,
		PollTick:  uiTick,
		Logger:    logger,
	})
	logger.Info("perch stopped")
	return err
}

// snapshotLoader reads the last cached poll.
type snapshotLoader interface {
	LoadFeeds(ctx context.Context) ([]feed.Feed, error)
	LoadEntries(ctx context.Context, limit int) ([]feed.Entry, error)
}

// seedFromCache fills the collections from the cache so the UI has something
// to show before the first poll completes. Failures only cost the head start.
func seedFromCache(ctx context.Context, src snapshotLoader, feeds *feed.Set, entries *feed.EntrySet, store *state.Store, log logrus.FieldLogger) {
	cachedFeeds, err := src.LoadFeeds(ctx)
	if err != nil {
		log.WithError(err).Warn("load cached feeds")
		return
	}
	cachedEntries, err := src.LoadEntries(ctx, cachedEntryLimit)
	if err != nil {
		log.WithError(err).Warn("load cached entries")
		return
	}
	if len(cachedFeeds) == 0 && len(cachedEntries) == 0 {
		return
	}

	feeds.Replace(cachedFeeds)
	entries.Replace(cachedEntries)
	store.Seed(state.Summary{
		Feeds:   len(cachedFeeds),
		Entries: len(cachedEntries),
		Unread:  lo.SumBy(cachedFeeds, func(f feed.Feed) int { return f.UnreadCount }),
	})
	log.WithField("feeds", len(cachedFeeds)).Debug("seeded from cache")
}
