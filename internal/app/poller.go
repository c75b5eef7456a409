package app

import (
	"context"
	"errors"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/samber/lo"
	"github.com/sirupsen/logrus"

	"github.com/five82/perch/internal/feed"
	"github.com/five82/perch/internal/reader"
	"github.com/five82/perch/internal/state"
)

const (
	defaultPollInterval = 30 * time.Second
	retryInterval       = 2 * time.Second
	maxBackoff          = 30 * time.Second
	entryLimit          = 500
)

// snapshotWriter persists the last good poll for offline starts.
type snapshotWriter interface {
	SaveFeeds(ctx context.Context, feeds []feed.Feed) error
	SaveEntries(ctx context.Context, entries []feed.Entry) error
}

// poller refreshes the shared collections from the reader server.
type poller struct {
	fetcher  reader.Fetcher
	feeds    *feed.Set
	entries  *feed.EntrySet
	store    *state.Store
	cache    snapshotWriter // optional
	log      logrus.FieldLogger
	interval time.Duration
}

// StartPoller launches a background goroutine that refreshes the collections
// at the poll interval, retrying sooner with exponential backoff after
// failures. It returns immediately.
func StartPoller(ctx context.Context, p *poller) {
	if p.interval <= 0 {
		p.interval = defaultPollInterval
	}
	retry := newRetryBackOff(min(retryInterval, p.interval))
	go func() {
		for {
			wait := p.interval
			if err := p.refresh(ctx); err != nil {
				wait = retry.NextBackOff()
			} else {
				retry.Reset()
			}

			timer := time.NewTimer(wait)
			select {
			case <-ctx.Done():
				timer.Stop()
				return
			case <-timer.C:
			}
		}
	}()
}

// refresh fetches feeds and entries, swaps them into the shared collections,
// records the outcome in the store and writes a copy to the cache.
func (p *poller) refresh(ctx context.Context) error {
	feeds, err := p.fetcher.FetchFeeds(ctx)
	if err != nil {
		return p.fail(ctx, "feed poll failed", err)
	}
	entries, err := p.fetcher.FetchEntries(ctx, reader.EntryQuery{Limit: entryLimit})
	if err != nil {
		return p.fail(ctx, "entry poll failed", err)
	}

	p.feeds.Replace(feeds)
	p.entries.Replace(entries)
	summary := state.Summary{
		Feeds:   len(feeds),
		Entries: len(entries),
		Unread:  lo.SumBy(feeds, func(f feed.Feed) int { return f.UnreadCount }),
	}
	p.store.Update(&summary, nil)

	p.log.WithFields(logrus.Fields{
		"feeds":   summary.Feeds,
		"entries": summary.Entries,
		"unread":  summary.Unread,
	}).Debug("poll complete")

	if p.cache != nil {
		if err := p.cache.SaveFeeds(ctx, feeds); err != nil {
			p.log.WithError(err).Warn("cache feeds")
		}
		if err := p.cache.SaveEntries(ctx, entries); err != nil {
			p.log.WithError(err).Warn("cache entries")
		}
	}
	return nil
}

func (p *poller) fail(ctx context.Context, msg string, err error) error {
	// Shutdown cancels in-flight requests; that is not a server failure.
	if ctx.Err() != nil && errors.Is(err, ctx.Err()) {
		return err
	}
	p.store.Update(nil, err)
	p.log.WithError(err).Warn(msg)
	return err
}

// newRetryBackOff returns the schedule used between failed polls: base,
// doubling each time, capped at maxBackoff and never giving up.
func newRetryBackOff(base time.Duration) backoff.BackOff {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = base
	b.Multiplier = 2
	b.RandomizationFactor = 0
	b.MaxInterval = maxBackoff
	b.MaxElapsedTime = 0
	b.Reset()
	return b
}
