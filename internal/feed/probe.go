package feed

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/mmcdole/gofeed"
)

const probeTimeout = 15 * time.Second

// Probe fetches and parses the feed at url so the subscribe dialog can
// confirm it is a real RSS/Atom/JSON feed before asking the server to add it.
// The returned Feed has no ID; the server assigns one on subscribe.
func Probe(ctx context.Context, url string) (Feed, int, error) {
	trimmed := strings.TrimSpace(url)
	if trimmed == "" {
		return Feed{}, 0, fmt.Errorf("feed url is empty")
	}
	if !strings.Contains(trimmed, "://") {
		trimmed = "https://" + trimmed
	}

	ctx, cancel := context.WithTimeout(ctx, probeTimeout)
	defer cancel()

	parser := gofeed.NewParser()
	parser.Client = &http.Client{Timeout: probeTimeout}
	parsed, err := parser.ParseURLWithContext(trimmed, ctx)
	if err != nil {
		return Feed{}, 0, fmt.Errorf("parse feed %s: %w", trimmed, err)
	}

	f := Feed{
		Title:       strings.TrimSpace(parsed.Title),
		URL:         trimmed,
		SiteURL:     parsed.Link,
		Description: strings.TrimSpace(parsed.Description),
	}
	return f, len(parsed.Items), nil
}
