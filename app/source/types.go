package source

import (
	"context"
	"time"
)

// Item is a normalized feed entry. It is immutable once constructed.
type Item struct {
	ID          string
	Text        string
	Title       string
	PublishedAt time.Time
	SourceName  string
	SourceURL   string

	// Extra carries provider-specific fields: score, flair, selftext,
	// permalink, link_url, views, subreddit.
	Extra map[string]string
}

// Source produces a sequence of raw items from one provider. Connect failures
// are fatal at startup; Subscribe errors are recoverable via the watcher's
// reconnect loop.
type Source interface {
	Connect(ctx context.Context) error

	// FetchRecent returns up to limit recent items, newest-first.
	FetchRecent(ctx context.Context, limit int) ([]Item, error)
	Subscribe(ctx context.Context, onItem func(Item)) error
	Disconnect() error
	Name() string
}

const titleMaxLen = 200

// makeTitle derives a short title from post text: the first 200 characters.
func makeTitle(text string) string {
	runes := []rune(text)
	if len(runes) > titleMaxLen {
		return string(runes[:titleMaxLen])
	}
	return text
}
