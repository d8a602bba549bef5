package source

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/mmcdole/gofeed"
)

// RSSSource monitors a single RSS/Atom feed of transfer news. Items route
// through the same channel-style policy as Telegram posts.
type RSSSource struct {
	feedURL      string
	userAgent    string
	pollInterval time.Duration
	parser       *gofeed.Parser
}

func NewRSSSource(feedURL, userAgent string, pollInterval time.Duration) *RSSSource {
	parser := gofeed.NewParser()
	parser.UserAgent = userAgent

	return &RSSSource{
		feedURL:      feedURL,
		userAgent:    userAgent,
		pollInterval: pollInterval,
		parser:       parser,
	}
}

func (s *RSSSource) Name() string {
	return "RSS"
}

func (s *RSSSource) Connect(ctx context.Context) error {
	feed, err := s.parser.ParseURLWithContext(s.feedURL, ctx)
	if err != nil {
		return fmt.Errorf("failed to connect to RSS feed: %w", err)
	}

	slog.Info("Connected to RSS feed", "url", s.feedURL, "title", feed.Title, "items", len(feed.Items))

	return nil
}

// FetchRecent parses the feed and returns up to limit items newest-first.
func (s *RSSSource) FetchRecent(ctx context.Context, limit int) ([]Item, error) {
	feed, err := s.parser.ParseURLWithContext(s.feedURL, ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch feed: %w", err)
	}

	items := make([]Item, 0, limit)
	for _, entry := range feed.Items {
		if len(items) >= limit {
			break
		}
		items = append(items, s.parse(entry, feed.Title))
	}

	return items, nil
}

func (s *RSSSource) Subscribe(ctx context.Context, onItem func(Item)) error {
	slog.Info("Live monitoring started", "feed", s.feedURL, "interval", s.pollInterval.String())

	failures := 0
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-time.After(s.pollInterval):
		}

		feed, err := s.parser.ParseURLWithContext(s.feedURL, ctx)
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			failures++
			slog.Warn("Feed fetch failed", "url", s.feedURL, "failures", failures, "error", err)
			if failures >= 3 {
				return fmt.Errorf("feed unreachable after %d attempts: %w", failures, err)
			}
			continue
		}
		failures = 0

		// Feeds list newest-first; deliver oldest-first.
		for i := len(feed.Items) - 1; i >= 0; i-- {
			onItem(s.parse(feed.Items[i], feed.Title))
		}
	}
}

func (s *RSSSource) Disconnect() error {
	return nil
}

func (s *RSSSource) parse(entry *gofeed.Item, feedTitle string) Item {
	id := entry.GUID
	if id == "" {
		id = entry.Link
	}

	text := strings.TrimSpace(entry.Title + " " + entry.Description)

	published := time.Now().UTC()
	if entry.PublishedParsed != nil {
		published = entry.PublishedParsed.UTC()
	}

	extra := map[string]string{}
	if entry.Link != "" {
		extra["link_url"] = entry.Link
	}

	return Item{
		ID:          id,
		Text:        text,
		Title:       makeTitle(entry.Title),
		PublishedAt: published,
		SourceName:  feedTitle,
		SourceURL:   entry.Link,
		Extra:       extra,
	}
}
