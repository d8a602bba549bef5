package source

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/sethvargo/go-retry"
)

const (
	defaultRedditBaseURL = "https://www.reddit.com"

	// Larger backfill window for subreddits flagged for catch-up.
	catchUpFetchLimit = 100

	// Pause between per-subreddit backfill fetches to stay polite with the
	// listing endpoints.
	interSubredditDelay = 2 * time.Second
)

// Subreddit binds a monitored subreddit to a club catalog entry. ClubKey
// "general" marks an aggregate subreddit that gets score/keyword filtering
// instead of flair trust.
type Subreddit struct {
	Name    string
	ClubKey string
	CatchUp bool
}

// ParseSubreddits parses "name:club" comma-separated entries. Subreddits
// listed in catchUp get a larger backfill fetch.
func ParseSubreddits(spec, catchUp string) ([]Subreddit, error) {
	catchUpSet := make(map[string]bool)
	for _, name := range strings.Split(catchUp, ",") {
		name = strings.TrimSpace(name)
		if name != "" {
			catchUpSet[strings.ToLower(name)] = true
		}
	}

	var subs []Subreddit
	for _, entry := range strings.Split(spec, ",") {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}

		parts := strings.SplitN(entry, ":", 2)
		if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
			return nil, fmt.Errorf("invalid subreddit entry '%s', expected name:club", entry)
		}

		subs = append(subs, Subreddit{
			Name:    parts[0],
			ClubKey: parts[1],
			CatchUp: catchUpSet[strings.ToLower(parts[0])],
		})
	}

	if len(subs) == 0 {
		return nil, fmt.Errorf("no subreddits configured")
	}

	return subs, nil
}

// RedditSource polls the public listing endpoints of one or more subreddits
// and merges them into a single item stream.
type RedditSource struct {
	subreddits   []Subreddit
	userAgent    string
	pollInterval time.Duration
	baseURL      string
	client       *http.Client
}

func NewRedditSource(subreddits []Subreddit, userAgent string, pollInterval time.Duration) *RedditSource {
	return &RedditSource{
		subreddits:   subreddits,
		userAgent:    userAgent,
		pollInterval: pollInterval,
		baseURL:      defaultRedditBaseURL,
		client:       &http.Client{Timeout: 15 * time.Second},
	}
}

func (s *RedditSource) Name() string {
	return "Reddit"
}

// Connect verifies the first configured subreddit is reachable. Failure here
// usually means a blocked user agent or network trouble, so it propagates.
func (s *RedditSource) Connect(ctx context.Context) error {
	sub := s.subreddits[0]

	about, err := s.fetchAbout(ctx, sub.Name)
	if err != nil {
		return fmt.Errorf("failed to connect to Reddit: %w", err)
	}

	slog.Info("Connected to Reddit", "subreddit", sub.Name, "subscribers", about.Data.Subscribers)

	return nil
}

// FetchRecent performs one fixed-size fetch per monitored subreddit,
// newest-first within each subreddit; catch-up subreddits get a larger
// window. A brief pause separates the per-subreddit fetches.
func (s *RedditSource) FetchRecent(ctx context.Context, limit int) ([]Item, error) {
	var items []Item

	for i, sub := range s.subreddits {
		fetchLimit := limit
		if sub.CatchUp {
			fetchLimit = catchUpFetchLimit
		}

		subItems, err := s.fetchListing(ctx, sub.Name, fetchLimit)
		if err != nil {
			slog.Warn("Backfill fetch failed, skipping subreddit", "subreddit", sub.Name, "error", err)
			continue
		}
		items = append(items, subItems...)

		if i < len(s.subreddits)-1 {
			select {
			case <-ctx.Done():
				return items, ctx.Err()
			case <-time.After(interSubredditDelay):
			}
		}
	}

	return items, nil
}

// Subscribe polls every subreddit on the configured interval and delivers new
// submissions oldest-to-newest through onItem. It returns an error only when
// a full sweep fails for every subreddit, leaving reconnection to the caller.
func (s *RedditSource) Subscribe(ctx context.Context, onItem func(Item)) error {
	slog.Info("Live monitoring started", "subreddits", len(s.subreddits), "interval", s.pollInterval.String())

	for {
		failures := 0
		var lastErr error

		for _, sub := range s.subreddits {
			items, err := s.fetchListing(ctx, sub.Name, 25)
			if err != nil {
				if ctx.Err() != nil {
					return nil
				}
				slog.Warn("Listing fetch failed", "subreddit", sub.Name, "error", err)
				failures++
				lastErr = err
				continue
			}

			// Listings are newest-first; deliver oldest-first so the
			// per-item pipeline sees submissions in posting order.
			for i := len(items) - 1; i >= 0; i-- {
				onItem(items[i])
			}
		}

		if failures == len(s.subreddits) {
			return fmt.Errorf("all subreddit fetches failed: %w", lastErr)
		}

		select {
		case <-ctx.Done():
			return nil
		case <-time.After(s.pollInterval):
		}
	}
}

func (s *RedditSource) Disconnect() error {
	s.client.CloseIdleConnections()
	return nil
}

type redditListing struct {
	Data struct {
		Children []struct {
			Data redditSubmission `json:"data"`
		} `json:"children"`
	} `json:"data"`
}

type redditSubmission struct {
	ID            string  `json:"id"`
	Title         string  `json:"title"`
	SelfText      string  `json:"selftext"`
	Score         int     `json:"score"`
	Author        string  `json:"author"`
	Subreddit     string  `json:"subreddit"`
	LinkFlairText string  `json:"link_flair_text"`
	Permalink     string  `json:"permalink"`
	URL           string  `json:"url"`
	CreatedUTC    float64 `json:"created_utc"`
}

type redditAbout struct {
	Data struct {
		Subscribers int `json:"subscribers"`
	} `json:"data"`
}

func (s *RedditSource) fetchListing(ctx context.Context, subreddit string, limit int) ([]Item, error) {
	url := fmt.Sprintf("%s/r/%s/new.json?limit=%d&raw_json=1", s.baseURL, subreddit, limit)

	var listing redditListing
	if err := s.getJSON(ctx, url, &listing); err != nil {
		return nil, err
	}

	items := make([]Item, 0, len(listing.Data.Children))
	for _, child := range listing.Data.Children {
		items = append(items, s.parse(child.Data))
	}

	return items, nil
}

func (s *RedditSource) fetchAbout(ctx context.Context, subreddit string) (*redditAbout, error) {
	url := fmt.Sprintf("%s/r/%s/about.json", s.baseURL, subreddit)

	var about redditAbout
	if err := s.getJSON(ctx, url, &about); err != nil {
		return nil, err
	}

	return &about, nil
}

// getJSON fetches and decodes a listing endpoint, retrying transient
// failures with a short Fibonacci backoff.
func (s *RedditSource) getJSON(ctx context.Context, url string, out interface{}) error {
	backoff := retry.WithMaxRetries(3, retry.NewFibonacci(time.Second))

	return retry.Do(ctx, backoff, func(ctx context.Context) error {
		req, err := http.NewRequestWithContext(ctx, "GET", url, nil)
		if err != nil {
			return fmt.Errorf("failed to create request: %w", err)
		}
		req.Header.Set("User-Agent", s.userAgent)

		resp, err := s.client.Do(req)
		if err != nil {
			return retry.RetryableError(fmt.Errorf("failed to fetch listing: %w", err))
		}
		defer resp.Body.Close()

		if resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500 {
			return retry.RetryableError(fmt.Errorf("HTTP error: %d %s", resp.StatusCode, resp.Status))
		}
		if resp.StatusCode != http.StatusOK {
			return fmt.Errorf("HTTP error: %d %s", resp.StatusCode, resp.Status)
		}

		data, err := io.ReadAll(resp.Body)
		if err != nil {
			return retry.RetryableError(fmt.Errorf("failed to read response body: %w", err))
		}

		if err := json.Unmarshal(data, out); err != nil {
			return fmt.Errorf("failed to parse listing JSON: %w", err)
		}

		return nil
	})
}

func (s *RedditSource) parse(sub redditSubmission) Item {
	extra := map[string]string{
		"subreddit": sub.Subreddit,
		"score":     strconv.Itoa(sub.Score),
		"flair":     sub.LinkFlairText,
		"selftext":  sub.SelfText,
		"author":    sub.Author,
		"permalink": "https://reddit.com" + sub.Permalink,
	}
	if sub.URL != "" && !strings.Contains(sub.URL, sub.Permalink) {
		extra["link_url"] = sub.URL
	}

	return Item{
		ID:          sub.ID,
		Text:        strings.TrimSpace(sub.Title + " " + sub.SelfText),
		Title:       makeTitle(sub.Title),
		PublishedAt: time.Unix(int64(sub.CreatedUTC), 0).UTC(),
		SourceName:  "Reddit",
		SourceURL:   "https://reddit.com" + sub.Permalink,
		Extra:       extra,
	}
}
