package notify

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-shiori/go-readability"
)

const (
	excerptMaxLength   = 300
	excerptFetchLimit  = 1 << 20 // 1 MiB of HTML is plenty for an article page
	excerptFetchWindow = 10 * time.Second
)

// ExcerptExtractor fetches linked articles and pulls a short readable
// snippet out of them for embed descriptions.
type ExcerptExtractor struct {
	client    *http.Client
	userAgent string
}

func NewExcerptExtractor(userAgent string) *ExcerptExtractor {
	return &ExcerptExtractor{
		client:    &http.Client{Timeout: excerptFetchWindow},
		userAgent: userAgent,
	}
}

// Run fetches url and returns a plain-text excerpt, truncated to a few
// sentences. Any failure returns an error; callers treat excerpts as
// best-effort.
func (e *ExcerptExtractor) Run(ctx context.Context, url string) (string, error) {
	fetchCtx, cancel := context.WithTimeout(ctx, excerptFetchWindow)
	defer cancel()

	req, err := http.NewRequestWithContext(fetchCtx, "GET", url, nil)
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	if e.userAgent != "" {
		req.Header.Set("User-Agent", e.userAgent)
	}

	resp, err := e.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to fetch article: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("article fetch returned status %d", resp.StatusCode)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, excerptFetchLimit))
	if err != nil {
		return "", fmt.Errorf("failed to read article body: %w", err)
	}

	article, err := readability.FromReader(strings.NewReader(string(data)), nil)
	if err != nil {
		return "", fmt.Errorf("failed to extract content: %w", err)
	}

	text := strings.TrimSpace(article.TextContent)
	if text == "" {
		return "", fmt.Errorf("no readable content at %s", url)
	}

	text = strings.Join(strings.Fields(text), " ")
	runes := []rune(text)
	if len(runes) > excerptMaxLength {
		text = string(runes[:excerptMaxLength]) + "…"
	}

	slog.Debug("Article excerpt extracted", "url", url, "length", len(text))
	return text, nil
}
