package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/footwire/transferwatch/app/club"
	"github.com/footwire/transferwatch/app/source"
)

const requestTimeout = 10 * time.Second

// Message is one accepted item bound to the club channel it should be
// announced for.
type Message struct {
	Item source.Item
	Club club.Club
}

// Result counts per-destination delivery outcomes for a single message.
type Result struct {
	Succeeded int
	Failed    int
}

// Delivered reports whether at least one destination accepted the message.
func (r Result) Delivered() bool { return r.Succeeded > 0 }

// Notifier posts messages to a set of Discord-compatible webhook URLs.
type Notifier struct {
	urls      []string
	client    *http.Client
	extractor *ExcerptExtractor
}

// NewNotifier creates a notifier for the given webhook URLs. extractor may
// be nil to disable article excerpts.
func NewNotifier(urls []string, extractor *ExcerptExtractor) *Notifier {
	return &Notifier{
		urls:      urls,
		client:    &http.Client{Timeout: requestTimeout},
		extractor: extractor,
	}
}

// Send builds the embed for msg and posts it to every destination
// concurrently. Per-destination failures are logged and counted, never
// propagated; the caller only sees the aggregate Result.
func (n *Notifier) Send(ctx context.Context, msg Message) Result {
	excerpt := n.fetchExcerpt(ctx, msg.Item)

	payload, err := json.Marshal(webhookPayload{
		Embeds: []Embed{buildEmbed(msg.Item, msg.Club, excerpt)},
	})
	if err != nil {
		slog.Error("Failed to encode webhook payload", "item_id", msg.Item.ID, "error", err)
		return Result{Failed: len(n.urls)}
	}

	var succeeded atomic.Int64

	g, groupCtx := errgroup.WithContext(ctx)
	for _, url := range n.urls {
		g.Go(func() error {
			if err := n.post(groupCtx, url, payload); err != nil {
				slog.Error("Webhook delivery failed", "item_id", msg.Item.ID, "error", err)
				return nil
			}
			succeeded.Add(1)
			return nil
		})
	}
	g.Wait()

	result := Result{
		Succeeded: int(succeeded.Load()),
		Failed:    len(n.urls) - int(succeeded.Load()),
	}

	if result.Delivered() {
		slog.Info("Posted to webhooks",
			"item_id", msg.Item.ID,
			"club", msg.Club.Key,
			"succeeded", result.Succeeded,
			"failed", result.Failed)
	} else {
		slog.Error("Failed to post to any webhook", "item_id", msg.Item.ID, "club", msg.Club.Key)
	}

	return result
}

func (n *Notifier) fetchExcerpt(ctx context.Context, item source.Item) string {
	if n.extractor == nil {
		return ""
	}

	linkURL := item.Extra["link_url"]
	if linkURL == "" {
		return ""
	}

	excerpt, err := n.extractor.Run(ctx, linkURL)
	if err != nil {
		slog.Debug("Skipping article excerpt", "url", linkURL, "error", err)
		return ""
	}
	return excerpt
}

func (n *Notifier) post(ctx context.Context, url string, payload []byte) error {
	req, err := http.NewRequestWithContext(ctx, "POST", url, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := n.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to post webhook: %w", err)
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("webhook returned status %d", resp.StatusCode)
	}

	return nil
}
