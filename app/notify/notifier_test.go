package notify

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/footwire/transferwatch/app/club"
	"github.com/footwire/transferwatch/app/source"
)

func testClub() club.Club {
	return club.Club{
		Key:     "chelsea",
		Name:    "Chelsea",
		Emoji:   "🔵",
		Color:   0x034694,
		LogoURL: "https://example.com/chelsea.png",
	}
}

func channelItem() source.Item {
	return source.Item{
		ID:          "101",
		Text:        "🚨 OFFICIAL: Chelsea sign midfielder",
		Title:       "🚨 OFFICIAL: Chelsea sign midfielder",
		PublishedAt: time.Date(2025, 8, 14, 10, 30, 0, 0, time.UTC),
		SourceName:  "Telegram",
		SourceURL:   "https://t.me/transfers/101",
	}
}

func redditItem() source.Item {
	return source.Item{
		ID:          "t3_abc",
		Text:        "Chelsea agree deal for striker",
		Title:       "Chelsea agree deal for striker",
		PublishedAt: time.Date(2025, 8, 14, 10, 30, 0, 0, time.UTC),
		SourceName:  "Reddit",
		SourceURL:   "https://reddit.com/r/chelseafc/comments/abc",
		Extra: map[string]string{
			"subreddit": "chelseafc",
			"flair":     "Tier 1",
			"author":    "newsposter",
			"permalink": "https://reddit.com/r/chelseafc/comments/abc",
			"link_url":  "https://example.com/article",
		},
	}
}

func TestNotifier_SendAllSucceed(t *testing.T) {
	var requests atomic.Int64
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests.Add(1)
		if ct := r.Header.Get("Content-Type"); ct != "application/json" {
			t.Errorf("Expected application/json content type, got %q", ct)
		}
		w.WriteHeader(http.StatusNoContent)
	}))
	defer server.Close()

	notifier := NewNotifier([]string{server.URL + "/a", server.URL + "/b"}, nil)
	result := notifier.Send(context.Background(), Message{Item: channelItem(), Club: testClub()})

	if result.Succeeded != 2 || result.Failed != 0 {
		t.Errorf("Expected 2 succeeded / 0 failed, got %d / %d", result.Succeeded, result.Failed)
	}
	if !result.Delivered() {
		t.Error("Expected Delivered() to be true")
	}
	if requests.Load() != 2 {
		t.Errorf("Expected 2 webhook requests, got %d", requests.Load())
	}
}

func TestNotifier_SendPartialFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.HasSuffix(r.URL.Path, "/bad") {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}))
	defer server.Close()

	notifier := NewNotifier([]string{server.URL + "/good", server.URL + "/bad"}, nil)
	result := notifier.Send(context.Background(), Message{Item: channelItem(), Club: testClub()})

	if result.Succeeded != 1 || result.Failed != 1 {
		t.Errorf("Expected 1 succeeded / 1 failed, got %d / %d", result.Succeeded, result.Failed)
	}
	if !result.Delivered() {
		t.Error("Expected Delivered() to be true when one destination succeeds")
	}
}

func TestNotifier_SendAllFail(t *testing.T) {
	notifier := NewNotifier([]string{"http://127.0.0.1:1/unreachable"}, nil)
	result := notifier.Send(context.Background(), Message{Item: channelItem(), Club: testClub()})

	if result.Succeeded != 0 || result.Failed != 1 {
		t.Errorf("Expected 0 succeeded / 1 failed, got %d / %d", result.Succeeded, result.Failed)
	}
	if result.Delivered() {
		t.Error("Expected Delivered() to be false when all destinations fail")
	}
}

func TestNotifier_ChannelEmbedShape(t *testing.T) {
	var payload webhookPayload
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		if err := json.Unmarshal(body, &payload); err != nil {
			t.Errorf("Failed to decode payload: %v", err)
		}
		w.WriteHeader(http.StatusNoContent)
	}))
	defer server.Close()

	notifier := NewNotifier([]string{server.URL}, nil)
	notifier.Send(context.Background(), Message{Item: channelItem(), Club: testClub()})

	if len(payload.Embeds) != 1 {
		t.Fatalf("Expected 1 embed, got %d", len(payload.Embeds))
	}

	embed := payload.Embeds[0]
	if embed.Title != "🔵 Chelsea" {
		t.Errorf("Expected title '🔵 Chelsea', got %q", embed.Title)
	}
	if embed.Description != "🚨 OFFICIAL: Chelsea sign midfielder" {
		t.Errorf("Unexpected description: %q", embed.Description)
	}
	if embed.Color != 0x034694 {
		t.Errorf("Expected club color, got %d", embed.Color)
	}
	if embed.Footer == nil || embed.Footer.Text != "Transfer Bot • Telegram" {
		t.Errorf("Unexpected footer: %+v", embed.Footer)
	}
	if len(embed.Fields) != 0 {
		t.Errorf("Channel embed should have no fields, got %d", len(embed.Fields))
	}
	if embed.Timestamp != "2025-08-14T10:30:00Z" {
		t.Errorf("Unexpected timestamp: %q", embed.Timestamp)
	}
}

func TestNotifier_RedditEmbedShape(t *testing.T) {
	var payload webhookPayload
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		json.Unmarshal(body, &payload)
		w.WriteHeader(http.StatusNoContent)
	}))
	defer server.Close()

	notifier := NewNotifier([]string{server.URL}, nil)
	notifier.Send(context.Background(), Message{Item: redditItem(), Club: testClub()})

	if len(payload.Embeds) != 1 {
		t.Fatalf("Expected 1 embed, got %d", len(payload.Embeds))
	}

	embed := payload.Embeds[0]
	if embed.Title != "🔵 Chelsea Transfer News" {
		t.Errorf("Unexpected title: %q", embed.Title)
	}
	if embed.Thumbnail == nil || embed.Thumbnail.URL != "https://example.com/chelsea.png" {
		t.Errorf("Expected club logo thumbnail, got %+v", embed.Thumbnail)
	}
	if embed.Footer == nil || embed.Footer.Text != "r/chelseafc • Transfer Bot" {
		t.Errorf("Unexpected footer: %+v", embed.Footer)
	}

	fieldNames := make(map[string]string)
	for _, f := range embed.Fields {
		fieldNames[f.Name] = f.Value
	}
	if fieldNames["Source"] != "[View Article](https://example.com/article)" {
		t.Errorf("Unexpected Source field: %q", fieldNames["Source"])
	}
	if fieldNames["Reddit Post"] != "[View Discussion](https://reddit.com/r/chelseafc/comments/abc)" {
		t.Errorf("Unexpected Reddit Post field: %q", fieldNames["Reddit Post"])
	}
	if fieldNames["Posted by"] != "u/newsposter" {
		t.Errorf("Unexpected Posted by field: %q", fieldNames["Posted by"])
	}
	if fieldNames["Tier"] != "Tier 1" {
		t.Errorf("Unexpected Tier field: %q", fieldNames["Tier"])
	}
}

func TestNotifier_ExcerptAppendedToDescription(t *testing.T) {
	article := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		io.WriteString(w, `<html><head><title>Deal done</title></head><body>
			<article>
				<p>Chelsea have completed the signing of the midfielder on a five year deal.
				The fee is reported to be in the region of sixty million euros, with add-ons
				that could take the total higher. The player will wear the number eight shirt
				and joins up with the squad after the international break concludes.</p>
			</article>
		</body></html>`)
	}))
	defer article.Close()

	var payload webhookPayload
	webhook := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		json.Unmarshal(body, &payload)
		w.WriteHeader(http.StatusNoContent)
	}))
	defer webhook.Close()

	item := redditItem()
	item.Extra["link_url"] = article.URL

	notifier := NewNotifier([]string{webhook.URL}, NewExcerptExtractor("transferwatch-test"))
	notifier.Send(context.Background(), Message{Item: item, Club: testClub()})

	if len(payload.Embeds) != 1 {
		t.Fatalf("Expected 1 embed, got %d", len(payload.Embeds))
	}

	description := payload.Embeds[0].Description
	if !strings.HasPrefix(description, "Chelsea agree deal for striker") {
		t.Errorf("Expected description to start with the title, got %q", description)
	}
	if !strings.Contains(description, "completed the signing") {
		t.Errorf("Expected description to contain the excerpt, got %q", description)
	}
}

func TestNotifier_ExcerptFailureSkipped(t *testing.T) {
	var payload webhookPayload
	webhook := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		json.Unmarshal(body, &payload)
		w.WriteHeader(http.StatusNoContent)
	}))
	defer webhook.Close()

	item := redditItem()
	item.Extra["link_url"] = "http://127.0.0.1:1/gone"

	notifier := NewNotifier([]string{webhook.URL}, NewExcerptExtractor("transferwatch-test"))
	result := notifier.Send(context.Background(), Message{Item: item, Club: testClub()})

	if !result.Delivered() {
		t.Error("Expected delivery to succeed despite excerpt failure")
	}
	if payload.Embeds[0].Description != "Chelsea agree deal for striker" {
		t.Errorf("Expected bare title description, got %q", payload.Embeds[0].Description)
	}
}

func TestExcerptExtractor_Truncates(t *testing.T) {
	long := strings.Repeat("Transfer window news keeps rolling in today. ", 30)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		io.WriteString(w, "<html><head><title>News</title></head><body><article><p>"+long+"</p></article></body></html>")
	}))
	defer server.Close()

	excerpt, err := NewExcerptExtractor("").Run(context.Background(), server.URL)
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	if got := len([]rune(excerpt)); got > excerptMaxLength+1 {
		t.Errorf("Expected excerpt capped at %d runes, got %d", excerptMaxLength+1, got)
	}
	if !strings.HasSuffix(excerpt, "…") {
		t.Errorf("Expected truncated excerpt to end with ellipsis, got %q", excerpt)
	}
}

func TestExcerptExtractor_NonOKStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	if _, err := NewExcerptExtractor("").Run(context.Background(), server.URL); err == nil {
		t.Error("Expected error for non-200 response")
	}
}
