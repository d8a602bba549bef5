package notify

import (
	"fmt"
	"time"

	"github.com/footwire/transferwatch/app/club"
	"github.com/footwire/transferwatch/app/source"
)

type Embed struct {
	Title       string          `json:"title"`
	Description string          `json:"description,omitempty"`
	Color       int             `json:"color"`
	Fields      []EmbedField    `json:"fields,omitempty"`
	Timestamp   string          `json:"timestamp"`
	Footer      *EmbedFooter    `json:"footer,omitempty"`
	Thumbnail   *EmbedThumbnail `json:"thumbnail,omitempty"`
}

type EmbedField struct {
	Name   string `json:"name"`
	Value  string `json:"value"`
	Inline bool   `json:"inline"`
}

type EmbedFooter struct {
	Text string `json:"text"`
}

type EmbedThumbnail struct {
	URL string `json:"url"`
}

type webhookPayload struct {
	Embeds []Embed `json:"embeds"`
}

// buildEmbed renders an item as a Discord embed. Reddit items get a richer
// layout with source, discussion and author fields; everything else gets
// the compact channel layout.
func buildEmbed(item source.Item, c club.Club, excerpt string) Embed {
	if _, ok := item.Extra["permalink"]; ok {
		return buildRedditEmbed(item, c, excerpt)
	}
	return buildChannelEmbed(item, c, excerpt)
}

func buildChannelEmbed(item source.Item, c club.Club, excerpt string) Embed {
	description := item.Title
	if excerpt != "" {
		description = fmt.Sprintf("%s\n\n%s", item.Title, excerpt)
	}

	return Embed{
		Title:       fmt.Sprintf("%s %s", c.Emoji, c.Name),
		Description: description,
		Color:       c.Color,
		Timestamp:   item.PublishedAt.UTC().Format(time.RFC3339),
		Footer:      &EmbedFooter{Text: fmt.Sprintf("Transfer Bot • %s", item.SourceName)},
	}
}

func buildRedditEmbed(item source.Item, c club.Club, excerpt string) Embed {
	description := item.Title
	if excerpt != "" {
		description = fmt.Sprintf("%s\n\n%s", item.Title, excerpt)
	}

	fields := []EmbedField{}

	if linkURL := item.Extra["link_url"]; linkURL != "" {
		fields = append(fields, EmbedField{
			Name:   "Source",
			Value:  fmt.Sprintf("[View Article](%s)", linkURL),
			Inline: true,
		})
	}

	fields = append(fields, EmbedField{
		Name:   "Reddit Post",
		Value:  fmt.Sprintf("[View Discussion](%s)", item.Extra["permalink"]),
		Inline: true,
	})

	if author := item.Extra["author"]; author != "" {
		fields = append(fields, EmbedField{
			Name:   "Posted by",
			Value:  fmt.Sprintf("u/%s", author),
			Inline: true,
		})
	}

	if flair := item.Extra["flair"]; flair != "" {
		fields = append(fields, EmbedField{
			Name:   "Tier",
			Value:  flair,
			Inline: true,
		})
	}

	embed := Embed{
		Title:       fmt.Sprintf("%s %s Transfer News", c.Emoji, c.Name),
		Description: description,
		Color:       c.Color,
		Fields:      fields,
		Timestamp:   item.PublishedAt.UTC().Format(time.RFC3339),
	}

	if subreddit := item.Extra["subreddit"]; subreddit != "" {
		embed.Footer = &EmbedFooter{Text: fmt.Sprintf("r/%s • Transfer Bot", subreddit)}
	} else {
		embed.Footer = &EmbedFooter{Text: "Transfer Bot"}
	}

	if c.LogoURL != "" {
		embed.Thumbnail = &EmbedThumbnail{URL: c.LogoURL}
	}

	return embed
}
