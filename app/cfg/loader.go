package cfg

import (
	"cmp"
	"fmt"
	"strings"

	"github.com/jessevdk/go-flags"
)

// Version is set at build time via -ldflags
var Version = "dev"

func GetVersion() string {
	return cmp.Or(Version, "unknown")
}

type rawCfg struct {
	// Source selection
	SourceType string `long:"source" env:"SOURCE_TYPE" default:"telegram" choice:"telegram" choice:"reddit" choice:"rss" description:"Feed source to monitor"`

	// Telegram source
	TelegramToken   string `long:"telegram-token" env:"TELEGRAM_BOT_TOKEN" description:"Telegram bot token (required for telegram source)"`
	TelegramChannel string `long:"telegram-channel" env:"TELEGRAM_CHANNEL" default:"transfer_news_football" description:"Telegram channel username to monitor"`

	// Reddit source
	RedditSubreddits string `long:"subreddits" env:"REDDIT_SUBREDDITS" default:"chelseafc:chelsea,soccer:general" description:"Comma-separated subreddit:club entries (club 'general' for aggregate subreddits)"`
	RedditCatchUp    string `long:"catchup-subreddits" env:"REDDIT_CATCHUP_SUBREDDITS" description:"Comma-separated subreddits that get a larger backfill fetch"`

	// RSS source
	RSSFeedURL string `long:"rss-url" env:"RSS_FEED_URL" description:"RSS/Atom feed URL (required for rss source)"`

	// Notification destinations
	WebhookURLs string `long:"webhooks" env:"DISCORD_WEBHOOK_URL" description:"Comma-separated Discord webhook URLs (required)"`

	// Seen-state storage
	SeenBackend      string `long:"seen-backend" env:"SEEN_BACKEND" default:"file" choice:"file" choice:"sqlite" description:"Persistence backend for seen item IDs"`
	SeenFile         string `long:"seen-file" env:"SEEN_MESSAGES_FILE" default:"/tmp/seen_messages.json" description:"Path to the seen-IDs JSON file (file backend)"`
	SeenDBPath       string `long:"seen-db" env:"SEEN_DB_PATH" default:"./transferwatch.db" description:"Path to the sqlite database (sqlite backend)"`
	SeenCap          int    `long:"seen-cap" env:"SEEN_CAP" default:"2000" description:"Maximum number of seen IDs retained after a persist"`
	SeenSaveInterval int    `long:"seen-save-interval" env:"SEEN_SAVE_INTERVAL" default:"20" description:"Persist the seen store after every Nth new item"`

	// Watcher behavior
	BackfillLimit  int  `long:"backfill-limit" env:"INITIAL_CHECK_LIMIT" default:"50" description:"Maximum history window for the startup backfill scan"`
	PollInterval   int  `long:"poll-interval" env:"POLL_INTERVAL" default:"60" description:"Polling interval in seconds for reddit/rss sources"`
	EnableExcerpts bool `long:"excerpts" env:"ENABLE_EXCERPTS" description:"Fetch linked articles and attach a readable excerpt to notifications"`

	// Club catalog
	ClubsDir string `long:"clubs-dir" env:"CLUBS_DIR" description:"Directory with YAML club definitions overriding the built-in catalog (optional)"`

	// HTTP server
	Port string `long:"port" env:"PORT" default:"8080" description:"HTTP server port for health/stats endpoints"`

	// Application metadata
	UserAgent string `long:"user-agent" env:"USER_AGENT" default:"transferwatch/1.0" description:"User agent string for HTTP requests"`
	Debug     bool   `long:"debug" env:"DEBUG" description:"Enable debug logging"`
}

func Load() (*Cfg, error) {
	var raw rawCfg

	parser := flags.NewParser(&raw, flags.Default)

	if _, err := parser.Parse(); err != nil {
		if flagsErr, ok := err.(*flags.Error); ok {
			if flagsErr.Type == flags.ErrHelp {
				return nil, nil
			}
		}
		return nil, fmt.Errorf("failed to parse configuration: %w", err)
	}

	cfg := &Cfg{
		SourceType:       raw.SourceType,
		TelegramToken:    raw.TelegramToken,
		TelegramChannel:  raw.TelegramChannel,
		RedditSubreddits: raw.RedditSubreddits,
		RedditCatchUp:    raw.RedditCatchUp,
		RSSFeedURL:       raw.RSSFeedURL,
		WebhookURLs:      raw.WebhookURLs,
		SeenBackend:      raw.SeenBackend,
		SeenFile:         raw.SeenFile,
		SeenDBPath:       raw.SeenDBPath,
		SeenCap:          raw.SeenCap,
		SeenSaveInterval: raw.SeenSaveInterval,
		BackfillLimit:    raw.BackfillLimit,
		PollInterval:     raw.PollInterval,
		EnableExcerpts:   raw.EnableExcerpts,
		ClubsDir:         raw.ClubsDir,
		Port:             raw.Port,
		UserAgent:        raw.UserAgent,
		Debug:            raw.Debug,
		Version:          GetVersion(),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks that every field required for the selected source type is
// present. It runs before any network I/O so misconfiguration fails fast.
func (c *Cfg) Validate() error {
	switch c.SourceType {
	case "telegram":
		if c.TelegramToken == "" {
			return fmt.Errorf("telegram source requires --telegram-token (TELEGRAM_BOT_TOKEN)")
		}
		if c.TelegramChannel == "" {
			return fmt.Errorf("telegram source requires --telegram-channel (TELEGRAM_CHANNEL)")
		}
	case "reddit":
		if strings.TrimSpace(c.RedditSubreddits) == "" {
			return fmt.Errorf("reddit source requires --subreddits (REDDIT_SUBREDDITS)")
		}
	case "rss":
		if c.RSSFeedURL == "" {
			return fmt.Errorf("rss source requires --rss-url (RSS_FEED_URL)")
		}
	default:
		return fmt.Errorf("unsupported source type: %s", c.SourceType)
	}

	if len(c.Webhooks()) == 0 {
		return fmt.Errorf("at least one webhook URL is required (DISCORD_WEBHOOK_URL)")
	}

	if c.SeenCap <= 0 {
		return fmt.Errorf("seen cap must be positive")
	}
	if c.SeenSaveInterval <= 0 {
		return fmt.Errorf("seen save interval must be positive")
	}
	if c.BackfillLimit <= 0 {
		return fmt.Errorf("backfill limit must be positive")
	}

	return nil
}

// Webhooks returns the configured destination URLs with blanks and
// surrounding whitespace removed.
func (c *Cfg) Webhooks() []string {
	parts := strings.Split(c.WebhookURLs, ",")
	urls := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			urls = append(urls, p)
		}
	}
	return urls
}
