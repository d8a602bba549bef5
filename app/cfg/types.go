package cfg

type Cfg struct {
	// Source selection
	SourceType string

	// Telegram source
	TelegramToken   string
	TelegramChannel string

	// Reddit source
	RedditSubreddits string
	RedditCatchUp    string

	// RSS source
	RSSFeedURL string

	// Notification destinations
	WebhookURLs string

	// Seen-state storage
	SeenBackend      string
	SeenFile         string
	SeenDBPath       string
	SeenCap          int
	SeenSaveInterval int

	// Watcher behavior
	BackfillLimit  int
	PollInterval   int
	EnableExcerpts bool

	// Club catalog
	ClubsDir string

	// HTTP server
	Port string

	// Application metadata
	UserAgent string
	Debug     bool
	Version   string
}
