package source

import (
	"context"
	"fmt"
	"log/slog"
	"regexp"
	"strconv"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// telegraphLinkPattern matches the invisible telegra.ph file links some
// channels embed for image previews. They carry no text and break formatting.
var telegraphLinkPattern = regexp.MustCompile(`\[[^\]]*\]\(https://telegra\.ph/file/[^)]+\)`)

// TelegramSource watches a single Telegram channel through the Bot API.
// The bot must be a member of the channel to receive its posts.
type TelegramSource struct {
	token   string
	channel string
	bot     *tgbotapi.BotAPI
}

func NewTelegramSource(token, channel string) *TelegramSource {
	return &TelegramSource{
		token:   token,
		channel: strings.TrimPrefix(channel, "@"),
	}
}

func (s *TelegramSource) Name() string {
	return "Telegram"
}

func (s *TelegramSource) Connect(ctx context.Context) error {
	bot, err := tgbotapi.NewBotAPI(s.token)
	if err != nil {
		return fmt.Errorf("failed to connect to Telegram: %w", err)
	}

	s.bot = bot
	slog.Info("Connected to Telegram", "bot", bot.Self.UserName, "channel", s.channel)

	return nil
}

// FetchRecent replays the most recent pending updates using a negative
// offset, returning channel posts newest-first.
func (s *TelegramSource) FetchRecent(ctx context.Context, limit int) ([]Item, error) {
	if s.bot == nil {
		return nil, fmt.Errorf("not connected")
	}

	updates, err := s.bot.GetUpdates(tgbotapi.UpdateConfig{
		Offset:         -limit,
		Limit:          limit,
		AllowedUpdates: []string{"channel_post"},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch recent updates: %w", err)
	}

	// Updates arrive oldest-first; reverse to the newest-first contract.
	items := make([]Item, 0, len(updates))
	for i := len(updates) - 1; i >= 0; i-- {
		post := updates[i].ChannelPost
		if post == nil || post.Text == "" {
			continue
		}
		if !s.fromWatchedChannel(post) {
			continue
		}
		items = append(items, s.parse(post))
	}

	slog.Debug("Fetched recent channel posts", "channel", s.channel, "requested", limit, "returned", len(items))

	return items, nil
}

func (s *TelegramSource) Subscribe(ctx context.Context, onItem func(Item)) error {
	if s.bot == nil {
		return fmt.Errorf("not connected")
	}

	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60
	u.AllowedUpdates = []string{"channel_post"}

	updates := s.bot.GetUpdatesChan(u)
	defer s.bot.StopReceivingUpdates()

	slog.Info("Live monitoring started", "channel", s.channel)

	for {
		select {
		case <-ctx.Done():
			return nil
		case update, ok := <-updates:
			if !ok {
				return fmt.Errorf("telegram update stream closed")
			}
			post := update.ChannelPost
			if post == nil || post.Text == "" {
				continue
			}
			if !s.fromWatchedChannel(post) {
				continue
			}
			onItem(s.parse(post))
		}
	}
}

func (s *TelegramSource) Disconnect() error {
	if s.bot != nil {
		s.bot.StopReceivingUpdates()
		slog.Info("Disconnected from Telegram")
	}
	return nil
}

func (s *TelegramSource) fromWatchedChannel(post *tgbotapi.Message) bool {
	if s.channel == "" {
		return true
	}
	return post.Chat != nil && strings.EqualFold(post.Chat.UserName, s.channel)
}

func (s *TelegramSource) parse(post *tgbotapi.Message) Item {
	text := cleanChannelText(post.Text)

	extra := map[string]string{}
	if post.SenderChat != nil && post.SenderChat.Title != "" {
		extra["channel_title"] = post.SenderChat.Title
	}

	return Item{
		ID:          strconv.Itoa(post.MessageID),
		Text:        text,
		Title:       makeTitle(text),
		PublishedAt: time.Unix(int64(post.Date), 0).UTC(),
		SourceName:  "Telegram",
		SourceURL:   fmt.Sprintf("https://t.me/%s/%d", s.channel, post.MessageID),
		Extra:       extra,
	}
}

func cleanChannelText(text string) string {
	return strings.TrimSpace(telegraphLinkPattern.ReplaceAllString(text, ""))
}
