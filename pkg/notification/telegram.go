// Package notification provides implementations for various notification services
package notification

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"slices"

	"github.com/raykavin/boostwatch/pkg/core"
	"github.com/raykavin/boostwatch/pkg/format"
	"github.com/samber/lo"
	log "github.com/sirupsen/logrus"
	tb "gopkg.in/tucnak/telebot.v2"
)

// Telegram implements the core.NotifierWithStart interface
type telegram struct {
	settings  *core.Settings
	formatter format.Formatter
	status    core.StatusReporter
	chat      *tb.Chat
	client    *tb.Bot
}

// Option is a function that configures a telegram instance
type Option func(telegram *telegram)

// WithStatusReporter wires the source answering /status and /stats.
func WithStatusReporter(status core.StatusReporter) Option {
	return func(t *telegram) {
		t.status = status
	}
}

// NewTelegram creates and initializes a new Telegram service
func NewTelegram(settings *core.Settings, options ...Option) (core.NotifierWithStart, error) {
	poller := &tb.LongPoller{Timeout: 10 * time.Second}

	// Create user authorization middleware
	userMiddleware := createAuthMiddleware(poller, settings)

	// Initialize bot client
	client, err := tb.NewBot(tb.Settings{
		ParseMode: tb.ModeMarkdown,
		Token:     settings.Telegram.Token,
		Poller:    userMiddleware,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create telegram bot: %w", err)
	}

	if err := setupCommands(client); err != nil {
		return nil, fmt.Errorf("failed to set commands: %w", err)
	}

	bot := &telegram{
		settings:  settings,
		formatter: format.New(settings.TargetChain),
		chat:      &tb.Chat{ID: settings.Telegram.ChatID},
		client:    client,
	}

	// Apply custom options if provided
	for _, option := range options {
		option(bot)
	}

	registerHandlers(client, bot)

	return bot, nil
}

// createAuthMiddleware creates a middleware restricting updates to the
// configured chat and the extra allowed user IDs
func createAuthMiddleware(poller *tb.LongPoller, settings *core.Settings) *tb.MiddlewarePoller {
	return tb.NewMiddlewarePoller(poller, func(u *tb.Update) bool {
		if u.Message == nil || u.Message.Sender == nil {
			return false
		}

		if u.Message.Chat != nil && u.Message.Chat.ID == settings.Telegram.ChatID {
			return true
		}

		if slices.Contains(settings.Telegram.Users, int64(u.Message.Sender.ID)) {
			return true
		}

		log.Error("unauthorized user ", u.Message.Sender.ID)
		return false
	})
}

// setupCommands configures available bot commands
func setupCommands(client *tb.Bot) error {
	return client.SetCommands([]tb.Command{
		{Text: "/help", Description: "Display help instructions"},
		{Text: "/status", Description: "Check watcher status"},
		{Text: "/stats", Description: "Alert counts per boost amount"},
	})
}

// registerHandlers registers all command handlers
func registerHandlers(client *tb.Bot, bot *telegram) {
	client.Handle("/help", bot.HelpHandle)
	client.Handle("/status", bot.StatusHandle)
	client.Handle("/stats", bot.StatsHandle)
}

// Start begins consuming Telegram updates
func (t *telegram) Start() {
	go t.client.Start()
}

// Notify sends a plain message to the configured chat
func (t *telegram) Notify(text string) {
	_, err := t.client.Send(t.chat, text)
	if err != nil {
		log.WithError(err).Error("failed to send notification")
	}
}

// OnBoost formats and delivers one boost alert. A failed send is
// reported as a DeliveryError and the message is dropped, not retried.
func (t *telegram) OnBoost(boost core.Boost, pair *core.PairInfo) error {
	message := t.formatter.BoostMessage(boost, pair)

	if _, err := t.client.Send(t.chat, message); err != nil {
		return &core.DeliveryError{Boost: boost, Err: err}
	}

	return nil
}

// sendMessage sends a message to a specific user
func (t *telegram) sendMessage(to *tb.User, text string) {
	_, err := t.client.Send(to, text)
	if err != nil {
		log.WithError(err).Error("failed to send message")
	}
}

// HelpHandle displays available commands
func (t *telegram) HelpHandle(m *tb.Message) {
	commands, err := t.client.GetCommands()
	if err != nil {
		log.WithError(err).Error("failed to get commands")
		return
	}

	lines := make([]string, 0, len(commands))
	for _, command := range commands {
		lines = append(lines, fmt.Sprintf("/%s - %s", command.Text, command.Description))
	}

	t.sendMessage(m.Sender, strings.Join(lines, "\n"))
}

// StatusHandle displays uptime and scan counters
func (t *telegram) StatusHandle(m *tb.Message) {
	if t.status == nil {
		t.sendMessage(m.Sender, "Status is not available.")
		return
	}

	stats := t.status.Snapshot()
	uptime := time.Since(stats.StartedAt).Round(time.Second)
	t.sendMessage(m.Sender, fmt.Sprintf(
		"Status: `watching`\nUptime: `%s`\nScans: `%d`\nAlerts: `%d`",
		uptime, stats.Scans, stats.Alerts,
	))
}

// StatsHandle displays alert counts broken down by boost amount
func (t *telegram) StatsHandle(m *tb.Message) {
	if t.status == nil {
		t.sendMessage(m.Sender, "Stats are not available.")
		return
	}

	stats := t.status.Snapshot()
	if len(stats.ByAmount) == 0 {
		t.sendMessage(m.Sender, "No alerts registered.")
		return
	}

	amounts := lo.Keys(stats.ByAmount)
	sort.Sort(sort.Reverse(sort.IntSlice(amounts)))

	var sb strings.Builder
	sb.WriteString("*ALERTS BY AMOUNT*\n")
	for _, amount := range amounts {
		fmt.Fprintf(&sb, "%d⚡: `%d`\n", amount, stats.ByAmount[amount])
	}

	t.sendMessage(m.Sender, sb.String())
}
