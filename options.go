package boostwatch

import "github.com/raykavin/boostwatch/pkg/core"

// Option is a functional option for configuring a Bot instance
type Option func(*Bot)

// WithNotifier registers the notifier receiving boost alerts, currently
// only telegram is supported
func WithNotifier(notifier core.Notifier) Option {
	return func(bot *Bot) {
		bot.SetNotifier(notifier)
	}
}

// WithTokenDetailer enables market data enrichment of alerts. Without
// it alerts carry placeholder market data.
func WithTokenDetailer(details core.TokenDetailer) Option {
	return func(bot *Bot) {
		bot.details = details
	}
}
