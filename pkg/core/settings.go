package core

import "time"

// Settings represents the main configuration for the application
type Settings struct {
	ScanInterval time.Duration    // Delay between scan cycles
	MessagePause time.Duration    // Pause between consecutive alerts in one cycle
	BoostAmounts []int            // Boost amounts that trigger alerts; empty matches all
	TargetChain  string           // Chain ID the watcher is restricted to
	BoostAPIURL  string           // DexScreener latest boosts endpoint
	SearchAPIURL string           // DexScreener pair search endpoint
	TokenAPIURL  string           // DexScreener token pairs endpoint
	Telegram     TelegramSettings // Telegram notification settings
}

// TelegramSettings holds configuration for Telegram integration
type TelegramSettings struct {
	Token  string  // Telegram bot token
	ChatID int64   // Chat that receives boost alerts
	Users  []int64 // Additional user IDs allowed to issue commands
}

// Validate reports the first fatal configuration problem, if any.
func (s Settings) Validate() error {
	if s.Telegram.Token == "" {
		return ErrMissingToken
	}
	if s.Telegram.ChatID == 0 {
		return ErrMissingChatID
	}
	return nil
}
