// Package config handles application configuration management using Viper
package config

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/raykavin/boostwatch/pkg/core"
	"github.com/spf13/viper"
	str2duration "github.com/xhit/go-str2duration/v2"
)

// DexScreener production endpoints
const (
	DefaultBoostAPIURL  = "https://api.dexscreener.com/token-boosts/latest/v1"
	DefaultSearchAPIURL = "https://api.dexscreener.com/latest/dex/search"
	DefaultTokenAPIURL  = "https://api.dexscreener.com/latest/dex/tokens"
)

// Load builds the application settings from environment variables.
// A missing bot token or chat id is fatal; everything else has a default.
func Load() (*core.Settings, error) {
	v := viper.New()
	v.AutomaticEnv()
	// An explicitly empty BOOST_AMOUNTS disables the amount filter, so
	// empty environment values must win over defaults.
	v.AllowEmptyEnv(true)

	v.SetDefault("SCAN_INTERVAL", "10s")
	v.SetDefault("MESSAGE_PAUSE", "1s")
	v.SetDefault("BOOST_AMOUNTS", "500,100")
	v.SetDefault("TARGET_CHAIN", "solana")
	v.SetDefault("BOOST_API_URL", DefaultBoostAPIURL)
	v.SetDefault("SEARCH_API_URL", DefaultSearchAPIURL)
	v.SetDefault("TOKEN_API_URL", DefaultTokenAPIURL)

	scanInterval, err := str2duration.ParseDuration(v.GetString("SCAN_INTERVAL"))
	if err != nil {
		return nil, fmt.Errorf("invalid SCAN_INTERVAL: %w", err)
	}

	messagePause, err := str2duration.ParseDuration(v.GetString("MESSAGE_PAUSE"))
	if err != nil {
		return nil, fmt.Errorf("invalid MESSAGE_PAUSE: %w", err)
	}

	amounts, err := parseIntList(v.GetString("BOOST_AMOUNTS"))
	if err != nil {
		return nil, fmt.Errorf("invalid BOOST_AMOUNTS: %w", err)
	}

	users, err := parseInt64List(v.GetString("TELEGRAM_USERS"))
	if err != nil {
		return nil, fmt.Errorf("invalid TELEGRAM_USERS: %w", err)
	}

	settings := &core.Settings{
		ScanInterval: scanInterval,
		MessagePause: messagePause,
		BoostAmounts: amounts,
		TargetChain:  strings.ToLower(v.GetString("TARGET_CHAIN")),
		BoostAPIURL:  v.GetString("BOOST_API_URL"),
		SearchAPIURL: v.GetString("SEARCH_API_URL"),
		TokenAPIURL:  v.GetString("TOKEN_API_URL"),
		Telegram: core.TelegramSettings{
			Token:  v.GetString("TELEGRAM_BOT_TOKEN"),
			ChatID: v.GetInt64("TELEGRAM_CHAT_ID"),
			Users:  users,
		},
	}

	if err := settings.Validate(); err != nil {
		return nil, err
	}

	return settings, nil
}

// parseIntList parses a comma separated list of integers. Empty input
// yields an empty list.
func parseIntList(s string) ([]int, error) {
	values := []int{}
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}

		value, err := strconv.Atoi(part)
		if err != nil {
			return nil, err
		}
		values = append(values, value)
	}
	return values, nil
}

func parseInt64List(s string) ([]int64, error) {
	values := []int64{}
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}

		value, err := strconv.ParseInt(part, 10, 64)
		if err != nil {
			return nil, err
		}
		values = append(values, value)
	}
	return values, nil
}
