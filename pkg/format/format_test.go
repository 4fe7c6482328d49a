package format

import (
	"strings"
	"testing"
	"time"

	"github.com/raykavin/boostwatch/pkg/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrice(t *testing.T) {
	tests := []struct {
		name  string
		price float64
		want  string
	}{
		{"zero", 0, "$0.00"},
		{"negative renders as zero", -0.5, "$0.00"},
		{"negative sub micro renders as zero", -0.00000045, "$0.00"},
		{"large", 12.345678, "$12.3457"},
		{"trims trailing zeros", 1.5, "$1.5"},
		{"sub dollar", 0.5, "$0.5"},
		{"sub cent", 0.000123, "$0.000123"},
		{"sub micro uses subscript zeros", 0.00000045, "$0.₀₀₀₀₀₀45"},
		{"sub micro trims trailing zeros", 0.00000012, "$0.₀₀₀₀₀₀12"},
		{"sub micro keeps significant digits", 0.000000123456, "$0.₀₀₀₀₀₀1235"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			done := make(chan string, 1)
			go func() { done <- Price(tt.price) }()

			select {
			case got := <-done:
				assert.Equal(t, tt.want, got)
			case <-time.After(2 * time.Second):
				t.Fatalf("Price(%v) did not return", tt.price)
			}
		})
	}
}

func TestAge(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name string
		age  time.Duration
		want string
	}{
		{"days and hours", 74 * time.Hour, "3d 2h"},
		{"hours and minutes", 5*time.Hour + 30*time.Minute, "5h 30m"},
		{"minutes only", 45 * time.Minute, "45m"},
		{"under a minute", 30 * time.Second, "<1m"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			createdAt := now.Add(-tt.age).UnixMilli()
			assert.Equal(t, tt.want, Age(createdAt, now))
		})
	}

	t.Run("missing timestamp", func(t *testing.T) {
		assert.Equal(t, "N/A", Age(0, now))
	})

	t.Run("future timestamp", func(t *testing.T) {
		assert.Equal(t, "N/A", Age(now.Add(time.Hour).UnixMilli(), now))
	})
}

func TestBoostMessage(t *testing.T) {
	formatter := New("solana")

	boost := core.Boost{
		TokenAddress: "So1anaTokenAddr",
		PairAddress:  "PairAddr",
		ChainID:      "solana",
		Amount:       500,
		TotalAmount:  1000,
		URL:          "https://dexscreener.com/solana/PairAddr",
	}

	pair := &core.PairInfo{
		DexID:         "raydium",
		BaseName:      "Example Coin",
		BaseSymbol:    "EXM",
		PriceUsd:      0.000123,
		MarketCap:     1234567.8,
		LiquidityUsd:  61728,
		TxnsM5:        core.TxnCount{Buys: 10, Sells: 5},
		TxnsH24:       core.TxnCount{Buys: 100, Sells: 50},
		PairCreatedAt: time.Now().Add(-45 * time.Minute).UnixMilli(),
	}

	message := formatter.BoostMessage(boost, pair)

	assert.Contains(t, message, "500⚡ (Total: 1000⚡)")
	assert.Contains(t, message, "Example Coin ($EXM)")
	assert.Contains(t, message, "`So1anaTokenAddr`")
	assert.Contains(t, message, "Raydium")
	assert.Contains(t, message, "$1,234,568")
	assert.Contains(t, message, "$0.000123")
	assert.Contains(t, message, "10 buys | 5 sells")
	assert.Contains(t, message, "100 buys | 50 sells")
	assert.Contains(t, message, "(https://dexscreener.com/solana/PairAddr)")
	assert.Contains(t, message, "(5.0%)")
}

func TestBoostMessageWithoutPairData(t *testing.T) {
	formatter := New("solana")

	boost := core.Boost{
		TokenAddress: "So1anaTokenAddr",
		ChainID:      "solana",
		Amount:       100,
		TotalAmount:  100,
	}

	message := formatter.BoostMessage(boost, nil)

	require.NotEmpty(t, message)
	assert.Contains(t, message, "100⚡")
	assert.NotContains(t, message, "Total:")
	assert.Contains(t, message, "N/A ($N/A)")
	assert.Contains(t, message, "Pump.fun")
	// URL falls back to the chain and token address
	assert.Contains(t, message, "(https://dexscreener.com/solana/So1anaTokenAddr)")
}

func TestStartupMessage(t *testing.T) {
	formatter := New("solana")

	message := formatter.StartupMessage([]int{500, 100}, 10*time.Second)
	assert.Contains(t, message, "500⚡, 100⚡")
	assert.Contains(t, message, "10s")

	message = formatter.StartupMessage(nil, 10*time.Second)
	assert.Contains(t, message, "all amounts")
}

func TestShutdownMessage(t *testing.T) {
	formatter := New("solana")

	message := formatter.ShutdownMessage(core.Stats{Scans: 42, Alerts: 7})
	assert.Contains(t, message, "Total scans: 42")
	assert.Contains(t, message, "Total alerts: 7")
}

func TestGroupDigits(t *testing.T) {
	tests := []struct {
		value float64
		want  string
	}{
		{0, "0"},
		{999, "999"},
		{1000, "1,000"},
		{1234567.8, "1,234,568"},
		{-54321, "-54,321"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, groupDigits(tt.value), "groupDigits(%v)", tt.value)
	}
}

func TestPlatform(t *testing.T) {
	assert.Equal(t, "Pump.fun \U0001f517 SOL", platform(nil))
	assert.Equal(t, "Pump.fun \U0001f517 SOL", platform(&core.PairInfo{DexID: "pumpswap"}))
	assert.Equal(t, "Raydium \U0001f517 SOL", platform(&core.PairInfo{DexID: "raydium"}))
	assert.Equal(t, "Orca", platform(&core.PairInfo{DexID: "orca"}))
	assert.Equal(t, "N/A", platform(&core.PairInfo{}))

	// Capitalization keeps the rest of the identifier intact
	assert.True(t, strings.HasPrefix(platform(&core.PairInfo{DexID: "meteora"}), "M"))
}
