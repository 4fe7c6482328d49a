// Package format builds the human readable alert texts sent to chat.
// All formatting logic is isolated here to keep the watcher loop clean.
package format

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/raykavin/boostwatch/pkg/core"
)

// Formatter renders boost data into Telegram Markdown messages.
type Formatter struct {
	Chain string
}

func New(chain string) Formatter {
	return Formatter{Chain: chain}
}

// Price formats a USD price with precision depending on magnitude.
// Sub-micro prices are compacted with subscript zeros so they stay
// readable, e.g. $0.₀₀₀₀₀₀1234.
func Price(priceUsd float64) string {
	switch {
	// Upstream occasionally ships garbage price strings; a negative
	// value must not reach the sub-micro expansion below.
	case priceUsd <= 0:
		return "$0.00"
	case priceUsd < 0.000001:
		return subMicroPrice(priceUsd)
	case priceUsd < 0.001:
		return "$" + trimZeros(strconv.FormatFloat(priceUsd, 'f', 8, 64))
	case priceUsd < 1:
		return "$" + trimZeros(strconv.FormatFloat(priceUsd, 'f', 6, 64))
	default:
		return "$" + trimZeros(strconv.FormatFloat(priceUsd, 'f', 4, 64))
	}
}

func subMicroPrice(priceUsd float64) string {
	// exp is the count of decimal places up to and including the first
	// significant digit.
	exp := 0
	for v := priceUsd; v < 1; v *= 10 {
		exp++
	}

	digits := int(math.Round(priceUsd * math.Pow(10, float64(exp+3))))
	for digits > 0 && digits%10 == 0 {
		digits /= 10
	}
	return fmt.Sprintf("$0.%s%d", strings.Repeat("₀", exp-1), digits)
}

func trimZeros(s string) string {
	return strings.TrimSuffix(strings.TrimRight(s, "0"), ".")
}

// Age renders the elapsed time since a pair creation timestamp given in
// milliseconds, e.g. "3d 12h", "5h 30m", "45m" or "<1m". Missing or
// future timestamps yield "N/A".
func Age(pairCreatedAt int64, now time.Time) string {
	if pairCreatedAt <= 0 {
		return "N/A"
	}

	created := time.UnixMilli(pairCreatedAt)
	diff := now.Sub(created)
	if diff < 0 {
		return "N/A"
	}

	days := int(diff.Hours()) / 24
	hours := int(diff.Hours()) % 24
	minutes := int(diff.Minutes()) % 60

	switch {
	case days > 0:
		return fmt.Sprintf("%dd %dh", days, hours)
	case hours > 0:
		return fmt.Sprintf("%dh %dm", hours, minutes)
	case minutes > 0:
		return fmt.Sprintf("%dm", minutes)
	default:
		return "<1m"
	}
}

// BoostMessage composes the full boost announcement. Pair data is
// optional; with a nil pair the message carries placeholders.
func (f Formatter) BoostMessage(boost core.Boost, pair *core.PairInfo) string {
	var (
		tokenName    = "N/A"
		tokenSymbol  = "N/A"
		age          = "N/A"
		priceUsd     float64
		marketCap    float64
		liquidityUsd float64
		txnsM5       core.TxnCount
		txnsH24      core.TxnCount
	)

	if pair != nil {
		tokenName = valueOr(pair.BaseName, "N/A")
		tokenSymbol = valueOr(pair.BaseSymbol, "N/A")
		priceUsd = pair.PriceUsd
		marketCap = pair.MarketCap
		liquidityUsd = pair.LiquidityUsd
		txnsM5 = pair.TxnsM5
		txnsH24 = pair.TxnsH24
		age = Age(pair.PairCreatedAt, time.Now())
	}

	liquidityPercent := 0.0
	if marketCap > 0 && liquidityUsd > 0 {
		liquidityPercent = liquidityUsd / marketCap * 100
	}

	boostDisplay := fmt.Sprintf("%d⚡", boost.Amount)
	if boost.TotalAmount > boost.Amount {
		boostDisplay = fmt.Sprintf("%d⚡ (Total: %d⚡)", boost.Amount, boost.TotalAmount)
	}

	url := boost.URL
	if url == "" {
		url = fmt.Sprintf("https://dexscreener.com/%s/%s", f.Chain, boost.TokenAddress)
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "\U0001f6a8 *DETECTED Boost %s*\n\n", boostDisplay)
	fmt.Fprintf(&sb, "*Token:* %s ($%s)\n", tokenName, tokenSymbol)
	fmt.Fprintf(&sb, "*CA:* `%s`\n", boost.TokenAddress)
	fmt.Fprintf(&sb, "*Platform:* %s\n\n", platform(pair))
	sb.WriteString("\U0001f4ca *Market Data*\n")
	fmt.Fprintf(&sb, "• *Age:* %s\n", age)
	fmt.Fprintf(&sb, "• *Market Cap:* $%s\n", groupDigits(marketCap))
	fmt.Fprintf(&sb, "• *Price:* %s\n", Price(priceUsd))
	fmt.Fprintf(&sb, "• *Liquidity:* $%s (%.1f%%)\n\n", groupDigits(liquidityUsd), liquidityPercent)
	sb.WriteString("\U0001f4c8 *Transactions*\n")
	fmt.Fprintf(&sb, "• *5m:* %d buys | %d sells\n", txnsM5.Buys, txnsM5.Sells)
	fmt.Fprintf(&sb, "• *24h:* %d buys | %d sells\n\n", txnsH24.Buys, txnsH24.Sells)
	fmt.Fprintf(&sb, "\U0001f517 [DexScreener](%s)\n", url)

	return sb.String()
}

// StartupMessage is sent once when the watcher comes up.
func (f Formatter) StartupMessage(amounts []int, interval time.Duration) string {
	labels := make([]string, 0, len(amounts))
	for _, amount := range amounts {
		labels = append(labels, fmt.Sprintf("%d⚡", amount))
	}

	monitoring := "all amounts"
	if len(labels) > 0 {
		monitoring = strings.Join(labels, ", ")
	}

	return fmt.Sprintf(
		"\U0001f916 *DexScreener Boost Watcher Started!*\n\n*Monitoring:* %s\n*Scan Interval:* %s\n\nStanding by for boost purchases... ⚡",
		monitoring, interval,
	)
}

// ShutdownMessage summarizes the run when the watcher stops.
func (f Formatter) ShutdownMessage(stats core.Stats) string {
	return fmt.Sprintf(
		"\U0001f916 *DexScreener Boost Watcher Stopped*\n\n*Final Statistics:*\n• Total scans: %d\n• Total alerts: %d\n\nWatcher has been shut down. \U0001f44b",
		stats.Scans, stats.Alerts,
	)
}

func platform(pair *core.PairInfo) string {
	if pair == nil {
		return "Pump.fun \U0001f517 SOL"
	}

	dexID := strings.ToLower(pair.DexID)
	switch {
	case strings.Contains(dexID, "pump"):
		return "Pump.fun \U0001f517 SOL"
	case strings.Contains(dexID, "raydium"):
		return "Raydium \U0001f517 SOL"
	case dexID == "":
		return "N/A"
	default:
		return strings.ToUpper(dexID[:1]) + dexID[1:]
	}
}

func valueOr(s, fallback string) string {
	if s == "" {
		return fallback
	}
	return s
}

// groupDigits renders a value as an integer with thousand separators.
func groupDigits(value float64) string {
	s := strconv.FormatFloat(math.Round(value), 'f', 0, 64)

	negative := strings.HasPrefix(s, "-")
	if negative {
		s = s[1:]
	}

	var sb strings.Builder
	for i, r := range s {
		if i > 0 && (len(s)-i)%3 == 0 {
			sb.WriteByte(',')
		}
		sb.WriteRune(r)
	}

	if negative {
		return "-" + sb.String()
	}
	return sb.String()
}
