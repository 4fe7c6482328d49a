package boostwatch

import (
	"context"
	"fmt"
	"slices"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/jpillora/backoff"
	"github.com/olekukonko/tablewriter"
	"github.com/raykavin/boostwatch/pkg/core"
	"github.com/raykavin/boostwatch/pkg/format"
	"github.com/raykavin/boostwatch/pkg/logger"
	"github.com/samber/lo"
)

// State is the loop controller state. One tick runs fetch, diff and all
// notifications to completion before the next tick is scheduled; ticks
// never overlap.
type State int

const (
	StateIdle State = iota
	StatePolling
)

// Bot watches DexScreener for boost events and posts formatted alerts
// to the configured chat.
type Bot struct {
	settings  *core.Settings
	source    core.BoostSource
	details   core.TokenDetailer
	notifier  core.Notifier
	formatter format.Formatter
	log       logger.Logger

	delay *backoff.Backoff

	mu    sync.RWMutex
	state State
	stats core.Stats
}

// NewBot creates a new watcher instance with the provided settings and
// dependencies
func NewBot(settings *core.Settings, source core.BoostSource, log logger.Logger, options ...Option) (*Bot, error) {
	if err := validate(settings, source, log); err != nil {
		return nil, err
	}

	bot := &Bot{
		settings:  settings,
		source:    source,
		formatter: format.New(settings.TargetChain),
		log:       log,
		state:     StateIdle,
		delay: &backoff.Backoff{
			Min:    settings.ScanInterval,
			Max:    10 * settings.ScanInterval,
			Factor: 2,
			Jitter: true,
		},
		stats: core.Stats{
			ByAmount:  make(map[int]int),
			StartedAt: time.Now(),
		},
	}

	// Apply custom options
	for _, option := range options {
		option(bot)
	}

	return bot, nil
}

// SetNotifier registers the notifier receiving boost alerts. It must be
// called before Run.
func (b *Bot) SetNotifier(notifier core.Notifier) {
	b.notifier = notifier
}

// validate checks if the provided settings, source, and logger are valid
func validate(settings *core.Settings, source core.BoostSource, log logger.Logger) error {
	if settings == nil {
		return fmt.Errorf("settings cannot be nil")
	}

	if source == nil {
		return fmt.Errorf("boost source cannot be nil")
	}

	if log == nil {
		return fmt.Errorf("logger cannot be nil")
	}

	return settings.Validate()
}

// State returns the current loop state. Safe to call while Run is live.
func (b *Bot) State() State {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.state
}

func (b *Bot) setState(state State) {
	b.mu.Lock()
	b.state = state
	b.mu.Unlock()
}

// Snapshot implements core.StatusReporter.
func (b *Bot) Snapshot() core.Stats {
	b.mu.RLock()
	defer b.mu.RUnlock()

	stats := b.stats
	stats.ByAmount = make(map[int]int, len(b.stats.ByAmount))
	for amount, count := range b.stats.ByAmount {
		stats.ByAmount[amount] = count
	}

	return stats
}

// Run drives the scan loop until the context is canceled. Failures
// inside a tick are logged and recovered on the next timer fire; only
// cancellation ends the loop.
func (b *Bot) Run(ctx context.Context) error {
	if b.notifier == nil {
		return fmt.Errorf("notifier cannot be nil")
	}

	if starter, ok := b.notifier.(core.NotifierWithStart); ok {
		starter.Start()
	}

	b.notifier.Notify(b.formatter.StartupMessage(b.settings.BoostAmounts, b.settings.ScanInterval))
	b.log.Infof("watching for boosts on %s every %s", b.settings.TargetChain, b.settings.ScanInterval)

	for {
		b.setState(StatePolling)
		err := b.Tick(ctx)
		b.setState(StateIdle)

		delay := b.settings.ScanInterval
		if err != nil {
			// Stretch the idle sleep while the source keeps failing,
			// reset to the configured interval on the next success.
			delay = b.delay.Duration()
			b.log.WithError(err).Errorf("scan cycle failed, next attempt in %s", delay.Round(time.Millisecond))
		} else {
			b.delay.Reset()
		}

		select {
		case <-ctx.Done():
			b.shutdown()
			return nil
		case <-time.After(delay):
		}
	}
}

// Tick runs one scan cycle: fetch and diff the boost snapshot, then
// enrich and deliver every new matching boost. A delivery failure drops
// that alert only and the cycle moves on.
func (b *Bot) Tick(ctx context.Context) error {
	boosts, err := b.source.Scan(ctx)
	if err != nil {
		return err
	}

	b.mu.Lock()
	b.stats.Scans++
	b.mu.Unlock()

	matching := lo.Filter(boosts, func(boost core.Boost, _ int) bool {
		return b.matchesAmount(boost.Amount)
	})
	if len(matching) == 0 {
		return nil
	}

	b.log.Infof("found %d matching boosts", len(matching))

	for i, boost := range matching {
		pair := b.enrich(ctx, boost)

		if err := b.notifier.OnBoost(boost, pair); err != nil {
			b.log.WithError(err).Errorf("alert dropped for %s", boost.TokenAddress)
			continue
		}

		b.mu.Lock()
		b.stats.Alerts++
		b.stats.ByAmount[boost.Amount]++
		b.mu.Unlock()

		b.log.Infof("alert sent for %d⚡ boost on %s", boost.Amount, boost.TokenAddress)

		// Brief pause between messages
		if i < len(matching)-1 {
			select {
			case <-ctx.Done():
				return nil
			case <-time.After(b.settings.MessagePause):
			}
		}
	}

	return nil
}

// matchesAmount applies the configured amount filter; an empty filter
// matches everything.
func (b *Bot) matchesAmount(amount int) bool {
	if len(b.settings.BoostAmounts) == 0 {
		return true
	}
	return slices.Contains(b.settings.BoostAmounts, amount)
}

// enrich resolves market data for the boosted token. Enrichment is best
// effort; the alert degrades to placeholders when it fails.
func (b *Bot) enrich(ctx context.Context, boost core.Boost) *core.PairInfo {
	if b.details == nil {
		return nil
	}

	pair, err := b.details.MostLiquidPair(ctx, boost.TokenAddress)
	if err != nil {
		b.log.WithError(err).Warnf("no market data for %s", boost.TokenAddress)
		return nil
	}

	return pair
}

func (b *Bot) shutdown() {
	stats := b.Snapshot()
	b.notifier.Notify(b.formatter.ShutdownMessage(stats))
	fmt.Println(b.summary(stats))
	b.log.Info("watcher stopped")
}

// summary renders the final run statistics as a table.
func (b *Bot) summary(stats core.Stats) string {
	tableString := &strings.Builder{}
	table := tablewriter.NewWriter(tableString)

	data := [][]string{
		{"Uptime", time.Since(stats.StartedAt).Round(time.Second).String()},
		{"Scans", strconv.Itoa(stats.Scans)},
		{"Alerts", strconv.Itoa(stats.Alerts)},
		{"Boosts seen", strconv.Itoa(b.source.SeenCount())},
	}

	amounts := lo.Keys(stats.ByAmount)
	sort.Sort(sort.Reverse(sort.IntSlice(amounts)))
	for _, amount := range amounts {
		data = append(data, []string{fmt.Sprintf("Alerts %d⚡", amount), strconv.Itoa(stats.ByAmount[amount])})
	}

	table.AppendBulk(data)
	table.SetColumnAlignment([]int{tablewriter.ALIGN_LEFT, tablewriter.ALIGN_RIGHT})
	table.Render()

	return tableString.String()
}
