package boostwatch

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/raykavin/boostwatch/pkg/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mockSource replays a scripted sequence of scan results.
type mockSource struct {
	results [][]core.Boost
	errs    []error
	calls   int
	seen    int
}

func (m *mockSource) Scan(context.Context) ([]core.Boost, error) {
	idx := m.calls
	m.calls++

	var err error
	if idx < len(m.errs) {
		err = m.errs[idx]
	}
	if err != nil {
		return nil, err
	}

	var boosts []core.Boost
	if idx < len(m.results) {
		boosts = m.results[idx]
	}

	m.seen += len(boosts)
	return boosts, nil
}

func (m *mockSource) SeenCount() int { return m.seen }

// mockNotifier records deliveries and can be told to fail per token.
// Guarded by a mutex because Run exercises it from its own goroutine.
type mockNotifier struct {
	mu        sync.Mutex
	delivered []core.Boost
	failFor   map[string]bool
	texts     []string
}

func (m *mockNotifier) Notify(text string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.texts = append(m.texts, text)
}

func (m *mockNotifier) OnBoost(boost core.Boost, _ *core.PairInfo) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.failFor[boost.TokenAddress] {
		return &core.DeliveryError{Boost: boost, Err: errors.New("chat unreachable")}
	}

	m.delivered = append(m.delivered, boost)
	return nil
}

func (m *mockNotifier) deliveredBoosts() []core.Boost {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]core.Boost(nil), m.delivered...)
}

func (m *mockNotifier) sentTexts() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.texts...)
}

type mockDetailer struct {
	pairs map[string]*core.PairInfo
	err   error
}

func (m *mockDetailer) MostLiquidPair(_ context.Context, token string) (*core.PairInfo, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.pairs[token], nil
}

func testSettings() *core.Settings {
	return &core.Settings{
		ScanInterval: 10 * time.Millisecond,
		MessagePause: time.Millisecond,
		BoostAmounts: []int{500, 100},
		TargetChain:  "solana",
		Telegram: core.TelegramSettings{
			Token:  "test-token",
			ChatID: 42,
		},
	}
}

func boost(token string, amount int) core.Boost {
	return core.Boost{
		TokenAddress: token,
		PairAddress:  token + "-pair",
		ChainID:      "solana",
		Amount:       amount,
		TotalAmount:  amount,
	}
}

func newTestBot(t *testing.T, source core.BoostSource, options ...Option) (*Bot, *mockNotifier) {
	t.Helper()

	notifier := &mockNotifier{failFor: map[string]bool{}}
	options = append(options, WithNotifier(notifier))

	bot, err := NewBot(testSettings(), source, DefaultLog, options...)
	require.NoError(t, err)

	return bot, notifier
}

func TestNewBot_Validation(t *testing.T) {
	source := &mockSource{}

	_, err := NewBot(nil, source, DefaultLog)
	require.Error(t, err)

	_, err = NewBot(testSettings(), nil, DefaultLog)
	require.Error(t, err)

	_, err = NewBot(testSettings(), source, nil)
	require.Error(t, err)

	settings := testSettings()
	settings.Telegram.Token = ""
	_, err = NewBot(settings, source, DefaultLog)
	require.ErrorIs(t, err, core.ErrMissingToken)

	settings = testSettings()
	settings.Telegram.ChatID = 0
	_, err = NewBot(settings, source, DefaultLog)
	require.ErrorIs(t, err, core.ErrMissingChatID)
}

func TestTick_DeliversNewBoosts(t *testing.T) {
	source := &mockSource{results: [][]core.Boost{
		{boost("tokenA", 500), boost("tokenB", 100)},
		{},
	}}
	bot, notifier := newTestBot(t, source)

	require.NoError(t, bot.Tick(context.Background()))
	require.Len(t, notifier.delivered, 2)

	// A second cycle over an unchanged listing delivers nothing
	require.NoError(t, bot.Tick(context.Background()))
	assert.Len(t, notifier.delivered, 2)

	stats := bot.Snapshot()
	assert.Equal(t, 2, stats.Scans)
	assert.Equal(t, 2, stats.Alerts)
	assert.Equal(t, map[int]int{500: 1, 100: 1}, stats.ByAmount)
}

func TestTick_AmountFilter(t *testing.T) {
	source := &mockSource{results: [][]core.Boost{
		{boost("tokenA", 500), boost("tokenB", 250)},
	}}
	bot, notifier := newTestBot(t, source)

	require.NoError(t, bot.Tick(context.Background()))
	require.Len(t, notifier.delivered, 1)
	assert.Equal(t, "tokenA", notifier.delivered[0].TokenAddress)
}

func TestTick_EmptyFilterMatchesAll(t *testing.T) {
	source := &mockSource{results: [][]core.Boost{
		{boost("tokenA", 123)},
	}}

	notifier := &mockNotifier{failFor: map[string]bool{}}
	settings := testSettings()
	settings.BoostAmounts = nil

	bot, err := NewBot(settings, source, DefaultLog, WithNotifier(notifier))
	require.NoError(t, err)

	require.NoError(t, bot.Tick(context.Background()))
	assert.Len(t, notifier.delivered, 1)
}

func TestTick_DeliveryFailureDoesNotBlockOthers(t *testing.T) {
	source := &mockSource{results: [][]core.Boost{
		{boost("tokenA", 500), boost("tokenB", 500), boost("tokenC", 100)},
	}}
	bot, notifier := newTestBot(t, source)
	notifier.failFor["tokenB"] = true

	require.NoError(t, bot.Tick(context.Background()))

	require.Len(t, notifier.delivered, 2)
	assert.Equal(t, "tokenA", notifier.delivered[0].TokenAddress)
	assert.Equal(t, "tokenC", notifier.delivered[1].TokenAddress)

	// Dropped messages are not counted as alerts
	stats := bot.Snapshot()
	assert.Equal(t, 2, stats.Alerts)
}

func TestTick_ScanErrorPropagates(t *testing.T) {
	source := &mockSource{errs: []error{
		&core.NetworkError{URL: "http://example.invalid", Err: errors.New("timeout")},
	}}
	bot, notifier := newTestBot(t, source)

	err := bot.Tick(context.Background())
	require.Error(t, err)

	var netErr *core.NetworkError
	assert.True(t, errors.As(err, &netErr))
	assert.Empty(t, notifier.delivered)
	assert.Equal(t, 0, bot.Snapshot().Scans)
}

func TestTick_EnrichmentFailureDegrades(t *testing.T) {
	source := &mockSource{results: [][]core.Boost{
		{boost("tokenA", 500)},
	}}
	detailer := &mockDetailer{err: errors.New("lookup failed")}
	bot, notifier := newTestBot(t, source, WithTokenDetailer(detailer))

	require.NoError(t, bot.Tick(context.Background()))
	assert.Len(t, notifier.delivered, 1)
}

func TestRun_RecoversFromScanErrors(t *testing.T) {
	source := &mockSource{
		errs: []error{
			&core.NetworkError{URL: "http://example.invalid", Err: errors.New("timeout")},
		},
		results: [][]core.Boost{
			nil,
			{boost("tokenA", 500)},
		},
	}
	bot, notifier := newTestBot(t, source)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- bot.Run(ctx) }()

	require.Eventually(t, func() bool {
		return len(notifier.deliveredBoosts()) == 1
	}, 2*time.Second, 5*time.Millisecond)

	cancel()
	require.NoError(t, <-done)

	assert.Equal(t, StateIdle, bot.State())

	// Startup and shutdown banners went out
	texts := notifier.sentTexts()
	require.GreaterOrEqual(t, len(texts), 2)
	assert.Contains(t, texts[0], "Started")
	assert.Contains(t, texts[len(texts)-1], "Stopped")
}

func TestState_ReadableWhileRunning(t *testing.T) {
	source := &mockSource{results: [][]core.Boost{
		{boost("tokenA", 500)},
	}}
	bot, notifier := newTestBot(t, source)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- bot.Run(ctx) }()

	// Polling State from another goroutine must be safe under -race
	require.Eventually(t, func() bool {
		state := bot.State()
		assert.Contains(t, []State{StateIdle, StatePolling}, state)
		return len(notifier.deliveredBoosts()) == 1
	}, 2*time.Second, time.Millisecond)

	cancel()
	require.NoError(t, <-done)
}

func TestRun_WithoutNotifier(t *testing.T) {
	bot, err := NewBot(testSettings(), &mockSource{}, DefaultLog)
	require.NoError(t, err)

	require.Error(t, bot.Run(context.Background()))
}

func TestSnapshot_ReturnsIndependentCopy(t *testing.T) {
	source := &mockSource{results: [][]core.Boost{{boost("tokenA", 500)}}}
	bot, _ := newTestBot(t, source)

	require.NoError(t, bot.Tick(context.Background()))

	snapshot := bot.Snapshot()
	snapshot.ByAmount[500] = 99

	assert.Equal(t, 1, bot.Snapshot().ByAmount[500])
}
