package core

import "context"

// BoostSource yields boosts that have not been notified in this process run.
type BoostSource interface {
	Scan(ctx context.Context) ([]Boost, error)
	SeenCount() int
}

// TokenDetailer resolves market data for a token's most liquid pair.
type TokenDetailer interface {
	MostLiquidPair(ctx context.Context, tokenAddress string) (*PairInfo, error)
}

type Notifier interface {
	Notify(string)
	OnBoost(boost Boost, pair *PairInfo) error
}

type NotifierWithStart interface {
	Notifier
	Start()
}

// StatusReporter exposes a point-in-time view of the watcher, used by
// the Telegram command handlers.
type StatusReporter interface {
	Snapshot() Stats
}
