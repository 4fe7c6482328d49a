package core

import (
	"fmt"
	"time"
)

// Boost represents a single promoted token listing observed on DexScreener.
// Records are immutable once parsed.
type Boost struct {
	TokenAddress string
	PairAddress  string
	ChainID      string
	Amount       int
	TotalAmount  int
	URL          string
	Description  string
	ObservedAt   time.Time
}

// Key returns the identity of a boost. Two boosts with the same key are
// the same event for deduplication purposes.
func (b Boost) Key() string {
	return fmt.Sprintf("%s:%s", b.TokenAddress, b.PairAddress)
}

// TxnCount holds buy and sell counts for a time window.
type TxnCount struct {
	Buys  int
	Sells int
}

// PairInfo carries market data for a trading pair, used to enrich boost
// alerts. All fields are best-effort; a zero value means the source did
// not report it.
type PairInfo struct {
	PairAddress   string
	DexID         string
	BaseName      string
	BaseSymbol    string
	PriceUsd      float64
	MarketCap     float64
	LiquidityUsd  float64
	VolumeH24     float64
	TxnsM5        TxnCount
	TxnsH24       TxnCount
	PairCreatedAt int64 // milliseconds since epoch
}

// Stats is a snapshot of the watcher's counters since startup.
type Stats struct {
	Scans     int
	Alerts    int
	ByAmount  map[int]int
	StartedAt time.Time
}
