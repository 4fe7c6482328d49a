// Package scanner tracks which boosts have already been notified and
// yields only the ones new to the current process run.
package scanner

import (
	"context"

	"github.com/StudioSol/set"
	"github.com/raykavin/boostwatch/pkg/core"
	"github.com/raykavin/boostwatch/pkg/logger"
)

// BoostFetcher is the listing source the scanner diffs against.
type BoostFetcher interface {
	LatestBoosts(ctx context.Context) ([]core.Boost, error)
}

// Scanner filters a boost snapshot down to unseen records on the target
// chain. The seen set lives for the process lifetime and only grows; it
// is owned by the single loop goroutine, so no locking is needed.
type Scanner struct {
	fetcher BoostFetcher
	seen    *set.LinkedHashSetString
	chain   string
	log     logger.Logger
}

func New(fetcher BoostFetcher, chain string, log logger.Logger) *Scanner {
	return &Scanner{
		fetcher: fetcher,
		seen:    set.NewLinkedHashSetString(),
		chain:   chain,
		log:     log,
	}
}

// Scan fetches the current snapshot and returns the boosts not yet seen,
// marking them seen as a side effect. A fetch or parse failure leaves
// the seen set untouched.
func (s *Scanner) Scan(ctx context.Context) ([]core.Boost, error) {
	boosts, err := s.fetcher.LatestBoosts(ctx)
	if err != nil {
		return nil, err
	}

	fresh := make([]core.Boost, 0, len(boosts))
	for _, boost := range boosts {
		if s.chain != "" && boost.ChainID != s.chain {
			continue
		}

		if s.seen.InArray(boost.Key()) {
			continue
		}

		s.seen.Add(boost.Key())
		fresh = append(fresh, boost)
	}

	s.log.Debugf("scan found %d new boosts (%d seen total)", len(fresh), s.seen.Length())
	return fresh, nil
}

// SeenCount reports how many distinct boosts have been seen so far.
func (s *Scanner) SeenCount() int {
	return s.seen.Length()
}
