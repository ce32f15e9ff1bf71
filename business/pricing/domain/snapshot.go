package domain

import "time"

// Snapshot is an immutable view of the market at one instant: every venue
// quote plus the pool state used for flash-loan sizing.
type Snapshot struct {
	Timestamp time.Time
	Pairs     []Pair
	Pools     map[string]LiquidityPool // keyed by pair symbol
}

// IsStale reports whether the snapshot is older than maxAge at the given time.
func (s *Snapshot) IsStale(now time.Time, maxAge time.Duration) bool {
	if maxAge <= 0 {
		return false
	}
	return now.Sub(s.Timestamp) > maxAge
}

// PairsBySymbol groups quotes by pair symbol across venues.
func (s *Snapshot) PairsBySymbol() map[string][]Pair {
	grouped := make(map[string][]Pair)
	for _, p := range s.Pairs {
		sym := p.Symbol()
		grouped[sym] = append(grouped[sym], p)
	}
	return grouped
}

// Pool returns the liquidity pool for a symbol, if known.
func (s *Snapshot) Pool(symbol string) (LiquidityPool, bool) {
	pool, ok := s.Pools[symbol]
	return pool, ok
}
