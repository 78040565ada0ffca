package domain

import "time"

// Strategy names a CMS fetch strategy.
type Strategy string

const (
	StrategyCached Strategy = "cached"
	StrategyFresh  Strategy = "fresh"
	StrategyRaw    Strategy = "raw"
)

// Source says where the products in a CatalogResult came from.
type Source string

const (
	SourceLive     Source = "live"
	SourceStale    Source = "stale"
	SourceFallback Source = "fallback"
)

// DegradedMessage is shown to visitors whenever live data could not be
// fetched.
const DegradedMessage = "Unable to load products from server. Showing cached data."

// FetchAttempt records one strategy invocation during a load.
type FetchAttempt struct {
	Strategy  Strategy      `json:"strategy"`
	Cycle     int           `json:"cycle"`
	StartedAt time.Time     `json:"started_at"`
	Duration  time.Duration `json:"duration"`
	Err       error         `json:"-"`
}

// OK reports whether the attempt produced data.
func (a FetchAttempt) OK() bool {
	return a.Err == nil
}

// CatalogResult is the outcome of one catalog load.
type CatalogResult struct {
	Products   []Product      `json:"products"`
	Source     Source         `json:"source"`
	Strategy   Strategy       `json:"strategy,omitempty"`
	Error      string         `json:"error,omitempty"`
	FetchedAt  time.Time      `json:"fetched_at"`
	Generation uint64         `json:"generation"`
	Attempts   []FetchAttempt `json:"attempts,omitempty"`
}

// Degraded reports whether the result is not live data.
func (r *CatalogResult) Degraded() bool {
	return r.Source != SourceLive
}

// Snapshot is the last-known-good product list persisted between loads.
type Snapshot struct {
	Products  []Product `json:"products"`
	Strategy  Strategy  `json:"strategy"`
	FetchedAt time.Time `json:"fetched_at"`
}
