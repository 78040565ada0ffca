package catalog

import (
	"time"

	"github.com/MaazSiddiqui25/Baqir-Sons/internal/domain"
)

// Status summarizes what the Loader is serving.
type Status struct {
	Loaded       bool            `json:"loaded"`
	Source       domain.Source   `json:"source,omitempty"`
	Strategy     domain.Strategy `json:"strategy,omitempty"`
	Error        string          `json:"error,omitempty"`
	ProductCount int             `json:"product_count"`
	FetchedAt    time.Time       `json:"fetched_at,omitzero"`
	LastSuccess  time.Time       `json:"last_success,omitzero"`
	Generation   uint64          `json:"generation"`
	Started      uint64          `json:"started"`
	Stale        bool            `json:"stale"`
	StaleAfter   time.Duration   `json:"stale_after"`
}

// Status reports the committed result without triggering a load.
func (l *Loader) Status() Status {
	l.mu.RLock()
	defer l.mu.RUnlock()

	st := Status{
		LastSuccess: l.lastSuccess,
		Generation:  l.committedGen,
		Started:     l.started.Load(),
		Stale:       l.staleLocked(),
		StaleAfter:  l.cfg.StaleAfter,
	}
	if l.current != nil {
		st.Loaded = true
		st.Source = l.current.Source
		st.Strategy = l.current.Strategy
		st.Error = l.current.Error
		st.ProductCount = len(l.current.Products)
		st.FetchedAt = l.current.FetchedAt
	}
	return st
}
