package ui

import (
	"time"

	"github.com/omniarb/engine/business/arbitrage/domain"
)

// OpportunitiesMsg carries the full result set of one scan cycle.
type OpportunitiesMsg struct {
	Opportunities []*domain.Opportunity
	ScannedAt     time.Time
}

// LogMsg displays a log line in the dashboard footer.
type LogMsg struct {
	Level   string // "info", "warn", "error"
	Message string
}

// ErrorMsg surfaces a scan failure.
type ErrorMsg struct {
	Error error
}

// TickMsg drives periodic redraws.
type TickMsg struct{}
