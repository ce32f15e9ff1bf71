package infra

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/omniarb/engine/business/arbitrage/domain"
	"github.com/omniarb/engine/pkg/ui"
)

// TUIReporter forwards scan results to a running Bubble Tea program.
// The program handle is set once the TUI starts; until then reports are
// dropped.
type TUIReporter struct {
	program *tea.Program
}

// NewTUIReporter creates a reporter with no program attached yet.
func NewTUIReporter() *TUIReporter {
	return &TUIReporter{}
}

// Attach binds the running program. Must be called before the first scan
// result should reach the dashboard.
func (r *TUIReporter) Attach(p *tea.Program) {
	r.program = p
}

// Report sends the scan results to the dashboard.
func (r *TUIReporter) Report(_ context.Context, opportunities []*domain.Opportunity) error {
	if r.program == nil {
		return nil
	}
	r.program.Send(ui.OpportunitiesMsg{
		Opportunities: opportunities,
		ScannedAt:     time.Now(),
	})
	return nil
}
