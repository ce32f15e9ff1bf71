// Package infra contains infrastructure adapters for the arbitrage context.
package infra

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/omniarb/engine/business/arbitrage/domain"
)

var (
	headerStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#7C3AED"))
	executeStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#10B981"))
	skipStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#6B7280"))
)

// ConsoleReporter prints scan results to a writer, one block per scan.
type ConsoleReporter struct {
	out io.Writer
}

// NewConsoleReporter creates a reporter writing to stdout.
func NewConsoleReporter() *ConsoleReporter {
	return &ConsoleReporter{out: os.Stdout}
}

// NewConsoleReporterTo creates a reporter writing to w.
func NewConsoleReporterTo(w io.Writer) *ConsoleReporter {
	return &ConsoleReporter{out: w}
}

// Report prints the analyzed opportunities of one scan cycle.
func (r *ConsoleReporter) Report(_ context.Context, opportunities []*domain.Opportunity) error {
	if len(opportunities) == 0 {
		fmt.Fprintf(r.out, "[%s] no opportunities\n", time.Now().Format("15:04:05"))
		return nil
	}

	fmt.Fprintln(r.out, "")
	fmt.Fprintln(r.out, headerStyle.Render(fmt.Sprintf("SCAN RESULTS  %s  (%d candidates)",
		time.Now().Format(time.RFC3339), len(opportunities))))
	fmt.Fprintln(r.out, "================================================================================")

	for _, opp := range opportunities {
		verdict := skipStyle.Render("SKIP")
		if opp.Decision.Execute {
			verdict = executeStyle.Render("EXECUTE")
		}

		fmt.Fprintf(r.out, "%-10s %s -> %s  %s\n", opp.Symbol, opp.BuyVenue, opp.SellVenue, verdict)
		fmt.Fprintf(r.out, "  Decision:       %s\n", opp.Decision.Reason)

		if route := opp.Route; route != nil {
			fmt.Fprintf(r.out, "  Route:          %s (%s)\n", route.PathString(), route.Type)
			fmt.Fprintf(r.out, "  Expected:       $%s (%s bps), risk score %.1f\n",
				route.ExpectedProfit.StringFixed(2),
				route.ExpectedProfitBps.StringFixed(2),
				route.RiskScore,
			)
		}
		if risk := opp.Risk; risk != nil {
			fmt.Fprintf(r.out, "  Risk:           $%s at p=%.2f, kelly %.3f, EV $%s\n",
				risk.TotalRisk.StringFixed(2),
				risk.ProfitProbability,
				risk.KellyFraction,
				risk.ExpectedValue.StringFixed(2),
			)
		}
		if flash := opp.Flash; flash != nil && flash.LoanVolume.IsPositive() {
			fmt.Fprintf(r.out, "  Flash sizing:   optimal $%s -> net $%s (%s bps)\n",
				flash.OptimalVolume.StringFixed(2),
				flash.NetProfit.StringFixed(2),
				flash.ProfitBps.StringFixed(2),
			)
		}
		if yield := opp.Yield; yield != nil {
			fmt.Fprintf(r.out, "  Sized trade:    $%s -> net $%s (%s bps)\n",
				yield.Volume.StringFixed(2),
				yield.NetProfit.StringFixed(2),
				yield.ProfitBps.StringFixed(2),
			)
			if yield.FlashSource != domain.FlashSourceNone {
				fmt.Fprintf(r.out, "  Execution:      flash via %s on %s\n", yield.FlashSource, yield.Chain)
			}
		}
		fmt.Fprintln(r.out, "--------------------------------------------------------------------------------")
	}
	return nil
}
