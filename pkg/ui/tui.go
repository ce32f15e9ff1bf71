package ui

import (
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/omniarb/engine/business/arbitrage/domain"
)

const maxLogLines = 5

// Model is the dashboard model: a ranked opportunity table with scan
// statistics and a short log tail.
type Model struct {
	table table.Model
	keys  KeyMap
	help  help.Model

	opportunities []*domain.Opportunity
	lastScan      time.Time
	scanCount     uint64
	executeCount  uint64
	logs          []string

	paused   bool
	quitting bool
	width    int
	height   int
}

// New creates the dashboard model.
func New() Model {
	columns := []table.Column{
		{Title: "Symbol", Width: 10},
		{Title: "Route", Width: 22},
		{Title: "Net $", Width: 10},
		{Title: "Bps", Width: 8},
		{Title: "Kelly", Width: 7},
		{Title: "Flash", Width: 10},
		{Title: "Chain", Width: 10},
		{Title: "Verdict", Width: 22},
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithFocused(true),
		table.WithHeight(12),
	)
	styles := table.DefaultStyles()
	styles.Header = styles.Header.Bold(true).Foreground(ColorPrimary).
		BorderStyle(lipgloss.NormalBorder()).BorderBottom(true).BorderForeground(ColorBorder)
	styles.Selected = styles.Selected.Foreground(lipgloss.Color("#FFFFFF")).Background(ColorBorder)
	t.SetStyles(styles)

	return Model{
		table: t,
		keys:  DefaultKeyMap(),
		help:  help.New(),
		logs:  make([]string, 0, maxLogLines),
	}
}

// Init starts the redraw ticker.
func (m Model) Init() tea.Cmd {
	return tickCmd()
}

func tickCmd() tea.Cmd {
	return tea.Tick(250*time.Millisecond, func(time.Time) tea.Msg {
		return TickMsg{}
	})
}

// Update handles messages.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			m.quitting = true
			return m, tea.Quit
		case key.Matches(msg, m.keys.Pause):
			m.paused = !m.paused
		case key.Matches(msg, m.keys.Clear):
			m.opportunities = nil
			m.table.SetRows(nil)
			m.logs = m.logs[:0]
		case key.Matches(msg, m.keys.Help):
			m.help.ShowAll = !m.help.ShowAll
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width

	case OpportunitiesMsg:
		if !m.paused {
			m.opportunities = msg.Opportunities
			m.lastScan = msg.ScannedAt
			m.scanCount++
			for _, opp := range msg.Opportunities {
				if opp.Decision.Execute {
					m.executeCount++
				}
			}
			m.table.SetRows(m.rows())
		}

	case LogMsg:
		m.pushLog(fmt.Sprintf("[%s] %s", msg.Level, msg.Message))

	case ErrorMsg:
		m.pushLog(LossStyle.Render("error: " + msg.Error.Error()))

	case TickMsg:
		return m, tickCmd()
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

func (m *Model) pushLog(line string) {
	m.logs = append(m.logs, line)
	if len(m.logs) > maxLogLines {
		m.logs = m.logs[len(m.logs)-maxLogLines:]
	}
}

func (m Model) rows() []table.Row {
	rows := make([]table.Row, 0, len(m.opportunities))
	for _, opp := range m.opportunities {
		route := ""
		if opp.Route != nil {
			route = opp.Route.PathString()
		}
		net, bps := "-", "-"
		flash, chain := "-", "-"
		if y := opp.Yield; y != nil {
			net = y.NetProfit.StringFixed(2)
			bps = y.ProfitBps.StringFixed(1)
			if y.FlashSource != domain.FlashSourceNone {
				flash = string(y.FlashSource)
			}
			chain = string(y.Chain)
		}
		kelly := "-"
		if opp.Risk != nil {
			kelly = fmt.Sprintf("%.3f", opp.Risk.KellyFraction)
		}
		verdict := "skip"
		if opp.Decision.Execute {
			verdict = ProfitStyle.Render("execute")
		}
		rows = append(rows, table.Row{opp.Symbol, route, net, bps, kelly, flash, chain, verdict})
	}
	return rows
}

// View renders the dashboard.
func (m Model) View() string {
	if m.quitting {
		return "shutting down...\n"
	}

	title := TitleStyle.Render("OMNIARB ENGINE")
	if m.paused {
		title += "  " + PausedStyle.Render("PAUSED")
	}

	stats := lipgloss.JoinHorizontal(lipgloss.Top,
		statCell("scans", fmt.Sprintf("%d", m.scanCount)),
		statCell("candidates", fmt.Sprintf("%d", len(m.opportunities))),
		statCell("executable", fmt.Sprintf("%d", m.executeCount)),
		statCell("last scan", m.lastScanLabel()),
	)

	sections := []string{
		title,
		stats,
		BoxStyle.Render(m.table.View()),
	}
	if len(m.logs) > 0 {
		logView := ""
		for i, line := range m.logs {
			if i > 0 {
				logView += "\n"
			}
			logView += line
		}
		sections = append(sections, BoxStyle.Render(logView))
	}
	sections = append(sections, HelpStyle.Render(m.help.View(m.keys)))

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m Model) lastScanLabel() string {
	if m.lastScan.IsZero() {
		return "never"
	}
	return m.lastScan.Format("15:04:05")
}

func statCell(label, value string) string {
	return BoxStyle.Render(StatLabelStyle.Render(label+" ") + StatValueStyle.Render(value))
}
