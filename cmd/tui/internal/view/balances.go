package view

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/MrJamesThe3rd/washrent/internal/ledger"
	"github.com/MrJamesThe3rd/washrent/internal/money"
)

type BalancesModel struct {
	aggregator *ledger.Aggregator

	snapshot ledger.Snapshot
	loading  bool
}

func NewBalancesModel(agg *ledger.Aggregator) BalancesModel {
	return BalancesModel{aggregator: agg, loading: true}
}

func (m BalancesModel) Title() string     { return "Balances" }
func (m BalancesModel) ShortHelp() string { return "Esc: back | r: refresh" }

func (m BalancesModel) Init() tea.Cmd {
	return m.loadCmd()
}

func (m BalancesModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case balancesMsg:
		m.loading = false
		m.snapshot = msg.snapshot
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "esc":
			return m, Back
		case "r":
			m.loading = true
			return m, m.loadCmd()
		}
	}

	return m, nil
}

func (m BalancesModel) View() string {
	if m.loading {
		return lipgloss.NewStyle().Padding(2).Render("Loading balances...")
	}

	return lipgloss.NewStyle().Padding(2).Render(
		m.Title() + "\n\n" + RenderBalances(m.snapshot) + "\n\n" + m.ShortHelp(),
	)
}

// RenderBalances prints one line per channel plus the total. A degraded
// snapshot is shown with its warning so zeros are never mistaken for data.
func RenderBalances(s ledger.Snapshot) string {
	var sb strings.Builder

	if s.Degraded() {
		sb.WriteString(warnStyle("! "+s.Warning) + "\n\n")
	}

	for _, ch := range money.Channels {
		amount := s.Balances.Get(ch)

		line := fmt.Sprintf("%-10s %14s", ch.Label(), money.Format(amount))
		if amount < 0 {
			line = errorStyle(line)
		}

		sb.WriteString(line + "\n")
	}

	sb.WriteString(fmt.Sprintf("%-10s %14s", "Total", activeStyle(money.Format(s.Total))))

	return sb.String()
}

type balancesMsg struct {
	snapshot ledger.Snapshot
}

func (m BalancesModel) loadCmd() tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		return balancesMsg{snapshot: m.aggregator.Current(ctx)}
	}
}
