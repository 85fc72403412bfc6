package view

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/MrJamesThe3rd/washrent/internal/ledger"
	"github.com/MrJamesThe3rd/washrent/internal/money"
	"github.com/MrJamesThe3rd/washrent/internal/report"
)

const ledgerTimeout = 30 * time.Second

type ledgerState int

const (
	ledgerStateTimeframe ledgerState = iota
	ledgerStateLoading
	ledgerStateBrowse
)

type LedgerModel struct {
	reports *report.Service
	loc     *time.Location

	state           ledgerState
	timeframePicker TimeframePicker
	spinner         spinner.Model
	table           table.Model

	summary *report.Summary
	entries []ledger.Entry
	err     error
}

func NewLedgerModel(reports *report.Service, loc *time.Location) LedgerModel {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))

	columns := []table.Column{
		{Title: "Date", Width: 11},
		{Title: "Concept", Width: 28},
		{Title: "Channel", Width: 10},
		{Title: "Amount", Width: 13},
		{Title: "Efectivo", Width: 13},
		{Title: "Nequi", Width: 13},
		{Title: "Daviplata", Width: 13},
		{Title: "Total", Width: 13},
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithFocused(true),
		table.WithHeight(15),
	)

	st := table.DefaultStyles()
	st.Header = st.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		BorderBottom(true).
		Bold(false)
	st.Selected = st.Selected.
		Foreground(lipgloss.Color("229")).
		Background(lipgloss.Color("57")).
		Bold(false)
	t.SetStyles(st)

	return LedgerModel{
		reports:         reports,
		loc:             loc,
		state:           ledgerStateTimeframe,
		timeframePicker: NewTimeframePicker(TimeframeToday, loc),
		spinner:         s,
		table:           t,
	}
}

func (m LedgerModel) Title() string { return "Ledger" }

func (m LedgerModel) ShortHelp() string {
	if m.state == ledgerStateBrowse {
		return "Esc: change timeframe | ↑/↓: scroll"
	}

	return "Esc: back | Enter: select"
}

func (m LedgerModel) Init() tea.Cmd {
	return m.timeframePicker.Init()
}

func (m LedgerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case TimeframeSelectedMsg:
		m.state = ledgerStateLoading
		m.err = nil
		return m, tea.Batch(m.spinner.Tick, m.loadCmd(msg.Start, msg.End))

	case ledgerLoadedMsg:
		m.state = ledgerStateBrowse
		m.err = msg.err
		m.summary = msg.summary
		m.entries = msg.entries
		m.refreshTable()
		return m, nil

	case tea.WindowSizeMsg:
		m.table.SetHeight(msg.Height - 14)
		return m, nil
	}

	switch m.state {
	case ledgerStateTimeframe:
		if keyMsg, ok := msg.(tea.KeyMsg); ok && keyMsg.Type == tea.KeyEsc && m.timeframePicker.IsSelecting() {
			return m, Back
		}

		var cmd tea.Cmd
		m.timeframePicker, cmd = m.timeframePicker.Update(msg)
		return m, cmd

	case ledgerStateLoading:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case ledgerStateBrowse:
		if keyMsg, ok := msg.(tea.KeyMsg); ok && keyMsg.Type == tea.KeyEsc {
			m.state = ledgerStateTimeframe
			cmd := m.timeframePicker.Reset()

			return m, cmd
		}

		var cmd tea.Cmd
		m.table, cmd = m.table.Update(msg)
		return m, cmd
	}

	return m, nil
}

func (m *LedgerModel) refreshTable() {
	rows := make([]table.Row, 0, len(m.entries))
	for _, e := range m.entries {
		amount := money.Format(e.Amount)
		if e.Kind == ledger.KindExpense {
			amount = money.Format(-e.Amount)
		}

		concept := e.Concept
		if e.Client != "" {
			concept += " (" + e.Client + ")"
		}

		rows = append(rows, table.Row{
			FormatDate(e.Date, m.loc),
			concept,
			e.Channel.Label(),
			amount,
			money.Format(e.Running.Cash),
			money.Format(e.Running.WalletA),
			money.Format(e.Running.WalletB),
			money.Format(e.RunningTotal),
		})
	}

	m.table.SetRows(rows)
	m.table.GotoBottom()
}

func (m LedgerModel) View() string {
	style := lipgloss.NewStyle().Padding(1)

	switch m.state {
	case ledgerStateTimeframe:
		return style.Render(m.timeframePicker.View())

	case ledgerStateLoading:
		return style.Render(m.spinner.View() + " Building ledger...")
	}

	if m.err != nil {
		msg := fmt.Sprintf("Error: %v", m.err)
		if errors.Is(m.err, ledger.ErrSourceUnavailable) {
			msg = "Could not load data, try again.\n\n" + msg
		}

		return style.Render(errorStyle(msg) + "\n\n(Esc to go back)")
	}

	header := fmt.Sprintf("%s to %s | %d entries | income %s | expense %s | net %s",
		FormatDate(m.summary.Start, m.loc),
		FormatDate(m.summary.End, m.loc),
		m.summary.Entries,
		okStyle(money.Format(m.summary.Income.Total())),
		errorStyle(money.Format(m.summary.Expense.Total())),
		activeStyle(money.Format(m.summary.Net)),
	)

	tableView := lipgloss.NewStyle().
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		Render(m.table.View())

	return style.Render(lipgloss.JoinVertical(lipgloss.Left,
		lipgloss.NewStyle().PaddingBottom(1).Render(header),
		tableView,
		lipgloss.NewStyle().Faint(true).Render(m.ShortHelp()),
	))
}

type ledgerLoadedMsg struct {
	summary *report.Summary
	entries []ledger.Entry
	err     error
}

func (m LedgerModel) loadCmd(start, end time.Time) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), ledgerTimeout)
		defer cancel()

		sum, entries, err := m.reports.Summary(ctx, start, end)

		return ledgerLoadedMsg{summary: sum, entries: entries, err: err}
	}
}
