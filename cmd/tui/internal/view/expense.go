package view

import (
	"errors"
	"fmt"
	"slices"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/MrJamesThe3rd/washrent/internal/expense"
	"github.com/MrJamesThe3rd/washrent/internal/ledger"
	"github.com/MrJamesThe3rd/washrent/internal/money"
	"github.com/MrJamesThe3rd/washrent/internal/solvency"
)

type expenseState int

const (
	expenseStateLoading expenseState = iota
	expenseStateDetails
	expenseStateChannel
	expenseStateSaving
	expenseStateResult
)

type ExpenseModel struct {
	expenses   *expense.Service
	aggregator *ledger.Aggregator
	author     string
	now        func() time.Time

	state    expenseState
	snapshot ledger.Snapshot
	form     *huh.Form

	concept     string
	description string
	amount      int64

	status string
	err    error
}

func NewExpenseModel(svc *expense.Service, agg *ledger.Aggregator, author string) ExpenseModel {
	return ExpenseModel{
		expenses:   svc,
		aggregator: agg,
		author:     author,
		now:        time.Now,
	}
}

func (m ExpenseModel) Title() string     { return "Record Expense" }
func (m ExpenseModel) ShortHelp() string { return "Esc: back | Enter: next" }

func (m ExpenseModel) Init() tea.Cmd {
	return m.loadCmd()
}

func (m ExpenseModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case balancesMsg:
		m.snapshot = msg.snapshot
		m.state = expenseStateDetails
		m.form = buildExpenseDetailsForm()

		return m, m.form.Init()

	case expenseSavedMsg:
		m.state = expenseStateResult
		m.err = msg.err

		if msg.err != nil {
			m.status = fmt.Sprintf("Nothing changed: %v", msg.err)
			if errors.Is(msg.err, expense.ErrInsufficientFunds) {
				m.status = "Nothing changed: the selected channel does not have enough funds."
			}

			return m, nil
		}

		m.status = fmt.Sprintf("Recorded %s from %s.", money.Format(msg.expense.Amount), msg.expense.Channel.Label())

		return m, nil

	case tea.KeyMsg:
		if msg.Type == tea.KeyEsc {
			if m.state == expenseStateResult && m.err != nil {
				m.state = expenseStateLoading
				m.err = nil

				return m, m.loadCmd()
			}

			return m, Back
		}
	}

	switch m.state {
	case expenseStateDetails:
		return m.updateDetails(msg)
	case expenseStateChannel:
		return m.updateChannel(msg)
	}

	return m, nil
}

func (m ExpenseModel) updateDetails(msg tea.Msg) (tea.Model, tea.Cmd) {
	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State == huh.StateAborted {
		return m, Back
	}

	if m.form.State != huh.StateCompleted {
		return m, cmd
	}

	amount, err := parseOptionalAmount(m.form.GetString("amount"))
	if err != nil {
		return m, func() tea.Msg { return expenseSavedMsg{err: err} }
	}

	m.concept = m.form.GetString("concept")
	m.description = m.form.GetString("description")
	m.amount = amount

	m.state = expenseStateChannel
	m.form = buildChannelForm(m.snapshot, amount)

	return m, m.form.Init()
}

func (m ExpenseModel) updateChannel(msg tea.Msg) (tea.Model, tea.Cmd) {
	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State == huh.StateAborted {
		return m, Back
	}

	if m.form.State != huh.StateCompleted {
		return m, cmd
	}

	m.state = expenseStateSaving

	return m, m.saveCmd(expense.CreateParams{
		Concept:     m.concept,
		Amount:      m.amount,
		Date:        m.now(),
		Channel:     money.Channel(m.form.GetString("channel")),
		Description: m.description,
		Author:      m.author,
	})
}

func buildExpenseDetailsForm() *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Key("concept").
				Title("Concept").
				Validate(huh.ValidateNotEmpty()),
			huh.NewInput().
				Key("amount").
				Title("Amount").
				Placeholder("60.000").
				Validate(func(s string) error {
					v, err := parseOptionalAmount(s)
					if err != nil {
						return err
					}

					if v == 0 {
						return solvency.ErrNonPositiveAmount
					}

					return nil
				}),
			huh.NewInput().
				Key("description").
				Title("Description").
				Placeholder("optional"),
		),
	)
}

// buildChannelForm lists every channel with its balance. Channels that cannot
// cover amount are flagged but still selectable; the service has the final say.
func buildChannelForm(s ledger.Snapshot, amount int64) *huh.Form {
	admissible, _ := solvency.AdmissibleChannels(s.Balances, amount)
	def, hasDefault := solvency.Default(s.Balances, amount)

	options := make([]huh.Option[string], 0, len(money.Channels))
	for _, ch := range money.Channels {
		label := fmt.Sprintf("%-10s %14s", ch.Label(), money.Format(s.Balances.Get(ch)))
		if !slices.Contains(admissible, ch) {
			label += "  insufficient"
		}

		options = append(options, huh.NewOption(label, string(ch)).Selected(hasDefault && ch == def))
	}

	desc := fmt.Sprintf("Paying %s", money.Format(amount))
	if s.Degraded() {
		desc += " | " + s.Warning
	} else if !hasDefault {
		desc += " | no channel can cover it"
	}

	return huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Key("channel").
				Title("Channel").
				Description(desc).
				Options(options...),
		),
	)
}

func (m ExpenseModel) View() string {
	style := lipgloss.NewStyle().Padding(1)

	switch m.state {
	case expenseStateLoading:
		return style.Render("Loading balances...")
	case expenseStateDetails, expenseStateChannel:
		return style.Render(m.form.View())
	case expenseStateSaving:
		return style.Render("Saving...")
	}

	if m.err != nil {
		return style.Render(errorStyle(m.status) + "\n\n(Esc to start over)")
	}

	return style.Render(okStyle(m.status) + "\n\n(Esc to go back)")
}

type expenseSavedMsg struct {
	expense *expense.Expense
	err     error
}

func (m ExpenseModel) loadCmd() tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		return balancesMsg{snapshot: m.aggregator.Current(ctx)}
	}
}

func (m ExpenseModel) saveCmd(params expense.CreateParams) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		e, err := m.expenses.Create(ctx, params)

		return expenseSavedMsg{expense: e, err: err}
	}
}
