package view

import (
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/MrJamesThe3rd/washrent/internal/capital"
	"github.com/MrJamesThe3rd/washrent/internal/money"
)

type movementState int

const (
	movementStateForm movementState = iota
	movementStateSaving
	movementStateResult
)

type MovementModel struct {
	capital *capital.Service
	author  string
	now     func() time.Time

	state  movementState
	form   *huh.Form
	status string
	err    error
}

func NewMovementModel(svc *capital.Service, author string) MovementModel {
	m := MovementModel{
		capital: svc,
		author:  author,
		now:     time.Now,
	}
	m.form = m.buildForm()

	return m
}

func (m MovementModel) Title() string     { return "Capital Movement" }
func (m MovementModel) ShortHelp() string { return "Esc: back | Enter: next" }

func (m MovementModel) Init() tea.Cmd {
	return m.form.Init()
}

func (m MovementModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case movementSavedMsg:
		m.state = movementStateResult
		m.err = msg.err

		if msg.err != nil {
			m.status = fmt.Sprintf("Nothing changed: %v", msg.err)
			return m, nil
		}

		m.status = fmt.Sprintf("Recorded %s of %s.", msg.movement.Kind, money.Format(msg.movement.Amounts.Total()))

		return m, nil

	case tea.KeyMsg:
		if msg.Type == tea.KeyEsc {
			if m.state == movementStateResult && m.err != nil {
				m.state = movementStateForm
				m.form = m.buildForm()

				return m, m.form.Init()
			}

			return m, Back
		}
	}

	if m.state != movementStateForm {
		return m, nil
	}

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

	params, err := m.params()
	if err != nil {
		return m, func() tea.Msg { return movementSavedMsg{err: err} }
	}

	m.state = movementStateSaving

	return m, m.saveCmd(params)
}

func (m MovementModel) params() (capital.CreateMovementParams, error) {
	var split money.Split

	for _, f := range []struct {
		key string
		dst *int64
	}{
		{"cash", &split.Cash},
		{"wallet_a", &split.WalletA},
		{"wallet_b", &split.WalletB},
	} {
		v, err := parseOptionalAmount(m.form.GetString(f.key))
		if err != nil {
			return capital.CreateMovementParams{}, err
		}

		*f.dst = v
	}

	return capital.CreateMovementParams{
		Kind:    capital.Kind(m.form.GetString("kind")),
		Amounts: split,
		Concept: m.form.GetString("concept"),
		Notes:   m.form.GetString("notes"),
		Date:    m.now(),
		Author:  m.author,
	}, nil
}

func (m MovementModel) buildForm() *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Key("kind").
				Title("Kind").
				Options(
					huh.NewOption("Injection", string(capital.KindInjection)),
					huh.NewOption("Withdrawal", string(capital.KindWithdrawal)),
				),
			huh.NewInput().
				Key("concept").
				Title("Concept").
				Validate(huh.ValidateNotEmpty()),
			huh.NewInput().
				Key("notes").
				Title("Notes").
				Placeholder("optional"),
		),
		huh.NewGroup(
			huh.NewInput().
				Key("cash").
				Title(money.ChannelCash.Label()).
				Placeholder("0").
				Validate(validateOptionalAmount),
			huh.NewInput().
				Key("wallet_a").
				Title(money.ChannelWalletA.Label()).
				Placeholder("0").
				Validate(validateOptionalAmount),
			huh.NewInput().
				Key("wallet_b").
				Title(money.ChannelWalletB.Label()).
				Placeholder("0").
				Validate(validateOptionalAmount),
		).Description("Amount per channel, e.g. 60.000"),
	)
}

func (m MovementModel) View() string {
	style := lipgloss.NewStyle().Padding(1)

	switch m.state {
	case movementStateForm:
		return style.Render(m.form.View())
	case movementStateSaving:
		return style.Render("Saving...")
	}

	if m.err != nil {
		return style.Render(errorStyle(m.status) + "\n\n(Esc to edit again)")
	}

	return style.Render(okStyle(m.status) + "\n\n(Esc to go back)")
}

type movementSavedMsg struct {
	movement *capital.Movement
	err      error
}

func (m MovementModel) saveCmd(params capital.CreateMovementParams) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		mv, err := m.capital.CreateMovement(ctx, params)

		return movementSavedMsg{movement: mv, err: err}
	}
}
