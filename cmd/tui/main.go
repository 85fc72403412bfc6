package main

import (
	"context"
	"log/slog"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/joho/godotenv"

	"github.com/MrJamesThe3rd/washrent/cmd/tui/internal/view"
	"github.com/MrJamesThe3rd/washrent/internal/app"
	"github.com/MrJamesThe3rd/washrent/internal/config"
)

const startTimeout = 15 * time.Second

type model struct {
	app    *app.App
	author string

	currentView View

	balancesView view.BalancesModel
	ledgerView   view.LedgerModel
	movementView view.MovementModel
	expenseView  view.ExpenseModel
	importView   view.ImportModel
}

type View int

const (
	ViewMenu     View = 0
	ViewBalances View = 1
	ViewLedger   View = 2
	ViewMovement View = 3
	ViewExpense  View = 4
	ViewImport   View = 5
)

func initialModel(a *app.App, author string) model {
	return model{
		app:          a,
		author:       author,
		currentView:  ViewMenu,
		balancesView: view.NewBalancesModel(a.Aggregator),
		ledgerView:   view.NewLedgerModel(a.Reports, a.Location),
		movementView: view.NewMovementModel(a.Capital, author),
		expenseView:  view.NewExpenseModel(a.Expenses, a.Aggregator, author),
		importView:   view.NewImportModel(a.Expenses, a.Importer, author, a.Location),
	}
}

func (m model) Init() tea.Cmd {
	return nil
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}

		if m.currentView == ViewMenu {
			switch msg.String() {
			case "q":
				return m, tea.Quit
			case "1":
				m.currentView = ViewBalances
				m.balancesView = view.NewBalancesModel(m.app.Aggregator)

				return m, m.balancesView.Init()
			case "2":
				m.currentView = ViewLedger
				m.ledgerView = view.NewLedgerModel(m.app.Reports, m.app.Location)

				return m, m.ledgerView.Init()
			case "3":
				m.currentView = ViewMovement
				m.movementView = view.NewMovementModel(m.app.Capital, m.author)

				return m, m.movementView.Init()
			case "4":
				m.currentView = ViewExpense
				m.expenseView = view.NewExpenseModel(m.app.Expenses, m.app.Aggregator, m.author)

				return m, m.expenseView.Init()
			case "5":
				m.currentView = ViewImport
				m.importView = view.NewImportModel(m.app.Expenses, m.app.Importer, m.author, m.app.Location)

				return m, m.importView.Init()
			}
		}
	case view.BackMsg:
		m.currentView = ViewMenu
		return m, nil
	}

	switch m.currentView {
	case ViewBalances:
		var newModel tea.Model
		newModel, cmd = m.balancesView.Update(msg)
		m.balancesView = newModel.(view.BalancesModel)
	case ViewLedger:
		var newModel tea.Model
		newModel, cmd = m.ledgerView.Update(msg)
		m.ledgerView = newModel.(view.LedgerModel)
	case ViewMovement:
		var newModel tea.Model
		newModel, cmd = m.movementView.Update(msg)
		m.movementView = newModel.(view.MovementModel)
	case ViewExpense:
		var newModel tea.Model
		newModel, cmd = m.expenseView.Update(msg)
		m.expenseView = newModel.(view.ExpenseModel)
	case ViewImport:
		var newModel tea.Model
		newModel, cmd = m.importView.Update(msg)
		m.importView = newModel.(view.ImportModel)
	}

	return m, cmd
}

func (m model) View() string {
	switch m.currentView {
	case ViewMenu:
		return lipgloss.NewStyle().Padding(2).Render(
			"Washrent books (" + m.author + ")\n\n" +
				"1. Balances\n" +
				"2. Ledger\n" +
				"3. Capital Movement\n" +
				"4. Record Expense\n" +
				"5. Import Expenses\n\n" +
				"q. Quit",
		)
	case ViewBalances:
		return m.balancesView.View()
	case ViewLedger:
		return m.ledgerView.View()
	case ViewMovement:
		return m.movementView.View()
	case ViewExpense:
		return m.expenseView.View()
	case ViewImport:
		return m.importView.View()
	}

	return "Unknown View"
}

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	// The terminal belongs to bubbletea once it starts, so logs go to a file.
	if f, err := tea.LogToFile("washrent-tui.log", ""); err == nil {
		slog.SetDefault(slog.New(slog.NewTextHandler(f, nil)))
		defer f.Close()
	}

	author := os.Getenv("USER")
	if author == "" {
		slog.Error("USER is not set, cannot attribute changes")
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), startTimeout)
	a, err := app.New(ctx, cfg)
	cancel()

	if err != nil {
		slog.Error("failed to start", "error", err)
		os.Exit(1)
	}
	defer a.Close()

	p := tea.NewProgram(initialModel(a, author))
	if _, err := p.Run(); err != nil {
		slog.Error("failed to run TUI", "error", err)
	}
}
