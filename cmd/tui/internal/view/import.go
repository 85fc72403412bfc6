package view

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/charmbracelet/bubbles/filepicker"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/MrJamesThe3rd/washrent/internal/expense"
	"github.com/MrJamesThe3rd/washrent/internal/importer"
	"github.com/MrJamesThe3rd/washrent/internal/money"
)

const importTimeout = 2 * time.Minute

type importState int

const (
	importStateFilePick importState = iota
	importStateImporting
	importStateConflicts
	importStateResult
)

type ImportModel struct {
	expenses *expense.Service
	importer *importer.Service
	author   string
	loc      *time.Location

	state      importState
	filePicker filepicker.Model

	newParams    []expense.CreateParams
	conflicts    []expense.Conflict
	conflictList list.Model

	status string
	err    error
}

func NewImportModel(expSvc *expense.Service, impSvc *importer.Service, author string, loc *time.Location) ImportModel {
	fp := filepicker.New()
	fp.CurrentDirectory, _ = os.Getwd()
	fp.AllowedTypes = []string{".csv", ".tsv", ".txt"}
	fp.ShowHidden = false
	fp.DirAllowed = false
	fp.FileAllowed = true
	fp.SetHeight(15)

	return ImportModel{
		expenses:   expSvc,
		importer:   impSvc,
		author:     author,
		loc:        loc,
		filePicker: fp,
	}
}

func (m ImportModel) Title() string { return "Import Expenses" }

func (m ImportModel) ShortHelp() string {
	if m.state == importStateConflicts {
		return "Enter: import only new rows | Esc: cancel"
	}

	return "Esc: back | Enter: select"
}

func (m ImportModel) Init() tea.Cmd {
	return m.filePicker.Init()
}

func (m ImportModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.Type == tea.KeyEsc {
			return m.handleEsc()
		}

		if m.state == importStateConflicts {
			return m.updateConflicts(msg)
		}

	case importResultMsg:
		if msg.err != nil {
			m.state = importStateResult
			m.err = msg.err
			m.status = fmt.Sprintf("Error: %v", msg.err)

			return m, nil
		}

		if len(msg.result.Conflicts) == 0 {
			m.state = importStateResult
			m.status = fmt.Sprintf("Imported %d expenses.", len(msg.result.Imported))

			return m, nil
		}

		m.newParams = msg.result.New
		m.conflicts = msg.result.Conflicts
		m.state = importStateConflicts

		items := make([]list.Item, len(m.conflicts))
		for i, c := range m.conflicts {
			items[i] = conflictItem{conflict: c}
		}

		m.conflictList = list.New(items, conflictDelegate{loc: m.loc}, 80, 20)
		m.conflictList.Title = fmt.Sprintf("Already on file (%d new rows pending)", len(m.newParams))
		m.conflictList.SetShowStatusBar(false)
		m.conflictList.SetFilteringEnabled(false)
		m.conflictList.SetShowHelp(false)

		return m, nil
	}

	if m.state != importStateFilePick {
		return m, nil
	}

	var cmd tea.Cmd
	m.filePicker, cmd = m.filePicker.Update(msg)

	if didSelect, path := m.filePicker.DidSelectFile(msg); didSelect {
		m.state = importStateImporting
		m.status = fmt.Sprintf("Importing from %s...", path)

		return m, m.importCmd(path)
	}

	return m, cmd
}

func (m ImportModel) handleEsc() (tea.Model, tea.Cmd) {
	switch m.state {
	case importStateResult, importStateConflicts:
		m.state = importStateFilePick
		m.err = nil
		m.status = ""
		m.conflicts = nil
		m.newParams = nil

		return m, m.filePicker.Init()
	}

	return m, Back
}

func (m ImportModel) updateConflicts(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.Type == tea.KeyEnter {
		if len(m.newParams) == 0 {
			m.state = importStateResult
			m.status = "Every row is already on file. Nothing imported."

			return m, nil
		}

		m.state = importStateImporting
		m.status = fmt.Sprintf("Importing %d new rows...", len(m.newParams))

		return m, m.submitCmd(m.newParams)
	}

	var cmd tea.Cmd
	m.conflictList, cmd = m.conflictList.Update(msg)

	return m, cmd
}

func (m ImportModel) View() string {
	switch m.state {
	case importStateFilePick:
		return lipgloss.NewStyle().Padding(1).Render(
			"Select a spreadsheet or wallet export:\n\n" + m.filePicker.View(),
		)
	case importStateImporting:
		return lipgloss.NewStyle().Padding(2).Render(m.status)
	case importStateConflicts:
		return lipgloss.NewStyle().Padding(1).Render(
			m.conflictList.View() + "\n" + lipgloss.NewStyle().Faint(true).Render(m.ShortHelp()),
		)
	case importStateResult:
		render := okStyle
		if m.err != nil {
			render = errorStyle
		}

		return lipgloss.NewStyle().Padding(2).Render(render(m.status) + "\n\n(Esc to go back)")
	}

	return ""
}

type importResultMsg struct {
	result *expense.ImportResult
	err    error
}

func (m ImportModel) importCmd(path string) tea.Cmd {
	return func() tea.Msg {
		f, err := os.Open(path)
		if err != nil {
			return importResultMsg{err: err}
		}
		defer f.Close()

		ctx, cancel := context.WithTimeout(context.Background(), importTimeout)
		defer cancel()

		params, err := m.importer.Import(ctx, importer.FormatSheet, f, m.author)
		if err != nil {
			return importResultMsg{err: err}
		}

		result, err := m.expenses.ImportBatch(ctx, params)

		return importResultMsg{result: result, err: err}
	}
}

// submitCmd goes through ImportBatch again so the rows are re-checked for
// duplicates and gated on the balances as they are now.
func (m ImportModel) submitCmd(params []expense.CreateParams) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), importTimeout)
		defer cancel()

		result, err := m.expenses.ImportBatch(ctx, params)

		return importResultMsg{result: result, err: err}
	}
}

type conflictItem struct {
	conflict expense.Conflict
}

func (i conflictItem) Title() string       { return i.conflict.Incoming.Concept }
func (i conflictItem) Description() string { return "" }
func (i conflictItem) FilterValue() string { return i.conflict.Incoming.Concept }

type conflictDelegate struct {
	loc *time.Location
}

func (d conflictDelegate) Height() int                             { return 2 }
func (d conflictDelegate) Spacing() int                            { return 1 }
func (d conflictDelegate) Update(_ tea.Msg, _ *list.Model) tea.Cmd { return nil }

func (d conflictDelegate) Render(w io.Writer, m list.Model, index int, listItem list.Item) {
	item, ok := listItem.(conflictItem)
	if !ok {
		return
	}

	cursor := "  "
	if index == m.Index() {
		cursor = "> "
	}

	incoming := item.conflict.Incoming
	existing := item.conflict.Existing

	line1 := fmt.Sprintf("%s%s  %s  %-9s  %s",
		cursor,
		FormatDate(incoming.Date, d.loc),
		money.Format(incoming.Amount),
		incoming.Channel.Label(),
		incoming.Concept,
	)

	line2 := fmt.Sprintf("    on file: %s  %s  %-9s  by %s",
		FormatDate(existing.Date, d.loc),
		money.Format(existing.Amount),
		existing.Channel.Label(),
		existing.Author,
	)

	fmt.Fprintf(w, "%s\n%s", line1, warnStyle(line2))
}
