package view

import (
	"context"
	"errors"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/MrJamesThe3rd/washrent/internal/money"
)

const dbTimeout = 5 * time.Second

type BackMsg struct{}

func Back() tea.Msg {
	return BackMsg{}
}

// DbCtx returns a context with a standard timeout for database operations.
func DbCtx() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), dbTimeout)
}

func FormatDate(t time.Time, loc *time.Location) string {
	return t.In(loc).Format(time.DateOnly)
}

func activeStyle(s string) string {
	return lipgloss.NewStyle().Foreground(lipgloss.Color("205")).Render(s)
}

func errorStyle(s string) string {
	return lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Render(s)
}

func okStyle(s string) string {
	return lipgloss.NewStyle().Foreground(lipgloss.Color("46")).Render(s)
}

func warnStyle(s string) string {
	return lipgloss.NewStyle().Foreground(lipgloss.Color("214")).Render(s)
}

// parseOptionalAmount reads a peso amount typed by the operator. Blank is zero.
func parseOptionalAmount(s string) (int64, error) {
	if strings.TrimSpace(s) == "" {
		return 0, nil
	}

	cents, err := money.ParseAmount(s)
	if err != nil {
		return 0, err
	}

	if cents < 0 {
		return 0, errors.New("amount cannot be negative")
	}

	return cents, nil
}

func validateOptionalAmount(s string) error {
	_, err := parseOptionalAmount(s)
	return err
}
