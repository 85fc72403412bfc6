package view

import (
	"errors"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
)

type Timeframe int

const (
	TimeframeToday Timeframe = iota
	TimeframeThisWeek
	TimeframeLastWeek
	TimeframeThisMonth
	TimeframeLastMonth
	TimeframeAll
	TimeframeCustom
)

func (t Timeframe) String() string {
	switch t {
	case TimeframeToday:
		return "Today"
	case TimeframeThisWeek:
		return "This Week"
	case TimeframeLastWeek:
		return "Last Week"
	case TimeframeThisMonth:
		return "This Month"
	case TimeframeLastMonth:
		return "Last Month"
	case TimeframeAll:
		return "All Time"
	case TimeframeCustom:
		return "Custom Range"
	}

	return "Unknown"
}

// timeframeToDateRange resolves tf to whole calendar days in loc. Weeks start
// on Monday. All starts at the zero time so every recorded event falls inside.
func timeframeToDateRange(tf Timeframe, now time.Time, loc *time.Location) (time.Time, time.Time) {
	now = now.In(loc)
	start, end := now, now

	sinceMonday := (int(now.Weekday()) + 6) % 7

	switch tf {
	case TimeframeThisWeek:
		start = now.AddDate(0, 0, -sinceMonday)
	case TimeframeLastWeek:
		end = now.AddDate(0, 0, -sinceMonday-1)
		start = end.AddDate(0, 0, -6)
	case TimeframeThisMonth:
		start = time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, loc)
	case TimeframeLastMonth:
		start = time.Date(now.Year(), now.Month()-1, 1, 0, 0, 0, 0, loc)
		end = start.AddDate(0, 1, -1)
	case TimeframeAll:
		_, end = normalizeDateRange(now, now, loc)
		return time.Time{}, end
	}

	return normalizeDateRange(start, end, loc)
}

// normalizeDateRange widens [start, end] to whole calendar days in loc.
func normalizeDateRange(start, end time.Time, loc *time.Location) (time.Time, time.Time) {
	start, end = start.In(loc), end.In(loc)

	return time.Date(start.Year(), start.Month(), start.Day(), 0, 0, 0, 0, loc),
		time.Date(end.Year(), end.Month(), end.Day(), 0, 0, 0, 0, loc).AddDate(0, 0, 1).Add(-time.Nanosecond)
}

// parseCustomRange reads two YYYY-MM-DD days in loc.
func parseCustomRange(rawStart, rawEnd string, loc *time.Location) (time.Time, time.Time, error) {
	start, err := time.ParseInLocation(time.DateOnly, rawStart, loc)
	if err != nil {
		return time.Time{}, time.Time{}, errors.New("invalid start date (YYYY-MM-DD)")
	}

	end, err := time.ParseInLocation(time.DateOnly, rawEnd, loc)
	if err != nil {
		return time.Time{}, time.Time{}, errors.New("invalid end date (YYYY-MM-DD)")
	}

	if end.Before(start) {
		return time.Time{}, time.Time{}, errors.New("end date is before start date")
	}

	start, end = normalizeDateRange(start, end, loc)

	return start, end, nil
}

func validateDay(s string) error {
	if _, err := time.Parse(time.DateOnly, s); err != nil {
		return errors.New("use YYYY-MM-DD")
	}

	return nil
}

// TimeframeSelectedMsg is emitted once the operator settles on a range.
type TimeframeSelectedMsg struct {
	Start time.Time
	End   time.Time
}

// TimeframePicker selects a date range: a preset, or a custom pair of days.
type TimeframePicker struct {
	loc      *time.Location
	now      func() time.Time
	minFrame Timeframe

	custom bool
	form   *huh.Form
	err    error
}

func NewTimeframePicker(minFrame Timeframe, loc *time.Location) TimeframePicker {
	m := TimeframePicker{
		loc:      loc,
		now:      time.Now,
		minFrame: minFrame,
	}
	m.form = m.presetForm()

	return m
}

func (m TimeframePicker) presetForm() *huh.Form {
	options := make([]huh.Option[Timeframe], 0, TimeframeCustom-m.minFrame+1)
	for tf := m.minFrame; tf <= TimeframeCustom; tf++ {
		options = append(options, huh.NewOption(tf.String(), tf))
	}

	return huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[Timeframe]().
				Key("timeframe").
				Title("Timeframe").
				Options(options...),
		),
	).WithShowHelp(false)
}

func (m TimeframePicker) customForm() *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Key("start").
				Title("Start date").
				Placeholder(time.DateOnly).
				CharLimit(10).
				Validate(validateDay),
			huh.NewInput().
				Key("end").
				Title("End date").
				Placeholder(time.DateOnly).
				CharLimit(10).
				Validate(validateDay),
		),
	).WithShowHelp(false)
}

func (m TimeframePicker) Init() tea.Cmd {
	return m.form.Init()
}

func (m TimeframePicker) Update(msg tea.Msg) (TimeframePicker, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok && keyMsg.Type == tea.KeyEsc && m.custom {
		cmd := m.Reset()
		return m, cmd
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State != huh.StateCompleted {
		return m, cmd
	}

	if !m.custom {
		tf, _ := m.form.Get("timeframe").(Timeframe)
		if tf == TimeframeCustom {
			m.custom = true
			m.form = m.customForm()

			return m, m.form.Init()
		}

		start, end := timeframeToDateRange(tf, m.now(), m.loc)

		return m, selected(start, end)
	}

	start, end, err := parseCustomRange(m.form.GetString("start"), m.form.GetString("end"), m.loc)
	if err != nil {
		m.err = err
		m.form = m.customForm()

		return m, m.form.Init()
	}

	m.err = nil

	return m, selected(start, end)
}

func selected(start, end time.Time) tea.Cmd {
	return func() tea.Msg {
		return TimeframeSelectedMsg{Start: start, End: end}
	}
}

func (m TimeframePicker) View() string {
	s := m.form.View()

	if m.custom {
		s += "\n(Enter to confirm, Esc for presets)"
	} else {
		s += "\n(Enter to select, Esc to back)"
	}

	if m.err != nil {
		s += "\n\n" + errorStyle("Error: "+m.err.Error())
	}

	return s
}

// IsSelecting reports whether the preset list is showing. Esc there leaves
// the picker; in the custom form it returns to the presets.
func (m TimeframePicker) IsSelecting() bool {
	return !m.custom
}

// Reset shows the preset list again. The returned command focuses it.
func (m *TimeframePicker) Reset() tea.Cmd {
	m.custom = false
	m.err = nil
	m.form = m.presetForm()

	return m.form.Init()
}
