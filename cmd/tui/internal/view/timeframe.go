package view

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/MrJamesThe3rd/haulage/internal/report"
)

// Timeframe is a reporting period offered by the picker.
type Timeframe int

const (
	TimeframeThisMonth Timeframe = iota
	TimeframeLastMonth
	TimeframeThisQuarter
	TimeframeLastQuarter
	TimeframeThisYear
	TimeframeAll
	TimeframeCustom
)

var timeframeLabels = map[Timeframe]string{
	TimeframeThisMonth:   "This Month",
	TimeframeLastMonth:   "Last Month",
	TimeframeThisQuarter: "This Quarter",
	TimeframeLastQuarter: "Last Quarter",
	TimeframeThisYear:    "This Year",
	TimeframeAll:         "All Time",
	TimeframeCustom:      "Custom Range",
}

func (t Timeframe) String() string {
	if l, ok := timeframeLabels[t]; ok {
		return l
	}

	return "Unknown"
}

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// PeriodRange returns the closed day range of tf as seen on now. Ranges that
// include today end today; past periods end on their last day. All and
// Custom yield an open range.
func PeriodRange(tf Timeframe, now time.Time) report.Range {
	today := day(now.Year(), now.Month(), now.Day())
	quarterStart := day(now.Year(), now.Month()-(now.Month()-1)%3, 1)

	var start, end time.Time

	switch tf {
	case TimeframeThisMonth:
		start, end = day(now.Year(), now.Month(), 1), today
	case TimeframeLastMonth:
		start = day(now.Year(), now.Month()-1, 1)
		end = start.AddDate(0, 1, -1)
	case TimeframeThisQuarter:
		start, end = quarterStart, today
	case TimeframeLastQuarter:
		start = quarterStart.AddDate(0, -3, 0)
		end = quarterStart.AddDate(0, 0, -1)
	case TimeframeThisYear:
		start, end = day(now.Year(), time.January, 1), today
	default:
		return report.Range{}
	}

	return report.Range{Start: &start, End: &end}
}

// TimeframeSelectedMsg carries the confirmed range. An open range means every
// record.
type TimeframeSelectedMsg struct {
	Label string
	rng   report.Range
}

func (msg TimeframeSelectedMsg) Range() report.Range {
	return msg.rng
}

func selected(label string, rng report.Range) tea.Cmd {
	return func() tea.Msg {
		return TimeframeSelectedMsg{Label: label, rng: rng}
	}
}

// TimeframePicker lists the preset periods with a custom range at the bottom.
type TimeframePicker struct {
	initial Timeframe
	cursor  Timeframe
	custom  bool

	inputs [2]textinput.Model
	focus  int

	err error
}

func NewTimeframePicker(initial Timeframe) TimeframePicker {
	var inputs [2]textinput.Model

	for i, prompt := range []string{"From: ", "To:   "} {
		in := textinput.New()
		in.Placeholder = "YYYY-MM-DD"
		in.CharLimit = 10
		in.Width = 12
		in.Prompt = prompt
		inputs[i] = in
	}

	return TimeframePicker{initial: initial, cursor: initial, inputs: inputs}
}

func (m TimeframePicker) Init() tea.Cmd {
	return nil
}

func (m TimeframePicker) Update(msg tea.Msg) (TimeframePicker, tea.Cmd) {
	keyMsg, isKey := msg.(tea.KeyMsg)

	switch {
	case isKey && m.custom:
		return m.updateCustom(keyMsg)
	case isKey:
		return m.updatePresets(keyMsg)
	case m.custom:
		var cmd tea.Cmd
		m.inputs[m.focus], cmd = m.inputs[m.focus].Update(msg)

		return m, cmd
	}

	return m, nil
}

func (m TimeframePicker) updatePresets(msg tea.KeyMsg) (TimeframePicker, tea.Cmd) {
	switch msg.String() {
	case "up", "k":
		m.cursor = max(m.cursor-1, TimeframeThisMonth)
	case "down", "j":
		m.cursor = min(m.cursor+1, TimeframeCustom)
	case "enter":
		if m.cursor == TimeframeCustom {
			m.custom = true
			m.focus = 0
			m.inputs[0].Focus()

			return m, textinput.Blink
		}

		return m, selected(m.cursor.String(), PeriodRange(m.cursor, time.Now()))
	}

	return m, nil
}

func (m TimeframePicker) updateCustom(msg tea.KeyMsg) (TimeframePicker, tea.Cmd) {
	switch msg.String() {
	case "tab", "shift+tab":
		m.inputs[m.focus].Blur()
		m.focus = 1 - m.focus
		m.inputs[m.focus].Focus()

		return m, textinput.Blink

	case "esc":
		m.custom = false
		m.err = nil

		return m, nil

	case "enter":
		from, to := m.inputs[0].Value(), m.inputs[1].Value()

		rng, err := report.ParseRange(from, to)
		switch {
		case err != nil, rng.Start == nil, rng.End == nil:
			m.err = errors.New("enter both dates as YYYY-MM-DD or MM/DD/YYYY")
			return m, nil
		case rng.End.Before(*rng.Start):
			m.err = errors.New("end date is before start date")
			return m, nil
		}

		m.err = nil

		return m, selected(fmt.Sprintf("%s to %s", FormatDate(*rng.Start), FormatDate(*rng.End)), rng)
	}

	var cmd tea.Cmd
	m.inputs[m.focus], cmd = m.inputs[m.focus].Update(msg)

	return m, cmd
}

func (m TimeframePicker) View() string {
	var b strings.Builder

	if m.custom {
		fmt.Fprintf(&b, "Custom range:\n\n%s\n%s\n\n(Enter to confirm, Tab to switch, Esc to back)",
			m.inputs[0].View(), m.inputs[1].View())
	} else {
		b.WriteString("Select period:\n\n")

		for tf := TimeframeThisMonth; tf <= TimeframeCustom; tf++ {
			if tf == m.cursor {
				b.WriteString(activeStyle("> " + tf.String()))
			} else {
				b.WriteString("  " + tf.String())
			}

			b.WriteByte('\n')
		}

		b.WriteString("\n(Enter to select, Esc to back)")
	}

	if m.err != nil {
		b.WriteString("\n\n" + errorStyle(m.err.Error()))
	}

	return b.String()
}

// IsSelecting reports whether the preset list is showing, as opposed to the
// custom date inputs.
func (m TimeframePicker) IsSelecting() bool {
	return !m.custom
}

func (m *TimeframePicker) Reset() {
	m.custom = false
	m.cursor = m.initial
	m.err = nil

	for i := range m.inputs {
		m.inputs[i].Blur()
		m.inputs[i].SetValue("")
	}
}
