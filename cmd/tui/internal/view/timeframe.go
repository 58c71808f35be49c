package view

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

// Timeframe is a predefined or custom date range.
type Timeframe int

const (
	TimeframeThisMonth Timeframe = iota
	TimeframeLastMonth
	TimeframeThisQuarter
	TimeframeThisYear
	TimeframeLastYear
	TimeframeAll
	TimeframeCustom
)

var timeframeLabels = map[Timeframe]string{
	TimeframeThisMonth:   "This Month",
	TimeframeLastMonth:   "Last Month",
	TimeframeThisQuarter: "This Quarter",
	TimeframeThisYear:    "This Year",
	TimeframeLastYear:    "Last Year",
	TimeframeAll:         "All Time",
	TimeframeCustom:      "Custom Range",
}

func (t Timeframe) String() string {
	if l, ok := timeframeLabels[t]; ok {
		return l
	}

	return "Unknown"
}

// epoch is where All Time starts. Movements are never dated before it.
var epoch = time.Date(1970, time.January, 1, 0, 0, 0, 0, time.UTC)

// Range returns the calendar days the timeframe covers relative to now, as
// UTC midnights. Custom has no fixed range.
func (t Timeframe) Range(now time.Time) (time.Time, time.Time) {
	today := day(now)
	y, mo, _ := today.Date()

	switch t {
	case TimeframeThisMonth:
		return time.Date(y, mo, 1, 0, 0, 0, 0, time.UTC), today
	case TimeframeLastMonth:
		start := time.Date(y, mo-1, 1, 0, 0, 0, 0, time.UTC)
		return start, start.AddDate(0, 1, -1)
	case TimeframeThisQuarter:
		first := mo - (mo-1)%3
		return time.Date(y, first, 1, 0, 0, 0, 0, time.UTC), today
	case TimeframeThisYear:
		return time.Date(y, time.January, 1, 0, 0, 0, 0, time.UTC), today
	case TimeframeLastYear:
		return time.Date(y-1, time.January, 1, 0, 0, 0, 0, time.UTC), time.Date(y-1, time.December, 31, 0, 0, 0, 0, time.UTC)
	case TimeframeAll:
		return epoch, today
	}

	return time.Time{}, time.Time{}
}

func day(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// TimeframeSelectedMsg carries the chosen inclusive day range.
type TimeframeSelectedMsg struct {
	Label string
	Start time.Time
	End   time.Time
}

// TimeframePicker is a reusable component for selecting a date range.
type TimeframePicker struct {
	custom   bool
	selected Timeframe

	inputs [2]textinput.Model
	focus  int

	err error
}

func NewTimeframePicker(initial Timeframe) TimeframePicker {
	p := TimeframePicker{selected: initial}

	for i, prompt := range []string{"From: ", "To:   "} {
		in := textinput.New()
		in.Placeholder = "YYYY-MM-DD"
		in.CharLimit = 10
		in.Width = 12
		in.Prompt = prompt
		p.inputs[i] = in
	}

	return p
}

func (p TimeframePicker) Update(msg tea.Msg) (TimeframePicker, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)

	if !p.custom {
		if ok {
			return p.updateSelect(key)
		}

		return p, nil
	}

	if ok {
		switch key.String() {
		case "tab", "shift+tab":
			p.inputs[p.focus].Blur()
			p.focus = 1 - p.focus

			return p, p.inputs[p.focus].Focus()
		case "enter":
			return p.submitCustom()
		case "esc":
			p.custom = false
			p.err = nil

			return p, nil
		}
	}

	var cmd tea.Cmd
	p.inputs[p.focus], cmd = p.inputs[p.focus].Update(msg)

	return p, cmd
}

func (p TimeframePicker) updateSelect(key tea.KeyMsg) (TimeframePicker, tea.Cmd) {
	switch key.String() {
	case "up", "k":
		if p.selected > TimeframeThisMonth {
			p.selected--
		}
	case "down", "j":
		if p.selected < TimeframeCustom {
			p.selected++
		}
	case "enter":
		if p.selected == TimeframeCustom {
			p.custom = true
			p.focus = 0

			return p, p.inputs[0].Focus()
		}

		start, end := p.selected.Range(time.Now())
		label := p.selected.String()

		return p, func() tea.Msg {
			return TimeframeSelectedMsg{Label: label, Start: start, End: end}
		}
	}

	return p, nil
}

func (p TimeframePicker) submitCustom() (TimeframePicker, tea.Cmd) {
	start, err := time.Parse(time.DateOnly, strings.TrimSpace(p.inputs[0].Value()))
	if err != nil {
		p.err = errors.New("invalid start date (YYYY-MM-DD)")
		return p, nil
	}

	end, err := time.Parse(time.DateOnly, strings.TrimSpace(p.inputs[1].Value()))
	if err != nil {
		p.err = errors.New("invalid end date (YYYY-MM-DD)")
		return p, nil
	}

	if end.Before(start) {
		p.err = errors.New("end date is before start date")
		return p, nil
	}

	p.err = nil
	label := fmt.Sprintf("%s to %s", FormatDate(start), FormatDate(end))

	return p, func() tea.Msg {
		return TimeframeSelectedMsg{Label: label, Start: start, End: end}
	}
}

func (p TimeframePicker) View() string {
	var sb strings.Builder

	if p.custom {
		fmt.Fprintf(&sb, "Enter Custom Range:\n\n%s\n%s\n\n(Enter to confirm, Tab to switch, Esc to back)", p.inputs[0].View(), p.inputs[1].View())
	} else {
		sb.WriteString("Select Timeframe:\n\n")

		for tf := TimeframeThisMonth; tf <= TimeframeCustom; tf++ {
			cursor := " "
			if tf == p.selected {
				cursor = ">"
			}

			fmt.Fprintf(&sb, "%s %s\n", cursor, tf)
		}

		sb.WriteString("\n(Enter to select, Esc to back)")
	}

	if p.err != nil {
		sb.WriteString("\n\n" + errorStyle("Error: "+p.err.Error()))
	}

	return sb.String()
}

// IsSelecting reports whether the picker shows the preset list.
func (p TimeframePicker) IsSelecting() bool {
	return !p.custom
}

// Reset returns the picker to the preset list.
func (p *TimeframePicker) Reset() {
	p.custom = false
	p.err = nil

	for i := range p.inputs {
		p.inputs[i].Blur()
		p.inputs[i].SetValue("")
	}
}
