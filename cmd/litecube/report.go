package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/litecube/litecube/internal/config"
)

var (
	labelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("250")).
			Width(22).
			Align(lipgloss.Right).
			PaddingRight(2)

	valueStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("15")).
			Bold(true)

	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241"))

	headerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("62")).
			Bold(true)
)

type reportRow struct {
	label string
	value string
}

// report is a titled list of label/value rows. An empty label starts a new
// group.
type report struct {
	title string
	rows  []reportRow
	notes []string
}

func (r *report) add(label, value string) {
	r.rows = append(r.rows, reportRow{label: label, value: value})
}

func (r *report) addf(label, format string, args ...any) {
	r.add(label, fmt.Sprintf(format, args...))
}

func (r *report) gap() {
	r.rows = append(r.rows, reportRow{})
}

func (r *report) note(text string) {
	r.notes = append(r.notes, text)
}

// value returns the first row with the given label.
func (r *report) value(label string) (string, bool) {
	for _, row := range r.rows {
		if row.label == label {
			return row.value, true
		}
	}
	return "", false
}

func (r *report) Render() string {
	lines := []string{headerStyle.Render(r.title), ""}
	for _, row := range r.rows {
		if row.label == "" {
			lines = append(lines, "")
			continue
		}
		lines = append(lines, labelStyle.Render(row.label)+valueStyle.Render(row.value))
	}
	if len(r.notes) > 0 {
		lines = append(lines, "")
		for _, n := range r.notes {
			lines = append(lines, dimStyle.Render("  "+n))
		}
	}
	return strings.Join(lines, "\n")
}

func displayOrDefault(val, def string) string {
	if val == "" {
		return def
	}
	return val
}

func configReport(res *config.LoadResult) *report {
	cfg := res.Config
	r := &report{title: "litecube configuration"}

	r.add("Config File", displayOrDefault(res.File, "(defaults)"))
	r.add("Backend", cfg.Backend)
	r.add("Log Level", cfg.LogLevel)
	r.add("Poll Interval", cfg.PollInterval.String())
	r.gap()
	r.addf("Window Size", "%dx%d", cfg.Window.Width, cfg.Window.Height)
	r.add("Title", cfg.Window.Title)
	if flags, err := cfg.Flags(); err == nil {
		r.add("Flags", flags.String())
	}
	if p := cfg.Window.Position; p != nil {
		r.addf("Position", "%d,%d", p.X, p.Y)
	} else {
		r.add("Position", "(backend)")
	}
	r.add("Fullscreen", strconv.FormatBool(cfg.Fullscreen))
	r.gap()
	r.add("Bounce", strconv.FormatBool(cfg.Bounce.Enabled))
	r.add("Bounce Speed", strconv.FormatFloat(cfg.Bounce.Speed, 'g', -1, 64))
	return r
}
