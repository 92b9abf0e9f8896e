package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/FocuswithJustin/commedia/internal/pipeline"
)

var (
	colorPass  = lipgloss.AdaptiveColor{Light: "#6cbf43", Dark: "#aad94c"}
	colorFail  = lipgloss.AdaptiveColor{Light: "#e65050", Dark: "#f07178"}
	colorMuted = lipgloss.AdaptiveColor{Light: "#828c99", Dark: "#6c7680"}
)

var (
	headerStyle = lipgloss.NewStyle().
			Bold(true)

	nameStyle = lipgloss.NewStyle().
			Width(12)

	numberStyle = lipgloss.NewStyle().
			Width(12).
			Align(lipgloss.Right)

	passStyle = lipgloss.NewStyle().
			Foreground(colorPass)

	failStyle = lipgloss.NewStyle().
			Foreground(colorFail).
			Bold(true)

	mutedStyle = lipgloss.NewStyle().
			Foreground(colorMuted)
)

func renderStats(stats []pipeline.Stat) string {
	var sb strings.Builder
	sb.WriteString(headerStyle.Render(
		nameStyle.Render("canticle") +
			numberStyle.Render("cantos") +
			numberStyle.Render("lines") +
			numberStyle.Render("words") +
			numberStyle.Render("boundaries")))

	var total pipeline.Stat
	for _, s := range stats {
		sb.WriteString("\n")
		sb.WriteString(statRow(s.Title, s))
		total.Cantos += s.Cantos
		total.Lines += s.Lines
		total.Words += s.Words
		total.Boundaries += s.Boundaries
	}
	if len(stats) > 1 {
		sb.WriteString("\n")
		sb.WriteString(mutedStyle.Render(statRow("total", total)))
	}
	return sb.String()
}

func statRow(name string, s pipeline.Stat) string {
	return nameStyle.Render(name) +
		numberStyle.Render(fmt.Sprint(s.Cantos)) +
		numberStyle.Render(fmt.Sprint(s.Lines)) +
		numberStyle.Render(fmt.Sprint(s.Words)) +
		numberStyle.Render(fmt.Sprint(s.Boundaries))
}

func renderChecks(checks []*pipeline.Check) string {
	rows := make([]string, 0, len(checks))
	for _, c := range checks {
		var status string
		switch {
		case c.Missing:
			status = failStyle.Render("missing")
		case !c.OK():
			status = failStyle.Render("stale  ")
		default:
			status = passStyle.Render("ok     ")
		}
		rows = append(rows, status+" "+nameStyle.Render(c.Kind)+mutedStyle.Render(c.Path))
	}
	return strings.Join(rows, "\n")
}
