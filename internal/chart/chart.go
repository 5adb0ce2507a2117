// Package chart builds the cumulative slouch statistics bar chart and
// renders it, plus the current window's readings, for the terminal.
package chart

import (
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/luki/posture/internal/posture"
)

const (
	HighlightColor = "blue"
	DefaultColor   = "teal"
)

var (
	termHighlight = lipgloss.Color("33") // blue
	termDefault   = lipgloss.Color("30") // teal
	termDim       = lipgloss.Color("240")
	termLabel     = lipgloss.Color("252")
)

// Bar is one column of the statistics chart.
type Bar struct {
	Label     posture.Label `json:"label"`
	Count     int           `json:"count"`
	Highlight bool          `json:"highlight"`
	Color     string        `json:"color"`
}

// Bars returns one bar per label sorted alphabetically by label. The label
// with the highest cumulative count is highlighted; ties go to the label
// with the higher priority.
func Bars(counts map[posture.Label]int) []Bar {
	top := topLabel(counts)

	bars := make([]Bar, 0, len(posture.Labels()))
	for _, l := range posture.Labels() {
		b := Bar{Label: l, Count: counts[l], Color: DefaultColor}
		if l == top {
			b.Highlight = true
			b.Color = HighlightColor
		}
		bars = append(bars, b)
	}
	sort.Slice(bars, func(i, j int) bool { return bars[i].Label < bars[j].Label })
	return bars
}

func topLabel(counts map[posture.Label]int) posture.Label {
	var (
		best  posture.Label
		bestN int
		found bool
	)
	for _, l := range posture.Labels() {
		n := counts[l]
		if !found || n > bestN {
			best, bestN, found = l, n, true
		}
	}
	return best
}

// RenderBars renders a horizontal bar chart no wider than width columns.
func RenderBars(bars []Bar, width int) string {
	if len(bars) == 0 {
		return ""
	}

	labelW := 0
	maxCount := 0
	for _, b := range bars {
		if n := lipgloss.Width(string(b.Label)); n > labelW {
			labelW = n
		}
		if b.Count > maxCount {
			maxCount = b.Count
		}
	}

	countW := len(fmt.Sprint(maxCount))
	barW := width - labelW - countW - 3
	if barW < 1 {
		barW = 1
	}

	labelS := lipgloss.NewStyle().Foreground(termLabel).Width(labelW)
	dimS := lipgloss.NewStyle().Foreground(termDim)

	rows := make([]string, 0, len(bars))
	for _, b := range bars {
		n := 0
		if maxCount > 0 {
			n = b.Count * barW / maxCount
		}
		color := termDefault
		if b.Highlight {
			color = termHighlight
		}
		fill := lipgloss.NewStyle().Foreground(color).Render(strings.Repeat("█", n))
		rest := dimS.Render(strings.Repeat("·", barW-n))
		count := lipgloss.NewStyle().Foreground(color).Bold(b.Highlight).Render(fmt.Sprintf("%*d", countW, b.Count))
		rows = append(rows, labelS.Render(string(b.Label))+" "+fill+rest+" "+count)
	}
	return strings.Join(rows, "\n")
}

// RenderReadings renders the open window's label : value pairs in label
// priority order.
func RenderReadings(readings map[posture.Label]float64) string {
	if len(readings) == 0 {
		return lipgloss.NewStyle().Foreground(termDim).Render("no readings yet")
	}

	labelS := lipgloss.NewStyle().Foreground(termLabel)
	var rows []string
	for _, r := range posture.Ordered(readings) {
		rows = append(rows, labelS.Render(string(r.Label))+" : "+fmt.Sprint(r.Value))
	}
	return strings.Join(rows, "\n")
}
