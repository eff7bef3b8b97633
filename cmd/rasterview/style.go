package main

import "github.com/charmbracelet/lipgloss"

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Padding(0, 1)
	labelStyle  = lipgloss.NewStyle().Width(10).Foreground(lipgloss.Color("250"))
	footerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("241")).Padding(0, 1)
	warnStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("3"))

	detailArea = lipgloss.NewStyle().
			Border(lipgloss.NormalBorder()).
			BorderForeground(lipgloss.Color("245")).
			Padding(0, 1).BorderLeft(true)
)

// defaultBandColors is the fallback palette for categories without a
// configured color, by band offset.
var defaultBandColors = []string{"4", "2", "1", "3", "6", "5"}

// shades maps a normalized cell magnitude to a block character, lightest to
// densest.
var shades = []rune{' ', '▁', '▂', '▃', '▄', '▅', '▆', '▇', '█'}
