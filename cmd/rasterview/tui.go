package main

import (
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/rewired-gh/rasterview/internal/logger"
	"github.com/rewired-gh/rasterview/internal/models"
	"github.com/rewired-gh/rasterview/internal/store"
	"github.com/rewired-gh/rasterview/internal/view"
)

// model is the interactive terminal rendering surface. It implements the
// publisher side of the view contract: the coordinator pushes each composed
// scene into the model, and key handling pushes range changes back through
// the coordinator. All of it runs on the bubbletea update loop, so
// notifications are naturally serial.
type model struct {
	coord  *view.Coordinator
	store  *store.EventStore
	colors map[string]string

	scene      *models.Scene
	termWidth  int
	termHeight int
	ready      bool
	status     string
}

func newModel(st *store.EventStore, cfg view.Config, selection models.Selection, colors map[string]string) *model {
	m := &model{
		store:  st,
		colors: colors,
	}
	coord, err := view.New(st, cfg, selection, view.PublisherFunc(m.publish))
	if err != nil {
		logger.Fatal("Failed to build coordinator: %v", err)
	}
	m.coord = coord
	return m
}

// publish receives each scene from the coordinator.
func (m *model) publish(scene models.Scene) {
	m.scene = &scene
}

func (m *model) Init() tea.Cmd {
	return nil
}

func (m *model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.updateKey(msg)
	case tea.WindowSizeMsg:
		m.termWidth = msg.Width
		m.termHeight = msg.Height
		m.ready = true
	}
	return m, nil
}

func (m *model) updateKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, Keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, Keys.PanLeft):
		low, high := m.visibleBounds()
		m.rangeChange(low-(high-low)*0.1, high-(high-low)*0.1)

	case key.Matches(msg, Keys.PanRight):
		low, high := m.visibleBounds()
		m.rangeChange(low+(high-low)*0.1, high+(high-low)*0.1)

	case key.Matches(msg, Keys.ZoomIn):
		low, high := m.visibleBounds()
		quarter := (high - low) * 0.25
		m.rangeChange(low+quarter, high-quarter)

	case key.Matches(msg, Keys.ZoomOut):
		low, high := m.visibleBounds()
		half := (high - low) * 0.5
		m.rangeChange(low-half, high+half)

	case key.Matches(msg, Keys.Reset):
		m.coord.Reset()
		m.status = "reset to full extent"
	}
	return m, nil
}

// visibleBounds returns concrete bounds for the current view. In the Idle
// state the range is the unbounded sentinel, so the store extent is used,
// padded by one part in a hundred so the half-open upper bound keeps the
// latest event visible when panning starts.
func (m *model) visibleBounds() (float64, float64) {
	r := m.coord.CurrentRange()
	if !r.Unbounded {
		return r.Low, r.High
	}
	min, max, ok := m.store.Extent()
	if !ok {
		return 0, 1
	}
	span := max - min
	if span <= 0 {
		span = 1
	}
	return min, max + span*0.01
}

func (m *model) rangeChange(low, high float64) {
	if err := m.coord.OnRangeChange(low, high); err != nil {
		m.status = err.Error()
		return
	}
	m.status = ""
}

func (m *model) View() string {
	if !m.ready || m.scene == nil {
		return "loading..."
	}

	var b strings.Builder
	b.WriteString(headerStyle.Render(m.headerLine()))
	b.WriteString("\n\n")

	plotWidth := m.termWidth - 14
	if plotWidth < 10 {
		plotWidth = 10
	}

	sel := m.coord.Selection()
	// Draw top band first so offset 0 ends up at the bottom.
	for i := len(sel.Order) - 1; i >= 0; i-- {
		cat := sel.Order[i]
		b.WriteString(m.bandLine(cat, sel.Offsets[cat], plotWidth))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(m.detailPanel(sel))

	if m.status != "" {
		b.WriteString("\n")
		b.WriteString(warnStyle.Render(m.status))
	}
	b.WriteString("\n")
	b.WriteString(footerStyle.Render(legendLine()))
	return b.String()
}

func (m *model) headerLine() string {
	r := m.scene.Range
	rangeText := "full extent"
	if !r.Unbounded {
		rangeText = fmt.Sprintf("[%g, %g)", r.Low, r.High)
	}
	line := fmt.Sprintf("rasterview  %s  %s  mass=%.0f", m.coord.State(), rangeText, m.scene.Mass())
	if m.scene.Partial {
		line += "  " + warnStyle.Render("partial scene")
	}
	return line
}

// bandLine renders one category's aggregate band as shaded blocks, scaled to
// the terminal width.
func (m *model) bandLine(cat string, offset, plotWidth int) string {
	style := lipgloss.NewStyle().Foreground(lipgloss.Color(m.colorFor(cat, offset)))

	grid, ok := m.scene.Grids[cat]
	if !ok {
		return labelStyle.Render(cat) + warnStyle.Render(" unavailable")
	}

	row := grid.Row(offset)
	cells := downsample(row, plotWidth)

	max := 0.0
	for _, c := range cells {
		if c > max {
			max = c
		}
	}

	var line strings.Builder
	for _, c := range cells {
		idx := 0
		if max > 0 {
			idx = int(c / max * float64(len(shades)-1))
		}
		line.WriteRune(shades[idx])
	}
	return labelStyle.Render(cat) + style.Render(line.String())
}

func (m *model) colorFor(cat string, offset int) string {
	if c, ok := m.colors[cat]; ok && c != "" {
		return c
	}
	return defaultBandColors[offset%len(defaultBandColors)]
}

// downsample folds grid columns into terminal columns by summing chunks, so
// total mass per band is preserved on screen.
func downsample(row []float64, width int) []float64 {
	if width >= len(row) {
		return row
	}
	out := make([]float64, width)
	for i, v := range row {
		out[i*width/len(row)] += v
	}
	return out
}

// detailPanel lists hoverable raw events when the detail layer is active.
func (m *model) detailPanel(sel models.Selection) string {
	total := 0
	for _, cat := range sel.Order {
		total += len(m.scene.Details[cat])
	}
	if total == 0 {
		return footerStyle.Render("detail layer inactive (too many events in range)")
	}

	var records []models.DetailRecord
	for _, cat := range sel.Order {
		records = append(records, m.scene.Details[cat]...)
	}
	sort.SliceStable(records, func(i, j int) bool {
		return records[i].Event.Time < records[j].Event.Time
	})

	const maxRows = 8
	var b strings.Builder
	b.WriteString(fmt.Sprintf("%d hoverable events in range\n", total))
	for i, rec := range records {
		if i == maxRows {
			b.WriteString(fmt.Sprintf("… %d more", len(records)-maxRows))
			break
		}
		b.WriteString(fmt.Sprintf("t=%-12g %-8s %s\n", rec.Event.Time, rec.Event.Category, formatValues(rec.Event.Values)))
	}
	return detailArea.Render(strings.TrimRight(b.String(), "\n"))
}

func formatValues(values map[string]float64) string {
	if len(values) == 0 {
		return ""
	}
	names := make([]string, 0, len(values))
	for name := range values {
		names = append(names, name)
	}
	sort.Strings(names)
	parts := make([]string, 0, len(names))
	for _, name := range names {
		parts = append(parts, fmt.Sprintf("%s=%g", name, values[name]))
	}
	return strings.Join(parts, " ")
}

func legendLine() string {
	parts := make([]string, 0, 8)
	for _, b := range Keys.Legend() {
		h := b.Help()
		parts = append(parts, h.Key+" "+h.Desc)
	}
	return strings.Join(parts, " · ")
}
