// Package render exports a composed scene as a static PNG chart. It is one of
// the rendering surfaces behind the view.Publisher contract; the interactive
// terminal surface lives in the rasterview command.
package render

import (
	"fmt"
	"io"
	"os"

	chart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"github.com/rewired-gh/rasterview/internal/models"
)

var palette = []drawing.Color{
	chart.ColorBlue,
	chart.ColorGreen,
	chart.ColorRed,
	chart.ColorOrange,
	chart.ColorCyan,
	chart.ColorAlternateGray,
}

// seriesStyle resolves the display color for a category: a configured hex
// color when present, a palette color by position otherwise.
func seriesStyle(idx int, category string, colors map[string]string) chart.Style {
	col := palette[idx%len(palette)]
	if hex, ok := colors[category]; ok && hex != "" {
		if len(hex) > 0 && hex[0] == '#' {
			hex = hex[1:]
		}
		col = drawing.ColorFromHex(hex)
	}
	return chart.Style{
		StrokeColor: col,
		StrokeWidth: 1.5,
	}
}

// ScenePNG renders per-category column masses of the scene's grids as one
// line chart and writes it as a PNG. Categories are drawn in the given order;
// colors maps category to a hex display color. Categories missing from the
// scene (dropped from a partial scene) are skipped.
func ScenePNG(scene models.Scene, order []string, colors map[string]string, w io.Writer) error {
	series := make([]chart.Series, 0, len(order))

	for idx, cat := range order {
		grid, ok := scene.Grids[cat]
		if !ok {
			continue
		}

		xs := make([]float64, grid.Width)
		ys := make([]float64, grid.Width)
		span := scene.Range.Span()
		for x := 0; x < grid.Width; x++ {
			if scene.Range.Unbounded || span <= 0 {
				xs[x] = float64(x)
			} else {
				xs[x] = scene.Range.Low + (float64(x)+0.5)*span/float64(grid.Width)
			}
			var mass float64
			for y := 0; y < grid.Height; y++ {
				mass += grid.At(x, y)
			}
			ys[x] = mass
		}

		series = append(series, chart.ContinuousSeries{
			Name:    cat,
			XValues: xs,
			YValues: ys,
			Style:   seriesStyle(idx, cat, colors),
		})
	}

	if len(series) == 0 {
		return fmt.Errorf("scene has no renderable categories")
	}

	ch := chart.Chart{
		Width:      1024,
		Height:     400,
		Background: chart.Style{Padding: chart.Box{Top: 14, Left: 16, Right: 12, Bottom: 24}},
		Series:     series,
	}
	ch.Elements = []chart.Renderable{chart.Legend(&ch)}

	return ch.Render(chart.PNG, w)
}

// SceneToFile renders the scene to a PNG file.
func SceneToFile(scene models.Scene, order []string, colors map[string]string, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create chart file: %w", err)
	}
	defer f.Close()

	if err := ScenePNG(scene, order, colors, f); err != nil {
		return fmt.Errorf("failed to render chart: %w", err)
	}
	return nil
}
