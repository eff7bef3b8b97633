// Package raster maps a visible range of events onto a fixed-resolution
// aggregate grid. Resolution is fixed per configuration: the grid never grows
// with the data, only the per-cell mass does.
//
// Aggregation conserves mass: the summed cell values of a returned grid equal
// the aggregate statistic (count, or field sum) over the events inside the
// range. No event is silently dropped, and identical inputs always produce
// bit-identical grids.
package raster

import (
	"fmt"

	"github.com/rewired-gh/rasterview/internal/models"
)

// Resolution is the fixed grid size in cells.
type Resolution struct {
	Width  int
	Height int
}

// Validate checks both dimensions are positive.
func (res Resolution) Validate() error {
	if res.Width < 1 || res.Height < 1 {
		return fmt.Errorf("invalid resolution %dx%d: both dimensions must be at least 1", res.Width, res.Height)
	}
	return nil
}

// Field selects the per-cell statistic. The zero Field counts events; a Field
// with a Column sums that numeric value per event. An event missing the
// column (or the whole Values map) contributes zero, never an error.
type Field struct {
	Column string
}

// Count is the event-count field.
var Count = Field{}

// Sum returns a field that sums the named numeric column.
func Sum(column string) Field {
	return Field{Column: column}
}

// contribution returns the event's mass under the field.
func (f Field) contribution(e models.Event) float64 {
	if f.Column == "" {
		return 1
	}
	v, ok := e.Value(f.Column)
	if !ok {
		return 0
	}
	return v
}

// Reduce computes the field's aggregate over events directly, without a grid.
// Aggregate conserves this quantity over the events inside the range.
func (f Field) Reduce(events []models.Event) float64 {
	var sum float64
	for _, e := range events {
		sum += f.contribution(e)
	}
	return sum
}

// Aggregate rasterizes events into a res.Width x res.Height grid. The range
// maps the timestamp axis linearly onto columns [0, width); events outside
// the half-open range are excluded. offset selects the one-cell-high
// horizontal band the events land in, so stacked multi-category layouts give
// each category a disjoint band of the same grid shape.
//
// An unbounded range spans the events' own extent. A degenerate zero-span
// range puts every in-range event in column 0.
func Aggregate(events []models.Event, r models.Range, res Resolution, field Field, offset int) (*models.Grid, error) {
	if err := res.Validate(); err != nil {
		return nil, err
	}
	if err := r.Validate(); err != nil {
		return nil, err
	}
	if offset < 0 || offset >= res.Height {
		return nil, fmt.Errorf("band offset %d outside [0, %d)", offset, res.Height)
	}

	grid, err := models.NewGrid(res.Width, res.Height)
	if err != nil {
		return nil, err
	}

	low, span := bounds(events, r)
	for _, e := range events {
		if !r.Contains(e.Time) {
			continue
		}
		grid.Add(bucket(e.Time, low, span, res.Width), offset, field.contribution(e))
	}
	return grid, nil
}

// bounds resolves the effective low bound and span of the ordinate axis. For
// an unbounded range this is the events' own extent (events are ascending by
// store contract, but scanning keeps Aggregate correct for any input order).
func bounds(events []models.Event, r models.Range) (low, span float64) {
	if !r.Unbounded {
		return r.Low, r.High - r.Low
	}
	if len(events) == 0 {
		return 0, 0
	}
	min, max := events[0].Time, events[0].Time
	for _, e := range events[1:] {
		if e.Time < min {
			min = e.Time
		}
		if e.Time > max {
			max = e.Time
		}
	}
	return min, max - min
}

// bucket maps an in-range ordinate linearly into [0, width). With half-open
// ranges t < low+span always holds for bounded ranges, so only the unbounded
// case (where t can equal the max) needs the upper clamp.
func bucket(t, low, span float64, width int) int {
	if span <= 0 {
		return 0
	}
	x := int((t - low) / span * float64(width))
	if x >= width {
		x = width - 1
	}
	if x < 0 {
		x = 0
	}
	return x
}
