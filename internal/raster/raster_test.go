package raster

import (
	"math"
	"testing"

	"github.com/rewired-gh/rasterview/internal/models"
)

// syntheticEvents builds a deterministic spread of events across [0, 100).
func syntheticEvents(n int, category string) []models.Event {
	events := make([]models.Event, n)
	for i := 0; i < n; i++ {
		events[i] = models.Event{
			Time:     math.Mod(float64(i)*7.31, 100),
			Category: category,
			Values:   map[string]float64{"size": float64(i%13) + 0.5},
		}
	}
	return events
}

func TestAggregateMassConservation(t *testing.T) {
	events := syntheticEvents(1000, "A")
	r, _ := models.NewRange(0, 100)

	grid, err := Aggregate(events, r, Resolution{Width: 37, Height: 3}, Count, 1)
	if err != nil {
		t.Fatalf("Aggregate failed: %v", err)
	}

	inRange := 0
	for _, e := range events {
		if r.Contains(e.Time) {
			inRange++
		}
	}
	if got := grid.Total(); got != float64(inRange) {
		t.Errorf("Grid mass = %g, want count %d", got, inRange)
	}
}

func TestAggregateSumConservation(t *testing.T) {
	events := syntheticEvents(500, "A")
	r, _ := models.NewRange(10, 60)
	field := Sum("size")

	grid, err := Aggregate(events, r, Resolution{Width: 50, Height: 1}, field, 0)
	if err != nil {
		t.Fatalf("Aggregate failed: %v", err)
	}

	var want float64
	for _, e := range events {
		if r.Contains(e.Time) {
			want += e.Values["size"]
		}
	}
	if got := grid.Total(); math.Abs(got-want) > 1e-9 {
		t.Errorf("Grid mass = %g, want sum %g", got, want)
	}
	if got := field.Reduce(eventsInRange(events, r)); math.Abs(got-want) > 1e-9 {
		t.Errorf("Reduce = %g, want %g", got, want)
	}
}

func eventsInRange(events []models.Event, r models.Range) []models.Event {
	var out []models.Event
	for _, e := range events {
		if r.Contains(e.Time) {
			out = append(out, e)
		}
	}
	return out
}

func TestAggregateMissingColumnContributesZero(t *testing.T) {
	events := []models.Event{
		{Time: 0, Category: "A", Values: map[string]float64{"size": 10}},
		{Time: 1, Category: "A"}, // no values at all
		{Time: 2, Category: "A", Values: map[string]float64{"price": 99}},
	}
	r, _ := models.NewRange(0, 4)

	grid, err := Aggregate(events, r, Resolution{Width: 4, Height: 1}, Sum("size"), 0)
	if err != nil {
		t.Fatalf("Missing column must not fail the call: %v", err)
	}
	if got := grid.Total(); got != 10 {
		t.Errorf("Grid mass = %g, want 10", got)
	}
}

func TestAggregateDeterminism(t *testing.T) {
	events := syntheticEvents(300, "A")
	r, _ := models.NewRange(0, 100)
	res := Resolution{Width: 64, Height: 2}

	first, err := Aggregate(events, r, res, Sum("size"), 1)
	if err != nil {
		t.Fatalf("Aggregate failed: %v", err)
	}
	second, err := Aggregate(events, r, res, Sum("size"), 1)
	if err != nil {
		t.Fatalf("Aggregate failed: %v", err)
	}
	if !first.Equal(second) {
		t.Error("Identical inputs must produce bit-identical grids")
	}
}

// TestAggregateScenario pins the documented half-open mapping: with range
// [0, 3) and width 3, events at t=0,1,2 land in columns 0,1,2.
func TestAggregateScenario(t *testing.T) {
	eventsA := []models.Event{
		{Time: 0, Category: "A", Values: map[string]float64{"size": 10}},
		{Time: 1, Category: "A", Values: map[string]float64{"size": 5}},
	}
	eventsB := []models.Event{
		{Time: 2, Category: "B", Values: map[string]float64{"size": 7}},
	}

	r, _ := models.NewRange(0, 2)
	grid, err := Aggregate(eventsA, r, Resolution{Width: 2, Height: 1}, Sum("size"), 0)
	if err != nil {
		t.Fatalf("Aggregate failed: %v", err)
	}
	if grid.At(0, 0) != 10 || grid.At(1, 0) != 5 {
		t.Errorf("A grid = %v, want [10 5]", grid.Row(0))
	}

	// t=2 is excluded by the half-open [0, 2).
	grid, _ = Aggregate(eventsB, r, Resolution{Width: 2, Height: 1}, Sum("size"), 0)
	if grid.Total() != 0 {
		t.Errorf("B grid should be empty for [0, 2), got %v", grid.Row(0))
	}

	// Widening to [0, 3) brings the B event into the last column.
	r, _ = models.NewRange(0, 3)
	grid, _ = Aggregate(eventsB, r, Resolution{Width: 3, Height: 1}, Sum("size"), 0)
	row := grid.Row(0)
	if row[0] != 0 || row[1] != 0 || row[2] != 7 {
		t.Errorf("B grid = %v, want [0 0 7]", row)
	}
}

func TestAggregateBandOffsets(t *testing.T) {
	events := []models.Event{{Time: 0.5, Category: "A"}}
	r, _ := models.NewRange(0, 1)
	res := Resolution{Width: 2, Height: 3}

	grid, err := Aggregate(events, r, res, Count, 2)
	if err != nil {
		t.Fatalf("Aggregate failed: %v", err)
	}
	if grid.At(1, 2) != 1 {
		t.Errorf("Event should land in band 2, grid: %v", grid.Cells)
	}
	if grid.At(1, 0) != 0 || grid.At(1, 1) != 0 {
		t.Error("Other bands must stay empty")
	}

	if _, err := Aggregate(events, r, res, Count, 3); err == nil {
		t.Error("Expected error for out-of-range offset")
	}
	if _, err := Aggregate(events, r, res, Count, -1); err == nil {
		t.Error("Expected error for negative offset")
	}
}

func TestAggregateFixedResolution(t *testing.T) {
	r, _ := models.NewRange(0, 100)
	res := Resolution{Width: 10, Height: 1}

	small, _ := Aggregate(syntheticEvents(10, "A"), r, res, Count, 0)
	large, _ := Aggregate(syntheticEvents(10000, "A"), r, res, Count, 0)

	if small.Width != large.Width || small.Height != large.Height {
		t.Error("Grid dimensions must not depend on event count")
	}
}

func TestAggregateUnboundedRange(t *testing.T) {
	events := []models.Event{
		{Time: -5, Category: "A"},
		{Time: 0, Category: "A"},
		{Time: 5, Category: "A"},
	}

	grid, err := Aggregate(events, models.FullRange(), Resolution{Width: 2, Height: 1}, Count, 0)
	if err != nil {
		t.Fatalf("Aggregate failed: %v", err)
	}
	if grid.Total() != 3 {
		t.Errorf("Unbounded range must include all events, mass = %g", grid.Total())
	}
	// The max-time event is clamped into the last column instead of falling off.
	if grid.At(1, 0) != 1 {
		t.Errorf("Expected max event in last column, grid: %v", grid.Row(0))
	}
}

func TestAggregateDegenerateRange(t *testing.T) {
	events := []models.Event{{Time: 3, Category: "A"}}

	// [3, 3) is empty under the half-open convention.
	r, _ := models.NewRange(3, 3)
	grid, err := Aggregate(events, r, Resolution{Width: 4, Height: 1}, Count, 0)
	if err != nil {
		t.Fatalf("Aggregate failed: %v", err)
	}
	if grid.Total() != 0 {
		t.Errorf("Zero-span range must match nothing, mass = %g", grid.Total())
	}

	// An unbounded range over identical timestamps collapses to column 0.
	grid, _ = Aggregate(events, models.FullRange(), Resolution{Width: 4, Height: 1}, Count, 0)
	if grid.At(0, 0) != 1 {
		t.Errorf("Expected all mass in column 0, grid: %v", grid.Row(0))
	}
}
