package detail

import (
	"testing"

	"github.com/rewired-gh/rasterview/internal/models"
)

func makeEvents(n int) []models.Event {
	events := make([]models.Event, n)
	for i := 0; i < n; i++ {
		events[i] = models.Event{
			Time:     float64(i),
			Category: "A",
			Values:   map[string]float64{"size": float64(i)},
		}
	}
	return events
}

// TestThresholdBoundary pins the all-or-nothing contract at the boundary:
// one below the threshold returns everything, at the threshold returns nothing.
func TestThresholdBoundary(t *testing.T) {
	const threshold = 200

	set := Filter(makeEvents(threshold-1), threshold)
	if len(set) != threshold-1 {
		t.Errorf("Expected %d records below threshold, got %d", threshold-1, len(set))
	}

	set = Filter(makeEvents(threshold), threshold)
	if len(set) != 0 {
		t.Errorf("Expected empty set at threshold, got %d records", len(set))
	}

	set = Filter(makeEvents(threshold+50), threshold)
	if len(set) != 0 {
		t.Errorf("Expected empty set above threshold, got %d records", len(set))
	}
}

func TestRecordAnnotations(t *testing.T) {
	set := Filter(makeEvents(3), 10)
	if len(set) != 3 {
		t.Fatalf("Expected 3 records, got %d", len(set))
	}

	for i, rec := range set {
		if !rec.Visible {
			t.Errorf("Record %d must be visible", i)
		}
		if rec.DisplayLength != 0 {
			t.Errorf("Record %d display length = %g, want 0", i, rec.DisplayLength)
		}
		if !rec.Hoverable {
			t.Errorf("Record %d must be hoverable", i)
		}
		if rec.Event.Time != float64(i) {
			t.Errorf("Record %d out of order: t=%g", i, rec.Event.Time)
		}
	}
}

func TestEmptyInput(t *testing.T) {
	set := Filter(nil, 200)
	if len(set) != 0 {
		t.Errorf("Expected empty set for no events, got %d", len(set))
	}
}

func TestNonPositiveThreshold(t *testing.T) {
	if set := Filter(makeEvents(5), 0); len(set) != 0 {
		t.Error("Zero threshold must disable the detail layer")
	}
	if set := Filter(makeEvents(5), -1); len(set) != 0 {
		t.Error("Negative threshold must disable the detail layer")
	}
}

// TestPureFunction verifies repeat calls agree and the input is untouched.
func TestPureFunction(t *testing.T) {
	events := makeEvents(4)

	first := Filter(events, 10)
	second := Filter(events, 10)

	if len(first) != len(second) {
		t.Fatalf("Repeat calls disagree: %d vs %d", len(first), len(second))
	}
	for i := range first {
		if first[i].Event.Time != second[i].Event.Time ||
			first[i].Visible != second[i].Visible ||
			first[i].DisplayLength != second[i].DisplayLength ||
			first[i].Hoverable != second[i].Hoverable {
			t.Errorf("Repeat calls diverge at %d", i)
		}
	}

	for i, e := range events {
		if e.Time != float64(i) || e.Category != "A" {
			t.Errorf("Input event %d was mutated: %+v", i, e)
		}
	}
}
