// Package store provides the immutable in-memory event collection backing the
// aggregation pipeline. Events are loaded once, sorted by timestamp, and
// shared read-only by all callers for the lifetime of a session; no locking is
// needed because the store is never mutated after construction.
//
// Range queries use binary search over per-category sorted slices, so the
// per-pan/zoom query cost is logarithmic in the store size plus linear in the
// matched events.
package store

import (
	"encoding/csv"
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/rewired-gh/rasterview/internal/models"
)

// DataLoadError reports an unreadable or malformed event source. Construction
// fails entirely on this error; no partial store is returned.
type DataLoadError struct {
	Source string
	Err    error
}

func (e DataLoadError) Error() string {
	return fmt.Sprintf("failed to load events from %s: %v", e.Source, e.Err)
}

func (e DataLoadError) Unwrap() error {
	return e.Err
}

// EventStore holds the full immutable ordered event collection. All query
// results are ascending by timestamp.
type EventStore struct {
	events     []models.Event
	byCategory map[string][]models.Event
	minTime    float64
	maxTime    float64
}

// FromEvents builds a store from an in-memory event slice. The input is
// copied and sorted; the caller's slice is not retained.
func FromEvents(events []models.Event) (*EventStore, error) {
	for i, e := range events {
		if err := e.Validate(); err != nil {
			return nil, DataLoadError{Source: "memory", Err: fmt.Errorf("event %d: %w", i, err)}
		}
	}

	sorted := make([]models.Event, len(events))
	copy(sorted, events)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Time < sorted[j].Time
	})

	s := &EventStore{
		events:     sorted,
		byCategory: make(map[string][]models.Event),
	}
	for _, e := range sorted {
		s.byCategory[e.Category] = append(s.byCategory[e.Category], e)
	}
	if len(sorted) > 0 {
		s.minTime = sorted[0].Time
		s.maxTime = sorted[len(sorted)-1].Time
	}
	return s, nil
}

// Load reads a CSV event source. The header must contain "timestamp"
// (numeric) and "category" (string) columns, case-insensitive; every other
// column is parsed as a numeric value field where possible. A row whose
// timestamp fails to parse makes the whole load fail; a non-numeric value
// cell is simply omitted from that event's value fields.
func Load(path string) (*EventStore, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, DataLoadError{Source: path, Err: err}
	}
	defer f.Close()

	r := csv.NewReader(f)
	records, err := r.ReadAll()
	if err != nil {
		return nil, DataLoadError{Source: path, Err: err}
	}
	if len(records) == 0 {
		return nil, DataLoadError{Source: path, Err: fmt.Errorf("source has no rows")}
	}

	header := records[0]
	timeIdx, catIdx := -1, -1
	for i, name := range header {
		switch strings.ToLower(strings.TrimSpace(strings.TrimPrefix(name, "\ufeff"))) {
		case "timestamp":
			timeIdx = i
		case "category":
			catIdx = i
		}
	}
	if timeIdx < 0 || catIdx < 0 {
		return nil, DataLoadError{Source: path, Err: fmt.Errorf("header missing required columns timestamp/category")}
	}

	events := make([]models.Event, 0, len(records)-1)
	for rowNum, row := range records[1:] {
		if timeIdx >= len(row) || catIdx >= len(row) {
			return nil, DataLoadError{Source: path, Err: fmt.Errorf("row %d has too few columns", rowNum+2)}
		}
		t, err := strconv.ParseFloat(strings.TrimSpace(row[timeIdx]), 64)
		if err != nil {
			return nil, DataLoadError{Source: path, Err: fmt.Errorf("row %d: bad timestamp %q", rowNum+2, row[timeIdx])}
		}

		var values map[string]float64
		for i, cell := range row {
			if i == timeIdx || i == catIdx || i >= len(header) {
				continue
			}
			v, err := strconv.ParseFloat(strings.TrimSpace(cell), 64)
			if err != nil {
				continue
			}
			if values == nil {
				values = make(map[string]float64)
			}
			values[strings.TrimSpace(header[i])] = v
		}

		events = append(events, models.Event{
			Time:     t,
			Category: strings.TrimSpace(row[catIdx]),
			Values:   values,
		})
	}

	s, err := FromEvents(events)
	if err != nil {
		return nil, DataLoadError{Source: path, Err: err}
	}
	return s, nil
}

// Len returns the total number of stored events.
func (s *EventStore) Len() int {
	return len(s.events)
}

// Categories returns all stored category labels, sorted.
func (s *EventStore) Categories() []string {
	cats := make([]string, 0, len(s.byCategory))
	for cat := range s.byCategory {
		cats = append(cats, cat)
	}
	sort.Strings(cats)
	return cats
}

// Has reports whether the store contains any event of the given category.
func (s *EventStore) Has(category string) bool {
	_, ok := s.byCategory[category]
	return ok
}

// Extent returns the minimum and maximum stored timestamps. ok is false for
// an empty store.
func (s *EventStore) Extent() (min, max float64, ok bool) {
	if len(s.events) == 0 {
		return 0, 0, false
	}
	return s.minTime, s.maxTime, true
}

// Query returns all events with timestamp in r and category in categories, in
// ascending timestamp order. An unbounded range returns the full extent.
// Categories absent from the store contribute no events.
func (s *EventStore) Query(r models.Range, categories []string) ([]models.Event, error) {
	if err := r.Validate(); err != nil {
		return nil, err
	}

	var out []models.Event
	for _, cat := range categories {
		out = append(out, s.sliceCategory(cat, r)...)
	}

	// Per-category runs are already sorted; a stable sort merges them while
	// keeping tie order deterministic.
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Time < out[j].Time
	})
	return out, nil
}

// sliceCategory returns the contiguous in-range run of one category's events
// via binary search. The returned slice aliases store memory; callers must
// treat it as read-only.
func (s *EventStore) sliceCategory(cat string, r models.Range) []models.Event {
	events, ok := s.byCategory[cat]
	if !ok {
		return nil
	}
	if r.Unbounded {
		return events
	}
	// Half-open [Low, High): first index with Time >= Low, first with Time >= High.
	lo := sort.Search(len(events), func(i int) bool { return events[i].Time >= r.Low })
	hi := sort.Search(len(events), func(i int) bool { return events[i].Time >= r.High })
	return events[lo:hi]
}
