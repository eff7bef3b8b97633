// Package models defines the core domain entities for rasterview: timestamped
// events, visible ranges, fixed-resolution aggregate grids, detail sets, and
// the composed scenes published to a rendering surface.
//
// Terminology:
//   - Event: one timestamped, categorized data point (a trade, a GPS fix).
//   - Range: the current viewport interval on the timestamp axis.
//   - Grid: a fixed-resolution rasterized aggregate of events over a Range.
//   - DetailSet: raw events exposed for inspection when the visible count is
//     below a configured threshold.
package models

import (
	"errors"
	"math"
)

// Event is a single timestamped data point. Time is a monotonic-comparable
// ordinate (seconds, nanoseconds, or any consistent unit — the store never
// interprets it beyond ordering). Values holds zero or more named numeric
// magnitudes, e.g. trade size or price. Events are immutable after load.
type Event struct {
	Time     float64            `json:"time"`
	Category string             `json:"category"`
	Values   map[string]float64 `json:"values,omitempty"`
}

// Value returns the named numeric field and whether it is present.
func (e Event) Value(name string) (float64, bool) {
	v, ok := e.Values[name]
	return v, ok
}

// Validate checks that the event fields are usable.
func (e Event) Validate() error {
	if math.IsNaN(e.Time) || math.IsInf(e.Time, 0) {
		return errors.New("event time must be finite")
	}
	if e.Category == "" {
		return errors.New("event category must not be empty")
	}
	for name, v := range e.Values {
		if name == "" {
			return errors.New("event value name must not be empty")
		}
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return errors.New("event value " + name + " must be finite")
		}
	}
	return nil
}
