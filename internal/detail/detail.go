// Package detail decides when raw events are exposed for per-item hover
// inspection alongside the aggregate grid.
//
// The detail layer is all-or-nothing: when the number of events in the
// visible range is below the configured threshold, every one of them becomes
// a detail record; at or above the threshold the set is empty. A partially
// truncated detail view would silently misrepresent the data, so it is never
// produced.
package detail

import "github.com/rewired-gh/rasterview/internal/models"

// Filter returns the detail set for the events in the current visible range.
// It is a pure function: identical inputs yield identical output and nothing
// is mutated.
//
// Records are annotated visible with zero display length, so a rendering
// surface draws nothing for them while still serving their metadata on hover.
// This keeps the detail layer from visually duplicating the aggregated grid.
func Filter(eventsInRange []models.Event, threshold int) models.DetailSet {
	if threshold < 1 || len(eventsInRange) >= threshold {
		return models.DetailSet{}
	}

	set := make(models.DetailSet, len(eventsInRange))
	for i, e := range eventsInRange {
		set[i] = models.DetailRecord{
			Event:         e,
			Visible:       true,
			DisplayLength: 0,
			Hoverable:     true,
		}
	}
	return set
}
