package models

import (
	"errors"
	"fmt"
)

// DetailRecord is one raw event exposed for per-item inspection. Records are
// rendered invisibly (zero display length) so they never visually duplicate
// the aggregated grid; they exist to carry hover metadata.
type DetailRecord struct {
	Event         Event   `json:"event"`
	Visible       bool    `json:"visible"`
	DisplayLength float64 `json:"display_length"`
	Hoverable     bool    `json:"hoverable"`
}

// DetailSet is the ordered collection of detail records for one category in
// the current range. It is either fully populated (visible count below the
// threshold) or empty (count at or above it) — never partially truncated.
type DetailSet []DetailRecord

// Selection is the user-controlled set of active categories and their display
// band offsets. It is created at startup from configuration and mutated only
// through explicit selection-change events; the aggregation pipeline never
// modifies it. Order is the display order, bottom band first.
type Selection struct {
	Order   []string       `json:"order"`
	Offsets map[string]int `json:"offsets"`
}

// NewSelection builds a selection assigning each category the band offset
// matching its position, bottom first. Duplicate categories are rejected.
func NewSelection(categories []string) (Selection, error) {
	offsets := make(map[string]int, len(categories))
	order := make([]string, 0, len(categories))
	for i, cat := range categories {
		if cat == "" {
			return Selection{}, errors.New("selection category must not be empty")
		}
		if _, dup := offsets[cat]; dup {
			return Selection{}, fmt.Errorf("duplicate category %q in selection", cat)
		}
		offsets[cat] = i
		order = append(order, cat)
	}
	return Selection{Order: order, Offsets: offsets}, nil
}

// Empty reports whether no categories are selected.
func (s Selection) Empty() bool {
	return len(s.Order) == 0
}

// Validate checks that offsets are consistent with the order and fit within
// the given band count.
func (s Selection) Validate(bands int) error {
	if len(s.Order) != len(s.Offsets) {
		return errors.New("selection order and offsets must cover the same categories")
	}
	seen := make(map[int]string, len(s.Offsets))
	for _, cat := range s.Order {
		off, ok := s.Offsets[cat]
		if !ok {
			return fmt.Errorf("selection category %q has no offset", cat)
		}
		if off < 0 || off >= bands {
			return fmt.Errorf("selection category %q offset %d outside [0, %d)", cat, off, bands)
		}
		if prev, dup := seen[off]; dup {
			return fmt.Errorf("selection categories %q and %q share offset %d", prev, cat, off)
		}
		seen[off] = cat
	}
	return nil
}

// Scene is one renderable composition: for every selected category, the
// aggregate grid and the detail set computed against the identical range and
// event set. Partial is true when one or more categories failed to compute;
// the surviving categories are still present.
type Scene struct {
	ID       string               `json:"id"`
	Range    Range                `json:"range"`
	Grids    map[string]*Grid     `json:"grids"`
	Details  map[string]DetailSet `json:"details"`
	Partial  bool                 `json:"partial,omitempty"`
	Warnings []string             `json:"warnings,omitempty"`
}

// Mass returns the summed cell mass across all category grids.
func (s *Scene) Mass() float64 {
	var sum float64
	for _, g := range s.Grids {
		sum += g.Total()
	}
	return sum
}
