package models

import "fmt"

// Range is a contiguous interval on the timestamp axis representing the
// current viewport. Bounds are half-open: an event with time t is inside when
// Low <= t < High. The half-open convention is applied uniformly by the store,
// the rasterizer, and the coordinator, so an event on a shared boundary is
// counted exactly once.
//
// The zero Range is not valid; use NewRange or FullRange.
type Range struct {
	Low       float64 `json:"low"`
	High      float64 `json:"high"`
	Unbounded bool    `json:"unbounded,omitempty"`
}

// NewRange returns a bounded half-open range [low, high).
func NewRange(low, high float64) (Range, error) {
	r := Range{Low: low, High: high}
	if err := r.Validate(); err != nil {
		return Range{}, err
	}
	return r, nil
}

// FullRange returns the unbounded sentinel covering the store's full extent.
func FullRange() Range {
	return Range{Unbounded: true}
}

// Contains reports whether t lies inside the range.
func (r Range) Contains(t float64) bool {
	if r.Unbounded {
		return true
	}
	return t >= r.Low && t < r.High
}

// Span returns High - Low, or 0 for an unbounded range.
func (r Range) Span() float64 {
	if r.Unbounded {
		return 0
	}
	return r.High - r.Low
}

// Validate checks the low <= high invariant for bounded ranges.
func (r Range) Validate() error {
	if r.Unbounded {
		return nil
	}
	if r.Low > r.High {
		return InvalidRangeError{Low: r.Low, High: r.High}
	}
	return nil
}

// InvalidRangeError reports a range whose low bound exceeds its high bound.
type InvalidRangeError struct {
	Low  float64
	High float64
}

func (e InvalidRangeError) Error() string {
	return fmt.Sprintf("invalid range [%g, %g): low must not exceed high", e.Low, e.High)
}

// UnknownCategoryError reports a selected category absent from the store.
// Callers treat it as "zero matching events" rather than a failure.
type UnknownCategoryError struct {
	Category string
}

func (e UnknownCategoryError) Error() string {
	return fmt.Sprintf("unknown category %q", e.Category)
}
