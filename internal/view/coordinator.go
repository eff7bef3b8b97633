// Package view owns the single current visible range and selection, and keeps
// the rasterized layer and the hover detail layer consistent.
//
// The Coordinator is a two-state machine: Idle (no range set, full-extent
// view) and Ranged (a concrete visible range is active). On every range or
// selection change it queries the store once per selected category, feeds the
// identical result to the rasterizer and the detail filter, and publishes one
// composed scene. The grid and detail layers of a scene therefore always
// reflect the same range and the same event set; partial state is never
// rendered.
//
// Notifications arrive serially from an external UI event source and are
// processed to completion. Each notification bumps a generation counter;
// a computed scene whose generation has been superseded by a newer
// notification is discarded instead of published ("last request wins").
package view

import (
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/rewired-gh/rasterview/internal/detail"
	"github.com/rewired-gh/rasterview/internal/logger"
	"github.com/rewired-gh/rasterview/internal/models"
	"github.com/rewired-gh/rasterview/internal/raster"
	"github.com/rewired-gh/rasterview/internal/store"
)

// State is the coordinator lifecycle state.
type State int

const (
	// StateIdle means no range is set; the view covers the full extent.
	StateIdle State = iota
	// StateRanged means a concrete visible range is active.
	StateRanged
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateRanged:
		return "ranged"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// Publisher receives each composed scene. Implementations are rendering
// surfaces: a terminal view, a chart exporter, a test recorder.
type Publisher interface {
	Publish(scene models.Scene)
}

// PublisherFunc adapts a function to the Publisher interface.
type PublisherFunc func(scene models.Scene)

// Publish calls f.
func (f PublisherFunc) Publish(scene models.Scene) { f(scene) }

// Config fixes the aggregation parameters for one coordinator.
//
// The detail thresholds bound how many raw events the hover layer may carry;
// the single-series value applies when exactly one category is selected.
// Both are tunable configuration (see config.ViewConfig), not constants.
type Config struct {
	Resolution            raster.Resolution
	Field                 raster.Field
	DetailThreshold       int
	SingleSeriesThreshold int
}

func (c Config) thresholdFor(series int) int {
	if series == 1 && c.SingleSeriesThreshold > 0 {
		return c.SingleSeriesThreshold
	}
	return c.DetailThreshold
}

// Validate checks the aggregation parameters.
func (c Config) Validate() error {
	if err := c.Resolution.Validate(); err != nil {
		return err
	}
	if c.DetailThreshold < 1 {
		return fmt.Errorf("detail threshold must be at least 1")
	}
	return nil
}

// Coordinator owns the current Range and Selection and is the only writer of
// either. It retains no scene history beyond the last published scene, which
// is kept so an invalid range change can leave the previous valid view
// untouched.
type Coordinator struct {
	store *store.EventStore
	cfg   Config
	pub   Publisher

	mu        sync.Mutex
	state     State
	current   models.Range
	selection models.Selection
	gen       uint64
	lastScene *models.Scene
}

// New builds a coordinator over an immutable store and publishes the initial
// full-extent Idle scene.
func New(s *store.EventStore, cfg Config, selection models.Selection, pub Publisher) (*Coordinator, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid coordinator config: %w", err)
	}
	if err := selection.Validate(cfg.Resolution.Height); err != nil {
		return nil, fmt.Errorf("invalid selection: %w", err)
	}

	c := &Coordinator{
		store:     s,
		cfg:       cfg,
		pub:       pub,
		state:     StateIdle,
		current:   models.FullRange(),
		selection: selection,
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.recompute()
	return c, nil
}

// State returns the current lifecycle state.
func (c *Coordinator) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// CurrentRange returns the range the last published scene was computed for.
func (c *Coordinator) CurrentRange() models.Range {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.current
}

// Selection returns the active selection.
func (c *Coordinator) Selection() models.Selection {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.selection
}

// Scene returns the last published scene, or nil before the first publish.
func (c *Coordinator) Scene() *models.Scene {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lastScene
}

// OnRangeChange is the entry point external UI code invokes on every pan or
// zoom. The first call transitions Idle → Ranged; later calls stay Ranged.
// A range with low > high is rejected with InvalidRangeError and the previous
// valid scene is retained.
func (c *Coordinator) OnRangeChange(low, high float64) error {
	r, err := models.NewRange(low, high)
	if err != nil {
		logger.Warn("Rejected range change: %v", err)
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.state = StateRanged
	c.current = r
	c.recompute()
	return nil
}

// OnSelectionChange replaces the active selection and republishes at the
// current range. Clearing the selection to none transitions back to Idle.
func (c *Coordinator) OnSelectionChange(selection models.Selection) error {
	if err := selection.Validate(c.cfg.Resolution.Height); err != nil {
		logger.Warn("Rejected selection change: %v", err)
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.selection = selection
	if selection.Empty() {
		c.state = StateIdle
		c.current = models.FullRange()
	}
	c.recompute()
	return nil
}

// Reset explicitly transitions back to Idle and re-queries the full extent.
func (c *Coordinator) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.state = StateIdle
	c.current = models.FullRange()
	c.recompute()
}

// recompute composes and publishes a scene for the current range and
// selection. Callers must hold c.mu.
func (c *Coordinator) recompute() {
	c.gen++
	scene := c.compose(c.current)
	c.deliver(c.gen, scene)
}

// deliver publishes a scene unless a newer notification has superseded the
// generation it was computed for. Callers must hold c.mu.
func (c *Coordinator) deliver(gen uint64, scene models.Scene) {
	if gen != c.gen {
		logger.Debug("Discarding stale scene for range [%g, %g): superseded", scene.Range.Low, scene.Range.High)
		return
	}
	c.lastScene = &scene
	c.pub.Publish(scene)
}

// compose builds one scene: for each selected category, a single store query
// whose result feeds both the rasterizer and the detail filter. A category
// that fails to aggregate is dropped from the scene with a warning; the
// remaining categories are still published. Callers must hold c.mu.
func (c *Coordinator) compose(r models.Range) models.Scene {
	scene := models.Scene{
		ID:      uuid.New().String(),
		Range:   r,
		Grids:   make(map[string]*models.Grid, len(c.selection.Order)),
		Details: make(map[string]models.DetailSet, len(c.selection.Order)),
	}

	threshold := c.cfg.thresholdFor(len(c.selection.Order))

	for _, cat := range c.selection.Order {
		if !c.store.Has(cat) {
			// Absent category degrades to zero matching events instead of
			// failing the whole overlay.
			logger.Debug("Selection category %q not in store: %v", cat, models.UnknownCategoryError{Category: cat})
		}

		events, err := c.store.Query(r, []string{cat})
		if err != nil {
			scene.Partial = true
			scene.Warnings = append(scene.Warnings, fmt.Sprintf("query %s: %v", cat, err))
			logger.Warn("Partial scene: query for category %q failed: %v", cat, err)
			continue
		}

		grid, err := raster.Aggregate(events, r, c.cfg.Resolution, c.cfg.Field, c.selection.Offsets[cat])
		if err != nil {
			scene.Partial = true
			scene.Warnings = append(scene.Warnings, fmt.Sprintf("aggregate %s: %v", cat, err))
			logger.Warn("Partial scene: aggregation for category %q failed: %v", cat, err)
			continue
		}

		scene.Grids[cat] = grid
		scene.Details[cat] = detail.Filter(events, threshold)
	}

	return scene
}
