package main

import (
	"flag"
	"log"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/rewired-gh/rasterview/internal/config"
	"github.com/rewired-gh/rasterview/internal/logger"
	"github.com/rewired-gh/rasterview/internal/models"
	"github.com/rewired-gh/rasterview/internal/raster"
	"github.com/rewired-gh/rasterview/internal/render"
	"github.com/rewired-gh/rasterview/internal/store"
	"github.com/rewired-gh/rasterview/internal/view"
)

var (
	configPath = flag.String("config", "configs/config.yaml", "Path to configuration file")
	pngPath    = flag.String("png", "", "Render one full-extent scene to this PNG file and exit")
)

func main() {
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	logger.Init(cfg.Logging.Level, cfg.Logging.Format)
	logger.Info("Configuration loaded from %s", *configPath)

	st, err := store.Load(cfg.Data.Path)
	if err != nil {
		logger.Fatal("Failed to load events: %v", err)
	}
	logger.Info("Loaded %d events across %d categories from %s", st.Len(), len(st.Categories()), cfg.Data.Path)

	selection, err := models.NewSelection(cfg.Categories.Active)
	if err != nil {
		logger.Fatal("Invalid category selection: %v", err)
	}

	field := raster.Count
	if cfg.View.SumColumn != "" {
		field = raster.Sum(cfg.View.SumColumn)
	}

	viewCfg := view.Config{
		Resolution:            raster.Resolution{Width: cfg.View.Width, Height: cfg.View.Height},
		Field:                 field,
		DetailThreshold:       cfg.View.DetailThreshold,
		SingleSeriesThreshold: cfg.View.SingleSeriesThreshold,
	}

	if *pngPath != "" {
		exportPNG(st, viewCfg, selection, cfg.Categories.Colors, *pngPath)
		return
	}

	m := newModel(st, viewCfg, selection, cfg.Categories.Colors)
	if _, err := tea.NewProgram(m, tea.WithAltScreen()).Run(); err != nil {
		logger.Fatal("Terminal program error: %v", err)
	}
}

// exportPNG builds a coordinator just to capture its initial full-extent
// scene, then renders it to a file.
func exportPNG(st *store.EventStore, viewCfg view.Config, selection models.Selection, colors map[string]string, path string) {
	var scene models.Scene
	_, err := view.New(st, viewCfg, selection, view.PublisherFunc(func(s models.Scene) {
		scene = s
	}))
	if err != nil {
		logger.Fatal("Failed to build coordinator: %v", err)
	}

	if err := render.SceneToFile(scene, selection.Order, colors, path); err != nil {
		logger.Fatal("Failed to export chart: %v", err)
	}
	logger.Info("Exported full-extent scene (%d categories, mass %.0f) to %s",
		len(scene.Grids), scene.Mass(), path)
}
