package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"filter-portal/internal/batch"
	"filter-portal/internal/config"
	"filter-portal/internal/engine"
	"filter-portal/internal/filter"
	"filter-portal/internal/frameio"
	"filter-portal/internal/scene"
	"filter-portal/internal/spatial"
)

func main() {
	// CLI flags
	configFile := flag.String("config", "", "Path to config file (.json or .yaml)")
	sceneFile := flag.String("scene", "", "Scene script to run (more may follow as arguments)")
	workers := flag.Int("workers", 0, "Number of worker goroutines (default: NumCPU)")
	outputDir := flag.String("output", "", "Output directory (default: portal-out)")
	format := flag.String("format", "", "Output format: webp, png or jpeg (default: webp)")
	quality := flag.Int("quality", 0, "JPEG quality 1-100 (default: 90)")
	filterName := flag.String("filter", "", "Initial filter for scenes that do not name one")
	retain := flag.Bool("retain-buffers", false, "Keep compositing buffers between frames")
	listFilters := flag.Bool("filters", false, "List the filter catalog and exit")
	verbose := flag.Bool("v", false, "Log engine events to stderr")

	flag.Parse()

	catalog := filter.DefaultCatalog()
	if *listFilters {
		for i, name := range catalog.Names() {
			marker := " "
			if i == filter.DefaultIndex {
				marker = "*"
			}
			fmt.Printf("%s %d %s\n", marker, i, name)
		}
		return
	}

	var paths []string
	if *sceneFile != "" {
		paths = append(paths, *sceneFile)
	}
	paths = append(paths, flag.Args()...)
	if len(paths) == 0 {
		fmt.Fprintln(os.Stderr, "Error: no scene scripts. Use -scene or pass paths as arguments.")
		os.Exit(2)
	}

	// Load config
	var cfg config.Config
	if *configFile != "" {
		var err error
		cfg, err = config.Load(*configFile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
			os.Exit(1)
		}
	}

	// CLI flags override config file
	cfg.Resolve(config.Flags{
		OutputDir: *outputDir,
		Format:    *format,
		Quality:   *quality,
		Workers:   *workers,
		Filter:    *filterName,
		Retain:    *retain,
	})
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	outFormat, err := frameio.ParseFormat(cfg.Format)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	if _, ok := catalog.Lookup(cfg.DefaultFilter); !ok {
		fmt.Fprintf(os.Stderr, "Error: unknown filter %q (have %s)\n", cfg.DefaultFilter, strings.Join(catalog.Names(), ", "))
		os.Exit(1)
	}

	logger := slog.New(slog.DiscardHandler)
	if *verbose {
		logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug}))
	}

	// Load scenes
	var scenes []*scene.Scene
	for _, p := range paths {
		sc, err := scene.Load(p)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error loading scene: %v\n", err)
			os.Exit(1)
		}
		scenes = append(scenes, sc)
	}

	fmt.Println("Filter Portal scene renderer")
	fmt.Printf("Scenes: %d, Workers: %d, Format: %s\n", len(scenes), cfg.Workers, outFormat)
	fmt.Printf("Output: %s\n", cfg.OutputDir)
	fmt.Println("------------------------------------------------------------")

	start := time.Now()

	opts := engine.DefaultOptions()
	opts.Catalog = catalog
	opts.Thresholds = spatial.Thresholds{Enter: cfg.EnterThreshold, Exit: cfg.ExitThreshold}
	opts.PortalWidth = cfg.PortalWidth
	opts.PortalHeight = cfg.PortalHeight
	opts.RetainBuffers = cfg.RetainBuffers

	// Run batch
	batchCfg := batch.Config{
		OutputDir:     cfg.OutputDir,
		Encoder:       frameio.Encoder{Format: outFormat, Quality: cfg.Quality},
		Engine:        opts,
		DefaultFilter: cfg.DefaultFilter,
		Sources:       frameio.NewCache(),
		Workers:       cfg.Workers,
		Logger:        logger,
	}

	results := batch.Run(batchCfg, scenes)

	elapsed := time.Since(start)
	fmt.Println("------------------------------------------------------------")
	fmt.Printf("Done in %.1fs\n", elapsed.Seconds())

	// Count results
	frames, skipped, failed := 0, 0, 0
	for _, r := range results {
		if !r.Success {
			failed++
			fmt.Printf("  %s: %s\n", r.Scene, r.Error)
			continue
		}
		frames += len(r.Frames)
		skipped += r.Skipped
	}
	fmt.Printf("Scenes: %d/%d, Frames: %d (%d skipped)\n", len(results)-failed, len(results), frames, skipped)

	// Write manifest
	manifest := batch.NewManifest(results)
	manifestPath := filepath.Join(cfg.OutputDir, "manifest.json")
	os.MkdirAll(cfg.OutputDir, 0755)
	if err := batch.WriteManifest(manifestPath, manifest); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: manifest write failed: %v\n", err)
	} else {
		fmt.Printf("Manifest: %s (run %s)\n", manifestPath, manifest.RunID)
	}

	if failed > 0 {
		os.Exit(1)
	}
}
