package main

import (
	"context"
	"fmt"
	"log"

	"github.com/jonathan/ats-resume/internal/assets"
	"github.com/jonathan/ats-resume/internal/config"
	"github.com/jonathan/ats-resume/internal/db"
	"github.com/jonathan/ats-resume/internal/export"
	"github.com/jonathan/ats-resume/internal/metrics"
	"github.com/jonathan/ats-resume/internal/pipeline"
	"github.com/jonathan/ats-resume/internal/server"
	"github.com/spf13/cobra"
)

var (
	servePort int
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP server",
	Long:  `Start an HTTP server that exposes PDF export, live preview and usage metrics endpoints.`,
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "Port to listen on (overrides config and PORT)")
	rootCmd.AddCommand(serveCmd)
}

// newExporter builds the Chrome-backed exporter bounded by the configured pool size.
func newExporter(cfg config.Config) *export.Limited {
	engine := export.NewChromeEngine(cfg.ChromePath, cfg.Ready())
	chrome := export.NewChromeExporter(engine, export.WithVerbose(cfg.Verbose))
	return export.NewLimited(chrome, cfg.ExportWorkers)
}

// newPipeline loads assets and wires the exporter for cfg.
func newPipeline(cfg config.Config) (*pipeline.Pipeline, error) {
	set, err := assets.Load(cfg.AssetDir)
	if err != nil {
		return nil, fmt.Errorf("failed to load assets: %w", err)
	}
	p := pipeline.New(set, newExporter(cfg), cfg.Timeout())
	p.Verbose = cfg.Verbose
	return p, nil
}

func runServe(_ *cobra.Command, _ []string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if servePort != 0 {
		cfg.Port = servePort
	}

	p, err := newPipeline(cfg)
	if err != nil {
		return err
	}

	deps := server.Deps{Pipeline: p}
	if cfg.DatabaseURL != "" {
		ctx := context.Background()
		database, err := db.Connect(ctx, cfg.DatabaseURL)
		if err != nil {
			return fmt.Errorf("failed to connect to database: %w", err)
		}
		if err := database.EnsureSchema(ctx); err != nil {
			database.Close()
			return fmt.Errorf("failed to prepare database schema: %w", err)
		}
		deps.Metrics = database
		deps.OnShutdown = append(deps.OnShutdown, database.Close)
	} else {
		log.Printf("[main] DATABASE_URL not set; metrics are kept in memory")
		deps.Metrics = metrics.NewMemoryStore()
	}

	srv, err := server.New(server.Config{
		Port:         cfg.Port,
		CORSOrigin:   cfg.CORSOrigin,
		MaxBodyBytes: cfg.MaxBodyBytes(),
	}, deps)
	if err != nil {
		return fmt.Errorf("failed to create server: %w", err)
	}

	return srv.Start()
}
