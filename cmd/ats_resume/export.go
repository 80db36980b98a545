package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/jonathan/ats-resume/internal/config"
	"github.com/jonathan/ats-resume/internal/observability"
	"github.com/spf13/cobra"
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export a résumé to PDF",
	Long:  "Renders a JSON or YAML résumé and prints it to an A4 PDF through headless Chrome.",
	RunE:  runExport,
}

var (
	exportInput   string
	exportOutput  string
	exportAssets  string
	exportTimeout time.Duration
	exportChrome  string
	exportReady   string
	exportVerbose bool
)

func init() {
	exportCmd.Flags().StringVarP(&exportInput, "in", "i", "", "Path to résumé JSON or YAML file, or - for stdin (required)")
	exportCmd.Flags().StringVarP(&exportOutput, "out", "o", "cv.pdf", "Path to output PDF file, or - for stdout")
	exportCmd.Flags().StringVar(&exportAssets, "assets", "", "Directory holding ats.html and style.css (default: embedded)")
	exportCmd.Flags().DurationVar(&exportTimeout, "timeout", 0, "Export timeout (default from config, 30s)")
	exportCmd.Flags().StringVar(&exportChrome, "chrome", "", "Path to Chrome or Chromium binary (default: auto-detect)")
	exportCmd.Flags().StringVar(&exportReady, "ready", "", "Ready signal before printing: networkidle or load")
	exportCmd.Flags().BoolVarP(&exportVerbose, "verbose", "v", false, "Print progress and a summary")

	if err := exportCmd.MarkFlagRequired("in"); err != nil {
		panic(fmt.Sprintf("failed to mark in flag as required: %v", err))
	}

	rootCmd.AddCommand(exportCmd)
}

// exportConfig applies the export flags over the loaded configuration.
func exportConfig() (config.Config, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return config.Config{}, fmt.Errorf("failed to load config: %w", err)
	}
	if exportAssets != "" {
		cfg.AssetDir = exportAssets
	}
	if exportChrome != "" {
		cfg.ChromePath = exportChrome
	}
	if exportTimeout > 0 {
		cfg.ExportTimeout = exportTimeout.String()
	}
	if exportReady != "" {
		cfg.ReadySignal = exportReady
	}
	cfg.Verbose = cfg.Verbose || exportVerbose
	cfg.ExportWorkers = 1
	if err := cfg.Validate(); err != nil {
		return config.Config{}, err
	}
	return cfg, nil
}

func runExport(_ *cobra.Command, _ []string) error {
	start := time.Now()

	cfg, err := exportConfig()
	if err != nil {
		return err
	}

	data, err := loadResume(exportInput)
	if err != nil {
		return fmt.Errorf("failed to load résumé: %w", err)
	}

	p, err := newPipeline(cfg)
	if err != nil {
		return err
	}

	printer := observability.NewPrinter(os.Stderr)
	if exportVerbose {
		printer.PrintResume(data)
		p.OnProgress = printer.PrintProgress
	}

	pdf, err := p.ExportPDF(context.Background(), data)
	if err != nil {
		return fmt.Errorf("failed to export PDF: %w", err)
	}

	if err := writeOutput(exportOutput, pdf); err != nil {
		return err
	}
	if exportOutput == "-" {
		return nil
	}
	if exportVerbose {
		printer.PrintExport(exportOutput, len(pdf), time.Since(start))
	} else {
		_, _ = fmt.Fprintf(os.Stderr, "Successfully exported PDF to %s\n", exportOutput)
	}
	return nil
}
