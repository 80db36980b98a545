package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jonathan/ats-resume/internal/assets"
	"github.com/jonathan/ats-resume/internal/preview"
	"github.com/spf13/cobra"
)

var previewCmd = &cobra.Command{
	Use:   "preview",
	Short: "Render a résumé preview, optionally re-rendering on change",
	Long:  "Renders a JSON or YAML résumé to an HTML preview file. With --watch the input is polled and the preview is re-rendered after edits settle.",
	RunE:  runPreview,
}

var (
	previewInput    string
	previewOutput   string
	previewAssets   string
	previewWatch    bool
	previewInterval time.Duration
	previewDebounce time.Duration
)

func init() {
	previewCmd.Flags().StringVarP(&previewInput, "in", "i", "", "Path to résumé JSON or YAML file (required)")
	previewCmd.Flags().StringVarP(&previewOutput, "out", "o", "preview.html", "Path to output HTML file")
	previewCmd.Flags().StringVar(&previewAssets, "assets", "", "Directory holding ats.html and style.css (default: embedded)")
	previewCmd.Flags().BoolVarP(&previewWatch, "watch", "w", false, "Keep running and re-render when the input changes")
	previewCmd.Flags().DurationVar(&previewInterval, "interval", 500*time.Millisecond, "Polling interval for --watch")
	previewCmd.Flags().DurationVar(&previewDebounce, "debounce", preview.DefaultWindow, "Quiet period before re-rendering")

	if err := previewCmd.MarkFlagRequired("in"); err != nil {
		panic(fmt.Sprintf("failed to mark in flag as required: %v", err))
	}

	rootCmd.AddCommand(previewCmd)
}

func runPreview(_ *cobra.Command, _ []string) error {
	if previewWatch && previewInput == "-" {
		return fmt.Errorf("--watch needs a file input, not stdin")
	}

	set, err := assets.Load(previewAssets)
	if err != nil {
		return fmt.Errorf("failed to load assets: %w", err)
	}

	write := func(html string) {
		if err := writeOutput(previewOutput, []byte(html)); err != nil {
			log.Printf("[preview] %v", err)
			return
		}
		log.Printf("[preview] wrote %s (%d bytes)", previewOutput, len(html))
	}
	renderer := preview.NewRenderer(set, previewDebounce, write, func(err error) {
		log.Printf("[preview] render failed: %v", err)
	})
	defer renderer.Stop()

	if !previewWatch {
		data, err := loadResume(previewInput)
		if err != nil {
			return fmt.Errorf("failed to load résumé: %w", err)
		}
		html, err := renderer.Render(data)
		if err != nil {
			return fmt.Errorf("failed to render preview: %w", err)
		}
		return writeOutput(previewOutput, []byte(html))
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	log.Printf("[preview] watching %s (Ctrl+C to stop)", previewInput)
	return preview.WatchFile(ctx, previewInput, previewInterval, func(content []byte) {
		data, err := decodeResume(previewInput, content)
		if err != nil {
			// keep the last good preview while the file is mid-edit
			log.Printf("[preview] skipping invalid input: %v", err)
			return
		}
		renderer.Update(data)
	})
}
