package main

import (
	"fmt"
	"os"

	"github.com/jonathan/ats-resume/internal/assets"
	"github.com/jonathan/ats-resume/internal/observability"
	"github.com/jonathan/ats-resume/internal/pipeline"
	"github.com/spf13/cobra"
)

var renderCmd = &cobra.Command{
	Use:   "render",
	Short: "Render a résumé to HTML",
	Long:  "Renders a JSON or YAML résumé into the ATS HTML page with the stylesheet inlined.",
	RunE:  runRender,
}

var (
	renderInput   string
	renderOutput  string
	renderAssets  string
	renderVerbose bool
)

func init() {
	renderCmd.Flags().StringVarP(&renderInput, "in", "i", "", "Path to résumé JSON or YAML file, or - for stdin (required)")
	renderCmd.Flags().StringVarP(&renderOutput, "out", "o", "", "Path to output HTML file, or - for stdout (required)")
	renderCmd.Flags().StringVar(&renderAssets, "assets", "", "Directory holding ats.html and style.css (default: embedded)")
	renderCmd.Flags().BoolVarP(&renderVerbose, "verbose", "v", false, "Print a summary of the résumé")

	if err := renderCmd.MarkFlagRequired("in"); err != nil {
		panic(fmt.Sprintf("failed to mark in flag as required: %v", err))
	}
	if err := renderCmd.MarkFlagRequired("out"); err != nil {
		panic(fmt.Sprintf("failed to mark out flag as required: %v", err))
	}

	rootCmd.AddCommand(renderCmd)
}

func runRender(_ *cobra.Command, _ []string) error {
	data, err := loadResume(renderInput)
	if err != nil {
		return fmt.Errorf("failed to load résumé: %w", err)
	}

	set, err := assets.Load(renderAssets)
	if err != nil {
		return fmt.Errorf("failed to load assets: %w", err)
	}

	p := pipeline.New(set, nil, 0)
	printer := observability.NewPrinter(os.Stderr)
	if renderVerbose {
		printer.PrintResume(data)
		p.OnProgress = printer.PrintProgress
	}

	html, err := p.BuildHTML(data)
	if err != nil {
		return fmt.Errorf("failed to render HTML: %w", err)
	}

	if err := writeOutput(renderOutput, []byte(html)); err != nil {
		return err
	}
	if renderOutput != "-" {
		_, _ = fmt.Fprintf(os.Stderr, "Successfully rendered HTML to %s\n", renderOutput)
	}
	return nil
}
