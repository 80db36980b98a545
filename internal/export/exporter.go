// Package export prints HTML documents to PDF through a headless browser.
//
// Every Export call launches its own browser instance and always terminates it
// before returning, whether the call succeeds, fails or panics. Export has no
// internal timeout: callers bound it with a context deadline, and cancelling
// that context tears the browser process down.
package export

import (
	"bytes"
	"context"
	"fmt"
	"log"
	"time"
)

// Exporter converts a self-contained HTML document into PDF bytes.
type Exporter interface {
	Export(ctx context.Context, html string) ([]byte, error)
}

// State is a step of the export lifecycle.
type State string

// Lifecycle states. Every call ends in StateClosed.
const (
	StateIdle            State = "idle"
	StateEngineLaunching State = "engine_launching"
	StateContentLoaded   State = "content_loaded"
	StatePrinting        State = "printing"
	StateClosed          State = "closed"
)

// pdfSignature is the magic prefix of every PDF file.
var pdfSignature = []byte("%PDF-")

// ChromeExporter runs one engine instance per Export call through the
// Idle → EngineLaunching → ContentLoaded → Printing → Closed lifecycle.
type ChromeExporter struct {
	engine  Engine
	print   PrintOptions
	observe func(State)
	verbose bool
}

// ExporterOption configures a ChromeExporter.
type ExporterOption func(*ChromeExporter)

// WithPrintOptions overrides the default A4 print options.
func WithPrintOptions(opts PrintOptions) ExporterOption {
	return func(e *ChromeExporter) {
		e.print = opts
	}
}

// WithObserver registers a callback for every lifecycle transition.
func WithObserver(fn func(State)) ExporterOption {
	return func(e *ChromeExporter) {
		e.observe = fn
	}
}

// WithVerbose logs each export with its duration.
func WithVerbose(verbose bool) ExporterOption {
	return func(e *ChromeExporter) {
		e.verbose = verbose
	}
}

// NewChromeExporter creates an exporter over engine.
func NewChromeExporter(engine Engine, opts ...ExporterOption) *ChromeExporter {
	e := &ChromeExporter{
		engine: engine,
		print:  DefaultPrintOptions(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

func (e *ChromeExporter) transition(s State) {
	if e.observe != nil {
		e.observe(s)
	}
}

// Export launches a fresh engine, loads html, prints it and closes the engine.
// On error the returned slice is nil; a partial PDF is never returned.
func (e *ChromeExporter) Export(ctx context.Context, html string) ([]byte, error) {
	start := time.Now()
	e.transition(StateIdle)

	if err := ctx.Err(); err != nil {
		e.transition(StateClosed)
		return nil, &ExportFailedError{Stage: StageLaunch, Cause: err}
	}

	e.transition(StateEngineLaunching)
	session, err := e.engine.Launch(ctx)
	if err != nil {
		e.transition(StateClosed)
		return nil, &ExportFailedError{Stage: StageLaunch, Cause: err}
	}
	defer func() {
		if cerr := session.Close(); cerr != nil {
			log.Printf("[export] engine close reported: %v", cerr)
		}
		e.transition(StateClosed)
	}()

	if err := session.Load(ctx, html); err != nil {
		return nil, &ExportFailedError{Stage: StageLoad, Cause: err}
	}
	e.transition(StateContentLoaded)

	e.transition(StatePrinting)
	pdf, err := session.Print(ctx, e.print)
	if err != nil {
		return nil, &ExportFailedError{Stage: StagePrint, Cause: err}
	}
	if !bytes.HasPrefix(pdf, pdfSignature) {
		return nil, &ExportFailedError{
			Stage: StageVerify,
			Cause: fmt.Errorf("engine returned %d bytes without a PDF signature", len(pdf)),
		}
	}

	if e.verbose {
		log.Printf("[export] printed %d bytes in %v", len(pdf), time.Since(start))
	}
	return pdf, nil
}
