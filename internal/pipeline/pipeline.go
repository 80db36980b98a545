// Package pipeline turns résumé data into a printable document and, optionally, a PDF.
package pipeline

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/jonathan/ats-resume/internal/assets"
	"github.com/jonathan/ats-resume/internal/export"
	"github.com/jonathan/ats-resume/internal/rendering"
	"github.com/jonathan/ats-resume/internal/types"
)

// DefaultTimeout bounds a single export when the caller configures none.
const DefaultTimeout = 30 * time.Second

// Pipeline steps reported through ProgressEvent.
const (
	StepCompose = "compose"
	StepExport  = "export"
)

// ProgressEvent represents a progress update during a pipeline run
type ProgressEvent struct {
	Step     string        `json:"step"`
	Message  string        `json:"message"`
	Duration time.Duration `json:"duration,omitempty"`
}

// ProgressCallback is called when pipeline progress occurs
type ProgressCallback func(event ProgressEvent)

// Pipeline composes résumés with a shared asset set and exports them.
// A Pipeline holds no per-call state and is safe for concurrent use.
type Pipeline struct {
	Assets     assets.Set
	Exporter   export.Exporter
	Timeout    time.Duration
	Verbose    bool
	OnProgress ProgressCallback
}

// New creates a pipeline over the given assets and exporter.
func New(set assets.Set, exporter export.Exporter, timeout time.Duration) *Pipeline {
	return &Pipeline{
		Assets:   set,
		Exporter: exporter,
		Timeout:  timeout,
	}
}

func (p *Pipeline) emit(step, message string, d time.Duration) {
	if p.Verbose {
		log.Printf("[pipeline] %s: %s (%v)", step, message, d)
	}
	if p.OnProgress != nil {
		p.OnProgress(ProgressEvent{Step: step, Message: message, Duration: d})
	}
}

// BuildHTML composes data into a self-contained HTML document.
func (p *Pipeline) BuildHTML(data types.ResumeData) (string, error) {
	start := time.Now()
	html, err := rendering.Compose(data, p.Assets.Template, p.Assets.CSS)
	if err != nil {
		return "", err
	}
	p.emit(StepCompose, fmt.Sprintf("composed %d bytes of HTML", len(html)), time.Since(start))
	return html, nil
}

// ExportPDF composes data and prints it. On error the returned slice is nil.
func (p *Pipeline) ExportPDF(ctx context.Context, data types.ResumeData) ([]byte, error) {
	html, err := p.BuildHTML(data)
	if err != nil {
		return nil, err
	}
	return p.ExportHTML(ctx, html)
}

// ExportHTML prints an already composed document under the pipeline timeout.
func (p *Pipeline) ExportHTML(ctx context.Context, html string) ([]byte, error) {
	if p.Exporter == nil {
		return nil, &export.ExportFailedError{Stage: export.StageLaunch, Cause: fmt.Errorf("no exporter configured")}
	}

	timeout := p.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	start := time.Now()
	pdf, err := p.Exporter.Export(ctx, html)
	if err != nil {
		log.Printf("[pipeline] export failed after %v: %v", time.Since(start), err)
		return nil, err
	}
	p.emit(StepExport, fmt.Sprintf("printed %d bytes of PDF", len(pdf)), time.Since(start))
	return pdf, nil
}
