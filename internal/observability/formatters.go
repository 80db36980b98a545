// Package observability provides formatted output utilities for verbose CLI mode.
package observability

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/jonathan/ats-resume/internal/pipeline"
	"github.com/jonathan/ats-resume/internal/schemas"
	"github.com/jonathan/ats-resume/internal/types"
)

const (
	// boxWidth is the default width for formatted output boxes
	boxWidth = 60
	// maxItemsToShow is the default number of items to display in lists
	maxItemsToShow = 5
)

// Printer handles formatted output for verbose mode
type Printer struct {
	out io.Writer
}

// NewPrinter creates a new Printer that writes to the given writer
func NewPrinter(out io.Writer) *Printer {
	return &Printer{out: out}
}

// printBox prints a formatted box with a title and content
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) printBox(title string, content string) {
	inner := boxWidth - 4
	border := strings.Repeat("─", boxWidth-2)
	fmt.Fprintf(p.out, "┌%s┐\n", border)
	fmt.Fprintf(p.out, "│ %s │\n", pad(title, inner))
	fmt.Fprintf(p.out, "├%s┤\n", border)

	for _, line := range strings.Split(strings.TrimRight(content, "\n"), "\n") {
		fmt.Fprintf(p.out, "│ %s │\n", pad(line, inner))
	}

	fmt.Fprintf(p.out, "└%s┘\n", border)
}

// pad truncates or right-pads s to width runes.
func pad(s string, width int) string {
	n := utf8.RuneCountInString(s)
	if n > width {
		runes := []rune(s)
		return string(runes[:width-3]) + "..."
	}
	return s + strings.Repeat(" ", width-n)
}

// writeList writes up to maxItemsToShow items under a heading.
func writeList(sb *strings.Builder, heading string, items []string) {
	if len(items) == 0 {
		return
	}
	sb.WriteString(heading + ":\n")
	count := min(len(items), maxItemsToShow)
	for i := 0; i < count; i++ {
		sb.WriteString(fmt.Sprintf("  • %s\n", items[i]))
	}
	if len(items) > maxItemsToShow {
		sb.WriteString(fmt.Sprintf("  ... and %d more\n", len(items)-maxItemsToShow))
	}
}

// PrintResume outputs a human-readable summary of a résumé document.
func (p *Printer) PrintResume(data types.ResumeData) {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("Name:     %s\n", data.Name))
	if data.Title != "" {
		sb.WriteString(fmt.Sprintf("Title:    %s\n", data.Title))
	}
	if data.Location != "" {
		sb.WriteString(fmt.Sprintf("Location: %s\n", data.Location))
	}
	sb.WriteString("\n")

	bullets := 0
	for _, e := range data.Experience {
		bullets += len(e.Bullets)
	}
	for _, pr := range data.Projects {
		bullets += len(pr.Bullets)
	}
	sb.WriteString(fmt.Sprintf("Sections: %d skill groups, %d projects, %d roles, %d education, %d languages\n",
		len(data.Skills), len(data.Projects), len(data.Experience), len(data.Education), len(data.Languages)))
	sb.WriteString(fmt.Sprintf("Bullets:  %d\n", bullets))

	roles := make([]string, 0, len(data.Experience))
	for _, e := range data.Experience {
		roles = append(roles, fmt.Sprintf("%s @ %s (%s)", e.Role, e.Company, e.Date))
	}
	if len(roles) > 0 {
		sb.WriteString("\n")
		writeList(&sb, "Experience", roles)
	}

	p.printBox("Résumé", sb.String())
}

// PrintValidation outputs the result of a schema check.
func (p *Printer) PrintValidation(source string, err error) {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Source: %s\n\n", source))

	if err == nil {
		sb.WriteString("✓ Document matches the résumé schema\n")
		p.printBox("Validation", sb.String())
		return
	}

	var ve *schemas.ValidationError
	if errors.As(err, &ve) {
		sb.WriteString(fmt.Sprintf("✗ %d problem(s) found\n\n", len(ve.Errors)))
		writeList(&sb, "Problems", ve.Fields())
	} else {
		sb.WriteString(fmt.Sprintf("✗ %v\n", err))
	}
	p.printBox("Validation", sb.String())
}

// PrintProgress outputs one pipeline step.
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) PrintProgress(event pipeline.ProgressEvent) {
	fmt.Fprintf(p.out, "  → %-8s %s (%v)\n", event.Step, event.Message, event.Duration.Round(time.Millisecond))
}

// PrintExport outputs a summary of a written file.
func (p *Printer) PrintExport(path string, size int, elapsed time.Duration) {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Output:   %s\n", path))
	sb.WriteString(fmt.Sprintf("Size:     %s\n", formatBytes(size)))
	sb.WriteString(fmt.Sprintf("Elapsed:  %v\n", elapsed.Round(time.Millisecond)))
	p.printBox("Export", sb.String())
}

func formatBytes(n int) string {
	switch {
	case n >= 1<<20:
		return fmt.Sprintf("%.1f MB", float64(n)/(1<<20))
	case n >= 1<<10:
		return fmt.Sprintf("%.1f KB", float64(n)/(1<<10))
	default:
		return fmt.Sprintf("%d B", n)
	}
}
