package export

import (
	"context"
	"fmt"
	"strings"
)

// ReadySignal selects when loaded content is considered ready to print.
type ReadySignal string

const (
	// ReadyNetworkIdle waits until no request has been in flight for the idle window.
	// Late-loading resources (web fonts, images) make it into the PDF at the cost of latency.
	ReadyNetworkIdle ReadySignal = "networkidle"
	// ReadyLoad waits for the load event only. Faster, but resources requested
	// after load may be missing from the output.
	ReadyLoad ReadySignal = "load"
)

// ParseReadySignal converts a config value into a ReadySignal.
func ParseReadySignal(s string) (ReadySignal, error) {
	switch ReadySignal(strings.ToLower(strings.TrimSpace(s))) {
	case "", ReadyNetworkIdle:
		return ReadyNetworkIdle, nil
	case ReadyLoad:
		return ReadyLoad, nil
	default:
		return "", fmt.Errorf("unknown ready signal %q (want %q or %q)", s, ReadyNetworkIdle, ReadyLoad)
	}
}

// PrintOptions configures page.printToPDF.
type PrintOptions struct {
	PaperWidth        float64 // inches
	PaperHeight       float64 // inches
	PrintBackground   bool
	PreferCSSPageSize bool
}

// pageSizesInches are the paper sizes the exporter knows by name.
var pageSizesInches = map[string]struct {
	width  float64
	height float64
}{
	"A4":     {width: 8.27, height: 11.69},
	"LETTER": {width: 8.5, height: 11},
}

// DefaultPrintOptions returns A4 with backgrounds printed and CSS @page size honoured.
func DefaultPrintOptions() PrintOptions {
	a4 := pageSizesInches["A4"]
	return PrintOptions{
		PaperWidth:        a4.width,
		PaperHeight:       a4.height,
		PrintBackground:   true,
		PreferCSSPageSize: true,
	}
}

// Engine launches rendering-engine instances. Each Launch yields a fresh,
// unshared instance.
type Engine interface {
	Launch(ctx context.Context) (Session, error)
}

// Session is one running engine instance. Close must terminate the instance
// and is safe to call more than once.
type Session interface {
	Load(ctx context.Context, html string) error
	Print(ctx context.Context, opts PrintOptions) ([]byte, error)
	Close() error
}
