// Package assets loads the résumé HTML skeleton and stylesheet.
//
// Assets are process-wide and immutable: the embedded pair is loaded once on
// first use, an override directory is read once at startup, and the resulting
// Set is shared read-only by every render.
package assets

import (
	"embed"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/PuerkitoBio/goquery"
	"github.com/jonathan/ats-resume/internal/rendering"
)

// File names of the asset pair, both inside the embedded templates/ dir and an override dir.
const (
	TemplateFile   = "ats.html"
	StylesheetFile = "style.css"
)

//go:embed templates/*
var embedded embed.FS

// Set is a loaded template/stylesheet pair.
type Set struct {
	Template string
	CSS      string
	Source   string // "embedded" or the override directory
}

var (
	defaultOnce sync.Once
	defaultSet  Set
	defaultErr  error
)

// Default returns the embedded asset pair, loading and validating it on first call.
func Default() (Set, error) {
	defaultOnce.Do(func() {
		defaultSet, defaultErr = loadEmbedded()
	})
	return defaultSet, defaultErr
}

func loadEmbedded() (Set, error) {
	tmpl, err := embedded.ReadFile("templates/" + TemplateFile)
	if err != nil {
		return Set{}, fmt.Errorf("failed to read embedded template: %w", err)
	}
	css, err := embedded.ReadFile("templates/" + StylesheetFile)
	if err != nil {
		return Set{}, fmt.Errorf("failed to read embedded stylesheet: %w", err)
	}

	set := Set{Template: string(tmpl), CSS: string(css), Source: "embedded"}
	if err := Validate(set); err != nil {
		return Set{}, err
	}
	return set, nil
}

// LoadDir reads ats.html and style.css from dir and validates them.
func LoadDir(dir string) (Set, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return Set{}, fmt.Errorf("asset directory not accessible: %w", err)
	}
	if !info.IsDir() {
		return Set{}, fmt.Errorf("asset path is not a directory: %s", dir)
	}

	tmpl, err := os.ReadFile(filepath.Join(dir, TemplateFile))
	if err != nil {
		return Set{}, fmt.Errorf("failed to read template: %w", err)
	}
	css, err := os.ReadFile(filepath.Join(dir, StylesheetFile))
	if err != nil {
		return Set{}, fmt.Errorf("failed to read stylesheet: %w", err)
	}

	set := Set{Template: string(tmpl), CSS: string(css), Source: dir}
	if err := Validate(set); err != nil {
		return Set{}, err
	}
	return set, nil
}

// Load returns the override set from dir, or the embedded set when dir is empty.
func Load(dir string) (Set, error) {
	if dir == "" {
		return Default()
	}
	return LoadDir(dir)
}

// Validate checks that set.Template is the résumé skeleton: every placeholder
// token is present and the head holds exactly one stylesheet link.
func Validate(set Set) error {
	if err := rendering.CheckTemplate(set.Template); err != nil {
		return err
	}

	var missing []string
	for _, token := range rendering.AllTokens {
		if !strings.Contains(set.Template, token) {
			missing = append(missing, token)
		}
	}
	if len(missing) > 0 {
		return &rendering.TemplateMismatchError{
			Message: "template is missing placeholders",
			Missing: missing,
		}
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(set.Template))
	if err != nil {
		return &rendering.TemplateMismatchError{Message: "template is not parseable HTML: " + err.Error()}
	}
	links := doc.Find(`head link[rel="stylesheet"]`)
	if links.Length() != 1 {
		return &rendering.TemplateMismatchError{
			Message: fmt.Sprintf("expected one stylesheet link in <head>, found %d", links.Length()),
		}
	}
	if href, _ := links.Attr("href"); href != "./"+StylesheetFile {
		return &rendering.TemplateMismatchError{
			Message: fmt.Sprintf("stylesheet link points at %q, want %q", href, "./"+StylesheetFile),
		}
	}

	return nil
}
