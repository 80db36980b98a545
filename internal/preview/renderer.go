package preview

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/jonathan/ats-resume/internal/assets"
	"github.com/jonathan/ats-resume/internal/rendering"
	"github.com/jonathan/ats-resume/internal/types"
)

// Renderer re-renders the preview document whenever the résumé changes,
// at most once per debounce window.
type Renderer struct {
	assets   assets.Set
	onRender func(html string)
	onError  func(err error)
	debounce *Debouncer[types.ResumeData]

	mu   sync.Mutex
	last string
}

// NewRenderer creates a Renderer. onRender receives every new document;
// onError, if set, receives composition failures.
func NewRenderer(set assets.Set, window time.Duration, onRender func(string), onError func(error)) *Renderer {
	r := &Renderer{
		assets:   set,
		onRender: onRender,
		onError:  onError,
	}
	r.debounce = NewDebouncer(window, r.render)
	return r
}

// Update schedules a re-render with data.
func (r *Renderer) Update(data types.ResumeData) {
	r.debounce.Trigger(data)
}

// Render composes data immediately, bypassing the debounce window.
func (r *Renderer) Render(data types.ResumeData) (string, error) {
	html, err := rendering.Compose(data, r.assets.Template, r.assets.CSS)
	if err != nil {
		return "", err
	}
	r.mu.Lock()
	r.last = html
	r.mu.Unlock()
	return html, nil
}

func (r *Renderer) render(data types.ResumeData) {
	html, err := r.Render(data)
	if err != nil {
		if r.onError != nil {
			r.onError(err)
		}
		return
	}
	if r.onRender != nil {
		r.onRender(html)
	}
}

// Last returns the most recently rendered document.
func (r *Renderer) Last() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.last
}

// Stop cancels a pending render.
func (r *Renderer) Stop() {
	r.debounce.Stop()
}

// WatchFile polls path every interval and calls onChange with the file
// contents whenever its size or modification time changes. The first read
// happens immediately. WatchFile returns when ctx is done.
func WatchFile(ctx context.Context, path string, interval time.Duration, onChange func([]byte)) error {
	if interval <= 0 {
		interval = 500 * time.Millisecond
	}

	var lastMod time.Time
	var lastSize int64 = -1
	var lastContent []byte

	check := func() error {
		info, err := os.Stat(path)
		if err != nil {
			return fmt.Errorf("failed to stat %s: %w", path, err)
		}
		if info.ModTime().Equal(lastMod) && info.Size() == lastSize {
			return nil
		}
		lastMod, lastSize = info.ModTime(), info.Size()

		content, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("failed to read %s: %w", path, err)
		}
		if lastContent != nil && bytes.Equal(content, lastContent) {
			return nil
		}
		lastContent = content
		onChange(content)
		return nil
	}

	if err := check(); err != nil {
		return err
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			if errors.Is(ctx.Err(), context.Canceled) {
				return nil
			}
			return ctx.Err()
		case <-ticker.C:
			if err := check(); err != nil {
				return err
			}
		}
	}
}
