package export

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/chromedp/cdproto/network"
	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"
)

// DefaultIdleWindow is how long the network must stay quiet for ReadyNetworkIdle.
const DefaultIdleWindow = 500 * time.Millisecond

// liveEngines counts browser instances launched and not yet closed.
var liveEngines atomic.Int64

// LiveEngines reports the number of browser instances currently open.
func LiveEngines() int64 {
	return liveEngines.Load()
}

// ChromeEngine launches a dedicated headless Chrome process per session.
type ChromeEngine struct {
	// BrowserPath overrides the Chrome executable; empty uses chromedp's lookup.
	BrowserPath string
	Ready       ReadySignal
	IdleWindow  time.Duration
	Args        []string
}

// NewChromeEngine creates an engine with the given ready signal.
func NewChromeEngine(browserPath string, ready ReadySignal) *ChromeEngine {
	return &ChromeEngine{
		BrowserPath: browserPath,
		Ready:       ready,
		IdleWindow:  DefaultIdleWindow,
	}
}

func (e *ChromeEngine) allocatorOptions() []chromedp.ExecAllocatorOption {
	opts := append([]chromedp.ExecAllocatorOption{}, chromedp.DefaultExecAllocatorOptions[:]...)
	opts = append(opts,
		chromedp.Flag("headless", true),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-dev-shm-usage", true),
	)
	if e.BrowserPath != "" {
		opts = append(opts, chromedp.ExecPath(e.BrowserPath))
	}
	for _, arg := range e.Args {
		opts = append(opts, chromedp.Flag(arg, true))
	}
	return opts
}

// Launch starts a new browser process bound to ctx. Cancelling ctx kills it.
func (e *ChromeEngine) Launch(ctx context.Context) (Session, error) {
	allocCtx, allocCancel := chromedp.NewExecAllocator(ctx, e.allocatorOptions()...)
	tabCtx, tabCancel := chromedp.NewContext(allocCtx)

	// An empty Run allocates the browser and opens the first tab.
	if err := chromedp.Run(tabCtx); err != nil {
		tabCancel()
		allocCancel()
		return nil, fmt.Errorf("failed to start browser: %w", err)
	}
	liveEngines.Add(1)

	idle := e.IdleWindow
	if idle <= 0 {
		idle = DefaultIdleWindow
	}
	return &chromeSession{
		ctx:         tabCtx,
		tabCancel:   tabCancel,
		allocCancel: allocCancel,
		ready:       e.Ready,
		idleWindow:  idle,
	}, nil
}

type chromeSession struct {
	ctx         context.Context
	tabCancel   context.CancelFunc
	allocCancel context.CancelFunc
	ready       ReadySignal
	idleWindow  time.Duration

	closeOnce sync.Once
	closeErr  error
}

// run executes actions on the session tab, aborting when ctx is done.
func (s *chromeSession) run(ctx context.Context, actions ...chromedp.Action) error {
	runCtx, cancel := context.WithCancel(s.ctx)
	defer cancel()
	stop := context.AfterFunc(ctx, cancel)
	defer stop()

	err := chromedp.Run(runCtx, actions...)
	if err != nil && ctx.Err() != nil {
		return errors.Join(ctx.Err(), err)
	}
	return err
}

func (s *chromeSession) Load(ctx context.Context, html string) error {
	var tracker *idleTracker
	actions := []chromedp.Action{}
	if s.ready != ReadyLoad {
		tracker = newIdleTracker()
		chromedp.ListenTarget(s.ctx, tracker.handle)
		actions = append(actions, network.Enable())
	}

	actions = append(actions,
		chromedp.Navigate("about:blank"),
		chromedp.ActionFunc(func(ctx context.Context) error {
			tree, err := page.GetFrameTree().Do(ctx)
			if err != nil {
				return err
			}
			return page.SetDocumentContent(tree.Frame.ID, html).Do(ctx)
		}),
		chromedp.WaitReady("body", chromedp.ByQuery),
	)

	if tracker != nil {
		actions = append(actions, chromedp.ActionFunc(func(ctx context.Context) error {
			return tracker.wait(ctx, s.idleWindow)
		}))
	} else {
		actions = append(actions, chromedp.ActionFunc(waitDocumentComplete))
	}

	if err := s.run(ctx, actions...); err != nil {
		return fmt.Errorf("failed to load document: %w", err)
	}
	return nil
}

// waitDocumentComplete polls document.readyState until the load event has fired.
func waitDocumentComplete(ctx context.Context) error {
	ticker := time.NewTicker(25 * time.Millisecond)
	defer ticker.Stop()
	for {
		var state string
		if err := chromedp.Evaluate(`document.readyState`, &state).Do(ctx); err != nil {
			return err
		}
		if state == "complete" {
			return nil
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}

func (s *chromeSession) Print(ctx context.Context, opts PrintOptions) ([]byte, error) {
	var pdf []byte
	err := s.run(ctx, chromedp.ActionFunc(func(ctx context.Context) error {
		params := page.PrintToPDF().
			WithPrintBackground(opts.PrintBackground).
			WithPreferCSSPageSize(opts.PreferCSSPageSize)
		if opts.PaperWidth > 0 && opts.PaperHeight > 0 {
			params = params.WithPaperWidth(opts.PaperWidth).WithPaperHeight(opts.PaperHeight)
		}
		var err error
		pdf, _, err = params.Do(ctx)
		return err
	}))
	if err != nil {
		return nil, fmt.Errorf("failed to print pdf: %w", err)
	}
	return pdf, nil
}

// Close shuts the browser down and waits for the process to exit.
func (s *chromeSession) Close() error {
	s.closeOnce.Do(func() {
		// Cancel asks the browser to close gracefully before the allocator kills it.
		if err := chromedp.Cancel(s.ctx); err != nil && !errors.Is(err, context.Canceled) && !errors.Is(err, context.DeadlineExceeded) {
			s.closeErr = err
		}
		s.tabCancel()
		s.allocCancel()
		liveEngines.Add(-1)
	})
	return s.closeErr
}
