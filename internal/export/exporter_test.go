package export

import (
	"bytes"
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeEngine struct {
	mu        sync.Mutex
	launchErr error
	loadErr   error
	printErr  error
	output    []byte
	panicOn   string

	launches int
	sessions []*fakeSession
	loaded   []string
}

func (f *fakeEngine) Launch(ctx context.Context) (Session, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.launches++
	if f.launchErr != nil {
		return nil, f.launchErr
	}
	s := &fakeSession{engine: f}
	f.sessions = append(f.sessions, s)
	return s, nil
}

func (f *fakeEngine) live() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, s := range f.sessions {
		if !s.closed {
			n++
		}
	}
	return n
}

type fakeSession struct {
	engine *fakeEngine
	closed bool
	closes int
}

func (s *fakeSession) Load(ctx context.Context, html string) error {
	if s.engine.panicOn == "load" {
		panic("engine crashed")
	}
	s.engine.mu.Lock()
	s.engine.loaded = append(s.engine.loaded, html)
	s.engine.mu.Unlock()
	return s.engine.loadErr
}

func (s *fakeSession) Print(ctx context.Context, opts PrintOptions) ([]byte, error) {
	if s.engine.printErr != nil {
		return nil, s.engine.printErr
	}
	if s.engine.output != nil {
		return s.engine.output, nil
	}
	return []byte("%PDF-1.7 fake"), nil
}

func (s *fakeSession) Close() error {
	s.engine.mu.Lock()
	defer s.engine.mu.Unlock()
	s.closed = true
	s.closes++
	return nil
}

func recordStates() (*[]State, ExporterOption) {
	var states []State
	return &states, WithObserver(func(s State) { states = append(states, s) })
}

func TestChromeExporter_Success(t *testing.T) {
	engine := &fakeEngine{}
	states, observe := recordStates()
	exp := NewChromeExporter(engine, observe)

	pdf, err := exp.Export(context.Background(), "<html><body>hi</body></html>")
	require.NoError(t, err)

	assert.True(t, bytes.HasPrefix(pdf, []byte("%PDF-")))
	assert.Equal(t, []string{"<html><body>hi</body></html>"}, engine.loaded)
	assert.Equal(t, []State{StateIdle, StateEngineLaunching, StateContentLoaded, StatePrinting, StateClosed}, *states)
	assert.Equal(t, 0, engine.live())
	assert.Equal(t, 1, engine.sessions[0].closes)
}

func TestChromeExporter_LaunchFailure(t *testing.T) {
	engine := &fakeEngine{launchErr: errors.New("no chrome")}
	states, observe := recordStates()
	exp := NewChromeExporter(engine, observe)

	pdf, err := exp.Export(context.Background(), "<html></html>")
	require.Error(t, err)
	assert.Nil(t, pdf)

	var failed *ExportFailedError
	require.ErrorAs(t, err, &failed)
	assert.Equal(t, StageLaunch, failed.Stage)
	assert.EqualError(t, failed.Cause, "no chrome")
	assert.Equal(t, StateClosed, (*states)[len(*states)-1])
	assert.Equal(t, 1, engine.launches, "no retry")
}

func TestChromeExporter_LoadFailureClosesEngine(t *testing.T) {
	engine := &fakeEngine{loadErr: errors.New("navigation failed")}
	states, observe := recordStates()
	exp := NewChromeExporter(engine, observe)

	_, err := exp.Export(context.Background(), "<html></html>")

	var failed *ExportFailedError
	require.ErrorAs(t, err, &failed)
	assert.Equal(t, StageLoad, failed.Stage)
	assert.Equal(t, 0, engine.live())
	assert.Equal(t, []State{StateIdle, StateEngineLaunching, StateClosed}, *states)
	assert.Equal(t, 1, engine.launches)
}

func TestChromeExporter_PrintFailureClosesEngine(t *testing.T) {
	engine := &fakeEngine{printErr: errors.New("printing failed")}
	exp := NewChromeExporter(engine)

	pdf, err := exp.Export(context.Background(), "<html></html>")

	var failed *ExportFailedError
	require.ErrorAs(t, err, &failed)
	assert.Equal(t, StagePrint, failed.Stage)
	assert.Nil(t, pdf, "no partial output")
	assert.Equal(t, 0, engine.live())
	assert.Equal(t, 1, engine.launches, "no retry")
}

func TestChromeExporter_RejectsNonPDFOutput(t *testing.T) {
	engine := &fakeEngine{output: []byte("<html>not a pdf</html>")}
	exp := NewChromeExporter(engine)

	pdf, err := exp.Export(context.Background(), "<html></html>")

	var failed *ExportFailedError
	require.ErrorAs(t, err, &failed)
	assert.Equal(t, StageVerify, failed.Stage)
	assert.Nil(t, pdf)
	assert.Equal(t, 0, engine.live())
}

func TestChromeExporter_PanicStillClosesEngine(t *testing.T) {
	engine := &fakeEngine{panicOn: "load"}
	exp := NewChromeExporter(engine)

	assert.Panics(t, func() {
		_, _ = exp.Export(context.Background(), "<html></html>")
	})
	assert.Equal(t, 0, engine.live())
}

func TestChromeExporter_CancelledContext(t *testing.T) {
	engine := &fakeEngine{}
	exp := NewChromeExporter(engine)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := exp.Export(ctx, "<html></html>")
	require.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 0, engine.launches)
}

func TestChromeExporter_IndependentCalls(t *testing.T) {
	engine := &fakeEngine{}
	exp := NewChromeExporter(engine)

	var wg sync.WaitGroup
	for i := 0; i < 5; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := exp.Export(context.Background(), "<html></html>")
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	assert.Equal(t, 5, engine.launches, "one engine per call")
	assert.Equal(t, 0, engine.live())
}

func TestExportFailedError_Message(t *testing.T) {
	err := &ExportFailedError{Stage: StagePrint, Cause: errors.New("boom")}
	assert.Equal(t, "export failed at print: boom", err.Error())
	assert.Equal(t, "export failed at launch", (&ExportFailedError{Stage: StageLaunch}).Error())
}

func TestParseReadySignal(t *testing.T) {
	tests := []struct {
		in      string
		want    ReadySignal
		wantErr bool
	}{
		{"", ReadyNetworkIdle, false},
		{"networkidle", ReadyNetworkIdle, false},
		{" Load ", ReadyLoad, false},
		{"domcontentloaded", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseReadySignal(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDefaultPrintOptions_A4(t *testing.T) {
	opts := DefaultPrintOptions()
	assert.Equal(t, 8.27, opts.PaperWidth)
	assert.Equal(t, 11.69, opts.PaperHeight)
	assert.True(t, opts.PrintBackground)
	assert.True(t, opts.PreferCSSPageSize)
}
