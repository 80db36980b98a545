package export

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"os/exec"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// chromePath locates a Chrome binary or skips the test.
func chromePath(t *testing.T) string {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping browser test in short mode")
	}
	if p := os.Getenv("CHROME_PATH"); p != "" {
		return p
	}
	for _, name := range []string{"headless-shell", "chromium", "chromium-browser", "google-chrome", "google-chrome-stable"} {
		if p, err := exec.LookPath(name); err == nil {
			return p
		}
	}
	t.Skip("no Chrome binary found; set CHROME_PATH to run browser tests")
	return ""
}

const integrationDoc = `<!doctype html><html><head><style>@page { size: A4; } body { background: #eee; }</style></head>
<body><h1>Ada Lovelace</h1><ul class="bullets"><li>Notes on the engine</li></ul></body></html>`

func TestChromeEngine_ExportsPDF(t *testing.T) {
	path := chromePath(t)

	for _, ready := range []ReadySignal{ReadyNetworkIdle, ReadyLoad} {
		t.Run(string(ready), func(t *testing.T) {
			before := LiveEngines()
			exp := NewChromeExporter(NewChromeEngine(path, ready))

			ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
			defer cancel()

			pdf, err := exp.Export(ctx, integrationDoc)
			require.NoError(t, err)
			assert.True(t, bytes.HasPrefix(pdf, []byte("%PDF-")))
			assert.Equal(t, before, LiveEngines())
		})
	}
}

func TestChromeEngine_TimeoutReleasesBrowser(t *testing.T) {
	path := chromePath(t)
	before := LiveEngines()

	// A request that never completes keeps the network busy past the deadline.
	hang := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	defer hang.Close()
	doc := `<html><body><img src="` + hang.URL + `/never.png"></body></html>`
	exp := NewChromeExporter(NewChromeEngine(path, ReadyNetworkIdle))

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	_, err := exp.Export(ctx, doc)
	require.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Equal(t, before, LiveEngines())
}
