package export

import (
	"context"
	"runtime"

	"golang.org/x/sync/semaphore"
)

const maxPoolSize = 8

// ResolvePoolSize returns n when positive, otherwise GOMAXPROCS/2 clamped to [1, 8].
// Each concurrent export is a full browser process, so the default stays small.
func ResolvePoolSize(n int) int {
	if n > 0 {
		return n
	}
	size := runtime.GOMAXPROCS(0) / 2
	if size < 1 {
		size = 1
	}
	if size > maxPoolSize {
		size = maxPoolSize
	}
	return size
}

// Limited bounds how many exports run at once. Callers beyond the bound wait
// for a slot or for their context to end.
type Limited struct {
	inner Exporter
	sem   *semaphore.Weighted
	size  int
}

// NewLimited wraps inner with a concurrency bound of ResolvePoolSize(n).
func NewLimited(inner Exporter, n int) *Limited {
	size := ResolvePoolSize(n)
	return &Limited{
		inner: inner,
		sem:   semaphore.NewWeighted(int64(size)),
		size:  size,
	}
}

// Size returns the concurrency bound.
func (l *Limited) Size() int {
	return l.size
}

func (l *Limited) Export(ctx context.Context, html string) ([]byte, error) {
	if err := l.sem.Acquire(ctx, 1); err != nil {
		return nil, &ExportFailedError{Stage: StageQueue, Cause: err}
	}
	defer l.sem.Release(1)
	return l.inner.Export(ctx, html)
}
