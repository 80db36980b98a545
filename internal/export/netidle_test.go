package export

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/chromedp/cdproto/network"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func newTestTracker() (*idleTracker, *fakeClock) {
	clock := &fakeClock{now: time.Unix(0, 0)}
	tr := newIdleTracker()
	tr.now = clock.Now
	tr.lastActivity = clock.Now()
	return tr, clock
}

func TestIdleTracker_QuietWindowRequired(t *testing.T) {
	tr, clock := newTestTracker()

	assert.False(t, tr.idleFor(500*time.Millisecond))
	clock.Advance(500 * time.Millisecond)
	assert.True(t, tr.idleFor(500*time.Millisecond))
}

func TestIdleTracker_InflightRequestBlocksIdle(t *testing.T) {
	tr, clock := newTestTracker()

	tr.handle(&network.EventRequestWillBeSent{RequestID: "font"})
	clock.Advance(time.Second)
	assert.False(t, tr.idleFor(500*time.Millisecond), "request still in flight")

	tr.handle(&network.EventLoadingFinished{RequestID: "font"})
	assert.False(t, tr.idleFor(500*time.Millisecond), "window restarts on completion")

	clock.Advance(500 * time.Millisecond)
	assert.True(t, tr.idleFor(500*time.Millisecond))
}

func TestIdleTracker_FailedRequestCountsAsDone(t *testing.T) {
	tr, clock := newTestTracker()

	tr.handle(&network.EventRequestWillBeSent{RequestID: "img"})
	tr.handle(&network.EventLoadingFailed{RequestID: "img"})
	clock.Advance(500 * time.Millisecond)
	assert.True(t, tr.idleFor(500*time.Millisecond))
}

func TestIdleTracker_IgnoresOtherEvents(t *testing.T) {
	tr, clock := newTestTracker()

	tr.handle(&network.EventResponseReceived{RequestID: "x"})
	tr.handle("not an event")
	clock.Advance(500 * time.Millisecond)
	assert.True(t, tr.idleFor(500*time.Millisecond))
}

func TestIdleTracker_WaitReturnsWhenIdle(t *testing.T) {
	tr := newIdleTracker()

	start := time.Now()
	require.NoError(t, tr.wait(context.Background(), 50*time.Millisecond))
	assert.GreaterOrEqual(t, time.Since(start), 40*time.Millisecond)
}

func TestIdleTracker_WaitHonoursContext(t *testing.T) {
	tr := newIdleTracker()
	tr.handle(&network.EventRequestWillBeSent{RequestID: "hanging"})

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	err := tr.wait(ctx, 10*time.Millisecond)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}
