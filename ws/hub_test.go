package ws_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ViniZap4/lumi-notes/domain"
	"github.com/ViniZap4/lumi-notes/ws"
)

type fakeClient struct {
	mu       sync.Mutex
	received []ws.Message
	writeErr error
	deadline time.Time
	closed   bool
	inbox    chan map[string]any
}

func newFakeClient() *fakeClient {
	return &fakeClient{inbox: make(chan map[string]any)}
}

func (c *fakeClient) WriteJSON(v any) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.writeErr != nil {
		return c.writeErr
	}
	c.received = append(c.received, v.(ws.Message))
	return nil
}

func (c *fakeClient) ReadJSON(v any) error {
	msg, ok := <-c.inbox
	if !ok {
		return errors.New("connection closed")
	}
	*(v.(*map[string]any)) = msg
	return nil
}

func (c *fakeClient) SetWriteDeadline(t time.Time) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.deadline = t
	return nil
}

func (c *fakeClient) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = true
	return nil
}

func (c *fakeClient) messages() []ws.Message {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]ws.Message(nil), c.received...)
}

func (c *fakeClient) isClosed() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.closed
}

func startHub(t *testing.T, opts ...ws.Option) *ws.Hub {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	h := ws.NewHub(opts...)
	go h.Run(ctx)
	t.Cleanup(cancel)
	return h
}

func TestPublishReachesEveryClient(t *testing.T) {
	h := startHub(t)
	a, b := newFakeClient(), newFakeClient()
	h.Register(a)
	h.Register(b)

	h.Publish(ws.NoteCreated, domain.Note{ID: "1", Title: "A", Content: "B"})

	for _, c := range []*fakeClient{a, b} {
		require.Eventually(t, func() bool { return len(c.messages()) == 1 }, time.Second, 5*time.Millisecond)
		msg := c.messages()[0]
		assert.Equal(t, ws.NoteCreated, msg.Type)
		assert.Equal(t, "1", msg.Note.ID)
	}
}

func TestFailingClientIsDropped(t *testing.T) {
	var mu sync.Mutex
	var counts []int
	h := startHub(t, ws.WithClientGauge(func(n int) {
		mu.Lock()
		counts = append(counts, n)
		mu.Unlock()
	}))

	bad := newFakeClient()
	bad.writeErr = errors.New("broken pipe")
	h.Register(bad)

	h.Publish(ws.NoteDeleted, domain.Note{ID: "3"})

	require.Eventually(t, bad.isClosed, time.Second, 5*time.Millisecond)
	assert.Eventually(t, func() bool { return h.Count() == 0 }, time.Second, 5*time.Millisecond)

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, []int{1, 0}, counts)
}

func TestHandleConnectionUnregistersOnReadError(t *testing.T) {
	h := startHub(t)
	c := newFakeClient()
	h.Register(c)

	done := make(chan struct{})
	go func() {
		h.HandleConnection(c)
		close(done)
	}()

	c.inbox <- map[string]any{"type": "subscribe"}
	close(c.inbox)

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("HandleConnection did not return")
	}
	// The hub is finished with c by the time HandleConnection returns.
	assert.True(t, c.isClosed())
	assert.Zero(t, h.Count())
}

func TestPublishSetsWriteDeadline(t *testing.T) {
	h := startHub(t)
	c := newFakeClient()
	h.Register(c)

	before := time.Now()
	h.Publish(ws.NoteUpdated, domain.Note{ID: "1"})

	require.Eventually(t, func() bool { return len(c.messages()) == 1 }, time.Second, 5*time.Millisecond)
	c.mu.Lock()
	defer c.mu.Unlock()
	assert.True(t, c.deadline.After(before))
}

// stalledClient blocks in WriteJSON until released.
type stalledClient struct {
	*fakeClient
	writing chan struct{}
	release chan struct{}
}

func (c *stalledClient) WriteJSON(v any) error {
	close(c.writing)
	<-c.release
	return c.fakeClient.WriteJSON(v)
}

func TestStalledWriteDoesNotLockCount(t *testing.T) {
	h := startHub(t)
	c := &stalledClient{fakeClient: newFakeClient(), writing: make(chan struct{}), release: make(chan struct{})}
	h.Register(c)

	h.Publish(ws.NoteCreated, domain.Note{ID: "1"})
	<-c.writing

	counted := make(chan int)
	go func() { counted <- h.Count() }()
	select {
	case n := <-counted:
		assert.Equal(t, 1, n)
	case <-time.After(time.Second):
		t.Fatal("Count blocked behind a stalled write")
	}
	close(c.release)
}

func TestRunClosesClientsOnShutdown(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	h := ws.NewHub()
	stopped := make(chan struct{})
	go func() {
		h.Run(ctx)
		close(stopped)
	}()

	c := newFakeClient()
	h.Register(c)
	cancel()
	<-stopped

	assert.True(t, c.isClosed())

	late := newFakeClient()
	h.Register(late)
	h.Unregister(late)
	assert.True(t, late.isClosed())
}
