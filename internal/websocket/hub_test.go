package websocket

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func recvWithin(t *testing.T, ch chan []byte, d time.Duration) []byte {
	t.Helper()
	select {
	case msg := <-ch:
		return msg
	case <-time.After(d):
		t.Fatal("no message received")
		return nil
	}
}

func TestBroadcastToConcurrentWithChurn(t *testing.T) {
	h := NewHub()
	go h.Run()

	watcher := &Client{Hub: h, Send: make(chan []byte, 256), PromptID: "p1"}
	h.Register <- watcher

	// Register/unregister other watchers of the same prompt while targeted
	// sends are in flight. All map access must stay on the Run goroutine.
	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := 0; i < 100; i++ {
			c := &Client{Hub: h, Send: make(chan []byte, 1), PromptID: "p1"}
			h.Register <- c
			h.Unregister <- c
		}
	}()

	for i := 0; i < 100; i++ {
		h.BroadcastTo("p1", []byte("ping"))
	}
	<-done

	assert.Equal(t, []byte("ping"), recvWithin(t, watcher.Send, time.Second))
}

func TestWatcherReceivesEventOnce(t *testing.T) {
	h := NewHub()
	go h.Run()

	feed := &Client{Hub: h, Send: make(chan []byte, 8)}
	watcher := &Client{Hub: h, Send: make(chan []byte, 8), PromptID: "p1"}
	h.Register <- feed
	h.Register <- watcher

	// The mutation paths publish globally and then to the prompt's
	// watchers; each client must see the event exactly once.
	h.Broadcast <- []byte("updated")
	h.BroadcastTo("p1", []byte("updated"))

	require.Equal(t, []byte("updated"), recvWithin(t, feed.Send, time.Second))
	require.Equal(t, []byte("updated"), recvWithin(t, watcher.Send, time.Second))

	select {
	case extra := <-feed.Send:
		t.Fatalf("feed client received an extra message: %q", extra)
	case extra := <-watcher.Send:
		t.Fatalf("watcher received an extra message: %q", extra)
	case <-time.After(100 * time.Millisecond):
	}
}

func TestBroadcastToUnknownPromptIsDropped(t *testing.T) {
	h := NewHub()
	go h.Run()

	feed := &Client{Hub: h, Send: make(chan []byte, 8)}
	h.Register <- feed

	h.BroadcastTo("no-such-prompt", []byte("ping"))
	h.Broadcast <- []byte("real")

	assert.Equal(t, []byte("real"), recvWithin(t, feed.Send, time.Second))
}
