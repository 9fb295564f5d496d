package live

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
)

func newTestHub(t *testing.T) *Hub {
	t.Helper()
	hub := NewHub(slog.New(slog.NewTextHandler(io.Discard, nil)))
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	go hub.Run(ctx)
	return hub
}

func dial(t *testing.T, hub *Hub, albumID uint) *websocket.Conn {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := hub.Serve(w, r, albumID); err != nil {
			t.Errorf("Serve() error = %v", err)
		}
	}))
	t.Cleanup(srv.Close)

	conn, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(srv.URL, "http"), nil)
	if err != nil {
		t.Fatalf("Dial() error = %v", err)
	}
	t.Cleanup(func() { conn.Close() })
	return conn
}

func waitForClients(t *testing.T, hub *Hub, albumID uint, want int) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for hub.Count(albumID) != want {
		if time.Now().After(deadline) {
			t.Fatalf("Count(%d) = %d, want %d", albumID, hub.Count(albumID), want)
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func TestHubDeliversToAlbumClients(t *testing.T) {
	hub := newTestHub(t)

	watcher := dial(t, hub, 1)
	other := dial(t, hub, 2)
	waitForClients(t, hub, 1, 1)
	waitForClients(t, hub, 2, 1)

	hub.Publish(&Event{Type: EventVoteCast, AlbumID: 1, PhotoID: 9, Data: map[string]int{"score": 3}})

	watcher.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, msg, err := watcher.ReadMessage()
	if err != nil {
		t.Fatalf("ReadMessage() error = %v", err)
	}

	var got struct {
		Type    string         `json:"type"`
		AlbumID uint           `json:"albumId"`
		PhotoID uint           `json:"photoId"`
		Data    map[string]int `json:"data"`
	}
	if err := json.Unmarshal(msg, &got); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}
	if got.Type != EventVoteCast || got.AlbumID != 1 || got.PhotoID != 9 || got.Data["score"] != 3 {
		t.Errorf("event = %+v", got)
	}

	// The client of another album must not see the event.
	other.SetReadDeadline(time.Now().Add(100 * time.Millisecond))
	if _, _, err := other.ReadMessage(); err == nil {
		t.Error("client of album 2 received an album 1 event")
	}
}

func TestHubUnregistersClosedClients(t *testing.T) {
	hub := newTestHub(t)

	conn := dial(t, hub, 5)
	waitForClients(t, hub, 5, 1)

	conn.Close()
	waitForClients(t, hub, 5, 0)
}

func TestPublishWithoutClients(t *testing.T) {
	hub := newTestHub(t)

	ev := &Event{Type: EventVoteCast, AlbumID: 3}
	hub.Publish(ev)
	if ev.Timestamp.IsZero() {
		t.Error("Publish() did not stamp the event")
	}
}

func TestPublishNeverBlocks(t *testing.T) {
	// No Run loop: the queue fills and further events are dropped.
	hub := NewHub(slog.New(slog.NewTextHandler(io.Discard, nil)))

	done := make(chan struct{})
	go func() {
		for i := 0; i < cap(hub.broadcast)+10; i++ {
			hub.Publish(&Event{Type: EventVoteCast, AlbumID: 1})
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Publish() blocked on a full queue")
	}
}
