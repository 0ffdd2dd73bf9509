package persist

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

// FeedEventType names a change announced on the feed.
type FeedEventType string

const (
	FeedSaved    FeedEventType = "saved"
	FeedFeatured FeedEventType = "featured"
	FeedDeleted  FeedEventType = "deleted"
)

// FeedEvent is one JSON message on the feed.
type FeedEvent struct {
	Type FeedEventType `json:"type"`
	ID   string        `json:"id"`
	Date time.Time     `json:"date"`
}

const (
	feedSendBuffer   = 16
	feedWriteTimeout = 10 * time.Second
	feedMaxMessage   = 512
)

// Feed broadcasts FeedEvents to websocket subscribers. Slow subscribers
// whose buffer fills up are disconnected.
type Feed struct {
	upgrader websocket.Upgrader
	logger   *slog.Logger

	mu      sync.Mutex
	clients map[*feedClient]struct{}
}

type feedClient struct {
	conn *websocket.Conn
	send chan []byte
}

// NewFeed returns a Feed with no subscribers. A nil logger uses
// slog.Default().
func NewFeed(logger *slog.Logger) *Feed {
	if logger == nil {
		logger = slog.Default()
	}
	return &Feed{
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(*http.Request) bool { return true },
		},
		logger:  logger,
		clients: make(map[*feedClient]struct{}),
	}
}

// ClientCount returns the number of connected subscribers.
func (f *Feed) ClientCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.clients)
}

// Publish sends e to every subscriber without blocking.
func (f *Feed) Publish(e FeedEvent) {
	msg, err := json.Marshal(e)
	if err != nil {
		f.logger.Error("feed: marshal", "err", err)
		return
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	for c := range f.clients {
		select {
		case c.send <- msg:
		default:
			f.logger.Warn("feed: dropping slow subscriber", "remote", c.conn.RemoteAddr().String())
			f.removeLocked(c)
		}
	}
}

// ServeHTTP upgrades the request and streams events until the peer goes away.
func (f *Feed) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := f.upgrader.Upgrade(w, r, nil)
	if err != nil {
		f.logger.Warn("feed: upgrade", "err", err)
		return
	}
	c := &feedClient{conn: conn, send: make(chan []byte, feedSendBuffer)}
	f.mu.Lock()
	f.clients[c] = struct{}{}
	f.mu.Unlock()

	go f.writeLoop(c)
	f.readLoop(c)
}

// Close disconnects every subscriber.
func (f *Feed) Close() {
	f.mu.Lock()
	defer f.mu.Unlock()
	for c := range f.clients {
		f.removeLocked(c)
	}
}

// readLoop discards incoming messages and unregisters on error.
func (f *Feed) readLoop(c *feedClient) {
	defer func() {
		f.mu.Lock()
		f.removeLocked(c)
		f.mu.Unlock()
		c.conn.Close()
	}()
	c.conn.SetReadLimit(feedMaxMessage)
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				f.logger.Warn("feed: read", "err", err)
			}
			return
		}
	}
}

func (f *Feed) writeLoop(c *feedClient) {
	defer c.conn.Close()
	for msg := range c.send {
		c.conn.SetWriteDeadline(time.Now().Add(feedWriteTimeout))
		if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
			return
		}
	}
	c.conn.WriteControl(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
		time.Now().Add(feedWriteTimeout))
}

// removeLocked unregisters c. f.mu must be held.
func (f *Feed) removeLocked(c *feedClient) {
	if _, ok := f.clients[c]; !ok {
		return
	}
	delete(f.clients, c)
	close(c.send)
}

// Subscribe connects to a feed at wsURL (ws:// or wss://) and returns a
// channel of events. The channel is closed when ctx is done or the
// connection drops.
func Subscribe(ctx context.Context, wsURL string) (<-chan FeedEvent, error) {
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, wsURL, nil)
	if err != nil {
		return nil, &PersistenceError{Op: "subscribe", Err: err}
	}
	out := make(chan FeedEvent, feedSendBuffer)
	done := make(chan struct{})
	go func() {
		select {
		case <-ctx.Done():
			conn.Close()
		case <-done:
		}
	}()
	go func() {
		defer close(out)
		defer close(done)
		defer conn.Close()
		for {
			var e FeedEvent
			if err := conn.ReadJSON(&e); err != nil {
				return
			}
			select {
			case out <- e:
			case <-ctx.Done():
				return
			}
		}
	}()
	return out, nil
}
