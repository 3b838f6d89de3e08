package inspect

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"net/url"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

// StreamMessageType identifies a message on the change stream.
type StreamMessageType string

const (
	// StreamTypeHello carries the client's ID and the state of every
	// registered subject. It is always the first message.
	StreamTypeHello StreamMessageType = "hello"

	// StreamTypeChange carries one ChangeEvent.
	StreamTypeChange StreamMessageType = "change"
)

// StreamMessage is sent to websocket clients.
type StreamMessage struct {
	Type     StreamMessageType `json:"type"`
	Client   string            `json:"client,omitempty"`
	Subjects []SubjectInfo     `json:"subjects,omitempty"`
	Change   *ChangeEvent      `json:"change,omitempty"`
}

const (
	defaultStreamBuffer = 64
	streamWriteTimeout  = 5 * time.Second
)

// Stream fans change events out to websocket clients. Broadcast never
// blocks: a client whose buffer is full misses the event.
type Stream struct {
	clients  map[uuid.UUID]*streamClient
	mu       sync.RWMutex
	upgrader websocket.Upgrader
	buffer   int
	logger   *slog.Logger
	dropped  atomic.Uint64
	closed   bool

	// origins, when non-empty, lists the browser origins allowed to
	// connect. Otherwise only same-origin requests are accepted.
	origins map[string]bool
}

type streamClient struct {
	id   uuid.UUID
	conn *websocket.Conn
	send chan []byte

	// left is set once the client has been dropped; join refuses it then.
	// Guarded by Stream.mu.
	left bool
}

// NewStream creates a stream whose clients buffer up to buffer messages.
func NewStream(buffer int, logger *slog.Logger) *Stream {
	if buffer <= 0 {
		buffer = defaultStreamBuffer
	}
	if logger == nil {
		logger = slog.Default()
	}
	s := &Stream{
		clients: make(map[uuid.UUID]*streamClient),
		buffer:  buffer,
		logger:  logger,
	}
	s.upgrader = websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin:     s.checkOrigin,
	}
	return s
}

// AllowOrigins replaces the same-origin rule with an explicit list of
// origins such as "http://localhost:3000". Call it before serving.
func (s *Stream) AllowOrigins(origins ...string) {
	s.origins = make(map[string]bool, len(origins))
	for _, o := range origins {
		s.origins[o] = true
	}
	if len(s.origins) == 0 {
		s.origins = nil
	}
}

func (s *Stream) checkOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" {
		// Non-browser clients send no Origin.
		return true
	}
	if s.origins != nil {
		return s.origins[origin]
	}
	u, err := url.Parse(origin)
	if err != nil || r.Host == "" {
		return false
	}
	return u.Host == r.Host
}

// upgrade accepts a websocket connection. The client is not yet
// registered; join does that.
func (s *Stream) upgrade(w http.ResponseWriter, r *http.Request) (*streamClient, error) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		return nil, err
	}
	return &streamClient{
		id:   uuid.New(),
		conn: conn,
		send: make(chan []byte, s.buffer),
	}, nil
}

// join registers c and queues its hello message. Callers run it on the
// loop so no change event can slip between the hello state and the
// registration. It returns false, registering nothing, if c already left
// or the stream is closed.
func (s *Stream) join(c *streamClient, subjects []SubjectInfo) bool {
	data, err := json.Marshal(StreamMessage{
		Type:     StreamTypeHello,
		Client:   c.id.String(),
		Subjects: subjects,
	})

	s.mu.Lock()
	if c.left || s.closed {
		s.mu.Unlock()
		return false
	}
	if err == nil {
		select {
		case c.send <- data:
		default:
		}
	}
	s.clients[c.id] = c
	s.mu.Unlock()
	s.logger.Debug("inspector client connected", "client", c.id)
	return true
}

// serve pumps c until the connection closes.
func (s *Stream) serve(c *streamClient) {
	go s.writePump(c)

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			break
		}
	}
	s.leave(c)
}

func (s *Stream) writePump(c *streamClient) {
	for data := range c.send {
		_ = c.conn.SetWriteDeadline(time.Now().Add(streamWriteTimeout))
		if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
			s.logger.Debug("inspector write failed", "client", c.id, "error", err)
			c.conn.Close()
			return
		}
	}
	_ = c.conn.WriteMessage(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
	c.conn.Close()
}

func (s *Stream) leave(c *streamClient) {
	s.mu.Lock()
	c.left = true
	if _, ok := s.clients[c.id]; ok {
		delete(s.clients, c.id)
		close(c.send)
	}
	s.mu.Unlock()
	c.conn.Close()
	s.logger.Debug("inspector client disconnected", "client", c.id)
}

// Broadcast sends ev to every connected client.
func (s *Stream) Broadcast(ev ChangeEvent) {
	data, err := json.Marshal(StreamMessage{Type: StreamTypeChange, Change: &ev})
	if err != nil {
		return
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	for id, c := range s.clients {
		select {
		case c.send <- data:
		default:
			s.dropped.Add(1)
			s.logger.Debug("inspector client too slow, event dropped",
				"client", id, "subject", ev.Subject, "seq", ev.Seq)
		}
	}
}

// ClientCount returns the number of connected clients.
func (s *Stream) ClientCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.clients)
}

// Dropped returns how many events were dropped for slow clients.
func (s *Stream) Dropped() uint64 {
	return s.dropped.Load()
}

// Close disconnects every client.
func (s *Stream) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.closed = true
	for id, c := range s.clients {
		delete(s.clients, id)
		c.left = true
		close(c.send)
	}
}
