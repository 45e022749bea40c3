package notify

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"sync"
	"time"

	"bizdesk/internal/config"
	"bizdesk/internal/dbmysql"

	"github.com/gorilla/websocket"
)

const pingInterval = 30 * time.Second

// Hub is the live delivery channel: a registry of websocket sessions keyed
// by user id and role. It is strictly an optimization over the polling API;
// every failure path drops the push and lets clients re-fetch.
type Hub struct {
	mu           sync.RWMutex
	users        map[uint64]map[*session]struct{}
	roles        map[string]map[*session]struct{}
	sendBuffer   int
	writeTimeout time.Duration
	upgrader     websocket.Upgrader
}

type session struct {
	conn   *websocket.Conn
	send   chan []byte
	userID uint64
	role   string
	done   chan struct{}
	once   sync.Once
}

func NewHub(cfg *config.Config) *Hub {
	writeTimeout := time.Duration(cfg.Push.WriteTimeout) * time.Second
	if writeTimeout <= 0 {
		writeTimeout = 5 * time.Second
	}

	return &Hub{
		users:        make(map[uint64]map[*session]struct{}),
		roles:        make(map[string]map[*session]struct{}),
		sendBuffer:   cfg.Push.SendBuffer,
		writeTimeout: writeTimeout,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
		},
	}
}

// ServeWS upgrades the request and subscribes the caller's session to its
// private stream and its role's broadcast topic.
func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request, userID uint64, role string) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("Failed to upgrade websocket connection: %v", err)
		return
	}

	s := &session{
		conn:   conn,
		send:   make(chan []byte, h.sendBuffer),
		userID: userID,
		role:   role,
		done:   make(chan struct{}),
	}

	h.register(s)
	log.Printf("Push session opened: user=%d role=%s", userID, role)

	go h.writePump(s)
	go h.readPump(s)
}

// Push fans the notification out to the target's active sessions. Sessions
// with a full buffer are skipped; the polling path is the correctness
// fallback, so nothing here retries.
func (h *Hub) Push(n *dbmysql.Notification) error {
	payload, err := json.Marshal(n)
	if err != nil {
		return fmt.Errorf("failed to encode push payload: %w", err)
	}

	for _, s := range h.targets(n) {
		select {
		case s.send <- payload:
		default:
			log.Printf("Push buffer full, dropping notification %s for user=%d", n.ID, s.userID)
		}
	}

	return nil
}

// Sessions reports the number of open push sessions.
func (h *Hub) Sessions() int {
	h.mu.RLock()
	defer h.mu.RUnlock()

	count := 0
	for _, set := range h.users {
		count += len(set)
	}
	return count
}

// Shutdown closes every open session.
func (h *Hub) Shutdown() {
	h.mu.RLock()
	sessions := make([]*session, 0)
	for _, set := range h.users {
		for s := range set {
			sessions = append(sessions, s)
		}
	}
	h.mu.RUnlock()

	for _, s := range sessions {
		h.unregister(s)
	}
}

func (h *Hub) targets(n *dbmysql.Notification) []*session {
	h.mu.RLock()
	defer h.mu.RUnlock()

	var out []*session
	if n.TargetUserID != nil {
		for s := range h.users[*n.TargetUserID] {
			out = append(out, s)
		}
		return out
	}
	if n.TargetRole != nil {
		for s := range h.roles[*n.TargetRole] {
			out = append(out, s)
		}
	}
	return out
}

func (h *Hub) register(s *session) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.users[s.userID] == nil {
		h.users[s.userID] = make(map[*session]struct{})
	}
	h.users[s.userID][s] = struct{}{}

	if h.roles[s.role] == nil {
		h.roles[s.role] = make(map[*session]struct{})
	}
	h.roles[s.role][s] = struct{}{}
}

func (h *Hub) unregister(s *session) {
	h.mu.Lock()
	if set := h.users[s.userID]; set != nil {
		delete(set, s)
		if len(set) == 0 {
			delete(h.users, s.userID)
		}
	}
	if set := h.roles[s.role]; set != nil {
		delete(set, s)
		if len(set) == 0 {
			delete(h.roles, s.role)
		}
	}
	h.mu.Unlock()

	s.once.Do(func() {
		close(s.done)
		s.conn.Close()
	})
}

func (h *Hub) writePump(s *session) {
	ticker := time.NewTicker(pingInterval)
	defer ticker.Stop()

	for {
		select {
		case payload := <-s.send:
			s.conn.SetWriteDeadline(time.Now().Add(h.writeTimeout))
			if err := s.conn.WriteMessage(websocket.TextMessage, payload); err != nil {
				log.Printf("Push write failed for user=%d: %v", s.userID, err)
				h.unregister(s)
				return
			}
		case <-ticker.C:
			s.conn.SetWriteDeadline(time.Now().Add(h.writeTimeout))
			if err := s.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				h.unregister(s)
				return
			}
		case <-s.done:
			return
		}
	}
}

// readPump discards inbound frames; the channel is push only. A read error
// means the client went away.
func (h *Hub) readPump(s *session) {
	for {
		if _, _, err := s.conn.ReadMessage(); err != nil {
			h.unregister(s)
			return
		}
	}
}
