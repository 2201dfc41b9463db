package share

import (
	"fmt"
	"log"
	"net"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"
	"github.com/hashicorp/mdns"

	"inknote/internal/stroke"
)

// URLScheme prefixes share links, e.g. inknote://192.168.1.4:8888.
const URLScheme = "inknote://"

// Host accepts viewer connections and fans committed strokes out to them.
type Host struct {
	snapshot func() Message

	upgrader websocket.Upgrader
	server   *http.Server
	ln       net.Listener
	mdns     *mdns.Server

	mu    sync.RWMutex
	conns map[*websocket.Conn]*sync.Mutex
}

// StartHost listens on port and advertises the service over mDNS. snapshot
// must return the current title and committed log; it is sent to every viewer
// on join.
func StartHost(port int, snapshot func() (string, []stroke.Stroke)) (*Host, error) {
	h := &Host{
		snapshot: func() Message {
			title, strokes := snapshot()
			return Message{Type: MsgSnapshot, Title: title, Strokes: strokes}
		},
		conns: make(map[*websocket.Conn]*sync.Mutex),
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/ws", h.serveWS)
	h.server = &http.Server{Addr: fmt.Sprintf(":%d", port), Handler: mux}

	ln, err := listen(h.server.Addr)
	if err != nil {
		return nil, fmt.Errorf("share host listen: %w", err)
	}
	h.ln = ln
	go func() {
		if err := h.server.Serve(ln); err != nil && err != http.ErrServerClosed {
			log.Printf("[share] server stopped: %v", err)
		}
	}()

	if h.mdns, err = advertise(h.Port()); err != nil {
		// The host still works over a pasted link without discovery.
		log.Printf("[share] mDNS advertise failed: %v", err)
	}

	log.Printf("[share] hosting on port %d", h.Port())
	return h, nil
}

// Port reports the bound listen port (useful when started with port 0).
func (h *Host) Port() int {
	return h.ln.Addr().(*net.TCPAddr).Port
}

func (h *Host) serveWS(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("[share] upgrade %s: %v", r.RemoteAddr, err)
		return
	}
	h.add(conn)

	if err := h.writeTo(conn, h.snapshot()); err != nil {
		log.Printf("[share] snapshot to %s: %v", conn.RemoteAddr(), err)
		h.remove(conn)
		return
	}

	// Viewers are read-only; the read loop exists only to notice the peer
	// going away.
	go func() {
		defer h.remove(conn)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()
}

func (h *Host) add(conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.conns[conn] = &sync.Mutex{}
	log.Printf("[share] viewer connected: %s", conn.RemoteAddr())
}

func (h *Host) remove(conn *websocket.Conn) {
	h.mu.Lock()
	if _, ok := h.conns[conn]; ok {
		delete(h.conns, conn)
		log.Printf("[share] viewer left: %s", conn.RemoteAddr())
	}
	h.mu.Unlock()
	conn.Close()
}

func (h *Host) writeTo(conn *websocket.Conn, msg Message) error {
	h.mu.RLock()
	wl, ok := h.conns[conn]
	h.mu.RUnlock()
	if !ok {
		return fmt.Errorf("connection gone")
	}
	wl.Lock()
	defer wl.Unlock()
	return conn.WriteJSON(msg)
}

// Broadcast sends msg to every connected viewer.
func (h *Host) Broadcast(msg Message) {
	h.mu.RLock()
	conns := make([]*websocket.Conn, 0, len(h.conns))
	for c := range h.conns {
		conns = append(conns, c)
	}
	h.mu.RUnlock()

	for _, conn := range conns {
		if err := h.writeTo(conn, msg); err != nil {
			log.Printf("[share] send to %s: %v", conn.RemoteAddr(), err)
			h.remove(conn)
		}
	}
}

// BroadcastStroke relays one newly committed stroke.
func (h *Host) BroadcastStroke(s stroke.Stroke) {
	h.Broadcast(Message{Type: MsgStroke, Stroke: &s})
}

// BroadcastClear empties the viewers' logs.
func (h *Host) BroadcastClear() {
	h.Broadcast(Message{Type: MsgClear})
}

// BroadcastSnapshot resends the whole page; used after undo or a note switch,
// where an append-only relay cannot express the change.
func (h *Host) BroadcastSnapshot() {
	h.Broadcast(h.snapshot())
}

// ViewerCount reports the number of connected viewers.
func (h *Host) ViewerCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.conns)
}

// ShareLink builds a pasteable link to this host.
func ShareLink(port int) string {
	ip, err := OutgoingIP()
	if err != nil {
		ip = "127.0.0.1"
	}
	return fmt.Sprintf("%s%s:%d", URLScheme, ip, port)
}

// Close stops advertising and disconnects all viewers.
func (h *Host) Close() error {
	if h.mdns != nil {
		h.mdns.Shutdown()
	}
	h.mu.Lock()
	for conn := range h.conns {
		conn.Close()
	}
	h.conns = make(map[*websocket.Conn]*sync.Mutex)
	h.mu.Unlock()
	return h.server.Close()
}
