package share

import (
	"fmt"
	"log"
	"strings"

	"github.com/gorilla/websocket"

	"inknote/internal/stroke"
)

// Viewer follows a shared page. All callbacks fire on the read-loop
// goroutine; the UI layer is responsible for hopping to its own thread.
type Viewer struct {
	OnSnapshot   func(title string, strokes []stroke.Stroke)
	OnStroke     func(stroke.Stroke)
	OnClear      func()
	OnDisconnect func(err error)

	conn *websocket.Conn
}

// Connect dials a share link (inknote://host:port or a bare host:port) and
// starts the read loop. The first message is always the host's snapshot.
func (v *Viewer) Connect(link string) error {
	addr := strings.TrimPrefix(link, URLScheme)
	addr = strings.TrimSuffix(addr, "/")

	conn, _, err := websocket.DefaultDialer.Dial(fmt.Sprintf("ws://%s/ws", addr), nil)
	if err != nil {
		return fmt.Errorf("connect to host: %w", err)
	}
	v.conn = conn
	log.Printf("[share] connected to %s", addr)

	go v.readLoop()
	return nil
}

func (v *Viewer) readLoop() {
	for {
		var msg Message
		if err := v.conn.ReadJSON(&msg); err != nil {
			log.Printf("[share] disconnected: %v", err)
			if v.OnDisconnect != nil {
				v.OnDisconnect(err)
			}
			return
		}
		v.dispatch(msg)
	}
}

func (v *Viewer) dispatch(msg Message) {
	switch msg.Type {
	case MsgSnapshot:
		if v.OnSnapshot != nil {
			v.OnSnapshot(msg.Title, msg.Strokes)
		}
	case MsgStroke:
		if msg.Stroke != nil && v.OnStroke != nil {
			v.OnStroke(*msg.Stroke)
		}
	case MsgClear:
		if v.OnClear != nil {
			v.OnClear()
		}
	default:
		log.Printf("[share] unknown message type %q", msg.Type)
	}
}

// Close drops the connection.
func (v *Viewer) Close() error {
	if v.conn == nil {
		return nil
	}
	return v.conn.Close()
}
