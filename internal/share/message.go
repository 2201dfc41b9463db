// Package share broadcasts one writer's page to read-only viewers on the
// local network. Viewers render with the same engine in read-only mode; they
// never send strokes back, so there is exactly one logical writer.
package share

import "inknote/internal/stroke"

// Message types on the share wire.
const (
	// MsgSnapshot carries the full committed log; sent on join and after
	// non-append mutations (undo, note switch).
	MsgSnapshot = "snapshot"
	// MsgStroke carries one newly committed stroke.
	MsgStroke = "stroke"
	// MsgClear empties the viewers' log.
	MsgClear = "clear"
)

// Message is one share event, JSON-encoded over the websocket.
type Message struct {
	Type    string          `json:"type"`
	Title   string          `json:"title,omitempty"`
	Stroke  *stroke.Stroke  `json:"stroke,omitempty"`
	Strokes []stroke.Stroke `json:"strokes,omitempty"`
}
