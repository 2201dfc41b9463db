package share

import (
	"encoding/json"
	"fmt"
	"testing"
	"time"

	"inknote/internal/stroke"
)

func TestMessageCodec(t *testing.T) {
	s := stroke.Stroke{
		ID: "s1", Tool: stroke.ToolPen, Width: 3,
		Color:  stroke.Color{R: 10, G: 20, B: 30, A: 255},
		Points: []stroke.Point{{X: 1, Y: 2}, {X: 3, Y: 4}},
	}
	raw, err := json.Marshal(Message{Type: MsgStroke, Stroke: &s})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	var got Message
	if err := json.Unmarshal(raw, &got); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if got.Type != MsgStroke || got.Stroke == nil || got.Stroke.ID != "s1" {
		t.Errorf("round trip gave %+v", got)
	}
	if len(got.Stroke.Points) != 2 || got.Stroke.Points[1] != (stroke.Point{X: 3, Y: 4}) {
		t.Errorf("points mangled: %+v", got.Stroke.Points)
	}
}

func TestHostViewerSession(t *testing.T) {
	page := []stroke.Stroke{{
		ID: "base", Tool: stroke.ToolPen, Width: 2,
		Color:  stroke.Color{A: 255},
		Points: []stroke.Point{{X: 0, Y: 0}},
	}}
	host, err := StartHost(0, func() (string, []stroke.Stroke) {
		return "Shared note", page
	})
	if err != nil {
		t.Fatalf("start host: %v", err)
	}
	defer host.Close()

	snapshots := make(chan Message, 1)
	strokes := make(chan stroke.Stroke, 1)
	clears := make(chan struct{}, 1)

	v := &Viewer{
		OnSnapshot: func(title string, ss []stroke.Stroke) {
			snapshots <- Message{Type: MsgSnapshot, Title: title, Strokes: ss}
		},
		OnStroke: func(s stroke.Stroke) { strokes <- s },
		OnClear:  func() { clears <- struct{}{} },
	}
	link := fmt.Sprintf("%s127.0.0.1:%d", URLScheme, host.Port())
	if err := v.Connect(link); err != nil {
		t.Fatalf("connect: %v", err)
	}
	defer v.Close()

	select {
	case snap := <-snapshots:
		if snap.Title != "Shared note" || len(snap.Strokes) != 1 {
			t.Errorf("join snapshot = %+v", snap)
		}
	case <-time.After(3 * time.Second):
		t.Fatal("no snapshot after join")
	}

	host.BroadcastStroke(stroke.Stroke{
		ID: "live", Tool: stroke.ToolLine, Width: 2,
		Color:  stroke.Color{A: 255},
		Points: []stroke.Point{{X: 0, Y: 0}, {X: 9, Y: 9}},
	})
	select {
	case s := <-strokes:
		if s.ID != "live" || s.End() != (stroke.Point{X: 9, Y: 9}) {
			t.Errorf("relayed stroke = %+v", s)
		}
	case <-time.After(3 * time.Second):
		t.Fatal("stroke never relayed")
	}

	host.BroadcastClear()
	select {
	case <-clears:
	case <-time.After(3 * time.Second):
		t.Fatal("clear never relayed")
	}
}
