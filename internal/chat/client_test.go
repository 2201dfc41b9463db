package chat

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestWithCaptureBuildsImageBlock(t *testing.T) {
	m := WithCapture("what is this?", "data:image/png;base64,aGVsbG8=")

	if len(m.Blocks) != 2 {
		t.Fatalf("blocks = %d, want image + text", len(m.Blocks))
	}
	img := m.Blocks[0].Image
	if img == nil || img.MediaType != "image/png" || img.Data != "aGVsbG8=" {
		t.Errorf("image block = %+v", img)
	}
	if m.Blocks[1].Text != "what is this?" {
		t.Errorf("text block = %q", m.Blocks[1].Text)
	}
}

func TestWithCaptureDropsDegenerateURI(t *testing.T) {
	for _, uri := range []string{"", "data:image/png;base64,", "not a uri"} {
		m := WithCapture("hello", uri)
		if len(m.Blocks) != 1 || m.Blocks[0].Image != nil {
			t.Errorf("uri %q: blocks = %+v, want text only", uri, m.Blocks)
		}
	}
}

func TestCompleteSendsBlocksAndParsesReply(t *testing.T) {
	var gotBody anthropicRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("x-api-key") != "test-key" {
			t.Errorf("x-api-key = %q", r.Header.Get("x-api-key"))
		}
		if r.Header.Get("anthropic-version") == "" {
			t.Error("missing anthropic-version header")
		}
		raw, _ := io.ReadAll(r.Body)
		if err := json.Unmarshal(raw, &gotBody); err != nil {
			t.Errorf("request body: %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, `{
			"id":"msg_1","type":"message","role":"assistant",
			"content":[{"type":"text","text":"It is a cat."}],
			"model":"claude-test","stop_reason":"end_turn",
			"usage":{"input_tokens":12,"output_tokens":5}
		}`)
	}))
	defer srv.Close()

	c := NewAnthropicClient("test-key", "claude-test")
	c.baseURL = srv.URL

	msgs := []Message{WithCapture("what did I draw?", "data:image/png;base64,aGVsbG8=")}
	resp, err := c.Complete(context.Background(), "you are a note assistant", msgs, nil)
	if err != nil {
		t.Fatalf("complete: %v", err)
	}

	if resp.Content != "It is a cat." || resp.StopReason != "end_turn" {
		t.Errorf("response = %+v", resp)
	}
	if resp.InputTokens != 12 || resp.OutputTokens != 5 {
		t.Errorf("usage = %d/%d", resp.InputTokens, resp.OutputTokens)
	}

	if gotBody.System != "you are a note assistant" {
		t.Errorf("system = %q", gotBody.System)
	}
	if len(gotBody.Messages) != 1 || len(gotBody.Messages[0].Content) != 2 {
		t.Fatalf("wire messages = %+v", gotBody.Messages)
	}
	img := gotBody.Messages[0].Content[0]
	if img.Type != "image" || img.Source == nil || img.Source.MediaType != "image/png" {
		t.Errorf("image block on the wire = %+v", img)
	}
}

func TestCompleteSurfacesAPIErrors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		io.WriteString(w, `{"type":"error","error":{"type":"invalid_request_error","message":"bad model"}}`)
	}))
	defer srv.Close()

	c := NewAnthropicClient("k", "m")
	c.baseURL = srv.URL

	_, err := c.Complete(context.Background(), "", []Message{Text("user", "hi")}, nil)
	if err == nil {
		t.Fatal("expected error")
	}
}

func TestWasTruncated(t *testing.T) {
	if (&Response{StopReason: "end_turn"}).WasTruncated() {
		t.Error("end_turn flagged as truncated")
	}
	if !(&Response{StopReason: "max_tokens"}).WasTruncated() {
		t.Error("max_tokens not flagged")
	}
}
