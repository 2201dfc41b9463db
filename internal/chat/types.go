// Package chat talks to the AI assistant backend. Captured whiteboard regions
// ride along with the user's text as image content blocks.
package chat

import (
	"context"
	"strings"
	"time"
)

// Client is the interface to an assistant backend.
type Client interface {
	Complete(ctx context.Context, systemPrompt string, messages []Message, opts *RequestOptions) (*Response, error)
	CompleteWithRetry(ctx context.Context, systemPrompt string, messages []Message, maxRetries int, opts *RequestOptions) (*Response, error)
}

// Message is one conversation turn, made of text and/or image blocks.
type Message struct {
	Role   string
	Blocks []Block
}

// Block is a single content block.
type Block struct {
	Text  string
	Image *ImageData
}

// ImageData is a base64 image payload.
type ImageData struct {
	MediaType string
	Data      string
}

// Text builds a plain text message.
func Text(role, text string) Message {
	return Message{Role: role, Blocks: []Block{{Text: text}}}
}

// WithCapture builds a user message carrying a captured canvas image (as a
// data URI) ahead of the prompt text, so the model sees the drawing first.
func WithCapture(text, dataURI string) Message {
	m := Message{Role: "user"}
	if img, ok := parseDataURI(dataURI); ok {
		m.Blocks = append(m.Blocks, Block{Image: img})
	}
	m.Blocks = append(m.Blocks, Block{Text: text})
	return m
}

// parseDataURI splits "data:<mime>;base64,<payload>". Degenerate captures
// (empty payload) are dropped rather than sent.
func parseDataURI(uri string) (*ImageData, bool) {
	rest, ok := strings.CutPrefix(uri, "data:")
	if !ok {
		return nil, false
	}
	mime, payload, ok := strings.Cut(rest, ";base64,")
	if !ok || mime == "" || payload == "" {
		return nil, false
	}
	return &ImageData{MediaType: mime, Data: payload}, true
}

// RequestOptions configures a completion request.
type RequestOptions struct {
	MaxTokens int
}

// Response from a completion.
type Response struct {
	Content      string
	InputTokens  int
	OutputTokens int
	Duration     time.Duration
	Model        string
	StopReason   string
}

// WasTruncated reports whether the response hit the token limit.
func (r *Response) WasTruncated() bool {
	return r.StopReason == "max_tokens"
}
