package ui

import (
	"context"
	"fmt"
	"log"
	"strings"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"

	"inknote/internal/chat"
)

const chatSystemPrompt = "You are an assistant inside a note-taking app. " +
	"The user may attach snapshots of their whiteboard; read the drawing " +
	"and answer concisely in markdown."

// ChatPanel is the assistant sidebar. A captured canvas region, when
// attached, rides along with the next prompt as an image block.
type ChatPanel struct {
	client  chat.Client
	history []chat.Message

	pendingCapture string
	attachLabel    *widget.Label
	transcript     *widget.RichText
	scroll         *container.Scroll
	entry          *widget.Entry
	send           *widget.Button

	content fyne.CanvasObject
}

func NewChatPanel(client chat.Client) *ChatPanel {
	p := &ChatPanel{client: client}

	p.transcript = widget.NewRichTextFromMarkdown("")
	p.transcript.Wrapping = fyne.TextWrapWord
	p.scroll = container.NewVScroll(p.transcript)

	p.attachLabel = widget.NewLabel("")
	p.attachLabel.Hide()

	p.entry = widget.NewMultiLineEntry()
	p.entry.SetPlaceHolder("Ask about your notes...")
	p.entry.Wrapping = fyne.TextWrapWord
	p.send = widget.NewButton("Send", p.submit)
	p.entry.OnSubmitted = func(string) { p.submit() }

	input := container.NewBorder(p.attachLabel, nil, nil, p.send, p.entry)
	p.content = container.NewBorder(nil, input, nil, nil, p.scroll)
	return p
}

// Content returns the panel for embedding in layouts.
func (p *ChatPanel) Content() fyne.CanvasObject { return p.content }

// AttachCapture stages a captured region for the next message. Degenerate
// captures (empty payload) are ignored.
func (p *ChatPanel) AttachCapture(dataURI string) {
	if !strings.Contains(dataURI, ";base64,") || strings.HasSuffix(dataURI, ";base64,") {
		return
	}
	p.pendingCapture = dataURI
	p.attachLabel.SetText("Canvas capture attached")
	p.attachLabel.Show()
}

func (p *ChatPanel) submit() {
	text := strings.TrimSpace(p.entry.Text)
	if text == "" {
		return
	}
	if p.client == nil {
		p.appendTranscript("**app:** set ANTHROPIC_API_KEY to enable the assistant\n")
		return
	}

	var msg chat.Message
	if p.pendingCapture != "" {
		msg = chat.WithCapture(text, p.pendingCapture)
		p.pendingCapture = ""
		p.attachLabel.Hide()
	} else {
		msg = chat.Text("user", text)
	}
	p.history = append(p.history, msg)

	p.entry.SetText("")
	p.send.Disable()
	p.appendTranscript(fmt.Sprintf("**you:** %s\n", text))

	history := make([]chat.Message, len(p.history))
	copy(history, p.history)

	go func() {
		resp, err := p.client.CompleteWithRetry(context.Background(), chatSystemPrompt, history, 3, nil)
		fyne.Do(func() {
			p.send.Enable()
			if err != nil {
				log.Printf("[chat] completion failed: %v", err)
				p.appendTranscript(fmt.Sprintf("**app:** request failed: %v\n", err))
				return
			}
			p.history = append(p.history, chat.Text("assistant", resp.Content))
			reply := resp.Content
			if resp.WasTruncated() {
				reply += "\n\n*(response truncated)*"
			}
			p.appendTranscript(fmt.Sprintf("**assistant:** %s\n", reply))
		})
	}()
}

func (p *ChatPanel) appendTranscript(md string) {
	p.transcript.AppendMarkdown(md)
	p.scroll.ScrollToBottom()
}
