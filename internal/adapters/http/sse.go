package httpadapter

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/dentalschoolguide/eden-agent/internal/domain"
)

// sseSink implements chat.Sink over a flushing SSE response. Headers go
// out lazily with the first event so a pre-stream failure can still be
// answered with a plain HTTP error.
type sseSink struct {
	w       http.ResponseWriter
	flusher http.Flusher
	wrote   bool
}

func newSSESink(w http.ResponseWriter) *sseSink {
	flusher, _ := w.(http.Flusher)
	return &sseSink{w: w, flusher: flusher}
}

func (s *sseSink) started() bool { return s.wrote }

type textEvent struct {
	Type    string `json:"type"`
	Content string `json:"content"`
}

type finishEvent struct {
	Type  string        `json:"type"`
	Usage *domain.Usage `json:"usage,omitempty"`
}

func (s *sseSink) SendText(content string) error {
	return s.send(textEvent{Type: "text", Content: content})
}

func (s *sseSink) SendFinish(usage *domain.Usage) error {
	return s.send(finishEvent{Type: "finish", Usage: usage})
}

func (s *sseSink) send(event any) error {
	if !s.wrote {
		h := s.w.Header()
		h.Set("Content-Type", "text/event-stream")
		h.Set("Cache-Control", "no-cache")
		h.Set("Connection", "keep-alive")
		s.w.WriteHeader(http.StatusOK)
		s.wrote = true
	}

	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("encoding sse event: %w", err)
	}
	if _, err := fmt.Fprintf(s.w, "data: %s\n\n", payload); err != nil {
		return fmt.Errorf("writing sse event: %w", err)
	}
	if s.flusher != nil {
		s.flusher.Flush()
	}
	return nil
}
