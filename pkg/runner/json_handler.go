package runner

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"io"
	"os"
	"strings"

	"github.com/aretw0/delta/pkg/domain"
)

// Event is one JSON line written by JSONHandler.
type Event struct {
	Type      string            `json:"type"`
	Name      string            `json:"name,omitempty"`
	Default   string            `json:"default,omitempty"`
	Text      string            `json:"text,omitempty"`
	RunID     string            `json:"run_id,omitempty"`
	Cancelled bool              `json:"cancelled,omitempty"`
	Output    []string          `json:"output,omitempty"`
	Variables map[string]string `json:"variables,omitempty"`
}

const (
	EventInput  = "input"
	EventPrint  = "print"
	EventSystem = "system"
	EventDone   = "done"
)

// JSONHandler implements IOHandler with JSON-Lines communication.
type JSONHandler struct {
	Reader  *bufio.Reader
	Encoder *json.Encoder
}

// NewJSONHandler creates a handler for JSON IO.
func NewJSONHandler(r io.Reader, w io.Writer) *JSONHandler {
	if r == nil {
		r = os.Stdin
	}
	if w == nil {
		w = os.Stdout
	}
	return &JSONHandler{
		Reader:  bufio.NewReader(r),
		Encoder: json.NewEncoder(w),
	}
}

// Prompt emits an input event and reads one line: a JSON string, or raw text.
func (h *JSONHandler) Prompt(ctx context.Context, in domain.Input) (string, error) {
	if err := h.Encoder.Encode(Event{Type: EventInput, Name: in.Name, Default: in.Default}); err != nil {
		return "", err
	}

	text, err := h.Reader.ReadString('\n')
	if err != nil && !(errors.Is(err, io.EOF) && text != "") {
		return "", err
	}
	text = strings.TrimSpace(text)

	var val string
	if err := json.Unmarshal([]byte(text), &val); err == nil {
		text = val
	}
	return SanitizeInput(text)
}

func (h *JSONHandler) Output(ctx context.Context, line string) error {
	return h.Encoder.Encode(Event{Type: EventPrint, Text: line})
}

func (h *JSONHandler) SystemOutput(ctx context.Context, msg string) error {
	return h.Encoder.Encode(Event{Type: EventSystem, Text: msg})
}

func (h *JSONHandler) Done(ctx context.Context, snap *domain.Snapshot) error {
	return h.Encoder.Encode(Event{
		Type:      EventDone,
		RunID:     snap.RunID,
		Cancelled: snap.Cancelled,
		Output:    snap.Output,
		Variables: snap.Variables,
	})
}
