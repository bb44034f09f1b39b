package runner

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/aretw0/delta/pkg/domain"
	"golang.org/x/term"
)

// TextHandler implements the standard terminal interface.
type TextHandler struct {
	Reader      *bufio.Reader
	Writer      io.Writer
	Renderer    ContentRenderer
	Interactive bool

	// ShowVariables prints the final bindings when the run ends.
	ShowVariables bool

	inputChan chan inputResult
	startOnce sync.Once
}

type inputResult struct {
	text string
	err  error
}

// TextHandlerOption configures a TextHandler.
type TextHandlerOption func(*TextHandler)

// WithTextHandlerRenderer configures the content renderer.
func WithTextHandlerRenderer(renderer ContentRenderer) TextHandlerOption {
	return func(h *TextHandler) {
		h.Renderer = renderer
	}
}

// WithVariables makes Done print the final variable bindings.
func WithVariables(show bool) TextHandlerOption {
	return func(h *TextHandler) {
		h.ShowVariables = show
	}
}

// NewTextHandler creates a handler for standard text IO. nil arguments fall
// back to stdin and stdout.
func NewTextHandler(r io.Reader, w io.Writer, opts ...TextHandlerOption) *TextHandler {
	if r == nil {
		r = os.Stdin
	}
	if w == nil {
		w = os.Stdout
	}
	h := &TextHandler{
		Reader:      bufio.NewReader(r),
		Writer:      w,
		Interactive: isTerminal(r),
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

func isTerminal(r io.Reader) bool {
	f, ok := r.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// The pump reads on its own goroutine so Prompt can honour ctx cancellation.
func (h *TextHandler) initPump() {
	h.startOnce.Do(func() {
		h.inputChan = make(chan inputResult)
		go h.pump()
	})
}

func (h *TextHandler) pump() {
	for {
		text, err := h.Reader.ReadString('\n')
		if text != "" {
			h.inputChan <- inputResult{text: text}
		}
		if err != nil {
			if !errors.Is(err, io.EOF) {
				h.inputChan <- inputResult{err: err}
			}
			close(h.inputChan)
			return
		}
	}
}

func (h *TextHandler) Prompt(ctx context.Context, in domain.Input) (string, error) {
	h.initPump()

	for {
		select {
		case <-ctx.Done():
			return "", ctx.Err()
		default:
			if in.Default != "" {
				fmt.Fprintf(h.Writer, "%s [%s]: ", in.Name, in.Default)
			} else {
				fmt.Fprintf(h.Writer, "%s: ", in.Name)
			}
		}

		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case res, ok := <-h.inputChan:
			if !ok {
				return "", io.EOF
			}
			if res.err != nil {
				return "", res.err
			}
			clean, err := SanitizeInput(strings.TrimSpace(res.text))
			if err != nil {
				fmt.Fprintf(h.Writer, "Error: %v. Please try again.\n", err)
				continue
			}
			return clean, nil
		}
	}
}

func (h *TextHandler) Output(ctx context.Context, line string) error {
	if h.Renderer != nil {
		if rendered, err := h.Renderer(line); err == nil {
			line = rendered
		}
	}
	_, err := fmt.Fprintln(h.Writer, line)
	return err
}

func (h *TextHandler) SystemOutput(ctx context.Context, msg string) error {
	_, err := fmt.Fprintf(h.Writer, "[System] %s\n", msg)
	return err
}

func (h *TextHandler) Done(ctx context.Context, snap *domain.Snapshot) error {
	if snap.Cancelled {
		return h.SystemOutput(ctx, "run cancelled")
	}
	if !h.ShowVariables {
		return nil
	}
	for _, name := range snap.Names() {
		if _, err := fmt.Fprintf(h.Writer, "%s = %s\n", name, snap.Variables[name]); err != nil {
			return err
		}
	}
	return nil
}
