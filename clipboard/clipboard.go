// Package clipboard writes text to the system clipboard.
package clipboard

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"

	sysclip "github.com/atotto/clipboard"
)

// Sentinel errors for clipboard writes.
var (
	// ErrNoFocus is returned by Guard when the originating document does not
	// hold input focus.
	ErrNoFocus = errors.New("clipboard: document does not have focus")
	// ErrUnavailable means no clipboard mechanism exists on this system.
	ErrUnavailable = errors.New("clipboard: unavailable")
)

// WriteError wraps a rejected clipboard write.
type WriteError struct {
	Backend string
	Err     error
}

func (e *WriteError) Error() string {
	return fmt.Sprintf("clipboard: %s write failed: %v", e.Backend, e.Err)
}

func (e *WriteError) Unwrap() error {
	return e.Err
}

// Writer places text on a clipboard. Failures are returned, never panicked.
type Writer interface {
	Write(ctx context.Context, text string) error
}

// WriterFunc adapts a function to Writer.
type WriterFunc func(ctx context.Context, text string) error

// Write calls f.
func (f WriterFunc) Write(ctx context.Context, text string) error {
	return f(ctx, text)
}

// System writes through the platform clipboard (pbcopy, xclip/xsel,
// wl-clipboard or the Windows API).
type System struct{}

// Write implements Writer.
func (System) Write(ctx context.Context, text string) error {
	if err := ctx.Err(); err != nil {
		return &WriteError{Backend: "system", Err: err}
	}
	if sysclip.Unsupported {
		return &WriteError{Backend: "system", Err: ErrUnavailable}
	}
	if err := sysclip.WriteAll(text); err != nil {
		return &WriteError{Backend: "system", Err: err}
	}
	return nil
}

// DefaultCommands are tried in order by Commands.
var DefaultCommands = [][]string{
	{"pbcopy"},
	{"wl-copy"},
	{"xclip", "-selection", "clipboard"},
	{"xsel", "--clipboard", "--input"},
}

// Commands pipes text into the first available clipboard command.
type Commands struct {
	// Candidates overrides DefaultCommands when non-empty.
	Candidates [][]string
}

// Write implements Writer.
func (c Commands) Write(ctx context.Context, text string) error {
	candidates := c.Candidates
	if len(candidates) == 0 {
		candidates = DefaultCommands
	}

	var lastErr error = ErrUnavailable
	for _, argv := range candidates {
		if len(argv) == 0 {
			continue
		}
		if _, err := exec.LookPath(argv[0]); err != nil {
			continue
		}
		cmd := exec.CommandContext(ctx, argv[0], argv[1:]...)
		cmd.Stdin = bytes.NewBufferString(text)
		if err := cmd.Run(); err != nil {
			lastErr = fmt.Errorf("%s: %w", argv[0], err)
			continue
		}
		return nil
	}
	return &WriteError{Backend: "command", Err: lastErr}
}

// FocusSource reports whether the originating document holds input focus.
type FocusSource interface {
	Focused() bool
}

// Guard refuses writes unless Focus reports focus, mirroring browsers that
// reject clipboard access from unfocused documents.
type Guard struct {
	Writer Writer
	Focus  FocusSource
}

// Write implements Writer.
func (g Guard) Write(ctx context.Context, text string) error {
	if g.Focus == nil || !g.Focus.Focused() {
		return &WriteError{Backend: "guard", Err: ErrNoFocus}
	}
	return g.Writer.Write(ctx, text)
}

// New returns the writer for a backend name: "system" or "command".
func New(backend string) (Writer, error) {
	switch backend {
	case "", "system":
		return System{}, nil
	case "command":
		return Commands{}, nil
	default:
		return nil, fmt.Errorf("clipboard: unknown backend %q (use system or command)", backend)
	}
}
