package feedback

import (
	"io"
	"strconv"
	"strings"
	"sync"

	"github.com/fatih/color"
)

// Terminal is a Surface that prints each toast as a coloured line. A printed
// line cannot be taken back, so Fade and Remove only record state.
type Terminal struct {
	mu      sync.Mutex
	out     io.Writer
	visible map[int]bool
}

// NewTerminal returns a surface writing to w.
func NewTerminal(w io.Writer) *Terminal {
	return &Terminal{out: w, visible: make(map[int]bool)}
}

// Append implements Surface.
func (t *Terminal) Append(toast Toast) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.visible[toast.ID] = true
	c := styleColor(toast.Style)
	c.Fprintln(t.out, " "+toast.Text+" ")
}

// Fade implements Surface.
func (t *Terminal) Fade(toast Toast) {}

// Remove implements Surface.
func (t *Terminal) Remove(toast Toast) {
	t.mu.Lock()
	defer t.mu.Unlock()
	delete(t.visible, toast.ID)
}

// Visible returns the number of toasts appended and not yet removed.
func (t *Terminal) Visible() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.visible)
}

func styleColor(s Style) *color.Color {
	c := color.New()
	if r, g, b, ok := parseHex(s.Foreground); ok {
		c.AddRGB(r, g, b)
	}
	if r, g, b, ok := parseHex(s.Background); ok {
		c.AddBgRGB(r, g, b)
	}
	return c
}

// parseHex reads a #rrggbb colour.
func parseHex(s string) (r, g, b int, ok bool) {
	s = strings.TrimPrefix(s, "#")
	if len(s) != 6 {
		return 0, 0, 0, false
	}
	v, err := strconv.ParseUint(s, 16, 32)
	if err != nil {
		return 0, 0, 0, false
	}
	return int(v >> 16 & 0xff), int(v >> 8 & 0xff), int(v & 0xff), true
}
