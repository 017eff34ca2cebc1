// Package feedback shows transient notifications ("toasts") for the result
// of a copy. A toast is appended to a Surface, fades after a display period
// and is removed after the fade completes.
package feedback

import (
	"log/slog"
	"sync"
	"time"
)

// User-facing messages.
const (
	MsgCopied          = "RSS address copied to clipboard!"
	MsgNotFound        = "Could not find channel information. Please check if you are on a channel page."
	MsgCopyFailed      = "Failed to copy to clipboard."
	MsgPageUnavailable = "Could not read the current page."
)

// Default timings.
const (
	DefaultDisplay = 3 * time.Second
	DefaultFade    = 300 * time.Millisecond
)

// Kind selects the toast style.
type Kind int

const (
	Success Kind = iota
	Error
)

func (k Kind) String() string {
	if k == Error {
		return "error"
	}
	return "success"
}

// Style is the visual treatment of a toast.
type Style struct {
	Background string
	Foreground string
}

// StyleFor returns the fixed style for a kind.
func StyleFor(k Kind) Style {
	if k == Error {
		return Style{Background: "#f44336", Foreground: "#ffffff"}
	}
	return Style{Background: "#323232", Foreground: "#ffffff"}
}

// Toast is a single notification.
type Toast struct {
	ID    int
	Text  string
	Kind  Kind
	Style Style
}

// Surface renders toasts. Implementations must be safe for concurrent use:
// timers call Fade and Remove from their own goroutines.
type Surface interface {
	Append(t Toast)
	Fade(t Toast)
	Remove(t Toast)
}

type liveToast struct {
	toast  Toast
	fade   *time.Timer
	remove *time.Timer
}

// Presenter schedules toasts on a surface. Toasts are independent; showing a
// new one never affects toasts already on screen.
type Presenter struct {
	surface Surface
	display time.Duration
	fade    time.Duration
	logger  *slog.Logger

	mu   sync.Mutex
	next int
	live map[int]*liveToast
}

// Option configures a Presenter.
type Option func(*Presenter)

// WithTimings overrides the display and fade durations. Non-positive values
// keep the defaults.
func WithTimings(display, fade time.Duration) Option {
	return func(p *Presenter) {
		if display > 0 {
			p.display = display
		}
		if fade > 0 {
			p.fade = fade
		}
	}
}

// WithLogger sets the presenter's logger.
func WithLogger(logger *slog.Logger) Option {
	return func(p *Presenter) {
		if logger != nil {
			p.logger = logger
		}
	}
}

// NewPresenter creates a presenter drawing on surface.
func NewPresenter(surface Surface, opts ...Option) *Presenter {
	p := &Presenter{
		surface: surface,
		display: DefaultDisplay,
		fade:    DefaultFade,
		logger:  slog.Default(),
		live:    make(map[int]*liveToast),
	}
	for _, opt := range opts {
		opt(p)
	}
	p.logger = p.logger.With(slog.String("component", "feedback"))
	return p
}

// Show appends a toast and schedules its fade and removal.
func (p *Presenter) Show(text string, kind Kind) Toast {
	p.mu.Lock()
	p.next++
	t := Toast{ID: p.next, Text: text, Kind: kind, Style: StyleFor(kind)}
	p.mu.Unlock()

	p.surface.Append(t)
	p.logger.Debug("toast shown", slog.Int("id", t.ID), slog.String("kind", kind.String()))

	p.mu.Lock()
	lt := &liveToast{toast: t}
	p.live[t.ID] = lt
	lt.fade = time.AfterFunc(p.display, func() { p.startFade(t.ID) })
	p.mu.Unlock()

	return t
}

// Success shows a success toast.
func (p *Presenter) Success(text string) Toast {
	return p.Show(text, Success)
}

// Error shows an error toast.
func (p *Presenter) Error(text string) Toast {
	return p.Show(text, Error)
}

func (p *Presenter) startFade(id int) {
	p.mu.Lock()
	lt, ok := p.live[id]
	if !ok {
		p.mu.Unlock()
		return
	}
	lt.remove = time.AfterFunc(p.fade, func() { p.removeToast(id) })
	p.mu.Unlock()

	p.surface.Fade(lt.toast)
}

func (p *Presenter) removeToast(id int) {
	p.mu.Lock()
	lt, ok := p.live[id]
	delete(p.live, id)
	p.mu.Unlock()

	if ok {
		p.surface.Remove(lt.toast)
	}
}

// Live returns the number of toasts not yet removed.
func (p *Presenter) Live() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.live)
}

// Close stops all timers and removes every live toast.
func (p *Presenter) Close() {
	p.mu.Lock()
	pending := make([]*liveToast, 0, len(p.live))
	for id, lt := range p.live {
		pending = append(pending, lt)
		delete(p.live, id)
	}
	p.mu.Unlock()

	for _, lt := range pending {
		if lt.fade != nil {
			lt.fade.Stop()
		}
		if lt.remove != nil {
			lt.remove.Stop()
		}
		p.surface.Remove(lt.toast)
	}
}
