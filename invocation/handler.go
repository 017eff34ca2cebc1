// Package invocation runs the copy-feed action: load the current page,
// extract the channel, write the feed URL to the clipboard and report the
// result as a toast.
package invocation

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"github.com/google/uuid"

	"ytrss/clipboard"
	"ytrss/extract"
	"ytrss/feedback"
	"ytrss/page"
)

// Protocol constants.
const (
	ActionCopyRSS = "copy_rss"
	StatusSuccess = "success"
)

// Sentinel errors.
var (
	ErrUnknownAction = errors.New("invocation: unknown action")
	ErrNotTargetSite = errors.New("invocation: not a youtube page")
	ErrNotLoaded     = errors.New("invocation: page component not loaded")
)

// Message is sent by the host to request an action.
type Message struct {
	Action string `json:"action"`
}

// Ack acknowledges receipt of a Message. It says nothing about whether the
// copy itself succeeded.
type Ack struct {
	Status string `json:"status"`
}

// Receiver accepts messages from the host.
type Receiver interface {
	Receive(msg Message) (Ack, error)
}

// Result describes a finished copy.
type Result struct {
	Outcome extract.Outcome
	FeedURL string
	Err     error
}

// Handler executes copy invocations against a page source.
type Handler struct {
	source    page.Source
	clip      clipboard.Writer
	presenter *feedback.Presenter
	extractor *extract.Extractor
	logger    *slog.Logger
	ctx       context.Context
	observer  func(Result)

	wg sync.WaitGroup
}

// Option configures a Handler.
type Option func(*Handler)

// WithLogger sets the handler's logger.
func WithLogger(logger *slog.Logger) Option {
	return func(h *Handler) {
		if logger != nil {
			h.logger = logger
		}
	}
}

// WithExtractor replaces the default extractor.
func WithExtractor(e *extract.Extractor) Option {
	return func(h *Handler) { h.extractor = e }
}

// WithContext sets the context asynchronous copies run under.
func WithContext(ctx context.Context) Option {
	return func(h *Handler) { h.ctx = ctx }
}

// WithObserver registers a function called with every finished copy.
func WithObserver(fn func(Result)) Option {
	return func(h *Handler) { h.observer = fn }
}

// NewHandler creates a handler. presenter may be nil to suppress toasts.
func NewHandler(source page.Source, clip clipboard.Writer, presenter *feedback.Presenter, opts ...Option) *Handler {
	h := &Handler{
		source:    source,
		clip:      clip,
		presenter: presenter,
		logger:    slog.Default(),
		ctx:       context.Background(),
	}
	for _, opt := range opts {
		opt(h)
	}
	if h.extractor == nil {
		h.extractor = extract.New(h.logger)
	}
	h.logger = h.logger.With(slog.String("component", "invocation"))
	return h
}

// Receive handles a host message. For copy_rss the copy is started in the
// background and the acknowledgement is returned at once.
func (h *Handler) Receive(msg Message) (Ack, error) {
	if msg.Action != ActionCopyRSS {
		h.logger.Warn("unknown action", slog.String("action", msg.Action))
		return Ack{}, ErrUnknownAction
	}

	h.wg.Add(1)
	go func() {
		defer h.wg.Done()
		res := h.Copy(h.ctx)
		if h.observer != nil {
			h.observer(res)
		}
	}()

	return Ack{Status: StatusSuccess}, nil
}

// Wait blocks until every background copy has finished.
func (h *Handler) Wait() {
	h.wg.Wait()
}

// Copy runs one invocation synchronously.
func (h *Handler) Copy(ctx context.Context) Result {
	logger := h.logger.With(slog.String("invocation", uuid.NewString()))

	pc, err := h.source.Current(ctx)
	if err != nil {
		logger.Error("page unavailable", slog.Any("error", err))
		h.notify(feedback.MsgPageUnavailable, feedback.Error)
		return Result{Err: err}
	}

	out := h.extractor.Extract(pc)
	if !out.Found() {
		logger.Info("channel not found", slog.String("url", pc.URL().String()))
		h.notify(feedback.MsgNotFound, feedback.Error)
		return Result{Outcome: out, Err: out.Err()}
	}

	feedURL := out.FeedURL()
	logger.Info("feed resolved",
		slog.String("strategy", out.Strategy),
		slog.String("feed_url", feedURL))

	pc.Focus()
	guard := clipboard.Guard{Writer: h.clip, Focus: pc}
	if err := guard.Write(ctx, feedURL); err != nil {
		logger.Error("clipboard write failed", slog.Any("error", err))
		h.notify(feedback.MsgCopyFailed, feedback.Error)
		return Result{Outcome: out, FeedURL: feedURL, Err: err}
	}

	h.notify(feedback.MsgCopied, feedback.Success)
	return Result{Outcome: out, FeedURL: feedURL}
}

func (h *Handler) notify(text string, kind feedback.Kind) {
	if h.presenter == nil {
		return
	}
	h.presenter.Show(text, kind)
}
