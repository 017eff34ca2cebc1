// Package extract finds the channel a YouTube page belongs to.
//
// Each page type has an ordered Chain of independent strategies. A strategy
// inspects one page surface (owner widgets, embedded state, link and meta
// tags, raw markup) and either yields a validated channel id or nothing. The
// chain returns the first success; order is data, not control flow.
package extract

import (
	"errors"
	"log/slog"
	"strings"

	"ytrss/embedded"
	"ytrss/page"
	"ytrss/youtube"
)

// ErrNotFound is returned when no strategy in the applicable chain yields an id.
var ErrNotFound = errors.New("extract: channel not found")

// Probe inspects a page and returns a channel id when its signal is present.
type Probe func(pc *page.Context, state *embedded.Reader) (youtube.ChannelID, bool)

// Strategy is a named probe.
type Strategy struct {
	Name  string
	Probe Probe
}

// Outcome is the result of running a chain. The zero value means not found.
type Outcome struct {
	ID       youtube.ChannelID
	Strategy string
}

// Found reports whether a strategy produced an id.
func (o Outcome) Found() bool {
	return o.ID != ""
}

// FeedURL returns the feed URL for the found id, or "" when not found.
func (o Outcome) FeedURL() string {
	if !o.Found() {
		return ""
	}
	return youtube.FeedURL(o.ID)
}

// Err returns ErrNotFound for a not-found outcome and nil otherwise.
func (o Outcome) Err() error {
	if !o.Found() {
		return ErrNotFound
	}
	return nil
}

// Chain is an ordered list of strategies.
type Chain []Strategy

// Run evaluates strategies in order and returns the first success.
func (c Chain) Run(pc *page.Context, state *embedded.Reader, logger *slog.Logger) Outcome {
	for _, s := range c {
		id, ok := s.Probe(pc, state)
		if !ok {
			continue
		}
		logger.Debug("channel found",
			slog.String("strategy", s.Name),
			slog.String("channel_id", id.String()))
		return Outcome{ID: id, Strategy: s.Name}
	}
	return Outcome{}
}

// Kind is the page type chosen by Classify.
type Kind int

const (
	// KindHome covers channel pages and every other non-playback page.
	KindHome Kind = iota
	// KindVideo is a playback page.
	KindVideo
)

func (k Kind) String() string {
	if k == KindVideo {
		return "video"
	}
	return "home"
}

// Classify picks the page type from the navigation path.
func Classify(path string) Kind {
	if strings.Contains(path, "/watch") {
		return KindVideo
	}
	return KindHome
}

// Extractor runs the chain matching a page's kind.
type Extractor struct {
	Video  Chain
	Home   Chain
	state  *embedded.Reader
	logger *slog.Logger
}

// New creates an extractor with the default chains. A nil logger uses
// slog.Default().
func New(logger *slog.Logger) *Extractor {
	if logger == nil {
		logger = slog.Default()
	}
	return &Extractor{
		Video:  VideoStrategies(),
		Home:   HomeStrategies(),
		state:  embedded.NewReader(logger),
		logger: logger.With(slog.String("component", "extract")),
	}
}

// Extract classifies pc and runs the matching chain.
func (e *Extractor) Extract(pc *page.Context) Outcome {
	kind := Classify(pc.Path())
	e.logger.Debug("analyzing page",
		slog.String("kind", kind.String()),
		slog.String("path", pc.Path()))
	if kind == KindVideo {
		return e.FromVideo(pc)
	}
	return e.FromHome(pc)
}

// FromVideo runs the playback-page chain.
func (e *Extractor) FromVideo(pc *page.Context) Outcome {
	return e.Video.Run(pc, e.state, e.logger)
}

// FromHome runs the channel-page chain.
func (e *Extractor) FromHome(pc *page.Context) Outcome {
	return e.Home.Run(pc, e.state, e.logger)
}
