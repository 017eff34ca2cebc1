package invocation

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ytrss/clipboard"
	"ytrss/feedback"
	"ytrss/page"
)

var channelID = "UC" + strings.Repeat("x", 22)

const (
	watchURL   = "https://www.youtube.com/watch?v=dQw4w9WgXcQ"
	channelURL = "https://www.youtube.com/@somehandle"
)

type fakeClipboard struct {
	mu    sync.Mutex
	calls []string
	err   error
	gate  chan struct{}
}

func (c *fakeClipboard) Write(_ context.Context, text string) error {
	if c.gate != nil {
		<-c.gate
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.calls = append(c.calls, text)
	return c.err
}

func (c *fakeClipboard) written() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]string(nil), c.calls...)
}

type toastSurface struct {
	mu     sync.Mutex
	toasts []feedback.Toast
}

func (s *toastSurface) Append(t feedback.Toast) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.toasts = append(s.toasts, t)
}
func (s *toastSurface) Fade(feedback.Toast)   {}
func (s *toastSurface) Remove(feedback.Toast) {}

func (s *toastSurface) shown() []feedback.Toast {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]feedback.Toast(nil), s.toasts...)
}

func staticSource(t *testing.T, navURL, html string) page.Source {
	t.Helper()
	return page.SourceFunc(func(context.Context) (*page.Context, error) {
		return page.FromString(navURL, html)
	})
}

func newHandler(t *testing.T, src page.Source, clip clipboard.Writer) (*Handler, *toastSurface) {
	t.Helper()
	surface := &toastSurface{}
	presenter := feedback.NewPresenter(surface, feedback.WithTimings(time.Hour, time.Hour))
	t.Cleanup(presenter.Close)
	return NewHandler(src, clip, presenter), surface
}

func TestCopySuccess(t *testing.T) {
	html := `<html><head><link rel="alternate" type="application/rss+xml" href="https://www.youtube.com/feeds/videos.xml?channel_id=` + channelID + `"></head><body></body></html>`
	clip := &fakeClipboard{}
	h, surface := newHandler(t, staticSource(t, channelURL, html), clip)

	res := h.Copy(context.Background())
	require.NoError(t, res.Err)
	want := "https://www.youtube.com/feeds/videos.xml?channel_id=" + channelID
	assert.Equal(t, want, res.FeedURL)
	assert.Equal(t, []string{want}, clip.written())

	toasts := surface.shown()
	require.Len(t, toasts, 1)
	assert.Equal(t, feedback.MsgCopied, toasts[0].Text)
	assert.Equal(t, feedback.Success, toasts[0].Kind)
}

func TestNotFoundNeverTouchesClipboard(t *testing.T) {
	html := `<html><head><title>Some Video</title></head><body><p>nothing useful</p></body></html>`
	clip := &fakeClipboard{}
	h, surface := newHandler(t, staticSource(t, watchURL, html), clip)

	ack, err := h.Receive(Message{Action: ActionCopyRSS})
	require.NoError(t, err)
	assert.Equal(t, StatusSuccess, ack.Status)
	h.Wait()

	assert.Empty(t, clip.written())
	toasts := surface.shown()
	require.Len(t, toasts, 1)
	assert.Equal(t, feedback.MsgNotFound, toasts[0].Text)
	assert.Equal(t, feedback.Error, toasts[0].Kind)
	assert.Equal(t, "#f44336", toasts[0].Style.Background)
}

func TestClipboardFailureShowsDistinctError(t *testing.T) {
	html := `<html><head><meta itemprop="channelId" content="` + channelID + `"></head><body></body></html>`
	clip := &fakeClipboard{err: errors.New("permission denied")}
	h, surface := newHandler(t, staticSource(t, channelURL, html), clip)

	var results []Result
	var mu sync.Mutex
	h.observer = func(r Result) {
		mu.Lock()
		defer mu.Unlock()
		results = append(results, r)
	}

	_, err := h.Receive(Message{Action: ActionCopyRSS})
	require.NoError(t, err)
	h.Wait()

	assert.Len(t, clip.written(), 1, "the write is attempted once and not retried")
	toasts := surface.shown()
	require.Len(t, toasts, 1)
	assert.Equal(t, feedback.MsgCopyFailed, toasts[0].Text)
	assert.NotEqual(t, feedback.MsgNotFound, toasts[0].Text)

	require.Len(t, results, 1)
	assert.EqualError(t, results[0].Err, "permission denied")
	assert.Equal(t, "https://www.youtube.com/feeds/videos.xml?channel_id="+channelID, results[0].FeedURL)
}

func TestAckPrecedesCopy(t *testing.T) {
	html := `<html><head><meta itemprop="channelId" content="` + channelID + `"></head><body></body></html>`
	clip := &fakeClipboard{gate: make(chan struct{})}
	h, surface := newHandler(t, staticSource(t, channelURL, html), clip)

	ack, err := h.Receive(Message{Action: ActionCopyRSS})
	require.NoError(t, err)
	assert.Equal(t, Ack{Status: StatusSuccess}, ack)
	assert.Empty(t, surface.shown(), "no toast before the write completes")

	close(clip.gate)
	h.Wait()
	require.Len(t, surface.shown(), 1)
	assert.Equal(t, feedback.MsgCopied, surface.shown()[0].Text)
}

func TestUnknownAction(t *testing.T) {
	clip := &fakeClipboard{}
	h, surface := newHandler(t, staticSource(t, channelURL, "<html></html>"), clip)

	_, err := h.Receive(Message{Action: "paste"})
	assert.ErrorIs(t, err, ErrUnknownAction)
	h.Wait()
	assert.Empty(t, clip.written())
	assert.Empty(t, surface.shown())
}

func TestPageUnavailable(t *testing.T) {
	src := page.SourceFunc(func(context.Context) (*page.Context, error) {
		return nil, &page.LoadError{Source: "x", Err: errors.New("gone")}
	})
	clip := &fakeClipboard{}
	h, surface := newHandler(t, src, clip)

	res := h.Copy(context.Background())
	var loadErr *page.LoadError
	assert.True(t, errors.As(res.Err, &loadErr))
	assert.Empty(t, clip.written())
	require.Len(t, surface.shown(), 1)
	assert.Equal(t, feedback.MsgPageUnavailable, surface.shown()[0].Text)
}

func TestEachInvocationRereadsPage(t *testing.T) {
	calls := 0
	src := page.SourceFunc(func(context.Context) (*page.Context, error) {
		calls++
		return page.FromString(channelURL, `<html><head><meta itemprop="channelId" content="`+channelID+`"></head></html>`)
	})
	h := NewHandler(src, &fakeClipboard{}, nil)

	h.Copy(context.Background())
	h.Copy(context.Background())
	assert.Equal(t, 2, calls)
}

func TestMessageWireFormat(t *testing.T) {
	var msg Message
	require.NoError(t, json.Unmarshal([]byte(`{"action":"copy_rss"}`), &msg))
	assert.Equal(t, ActionCopyRSS, msg.Action)

	data, err := json.Marshal(Ack{Status: StatusSuccess})
	require.NoError(t, err)
	assert.JSONEq(t, `{"status":"success"}`, string(data))
}
