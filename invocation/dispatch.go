package invocation

import (
	"context"
	"log/slog"
	"strings"
)

// TargetHost is the substring a tab URL must contain to be dispatched to.
const TargetHost = "youtube.com"

// Tab is the page the user triggered the action on.
type Tab struct {
	URL string
}

// Dispatch sends copy_rss to receiver when tab is a YouTube page. A nil
// receiver means the page-side component is not loaded.
func Dispatch(ctx context.Context, tab Tab, receiver Receiver, logger *slog.Logger) (Ack, error) {
	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.With(slog.String("component", "dispatch"))

	if !strings.Contains(tab.URL, TargetHost) {
		logger.Info("not a youtube page", slog.String("url", tab.URL))
		return Ack{}, ErrNotTargetSite
	}
	if isNil(receiver) {
		logger.Warn("page component not loaded, reload the page", slog.String("url", tab.URL))
		return Ack{}, ErrNotLoaded
	}
	if err := ctx.Err(); err != nil {
		return Ack{}, err
	}

	ack, err := receiver.Receive(Message{Action: ActionCopyRSS})
	if err != nil {
		logger.Error("message delivery failed", slog.Any("error", err))
		return Ack{}, err
	}
	logger.Debug("message acknowledged", slog.String("status", ack.Status))
	return ack, nil
}

func isNil(r Receiver) bool {
	if r == nil {
		return true
	}
	h, ok := r.(*Handler)
	return ok && h == nil
}
