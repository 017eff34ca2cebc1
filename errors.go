package ytrss

import (
	"ytrss/clipboard"
	"ytrss/embedded"
	"ytrss/extract"
	"ytrss/internal/retry"
	"ytrss/invocation"
	"ytrss/page"
	"ytrss/youtube"
)

// Error handling types exported for library users.
//
// All error types support the standard error handling patterns:
//
// Using errors.Is() for sentinel errors:
//
//	if errors.Is(err, ytrss.ErrChannelNotFound) {
//		fmt.Println("Channel not found")
//	}
//
// Using errors.As() for wrapped errors:
//
//	var loadErr *ytrss.PageLoadError
//	if errors.As(err, &loadErr) {
//		fmt.Printf("Reading %s failed: %v\n", loadErr.Source, loadErr.Err)
//	}

// Type aliases for convenient error handling.
type (
	// MalformedStateError wraps an embedded state object that failed to parse.
	MalformedStateError = embedded.MalformedError
	// ClipboardWriteError wraps a rejected clipboard write.
	ClipboardWriteError = clipboard.WriteError
	// PageLoadError wraps a failure to read a page.
	PageLoadError = page.LoadError
	// FeedCheckError wraps a failed feed verification.
	FeedCheckError = youtube.CheckError
	// ExhaustedError wraps errors that occurred after retries were exhausted.
	ExhaustedError = retry.ExhaustedError
)

// Sentinel errors exported from sub-packages.
var (
	// ErrNotFound indicates no strategy could identify the channel.
	ErrNotFound = extract.ErrNotFound
	// ErrNoFocus indicates the page lost focus before the clipboard write.
	ErrNoFocus = clipboard.ErrNoFocus

	// Invocation errors
	// ErrUnknownAction indicates a message with an unsupported action.
	ErrUnknownAction = invocation.ErrUnknownAction
	// ErrNotTargetSite indicates the page is not on youtube.com.
	ErrNotTargetSite = invocation.ErrNotTargetSite
	// ErrNotLoaded indicates the page-side component is not available.
	ErrNotLoaded = invocation.ErrNotLoaded

	// Channel and feed errors
	// ErrInvalidChannelID indicates a string is not a UC... channel id.
	ErrInvalidChannelID = youtube.ErrInvalidChannelID
	// ErrChannelNotFound indicates the channel's feed does not exist.
	ErrChannelNotFound = youtube.ErrChannelNotFound
	// ErrRateLimited indicates the operation was rate limited.
	ErrRateLimited = youtube.ErrRateLimited
	// ErrNetworkTimeout indicates a network timeout occurred.
	ErrNetworkTimeout = youtube.ErrNetworkTimeout
)

// IsRetryable determines if an error should be retried.
// It returns false for context errors and errors marked permanent.
func IsRetryable(err error) bool {
	return retry.IsRetryable(err)
}
