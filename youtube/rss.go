package youtube

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/mmcdole/gofeed"

	"ytrss/internal/retry"
)

const defaultTimeout = 30 * time.Second

// FeedChecker fetches a channel's feed to confirm the built URL resolves.
type FeedChecker struct {
	parser      *gofeed.Parser
	RetryConfig *retry.Config
}

// FeedSummary describes a fetched channel feed.
type FeedSummary struct {
	// URL is the feed URL that was fetched.
	URL string
	// Title is the feed title, normally the channel name.
	Title string
	// Author is the first feed author, if any.
	Author string
	// Entries is the number of entries in the feed (YouTube serves at most 15).
	Entries int
	// Latest is the publish time of the newest entry. Zero when the feed is empty.
	Latest time.Time
}

// CheckError wraps a failure to fetch or parse a channel feed.
type CheckError struct {
	Channel ChannelID
	Err     error
}

func (e *CheckError) Error() string {
	return fmt.Sprintf("youtube: check feed %s: %v", e.Channel, e.Err)
}

func (e *CheckError) Unwrap() error {
	return e.Err
}

// NewFeedChecker creates a checker with a default HTTP client and retry policy.
func NewFeedChecker() *FeedChecker {
	return NewFeedCheckerWithClient(&http.Client{Timeout: defaultTimeout})
}

// NewFeedCheckerWithClient creates a checker using the given HTTP client.
func NewFeedCheckerWithClient(client *http.Client) *FeedChecker {
	fp := gofeed.NewParser()
	fp.Client = client
	cfg := retry.DefaultConfig()
	return &FeedChecker{parser: fp, RetryConfig: &cfg}
}

// SetUserAgent overrides the User-Agent sent with feed requests.
func (c *FeedChecker) SetUserAgent(ua string) {
	c.parser.UserAgent = ua
}

// Check fetches and parses the feed of id.
func (c *FeedChecker) Check(ctx context.Context, id ChannelID) (*FeedSummary, error) {
	if _, err := ParseChannelID(string(id)); err != nil {
		return nil, &CheckError{Channel: id, Err: err}
	}

	cfg := c.RetryConfig
	if cfg == nil {
		defaultCfg := retry.DefaultConfig()
		cfg = &defaultCfg
	}

	feedURL := FeedURL(id)
	var feed *gofeed.Feed
	err := retry.Do(ctx, *cfg, feedErrorClassifier, func(ctx context.Context) error {
		f, err := c.parser.ParseURLWithContext(feedURL, ctx)
		if err != nil {
			return &CheckError{Channel: id, Err: classifyFeedError(ctx, err)}
		}
		feed = f
		return nil
	})
	if err != nil {
		return nil, err
	}

	return summarize(feedURL, feed), nil
}

func classifyFeedError(ctx context.Context, err error) error {
	var httpErr gofeed.HTTPError
	if errors.As(err, &httpErr) {
		switch httpErr.StatusCode {
		case http.StatusNotFound:
			return ErrChannelNotFound
		case http.StatusTooManyRequests:
			return ErrRateLimited
		}
		return fmt.Errorf("HTTP %d: %s", httpErr.StatusCode, httpErr.Status)
	}
	if ctx.Err() != nil {
		return ErrNetworkTimeout
	}
	return err
}

func summarize(feedURL string, feed *gofeed.Feed) *FeedSummary {
	s := &FeedSummary{URL: feedURL}
	if feed == nil {
		return s
	}
	s.Title = feed.Title
	if len(feed.Authors) > 0 && feed.Authors[0] != nil {
		s.Author = feed.Authors[0].Name
	}
	s.Entries = len(feed.Items)
	for _, item := range feed.Items {
		if item == nil || item.PublishedParsed == nil {
			continue
		}
		if item.PublishedParsed.After(s.Latest) {
			s.Latest = *item.PublishedParsed
		}
	}
	return s
}

// feedErrorClassifier determines if a feed check error is retryable.
func feedErrorClassifier(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, ErrChannelNotFound) || errors.Is(err, ErrInvalidChannelID) {
		return false
	}
	return retry.IsRetryable(err)
}
