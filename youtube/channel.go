// Package youtube holds the YouTube channel identifier type, the feed URL
// builder and a checker that confirms a built feed actually resolves.
package youtube

import (
	"errors"
	"fmt"
	"net/url"
	"regexp"
	"strings"
)

// FeedBaseURL is the endpoint serving a channel's Atom feed.
const FeedBaseURL = "https://www.youtube.com/feeds/videos.xml"

// Sentinel errors for channel and feed operations.
var (
	ErrInvalidChannelID = errors.New("youtube: invalid channel id")
	ErrChannelNotFound  = errors.New("youtube: channel not found")
	ErrRateLimited      = errors.New("youtube: rate limited")
	ErrNetworkTimeout   = errors.New("youtube: network timeout")
)

// ChannelID is a canonical channel identifier: "UC" followed by 22
// characters of [A-Za-z0-9_-].
type ChannelID string

var (
	// channelIDPattern matches a channel id anywhere in a string.
	channelIDPattern = regexp.MustCompile(`UC[a-zA-Z0-9_-]{22}`)
	exactChannelID   = regexp.MustCompile(`^UC[a-zA-Z0-9_-]{22}$`)
	// channelPathPattern captures the segment after /channel/ without
	// bounding its length; ParseChannelID does the validation.
	channelPathPattern = regexp.MustCompile(`/channel/(UC[a-zA-Z0-9_-]+)`)
)

// ParseChannelID validates s as a complete channel id.
func ParseChannelID(s string) (ChannelID, error) {
	if !exactChannelID.MatchString(s) {
		return "", fmt.Errorf("%w: %q", ErrInvalidChannelID, s)
	}
	return ChannelID(s), nil
}

// FindChannelID returns the first channel id appearing anywhere in s.
func FindChannelID(s string) (ChannelID, bool) {
	m := channelIDPattern.FindString(s)
	if m == "" {
		return "", false
	}
	return ChannelID(m), true
}

// ChannelIDFromPath extracts the id from a "/channel/UC..." segment of a URL
// or path. The segment must hold exactly one valid id.
func ChannelIDFromPath(s string) (ChannelID, bool) {
	m := channelPathPattern.FindStringSubmatch(s)
	if len(m) < 2 {
		return "", false
	}
	id, err := ParseChannelID(m[1])
	if err != nil {
		return "", false
	}
	return id, true
}

// ChannelIDFromFeedURL extracts the channel_id query value of a feed link.
func ChannelIDFromFeedURL(s string) (ChannelID, bool) {
	if !strings.Contains(s, "channel_id=UC") {
		return "", false
	}
	u, err := url.Parse(s)
	if err != nil {
		return "", false
	}
	id, err := ParseChannelID(u.Query().Get("channel_id"))
	if err != nil {
		return "", false
	}
	return id, true
}

// String returns the raw identifier.
func (id ChannelID) String() string {
	return string(id)
}

// FeedURL builds the feed URL for a validated channel id.
func FeedURL(id ChannelID) string {
	return FeedBaseURL + "?channel_id=" + string(id)
}
