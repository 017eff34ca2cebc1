package ytrss

import (
	"context"
	"io"

	"ytrss/extract"
	"ytrss/page"
	"ytrss/youtube"
)

// FeedURLFromReader parses page markup from r and returns the channel feed
// address. navURL is the address the page was loaded from.
func FeedURLFromReader(navURL string, r io.Reader) (string, error) {
	pc, err := page.New(navURL, r)
	if err != nil {
		return "", err
	}
	out := extract.New(nil).Extract(pc)
	if err := out.Err(); err != nil {
		return "", err
	}
	return out.FeedURL(), nil
}

// FeedURLFromHTML is FeedURLFromReader for a string.
func FeedURLFromHTML(navURL, html string) (string, error) {
	pc, err := page.FromString(navURL, html)
	if err != nil {
		return "", err
	}
	out := extract.New(nil).Extract(pc)
	if err := out.Err(); err != nil {
		return "", err
	}
	return out.FeedURL(), nil
}

// FeedURLForChannel validates id and returns its feed address.
func FeedURLForChannel(id string) (string, error) {
	cid, err := youtube.ParseChannelID(id)
	if err != nil {
		return "", err
	}
	return youtube.FeedURL(cid), nil
}

// VerifyFeed fetches the feed for id and summarizes it.
func VerifyFeed(ctx context.Context, id string) (*youtube.FeedSummary, error) {
	cid, err := youtube.ParseChannelID(id)
	if err != nil {
		return nil, err
	}
	return youtube.NewFeedChecker().Check(ctx, cid)
}
