package ytrss

import (
	"errors"
	"strings"
	"testing"
)

func TestFeedURLFromHTML(t *testing.T) {
	id := "UC" + strings.Repeat("Z", 22)
	html := `<html><head><link rel="canonical" href="https://www.youtube.com/channel/` + id + `"></head></html>`

	got, err := FeedURLFromHTML("https://www.youtube.com/@handle", html)
	if err != nil {
		t.Fatalf("FeedURLFromHTML: %v", err)
	}
	want := "https://www.youtube.com/feeds/videos.xml?channel_id=" + id
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}

	got, err = FeedURLFromReader("https://www.youtube.com/@handle", strings.NewReader(html))
	if err != nil || got != want {
		t.Errorf("FeedURLFromReader = %q, %v", got, err)
	}
}

func TestFeedURLFromHTMLNotFound(t *testing.T) {
	_, err := FeedURLFromHTML("https://www.youtube.com/watch?v=x", "<html><body>nothing</body></html>")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestFeedURLForChannel(t *testing.T) {
	got, err := FeedURLForChannel("UCuAXFkgsw1L7xaCfnd5JJOw")
	if err != nil {
		t.Fatal(err)
	}
	if got != "https://www.youtube.com/feeds/videos.xml?channel_id=UCuAXFkgsw1L7xaCfnd5JJOw" {
		t.Errorf("got %q", got)
	}

	if _, err := FeedURLForChannel("@handle"); !errors.Is(err, ErrInvalidChannelID) {
		t.Errorf("err = %v, want ErrInvalidChannelID", err)
	}
}
