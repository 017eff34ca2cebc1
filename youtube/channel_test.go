package youtube

import (
	"errors"
	"strings"
	"testing"
)

func TestParseChannelID(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{name: "valid", input: "UCuAXFkgsw1L7xaCfnd5JJOw"},
		{name: "valid with dash and underscore", input: "UC_x5XG1OV2P6uZZ5FSM9Ttw"},
		{name: "too short", input: "UCuAXFkgsw1L7xaCfnd5JJO", wantErr: true},
		{name: "too long", input: "UCuAXFkgsw1L7xaCfnd5JJOwx", wantErr: true},
		{name: "wrong prefix", input: "UUuAXFkgsw1L7xaCfnd5JJOw", wantErr: true},
		{name: "illegal character", input: "UCuAXFkgsw1L7xaCfnd5JJ.w", wantErr: true},
		{name: "embedded in URL", input: "https://www.youtube.com/channel/UCuAXFkgsw1L7xaCfnd5JJOw", wantErr: true},
		{name: "empty", input: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseChannelID(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseChannelID(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidChannelID) {
					t.Errorf("ParseChannelID(%q) error should wrap ErrInvalidChannelID", tt.input)
				}
				return
			}
			if got.String() != tt.input {
				t.Errorf("ParseChannelID(%q) = %s", tt.input, got)
			}
		})
	}
}

func TestFeedURL(t *testing.T) {
	ids := []string{
		"UCuAXFkgsw1L7xaCfnd5JJOw",
		"UCabcdefghijklmnopqrstuv",
		"UC-_0123456789abcdefABCD",
	}
	for _, raw := range ids {
		id, err := ParseChannelID(raw)
		if err != nil {
			t.Fatalf("ParseChannelID(%q): %v", raw, err)
		}
		want := "https://www.youtube.com/feeds/videos.xml?channel_id=" + raw
		if got := FeedURL(id); got != want {
			t.Errorf("FeedURL(%s) = %s, want %s", raw, got, want)
		}
		if FeedURL(id) != FeedURL(id) {
			t.Errorf("FeedURL(%s) is not deterministic", raw)
		}
	}
}

func TestFindChannelID(t *testing.T) {
	markup := `<div id="owner"><a href="/channel/UCuAXFkgsw1L7xaCfnd5JJOw">x</a> UC_x5XG1OV2P6uZZ5FSM9Ttw</div>`
	got, ok := FindChannelID(markup)
	if !ok || got != "UCuAXFkgsw1L7xaCfnd5JJOw" {
		t.Errorf("FindChannelID() = %q, %v", got, ok)
	}

	if _, ok := FindChannelID("no identifiers here UCshort"); ok {
		t.Error("FindChannelID() matched text without an id")
	}
}

func TestChannelIDFromPath(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  ChannelID
		ok    bool
	}{
		{name: "absolute URL", input: "https://www.youtube.com/channel/UCuAXFkgsw1L7xaCfnd5JJOw", want: "UCuAXFkgsw1L7xaCfnd5JJOw", ok: true},
		{name: "relative path", input: "/channel/UCuAXFkgsw1L7xaCfnd5JJOw/videos", want: "UCuAXFkgsw1L7xaCfnd5JJOw", ok: true},
		{name: "query params", input: "/channel/UCuAXFkgsw1L7xaCfnd5JJOw?sub_confirmation=1", want: "UCuAXFkgsw1L7xaCfnd5JJOw", ok: true},
		{name: "overlong segment", input: "/channel/UCuAXFkgsw1L7xaCfnd5JJOwEXTRA", ok: false},
		{name: "handle URL", input: "https://www.youtube.com/@testchannel", ok: false},
		{name: "custom name", input: "https://www.youtube.com/c/testchannel", ok: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ChannelIDFromPath(tt.input)
			if ok != tt.ok || got != tt.want {
				t.Errorf("ChannelIDFromPath(%q) = %q, %v; want %q, %v", tt.input, got, ok, tt.want, tt.ok)
			}
		})
	}
}

func TestChannelIDFromFeedURL(t *testing.T) {
	got, ok := ChannelIDFromFeedURL(FeedBaseURL + "?channel_id=UCuAXFkgsw1L7xaCfnd5JJOw")
	if !ok || got != "UCuAXFkgsw1L7xaCfnd5JJOw" {
		t.Errorf("ChannelIDFromFeedURL() = %q, %v", got, ok)
	}

	for _, bad := range []string{
		FeedBaseURL + "?playlist_id=PL123",
		FeedBaseURL + "?channel_id=UCtooShort",
		"",
	} {
		if id, ok := ChannelIDFromFeedURL(bad); ok {
			t.Errorf("ChannelIDFromFeedURL(%q) = %q, want no match", bad, id)
		}
	}

	if !strings.HasPrefix(FeedURL("UCuAXFkgsw1L7xaCfnd5JJOw"), FeedBaseURL) {
		t.Error("FeedURL should start with FeedBaseURL")
	}
}
