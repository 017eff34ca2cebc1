package extract

import (
	"strings"

	"ytrss/embedded"
	"ytrss/page"
	"ytrss/youtube"
)

// OwnerSelectors are the owner and subscribe widgets of a playback page, in
// probe order. They reflect the channel currently rendered, which matters
// after client-side navigation leaves the embedded state stale.
var OwnerSelectors = []string{
	"#owner",
	"ytd-video-owner-renderer",
	"#upload-info",
	"#channel-name",
	"#subscribe-button",
}

// Page-surface selectors.
const (
	InfoCardSelector     = "#infocard-videos-button a"
	EndCardSelector      = "a.ytp-ce-channel-title.ytp-ce-link"
	FeedLinkSelector     = `link[rel="alternate"][type="application/rss+xml"]`
	ChannelMetaSelector  = `meta[itemprop="channelId"]`
	CanonicalSelector    = `link[rel="canonical"]`
	OpenGraphURLSelector = `meta[property="og:url"]`
)

// Strategy names, also used in logs.
const (
	StrategyDOMOwner       = "dom-owner"
	StrategyPlayerResponse = "player-response"
	StrategyInfoCard       = "infocard"
	StrategyEndCard        = "endcard"
	StrategyFeedLink       = "rss-alternate"
	StrategyChannelMeta    = "meta-channel-id"
	StrategyCanonical      = "canonical"
	StrategyOpenGraph      = "og-url"
	StrategyInitialData    = "initial-data"
	StrategyBodyText       = "body-text"
)

// VideoStrategies returns the playback-page chain.
func VideoStrategies() Chain {
	return Chain{
		{Name: StrategyDOMOwner, Probe: probeOwnerWidgets},
		{Name: StrategyPlayerResponse, Probe: stateProbe(embedded.PlayerResponse, "videoDetails.channelId")},
		{Name: StrategyInfoCard, Probe: linkProbe(InfoCardSelector, "href")},
		{Name: StrategyEndCard, Probe: linkProbe(EndCardSelector, "href")},
	}
}

// HomeStrategies returns the channel-page chain.
func HomeStrategies() Chain {
	return Chain{
		{Name: StrategyFeedLink, Probe: probeFeedLink},
		{Name: StrategyChannelMeta, Probe: probeChannelMeta},
		{Name: StrategyCanonical, Probe: linkProbe(CanonicalSelector, "href")},
		{Name: StrategyOpenGraph, Probe: linkProbe(OpenGraphURLSelector, "content")},
		{Name: StrategyInitialData, Probe: stateProbe(embedded.InitialData, "metadata.channelMetadataRenderer.externalId")},
		{Name: StrategyBodyText, Probe: probeBodyText},
	}
}

func probeOwnerWidgets(pc *page.Context, _ *embedded.Reader) (youtube.ChannelID, bool) {
	for _, sel := range OwnerSelectors {
		html, ok := pc.OuterHTML(sel)
		if !ok {
			continue
		}
		if id, ok := youtube.FindChannelID(html); ok {
			return id, true
		}
	}
	return "", false
}

// stateProbe reads a string at path in the named state object. Values not
// starting with "UC" are ignored.
func stateProbe(name, path string) Probe {
	return func(pc *page.Context, state *embedded.Reader) (youtube.ChannelID, bool) {
		blob, ok := state.Read(pc, name)
		if !ok {
			return "", false
		}
		raw := blob.String(path)
		if !strings.HasPrefix(raw, "UC") {
			return "", false
		}
		id, err := youtube.ParseChannelID(raw)
		if err != nil {
			return "", false
		}
		return id, true
	}
}

// linkProbe parses a /channel/UC... segment out of an attribute.
func linkProbe(selector, attr string) Probe {
	return func(pc *page.Context, _ *embedded.Reader) (youtube.ChannelID, bool) {
		v, ok := pc.Attr(selector, attr)
		if !ok {
			return "", false
		}
		return youtube.ChannelIDFromPath(v)
	}
}

func probeFeedLink(pc *page.Context, _ *embedded.Reader) (youtube.ChannelID, bool) {
	href, ok := pc.Attr(FeedLinkSelector, "href")
	if !ok {
		return "", false
	}
	return youtube.ChannelIDFromFeedURL(href)
}

func probeChannelMeta(pc *page.Context, _ *embedded.Reader) (youtube.ChannelID, bool) {
	content, ok := pc.Attr(ChannelMetaSelector, "content")
	if !ok {
		return "", false
	}
	id, err := youtube.ParseChannelID(strings.TrimSpace(content))
	if err != nil {
		return "", false
	}
	return id, true
}

func probeBodyText(pc *page.Context, _ *embedded.Reader) (youtube.ChannelID, bool) {
	return youtube.FindChannelID(pc.BodyHTML())
}
