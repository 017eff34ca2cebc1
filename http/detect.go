package http

import (
	"net/http"
	"strconv"
	"strings"
	"time"
)

// consentHost serves the cookie-consent interstitial some regions are
// redirected to. The interstitial carries no channel data.
const consentHost = "consent.youtube.com"

// isRateLimited reports whether a response signals throttling. YouTube
// sometimes answers bot traffic with 403 plus rate limit headers instead of
// 429.
func isRateLimited(statusCode int, header http.Header) bool {
	switch statusCode {
	case http.StatusTooManyRequests, http.StatusServiceUnavailable:
		return true
	case http.StatusForbidden:
		return hasRateLimitHeaders(header)
	}
	return false
}

func hasRateLimitHeaders(header http.Header) bool {
	if header.Get("Retry-After") != "" {
		return true
	}
	if header.Get("X-RateLimit-Remaining") == "0" {
		return true
	}
	return header.Get("X-RateLimit-Reset") != ""
}

// parseRetryAfter extracts the wait from Retry-After (seconds or HTTP date)
// or X-RateLimit-Reset (seconds). Returns 0 if absent or unparseable.
func parseRetryAfter(header http.Header) time.Duration {
	if v := strings.TrimSpace(header.Get("Retry-After")); v != "" {
		if seconds, err := strconv.Atoi(v); err == nil {
			return time.Duration(seconds) * time.Second
		}
		if t, err := http.ParseTime(v); err == nil {
			return time.Until(t)
		}
	}
	if v := strings.TrimSpace(header.Get("X-RateLimit-Reset")); v != "" {
		if seconds, err := strconv.Atoi(v); err == nil {
			return time.Duration(seconds) * time.Second
		}
	}
	return 0
}

// isConsentRedirect reports whether resp ended on the consent interstitial.
func isConsentRedirect(resp *http.Response) bool {
	return resp.Request != nil && resp.Request.URL != nil &&
		strings.EqualFold(resp.Request.URL.Hostname(), consentHost)
}
