// Package ytrss finds the channel behind a YouTube page and produces the
// channel's RSS feed address.
//
// Overview
//
// ytrss provides high-level convenience functions for the most common operations:
//
//   - FeedURLFromHTML: Extract the feed address from page markup
//   - FeedURLForChannel: Build the feed address for a known channel id
//   - VerifyFeed: Fetch a feed and summarize it
//
// Quick Start
//
// Extract the feed address from a saved page:
//
//	f, _ := os.Open("channel.html")
//	feed, err := ytrss.FeedURLFromReader("https://www.youtube.com/@somehandle", f)
//	if err != nil {
//		log.Fatal(err)
//	}
//	fmt.Println(feed)
//
// Build a feed address directly:
//
//	feed, err := ytrss.FeedURLForChannel("UCuAXFkgsw1L7xaCfnd5JJOw")
//
// Page types
//
// The navigation URL decides which extraction chain runs. A path containing
// "/watch" is a playback page; everything else is treated as a channel page.
// Each chain tries its strategies in a fixed order and the first one that
// yields a valid channel id wins.
//
// Configuration
//
// ytrss uses a configuration system that loads settings from multiple sources:
//
//  1. Environment variables (highest priority, YTRSS_*; a .env file is honoured)
//  2. Config file (ytrss.json, ytrss.yaml or ytrss.yml in the working directory
//     or ~/.config/ytrss/)
//  3. Default values (lowest priority)
//
// Error Handling
//
// Checking for sentinel errors:
//
//	if errors.Is(err, ytrss.ErrNotFound) {
//		fmt.Println("not a channel page")
//	}
//
// Extracting wrapped error details:
//
//	var clipErr *ytrss.ClipboardWriteError
//	if errors.As(err, &clipErr) {
//		fmt.Printf("clipboard backend %s failed: %v\n", clipErr.Backend, clipErr.Err)
//	}
//
// Advanced Usage
//
// For more control, use the sub-packages directly:
//
//   - extract: Strategy chains and page classification
//   - embedded: Embedded page state objects
//   - page: Page loading and inspection
//   - invocation: The copy action, acknowledgement and host dispatch
//   - clipboard: Clipboard backends
//   - feedback: Toast notifications
//   - youtube: Channel ids, feed URLs and feed verification
//   - config: Configuration management
package ytrss
