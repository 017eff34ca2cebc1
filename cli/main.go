package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"text/tabwriter"
	"time"

	"ytrss/clipboard"
	"ytrss/config"
	"ytrss/extract"
	"ytrss/feedback"
	ythttp "ytrss/http"
	"ytrss/invocation"
	"ytrss/page"
	"ytrss/youtube"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	command := os.Args[1]
	args := os.Args[2:]

	switch command {
	case "copy":
		cmdCopy(args)
	case "extract":
		cmdExtract(args)
	case "feed":
		cmdFeed(args)
	case "verify":
		cmdVerify(args)
	case "help", "-h", "--help":
		printUsage()
	default:
		// A bare source behaves like copy
		cmdCopy(os.Args[1:])
	}
}

func printUsage() {
	fmt.Fprintf(os.Stderr, `ytrss - copy a YouTube channel's RSS feed address

Usage:
  ytrss copy [flags] <page-url|file|->     Copy the feed address of a page to the clipboard
  ytrss extract [flags] <page-url|file|->  Print the channel found on a page
  ytrss feed <channel-id>                  Print the feed address for a channel id
  ytrss verify <channel-id>                Fetch a channel feed and summarize it
  ytrss help                               Show this help message

Examples:
  ytrss https://www.youtube.com/@somehandle                       # Copy (default)
  ytrss copy --verify https://www.youtube.com/watch?v=dQw4w9WgXcQ
  ytrss extract --url https://www.youtube.com/watch?v=x saved.html
  curl -s https://www.youtube.com/@somehandle | ytrss extract --json -
  ytrss feed UCuAXFkgsw1L7xaCfnd5JJOw

For help on specific command: ytrss <command> -h
`)
}

// setup loads configuration and builds the logger.
func setup() (*config.Config, *slog.Logger) {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}

	var level slog.Level
	if err := level.UnmarshalText([]byte(cfg.LogLevel)); err != nil {
		level = slog.LevelInfo
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)
	return cfg, logger
}

func commandContext(cfg *config.Config) (context.Context, context.CancelFunc) {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	// One page fetch plus one feed fetch, each with retries.
	ctx, cancel := context.WithTimeout(ctx, 2*cfg.HTTPTimeout*time.Duration(cfg.MaxRetries+1))
	return ctx, func() {
		cancel()
		stop()
	}
}

func sourceArg(fs *flag.FlagSet, what string) string {
	argv := fs.Args()
	if len(argv) == 0 {
		fmt.Fprintf(os.Stderr, "Error: missing %s\n", what)
		fs.Usage()
		os.Exit(1)
	}
	return argv[0]
}

func tabURL(source, navURL string) string {
	if navURL != "" {
		return navURL
	}
	s := strings.ToLower(source)
	if strings.HasPrefix(s, "http://") || strings.HasPrefix(s, "https://") {
		return source
	}
	return page.DefaultNavigationURL
}

func cmdCopy(args []string) {
	fs := flag.NewFlagSet("copy", flag.ExitOnError)
	navURL := fs.String("url", "", "Navigation URL used to classify a saved page")
	verify := fs.Bool("verify", false, "Fetch the feed after copying")
	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: ytrss copy [flags] <page-url|file|->\n\nFlags:\n")
		fs.PrintDefaults()
	}
	fs.Parse(args)
	source := sourceArg(fs, "page source")

	cfg, logger := setup()
	ctx, cancel := commandContext(cfg)
	defer cancel()

	clip, err := clipboard.New(cfg.Clipboard)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	client := ythttp.New(cfg.HTTP())
	defer client.Close()
	target := page.Target{Loader: page.NewLoader(client), Source: source, NavURL: *navURL}

	presenter := feedback.NewPresenter(feedback.NewTerminal(os.Stderr),
		feedback.WithTimings(cfg.ToastDisplay, cfg.ToastFade),
		feedback.WithLogger(logger))
	defer presenter.Close()

	var result invocation.Result
	handler := invocation.NewHandler(target, clip, presenter,
		invocation.WithLogger(logger),
		invocation.WithContext(ctx),
		invocation.WithObserver(func(r invocation.Result) { result = r }))

	_, err = invocation.Dispatch(ctx, invocation.Tab{URL: tabURL(source, *navURL)}, handler, logger)
	switch {
	case errors.Is(err, invocation.ErrNotTargetSite):
		return
	case err != nil:
		os.Exit(1)
	}
	handler.Wait()

	if result.Err != nil {
		os.Exit(1)
	}
	fmt.Println(result.FeedURL)

	if *verify || cfg.VerifyFeed {
		summary, err := newChecker(cfg, client).Check(ctx, result.Outcome.ID)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error verifying feed: %v\n", err)
			os.Exit(1)
		}
		printSummary(summary)
	}
}

type extractOutput struct {
	ChannelID string `json:"channel_id"`
	Strategy  string `json:"strategy"`
	FeedURL   string `json:"feed_url"`
	PageKind  string `json:"page_kind"`
}

func cmdExtract(args []string) {
	fs := flag.NewFlagSet("extract", flag.ExitOnError)
	navURL := fs.String("url", "", "Navigation URL used to classify a saved page")
	asJSON := fs.Bool("json", false, "Output as JSON")
	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: ytrss extract [flags] <page-url|file|->\n\nFlags:\n")
		fs.PrintDefaults()
	}
	fs.Parse(args)
	source := sourceArg(fs, "page source")

	cfg, logger := setup()
	ctx, cancel := commandContext(cfg)
	defer cancel()

	client := ythttp.New(cfg.HTTP())
	defer client.Close()

	pc, err := page.NewLoader(client).Load(ctx, source, *navURL)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	out := extract.New(logger).Extract(pc)
	if !out.Found() {
		fmt.Fprintf(os.Stderr, "%s\n", feedback.MsgNotFound)
		os.Exit(1)
	}

	res := extractOutput{
		ChannelID: out.ID.String(),
		Strategy:  out.Strategy,
		FeedURL:   out.FeedURL(),
		PageKind:  extract.Classify(pc.Path()).String(),
	}

	if *asJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(res); err != nil {
			fmt.Fprintf(os.Stderr, "Error encoding output: %v\n", err)
			os.Exit(1)
		}
		return
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "CHANNEL\t%s\n", res.ChannelID)
	fmt.Fprintf(w, "STRATEGY\t%s\n", res.Strategy)
	fmt.Fprintf(w, "PAGE\t%s\n", res.PageKind)
	fmt.Fprintf(w, "FEED\t%s\n", res.FeedURL)
	w.Flush()
}

func cmdFeed(args []string) {
	fs := flag.NewFlagSet("feed", flag.ExitOnError)
	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: ytrss feed <channel-id>\n")
	}
	fs.Parse(args)

	id, err := youtube.ParseChannelID(sourceArg(fs, "channel-id"))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	fmt.Println(youtube.FeedURL(id))
}

func cmdVerify(args []string) {
	fs := flag.NewFlagSet("verify", flag.ExitOnError)
	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: ytrss verify <channel-id>\n")
	}
	fs.Parse(args)

	id, err := youtube.ParseChannelID(sourceArg(fs, "channel-id"))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	cfg, _ := setup()
	ctx, cancel := commandContext(cfg)
	defer cancel()

	client := ythttp.New(cfg.HTTP())
	defer client.Close()

	fmt.Fprintf(os.Stderr, "Fetching %s...\n", youtube.FeedURL(id))
	summary, err := newChecker(cfg, client).Check(ctx, id)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error verifying feed: %v\n", err)
		os.Exit(1)
	}
	printSummary(summary)
}

func newChecker(cfg *config.Config, client *ythttp.Client) *youtube.FeedChecker {
	checker := youtube.NewFeedCheckerWithClient(client.HTTPClient())
	checker.SetUserAgent(cfg.UserAgent)
	retryCfg := cfg.Retry()
	checker.RetryConfig = &retryCfg
	return checker
}

func printSummary(s *youtube.FeedSummary) {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "TITLE\t%s\n", s.Title)
	if s.Author != "" {
		fmt.Fprintf(w, "AUTHOR\t%s\n", s.Author)
	}
	fmt.Fprintf(w, "ENTRIES\t%d\n", s.Entries)
	if !s.Latest.IsZero() {
		fmt.Fprintf(w, "LATEST\t%s\n", s.Latest.Format("2006-01-02 15:04"))
	}
	fmt.Fprintf(w, "FEED\t%s\n", s.URL)
	w.Flush()
}
