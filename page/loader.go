package page

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	ythttp "ytrss/http"
)

// DefaultNavigationURL classifies saved pages and stdin input when no
// navigation URL was given: they are treated as channel pages.
const DefaultNavigationURL = "https://www.youtube.com/"

// LoadError wraps a failure to read or parse a page source.
type LoadError struct {
	Source string
	Err    error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("page: load %s: %v", e.Source, e.Err)
}

func (e *LoadError) Unwrap() error {
	return e.Err
}

// Source yields the page an invocation should inspect. Implementations must
// re-read the page on every call; the page may have changed since the last
// invocation.
type Source interface {
	Current(ctx context.Context) (*Context, error)
}

// SourceFunc adapts a function to Source.
type SourceFunc func(ctx context.Context) (*Context, error)

// Current calls f.
func (f SourceFunc) Current(ctx context.Context) (*Context, error) {
	return f(ctx)
}

// Loader reads pages from HTTP(S) URLs, files or stdin.
type Loader struct {
	client *ythttp.Client
	stdin  io.Reader
}

// NewLoader creates a loader fetching remote pages through client.
func NewLoader(client *ythttp.Client) *Loader {
	if client == nil {
		client = ythttp.New(nil)
	}
	return &Loader{client: client, stdin: os.Stdin}
}

// WithStdin replaces the reader used for the "-" source.
func (l *Loader) WithStdin(r io.Reader) *Loader {
	l.stdin = r
	return l
}

// Load reads source and parses it. source is "-" for stdin, an http(s) URL
// or a file path. navURL is the address used to classify the page; when
// empty it is source itself for URLs and DefaultNavigationURL otherwise.
func (l *Loader) Load(ctx context.Context, source, navURL string) (*Context, error) {
	var body []byte
	var err error

	switch {
	case source == "-":
		body, err = io.ReadAll(l.stdin)
	case isRemote(source):
		var resp *ythttp.Response
		resp, err = l.client.Get(ctx, source)
		if err == nil {
			body = resp.Body
		}
		if navURL == "" {
			navURL = source
		}
	default:
		body, err = os.ReadFile(source)
	}
	if err != nil {
		return nil, &LoadError{Source: source, Err: err}
	}

	if navURL == "" {
		navURL = DefaultNavigationURL
	}

	pc, err := New(navURL, bytes.NewReader(body))
	if err != nil {
		return nil, &LoadError{Source: source, Err: err}
	}
	return pc, nil
}

// Target binds a loader to one source so it can be re-read per invocation.
type Target struct {
	Loader *Loader
	Source string
	NavURL string
}

// Current loads the target afresh.
func (t Target) Current(ctx context.Context) (*Context, error) {
	return t.Loader.Load(ctx, t.Source, t.NavURL)
}

func isRemote(source string) bool {
	s := strings.ToLower(source)
	return strings.HasPrefix(s, "http://") || strings.HasPrefix(s, "https://")
}
