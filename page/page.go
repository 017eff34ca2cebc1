// Package page models the document an invocation inspects: the navigation
// URL and the parsed HTML of the page at that URL.
package page

import (
	"fmt"
	"io"
	"net/url"
	"strings"
	"sync/atomic"

	"github.com/PuerkitoBio/goquery"
)

// Context is a read-only view of the current navigation URL and document.
// A Context is built per invocation and never reused across navigations.
type Context struct {
	url     *url.URL
	doc     *goquery.Document
	focused atomic.Bool
}

// New parses r as HTML for the page located at rawURL.
func New(rawURL string, r io.Reader) (*Context, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, fmt.Errorf("page: parse url %q: %w", rawURL, err)
	}
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, fmt.Errorf("page: parse document: %w", err)
	}
	return &Context{url: u, doc: doc}, nil
}

// FromString is New for in-memory markup.
func FromString(rawURL, html string) (*Context, error) {
	return New(rawURL, strings.NewReader(html))
}

// URL returns the navigation URL.
func (c *Context) URL() *url.URL {
	return c.url
}

// Path returns the navigation path, e.g. "/watch" or "/@handle".
func (c *Context) Path() string {
	return c.url.Path
}

// Document returns the parsed document.
func (c *Context) Document() *goquery.Document {
	return c.doc
}

// First returns the first element matching selector. The selection is empty
// when nothing matches.
func (c *Context) First(selector string) *goquery.Selection {
	return c.doc.Find(selector).First()
}

// Attr returns an attribute of the first element matching selector.
func (c *Context) Attr(selector, attr string) (string, bool) {
	sel := c.First(selector)
	if sel.Length() == 0 {
		return "", false
	}
	return sel.Attr(attr)
}

// OuterHTML serializes the first element matching selector, including the
// element itself.
func (c *Context) OuterHTML(selector string) (string, bool) {
	sel := c.First(selector)
	if sel.Length() == 0 {
		return "", false
	}
	html, err := goquery.OuterHtml(sel)
	if err != nil {
		return "", false
	}
	return html, true
}

// BodyHTML serializes the contents of <body>.
func (c *Context) BodyHTML() string {
	html, err := c.doc.Find("body").First().Html()
	if err != nil {
		return ""
	}
	return html
}

// Scripts returns the text of every <script> element in document order.
func (c *Context) Scripts() []string {
	var out []string
	c.doc.Find("script").Each(func(_ int, s *goquery.Selection) {
		out = append(out, s.Text())
	})
	return out
}

// Focus gives input focus back to the document. The action that triggers an
// invocation leaves focus on host chrome, and clipboard writes are refused
// until the document has it again.
func (c *Context) Focus() {
	c.focused.Store(true)
}

// Focused reports whether the document currently holds input focus.
func (c *Context) Focused() bool {
	return c.focused.Load()
}
