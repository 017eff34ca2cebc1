// Package embedded reads the JSON state objects YouTube injects into its own
// inline scripts (ytInitialPlayerResponse, ytInitialData).
//
// The shape of these objects is controlled by YouTube and changes without
// notice, so they are never decoded into typed structs: a Blob answers path
// queries and every missing or mistyped field reads as absent.
package embedded

import (
	"errors"
	"fmt"
	"log/slog"
	"regexp"
	"strings"
	"sync"

	"github.com/tidwall/gjson"

	"ytrss/page"
)

// Variable names of the state objects the extractors consume.
const (
	PlayerResponse = "ytInitialPlayerResponse"
	InitialData    = "ytInitialData"
)

// ErrNotAssigned reports that no script assigns the requested variable.
var ErrNotAssigned = errors.New("embedded: variable not assigned")

// MalformedError reports an assignment whose object literal is not valid JSON.
type MalformedError struct {
	Name string
	Err  error
}

func (e *MalformedError) Error() string {
	return fmt.Sprintf("embedded: %s is not valid JSON: %v", e.Name, e.Err)
}

func (e *MalformedError) Unwrap() error {
	return e.Err
}

var errInvalidJSON = errors.New("invalid JSON")

// Blob is a parsed state object.
type Blob struct {
	root gjson.Result
}

// String returns the string at a dotted path such as
// "videoDetails.channelId", or "" when the path is absent or not a string.
func (b Blob) String(path string) string {
	r := b.root.Get(path)
	if r.Type != gjson.String {
		return ""
	}
	return r.Str
}

// Exists reports whether path resolves to any value.
func (b Blob) Exists(path string) bool {
	return b.root.Get(path).Exists()
}

var (
	patternMu sync.Mutex
	patterns  = map[string]*regexp.Regexp{}
)

// assignment returns the regexp capturing `name = {...};`. The capture is
// non-greedy and stops at the first "};" on the same line.
func assignment(name string) *regexp.Regexp {
	patternMu.Lock()
	defer patternMu.Unlock()

	if re, ok := patterns[name]; ok {
		return re
	}
	re := regexp.MustCompile(regexp.QuoteMeta(name) + `\s*=\s*(\{.+?\});`)
	patterns[name] = re
	return re
}

// Parse captures the object literal assigned to name in script and parses
// it. It returns ErrNotAssigned when script has no such assignment and a
// *MalformedError when the captured text is not JSON.
func Parse(name, script string) (Blob, error) {
	if !strings.Contains(script, name+" =") {
		return Blob{}, ErrNotAssigned
	}
	m := assignment(name).FindStringSubmatch(script)
	if len(m) < 2 {
		return Blob{}, ErrNotAssigned
	}
	if !gjson.Valid(m[1]) {
		return Blob{}, &MalformedError{Name: name, Err: errInvalidJSON}
	}
	return Blob{root: gjson.Parse(m[1])}, nil
}

// Reader looks up state objects in a page's scripts.
type Reader struct {
	logger *slog.Logger
}

// NewReader creates a reader. A nil logger uses slog.Default().
func NewReader(logger *slog.Logger) *Reader {
	if logger == nil {
		logger = slog.Default()
	}
	return &Reader{logger: logger.With(slog.String("component", "embedded"))}
}

// Read returns the object assigned to name by the first script that
// contains the assignment. A malformed object is logged and reported as
// absent; later scripts are not consulted.
func (r *Reader) Read(pc *page.Context, name string) (Blob, bool) {
	for _, script := range pc.Scripts() {
		blob, err := Parse(name, script)
		if errors.Is(err, ErrNotAssigned) {
			continue
		}
		if err != nil {
			r.logger.Warn("state object unreadable",
				slog.String("variable", name),
				slog.Any("error", err))
			return Blob{}, false
		}
		return blob, true
	}
	return Blob{}, false
}
