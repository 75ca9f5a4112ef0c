// Package render turns author markdown into sanitized HTML and derives
// the reading-time estimate. Rendering is a pure function of the
// source text and never fails a save: unparseable input degrades to
// escaped literal text.
package render

import (
	"bytes"
	"html"
	"math"
	"strings"
	"sync"

	chromahtml "github.com/alecthomas/chroma/v2/formatters/html"
	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	highlighting "github.com/yuin/goldmark-highlighting/v2"
)

// wordsPerMinute is the assumed reading speed for the estimate.
const wordsPerMinute = 200

// markdownInstance is initialized once and reused. The converter
// configuration (extensions, options) never changes and goldmark is
// safe to share across goroutines.
var (
	markdownInstance goldmark.Markdown
	markdownOnce     sync.Once
)

func getMarkdown() goldmark.Markdown {
	markdownOnce.Do(func() {
		markdownInstance = goldmark.New(
			goldmark.WithExtensions(
				extension.GFM,
				extension.DefinitionList,
				highlighting.NewHighlighting(
					highlighting.WithFormatOptions(
						chromahtml.WithClasses(true),
					),
				),
			),
		)
	})
	return markdownInstance
}

// policyInstance strips script injection vectors from rendered output
// while keeping the formatting the converter emits: headings,
// emphasis, lists, tables, and highlighted code (class attributes on
// pre/code/span carry the highlight tokens).
var (
	policyInstance *bluemonday.Policy
	policyOnce     sync.Once
)

func getPolicy() *bluemonday.Policy {
	policyOnce.Do(func() {
		p := bluemonday.UGCPolicy()
		p.AllowElements("span")
		p.AllowAttrs("class").Matching(bluemonday.SpaceSeparatedTokens).
			OnElements("pre", "code", "span", "div")
		policyInstance = p
	})
	return policyInstance
}

// Result is the derived content for one source text.
type Result struct {
	HTML        string
	ReadingTime int
	// Degraded is set when the source could not be converted and HTML
	// holds escaped literal text instead. Callers log it; it never
	// blocks a save.
	Degraded bool
}

// Render converts markdown to sanitized HTML and estimates reading
// time. Same input always yields the same output.
func Render(source string) Result {
	res := Result{ReadingTime: ReadingTime(source)}
	if strings.TrimSpace(source) == "" {
		return res
	}
	var buf bytes.Buffer
	if err := getMarkdown().Convert([]byte(source), &buf); err != nil {
		// Unparseable input becomes literal text, not an error.
		res.HTML = "<p>" + html.EscapeString(source) + "</p>"
		res.Degraded = true
		return res
	}
	res.HTML = getPolicy().Sanitize(buf.String())
	return res
}

// CountWords counts whitespace-separated tokens in the source text.
func CountWords(source string) int {
	return len(strings.Fields(source))
}

// ReadingTime estimates minutes to read the source at wordsPerMinute,
// with a floor of one minute. Empty input reads in one minute.
func ReadingTime(source string) int {
	minutes := int(math.Round(float64(CountWords(source)) / wordsPerMinute))
	if minutes < 1 {
		return 1
	}
	return minutes
}
