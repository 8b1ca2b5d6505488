// Package render converts a traced document's body to an HTML preview,
// keeping trace and include fences out of Markdown interpretation so that
// evidence metadata can't smuggle in rendered HTML.
package render

import (
	"bytes"
	"html"
	"strings"

	"github.com/yuin/goldmark"

	"github.com/tracemd/tmd/internal/blocks"
	"github.com/tracemd/tmd/internal/tmd"
)

var mdRenderer = goldmark.New()

// Preview renders doc's body to HTML: prose paragraphs go through
// goldmark, trace and include fences are emitted as escaped <pre><code>
// blocks so their raw YAML is visible but never interpreted as Markdown.
func Preview(doc *tmd.TracedDocument) string {
	var b strings.Builder
	for _, section := range doc.Sections() {
		switch s := section.(type) {
		case blocks.Paragraph:
			b.WriteString(renderMarkdown(s.Text))
		case blocks.Trace:
			rendered, err := blocks.RenderTrace(s.Block)
			if err != nil {
				rendered = s.Block.Source
			}
			writeFence(&b, "trace", rendered)
		case blocks.Include:
			writeFence(&b, "include", s.Raw)
		}
	}
	return b.String()
}

func writeFence(b *strings.Builder, class, raw string) {
	b.WriteString(`<pre><code class="tmd-` + class + `">`)
	b.WriteString(html.EscapeString(raw))
	b.WriteString("</code></pre>\n")
}

// renderMarkdown converts Markdown source to an HTML string. On error it
// returns the original, escaped body unmodified.
func renderMarkdown(body string) string {
	var buf bytes.Buffer
	if err := mdRenderer.Convert([]byte(body), &buf); err != nil {
		return html.EscapeString(body)
	}
	return buf.String()
}
