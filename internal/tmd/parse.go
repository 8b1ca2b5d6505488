package tmd

import (
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/tracemd/tmd/internal/blocks"
	"github.com/tracemd/tmd/internal/registry"
)

// ParseTMD parses the .tmd file format of spec.md §6:
//
//	---
//	<YAML frontmatter>
//	---
//
//	<body>
func ParseTMD(text string) (*TracedDocument, error) {
	if !strings.HasPrefix(text, "---") {
		return nil, ErrFormat("document does not begin with frontmatter fence '---'")
	}
	rest := text[len("---"):]
	closeIdx := findClosingFence(rest)
	if closeIdx < 0 {
		return nil, ErrFormat("frontmatter closing fence '---' not found")
	}

	yamlStr := rest[:closeIdx]
	body := rest[closeIdx+len("\n---"):]
	body = strings.TrimLeft(body, "\r\n")

	var fm FrontMatter
	if err := yaml.Unmarshal([]byte(yamlStr), &fm); err != nil {
		return nil, ErrFormatf(err, "parse frontmatter")
	}
	applyFrontMatterDefaults(&fm)

	return &TracedDocument{FrontMatter: fm, Body: body}, nil
}

// applyFrontMatterDefaults fills in fields spec.md §3 documents as having
// defaults, for frontmatter YAML that omits them.
func applyFrontMatterDefaults(fm *FrontMatter) {
	if fm.ProtocolVersion == "" {
		fm.ProtocolVersion = registry.Default
	}
	if fm.DocStatus == "" {
		fm.DocStatus = Notes
	}
	if fm.Policy == (Policy{}) {
		fm.Policy = DefaultPolicy()
	}
}

// findClosingFence returns the byte offset, within s, of the first line
// that is exactly "---", preceded by the newline that starts that line. s
// is expected to start right after the opening "---" fence.
func findClosingFence(s string) int {
	idx := 0
	for {
		nl := strings.Index(s[idx:], "\n---")
		if nl < 0 {
			return -1
		}
		pos := idx + nl
		// Confirm the "---" is followed by end-of-string, \n, or \r\n —
		// i.e. it really is its own line, not a longer rule like "----".
		after := pos + len("\n---")
		if after >= len(s) || s[after] == '\n' || s[after] == '\r' {
			return pos
		}
		idx = pos + 1
	}
}

// Render re-emits the document as .tmd text: the YAML frontmatter fence,
// exactly one blank line, then the body.
func (d *TracedDocument) Render() (string, error) {
	fmYAML, err := yaml.Marshal(d.FrontMatter)
	if err != nil {
		return "", ErrSerialization("marshal frontmatter", err)
	}
	var b strings.Builder
	b.WriteString("---\n")
	b.Write(fmYAML)
	b.WriteString("---\n\n")
	b.WriteString(d.Body)
	return b.String(), nil
}

// Sections parses the document's body into its paragraph/trace/include
// sequence.
func (d *TracedDocument) Sections() []blocks.Section {
	return blocks.Parse(d.Body)
}
