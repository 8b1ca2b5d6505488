// Package blocks implements the body parser: it splits a document's body
// into an ordered sequence of prose paragraphs, trace blocks (evidence
// claims), and include blocks (modular composition), and renders trace
// blocks back to fenced text.
package blocks

import (
	"strings"

	"gopkg.in/yaml.v3"
)

// TraceMethod records how a trace block's claim was established.
type TraceMethod string

const (
	Automatic TraceMethod = "automatic"
	Manual    TraceMethod = "manual"
	Agent     TraceMethod = "agent"
)

// AgentMetadata annotates a trace produced by an automated agent.
type AgentMetadata struct {
	Model      string `yaml:"model"`
	PromptHash string `yaml:"prompt_hash,omitempty"`
}

// TraceBlock is an evidence claim embedded in a document body.
type TraceBlock struct {
	Source        string         `yaml:"source"`
	Hash          string         `yaml:"hash,omitempty"`
	Selector      string         `yaml:"selector,omitempty"`
	Expected      string         `yaml:"expected"`
	Method        TraceMethod    `yaml:"method,omitempty"`
	Extractor     string         `yaml:"extractor,omitempty"`
	Timestamp     string         `yaml:"timestamp,omitempty"`
	Context       string         `yaml:"context,omitempty"`
	Confidence    *float64       `yaml:"confidence,omitempty"`
	AgentMetadata *AgentMetadata `yaml:"agent_metadata,omitempty"`
}

// ExtractorName returns the configured extractor, defaulting to "regex"
// when a selector is present but no extractor was named.
func (t TraceBlock) ExtractorName() string {
	if t.Extractor != "" {
		return t.Extractor
	}
	if t.Selector != "" {
		return "regex"
	}
	return ""
}

// IncludeRef is the parsed body of an include block.
type IncludeRef struct {
	Path      string `yaml:"path"`
	Integrity string `yaml:"integrity,omitempty"`
}

// Section is the sum type produced by Parse: a Paragraph, Trace, or
// Include. It is a closed set — the three concrete types below are the
// only implementations.
type Section interface {
	isSection()
}

// Paragraph is a run of prose text outside any fence.
type Paragraph struct {
	Text string
}

func (Paragraph) isSection() {}

// Trace is a successfully parsed ```trace fence.
type Trace struct {
	Block TraceBlock
}

func (Trace) isSection() {}

// Include is a ```include fence, stored as raw fenced text; its YAML body
// is parsed lazily by ParseInclude (internal/compiler does this at
// verification time).
type Include struct {
	Raw string
}

func (Include) isSection() {}

// Parse splits body into an ordered sequence of Sections, per spec.md §4.2:
// left-trimmed fence detection, paragraph flush on fence open, trace-parse
// failure demotes to Paragraph rather than aborting, trailing non-blank
// text becomes a final Paragraph.
func Parse(body string) []Section {
	var sections []Section
	var current strings.Builder
	inBlock := false
	blockType := ""

	flushParagraph := func() {
		if strings.TrimSpace(current.String()) != "" {
			sections = append(sections, Paragraph{Text: current.String()})
		}
		current.Reset()
	}

	lines := strings.Split(body, "\n")
	// strings.Split on a body ending in \n produces a trailing empty
	// element; drop it so the loop below doesn't synthesize a phantom line.
	if len(lines) > 0 && lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}

	for _, line := range lines {
		trimmed := strings.TrimLeft(line, " \t")

		if inBlock {
			current.WriteString(line)
			current.WriteByte('\n')
			if strings.HasPrefix(trimmed, "```") {
				raw := current.String()
				switch blockType {
				case "trace":
					if tb, err := parseTraceBlock(raw); err == nil {
						sections = append(sections, Trace{Block: tb})
					} else {
						sections = append(sections, Paragraph{Text: raw})
					}
				case "include":
					sections = append(sections, Include{Raw: raw})
				default:
					sections = append(sections, Paragraph{Text: raw})
				}
				current.Reset()
				inBlock = false
				blockType = ""
			}
			continue
		}

		switch {
		case strings.HasPrefix(trimmed, "```trace"):
			flushParagraph()
			current.WriteString(line)
			current.WriteByte('\n')
			inBlock = true
			blockType = "trace"
		case strings.HasPrefix(trimmed, "```include"):
			flushParagraph()
			current.WriteString(line)
			current.WriteByte('\n')
			inBlock = true
			blockType = "include"
		default:
			current.WriteString(line)
			current.WriteByte('\n')
		}
	}

	flushParagraph()
	return sections
}

// parseTraceBlock parses the YAML mapping between a ```trace ... ``` fence
// pair. raw includes both fence lines.
func parseTraceBlock(raw string) (TraceBlock, error) {
	lines := strings.Split(strings.TrimRight(raw, "\n"), "\n")
	if len(lines) < 2 {
		return TraceBlock{}, errShortBlock
	}
	inner := strings.Join(lines[1:len(lines)-1], "\n")

	var tb TraceBlock
	if err := yaml.Unmarshal([]byte(inner), &tb); err != nil {
		return TraceBlock{}, err
	}
	if tb.Method == "" {
		tb.Method = Automatic
	}
	return tb, nil
}

// ParseInclude parses the YAML body of a raw Include section.
func ParseInclude(raw string) (IncludeRef, error) {
	lines := strings.Split(strings.TrimRight(raw, "\n"), "\n")
	if len(lines) < 2 {
		return IncludeRef{}, errShortBlock
	}
	inner := strings.Join(lines[1:len(lines)-1], "\n")

	var ref IncludeRef
	if err := yaml.Unmarshal([]byte(inner), &ref); err != nil {
		return IncludeRef{}, err
	}
	return ref, nil
}

// RenderTrace re-emits a trace block as fenced text: ```trace, its YAML
// dump, and a closing fence.
func RenderTrace(t TraceBlock) (string, error) {
	out, err := yaml.Marshal(t)
	if err != nil {
		return "", err
	}
	var b strings.Builder
	b.WriteString("```trace\n")
	b.Write(out)
	b.WriteString("```\n")
	return b.String(), nil
}

// RenderInclude emits an include fence for ref.
func RenderInclude(ref IncludeRef) (string, error) {
	out, err := yaml.Marshal(ref)
	if err != nil {
		return "", err
	}
	var b strings.Builder
	b.WriteString("```include\n")
	b.Write(out)
	b.WriteString("```\n")
	return b.String(), nil
}

// Render re-emits sections back into a body string, passing Paragraph and
// Include sections through verbatim and re-dumping Trace sections' YAML.
func Render(sections []Section) (string, error) {
	var b strings.Builder
	for _, s := range sections {
		switch v := s.(type) {
		case Paragraph:
			b.WriteString(v.Text)
		case Include:
			b.WriteString(v.Raw)
		case Trace:
			rendered, err := RenderTrace(v.Block)
			if err != nil {
				return "", err
			}
			b.WriteString(rendered)
		}
	}
	return b.String(), nil
}

type shortBlockError struct{}

func (shortBlockError) Error() string { return "block too short to contain fenced content" }

var errShortBlock = shortBlockError{}
