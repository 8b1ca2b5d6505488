package tmd

import (
	"time"

	"github.com/google/uuid"

	"github.com/tracemd/tmd/internal/registry"
)

// DocStatus is the lifecycle state of a document.
type DocStatus string

const (
	Notes     DocStatus = "notes"
	Draft     DocStatus = "draft"
	Published DocStatus = "published"
	Revoked   DocStatus = "revoked"
)

// Policy governs how other documents may reuse this one.
type Policy struct {
	AllowInclude       bool `yaml:"allow_include"`
	AllowQuote         bool `yaml:"allow_quote"`
	RequireAttribution bool `yaml:"require_attribution"`
}

// DefaultPolicy is the policy a freshly created document starts with.
func DefaultPolicy() Policy {
	return Policy{AllowInclude: true, AllowQuote: true, RequireAttribution: false}
}

// FrontMatter is the metadata block at the head of a document.
type FrontMatter struct {
	ID              uuid.UUID   `yaml:"id"`
	Title           string      `yaml:"title"`
	Author          string      `yaml:"author,omitempty"`
	PublicKey       string      `yaml:"public_key,omitempty"`
	Signature       string      `yaml:"signature,omitempty"`
	CreatedAt       time.Time   `yaml:"created_at"`
	ModifiedAt      *time.Time  `yaml:"modified_at,omitempty"`
	DocStatus       DocStatus   `yaml:"doc_status"`
	Policy          Policy      `yaml:"policy"`
	ProtocolVersion string      `yaml:"protocol_version"`
	DocVersion      uint32      `yaml:"doc_version"`
	PrevVersionHash string      `yaml:"prev_version_hash,omitempty"`
	VersionHash     string      `yaml:"version_hash,omitempty"`
	Extra           *orderedMap `yaml:"extra,omitempty"`
}

// defaultFrontMatter builds the front matter for a freshly created document.
func defaultFrontMatter(title string) FrontMatter {
	return FrontMatter{
		ID:              uuid.Must(uuid.NewV7()),
		Title:           title,
		CreatedAt:       time.Now().UTC(),
		DocStatus:       Notes,
		Policy:          DefaultPolicy(),
		ProtocolVersion: registry.Default,
		DocVersion:      0,
	}
}

// TracedDocument is a parsed .tmd document: front matter plus body.
type TracedDocument struct {
	FrontMatter FrontMatter
	Body        string
}

// New creates a fresh document with status Notes.
func New(title, body string) *TracedDocument {
	return &TracedDocument{
		FrontMatter: defaultFrontMatter(title),
		Body:        trimEdges(body),
	}
}

func trimEdges(s string) string {
	start := 0
	for start < len(s) && isSpaceByte(s[start]) {
		start++
	}
	end := len(s)
	for end > start && isSpaceByte(s[end-1]) {
		end--
	}
	return s[start:end]
}

func isSpaceByte(b byte) bool {
	return b == ' ' || b == '\t' || b == '\n' || b == '\r'
}

// WithAuthor sets the author field, returning the same document for
// chaining (mirrors the original's builder-style API).
func (d *TracedDocument) WithAuthor(author string) *TracedDocument {
	d.FrontMatter.Author = author
	return d
}

// WithExtra sets a key in the document's extra metadata map.
func (d *TracedDocument) WithExtra(key, value string) *TracedDocument {
	if d.FrontMatter.Extra == nil {
		d.FrontMatter.Extra = newOrderedMap()
	}
	d.FrontMatter.Extra.set(key, value)
	return d
}
