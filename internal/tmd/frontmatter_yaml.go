package tmd

import (
	"time"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"
)

// rawFrontMatter is the YAML-decoded shadow of FrontMatter: google/uuid's
// UUID has no yaml.v3 marshaler of its own, so id round-trips through its
// canonical string form here, the same way the teacher shadows TOML front
// matter with string fields before building its typed Post.
type rawFrontMatter struct {
	ID              string      `yaml:"id"`
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

func (fm FrontMatter) MarshalYAML() (any, error) {
	return rawFrontMatter{
		ID:              fm.ID.String(),
		Title:           fm.Title,
		Author:          fm.Author,
		PublicKey:       fm.PublicKey,
		Signature:       fm.Signature,
		CreatedAt:       fm.CreatedAt,
		ModifiedAt:      fm.ModifiedAt,
		DocStatus:       fm.DocStatus,
		Policy:          fm.Policy,
		ProtocolVersion: fm.ProtocolVersion,
		DocVersion:      fm.DocVersion,
		PrevVersionHash: fm.PrevVersionHash,
		VersionHash:     fm.VersionHash,
		Extra:           fm.Extra,
	}, nil
}

func (fm *FrontMatter) UnmarshalYAML(node *yaml.Node) error {
	var raw rawFrontMatter
	if err := node.Decode(&raw); err != nil {
		return err
	}
	id, err := uuid.Parse(raw.ID)
	if err != nil && raw.ID != "" {
		return ErrFormatf(err, "parse frontmatter id %q", raw.ID)
	}
	*fm = FrontMatter{
		ID:              id,
		Title:           raw.Title,
		Author:          raw.Author,
		PublicKey:       raw.PublicKey,
		Signature:       raw.Signature,
		CreatedAt:       raw.CreatedAt,
		ModifiedAt:      raw.ModifiedAt,
		DocStatus:       raw.DocStatus,
		Policy:          raw.Policy,
		ProtocolVersion: raw.ProtocolVersion,
		DocVersion:      raw.DocVersion,
		PrevVersionHash: raw.PrevVersionHash,
		VersionHash:     raw.VersionHash,
		Extra:           raw.Extra,
	}
	return nil
}
