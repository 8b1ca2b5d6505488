package tmd

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"strconv"
	"time"

	"github.com/tracemd/tmd/internal/canon"
)

// ComputeVersionHash computes the deterministic SHA-256 digest spec.md §4.5
// defines: canonicalized body bytes followed by a sorted-key JSON
// serialization of the frontmatter projection (version_hash and signature
// excluded, since they are outputs of this computation, not inputs).
func (d *TracedDocument) ComputeVersionHash() [32]byte {
	h := sha256.New()
	h.Write([]byte(canon.Text(d.Body)))

	projection := map[string]string{
		"id":                         d.FrontMatter.ID.String(),
		"title":                      d.FrontMatter.Title,
		"policy_allow_include":       strconv.FormatBool(d.FrontMatter.Policy.AllowInclude),
		"policy_allow_quote":         strconv.FormatBool(d.FrontMatter.Policy.AllowQuote),
		"policy_require_attribution": strconv.FormatBool(d.FrontMatter.Policy.RequireAttribution),
		"created_at":                 d.FrontMatter.CreatedAt.UTC().Format(time.RFC3339Nano),
		"doc_status":                 string(d.FrontMatter.DocStatus),
		"protocol_version":           d.FrontMatter.ProtocolVersion,
		"doc_version":                strconv.FormatUint(uint64(d.FrontMatter.DocVersion), 10),
	}
	if d.FrontMatter.Author != "" {
		projection["author"] = d.FrontMatter.Author
	}
	if d.FrontMatter.PublicKey != "" {
		projection["public_key"] = d.FrontMatter.PublicKey
	}
	if d.FrontMatter.ModifiedAt != nil {
		projection["modified_at"] = d.FrontMatter.ModifiedAt.UTC().Format(time.RFC3339Nano)
	}
	if d.FrontMatter.PrevVersionHash != "" {
		projection["prev_version_hash"] = d.FrontMatter.PrevVersionHash
	}

	// extra is flattened last so that, per the documented open question
	// (DESIGN.md), a colliding key silently overwrites a reserved one —
	// last write wins, matching the original implementation.
	d.FrontMatter.Extra.Each(func(k, v string) {
		projection[k] = v
	})

	// encoding/json sorts map[string]string keys lexicographically on
	// Marshal, which is exactly the "sorted string mapping" spec.md §4.5
	// requires — no extra canonical-JSON library needed.
	fmJSON, _ := json.Marshal(projection)
	h.Write(fmJSON)

	var out [32]byte
	copy(out[:], h.Sum(nil))
	return out
}

// Seal computes the version hash, chains the previous one, signs it, and
// transitions the document's status per spec.md §4.5.
func (d *TracedDocument) Seal(kp KeyPair) *TracedDocument {
	if d.FrontMatter.DocStatus != Revoked {
		d.FrontMatter.DocStatus = Published
	}
	now := time.Now().UTC()
	d.FrontMatter.ModifiedAt = &now

	if d.FrontMatter.VersionHash != "" {
		d.FrontMatter.PrevVersionHash = d.FrontMatter.VersionHash
	}
	d.FrontMatter.DocVersion++

	// public_key must be set before computing the hash: the projection
	// includes it when non-empty, and Verify recomputes the hash after
	// parsing a document that already has public_key populated.
	d.FrontMatter.PublicKey = hex.EncodeToString(kp.Public)

	hash := d.ComputeVersionHash()
	sig := ed25519Sign(kp, hash[:])

	d.FrontMatter.VersionHash = hex.EncodeToString(hash[:])
	d.FrontMatter.Signature = hex.EncodeToString(sig)
	return d
}

func ed25519Sign(kp KeyPair, message []byte) []byte {
	return kp.Sign(message)
}

// Update refreshes modified_at and, per spec.md §4.7, demotes a
// Published/Revoked document to Draft, clearing its signature and version
// hash so it cannot be mistaken for a verified document.
func (d *TracedDocument) Update() *TracedDocument {
	now := time.Now().UTC()
	d.FrontMatter.ModifiedAt = &now
	if d.FrontMatter.DocStatus == Published || d.FrontMatter.DocStatus == Revoked {
		d.FrontMatter.DocStatus = Draft
		d.FrontMatter.Signature = ""
		d.FrontMatter.VersionHash = ""
	}
	return d
}
