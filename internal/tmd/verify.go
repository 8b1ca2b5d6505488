package tmd

import (
	"crypto/ed25519"
	"encoding/hex"

	"github.com/tracemd/tmd/internal/registry"
)

// Verify checks the document's integrity and authenticity per spec.md §4.5:
// protocol-version status, presence of a seal, hash integrity, and a
// strict Ed25519 signature check against publicKey.
func (d *TracedDocument) Verify(publicKey ed25519.PublicKey) error {
	status, known := registry.Lookup(d.FrontMatter.ProtocolVersion)
	if !known {
		return ErrVerification("unknown protocol version: " + d.FrontMatter.ProtocolVersion)
	}
	if status == registry.Obsolete {
		return ErrVerification("protocol version is obsolete: " + d.FrontMatter.ProtocolVersion)
	}

	if d.FrontMatter.VersionHash == "" || d.FrontMatter.Signature == "" {
		return ErrVerification("document is not sealed")
	}

	storedHash, err := hex.DecodeString(d.FrontMatter.VersionHash)
	if err != nil || len(storedHash) != 32 {
		return ErrVerification("malformed version_hash")
	}
	computed := d.ComputeVersionHash()
	if hex.EncodeToString(computed[:]) != hex.EncodeToString(storedHash) {
		return ErrVerification("integrity check failed: version_hash mismatch")
	}

	sig, err := hex.DecodeString(d.FrontMatter.Signature)
	if err != nil || len(sig) != ed25519.SignatureSize {
		return ErrCrypto("malformed signature", nil)
	}

	if !ed25519.Verify(publicKey, computed[:], sig) {
		return ErrCrypto("signature verification failed", nil)
	}
	return nil
}
