package compiler

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"
)

// checkHash verifies content against a trace's stored hash, which spec.md
// §4.4 requires to carry an algorithm prefix ("sha256:<hex>").
func checkHash(content []byte, stored string) error {
	algo, hexDigest, ok := strings.Cut(stored, ":")
	if !ok {
		return fmt.Errorf("hash %q missing algorithm prefix", stored)
	}
	if algo != "sha256" {
		return fmt.Errorf("unsupported hash algorithm %q", algo)
	}
	sum := sha256.Sum256(content)
	if hex.EncodeToString(sum[:]) != hexDigest {
		return fmt.Errorf("hash mismatch")
	}
	return nil
}
