// Package canon implements deterministic text normalization used as input
// to the version-hash computation in internal/tmd.
package canon

import (
	"strings"
	"unicode"
)

// Text canonicalizes s:
//  1. normalizes line endings to LF
//  2. strips trailing whitespace from every line
//  3. removes Unicode format (Cf) and invisible control characters, except
//     tab, LF, and CR
//  4. ensures the output ends with exactly one trailing newline when
//     non-empty
//
// Text is idempotent: Text(Text(s)) == Text(s).
func Text(s string) string {
	lines := splitLines(s)
	for i, l := range lines {
		lines[i] = strings.TrimRight(l, " \t\f\v")
	}
	joined := strings.Join(lines, "\n")

	var b strings.Builder
	b.Grow(len(joined))
	for _, r := range joined {
		if r == '\t' || r == '\n' || r == '\r' {
			b.WriteRune(r)
			continue
		}
		if isBannedFormatChar(r) {
			continue
		}
		if unicode.Is(unicode.Cf, r) {
			continue
		}
		if unicode.IsControl(r) {
			continue
		}
		b.WriteRune(r)
	}
	// Removing a format character can leave whitespace at the end of a line
	// that the trim above did not reach; trim again so Text stays idempotent.
	lines = strings.Split(b.String(), "\n")
	for i, l := range lines {
		lines[i] = strings.TrimRight(l, " \t\f\v")
	}
	out := strings.Join(lines, "\n")
	if out != "" {
		out = strings.TrimRight(out, "\n") + "\n"
	}
	return out
}

// splitLines splits s on any of \r\n, \r, or \n.
func splitLines(s string) []string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	s = strings.ReplaceAll(s, "\r", "\n")
	return strings.Split(s, "\n")
}

// isBannedFormatChar reports whether r falls in one of the explicit
// invisible-format ranges spec.md §4.1 names, for characters that may fall
// outside Go's unicode.Cf table (Mongolian Vowel Separator, specials, and a
// handful of historic format blocks).
func isBannedFormatChar(r rune) bool {
	switch {
	case r >= 0x0600 && r <= 0x0605:
		return true
	case r == 0x06DD:
		return true
	case r == 0x070F:
		return true
	case r >= 0x08A0 && r <= 0x08B4:
		return true
	case r >= 0x08E3 && r <= 0x08FF:
		return true
	case r == 0x180E:
		return true
	case r >= 0x200B && r <= 0x200F:
		return true
	case r >= 0x202A && r <= 0x202E:
		return true
	case r >= 0x2060 && r <= 0x206F:
		return true
	case r == 0xFEFF:
		return true
	case r >= 0xFFF0 && r <= 0xFFF8:
		return true
	case r == 0x110BD:
		return true
	case r >= 0x1BCA0 && r <= 0x1BCA4:
		return true
	case r >= 0x1D173 && r <= 0x1D17A:
		return true
	default:
		return false
	}
}
