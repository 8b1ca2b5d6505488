package canon_test

import (
	"strings"
	"testing"

	"github.com/tracemd/tmd/internal/canon"
)

func TestText_NormalizesLineEndings(t *testing.T) {
	in := "line one\r\nline two\rline three\n"
	want := "line one\nline two\nline three\n"
	if got := canon.Text(in); got != want {
		t.Errorf("Text(%q) = %q, want %q", in, got, want)
	}
}

func TestText_TrimsTrailingWhitespace(t *testing.T) {
	in := "hello   \t\nworld\t \n"
	want := "hello\nworld\n"
	if got := canon.Text(in); got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestText_StripsInvisibleFormatChars(t *testing.T) {
	in := "hello\xe2\x80\x8bworld\xef\xbb\xbf\n"
	want := "helloworld\n"
	if got := canon.Text(in); got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestText_EnsuresSingleTrailingNewline(t *testing.T) {
	in := "no newline"
	got := canon.Text(in)
	if !strings.HasSuffix(got, "\n") {
		t.Errorf("expected trailing newline, got %q", got)
	}
	if strings.HasSuffix(got, "\n\n") {
		t.Errorf("expected exactly one trailing newline, got %q", got)
	}
}

func TestText_EmptyStringStaysEmpty(t *testing.T) {
	if got := canon.Text(""); got != "" {
		t.Errorf("Text(\"\") = %q, want empty", got)
	}
}

func TestText_Idempotent(t *testing.T) {
	in := "Line One  \r\nLine ​Two\r\n\r\nLine Three"
	once := canon.Text(in)
	twice := canon.Text(once)
	if once != twice {
		t.Errorf("canonicalization not idempotent:\nonce:  %q\ntwice: %q", once, twice)
	}
}

func TestText_PreservesTabs(t *testing.T) {
	in := "a\tb\n"
	if got := canon.Text(in); got != in {
		t.Errorf("got %q, want %q", got, in)
	}
}
