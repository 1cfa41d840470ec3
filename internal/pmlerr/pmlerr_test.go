package pmlerr

import (
	"strings"
	"testing"
)

func TestErrorString(t *testing.T) {
	err := New(UnexpectedToken, Position{Line: 2, Column: 5, Offset: 10}, "expected %s, got %s", "int", "bool")
	want := "[UNEXPECTED_TOKEN] expected int, got bool at 2:5"
	if got := err.Error(); got != want {
		t.Fatalf("Error() = %q, want %q", got, want)
	}
}

func TestErrorStringPositionless(t *testing.T) {
	err := Newf(Internal, "invariant violated: %s", "mixed branch types")
	want := "[INTERNAL] invariant violated: mixed branch types"
	if got := err.Error(); got != want {
		t.Fatalf("Error() = %q, want %q", got, want)
	}
}

func TestFormatDetailedAddsExcerptAndCaret(t *testing.T) {
	source := "let x = 1 in\n  x ++ 2\n"
	err := New(UnknownToken, Position{Line: 2, Column: 5, Offset: 16}, "unrecognised character %q", '+')

	got := err.FormatDetailed(source)
	lines := strings.Split(got, "\n")
	if len(lines) != 3 {
		t.Fatalf("FormatDetailed produced %d lines, want 3:\n%s", len(lines), got)
	}
	if lines[1] != "    x ++ 2" {
		t.Fatalf("excerpt line = %q, want %q", lines[1], "    x ++ 2")
	}
	if lines[2] != "      ^" {
		t.Fatalf("caret line = %q, want %q", lines[2], "      ^")
	}
}

func TestFormatDetailedPositionlessIsUnchanged(t *testing.T) {
	err := Newf(ExternalChecker, "running prism: %v", "exit status 1")
	if got := err.FormatDetailed("irrelevant source"); got != err.Error() {
		t.Fatalf("FormatDetailed() = %q, want %q", got, err.Error())
	}
}

func TestFormatDetailedOutOfRangeLineIsUnchanged(t *testing.T) {
	err := New(UnexpectedToken, Position{Line: 50, Column: 1, Offset: 0}, "unexpected eof")
	if got := err.FormatDetailed("one line only\n"); got != err.Error() {
		t.Fatalf("FormatDetailed() = %q, want %q", got, err.Error())
	}
}
