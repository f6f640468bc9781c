package tokenizer

import (
	"strings"
	"testing"
)

func TestCount(t *testing.T) {
	tok, err := New()
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	if got := tok.Count(""); got != 0 {
		t.Errorf("Count(\"\") = %d, want 0", got)
	}

	n := tok.Count("The quick brown fox jumps over the lazy dog.")
	if n < 5 || n > 20 {
		t.Errorf("Count of short sentence out of plausible range: %d", n)
	}
}

func TestTruncate(t *testing.T) {
	tok, err := New()
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	long := strings.Repeat("word ", 500)
	short := tok.Truncate(long, 50)
	if tok.Count(short) > 50 {
		t.Errorf("truncated text still %d tokens", tok.Count(short))
	}

	// Under-budget text is returned unchanged.
	s := "short text"
	if got := tok.Truncate(s, 100); got != s {
		t.Errorf("Truncate changed under-budget text: %q", got)
	}
}
