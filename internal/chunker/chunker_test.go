package chunker

import (
	"fmt"
	"strings"
	"testing"
)

func TestSplitGroupsTokens(t *testing.T) {
	got := Split("a b c d e", 2)
	want := []string{"a b", "c d", "e"}
	if len(got) != len(want) {
		t.Fatalf("Split() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("Split()[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestSplitEmptyInput(t *testing.T) {
	if got := Split("", 500); got != nil {
		t.Fatalf("Split(empty) = %v, want nil", got)
	}
	if got := Split("   \n\t ", 500); got != nil {
		t.Fatalf("Split(whitespace) = %v, want nil", got)
	}
}

func TestSplitClampsSize(t *testing.T) {
	got := Split("a b c", 0)
	if len(got) != 3 {
		t.Fatalf("Split with size 0 should clamp to 1, got %v", got)
	}
}

// Joining the chunks with single spaces must reproduce the
// whitespace-normalised input for any chunk size.
func TestSplitRoundTrip(t *testing.T) {
	text := "The  quick\tbrown fox\n\njumps over   the lazy dog again and again"
	normalised := strings.Join(strings.Fields(text), " ")
	for _, size := range []int{1, 2, 3, 5, 100} {
		t.Run(fmt.Sprintf("size_%d", size), func(t *testing.T) {
			chunks := Split(text, size)
			if got := strings.Join(chunks, " "); got != normalised {
				t.Fatalf("round trip with size %d = %q, want %q", size, got, normalised)
			}
		})
	}
}

func TestSplitDeterministic(t *testing.T) {
	text := strings.Repeat("word ", 1200)
	first := Split(text, 500)
	second := Split(text, 500)
	if len(first) != 3 || len(second) != 3 {
		t.Fatalf("1200 tokens at size 500 should yield 3 chunks, got %d and %d", len(first), len(second))
	}
	for i := range first {
		if first[i] != second[i] {
			t.Fatalf("chunking is not deterministic at index %d", i)
		}
	}
}

func TestJoinBlankLine(t *testing.T) {
	cases := []struct {
		name  string
		parts []string
		want  string
	}{
		{"both", []string{"left", "right"}, "left\n\nright"},
		{"first empty", []string{"", "right"}, "right"},
		{"second empty", []string{"left", ""}, "left"},
		{"both empty", []string{"", ""}, ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := JoinBlankLine(tc.parts...); got != tc.want {
				t.Fatalf("JoinBlankLine(%q) = %q, want %q", tc.parts, got, tc.want)
			}
		})
	}
}

func TestMidpoint(t *testing.T) {
	if got := Midpoint(1.0, 2.0); got != 1.5 {
		t.Fatalf("Midpoint(1,2) = %v, want 1.5", got)
	}
}
