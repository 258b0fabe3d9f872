package embedding

import (
	"strings"
	"testing"
)

func TestCountTokens(t *testing.T) {
	tests := []struct {
		name string
		text string
		want int
	}{
		{name: "empty", text: "", want: 0},
		{name: "ascii", text: "hello world", want: 5},
		{name: "single rune", text: "a", want: 0},
		{name: "multibyte runes", text: "日本語テキスト", want: 3},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CountTokens(tt.text); got != tt.want {
				t.Errorf("CountTokens(%q) = %d, want %d", tt.text, got, tt.want)
			}
		})
	}
}

func TestChunk_SingleChunkWhenUnderLimit(t *testing.T) {
	text := "first paragraph\n\nsecond paragraph"
	got := Chunk(text, 8000, 0)
	if len(got) != 1 {
		t.Fatalf("Chunk() returned %d chunks, want 1", len(got))
	}
	if got[0] != text {
		t.Errorf("Chunk() modified text under the limit: %q", got[0])
	}
}

func TestChunk_EmptyText(t *testing.T) {
	if got := Chunk("", 100, 0); got != nil {
		t.Errorf("Chunk(\"\") = %v, want nil", got)
	}
}

func TestChunk_WhitespaceOnlyTextStaysOneChunk(t *testing.T) {
	// Blank-line runs trim to zero paragraphs, but non-empty input must
	// still yield at least one chunk.
	text := strings.Repeat("\n\n", 200)
	got := Chunk(text, 100, 0)
	if len(got) != 1 {
		t.Fatalf("Chunk() returned %d chunks, want 1", len(got))
	}
	if got[0] != text {
		t.Errorf("Chunk() modified whitespace-only text: %q", got[0])
	}
}

func TestChunk_SplitsOnParagraphs(t *testing.T) {
	// Each paragraph is 40 runes -> 20 tokens. With a 50-token budget,
	// two paragraphs fit per chunk (20+20+separator), three do not.
	para := strings.Repeat("ab", 20)
	text := strings.Join([]string{para, para, para, para}, "\n\n")

	got := Chunk(text, 50, 0)
	if len(got) != 2 {
		t.Fatalf("Chunk() returned %d chunks, want 2: %q", len(got), got)
	}
	for i, c := range got {
		if CountTokens(c) > 50 {
			t.Errorf("chunk %d has %d tokens, want <= 50", i, CountTokens(c))
		}
		if !strings.Contains(c, para) {
			t.Errorf("chunk %d lost paragraph content", i)
		}
	}
}

func TestChunk_OversizedParagraphStandsAlone(t *testing.T) {
	big := strings.Repeat("x", 400) // 200 tokens, over a 100-token budget
	small := "short paragraph"
	text := small + "\n\n" + big + "\n\n" + small

	got := Chunk(text, 100, 0)
	if len(got) != 3 {
		t.Fatalf("Chunk() returned %d chunks, want 3: lengths %v", len(got), chunkLens(got))
	}
	if got[1] != big {
		t.Errorf("oversized paragraph was not kept whole")
	}
}

func TestChunk_OverlapSeedsNextChunk(t *testing.T) {
	p1 := strings.Repeat("a", 80) // 40 tokens
	p2 := strings.Repeat("b", 80)
	p3 := strings.Repeat("c", 80)
	text := strings.Join([]string{p1, p2, p3}, "\n\n")

	got := Chunk(text, 100, 50)
	if len(got) < 2 {
		t.Fatalf("Chunk() returned %d chunks, want >= 2", len(got))
	}
	// The second chunk should start with the first chunk's last paragraph.
	lastOfFirst := got[0][strings.LastIndex(got[0], "\n\n")+2:]
	if !strings.HasPrefix(got[1], lastOfFirst) {
		t.Errorf("second chunk does not start with overlap paragraph:\nfirst: %q\nsecond: %q", got[0], got[1])
	}
}

func TestChunk_NoOverlapDuplicationWhenDisabled(t *testing.T) {
	p1 := strings.Repeat("a", 80)
	p2 := strings.Repeat("b", 80)
	text := p1 + "\n\n" + p2

	got := Chunk(text, 50, 0)
	joined := strings.Join(got, "\n\n")
	if strings.Count(joined, p1) != 1 || strings.Count(joined, p2) != 1 {
		t.Errorf("paragraphs duplicated without overlap: %q", got)
	}
}

func chunkLens(chunks []string) []int {
	lens := make([]int, len(chunks))
	for i, c := range chunks {
		lens[i] = len(c)
	}
	return lens
}
