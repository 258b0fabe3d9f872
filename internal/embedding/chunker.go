package embedding

import "strings"

// Chunk splits text into pieces that each fit within maxTokens, breaking on
// blank-line paragraph boundaries. Text that already fits is returned as a
// single chunk, byte for byte.
//
// Paragraphs are accumulated greedily: a paragraph that would push the
// current chunk past maxTokens closes the chunk and seeds the next one. A
// single paragraph larger than maxTokens becomes its own oversized chunk
// rather than being split mid-sentence.
//
// When overlap is positive, each chunk after the first is seeded with the
// previous chunk's final paragraph, provided that paragraph fits within the
// overlap budget. This is a best-effort continuity hint, not a guarantee of
// overlap tokens.
func Chunk(text string, maxTokens, overlap int) []string {
	if text == "" {
		return nil
	}
	if maxTokens <= 0 || CountTokens(text) <= maxTokens {
		return []string{text}
	}

	paragraphs := splitParagraphs(text)
	if len(paragraphs) == 0 {
		// Whitespace-only text has no paragraphs to split on. Still a
		// non-empty input, so it stays a single chunk.
		return []string{text}
	}

	var chunks []string
	var current []string
	currentTokens := 0

	flush := func() {
		if len(current) == 0 {
			return
		}
		chunks = append(chunks, strings.Join(current, "\n\n"))

		var seed []string
		seedTokens := 0
		if overlap > 0 {
			last := current[len(current)-1]
			if t := CountTokens(last); t <= overlap {
				seed = []string{last}
				seedTokens = t
			}
		}
		current = seed
		currentTokens = seedTokens
	}

	for _, para := range paragraphs {
		t := CountTokens(para)
		if currentTokens+t > maxTokens && len(current) > 0 {
			flush()
			// Drop the overlap seed when it leaves no room for para.
			if currentTokens+t > maxTokens {
				current = nil
				currentTokens = 0
			}
		}
		current = append(current, para)
		currentTokens += t
	}
	if len(current) > 0 {
		chunks = append(chunks, strings.Join(current, "\n\n"))
	}
	return chunks
}

func splitParagraphs(text string) []string {
	parts := strings.Split(text, "\n\n")
	paragraphs := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			paragraphs = append(paragraphs, p)
		}
	}
	return paragraphs
}
