package embedding

import "fmt"

// Content caps for embedding input. Skills carry a name and description
// that dominate the signal, so their body is truncated harder than
// documents, where the body is the signal.
const (
	maxSkillContentChars    = 4000
	maxDocumentContentChars = 8000
)

// SkillText builds the embedding input for a skill.
func SkillText(name, description, content string) string {
	return fmt.Sprintf("%s: %s\n\n%s", name, description, truncate(content, maxSkillContentChars))
}

// DocumentText builds the embedding input for a document.
func DocumentText(title, content string) string {
	return fmt.Sprintf("%s\n\n%s", title, truncate(content, maxDocumentContentChars))
}

// QueryText bounds ad-hoc query input to the document cap so oversized
// pastes do not blow the embedder's context window.
func QueryText(text string) string {
	return truncate(text, maxDocumentContentChars)
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	// Back off to a rune boundary so we never emit a split UTF-8 sequence.
	cut := max
	for cut > 0 && s[cut]&0xC0 == 0x80 {
		cut--
	}
	return s[:cut]
}
