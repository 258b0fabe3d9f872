package embedding

import "unicode/utf8"

// CountTokens estimates the number of model tokens in text.
//
// It uses the rune count divided by two as a proxy. This overestimates for
// English prose (roughly four characters per token) and underestimates for
// CJK text (roughly one token per character), which keeps chunk sizes
// conservative across scripts without pulling in a tokenizer dependency.
func CountTokens(text string) int {
	return utf8.RuneCountInString(text) / 2
}
