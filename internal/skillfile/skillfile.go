// Package skillfile parses skill and document markdown files: YAML
// frontmatter metadata and title extraction. The registry core never parses
// markdown; this package feeds it plain strings.
package skillfile

import (
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// Frontmatter holds the metadata block of a skill or document file.
type Frontmatter struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
	Version     string `yaml:"version"`
	Author      string `yaml:"author"`
	DocType     string `yaml:"doc_type"`
	SourceURL   string `yaml:"source_url"`
}

// Parse extracts the YAML frontmatter from markdown content and returns it
// together with the body that follows. Content without a frontmatter block
// returns a zero Frontmatter and the full content as body.
func Parse(content string) (Frontmatter, string, error) {
	var fm Frontmatter

	rest, ok := strings.CutPrefix(content, "---\n")
	if !ok {
		if rest, ok = strings.CutPrefix(content, "---\r\n"); !ok {
			return fm, content, nil
		}
	}

	block, body, found := cutFrontmatterEnd(rest)
	if !found {
		return fm, content, nil
	}

	if err := yaml.Unmarshal([]byte(block), &fm); err != nil {
		return Frontmatter{}, content, fmt.Errorf("parsing frontmatter: %w", err)
	}
	return fm, body, nil
}

// cutFrontmatterEnd splits rest at the closing "---" line.
func cutFrontmatterEnd(rest string) (block, body string, found bool) {
	for _, sep := range []string{"\n---\n", "\n---\r\n"} {
		if before, after, ok := strings.Cut(rest, sep); ok {
			return before, after, true
		}
	}
	// Closing delimiter as the final line without a trailing newline.
	if before, ok := strings.CutSuffix(rest, "\n---"); ok {
		return before, "", true
	}
	return "", "", false
}

// ExtractTitle pulls a display title out of markdown content.
//
// It tries, in order: the first "#" heading, then the first short non-empty
// line among the leading five (skipping frontmatter markers), then the
// fallback.
func ExtractTitle(content, fallback string) string {
	for _, line := range strings.Split(content, "\n") {
		if rest, ok := strings.CutPrefix(line, "# "); ok {
			if title := strings.TrimSpace(rest); title != "" {
				return title
			}
		}
	}

	lines := strings.Split(strings.TrimSpace(content), "\n")
	if len(lines) > 5 {
		lines = lines[:5]
	}
	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "---") {
			continue
		}
		line = strings.TrimSpace(strings.Trim(line, "()"))
		if len(line) > 3 && len(line) < 100 {
			if len(line) > 80 {
				line = truncateRunes(line, 80)
			}
			return line
		}
	}
	return fallback
}

// truncateRunes cuts s to at most max bytes without splitting a UTF-8
// sequence.
func truncateRunes(s string, max int) string {
	cut := max
	for cut > 0 && s[cut]&0xC0 == 0x80 {
		cut--
	}
	return s[:cut]
}
