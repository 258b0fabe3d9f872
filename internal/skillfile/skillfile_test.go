package skillfile

import (
	"strings"
	"testing"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name     string
		content  string
		want     Frontmatter
		wantBody string
		wantErr  bool
	}{
		{
			name: "full frontmatter",
			content: "---\n" +
				"name: pdf-extract\n" +
				"description: Extracts tables from PDFs\n" +
				"version: 1.2.0\n" +
				"author: docs-team\n" +
				"---\n" +
				"# PDF Extraction\n\nBody here.\n",
			want: Frontmatter{
				Name:        "pdf-extract",
				Description: "Extracts tables from PDFs",
				Version:     "1.2.0",
				Author:      "docs-team",
			},
			wantBody: "# PDF Extraction\n\nBody here.\n",
		},
		{
			name: "document metadata",
			content: "---\n" +
				"doc_type: research\n" +
				"source_url: https://example.com/paper\n" +
				"---\n" +
				"content",
			want:     Frontmatter{DocType: "research", SourceURL: "https://example.com/paper"},
			wantBody: "content",
		},
		{
			name:     "no frontmatter",
			content:  "# Just a heading\n\nText.",
			want:     Frontmatter{},
			wantBody: "# Just a heading\n\nText.",
		},
		{
			name:     "unterminated block",
			content:  "---\nname: broken\nno closing delimiter",
			want:     Frontmatter{},
			wantBody: "---\nname: broken\nno closing delimiter",
		},
		{
			name:    "malformed yaml",
			content: "---\nname: [unclosed\n---\nbody",
			wantErr: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fm, body, err := Parse(tt.content)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Parse() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				return
			}
			if fm != tt.want {
				t.Errorf("Parse() frontmatter = %+v, want %+v", fm, tt.want)
			}
			if body != tt.wantBody {
				t.Errorf("Parse() body = %q, want %q", body, tt.wantBody)
			}
		})
	}
}

func TestExtractTitle(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    string
	}{
		{
			name:    "heading",
			content: "intro line\n# Real Title\nmore",
			want:    "Real Title",
		},
		{
			name:    "first line fallback",
			content: "A Short Document Title\n\nbody text follows",
			want:    "A Short Document Title",
		},
		{
			name:    "skips frontmatter markers",
			content: "---\nUseful Title Line\n---",
			want:    "Useful Title Line",
		},
		{
			name:    "empty content",
			content: "",
			want:    "Untitled",
		},
		{
			name:    "only short lines",
			content: "a\nb\nc",
			want:    "Untitled",
		},
		{
			name:    "long first line truncated",
			content: strings.Repeat("t", 90),
			want:    strings.Repeat("t", 80),
		},
		{
			// 30 runes of 3 bytes each; byte 80 falls mid-rune, so the
			// cut backs off to the rune boundary at byte 78.
			name:    "multibyte title truncated on rune boundary",
			content: strings.Repeat("日", 30),
			want:    strings.Repeat("日", 26),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ExtractTitle(tt.content, "Untitled"); got != tt.want {
				t.Errorf("ExtractTitle() = %q, want %q", got, tt.want)
			}
		})
	}
}
