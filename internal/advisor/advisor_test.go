package advisor

import (
	"testing"

	"github.com/skillreg/skillreg/internal/registry"
)

func TestNew_RequiresRegistry(t *testing.T) {
	if _, err := New(nil, nil); err == nil {
		t.Error("New(nil) error = nil, want error")
	}
}

func TestInferDocType(t *testing.T) {
	tests := []struct {
		path string
		want registry.DocType
	}{
		{"blog/2026/postgres-tips.md", registry.DocTypeBlog},
		{"docs/research/embeddings.md", registry.DocTypeResearch},
		{"docs/case-studies/acme.md", registry.DocTypeCaseStudy},
		{"examples/usage.md", registry.DocTypeCaseStudy},
		{"reference/api.md", registry.DocTypeReference},
		{"docs/notes.md", registry.DocTypeResearch},
		{"DOCS/BLOG/POST.MD", registry.DocTypeBlog},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			if got := InferDocType(tt.path); got != tt.want {
				t.Errorf("InferDocType(%q) = %q, want %q", tt.path, got, tt.want)
			}
		})
	}
}
