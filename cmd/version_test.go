package cmd

import "testing"

func TestMaskKey(t *testing.T) {
	tests := []struct {
		name string
		key  string
		want string
	}{
		{name: "normal key", key: "AIzaSyExampleKey1234", want: "AIza...1234"},
		{name: "exactly eight chars", key: "abcd1234", want: "abcd...1234"},
		{name: "short key fully hidden", key: "abc", want: "****"},
		{name: "seven chars fully hidden", key: "abcdefg", want: "****"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := maskKey(tt.key); got != tt.want {
				t.Errorf("maskKey(%q) = %q, want %q", tt.key, got, tt.want)
			}
		})
	}
}
