package core

import "testing"

func TestHashURL(t *testing.T) {
	h := HashURL("https://example.com/article")
	if len(h) != 8 {
		t.Errorf("expected 8-character hash, got %q", h)
	}
	if h != HashURL("https://example.com/article") {
		t.Error("expected hashing to be deterministic")
	}
	if h == HashURL("https://example.com/article?utm=1") {
		t.Error("expected distinct hashes for distinct URLs")
	}
	if HashURL("https://Example.com") == HashURL("https://example.com") {
		t.Error("expected hashing to be case-sensitive")
	}
}

func TestValidTag(t *testing.T) {
	tests := []struct {
		tag  string
		want bool
	}{
		{"rust", true},
		{"rust-lang", true},
		{"web-dev-101", true},
		{"a", true},
		{"", false},
		{"Rust", false},
		{"rust_lang", false},
		{"rust--lang", false},
		{"-rust", false},
		{"rust-", false},
		{"tag with space", false},
		{"héllo", false},
	}

	for _, tt := range tests {
		if got := ValidTag(tt.tag); got != tt.want {
			t.Errorf("ValidTag(%q) = %t, want %t", tt.tag, got, tt.want)
		}
	}
}
