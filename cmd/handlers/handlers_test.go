package handlers

import (
	"testing"
)

func TestParseIDs(t *testing.T) {
	ids, err := parseIDs([]string{"1", "42", "7"})
	if err != nil {
		t.Fatalf("parseIDs failed: %v", err)
	}
	if len(ids) != 3 || ids[1] != 42 {
		t.Errorf("unexpected ids: %v", ids)
	}

	for _, bad := range []string{"abc", "0", "-3", "1.5"} {
		if _, err := parseIDs([]string{bad}); err == nil {
			t.Errorf("expected error for %q", bad)
		}
	}
}

func TestApplyTagEdits(t *testing.T) {
	tests := []struct {
		name    string
		current []string
		edits   []string
		want    []string
		wantErr bool
	}{
		{
			name:    "add with plus prefix",
			current: []string{"go"},
			edits:   []string{"+web"},
			want:    []string{"go", "web"},
		},
		{
			name:    "bare argument adds",
			current: nil,
			edits:   []string{"go"},
			want:    []string{"go"},
		},
		{
			name:    "remove with minus prefix",
			current: []string{"go", "web"},
			edits:   []string{"-web"},
			want:    []string{"go"},
		},
		{
			name:    "adding an existing tag is a no-op",
			current: []string{"go"},
			edits:   []string{"+go"},
			want:    []string{"go"},
		},
		{
			name:    "removing an absent tag is a no-op",
			current: []string{"go"},
			edits:   []string{"-web"},
			want:    []string{"go"},
		},
		{
			name:    "invalid tag rejected",
			current: nil,
			edits:   []string{"+Not_Valid"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := applyTagEdits(tt.current, tt.edits)
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if len(got) != len(tt.want) {
				t.Fatalf("expected %v, got %v", tt.want, got)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("expected %v, got %v", tt.want, got)
					break
				}
			}
		})
	}
}

func TestDescribeArticle(t *testing.T) {
	if got := describeArticle(7, "A Title", "https://x"); got != "#7 A Title" {
		t.Errorf("unexpected description: %q", got)
	}
	if got := describeArticle(7, "", "https://x"); got != "#7 https://x" {
		t.Errorf("expected URL fallback, got %q", got)
	}
}

func TestSummarizeIDs(t *testing.T) {
	if got := summarizeIDs([]int64{1, 2, 3}); got != "1, 2, 3" {
		t.Errorf("unexpected summary: %q", got)
	}
}
