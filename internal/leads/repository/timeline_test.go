package repository

import (
	"strings"
	"testing"
)

func TestTruncateSummary(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		maxLen int
		want   string
		isNil  bool
	}{
		{"empty", "", 400, "", true},
		{"whitespace only", "   \n\t ", 400, "", true},
		{"short text untouched", "called the customer", 400, "called the customer", false},
		{"exactly at limit", strings.Repeat("a", 10), 10, strings.Repeat("a", 10), false},
		{"one over limit", strings.Repeat("a", 11), 10, strings.Repeat("a", 10) + "...", false},
		{"long text gets ellipsis", strings.Repeat("x", 500), 400, strings.Repeat("x", 400) + "...", false},
		{"trims before measuring", "  hello  ", 5, "hello", false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := TruncateSummary(tc.input, tc.maxLen)
			if tc.isNil {
				if got != nil {
					t.Errorf("TruncateSummary(%q) = %q, want nil", tc.input, *got)
				}
				return
			}
			if got == nil {
				t.Fatalf("TruncateSummary(%q) = nil, want %q", tc.input, tc.want)
			}
			if *got != tc.want {
				t.Errorf("TruncateSummary(%q) = %q, want %q", tc.input, *got, tc.want)
			}
		})
	}
}
