package cli

import (
	"strings"
	"testing"
)

func TestFormatNumber(t *testing.T) {
	tests := []struct {
		in   int64
		want string
	}{
		{0, "0"},
		{999, "999"},
		{1000, "1,000"},
		{600000, "600,000"},
		{2000000, "2,000,000"},
		{-12345, "-12,345"},
	}
	for _, tt := range tests {
		if got := FormatNumber(tt.in); got != tt.want {
			t.Errorf("FormatNumber(%d) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestFormatTokens(t *testing.T) {
	tests := []struct {
		in   int64
		want string
	}{
		{512, "512"},
		{1234, "1.2K"},
		{1_234_567, "1.2M"},
		{2_500_000_000, "2.5B"},
	}
	for _, tt := range tests {
		if got := FormatTokens(tt.in); got != tt.want {
			t.Errorf("FormatTokens(%d) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestRenderTable_AllRowsPresent(t *testing.T) {
	out := RenderTable(Table{
		Headers: []string{"Field", "Value"},
		Rows: [][]string{
			{"Tokens", "600,000"},
			{"---"},
			{"Color", "🟡"},
		},
	})
	for _, want := range []string{"Field", "Tokens", "600,000", "Color", "🟡", "╭", "╯"} {
		if !strings.Contains(out, want) {
			t.Errorf("RenderTable output missing %q:\n%s", want, out)
		}
	}
	if lines := strings.Count(out, "\n"); lines != 7 {
		t.Errorf("RenderTable produced %d lines, want 7", lines)
	}
}

func TestRenderTable_Empty(t *testing.T) {
	if got := RenderTable(Table{}); got != "" {
		t.Errorf("RenderTable(empty) = %q, want empty", got)
	}
}
