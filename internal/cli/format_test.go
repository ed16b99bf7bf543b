package cli

import (
	"strings"
	"testing"
	"time"
)

func TestFormatAmount(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{0, "₹0.00"},
		{5, "₹5.00"},
		{1234.5, "₹1,234.50"},
		{12345.67, "₹12,345.67"},
		{1234567, "₹1,234,567.00"},
		{-200, "-₹200.00"},
		{-12345.67, "-₹12,345.67"},
	}

	for _, tt := range tests {
		if got := FormatAmount(tt.in); got != tt.want {
			t.Errorf("FormatAmount(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestFormatNumber(t *testing.T) {
	tests := []struct {
		in   int64
		want string
	}{
		{0, "0"},
		{999, "999"},
		{1000, "1,000"},
		{1234567, "1,234,567"},
		{-1234, "-1,234"},
	}

	for _, tt := range tests {
		if got := FormatNumber(tt.in); got != tt.want {
			t.Errorf("FormatNumber(%d) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestFormatPercent(t *testing.T) {
	if got := FormatPercent(0.6); got != "60.0%" {
		t.Errorf("FormatPercent(0.6) = %q, want 60.0%%", got)
	}
	if got := FormatPercent(1.075); got != "107.5%" {
		t.Errorf("FormatPercent(1.075) = %q, want 107.5%%", got)
	}
}

func TestFormatDates(t *testing.T) {
	d := time.Date(2025, 10, 6, 15, 4, 5, 0, time.UTC)
	if got := FormatMonth(d); got != "2025-10" {
		t.Errorf("FormatMonth = %q", got)
	}
	if got := FormatDate(d); got != "2025-10-06" {
		t.Errorf("FormatDate = %q", got)
	}
}

func TestRenderSparkline(t *testing.T) {
	if got := RenderSparkline(nil); got != "" {
		t.Errorf("empty input = %q, want empty", got)
	}

	got := RenderSparkline([]float64{0, 50, 100})
	runes := []rune(got)
	if len(runes) != 3 {
		t.Fatalf("got %d runes, want 3", len(runes))
	}
	if runes[0] != '▁' || runes[2] != '█' {
		t.Errorf("sparkline = %q, want min then max blocks", got)
	}
}

func TestRenderBudgetBar(t *testing.T) {
	if got := RenderBudgetBar(100, 0, 10); got != "" {
		t.Errorf("zero budget = %q, want empty", got)
	}
	if got := RenderBudgetBar(50, 100, 10); got == "" {
		t.Error("valid bar should not be empty")
	}
}

func TestRenderTable(t *testing.T) {
	out := RenderTable(Table{
		Title:   "Monthly Summary",
		Headers: []string{"Month", "Income"},
		Rows: [][]string{
			{"2025-09", "₹10,000.00"},
			{"2025-10", "₹5,000.00"},
		},
	})

	for _, want := range []string{"Monthly Summary", "Month", "₹10,000.00", "╭", "╯"} {
		if !strings.Contains(out, want) {
			t.Errorf("table output missing %q", want)
		}
	}
}
