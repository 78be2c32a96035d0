package stats

import "testing"

func TestFormatTableAlignsColumns(t *testing.T) {
	headers := []string{"Class", "Count", "Ratio"}
	rows := [][]string{
		{"plain", "12", "1.00x"},
		{". ! ?", "3", "2.00x"},
	}
	rightAlign := map[int]bool{1: true}

	lines := formatTable(headers, rows, rightAlign)
	if len(lines) != 3 {
		t.Fatalf("expected 3 lines, got %d", len(lines))
	}
	if lines[0] != "Class Count Ratio" {
		t.Fatalf("unexpected header line: %q", lines[0])
	}
	if lines[1] != "plain    12 1.00x" {
		t.Fatalf("unexpected row line: %q", lines[1])
	}
	if lines[2] != ". ! ?     3 2.00x" {
		t.Fatalf("unexpected row line: %q", lines[2])
	}
}

func TestFormatTableWideRunes(t *testing.T) {
	lines := formatTable([]string{"k"}, [][]string{{"日本"}, {"a"}}, nil)
	if len(lines) != 3 {
		t.Fatalf("expected 3 lines, got %d", len(lines))
	}
	if lines[0] != "k   " || lines[2] != "a   " {
		t.Fatalf("expected padding to display width 4, got %q", lines)
	}
}
