package xell

import (
	"strings"
	"testing"
)

func TestFormatCodeFrame(t *testing.T) {
	tests := []struct {
		name   string
		source string
		path   string
		pos    Position
		want   string
	}{
		{
			name:   "path header and context line",
			source: "fn boom():\n\tgive 1 % 0\n;",
			path:   "main.xel",
			pos:    Position{Line: 2, Column: 9},
			want:   "  --> main.xel:2:9\n 1 | fn boom():\n 2 |   give 1 % 0\n   |          ^",
		},
		{
			name:   "zero column points at first non-blank",
			source: "  x = y",
			pos:    Position{Line: 1},
			want:   "  --> line 1, column 3\n 1 |   x = y\n   |   ^",
		},
		{
			name:   "blank line above is not shown",
			source: "x = 1\n\ny = z",
			pos:    Position{Line: 3, Column: 5},
			want:   "  --> line 3, column 5\n 3 | y = z\n   |     ^",
		},
		{
			name:   "gutter widens for two digit lines",
			source: strings.Repeat("a\n", 9) + "bad",
			pos:    Position{Line: 10, Column: 1},
			want:   "  --> line 10, column 1\n  9 | a\n 10 | bad\n    | ^",
		},
		{
			name:   "column past the end is clamped",
			source: "ab",
			pos:    Position{Line: 1, Column: 40},
			want:   "  --> line 1, column 3\n 1 | ab\n   |   ^",
		},
		{
			name:   "line out of range",
			source: "ab",
			pos:    Position{Line: 4, Column: 1},
			want:   "",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := formatCodeFrame(tt.source, tt.path, tt.pos); got != tt.want {
				t.Fatalf("unexpected frame:\n%s\nwant:\n%s", got, tt.want)
			}
		})
	}
}

func TestParseErrorCarriesFrame(t *testing.T) {
	_, err := Parse("x = 1\ny = )", "bad.xel")
	if err == nil {
		t.Fatalf("expected parse error")
	}
	msg := err.Error()
	if !strings.Contains(msg, "  --> bad.xel:2:5\n 1 | x = 1\n 2 | y = )\n   |     ^") {
		t.Fatalf("unexpected parse error frame:\n%s", msg)
	}
}
