package xell

import (
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"
)

// frameTab is how a tab is shown in a code frame; xell fmt indents with
// two spaces.
const frameTab = "  "

// formatCodeFrame renders the line at pos, preceded by the line above it
// when that one is not blank, with a caret under the column. A zero column
// points at the first non-blank rune of the line.
func formatCodeFrame(source, path string, pos Position) string {
	if source == "" || pos.Line <= 0 {
		return ""
	}
	lines := strings.Split(source, "\n")
	if pos.Line > len(lines) {
		return ""
	}
	lineAt := func(n int) string { return strings.TrimRight(lines[n-1], "\r") }

	target := []rune(lineAt(pos.Line))
	column := pos.Column
	if column <= 0 {
		column = 1
		for column <= len(target) && (target[column-1] == ' ' || target[column-1] == '\t') {
			column++
		}
	}
	column = min(column, len(target)+1)

	var b strings.Builder
	if path != "" {
		fmt.Fprintf(&b, "  --> %s:%d:%d", path, pos.Line, column)
	} else {
		fmt.Fprintf(&b, "  --> line %d, column %d", pos.Line, column)
	}

	first := pos.Line
	if first > 1 && strings.TrimSpace(lineAt(first-1)) != "" {
		first--
	}
	width := len(strconv.Itoa(pos.Line))
	for n := first; n <= pos.Line; n++ {
		fmt.Fprintf(&b, "\n %*d | %s", width, n, expandFrameTabs(lineAt(n)))
	}

	caret := utf8.RuneCountInString(expandFrameTabs(string(target[:column-1])))
	fmt.Fprintf(&b, "\n %s | %s^", strings.Repeat(" ", width), strings.Repeat(" ", caret))
	return b.String()
}

func expandFrameTabs(s string) string {
	return strings.ReplaceAll(s, "\t", frameTab)
}
