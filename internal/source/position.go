// Package source maps byte offsets in a translation unit's source text to
// line/column pairs and renders diagnostics with a caret under the offending
// text, the only anchor every AST node carries for later error reporting.
package source

import (
	"fmt"
	"strings"
)

// Position is a single point in a source file: a 1-based line and column.
type Position struct {
	Line   int
	Column int
}

// Range is a half-open span [Begin, End) of byte offsets into File.Text.
// Every AST node carries one; it is the only anchor for diagnostics.
type Range struct {
	Begin int
	End   int
}

// File is a single parsed translation unit's original text, kept around
// purely so Range offsets can be turned back into line/column pairs.
type File struct {
	Name string
	Text string

	// lineStarts[i] is the byte offset of the first byte of line i+1.
	lineStarts []int
}

// NewFile indexes text's line starts once so Position lookups are O(log n).
func NewFile(name, text string) *File {
	f := &File{Name: name, Text: text, lineStarts: []int{0}}
	for i, r := range text {
		if r == '\n' {
			f.lineStarts = append(f.lineStarts, i+1)
		}
	}
	return f
}

// PositionFor converts a byte offset into a line/column pair. Offsets past
// the end of the file clamp to the last line.
func (f *File) PositionFor(offset int) Position {
	lo, hi := 0, len(f.lineStarts)-1
	for lo < hi {
		mid := (lo + hi + 1) / 2
		if f.lineStarts[mid] <= offset {
			lo = mid
		} else {
			hi = mid - 1
		}
	}
	line := lo
	col := offset - f.lineStarts[line]
	return Position{Line: line + 1, Column: col + 1}
}

// lineText returns the full text of the 1-based line, without its newline.
func (f *File) lineText(line int) string {
	if line < 1 || line > len(f.lineStarts) {
		return ""
	}
	start := f.lineStarts[line-1]
	end := len(f.Text)
	if line < len(f.lineStarts) {
		end = f.lineStarts[line] - 1
	}
	if end < start {
		end = start
	}
	return strings.TrimRight(f.Text[start:end], "\r")
}

// Format renders a diagnostic in the form:
//
//	file:line:col: error: msg
//	  <line>
//	  ^
func (f *File) Format(r Range, msg string) string {
	pos := f.PositionFor(r.Begin)
	line := f.lineText(pos.Line)
	caret := strings.Repeat(" ", max(pos.Column-1, 0)) + "^"
	return fmt.Sprintf("%s:%d:%d: error: %s\n  %s\n  %s", f.Name, pos.Line, pos.Column, msg, line, caret)
}

// FormatWarning is Format with an "warning" severity label instead of "error".
func (f *File) FormatWarning(r Range, msg string) string {
	pos := f.PositionFor(r.Begin)
	line := f.lineText(pos.Line)
	caret := strings.Repeat(" ", max(pos.Column-1, 0)) + "^"
	return fmt.Sprintf("%s:%d:%d: warning: %s\n  %s\n  %s", f.Name, pos.Line, pos.Column, msg, line, caret)
}
