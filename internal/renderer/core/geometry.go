package core

import (
	"fmt"
	"strings"
)

// Position is a logical buffer position. Lines and columns are 0-indexed.
type Position struct {
	Line   int
	Column int
}

// Before reports whether p sorts before other.
func (p Position) Before(other Position) bool {
	if p.Line != other.Line {
		return p.Line < other.Line
	}
	return p.Column < other.Column
}

// Selection is a logical text range in line/column coordinates.
type Selection struct {
	StartLine   int
	StartColumn int
	EndLine     int
	EndColumn   int
}

// NewSelection creates a selection from two positions in any order.
func NewSelection(anchor, head Position) Selection {
	return Selection{
		StartLine:   anchor.Line,
		StartColumn: anchor.Column,
		EndLine:     head.Line,
		EndColumn:   head.Column,
	}.Normalize()
}

// Start returns the start position.
func (s Selection) Start() Position {
	return Position{Line: s.StartLine, Column: s.StartColumn}
}

// End returns the end position.
func (s Selection) End() Position {
	return Position{Line: s.EndLine, Column: s.EndColumn}
}

// IsEmpty returns true if the selection selects nothing.
func (s Selection) IsEmpty() bool {
	return s.StartLine == s.EndLine && s.StartColumn == s.EndColumn
}

// Normalize returns a selection where Start is never after End.
func (s Selection) Normalize() Selection {
	if s.End().Before(s.Start()) {
		return Selection{
			StartLine:   s.EndLine,
			StartColumn: s.EndColumn,
			EndLine:     s.StartLine,
			EndColumn:   s.StartColumn,
		}
	}
	return s
}

// String formats the selection as "line:col-line:col".
func (s Selection) String() string {
	return fmt.Sprintf("%d:%d-%d:%d", s.StartLine, s.StartColumn, s.EndLine, s.EndColumn)
}

// ParseSelection parses the "line:col-line:col" form produced by String.
// A single "line:col" yields an empty selection at that point.
func ParseSelection(s string) (Selection, error) {
	var sel Selection
	if strings.Contains(s, "-") {
		n, err := fmt.Sscanf(s, "%d:%d-%d:%d", &sel.StartLine, &sel.StartColumn, &sel.EndLine, &sel.EndColumn)
		if err != nil || n != 4 {
			return Selection{}, fmt.Errorf("invalid selection %q: want line:col-line:col", s)
		}
	} else {
		n, err := fmt.Sscanf(s, "%d:%d", &sel.StartLine, &sel.StartColumn)
		if err != nil || n != 2 {
			return Selection{}, fmt.Errorf("invalid selection %q: want line:col-line:col", s)
		}
		sel.EndLine, sel.EndColumn = sel.StartLine, sel.StartColumn
	}
	if sel.StartLine < 0 || sel.StartColumn < 0 || sel.EndLine < 0 || sel.EndColumn < 0 {
		return Selection{}, fmt.Errorf("invalid selection %q: negative coordinate", s)
	}
	return sel.Normalize(), nil
}

// HorizontalRange is one contiguous visible segment of a selection on one
// rendered line, in pixels.
type HorizontalRange struct {
	Left  float64
	Width float64
}

// Right returns the right edge of the range.
func (r HorizontalRange) Right() float64 {
	return r.Left + r.Width
}

// LineRanges is the geometry of a selection on one line, sorted left to right.
type LineRanges struct {
	LineNumber int
	Ranges     []HorizontalRange
}

// ViewportRange is the window of rendered line numbers, both ends inclusive.
type ViewportRange struct {
	StartLineNumber int
	EndLineNumber   int
}

// Contains reports whether line is inside the viewport.
func (v ViewportRange) Contains(line int) bool {
	return line >= v.StartLineNumber && line <= v.EndLineNumber
}

// IsEmpty reports whether the viewport holds no lines.
func (v ViewportRange) IsEmpty() bool {
	return v.EndLineNumber < v.StartLineNumber
}

// LineCount returns the number of lines in the viewport.
func (v ViewportRange) LineCount() int {
	if v.IsEmpty() {
		return 0
	}
	return v.EndLineNumber - v.StartLineNumber + 1
}
