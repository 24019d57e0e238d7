// Package layout maps buffer text to visual columns and pixel ranges.
package layout

import (
	"strings"

	"github.com/mattn/go-runewidth"
)

// Cell is one visual column of a laid-out line.
type Cell struct {
	Rune  rune // 0 for the trailing half of a wide character
	Width int  // 1 or 2 for a leading cell, 0 for a continuation
}

// LineLayout is the visual layout of a single buffer line.
type LineLayout struct {
	Line int // buffer line number (0-indexed)

	// Cells after tab expansion; wide characters take two cells.
	Cells []Cell

	// Column mappings
	VisualCols []int // visual column -> buffer column
	BufferCols []int // buffer column -> visual column

	// Wrapping
	WrapPoints []int // visual columns where a new row starts
	RowCount   int   // number of visual rows, 1 if unwrapped

	Width   int  // total visual width in columns
	HasTabs bool // line contains tab characters
	HasWide bool // line contains wide characters
}

// VisualColumn converts a buffer column to a visual column.
// Columns past the end of the line extrapolate one cell per column.
func (l *LineLayout) VisualColumn(bufCol int) int {
	if bufCol <= 0 {
		return 0
	}
	if len(l.BufferCols) == 0 {
		return bufCol
	}
	if bufCol >= len(l.BufferCols) {
		return l.Width + bufCol - len(l.BufferCols)
	}
	return l.BufferCols[bufCol]
}

// BufferColumn converts a visual column to a buffer column.
func (l *LineLayout) BufferColumn(visCol int) int {
	if visCol <= 0 {
		return 0
	}
	if len(l.VisualCols) == 0 {
		return visCol
	}
	if visCol >= len(l.VisualCols) {
		return len(l.BufferCols) + visCol - len(l.VisualCols)
	}
	return l.VisualCols[visCol]
}

// VisualRow returns the wrapped row a visual column falls on.
func (l *LineLayout) VisualRow(visCol int) int {
	row := 0
	for _, wp := range l.WrapPoints {
		if visCol < wp {
			break
		}
		row++
	}
	return row
}

// RowStartColumn returns the visual column where a wrapped row starts.
func (l *LineLayout) RowStartColumn(row int) int {
	if row <= 0 || len(l.WrapPoints) == 0 {
		return 0
	}
	if row > len(l.WrapPoints) {
		row = len(l.WrapPoints)
	}
	return l.WrapPoints[row-1]
}

// RowEndColumn returns the visual column where a wrapped row ends (exclusive).
func (l *LineLayout) RowEndColumn(row int) int {
	if row >= len(l.WrapPoints) {
		return l.Width
	}
	return l.WrapPoints[row]
}

// Text returns the expanded text of the line, one rune per leading cell.
func (l *LineLayout) Text() string {
	var sb strings.Builder
	sb.Grow(len(l.Cells))
	for _, c := range l.Cells {
		if c.Width > 0 {
			sb.WriteRune(c.Rune)
		}
	}
	return sb.String()
}

// RowText returns the expanded text of one wrapped row.
func (l *LineLayout) RowText(row int) string {
	start := min(l.RowStartColumn(row), len(l.Cells))
	end := min(l.RowEndColumn(row), len(l.Cells))
	var sb strings.Builder
	for _, c := range l.Cells[start:end] {
		if c.Width > 0 {
			sb.WriteRune(c.Rune)
		}
	}
	return sb.String()
}

// IsEmpty returns true if the layout represents an empty line.
func (l *LineLayout) IsEmpty() bool {
	return len(l.Cells) == 0
}

// LayoutEngine computes line layouts.
type LayoutEngine struct {
	tabs       *TabExpander
	wrapWidth  int  // 0 = no wrap
	wrapAtWord bool // prefer wrapping after a space
}

// NewLayoutEngine creates a layout engine with the given tab width.
func NewLayoutEngine(tabWidth int) *LayoutEngine {
	return &LayoutEngine{
		tabs:       NewTabExpander(tabWidth),
		wrapAtWord: true,
	}
}

// TabWidth returns the current tab width.
func (e *LayoutEngine) TabWidth() int {
	return e.tabs.TabWidth()
}

// SetTabWidth sets the tab width.
func (e *LayoutEngine) SetTabWidth(width int) {
	e.tabs.SetTabWidth(width)
}

// WrapWidth returns the current wrap width (0 = no wrap).
func (e *LayoutEngine) WrapWidth() int {
	return e.wrapWidth
}

// SetWrap configures wrapping. A width of 0 disables it.
func (e *LayoutEngine) SetWrap(width int, atWord bool) {
	if width < 0 {
		width = 0
	}
	e.wrapWidth = width
	e.wrapAtWord = atWord
}

// Layout computes the visual layout for a line.
func (e *LayoutEngine) Layout(text string, line int) *LineLayout {
	l := &LineLayout{
		Line:       line,
		Cells:      make([]Cell, 0, len(text)),
		VisualCols: make([]int, 0, len(text)),
		BufferCols: make([]int, 0, len(text)),
		RowCount:   1,
	}

	visCol := 0
	rowStart := 0
	for bufCol, r := range []rune(text) {
		l.BufferCols = append(l.BufferCols, visCol)

		if r == '\t' {
			l.HasTabs = true
			for i := e.tabs.TabStopOffset(visCol); i > 0; i-- {
				l.Cells = append(l.Cells, Cell{Rune: ' ', Width: 1})
				l.VisualCols = append(l.VisualCols, bufCol)
				visCol++
			}
		} else {
			width := runewidth.RuneWidth(r)
			if width == 0 {
				// Zero-width runes map to the next visible column.
				continue
			}
			if width == 2 {
				l.HasWide = true
			}

			l.Cells = append(l.Cells, Cell{Rune: r, Width: width})
			l.VisualCols = append(l.VisualCols, bufCol)
			visCol++
			if width == 2 {
				l.Cells = append(l.Cells, Cell{})
				l.VisualCols = append(l.VisualCols, bufCol)
				visCol++
			}
		}

		if e.wrapWidth > 0 && visCol-rowStart >= e.wrapWidth {
			wp := e.findWrapPoint(l, rowStart, visCol)
			l.WrapPoints = append(l.WrapPoints, wp)
			l.RowCount++
			rowStart = wp
		}
	}

	l.Width = visCol
	// A wrap point at the very end would leave an empty trailing row.
	if n := len(l.WrapPoints); n > 0 && l.WrapPoints[n-1] >= l.Width {
		l.WrapPoints = l.WrapPoints[:n-1]
		l.RowCount--
	}
	return l
}

// findWrapPoint picks the column the next row starts at, preferring the
// column after the last space in the current row.
func (e *LayoutEngine) findWrapPoint(l *LineLayout, rowStart, col int) int {
	if !e.wrapAtWord {
		return col
	}
	lower := max(rowStart+1, col-20)
	for i := col - 1; i >= lower; i-- {
		if l.Cells[i].Rune == ' ' {
			return i + 1
		}
	}
	return col
}
