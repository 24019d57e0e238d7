// Package viewport tracks which view lines are on screen.
package viewport

import (
	"sync"

	"github.com/dshills/selshape/internal/renderer/core"
)

// Viewport is the visible window over the text, measured in view lines and
// columns. A wrapped buffer line counts once per row.
type Viewport struct {
	mu sync.RWMutex

	// First visible line
	topLine int

	// Size in rows and columns
	width  int
	height int

	// Number of lines in the buffer; 0 means unbounded
	lineCount int
}

// NewViewport creates a viewport with the given size.
// Width and height are clamped to a minimum of 1.
func NewViewport(width, height int) *Viewport {
	return &Viewport{
		width:  max(width, 1),
		height: max(height, 1),
	}
}

// Width returns the viewport width in columns.
func (v *Viewport) Width() int {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.width
}

// Height returns the viewport height in rows.
func (v *Viewport) Height() int {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.height
}

// TopLine returns the first visible line.
func (v *Viewport) TopLine() int {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.topLine
}

// BottomLine returns the last visible line.
func (v *Viewport) BottomLine() int {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.bottomLine()
}

// bottomLine returns the last visible line (must hold lock).
func (v *Viewport) bottomLine() int {
	bottom := v.topLine + v.height - 1
	if v.lineCount > 0 && bottom > v.lineCount-1 {
		bottom = v.lineCount - 1
	}
	return bottom
}

// Resize updates the viewport size. Width and height are clamped to a
// minimum of 1.
func (v *Viewport) Resize(width, height int) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.width = max(width, 1)
	v.height = max(height, 1)
}

// SetLineCount sets the number of lines in the buffer and pulls the top line
// back inside it.
func (v *Viewport) SetLineCount(n int) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.lineCount = max(n, 0)
	v.topLine = v.clampTop(v.topLine)
}

// LineCount returns the number of lines in the buffer.
func (v *Viewport) LineCount() int {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.lineCount
}

// VisibleLineRange returns the first and last visible lines, inclusive.
func (v *Viewport) VisibleLineRange() (start, end int) {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.topLine, v.bottomLine()
}

// Range returns the visible lines as a core.ViewportRange.
func (v *Viewport) Range() core.ViewportRange {
	start, end := v.VisibleLineRange()
	return core.ViewportRange{StartLineNumber: start, EndLineNumber: end}
}

// IsLineVisible returns true if the line is on screen.
func (v *Viewport) IsLineVisible(line int) bool {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return line >= v.topLine && line <= v.bottomLine()
}

// LineToScreenRow converts a buffer line to a screen row.
// Returns -1 if the line is not visible.
func (v *Viewport) LineToScreenRow(line int) int {
	v.mu.RLock()
	defer v.mu.RUnlock()
	if line < v.topLine || line > v.bottomLine() {
		return -1
	}
	return line - v.topLine
}

// ScreenRowToLine converts a screen row to a buffer line.
func (v *Viewport) ScreenRowToLine(row int) int {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.topLine + max(row, 0)
}

// clampTop keeps a top line inside the buffer (must hold lock).
func (v *Viewport) clampTop(line int) int {
	if v.lineCount > 0 && line > v.lineCount-1 {
		line = v.lineCount - 1
	}
	return max(line, 0)
}
