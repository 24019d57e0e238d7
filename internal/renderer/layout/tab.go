package layout

import "github.com/mattn/go-runewidth"

// DefaultTabWidth is used when a non-positive tab width is requested.
const DefaultTabWidth = 4

// TabExpander computes tab stops.
type TabExpander struct {
	tabWidth int
}

// NewTabExpander creates a tab expander with the given tab width.
func NewTabExpander(tabWidth int) *TabExpander {
	if tabWidth < 1 {
		tabWidth = DefaultTabWidth
	}
	return &TabExpander{tabWidth: tabWidth}
}

// TabWidth returns the current tab width.
func (t *TabExpander) TabWidth() int {
	return t.tabWidth
}

// SetTabWidth sets the tab width. Values below 1 are raised to 1.
func (t *TabExpander) SetTabWidth(width int) {
	if width < 1 {
		width = 1
	}
	t.tabWidth = width
}

// NextTabStop returns the next tab stop column after col.
func (t *TabExpander) NextTabStop(col int) int {
	return col + t.TabStopOffset(col)
}

// TabStopOffset returns how many columns a tab at col expands to.
func (t *TabExpander) TabStopOffset(col int) int {
	return t.tabWidth - (col % t.tabWidth)
}

// ExpandedWidth returns the visual width of s with tabs expanded and wide
// characters counted as two columns.
func (t *TabExpander) ExpandedWidth(s string) int {
	col := 0
	for _, r := range s {
		if r == '\t' {
			col = t.NextTabStop(col)
			continue
		}
		col += runewidth.RuneWidth(r)
	}
	return col
}
