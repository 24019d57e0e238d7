package layout

import (
	"strings"
	"sync"

	"github.com/dshills/selshape/internal/renderer/core"
)

// TextSource supplies buffer text by line.
type TextSource interface {
	LineCount() int
	LineText(line int) string
}

// Lines is an in-memory TextSource.
type Lines []string

// SplitLines splits text on newlines. A trailing newline does not start an
// extra line.
func SplitLines(text string) Lines {
	text = strings.TrimSuffix(strings.ReplaceAll(text, "\r\n", "\n"), "\n")
	return Lines(strings.Split(text, "\n"))
}

// LineCount returns the number of lines.
func (l Lines) LineCount() int {
	return len(l)
}

// LineText returns the text of line, or "" when out of range.
func (l Lines) LineText(line int) string {
	if line < 0 || line >= len(l) {
		return ""
	}
	return l[line]
}

// Metrics converts visual columns to pixels.
type Metrics struct {
	CharWidth  float64 // advance of one visual column
	LineHeight float64 // height of one line row
}

// DefaultMetrics returns 8x18 pixel cells.
func DefaultMetrics() Metrics {
	return Metrics{CharWidth: 8, LineHeight: 18}
}

// viewLine is one rendered row: a wrapped row of a buffer line. Without
// wrapping every buffer line is exactly one view line.
type viewLine struct {
	line int // buffer line
	row  int // wrapped row within the line
}

// Geometry answers visible range queries for selections over a TextSource.
// Line numbers in viewport ranges and results are view lines, so a wrapped
// buffer line occupies several consecutive numbers.
type Geometry struct {
	mu      sync.RWMutex
	source  TextSource
	cache   *LineCache
	metrics Metrics

	// View line index, rebuilt lazily after the source or engine changes.
	views   []viewLine
	first   []int // buffer line -> first view line
	indexed bool
}

// NewGeometry creates a geometry provider.
func NewGeometry(source TextSource, cache *LineCache, metrics Metrics) *Geometry {
	if cache == nil {
		cache = NewLineCache(NewLayoutEngine(DefaultTabWidth), 1000)
	}
	return &Geometry{
		source:  source,
		cache:   cache,
		metrics: metrics,
	}
}

// SetSource replaces the text source.
func (g *Geometry) SetSource(source TextSource) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.source = source
	g.indexed = false
}

// Source returns the current text source.
func (g *Geometry) Source() TextSource {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.source
}

// Metrics returns the pixel metrics.
func (g *Geometry) Metrics() Metrics {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.metrics
}

// SetMetrics replaces the pixel metrics.
func (g *Geometry) SetMetrics(m Metrics) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.metrics = m
}

// SetEngine lays the text out with a new engine. View lines are recomputed
// on the next query.
func (g *Geometry) SetEngine(engine *LayoutEngine) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.cache.SetEngine(engine)
	g.indexed = false
}

// Cache returns the layout cache.
func (g *Geometry) Cache() *LineCache {
	return g.cache
}

// snapshot returns the state a query needs, building the view line index
// if it is stale. The returned slices are never mutated afterwards.
func (g *Geometry) snapshot() (TextSource, Metrics, []viewLine, []int) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if !g.indexed {
		g.views, g.first = nil, nil
		if g.source != nil {
			n := g.source.LineCount()
			g.views = make([]viewLine, 0, n)
			g.first = make([]int, n)
			for line := 0; line < n; line++ {
				g.first[line] = len(g.views)
				rows := max(g.cache.Get(line, g.source.LineText(line)).RowCount, 1)
				for row := 0; row < rows; row++ {
					g.views = append(g.views, viewLine{line: line, row: row})
				}
			}
		}
		g.indexed = true
	}
	return g.source, g.metrics, g.views, g.first
}

// ViewLineCount returns the number of rendered rows.
func (g *Geometry) ViewLineCount() int {
	_, _, views, _ := g.snapshot()
	return len(views)
}

// ViewLineText returns the tab-expanded text drawn on a view line, or ""
// when out of range.
func (g *Geometry) ViewLineText(view int) string {
	src, _, views, _ := g.snapshot()
	if view < 0 || view >= len(views) {
		return ""
	}
	v := views[view]
	return g.cache.Get(v.line, src.LineText(v.line)).RowText(v.row)
}

// ViewLine returns the view line showing a buffer position.
func (g *Geometry) ViewLine(line, col int) int {
	src, _, views, first := g.snapshot()
	if len(first) == 0 {
		return 0
	}
	line = min(max(line, 0), len(first)-1)
	layout := g.cache.Get(line, src.LineText(line))
	view := first[line] + layout.VisualRow(min(layout.VisualColumn(col), layout.Width))
	return min(view, len(views)-1)
}

// VisibleRangesForRange returns the pixel ranges sel covers on each view
// line in vp. Buffer lines the selection runs past the end of include one
// extra cell for the line break, on their last wrapped row. Range x offsets
// are relative to the start of the wrapped row. An empty selection yields a
// single zero-width range at its position.
func (g *Geometry) VisibleRangesForRange(sel core.Selection, vp core.ViewportRange) []core.LineRanges {
	src, m, views, first := g.snapshot()
	if src == nil || vp.IsEmpty() || len(first) == 0 {
		return nil
	}
	sel = sel.Normalize()

	startLine := max(sel.StartLine, 0)
	endLine := min(sel.EndLine, len(first)-1)
	if startLine > endLine {
		return nil
	}
	lastView := len(views) - 1
	if endLine+1 < len(first) {
		lastView = first[endLine+1] - 1
	}
	from := max(first[startLine], vp.StartLineNumber)
	to := min(lastView, vp.EndLineNumber)
	if from > to {
		return nil
	}

	out := make([]core.LineRanges, 0, to-from+1)
	for view := from; view <= to; view++ {
		v := views[view]
		layout := g.cache.Get(v.line, src.LineText(v.line))
		rowStart, rowEnd := layout.RowStartColumn(v.row), layout.RowEndColumn(v.row)

		if sel.IsEmpty() {
			col := min(layout.VisualColumn(sel.StartColumn), layout.Width)
			if layout.VisualRow(col) != v.row {
				continue
			}
			out = append(out, core.LineRanges{
				LineNumber: view,
				Ranges:     []core.HorizontalRange{{Left: float64(col-rowStart) * m.CharWidth}},
			})
			continue
		}

		lo := 0
		if v.line == sel.StartLine {
			lo = min(layout.VisualColumn(sel.StartColumn), layout.Width)
		}
		hi := layout.Width + 1
		if v.line == sel.EndLine {
			hi = min(layout.VisualColumn(sel.EndColumn), layout.Width)
		}
		if v.row == layout.RowCount-1 {
			rowEnd = max(rowEnd, hi)
		}
		lo, hi = max(lo, rowStart), min(hi, rowEnd)
		if hi <= lo {
			continue
		}
		out = append(out, core.LineRanges{
			LineNumber: view,
			Ranges: []core.HorizontalRange{{
				Left:  float64(lo-rowStart) * m.CharWidth,
				Width: float64(hi-lo) * m.CharWidth,
			}},
		})
	}
	return out
}
