package selection

import (
	"github.com/dshills/selshape/internal/renderer/core"
)

// fakeProvider serves fixed per-line ranges for any selection touching them.
type fakeProvider struct {
	lines map[int][]core.HorizontalRange
	calls int
}

func newFakeProvider() *fakeProvider {
	return &fakeProvider{lines: make(map[int][]core.HorizontalRange)}
}

func (f *fakeProvider) set(line int, ranges ...core.HorizontalRange) {
	f.lines[line] = ranges
}

func (f *fakeProvider) VisibleRangesForRange(sel core.Selection, vp core.ViewportRange) []core.LineRanges {
	f.calls++
	start := max(sel.StartLine, vp.StartLineNumber)
	end := min(sel.EndLine, vp.EndLineNumber)

	var out []core.LineRanges
	for line := start; line <= end; line++ {
		ranges, ok := f.lines[line]
		if !ok {
			continue
		}
		out = append(out, core.LineRanges{
			LineNumber: line,
			Ranges:     append([]core.HorizontalRange(nil), ranges...),
		})
	}
	return out
}

func hr(left, width float64) core.HorizontalRange {
	return core.HorizontalRange{Left: left, Width: width}
}

// line builds an unstyled single-range line.
func line(n int, left, width float64) StyledLine {
	return StyledLine{LineNumber: n, Ranges: []StyledRange{{Left: left, Width: width}}}
}

func edge(top, bottom CornerStyle) EdgeStyle {
	return EdgeStyle{Top: top, Bottom: bottom}
}

func vpRange(start, end int) core.ViewportRange {
	return core.ViewportRange{StartLineNumber: start, EndLineNumber: end}
}
