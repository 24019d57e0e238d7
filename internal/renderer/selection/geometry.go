package selection

import (
	"sort"

	"github.com/dshills/selshape/internal/renderer/core"
)

// RangeProvider is the layout engine's per-line visible range query.
type RangeProvider interface {
	// VisibleRangesForRange returns, for every viewport line the selection
	// touches, the pixel ranges it covers. The result may be empty and need
	// not be sorted.
	VisibleRangesForRange(sel core.Selection, vp core.ViewportRange) []core.LineRanges
}

// GeometryAdapter turns raw layout ranges into unstyled StyledLines.
type GeometryAdapter struct {
	provider RangeProvider
}

// NewGeometryAdapter creates an adapter over the given provider.
func NewGeometryAdapter(provider RangeProvider) *GeometryAdapter {
	return &GeometryAdapter{provider: provider}
}

// Lines returns the selection's visible lines with styles unset.
// Lines with no ranges are dropped. A nil provider yields nil.
func (a *GeometryAdapter) Lines(sel core.Selection, vp core.ViewportRange) []StyledLine {
	if a == nil || a.provider == nil || vp.IsEmpty() {
		return nil
	}

	raw := a.provider.VisibleRangesForRange(sel.Normalize(), vp)
	if len(raw) == 0 {
		return nil
	}

	lines := make([]StyledLine, 0, len(raw))
	for _, lr := range raw {
		if len(lr.Ranges) == 0 {
			continue
		}
		ranges := make([]StyledRange, len(lr.Ranges))
		for i, r := range lr.Ranges {
			ranges[i] = StyledRange{Left: r.Left, Width: r.Width}
		}
		sort.SliceStable(ranges, func(i, j int) bool {
			return ranges[i].Left < ranges[j].Left
		})
		lines = append(lines, StyledLine{LineNumber: lr.LineNumber, Ranges: ranges})
	}

	sort.SliceStable(lines, func(i, j int) bool {
		return lines[i].LineNumber < lines[j].LineNumber
	})

	if len(lines) == 0 {
		return nil
	}
	return lines
}
