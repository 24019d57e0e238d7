package selection

import (
	"math"

	"github.com/dshills/selshape/internal/renderer/core"
)

// Classifier assigns corner styles to the lines of a gap-free selection.
type Classifier struct {
	epsilon float64
}

// NewClassifier creates a classifier for the given typical half-width
// character advance. Edges closer than a quarter of that advance are treated
// as aligned, which absorbs sub-pixel layout jitter between frames.
func NewClassifier(typicalHalfwidthCharacterWidth float64) *Classifier {
	if typicalHalfwidthCharacterWidth < 0 {
		typicalHalfwidthCharacterWidth = 0
	}
	return &Classifier{epsilon: typicalHalfwidthCharacterWidth / 4}
}

// Classify returns a styled copy of lines. Top corners compare each line
// against the one above and bottom corners against the one below. The first
// line takes its top styles from previous only when it sits on the viewport's
// first line, and the last line takes its bottom styles from previous only
// when it sits on the viewport's last line.
//
// lines must be gap-free; any line without exactly one range is returned
// unstyled. The input is never modified.
func (c *Classifier) Classify(lines []StyledLine, vp core.ViewportRange, previous []StyledLine) []StyledLine {
	out := cloneLines(lines)
	for _, l := range out {
		if len(l.Ranges) != 1 {
			return out
		}
	}

	n := len(out)
	for i := 0; i < n; i++ {
		cur := lines[i].Ranges[0]
		start := EdgeStyle{Top: CornerExtern, Bottom: CornerExtern}
		end := EdgeStyle{Top: CornerExtern, Bottom: CornerExtern}

		if i > 0 {
			prev := lines[i-1].Ranges[0]
			start.Top = c.topStart(cur, prev)
			end.Top = c.topEnd(cur, prev)
		} else if lines[i].LineNumber == vp.StartLineNumber {
			if cached, ok := firstStyled(previous, lines[i].LineNumber); ok {
				start.Top = cached.Start.Top
				end.Top = cached.End.Top
			}
		}

		if i+1 < n {
			next := lines[i+1].Ranges[0]
			start.Bottom = c.bottomStart(cur, next)
			end.Bottom = c.bottomEnd(cur, next)
		} else if lines[i].LineNumber == vp.EndLineNumber {
			if cached, ok := lastStyled(previous, lines[i].LineNumber); ok {
				start.Bottom = cached.Start.Bottom
				end.Bottom = cached.End.Bottom
			}
		}

		r := &out[i].Ranges[0]
		r.Start = start
		r.End = end
		r.Styled = true
	}

	return out
}

func (c *Classifier) near(a, b float64) bool {
	return math.Abs(a-b) < c.epsilon
}

func (c *Classifier) topStart(cur, prev StyledRange) CornerStyle {
	switch {
	case c.near(cur.Left, prev.Left):
		return CornerFlat
	case cur.Left > prev.Left:
		return CornerIntern
	default:
		return CornerExtern
	}
}

func (c *Classifier) topEnd(cur, prev StyledRange) CornerStyle {
	switch {
	case c.near(cur.Right(), prev.Right()):
		return CornerFlat
	case prev.Left < cur.Right() && cur.Right() < prev.Right():
		return CornerIntern
	default:
		return CornerExtern
	}
}

func (c *Classifier) bottomStart(cur, next StyledRange) CornerStyle {
	switch {
	case c.near(cur.Left, next.Left):
		return CornerFlat
	case next.Left < cur.Left && cur.Left < next.Right():
		return CornerIntern
	default:
		return CornerExtern
	}
}

// bottomEnd only bounds the comparison from above, unlike its three
// counterparts.
func (c *Classifier) bottomEnd(cur, next StyledRange) CornerStyle {
	switch {
	case c.near(cur.Right(), next.Right()):
		return CornerFlat
	case cur.Right() < next.Right():
		return CornerIntern
	default:
		return CornerExtern
	}
}

// firstStyled scans previous top to bottom for the first line numbered line
// and returns its range if that range was classified.
func firstStyled(previous []StyledLine, line int) (StyledRange, bool) {
	for _, l := range previous {
		if l.LineNumber != line {
			continue
		}
		if len(l.Ranges) == 0 || !l.Ranges[0].Styled {
			return StyledRange{}, false
		}
		return l.Ranges[0], true
	}
	return StyledRange{}, false
}

// lastStyled scans previous bottom to top for the first line numbered line
// and returns its range if that range was classified.
func lastStyled(previous []StyledLine, line int) (StyledRange, bool) {
	for i := len(previous) - 1; i >= 0; i-- {
		l := previous[i]
		if l.LineNumber != line {
			continue
		}
		if len(l.Ranges) == 0 || !l.Ranges[0].Styled {
			return StyledRange{}, false
		}
		return l.Ranges[0], true
	}
	return StyledRange{}, false
}
