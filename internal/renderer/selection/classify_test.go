package selection

import (
	"reflect"
	"testing"
)

func TestNewClassifierEpsilon(t *testing.T) {
	tests := []struct {
		width float64
		want  float64
	}{
		{8, 2},
		{7.2, 1.8},
		{0, 0},
		{-4, 0},
	}

	for _, tt := range tests {
		if got := NewClassifier(tt.width).epsilon; got != tt.want {
			t.Errorf("NewClassifier(%v).epsilon = %v, want %v", tt.width, got, tt.want)
		}
	}
}

func TestClassifyThreeLineSelection(t *testing.T) {
	c := NewClassifier(8)
	lines := []StyledLine{
		line(5, 10, 50),
		line(6, 0, 80),
		line(7, 0, 30),
	}

	got := c.Classify(lines, vpRange(0, 100), nil)
	if len(got) != 3 {
		t.Fatalf("Classify() returned %d lines, want 3", len(got))
	}

	want := []struct {
		start, end EdgeStyle
	}{
		{edge(CornerExtern, CornerIntern), edge(CornerExtern, CornerIntern)},
		{edge(CornerExtern, CornerFlat), edge(CornerExtern, CornerExtern)},
		{edge(CornerFlat, CornerExtern), edge(CornerIntern, CornerExtern)},
	}

	for i, w := range want {
		r := got[i].Ranges[0]
		if !r.Styled {
			t.Errorf("line %d: Styled = false, want true", got[i].LineNumber)
		}
		if r.Start != w.start {
			t.Errorf("line %d: Start = %+v, want %+v", got[i].LineNumber, r.Start, w.start)
		}
		if r.End != w.end {
			t.Errorf("line %d: End = %+v, want %+v", got[i].LineNumber, r.End, w.end)
		}
	}
}

func TestClassifyFlatWithinEpsilon(t *testing.T) {
	c := NewClassifier(8) // epsilon 2
	lines := []StyledLine{
		line(1, 10, 50),
		line(2, 11.5, 47.5),
	}

	got := c.Classify(lines, vpRange(0, 10), nil)

	if got[0].Ranges[0].Start.Bottom != CornerFlat {
		t.Errorf("line 1 Start.Bottom = %v, want flat", got[0].Ranges[0].Start.Bottom)
	}
	if got[0].Ranges[0].End.Bottom != CornerFlat {
		t.Errorf("line 1 End.Bottom = %v, want flat", got[0].Ranges[0].End.Bottom)
	}
	if got[1].Ranges[0].Start.Top != CornerFlat {
		t.Errorf("line 2 Start.Top = %v, want flat", got[1].Ranges[0].Start.Top)
	}
	if got[1].Ranges[0].End.Top != CornerFlat {
		t.Errorf("line 2 End.Top = %v, want flat", got[1].Ranges[0].End.Top)
	}
}

func TestClassifyEpsilonBoundaryIsNotFlat(t *testing.T) {
	c := NewClassifier(8)
	lines := []StyledLine{
		line(1, 10, 50),
		line(2, 12, 48), // exactly epsilon away on the left
	}

	got := c.Classify(lines, vpRange(0, 10), nil)
	if s := got[1].Ranges[0].Start.Top; s != CornerIntern {
		t.Errorf("Start.Top at distance epsilon = %v, want intern", s)
	}
}

func TestClassifyInternDirection(t *testing.T) {
	c := NewClassifier(8)

	tests := []struct {
		name  string
		lines []StyledLine
		check func(t *testing.T, got []StyledLine)
	}{
		{
			name:  "shorter line below has intern top end",
			lines: []StyledLine{line(1, 0, 100), line(2, 0, 40)},
			check: func(t *testing.T, got []StyledLine) {
				if s := got[1].Ranges[0].End.Top; s != CornerIntern {
					t.Errorf("End.Top = %v, want intern", s)
				}
				if s := got[0].Ranges[0].End.Bottom; s != CornerExtern {
					t.Errorf("upper End.Bottom = %v, want extern", s)
				}
			},
		},
		{
			name:  "longer line below has intern bottom end above",
			lines: []StyledLine{line(1, 0, 40), line(2, 0, 100)},
			check: func(t *testing.T, got []StyledLine) {
				if s := got[0].Ranges[0].End.Bottom; s != CornerIntern {
					t.Errorf("End.Bottom = %v, want intern", s)
				}
				if s := got[1].Ranges[0].End.Top; s != CornerExtern {
					t.Errorf("lower End.Top = %v, want extern", s)
				}
			},
		},
		{
			name:  "indented line below has intern top start",
			lines: []StyledLine{line(1, 0, 100), line(2, 30, 70)},
			check: func(t *testing.T, got []StyledLine) {
				if s := got[1].Ranges[0].Start.Top; s != CornerIntern {
					t.Errorf("Start.Top = %v, want intern", s)
				}
				if s := got[0].Ranges[0].Start.Bottom; s != CornerExtern {
					t.Errorf("upper Start.Bottom = %v, want extern", s)
				}
			},
		},
		{
			name:  "indented line above has intern bottom start",
			lines: []StyledLine{line(1, 30, 70), line(2, 0, 100)},
			check: func(t *testing.T, got []StyledLine) {
				if s := got[0].Ranges[0].Start.Bottom; s != CornerIntern {
					t.Errorf("Start.Bottom = %v, want intern", s)
				}
				if s := got[1].Ranges[0].Start.Top; s != CornerExtern {
					t.Errorf("lower Start.Top = %v, want extern", s)
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.check(t, c.Classify(tt.lines, vpRange(0, 10), nil))
		})
	}
}

func TestClassifyBottomEndIsOneSided(t *testing.T) {
	c := NewClassifier(8)
	// The upper line ends before the lower line even starts.
	lines := []StyledLine{line(1, 0, 10), line(2, 50, 30)}

	got := c.Classify(lines, vpRange(0, 10), nil)

	if s := got[0].Ranges[0].End.Bottom; s != CornerIntern {
		t.Errorf("End.Bottom = %v, want intern", s)
	}
	if s := got[1].Ranges[0].End.Top; s != CornerExtern {
		t.Errorf("End.Top = %v, want extern", s)
	}
	if s := got[0].Ranges[0].Start.Bottom; s != CornerExtern {
		t.Errorf("Start.Bottom = %v, want extern", s)
	}
}

func TestClassifySingleLine(t *testing.T) {
	c := NewClassifier(8)
	got := c.Classify([]StyledLine{line(3, 5, 20)}, vpRange(0, 10), nil)

	r := got[0].Ranges[0]
	want := edge(CornerExtern, CornerExtern)
	if r.Start != want || r.End != want || !r.Styled {
		t.Errorf("Classify() single line = %+v, want extern everywhere and styled", r)
	}
}

func TestClassifyBorrowsAtViewportEdges(t *testing.T) {
	c := NewClassifier(8)
	previous := []StyledLine{
		{LineNumber: 10, Ranges: []StyledRange{{
			Left: 0, Width: 40, Styled: true,
			Start: edge(CornerFlat, CornerFlat),
			End:   edge(CornerIntern, CornerExtern),
		}}},
		{LineNumber: 12, Ranges: []StyledRange{{
			Left: 0, Width: 40, Styled: true,
			Start: edge(CornerFlat, CornerIntern),
			End:   edge(CornerFlat, CornerIntern),
		}}},
	}
	lines := []StyledLine{line(10, 0, 40), line(11, 0, 40), line(12, 0, 40)}

	t.Run("first and last on viewport edges", func(t *testing.T) {
		got := c.Classify(lines, vpRange(10, 12), previous)

		first := got[0].Ranges[0]
		if first.Start.Top != CornerFlat || first.End.Top != CornerIntern {
			t.Errorf("first top = %v/%v, want flat/intern", first.Start.Top, first.End.Top)
		}
		last := got[2].Ranges[0]
		if last.Start.Bottom != CornerIntern || last.End.Bottom != CornerIntern {
			t.Errorf("last bottom = %v/%v, want intern/intern", last.Start.Bottom, last.End.Bottom)
		}
	})

	t.Run("not on viewport edges", func(t *testing.T) {
		got := c.Classify(lines, vpRange(5, 20), previous)

		first := got[0].Ranges[0]
		if first.Start.Top != CornerExtern || first.End.Top != CornerExtern {
			t.Errorf("first top = %v/%v, want extern/extern", first.Start.Top, first.End.Top)
		}
		last := got[2].Ranges[0]
		if last.Start.Bottom != CornerExtern || last.End.Bottom != CornerExtern {
			t.Errorf("last bottom = %v/%v, want extern/extern", last.Start.Bottom, last.End.Bottom)
		}
	})

	t.Run("missing line in previous", func(t *testing.T) {
		got := c.Classify(lines, vpRange(10, 12), previous[1:])
		first := got[0].Ranges[0]
		if first.Start.Top != CornerExtern || first.End.Top != CornerExtern {
			t.Errorf("first top = %v/%v, want extern/extern", first.Start.Top, first.End.Top)
		}
	})

	t.Run("unstyled previous entry", func(t *testing.T) {
		unstyled := []StyledLine{line(10, 0, 40)}
		unstyled[0].Ranges[0].Start.Top = CornerIntern
		got := c.Classify(lines, vpRange(10, 12), unstyled)
		if s := got[0].Ranges[0].Start.Top; s != CornerExtern {
			t.Errorf("Start.Top = %v, want extern", s)
		}
	})

	t.Run("interior lines ignore previous", func(t *testing.T) {
		mid := []StyledLine{{LineNumber: 11, Ranges: []StyledRange{{
			Left: 0, Width: 40, Styled: true,
			Start: edge(CornerIntern, CornerIntern),
			End:   edge(CornerIntern, CornerIntern),
		}}}}
		got := c.Classify(lines, vpRange(10, 12), mid)
		r := got[1].Ranges[0]
		if r.Start != edge(CornerFlat, CornerFlat) || r.End != edge(CornerFlat, CornerFlat) {
			t.Errorf("middle line = %+v/%+v, want flat everywhere", r.Start, r.End)
		}
	})
}

func TestClassifyIdempotent(t *testing.T) {
	c := NewClassifier(8)
	lines := []StyledLine{line(5, 10, 50), line(6, 0, 80), line(7, 0, 30)}
	vp := vpRange(5, 7)

	once := c.Classify(lines, vp, nil)
	twice := c.Classify(lines, vp, once)
	again := c.Classify(once, vp, once)

	if !reflect.DeepEqual(once, twice) {
		t.Errorf("Classify() with own output as previous changed result:\n%+v\n%+v", once, twice)
	}
	if !reflect.DeepEqual(once, again) {
		t.Errorf("Classify() of classified lines changed result:\n%+v\n%+v", once, again)
	}
}

func TestClassifyDoesNotModifyInput(t *testing.T) {
	c := NewClassifier(8)
	lines := []StyledLine{line(1, 10, 50), line(2, 0, 80)}
	before := cloneLines(lines)

	got := c.Classify(lines, vpRange(0, 10), nil)
	got[0].Ranges[0].Left = -1

	if !reflect.DeepEqual(lines, before) {
		t.Errorf("Classify() modified its input: %+v", lines)
	}
}

func TestClassifyLeavesGappedInputUnstyled(t *testing.T) {
	c := NewClassifier(8)
	lines := []StyledLine{
		line(1, 0, 50),
		{LineNumber: 2, Ranges: []StyledRange{{Left: 0, Width: 10}, {Left: 30, Width: 10}}},
	}

	got := c.Classify(lines, vpRange(0, 10), nil)
	for _, l := range got {
		for _, r := range l.Ranges {
			if r.Styled {
				t.Errorf("line %d: range styled despite gaps", l.LineNumber)
			}
		}
	}
}
