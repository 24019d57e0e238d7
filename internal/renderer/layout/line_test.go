package layout

import "testing"

func TestNewLayoutEngine(t *testing.T) {
	tests := []struct {
		in, want int
	}{
		{4, 4},
		{8, 8},
		{0, DefaultTabWidth},
		{-1, DefaultTabWidth},
	}

	for _, tt := range tests {
		if got := NewLayoutEngine(tt.in).TabWidth(); got != tt.want {
			t.Errorf("NewLayoutEngine(%d).TabWidth() = %d, want %d", tt.in, got, tt.want)
		}
	}
}

func TestLayoutSimpleString(t *testing.T) {
	l := NewLayoutEngine(4).Layout("Hello", 3)

	if l.Line != 3 {
		t.Errorf("Line = %d, want 3", l.Line)
	}
	if l.Width != 5 || len(l.Cells) != 5 {
		t.Errorf("Width/cells = %d/%d, want 5/5", l.Width, len(l.Cells))
	}
	if l.HasTabs || l.HasWide {
		t.Error("plain ASCII should have no tabs or wide chars")
	}
	if l.RowCount != 1 {
		t.Errorf("RowCount = %d, want 1", l.RowCount)
	}
	if l.Text() != "Hello" {
		t.Errorf("Text() = %q, want %q", l.Text(), "Hello")
	}
}

func TestLayoutEmptyString(t *testing.T) {
	l := NewLayoutEngine(4).Layout("", 0)
	if !l.IsEmpty() || l.Width != 0 {
		t.Errorf("empty layout: IsEmpty=%v Width=%d", l.IsEmpty(), l.Width)
	}
	if got := l.VisualColumn(3); got != 3 {
		t.Errorf("VisualColumn(3) on empty line = %d, want 3", got)
	}
}

func TestLayoutTabExpansion(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		tabWidth int
		width    int
	}{
		{"single tab at start", "\thello", 4, 9},
		{"tab in middle", "ab\tcd", 4, 6},
		{"multiple tabs", "\t\t", 4, 8},
		{"tab at tab stop", "1234\t", 4, 8},
		{"tab near tab stop", "123\t", 4, 4},
		{"width 8", "a\t", 8, 8},
		{"width 2", "a\t", 2, 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := NewLayoutEngine(tt.tabWidth).Layout(tt.input, 0)
			if l.Width != tt.width {
				t.Errorf("Width = %d, want %d", l.Width, tt.width)
			}
			if !l.HasTabs {
				t.Error("HasTabs = false, want true")
			}
		})
	}
}

func TestLayoutWideCharacters(t *testing.T) {
	e := NewLayoutEngine(4)

	l := e.Layout("A中B", 0)
	if l.Width != 4 || len(l.Cells) != 4 {
		t.Errorf("Width/cells = %d/%d, want 4/4", l.Width, len(l.Cells))
	}
	if !l.HasWide {
		t.Error("HasWide = false, want true")
	}
	if l.Cells[2].Width != 0 {
		t.Errorf("Cells[2] = %+v, want continuation", l.Cells[2])
	}
	if got := l.VisualColumn(2); got != 3 {
		t.Errorf("VisualColumn(2) = %d, want 3", got)
	}
	if l.Text() != "A中B" {
		t.Errorf("Text() = %q", l.Text())
	}
}

func TestLayoutColumnMapping(t *testing.T) {
	l := NewLayoutEngine(4).Layout("a\tb", 0)

	tests := []struct {
		buf, vis int
	}{
		{0, 0},
		{1, 1},
		{2, 4},
		{3, 5}, // end of line
		{5, 7}, // past the end
	}
	for _, tt := range tests {
		if got := l.VisualColumn(tt.buf); got != tt.vis {
			t.Errorf("VisualColumn(%d) = %d, want %d", tt.buf, got, tt.vis)
		}
	}

	if got := l.BufferColumn(2); got != 1 {
		t.Errorf("BufferColumn(2) inside tab = %d, want 1", got)
	}
	if got := l.BufferColumn(7); got != 5 {
		t.Errorf("BufferColumn(7) past the end = %d, want 5", got)
	}
}

func TestLayoutWrap(t *testing.T) {
	e := NewLayoutEngine(4)

	t.Run("hard wrap", func(t *testing.T) {
		e.SetWrap(4, false)
		l := e.Layout("abcdefghij", 0)
		if l.RowCount != 3 {
			t.Fatalf("RowCount = %d, want 3", l.RowCount)
		}
		if l.WrapPoints[0] != 4 || l.WrapPoints[1] != 8 {
			t.Errorf("WrapPoints = %v, want [4 8]", l.WrapPoints)
		}
		if l.VisualRow(5) != 1 || l.RowStartColumn(1) != 4 || l.RowEndColumn(2) != 10 {
			t.Errorf("row mapping wrong: row(5)=%d start(1)=%d end(2)=%d",
				l.VisualRow(5), l.RowStartColumn(1), l.RowEndColumn(2))
		}
	})

	t.Run("word wrap", func(t *testing.T) {
		e.SetWrap(8, true)
		l := e.Layout("hello world", 0)
		if len(l.WrapPoints) != 1 || l.WrapPoints[0] != 6 {
			t.Errorf("WrapPoints = %v, want [6]", l.WrapPoints)
		}
	})

	t.Run("exact fit leaves no empty row", func(t *testing.T) {
		e.SetWrap(4, false)
		l := e.Layout("abcd", 0)
		if l.RowCount != 1 || len(l.WrapPoints) != 0 {
			t.Errorf("RowCount = %d WrapPoints = %v, want one row", l.RowCount, l.WrapPoints)
		}
	})

	t.Run("disabled", func(t *testing.T) {
		e.SetWrap(0, false)
		if l := e.Layout("abcdefghij", 0); l.RowCount != 1 {
			t.Errorf("RowCount = %d, want 1", l.RowCount)
		}
	})
}
