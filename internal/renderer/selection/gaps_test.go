package selection

import "testing"

func TestHasGaps(t *testing.T) {
	tests := []struct {
		name  string
		lines []StyledLine
		want  bool
	}{
		{"nil", nil, false},
		{"single ranges", []StyledLine{line(1, 0, 10), line(2, 0, 20)}, false},
		{
			"split line",
			[]StyledLine{
				line(1, 0, 10),
				{LineNumber: 2, Ranges: []StyledRange{{Left: 0, Width: 5}, {Left: 20, Width: 5}}},
			},
			true,
		},
		{"empty line", []StyledLine{{LineNumber: 3}}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := HasGaps(tt.lines); got != tt.want {
				t.Errorf("HasGaps() = %v, want %v", got, tt.want)
			}
		})
	}
}
