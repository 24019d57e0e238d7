package selection

// Stabilizer holds the previous frame's styled lines per selection index.
// It is replaced wholesale after every frame; entries are never shared
// between selection indices.
type Stabilizer struct {
	frames [][]StyledLine
}

// NewStabilizer creates an empty stabilization cache.
func NewStabilizer() *Stabilizer {
	return &Stabilizer{}
}

// Previous returns the lines recorded for selection index i in the last
// committed frame, or nil if there are none.
func (s *Stabilizer) Previous(i int) []StyledLine {
	if i < 0 || i >= len(s.frames) {
		return nil
	}
	return s.frames[i]
}

// Commit replaces the cache with this frame's result. A nil entry marks a
// selection that was empty, had gaps, or was not rounded this frame.
func (s *Stabilizer) Commit(frame [][]StyledLine) {
	next := make([][]StyledLine, len(frame))
	for i, lines := range frame {
		next[i] = cloneLines(lines)
	}
	s.frames = next
}

// Reset drops every cached entry.
func (s *Stabilizer) Reset() {
	s.frames = nil
}

// size returns the number of selection indices in the cache.
func (s *Stabilizer) size() int {
	return len(s.frames)
}
