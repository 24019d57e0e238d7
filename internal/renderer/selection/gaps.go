package selection

// HasGaps reports whether any line of the selection is split into more than
// one range, as happens with bidirectional text.
func HasGaps(lines []StyledLine) bool {
	for _, l := range lines {
		if len(l.Ranges) > 1 {
			return true
		}
	}
	return false
}
