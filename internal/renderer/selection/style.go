package selection

// CornerStyle classifies one corner of a selection range.
type CornerStyle uint8

const (
	// CornerExtern is a convex corner rounded outward.
	CornerExtern CornerStyle = iota
	// CornerIntern is a concave corner notched inward because the
	// neighboring line's highlight extends past this edge.
	CornerIntern
	// CornerFlat is a square corner aligned with the neighboring line's edge.
	CornerFlat
)

// String returns the string representation of a corner style.
func (c CornerStyle) String() string {
	switch c {
	case CornerExtern:
		return "extern"
	case CornerIntern:
		return "intern"
	case CornerFlat:
		return "flat"
	default:
		return "unknown"
	}
}

// MarshalText implements encoding.TextMarshaler.
func (c CornerStyle) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

// EdgeStyle is the styling of one vertical edge (start or end) of a range,
// relative to the line above (Top) and below (Bottom).
type EdgeStyle struct {
	Top    CornerStyle `yaml:"top"`
	Bottom CornerStyle `yaml:"bottom"`
}

// HasIntern reports whether either corner of the edge is notched.
func (e EdgeStyle) HasIntern() bool {
	return e.Top == CornerIntern || e.Bottom == CornerIntern
}

// StyledRange is a visible range annotated with corner styles.
type StyledRange struct {
	Left  float64 `yaml:"left"`
	Width float64 `yaml:"width"`

	// Start and End read as extern/extern until the range is classified.
	Start EdgeStyle `yaml:"start"`
	End   EdgeStyle `yaml:"end"`

	// Styled is false until the classifier has run on this range.
	// Unstyled ranges are drawn as plain rectangles.
	Styled bool `yaml:"styled"`
}

// Right returns the right edge of the range.
func (r StyledRange) Right() float64 {
	return r.Left + r.Width
}

// StyledLine holds the ranges of one selection on one rendered line,
// sorted left to right.
type StyledLine struct {
	LineNumber int           `yaml:"line"`
	Ranges     []StyledRange `yaml:"ranges"`
}

// cloneLines deep-copies a slice of lines so results never alias inputs.
func cloneLines(lines []StyledLine) []StyledLine {
	if lines == nil {
		return nil
	}
	out := make([]StyledLine, len(lines))
	for i, l := range lines {
		out[i] = StyledLine{
			LineNumber: l.LineNumber,
			Ranges:     append([]StyledRange(nil), l.Ranges...),
		}
	}
	return out
}
