package selection

import "strings"

// Piece geometry constants, in pixels.
const (
	// CornerPieceWidth is the width of the quads that draw a notched corner
	// beside a range.
	CornerPieceWidth = 10
	// CornerRadius is the radius backends use for rounded piece corners.
	CornerRadius = 3
	// MarkerSize is the side of the square drawn per selection in marker mode.
	MarkerSize = 4
)

// PieceKind selects the fill of a piece.
type PieceKind uint8

const (
	// PieceSelection is filled with the selection highlight color.
	PieceSelection PieceKind = iota
	// PieceBackground is filled with the editor background color. It is
	// drawn over a selection piece to cut a concave notch into it.
	PieceBackground
)

// String returns the string representation of a piece kind.
func (k PieceKind) String() string {
	switch k {
	case PieceSelection:
		return "selection"
	case PieceBackground:
		return "background"
	default:
		return "unknown"
	}
}

// MarshalText implements encoding.TextMarshaler.
func (k PieceKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// Rounding is the set of rounded corners of a piece.
type Rounding uint8

// Rounded corner flags.
const (
	RoundTopLeft Rounding = 1 << iota
	RoundTopRight
	RoundBottomLeft
	RoundBottomRight

	RoundNone Rounding = 0
	RoundAll           = RoundTopLeft | RoundTopRight | RoundBottomLeft | RoundBottomRight
)

// Has returns true if the set contains the given corner.
func (r Rounding) Has(corner Rounding) bool {
	return r&corner != 0
}

// String lists the rounded corners, e.g. "tl|br", or "none".
func (r Rounding) String() string {
	if r == RoundNone {
		return "none"
	}
	names := make([]string, 0, 4)
	for _, c := range []struct {
		flag Rounding
		name string
	}{
		{RoundTopLeft, "tl"},
		{RoundTopRight, "tr"},
		{RoundBottomLeft, "bl"},
		{RoundBottomRight, "br"},
	} {
		if r.Has(c.flag) {
			names = append(names, c.name)
		}
	}
	return strings.Join(names, "|")
}

// MarshalText implements encoding.TextMarshaler.
func (r Rounding) MarshalText() ([]byte, error) {
	return []byte(r.String()), nil
}

// Piece is one draw primitive. Left is in content pixels; Top is relative to
// the top of the piece's line row.
type Piece struct {
	Kind     PieceKind `yaml:"kind"`
	Left     float64   `yaml:"left"`
	Top      float64   `yaml:"top"`
	Width    float64   `yaml:"width"`
	Height   float64   `yaml:"height"`
	Rounding Rounding  `yaml:"rounding"`
}

// Right returns the right edge of the piece.
func (p Piece) Right() float64 {
	return p.Left + p.Width
}

// LinePieces holds the pieces for one line in two ordered lists. Inner holds
// the notch pieces and Body the range fills; Inner is always drawn first.
type LinePieces struct {
	LineNumber int     `yaml:"line"`
	Inner      []Piece `yaml:"inner,omitempty"`
	Body       []Piece `yaml:"body"`
}

// Pieces returns the line's pieces in draw order.
func (lp LinePieces) Pieces() []Piece {
	out := make([]Piece, 0, len(lp.Inner)+len(lp.Body))
	out = append(out, lp.Inner...)
	return append(out, lp.Body...)
}

// EmitOptions controls vertical placement of emitted pieces.
type EmitOptions struct {
	// LineHeight is the height of one line row in pixels.
	LineHeight float64
	// InsetTop shrinks the first line by one pixel from the top.
	InsetTop bool
	// InsetBottom shrinks the last line by one pixel from the bottom.
	InsetBottom bool
}

// EmitPieces converts one selection's lines into draw pieces. For every line
// the notch pieces come first, each highlight quad followed by the background
// quad that cuts it, and the body quads come last.
func EmitPieces(lines []StyledLine, opts EmitOptions) []LinePieces {
	if len(lines) == 0 {
		return nil
	}

	out := make([]LinePieces, 0, len(lines))
	last := len(lines) - 1

	for i, line := range lines {
		if len(line.Ranges) == 0 {
			continue
		}

		top, height := 0.0, opts.LineHeight
		if opts.InsetTop && i == 0 {
			top++
			height--
		}
		if opts.InsetBottom && i == last {
			height--
		}
		if height < 0 {
			height = 0
		}

		var inner, body []Piece
		for _, r := range line.Ranges {
			if r.Styled && r.Start.HasIntern() {
				left := r.Left - CornerPieceWidth
				inner = append(inner, Piece{
					Kind: PieceSelection, Left: left, Top: top, Width: CornerPieceWidth, Height: height,
				})
				var cut Rounding
				if r.Start.Top == CornerIntern {
					cut |= RoundTopRight
				}
				if r.Start.Bottom == CornerIntern {
					cut |= RoundBottomRight
				}
				inner = append(inner, Piece{
					Kind: PieceBackground, Left: left, Top: top, Width: CornerPieceWidth, Height: height, Rounding: cut,
				})
			}

			if r.Styled && r.End.HasIntern() {
				left := r.Right()
				inner = append(inner, Piece{
					Kind: PieceSelection, Left: left, Top: top, Width: CornerPieceWidth, Height: height,
				})
				var cut Rounding
				if r.End.Top == CornerIntern {
					cut |= RoundTopLeft
				}
				if r.End.Bottom == CornerIntern {
					cut |= RoundBottomLeft
				}
				inner = append(inner, Piece{
					Kind: PieceBackground, Left: left, Top: top, Width: CornerPieceWidth, Height: height, Rounding: cut,
				})
			}

			body = append(body, Piece{
				Kind:     PieceSelection,
				Left:     r.Left,
				Top:      top,
				Width:    r.Width,
				Height:   height,
				Rounding: bodyRounding(r),
			})
		}

		out = append(out, LinePieces{
			LineNumber: line.LineNumber,
			Inner:      inner,
			Body:       body,
		})
	}

	return out
}

// bodyRounding rounds the body quad only at EXTERN corners of a styled range.
func bodyRounding(r StyledRange) Rounding {
	if !r.Styled {
		return RoundNone
	}
	var round Rounding
	if r.Start.Top == CornerExtern {
		round |= RoundTopLeft
	}
	if r.Start.Bottom == CornerExtern {
		round |= RoundBottomLeft
	}
	if r.End.Top == CornerExtern {
		round |= RoundTopRight
	}
	if r.End.Bottom == CornerExtern {
		round |= RoundBottomRight
	}
	return round
}
