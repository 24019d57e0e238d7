package selection

import (
	"sync"

	"github.com/dshills/selshape/internal/renderer/core"
)

// Mode selects how the overlay draws selections.
type Mode uint8

const (
	// ModeRounded classifies corners and draws shaped highlights.
	ModeRounded Mode = iota
	// ModeMarkers draws one fixed-size marker at each selection's start.
	ModeMarkers
)

// String returns the string representation of a mode.
func (m Mode) String() string {
	switch m {
	case ModeRounded:
		return "rounded"
	case ModeMarkers:
		return "markers"
	default:
		return "rounded"
	}
}

// ModeFromString converts a string to a mode. Unknown names select ModeRounded.
func ModeFromString(s string) Mode {
	switch s {
	case "markers", "marker":
		return ModeMarkers
	default:
		return ModeRounded
	}
}

// Options configures the overlay.
type Options struct {
	// Mode selects rounded highlights or start markers.
	Mode Mode
	// RoundedSelection enables corner classification in ModeRounded.
	// When false every range is drawn as a plain rectangle.
	RoundedSelection bool
	// TypicalHalfwidthCharacterWidth is the advance of a typical half-width
	// character in pixels.
	TypicalHalfwidthCharacterWidth float64
	// LineHeight is the height of one line row in pixels.
	LineHeight float64
}

// DefaultOptions returns sensible default overlay options.
func DefaultOptions() Options {
	return Options{
		Mode:                           ModeRounded,
		RoundedSelection:               true,
		TypicalHalfwidthCharacterWidth: 8,
		LineHeight:                     18,
	}
}

// FrameStats describes the last prepared frame.
type FrameStats struct {
	Viewport   core.ViewportRange
	Selections int // selections drawn
	Gapped     int // selections drawn unrounded because of gaps
	Lines      int // lines with at least one piece
	Pieces     int
}

// Overlay prepares selection pieces for the visible lines once per frame and
// hands them out per line.
type Overlay struct {
	mu sync.Mutex

	adapter    *GeometryAdapter
	classifier *Classifier
	stabilizer *Stabilizer
	opts       Options

	// Snapshot from the last selection change
	selections []core.Selection

	// Last prepared frame
	viewport core.ViewportRange
	prepared map[int][]Piece
	ready    bool
	stats    FrameStats
}

// OverlayOption configures an Overlay.
type OverlayOption func(*Overlay)

// WithOptions sets the initial overlay options.
func WithOptions(opts Options) OverlayOption {
	return func(o *Overlay) {
		o.opts = opts
	}
}

// withStabilizer makes the overlay use the given stabilization cache.
func withStabilizer(s *Stabilizer) OverlayOption {
	return func(o *Overlay) {
		if s != nil {
			o.stabilizer = s
		}
	}
}

// NewOverlay creates an overlay that reads geometry from provider.
func NewOverlay(provider RangeProvider, opts ...OverlayOption) *Overlay {
	o := &Overlay{
		adapter:    NewGeometryAdapter(provider),
		stabilizer: NewStabilizer(),
		opts:       DefaultOptions(),
	}
	for _, opt := range opts {
		opt(o)
	}
	o.classifier = NewClassifier(o.opts.TypicalHalfwidthCharacterWidth)
	return o
}

// Options returns the current options.
func (o *Overlay) Options() Options {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.opts
}

// SetOptions applies new options. Changing anything that affects corner
// styles drops the stabilization cache.
func (o *Overlay) SetOptions(opts Options) {
	o.mu.Lock()
	defer o.mu.Unlock()

	if opts != o.opts {
		o.stabilizer.Reset()
	}
	o.opts = opts
	o.classifier = NewClassifier(opts.TypicalHalfwidthCharacterWidth)
}

// SetSelections replaces the selection snapshot. Index order is kept as the
// selection index for frame stabilization.
func (o *Overlay) SetSelections(selections []core.Selection) {
	snapshot := make([]core.Selection, len(selections))
	copy(snapshot, selections)

	o.mu.Lock()
	defer o.mu.Unlock()
	o.selections = snapshot
}

// Selections returns a copy of the current selection snapshot.
func (o *Overlay) Selections() []core.Selection {
	o.mu.Lock()
	defer o.mu.Unlock()

	result := make([]core.Selection, len(o.selections))
	copy(result, o.selections)
	return result
}

// Prepare computes the pieces for every line in vp and updates the
// stabilization cache.
func (o *Overlay) Prepare(vp core.ViewportRange) {
	o.mu.Lock()
	defer o.mu.Unlock()

	o.viewport = vp
	o.prepared = make(map[int][]Piece)
	o.stats = FrameStats{Viewport: vp}
	o.ready = true

	if vp.IsEmpty() {
		return
	}

	switch o.opts.Mode {
	case ModeMarkers:
		o.prepareMarkers(vp)
	default:
		o.prepareRounded(vp)
	}

	o.stats.Lines = len(o.prepared)
}

// prepareRounded runs the full classification path (must hold lock).
func (o *Overlay) prepareRounded(vp core.ViewportRange) {
	frame := make([][]StyledLine, len(o.selections))
	visible := make([][]StyledLine, len(o.selections))

	topmost, bottommost := -1, -1
	drawn := 0

	for i, sel := range o.selections {
		if sel.IsEmpty() {
			continue
		}
		lines := o.adapter.Lines(sel, vp)
		if len(lines) == 0 {
			continue
		}

		if HasGaps(lines) {
			o.stats.Gapped++
		} else if o.opts.RoundedSelection {
			lines = o.classifier.Classify(lines, vp, o.stabilizer.Previous(i))
			frame[i] = lines
		}
		visible[i] = lines
		drawn++

		if topmost < 0 || lines[0].LineNumber < visible[topmost][0].LineNumber {
			topmost = i
		}
		if bottommost < 0 || lines[len(lines)-1].LineNumber > lastLine(visible[bottommost]) {
			bottommost = i
		}
	}

	o.stabilizer.Commit(frame)
	o.stats.Selections = drawn

	inner := make(map[int][]Piece)
	body := make(map[int][]Piece)
	multiple := drawn > 1

	for i, lines := range visible {
		if len(lines) == 0 {
			continue
		}
		emitted := EmitPieces(lines, EmitOptions{
			LineHeight:  o.opts.LineHeight,
			InsetTop:    multiple && i == topmost,
			InsetBottom: multiple && i == bottommost,
		})
		for _, lp := range emitted {
			inner[lp.LineNumber] = append(inner[lp.LineNumber], lp.Inner...)
			body[lp.LineNumber] = append(body[lp.LineNumber], lp.Body...)
		}
	}

	for line, pieces := range body {
		all := append(inner[line], pieces...)
		o.prepared[line] = all
		o.stats.Pieces += len(all)
	}
}

// prepareMarkers draws a fixed-size square at each selection start (must
// hold lock). The stabilization cache is not used in this mode.
func (o *Overlay) prepareMarkers(vp core.ViewportRange) {
	o.stabilizer.Reset()

	for _, sel := range o.selections {
		// The provider reports the line the start point is drawn on, which
		// differs from its buffer line when text wraps.
		start := sel.Normalize().Start()
		lines := o.adapter.Lines(core.NewSelection(start, start), vp)
		if len(lines) == 0 {
			continue
		}

		at := lines[0].LineNumber
		o.prepared[at] = append(o.prepared[at], Piece{
			Kind:   PieceSelection,
			Left:   lines[0].Ranges[0].Left,
			Width:  MarkerSize,
			Height: MarkerSize,
		})
		o.stats.Selections++
		o.stats.Pieces++
	}
}

// Render returns the pieces prepared for line, in draw order. It returns nil
// when nothing was prepared or the line is outside the prepared viewport.
func (o *Overlay) Render(lineNumber int) []Piece {
	o.mu.Lock()
	defer o.mu.Unlock()

	if !o.ready || !o.viewport.Contains(lineNumber) {
		return nil
	}
	pieces := o.prepared[lineNumber]
	if len(pieces) == 0 {
		return nil
	}
	result := make([]Piece, len(pieces))
	copy(result, pieces)
	return result
}

// Stats returns statistics for the last prepared frame.
func (o *Overlay) Stats() FrameStats {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.stats
}

func lastLine(lines []StyledLine) int {
	return lines[len(lines)-1].LineNumber
}
