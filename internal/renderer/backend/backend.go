// Package backend provides paint surfaces for selection pieces and text.
package backend

import (
	"sync"

	"github.com/dshills/selshape/internal/renderer/core"
	"github.com/dshills/selshape/internal/renderer/selection"
)

// Backend defines the interface for paint surfaces.
// Rows are screen rows; piece coordinates are pixels relative to the row.
type Backend interface {
	// Size returns the surface dimensions in the backend's native unit.
	Size() (width, height int)

	// Clear fills the surface with the background color.
	Clear()

	// DrawLine paints the pieces of one row in the given order.
	DrawLine(row int, pieces []selection.Piece)

	// DrawText paints tab-expanded text on a row, keeping whatever
	// background is already there.
	DrawText(row int, text string)

	// Show flushes drawing to the output.
	Show() error
}

// Palette holds the colors backends paint with.
type Palette struct {
	Foreground core.Color
	Background core.Color
	Selection  core.Color
}

// DefaultPalette returns a dark palette.
func DefaultPalette() Palette {
	return Palette{
		Foreground: core.ColorFromRGB(0xd4, 0xd4, 0xd4),
		Background: core.ColorFromRGB(0x1e, 0x1e, 0x1e),
		Selection:  core.ColorFromRGB(0x26, 0x4f, 0x78),
	}
}

// pieceColor returns the fill color for a piece.
func (p Palette) pieceColor(kind selection.PieceKind) core.Color {
	if kind == selection.PieceBackground {
		return p.Background
	}
	return p.Selection
}

// DrawCall records one DrawLine or DrawText call.
type DrawCall struct {
	Row    int
	Pieces []selection.Piece
	Text   string
}

// Recorder is a Backend that records calls for testing.
type Recorder struct {
	mu            sync.Mutex
	width, height int
	lines         []DrawCall
	texts         []DrawCall
	clears        int
	shows         int
}

// NewRecorder creates a recording backend with the given dimensions.
func NewRecorder(width, height int) *Recorder {
	return &Recorder{width: width, height: height}
}

func (r *Recorder) Size() (int, int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.width, r.height
}

func (r *Recorder) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.clears++
	r.lines = nil
	r.texts = nil
}

func (r *Recorder) DrawLine(row int, pieces []selection.Piece) {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := make([]selection.Piece, len(pieces))
	copy(cp, pieces)
	r.lines = append(r.lines, DrawCall{Row: row, Pieces: cp})
}

func (r *Recorder) DrawText(row int, text string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.texts = append(r.texts, DrawCall{Row: row, Text: text})
}

func (r *Recorder) Show() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.shows++
	return nil
}

// Lines returns the DrawLine calls since the last Clear.
func (r *Recorder) Lines() []DrawCall {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]DrawCall, len(r.lines))
	copy(out, r.lines)
	return out
}

// Texts returns the DrawText calls since the last Clear.
func (r *Recorder) Texts() []DrawCall {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]DrawCall, len(r.texts))
	copy(out, r.texts)
	return out
}

// Counts returns how many times Clear and Show were called.
func (r *Recorder) Counts() (clears, shows int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.clears, r.shows
}
