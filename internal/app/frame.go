package app

import (
	"context"

	"github.com/dshills/selshape/internal/event/events"
	"github.com/dshills/selshape/internal/renderer/backend"
	"github.com/dshills/selshape/internal/renderer/selection"
)

// Prepare classifies the selections visible in the current viewport.
func (a *App) Prepare() {
	a.overlay.Prepare(a.viewport.Range())
}

// RenderFrame prepares the overlay for the current viewport and paints
// every visible view line to b: selection pieces first, then text. With
// word wrap on, each wrapped row is its own view line and screen row.
func (a *App) RenderFrame(ctx context.Context, b backend.Backend) error {
	if a.closed.Load() {
		return ErrClosed
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	timer := StartTimer()

	a.Prepare()
	b.Clear()

	start, end := a.viewport.VisibleLineRange()
	if a.viewport.LineCount() > 0 {
		for line := start; line <= end; line++ {
			row := a.viewport.LineToScreenRow(line)
			if row < 0 {
				continue
			}
			b.DrawLine(row, a.overlay.Render(line))
			b.DrawText(row, a.geometry.ViewLineText(line))
		}
	}

	if err := b.Show(); err != nil {
		return NewOperationError("show", "frame", err)
	}

	stats := a.overlay.Stats()
	a.metrics.RecordFrame(timer.Elapsed(), stats)
	publish(a, events.TopicFrameRendered, events.FrameRendered{Stats: stats})
	return nil
}

// LinePieces prepares the overlay and returns the pieces of every visible
// line that has any, keyed by line number.
func (a *App) LinePieces() map[int][]selection.Piece {
	a.Prepare()
	out := make(map[int][]selection.Piece)
	if a.viewport.LineCount() == 0 {
		return out
	}
	start, end := a.viewport.VisibleLineRange()
	for line := start; line <= end; line++ {
		if pieces := a.overlay.Render(line); len(pieces) > 0 {
			out[line] = pieces
		}
	}
	return out
}
