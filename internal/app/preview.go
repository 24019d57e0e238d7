package app

import (
	"context"
	"errors"

	"github.com/dshills/selshape/internal/renderer/backend"
)

// Screen is a backend that also delivers input events.
type Screen interface {
	backend.Backend
	PollEvent() backend.Event
}

// Preview renders to screen and scrolls on key input until the user quits
// or ctx is cancelled. It returns nil on a normal quit.
func (a *App) Preview(ctx context.Context, screen Screen) error {
	if a.closed.Load() {
		return ErrClosed
	}
	if a.running.Swap(true) {
		return ErrAlreadyRunning
	}
	defer a.running.Store(false)

	w, h := screen.Size()
	if w > 0 && h > 0 {
		a.Resize(w, h)
	}

	log := a.logger.WithComponent("preview")
	log.Debug("preview started %dx%d", w, h)

	for {
		if err := a.RenderFrame(ctx, screen); err != nil {
			if errors.Is(err, context.Canceled) {
				return nil
			}
			return err
		}

		ev := screen.PollEvent()
		if ctx.Err() != nil {
			return nil
		}
		if err := a.handleEvent(ev); err != nil {
			if errors.Is(err, ErrQuit) {
				log.Debug("preview quit")
				return nil
			}
			return err
		}
	}
}

// handleEvent applies one input event. Returns ErrQuit when the preview
// should exit.
func (a *App) handleEvent(ev backend.Event) error {
	switch ev.Type {
	case backend.EventResize:
		a.Resize(ev.Width, ev.Height)
		return nil
	case backend.EventKey:
		return a.handleKey(ev)
	case backend.EventNone:
		// The screen was finalized.
		return ErrQuit
	default:
		return nil
	}
}

func (a *App) handleKey(ev backend.Event) error {
	vp := a.viewport
	switch ev.Key {
	case backend.KeyEscape, backend.KeyCtrlC:
		return ErrQuit
	case backend.KeyUp:
		vp.ScrollBy(-1)
	case backend.KeyDown, backend.KeyEnter:
		vp.ScrollBy(1)
	case backend.KeyPageUp:
		vp.PageUp()
	case backend.KeyPageDown:
		vp.PageDown()
	case backend.KeyHome:
		vp.ScrollToTop()
	case backend.KeyEnd:
		vp.ScrollToBottom()
	case backend.KeyRune:
		switch ev.Rune {
		case 'q':
			return ErrQuit
		case 'k':
			vp.ScrollBy(-1)
		case 'j':
			vp.ScrollBy(1)
		case 'g':
			vp.ScrollToTop()
		case 'G':
			vp.ScrollToBottom()
		case 'r':
			if err := a.config.Reload(); err != nil {
				a.logger.WithComponent("preview").WithError(err).Warn("reload failed")
			}
		}
	}
	return nil
}
