package backend

import (
	"math"
	"sync"

	"github.com/gdamore/tcell/v2"
	"github.com/mattn/go-runewidth"

	"github.com/dshills/selshape/internal/renderer/core"
	"github.com/dshills/selshape/internal/renderer/layout"
	"github.com/dshills/selshape/internal/renderer/selection"
)

// EventType identifies the type of terminal event.
type EventType int

const (
	EventNone EventType = iota
	EventKey
	EventResize
)

// Key represents a keyboard key.
type Key int

// Key constants for the keys the preview handles.
const (
	KeyNone Key = iota
	KeyRune     // Regular character (use Rune field)
	KeyEscape
	KeyEnter
	KeyUp
	KeyDown
	KeyPageUp
	KeyPageDown
	KeyHome
	KeyEnd
	KeyCtrlC
)

// Event represents a terminal event.
type Event struct {
	Type EventType

	// Key event fields
	Key  Key
	Rune rune

	// Resize event fields
	Width, Height int
}

// Terminal is a Backend that paints to a tcell screen, one cell per
// Metrics.CharWidth pixels. Rounded corners are not representable and are
// drawn square.
type Terminal struct {
	mu      sync.Mutex
	screen  tcell.Screen
	metrics layout.Metrics
	palette Palette
}

// NewTerminal creates a terminal backend on the controlling terminal.
func NewTerminal(metrics layout.Metrics, palette Palette) (*Terminal, error) {
	screen, err := tcell.NewScreen()
	if err != nil {
		return nil, err
	}
	return NewTerminalWithScreen(screen, metrics, palette), nil
}

// NewTerminalWithScreen creates a terminal backend on an existing screen.
func NewTerminalWithScreen(screen tcell.Screen, metrics layout.Metrics, palette Palette) *Terminal {
	if metrics.CharWidth <= 0 {
		metrics.CharWidth = 1
	}
	return &Terminal{screen: screen, metrics: metrics, palette: palette}
}

// Init initializes the screen. It must be called before drawing.
func (t *Terminal) Init() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if err := t.screen.Init(); err != nil {
		return err
	}
	t.screen.SetStyle(t.baseStyle())
	return nil
}

// Shutdown releases the screen and restores terminal state.
func (t *Terminal) Shutdown() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.screen.Fini()
}

// Size returns the screen size in cells.
func (t *Terminal) Size() (int, int) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.screen.Size()
}

// Clear clears the screen to the background color.
func (t *Terminal) Clear() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.screen.Fill(' ', t.baseStyle())
}

// DrawLine paints piece extents as cell backgrounds on row.
func (t *Terminal) DrawLine(row int, pieces []selection.Piece) {
	t.mu.Lock()
	defer t.mu.Unlock()

	width, height := t.screen.Size()
	if row < 0 || row >= height {
		return
	}
	for _, p := range pieces {
		if p.Width <= 0 {
			continue
		}
		bg := convertColor(t.palette.pieceColor(p.Kind))
		first := max(int(math.Floor(p.Left/t.metrics.CharWidth)), 0)
		last := min(int(math.Ceil(p.Right()/t.metrics.CharWidth)), width)
		for x := first; x < last; x++ {
			r, _, style, _ := t.screen.GetContent(x, row) //nolint:staticcheck // GetContent is the correct API
			t.screen.SetContent(x, row, r, nil, style.Background(bg))
		}
	}
}

// DrawText paints text on row, keeping each cell's background.
func (t *Terminal) DrawText(row int, text string) {
	t.mu.Lock()
	defer t.mu.Unlock()

	width, height := t.screen.Size()
	if row < 0 || row >= height {
		return
	}
	fg := convertColor(t.palette.Foreground)
	x := 0
	for _, r := range text {
		w := runewidth.RuneWidth(r)
		if w == 0 {
			continue
		}
		if x+w > width {
			break
		}
		_, _, style, _ := t.screen.GetContent(x, row) //nolint:staticcheck // GetContent is the correct API
		t.screen.SetContent(x, row, r, nil, style.Foreground(fg))
		x += w
	}
}

// Show flushes pending changes to the terminal.
func (t *Terminal) Show() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.screen.Show()
	return nil
}

// PollEvent waits for and returns the next terminal event.
// It returns EventNone once the screen is finalized.
func (t *Terminal) PollEvent() Event {
	ev := t.screen.PollEvent()
	if ev == nil {
		return Event{Type: EventNone}
	}
	return convertEvent(ev)
}

func (t *Terminal) baseStyle() tcell.Style {
	return tcell.StyleDefault.
		Foreground(convertColor(t.palette.Foreground)).
		Background(convertColor(t.palette.Background))
}

// convertColor converts a core.Color to a tcell color.
func convertColor(c core.Color) tcell.Color {
	switch {
	case c.IsDefault():
		return tcell.ColorDefault
	case c.Indexed:
		return tcell.PaletteColor(int(c.R))
	default:
		return tcell.NewRGBColor(int32(c.R), int32(c.G), int32(c.B))
	}
}

// convertEvent converts tcell events to our Event type.
func convertEvent(ev tcell.Event) Event {
	switch e := ev.(type) {
	case *tcell.EventKey:
		return Event{
			Type: EventKey,
			Key:  convertKey(e.Key()),
			Rune: e.Rune(),
		}
	case *tcell.EventResize:
		w, h := e.Size()
		return Event{Type: EventResize, Width: w, Height: h}
	default:
		return Event{Type: EventNone}
	}
}

// convertKey converts a tcell key to our Key type.
func convertKey(k tcell.Key) Key {
	switch k {
	case tcell.KeyRune:
		return KeyRune
	case tcell.KeyEscape:
		return KeyEscape
	case tcell.KeyEnter:
		return KeyEnter
	case tcell.KeyUp:
		return KeyUp
	case tcell.KeyDown:
		return KeyDown
	case tcell.KeyPgUp:
		return KeyPageUp
	case tcell.KeyPgDn:
		return KeyPageDown
	case tcell.KeyHome:
		return KeyHome
	case tcell.KeyEnd:
		return KeyEnd
	case tcell.KeyCtrlC:
		return KeyCtrlC
	default:
		return KeyNone
	}
}
