// Package app wires configuration, the event bus, text layout and the
// selection overlay into a renderable application.
package app

import (
	"context"
	"io"
	"os"
	"sync"
	"sync/atomic"

	"github.com/dshills/selshape/internal/config"
	"github.com/dshills/selshape/internal/event"
	"github.com/dshills/selshape/internal/renderer/backend"
	"github.com/dshills/selshape/internal/renderer/core"
	"github.com/dshills/selshape/internal/renderer/layout"
	"github.com/dshills/selshape/internal/renderer/selection"
	"github.com/dshills/selshape/internal/renderer/viewport"
)

// Default viewport size in lines and columns.
const (
	DefaultWidth  = 80
	DefaultHeight = 25
)

// Options configures the application.
type Options struct {
	// ConfigPath is the settings file. Empty uses config.DefaultPath.
	ConfigPath string

	// LogLevel overrides logging.level when set.
	LogLevel string

	// Mode overrides selection.mode when set.
	Mode string

	// Watch reloads the settings file when it changes.
	Watch bool

	// LogOutput receives log lines. Defaults to os.Stderr.
	LogOutput io.Writer

	// Width and Height size the viewport in columns and lines.
	Width, Height int

	// ConfigOptions are passed to config.New after the path option.
	ConfigOptions []config.Option
}

// App owns the components that turn text and selections into frames.
type App struct {
	mu sync.RWMutex

	opts    Options
	logger  *Logger
	metrics *Metrics

	config     *config.Config
	bus        *event.Bus
	subs       *subscriptionManager
	selections *selection.Manager

	geometry *layout.Geometry
	overlay  *selection.Overlay
	viewport *viewport.Viewport
	palette  backend.Palette

	running atomic.Bool
	closed  atomic.Bool
}

// New creates an application and initializes its components.
func New(opts Options) (*App, error) {
	if opts.Width <= 0 {
		opts.Width = DefaultWidth
	}
	if opts.Height <= 0 {
		opts.Height = DefaultHeight
	}
	if opts.LogOutput == nil {
		opts.LogOutput = os.Stderr
	}

	a := &App{
		opts:    opts,
		metrics: NewMetrics(),
	}
	if err := a.bootstrap(); err != nil {
		a.cleanup()
		return nil, err
	}
	return a, nil
}

// bootstrap initializes components in dependency order.
func (a *App) bootstrap() error {
	a.logger = NewLogger(LoggerConfig{Level: "info", Output: a.opts.LogOutput})

	a.bus = event.NewBus(event.WithPanicHandler(func(ev any, r any) {
		a.logger.WithComponent("event").Error("handler panic on %T: %v", ev, r)
	}))
	if err := a.bus.Start(); err != nil {
		return &InitError{Component: "event bus", Err: err}
	}

	if err := a.initConfig(); err != nil {
		return err
	}
	settings := a.config.Settings()
	a.logger.SetLevel(settings.Logging.Level)

	a.geometry = layout.NewGeometry(layout.Lines(nil), newLineCache(settings), metricsFor(settings))
	a.overlay = selection.NewOverlay(a.geometry, selection.WithOptions(overlayOptions(settings)))
	a.viewport = viewport.NewViewport(a.opts.Width, a.opts.Height)
	a.palette = paletteFor(settings)
	a.selections = selection.NewManager()

	a.subs = newSubscriptionManager(a)
	if err := a.subs.setup(); err != nil {
		return &InitError{Component: "subscriptions", Err: err}
	}

	if a.opts.Watch {
		if err := a.config.Watch(); err != nil {
			return &InitError{Component: "config watcher", Err: err}
		}
		a.logger.WithComponent("config").Info("watching %s", a.config.Path())
	}
	return nil
}

func (a *App) initConfig() error {
	var opts []config.Option
	if a.opts.ConfigPath != "" {
		opts = append(opts, config.WithPath(a.opts.ConfigPath))
	}
	opts = append(opts, a.opts.ConfigOptions...)

	a.config = config.New(opts...)
	if err := a.config.Load(context.Background()); err != nil {
		return &InitError{Component: "config", Err: err}
	}
	if a.opts.Mode != "" {
		if err := a.config.Set(config.PathSelectionMode, a.opts.Mode); err != nil {
			return &InitError{Component: "config", Err: err}
		}
	}
	if a.opts.LogLevel != "" {
		if err := a.config.Set(config.PathLogLevel, a.opts.LogLevel); err != nil {
			return &InitError{Component: "config", Err: err}
		}
	}
	return nil
}

// cleanup releases whatever bootstrap managed to start.
func (a *App) cleanup() {
	if a.subs != nil {
		a.subs.cleanup()
	}
	if a.config != nil {
		_ = a.config.Close()
	}
	if a.bus != nil && a.bus.IsRunning() {
		_ = a.bus.Stop()
	}
}

// Close stops live reload and the event bus.
func (a *App) Close() error {
	if a.closed.Swap(true) {
		return nil
	}
	a.cleanup()
	return nil
}

// SetText replaces the displayed text.
func (a *App) SetText(text string) {
	a.geometry.SetSource(layout.SplitLines(text))
	a.viewport.SetLineCount(a.geometry.ViewLineCount())
}

// LoadFile reads path and displays its contents.
func (a *App) LoadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return NewOperationError("load", path, err)
	}
	a.SetText(string(data))
	a.logger.WithComponent("app").Debug("loaded %s (%d view lines)", path, a.viewport.LineCount())
	return nil
}

// SetSelections replaces the selections. The first is primary. The change
// reaches the overlay through the event bus.
func (a *App) SetSelections(selections []core.Selection) {
	a.selections.Set(selections)
}

// ParseSelections parses "line:col-line:col" specs and sets them.
func (a *App) ParseSelections(specs []string) error {
	selections := make([]core.Selection, 0, len(specs))
	for _, spec := range specs {
		sel, err := core.ParseSelection(spec)
		if err != nil {
			return err
		}
		selections = append(selections, sel)
	}
	a.SetSelections(selections)
	return nil
}

// ScrollTo scrolls the viewport so the first row of buffer line is the top
// line.
func (a *App) ScrollTo(line int) {
	a.viewport.ScrollTo(a.geometry.ViewLine(line, 0))
}

// Resize resizes the viewport.
func (a *App) Resize(width, height int) {
	a.viewport.Resize(width, height)
}

// Settings returns the current settings.
func (a *App) Settings() config.Settings {
	return a.config.Settings()
}

// Palette returns the colors derived from the current settings.
func (a *App) Palette() backend.Palette {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.palette
}

// LayoutMetrics returns the pixel metrics text is laid out with.
func (a *App) LayoutMetrics() layout.Metrics {
	return a.geometry.Metrics()
}

// Config returns the configuration.
func (a *App) Config() *config.Config { return a.config }

// Bus returns the event bus.
func (a *App) Bus() *event.Bus { return a.bus }

// Logger returns the application logger.
func (a *App) Logger() *Logger { return a.logger }

// Metrics returns the frame metrics.
func (a *App) Metrics() *Metrics { return a.metrics }

// Overlay returns the selection overlay.
func (a *App) Overlay() *selection.Overlay { return a.overlay }

// Viewport returns the viewport.
func (a *App) Viewport() *viewport.Viewport { return a.viewport }

// Selections returns the current selections, primary first.
func (a *App) Selections() []core.Selection { return a.selections.All() }

// applySettings pushes new settings into layout, overlay and palette.
func (a *App) applySettings(s config.Settings) {
	a.logger.SetLevel(s.Logging.Level)

	a.geometry.SetMetrics(metricsFor(s))
	a.geometry.SetEngine(newEngine(s))
	a.viewport.SetLineCount(a.geometry.ViewLineCount())
	a.overlay.SetOptions(overlayOptions(s))

	a.mu.Lock()
	a.palette = paletteFor(s)
	a.mu.Unlock()
}

func newEngine(s config.Settings) *layout.LayoutEngine {
	e := layout.NewLayoutEngine(s.Editor.TabSize)
	e.SetWrap(s.Editor.WordWrapColumn, true)
	return e
}

func newLineCache(s config.Settings) *layout.LineCache {
	return layout.NewLineCache(newEngine(s), 1000)
}

func metricsFor(s config.Settings) layout.Metrics {
	return layout.Metrics{
		CharWidth:  s.Editor.TypicalHalfwidthCharacterWidth,
		LineHeight: s.Editor.LineHeight,
	}
}

func overlayOptions(s config.Settings) selection.Options {
	return selection.Options{
		Mode:                           selection.ModeFromString(s.Selection.Mode),
		RoundedSelection:               s.Editor.RoundedSelection,
		TypicalHalfwidthCharacterWidth: s.Editor.TypicalHalfwidthCharacterWidth,
		LineHeight:                     s.Editor.LineHeight,
	}
}

// paletteFor converts validated color settings; invalid colors keep the
// default palette entry.
func paletteFor(s config.Settings) backend.Palette {
	p := backend.DefaultPalette()
	if c, err := core.ColorFromHex(s.Selection.Foreground); err == nil {
		p.Foreground = c
	}
	if c, err := core.ColorFromHex(s.Selection.Background); err == nil {
		p.Background = c
	}
	if c, err := core.ColorFromHex(s.Selection.Color); err == nil {
		p.Selection = c
	}
	return p
}
