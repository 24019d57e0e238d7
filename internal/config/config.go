package config

import (
	"context"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/mitchellh/go-homedir"

	"github.com/dshills/selshape/internal/config/layer"
	"github.com/dshills/selshape/internal/config/loader"
	"github.com/dshills/selshape/internal/config/watcher"
)

// Layer names from lowest to highest priority.
const (
	LayerDefaults = "defaults"
	LayerFile     = "file"
	LayerEnv      = "env"
	LayerFlags    = "flags"
)

// DefaultPath is the settings file used when no path is given.
const DefaultPath = "~/.config/selshape/settings.toml"

// ChangeHandler is called after a reload with the new settings and the
// setting paths whose values changed.
type ChangeHandler func(s Settings, changed []string)

// Config loads layered settings and keeps the last valid snapshot.
type Config struct {
	mu sync.RWMutex

	fs        loader.FileSystem
	path      string
	explicit  bool
	envPrefix string
	debounce  time.Duration

	layers   *layer.Stack
	merged   map[string]any
	settings Settings

	watcher     *watcher.Watcher
	handlers    []ChangeHandler
	errHandlers []func(error)
}

// Option configures a Config instance.
type Option func(*Config)

// WithPath sets the settings file. A missing explicit file is an error.
func WithPath(path string) Option {
	return func(c *Config) {
		if path != "" {
			c.path = path
			c.explicit = true
		}
	}
}

// WithFS sets the file system used to read the settings file.
func WithFS(fs loader.FileSystem) Option {
	return func(c *Config) {
		c.fs = fs
	}
}

// WithEnvPrefix sets the environment variable prefix. An empty prefix
// disables the environment layer.
func WithEnvPrefix(prefix string) Option {
	return func(c *Config) {
		c.envPrefix = prefix
	}
}

// WithDebounce sets the live-reload debounce period.
func WithDebounce(d time.Duration) Option {
	return func(c *Config) {
		c.debounce = d
	}
}

// New creates a Config holding the built-in defaults. Call Load to read
// the settings file and environment.
func New(opts ...Option) *Config {
	c := &Config{
		fs:        loader.DefaultFS(),
		envPrefix: loader.DefaultEnvPrefix,
		debounce:  watcher.DefaultDebounce,
		layers:    layer.NewStack(),
	}
	if p, err := ResolvePath(DefaultPath); err == nil {
		c.path = p
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.explicit {
		if p, err := ResolvePath(c.path); err == nil {
			c.path = p
		}
	}

	c.layers.Set(LayerDefaults, Defaults())
	c.layers.Set(LayerFile, nil)
	c.layers.Set(LayerEnv, nil)
	c.layers.Set(LayerFlags, map[string]any{})
	c.merged = c.layers.Merge()
	c.settings = DefaultSettings()
	return c
}

// ResolvePath expands a leading ~ to the user's home directory.
func ResolvePath(path string) (string, error) {
	return homedir.Expand(path)
}

// Path returns the settings file path.
func (c *Config) Path() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.path
}

// Load reads the settings file and environment, then decodes and validates
// the merged result. On error the previous settings are kept.
func (c *Config) Load(_ context.Context) error {
	_, err := c.reload()
	return err
}

// Reload is Load followed by change notification when any value changed.
func (c *Config) Reload() error {
	changed, err := c.reload()
	if err != nil {
		return err
	}
	if len(changed) > 0 {
		c.notify(changed)
	}
	return nil
}

func (c *Config) reload() ([]string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	fileData, err := c.loadFile()
	if err != nil {
		return nil, err
	}

	var envData map[string]any
	if c.envPrefix != "" {
		if envData, err = loader.NewEnvLoader(c.envPrefix).Load(); err != nil {
			return nil, fmt.Errorf("loading environment: %w", err)
		}
	}

	prevFile, _ := c.layers.Get(LayerFile)
	prevEnv, _ := c.layers.Get(LayerEnv)
	c.layers.Set(LayerFile, fileData)
	c.layers.Set(LayerEnv, envData)

	changed, err := c.apply()
	if err != nil {
		c.layers.Set(LayerFile, prevFile)
		c.layers.Set(LayerEnv, prevEnv)
		return nil, err
	}
	return changed, nil
}

func (c *Config) loadFile() (map[string]any, error) {
	if c.path == "" {
		return nil, nil
	}
	l, err := loader.ForPath(c.fs, c.path)
	if err != nil {
		return nil, err
	}
	data, err := l.Load()
	if err != nil {
		return nil, err
	}
	if data == nil && c.explicit {
		return nil, fmt.Errorf("%s: %w", c.path, ErrFileNotFound)
	}
	return data, nil
}

// apply re-merges the layers and swaps in the new snapshot when it decodes
// and validates. Callers hold c.mu.
func (c *Config) apply() ([]string, error) {
	merged := c.layers.Merge()
	s, err := decode(merged)
	if err != nil {
		return nil, err
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	changed := layer.Changed(c.merged, merged)
	c.merged = merged
	c.settings = s
	return changed, nil
}

// Settings returns the current settings snapshot.
func (c *Config) Settings() Settings {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.settings
}

// Get returns the value at the given path from the merged configuration.
func (c *Config) Get(path string) (any, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return layer.GetByPath(c.merged, path)
}

// Set overrides a setting in the flags layer, above the file and
// environment. The value is rejected if the result doesn't validate.
func (c *Config) Set(path string, value any) error {
	changed, err := c.set(path, value)
	if err != nil {
		return err
	}
	if len(changed) > 0 {
		c.notify(changed)
	}
	return nil
}

func (c *Config) set(path string, value any) ([]string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	flags, _ := c.layers.Get(LayerFlags)
	prev := layer.Clone(flags).(map[string]any)
	layer.SetByPath(flags, path, value)

	changed, err := c.apply()
	if err != nil {
		c.layers.Set(LayerFlags, prev)
		return nil, err
	}
	return changed, nil
}

// OnChange registers a handler called after settings change.
func (c *Config) OnChange(h ChangeHandler) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.handlers = append(c.handlers, h)
}

// OnError registers a handler for live-reload failures.
func (c *Config) OnError(h func(error)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.errHandlers = append(c.errHandlers, h)
}

func (c *Config) notify(changed []string) {
	c.mu.RLock()
	s := c.settings
	handlers := slices.Clone(c.handlers)
	c.mu.RUnlock()

	for _, h := range handlers {
		h(s, changed)
	}
}

func (c *Config) fail(err error) {
	c.mu.RLock()
	handlers := slices.Clone(c.errHandlers)
	c.mu.RUnlock()

	for _, h := range handlers {
		h(err)
	}
}

// Watch reloads the settings file whenever it changes. Reload errors are
// passed to OnError handlers and leave the previous settings in place.
func (c *Config) Watch() error {
	c.mu.Lock()
	if c.watcher != nil {
		c.mu.Unlock()
		return nil
	}
	path := c.path
	debounce := c.debounce
	c.mu.Unlock()

	if path == "" {
		return fmt.Errorf("watch: %w", ErrFileNotFound)
	}

	w, err := watcher.New(watcher.WithDebounce(debounce))
	if err != nil {
		return fmt.Errorf("creating watcher: %w", err)
	}
	if err := w.Watch(path); err != nil {
		_ = w.Close()
		return fmt.Errorf("watching %s: %w", path, err)
	}
	w.OnChange(func(watcher.Event) {
		if err := c.Reload(); err != nil {
			c.fail(err)
		}
	})
	w.OnError(c.fail)

	c.mu.Lock()
	if c.watcher != nil {
		c.mu.Unlock()
		return w.Close()
	}
	c.watcher = w
	c.mu.Unlock()
	return nil
}

// Close stops live reload.
func (c *Config) Close() error {
	c.mu.Lock()
	w := c.watcher
	c.watcher = nil
	c.mu.Unlock()

	if w == nil {
		return nil
	}
	return w.Close()
}
