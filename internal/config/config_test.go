package config

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"sync"
	"testing"
	"testing/fstest"
	"time"
)

func TestNew_Defaults(t *testing.T) {
	c := New(WithEnvPrefix(""))
	defer c.Close()

	got := c.Settings()
	want := DefaultSettings()
	if got != want {
		t.Errorf("Settings() = %+v, want %+v", got, want)
	}
	if !got.Editor.RoundedSelection {
		t.Error("RoundedSelection default = false, want true")
	}
	if got.Editor.TypicalHalfwidthCharacterWidth != 8 || got.Editor.LineHeight != 18 {
		t.Errorf("metrics = %v/%v, want 8/18", got.Editor.TypicalHalfwidthCharacterWidth, got.Editor.LineHeight)
	}
	if got.Selection.Mode != ModeRounded {
		t.Errorf("Selection.Mode = %q, want %q", got.Selection.Mode, ModeRounded)
	}
	if err := got.Validate(); err != nil {
		t.Errorf("defaults Validate() = %v", err)
	}
}

func TestConfig_LoadTOML(t *testing.T) {
	fsys := fstest.MapFS{
		"settings.toml": {Data: []byte(`
[editor]
roundedSelection = false
typicalHalfwidthCharacterWidth = 7.5
lineHeight = 20
tabSize = 2

[selection]
mode = "markers"
`)},
	}

	c := New(WithFS(fsys), WithPath("settings.toml"), WithEnvPrefix(""))
	if err := c.Load(context.Background()); err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	s := c.Settings()
	if s.Editor.RoundedSelection {
		t.Error("RoundedSelection = true, want false")
	}
	if s.Editor.TypicalHalfwidthCharacterWidth != 7.5 {
		t.Errorf("TypicalHalfwidthCharacterWidth = %v, want 7.5", s.Editor.TypicalHalfwidthCharacterWidth)
	}
	if s.Editor.LineHeight != 20 {
		t.Errorf("LineHeight = %v, want 20", s.Editor.LineHeight)
	}
	if s.Editor.TabSize != 2 {
		t.Errorf("TabSize = %d, want 2", s.Editor.TabSize)
	}
	if s.Selection.Mode != ModeMarkers {
		t.Errorf("Mode = %q, want markers", s.Selection.Mode)
	}
	// Untouched values keep their defaults.
	if s.Selection.Color != "#264f78" {
		t.Errorf("Color = %q, want default", s.Selection.Color)
	}
}

func TestConfig_LoadYAML(t *testing.T) {
	fsys := fstest.MapFS{
		"settings.yml": {Data: []byte("editor:\n  wordWrapColumn: 40\nlogging:\n  level: debug\n")},
	}

	c := New(WithFS(fsys), WithPath("settings.yml"), WithEnvPrefix(""))
	if err := c.Load(context.Background()); err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	s := c.Settings()
	if s.Editor.WordWrapColumn != 40 {
		t.Errorf("WordWrapColumn = %d, want 40", s.Editor.WordWrapColumn)
	}
	if s.Logging.Level != "debug" {
		t.Errorf("Logging.Level = %q, want debug", s.Logging.Level)
	}
}

func TestConfig_EnvOverridesFile(t *testing.T) {
	fsys := fstest.MapFS{
		"settings.toml": {Data: []byte("[editor]\nlineHeight = 20\n")},
	}
	t.Setenv("SELSHAPE_EDITOR_LINE_HEIGHT", "24")
	t.Setenv("SELSHAPE_MODE", "markers")

	c := New(WithFS(fsys), WithPath("settings.toml"))
	if err := c.Load(context.Background()); err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	s := c.Settings()
	if s.Editor.LineHeight != 24 {
		t.Errorf("LineHeight = %v, want 24 from environment", s.Editor.LineHeight)
	}
	if s.Selection.Mode != ModeMarkers {
		t.Errorf("Mode = %q, want markers from environment", s.Selection.Mode)
	}
}

func TestConfig_LoadErrors(t *testing.T) {
	tests := []struct {
		name    string
		files   fstest.MapFS
		path    string
		wantErr error
		check   func(t *testing.T, err error)
	}{
		{
			name:    "explicit file missing",
			files:   fstest.MapFS{},
			path:    "settings.toml",
			wantErr: ErrFileNotFound,
		},
		{
			name:    "unsupported format",
			files:   fstest.MapFS{"settings.ini": {Data: []byte("x=1")}},
			path:    "settings.ini",
			wantErr: ErrUnsupportedFormat,
		},
		{
			name:    "type mismatch",
			files:   fstest.MapFS{"settings.toml": {Data: []byte("[editor]\nroundedSelection = \"yes\"\n")}},
			path:    "settings.toml",
			wantErr: ErrTypeMismatch,
		},
		{
			name:    "invalid mode",
			files:   fstest.MapFS{"settings.toml": {Data: []byte("[selection]\nmode = \"square\"\n")}},
			path:    "settings.toml",
			wantErr: ErrInvalidSetting,
		},
		{
			name:  "parse error",
			files: fstest.MapFS{"settings.toml": {Data: []byte("[editor\n")}},
			path:  "settings.toml",
			check: func(t *testing.T, err error) {
				var perr *ParseError
				if !errors.As(err, &perr) {
					t.Errorf("Load() error = %v, want *ParseError", err)
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := New(WithFS(tt.files), WithPath(tt.path), WithEnvPrefix(""))
			err := c.Load(context.Background())
			if err == nil {
				t.Fatal("Load() error = nil")
			}
			if tt.wantErr != nil && !errors.Is(err, tt.wantErr) {
				t.Errorf("Load() error = %v, want %v", err, tt.wantErr)
			}
			if tt.check != nil {
				tt.check(t, err)
			}
			if got := c.Settings(); got != DefaultSettings() {
				t.Errorf("Settings() after failed Load = %+v, want defaults", got)
			}
		})
	}
}

func TestConfig_MissingDefaultFile(t *testing.T) {
	c := New(WithEnvPrefix(""))
	c.path = filepath.Join(t.TempDir(), "settings.toml")
	if err := c.Load(context.Background()); err != nil {
		t.Errorf("Load() with absent default file error = %v", err)
	}
	if got := c.Settings(); got != DefaultSettings() {
		t.Errorf("Settings() = %+v, want defaults", got)
	}
}

func TestConfig_GetAndSet(t *testing.T) {
	c := New(WithFS(fstest.MapFS{}), WithEnvPrefix(""))

	var mu sync.Mutex
	var gotChanged []string
	var gotSettings Settings
	c.OnChange(func(s Settings, changed []string) {
		mu.Lock()
		defer mu.Unlock()
		gotSettings = s
		gotChanged = changed
	})

	if err := c.Set(PathSelectionMode, ModeMarkers); err != nil {
		t.Fatalf("Set() error = %v", err)
	}
	if v, ok := c.Get(PathSelectionMode); !ok || v != ModeMarkers {
		t.Errorf("Get(%s) = %v, %v", PathSelectionMode, v, ok)
	}

	mu.Lock()
	if !reflect.DeepEqual(gotChanged, []string{PathSelectionMode}) {
		t.Errorf("changed = %v, want [%s]", gotChanged, PathSelectionMode)
	}
	if gotSettings.Selection.Mode != ModeMarkers {
		t.Errorf("handler Mode = %q, want markers", gotSettings.Selection.Mode)
	}
	mu.Unlock()

	err := c.Set(PathLineHeight, -1.0)
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("Set(lineHeight, -1) error = %v, want *ValidationError", err)
	}
	if verr.Code != ErrCodeOutOfRange {
		t.Errorf("Code = %v, want out_of_range", verr.Code)
	}
	if got := c.Settings().Editor.LineHeight; got != 18 {
		t.Errorf("LineHeight after rejected Set = %v, want 18", got)
	}
	if v, _ := c.Get(PathLineHeight); v != 18.0 {
		t.Errorf("Get(lineHeight) after rejected Set = %v, want 18", v)
	}
}

func TestConfig_SetSurvivesReload(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "settings.toml")
	if err := os.WriteFile(path, []byte("[selection]\nmode = \"rounded\"\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	c := New(WithPath(path), WithEnvPrefix(""))
	if err := c.Load(context.Background()); err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if err := c.Set(PathSelectionMode, ModeMarkers); err != nil {
		t.Fatalf("Set() error = %v", err)
	}
	if err := c.Reload(); err != nil {
		t.Fatalf("Reload() error = %v", err)
	}
	if got := c.Settings().Selection.Mode; got != ModeMarkers {
		t.Errorf("Mode after reload = %q, want markers", got)
	}
}

func TestConfig_OnErrorHandlers(t *testing.T) {
	c := New(WithEnvPrefix(""))
	defer c.Close()

	var got []error
	c.OnError(func(err error) { got = append(got, err) })
	c.OnError(func(err error) { got = append(got, fmt.Errorf("second: %w", err)) })

	boom := errors.New("boom")
	c.fail(boom)

	if len(got) != 2 {
		t.Fatalf("error handlers called %d times, want 2", len(got))
	}
	for i, err := range got {
		if !errors.Is(err, boom) {
			t.Errorf("handler %d got %v, want %v", i, err, boom)
		}
	}

	// Handlers registered during delivery do not see the current error.
	c.OnError(func(err error) {
		c.OnError(func(error) { t.Error("late handler called") })
	})
	got = nil
	c.fail(boom)
	if len(got) != 2 {
		t.Errorf("error handlers called %d times, want 2", len(got))
	}
}

func TestConfig_Watch(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "settings.toml")
	if err := os.WriteFile(path, []byte("[editor]\nlineHeight = 18\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	c := New(WithPath(path), WithEnvPrefix(""), WithDebounce(50*time.Millisecond))
	defer c.Close()
	if err := c.Load(context.Background()); err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	changes := make(chan Settings, 4)
	errs := make(chan error, 4)
	c.OnChange(func(s Settings, _ []string) { changes <- s })
	c.OnError(func(err error) { errs <- err })

	if err := c.Watch(); err != nil {
		t.Fatalf("Watch() error = %v", err)
	}

	if err := os.WriteFile(path, []byte("[editor]\nlineHeight = 22\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	select {
	case s := <-changes:
		if s.Editor.LineHeight != 22 {
			t.Errorf("reloaded LineHeight = %v, want 22", s.Editor.LineHeight)
		}
	case err := <-errs:
		t.Fatalf("reload error = %v", err)
	case <-time.After(2 * time.Second):
		t.Fatal("timeout waiting for reload")
	}

	if err := os.WriteFile(path, []byte("[editor]\nlineHeight = \"tall\"\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	select {
	case err := <-errs:
		if !errors.Is(err, ErrTypeMismatch) {
			t.Errorf("reload error = %v, want ErrTypeMismatch", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("timeout waiting for reload error")
	}
	if got := c.Settings().Editor.LineHeight; got != 22 {
		t.Errorf("LineHeight after bad reload = %v, want 22", got)
	}
}

func TestSettings_Validate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Settings)
		path   string
		code   ValidationErrorCode
	}{
		{"zero char width", func(s *Settings) { s.Editor.TypicalHalfwidthCharacterWidth = 0 }, PathCharWidth, ErrCodeOutOfRange},
		{"negative line height", func(s *Settings) { s.Editor.LineHeight = -2 }, PathLineHeight, ErrCodeOutOfRange},
		{"zero tab size", func(s *Settings) { s.Editor.TabSize = 0 }, PathTabSize, ErrCodeOutOfRange},
		{"negative wrap", func(s *Settings) { s.Editor.WordWrapColumn = -1 }, PathWordWrapColumn, ErrCodeOutOfRange},
		{"unknown mode", func(s *Settings) { s.Selection.Mode = "square" }, PathSelectionMode, ErrCodeInvalidEnum},
		{"bad color", func(s *Settings) { s.Selection.Color = "blue" }, PathSelectionColor, ErrCodeInvalidColor},
		{"bad background", func(s *Settings) { s.Selection.Background = "#12" }, PathBackground, ErrCodeInvalidColor},
		{"bad level", func(s *Settings) { s.Logging.Level = "loud" }, PathLogLevel, ErrCodeInvalidEnum},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := DefaultSettings()
			tt.mutate(&s)
			err := s.Validate()
			var verr *ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("Validate() = %v, want *ValidationError", err)
			}
			if verr.Path != tt.path || verr.Code != tt.code {
				t.Errorf("Validate() = %s/%v, want %s/%v", verr.Path, verr.Code, tt.path, tt.code)
			}
			if !errors.Is(err, ErrInvalidSetting) {
				t.Error("errors.Is(err, ErrInvalidSetting) = false")
			}
		})
	}
}

func TestDecode_IntFromFloat(t *testing.T) {
	m := Defaults()
	m["editor"].(map[string]any)["tabSize"] = 2.0
	s, err := decode(m)
	if err != nil || s.Editor.TabSize != 2 {
		t.Errorf("decode(tabSize=2.0) = %d, %v; want 2, nil", s.Editor.TabSize, err)
	}

	m["editor"].(map[string]any)["tabSize"] = 2.5
	if _, err := decode(m); !errors.Is(err, ErrTypeMismatch) {
		t.Errorf("decode(tabSize=2.5) error = %v, want ErrTypeMismatch", err)
	}
}

func TestResolvePath(t *testing.T) {
	got, err := ResolvePath("/etc/selshape.toml")
	if err != nil || got != "/etc/selshape.toml" {
		t.Errorf("ResolvePath(abs) = %q, %v", got, err)
	}
	got, err = ResolvePath(DefaultPath)
	if err != nil {
		t.Fatalf("ResolvePath(%q) error = %v", DefaultPath, err)
	}
	if filepath.Base(got) != "settings.toml" || got[0] == '~' {
		t.Errorf("ResolvePath(%q) = %q", DefaultPath, got)
	}
}
