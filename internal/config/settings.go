package config

import (
	"fmt"
	"math"

	"github.com/dshills/selshape/internal/config/layer"
	"github.com/dshills/selshape/internal/renderer/core"
)

// Setting paths.
const (
	PathRoundedSelection = "editor.roundedSelection"
	PathCharWidth        = "editor.typicalHalfwidthCharacterWidth"
	PathLineHeight       = "editor.lineHeight"
	PathTabSize          = "editor.tabSize"
	PathWordWrapColumn   = "editor.wordWrapColumn"
	PathSelectionMode    = "selection.mode"
	PathSelectionColor   = "selection.color"
	PathBackground       = "selection.background"
	PathForeground       = "selection.foreground"
	PathLogLevel         = "logging.level"
)

// Selection modes.
const (
	ModeRounded = "rounded"
	ModeMarkers = "markers"
)

// Settings is a typed snapshot of the merged configuration.
type Settings struct {
	Editor    EditorSettings
	Selection SelectionSettings
	Logging   LoggingSettings
}

// EditorSettings holds text metrics and layout settings.
type EditorSettings struct {
	RoundedSelection               bool
	TypicalHalfwidthCharacterWidth float64
	LineHeight                     float64
	TabSize                        int
	// WordWrapColumn wraps lines at this column; 0 disables wrapping.
	WordWrapColumn int
}

// SelectionSettings holds selection drawing settings.
type SelectionSettings struct {
	Mode       string
	Color      string
	Background string
	Foreground string
}

// LoggingSettings holds logging settings.
type LoggingSettings struct {
	Level string
}

// Defaults returns the built-in configuration layer.
func Defaults() map[string]any {
	return map[string]any{
		"editor": map[string]any{
			"roundedSelection":               true,
			"typicalHalfwidthCharacterWidth": 8.0,
			"lineHeight":                     18.0,
			"tabSize":                        4,
			"wordWrapColumn":                 0,
		},
		"selection": map[string]any{
			"mode":       ModeRounded,
			"color":      "#264f78",
			"background": "#1e1e1e",
			"foreground": "#d4d4d4",
		},
		"logging": map[string]any{
			"level": "info",
		},
	}
}

// DefaultSettings returns the decoded built-in defaults.
func DefaultSettings() Settings {
	s, _ := decode(Defaults())
	return s
}

// decode converts a merged map into Settings.
func decode(m map[string]any) (Settings, error) {
	var s Settings
	var err error
	if s.Editor.RoundedSelection, err = getBool(m, PathRoundedSelection); err != nil {
		return s, err
	}
	if s.Editor.TypicalHalfwidthCharacterWidth, err = getFloat(m, PathCharWidth); err != nil {
		return s, err
	}
	if s.Editor.LineHeight, err = getFloat(m, PathLineHeight); err != nil {
		return s, err
	}
	if s.Editor.TabSize, err = getInt(m, PathTabSize); err != nil {
		return s, err
	}
	if s.Editor.WordWrapColumn, err = getInt(m, PathWordWrapColumn); err != nil {
		return s, err
	}
	if s.Selection.Mode, err = getString(m, PathSelectionMode); err != nil {
		return s, err
	}
	if s.Selection.Color, err = getString(m, PathSelectionColor); err != nil {
		return s, err
	}
	if s.Selection.Background, err = getString(m, PathBackground); err != nil {
		return s, err
	}
	if s.Selection.Foreground, err = getString(m, PathForeground); err != nil {
		return s, err
	}
	if s.Logging.Level, err = getString(m, PathLogLevel); err != nil {
		return s, err
	}
	return s, nil
}

// Validate checks setting values and returns the first *ValidationError.
func (s Settings) Validate() error {
	e := s.Editor
	if !(e.TypicalHalfwidthCharacterWidth > 0) || math.IsInf(e.TypicalHalfwidthCharacterWidth, 0) {
		return &ValidationError{Path: PathCharWidth, Message: "must be a positive number", Value: e.TypicalHalfwidthCharacterWidth, Code: ErrCodeOutOfRange}
	}
	if !(e.LineHeight > 0) || math.IsInf(e.LineHeight, 0) {
		return &ValidationError{Path: PathLineHeight, Message: "must be a positive number", Value: e.LineHeight, Code: ErrCodeOutOfRange}
	}
	if e.TabSize < 1 {
		return &ValidationError{Path: PathTabSize, Message: "must be at least 1", Value: e.TabSize, Code: ErrCodeOutOfRange}
	}
	if e.WordWrapColumn < 0 {
		return &ValidationError{Path: PathWordWrapColumn, Message: "must not be negative", Value: e.WordWrapColumn, Code: ErrCodeOutOfRange}
	}

	switch s.Selection.Mode {
	case ModeRounded, ModeMarkers:
	default:
		return &ValidationError{Path: PathSelectionMode, Message: "must be \"rounded\" or \"markers\"", Value: s.Selection.Mode, Code: ErrCodeInvalidEnum}
	}

	colors := []struct {
		path  string
		value string
	}{
		{PathSelectionColor, s.Selection.Color},
		{PathBackground, s.Selection.Background},
		{PathForeground, s.Selection.Foreground},
	}
	for _, c := range colors {
		if _, err := core.ColorFromHex(c.value); err != nil {
			return &ValidationError{Path: c.path, Message: "must be a #rgb or #rrggbb color", Value: c.value, Code: ErrCodeInvalidColor}
		}
	}

	switch s.Logging.Level {
	case "trace", "debug", "info", "warn", "warning", "error", "fatal", "panic":
	default:
		return &ValidationError{Path: PathLogLevel, Message: "unknown log level", Value: s.Logging.Level, Code: ErrCodeInvalidEnum}
	}
	return nil
}

func lookup(m map[string]any, path string) (any, error) {
	v, ok := layer.GetByPath(m, path)
	if !ok {
		return nil, fmt.Errorf("%s: %w", path, ErrSettingNotFound)
	}
	return v, nil
}

func getBool(m map[string]any, path string) (bool, error) {
	v, err := lookup(m, path)
	if err != nil {
		return false, err
	}
	b, ok := v.(bool)
	if !ok {
		return false, &TypeError{Path: path, Expected: "bool", Actual: typeName(v)}
	}
	return b, nil
}

func getString(m map[string]any, path string) (string, error) {
	v, err := lookup(m, path)
	if err != nil {
		return "", err
	}
	s, ok := v.(string)
	if !ok {
		return "", &TypeError{Path: path, Expected: "string", Actual: typeName(v)}
	}
	return s, nil
}

func getInt(m map[string]any, path string) (int, error) {
	v, err := lookup(m, path)
	if err != nil {
		return 0, err
	}
	switch val := v.(type) {
	case int:
		return val, nil
	case int64:
		return int(val), nil
	case uint64:
		return int(val), nil
	case float64:
		if val != math.Trunc(val) {
			return 0, &TypeError{Path: path, Expected: "int", Actual: "fractional float64"}
		}
		return int(val), nil
	default:
		return 0, &TypeError{Path: path, Expected: "int", Actual: typeName(v)}
	}
}

func getFloat(m map[string]any, path string) (float64, error) {
	v, err := lookup(m, path)
	if err != nil {
		return 0, err
	}
	switch val := v.(type) {
	case float64:
		return val, nil
	case float32:
		return float64(val), nil
	case int:
		return float64(val), nil
	case int64:
		return float64(val), nil
	case uint64:
		return float64(val), nil
	default:
		return 0, &TypeError{Path: path, Expected: "float64", Actual: typeName(v)}
	}
}
