// Package config loads selshape settings.
//
// Settings come from three layers, later layers overriding earlier ones:
//
//	┌─────────────────────────────┐
//	│  3. Environment (SELSHAPE_) │  ← Highest priority
//	├─────────────────────────────┤
//	│  2. Settings file           │  ← ~/.config/selshape/settings.toml
//	├─────────────────────────────┤
//	│  1. Built-in defaults       │  ← Lowest priority
//	└─────────────────────────────┘
//
// The merged map is decoded into a typed Settings snapshot and validated.
// Settings files may be TOML or YAML, chosen by extension:
//
//	# ~/.config/selshape/settings.toml
//	[editor]
//	roundedSelection = true
//	typicalHalfwidthCharacterWidth = 7.5
//	lineHeight = 20
//
//	[selection]
//	mode = "rounded"
//	color = "#264f78"
//
// Environment variables map to paths by section and camelCase name, so
// SELSHAPE_EDITOR_LINE_HEIGHT sets editor.lineHeight.
//
// Watch starts an fsnotify-backed watcher that reloads the file when it
// changes and notifies OnChange handlers with the new snapshot.
package config
