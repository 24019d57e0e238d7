// Package core provides shared types for the renderer subsystem.
// It holds the color model and the pixel/line geometry exchanged between the
// layout engine, the selection overlay and the paint backends, and exists so
// those packages can depend on each other's data without import cycles.
package core
