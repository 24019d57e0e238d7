// Package selection computes the shape of selection highlights.
//
// A selection projects to one pixel range per rendered line. When rounded
// selections are enabled, each corner of each line's range is classified as
// rounded outward (EXTERN), notched inward (INTERN) or flush with the
// neighboring line (FLAT), and the classified lines are turned into an
// ordered list of draw pieces for a paint backend.
//
// Per frame:
//
//	selections ─► GeometryAdapter ─► HasGaps ─► Classifier ─► EmitPieces ─► pieces
//	                                               ▲
//	                                   Stabilizer (previous frame)
//
// Lines at the very top or bottom of the viewport have no visible neighbor,
// so the classifier reuses the previous frame's styles for them. Without that
// the corner at the viewport edge would flip each time the view scrolls.
//
// Overlay wires these steps together and exposes the per-frame Prepare and
// per-line Render entry points.
package selection
