// Package topic provides dot-separated event topics and wildcard patterns.
//
// Two wildcards are supported in patterns:
//
//   - "*" matches exactly one segment
//   - "**" matches zero or more segments
//
// Examples:
//
//	cursor.*              matches cursor.moved (not cursor.selection.changed)
//	cursor.**             matches cursor.moved, cursor.selection.changed
//	*.changed             matches config.changed
//	**                    matches everything
package topic
