package events

import (
	"github.com/dshills/selshape/internal/event/topic"
	"github.com/dshills/selshape/internal/renderer/core"
)

// Cursor event topics.
const (
	// TopicSelectionsChanged is published when the set of selections changes.
	TopicSelectionsChanged topic.Topic = "cursor.selection.changed"
)

// SelectionsChanged carries the full selection snapshot, primary first.
type SelectionsChanged struct {
	Selections []core.Selection
}
