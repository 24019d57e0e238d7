package events

import (
	"github.com/dshills/selshape/internal/event/topic"
	"github.com/dshills/selshape/internal/renderer/selection"
)

// Renderer event topics.
const (
	// TopicFrameRendered is published after a frame has been painted.
	TopicFrameRendered topic.Topic = "renderer.frame.rendered"
)

// FrameRendered carries the statistics of the prepared selection frame.
type FrameRendered struct {
	Stats selection.FrameStats
}
