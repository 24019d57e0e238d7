package events

import (
	"github.com/dshills/selshape/internal/config"
	"github.com/dshills/selshape/internal/event/topic"
)

// Config event topics.
const (
	// TopicConfigChanged is published after settings are reloaded or overridden.
	TopicConfigChanged topic.Topic = "config.changed"

	// TopicConfigReloadFailed is published when a live reload is rejected.
	TopicConfigReloadFailed topic.Topic = "config.reload.failed"
)

// ConfigChanged carries the new settings and the paths that changed.
type ConfigChanged struct {
	Settings config.Settings
	Changed  []string
}

// ConfigReloadFailed carries the error that kept the previous settings.
type ConfigReloadFailed struct {
	Err error
}
