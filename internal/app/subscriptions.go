package app

import (
	"context"
	"strings"
	"sync"

	"github.com/dshills/selshape/internal/config"
	"github.com/dshills/selshape/internal/event"
	"github.com/dshills/selshape/internal/event/events"
	"github.com/dshills/selshape/internal/event/topic"
	"github.com/dshills/selshape/internal/renderer/core"
)

const eventSource = "app"

// subscriptionManager connects component callbacks to the event bus and
// keeps the subscriptions so they can be cancelled on shutdown.
type subscriptionManager struct {
	mu   sync.Mutex
	app  *App
	subs []event.Subscription
}

func newSubscriptionManager(a *App) *subscriptionManager {
	return &subscriptionManager{app: a}
}

// setup publishes selection and config changes on the bus and subscribes
// the handlers that react to them.
func (m *subscriptionManager) setup() error {
	a := m.app

	a.selections.OnChange(func(selections []core.Selection) {
		publish(a, events.TopicSelectionsChanged, events.SelectionsChanged{Selections: selections})
	})
	a.config.OnChange(func(s config.Settings, changed []string) {
		publish(a, events.TopicConfigChanged, events.ConfigChanged{Settings: s, Changed: changed})
	})
	a.config.OnError(func(err error) {
		publish(a, events.TopicConfigReloadFailed, events.ConfigReloadFailed{Err: err})
	})

	// The overlay owns selection state and must see changes before anyone
	// else renders.
	if err := m.add(event.SubscribePayload(a.bus, events.TopicSelectionsChanged,
		func(_ context.Context, p events.SelectionsChanged) error {
			a.overlay.SetSelections(p.Selections)
			return nil
		}, event.WithPriority(event.PriorityCritical))); err != nil {
		return err
	}

	if err := m.add(event.SubscribePayload(a.bus, events.TopicConfigChanged,
		func(_ context.Context, p events.ConfigChanged) error {
			a.applySettings(p.Settings)
			a.logger.WithComponent("config").Info("settings changed: %s", strings.Join(p.Changed, ", "))
			return nil
		}, event.WithPriority(event.PriorityCritical))); err != nil {
		return err
	}

	if err := m.add(event.SubscribePayload(a.bus, events.TopicConfigReloadFailed,
		func(_ context.Context, p events.ConfigReloadFailed) error {
			a.logger.WithComponent("config").WithError(p.Err).Warn("reload rejected, keeping previous settings")
			return nil
		}, event.WithPriority(event.PriorityLow))); err != nil {
		return err
	}

	return m.add(event.SubscribePayload(a.bus, events.TopicFrameRendered,
		func(_ context.Context, p events.FrameRendered) error {
			a.logger.WithComponent("renderer").WithFields(map[string]any{
				"selections": p.Stats.Selections,
				"gapped":     p.Stats.Gapped,
				"pieces":     p.Stats.Pieces,
			}).Debug("frame rendered")
			return nil
		}, event.WithPriority(event.PriorityLow)))
}

func (m *subscriptionManager) add(sub event.Subscription, err error) error {
	if err != nil {
		return err
	}
	m.mu.Lock()
	m.subs = append(m.subs, sub)
	m.mu.Unlock()
	return nil
}

// publish sends payload as an Event[T] so typed subscribers receive it.
func publish[T any](a *App, t topic.Topic, payload T) {
	if err := event.PublishEvent(context.Background(), a.bus, t, payload, eventSource); err != nil {
		a.logger.WithComponent("event").WithError(err).Warn("publish %s failed", t)
	}
}

// cleanup cancels every subscription.
func (m *subscriptionManager) cleanup() {
	m.mu.Lock()
	subs := m.subs
	m.subs = nil
	m.mu.Unlock()

	for _, sub := range subs {
		_ = m.app.bus.Unsubscribe(sub)
	}
}
