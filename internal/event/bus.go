package event

import (
	"context"
	"errors"
	"sort"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"

	"github.com/dshills/selshape/internal/event/topic"
)

// PanicHandler is called with the event and the recovered value when a
// handler panics.
type PanicHandler func(event any, recovered any)

// BusOption configures a Bus.
type BusOption func(*Bus)

// WithPanicHandler sets a callback for recovered handler panics.
func WithPanicHandler(h PanicHandler) BusOption {
	return func(b *Bus) {
		b.panicHandler = h
	}
}

// Bus delivers events to subscriptions whose pattern matches the event topic.
// It is safe for concurrent use; handlers may subscribe and publish.
type Bus struct {
	mu      sync.RWMutex
	subs    map[string]*subscription
	nextSeq uint64

	running      atomic.Bool
	panicHandler PanicHandler

	eventsPublished  atomic.Uint64
	handlersExecuted atomic.Uint64
	handlerErrors    atomic.Uint64
	handlerPanics    atomic.Uint64
}

// NewBus creates a stopped bus.
func NewBus(opts ...BusOption) *Bus {
	b := &Bus{subs: make(map[string]*subscription)}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Start starts the event bus.
func (b *Bus) Start() error {
	if b.running.Swap(true) {
		return ErrBusAlreadyRunning
	}
	return nil
}

// Stop stops the event bus. Subscriptions are kept.
func (b *Bus) Stop() error {
	if !b.running.Swap(false) {
		return ErrBusNotRunning
	}
	return nil
}

// IsRunning returns true if the bus is running.
func (b *Bus) IsRunning() bool {
	return b.running.Load()
}

// Subscribe registers handler for events whose topic matches topicPattern.
func (b *Bus) Subscribe(topicPattern topic.Topic, handler Handler, opts ...SubscriptionOption) (Subscription, error) {
	if handler == nil {
		return nil, ErrNilHandler
	}
	if !topicPattern.IsValid() {
		return nil, ErrInvalidTopic
	}

	cfg := SubscriptionConfig{Priority: PriorityNormal}
	for _, opt := range opts {
		opt(&cfg)
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	b.nextSeq++
	sub := &subscription{
		id:      uuid.NewString(),
		topic:   topicPattern,
		handler: handler,
		config:  cfg,
		seq:     b.nextSeq,
	}
	b.subs[sub.id] = sub
	return sub, nil
}

// SubscribeFunc is a convenience method for subscribing with a function.
func (b *Bus) SubscribeFunc(topicPattern topic.Topic, fn HandlerFunc, opts ...SubscriptionOption) (Subscription, error) {
	return b.Subscribe(topicPattern, fn, opts...)
}

// SubscribePayload subscribes a handler that receives only the payload of
// Event[T] values.
func SubscribePayload[T any](b *Bus, topicPattern topic.Topic, fn func(ctx context.Context, payload T) error, opts ...SubscriptionOption) (Subscription, error) {
	return b.Subscribe(topicPattern, AsHandler[T](func(ctx context.Context, e Event[T]) error {
		return fn(ctx, e.Payload)
	}), opts...)
}

// Unsubscribe cancels and removes a subscription.
func (b *Bus) Unsubscribe(sub Subscription) error {
	if sub == nil {
		return ErrSubscriptionNotFound
	}
	sub.Cancel()

	b.mu.Lock()
	defer b.mu.Unlock()
	if _, ok := b.subs[sub.ID()]; !ok {
		return ErrSubscriptionNotFound
	}
	delete(b.subs, sub.ID())
	return nil
}

// Publish delivers event synchronously to every matching subscription.
// The event must implement TopicProvider. All handlers run even when one
// fails; their errors are joined.
func (b *Bus) Publish(ctx context.Context, event any) error {
	if !b.running.Load() {
		return ErrBusNotRunning
	}
	tp, ok := event.(TopicProvider)
	if !ok || tp.EventTopic() == "" {
		return ErrInvalidEvent
	}
	eventTopic := tp.EventTopic()

	subs := b.match(eventTopic)
	if len(subs) == 0 {
		return nil
	}
	b.eventsPublished.Add(1)

	var errs []error
	for _, sub := range subs {
		if !sub.IsActive() {
			continue
		}
		if err := ctx.Err(); err != nil {
			errs = append(errs, err)
			break
		}
		err := b.deliver(ctx, sub, eventTopic, event)
		b.handlersExecuted.Add(1)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		if sub.config.Once {
			_ = b.Unsubscribe(sub)
		}
	}
	return errors.Join(errs...)
}

// PublishEvent creates an Event[T] from source and publishes it.
func PublishEvent[T any](ctx context.Context, b *Bus, eventType topic.Topic, payload T, source string) error {
	return b.Publish(ctx, NewEvent(eventType, payload, source))
}

func (b *Bus) deliver(ctx context.Context, sub *subscription, eventTopic topic.Topic, event any) (err error) {
	defer func() {
		if r := recover(); r != nil {
			b.handlerPanics.Add(1)
			if b.panicHandler != nil {
				b.panicHandler(event, r)
			}
			err = &PanicError{SubscriptionID: sub.id, Topic: eventTopic.String(), Value: r}
		}
	}()

	if herr := sub.handler.Handle(ctx, event); herr != nil {
		b.handlerErrors.Add(1)
		return &HandlerError{SubscriptionID: sub.id, Topic: eventTopic.String(), Err: herr}
	}
	return nil
}

// match returns the active subscriptions for eventTopic in delivery order.
func (b *Bus) match(eventTopic topic.Topic) []*subscription {
	b.mu.RLock()
	var subs []*subscription
	for _, sub := range b.subs {
		if sub.IsActive() && eventTopic.Matches(sub.topic) {
			subs = append(subs, sub)
		}
	}
	b.mu.RUnlock()

	sort.Slice(subs, func(i, j int) bool {
		if subs[i].config.Priority != subs[j].config.Priority {
			return subs[i].config.Priority < subs[j].config.Priority
		}
		return subs[i].seq < subs[j].seq
	})
	return subs
}

// Stats returns current bus statistics.
func (b *Bus) Stats() Stats {
	b.mu.RLock()
	active := 0
	for _, sub := range b.subs {
		if sub.IsActive() {
			active++
		}
	}
	b.mu.RUnlock()

	return Stats{
		EventsPublished:   b.eventsPublished.Load(),
		HandlersExecuted:  b.handlersExecuted.Load(),
		HandlerErrors:     b.handlerErrors.Load(),
		HandlerPanics:     b.handlerPanics.Load(),
		ActiveSubscribers: active,
	}
}
