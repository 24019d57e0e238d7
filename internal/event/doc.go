// Package event provides the in-process event bus that connects selection
// changes and configuration reloads to the renderer.
//
// Publishers wrap payloads in Event[T] with a topic from the events
// package; subscribers register a handler for a topic pattern:
//
//	bus := event.NewBus()
//	_ = bus.Start()
//
//	_, _ = event.SubscribePayload(bus, events.TopicSelectionsChanged,
//	    func(ctx context.Context, p events.SelectionsChanged) error {
//	        overlay.SetSelections(p.Selections)
//	        return nil
//	    })
//
//	_ = event.PublishEvent(ctx, bus, events.TopicSelectionsChanged, payload, "cursor")
//
// Delivery is synchronous in the publisher's goroutine, ordered by
// subscription priority and then by subscription order. Handler errors are
// joined and returned from Publish; handler panics are recovered and
// reported as *PanicError.
package event
