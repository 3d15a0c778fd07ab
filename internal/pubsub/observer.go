package pubsub

import (
	"fmt"

	"github.com/zjrosen/swipe/internal/log"
)

// Observer listens for a single tag and forwards matching events to an
// optional callback. The callback may be set after construction and cleared
// again; an Observer without a callback silently drops events after logging a
// warning.
//
// Observer is not safe for concurrent use.
type Observer[K comparable, T any] struct {
	tag K
	fn  UpdateFunc[K, T]
}

// NewObserver creates an observer for tag. fn may be nil.
func NewObserver[K comparable, T any](tag K, fn UpdateFunc[K, T]) *Observer[K, T] {
	return &Observer[K, T]{tag: tag, fn: fn}
}

// Tag returns the tag this observer accepts.
func (o *Observer[K, T]) Tag() K {
	return o.tag
}

// SetCustomUpdate replaces the update callback.
func (o *Observer[K, T]) SetCustomUpdate(fn UpdateFunc[K, T]) {
	o.fn = fn
}

// UnsetCustomUpdate clears the update callback.
func (o *Observer[K, T]) UnsetCustomUpdate() {
	o.fn = nil
}

// HasCustomUpdate reports whether a callback is set.
func (o *Observer[K, T]) HasCustomUpdate() bool {
	return o.fn != nil
}

// update is called by the owning Observable during notification.
func (o *Observer[K, T]) update(ev Event[K, T]) error {
	if ev.Type != o.tag {
		return fmt.Errorf("%w: observer accepts %v, got %v", ErrTagMismatch, o.tag, ev.Type)
	}
	if o.fn == nil {
		log.Warn(log.CatPubSub, "observer has no update callback", "tag", o.tag)
		return nil
	}
	return o.fn(ev)
}
