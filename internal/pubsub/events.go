// Package pubsub provides a generic, synchronous observer/observable pair.
//
// An Observable accepts a fixed set of event tags and keeps an ordered list of
// Observers per tag. Notifications run on the caller's goroutine, in
// subscription order.
package pubsub

import "errors"

var (
	// ErrUnacceptedEventType is returned when a tag is not in the Observable's accepted set.
	ErrUnacceptedEventType = errors.New("unaccepted event type")
	// ErrNoSubscribers is returned when notifying or unsubscribing on a tag with an empty list.
	ErrNoSubscribers = errors.New("no subscribers")
	// ErrObserverNotFound is returned when Unsubscribe cannot find the observer.
	ErrObserverNotFound = errors.New("observer not found")
	// ErrTagMismatch means an Observer received an event for a tag it does not accept.
	// It indicates a wiring defect, never a runtime condition.
	ErrTagMismatch = errors.New("event tag mismatch")
)

// Event is the payload handed to an Observer's update callback.
type Event[K comparable, T any] struct {
	Type K
	Data T
}

// UpdateFunc is an Observer callback. A non-nil error aborts the remaining
// notifications of the current NotifyAllSubscribers call.
type UpdateFunc[K comparable, T any] func(Event[K, T]) error

// Subscriber registers observers for a tag.
type Subscriber[K comparable, T any] interface {
	Subscribe(tag K, obs *Observer[K, T]) error
	Unsubscribe(tag K, obs *Observer[K, T]) error
}

// Publisher notifies every observer of a tag.
type Publisher[K comparable, T any] interface {
	NotifyAllSubscribers(tag K, data T) error
}
