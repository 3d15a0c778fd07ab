package pubsub

import (
	"cmp"
	"fmt"
	"slices"
	"sync"

	"github.com/zjrosen/swipe/internal/log"
)

// Observable keeps an ordered subscriber list for each of a fixed set of tags.
// Insertion order is notification order and the same observer may be
// subscribed more than once.
type Observable[K cmp.Ordered, T any] struct {
	mu   sync.RWMutex
	subs map[K][]*Observer[K, T]
}

// NewObservable creates an observable accepting exactly the given tags.
// Each tag starts with an empty subscriber list.
func NewObservable[K cmp.Ordered, T any](tags ...K) *Observable[K, T] {
	subs := make(map[K][]*Observer[K, T], len(tags))
	for _, tag := range tags {
		subs[tag] = []*Observer[K, T]{}
	}
	return &Observable[K, T]{subs: subs}
}

// Accepts reports whether tag is in the accepted set.
func (o *Observable[K, T]) Accepts(tag K) bool {
	o.mu.RLock()
	defer o.mu.RUnlock()
	_, ok := o.subs[tag]
	return ok
}

// AcceptedEventTypes returns the accepted tags in sorted order.
func (o *Observable[K, T]) AcceptedEventTypes() []K {
	o.mu.RLock()
	defer o.mu.RUnlock()

	tags := make([]K, 0, len(o.subs))
	for tag := range o.subs {
		tags = append(tags, tag)
	}
	slices.Sort(tags)
	return tags
}

// SubscriberCount returns the number of subscriptions for tag, counting duplicates.
func (o *Observable[K, T]) SubscriberCount(tag K) int {
	o.mu.RLock()
	defer o.mu.RUnlock()
	return len(o.subs[tag])
}

// Subscribe appends obs to the subscriber list of tag.
func (o *Observable[K, T]) Subscribe(tag K, obs *Observer[K, T]) error {
	o.mu.Lock()
	defer o.mu.Unlock()

	list, ok := o.subs[tag]
	if !ok {
		return fmt.Errorf("%w: subscribe %v", ErrUnacceptedEventType, tag)
	}
	o.subs[tag] = append(list, obs)
	log.Debug(log.CatPubSub, "subscribed", "tag", tag, "count", len(o.subs[tag]))
	return nil
}

// Unsubscribe removes the first subscription of obs from tag's list.
// Observers are matched by pointer identity.
func (o *Observable[K, T]) Unsubscribe(tag K, obs *Observer[K, T]) error {
	o.mu.Lock()
	defer o.mu.Unlock()

	list, ok := o.subs[tag]
	if !ok {
		return fmt.Errorf("%w: unsubscribe %v", ErrUnacceptedEventType, tag)
	}
	if len(list) == 0 {
		return fmt.Errorf("%w: unsubscribe %v", ErrNoSubscribers, tag)
	}

	idx := slices.Index(list, obs)
	if idx < 0 {
		return fmt.Errorf("%w: unsubscribe %v", ErrObserverNotFound, tag)
	}
	o.subs[tag] = slices.Delete(list, idx, idx+1)
	log.Debug(log.CatPubSub, "unsubscribed", "tag", tag, "count", len(o.subs[tag]))
	return nil
}

// NotifyAllSubscribers delivers Event{tag, data} to every observer of tag in
// subscription order. The list is snapshotted first, so observers may
// (un)subscribe from inside a callback; the change applies to the next call.
// The first observer error stops delivery and is returned.
func (o *Observable[K, T]) NotifyAllSubscribers(tag K, data T) error {
	o.mu.RLock()
	list, ok := o.subs[tag]
	snapshot := slices.Clone(list)
	o.mu.RUnlock()

	if !ok {
		return fmt.Errorf("%w: notify %v", ErrUnacceptedEventType, tag)
	}
	if len(snapshot) == 0 {
		return fmt.Errorf("%w: notify %v", ErrNoSubscribers, tag)
	}

	ev := Event[K, T]{Type: tag, Data: data}
	for i, obs := range snapshot {
		if err := obs.update(ev); err != nil {
			log.Debug(log.CatPubSub, "notification aborted", "tag", tag, "observer", i, "error", err)
			return err
		}
	}
	return nil
}
