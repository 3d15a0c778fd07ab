// Package history keeps a short-lived record of recognized gestures.
package history

import (
	"errors"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"
	gocache "github.com/patrickmn/go-cache"

	"github.com/zjrosen/swipe/internal/instruction"
	"github.com/zjrosen/swipe/internal/log"
	"github.com/zjrosen/swipe/internal/pubsub"
)

const (
	DefaultTTL             = 10 * time.Minute
	DefaultCleanupInterval = 30 * time.Minute
)

// Entry is one recognized gesture.
type Entry struct {
	ID          string
	Instruction instruction.Instruction
	State       instruction.TouchState
	At          time.Time
}

// Target is where a Recorder attaches its observers. Both *gesture.Recognizer
// and *instruction.Observable satisfy it.
type Target = pubsub.Subscriber[instruction.Instruction, instruction.TouchState]

// Recorder stores every instruction it observes for a limited time.
type Recorder struct {
	cache *gocache.Cache
	ttl   time.Duration
	now   func() time.Time

	mu        sync.Mutex
	counts    map[instruction.Instruction]int
	target    Target
	observers map[instruction.Instruction]*instruction.Observer
}

// NewRecorder creates a recorder whose entries expire after ttl.
func NewRecorder(ttl, cleanupInterval time.Duration) *Recorder {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Recorder{
		cache:  gocache.New(ttl, cleanupInterval),
		ttl:    ttl,
		now:    time.Now,
		counts: make(map[instruction.Instruction]int),
	}
}

// Attach subscribes the recorder to every instruction on target.
func (r *Recorder) Attach(target Target) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.target != nil {
		return errors.New("recorder already attached")
	}

	observers := make(map[instruction.Instruction]*instruction.Observer, 5)
	for _, tag := range instruction.All() {
		obs := instruction.NewObserver(tag, r.Record)
		if err := target.Subscribe(tag, obs); err != nil {
			for t, o := range observers {
				_ = target.Unsubscribe(t, o)
			}
			return err
		}
		observers[tag] = obs
	}
	r.target = target
	r.observers = observers
	return nil
}

// Detach removes the observers added by Attach.
func (r *Recorder) Detach() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.target == nil {
		return nil
	}
	var errs []error
	for tag, obs := range r.observers {
		if err := r.target.Unsubscribe(tag, obs); err != nil {
			errs = append(errs, err)
		}
	}
	r.target = nil
	r.observers = nil
	return errors.Join(errs...)
}

// Record stores ev. It is the update callback of the attached observers and
// never fails.
func (r *Recorder) Record(ev instruction.Event) error {
	entry := Entry{
		ID:          uuid.NewString(),
		Instruction: ev.Type,
		State:       ev.Data,
		At:          r.now(),
	}
	r.cache.Set(entry.ID, entry, r.ttl)

	r.mu.Lock()
	r.counts[ev.Type]++
	r.mu.Unlock()

	log.Debug(log.CatHistory, "recorded", "id", entry.ID, "instruction", entry.Instruction)
	return nil
}

// Recent returns up to limit unexpired entries, newest first.
// A non-positive limit returns all of them.
func (r *Recorder) Recent(limit int) []Entry {
	items := r.cache.Items()
	entries := make([]Entry, 0, len(items))
	for key, item := range items {
		entry, ok := item.Object.(Entry)
		if !ok {
			log.Error(log.CatHistory, "wrong type assertion when reading entry", "key", key)
			continue
		}
		entries = append(entries, entry)
	}

	slices.SortFunc(entries, func(a, b Entry) int {
		if c := b.At.Compare(a.At); c != 0 {
			return c
		}
		if a.ID < b.ID {
			return -1
		}
		if a.ID > b.ID {
			return 1
		}
		return 0
	})

	if limit > 0 && len(entries) > limit {
		entries = entries[:limit]
	}
	return entries
}

// Counts returns how many times each instruction was recorded since the
// last Clear, including entries that have since expired.
func (r *Recorder) Counts() map[instruction.Instruction]int {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make(map[instruction.Instruction]int, len(r.counts))
	for k, v := range r.counts {
		out[k] = v
	}
	return out
}

// Clear drops all entries and counts.
func (r *Recorder) Clear() {
	r.cache.Flush()

	r.mu.Lock()
	r.counts = make(map[instruction.Instruction]int)
	r.mu.Unlock()
}
