// Package gesture turns touch lifecycle signals into instructions.
//
// A Recognizer binds to a Surface, tracks one touch at a time and, on
// touch-end, classifies the displacement into one of the five instructions
// and notifies the observer registered for it.
package gesture

import (
	"context"
	"errors"
	"fmt"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"

	"github.com/zjrosen/swipe/internal/instruction"
	"github.com/zjrosen/swipe/internal/log"
)

var (
	// ErrUnknownInstruction is returned by listener methods for tags outside the five instructions.
	ErrUnknownInstruction = errors.New("unknown instruction")
	// ErrInvalidThreshold is returned for thresholds that are not positive.
	ErrInvalidThreshold = errors.New("threshold must be positive")
)

// Option configures a Recognizer.
type Option func(*Recognizer)

// WithThreshold overrides DefaultThreshold. Non-positive values are ignored.
func WithThreshold(t float64) Option {
	return func(r *Recognizer) {
		if t > 0 {
			r.threshold = t
		}
	}
}

// WithTracer records a span for every classified gesture.
func WithTracer(tracer trace.Tracer) Option {
	return func(r *Recognizer) {
		if tracer != nil {
			r.tracer = tracer
		}
	}
}

// Recognizer classifies touches delivered by a Surface.
//
// It is not safe for concurrent use: all surface signals and listener calls
// must come from the same goroutine.
type Recognizer struct {
	observable *instruction.Observable
	observers  map[instruction.Instruction]*instruction.Observer
	threshold  float64
	tracer     trace.Tracer

	state    instruction.TouchState
	touching bool
}

// New creates a Recognizer listening on surface.
func New(surface Surface, opts ...Option) *Recognizer {
	r := &Recognizer{
		observable: instruction.NewObservable(),
		observers:  make(map[instruction.Instruction]*instruction.Observer, 5),
		threshold:  DefaultThreshold,
		tracer:     noop.NewTracerProvider().Tracer("gesture"),
	}
	for _, opt := range opts {
		opt(r)
	}

	for _, tag := range instruction.All() {
		obs := instruction.NewObserver(tag, nil)
		r.observers[tag] = obs
		// every tag is in the accepted set, Subscribe cannot fail here
		_ = r.observable.Subscribe(tag, obs)
	}

	surface.Listen(TouchStart, r.touchStart)
	surface.Listen(TouchMove, r.touchMove)
	surface.Listen(TouchEnd, r.touchEnd)

	return r
}

// On sets the callback for tag, replacing any previous one.
func (r *Recognizer) On(tag instruction.Instruction, fn instruction.UpdateFunc) error {
	obs, ok := r.observers[tag]
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownInstruction, tag)
	}
	obs.SetCustomUpdate(fn)
	return nil
}

// AddEventListener is an alias for On.
func (r *Recognizer) AddEventListener(tag instruction.Instruction, fn instruction.UpdateFunc) error {
	return r.On(tag, fn)
}

// RemoveEventListener clears the callback for tag. Later gestures of that
// kind only produce a warning in the log.
func (r *Recognizer) RemoveEventListener(tag instruction.Instruction) error {
	obs, ok := r.observers[tag]
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownInstruction, tag)
	}
	obs.UnsetCustomUpdate()
	return nil
}

// Subscribe adds an extra observer for tag next to the built-in one.
func (r *Recognizer) Subscribe(tag instruction.Instruction, obs *instruction.Observer) error {
	return r.observable.Subscribe(tag, obs)
}

// Unsubscribe removes an observer added with Subscribe.
func (r *Recognizer) Unsubscribe(tag instruction.Instruction, obs *instruction.Observer) error {
	return r.observable.Unsubscribe(tag, obs)
}

// Threshold returns the current slide threshold.
func (r *Recognizer) Threshold() float64 {
	return r.threshold
}

// SetThreshold changes the slide threshold for subsequent gestures.
func (r *Recognizer) SetThreshold(t float64) error {
	if t <= 0 {
		return fmt.Errorf("%w: %v", ErrInvalidThreshold, t)
	}
	r.threshold = t
	log.Info(log.CatGesture, "threshold changed", "threshold", t)
	return nil
}

// State returns the current touch state and whether a touch is in progress.
func (r *Recognizer) State() (instruction.TouchState, bool) {
	return r.state, r.touching
}

func (r *Recognizer) touchStart(p instruction.Point) error {
	// a new cycle never inherits the previous gesture's positions
	r.state = instruction.TouchState{Start: p, Last: p}
	r.touching = true
	log.Debug(log.CatGesture, "touch start", "x", p.X, "y", p.Y)
	return nil
}

func (r *Recognizer) touchMove(p instruction.Point) error {
	if !r.touching {
		return nil
	}
	r.state.Last = p
	r.state.Moved = true
	return nil
}

func (r *Recognizer) touchEnd(instruction.Point) error {
	if !r.touching {
		log.Debug(log.CatGesture, "touch end without start")
		return nil
	}
	state := r.state
	r.touching = false

	tag := Classify(state, r.threshold)
	dx, dy := state.Delta()

	_, span := r.tracer.Start(context.Background(), "gesture.classify",
		trace.WithAttributes(
			attribute.String("gesture.instruction", string(tag)),
			attribute.Float64("gesture.dx", dx),
			attribute.Float64("gesture.dy", dy),
			attribute.Bool("gesture.moved", state.Moved),
			attribute.Float64("gesture.threshold", r.threshold),
		))
	defer span.End()

	log.Debug(log.CatGesture, "classified", "instruction", tag, "dx", dx, "dy", dy, "moved", state.Moved)

	if err := r.observable.NotifyAllSubscribers(tag, state); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		log.ErrorErr(log.CatGesture, "notify failed", err, "instruction", tag)
		return err
	}
	return nil
}
