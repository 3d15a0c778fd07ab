// Package instruction defines the five gesture instructions and the observer
// types specialised to them.
package instruction

import (
	"fmt"

	"github.com/zjrosen/swipe/internal/pubsub"
)

// Instruction is a classified gesture.
type Instruction string

const (
	SlideLeft   Instruction = "slide_left"
	SlideRight  Instruction = "slide_right"
	SlideUp     Instruction = "slide_up"
	SlideDown   Instruction = "slide_down"
	SingleTouch Instruction = "single_touch"
)

// All returns every instruction in classification priority order.
func All() []Instruction {
	return []Instruction{SlideLeft, SlideRight, SlideUp, SlideDown, SingleTouch}
}

// Valid reports whether i is one of the five instructions.
func (i Instruction) Valid() bool {
	switch i {
	case SlideLeft, SlideRight, SlideUp, SlideDown, SingleTouch:
		return true
	}
	return false
}

// Parse converts a tag such as "slide_left" into an Instruction.
func Parse(s string) (Instruction, error) {
	i := Instruction(s)
	if !i.Valid() {
		return "", fmt.Errorf("unknown instruction %q", s)
	}
	return i, nil
}

// Arrow returns a one-rune glyph for display.
func (i Instruction) Arrow() string {
	switch i {
	case SlideLeft:
		return "←"
	case SlideRight:
		return "→"
	case SlideUp:
		return "↑"
	case SlideDown:
		return "↓"
	case SingleTouch:
		return "•"
	}
	return "?"
}

// Point is a position in the surface's coordinate system.
type Point struct {
	X float64 `yaml:"x"`
	Y float64 `yaml:"y"`
}

// TouchState is the per-gesture record kept by a recognizer.
type TouchState struct {
	Start Point
	Last  Point
	Moved bool
}

// Delta returns the displacement from the last position back to the start:
// positive dx means the touch travelled left, positive dy means up.
func (s TouchState) Delta() (dx, dy float64) {
	return s.Start.X - s.Last.X, s.Start.Y - s.Last.Y
}

type (
	Event      = pubsub.Event[Instruction, TouchState]
	UpdateFunc = pubsub.UpdateFunc[Instruction, TouchState]
	Observer   = pubsub.Observer[Instruction, TouchState]
	Observable = pubsub.Observable[Instruction, TouchState]
)

// NewObservable returns an observable that accepts exactly the five instructions.
func NewObservable() *Observable {
	return pubsub.NewObservable[Instruction, TouchState](All()...)
}

// NewObserver returns an observer for a single instruction.
func NewObserver(tag Instruction, fn UpdateFunc) *Observer {
	return pubsub.NewObserver(tag, fn)
}
