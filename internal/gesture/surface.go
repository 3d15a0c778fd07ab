package gesture

import "github.com/zjrosen/swipe/internal/instruction"

// Signal is one of the three touch lifecycle signals a surface delivers.
type Signal int

const (
	TouchStart Signal = iota
	TouchMove
	TouchEnd
)

func (s Signal) String() string {
	switch s {
	case TouchStart:
		return "touchstart"
	case TouchMove:
		return "touchmove"
	case TouchEnd:
		return "touchend"
	default:
		return "unknown"
	}
}

// Handler receives a lifecycle signal. Start and move carry the touch
// position; end carries the zero Point.
type Handler func(p instruction.Point) error

// Surface is anything that can deliver touch lifecycle signals.
// Listen replaces any handler previously registered for sig.
type Surface interface {
	Listen(sig Signal, h Handler)
}

// ManualSurface is a Surface driven by direct method calls.
type ManualSurface struct {
	handlers map[Signal]Handler
}

// NewManualSurface creates an empty ManualSurface.
func NewManualSurface() *ManualSurface {
	return &ManualSurface{handlers: make(map[Signal]Handler, 3)}
}

// Listen implements Surface.
func (s *ManualSurface) Listen(sig Signal, h Handler) {
	s.handlers[sig] = h
}

// Start delivers a touch-start at (x, y).
func (s *ManualSurface) Start(x, y float64) error {
	return s.emit(TouchStart, instruction.Point{X: x, Y: y})
}

// Move delivers a touch-move to (x, y).
func (s *ManualSurface) Move(x, y float64) error {
	return s.emit(TouchMove, instruction.Point{X: x, Y: y})
}

// End delivers a touch-end.
func (s *ManualSurface) End() error {
	return s.emit(TouchEnd, instruction.Point{})
}

// Emit delivers sig with p, returning the handler's error.
func (s *ManualSurface) Emit(sig Signal, p instruction.Point) error {
	return s.emit(sig, p)
}

func (s *ManualSurface) emit(sig Signal, p instruction.Point) error {
	h, ok := s.handlers[sig]
	if !ok {
		return nil
	}
	return h(p)
}
