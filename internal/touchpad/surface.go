// Package touchpad adapts terminal mouse input to the gesture.Surface contract.
//
// A left-button press is a touch-start, motion with the left button held is a
// touch-move and the release is a touch-end. Terminal cells are not square,
// so vertical motion is scaled by CellAspect before it reaches the recognizer.
package touchpad

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/zjrosen/swipe/internal/gesture"
	"github.com/zjrosen/swipe/internal/instruction"
)

// DefaultCellAspect approximates the height/width ratio of a terminal cell.
const DefaultCellAspect = 2.0

// Config configures a MouseSurface.
type Config struct {
	// CellWidth is the number of surface units per terminal column.
	// Default: 10
	CellWidth float64

	// CellAspect is the cell height divided by its width.
	// Default: DefaultCellAspect
	CellAspect float64

	// InBounds reports whether a press should start a touch. Nil accepts every press.
	InBounds func(msg tea.MouseMsg) bool
}

// MouseSurface implements gesture.Surface on top of tea.MouseMsg.
type MouseSurface struct {
	handlers   map[gesture.Signal]gesture.Handler
	cellWidth  float64
	cellAspect float64
	inBounds   func(msg tea.MouseMsg) bool
	pressed    bool
}

// NewMouseSurface creates a MouseSurface with the given configuration.
func NewMouseSurface(cfg Config) *MouseSurface {
	cellWidth := cfg.CellWidth
	if cellWidth <= 0 {
		cellWidth = 10
	}
	cellAspect := cfg.CellAspect
	if cellAspect <= 0 {
		cellAspect = DefaultCellAspect
	}
	return &MouseSurface{
		handlers:   make(map[gesture.Signal]gesture.Handler, 3),
		cellWidth:  cellWidth,
		cellAspect: cellAspect,
		inBounds:   cfg.InBounds,
	}
}

// Listen implements gesture.Surface.
func (s *MouseSurface) Listen(sig gesture.Signal, h gesture.Handler) {
	s.handlers[sig] = h
}

// Pressed reports whether a touch is in progress.
func (s *MouseSurface) Pressed() bool {
	return s.pressed
}

// ToPoint converts a terminal cell position to surface units.
func (s *MouseSurface) ToPoint(x, y int) instruction.Point {
	return instruction.Point{
		X: float64(x) * s.cellWidth,
		Y: float64(y) * s.cellWidth * s.cellAspect,
	}
}

// HandleMouse translates msg into a lifecycle signal and returns the error of
// the handler it reached, if any.
func (s *MouseSurface) HandleMouse(msg tea.MouseMsg) error {
	switch {
	case msg.Button == tea.MouseButtonLeft && msg.Action == tea.MouseActionPress:
		if s.inBounds != nil && !s.inBounds(msg) {
			return nil
		}
		s.pressed = true
		return s.emit(gesture.TouchStart, s.ToPoint(msg.X, msg.Y))

	case msg.Action == tea.MouseActionMotion && msg.Button == tea.MouseButtonLeft && s.pressed:
		return s.emit(gesture.TouchMove, s.ToPoint(msg.X, msg.Y))

	case msg.Action == tea.MouseActionRelease && s.pressed:
		// some terminals report the release with MouseButtonNone
		s.pressed = false
		return s.emit(gesture.TouchEnd, instruction.Point{})
	}
	return nil
}

// Drag runs a full press, move, release cycle from one cell to another without
// the bounds check. Keyboard shortcuts use it to synthesize gestures. A drag
// that starts and ends on the same cell has no move.
func (s *MouseSurface) Drag(x0, y0, x1, y1 int) error {
	s.pressed = true
	if err := s.emit(gesture.TouchStart, s.ToPoint(x0, y0)); err != nil {
		s.pressed = false
		return err
	}
	if x0 != x1 || y0 != y1 {
		if err := s.emit(gesture.TouchMove, s.ToPoint(x1, y1)); err != nil {
			s.pressed = false
			return err
		}
	}
	s.pressed = false
	return s.emit(gesture.TouchEnd, instruction.Point{})
}

// CellsFor returns the smallest column and row offsets whose displacement
// exceeds threshold.
func (s *MouseSurface) CellsFor(threshold float64) (cols, rows int) {
	cols = int(threshold/s.cellWidth) + 1
	rows = int(threshold/(s.cellWidth*s.cellAspect)) + 1
	return cols, rows
}

func (s *MouseSurface) emit(sig gesture.Signal, p instruction.Point) error {
	h, ok := s.handlers[sig]
	if !ok {
		return nil
	}
	return h(p)
}
