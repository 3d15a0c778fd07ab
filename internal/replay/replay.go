// Package replay feeds recorded touch traces through a gesture recognizer.
package replay

import (
	"errors"
	"fmt"
	"io"
	"os"

	"go.opentelemetry.io/otel/trace"
	"gopkg.in/yaml.v3"

	"github.com/zjrosen/swipe/internal/gesture"
	"github.com/zjrosen/swipe/internal/instruction"
	"github.com/zjrosen/swipe/internal/log"
)

// ErrUnknownEventType is returned for trace steps other than start, move and end.
var ErrUnknownEventType = errors.New("unknown event type")

// Step is one touch signal in a trace.
type Step struct {
	Type string  `yaml:"type"` // start, move or end
	X    float64 `yaml:"x"`
	Y    float64 `yaml:"y"`
}

// Gesture is a named sequence of steps.
type Gesture struct {
	Name   string `yaml:"name"`
	Events []Step `yaml:"events"`
}

// Trace is the file format read by Load.
type Trace struct {
	Gestures []Gesture `yaml:"gestures"`
}

// Result is one classified touch-end.
type Result struct {
	Name        string
	Instruction instruction.Instruction
	DX, DY      float64
}

func (r Result) String() string {
	return fmt.Sprintf("%s\t%s\tdx=%g dy=%g", r.Name, r.Instruction, r.DX, r.DY)
}

// Parse decodes a trace and checks every step type.
func Parse(r io.Reader) (Trace, error) {
	var t Trace
	if err := yaml.NewDecoder(r).Decode(&t); err != nil {
		if errors.Is(err, io.EOF) {
			return Trace{}, nil
		}
		return Trace{}, fmt.Errorf("decoding trace: %w", err)
	}
	for _, g := range t.Gestures {
		for i, step := range g.Events {
			if _, ok := signals[step.Type]; !ok {
				return Trace{}, fmt.Errorf("gesture %q event %d: %w %q", g.Name, i, ErrUnknownEventType, step.Type)
			}
		}
	}
	return t, nil
}

// Load reads and parses the trace file at path.
func Load(path string) (Trace, error) {
	f, err := os.Open(path) //nolint:gosec // G304: trace path comes from the command line
	if err != nil {
		return Trace{}, fmt.Errorf("opening trace: %w", err)
	}
	defer func() { _ = f.Close() }()
	return Parse(f)
}

var signals = map[string]gesture.Signal{
	"start": gesture.TouchStart,
	"move":  gesture.TouchMove,
	"end":   gesture.TouchEnd,
}

// Run replays every gesture in order on one recognizer and returns a result
// per touch-end that produced an instruction.
func Run(t Trace, threshold float64, tracer trace.Tracer) ([]Result, error) {
	surface := gesture.NewManualSurface()
	r := gesture.New(surface, gesture.WithThreshold(threshold), gesture.WithTracer(tracer))

	var (
		results []Result
		current string
	)
	for _, tag := range instruction.All() {
		// every tag is known to the recognizer
		_ = r.On(tag, func(ev instruction.Event) error {
			dx, dy := ev.Data.Delta()
			results = append(results, Result{Name: current, Instruction: ev.Type, DX: dx, DY: dy})
			return nil
		})
	}

	for _, g := range t.Gestures {
		current = g.Name
		for i, step := range g.Events {
			sig, ok := signals[step.Type]
			if !ok {
				return results, fmt.Errorf("gesture %q event %d: %w %q", g.Name, i, ErrUnknownEventType, step.Type)
			}
			if err := surface.Emit(sig, instruction.Point{X: step.X, Y: step.Y}); err != nil {
				return results, fmt.Errorf("gesture %q event %d: %w", g.Name, i, err)
			}
		}
		if _, touching := r.State(); touching {
			log.Warn(log.CatReplay, "gesture ended without touch end", "gesture", g.Name)
		}
	}
	return results, nil
}
