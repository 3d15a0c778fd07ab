package gesture

import (
	"bytes"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"github.com/zjrosen/swipe/internal/instruction"
	"github.com/zjrosen/swipe/internal/log"
	"github.com/zjrosen/swipe/internal/pubsub"
)

// newRecorded wires a recognizer to a manual surface and records every
// emitted instruction through On.
func newRecorded(t *testing.T, opts ...Option) (*ManualSurface, *Recognizer, *[]instruction.Event) {
	t.Helper()
	surface := NewManualSurface()
	r := New(surface, opts...)
	var got []instruction.Event
	for _, tag := range instruction.All() {
		require.NoError(t, r.On(tag, func(ev instruction.Event) error {
			got = append(got, ev)
			return nil
		}))
	}
	return surface, r, &got
}

func swipe(t *testing.T, s *ManualSurface, from, to instruction.Point) {
	t.Helper()
	require.NoError(t, s.Start(from.X, from.Y))
	require.NoError(t, s.Move(to.X, to.Y))
	require.NoError(t, s.End())
}

func TestRecognizer_Classification(t *testing.T) {
	start := instruction.Point{X: 100, Y: 100}
	tests := []struct {
		name string
		last instruction.Point
		want instruction.Instruction
	}{
		{"left", instruction.Point{X: 40, Y: 100}, instruction.SlideLeft},
		{"right", instruction.Point{X: 160, Y: 100}, instruction.SlideRight},
		{"up", instruction.Point{X: 100, Y: 40}, instruction.SlideUp},
		{"down", instruction.Point{X: 100, Y: 160}, instruction.SlideDown},
		{"below threshold", instruction.Point{X: 110, Y: 110}, instruction.SingleTouch},
		{"horizontal wins over vertical", instruction.Point{X: 30, Y: 20}, instruction.SlideLeft},
		{"exactly threshold", instruction.Point{X: 50, Y: 150}, instruction.SingleTouch},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, _, got := newRecorded(t)
			swipe(t, s, start, tt.last)

			require.Len(t, *got, 1)
			ev := (*got)[0]
			require.Equal(t, tt.want, ev.Type)
			require.Equal(t, instruction.TouchState{Start: start, Last: tt.last, Moved: true}, ev.Data)
		})
	}
}

func TestRecognizer_TapWithoutMove(t *testing.T) {
	s, _, got := newRecorded(t)

	require.NoError(t, s.Start(100, 100))
	require.NoError(t, s.End())

	require.Len(t, *got, 1)
	require.Equal(t, instruction.SingleTouch, (*got)[0].Type)
	require.False(t, (*got)[0].Data.Moved)
	require.Equal(t, instruction.Point{X: 100, Y: 100}, (*got)[0].Data.Last)
}

func TestRecognizer_ConsecutiveGesturesResetState(t *testing.T) {
	s, _, got := newRecorded(t)

	swipe(t, s, instruction.Point{X: 100, Y: 100}, instruction.Point{X: 20, Y: 100})

	// second cycle is a tap far away from the first one; stale Last or Moved
	// from the slide would turn it into another slide
	require.NoError(t, s.Start(400, 400))
	require.NoError(t, s.End())

	require.Len(t, *got, 2)
	require.Equal(t, instruction.SlideLeft, (*got)[0].Type)
	require.Equal(t, instruction.SingleTouch, (*got)[1].Type)
	require.Equal(t, instruction.TouchState{
		Start: instruction.Point{X: 400, Y: 400},
		Last:  instruction.Point{X: 400, Y: 400},
	}, (*got)[1].Data)
}

func TestRecognizer_EndWithoutStart(t *testing.T) {
	s, _, got := newRecorded(t)

	require.NoError(t, s.Move(10, 10))
	require.NoError(t, s.End())
	require.Empty(t, *got)

	// a completed gesture returns to idle, so a second end is ignored too
	swipe(t, s, instruction.Point{X: 0, Y: 0}, instruction.Point{X: 0, Y: 80})
	require.NoError(t, s.End())
	require.Len(t, *got, 1)
	require.Equal(t, instruction.SlideDown, (*got)[0].Type)
}

func TestRecognizer_OnInvokesCallbackOnce(t *testing.T) {
	s := NewManualSurface()
	r := New(s)
	calls := 0
	var payload instruction.TouchState
	require.NoError(t, r.On(instruction.SlideLeft, func(ev instruction.Event) error {
		calls++
		payload = ev.Data
		return nil
	}))

	swipe(t, s, instruction.Point{X: 100, Y: 100}, instruction.Point{X: 40, Y: 100})

	require.Equal(t, 1, calls)
	require.Equal(t, instruction.Point{X: 40, Y: 100}, payload.Last)
}

func TestRecognizer_RemoveEventListener(t *testing.T) {
	var buf bytes.Buffer
	restore := log.InitWithWriter(&buf, log.LevelWarn)
	defer restore()

	s := NewManualSurface()
	r := New(s)
	calls := 0
	require.NoError(t, r.AddEventListener(instruction.SlideLeft, func(instruction.Event) error {
		calls++
		return nil
	}))
	require.NoError(t, r.RemoveEventListener(instruction.SlideLeft))

	swipe(t, s, instruction.Point{X: 100, Y: 100}, instruction.Point{X: 40, Y: 100})

	require.Zero(t, calls)
	require.Contains(t, buf.String(), "observer has no update callback tag=slide_left")
}

func TestRecognizer_UnknownInstruction(t *testing.T) {
	r := New(NewManualSurface())

	err := r.On("double_tap", func(instruction.Event) error { return nil })
	require.ErrorIs(t, err, ErrUnknownInstruction)

	err = r.RemoveEventListener("double_tap")
	require.ErrorIs(t, err, ErrUnknownInstruction)
}

func TestRecognizer_CallbackErrorPropagatesToSurface(t *testing.T) {
	s := NewManualSurface()
	r := New(s)
	boom := errors.New("boom")
	require.NoError(t, r.On(instruction.SlideUp, func(instruction.Event) error { return boom }))

	require.NoError(t, s.Start(0, 100))
	require.NoError(t, s.Move(0, 0))
	err := s.End()
	require.ErrorIs(t, err, boom)

	_, touching := r.State()
	require.False(t, touching, "failed notification must still end the cycle")
}

func TestRecognizer_SubscribeFansOut(t *testing.T) {
	s, r, got := newRecorded(t)
	var extra []instruction.Instruction
	obs := instruction.NewObserver(instruction.SingleTouch, func(ev instruction.Event) error {
		extra = append(extra, ev.Type)
		return nil
	})
	require.NoError(t, r.Subscribe(instruction.SingleTouch, obs))

	require.NoError(t, s.Start(1, 1))
	require.NoError(t, s.End())
	require.Len(t, *got, 1)
	require.Equal(t, []instruction.Instruction{instruction.SingleTouch}, extra)

	require.NoError(t, r.Unsubscribe(instruction.SingleTouch, obs))
	err := r.Unsubscribe(instruction.SingleTouch, obs)
	require.ErrorIs(t, err, pubsub.ErrObserverNotFound)
}

func TestRecognizer_Threshold(t *testing.T) {
	s, r, got := newRecorded(t, WithThreshold(10))
	require.Equal(t, 10.0, r.Threshold())

	swipe(t, s, instruction.Point{X: 100, Y: 100}, instruction.Point{X: 80, Y: 100})
	require.Equal(t, instruction.SlideLeft, (*got)[0].Type)

	require.ErrorIs(t, r.SetThreshold(0), ErrInvalidThreshold)
	require.NoError(t, r.SetThreshold(100))

	swipe(t, s, instruction.Point{X: 100, Y: 100}, instruction.Point{X: 20, Y: 100})
	require.Equal(t, instruction.SingleTouch, (*got)[1].Type)

	// non-positive option values fall back to the default
	_, r2, _ := newRecorded(t, WithThreshold(-5))
	require.Equal(t, DefaultThreshold, r2.Threshold())
}

func TestRecognizer_TracesClassification(t *testing.T) {
	spans := tracetest.NewSpanRecorder()
	provider := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(spans))

	s, _, _ := newRecorded(t, WithTracer(provider.Tracer("test")))
	swipe(t, s, instruction.Point{X: 100, Y: 100}, instruction.Point{X: 100, Y: 160})

	ended := spans.Ended()
	require.Len(t, ended, 1)
	require.Equal(t, "gesture.classify", ended[0].Name())

	attrs := make(map[string]any)
	for _, kv := range ended[0].Attributes() {
		attrs[string(kv.Key)] = kv.Value.AsInterface()
	}
	require.Equal(t, "slide_down", attrs["gesture.instruction"])
	require.Equal(t, -60.0, attrs["gesture.dy"])
	require.Equal(t, true, attrs["gesture.moved"])
}

func TestSignalString(t *testing.T) {
	require.Equal(t, "touchstart", TouchStart.String())
	require.Equal(t, "touchend", TouchEnd.String())
	require.Equal(t, "unknown", Signal(9).String())
}
