package gesture

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/zjrosen/swipe/internal/instruction"
)

func TestClassify_NotMoved(t *testing.T) {
	state := instruction.TouchState{
		Start: instruction.Point{X: 100, Y: 100},
		Last:  instruction.Point{X: 0, Y: 0}, // would be a slide if Moved were set
	}
	require.Equal(t, instruction.SingleTouch, Classify(state, DefaultThreshold))
}

func coord() *rapid.Generator[float64] {
	return rapid.Float64Range(-1000, 1000)
}

// TestClassify_Properties checks the priority order and threshold gating
// for arbitrary displacements.
func TestClassify_Properties(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		state := instruction.TouchState{
			Start: instruction.Point{X: coord().Draw(t, "sx"), Y: coord().Draw(t, "sy")},
			Last:  instruction.Point{X: coord().Draw(t, "lx"), Y: coord().Draw(t, "ly")},
			Moved: rapid.Bool().Draw(t, "moved"),
		}
		threshold := rapid.Float64Range(1, 200).Draw(t, "threshold")
		dx, dy := state.Delta()

		got := Classify(state, threshold)

		switch {
		case !state.Moved:
			if got != instruction.SingleTouch {
				t.Fatalf("unmoved touch classified as %s", got)
			}
		case math.Abs(dx) > threshold:
			// INVARIANT: horizontal displacement beyond threshold always wins
			want := instruction.SlideLeft
			if dx < 0 {
				want = instruction.SlideRight
			}
			if got != want {
				t.Fatalf("dx=%v dy=%v: got %s, want %s", dx, dy, got, want)
			}
		case math.Abs(dy) > threshold:
			want := instruction.SlideUp
			if dy < 0 {
				want = instruction.SlideDown
			}
			if got != want {
				t.Fatalf("dx=%v dy=%v: got %s, want %s", dx, dy, got, want)
			}
		default:
			if got != instruction.SingleTouch {
				t.Fatalf("dx=%v dy=%v within threshold classified as %s", dx, dy, got)
			}
		}
	})
}

// TestRecognizer_OneNotificationPerEnd drives random touch cycles through a
// recognizer and checks that every completed cycle yields exactly one
// instruction.
func TestRecognizer_OneNotificationPerEnd(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		s := NewManualSurface()
		r := New(s)
		count := 0
		for _, tag := range instruction.All() {
			_ = r.On(tag, func(instruction.Event) error {
				count++
				return nil
			})
		}

		cycles := rapid.IntRange(1, 20).Draw(t, "cycles")
		for i := 0; i < cycles; i++ {
			_ = s.Start(coord().Draw(t, "x"), coord().Draw(t, "y"))
			moves := rapid.IntRange(0, 5).Draw(t, "moves")
			for j := 0; j < moves; j++ {
				_ = s.Move(coord().Draw(t, "mx"), coord().Draw(t, "my"))
			}
			_ = s.End()
		}

		if count != cycles {
			t.Fatalf("got %d notifications for %d cycles", count, cycles)
		}
	})
}
