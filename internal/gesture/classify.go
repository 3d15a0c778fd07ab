package gesture

import "github.com/zjrosen/swipe/internal/instruction"

// DefaultThreshold is the minimum displacement, in surface units, for a slide.
const DefaultThreshold = 50.0

// Classify maps a finished touch to an instruction. Horizontal slides win
// over vertical ones; anything that did not move or stayed within threshold
// on both axes is a single touch.
func Classify(state instruction.TouchState, threshold float64) instruction.Instruction {
	if !state.Moved {
		return instruction.SingleTouch
	}

	dx, dy := state.Delta()
	switch {
	case dx > threshold:
		return instruction.SlideLeft
	case dx < -threshold:
		return instruction.SlideRight
	case dy > threshold:
		return instruction.SlideUp
	case dy < -threshold:
		return instruction.SlideDown
	default:
		return instruction.SingleTouch
	}
}
