// Package keys contains keybinding definitions.
package keys

import (
	"github.com/charmbracelet/bubbles/key"

	"github.com/zjrosen/swipe/internal/instruction"
)

// KeyMap defines the keybindings for the touchpad.
type KeyMap struct {
	// Synthetic gestures for terminals without mouse reporting
	SlideLeft   key.Binding
	SlideRight  key.Binding
	SlideUp     key.Binding
	SlideDown   key.Binding
	SingleTouch key.Binding

	// Threshold
	ThresholdUp   key.Binding
	ThresholdDown key.Binding

	// General
	Clear key.Binding
	Help  key.Binding
	Quit  key.Binding
}

// DefaultKeyMap returns the default keybindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		SlideLeft: key.NewBinding(
			key.WithKeys("h", "left"),
			key.WithHelp("h/←", "slide left"),
		),
		SlideRight: key.NewBinding(
			key.WithKeys("l", "right"),
			key.WithHelp("l/→", "slide right"),
		),
		SlideUp: key.NewBinding(
			key.WithKeys("k", "up"),
			key.WithHelp("k/↑", "slide up"),
		),
		SlideDown: key.NewBinding(
			key.WithKeys("j", "down"),
			key.WithHelp("j/↓", "slide down"),
		),
		SingleTouch: key.NewBinding(
			key.WithKeys(" ", "space", "enter"),
			key.WithHelp("space", "tap"),
		),
		ThresholdUp: key.NewBinding(
			key.WithKeys("+", "="),
			key.WithHelp("+", "raise threshold"),
		),
		ThresholdDown: key.NewBinding(
			key.WithKeys("-", "_"),
			key.WithHelp("-", "lower threshold"),
		),
		Clear: key.NewBinding(
			key.WithKeys("c"),
			key.WithHelp("c", "clear history"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "toggle help"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

// ShortHelp implements help.KeyMap.
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Help, k.Quit}
}

// FullHelp implements help.KeyMap.
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.SlideLeft, k.SlideRight, k.SlideUp, k.SlideDown, k.SingleTouch}, // Gestures
		{k.ThresholdUp, k.ThresholdDown, k.Clear},                           // Settings
		{k.Help, k.Quit},                                                    // General
	}
}

// Gesture returns the instruction a key simulates, if any.
func (k KeyMap) Gesture(msg interface{ String() string }) (instruction.Instruction, bool) {
	s := msg.String()
	for _, pair := range []struct {
		binding key.Binding
		tag     instruction.Instruction
	}{
		{k.SlideLeft, instruction.SlideLeft},
		{k.SlideRight, instruction.SlideRight},
		{k.SlideUp, instruction.SlideUp},
		{k.SlideDown, instruction.SlideDown},
		{k.SingleTouch, instruction.SingleTouch},
	} {
		for _, bound := range pair.binding.Keys() {
			if bound == s {
				return pair.tag, true
			}
		}
	}
	return "", false
}
