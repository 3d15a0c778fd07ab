package keys

import (
	"testing"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/require"

	"github.com/zjrosen/swipe/internal/instruction"
)

func TestDefaultKeyMap_HelpText(t *testing.T) {
	km := DefaultKeyMap()
	for _, b := range []key.Binding{km.SlideLeft, km.SlideRight, km.SlideUp, km.SlideDown, km.SingleTouch, km.Quit} {
		require.NotEmpty(t, b.Help().Key)
		require.NotEmpty(t, b.Help().Desc)
	}
	require.Equal(t, []key.Binding{km.Help, km.Quit}, km.ShortHelp())
	require.Len(t, km.FullHelp(), 3)
}

func TestGesture(t *testing.T) {
	km := DefaultKeyMap()
	tests := []struct {
		msg  tea.KeyMsg
		want instruction.Instruction
	}{
		{tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("h")}, instruction.SlideLeft},
		{tea.KeyMsg{Type: tea.KeyRight}, instruction.SlideRight},
		{tea.KeyMsg{Type: tea.KeyUp}, instruction.SlideUp},
		{tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("j")}, instruction.SlideDown},
		{tea.KeyMsg{Type: tea.KeySpace, Runes: []rune(" ")}, instruction.SingleTouch},
	}
	for _, tt := range tests {
		t.Run(tt.msg.String(), func(t *testing.T) {
			got, ok := km.Gesture(tt.msg)
			require.True(t, ok)
			require.Equal(t, tt.want, got)
		})
	}

	_, ok := km.Gesture(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("x")})
	require.False(t, ok)
}
