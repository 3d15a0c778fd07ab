package pubsub

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestObserver_SetAndUnsetCustomUpdate(t *testing.T) {
	obs := NewObserver[color, int](red, nil)
	require.Equal(t, red, obs.Tag())
	require.False(t, obs.HasCustomUpdate())

	var got []int
	obs.SetCustomUpdate(func(ev Event[color, int]) error {
		got = append(got, ev.Data)
		return nil
	})
	require.True(t, obs.HasCustomUpdate())
	require.NoError(t, obs.update(Event[color, int]{Type: red, Data: 5}))

	obs.UnsetCustomUpdate()
	require.False(t, obs.HasCustomUpdate())
	require.NoError(t, obs.update(Event[color, int]{Type: red, Data: 6}))

	require.Equal(t, []int{5}, got)
}

func TestObserver_UpdateRejectsForeignTag(t *testing.T) {
	called := false
	obs := NewObserver(red, func(Event[color, int]) error {
		called = true
		return nil
	})

	err := obs.update(Event[color, int]{Type: green})
	require.ErrorIs(t, err, ErrTagMismatch)
	require.False(t, called)
}

func TestEventCmd(t *testing.T) {
	cmd := EventCmd(Event[color, int]{Type: blue, Data: 1})
	msg := cmd()

	ev, ok := msg.(Event[color, int])
	require.True(t, ok)
	require.Equal(t, blue, ev.Type)
}
