package log

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestFormatEntry(t *testing.T) {
	ts := time.Date(2025, 12, 6, 10, 45, 0, 0, time.UTC)

	got := formatEntry(ts, LevelWarn, CatPubSub, "observer has no update callback", "tag", "slide_left")
	require.Equal(t, "2025-12-06T10:45:00 [WARN] [pubsub] observer has no update callback tag=slide_left\n", got)
}

func TestFormatEntry_OddFields(t *testing.T) {
	ts := time.Date(2025, 12, 6, 10, 45, 0, 0, time.UTC)

	got := formatEntry(ts, LevelInfo, CatGesture, "classified", "dx", 60, "orphan")
	require.True(t, strings.HasSuffix(got, " dx=60 orphan=<missing>\n"), got)
}

func TestInitWithWriter_MinLevel(t *testing.T) {
	var buf bytes.Buffer
	restore := InitWithWriter(&buf, LevelWarn)
	defer restore()

	Debug(CatGesture, "hidden")
	Info(CatGesture, "hidden too")
	Warn(CatGesture, "shown")
	ErrorErr(CatConfig, "failed", errors.New("boom"))

	out := buf.String()
	require.NotContains(t, out, "hidden")
	require.Contains(t, out, "[WARN] [gesture] shown")
	require.Contains(t, out, "[ERROR] [config] failed error=boom")
}

func TestInitWithWriter_Restore(t *testing.T) {
	var first, second bytes.Buffer

	restoreFirst := InitWithWriter(&first, LevelDebug)
	restoreSecond := InitWithWriter(&second, LevelDebug)

	Info(CatUI, "to second")
	restoreSecond()
	Info(CatUI, "to first")
	restoreFirst()

	require.Contains(t, second.String(), "to second")
	require.NotContains(t, second.String(), "to first")
	require.Contains(t, first.String(), "to first")
}

func TestSetEnabled(t *testing.T) {
	var buf bytes.Buffer
	restore := InitWithWriter(&buf, LevelDebug)
	defer restore()

	SetEnabled(false)
	Error(CatUI, "muted")
	SetEnabled(true)
	Error(CatUI, "loud")

	require.NotContains(t, buf.String(), "muted")
	require.Contains(t, buf.String(), "loud")
}

func TestLevelString(t *testing.T) {
	require.Equal(t, "DEBUG", LevelDebug.String())
	require.Equal(t, "ERROR", LevelError.String())
	require.Equal(t, "UNKNOWN", Level(42).String())
}

func TestFormatEntry_QuotesValuesWithSpaces(t *testing.T) {
	ts := time.Date(2025, 12, 6, 10, 45, 0, 0, time.UTC)

	got := formatEntry(ts, LevelError, CatConfig, "reload failed", "error", "invalid config: threshold must be positive")
	require.True(t, strings.HasSuffix(got, ` error="invalid config: threshold must be positive"`+"\n"), got)
}

func TestParseLevel(t *testing.T) {
	lvl, err := ParseLevel("warn")
	require.NoError(t, err)
	require.Equal(t, LevelWarn, lvl)

	lvl, err = ParseLevel("ERROR")
	require.NoError(t, err)
	require.Equal(t, LevelError, lvl)

	_, err = ParseLevel("loud")
	require.Error(t, err)
}

func TestInit_AppendsToFile(t *testing.T) {
	prev := current.Load()
	t.Cleanup(func() { current.Store(prev) })

	path := filepath.Join(t.TempDir(), "debug.log")
	cleanup, err := Init(path)
	require.NoError(t, err)

	Info(CatReplay, "replaying", "gestures", 3)
	cleanup()

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Contains(t, string(data), "[INFO] [replay] replaying gestures=3")
}
