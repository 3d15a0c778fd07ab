// Package app contains the root application model: a mouse-driven touchpad
// that classifies drags into instructions and shows the most recent ones.
package app

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	zone "github.com/lrstanley/bubblezone"
	"go.opentelemetry.io/otel/trace"

	"github.com/zjrosen/swipe/internal/config"
	"github.com/zjrosen/swipe/internal/gesture"
	"github.com/zjrosen/swipe/internal/history"
	"github.com/zjrosen/swipe/internal/instruction"
	"github.com/zjrosen/swipe/internal/keys"
	"github.com/zjrosen/swipe/internal/log"
	"github.com/zjrosen/swipe/internal/pubsub"
	"github.com/zjrosen/swipe/internal/touchpad"
	"github.com/zjrosen/swipe/internal/watcher"
)

const (
	padZoneID     = "swipe-pad"
	thresholdStep = 5.0
	minThreshold  = 5.0
)

// ConfigReloadedMsg carries the config file contents after an external edit.
type ConfigReloadedMsg struct {
	Config config.Config
	Err    error
}

// touch groups the gesture pipeline. It lives behind a pointer so recognizer
// callbacks and value-receiver Update share the same pending commands.
type touch struct {
	surface    *touchpad.MouseSurface
	recognizer *gesture.Recognizer
	history    *history.Recorder
	pending    []tea.Cmd
}

func (t *touch) flush() tea.Cmd {
	if len(t.pending) == 0 {
		return nil
	}
	cmds := t.pending
	t.pending = nil
	return tea.Batch(cmds...)
}

// Model is the root application state.
type Model struct {
	cfg        config.Config
	configPath string

	keys   keys.KeyMap
	help   help.Model
	styles styles
	touch  *touch

	last   *instruction.Event
	status string
	err    error

	width  int
	height int

	// Config file watcher for live threshold reloads
	watcherHandle *watcher.Watcher
	watcherCtx    context.Context
	watcherCancel context.CancelFunc
	changes       <-chan struct{}
}

// NewWithConfig creates the touchpad model.
// configPath is where threshold changes are saved and which file is watched
// for external edits; an empty path disables both.
// tracer may be nil.
func NewWithConfig(cfg config.Config, configPath string, tracer trace.Tracer) Model {
	t := &touch{}
	t.surface = touchpad.NewMouseSurface(touchpad.Config{
		CellWidth:  cfg.Pad.CellWidth,
		CellAspect: cfg.Pad.CellAspect,
		InBounds: func(msg tea.MouseMsg) bool {
			z := zone.Get(padZoneID)
			return z != nil && z.InBounds(msg)
		},
	})
	t.recognizer = gesture.New(t.surface,
		gesture.WithThreshold(cfg.Threshold),
		gesture.WithTracer(tracer),
	)
	for _, tag := range instruction.All() {
		// every tag is known to the recognizer
		_ = t.recognizer.On(tag, func(ev instruction.Event) error {
			t.pending = append(t.pending, pubsub.EventCmd(ev))
			return nil
		})
	}

	t.history = history.NewRecorder(cfg.History.TTL, history.DefaultCleanupInterval)
	if err := t.history.Attach(t.recognizer); err != nil {
		log.ErrorErr(log.CatHistory, "Failed to attach history", err)
	}

	m := Model{
		cfg:        cfg,
		configPath: configPath,
		keys:       keys.DefaultKeyMap(),
		help:       help.New(),
		styles:     newStyles(cfg.Theme),
		touch:      t,
	}

	if configPath != "" {
		w, err := watcher.New(watcher.DefaultConfig(configPath))
		if err == nil {
			if changes, err := w.Start(); err == nil {
				m.watcherHandle = w
				m.changes = changes
				m.watcherCtx, m.watcherCancel = context.WithCancel(context.Background())
			} else {
				log.ErrorErr(log.CatWatcher, "Failed to start config watcher", err, "path", configPath)
				_ = w.Stop()
			}
		}
		// The touchpad works without live reload
	}

	return m
}

// Init implements tea.Model interface.
func (m Model) Init() tea.Cmd {
	return m.waitForConfigChange()
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		return m, nil

	case tea.MouseMsg:
		if err := m.touch.surface.HandleMouse(msg); err != nil {
			m.err = err
		}
		return m, m.touch.flush()

	case tea.KeyMsg:
		return m.handleKey(msg)

	case instruction.Event:
		ev := msg
		m.last = &ev
		m.err = nil
		dx, dy := ev.Data.Delta()
		m.status = fmt.Sprintf("%s  dx=%.0f dy=%.0f", ev.Type, dx, dy)
		log.Debug(log.CatUI, "gesture", "instruction", ev.Type)
		return m, nil

	case ConfigReloadedMsg:
		if msg.Err != nil {
			log.ErrorErr(log.CatConfig, "Config reload failed", msg.Err, "path", m.configPath)
			m.err = msg.Err
		} else {
			m.applyConfig(msg.Config)
		}
		return m, m.waitForConfigChange()
	}

	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
		return m, nil

	case key.Matches(msg, m.keys.Clear):
		m.touch.history.Clear()
		m.last = nil
		m.err = nil
		m.status = "history cleared"
		return m, nil

	case key.Matches(msg, m.keys.ThresholdUp):
		return m.changeThreshold(m.cfg.Threshold + thresholdStep)

	case key.Matches(msg, m.keys.ThresholdDown):
		return m.changeThreshold(m.cfg.Threshold - thresholdStep)
	}

	if tag, ok := m.keys.Gesture(msg); ok {
		if err := m.synthesize(tag); err != nil {
			m.err = err
		}
		return m, m.touch.flush()
	}
	return m, nil
}

// synthesize drags from the pad center just far enough to produce tag.
func (m Model) synthesize(tag instruction.Instruction) error {
	w, h := m.padSize()
	cx, cy := w/2, h/2
	cols, rows := m.touch.surface.CellsFor(m.touch.recognizer.Threshold())

	x, y := cx, cy
	switch tag {
	case instruction.SlideLeft:
		x -= cols
	case instruction.SlideRight:
		x += cols
	case instruction.SlideUp:
		y -= rows
	case instruction.SlideDown:
		y += rows
	}
	return m.touch.surface.Drag(cx, cy, x, y)
}

func (m Model) changeThreshold(threshold float64) (tea.Model, tea.Cmd) {
	if threshold < minThreshold {
		threshold = minThreshold
	}
	if err := m.touch.recognizer.SetThreshold(threshold); err != nil {
		m.err = err
		return m, nil
	}
	m.cfg.Threshold = threshold
	m.status = fmt.Sprintf("threshold %.0f", threshold)

	if m.configPath != "" {
		if err := config.SaveThreshold(m.configPath, threshold); err != nil {
			log.ErrorErr(log.CatConfig, "Failed to save threshold", err, "path", m.configPath)
			m.err = err
		}
	}
	return m, nil
}

// applyConfig takes over the settings that can change while running.
// Pad geometry and history TTL apply on the next start.
func (m *Model) applyConfig(cfg config.Config) {
	if cfg.Threshold != m.touch.recognizer.Threshold() {
		if err := m.touch.recognizer.SetThreshold(cfg.Threshold); err != nil {
			m.err = err
			return
		}
		m.status = fmt.Sprintf("threshold %.0f (reloaded)", cfg.Threshold)
	}
	m.cfg.Threshold = cfg.Threshold
	m.cfg.History.Limit = cfg.History.Limit
	m.cfg.UI = cfg.UI
	m.cfg.Theme = cfg.Theme
	m.styles = newStyles(cfg.Theme)
	m.err = nil
	log.Info(log.CatConfig, "Config reloaded", "path", m.configPath)
}

// waitForConfigChange blocks until the watcher reports a change, then
// reloads the file.
func (m Model) waitForConfigChange() tea.Cmd {
	if m.changes == nil {
		return nil
	}
	ctx, changes, path := m.watcherCtx, m.changes, m.configPath
	return func() tea.Msg {
		select {
		case <-ctx.Done():
			return nil
		case <-changes:
		}
		cfg, err := config.Load(path)
		return ConfigReloadedMsg{Config: cfg, Err: err}
	}
}

// Threshold returns the active slide threshold.
func (m Model) Threshold() float64 {
	return m.touch.recognizer.Threshold()
}

// Last returns the most recent gesture, if any.
func (m Model) Last() (instruction.Event, bool) {
	if m.last == nil {
		return instruction.Event{}, false
	}
	return *m.last, true
}

// History returns the recorder backing the history panel.
func (m Model) History() *history.Recorder {
	return m.touch.history
}

// Close releases resources held by the application.
func (m *Model) Close() error {
	if err := m.touch.history.Detach(); err != nil {
		log.ErrorErr(log.CatHistory, "Failed to detach history", err)
	}

	// Cancel the pending reload command before closing the watcher
	if m.watcherCancel != nil {
		m.watcherCancel()
	}
	if m.watcherHandle != nil {
		if err := m.watcherHandle.Stop(); err != nil {
			return err
		}
		m.watcherHandle = nil
	}
	return nil
}

// View implements tea.Model.
func (m Model) View() string {
	var b strings.Builder

	b.WriteString(m.styles.title.Render("swipe"))
	b.WriteString(m.styles.subtle.Render(fmt.Sprintf("  threshold %.0f", m.touch.recognizer.Threshold())))
	b.WriteString("\n")

	pad := zone.Mark(padZoneID, m.renderPad())
	if m.cfg.UI.ShowHistory {
		pad = lipgloss.JoinHorizontal(lipgloss.Top, pad, " ", m.renderHistory())
	}
	b.WriteString(pad)
	b.WriteString("\n")

	if m.cfg.UI.ShowState {
		b.WriteString(m.renderState())
		b.WriteString("\n")
	}
	if m.err != nil {
		b.WriteString(m.renderError())
		b.WriteString("\n")
	}
	b.WriteString(m.help.View(m.keys))

	return zone.Scan(b.String())
}
