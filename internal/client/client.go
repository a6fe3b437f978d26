// Package client renders engine snapshots in a terminal and maps key
// presses to engine control calls. It is one possible consumer of the
// engine's snapshot/event surface, not part of the simulation itself.
package client

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/kvasir-games/rockfall/internal/engine"
)

// frameMsg triggers one render frame.
type frameMsg time.Time

const frameInterval = time.Second / 30

// Terminals report key presses but not releases, so held controls are
// modeled as pulses: a press keeps its flag on until this long after the
// last repeat.
const controlPulse = 150 * time.Millisecond

// Model is the bubbletea model driving a single player's session.
type Model struct {
	eng    *engine.Engine
	width  int
	height int

	leftUntil   time.Time
	rightUntil  time.Time
	thrustUntil time.Time
}

// New creates a client model for the given engine.
func New(eng *engine.Engine) Model {
	return Model{eng: eng}
}

// Init starts the frame timer.
func (m Model) Init() tea.Cmd {
	return frameTick()
}

func frameTick() tea.Cmd {
	return tea.Tick(frameInterval, func(t time.Time) tea.Msg {
		return frameMsg(t)
	})
}

// Update handles key input and frame ticks.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		now := time.Now()
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "left", "a":
			m.leftUntil = now.Add(controlPulse)
		case "right", "d":
			m.rightUntil = now.Add(controlPulse)
		case "up", "w":
			m.thrustUntil = now.Add(controlPulse)
		case " ":
			m.eng.Fire()
		case "r":
			if snap := m.eng.Snapshot(); snap != nil && snap.GameOver {
				_ = m.eng.Restart()
			}
		}
		return m, nil

	case frameMsg:
		now := time.Now()
		m.eng.SetTurnLeft(now.Before(m.leftUntil))
		m.eng.SetTurnRight(now.Before(m.rightUntil))
		m.eng.SetAccelerate(now.Before(m.thrustUntil))
		return m, frameTick()
	}
	return m, nil
}

// View renders the latest snapshot.
func (m Model) View() string {
	snap := m.eng.Snapshot()
	if snap == nil || m.width < 20 || m.height < 10 {
		return "loading..."
	}
	return renderSnapshot(snap, m.width, m.height)
}
