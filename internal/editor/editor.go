// Package editor is the interactive front-end: a bubbletea model that turns
// key gestures into circuit operations, runs the placement protocol for
// two-wire gates, and keeps a debounced simulation of the current circuit.
package editor

import (
	"context"
	"time"

	"github.com/charmbracelet/bubbles/help"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"

	"qcomposer/internal/circuit"
	"qcomposer/internal/config"
	"qcomposer/internal/gate"
	"qcomposer/internal/sim"
)

// focus identifies which input mode has the keyboard.
type focus int

const (
	focusGrid focus = iota
	focusMenu
	focusSecondWire
	focusAngleInput
	focusMove
	focusConfirmResize
)

// pendingTwoWire is the explicit state of a two-wire placement between its
// first and second phase. The phase-one placeholder already occupies
// FirstWire in Column under GateID; the placement commits, or the
// placeholder is removed, before this state is cleared.
type pendingTwoWire struct {
	GateID    string
	Kind      gate.Kind
	Column    int
	FirstWire int
	Cursor    int // wire currently highlighted as the second-wire candidate
}

// simTickMsg fires when the debounce window after a mutation closes.
type simTickMsg struct{ gen uint64 }

// simDoneMsg carries a finished simulation back to the model.
type simDoneMsg struct {
	gen    uint64
	result *sim.Result
	err    error
}

// Model is the editor's full state. It is the sole owner and only writer of
// the current circuit value.
type Model struct {
	cfg    config.Config
	log    zerolog.Logger
	runner sim.Runner

	circ       circuit.Circuit
	cursorWire int
	cursorCol  int

	focus       focus
	menuIdx     int
	pending     *pendingTwoWire
	pendingKind gate.Kind // gate picked from the menu, awaiting angle/placement
	angleInput  string
	movingID    string
	resizeTo    int

	// simGen increments on every committed mutation; ticks and results
	// stamped with an older generation are discarded.
	simGen     uint64
	simResult  *sim.Result
	simErr     error
	simPending bool

	status string
	keys   keyMap
	help   help.Model
	width  int
	height int
}

// New assembles an editor over the given runner. When the configured save
// file exists its snapshot is loaded, otherwise an empty circuit is built
// from the configured dimensions.
func New(cfg config.Config, runner sim.Runner, log zerolog.Logger) (Model, error) {
	circ, err := loadOrCreate(cfg)
	if err != nil {
		return Model{}, err
	}
	return Model{
		cfg:    cfg,
		log:    log.With().Str("component", "editor").Logger(),
		runner: runner,
		circ:   circ,
		keys:   defaultKeyMap(),
		help:   help.New(),
	}, nil
}

// Circuit returns the current circuit value.
func (m Model) Circuit() circuit.Circuit { return m.circ }

func (m Model) Init() tea.Cmd {
	// Simulate the initial circuit right away, stamped with the starting
	// generation. Init's receiver is a copy, so bumping the generation
	// here would be lost and the result dropped as stale.
	return m.runSim(m.simGen)
}

// scheduleSim bumps the generation and arms the debounce timer. Called
// after every committed mutation.
func (m *Model) scheduleSim() tea.Cmd {
	m.simGen++
	gen := m.simGen
	m.simPending = true
	return tea.Tick(m.cfg.Debounce, func(time.Time) tea.Msg {
		return simTickMsg{gen: gen}
	})
}

// runSim snapshots the circuit at call time and runs the adapter
// asynchronously. The snapshot is a deep copy, so later edits cannot leak
// into an in-flight run.
func (m *Model) runSim(gen uint64) tea.Cmd {
	snap := m.circ.Snapshot()
	runner := m.runner
	return func() tea.Msg {
		res, err := runner.Run(context.Background(), snap)
		return simDoneMsg{gen: gen, result: res, err: err}
	}
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		return m, nil

	case simTickMsg:
		if msg.gen != m.simGen {
			// A newer edit superseded this tick.
			return m, nil
		}
		return m, m.runSim(msg.gen)

	case simDoneMsg:
		if msg.gen != m.simGen {
			// Stale result from an older generation; drop it.
			m.log.Debug().Uint64("gen", msg.gen).Uint64("current", m.simGen).Msg("discarding stale simulation result")
			return m, nil
		}
		m.simPending = false
		m.simResult = msg.result
		m.simErr = msg.err
		if msg.err != nil {
			m.log.Warn().Err(msg.err).Msg("simulation failed")
		}
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	m.status = ""
	if msg.String() == "ctrl+c" {
		return m, tea.Quit
	}
	switch m.focus {
	case focusGrid:
		return m.updateGrid(msg)
	case focusMenu:
		return m.updateMenu(msg)
	case focusSecondWire:
		return m.updateSecondWire(msg)
	case focusAngleInput:
		return m.updateAngleInput(msg)
	case focusMove:
		return m.updateMove(msg)
	case focusConfirmResize:
		return m.updateConfirmResize(msg)
	}
	return m, nil
}
