package editor

import (
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"qcomposer/internal/circuit"
	"qcomposer/internal/gate"
)

// rejectMessage turns a validation reason into the status line shown to the
// user.
func rejectMessage(r circuit.Reason) string {
	switch r {
	case circuit.ReasonTimeOOB:
		return "Cannot place: column is outside the circuit"
	case circuit.ReasonWireOOB:
		return "Cannot place: wire is outside the circuit"
	case circuit.ReasonOccupied:
		return "Cannot place: slot already occupied by another gate"
	case circuit.ReasonControlEqTarget:
		return "Cannot place: control wire equals target wire"
	}
	return "Cannot place gate"
}

// ──────────────────────────── grid mode ────────────────────────────

func (m Model) updateGrid(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Up):
		if m.cursorWire > 0 {
			m.cursorWire--
		}
	case key.Matches(msg, m.keys.Down):
		if m.cursorWire < m.circ.Wires()-1 {
			m.cursorWire++
		}
	case key.Matches(msg, m.keys.Left):
		if m.cursorCol > 0 {
			m.cursorCol--
		}
	case key.Matches(msg, m.keys.Right):
		m.cursorCol++
		// Columns grow on demand and never implicitly shrink.
		m.circ = m.circ.EnsureColumns(m.cursorCol + 1)
	case key.Matches(msg, m.keys.AddGate):
		m.focus = focusMenu
		m.menuIdx = 0
	case key.Matches(msg, m.keys.Delete):
		if p, ok := m.circ.At(m.cursorCol, m.cursorWire); ok {
			m.circ = m.circ.Remove(p.ID)
			m.status = fmt.Sprintf("Removed %s", gate.MustInfo(p.Kind).Title)
			cmd := m.scheduleSim()
			return m, cmd
		}
	case key.Matches(msg, m.keys.Move):
		p, ok := m.circ.At(m.cursorCol, m.cursorWire)
		if !ok {
			break
		}
		if len(circuit.InvolvedWires(p)) > 1 {
			// Moving only one wire of a two-wire gate would drop the
			// other; delete and re-place instead.
			m.status = "Two-wire gates cannot be moved; delete and place again"
			break
		}
		m.movingID = p.ID
		m.focus = focusMove
	case key.Matches(msg, m.keys.Save):
		if err := saveSnapshot(m.cfg.SaveFile, m.circ.Snapshot()); err != nil {
			m.status = fmt.Sprintf("Save error: %v", err)
			m.log.Error().Err(err).Str("path", m.cfg.SaveFile).Msg("save failed")
		} else {
			m.status = "Saved " + m.cfg.SaveFile
			m.log.Info().Str("path", m.cfg.SaveFile).Msg("circuit saved")
		}
	case key.Matches(msg, m.keys.Clear):
		fresh, err := circuit.New(m.circ.Wires(), m.cfg.Columns)
		if err != nil {
			m.status = fmt.Sprintf("Reset error: %v", err)
			break
		}
		m.circ = fresh
		m.cursorCol = 0
		m.status = "Circuit cleared"
		cmd := m.scheduleSim()
		return m, cmd
	case key.Matches(msg, m.keys.AddWire):
		if m.circ.Wires() >= circuit.MaxWires {
			m.status = fmt.Sprintf("At most %d wires", circuit.MaxWires)
			break
		}
		m.resizeTo = m.circ.Wires() + 1
		m.focus = focusConfirmResize
	case key.Matches(msg, m.keys.RemoveWire):
		if m.circ.Wires() <= circuit.MinWires {
			m.status = fmt.Sprintf("At least %d wires", circuit.MinWires)
			break
		}
		m.resizeTo = m.circ.Wires() - 1
		m.focus = focusConfirmResize
	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
	}
	return m, nil
}

// ──────────────────────────── gate menu ────────────────────────────

func (m Model) updateMenu(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	kinds := gate.Kinds()
	switch {
	case key.Matches(msg, m.keys.Cancel):
		m.focus = focusGrid
	case key.Matches(msg, m.keys.Up):
		if m.menuIdx > 0 {
			m.menuIdx--
		}
	case key.Matches(msg, m.keys.Down):
		if m.menuIdx < len(kinds)-1 {
			m.menuIdx++
		}
	case key.Matches(msg, m.keys.Confirm):
		kind := kinds[m.menuIdx]
		if gate.IsParameterized(kind) {
			m.pendingKind = kind
			m.angleInput = ""
			m.focus = focusAngleInput
			return m, nil
		}
		if gate.IsTwoWire(kind) {
			return m.beginTwoWire(kind)
		}
		return m.commitSingle(kind, nil)
	}
	return m, nil
}

// commitSingle validates and places a single-wire gate at the cursor. On a
// negative verdict the circuit is left untouched and the reason is surfaced.
func (m Model) commitSingle(kind gate.Kind, params map[string]float64) (tea.Model, tea.Cmd) {
	m.focus = focusGrid
	grown := m.circ.EnsureColumns(m.cursorCol + 1)
	p := circuit.NewPlacement(kind, []int{m.cursorWire}, nil, params)
	if v := grown.Validate(m.cursorCol, p, ""); !v.OK {
		m.status = rejectMessage(v.Reason)
		return m, nil
	}
	m.circ = grown.Add(m.cursorCol, p, circuit.AddOptions{})
	m.log.Debug().Str("kind", string(kind)).Int("column", m.cursorCol).Int("wire", m.cursorWire).Msg("gate placed")
	cmd := m.scheduleSim()
	return m, cmd
}

// ──────────────────── two-wire placement protocol ────────────────────

// beginTwoWire runs phase one: validate and write a targets-only
// placeholder on the wire under the cursor, then prompt for the second
// wire. An invalid first wire aborts without touching the circuit.
func (m Model) beginTwoWire(kind gate.Kind) (tea.Model, tea.Cmd) {
	grown := m.circ.EnsureColumns(m.cursorCol + 1)
	p := circuit.NewPlacement(kind, []int{m.cursorWire}, nil, nil)
	if v := grown.Validate(m.cursorCol, p, ""); !v.OK {
		m.focus = focusGrid
		m.status = rejectMessage(v.Reason)
		return m, nil
	}
	m.circ = grown.Add(m.cursorCol, p, circuit.AddOptions{TargetsOnly: true})
	m.pending = &pendingTwoWire{
		GateID:    p.ID,
		Kind:      kind,
		Column:    m.cursorCol,
		FirstWire: m.cursorWire,
		Cursor:    m.cursorWire,
	}
	if m.cursorWire+1 < m.circ.Wires() {
		m.pending.Cursor = m.cursorWire + 1
	} else if m.cursorWire > 0 {
		m.pending.Cursor = m.cursorWire - 1
	}
	m.focus = focusSecondWire
	if gate.MustInfo(kind).Arity == gate.ArityControlled {
		m.status = "Select control wire"
	} else {
		m.status = "Select second wire"
	}
	cmd := m.scheduleSim()
	return m, cmd
}

func (m Model) updateSecondWire(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.pending == nil {
		m.focus = focusGrid
		return m, nil
	}
	switch {
	case key.Matches(msg, m.keys.Cancel):
		// Explicit cancellation removes the phase-one placeholder.
		m.circ = m.circ.Remove(m.pending.GateID)
		m.pending = nil
		m.focus = focusGrid
		m.status = "Placement cancelled"
		cmd := m.scheduleSim()
		return m, cmd
	case key.Matches(msg, m.keys.Up):
		if m.pending.Cursor > 0 {
			m.pending.Cursor--
		}
	case key.Matches(msg, m.keys.Down):
		if m.pending.Cursor < m.circ.Wires()-1 {
			m.pending.Cursor++
		}
	case key.Matches(msg, m.keys.Confirm):
		return m.commitSecondWire(m.pending.Cursor)
	}
	return m, nil
}

// commitSecondWire runs phase two. Picking the first wire again is rejected
// in place (no mutation, selection continues); any other invalid choice
// removes the placeholder and aborts; a valid choice overwrites the
// placeholder with the full placement occupying both wires.
func (m Model) commitSecondWire(wireB int) (tea.Model, tea.Cmd) {
	pend := m.pending
	if wireB == pend.FirstWire {
		m.status = "Second wire must differ from the first"
		return m, nil
	}

	final := circuit.Placement{
		ID:      pend.GateID,
		Kind:    pend.Kind,
		Targets: []int{pend.FirstWire},
	}
	if gate.MustInfo(pend.Kind).Arity == gate.ArityTwoTarget {
		final.Targets = []int{pend.FirstWire, wireB}
	} else {
		final.Controls = []int{wireB}
	}

	if v := m.circ.Validate(pend.Column, final, pend.GateID); !v.OK {
		m.circ = m.circ.Remove(pend.GateID)
		m.pending = nil
		m.focus = focusGrid
		m.status = rejectMessage(v.Reason)
		cmd := m.scheduleSim()
		return m, cmd
	}

	m.circ = m.circ.Add(pend.Column, final, circuit.AddOptions{Overwrite: true})
	m.pending = nil
	m.focus = focusGrid
	m.log.Debug().Str("kind", string(final.Kind)).Int("column", pend.Column).
		Ints("wires", circuit.InvolvedWires(final)).Msg("two-wire gate committed")
	cmd := m.scheduleSim()
	return m, cmd
}

// ──────────────────────────── angle input ────────────────────────────

func (m Model) updateAngleInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Cancel):
		m.focus = focusGrid
		m.angleInput = ""
		m.pendingKind = ""
	case msg.String() == "backspace":
		if len(m.angleInput) > 0 {
			m.angleInput = m.angleInput[:len(m.angleInput)-1]
		}
	case key.Matches(msg, m.keys.Confirm):
		var params map[string]float64
		if m.angleInput != "" {
			val, ok := parseAngle(m.angleInput)
			if !ok {
				m.status = "Invalid angle — use numbers or pi expressions (e.g. pi/2, 3*pi/4)"
				return m, nil
			}
			params = map[string]float64{"theta": val}
		}
		kind := m.pendingKind
		m.angleInput = ""
		m.pendingKind = ""
		return m.commitSingle(kind, params)
	default:
		s := msg.String()
		if len(s) == 1 && angleInputChar(s[0]) {
			m.angleInput += s
		}
	}
	return m, nil
}

// ──────────────────────────── move mode ────────────────────────────

func (m Model) updateMove(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Cancel):
		m.movingID = ""
		m.focus = focusGrid
	case key.Matches(msg, m.keys.Up):
		if m.cursorWire > 0 {
			m.cursorWire--
		}
	case key.Matches(msg, m.keys.Down):
		if m.cursorWire < m.circ.Wires()-1 {
			m.cursorWire++
		}
	case key.Matches(msg, m.keys.Left):
		if m.cursorCol > 0 {
			m.cursorCol--
		}
	case key.Matches(msg, m.keys.Right):
		m.cursorCol++
		m.circ = m.circ.EnsureColumns(m.cursorCol + 1)
	case key.Matches(msg, m.keys.Confirm):
		id := m.movingID
		_, p, ok := m.circ.Find(id)
		if !ok {
			// The gate vanished under us (stale reference); nothing to do.
			m.movingID = ""
			m.focus = focusGrid
			return m, nil
		}
		candidate := p
		candidate.Targets = []int{m.cursorWire}
		if v := m.circ.Validate(m.cursorCol, candidate, id); !v.OK {
			m.status = rejectMessage(v.Reason)
			return m, nil
		}
		m.circ = m.circ.Move(id, m.cursorCol, m.cursorWire)
		m.movingID = ""
		m.focus = focusGrid
		m.log.Debug().Str("id", id).Int("column", m.cursorCol).Int("wire", m.cursorWire).Msg("gate moved")
		cmd := m.scheduleSim()
		return m, cmd
	}
	return m, nil
}

// ──────────────────────────── wire resize ────────────────────────────

// updateConfirmResize waits for the user to confirm the destructive reset a
// wire-count change implies.
func (m Model) updateConfirmResize(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "y", "enter":
		fresh, err := circuit.New(m.resizeTo, m.cfg.Columns)
		if err != nil {
			m.status = fmt.Sprintf("Resize error: %v", err)
			m.focus = focusGrid
			return m, nil
		}
		m.circ = fresh
		m.cursorWire = min(m.cursorWire, m.resizeTo-1)
		m.cursorCol = 0
		m.focus = focusGrid
		m.status = fmt.Sprintf("Circuit reset with %d wires", m.resizeTo)
		m.log.Info().Int("wires", m.resizeTo).Msg("circuit reset on wire-count change")
		cmd := m.scheduleSim()
		return m, cmd
	case "n", "esc":
		m.focus = focusGrid
		m.status = "Resize cancelled"
	}
	return m, nil
}
