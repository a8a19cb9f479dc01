package editor

import (
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"qcomposer/internal/circuit"
	"qcomposer/internal/gate"
	"qcomposer/internal/sim"
)

// ──────────────────────────── Rendering helpers ────────────────────────────

// padCenter centres a string within the given width.
func padCenter(s string, width int) string {
	if len(s) >= width {
		return s[:width]
	}
	total := width - len(s)
	left := total / 2
	return strings.Repeat(" ", left) + s + strings.Repeat(" ", total-left)
}

// controlSymbol is the wire glyph for a control slot.
func controlSymbol(k gate.Kind) string {
	if k == gate.SWAP {
		return "×"
	}
	return "●"
}

// targetSymbol is the wire glyph for the target slot of a two-wire gate.
func targetSymbol(k gate.Kind) string {
	switch k {
	case gate.CZ:
		return "●"
	case gate.SWAP:
		return "×"
	default:
		return "⊕"
	}
}

// cellInfo describes what occupies a single grid cell.
type cellInfo struct {
	placement *circuit.Placement
	isControl bool
	isTwoWire bool
	vertAbove bool
	vertBelow bool
	passThru  bool
}

// cellAt derives rendering information for the cell at (col, wire) from the
// placement occupying it and from any two-wire span crossing this wire.
func (m Model) cellAt(col, wire int) cellInfo {
	var info cellInfo
	if p, ok := m.circ.At(col, wire); ok {
		pc := p
		info.placement = &pc
		info.isTwoWire = len(circuit.InvolvedWires(p)) > 1
		for _, c := range p.Controls {
			if c == wire {
				info.isControl = true
			}
		}
	}

	// Vertical connector for any two-wire placement spanning this wire.
	for w := 0; w < m.circ.Wires(); w++ {
		p, ok := m.circ.At(col, w)
		if !ok {
			continue
		}
		span := circuit.InvolvedWires(p)
		if len(span) < 2 {
			continue
		}
		minQ, maxQ := span[0], span[len(span)-1]
		if wire >= minQ && wire <= maxQ {
			if wire > minQ {
				info.vertAbove = true
			}
			if wire < maxQ {
				info.vertBelow = true
			}
			if wire > minQ && wire < maxQ && info.placement == nil {
				info.passThru = true
			}
		}
	}
	return info
}

// renderCell returns the three lines (top, mid, bot) of one cell, each
// exactly cellW visual characters wide.
func renderCell(info cellInfo, highlight *lipgloss.Style) (top, mid, bot string) {
	emptyRow := strings.Repeat(" ", cellW)
	halfW := cellW / 2
	vertRow := strings.Repeat(" ", halfW) + "│" + strings.Repeat(" ", cellW-halfW-1)
	dashL := (cellW - 1) / 2
	dashR := cellW - dashL - 1

	wireGlyph := func(sym string) {
		top = emptyRow
		bot = emptyRow
		if info.vertAbove {
			top = vertRow
		}
		if info.vertBelow {
			bot = vertRow
		}
		mid = strings.Repeat("─", dashL) + gateStyle.Render(sym) + strings.Repeat("─", dashR)
	}

	switch {
	case info.placement != nil && info.isControl:
		wireGlyph(controlSymbol(info.placement.Kind))
	case info.placement != nil && info.isTwoWire:
		wireGlyph(targetSymbol(info.placement.Kind))
	case info.placement != nil:
		label := padCenter(gate.MustInfo(info.placement.Kind).Label, gateNameW)
		margin := (cellW - gateNameW - 2) / 2
		rightMargin := cellW - margin - gateNameW - 2
		top = strings.Repeat(" ", margin) + gateStyle.Render("┌"+strings.Repeat("─", gateNameW)+"┐") + strings.Repeat(" ", rightMargin)
		mid = strings.Repeat("─", margin) + gateStyle.Render("┤"+label+"├") + strings.Repeat("─", rightMargin)
		bot = strings.Repeat(" ", margin) + gateStyle.Render("└"+strings.Repeat("─", gateNameW)+"┘") + strings.Repeat(" ", rightMargin)
	case info.passThru:
		top = vertRow
		mid = strings.Repeat("─", dashL) + "┼" + strings.Repeat("─", dashR)
		bot = vertRow
	default:
		top = emptyRow
		bot = emptyRow
		if info.vertAbove {
			top = vertRow
		}
		if info.vertBelow {
			bot = vertRow
		}
		mid = strings.Repeat("─", cellW)
	}

	if highlight != nil {
		// Brackets replace the outermost dash on each side so the cell
		// width stays constant.
		mid = highlight.Render("[") + trimEdges(info) + highlight.Render("]")
	}
	return
}

// trimEdges rebuilds the mid row one character narrower on each side to
// make room for the cursor brackets.
func trimEdges(info cellInfo) string {
	inner := cellW - 2
	innerL := (inner - 1) / 2
	innerR := inner - innerL - 1
	switch {
	case info.placement != nil && (info.isControl || info.isTwoWire):
		sym := targetSymbol(info.placement.Kind)
		if info.isControl {
			sym = controlSymbol(info.placement.Kind)
		}
		return strings.Repeat("─", innerL) + gateStyle.Render(sym) + strings.Repeat("─", innerR)
	case info.placement != nil:
		label := padCenter(gate.MustInfo(info.placement.Kind).Label, gateNameW)
		margin := (inner - gateNameW - 2) / 2
		right := inner - margin - gateNameW - 2
		return strings.Repeat("─", margin) + gateStyle.Render("┤"+label+"├") + strings.Repeat("─", right)
	case info.passThru:
		return strings.Repeat("─", innerL) + "┼" + strings.Repeat("─", innerR)
	default:
		return strings.Repeat("─", inner)
	}
}

// ──────────────────────────── Panels ────────────────────────────

// renderGrid draws the circuit grid with the cursor (or second-wire
// selector) highlighted.
func (m Model) renderGrid(width int) string {
	var sb strings.Builder
	sb.WriteString(titleStyle.Render("Circuit"))
	sb.WriteString("\n\n")

	availWidth := max(width-labelW-4, cellW)
	visible := max(availWidth/cellW, 1)
	start := 0
	if m.cursorCol >= visible {
		start = m.cursorCol - visible + 1
	}
	end := min(start+visible, m.circ.ColumnCount())

	// Column indices header.
	sb.WriteString(strings.Repeat(" ", labelW))
	for t := start; t < end; t++ {
		sb.WriteString(dimStyle.Render(padCenter(fmt.Sprintf("t%d", t), cellW)))
	}
	sb.WriteString("\n")

	for q := 0; q < m.circ.Wires(); q++ {
		var topLine, midLine, botLine strings.Builder
		topLine.WriteString(strings.Repeat(" ", labelW))
		label := fmt.Sprintf("q[%d] ", q)
		midLine.WriteString(dimStyle.Render(padCenter(label, labelW)))
		botLine.WriteString(strings.Repeat(" ", labelW))

		for t := start; t < end; t++ {
			info := m.cellAt(t, q)
			var hl *lipgloss.Style
			switch {
			case m.focus == focusSecondWire && m.pending != nil && t == m.pending.Column && q == m.pending.Cursor:
				hl = &secondWireStyle
			case m.focus != focusSecondWire && t == m.cursorCol && q == m.cursorWire:
				hl = &cursorBoxStyle
			}
			top, mid, bot := renderCell(info, hl)
			topLine.WriteString(top)
			midLine.WriteString(mid)
			botLine.WriteString(bot)
		}
		sb.WriteString(topLine.String())
		sb.WriteString("\n")
		sb.WriteString(midLine.String())
		sb.WriteString("\n")
		sb.WriteString(botLine.String())
		sb.WriteString("\n")
	}
	return gridStyle.Width(width).Render(sb.String())
}

// renderProbabilities draws the per-wire |1⟩ probabilities from the latest
// simulation, or the structured error when the last run failed.
func (m Model) renderProbabilities(width int) string {
	var sb strings.Builder
	sb.WriteString(titleStyle.Render("Simulation"))
	sb.WriteString("\n")

	switch {
	case m.simErr != nil:
		var simErr *sim.Error
		if errors.As(m.simErr, &simErr) {
			sb.WriteString(errorStyle.Render(fmt.Sprintf("error [%s]: %s", simErr.Code, simErr.Message)))
		} else {
			sb.WriteString(errorStyle.Render("error: " + m.simErr.Error()))
		}
	case m.simResult == nil || m.simPending:
		sb.WriteString(dimStyle.Render("running…"))
	default:
		probs := sim.WireProbabilities(m.simResult, m.circ.Wires())
		for q, p := range probs {
			bar := int(p*20 + 0.5)
			sb.WriteString(fmt.Sprintf("q[%d] |1⟩ %5.1f%% %s\n",
				q, p*100, barStyle.Render(strings.Repeat("█", bar))))
		}
	}
	return probStyle.Width(width).Render(sb.String())
}

// renderMenu draws the gate picker overlay.
func (m Model) renderMenu() string {
	var sb strings.Builder
	sb.WriteString(titleStyle.Render("Add Gate"))
	sb.WriteString("\n\n")
	for i, k := range gate.Kinds() {
		info := gate.MustInfo(k)
		line := fmt.Sprintf("%-3s %s", info.Label, info.Title)
		if i == m.menuIdx {
			sb.WriteString(menuSelectedStyle.Render("▸ " + line))
		} else {
			sb.WriteString("  " + line)
		}
		sb.WriteString("\n")
	}
	sb.WriteString("\n")
	sb.WriteString(dimStyle.Render("↑↓ Select  ⏎ Ok  Esc ✕"))
	return menuBorderStyle.Render(sb.String())
}

// renderAngleInput draws the rotation-angle prompt overlay.
func (m Model) renderAngleInput() string {
	var sb strings.Builder
	sb.WriteString(titleStyle.Render(fmt.Sprintf("%s angle", m.pendingKind)))
	sb.WriteString("\n\n")
	sb.WriteString(fmt.Sprintf("theta: %s_", m.angleInput))
	sb.WriteString("\n\n")
	sb.WriteString(dimStyle.Render(fmt.Sprintf("Empty for default (%s). Examples: pi/2, 3*pi/4, 1.57", formatAngle(gate.DefaultTheta))))
	return menuBorderStyle.Render(sb.String())
}

// renderConfirmResize draws the destructive-reset confirmation overlay.
func (m Model) renderConfirmResize() string {
	var sb strings.Builder
	sb.WriteString(titleStyle.Render("Change wire count"))
	sb.WriteString("\n\n")
	sb.WriteString(fmt.Sprintf("Resize to %d wires? This clears every gate.", m.resizeTo))
	sb.WriteString("\n\n")
	sb.WriteString(dimStyle.Render("y/⏎ confirm  n/esc cancel"))
	return menuBorderStyle.Render(sb.String())
}

// View renders the UI.
func (m Model) View() string {
	if m.width == 0 {
		return "Loading..."
	}

	grid := m.renderGrid(m.width - 2)
	probs := m.renderProbabilities(m.width - 2)

	status := ""
	switch {
	case m.status != "":
		status = statusStyle.Render(m.status)
	case m.focus == focusMove:
		status = statusStyle.Render("Moving gate — ⏎ drop, esc cancel")
	}

	frame := lipgloss.JoinVertical(lipgloss.Left,
		grid,
		probs,
		status,
		m.help.View(m.keys),
	)

	switch m.focus {
	case focusMenu:
		frame = overlayAt(frame, m.renderMenu(), 2, 2)
	case focusAngleInput:
		frame = overlayAt(frame, m.renderAngleInput(), 2, 2)
	case focusConfirmResize:
		frame = overlayAt(frame, m.renderConfirmResize(), 2, 2)
	}
	return frame
}
