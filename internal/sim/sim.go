// Package sim executes serialized circuit snapshots on a state-vector
// backend and reports amplitudes and per-basis-state probabilities. The
// circuit model never sees this package; it only produces the snapshot.
package sim

import (
	"context"
	"fmt"
	"math"

	"github.com/rs/zerolog"
	"gonum.org/v1/gonum/floats"

	"qcomposer/internal/circuit"
	"qcomposer/internal/gate"
)

// Error codes reported by a failed run.
const (
	CodeBadSnapshot  = "bad_snapshot"
	CodeTooManyWires = "too_many_wires"
)

// Error is a structured simulation failure. A failed run never corrupts
// anything: the backend works only on its own copy of the state.
type Error struct {
	Code    string
	Message string
}

func (e *Error) Error() string {
	return fmt.Sprintf("sim: %s: %s", e.Code, e.Message)
}

func errf(code, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

// Statevector holds the amplitudes of every basis state, split into real
// and imaginary parts.
type Statevector struct {
	Re []float64
	Im []float64
}

// Result is a successful simulation outcome. Probabilities[i] is
// Re[i]² + Im[i]².
type Result struct {
	Statevector   Statevector
	Probabilities []float64
}

// Runner is the narrow interface the editor consumes. It takes a read-only
// snapshot and never mutates shared state.
type Runner interface {
	Run(ctx context.Context, snap circuit.Snapshot) (*Result, error)
}

// maxWires bounds the state size: 6 wires is 64 amplitudes.
const maxWires = circuit.MaxWires

// Backend is the in-process state-vector simulator.
type Backend struct {
	log zerolog.Logger
}

// NewBackend returns a backend logging through the given logger.
func NewBackend(log zerolog.Logger) *Backend {
	return &Backend{log: log.With().Str("component", "sim").Logger()}
}

// Run applies the snapshot's gates in increasing column order and returns
// the final state. Within a column, placements occupying several slots are
// de-duplicated by id and each distinct placement is applied once; the
// remaining gates in a column act on disjoint wires, so slot order does not
// affect the result.
func (b *Backend) Run(ctx context.Context, snap circuit.Snapshot) (*Result, error) {
	if snap.WireCount < 1 {
		return nil, errf(CodeBadSnapshot, "wire count %d is not positive", snap.WireCount)
	}
	if snap.WireCount > maxWires {
		return nil, errf(CodeTooManyWires, "wire count %d exceeds maximum %d", snap.WireCount, maxWires)
	}

	state := newState(snap.WireCount)
	applied := 0
	for t, column := range snap.Columns {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		seen := map[string]bool{}
		for _, data := range column.Slots {
			if data == nil || seen[data.ID] {
				continue
			}
			seen[data.ID] = true
			if pendingSecondWire(data) {
				// First phase of a two-wire placement; nothing to apply
				// until the second wire is chosen.
				continue
			}
			if err := checkGate(snap.WireCount, t, data); err != nil {
				return nil, err
			}
			apply(state, data)
			applied++
		}
	}

	n := len(state)
	res := &Result{
		Statevector:   Statevector{Re: make([]float64, n), Im: make([]float64, n)},
		Probabilities: make([]float64, n),
	}
	for i, amp := range state {
		res.Statevector.Re[i] = real(amp)
		res.Statevector.Im[i] = imag(amp)
		res.Probabilities[i] = real(amp)*real(amp) + imag(amp)*imag(amp)
	}
	if total := floats.Sum(res.Probabilities); math.Abs(total-1) > 1e-9 {
		b.log.Warn().Float64("total", total).Msg("state norm drifted from 1")
	}
	b.log.Debug().Int("wires", snap.WireCount).Int("columns", len(snap.Columns)).Int("gates", applied).Msg("simulation complete")
	return res, nil
}

// pendingSecondWire reports whether data is a two-wire gate whose second
// wire has not been chosen yet. Mid-placement circuits are legitimate
// state, so such entries are skipped rather than rejected.
func pendingSecondWire(data *circuit.GateData) bool {
	if !gate.IsTwoWire(data.Kind) {
		return false
	}
	return len(data.Targets) == 1 && len(data.Controls) == 0
}

// checkGate rejects snapshot entries the kernels cannot apply. Shape
// problems are data errors from the boundary; an unknown kind panics in
// the registry lookup instead, since only our own code mints kinds.
func checkGate(wires, col int, data *circuit.GateData) *Error {
	info := gate.MustInfo(data.Kind)
	for _, w := range append(append([]int{}, data.Targets...), data.Controls...) {
		if w < 0 || w >= wires {
			return errf(CodeBadSnapshot, "column %d: gate %s references wire %d outside [0,%d)", col, data.Kind, w, wires)
		}
	}
	switch info.Arity {
	case gate.AritySingle:
		if len(data.Targets) != 1 || len(data.Controls) != 0 {
			return errf(CodeBadSnapshot, "column %d: %s wants one target and no controls", col, data.Kind)
		}
	case gate.ArityControlled:
		if len(data.Targets) != 1 || len(data.Controls) != 1 {
			return errf(CodeBadSnapshot, "column %d: %s wants one target and one control", col, data.Kind)
		}
		if data.Targets[0] == data.Controls[0] {
			return errf(CodeBadSnapshot, "column %d: %s control equals target", col, data.Kind)
		}
	case gate.ArityTwoTarget:
		if len(data.Targets) != 2 || len(data.Controls) != 0 {
			return errf(CodeBadSnapshot, "column %d: %s wants two targets", col, data.Kind)
		}
		if data.Targets[0] == data.Targets[1] {
			return errf(CodeBadSnapshot, "column %d: %s targets coincide", col, data.Kind)
		}
	}
	return nil
}

// apply dispatches one checked gate onto the state. The switch is
// exhaustive over the registry's kinds; a kind missing here is an internal
// consistency error.
func apply(state []complex128, data *circuit.GateData) {
	theta := func() float64 {
		if v, ok := data.Params["theta"]; ok {
			return v
		}
		return gate.DefaultTheta
	}
	switch data.Kind {
	case gate.Hadamard:
		applyH(state, data.Targets[0])
	case gate.PauliX:
		applyX(state, data.Targets[0])
	case gate.PauliY:
		applyY(state, data.Targets[0])
	case gate.PauliZ:
		applyPhaseFlip(state, data.Targets[0], -1)
	case gate.PhaseS:
		applyPhaseFlip(state, data.Targets[0], 1i)
	case gate.PhaseT:
		applyPhaseFlip(state, data.Targets[0], expi(math.Pi/4))
	case gate.RX:
		applyRX(state, data.Targets[0], theta())
	case gate.RY:
		applyRY(state, data.Targets[0], theta())
	case gate.RZ:
		applyRZ(state, data.Targets[0], theta())
	case gate.CNOT:
		applyCX(state, data.Controls[0], data.Targets[0])
	case gate.CZ:
		applyCZ(state, data.Controls[0], data.Targets[0])
	case gate.SWAP:
		applySWAP(state, data.Targets[0], data.Targets[1])
	default:
		panic(fmt.Sprintf("sim: no kernel for gate kind %q", data.Kind))
	}
}
