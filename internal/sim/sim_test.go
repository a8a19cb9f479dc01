package sim

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"qcomposer/internal/circuit"
	"qcomposer/internal/gate"
)

func backend() *Backend {
	return NewBackend(zerolog.Nop())
}

func build(t *testing.T, wires, cols int, place func(c circuit.Circuit) circuit.Circuit) circuit.Snapshot {
	t.Helper()
	c, err := circuit.New(wires, cols)
	require.NoError(t, err)
	return place(c).Snapshot()
}

func addAt(t *testing.T, c circuit.Circuit, col int, p circuit.Placement) circuit.Circuit {
	t.Helper()
	v := c.Validate(col, p, "")
	require.True(t, v.OK, "reason %s", v.Reason)
	return c.Add(col, p, circuit.AddOptions{})
}

func TestEmptyCircuitStaysInGround(t *testing.T) {
	snap := build(t, 2, 3, func(c circuit.Circuit) circuit.Circuit { return c })
	res, err := backend().Run(context.Background(), snap)
	require.NoError(t, err)

	require.Len(t, res.Probabilities, 4)
	assert.InDelta(t, 1.0, res.Probabilities[0], 1e-12)
	for i := 1; i < 4; i++ {
		assert.InDelta(t, 0.0, res.Probabilities[i], 1e-12)
	}
}

func TestHadamardGivesUniformSuperposition(t *testing.T) {
	snap := build(t, 2, 1, func(c circuit.Circuit) circuit.Circuit {
		return addAt(t, c, 0, circuit.NewPlacement(gate.Hadamard, []int{0}, nil, nil))
	})
	res, err := backend().Run(context.Background(), snap)
	require.NoError(t, err)

	assert.InDelta(t, 0.5, res.Probabilities[0], 1e-12)
	assert.InDelta(t, 0.5, res.Probabilities[1], 1e-12)
	assert.InDelta(t, 0.0, res.Probabilities[2], 1e-12)
	assert.InDelta(t, 0.0, res.Probabilities[3], 1e-12)
}

func TestBellState(t *testing.T) {
	snap := build(t, 2, 2, func(c circuit.Circuit) circuit.Circuit {
		c = addAt(t, c, 0, circuit.NewPlacement(gate.Hadamard, []int{0}, nil, nil))
		return addAt(t, c, 1, circuit.NewPlacement(gate.CNOT, []int{1}, []int{0}, nil))
	})
	res, err := backend().Run(context.Background(), snap)
	require.NoError(t, err)

	assert.InDelta(t, 0.5, res.Probabilities[0], 1e-12) // |00⟩
	assert.InDelta(t, 0.0, res.Probabilities[1], 1e-12)
	assert.InDelta(t, 0.0, res.Probabilities[2], 1e-12)
	assert.InDelta(t, 0.5, res.Probabilities[3], 1e-12) // |11⟩
}

// Column order matters: X then H is not H then X.
func TestColumnsApplyInOrder(t *testing.T) {
	snap := build(t, 2, 2, func(c circuit.Circuit) circuit.Circuit {
		c = addAt(t, c, 0, circuit.NewPlacement(gate.PauliX, []int{0}, nil, nil))
		return addAt(t, c, 1, circuit.NewPlacement(gate.Hadamard, []int{0}, nil, nil))
	})
	res, err := backend().Run(context.Background(), snap)
	require.NoError(t, err)

	// H·X|0⟩ = (|0⟩ − |1⟩)/√2: the |1⟩ amplitude is negative.
	inv := 1 / math.Sqrt2
	assert.InDelta(t, inv, res.Statevector.Re[0], 1e-12)
	assert.InDelta(t, -inv, res.Statevector.Re[1], 1e-12)
}

// A two-wire placement fills two slots of its column; it must be applied
// once, not once per slot (a double SWAP would undo itself).
func TestMultiSlotPlacementAppliedOnce(t *testing.T) {
	snap := build(t, 3, 2, func(c circuit.Circuit) circuit.Circuit {
		c = addAt(t, c, 0, circuit.NewPlacement(gate.PauliX, []int{0}, nil, nil))
		return addAt(t, c, 1, circuit.NewPlacement(gate.SWAP, []int{0, 2}, nil, nil))
	})
	res, err := backend().Run(context.Background(), snap)
	require.NoError(t, err)

	// The excitation moved from wire 0 to wire 2.
	assert.InDelta(t, 1.0, res.Probabilities[1<<2], 1e-12)
	assert.InDelta(t, 0.0, res.Probabilities[1<<0], 1e-12)
}

// A two-wire gate whose second wire has not been chosen yet is ordinary
// mid-placement state; the run skips it instead of failing.
func TestPendingTwoWirePlacementIsSkipped(t *testing.T) {
	snap := build(t, 2, 2, func(c circuit.Circuit) circuit.Circuit {
		c = addAt(t, c, 0, circuit.NewPlacement(gate.PauliX, []int{0}, nil, nil))
		pend := circuit.NewPlacement(gate.CNOT, []int{1}, nil, nil)
		return c.Add(1, pend, circuit.AddOptions{TargetsOnly: true})
	})
	res, err := backend().Run(context.Background(), snap)
	require.NoError(t, err)

	// Only the X acted: wire 0 excited, wire 1 untouched.
	assert.InDelta(t, 1.0, res.Probabilities[1], 1e-12)
	assert.InDelta(t, 0.0, res.Probabilities[3], 1e-12)
}

func TestRotationDefaultAngle(t *testing.T) {
	// RX with no params rotates by the registry default π/2, which puts
	// the wire in an even superposition.
	snap := build(t, 2, 1, func(c circuit.Circuit) circuit.Circuit {
		return addAt(t, c, 0, circuit.NewPlacement(gate.RX, []int{1}, nil, nil))
	})
	res, err := backend().Run(context.Background(), snap)
	require.NoError(t, err)

	probs := WireProbabilities(res, 2)
	assert.InDelta(t, 0.0, probs[0], 1e-12)
	assert.InDelta(t, 0.5, probs[1], 1e-12)
}

func TestRZConjugatedByHadamardIsX(t *testing.T) {
	// H·RZ(π)·H acts as X up to global phase.
	snap := build(t, 2, 3, func(c circuit.Circuit) circuit.Circuit {
		c = addAt(t, c, 0, circuit.NewPlacement(gate.Hadamard, []int{0}, nil, nil))
		c = addAt(t, c, 1, circuit.NewPlacement(gate.RZ, []int{0}, nil, map[string]float64{"theta": math.Pi}))
		return addAt(t, c, 2, circuit.NewPlacement(gate.Hadamard, []int{0}, nil, nil))
	})
	res, err := backend().Run(context.Background(), snap)
	require.NoError(t, err)

	assert.InDelta(t, 0.0, res.Probabilities[0], 1e-12)
	assert.InDelta(t, 1.0, res.Probabilities[1], 1e-12)
}

func TestCZFlipsOnlyTheDoublyExcitedPhase(t *testing.T) {
	snap := build(t, 2, 2, func(c circuit.Circuit) circuit.Circuit {
		c = addAt(t, c, 0, circuit.NewPlacement(gate.Hadamard, []int{0}, nil, nil))
		c = addAt(t, c, 0, circuit.NewPlacement(gate.Hadamard, []int{1}, nil, nil))
		return addAt(t, c, 1, circuit.NewPlacement(gate.CZ, []int{1}, []int{0}, nil))
	})
	res, err := backend().Run(context.Background(), snap)
	require.NoError(t, err)

	assert.InDelta(t, 0.5, res.Statevector.Re[0], 1e-12)
	assert.InDelta(t, 0.5, res.Statevector.Re[1], 1e-12)
	assert.InDelta(t, 0.5, res.Statevector.Re[2], 1e-12)
	assert.InDelta(t, -0.5, res.Statevector.Re[3], 1e-12)
}

func TestProbabilitiesAreSquaredMagnitudes(t *testing.T) {
	snap := build(t, 2, 1, func(c circuit.Circuit) circuit.Circuit {
		return addAt(t, c, 0, circuit.NewPlacement(gate.RX, []int{0}, nil, map[string]float64{"theta": 1.1}))
	})
	res, err := backend().Run(context.Background(), snap)
	require.NoError(t, err)

	total := 0.0
	for i := range res.Probabilities {
		re, im := res.Statevector.Re[i], res.Statevector.Im[i]
		assert.InDelta(t, re*re+im*im, res.Probabilities[i], 1e-12)
		total += res.Probabilities[i]
	}
	assert.InDelta(t, 1.0, total, 1e-12)
}

func TestBadSnapshotErrors(t *testing.T) {
	// Hand-built malformed snapshots; the model cannot produce these, the
	// boundary still has to reject them.
	gd := func(kind gate.Kind, targets, controls []int) *circuit.GateData {
		return &circuit.GateData{Kind: kind, Targets: targets, Controls: controls, Params: map[string]float64{}, ID: "g1"}
	}
	cases := []struct {
		name string
		snap circuit.Snapshot
		code string
	}{
		{
			name: "zero wires",
			snap: circuit.Snapshot{WireCount: 0},
			code: CodeBadSnapshot,
		},
		{
			name: "too many wires",
			snap: circuit.Snapshot{WireCount: 7},
			code: CodeTooManyWires,
		},
		{
			name: "target out of range",
			snap: circuit.Snapshot{WireCount: 2, Columns: []circuit.SnapshotColumn{
				{Slots: []*circuit.GateData{gd(gate.Hadamard, []int{5}, nil), nil}},
			}},
			code: CodeBadSnapshot,
		},
		{
			name: "cnot with two controls",
			snap: circuit.Snapshot{WireCount: 3, Columns: []circuit.SnapshotColumn{
				{Slots: []*circuit.GateData{gd(gate.CNOT, []int{0}, []int{1, 2}), nil, nil}},
			}},
			code: CodeBadSnapshot,
		},
		{
			name: "control equals target",
			snap: circuit.Snapshot{WireCount: 2, Columns: []circuit.SnapshotColumn{
				{Slots: []*circuit.GateData{gd(gate.CNOT, []int{0}, []int{0}), nil}},
			}},
			code: CodeBadSnapshot,
		},
		{
			name: "swap with three targets",
			snap: circuit.Snapshot{WireCount: 3, Columns: []circuit.SnapshotColumn{
				{Slots: []*circuit.GateData{gd(gate.SWAP, []int{0, 1, 2}, nil), nil, nil}},
			}},
			code: CodeBadSnapshot,
		},
		{
			name: "hadamard with a control",
			snap: circuit.Snapshot{WireCount: 2, Columns: []circuit.SnapshotColumn{
				{Slots: []*circuit.GateData{gd(gate.Hadamard, []int{0}, []int{1}), nil}},
			}},
			code: CodeBadSnapshot,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := backend().Run(context.Background(), tc.snap)
			require.Error(t, err)
			var simErr *Error
			require.True(t, errors.As(err, &simErr))
			assert.Equal(t, tc.code, simErr.Code)
			assert.NotEmpty(t, simErr.Message)
		})
	}
}

func TestRunHonorsContextCancellation(t *testing.T) {
	snap := build(t, 2, 4, func(c circuit.Circuit) circuit.Circuit {
		return addAt(t, c, 0, circuit.NewPlacement(gate.Hadamard, []int{0}, nil, nil))
	})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := backend().Run(ctx, snap)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestWireProbabilities(t *testing.T) {
	snap := build(t, 3, 2, func(c circuit.Circuit) circuit.Circuit {
		c = addAt(t, c, 0, circuit.NewPlacement(gate.PauliX, []int{2}, nil, nil))
		return addAt(t, c, 1, circuit.NewPlacement(gate.Hadamard, []int{0}, nil, nil))
	})
	res, err := backend().Run(context.Background(), snap)
	require.NoError(t, err)

	probs := WireProbabilities(res, 3)
	assert.InDelta(t, 0.5, probs[0], 1e-12)
	assert.InDelta(t, 0.0, probs[1], 1e-12)
	assert.InDelta(t, 1.0, probs[2], 1e-12)
}
