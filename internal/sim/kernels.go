package sim

import (
	"math"
	"math/cmplx"
)

// newState allocates the |0…0⟩ state over the given number of wires.
func newState(wires int) []complex128 {
	state := make([]complex128, 1<<wires)
	state[0] = 1
	return state
}

func expi(phi float64) complex128 {
	return cmplx.Exp(complex(0, phi))
}

func applyH(state []complex128, q int) {
	h := complex(1/math.Sqrt2, 0)
	bit := 1 << q
	for i := range state {
		if i&bit == 0 {
			j := i | bit
			a, b := state[i], state[j]
			state[i] = h * (a + b)
			state[j] = h * (a - b)
		}
	}
}

func applyX(state []complex128, q int) {
	bit := 1 << q
	for i := range state {
		if i&bit == 0 {
			j := i | bit
			state[i], state[j] = state[j], state[i]
		}
	}
}

func applyY(state []complex128, q int) {
	bit := 1 << q
	for i := range state {
		if i&bit == 0 {
			j := i | bit
			state[i], state[j] = 1i*state[j], -1i*state[i]
		}
	}
}

// applyPhaseFlip multiplies the |1⟩ component of wire q by factor. Z, S and
// T are all this kernel with different factors.
func applyPhaseFlip(state []complex128, q int, factor complex128) {
	bit := 1 << q
	for i := range state {
		if i&bit != 0 {
			state[i] *= factor
		}
	}
}

func applyRX(state []complex128, q int, theta float64) {
	bit := 1 << q
	c := complex(math.Cos(theta/2), 0)
	js := complex(0, -math.Sin(theta/2))
	for i := range state {
		if i&bit == 0 {
			j := i | bit
			a, b := state[i], state[j]
			state[i] = c*a + js*b
			state[j] = js*a + c*b
		}
	}
}

func applyRY(state []complex128, q int, theta float64) {
	bit := 1 << q
	c := complex(math.Cos(theta/2), 0)
	s := complex(math.Sin(theta/2), 0)
	for i := range state {
		if i&bit == 0 {
			j := i | bit
			a, b := state[i], state[j]
			state[i] = c*a - s*b
			state[j] = s*a + c*b
		}
	}
}

func applyRZ(state []complex128, q int, theta float64) {
	bit := 1 << q
	phase := expi(theta / 2)
	for i := range state {
		if i&bit != 0 {
			state[i] *= phase
		} else {
			state[i] *= cmplx.Conj(phase)
		}
	}
}

func applyCX(state []complex128, control, target int) {
	cBit := 1 << control
	tBit := 1 << target
	for i := range state {
		if i&cBit != 0 && i&tBit == 0 {
			j := i | tBit
			state[i], state[j] = state[j], state[i]
		}
	}
}

func applyCZ(state []complex128, control, target int) {
	cBit := 1 << control
	tBit := 1 << target
	for i := range state {
		if i&cBit != 0 && i&tBit != 0 {
			state[i] *= -1
		}
	}
}

func applySWAP(state []complex128, q1, q2 int) {
	bit1 := 1 << q1
	bit2 := 1 << q2
	for i := range state {
		if i&bit1 != 0 && i&bit2 == 0 {
			j := (i &^ bit1) | bit2
			state[i], state[j] = state[j], state[i]
		}
	}
}

// WireProbabilities folds the basis-state probabilities down to a per-wire
// chance of reading |1⟩. Used by the editor's probability readout.
func WireProbabilities(res *Result, wires int) []float64 {
	probs := make([]float64, wires)
	for i, p := range res.Probabilities {
		for q := 0; q < wires; q++ {
			if i&(1<<q) != 0 {
				probs[q] += p
			}
		}
	}
	return probs
}
