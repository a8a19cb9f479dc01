package circuit

// Reason codes a placement can be rejected with. These are data, not
// errors: the editor surfaces them to the user and leaves the circuit
// untouched.
type Reason string

const (
	ReasonNone            Reason = ""
	ReasonTimeOOB         Reason = "time_oob"
	ReasonWireOOB         Reason = "wire_oob"
	ReasonOccupied        Reason = "occupied"
	ReasonControlEqTarget Reason = "control_eq_target"
)

// Verdict is the outcome of a placement-legality check.
type Verdict struct {
	OK     bool
	Reason Reason
}

func reject(r Reason) Verdict { return Verdict{Reason: r} }

// Validate decides whether p may legally be written into column col. It is
// purely advisory and has no side effects; callers must run it before every
// Add and abort on a negative verdict.
//
// movingID names a placement whose current slots do not count as occupied,
// so an existing gate can be re-validated at a new position (or a two-phase
// placement re-checked over its own placeholder). Slots held by p's own id
// are likewise not conflicts.
func (c Circuit) Validate(col int, p Placement, movingID string) Verdict {
	if col < 0 || col >= len(c.columns) {
		return reject(ReasonTimeOOB)
	}
	involved := InvolvedWires(p)
	for _, w := range involved {
		if w < 0 || w >= c.wires {
			return reject(ReasonWireOOB)
		}
	}
	for _, w := range involved {
		occupant := c.columns[col][w]
		if occupant == "" || occupant == p.ID {
			continue
		}
		if movingID != "" && occupant == movingID {
			continue
		}
		return reject(ReasonOccupied)
	}
	if len(p.Controls) > 0 {
		targets := make(map[int]bool, len(p.Targets))
		for _, t := range p.Targets {
			targets[t] = true
		}
		for _, ctl := range p.Controls {
			if targets[ctl] {
				return reject(ReasonControlEqTarget)
			}
		}
	}
	return Verdict{OK: true}
}
