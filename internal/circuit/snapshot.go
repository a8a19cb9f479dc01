package circuit

import (
	"fmt"

	"qcomposer/internal/gate"
)

// GateData is one placement reduced to plain data for the simulation
// boundary: no identity-bearing object graph, just values. Controls and
// params are always present (empty rather than absent).
type GateData struct {
	Kind     gate.Kind          `json:"kind"`
	Targets  []int              `json:"targets"`
	Controls []int              `json:"controls"`
	Params   map[string]float64 `json:"params"`
	ID       string             `json:"id"`
}

// SnapshotColumn is one time step of a snapshot. A multi-wire placement
// appears in every slot it occupies, one copy per slot, all carrying the
// same id; consumers de-duplicate by id.
type SnapshotColumn struct {
	Slots []*GateData `json:"slots"`
}

// Snapshot is a deep plain-data copy of a circuit, safe to hand across a
// goroutine or process boundary. Mutating a snapshot never affects the
// circuit it came from.
type Snapshot struct {
	WireCount int              `json:"wireCount"`
	Columns   []SnapshotColumn `json:"columns"`
}

// Snapshot deep-copies the circuit into plain data.
func (c Circuit) Snapshot() Snapshot {
	snap := Snapshot{
		WireCount: c.wires,
		Columns:   make([]SnapshotColumn, len(c.columns)),
	}
	for t, column := range c.columns {
		slots := make([]*GateData, c.wires)
		for w, id := range column {
			if id == "" {
				continue
			}
			p := c.arena[id]
			slots[w] = &GateData{
				Kind:     p.Kind,
				Targets:  append([]int{}, p.Targets...),
				Controls: append([]int{}, p.Controls...),
				Params:   copyParams(p.Params),
				ID:       p.ID,
			}
		}
		snap.Columns[t] = SnapshotColumn{Slots: slots}
	}
	return snap
}

// FromSnapshot rebuilds a circuit from a snapshot, de-duplicating multi-slot
// placements by id. It rejects snapshots whose shape cannot form a valid
// circuit.
func FromSnapshot(snap Snapshot) (Circuit, error) {
	c, err := New(snap.WireCount, max(len(snap.Columns), 1))
	if err != nil {
		return Circuit{}, err
	}
	for t, column := range snap.Columns {
		if len(column.Slots) != snap.WireCount {
			return Circuit{}, fmt.Errorf("circuit: column %d has %d slots, want %d", t, len(column.Slots), snap.WireCount)
		}
		for w, data := range column.Slots {
			if data == nil {
				continue
			}
			if data.ID == "" {
				return Circuit{}, fmt.Errorf("circuit: column %d wire %d holds a placement with no id", t, w)
			}
			if _, ok := gate.Lookup(data.Kind); !ok {
				return Circuit{}, fmt.Errorf("circuit: column %d wire %d holds unknown gate kind %q", t, w, data.Kind)
			}
			if existing, ok := c.arena[data.ID]; ok {
				// Another slot of the same placement; just link it.
				found := false
				for _, iw := range InvolvedWires(existing) {
					if iw == w {
						found = true
						break
					}
				}
				if !found {
					return Circuit{}, fmt.Errorf("circuit: placement %s occupies wire %d it does not involve", data.ID, w)
				}
				c.columns[t][w] = data.ID
				continue
			}
			p := Placement{
				ID:       data.ID,
				Kind:     data.Kind,
				Targets:  append([]int{}, data.Targets...),
				Controls: append([]int{}, data.Controls...),
				Params:   copyParams(data.Params),
			}
			involved := InvolvedWires(p)
			for _, iw := range involved {
				if iw < 0 || iw >= snap.WireCount {
					return Circuit{}, fmt.Errorf("circuit: placement %s references wire %d outside [0,%d)", p.ID, iw, snap.WireCount)
				}
			}
			slotInvolved := false
			for _, iw := range involved {
				if iw == w {
					slotInvolved = true
					break
				}
			}
			if !slotInvolved {
				return Circuit{}, fmt.Errorf("circuit: placement %s occupies wire %d it does not involve", p.ID, w)
			}
			c.arena[p.ID] = p
			c.columns[t][w] = p.ID
		}
	}
	return c, nil
}
