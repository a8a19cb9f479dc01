// Package circuit implements the circuit grid: time-ordered columns over a
// fixed set of wires, an arena of gate placements keyed by id, and the
// placement-validation rules enforced before any mutation commits.
//
// Every operation is copy-producing. A Circuit value returned by any
// operation is never mutated in place afterwards; callers can hold on to
// old values safely.
package circuit

import (
	"fmt"
	"sort"

	"github.com/google/uuid"

	"qcomposer/internal/gate"
)

// Wire-count bounds for a circuit.
const (
	MinWires = 2
	MaxWires = 6
)

// Placement is one gate instance positioned in the circuit. Its ID is
// assigned at creation and never recomputed from position.
type Placement struct {
	ID       string
	Kind     gate.Kind
	Targets  []int
	Controls []int
	Params   map[string]float64
}

// NewPlacement builds a placement with a fresh id. Targets, controls and
// params are copied; nil controls/params become empty.
func NewPlacement(kind gate.Kind, targets, controls []int, params map[string]float64) Placement {
	return Placement{
		ID:       uuid.NewString(),
		Kind:     kind,
		Targets:  append([]int{}, targets...),
		Controls: append([]int{}, controls...),
		Params:   copyParams(params),
	}
}

// Theta returns the named angle parameter, falling back to the registry
// default when the placement carries none.
func (p Placement) Theta(name string) float64 {
	if v, ok := p.Params[name]; ok {
		return v
	}
	return gate.DefaultTheta
}

func (p Placement) clone() Placement {
	p.Targets = append([]int{}, p.Targets...)
	p.Controls = append([]int{}, p.Controls...)
	p.Params = copyParams(p.Params)
	return p
}

func copyParams(params map[string]float64) map[string]float64 {
	out := make(map[string]float64, len(params))
	for k, v := range params {
		out[k] = v
	}
	return out
}

// InvolvedWires returns the union of a placement's targets and controls,
// ascending and de-duplicated.
func InvolvedWires(p Placement) []int {
	seen := make(map[int]bool, len(p.Targets)+len(p.Controls))
	var wires []int
	for _, w := range p.Targets {
		if !seen[w] {
			seen[w] = true
			wires = append(wires, w)
		}
	}
	for _, w := range p.Controls {
		if !seen[w] {
			seen[w] = true
			wires = append(wires, w)
		}
	}
	sort.Ints(wires)
	return wires
}

// Circuit is the aggregate: a wire count and an ordered sequence of columns.
// Each column maps wire index to the id of the placement occupying that slot
// ("" when empty); the placements themselves live in the arena.
type Circuit struct {
	wires   int
	columns [][]string
	arena   map[string]Placement
}

// New creates an empty circuit. The wire count must lie in [MinWires,
// MaxWires] and at least one column is required.
func New(wires, columns int) (Circuit, error) {
	if wires < MinWires || wires > MaxWires {
		return Circuit{}, fmt.Errorf("circuit: wire count %d outside [%d,%d]", wires, MinWires, MaxWires)
	}
	if columns < 1 {
		return Circuit{}, fmt.Errorf("circuit: column count %d must be at least 1", columns)
	}
	cols := make([][]string, columns)
	for i := range cols {
		cols[i] = make([]string, wires)
	}
	return Circuit{
		wires:   wires,
		columns: cols,
		arena:   map[string]Placement{},
	}, nil
}

// Wires returns the wire count.
func (c Circuit) Wires() int { return c.wires }

// ColumnCount returns the number of time columns.
func (c Circuit) ColumnCount() int { return len(c.columns) }

// At returns the placement occupying slot (col, wire), if any.
func (c Circuit) At(col, wire int) (Placement, bool) {
	if col < 0 || col >= len(c.columns) || wire < 0 || wire >= c.wires {
		return Placement{}, false
	}
	id := c.columns[col][wire]
	if id == "" {
		return Placement{}, false
	}
	return c.arena[id].clone(), true
}

// Find locates a placement by id, returning its column index. Unknown ids
// are a benign not-found, not an error.
func (c Circuit) Find(id string) (col int, p Placement, ok bool) {
	if id == "" {
		return 0, Placement{}, false
	}
	for t, column := range c.columns {
		for _, slot := range column {
			if slot == id {
				return t, c.arena[id].clone(), true
			}
		}
	}
	return 0, Placement{}, false
}

// Located pairs a placement with the column it occupies.
type Located struct {
	Column    int
	Placement Placement
}

// Placements returns every committed placement with its column, in column
// then wire order. Multi-slot placements appear once.
func (c Circuit) Placements() []Located {
	var out []Located
	for t, column := range c.columns {
		seen := map[string]bool{}
		for _, id := range column {
			if id == "" || seen[id] {
				continue
			}
			seen[id] = true
			out = append(out, Located{Column: t, Placement: c.arena[id].clone()})
		}
	}
	return out
}

func (c Circuit) cloneStructure() Circuit {
	cols := make([][]string, len(c.columns))
	for i, col := range c.columns {
		cols[i] = append([]string{}, col...)
	}
	arena := make(map[string]Placement, len(c.arena))
	for id, p := range c.arena {
		arena[id] = p.clone()
	}
	return Circuit{wires: c.wires, columns: cols, arena: arena}
}

// EnsureColumns grows the circuit to at least n columns, appending empty
// ones. When the circuit already has n or more, the receiver is returned
// unchanged. Columns are never removed.
func (c Circuit) EnsureColumns(n int) Circuit {
	if n <= len(c.columns) {
		return c
	}
	out := c.cloneStructure()
	for len(out.columns) < n {
		out.columns = append(out.columns, make([]string, out.wires))
	}
	return out
}

// AddOptions controls how Add writes a placement into a column. The zero
// value gives the defensive defaults: occupy every involved wire and never
// clobber an occupied slot.
type AddOptions struct {
	// TargetsOnly writes only the target slots, leaving control wires
	// untouched. Used for the first phase of a two-wire placement, where
	// the second wire has not been chosen yet.
	TargetsOnly bool
	// Overwrite replaces occupied slots unconditionally. Used when
	// committing the second phase of a two-wire placement over its own
	// phase-one placeholder.
	Overwrite bool
}

// Add writes p into column col. It does not validate; callers run Validate
// first and abort on a negative verdict. Without Overwrite, slots that are
// already occupied are left untouched. When nothing ends up written the
// receiver is returned unchanged.
func (c Circuit) Add(col int, p Placement, opts AddOptions) Circuit {
	if col < 0 || col >= len(c.columns) {
		return c
	}
	wires := InvolvedWires(p)
	if opts.TargetsOnly {
		wires = append([]int{}, p.Targets...)
	}

	out := c.cloneStructure()
	wrote := false
	for _, w := range wires {
		if w < 0 || w >= out.wires {
			continue
		}
		if out.columns[col][w] != "" && !opts.Overwrite {
			continue
		}
		out.columns[col][w] = p.ID
		wrote = true
	}
	if !wrote {
		return c
	}
	out.arena[p.ID] = p.clone()
	out.sweepArena()
	return out
}

// Remove clears every slot referencing id across all columns. An unknown id
// returns the receiver unchanged.
func (c Circuit) Remove(id string) Circuit {
	if _, ok := c.arena[id]; !ok {
		return c
	}
	out := c.cloneStructure()
	for _, col := range out.columns {
		for w, slot := range col {
			if slot == id {
				col[w] = ""
			}
		}
	}
	delete(out.arena, id)
	return out
}

// Move relocates the placement with the given id to (newCol, newWire),
// rebuilding it as a single-target placement. Multi-wire placements are
// rejected: relocating only one of their wires would silently drop the
// other, so the circuit is returned unchanged. The move validates against
// the circuit with the gate's old slots excluded; an invalid destination
// also returns the circuit unchanged.
func (c Circuit) Move(id string, newCol, newWire int) Circuit {
	_, p, ok := c.Find(id)
	if !ok {
		return c
	}
	if len(InvolvedWires(p)) > 1 {
		return c
	}
	candidate := p.clone()
	candidate.Targets = []int{newWire}
	if v := c.Validate(newCol, candidate, id); !v.OK {
		return c
	}
	return c.Remove(id).Add(newCol, candidate, AddOptions{})
}

// sweepArena drops arena entries no slot references. Overwriting a slot can
// orphan the evicted placement's entry; occupancy in the columns is the
// source of truth.
func (c *Circuit) sweepArena() {
	live := make(map[string]bool, len(c.arena))
	for _, col := range c.columns {
		for _, id := range col {
			if id != "" {
				live[id] = true
			}
		}
	}
	for id := range c.arena {
		if !live[id] {
			delete(c.arena, id)
		}
	}
}
