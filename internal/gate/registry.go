// Package gate holds the static catalog of gate kinds the composer knows
// about: display metadata and wire arity. The catalog is fixed at compile
// time; looking up a kind that is not in it is a programming error.
package gate

import (
	"fmt"
	"math"
)

// Kind identifies a gate type.
type Kind string

const (
	Hadamard Kind = "H"
	PauliX   Kind = "X"
	PauliY   Kind = "Y"
	PauliZ   Kind = "Z"
	PhaseS   Kind = "S"
	PhaseT   Kind = "T"
	RX       Kind = "RX"
	RY       Kind = "RY"
	RZ       Kind = "RZ"
	CNOT     Kind = "CNOT"
	CZ       Kind = "CZ"
	SWAP     Kind = "SWAP"
)

// Arity classifies how many wires a gate spans and in what roles.
type Arity int

const (
	// AritySingle gates act on exactly one target wire.
	AritySingle Arity = iota
	// ArityControlled gates have one target and one control wire (CNOT, CZ).
	ArityControlled
	// ArityTwoTarget gates have two targets and no control distinction (SWAP).
	ArityTwoTarget
)

// DefaultTheta is the rotation angle used when a rotation placement carries
// no explicit parameter.
const DefaultTheta = math.Pi / 2

// Info describes one gate kind: symbol shown in a grid cell, tooltip title,
// arity class, and the names of any angle parameters.
type Info struct {
	Label      string
	Title      string
	Arity      Arity
	ParamNames []string
}

var catalog = map[Kind]Info{
	Hadamard: {Label: "H", Title: "Hadamard"},
	PauliX:   {Label: "X", Title: "Pauli-X (NOT)"},
	PauliY:   {Label: "Y", Title: "Pauli-Y"},
	PauliZ:   {Label: "Z", Title: "Pauli-Z"},
	PhaseS:   {Label: "S", Title: "Phase (S)"},
	PhaseT:   {Label: "T", Title: "Phase (T, π/8)"},
	RX:       {Label: "RX", Title: "Rotation around X", ParamNames: []string{"theta"}},
	RY:       {Label: "RY", Title: "Rotation around Y", ParamNames: []string{"theta"}},
	RZ:       {Label: "RZ", Title: "Rotation around Z", ParamNames: []string{"theta"}},
	CNOT:     {Label: "CX", Title: "Controlled-NOT", Arity: ArityControlled},
	CZ:       {Label: "CZ", Title: "Controlled-Z", Arity: ArityControlled},
	SWAP:     {Label: "SW", Title: "Swap", Arity: ArityTwoTarget},
}

// kindOrder is the stable display order used by the editor's gate menu.
var kindOrder = []Kind{
	Hadamard, PauliX, PauliY, PauliZ, PhaseS, PhaseT,
	RX, RY, RZ,
	CNOT, CZ, SWAP,
}

// Lookup returns the catalog entry for k, reporting whether k is known.
func Lookup(k Kind) (Info, bool) {
	info, ok := catalog[k]
	return info, ok
}

// MustInfo returns the catalog entry for k and panics if k is unknown.
// An unknown kind here means a caller fabricated a Kind value; that is an
// internal consistency error, not a recoverable condition.
func MustInfo(k Kind) Info {
	info, ok := catalog[k]
	if !ok {
		panic(fmt.Sprintf("gate: unknown kind %q", k))
	}
	return info
}

// Kinds returns all known kinds in display order.
func Kinds() []Kind {
	out := make([]Kind, len(kindOrder))
	copy(out, kindOrder)
	return out
}

// IsTwoWire reports whether k spans two wires (controlled or two-target).
func IsTwoWire(k Kind) bool {
	return MustInfo(k).Arity != AritySingle
}

// IsParameterized reports whether k takes angle parameters.
func IsParameterized(k Kind) bool {
	return len(MustInfo(k).ParamNames) > 0
}
