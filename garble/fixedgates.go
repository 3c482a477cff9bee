package garble

import "github.com/tlsnotary/crgc-tlp/circuit"

// knownState tracks §4.3.3's is_known/known_val arrays across the circuit.
type knownState struct {
	known bool
	value bool
}

// IdentifyFixedGates implements §4.3.3: it walks gates in order, marking
// wires whose value is pinned by aPrime (the obfuscated input A) as known,
// propagating that knowledge through gates whose output is thereby fully
// or partially determined, and repairing the loses-a-degree-of-freedom
// case by copying the observed row/column onto the unobserved one so the
// table's behavior on the true input bit is preserved.
//
// A circuit-output wire is never marked known. When an output gate's value
// is pinned by its known parent(s), its table is made independent of them
// (the observed row/column is copied, or the whole table set to the pinned
// value when both parents are known), so that replacing those parents'
// tables in §4.3.5 cannot change the output.
//
// c is mutated in place (the integrity-repair copy). It returns, per wire,
// whether that wire's value is fully pinned by aPrime alone.
func IdentifyFixedGates(c *circuit.Circuit, aPrime []bool) []bool {
	d := c.Details
	state := make([]knownState, d.NumWires)
	for i, bit := range aPrime {
		wire := circuit.WireForInputBit(i, d.InputABits)
		state[wire] = knownState{known: true, value: bit}
	}

	for gi := range c.Gates {
		g := &c.Gates[gi]
		l, r := state[g.Left], state[g.Right]
		isOutput := d.IsOutputWire(g.Output)

		switch {
		case l.known && r.known:
			v := g.Table[b2i(l.value)][b2i(r.value)]
			if !isOutput {
				state[g.Output] = knownState{known: true, value: v}
			} else {
				g.Table = circuit.Table{{v, v}, {v, v}}
			}

		case l.known && !r.known:
			v := l.value
			row := g.Table[b2i(v)]
			if row[0] == row[1] && !isOutput {
				state[g.Output] = knownState{known: true, value: row[0]}
			} else {
				g.Table[b2i(!v)][0] = row[0]
				g.Table[b2i(!v)][1] = row[1]
			}

		case r.known && !l.known:
			v := r.value
			col := [2]bool{g.Table[0][b2i(v)], g.Table[1][b2i(v)]}
			if col[0] == col[1] && !isOutput {
				state[g.Output] = knownState{known: true, value: col[0]}
			} else {
				g.Table[0][b2i(!v)] = col[0]
				g.Table[1][b2i(!v)] = col[1]
			}
		}
	}

	fixed := make([]bool, d.NumWires)
	for w, s := range state {
		fixed[w] = s.known
	}
	return fixed
}

func b2i(b bool) int {
	if b {
		return 1
	}
	return 0
}
