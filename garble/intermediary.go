package garble

import "github.com/tlsnotary/crgc-tlp/circuit"

// IntermediaryWires implements §4.3.4's backward BFS: starting from every
// circuit-output wire, it walks parents through non-fixed edges and marks
// every wire reached as "intermediary" (semantically load-bearing for some
// output). fixed is IdentifyFixedGates's result; parents is
// (*circuit.Circuit).Parents().
//
// A fixed gate-output wire that is not intermediary is pure leakage: its
// table can be freely replaced (§4.3.5) without affecting any output.
func IntermediaryWires(d circuit.Details, parents [][2]int, fixed []bool) []bool {
	intermediary := make([]bool, d.NumWires)
	queue := make([]int, 0, d.NumOutputs*d.OutputBits)
	for w := d.OutputStart(); w < d.NumWires; w++ {
		if !intermediary[w] {
			intermediary[w] = true
			queue = append(queue, w)
		}
	}

	for len(queue) > 0 {
		w := queue[0]
		queue = queue[1:]
		for _, p := range parents[w] {
			if d.IsInputWire(p) {
				continue
			}
			if fixed[p] {
				// A fixed wire's value came from a known constant, not a
				// live dependency on its own parents' semantic bits; never
				// mark it intermediary or walk past it.
				continue
			}
			if !intermediary[p] {
				intermediary[p] = true
				queue = append(queue, p)
			}
		}
	}
	return intermediary
}

// LeakageGates returns the indices into c.Gates whose output wire is fixed
// (known from aPrime alone) and not intermediary: exactly the gates §4.3.5
// must regenerate.
func LeakageGates(c *circuit.Circuit, fixed, intermediary []bool) []int {
	var leaks []int
	for gi, g := range c.Gates {
		if fixed[g.Output] && !intermediary[g.Output] {
			leaks = append(leaks, gi)
		}
	}
	return leaks
}
