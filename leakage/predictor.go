// Package leakage implements the input-independent leakage predictor of
// §4.4: a diagnostic that reports, from circuit topology alone, which
// input-A bits a garbling of this circuit could expose to the evaluator.
//
// Grounded on original_source/python-crgc/crgc/leakage_predictor.py's
// get_potentially_obfuscated_fixed_gates / get_leaked_inputs, reusing the
// same backward-BFS shape as garble.IntermediaryWires (§4.3.4) but without
// any concrete input.
package leakage

import "github.com/tlsnotary/crgc-tlp/circuit"

// Report is predict_leakage's diagnostic output.
type Report struct {
	// LeakedInputABits lists, in ascending order, the input-A bit indices
	// (0 = most significant bit of A) inferable from circuit structure
	// alone.
	LeakedInputABits []int
	// PotentiallyObfuscatedWires is the count of gate-output wires that the
	// forward pass marks potentially obfuscated (candidates for leakage).
	PotentiallyObfuscatedWires int
	// IntermediaryWires is the count of wires reachable from the outputs
	// by the backward BFS: wires that carry semantic information forward.
	IntermediaryWires int
}

// Predict runs §4.4 over c: forward propagation of "potentially
// obfuscated" status from input-A wires, then the same backward BFS
// pattern §4.3.4 uses to find which of those are actually load-bearing for
// some output. Any potentially-obfuscated wire that a gate ends up NOT
// reading through on the way to an output is a leakage candidate; every
// input-A bit it is transitively computed from is reported as leaked.
func Predict(c *circuit.Circuit) Report {
	d := c.Details
	potentiallyObfuscated := make([]bool, d.NumWires)
	for w := 0; w < d.InputABits; w++ {
		potentiallyObfuscated[w] = true
	}

	for _, g := range c.Gates {
		lo, ro := potentiallyObfuscated[g.Left], potentiallyObfuscated[g.Right]
		switch {
		case lo && ro:
			potentiallyObfuscated[g.Output] = true
		case lo && !ro:
			// Left is the potentially-obfuscated parent; the output is
			// marked potentially obfuscated only if the table depends on
			// the unobfuscated right parent.
			potentiallyObfuscated[g.Output] = dependsOnRight(g.Table)
		case ro && !lo:
			potentiallyObfuscated[g.Output] = dependsOnLeft(g.Table)
		}
	}

	parents := c.Parents()
	intermediary := make([]bool, d.NumWires)
	queue := make([]int, 0, d.NumOutputs*d.OutputBits)
	for w := d.OutputStart(); w < d.NumWires; w++ {
		intermediary[w] = true
		queue = append(queue, w)
	}
	for len(queue) > 0 {
		w := queue[0]
		queue = queue[1:]
		for _, p := range parents[w] {
			if d.IsInputWire(p) {
				continue
			}
			if potentiallyObfuscated[p] {
				// A potentially-obfuscated wire's value came from input-A,
				// not a live dependency on its own parents' semantic bits;
				// never mark it intermediary or walk past it.
				continue
			}
			if !intermediary[p] {
				intermediary[p] = true
				queue = append(queue, p)
			}
		}
	}

	leakedBits := map[int]bool{}
	obfuscatedWireCount := 0
	for _, g := range c.Gates {
		if !potentiallyObfuscated[g.Output] {
			continue
		}
		obfuscatedWireCount++
		if intermediary[g.Output] {
			continue
		}
		collectInputAAncestors(g.Output, parents, d.InputABits, d.TotalInputBits(), leakedBits)
	}

	bits := make([]int, 0, len(leakedBits))
	for w := range leakedBits {
		bits = append(bits, w)
	}
	sortInts(bits)

	intermediaryCount := 0
	for _, b := range intermediary {
		if b {
			intermediaryCount++
		}
	}

	return Report{
		LeakedInputABits:           wireIndicesToBitIndices(bits, d.InputABits),
		PotentiallyObfuscatedWires: obfuscatedWireCount,
		IntermediaryWires:          intermediaryCount,
	}
}

// collectInputAAncestors walks backward from wire w through parents,
// recording every input-A wire id reached, and stopping recursion at any
// input wire (input wires carry no parents to follow).
func collectInputAAncestors(w int, parents [][2]int, inputABits, totalInputBits int, out map[int]bool) {
	if w < inputABits {
		out[w] = true
		return
	}
	if w < totalInputBits {
		return
	}
	p := parents[w]
	if p[0] != w {
		collectInputAAncestors(p[0], parents, inputABits, totalInputBits, out)
	}
	if p[1] != w && p[1] != p[0] {
		collectInputAAncestors(p[1], parents, inputABits, totalInputBits, out)
	}
}

func dependsOnLeft(t circuit.Table) bool {
	return t[0][0] != t[1][0] || t[0][1] != t[1][1]
}

func dependsOnRight(t circuit.Table) bool {
	return t[0][0] != t[0][1] || t[1][0] != t[1][1]
}

// wireIndicesToBitIndices maps input-A wire ids back to bit indices in the
// caller's original MSB-first bit array (the inverse of
// circuit.WireForInputBit).
func wireIndicesToBitIndices(wires []int, inputABits int) []int {
	out := make([]int, len(wires))
	for i, w := range wires {
		out[i] = inputABits - 1 - w
	}
	sortInts(out)
	return out
}

func sortInts(s []int) {
	for i := 1; i < len(s); i++ {
		for j := i; j > 0 && s[j-1] > s[j]; j-- {
			s[j-1], s[j] = s[j], s[j-1]
		}
	}
}
