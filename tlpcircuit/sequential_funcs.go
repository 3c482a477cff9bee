package tlpcircuit

import "github.com/tlsnotary/crgc-tlp/circuit"

// IdentityFunc returns a λ-bit sequential function that returns its input
// unchanged, built as a chain of self-AND buffer gates. Grounded on
// original_source/python-crgc/sequential_function.py's
// create_identity_function; useful as a placeholder f whose T-fold
// composition still gives a well-formed C_T without pulling in an
// external Bristol file, e.g. for exercising the builder's wiring in
// isolation from any real one-way delay function.
func IdentityFunc(lambda int) SequentialFunc {
	d := circuit.Details{InputABits: lambda, InputBBits: 0, NumOutputs: 1, OutputBits: lambda, NumWires: 2 * lambda, NumGates: lambda}
	c := &circuit.Circuit{Details: d}
	for j := 0; j < lambda; j++ {
		in := circuit.WireForInputBit(j, lambda)
		out := circuit.WireForOutputBit(d.NumWires, lambda, 0, j)
		c.Gates = append(c.Gates, circuit.Gate{Left: in, Right: in, Output: out, Table: circuit.TableAND})
	}
	return SequentialFunc{Lambda: lambda, Circuit: c}
}

// XORMixingFunc returns a λ-bit sequential function that left-rotates its
// input by one bit and XORs it with the original, a cheap non-identity
// stand-in for a real one-way delay function. Grounded on
// original_source/python-crgc/sequential_function.py's
// create_xor_mixing_function ("rotate-and-XOR mixing"); real deployments
// should instead compose an external Bristol file (e.g. SHA-256) as f, per
// §1's scoping of the hash function used as f as an external collaborator.
func XORMixingFunc(lambda int) SequentialFunc {
	d := circuit.Details{InputABits: lambda, InputBBits: 0, NumOutputs: 1, OutputBits: lambda}
	c := &circuit.Circuit{Details: d}
	next := lambda
	rotated := make([]int, lambda)
	for j := 0; j < lambda; j++ {
		// Left-rotate by one bit: array position j (0=MSB) takes the
		// value previously at position (j+1) mod lambda.
		srcBit := (j + 1) % lambda
		rotated[j] = circuit.WireForInputBit(srcBit, lambda)
	}

	numWires := next + lambda + lambda
	out := make([]int, lambda)
	for j := 0; j < lambda; j++ {
		xorWire := next
		next++
		c.Gates = append(c.Gates, circuit.Gate{
			Left:   circuit.WireForInputBit(j, lambda),
			Right:  rotated[j],
			Output: xorWire,
			Table:  circuit.TableXOR,
		})
		out[j] = xorWire
	}
	for j := 0; j < lambda; j++ {
		outWire := circuit.WireForOutputBit(numWires, lambda, 0, j)
		c.Gates = append(c.Gates, circuit.Gate{Left: out[j], Right: out[j], Output: outWire, Table: circuit.TableAND})
	}
	c.Details.NumWires = numWires
	c.Details.NumGates = len(c.Gates)
	return SequentialFunc{Lambda: lambda, Circuit: c}
}
