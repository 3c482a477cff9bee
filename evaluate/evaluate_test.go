package evaluate_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/tlsnotary/crgc-tlp/circuit"
	"github.com/tlsnotary/crgc-tlp/evaluate"
)

// buildAdder returns a small ripple-carry adder over `width` bits (A + B,
// with a `width`-bit wraparound sum, no explicit carry-out output) built
// directly against the circuit package, standing in for a real adder64.txt
// fixture that is not present in the retrieval pack.
func buildAdder(width int) *circuit.Circuit {
	d := circuit.Details{
		InputABits: width,
		InputBBits: width,
		NumOutputs: 1,
		OutputBits: width,
	}
	next := d.TotalInputBits()
	alloc := func() int {
		w := next
		next++
		return w
	}

	c := &circuit.Circuit{Details: d}
	carry := -1 // -1 means "constant false", represented by omitting a parent
	sumWires := make([]int, width)

	for i := width - 1; i >= 0; i-- {
		aWire := circuit.WireForInputBit(i, width)
		bWire := width + circuit.WireForInputBit(i, width)

		axb := alloc()
		c.Gates = append(c.Gates, circuit.Gate{Left: aWire, Right: bWire, Output: axb, Table: circuit.TableXOR})

		var sumWire, carryOutWire int
		if carry < 0 {
			sumWire = axb
			carryOutWire = alloc()
			c.Gates = append(c.Gates, circuit.Gate{Left: aWire, Right: bWire, Output: carryOutWire, Table: circuit.TableAND})
		} else {
			sumWire = alloc()
			c.Gates = append(c.Gates, circuit.Gate{Left: axb, Right: carry, Output: sumWire, Table: circuit.TableXOR})

			aXbAndC := alloc()
			c.Gates = append(c.Gates, circuit.Gate{Left: axb, Right: carry, Output: aXbAndC, Table: circuit.TableAND})
			abAnd := alloc()
			c.Gates = append(c.Gates, circuit.Gate{Left: aWire, Right: bWire, Output: abAnd, Table: circuit.TableAND})
			carryOutWire = alloc()
			c.Gates = append(c.Gates, circuit.Gate{Left: aXbAndC, Right: abAnd, Output: carryOutWire, Table: circuit.TableOR})
		}
		sumWires[i] = sumWire
		carry = carryOutWire
	}

	numWires := next + width
	c.Details.NumWires = numWires
	// Relocate the last `width` sum wires to the final output block by
	// wiring buffer (self-AND) gates, so the output-wire block is
	// contiguous at the top of the wire range as the data model requires.
	finalGates := make([]circuit.Gate, 0, width)
	for i := 0; i < width; i++ {
		out := circuit.WireForOutputBit(numWires, width, 0, i)
		finalGates = append(finalGates, circuit.Gate{Left: sumWires[i], Right: sumWires[i], Output: out, Table: circuit.TableAND})
	}
	c.Gates = append(c.Gates, finalGates...)
	c.Details.NumGates = len(c.Gates)
	return c
}

func TestEvaluateAdderBaseline(t *testing.T) {
	c := buildAdder(8)
	require.NoError(t, c.Validate())

	out, err := evaluate.Evaluate(c, evaluate.BitsFromUint(42, 8), evaluate.BitsFromUint(17, 8))
	require.NoError(t, err)
	require.EqualValues(t, 59, evaluate.UintFromBits(out))
}

func TestEvaluateAdderOverflowWraps(t *testing.T) {
	c := buildAdder(8)
	out, err := evaluate.Evaluate(c, evaluate.BitsFromUint(255, 8), evaluate.BitsFromUint(1, 8))
	require.NoError(t, err)
	require.EqualValues(t, 0, evaluate.UintFromBits(out))
}

func TestEvaluateIsDeterministic(t *testing.T) {
	c := buildAdder(8)
	a := evaluate.BitsFromUint(200, 8)
	b := evaluate.BitsFromUint(90, 8)
	first, err := evaluate.Evaluate(c, a, b)
	require.NoError(t, err)
	for i := 0; i < 5; i++ {
		out, err := evaluate.Evaluate(c, a, b)
		require.NoError(t, err)
		require.Equal(t, first, out)
	}
}

func TestEvaluateRejectsWrongInputWidth(t *testing.T) {
	c := buildAdder(8)
	_, err := evaluate.Evaluate(c, evaluate.BitsFromUint(1, 4), evaluate.BitsFromUint(1, 8))
	require.Error(t, err)
}

func TestEvaluateRejectsNonTopologicalGate(t *testing.T) {
	c := &circuit.Circuit{
		Details: circuit.Details{InputABits: 1, InputBBits: 1, NumWires: 3, NumOutputs: 1, OutputBits: 1},
		Gates: []circuit.Gate{
			{Left: 2, Right: 0, Output: 2, Table: circuit.TableXOR},
		},
	}
	_, err := evaluate.Evaluate(c, []bool{true}, []bool{false})
	require.Error(t, err)
}
