package garble

import (
	"io"

	"github.com/tlsnotary/crgc-tlp/circuit"
)

// RegenerateLeakedGates implements §4.3.5: for each gate index in leaks it
// overwrites the gate's table with a fresh random one. Level-1 gates (one
// parent is an input wire) get a balanced XOR-shaped table so their
// output stays uniform; every other leaked gate gets a uniformly random
// non-constant table.
func RegenerateLeakedGates(rand io.Reader, c *circuit.Circuit, leaks []int) error {
	for _, gi := range leaks {
		g := &c.Gates[gi]
		if g.IsLevelOne(c.Details) {
			b, err := randomBit(rand)
			if err != nil {
				return err
			}
			g.Table = circuit.Table{{b, !b}, {!b, b}}
			continue
		}
		tbl, err := randomNonConstantTable(rand)
		if err != nil {
			return err
		}
		g.Table = tbl
	}
	return nil
}

// randomNonConstantTable rejection-samples a uniformly random 2x2 table
// that is not all-0 or all-1.
func randomNonConstantTable(rand io.Reader) (circuit.Table, error) {
	for {
		bits, err := randomBits(rand, 4)
		if err != nil {
			return circuit.Table{}, err
		}
		tbl := circuit.Table{{bits[0], bits[1]}, {bits[2], bits[3]}}
		if !tbl.IsConstant() {
			return tbl, nil
		}
	}
}
