package garble

import (
	"io"

	"github.com/tlsnotary/crgc-tlp/circuit"
)

// FlipCircuit implements §4.3.2: it rewrites c's truth tables in place per
// the incoming flip pattern (row-swap for a flipped left parent, col-swap
// for a flipped right parent), then independently coin-flips whether to
// negate each non-output gate's table, extending flipped with the
// resulting output-wire flip bits.
//
// c is mutated in place. flipped must already be sized to
// c.Details.NumWires (as ObfuscateInput and FlipWithPk produce) and is
// mutated in place too.
func FlipCircuit(rand io.Reader, c *circuit.Circuit, flipped FlipPattern) error {
	d := c.Details
	for gi := range c.Gates {
		g := &c.Gates[gi]
		if flipped[g.Left] {
			g.Table.SwapRows()
		}
		if flipped[g.Right] {
			g.Table.SwapCols()
		}
		if d.IsOutputWire(g.Output) {
			continue
		}
		heads, err := randomBit(rand)
		if err != nil {
			return err
		}
		if heads {
			g.Table.Negate()
			flipped[g.Output] = true
		}
	}
	return nil
}
