package garble

import (
	"io"

	"github.com/tlsnotary/crgc-tlp/circuit"
	"github.com/tlsnotary/crgc-tlp/crgcerr"
	"github.com/tlsnotary/crgc-tlp/telemetry"
)

// GarbledCircuit is a garbled circuit (rewritten truth tables) paired with
// the encoding key pk over input-A wires, per §3's data model.
type GarbledCircuit struct {
	Circuit *circuit.Circuit
	// Pk is the flip pattern over input-A wires only: the "encoding key"
	// a caller uses to re-encode fresh A-side inputs without re-garbling.
	Pk FlipPattern
}

// Garble runs the full §4.3 pipeline over c for generator input a: input
// obfuscation, circuit flipping, fixed-gate identification with integrity
// repair, backward intermediary discovery, and leaked-gate regeneration.
// It returns the obfuscated input A′ and the resulting GarbledCircuit; c
// itself is left untouched (a clone is mutated).
func Garble(rand io.Reader, c *circuit.Circuit, a []bool) (aPrime []bool, gc *GarbledCircuit, err error) {
	log := telemetry.Logger()
	working := c.Clone()

	aPrime, flipped, err := ObfuscateInput(rand, working.Details, a)
	if err != nil {
		return nil, nil, err
	}

	if err := FlipCircuit(rand, working, flipped); err != nil {
		return nil, nil, err
	}

	fixed := IdentifyFixedGates(working, aPrime)
	parents := working.Parents()
	intermediary := IntermediaryWires(working.Details, parents, fixed)
	leaks := LeakageGates(working, fixed, intermediary)

	log.Debug().
		Int("gates", len(working.Gates)).
		Int("fixed_wires", countTrue(fixed)).
		Int("intermediary_wires", countTrue(intermediary)).
		Int("leaked_gates", len(leaks)).
		Msg("garble: pipeline stage counts")

	if err := RegenerateLeakedGates(rand, working, leaks); err != nil {
		return nil, nil, err
	}

	pk := make(FlipPattern, working.Details.InputABits)
	for i := range pk {
		pk[i] = flipped[circuit.WireForInputBit(i, working.Details.InputABits)]
	}

	return aPrime, &GarbledCircuit{Circuit: working, Pk: pk}, nil
}

// FlipWithPk runs only §4.3.2 (circuit flipping) against a freshly sampled
// encoding key pk, embedding it into a zero-initialized full-length flip
// vector exactly as ObfuscateInput does. This is what PSetup uses to
// garble C_T once, without running the input-obfuscation-specific stages
// §4.3.3-4.3.5 that depend on a concrete input A: at PSetup time there is
// no input yet, only the key that will later encode one.
//
// Seeding only the input-A wires (rather than the full num_wires-length
// vector some presentations of §4.6 step 2 suggest) is deliberate: leaving
// gate-output wires' flip bits at their honest zero value until §4.3.2
// itself sets them is what the data model in §3 requires (pk is defined
// there as "FlipPattern over input-A wires" only), and is what keeps
// PSolve correct with probability 1 rather than only most of the time.
func FlipWithPk(rand io.Reader, c *circuit.Circuit, pk FlipPattern) error {
	d := c.Details
	if len(pk) != d.InputABits {
		return crgcerr.NewInvalidInput("pk", "expected %d bits, got %d", d.InputABits, len(pk))
	}
	flipped := make(FlipPattern, d.NumWires)
	for i, bit := range pk {
		flipped[circuit.WireForInputBit(i, d.InputABits)] = bit
	}
	return FlipCircuit(rand, c, flipped)
}

func countTrue(bits []bool) int {
	n := 0
	for _, b := range bits {
		if b {
			n++
		}
	}
	return n
}
