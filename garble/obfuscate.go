// Package garble implements the garbler pipeline: input obfuscation,
// truth-table flipping, fixed-gate identification with integrity repair,
// backward intermediary-gate discovery, and randomization of leaked
// tables.
//
// Grounded on original_source/python-crgc/crgc/circuit_obfuscator.py,
// circuit_integrity_breaker.py and helper_functions.py, in the
// per-phase-function style of
// tlsnotary-server/src/garbler/garbler.go's garble/garbleAnd/garbleXor.
package garble

import (
	"io"

	"github.com/tlsnotary/crgc-tlp/circuit"
	"github.com/tlsnotary/crgc-tlp/crgcerr"
)

// FlipPattern is a per-wire boolean saying whether a wire's observed value
// is the negation of its semantic value, per §3's data model.
type FlipPattern []bool

// ObfuscateInput implements §4.3.1: it samples a fresh obfuscated input A′
// of the same length as a, and returns the flip pattern (zero everywhere
// except on input-A wires) that records where A′ disagrees with a.
func ObfuscateInput(rand io.Reader, d circuit.Details, a []bool) (aPrime []bool, flipped FlipPattern, err error) {
	if len(a) != d.InputABits {
		return nil, nil, crgcerr.NewInvalidInput("input_a", "expected %d bits, got %d", d.InputABits, len(a))
	}
	aPrime, err = randomBits(rand, d.InputABits)
	if err != nil {
		return nil, nil, err
	}

	flipped = make(FlipPattern, d.NumWires)
	for i := range a {
		wire := circuit.WireForInputBit(i, d.InputABits)
		flipped[wire] = aPrime[i] != a[i]
	}
	return aPrime, flipped, nil
}

// ObfuscateInputKeyOnly samples a fresh, uniformly random encoding key pk
// of length d.InputABits, with no comparison against any concrete input.
// PSetup uses this: at garble-once time there is no input A yet to
// obfuscate, only the key that will later encode one via PGen's
// x_tilde_A[j] = A_bundle[j] XOR pk[wire_of_bit_j].
func ObfuscateInputKeyOnly(rand io.Reader, d circuit.Details) (FlipPattern, error) {
	bits, err := randomBits(rand, d.InputABits)
	if err != nil {
		return nil, err
	}
	return FlipPattern(bits), nil
}

// randomBits draws n independent uniformly random bits from rand.
func randomBits(rand io.Reader, n int) ([]bool, error) {
	if n == 0 {
		return nil, nil
	}
	buf := make([]byte, (n+7)/8)
	if _, err := io.ReadFull(rand, buf); err != nil {
		return nil, crgcerr.NewRandomnessUnavailable(err)
	}
	bits := make([]bool, n)
	for i := range bits {
		bits[i] = (buf[i/8]>>(uint(i)%8))&1 == 1
	}
	return bits, nil
}

// randomBit draws a single uniformly random bit.
func randomBit(rand io.Reader) (bool, error) {
	bits, err := randomBits(rand, 1)
	if err != nil {
		return false, err
	}
	return bits[0], nil
}
