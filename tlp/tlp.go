// Package tlp implements the Time-Lock Puzzle algorithms of §4.6:
// PSetup (one-time garble of the T-fold unrolled circuit), PGen (fast
// puzzle creation under Goldreich-Levin masking), and PSolve (Θ(T)
// sequential evaluation and unmask).
//
// Grounded on original_source/python-crgc/tlp_python_garbling.py's
// PythonGarbledTLP (PSetup_Garble/PGen/PSolve_Garbled), with one
// deliberate correctness fix documented in DESIGN.md: the encoding key pk
// is sampled only over input-A wires (per §3's data model), not over the
// full num_wires-length vector, which is what the source's 60-80%
// round-trip success rate traces back to.
package tlp

import (
	"io"

	"github.com/bwesterb/go-ristretto"

	"github.com/tlsnotary/crgc-tlp/crgcerr"
	"github.com/tlsnotary/crgc-tlp/evaluate"
	"github.com/tlsnotary/crgc-tlp/garble"
	"github.com/tlsnotary/crgc-tlp/telemetry"
	"github.com/tlsnotary/crgc-tlp/tlpcircuit"
)

// PuzzleID is an opaque, high-entropy identifier for one PGen call, sampled
// as a ristretto255 scalar the way the teacher's OT handshake samples its
// exponents (new(ristretto.Scalar).Rand()) - reused here purely as a
// collision-resistant tag, with no group operation ever performed on it.
type PuzzleID [32]byte

// PublicParams is pp = (C̃, pk): the garbled unrolled circuit and its
// encoding key, produced once by PSetup and safe to share across many
// PGen/PSolve calls.
type PublicParams struct {
	Lambda int
	T      int
	Layout tlpcircuit.Layout
	// Garbled is the garbled C_T. Its Pk field is the encoding key pk;
	// Circuit is C̃.
	Garbled *garble.GarbledCircuit
}

// Puzzle is Z = (x_tilde, r, c) from §3: the encoded input bundle for one
// puzzle, a λ-bit random mask, and the single masked Goldreich-Levin bit.
type Puzzle struct {
	ID PuzzleID
	// XTildeA is the A-side bundle (b, x, i) encoded under pk: XOR of the
	// plaintext bundle bits with pk on each input-A wire.
	XTildeA []bool
	// BBundle is the (unencoded) B-side bundle (m, z); B-side wires carry
	// no encoding key in this construction.
	BBundle []bool
	R       []bool
	C       bool
}

// PSetup builds C_T for the given sequential function and unrolling count
// T, samples a fresh encoding key pk, and garbles C_T once against it.
func PSetup(rand io.Reader, f tlpcircuit.SequentialFunc, t int) (*PublicParams, error) {
	ct, layout, err := tlpcircuit.Build(f, t)
	if err != nil {
		return nil, err
	}

	pk, err := garble.ObfuscateInputKeyOnly(rand, ct.Details)
	if err != nil {
		return nil, err
	}
	if err := garble.FlipWithPk(rand, ct, pk); err != nil {
		return nil, err
	}

	log := telemetry.Logger()
	log.Info().
		Int("lambda", f.Lambda).Int("t", t).
		Int("num_wires", ct.Details.NumWires).Int("num_gates", ct.Details.NumGates).
		Msg("tlp: PSetup garbled C_T")

	return &PublicParams{
		Lambda:  f.Lambda,
		T:       t,
		Layout:  layout,
		Garbled: &garble.GarbledCircuit{Circuit: ct, Pk: pk},
	}, nil
}

// PGen implements §4.6's PGen: it samples fresh x, m, r, forms the A-side
// bundle (b=0, x, i=1) and B-side bundle (m, z=0), encodes the A-side
// bundle under pp's pk, and computes the Goldreich-Levin masked bit
// c = ⟨r, m⟩ ⊕ s.
func PGen(rand io.Reader, pp *PublicParams, s bool) (*Puzzle, error) {
	lambda := pp.Lambda
	x, err := randomBits(rand, lambda)
	if err != nil {
		return nil, err
	}
	m, err := randomBits(rand, lambda)
	if err != nil {
		return nil, err
	}
	r, err := randomBits(rand, lambda)
	if err != nil {
		return nil, err
	}
	id, err := randomPuzzleID()
	if err != nil {
		return nil, err
	}

	aBundle := assembleABundle(pp.Layout, false, x)
	bBundle := assembleBBundle(pp.Layout, m, make([]bool, lambda))

	xTildeA := make([]bool, len(aBundle))
	for i, bit := range aBundle {
		xTildeA[i] = bit != pp.Garbled.Pk[i]
	}

	c := goldreichLevin(r, m) != s

	return &Puzzle{
		ID:      id,
		XTildeA: xTildeA,
		BBundle: bBundle,
		R:       r,
		C:       c,
	}, nil
}

// PSolve implements §4.6's PSolve: it evaluates C̃ on (x_tilde_A, B_bundle)
// via §4.1, takes the result as y, and returns s = c ⊕ ⟨y, r⟩.
func PSolve(pp *PublicParams, z *Puzzle) (bool, error) {
	if len(z.XTildeA) != pp.Garbled.Circuit.Details.InputABits {
		return false, crgcerr.NewIncompatibleState("puzzle A-bundle width %d does not match pp's input_a_bits %d", len(z.XTildeA), pp.Garbled.Circuit.Details.InputABits)
	}
	if len(z.BBundle) != pp.Garbled.Circuit.Details.InputBBits {
		return false, crgcerr.NewIncompatibleState("puzzle B-bundle width %d does not match pp's input_b_bits %d", len(z.BBundle), pp.Garbled.Circuit.Details.InputBBits)
	}
	if len(z.R) != pp.Lambda {
		return false, crgcerr.NewIncompatibleState("puzzle mask width %d does not match pp's lambda %d", len(z.R), pp.Lambda)
	}

	y, err := evaluate.Evaluate(pp.Garbled.Circuit, z.XTildeA, z.BBundle)
	if err != nil {
		return false, err
	}
	return goldreichLevin(z.R, y) != z.C, nil
}

// assembleABundle packs (b, x, i=1) into an A-side MSB-first bit array per
// layout, ready for evaluate.Evaluate or for XOR-encoding under pk.
func assembleABundle(layout tlpcircuit.Layout, b bool, x []bool) []bool {
	bundle := make([]bool, layout.InputABits)
	set := func(wire int, val bool) { bundle[layout.InputABits-1-wire] = val }
	set(layout.BWire, b)
	for j, w := range layout.XWires {
		set(w, x[j])
	}
	for j, w := range layout.IWires {
		set(w, j == len(layout.IWires)-1)
	}
	return bundle
}

// assembleBBundle packs (m, z) into a B-side MSB-first bit array.
func assembleBBundle(layout tlpcircuit.Layout, m, z []bool) []bool {
	bundle := make([]bool, layout.InputBBits)
	set := func(wire int, val bool) { bundle[layout.InputABits+layout.InputBBits-1-wire] = val }
	for j, w := range layout.MWires {
		set(w, m[j])
	}
	for j, w := range layout.ZWires {
		set(w, z[j])
	}
	return bundle
}

// goldreichLevin computes popcount(r AND m) mod 2, the Goldreich-Levin
// predicate ⟨r, m⟩.
func goldreichLevin(r, m []bool) bool {
	parity := 0
	for i := range r {
		if r[i] && m[i] {
			parity ^= 1
		}
	}
	return parity == 1
}

func randomBits(rand io.Reader, n int) ([]bool, error) {
	if n == 0 {
		return nil, nil
	}
	buf := make([]byte, (n+7)/8)
	if _, err := io.ReadFull(rand, buf); err != nil {
		return nil, crgcerr.NewRandomnessUnavailable(err)
	}
	out := make([]bool, n)
	for i := range out {
		out[i] = (buf[i/8]>>(uint(i)%8))&1 == 1
	}
	return out, nil
}

// randomPuzzleID samples a ristretto255 scalar the same way the teacher
// samples its OT exponents (new(ristretto.Scalar).Rand()) and takes its
// byte encoding as an opaque, collision-resistant puzzle tag. No group
// operation is ever performed on it; it is used purely as an identifier.
func randomPuzzleID() (PuzzleID, error) {
	s := new(ristretto.Scalar).Rand()
	var id PuzzleID
	copy(id[:], s.Bytes())
	return id, nil
}
