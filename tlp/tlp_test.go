package tlp_test

import (
	"crypto/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/tlsnotary/crgc-tlp/tlp"
	"github.com/tlsnotary/crgc-tlp/tlpcircuit"
)

// TestRoundTripAlwaysRecoversSecretBit is the property §8 demands and §9
// says the source's PSetup_Garble passes only 60-80% of the time: for a fixed
// pp, PSolve(pp, PGen(pp, s)) must equal s on every single trial, not just
// most of them. It exercises garble.FlipWithPk's input-A-only key, the fix
// documented in DESIGN.md.
func TestRoundTripAlwaysRecoversSecretBit(t *testing.T) {
	f := tlpcircuit.XORMixingFunc(16)
	pp, err := tlp.PSetup(rand.Reader, f, 3)
	require.NoError(t, err)

	const trials = 64
	for i := 0; i < trials; i++ {
		for _, s := range []bool{false, true} {
			puzzle, err := tlp.PGen(rand.Reader, pp, s)
			require.NoError(t, err)
			got, err := tlp.PSolve(pp, puzzle)
			require.NoError(t, err)
			require.Equal(t, s, got, "round trip failed on trial %d for s=%v", i, s)
		}
	}
}

// TestRoundTripWithIdentityFunc repeats the property with a different
// sequential function and unrolling count, since the wiring between
// PSetup's circuit and PGen/PSolve's bundle layout is the thing under test,
// not any property specific to XORMixingFunc.
func TestRoundTripWithIdentityFunc(t *testing.T) {
	f := tlpcircuit.IdentityFunc(8)
	pp, err := tlp.PSetup(rand.Reader, f, 5)
	require.NoError(t, err)

	for i := 0; i < 32; i++ {
		s := i%2 == 0
		puzzle, err := tlp.PGen(rand.Reader, pp, s)
		require.NoError(t, err)
		got, err := tlp.PSolve(pp, puzzle)
		require.NoError(t, err)
		require.Equal(t, s, got)
	}
}

// TestPuzzleIDsAreDistinct checks PGen samples a fresh, non-degenerate ID
// per call rather than reusing a zero value.
func TestPuzzleIDsAreDistinct(t *testing.T) {
	f := tlpcircuit.IdentityFunc(8)
	pp, err := tlp.PSetup(rand.Reader, f, 2)
	require.NoError(t, err)

	p1, err := tlp.PGen(rand.Reader, pp, true)
	require.NoError(t, err)
	p2, err := tlp.PGen(rand.Reader, pp, true)
	require.NoError(t, err)

	require.NotEqual(t, tlp.PuzzleID{}, p1.ID)
	require.NotEqual(t, p1.ID, p2.ID)
}

// TestPSolveRejectsMismatchedWidths exercises the IncompatibleState guard:
// a puzzle built for a different pp's circuit must not silently evaluate.
func TestPSolveRejectsMismatchedWidths(t *testing.T) {
	small := tlpcircuit.IdentityFunc(4)
	ppSmall, err := tlp.PSetup(rand.Reader, small, 2)
	require.NoError(t, err)

	big := tlpcircuit.IdentityFunc(8)
	ppBig, err := tlp.PSetup(rand.Reader, big, 2)
	require.NoError(t, err)

	puzzle, err := tlp.PGen(rand.Reader, ppBig, true)
	require.NoError(t, err)

	_, err = tlp.PSolve(ppSmall, puzzle)
	require.Error(t, err)
}

// TestSolveTakesLongerThanGen mirrors §8 scenario 4's timing property:
// PSolve does Θ(T) sequential gate evaluation over a large unrolled
// circuit, while PGen only samples a few short random bit strings, so
// solving should measurably outlast generation once T is large enough to
// dominate constant overhead.
func TestSolveTakesLongerThanGen(t *testing.T) {
	if testing.Short() {
		t.Skip("timing comparison is slow under -short")
	}
	f := tlpcircuit.XORMixingFunc(64)
	pp, err := tlp.PSetup(rand.Reader, f, 400)
	require.NoError(t, err)

	genStart := time.Now()
	puzzle, err := tlp.PGen(rand.Reader, pp, true)
	require.NoError(t, err)
	genTime := time.Since(genStart)

	solveStart := time.Now()
	got, err := tlp.PSolve(pp, puzzle)
	require.NoError(t, err)
	solveTime := time.Since(solveStart)

	require.True(t, got)
	require.Greater(t, solveTime, genTime)
}
