package tlpcircuit_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/tlsnotary/crgc-tlp/evaluate"
	"github.com/tlsnotary/crgc-tlp/tlpcircuit"
)

// assemble packs (b, x, i=1) into an A-side bit array and (m, z) into a
// B-side bit array per the layout Build returns.
func assemble(layout tlpcircuit.Layout, b bool, x, m, z []bool) (aBits, bBits []bool) {
	aBits = make([]bool, layout.InputABits)
	bBits = make([]bool, layout.InputBBits)
	set := func(bits []bool, wire int, val bool) {
		idx := len(bits) - 1 - wire
		bits[idx] = val
	}
	set(aBits, layout.BWire, b)
	for j, w := range layout.XWires {
		set(aBits, w, x[j])
	}
	for j, w := range layout.IWires {
		// i is symbolic/dead; initialize to 1 per §4.5, low bit set.
		set(aBits, w, j == len(layout.IWires)-1)
	}
	for j, w := range layout.MWires {
		set(bBits, w-layout.InputABits, m[j])
	}
	for j, w := range layout.ZWires {
		set(bBits, w-layout.InputABits, z[j])
	}
	return aBits, bBits
}

func TestBuildMuxSelectsMWhenBIsZero(t *testing.T) {
	lambda := 8
	f := tlpcircuit.XORMixingFunc(lambda)
	ct, layout, err := tlpcircuit.Build(f, 3)
	require.NoError(t, err)
	require.NoError(t, ct.Validate())

	x := evaluate.BitsFromUint(0b10101010, lambda)
	m := evaluate.BitsFromUint(0b11110000, lambda)
	z := evaluate.BitsFromUint(0, lambda)

	aBits, bBits := assemble(layout, false, x, m, z)
	out, err := evaluate.Evaluate(ct, aBits, bBits)
	require.NoError(t, err)
	require.Equal(t, m, out)
}

func TestBuildMuxSelectsXXorZWhenBIsOne(t *testing.T) {
	lambda := 8
	f := tlpcircuit.IdentityFunc(lambda)
	ct, layout, err := tlpcircuit.Build(f, 4)
	require.NoError(t, err)

	x := evaluate.BitsFromUint(0b00110011, lambda)
	m := evaluate.BitsFromUint(0, lambda)
	z := evaluate.BitsFromUint(0b01010101, lambda)

	aBits, bBits := assemble(layout, true, x, m, z)
	out, err := evaluate.Evaluate(ct, aBits, bBits)
	require.NoError(t, err)

	// With f = identity, T-fold composition leaves x unchanged, so the
	// selector output must be exactly x xor z.
	want := make([]bool, lambda)
	for i := range want {
		want[i] = x[i] != z[i]
	}
	require.Equal(t, want, out)
}

func TestBuildRejectsInvalidT(t *testing.T) {
	f := tlpcircuit.IdentityFunc(4)
	_, _, err := tlpcircuit.Build(f, 0)
	require.Error(t, err)
}

func TestIBitsForT(t *testing.T) {
	require.Equal(t, 1, tlpcircuit.IBitsForT(1))
	require.Equal(t, 2, tlpcircuit.IBitsForT(2))
	require.Equal(t, 2, tlpcircuit.IBitsForT(3))
	require.Equal(t, 3, tlpcircuit.IBitsForT(4))
}
