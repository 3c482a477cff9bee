package rgcio_test

import (
	"bytes"
	"crypto/rand"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/tlsnotary/crgc-tlp/circuit"
	"github.com/tlsnotary/crgc-tlp/garble"
	"github.com/tlsnotary/crgc-tlp/rgcio"
)

func buildXorCircuit(width int) *circuit.Circuit {
	d := circuit.Details{InputABits: width, InputBBits: width, NumOutputs: 1, OutputBits: width, NumWires: 2*width + width}
	c := &circuit.Circuit{Details: d}
	for i := 0; i < width; i++ {
		a := circuit.WireForInputBit(i, width)
		b := width + circuit.WireForInputBit(i, width)
		out := circuit.WireForOutputBit(d.NumWires, width, 0, i)
		c.Gates = append(c.Gates, circuit.Gate{Left: a, Right: b, Output: out, Table: circuit.TableXOR})
	}
	c.Details.NumGates = len(c.Gates)
	return c
}

func TestRGCArtifactRoundTripsBitIdentically(t *testing.T) {
	c := buildXorCircuit(8)
	require.NoError(t, c.Validate())

	aPrime, _, err := garble.ObfuscateInput(rand.Reader, c.Details, make([]bool, c.Details.InputABits))
	require.NoError(t, err)

	gc := &garble.GarbledCircuit{Circuit: c}
	dir := t.TempDir()
	require.NoError(t, rgcio.Write(dir, "test", gc, aPrime))

	readBack, readAPrime, err := rgcio.Read(dir, "test")
	require.NoError(t, err)

	require.Equal(t, gc.Circuit.Details, readBack.Circuit.Details)
	require.Equal(t, gc.Circuit.Gates, readBack.Circuit.Gates)
	require.Equal(t, aPrime, readAPrime)
}

func TestRGCArtifactFilesExistWithExpectedNames(t *testing.T) {
	c := buildXorCircuit(4)
	gc := &garble.GarbledCircuit{Circuit: c}
	aPrime := make([]bool, c.Details.InputABits)

	dir := t.TempDir()
	require.NoError(t, rgcio.Write(dir, "mycircuit", gc, aPrime))

	for _, suffix := range []string{"_rgc_details.txt", "_rgc.txt", "_rgc_inputA.txt"} {
		_, err := os.Stat(filepath.Join(dir, "mycircuit"+suffix))
		require.NoError(t, err, "expected file with suffix %s", suffix)
	}
}

func TestSumIsDeterministic(t *testing.T) {
	c := buildXorCircuit(4)
	gc := &garble.GarbledCircuit{Circuit: c}
	aPrime := make([]bool, c.Details.InputABits)

	f1, err := rgcio.Sum(gc, aPrime)
	require.NoError(t, err)
	f2, err := rgcio.Sum(gc, aPrime)
	require.NoError(t, err)
	require.Equal(t, f1, f2)
	require.NotEmpty(t, f1.String())
}

func TestSumChangesWithGateTable(t *testing.T) {
	c1 := buildXorCircuit(4)
	c2 := buildXorCircuit(4)
	c2.Gates[0].Table = circuit.TableAND

	aPrime := make([]bool, c1.Details.InputABits)
	f1, err := rgcio.Sum(&garble.GarbledCircuit{Circuit: c1}, aPrime)
	require.NoError(t, err)
	f2, err := rgcio.Sum(&garble.GarbledCircuit{Circuit: c2}, aPrime)
	require.NoError(t, err)
	require.NotEqual(t, f1, f2)
}

func TestWriteBristolAnnotatesRecognizedGates(t *testing.T) {
	c := buildXorCircuit(2)
	var buf bytes.Buffer
	require.NoError(t, rgcio.WriteBristol(&buf, c))

	out := buf.String()
	require.True(t, strings.Contains(out, "# XOR"))
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Equal(t, "2 6", lines[0])
	require.Equal(t, "2 2 2", lines[1])
}
