// Package rgcio reads and writes the three-file RGC artifact format of §6
// (details/gates/inputA), plus a Bristol re-exporter that reverse-maps a
// garbled circuit's rewritten truth tables back to mnemonic gate names for
// human inspection. Neither direction is part of the core: this package
// only consumes circuit.Circuit and garble.GarbledCircuit's public fields,
// matching §6's framing of file I/O as an external collaborator.
//
// Grounded on original_source/python-crgc/crgc/circuit_writer.py (RGC
// artifact emission), circuit_reader.py (RGC artifact ingestion), and
// bristol_writer.py's truth_table_to_gate_type lookup, rewritten against
// this module's own circuit.Circuit/Table types.
package rgcio

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"golang.org/x/crypto/blake2b"

	"github.com/tlsnotary/crgc-tlp/circuit"
	"github.com/tlsnotary/crgc-tlp/crgcerr"
	"github.com/tlsnotary/crgc-tlp/garble"
)

// Fingerprint is a content-addressed digest of an RGC artifact, distinct
// from any SHA-256 circuit a caller might use as the TLP's sequential
// function f, so the two never get confused by name.
type Fingerprint [32]byte

// String renders the fingerprint as a hex string.
func (f Fingerprint) String() string {
	return fmt.Sprintf("%x", [32]byte(f))
}

// Sum hashes the three RGC artifact files' logical content (details, gate
// table, obfuscated input A) with blake2b-256, the way the teacher's
// utils.Generichash backs its own artifact/label hashing.
func Sum(gc *garble.GarbledCircuit, aPrime []bool) (Fingerprint, error) {
	h, err := blake2b.New256(nil)
	if err != nil {
		return Fingerprint{}, fmt.Errorf("rgcio: blake2b init: %w", err)
	}
	if err := writeDetails(h, gc.Circuit.Details); err != nil {
		return Fingerprint{}, err
	}
	if err := writeGates(h, gc.Circuit); err != nil {
		return Fingerprint{}, err
	}
	if err := writeInputA(h, aPrime); err != nil {
		return Fingerprint{}, err
	}
	var out Fingerprint
	copy(out[:], h.Sum(nil))
	return out, nil
}

// Write emits the three sibling RGC artifact files <dir>/<name>_rgc_details.txt,
// <dir>/<name>_rgc.txt, and <dir>/<name>_rgc_inputA.txt for a garbled
// circuit and its obfuscated input A′.
func Write(dir, name string, gc *garble.GarbledCircuit, aPrime []bool) error {
	if len(aPrime) != gc.Circuit.Details.InputABits {
		return crgcerr.NewInvalidInput("aPrime", "expected %d bits, got %d", gc.Circuit.Details.InputABits, len(aPrime))
	}

	detailsPath := filepath.Join(dir, name+"_rgc_details.txt")
	gatesPath := filepath.Join(dir, name+"_rgc.txt")
	inputAPath := filepath.Join(dir, name+"_rgc_inputA.txt")

	if err := writeFile(detailsPath, func(w io.Writer) error { return writeDetails(w, gc.Circuit.Details) }); err != nil {
		return err
	}
	if err := writeFile(gatesPath, func(w io.Writer) error { return writeGates(w, gc.Circuit) }); err != nil {
		return err
	}
	if err := writeFile(inputAPath, func(w io.Writer) error { return writeInputA(w, aPrime) }); err != nil {
		return err
	}
	return nil
}

func writeFile(path string, emit func(io.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("rgcio: create %s: %w", path, err)
	}
	defer f.Close()
	bw := bufio.NewWriter(f)
	if err := emit(bw); err != nil {
		return err
	}
	return bw.Flush()
}

func writeDetails(w io.Writer, d circuit.Details) error {
	_, err := fmt.Fprintf(w, "%d %d\n2 %d %d\n%d %d\n", d.NumGates, d.NumWires, d.InputABits, d.InputBBits, d.NumOutputs, d.OutputBits)
	return err
}

func writeGates(w io.Writer, c *circuit.Circuit) error {
	for _, g := range c.Gates {
		if _, err := fmt.Fprintf(w, "%d %d %d %s\n", g.Left, g.Right, g.Output, g.Table.String()); err != nil {
			return err
		}
	}
	return nil
}

func writeInputA(w io.Writer, aPrime []bool) error {
	var sb strings.Builder
	for _, bit := range aPrime {
		if bit {
			sb.WriteByte('1')
		} else {
			sb.WriteByte('0')
		}
	}
	sb.WriteByte('\n')
	_, err := io.WriteString(w, sb.String())
	return err
}

// Read parses the three sibling RGC artifact files back into a
// garble.GarbledCircuit and the obfuscated input A′ they encode. It performs
// no re-derivation of pk: a caller that also needs pk must retain it
// separately from PSetup, since the RGC format (unlike this module's
// internal GarbledCircuit) has no field reserved for it.
func Read(dir, name string) (*garble.GarbledCircuit, []bool, error) {
	details, err := readDetails(filepath.Join(dir, name+"_rgc_details.txt"))
	if err != nil {
		return nil, nil, err
	}
	gates, err := readGates(filepath.Join(dir, name+"_rgc.txt"), details.NumGates)
	if err != nil {
		return nil, nil, err
	}
	aPrime, err := readInputA(filepath.Join(dir, name+"_rgc_inputA.txt"), details.InputABits)
	if err != nil {
		return nil, nil, err
	}
	c := &circuit.Circuit{Details: details, Gates: gates}
	if err := c.Validate(); err != nil {
		return nil, nil, crgcerr.NewMalformedCircuit("rgcio: %v", err)
	}
	return &garble.GarbledCircuit{Circuit: c}, aPrime, nil
}

func readDetails(path string) (circuit.Details, error) {
	f, err := os.Open(path)
	if err != nil {
		return circuit.Details{}, fmt.Errorf("rgcio: open %s: %w", path, err)
	}
	defer f.Close()
	sc := bufio.NewScanner(f)

	line1, err := nextLine(sc)
	if err != nil {
		return circuit.Details{}, err
	}
	numGates, numWires, err := parseTwoInts(line1)
	if err != nil {
		return circuit.Details{}, crgcerr.NewMalformedCircuit("rgcio: header line 1: %v", err)
	}

	line2, err := nextLine(sc)
	if err != nil {
		return circuit.Details{}, err
	}
	fields := strings.Fields(line2)
	if len(fields) != 3 {
		return circuit.Details{}, crgcerr.NewMalformedCircuit("rgcio: header line 2: expected 3 fields, got %d", len(fields))
	}
	numInputs, err := strconv.Atoi(fields[0])
	if err != nil || numInputs != 2 {
		return circuit.Details{}, crgcerr.NewMalformedCircuit("rgcio: header line 2: num_inputs must be 2")
	}
	inputABits, err1 := strconv.Atoi(fields[1])
	inputBBits, err2 := strconv.Atoi(fields[2])
	if err1 != nil || err2 != nil {
		return circuit.Details{}, crgcerr.NewMalformedCircuit("rgcio: header line 2: non-integer field")
	}

	line3, err := nextLine(sc)
	if err != nil {
		return circuit.Details{}, err
	}
	numOutputs, outputBits, err := parseTwoInts(line3)
	if err != nil {
		return circuit.Details{}, crgcerr.NewMalformedCircuit("rgcio: header line 3: %v", err)
	}

	return circuit.Details{
		NumWires:   numWires,
		NumGates:   numGates,
		NumOutputs: numOutputs,
		InputABits: inputABits,
		InputBBits: inputBBits,
		OutputBits: outputBits,
	}, nil
}

func readGates(path string, numGates int) ([]circuit.Gate, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("rgcio: open %s: %w", path, err)
	}
	defer f.Close()
	sc := bufio.NewScanner(f)

	gates := make([]circuit.Gate, 0, numGates)
	line := 0
	for sc.Scan() {
		line++
		text := strings.TrimSpace(sc.Text())
		if text == "" {
			continue
		}
		fields := strings.Fields(text)
		if len(fields) != 4 {
			return nil, crgcerr.NewMalformedCircuitAt(line, "expected 4 fields, got %d", len(fields))
		}
		left, err1 := strconv.Atoi(fields[0])
		right, err2 := strconv.Atoi(fields[1])
		output, err3 := strconv.Atoi(fields[2])
		if err1 != nil || err2 != nil || err3 != nil {
			return nil, crgcerr.NewMalformedCircuitAt(line, "non-integer wire id")
		}
		table, err := parseTableField(fields[3])
		if err != nil {
			return nil, crgcerr.NewMalformedCircuitAt(line, "%v", err)
		}
		gates = append(gates, circuit.Gate{Left: left, Right: right, Output: output, Table: table})
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("rgcio: reading %s: %w", path, err)
	}
	if len(gates) != numGates {
		return nil, crgcerr.NewMalformedCircuit("rgcio: header declares %d gates but body holds %d", numGates, len(gates))
	}
	return gates, nil
}

func parseTableField(s string) (circuit.Table, error) {
	if len(s) != 4 {
		return circuit.Table{}, fmt.Errorf("truth table field must be exactly 4 characters, got %q", s)
	}
	bit := func(c byte) (bool, error) {
		switch c {
		case '0':
			return false, nil
		case '1':
			return true, nil
		default:
			return false, fmt.Errorf("truth table field has non-binary character %q", c)
		}
	}
	var t circuit.Table
	var err error
	if t[0][0], err = bit(s[0]); err != nil {
		return t, err
	}
	if t[0][1], err = bit(s[1]); err != nil {
		return t, err
	}
	if t[1][0], err = bit(s[2]); err != nil {
		return t, err
	}
	if t[1][1], err = bit(s[3]); err != nil {
		return t, err
	}
	return t, nil
}

func readInputA(path string, inputABits int) ([]bool, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("rgcio: open %s: %w", path, err)
	}
	text := strings.TrimSpace(string(data))
	if len(text) != inputABits {
		return nil, crgcerr.NewInvalidInput("input_a", "expected %d bits, got %d", inputABits, len(text))
	}
	bits := make([]bool, inputABits)
	for i := 0; i < inputABits; i++ {
		switch text[i] {
		case '0':
			bits[i] = false
		case '1':
			bits[i] = true
		default:
			return nil, crgcerr.NewInvalidInput("input_a", "non-binary character %q at position %d", text[i], i)
		}
	}
	return bits, nil
}

func nextLine(sc *bufio.Scanner) (string, error) {
	if !sc.Scan() {
		if err := sc.Err(); err != nil {
			return "", fmt.Errorf("rgcio: %w", err)
		}
		return "", crgcerr.NewMalformedCircuit("rgcio: unexpected end of file reading header")
	}
	return sc.Text(), nil
}

func parseTwoInts(line string) (int, int, error) {
	fields := strings.Fields(line)
	if len(fields) != 2 {
		return 0, 0, fmt.Errorf("expected 2 fields, got %d", len(fields))
	}
	a, err1 := strconv.Atoi(fields[0])
	b, err2 := strconv.Atoi(fields[1])
	if err1 != nil || err2 != nil {
		return 0, 0, fmt.Errorf("non-integer field in %q", line)
	}
	return a, b, nil
}
