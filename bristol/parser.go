// Package bristol reads circuits in Bristol Fashion and folds inverter
// gates into truth-table transforms on their consumers, so downstream
// packages only ever see two-input gates over 2x2 truth tables.
//
// Modeled on the header-then-body reading style of
// tlsnotary-server/src/garbler/garbler.go's ParseCircuit, generalized to
// the wire-aliasing inverter-elimination algorithm from
// original_source/python-crgc/crgc/circuit_reader.py's
// import_bristol_circuit_ex_not.
package bristol

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/tlsnotary/crgc-tlp/circuit"
	"github.com/tlsnotary/crgc-tlp/crgcerr"
)

// Parse reads a Bristol Fashion circuit from r, eliminating inverters per
// the wire-aliasing scheme, and returns a fully populated, validated
// Circuit. Its gates start from the AND/OR/XOR tables, with rows or columns
// swapped where a parent was inverted; a NOT on a circuit-output wire
// becomes a gate whose two parents are the same wire. Details.NumGates is
// the number of gates actually emitted, which is lower than the header's
// count when NOTs were folded away.
func Parse(r io.Reader) (*circuit.Circuit, error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)

	line := 0
	nextLine := func() ([]string, bool) {
		for sc.Scan() {
			line++
			fields := strings.Fields(sc.Text())
			if len(fields) == 0 {
				continue
			}
			return fields, true
		}
		return nil, false
	}

	hdr1, ok := nextLine()
	if !ok {
		return nil, crgcerr.NewMalformedCircuit("empty file: missing header line 1")
	}
	numGates, numWires, err := parseTwoInts(hdr1, "header line 1")
	if err != nil {
		return nil, err
	}

	hdr2, ok := nextLine()
	if !ok {
		return nil, crgcerr.NewMalformedCircuitAt(line, "missing header line 2")
	}
	if len(hdr2) < 3 {
		return nil, crgcerr.NewMalformedCircuitAt(line, "header line 2 needs 3 fields, got %d", len(hdr2))
	}
	numInputs, err := atoi(hdr2[0], "header line 2 field 1")
	if err != nil {
		return nil, err
	}
	if numInputs != 2 {
		return nil, crgcerr.NewMalformedCircuitAt(line, "num_inputs must be 2, got %d", numInputs)
	}
	inputABits, err := atoi(hdr2[1], "header line 2 field 2")
	if err != nil {
		return nil, err
	}
	inputBBits, err := atoi(hdr2[2], "header line 2 field 3")
	if err != nil {
		return nil, err
	}

	hdr3, ok := nextLine()
	if !ok {
		return nil, crgcerr.NewMalformedCircuitAt(line, "missing header line 3")
	}
	if len(hdr3) < 2 {
		return nil, crgcerr.NewMalformedCircuitAt(line, "header line 3 needs 2 fields, got %d", len(hdr3))
	}
	numOutputs, err := atoi(hdr3[0], "header line 3 field 1")
	if err != nil {
		return nil, err
	}
	outputBits, err := atoi(hdr3[1], "header line 3 field 2")
	if err != nil {
		return nil, err
	}

	details := circuit.Details{
		NumWires:   numWires,
		NumGates:   numGates,
		NumOutputs: numOutputs,
		InputABits: inputABits,
		InputBBits: inputBBits,
		OutputBits: outputBits,
	}
	if details.OutputStart() < details.TotalInputBits() {
		return nil, crgcerr.NewMalformedCircuit("outputs (%d*%d) do not fit in %d wires after %d input bits", numOutputs, outputBits, numWires, details.TotalInputBits())
	}

	alias := make([]int, numWires)
	flipped := make([]bool, numWires)
	for w := range alias {
		alias[w] = w
	}

	c := circuit.New(details)
	outputStart := details.OutputStart()
	bodyLines := 0

	for {
		fields, ok := nextLine()
		if !ok {
			break
		}
		bodyLines++
		if len(fields) < 5 {
			return nil, crgcerr.NewMalformedCircuitAt(line, "gate line needs at least 5 fields, got %d", len(fields))
		}
		nIn, err := atoi(fields[0], "gate n_in")
		if err != nil {
			return nil, err
		}
		nOut, err := atoi(fields[1], "gate n_out")
		if err != nil {
			return nil, err
		}
		if nOut != 1 {
			return nil, crgcerr.NewMalformedCircuitAt(line, "only single-output gates are supported, got n_out=%d", nOut)
		}

		switch nIn {
		case 1:
			if len(fields) < 4 {
				return nil, crgcerr.NewMalformedCircuitAt(line, "unary gate line needs 4 fields, got %d", len(fields))
			}
			parent, err := atoi(fields[2], "gate parent wire")
			if err != nil {
				return nil, err
			}
			out, err := atoi(fields[3], "gate output wire")
			if err != nil {
				return nil, err
			}
			op := strings.ToUpper(fields[len(fields)-1])
			if op != "NOT" && op != "INV" {
				return nil, crgcerr.NewMalformedCircuitAt(line, "unknown unary operator %q", op)
			}
			if err := checkBounds(numWires, parent, out); err != nil {
				return nil, crgcerr.NewMalformedCircuitAt(line, "%v", err)
			}

			if out < outputStart {
				alias[out] = alias[parent]
				flipped[out] = !flipped[parent]
				continue
			}

			// Output wire: a NOT must physically exist as a gate, since
			// every circuit-output wire has to be produced by a gate. Emit
			// a self-XOR whose table realizes the inversion of alias[parent].
			p := alias[parent]
			if p >= out {
				return nil, crgcerr.NewMalformedCircuitAt(line, "non-topological gate: parent wire %d >= output wire %d", p, out)
			}
			// left == right, so only the diagonal is ever read; build a
			// table that inverts the left parent's semantic value and
			// ignores the (identical) right parent.
			tbl := circuit.Table{{true, true}, {false, false}}
			if flipped[parent] {
				tbl.SwapRows()
			}
			c.Gates = append(c.Gates, circuit.Gate{Left: p, Right: p, Output: out, Table: tbl})

		case 2:
			if len(fields) < 5 {
				return nil, crgcerr.NewMalformedCircuitAt(line, "binary gate line needs 5 fields, got %d", len(fields))
			}
			left, err := atoi(fields[2], "gate left parent")
			if err != nil {
				return nil, err
			}
			right, err := atoi(fields[3], "gate right parent")
			if err != nil {
				return nil, err
			}
			out, err := atoi(fields[4], "gate output wire")
			if err != nil {
				return nil, err
			}
			op := strings.ToUpper(fields[len(fields)-1])

			var tbl circuit.Table
			switch op {
			case "AND":
				tbl = circuit.TableAND
			case "OR":
				tbl = circuit.TableOR
			case "XOR":
				tbl = circuit.TableXOR
			default:
				return nil, crgcerr.NewMalformedCircuitAt(line, "unknown binary operator %q", op)
			}
			if err := checkBounds(numWires, left, right, out); err != nil {
				return nil, crgcerr.NewMalformedCircuitAt(line, "%v", err)
			}

			al, ar := alias[left], alias[right]
			if flipped[left] {
				tbl.SwapRows()
			}
			if flipped[right] {
				tbl.SwapCols()
			}
			if al >= out || ar >= out {
				return nil, crgcerr.NewMalformedCircuitAt(line, "non-topological gate: parents %d,%d >= output %d", al, ar, out)
			}
			c.Gates = append(c.Gates, circuit.Gate{Left: al, Right: ar, Output: out, Table: tbl})
			flipped[out] = false

		default:
			return nil, crgcerr.NewMalformedCircuitAt(line, "unsupported gate arity n_in=%d", nIn)
		}
	}

	if bodyLines != numGates {
		return nil, crgcerr.NewMalformedCircuit("header declares %d gates, body has %d", numGates, bodyLines)
	}
	// Folded NOTs emit no gate, so the physical gate count can be lower
	// than the header's.
	c.Details.NumGates = len(c.Gates)
	if err := c.Validate(); err != nil {
		return nil, crgcerr.NewMalformedCircuit("%v", err)
	}
	return c, nil
}

func checkBounds(numWires int, wires ...int) error {
	for _, w := range wires {
		if w < 0 || w >= numWires {
			return fmt.Errorf("wire id %d out of range [0,%d)", w, numWires)
		}
	}
	return nil
}

func parseTwoInts(fields []string, ctx string) (int, int, error) {
	if len(fields) < 2 {
		return 0, 0, crgcerr.NewMalformedCircuit("%s needs 2 fields, got %d", ctx, len(fields))
	}
	a, err := atoi(fields[0], ctx+" field 1")
	if err != nil {
		return 0, 0, err
	}
	b, err := atoi(fields[1], ctx+" field 2")
	if err != nil {
		return 0, 0, err
	}
	return a, b, nil
}

func atoi(s, ctx string) (int, error) {
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, crgcerr.NewMalformedCircuit("%s: %q is not an integer", ctx, s)
	}
	return n, nil
}
