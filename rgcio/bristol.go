package rgcio

import (
	"bufio"
	"fmt"
	"io"

	"github.com/tlsnotary/crgc-tlp/circuit"
)

// mnemonics catalogs the sixteen possible 2x2 truth tables a garbled or
// rewritten binary gate can still recognizably be named after, with A the
// left input and B the right, modeled on the lookup bristol_writer.py's
// truth_table_to_gate_type uses (extended past
// AND/OR/XOR to every degenerate two-input function, since garbling can
// legitimately rewrite a gate into any of them).
var mnemonics = map[circuit.Table]string{
	{{false, false}, {false, true}}: "AND",
	{{false, true}, {true, true}}:   "OR",
	{{false, true}, {true, false}}:  "XOR",
	{{true, false}, {false, false}}: "NOR",
	{{true, false}, {false, true}}:  "XNOR",
	{{true, true}, {true, false}}:   "NAND",
	{{true, false}, {true, true}}:   "INV_A",
	{{true, true}, {false, true}}:   "INV_B",
	{{false, false}, {false, false}}: "FALSE",
	{{true, true}, {true, true}}:     "TRUE",
	{{false, false}, {true, false}}: "A_AND_NOT_B",
	{{false, true}, {false, false}}: "NOT_A_AND_B",
	{{true, false}, {true, false}}:  "NOT_B",
	{{false, true}, {false, true}}:  "B",
	{{false, false}, {true, true}}:  "A",
	{{true, true}, {false, false}}:  "NOT_A",
}

// truthTableToGateType names a table if it matches a known 2-input gate. A
// self-referential gate (Left == Right, so only the diagonal is ever
// evaluated) is named directly off its diagonal instead: the off-diagonal
// cells are filler and would otherwise make e.g. a self-AND buffer gate
// misleadingly print as "AND".
func truthTableToGateType(g circuit.Gate) string {
	if g.Left == g.Right {
		switch {
		case !g.Table[0][0] && g.Table[1][1]:
			return "BUF"
		case g.Table[0][0] && !g.Table[1][1]:
			return "NOT"
		case g.Table[0][0]:
			return "TRUE"
		default:
			return "FALSE"
		}
	}
	if name, ok := mnemonics[g.Table]; ok {
		return name
	}
	return "TABLE[" + g.Table.String() + "]"
}

// WriteBristol re-exports c in Bristol fashion for human inspection,
// annotating each gate line with a trailing "# NAME" comment naming the
// recognized gate type (or its raw table when garbling has randomized it
// past recognition). This is a diagnostic rendering, not a strict Bristol
// producer: a real Bristol consumer expects OP to be one of AND/OR/XOR/INV
// exactly, so a garbled circuit's TABLE[...] gates are not meant to be fed
// back into bristol.Parse.
func WriteBristol(w io.Writer, c *circuit.Circuit) error {
	bw := bufio.NewWriter(w)
	d := c.Details
	if _, err := fmt.Fprintf(bw, "%d %d\n", d.NumGates, d.NumWires); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(bw, "2 %d %d\n", d.InputABits, d.InputBBits); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(bw, "%d %d\n\n", d.NumOutputs, d.OutputBits); err != nil {
		return err
	}
	for _, g := range c.Gates {
		name := truthTableToGateType(g)
		if g.Left == g.Right {
			if _, err := fmt.Fprintf(bw, "1 1 %d %d # %s\n", g.Left, g.Output, name); err != nil {
				return err
			}
			continue
		}
		if _, err := fmt.Fprintf(bw, "2 1 %d %d %d # %s\n", g.Left, g.Right, g.Output, name); err != nil {
			return err
		}
	}
	return bw.Flush()
}
