// Package tlpcircuit builds the T-fold unrolled circuit C_T of §4.5: T
// serial copies of a sequential function f over a λ-bit register x, plus a
// final λ-bit multiplexer that emits m when the control bit b is 0 and
// x⊕z when b is 1.
//
// Grounded on original_source/python-crgc/tlp_circuit_builder.py's
// TLPCircuitBuilder (build_mux_1bit, build_xor_nbits,
// create_tlp_unrolled_circuit), rebuilt against this module's own
// circuit.Circuit/Gate types instead of a mutable Python object graph, and
// laid out per the wire order spec.md §4.5 states explicitly: A-side bits
// are (b, x, i) and B-side bits are (m, z).
package tlpcircuit

import (
	"github.com/tlsnotary/crgc-tlp/circuit"
	"github.com/tlsnotary/crgc-tlp/crgcerr"
)

// SequentialFunc is a pure λ-bit-in, λ-bit-out Bristol circuit: the
// sequential function f whose T-fold composition the TLP unrolls. It
// carries no B-side input of its own — a real f is a single-input
// circuit, so implementations should set InputBBits to 0 or simply not
// reference it.
type SequentialFunc struct {
	Lambda int
	// Circuit is f expressed with its own private wire ids: input bit k
	// (0 = MSB of f's λ-bit input) sits on wire
	// circuit.WireForInputBit(k, λ), and output wires are read back the same
	// way evaluate.Evaluate would for a 1-input-word, 1-output-word
	// circuit. Build implements the id translation needed to splice T
	// copies of this circuit together.
	Circuit *circuit.Circuit
}

// Layout describes where every semantic field of C_T's A-side and B-side
// input bundles lives, since PGen/PSolve need to translate (b, x, i) and
// (m, z) bit arrays into wire assignments.
type Layout struct {
	Lambda    int
	T         int
	IBits     int
	InputABits int
	InputBBits int
	// BWire is the wire id of the control bit b.
	BWire int
	// XWires[j] is the wire id of x's bit j (0 = MSB), among the A-side
	// input wires (iteration 0's x register, before any copy of f runs).
	XWires []int
	// IWires[j] is the wire id of iteration counter bit j. Present only
	// so a caller inspecting the raw wire layout can find it; C_T's
	// semantics never read these wires (§4.5's i is dead in the
	// flattened form).
	IWires []int
	// MWires[j] is the wire id of m's bit j among the B-side input wires.
	MWires []int
	// ZWires[j] is the wire id of z's bit j among the B-side input wires.
	ZWires []int
}

// IBitsForT returns ceil(log2(T+1)), the width §4.5 assigns to the
// (unused, dead) iteration counter.
func IBitsForT(t int) int {
	n := t + 1
	bits := 0
	for (1 << bits) < n {
		bits++
	}
	if bits == 0 {
		bits = 1
	}
	return bits
}

// Build constructs C_T for the given sequential function and unrolling
// count T, returning both the circuit and the wire layout PGen/PSolve
// need to encode/decode the A-side and B-side bundles.
func Build(f SequentialFunc, t int) (*circuit.Circuit, Layout, error) {
	if t < 1 {
		return nil, Layout{}, crgcerr.NewInvalidInput("t", "must be >= 1, got %d", t)
	}
	lambda := f.Lambda
	if lambda <= 0 {
		return nil, Layout{}, crgcerr.NewInvalidInput("lambda", "must be > 0, got %d", lambda)
	}
	if f.Circuit.Details.InputABits != lambda || f.Circuit.Details.NumOutputs*f.Circuit.Details.OutputBits != lambda {
		return nil, Layout{}, crgcerr.NewInvalidInput("f", "sequential function must be lambda-bit-in, lambda-bit-out")
	}

	iBits := IBitsForT(t)
	inputABits := 1 + lambda + iBits
	inputBBits := 2 * lambda

	layout := Layout{
		Lambda: lambda, T: t, IBits: iBits,
		InputABits: inputABits, InputBBits: inputBBits,
	}
	// A-side bundle order (b, x, i): b occupies the top wire of the
	// A-side block, x the next lambda wires down, i the bottom iBits
	// wires (dead weight, but the space is reserved so the bundle's
	// total width matches §4.5 exactly).
	layout.BWire = inputABits - 1
	layout.XWires = make([]int, lambda)
	for j := 0; j < lambda; j++ {
		layout.XWires[j] = inputABits - 2 - j
	}
	layout.IWires = make([]int, iBits)
	for j := 0; j < iBits; j++ {
		layout.IWires[j] = iBits - 1 - j
	}
	// B-side bundle order (m, z): m occupies the top lambda wires of the
	// B-side block, z the bottom lambda wires.
	layout.MWires = make([]int, lambda)
	layout.ZWires = make([]int, lambda)
	for j := 0; j < lambda; j++ {
		layout.MWires[j] = inputABits + inputBBits - 1 - j
		layout.ZWires[j] = inputABits + lambda - 1 - j
	}

	b := newBuilder(inputABits + inputBBits)

	// currentX[j] (j=0 MSB) is the wire currently holding bit j of the
	// running x register, starting at the A-side x wires.
	currentX := make([]int, lambda)
	for j := 0; j < lambda; j++ {
		currentX[j] = layout.XWires[j]
	}

	for iter := 0; iter < t; iter++ {
		currentX = b.spliceSequentialFunc(f.Circuit, currentX)
	}

	muxOut := b.mux(layout.BWire, currentX, layout.MWires, layout.ZWires)

	outputBits := lambda
	finalNumWires := b.next + lambda
	for j := 0; j < lambda; j++ {
		out := circuit.WireForOutputBit(finalNumWires, outputBits, 0, j)
		b.gates = append(b.gates, circuit.Gate{Left: muxOut[j], Right: muxOut[j], Output: out, Table: circuit.TableAND})
	}
	b.next = finalNumWires

	details := circuit.Details{
		NumWires:   b.next,
		NumGates:   len(b.gates),
		NumOutputs: 1,
		InputABits: inputABits,
		InputBBits: inputBBits,
		OutputBits: outputBits,
	}
	ct := &circuit.Circuit{Details: details, Gates: b.gates}
	if err := ct.Validate(); err != nil {
		return nil, Layout{}, crgcerr.NewMalformedCircuit("internal: TLP builder produced an invalid circuit: %v", err)
	}
	return ct, layout, nil
}

// builder allocates fresh wire ids above the input block and accumulates
// gates for the boolean primitives §4.5 needs (NOT, AND, OR, XOR, MUX).
type builder struct {
	next  int
	gates []circuit.Gate
}

func newBuilder(inputBits int) *builder {
	return &builder{next: inputBits}
}

func (b *builder) alloc() int {
	w := b.next
	b.next++
	return w
}

func (b *builder) and(l, r int) int {
	out := b.alloc()
	b.gates = append(b.gates, circuit.Gate{Left: l, Right: r, Output: out, Table: circuit.TableAND})
	return out
}

func (b *builder) or(l, r int) int {
	out := b.alloc()
	b.gates = append(b.gates, circuit.Gate{Left: l, Right: r, Output: out, Table: circuit.TableOR})
	return out
}

func (b *builder) xor(l, r int) int {
	out := b.alloc()
	b.gates = append(b.gates, circuit.Gate{Left: l, Right: r, Output: out, Table: circuit.TableXOR})
	return out
}

// not builds NOT(w) as a self-AND-shaped unary table: table[v][v] = ¬v,
// the same construction bristol.Parse materializes for a NOT gate that
// must physically exist as an output-producing gate.
func (b *builder) not(w int) int {
	out := b.alloc()
	b.gates = append(b.gates, circuit.Gate{Left: w, Right: w, Output: out, Table: circuit.Table{{true, true}, {false, false}}})
	return out
}

// mux1 builds a 1-bit multiplexer: select=0 -> in0, select=1 -> in1, via
// (¬select & in0) | (select & in1), the construction
// tlp_circuit_builder.py's build_mux_1bit uses.
func (b *builder) mux1(sel, in0, in1 int) int {
	notSel := b.not(sel)
	left := b.and(notSel, in0)
	right := b.and(sel, in1)
	return b.or(left, right)
}

// mux builds a lambda-bit multiplexer selecting between m (when sel=0)
// and x xor z (when sel=1), one gate block per bit, matching §4.5's "a
// final selector that emits m when b=0 and x⊕z when b=1".
func (b *builder) mux(sel int, x, m, z []int) []int {
	lambda := len(x)
	out := make([]int, lambda)
	for j := 0; j < lambda; j++ {
		xz := b.xor(x[j], z[j])
		out[j] = b.mux1(sel, m[j], xz)
	}
	return out
}

// spliceSequentialFunc embeds one copy of f, wiring its input to the
// current x register (currentX[j] holds f's semantic input bit j) and
// returns the wires holding f's output, in the same j=0-MSB convention.
// Gate ids are translated by the builder's monotonically increasing wire
// counter, which preserves f's topological order: f's own wire ids only
// ever needed to be less than its own output ids, and translated ids
// preserve that relative order exactly.
func (b *builder) spliceSequentialFunc(f *circuit.Circuit, currentX []int) []int {
	lambda := f.Details.InputABits
	translate := make([]int, f.Details.NumWires)
	for j := 0; j < lambda; j++ {
		fWire := circuit.WireForInputBit(j, lambda)
		translate[fWire] = currentX[j]
	}

	for _, g := range f.Gates {
		out := b.alloc()
		translate[g.Output] = out
		b.gates = append(b.gates, circuit.Gate{
			Left:   translate[g.Left],
			Right:  translate[g.Right],
			Output: out,
			Table:  g.Table,
		})
	}

	next := make([]int, lambda)
	for j := 0; j < lambda; j++ {
		fOutWire := circuit.WireForOutputBit(f.Details.NumWires, f.Details.OutputBits, 0, j)
		next[j] = translate[fOutWire]
	}
	return next
}
